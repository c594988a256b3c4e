package withdrawal

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"

	"kambafy/internal/domain"
	"kambafy/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const targetWithdrawal = "withdrawal_request"

type Service struct {
	store Store
	users UserReader
	log   zerolog.Logger
	now   func() time.Time
}

func NewService(store Store, users UserReader, log zerolog.Logger) *Service {
	return &Service{
		store: store,
		users: users,
		log:   log.With().Str("component", "withdrawal").Logger(),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Balance returns the seller's balances, one per currency.
func (s *Service) Balance(ctx context.Context, sellerID uuid.UUID) ([]Balance, error) {
	seller, err := s.users.GetByID(ctx, sellerID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrSellerNotFound
		}
		return nil, fmt.Errorf("load seller: %w", err)
	}
	orders, err := s.store.CompletedOrders(ctx, sellerID)
	if err != nil {
		return nil, fmt.Errorf("load orders: %w", err)
	}
	reserved, err := s.store.Reserved(ctx, sellerID)
	if err != nil {
		return nil, fmt.Errorf("load withdrawals: %w", err)
	}
	return ComputeBalances(sellerID, orders, reserved, seller.RetentionPercent), nil
}

// Request creates a pending withdrawal while holding a lock on the seller row,
// so concurrent requests cannot both spend the same available balance.
// Only the available balance in the requested currency counts.
func (s *Service) Request(ctx context.Context, sellerID uuid.UUID, amount decimal.Decimal, currency string) (*domain.WithdrawalRequest, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	amount = amount.Round(2)
	currency = domain.NormalizeCurrency(currency)
	if !validCurrency(currency) {
		return nil, ErrInvalidCurrency
	}

	var created *domain.WithdrawalRequest
	err := s.store.WithTx(ctx, func(tx *repository.WithdrawalRepository) error {
		seller, err := tx.LockSeller(ctx, sellerID)
		if err != nil {
			if repository.IsNotFound(err) {
				return ErrSellerNotFound
			}
			return err
		}
		if seller.IsBanned {
			return ErrSellerBanned
		}

		orders, err := tx.CompletedOrders(ctx, sellerID)
		if err != nil {
			return err
		}
		reserved, err := tx.Reserved(ctx, sellerID)
		if err != nil {
			return err
		}
		b := ComputeBalance(sellerID, currency, orders, reserved, seller.RetentionPercent)
		if amount.GreaterThan(b.Available) {
			return ErrInsufficientFunds
		}

		w := &domain.WithdrawalRequest{
			SellerID:    sellerID,
			Amount:      amount,
			Currency:    currency,
			Status:      domain.WithdrawalPending,
			RequestedAt: s.now(),
		}
		if err := tx.Create(ctx, w); err != nil {
			return err
		}
		created = w
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("seller_id", sellerID.String()).
		Str("amount", amount.String()).
		Str("currency", currency).
		Msg("withdrawal requested")
	return created, nil
}

func (s *Service) ListMine(ctx context.Context, sellerID uuid.UUID) ([]domain.WithdrawalRequest, error) {
	return s.store.ListBySeller(ctx, sellerID)
}

func (s *Service) Approve(ctx context.Context, adminID, id uuid.UUID, notes string) (*domain.WithdrawalRequest, error) {
	return s.decide(ctx, adminID, id, notes, domain.WithdrawalApproved, domain.ActionApproveWithdraw)
}

func (s *Service) Reject(ctx context.Context, adminID, id uuid.UUID, notes string) (*domain.WithdrawalRequest, error) {
	return s.decide(ctx, adminID, id, notes, domain.WithdrawalRejected, domain.ActionRejectWithdraw)
}

func (s *Service) decide(ctx context.Context, adminID, id uuid.UUID, notes string, to domain.WithdrawalStatus, action string) (*domain.WithdrawalRequest, error) {
	admin, err := s.users.GetByID(ctx, adminID)
	if err != nil {
		return nil, fmt.Errorf("load admin: %w", err)
	}

	var decided *domain.WithdrawalRequest
	err = s.store.WithTx(ctx, func(tx *repository.WithdrawalRepository) error {
		w, err := tx.GetForUpdate(ctx, id)
		if err != nil {
			if repository.IsNotFound(err) {
				return ErrNotFound
			}
			return err
		}
		if w.Status != domain.WithdrawalPending {
			return ErrInvalidTransition
		}

		now := s.now()
		w.Status = to
		w.AdminID = &admin.ID
		w.AdminNotes = notes
		w.ProcessedAt = &now
		if err := tx.Save(ctx, w); err != nil {
			return err
		}

		details, err := json.Marshal(map[string]any{
			"seller_id": w.SellerID,
			"amount":    w.Amount,
			"currency":  w.Currency,
			"notes":     notes,
		})
		if err != nil {
			return err
		}
		if err := tx.AppendLog(ctx, &domain.AdminActionLog{
			AdminID:    &admin.ID,
			AdminEmail: admin.Email,
			Action:     action,
			TargetType: targetWithdrawal,
			TargetID:   w.ID.String(),
			Details:    details,
		}); err != nil {
			return err
		}
		decided = w
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("withdrawal_id", id.String()).
		Str("status", string(to)).
		Str("admin_id", adminID.String()).
		Msg("withdrawal decided")
	return decided, nil
}

// AllWithdrawals lists every request, optionally filtered by status.
func (s *Service) AllWithdrawals(ctx context.Context, status string) ([]domain.WithdrawalRequest, error) {
	st := domain.WithdrawalStatus(status)
	switch st {
	case "", domain.WithdrawalPending, domain.WithdrawalApproved, domain.WithdrawalRejected:
	default:
		return nil, ErrInvalidStatusQuery
	}
	return s.store.List(ctx, st)
}

// AllBalances returns one balance per seller and currency, largest first.
// Balances in different currencies are never summed together.
func (s *Service) AllBalances(ctx context.Context) ([]Balance, error) {
	sellers, err := s.users.ListSellers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sellers: %w", err)
	}
	orders, err := s.store.AllCompletedOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("load orders: %w", err)
	}
	reserved, err := s.store.Reserved(ctx, uuid.Nil)
	if err != nil {
		return nil, fmt.Errorf("load withdrawals: %w", err)
	}

	ordersBySeller := make(map[uuid.UUID][]domain.Order)
	for _, o := range orders {
		ordersBySeller[o.SellerID] = append(ordersBySeller[o.SellerID], o)
	}
	reservedBySeller := make(map[uuid.UUID][]domain.WithdrawalRequest)
	for _, w := range reserved {
		reservedBySeller[w.SellerID] = append(reservedBySeller[w.SellerID], w)
	}

	out := make([]Balance, 0, len(sellers))
	for _, u := range sellers {
		for _, b := range ComputeBalances(u.ID, ordersBySeller[u.ID], reservedBySeller[u.ID], u.RetentionPercent) {
			b.SellerName, b.SellerEmail = u.Name, u.Email
			out = append(out, b)
		}
	}
	slices.SortFunc(out, func(a, b Balance) int {
		if c := strings.Compare(a.Currency, b.Currency); c != 0 {
			return c
		}
		if c := b.Balance.Cmp(a.Balance); c != 0 {
			return c
		}
		return strings.Compare(a.SellerEmail, b.SellerEmail)
	})
	return out, nil
}

// TotalBalance sums every seller's balance per currency.
func (s *Service) TotalBalance(ctx context.Context) (map[string]decimal.Decimal, error) {
	balances, err := s.AllBalances(ctx)
	if err != nil {
		return nil, err
	}
	totals := make(map[string]decimal.Decimal)
	for _, b := range balances {
		total, ok := totals[b.Currency]
		if !ok {
			total = decimal.Zero
		}
		totals[b.Currency] = total.Add(b.Balance)
	}
	return totals, nil
}

func validCurrency(code string) bool {
	if len(code) != 3 {
		return false
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}
