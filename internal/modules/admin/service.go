package admin

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"kambafy/internal/domain"
	"kambafy/internal/modules/mailer"
	"kambafy/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const (
	targetProduct = "product"
	targetUser    = "user"
	targetEmail   = "email"

	defaultImpersonation = 30 * time.Minute
	maxImpersonation     = 60 * time.Minute
)

type Service struct {
	users    UserRepository
	products ProductRepository
	audit    AuditLog
	mail     Mailer
	tokens   TokenIssuer
	maxTTL   time.Duration
	log      zerolog.Logger
	now      func() time.Time
}

// NewService caps impersonation at maxTTL, never above one hour.
func NewService(users UserRepository, products ProductRepository, audit AuditLog, mail Mailer, tokens TokenIssuer, maxTTL time.Duration, log zerolog.Logger) *Service {
	if maxTTL <= 0 || maxTTL > maxImpersonation {
		maxTTL = maxImpersonation
	}
	return &Service{
		users:    users,
		products: products,
		audit:    audit,
		mail:     mail,
		tokens:   tokens,
		maxTTL:   maxTTL,
		log:      log.With().Str("component", "admin").Logger(),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// -------------------- Products --------------------

func (s *Service) BanProduct(ctx context.Context, adminID, productID uuid.UUID, reason string) (*domain.Product, error) {
	return s.setProductStatus(ctx, adminID, productID, domain.ProductBanned, domain.ActionBanProduct, reason)
}

func (s *Service) UnbanProduct(ctx context.Context, adminID, productID uuid.UUID) (*domain.Product, error) {
	return s.setProductStatus(ctx, adminID, productID, domain.ProductActive, domain.ActionUnbanProduct, "")
}

func (s *Service) setProductStatus(ctx context.Context, adminID, productID uuid.UUID, status domain.ProductStatus, action, reason string) (*domain.Product, error) {
	admin, err := s.admin(ctx, adminID)
	if err != nil {
		return nil, err
	}
	if status == domain.ProductBanned && strings.TrimSpace(reason) == "" {
		return nil, ErrReasonRequired
	}
	p, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, notFound(err, ErrProductNotFound)
	}
	if err := s.products.SetStatus(ctx, productID, status); err != nil {
		return nil, notFound(err, ErrProductNotFound)
	}
	p.Status = status

	s.record(ctx, admin, action, targetProduct, productID.String(), map[string]any{
		"reason":    reason,
		"seller_id": p.SellerID,
		"name":      p.Name,
	})
	return p, nil
}

// -------------------- Sellers --------------------

// BanSeller blocks the seller and emails a ban notice. A failed email does not undo the ban.
func (s *Service) BanSeller(ctx context.Context, adminID, sellerID uuid.UUID, reason string) (*domain.User, error) {
	admin, err := s.admin(ctx, adminID)
	if err != nil {
		return nil, err
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, ErrReasonRequired
	}
	seller, err := s.seller(ctx, sellerID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if err := s.users.SetBanned(ctx, sellerID, true, reason, now); err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	seller.IsBanned, seller.BanReason, seller.BannedAt = true, reason, &now

	emailSent := true
	if err := s.mail.SendBanNotice(ctx, seller.Email, seller.Name, reason); err != nil {
		emailSent = false
		s.log.Warn().Err(err).Str("seller_id", sellerID.String()).Msg("ban notice not delivered")
	}

	s.record(ctx, admin, domain.ActionBanSeller, targetUser, sellerID.String(), map[string]any{
		"reason":     reason,
		"email":      seller.Email,
		"email_sent": emailSent,
	})
	return seller, nil
}

func (s *Service) UnbanSeller(ctx context.Context, adminID, sellerID uuid.UUID) (*domain.User, error) {
	admin, err := s.admin(ctx, adminID)
	if err != nil {
		return nil, err
	}
	seller, err := s.seller(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	if err := s.users.SetBanned(ctx, sellerID, false, "", s.now()); err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	seller.IsBanned, seller.BanReason, seller.BannedAt = false, "", nil

	s.record(ctx, admin, domain.ActionUnbanSeller, targetUser, sellerID.String(), map[string]any{"email": seller.Email})
	return seller, nil
}

func (s *Service) SetRetention(ctx context.Context, adminID, sellerID uuid.UUID, percent decimal.Decimal) (*domain.User, error) {
	admin, err := s.admin(ctx, adminID)
	if err != nil {
		return nil, err
	}
	if percent.IsNegative() || percent.GreaterThan(decimal.NewFromInt(100)) {
		return nil, ErrInvalidRetention
	}
	percent = percent.Round(2)
	seller, err := s.seller(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	previous := seller.RetentionPercent
	if err := s.users.SetRetention(ctx, sellerID, percent); err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	seller.RetentionPercent = percent

	s.record(ctx, admin, domain.ActionSetRetention, targetUser, sellerID.String(), map[string]any{
		"from": previous,
		"to":   percent,
	})
	return seller, nil
}

func (s *Service) ListUsers(ctx context.Context, filter UserListFilter, page, limit int) ([]domain.User, int64, error) {
	page, limit = pageBounds(page, limit)
	return s.users.Search(ctx, repository.UserFilter{
		Role:   domain.UserRole(filter.Role),
		Banned: filter.Banned,
		Query:  filter.Query,
	}, limit, (page-1)*limit)
}

// -------------------- Impersonation --------------------

// Impersonate issues a token acting as the target user. Minutes defaults to 30
// and readOnly to true; read-only tokens cannot perform writes.
func (s *Service) Impersonate(ctx context.Context, adminID, targetID uuid.UUID, minutes *int, readOnly *bool) (*ImpersonateResponse, error) {
	admin, err := s.admin(ctx, adminID)
	if err != nil {
		return nil, err
	}

	ttl := defaultImpersonation
	if minutes != nil {
		ttl = time.Duration(*minutes) * time.Minute
	}
	if ttl < time.Minute || ttl > s.maxTTL {
		return nil, ErrInvalidDuration
	}
	ro := true
	if readOnly != nil {
		ro = *readOnly
	}

	target, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	if target.IsAdmin() {
		return nil, ErrCannotImpersonateAdmin
	}

	token, exp, err := s.tokens.GenerateImpersonationToken(target.ID.String(), string(target.Role), admin.ID.String(), ttl, ro)
	if err != nil {
		return nil, fmt.Errorf("issue impersonation token: %w", err)
	}

	s.record(ctx, admin, domain.ActionImpersonate, targetUser, target.ID.String(), map[string]any{
		"email":      target.Email,
		"minutes":    int(ttl / time.Minute),
		"read_only":  ro,
		"expires_at": exp,
	})
	return &ImpersonateResponse{Token: token, ExpiresAt: exp, ReadOnly: ro, User: *target}, nil
}

// -------------------- Email actions --------------------

func (s *Service) SendPasswordReset(ctx context.Context, adminID, userID uuid.UUID) error {
	admin, err := s.admin(ctx, adminID)
	if err != nil {
		return err
	}
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return notFound(err, ErrUserNotFound)
	}
	if err := s.mail.SendPasswordReset(ctx, u.Email, u.Name); err != nil {
		return err
	}
	s.record(ctx, admin, domain.ActionPasswordReset, targetUser, u.ID.String(), map[string]any{"email": u.Email})
	return nil
}

func (s *Service) BulkPasswordReset(ctx context.Context, adminID uuid.UUID, userIDs []uuid.UUID) (*mailer.BulkResult, error) {
	admin, err := s.admin(ctx, adminID)
	if err != nil {
		return nil, err
	}
	users, err := s.users.ListByIDs(ctx, userIDs)
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	recipients := make(map[string]string, len(users))
	for _, u := range users {
		recipients[u.Email] = u.Name
	}

	res := s.mail.SendBulkReset(ctx, recipients)
	s.record(ctx, admin, domain.ActionBulkReset, targetUser, "", map[string]any{
		"requested": len(userIDs),
		"sent":      len(res.Sent),
		"failed":    res.Failed,
	})
	return &res, nil
}

func (s *Service) SendTestRecovery(ctx context.Context, adminID uuid.UUID, email string) error {
	admin, err := s.admin(ctx, adminID)
	if err != nil {
		return err
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if err := s.mail.SendTestRecovery(ctx, email); err != nil {
		return err
	}
	s.record(ctx, admin, domain.ActionTestRecovery, targetEmail, email, nil)
	return nil
}

// -------------------- Logs --------------------

func (s *Service) Logs(ctx context.Context, limit, offset int) ([]domain.AdminActionLog, int64, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.audit.List(ctx, limit, offset)
}

// -------------------- helpers --------------------

func (s *Service) admin(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrNotAdmin
		}
		return nil, fmt.Errorf("load admin: %w", err)
	}
	if !u.IsAdmin() {
		return nil, ErrNotAdmin
	}
	return u, nil
}

func (s *Service) seller(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	if u.Role != domain.RoleSeller {
		return nil, ErrNotSeller
	}
	return u, nil
}

// record appends an audit row. The mutation already happened, so a failed write is logged, not returned.
func (s *Service) record(ctx context.Context, admin *domain.User, action, targetType, targetID string, details map[string]any) {
	entry := &domain.AdminActionLog{
		AdminID:    &admin.ID,
		AdminEmail: admin.Email,
		Action:     action,
		TargetType: targetType,
		TargetID:   targetID,
	}
	if details != nil {
		raw, err := json.Marshal(details)
		if err == nil {
			entry.Details = raw
		}
	}
	if err := s.audit.Append(ctx, entry); err != nil {
		s.log.Error().Err(err).Str("action", action).Str("target_id", targetID).Msg("append admin log")
	}
}

func notFound(err, sentinel error) error {
	if repository.IsNotFound(err) {
		return sentinel
	}
	return err
}

func pageBounds(page, limit int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return page, limit
}
