package repository

import (
	"context"
	"strings"
	"time"

	"kambafy/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	u.Email = strings.TrimSpace(strings.ToLower(u.Email))
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var u domain.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var users []domain.User
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error
	return users, err
}

func (r *UserRepository) ListSellers(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	err := r.db.WithContext(ctx).
		Where("role = ?", domain.RoleSeller).
		Order("created_at asc").
		Find(&users).Error
	return users, err
}

// UserFilter narrows Search. Empty fields are ignored.
type UserFilter struct {
	Role   domain.UserRole
	Banned *bool
	Query  string
}

// Search pages through users matching f, newest first.
func (r *UserRepository) Search(ctx context.Context, f UserFilter, limit, offset int) ([]domain.User, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.User{})
	if f.Role != "" {
		q = q.Where("role = ?", f.Role)
	}
	if f.Banned != nil {
		q = q.Where("is_banned = ?", *f.Banned)
	}
	if s := strings.ToLower(strings.TrimSpace(f.Query)); s != "" {
		like := "%" + s + "%"
		q = q.Where("LOWER(email) LIKE ? OR LOWER(name) LIKE ?", like, like)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var users []domain.User
	err := q.Order("created_at desc").Limit(limit).Offset(offset).Find(&users).Error
	return users, total, err
}

// SetBanned toggles the seller ban; reason is cleared on unban.
func (r *UserRepository) SetBanned(ctx context.Context, id uuid.UUID, banned bool, reason string, at time.Time) error {
	updates := map[string]any{"is_banned": banned, "ban_reason": "", "banned_at": nil}
	if banned {
		updates["ban_reason"] = reason
		updates["banned_at"] = at
	}
	return r.updates(ctx, id, updates)
}

func (r *UserRepository) SetRetention(ctx context.Context, id uuid.UUID, percent decimal.Decimal) error {
	return r.updates(ctx, id, map[string]any{"retention_percent": percent})
}

func (r *UserRepository) updates(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	res := r.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
