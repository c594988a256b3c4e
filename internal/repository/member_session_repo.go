package repository

import (
	"context"
	"time"

	"kambafy/internal/domain"

	"gorm.io/gorm"
)

type MemberSessionRepository struct {
	db *gorm.DB
}

func NewMemberSessionRepository(db *gorm.DB) *MemberSessionRepository {
	return &MemberSessionRepository{db: db}
}

func (r *MemberSessionRepository) Create(ctx context.Context, s *domain.MemberSession) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *MemberSessionRepository) GetByHash(ctx context.Context, hash string) (*domain.MemberSession, error) {
	var s domain.MemberSession
	if err := r.db.WithContext(ctx).Where("token_hash = ?", hash).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// Revoke is a no-op for sessions already revoked or unknown.
func (r *MemberSessionRepository) Revoke(ctx context.Context, hash string, at time.Time) error {
	return r.db.WithContext(ctx).Model(&domain.MemberSession{}).
		Where("token_hash = ? AND revoked_at IS NULL", hash).
		Update("revoked_at", at).Error
}

// DeleteExpired removes sessions expired or revoked before cutoff and returns the count.
func (r *MemberSessionRepository) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("expires_at < ? OR revoked_at < ?", cutoff, cutoff).
		Delete(&domain.MemberSession{})
	return res.RowsAffected, res.Error
}
