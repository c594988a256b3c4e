package repository

import (
	"context"

	"kambafy/internal/domain"

	"gorm.io/gorm"
)

type AdminLogRepository struct {
	db *gorm.DB
}

func NewAdminLogRepository(db *gorm.DB) *AdminLogRepository {
	return &AdminLogRepository{db: db}
}

func (r *AdminLogRepository) Append(ctx context.Context, l *domain.AdminActionLog) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *AdminLogRepository) List(ctx context.Context, limit, offset int) ([]domain.AdminActionLog, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&domain.AdminActionLog{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var logs []domain.AdminActionLog
	err := r.db.WithContext(ctx).
		Order("created_at desc").
		Limit(limit).
		Offset(offset).
		Find(&logs).Error
	return logs, total, err
}
