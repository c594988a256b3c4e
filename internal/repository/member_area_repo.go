package repository

import (
	"context"
	"time"

	"kambafy/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MemberAreaRepository covers member areas and their modules and lessons.
type MemberAreaRepository struct {
	db *gorm.DB
}

func NewMemberAreaRepository(db *gorm.DB) *MemberAreaRepository {
	return &MemberAreaRepository{db: db}
}

func (r *MemberAreaRepository) Create(ctx context.Context, a *domain.MemberArea) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *MemberAreaRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.MemberArea, error) {
	var a domain.MemberArea
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *MemberAreaRepository) GetByProductID(ctx context.Context, productID uuid.UUID) (*domain.MemberArea, error) {
	var a domain.MemberArea
	if err := r.db.WithContext(ctx).Where("product_id = ?", productID).First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *MemberAreaRepository) Update(ctx context.Context, a *domain.MemberArea) error {
	return r.db.WithContext(ctx).Model(a).
		Select("name", "logo_url", "hero_image_url", "hero_title").
		Updates(a).Error
}

func (r *MemberAreaRepository) ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]domain.MemberArea, error) {
	var areas []domain.MemberArea
	err := r.db.WithContext(ctx).Where("seller_id = ?", sellerID).Order("created_at asc").Find(&areas).Error
	return areas, err
}

func (r *MemberAreaRepository) CreateModule(ctx context.Context, m *domain.Module) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *MemberAreaRepository) GetModule(ctx context.Context, id uuid.UUID) (*domain.Module, error) {
	var m domain.Module
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *MemberAreaRepository) UpdateModule(ctx context.Context, m *domain.Module) error {
	return r.db.WithContext(ctx).Model(m).Select("title", "status").Updates(m).Error
}

func (r *MemberAreaRepository) ListModules(ctx context.Context, areaID uuid.UUID) ([]domain.Module, error) {
	var modules []domain.Module
	err := r.db.WithContext(ctx).
		Where("member_area_id = ?", areaID).
		Order("order_number asc, created_at asc").
		Find(&modules).Error
	return modules, err
}

func (r *MemberAreaRepository) CreateLesson(ctx context.Context, l *domain.Lesson) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *MemberAreaRepository) GetLesson(ctx context.Context, id uuid.UUID) (*domain.Lesson, error) {
	var l domain.Lesson
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&l).Error; err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *MemberAreaRepository) UpdateLesson(ctx context.Context, l *domain.Lesson) error {
	return r.db.WithContext(ctx).Model(l).
		Select("module_id", "title", "description", "video_ref", "duration_seconds", "status", "release_at").
		Updates(l).Error
}

// ListLessons returns lessons of an area ordered by module order, then lesson order.
// Lessons without a module sort after every module.
func (r *MemberAreaRepository) ListLessons(ctx context.Context, areaID uuid.UUID) ([]domain.Lesson, error) {
	var lessons []domain.Lesson
	err := r.db.WithContext(ctx).
		Table("lessons").
		Select("lessons.*").
		Joins("LEFT JOIN modules ON modules.id = lessons.module_id").
		Where("lessons.member_area_id = ?", areaID).
		Order("CASE WHEN modules.id IS NULL THEN 1 ELSE 0 END, modules.order_number asc, lessons.order_number asc, lessons.created_at asc").
		Find(&lessons).Error
	return lessons, err
}

// CountPublishedLessons returns the published lesson count per member area.
func (r *MemberAreaRepository) CountPublishedLessons(ctx context.Context, areaIDs []uuid.UUID, now time.Time) (map[uuid.UUID]int, error) {
	out := make(map[uuid.UUID]int, len(areaIDs))
	if len(areaIDs) == 0 {
		return out, nil
	}

	var rows []struct {
		MemberAreaID uuid.UUID
		Total        int
	}
	err := r.db.WithContext(ctx).
		Model(&domain.Lesson{}).
		Select("member_area_id, COUNT(*) AS total").
		Where("member_area_id IN ? AND status = ?", areaIDs, domain.ContentPublished).
		Where("release_at IS NULL OR release_at <= ?", now).
		Group("member_area_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.MemberAreaID] = row.Total
	}
	return out, nil
}

// Reorder assigns order numbers 1..n following ids. Unknown ids are ignored.
func (r *MemberAreaRepository) ReorderModules(ctx context.Context, areaID uuid.UUID, ids []uuid.UUID) error {
	return r.reorder(ctx, &domain.Module{}, areaID, ids)
}

func (r *MemberAreaRepository) ReorderLessons(ctx context.Context, areaID uuid.UUID, ids []uuid.UUID) error {
	return r.reorder(ctx, &domain.Lesson{}, areaID, ids)
}

func (r *MemberAreaRepository) reorder(ctx context.Context, model any, areaID uuid.UUID, ids []uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i, id := range ids {
			err := tx.Model(model).
				Where("id = ? AND member_area_id = ?", id, areaID).
				Update("order_number", i+1).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}
