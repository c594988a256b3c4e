package repository

import (
	"context"
	"strings"
	"time"

	"kambafy/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EntitlementRow is a student grant joined to its member area and course product.
type EntitlementRow struct {
	MemberAreaID   uuid.UUID
	MemberAreaName string
	LogoURL        string
	HeroImageURL   string
	ProductID      uuid.UUID
	ProductName    string
	CoverURL       string
	StudentName    string
	GrantedAt      time.Time
}

type StudentRepository struct {
	db *gorm.DB
}

func NewStudentRepository(db *gorm.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// Grant is idempotent per (member area, email).
func (r *StudentRepository) Grant(ctx context.Context, s *domain.MemberAreaStudent) error {
	s.StudentEmail = strings.ToLower(strings.TrimSpace(s.StudentEmail))
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "member_area_id"}, {Name: "student_email"}},
			DoNothing: true,
		}).
		Create(s).Error
}

func (r *StudentRepository) HasGrant(ctx context.Context, areaID uuid.UUID, email string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&domain.MemberAreaStudent{}).
		Where("member_area_id = ? AND student_email = ?", areaID, email).
		Count(&n).Error
	return n > 0, err
}

func (r *StudentRepository) ListByArea(ctx context.Context, areaID uuid.UUID) ([]domain.MemberAreaStudent, error) {
	var students []domain.MemberAreaStudent
	err := r.db.WithContext(ctx).
		Where("member_area_id = ?", areaID).
		Order("created_at desc").
		Find(&students).Error
	return students, err
}

// ListEntitlements joins grants to member areas and active course products for email.
func (r *StudentRepository) ListEntitlements(ctx context.Context, email string) ([]EntitlementRow, error) {
	var rows []EntitlementRow
	err := r.db.WithContext(ctx).
		Table("member_area_students AS s").
		Select(`a.id AS member_area_id, a.name AS member_area_name, a.logo_url, a.hero_image_url,
			p.id AS product_id, p.name AS product_name, p.cover_url, s.student_name, s.created_at AS granted_at`).
		Joins("JOIN member_areas AS a ON a.id = s.member_area_id").
		Joins("JOIN products AS p ON p.id = a.product_id").
		Where("s.student_email = ? AND p.type = ? AND p.status = ?", email, domain.ProductTypeCourse, domain.ProductActive).
		Order("a.name asc").
		Scan(&rows).Error
	return rows, err
}
