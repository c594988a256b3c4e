package catalog

import (
	"time"

	"kambafy/internal/domain"

	"github.com/shopspring/decimal"
)

type CreateProductRequest struct {
	Name        string          `json:"name" binding:"required,min=2,max=255"`
	Description string          `json:"description" binding:"max=10000"`
	Price       decimal.Decimal `json:"price"`
	Currency    string          `json:"currency" binding:"omitempty,len=3"`
	CoverURL    string          `json:"cover_url" binding:"omitempty,url,max=1024"`
	Category    string          `json:"category" binding:"max=100"`
	Type        string          `json:"type" binding:"required"`
}

type UpdateProductRequest struct {
	Name        string          `json:"name" binding:"required,min=2,max=255"`
	Description string          `json:"description" binding:"max=10000"`
	Price       decimal.Decimal `json:"price"`
	Currency    string          `json:"currency" binding:"omitempty,len=3"`
	CoverURL    string          `json:"cover_url" binding:"omitempty,url,max=1024"`
	Category    string          `json:"category" binding:"max=100"`
}

type AreaRequest struct {
	ProductID    string `json:"product_id" binding:"omitempty,uuid"`
	Name         string `json:"name" binding:"required,max=255"`
	LogoURL      string `json:"logo_url" binding:"omitempty,url,max=1024"`
	HeroImageURL string `json:"hero_image_url" binding:"omitempty,url,max=1024"`
	HeroTitle    string `json:"hero_title" binding:"max=255"`
}

type ModuleRequest struct {
	Title  string `json:"title" binding:"required,max=255"`
	Status string `json:"status" binding:"omitempty,oneof=published draft"`
}

type LessonRequest struct {
	ModuleID        *string    `json:"module_id" binding:"omitempty,uuid"`
	Title           string     `json:"title" binding:"required,max=255"`
	Description     string     `json:"description" binding:"max=20000"`
	VideoRef        string     `json:"video_ref" binding:"max=1024"`
	DurationSeconds int        `json:"duration_seconds" binding:"gte=0"`
	Status          string     `json:"status" binding:"omitempty,oneof=published draft"`
	ReleaseAt       *time.Time `json:"release_at"`
}

type ReorderRequest struct {
	IDs []string `json:"ids" binding:"required,min=1,dive,uuid"`
}

// AreaContent is the seller's view of a member area, drafts and scheduled lessons included.
type AreaContent struct {
	Area    domain.MemberArea `json:"member_area"`
	Modules []domain.Module   `json:"modules"`
	Lessons []domain.Lesson   `json:"lessons"`
}

func contentStatus(raw string) domain.ContentStatus {
	if raw == string(domain.ContentDraft) {
		return domain.ContentDraft
	}
	return domain.ContentPublished
}
