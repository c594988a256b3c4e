package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ProductType string

const (
	ProductTypeCourse      ProductType = "Curso"
	ProductTypePaymentLink ProductType = "Link de Pagamento"
	ProductTypeEbook       ProductType = "E-book"
)

func (t ProductType) Valid() bool {
	switch t {
	case ProductTypeCourse, ProductTypePaymentLink, ProductTypeEbook:
		return true
	}
	return false
}

type ProductStatus string

const (
	ProductActive ProductStatus = "Ativo"
	ProductBanned ProductStatus = "Banido"
)

type Product struct {
	ID          uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey"`
	SellerID    uuid.UUID       `json:"seller_id" gorm:"type:uuid;not null;index"`
	Name        string          `json:"name" gorm:"size:255;not null"`
	Description string          `json:"description" gorm:"type:text"`
	Price       decimal.Decimal `json:"price" gorm:"type:numeric(14,2);not null;default:0"`
	Currency    string          `json:"currency" gorm:"size:3;not null;default:'AOA'"`
	CoverURL    string          `json:"cover_url,omitempty" gorm:"size:1024"`
	Category    string          `json:"category,omitempty" gorm:"size:100"`
	Type        ProductType     `json:"type" gorm:"type:varchar(32);not null;index"`
	Status      ProductStatus   `json:"status" gorm:"type:varchar(16);not null;default:'Ativo';index"`
	Slug        string          `json:"slug" gorm:"size:255;uniqueIndex;not null"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func (Product) TableName() string { return "products" }

func (p *Product) BeforeCreate(_ *gorm.DB) error {
	ensureID(&p.ID)
	return nil
}

// MemberArea is the branded course space of one "Curso" product.
type MemberArea struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	ProductID    uuid.UUID `json:"product_id" gorm:"type:uuid;not null;uniqueIndex"`
	SellerID     uuid.UUID `json:"seller_id" gorm:"type:uuid;not null;index"`
	Name         string    `json:"name" gorm:"size:255;not null"`
	LogoURL      string    `json:"logo_url,omitempty" gorm:"size:1024"`
	HeroImageURL string    `json:"hero_image_url,omitempty" gorm:"size:1024"`
	HeroTitle    string    `json:"hero_title,omitempty" gorm:"size:255"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	Product *Product `json:"product,omitempty" gorm:"foreignKey:ProductID;references:ID;constraint:OnDelete:CASCADE"`
}

func (MemberArea) TableName() string { return "member_areas" }

func (m *MemberArea) BeforeCreate(_ *gorm.DB) error {
	ensureID(&m.ID)
	return nil
}

type ContentStatus string

const (
	ContentPublished ContentStatus = "published"
	ContentDraft     ContentStatus = "draft"
)

type Module struct {
	ID           uuid.UUID     `json:"id" gorm:"type:uuid;primaryKey"`
	MemberAreaID uuid.UUID     `json:"member_area_id" gorm:"type:uuid;not null;index"`
	Title        string        `json:"title" gorm:"size:255;not null"`
	OrderNumber  int           `json:"order_number" gorm:"not null;default:0"`
	Status       ContentStatus `json:"status" gorm:"type:varchar(16);not null;default:'published'"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

func (Module) TableName() string { return "modules" }

func (m *Module) BeforeCreate(_ *gorm.DB) error {
	ensureID(&m.ID)
	return nil
}

type Lesson struct {
	ID              uuid.UUID     `json:"id" gorm:"type:uuid;primaryKey"`
	MemberAreaID    uuid.UUID     `json:"member_area_id" gorm:"type:uuid;not null;index"`
	ModuleID        *uuid.UUID    `json:"module_id,omitempty" gorm:"type:uuid;index"`
	Title           string        `json:"title" gorm:"size:255;not null"`
	Description     string        `json:"description" gorm:"type:text"`
	VideoRef        string        `json:"video_ref,omitempty" gorm:"size:1024"`
	DurationSeconds int           `json:"duration_seconds" gorm:"not null;default:0"`
	OrderNumber     int           `json:"order_number" gorm:"not null;default:0"`
	Status          ContentStatus `json:"status" gorm:"type:varchar(16);not null;default:'published'"`
	ReleaseAt       *time.Time    `json:"release_at,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

func (Lesson) TableName() string { return "lessons" }

func (l *Lesson) BeforeCreate(_ *gorm.DB) error {
	ensureID(&l.ID)
	return nil
}

// IsVisible reports whether a student may open the lesson at now.
func (l *Lesson) IsVisible(now time.Time) bool {
	if l.Status != ContentPublished {
		return false
	}
	return l.ReleaseAt == nil || !l.ReleaseAt.After(now)
}
