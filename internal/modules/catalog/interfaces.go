package catalog

import (
	"context"

	"kambafy/internal/domain"

	"github.com/google/uuid"
)

type ProductStore interface {
	Create(ctx context.Context, p *domain.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Product, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]domain.Product, error)
	Update(ctx context.Context, p *domain.Product) error
}

type AreaStore interface {
	Create(ctx context.Context, a *domain.MemberArea) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.MemberArea, error)
	GetByProductID(ctx context.Context, productID uuid.UUID) (*domain.MemberArea, error)
	Update(ctx context.Context, a *domain.MemberArea) error
	ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]domain.MemberArea, error)

	CreateModule(ctx context.Context, m *domain.Module) error
	GetModule(ctx context.Context, id uuid.UUID) (*domain.Module, error)
	UpdateModule(ctx context.Context, m *domain.Module) error
	ListModules(ctx context.Context, areaID uuid.UUID) ([]domain.Module, error)
	ReorderModules(ctx context.Context, areaID uuid.UUID, ids []uuid.UUID) error

	CreateLesson(ctx context.Context, l *domain.Lesson) error
	GetLesson(ctx context.Context, id uuid.UUID) (*domain.Lesson, error)
	UpdateLesson(ctx context.Context, l *domain.Lesson) error
	ListLessons(ctx context.Context, areaID uuid.UUID) ([]domain.Lesson, error)
	ReorderLessons(ctx context.Context, areaID uuid.UUID, ids []uuid.UUID) error
}
