package catalog

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"kambafy/internal/domain"
	"kambafy/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	defaultCurrency = "AOA"
	slugAttempts    = 20
)

// Service manages sellers' products, member areas and course content.
type Service struct {
	products ProductStore
	areas    AreaStore
	log      zerolog.Logger
	now      func() time.Time
}

func NewService(products ProductStore, areas AreaStore, log zerolog.Logger) *Service {
	return &Service{
		products: products,
		areas:    areas,
		log:      log.With().Str("component", "catalog").Logger(),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

/* ---------- PRODUCTS ---------- */

func (s *Service) CreateProduct(ctx context.Context, sellerID uuid.UUID, req CreateProductRequest) (*domain.Product, error) {
	typ := domain.ProductType(strings.TrimSpace(req.Type))
	if !typ.Valid() {
		return nil, ErrInvalidType
	}
	if req.Price.IsNegative() {
		return nil, ErrInvalidPrice
	}

	p := &domain.Product{
		SellerID:    sellerID,
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Price:       req.Price.Round(2),
		Currency:    currency(req.Currency),
		CoverURL:    req.CoverURL,
		Category:    req.Category,
		Type:        typ,
		Status:      domain.ProductActive,
	}

	base := Slugify(p.Name)
	for attempt := 0; attempt < slugAttempts; attempt++ {
		slug, err := s.freeSlug(ctx, base, attempt)
		if err != nil {
			return nil, err
		}
		p.Slug = slug
		err = s.products.Create(ctx, p)
		if err == nil {
			return p, nil
		}
		if !repository.IsUniqueViolation(err) {
			return nil, fmt.Errorf("create product: %w", err)
		}
		// lost a race for the slug
		p.ID = uuid.Nil
	}
	return nil, fmt.Errorf("create product: no free slug for %q", base)
}

// freeSlug returns base, base-2, base-3... and falls back to a random suffix after the first few.
func (s *Service) freeSlug(ctx context.Context, base string, attempt int) (string, error) {
	for n := attempt + 1; n <= attempt+5; n++ {
		candidate := base
		if n > 1 {
			candidate = base + "-" + strconv.Itoa(n)
		}
		exists, err := s.products.SlugExists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("check slug: %w", err)
		}
		if !exists {
			return candidate, nil
		}
	}
	return base + "-" + uuid.NewString()[:8], nil
}

func (s *Service) UpdateProduct(ctx context.Context, sellerID, productID uuid.UUID, req UpdateProductRequest) (*domain.Product, error) {
	p, err := s.ownedProduct(ctx, sellerID, productID)
	if err != nil {
		return nil, err
	}
	if req.Price.IsNegative() {
		return nil, ErrInvalidPrice
	}
	p.Name = strings.TrimSpace(req.Name)
	p.Description = req.Description
	p.Price = req.Price.Round(2)
	p.Currency = currency(req.Currency)
	p.CoverURL = req.CoverURL
	p.Category = req.Category

	if err := s.products.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	return p, nil
}

func (s *Service) ListProducts(ctx context.Context, sellerID uuid.UUID) ([]domain.Product, error) {
	return s.products.ListBySeller(ctx, sellerID)
}

// PublicProduct backs the checkout page. Banned products do not exist publicly.
func (s *Service) PublicProduct(ctx context.Context, slug string) (*domain.Product, error) {
	p, err := s.products.GetBySlug(ctx, strings.ToLower(strings.TrimSpace(slug)))
	if err != nil {
		return nil, notFound(err, ErrProductNotFound)
	}
	if p.Status == domain.ProductBanned {
		return nil, ErrProductNotFound
	}
	return p, nil
}

/* ---------- MEMBER AREAS ---------- */

// CreateArea attaches a member area to one of the seller's Curso products.
func (s *Service) CreateArea(ctx context.Context, sellerID uuid.UUID, req AreaRequest) (*domain.MemberArea, error) {
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return nil, ErrProductNotFound
	}
	p, err := s.ownedProduct(ctx, sellerID, productID)
	if err != nil {
		return nil, err
	}
	if p.Type != domain.ProductTypeCourse {
		return nil, ErrNotCourse
	}
	if _, err := s.areas.GetByProductID(ctx, productID); err == nil {
		return nil, ErrAreaExists
	} else if !repository.IsNotFound(err) {
		return nil, fmt.Errorf("load member area: %w", err)
	}

	a := &domain.MemberArea{
		ProductID:    productID,
		SellerID:     sellerID,
		Name:         strings.TrimSpace(req.Name),
		LogoURL:      req.LogoURL,
		HeroImageURL: req.HeroImageURL,
		HeroTitle:    req.HeroTitle,
	}
	if err := s.areas.Create(ctx, a); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrAreaExists
		}
		return nil, fmt.Errorf("create member area: %w", err)
	}
	s.log.Info().Str("member_area_id", a.ID.String()).Str("product_id", productID.String()).Msg("member area created")
	return a, nil
}

func (s *Service) UpdateArea(ctx context.Context, sellerID, areaID uuid.UUID, req AreaRequest) (*domain.MemberArea, error) {
	a, err := s.ownedArea(ctx, sellerID, areaID)
	if err != nil {
		return nil, err
	}
	a.Name = strings.TrimSpace(req.Name)
	a.LogoURL = req.LogoURL
	a.HeroImageURL = req.HeroImageURL
	a.HeroTitle = req.HeroTitle
	if err := s.areas.Update(ctx, a); err != nil {
		return nil, fmt.Errorf("update member area: %w", err)
	}
	return a, nil
}

func (s *Service) ListAreas(ctx context.Context, sellerID uuid.UUID) ([]domain.MemberArea, error) {
	return s.areas.ListBySeller(ctx, sellerID)
}

func (s *Service) Content(ctx context.Context, sellerID, areaID uuid.UUID) (*AreaContent, error) {
	a, err := s.ownedArea(ctx, sellerID, areaID)
	if err != nil {
		return nil, err
	}
	modules, err := s.areas.ListModules(ctx, areaID)
	if err != nil {
		return nil, fmt.Errorf("list modules: %w", err)
	}
	lessons, err := s.areas.ListLessons(ctx, areaID)
	if err != nil {
		return nil, fmt.Errorf("list lessons: %w", err)
	}
	return &AreaContent{Area: *a, Modules: modules, Lessons: lessons}, nil
}

/* ---------- MODULES ---------- */

// CreateModule appends a module after the existing ones.
func (s *Service) CreateModule(ctx context.Context, sellerID, areaID uuid.UUID, req ModuleRequest) (*domain.Module, error) {
	if _, err := s.ownedArea(ctx, sellerID, areaID); err != nil {
		return nil, err
	}
	existing, err := s.areas.ListModules(ctx, areaID)
	if err != nil {
		return nil, fmt.Errorf("list modules: %w", err)
	}

	m := &domain.Module{
		MemberAreaID: areaID,
		Title:        strings.TrimSpace(req.Title),
		OrderNumber:  nextOrder(len(existing), lastModuleOrder(existing)),
		Status:       contentStatus(req.Status),
	}
	if err := s.areas.CreateModule(ctx, m); err != nil {
		return nil, fmt.Errorf("create module: %w", err)
	}
	return m, nil
}

func (s *Service) UpdateModule(ctx context.Context, sellerID, moduleID uuid.UUID, req ModuleRequest) (*domain.Module, error) {
	m, err := s.areas.GetModule(ctx, moduleID)
	if err != nil {
		return nil, notFound(err, ErrModuleNotFound)
	}
	if _, err := s.ownedArea(ctx, sellerID, m.MemberAreaID); err != nil {
		return nil, err
	}
	m.Title = strings.TrimSpace(req.Title)
	m.Status = contentStatus(req.Status)
	if err := s.areas.UpdateModule(ctx, m); err != nil {
		return nil, fmt.Errorf("update module: %w", err)
	}
	return m, nil
}

func (s *Service) ReorderModules(ctx context.Context, sellerID, areaID uuid.UUID, ids []uuid.UUID) ([]domain.Module, error) {
	if _, err := s.ownedArea(ctx, sellerID, areaID); err != nil {
		return nil, err
	}
	if err := s.areas.ReorderModules(ctx, areaID, ids); err != nil {
		return nil, fmt.Errorf("reorder modules: %w", err)
	}
	return s.areas.ListModules(ctx, areaID)
}

/* ---------- LESSONS ---------- */

// CreateLesson appends a lesson at the end of its module, or of the area when it has no module.
func (s *Service) CreateLesson(ctx context.Context, sellerID, areaID uuid.UUID, req LessonRequest) (*domain.Lesson, error) {
	if _, err := s.ownedArea(ctx, sellerID, areaID); err != nil {
		return nil, err
	}
	moduleID, err := s.lessonModule(ctx, areaID, req.ModuleID)
	if err != nil {
		return nil, err
	}
	lessons, err := s.areas.ListLessons(ctx, areaID)
	if err != nil {
		return nil, fmt.Errorf("list lessons: %w", err)
	}
	count, last := 0, 0
	for _, l := range lessons {
		if sameModule(l.ModuleID, moduleID) {
			count++
			last = max(last, l.OrderNumber)
		}
	}

	l := &domain.Lesson{
		MemberAreaID: areaID,
		OrderNumber:  nextOrder(count, last),
	}
	applyLesson(l, moduleID, req)
	if err := s.areas.CreateLesson(ctx, l); err != nil {
		return nil, fmt.Errorf("create lesson: %w", err)
	}
	return l, nil
}

func (s *Service) UpdateLesson(ctx context.Context, sellerID, lessonID uuid.UUID, req LessonRequest) (*domain.Lesson, error) {
	l, err := s.areas.GetLesson(ctx, lessonID)
	if err != nil {
		return nil, notFound(err, ErrLessonNotFound)
	}
	if _, err := s.ownedArea(ctx, sellerID, l.MemberAreaID); err != nil {
		return nil, err
	}
	moduleID, err := s.lessonModule(ctx, l.MemberAreaID, req.ModuleID)
	if err != nil {
		return nil, err
	}
	applyLesson(l, moduleID, req)
	if err := s.areas.UpdateLesson(ctx, l); err != nil {
		return nil, fmt.Errorf("update lesson: %w", err)
	}
	return l, nil
}

func (s *Service) ReorderLessons(ctx context.Context, sellerID, areaID uuid.UUID, ids []uuid.UUID) ([]domain.Lesson, error) {
	if _, err := s.ownedArea(ctx, sellerID, areaID); err != nil {
		return nil, err
	}
	if err := s.areas.ReorderLessons(ctx, areaID, ids); err != nil {
		return nil, fmt.Errorf("reorder lessons: %w", err)
	}
	return s.areas.ListLessons(ctx, areaID)
}

func (s *Service) lessonModule(ctx context.Context, areaID uuid.UUID, raw *string) (*uuid.UUID, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*raw)
	if err != nil {
		return nil, ErrModuleNotFound
	}
	m, err := s.areas.GetModule(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrModuleNotFound)
	}
	if m.MemberAreaID != areaID {
		return nil, ErrModuleMismatch
	}
	return &m.ID, nil
}

func applyLesson(l *domain.Lesson, moduleID *uuid.UUID, req LessonRequest) {
	l.ModuleID = moduleID
	l.Title = strings.TrimSpace(req.Title)
	l.Description = req.Description
	l.VideoRef = strings.TrimSpace(req.VideoRef)
	l.DurationSeconds = req.DurationSeconds
	l.Status = contentStatus(req.Status)
	l.ReleaseAt = nil
	if req.ReleaseAt != nil {
		at := req.ReleaseAt.UTC()
		l.ReleaseAt = &at
	}
}

/* ---------- helpers ---------- */

// ownedProduct hides other sellers' products behind not found.
func (s *Service) ownedProduct(ctx context.Context, sellerID, productID uuid.UUID) (*domain.Product, error) {
	p, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, notFound(err, ErrProductNotFound)
	}
	if p.SellerID != sellerID {
		return nil, ErrProductNotFound
	}
	return p, nil
}

func (s *Service) ownedArea(ctx context.Context, sellerID, areaID uuid.UUID) (*domain.MemberArea, error) {
	a, err := s.areas.GetByID(ctx, areaID)
	if err != nil {
		return nil, notFound(err, ErrAreaNotFound)
	}
	if a.SellerID != sellerID {
		return nil, ErrAreaNotFound
	}
	return a, nil
}

func currency(raw string) string {
	c := strings.ToUpper(strings.TrimSpace(raw))
	if c == "" {
		return defaultCurrency
	}
	return c
}

func nextOrder(count, last int) int {
	return max(count, last) + 1
}

func lastModuleOrder(modules []domain.Module) int {
	last := 0
	for _, m := range modules {
		last = max(last, m.OrderNumber)
	}
	return last
}

func sameModule(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func notFound(err, sentinel error) error {
	if repository.IsNotFound(err) {
		return sentinel
	}
	return err
}
