package catalog

import (
	"context"
	"testing"
	"time"

	"kambafy/internal/database/dbtest"
	"kambafy/internal/domain"
	"kambafy/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type env struct {
	svc      *Service
	products *repository.ProductRepository
	seller   uuid.UUID
	other    uuid.UUID
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db := dbtest.New(t)
	products := repository.NewProductRepository(db)
	return &env{
		svc:      NewService(products, repository.NewMemberAreaRepository(db), zerolog.Nop()),
		products: products,
		seller:   uuid.New(),
		other:    uuid.New(),
	}
}

func (e *env) course(t *testing.T, name string) *domain.Product {
	t.Helper()
	p, err := e.svc.CreateProduct(context.Background(), e.seller, CreateProductRequest{
		Name:  name,
		Price: decimal.RequireFromString("15000"),
		Type:  string(domain.ProductTypeCourse),
	})
	require.NoError(t, err)
	return p
}

func (e *env) area(t *testing.T) *domain.MemberArea {
	t.Helper()
	p := e.course(t, "Curso de Excel")
	a, err := e.svc.CreateArea(context.Background(), e.seller, AreaRequest{ProductID: p.ID.String(), Name: "Excel"})
	require.NoError(t, err)
	return a
}

func TestCreateProduct_UniqueSlugs(t *testing.T) {
	e := newEnv(t)

	first := e.course(t, "Curso de Excel")
	second := e.course(t, "Curso de Excel")
	third := e.course(t, "Curso de Éxcel")

	assert.Equal(t, "curso-de-excel", first.Slug)
	assert.Equal(t, "curso-de-excel-2", second.Slug)
	assert.Equal(t, "curso-de-excel-3", third.Slug)
	assert.Equal(t, "AOA", first.Currency)
	assert.Equal(t, domain.ProductActive, first.Status)
}

func TestCreateProduct_Rejections(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.svc.CreateProduct(ctx, e.seller, CreateProductRequest{Name: "Coisa", Type: "Serviço"})
	assert.ErrorIs(t, err, ErrInvalidType)

	_, err = e.svc.CreateProduct(ctx, e.seller, CreateProductRequest{Name: "Coisa", Type: "E-book", Price: decimal.NewFromInt(-1)})
	assert.ErrorIs(t, err, ErrInvalidPrice)
}

func TestUpdateProduct_Ownership(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	p := e.course(t, "Curso de Excel")

	_, err := e.svc.UpdateProduct(ctx, e.other, p.ID, UpdateProductRequest{Name: "Roubado"})
	assert.ErrorIs(t, err, ErrProductNotFound)

	updated, err := e.svc.UpdateProduct(ctx, e.seller, p.ID, UpdateProductRequest{Name: "Excel 2", Price: decimal.RequireFromString("9.999"), Currency: "usd"})
	require.NoError(t, err)
	assert.Equal(t, "USD", updated.Currency)
	assert.Equal(t, "curso-de-excel", updated.Slug)

	stored, err := e.products.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Excel 2", stored.Name)
	assert.True(t, stored.Price.Equal(decimal.RequireFromString("10")))
}

func TestPublicProduct_HidesBanned(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	p := e.course(t, "Curso de Excel")

	got, err := e.svc.PublicProduct(ctx, "Curso-De-Excel")
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)

	require.NoError(t, e.products.SetStatus(ctx, p.ID, domain.ProductBanned))
	_, err = e.svc.PublicProduct(ctx, "curso-de-excel")
	assert.ErrorIs(t, err, ErrProductNotFound)

	_, err = e.svc.PublicProduct(ctx, "nao-existe")
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestCreateArea_Rules(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	link, err := e.svc.CreateProduct(ctx, e.seller, CreateProductRequest{Name: "Pagamento", Type: string(domain.ProductTypePaymentLink)})
	require.NoError(t, err)
	_, err = e.svc.CreateArea(ctx, e.seller, AreaRequest{ProductID: link.ID.String(), Name: "X"})
	assert.ErrorIs(t, err, ErrNotCourse)

	course := e.course(t, "Curso")
	_, err = e.svc.CreateArea(ctx, e.other, AreaRequest{ProductID: course.ID.String(), Name: "X"})
	assert.ErrorIs(t, err, ErrProductNotFound)

	a, err := e.svc.CreateArea(ctx, e.seller, AreaRequest{ProductID: course.ID.String(), Name: "Área"})
	require.NoError(t, err)
	assert.Equal(t, e.seller, a.SellerID)

	_, err = e.svc.CreateArea(ctx, e.seller, AreaRequest{ProductID: course.ID.String(), Name: "Outra"})
	assert.ErrorIs(t, err, ErrAreaExists)
}

func TestModulesAndLessons_Ordering(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	a := e.area(t)

	m1, err := e.svc.CreateModule(ctx, e.seller, a.ID, ModuleRequest{Title: "Introdução"})
	require.NoError(t, err)
	m2, err := e.svc.CreateModule(ctx, e.seller, a.ID, ModuleRequest{Title: "Fórmulas", Status: "draft"})
	require.NoError(t, err)
	assert.Equal(t, 1, m1.OrderNumber)
	assert.Equal(t, 2, m2.OrderNumber)
	assert.Equal(t, domain.ContentDraft, m2.Status)

	mod1, mod2 := m1.ID.String(), m2.ID.String()
	l1, err := e.svc.CreateLesson(ctx, e.seller, a.ID, LessonRequest{ModuleID: &mod1, Title: "Boas-vindas"})
	require.NoError(t, err)
	l2, err := e.svc.CreateLesson(ctx, e.seller, a.ID, LessonRequest{ModuleID: &mod1, Title: "Interface"})
	require.NoError(t, err)
	l3, err := e.svc.CreateLesson(ctx, e.seller, a.ID, LessonRequest{ModuleID: &mod2, Title: "SOMA"})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 1}, []int{l1.OrderNumber, l2.OrderNumber, l3.OrderNumber})

	lessons, err := e.svc.ReorderLessons(ctx, e.seller, a.ID, []uuid.UUID{l2.ID, l1.ID})
	require.NoError(t, err)
	require.Len(t, lessons, 3)
	assert.Equal(t, []uuid.UUID{l2.ID, l1.ID, l3.ID}, []uuid.UUID{lessons[0].ID, lessons[1].ID, lessons[2].ID})

	modules, err := e.svc.ReorderModules(ctx, e.seller, a.ID, []uuid.UUID{m2.ID, m1.ID})
	require.NoError(t, err)
	assert.Equal(t, m2.ID, modules[0].ID)

	content, err := e.svc.Content(ctx, e.seller, a.ID)
	require.NoError(t, err)
	assert.Equal(t, l3.ID, content.Lessons[0].ID)
}

func TestLesson_ModuleMustBelongToArea(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	a := e.area(t)

	otherCourse := e.course(t, "Outro curso")
	b, err := e.svc.CreateArea(ctx, e.seller, AreaRequest{ProductID: otherCourse.ID.String(), Name: "B"})
	require.NoError(t, err)
	foreign, err := e.svc.CreateModule(ctx, e.seller, b.ID, ModuleRequest{Title: "Alheio"})
	require.NoError(t, err)

	ref := foreign.ID.String()
	_, err = e.svc.CreateLesson(ctx, e.seller, a.ID, LessonRequest{ModuleID: &ref, Title: "x"})
	assert.ErrorIs(t, err, ErrModuleMismatch)
}

func TestUpdateLesson_ReleaseAndOwnership(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	a := e.area(t)

	l, err := e.svc.CreateLesson(ctx, e.seller, a.ID, LessonRequest{Title: "Aula", VideoRef: " https://youtu.be/abc "})
	require.NoError(t, err)
	assert.Equal(t, "https://youtu.be/abc", l.VideoRef)

	_, err = e.svc.UpdateLesson(ctx, e.other, l.ID, LessonRequest{Title: "x"})
	assert.ErrorIs(t, err, ErrAreaNotFound)

	release := time.Date(2030, 1, 1, 9, 0, 0, 0, time.FixedZone("WAT", 3600))
	updated, err := e.svc.UpdateLesson(ctx, e.seller, l.ID, LessonRequest{Title: "Aula 1", ReleaseAt: &release, DurationSeconds: 600})
	require.NoError(t, err)
	require.NotNil(t, updated.ReleaseAt)
	assert.Equal(t, time.UTC, updated.ReleaseAt.Location())
	assert.False(t, updated.IsVisible(time.Now()))

	content, err := e.svc.Content(ctx, e.seller, a.ID)
	require.NoError(t, err)
	require.Len(t, content.Lessons, 1)
	assert.Equal(t, "Aula 1", content.Lessons[0].Title)
	assert.Equal(t, 600, content.Lessons[0].DurationSeconds)
}
