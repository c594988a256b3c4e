package quiz

import (
	"context"
	"testing"

	"kambafy/internal/database/dbtest"
	"kambafy/internal/domain"
	"kambafy/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type env struct {
	svc    *Service
	seller uuid.UUID
	other  uuid.UUID
	lesson *domain.Lesson
	module *domain.Module
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db := dbtest.New(t)
	ctx := context.Background()
	users := repository.NewUserRepository(db)
	products := repository.NewProductRepository(db)
	areas := repository.NewMemberAreaRepository(db)

	seller := &domain.User{Email: "dona@kambafy.com", Role: domain.RoleSeller}
	other := &domain.User{Email: "outro@kambafy.com", Role: domain.RoleSeller}
	require.NoError(t, users.Create(ctx, seller))
	require.NoError(t, users.Create(ctx, other))

	product := &domain.Product{SellerID: seller.ID, Name: "Curso", Type: domain.ProductTypeCourse,
		Status: domain.ProductActive, Slug: "curso-quiz", Currency: "AOA"}
	require.NoError(t, products.Create(ctx, product))
	area := &domain.MemberArea{ProductID: product.ID, SellerID: seller.ID, Name: "Area"}
	require.NoError(t, areas.Create(ctx, area))
	module := &domain.Module{MemberAreaID: area.ID, Title: "M1", OrderNumber: 1, Status: domain.ContentPublished}
	require.NoError(t, areas.CreateModule(ctx, module))
	lesson := &domain.Lesson{MemberAreaID: area.ID, ModuleID: &module.ID, Title: "L1", OrderNumber: 1, Status: domain.ContentPublished}
	require.NoError(t, areas.CreateLesson(ctx, lesson))

	return &env{
		svc:    NewService(repository.NewQuizRepository(db), areas, zerolog.Nop()),
		seller: seller.ID,
		other:  other.ID,
		lesson: lesson,
		module: module,
	}
}

func (e *env) draft(questions ...string) Draft {
	d := Draft{Title: "Quiz", LessonID: &e.lesson.ID}
	for _, text := range questions {
		qi, _ := d.AddQuestion(domain.KindSingle)
		_ = d.SetQuestionText(qi, text)
		_ = d.SetOptionText(qi, 0, "sim")
		_ = d.SetOptionText(qi, 1, "não")
	}
	return d
}

func TestService_SaveCreatesAndReplacesQuestions(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	q, err := e.svc.Save(ctx, e.seller, nil, e.draft("a", "b", "c"))
	require.NoError(t, err)
	require.Len(t, q.Questions, 3)

	d := e.draft("z")
	d.Title = "Quiz revisto"
	updated, err := e.svc.Save(ctx, e.seller, &q.ID, d)
	require.NoError(t, err)
	assert.Equal(t, q.ID, updated.ID)

	got, err := e.svc.Get(ctx, e.seller, q.ID)
	require.NoError(t, err)
	assert.Equal(t, "Quiz revisto", got.Title)
	require.Len(t, got.Questions, 1)
	assert.Equal(t, "z", got.Questions[0].Text)
	assert.True(t, got.Questions[0].Options[0].Correct)
}

func TestService_SaveRejectsInvalidDraftWithoutWriting(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	d := e.draft("a")
	d.Questions[0].Options[1].Text = ""
	_, err := e.svc.Save(ctx, e.seller, nil, d)
	assert.ErrorIs(t, err, ErrInvalidQuiz)

	list, err := e.svc.List(ctx, e.seller, &e.lesson.ID, nil)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestService_Ownership(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.svc.Save(ctx, e.other, nil, e.draft("a"))
	assert.ErrorIs(t, err, ErrForbidden)

	q, err := e.svc.Save(ctx, e.seller, nil, e.draft("a"))
	require.NoError(t, err)

	_, err = e.svc.Get(ctx, e.other, q.ID)
	assert.ErrorIs(t, err, ErrQuizNotFound)
	assert.ErrorIs(t, e.svc.Delete(ctx, e.other, q.ID), ErrQuizNotFound)

	missing := uuid.New()
	d := e.draft("a")
	d.LessonID = &missing
	_, err = e.svc.Save(ctx, e.seller, nil, d)
	assert.ErrorIs(t, err, ErrTargetNotFound)
}

func TestService_ListByModuleAndDelete(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	d := e.draft("a")
	d.LessonID, d.ModuleID = nil, &e.module.ID
	q, err := e.svc.Save(ctx, e.seller, nil, d)
	require.NoError(t, err)

	list, err := e.svc.List(ctx, e.seller, nil, &e.module.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)

	_, err = e.svc.List(ctx, e.seller, nil, nil)
	assert.ErrorIs(t, err, ErrInvalidQuiz)

	require.NoError(t, e.svc.Delete(ctx, e.seller, q.ID))
	_, err = e.svc.Get(ctx, e.seller, q.ID)
	assert.ErrorIs(t, err, ErrQuizNotFound)
}
