package hub

import (
	"context"
	"errors"
	"testing"
	"time"

	"kambafy/internal/domain"
	"kambafy/internal/modules/members"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockResolver struct {
	mock.Mock
}

func (m *mockResolver) SessionEntitlements(ctx context.Context, s *members.Session) ([]members.Entitlement, error) {
	args := m.Called(ctx, s)
	list, _ := args.Get(0).([]members.Entitlement)
	return list, args.Error(1)
}

func entitlement(name string, done, total int, last *time.Time) members.Entitlement {
	return members.Entitlement{
		MemberAreaID:     uuid.New(),
		MemberAreaName:   name,
		ProductName:      name,
		TotalLessons:     total,
		CompletedLessons: done,
		Percentage:       0,
		LastActivity:     last,
	}
}

func TestStatusOf(t *testing.T) {
	assert.Equal(t, StatusNotStarted, StatusOf(0, 8))
	assert.Equal(t, StatusNotStarted, StatusOf(0, 0))
	assert.Equal(t, StatusInProgress, StatusOf(5, 10))
	assert.Equal(t, StatusCompleted, StatusOf(10, 10))
}

func TestBuild_SortsByActivityThenName(t *testing.T) {
	old := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	recent := old.Add(48 * time.Hour)

	cards := Build([]members.Entitlement{
		entitlement("Zumba", 0, 3, nil),
		entitlement("Árabe", 0, 3, nil),
		entitlement("Bolos", 1, 3, &old),
		entitlement("Costura", 2, 3, &recent),
	})

	var names []string
	for _, c := range cards {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"Costura", "Bolos", "Árabe", "Zumba"}, names)
}

func TestSearch_AccentAndCaseInsensitive(t *testing.T) {
	cards := Build([]members.Entitlement{
		entitlement("Gestão Financeira", 0, 1, nil),
		entitlement("Marketing", 0, 1, nil),
	})

	assert.Len(t, Search(cards, "GESTAO"), 1)
	assert.Len(t, Search(cards, "financ"), 1)
	assert.Len(t, Search(cards, "  "), 2)
	assert.Empty(t, Search(cards, "culinária"))
}

func TestParseTab(t *testing.T) {
	assert.Equal(t, TabInProgress, ParseTab("em_andamento"))
	assert.Equal(t, TabAll, ParseTab(""))
	assert.Equal(t, TabAll, ParseTab("whatever"))
}

func TestDashboard_TwoCoursesScenario(t *testing.T) {
	now := time.Now().UTC()
	a := members.Entitlement{MemberAreaID: uuid.New(), MemberAreaName: "Curso A", TotalLessons: 10, CompletedLessons: 5, Percentage: 50, LastActivity: &now}
	b := members.Entitlement{MemberAreaID: uuid.New(), MemberAreaName: "Curso B", TotalLessons: 8, CompletedLessons: 0, Percentage: 0}

	r := &mockResolver{}
	sess := &members.Session{Email: "aluno@example.com", Scope: domain.ScopeHub}
	r.On("SessionEntitlements", mock.Anything, sess).Return([]members.Entitlement{b, a}, nil)
	svc := NewService(r)

	all, err := svc.Dashboard(context.Background(), sess, TabAll, "")
	require.NoError(t, err)
	require.Len(t, all.Cards, 2)
	assert.Equal(t, "Curso A", all.Cards[0].Name)
	assert.Equal(t, StatusInProgress, all.Cards[0].Status)
	assert.Equal(t, 50, all.Cards[0].Percentage)
	assert.Equal(t, StatusNotStarted, all.Cards[1].Status)
	assert.Equal(t, 0, all.Cards[1].Percentage)
	assert.Equal(t, map[Tab]int{TabAll: 2, TabInProgress: 1, TabNotStarted: 1, TabCompleted: 0}, all.Counts)

	inProgress, err := svc.Dashboard(context.Background(), sess, TabInProgress, "")
	require.NoError(t, err)
	require.Len(t, inProgress.Cards, 1)
	assert.Equal(t, a.MemberAreaID, inProgress.Cards[0].MemberAreaID)
}

func TestDashboard_PropagatesErrors(t *testing.T) {
	r := &mockResolver{}
	r.On("SessionEntitlements", mock.Anything, mock.Anything).Return(nil, errors.New("db down"))

	_, err := NewService(r).Dashboard(context.Background(), &members.Session{Email: "x@example.com"}, TabAll, "")
	assert.Error(t, err)
}
