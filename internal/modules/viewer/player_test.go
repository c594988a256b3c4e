package viewer

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type report struct {
	lessonID uuid.UUID
	position float64
}

type recorder struct {
	mu      sync.Mutex
	reports []report
}

func (r *recorder) ReportProgress(lessonID uuid.UUID, position, _ float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports = append(r.reports, report{lessonID, position})
}

type mockWriter struct {
	mock.Mock
}

func (m *mockWriter) SetCompleted(ctx context.Context, id uuid.UUID, completed bool) error {
	return m.Called(ctx, id, completed).Error(0)
}

func (m *mockWriter) Rate(ctx context.Context, id uuid.UUID, rating int) error {
	return m.Called(ctx, id, rating).Error(0)
}

type fakeTimer struct {
	clock   *fakeClock
	f       func()
	d       time.Duration
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

type fakeClock struct {
	timers []*fakeTimer
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	t := &fakeTimer{clock: c, f: f, d: d}
	c.timers = append(c.timers, t)
	return t
}

// fire runs every armed timer as if its delay elapsed.
func (c *fakeClock) fire() {
	for _, t := range c.timers {
		if !t.stopped {
			t.stopped = true
			t.f()
		}
	}
}

func lessons(n int) []Lesson {
	out := make([]Lesson, n)
	for i := range out {
		out[i] = Lesson{ID: uuid.New(), Title: "Aula"}
	}
	return out
}

func TestRepeat_SuppressesExactlyOneUpdate(t *testing.T) {
	ls := lessons(2)
	rec := &recorder{}
	clock := &fakeClock{}
	p := NewPlayer(ls, rec, nil, WithClock(clock))

	p.OnTimeUpdate(590, 600)
	p.OnEnded()
	require.True(t, p.CountdownActive())

	p.Repeat()
	assert.False(t, p.CountdownActive())
	assert.Equal(t, 0.0, p.Position())

	p.OnTimeUpdate(0.25, 600)
	p.OnTimeUpdate(1.25, 600)

	require.Len(t, rec.reports, 2)
	assert.Equal(t, 590.0, rec.reports[0].position)
	assert.Equal(t, 1.25, rec.reports[1].position)

	clock.fire()
	cur, _ := p.Current()
	assert.Equal(t, ls[0].ID, cur.ID, "cancelled countdown must not advance")
}

func TestRepeat_SuppressionDoesNotLeakIntoNextLesson(t *testing.T) {
	ls := lessons(2)
	rec := &recorder{}
	p := NewPlayer(ls, rec, nil, WithClock(&fakeClock{}))

	p.Repeat()
	p.Select(ls[1].ID, false, 0)
	p.OnTimeUpdate(3, 600)

	require.Len(t, rec.reports, 1)
	assert.Equal(t, ls[1].ID, rec.reports[0].lessonID)
}

func TestOnEnded_AutoplayAdvances(t *testing.T) {
	ls := lessons(2)
	clock := &fakeClock{}
	var advanced []uuid.UUID
	p := NewPlayer(ls, &recorder{}, nil, WithClock(clock), OnAdvance(func(l Lesson) { advanced = append(advanced, l.ID) }))

	p.OnEnded()
	require.Len(t, clock.timers, 1)
	assert.Equal(t, AutoplayDelay, clock.timers[0].d)

	clock.fire()
	cur, _ := p.Current()
	assert.Equal(t, ls[1].ID, cur.ID)
	assert.Equal(t, []uuid.UUID{ls[1].ID}, advanced)
	assert.False(t, p.CountdownActive())

	p.OnEnded()
	assert.Len(t, clock.timers, 1, "last lesson has no countdown")
}

func TestCancelAutoplay(t *testing.T) {
	ls := lessons(3)
	clock := &fakeClock{}
	p := NewPlayer(ls, &recorder{}, nil, WithClock(clock))

	p.OnEnded()
	p.CancelAutoplay()
	clock.fire()

	cur, _ := p.Current()
	assert.Equal(t, ls[0].ID, cur.ID)
}

func TestRate_RevertsOnFailure(t *testing.T) {
	ls := lessons(1)
	w := &mockWriter{}
	w.On("Rate", mock.Anything, ls[0].ID, 4).Return(nil).Once()
	w.On("Rate", mock.Anything, ls[0].ID, 2).Return(errors.New("offline")).Once()
	p := NewPlayer(ls, &recorder{}, w, WithClock(&fakeClock{}))

	require.NoError(t, p.Rate(context.Background(), 4))
	v, st := p.Rating()
	assert.Equal(t, 4, v)
	assert.Equal(t, StateCommitted, st)

	require.Error(t, p.Rate(context.Background(), 2))
	v, st = p.Rating()
	assert.Equal(t, 4, v)
	assert.Equal(t, StateFailed, st)
	w.AssertExpectations(t)
}

func TestSetCompleted_Commits(t *testing.T) {
	ls := lessons(1)
	w := &mockWriter{}
	w.On("SetCompleted", mock.Anything, ls[0].ID, true).Return(nil)
	p := NewPlayer(ls, &recorder{}, w, WithClock(&fakeClock{}))

	require.NoError(t, p.SetCompleted(context.Background(), true))
	v, st := p.Completed()
	assert.True(t, v)
	assert.Equal(t, StateCommitted, st)
}
