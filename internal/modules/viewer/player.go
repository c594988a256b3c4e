// Package viewer holds the lesson player logic that sits between playback events and progress writes.
package viewer

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// AutoplayDelay is the countdown between the end of a lesson and the next one.
const AutoplayDelay = 10 * time.Second

type Lesson struct {
	ID    uuid.UUID
	Title string
}

type ProgressReporter interface {
	ReportProgress(lessonID uuid.UUID, position, duration float64)
}

// LessonWriter persists the explicit member actions of the player.
type LessonWriter interface {
	SetCompleted(ctx context.Context, lessonID uuid.UUID, completed bool) error
	Rate(ctx context.Context, lessonID uuid.UUID, rating int) error
}

type Timer interface {
	Stop() bool
}

type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

// Player tracks the current lesson, the autoplay countdown and replay suppression.
type Player struct {
	mu        sync.Mutex
	lessons   []Lesson
	index     int
	position  float64
	suppress  bool
	countdown Timer
	reporter  ProgressReporter
	writer    LessonWriter
	clock     Clock
	onAdvance func(Lesson)

	completed *Optimistic[bool]
	rating    *Optimistic[int]
}

type Option func(*Player)

func WithClock(c Clock) Option { return func(p *Player) { p.clock = c } }

// OnAdvance registers a callback run after autoplay moves to the next lesson.
func OnAdvance(f func(Lesson)) Option { return func(p *Player) { p.onAdvance = f } }

func NewPlayer(lessons []Lesson, reporter ProgressReporter, writer LessonWriter, opts ...Option) *Player {
	p := &Player{
		lessons:   lessons,
		reporter:  reporter,
		writer:    writer,
		clock:     realClock{},
		completed: NewOptimistic(false),
		rating:    NewOptimistic(0),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Player) Current() (Lesson, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.currentLocked()
}

func (p *Player) Position() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.position
}

// Select jumps to a lesson with its saved state.
func (p *Player) Select(id uuid.UUID, completed bool, rating int) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, l := range p.lessons {
		if l.ID == id {
			p.moveLocked(i, completed, rating)
			return true
		}
	}
	return false
}

// OnTimeUpdate forwards playback progress unless the first update after Repeat is pending.
func (p *Player) OnTimeUpdate(position, duration float64) {
	p.mu.Lock()
	if p.suppress {
		p.suppress = false
		p.position = position
		p.mu.Unlock()
		return
	}
	p.position = position
	cur, ok := p.currentLocked()
	p.mu.Unlock()

	if ok && p.reporter != nil {
		p.reporter.ReportProgress(cur.ID, position, duration)
	}
}

// OnEnded starts the autoplay countdown when a next lesson exists.
func (p *Player) OnEnded() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.index+1 >= len(p.lessons) {
		return
	}
	p.stopCountdownLocked()
	idx := p.index
	p.countdown = p.clock.AfterFunc(AutoplayDelay, func() { p.advanceFrom(idx) })
}

func (p *Player) CountdownActive() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.countdown != nil
}

// Repeat cancels autoplay, rewinds to zero and swallows the next progress update.
func (p *Player) Repeat() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopCountdownLocked()
	p.position = 0
	p.suppress = true
}

func (p *Player) CancelAutoplay() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopCountdownLocked()
}

func (p *Player) Completed() (bool, WriteState) {
	c, _ := p.writes()
	return c.Value(), c.State()
}

func (p *Player) Rating() (int, WriteState) {
	_, r := p.writes()
	return r.Value(), r.State()
}

// SetCompleted shows the flag at once and reverts it if the write fails.
func (p *Player) SetCompleted(ctx context.Context, completed bool) error {
	cur, ok := p.Current()
	if !ok {
		return nil
	}
	c, _ := p.writes()
	return c.Apply(ctx, completed, func(ctx context.Context, v bool) error {
		return p.writer.SetCompleted(ctx, cur.ID, v)
	})
}

func (p *Player) Rate(ctx context.Context, rating int) error {
	cur, ok := p.Current()
	if !ok {
		return nil
	}
	_, r := p.writes()
	return r.Apply(ctx, rating, func(ctx context.Context, v int) error {
		return p.writer.Rate(ctx, cur.ID, v)
	})
}

func (p *Player) writes() (*Optimistic[bool], *Optimistic[int]) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.completed, p.rating
}

func (p *Player) advanceFrom(idx int) {
	p.mu.Lock()
	if p.index != idx || p.countdown == nil || idx+1 >= len(p.lessons) {
		p.mu.Unlock()
		return
	}
	p.countdown = nil
	p.moveLocked(idx+1, false, 0)
	next := p.lessons[p.index]
	cb := p.onAdvance
	p.mu.Unlock()

	if cb != nil {
		cb(next)
	}
}

func (p *Player) moveLocked(i int, completed bool, rating int) {
	p.stopCountdownLocked()
	p.index = i
	p.position = 0
	p.suppress = false
	p.completed = NewOptimistic(completed)
	p.rating = NewOptimistic(rating)
}

func (p *Player) stopCountdownLocked() {
	if p.countdown != nil {
		p.countdown.Stop()
		p.countdown = nil
	}
}

func (p *Player) currentLocked() (Lesson, bool) {
	if p.index < 0 || p.index >= len(p.lessons) {
		return Lesson{}, false
	}
	return p.lessons[p.index], true
}
