package quiz

import (
	"fmt"
	"strings"

	"kambafy/internal/domain"

	"github.com/google/uuid"
)

const (
	MinOptions = 2
	MaxOptions = 6
)

type Question struct {
	Text    string              `json:"text"`
	Kind    domain.QuestionKind `json:"kind"`
	Options []domain.QuizOption `json:"options"`
}

// Draft is the editable state of a quiz. Every mutation keeps a question's
// correct-answer set non-empty, and exactly one for single-choice questions.
type Draft struct {
	Title     string     `json:"title"`
	LessonID  *uuid.UUID `json:"lesson_id,omitempty"`
	ModuleID  *uuid.UUID `json:"module_id,omitempty"`
	Questions []Question `json:"questions"`
}

// NewQuestion starts with two blank options, the first marked correct.
func NewQuestion(kind domain.QuestionKind) Question {
	return Question{
		Kind:    kind,
		Options: []domain.QuizOption{{Correct: true}, {}},
	}
}

func (d *Draft) AddQuestion(kind domain.QuestionKind) (int, error) {
	if !validKind(kind) {
		return 0, ErrUnknownKind
	}
	d.Questions = append(d.Questions, NewQuestion(kind))
	return len(d.Questions) - 1, nil
}

func (d *Draft) RemoveQuestion(i int) error {
	if !d.hasQuestion(i) {
		return ErrOutOfRange
	}
	d.Questions = append(d.Questions[:i], d.Questions[i+1:]...)
	return nil
}

// MoveQuestion moves question from to position to, shifting the ones between.
func (d *Draft) MoveQuestion(from, to int) error {
	if !d.hasQuestion(from) || !d.hasQuestion(to) {
		return ErrOutOfRange
	}
	q := d.Questions[from]
	d.Questions = append(d.Questions[:from], d.Questions[from+1:]...)
	d.Questions = append(d.Questions[:to], append([]Question{q}, d.Questions[to:]...)...)
	return nil
}

func (d *Draft) SetQuestionText(i int, text string) error {
	if !d.hasQuestion(i) {
		return ErrOutOfRange
	}
	d.Questions[i].Text = text
	return nil
}

// SetKind switches a question's kind. Going to single keeps only the first correct option.
func (d *Draft) SetKind(i int, kind domain.QuestionKind) error {
	if !validKind(kind) {
		return ErrUnknownKind
	}
	if !d.hasQuestion(i) {
		return ErrOutOfRange
	}
	q := &d.Questions[i]
	q.Kind = kind
	if kind == domain.KindSingle {
		first := firstCorrect(q.Options)
		if first < 0 {
			first = 0
		}
		for j := range q.Options {
			q.Options[j].Correct = j == first
		}
	}
	return nil
}

func (d *Draft) AddOption(i int) error {
	if !d.hasQuestion(i) {
		return ErrOutOfRange
	}
	q := &d.Questions[i]
	if len(q.Options) >= MaxOptions {
		return ErrTooManyOptions
	}
	q.Options = append(q.Options, domain.QuizOption{})
	return nil
}

// RemoveOption drops an option. Removing the only correct one promotes the first remaining option.
func (d *Draft) RemoveOption(i, opt int) error {
	if !d.hasOption(i, opt) {
		return ErrOutOfRange
	}
	q := &d.Questions[i]
	if len(q.Options) <= MinOptions {
		return ErrTooFewOptions
	}
	q.Options = append(q.Options[:opt], q.Options[opt+1:]...)
	if firstCorrect(q.Options) < 0 {
		q.Options[0].Correct = true
	}
	return nil
}

func (d *Draft) SetOptionText(i, opt int, text string) error {
	if !d.hasOption(i, opt) {
		return ErrOutOfRange
	}
	d.Questions[i].Options[opt].Text = text
	return nil
}

// ToggleCorrect selects an option. Single-choice questions end with exactly that
// option correct; multiple-choice questions flip it, refusing to clear the last correct one.
func (d *Draft) ToggleCorrect(i, opt int) error {
	if !d.hasOption(i, opt) {
		return ErrOutOfRange
	}
	q := &d.Questions[i]
	if q.Kind == domain.KindSingle {
		for j := range q.Options {
			q.Options[j].Correct = j == opt
		}
		return nil
	}

	if q.Options[opt].Correct && countCorrect(q.Options) == 1 {
		return ErrLastCorrectAnswer
	}
	q.Options[opt].Correct = !q.Options[opt].Correct
	return nil
}

// ValidationError lists every problem found; it matches ErrInvalidQuiz.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid quiz: " + strings.Join(e.Problems, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidQuiz
}

// Validate checks the draft before it may be saved.
func (d *Draft) Validate() error {
	var problems []string
	if strings.TrimSpace(d.Title) == "" {
		problems = append(problems, "title is required")
	}
	if (d.LessonID == nil) == (d.ModuleID == nil) {
		problems = append(problems, "exactly one of lesson or module must be selected")
	}
	if len(d.Questions) == 0 {
		problems = append(problems, "at least one question is required")
	}
	for i, q := range d.Questions {
		n := i + 1
		if !validKind(q.Kind) {
			problems = append(problems, fmt.Sprintf("question %d: unknown kind %q", n, q.Kind))
		}
		if strings.TrimSpace(q.Text) == "" {
			problems = append(problems, fmt.Sprintf("question %d: text is required", n))
		}
		if len(q.Options) < MinOptions || len(q.Options) > MaxOptions {
			problems = append(problems, fmt.Sprintf("question %d: needs %d to %d options", n, MinOptions, MaxOptions))
		}
		for j, o := range q.Options {
			if strings.TrimSpace(o.Text) == "" {
				problems = append(problems, fmt.Sprintf("question %d option %d: text is required", n, j+1))
			}
		}
		correct := countCorrect(q.Options)
		switch {
		case correct == 0:
			problems = append(problems, fmt.Sprintf("question %d: mark at least one correct option", n))
		case q.Kind == domain.KindSingle && correct != 1:
			problems = append(problems, fmt.Sprintf("question %d: single choice needs exactly one correct option", n))
		}
	}
	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

// ToModel converts a validated draft into a quiz row owned by sellerID.
func (d *Draft) ToModel(sellerID uuid.UUID) *domain.Quiz {
	q := &domain.Quiz{
		SellerID: sellerID,
		Title:    strings.TrimSpace(d.Title),
		LessonID: d.LessonID,
		ModuleID: d.ModuleID,
	}
	for _, dq := range d.Questions {
		opts := make([]domain.QuizOption, len(dq.Options))
		for i, o := range dq.Options {
			opts[i] = domain.QuizOption{Text: strings.TrimSpace(o.Text), Correct: o.Correct}
		}
		q.Questions = append(q.Questions, domain.QuizQuestion{
			Text:    strings.TrimSpace(dq.Text),
			Kind:    dq.Kind,
			Options: opts,
		})
	}
	return q
}

// DraftFrom loads a stored quiz back into the editor.
func DraftFrom(q *domain.Quiz) Draft {
	d := Draft{Title: q.Title, LessonID: q.LessonID, ModuleID: q.ModuleID}
	for _, qq := range q.Questions {
		d.Questions = append(d.Questions, Question{
			Text:    qq.Text,
			Kind:    qq.Kind,
			Options: append([]domain.QuizOption(nil), qq.Options...),
		})
	}
	return d
}

func (d *Draft) hasQuestion(i int) bool {
	return i >= 0 && i < len(d.Questions)
}

func (d *Draft) hasOption(i, opt int) bool {
	return d.hasQuestion(i) && opt >= 0 && opt < len(d.Questions[i].Options)
}

func validKind(k domain.QuestionKind) bool {
	return k == domain.KindSingle || k == domain.KindMultiple
}

func countCorrect(opts []domain.QuizOption) int {
	n := 0
	for _, o := range opts {
		if o.Correct {
			n++
		}
	}
	return n
}

func firstCorrect(opts []domain.QuizOption) int {
	for i, o := range opts {
		if o.Correct {
			return i
		}
	}
	return -1
}
