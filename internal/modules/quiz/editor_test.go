package quiz

import (
	"testing"

	"kambafy/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func correctSet(q Question) []int {
	var out []int
	for i, o := range q.Options {
		if o.Correct {
			out = append(out, i)
		}
	}
	return out
}

func TestToggleCorrect_SingleAlwaysExactlyOne(t *testing.T) {
	var d Draft
	qi, err := d.AddQuestion(domain.KindSingle)
	require.NoError(t, err)
	require.NoError(t, d.AddOption(qi))

	for _, opt := range []int{2, 1, 1, 0} {
		require.NoError(t, d.ToggleCorrect(qi, opt))
		assert.Equal(t, []int{opt}, correctSet(d.Questions[qi]))
	}
}

func TestToggleCorrect_MultipleRejectsLastCorrect(t *testing.T) {
	var d Draft
	qi, _ := d.AddQuestion(domain.KindMultiple)

	require.NoError(t, d.ToggleCorrect(qi, 1))
	assert.Equal(t, []int{0, 1}, correctSet(d.Questions[qi]))

	require.NoError(t, d.ToggleCorrect(qi, 0))
	assert.Equal(t, []int{1}, correctSet(d.Questions[qi]))

	err := d.ToggleCorrect(qi, 1)
	assert.ErrorIs(t, err, ErrLastCorrectAnswer)
	assert.Equal(t, []int{1}, correctSet(d.Questions[qi]))
}

func TestOptions_Bounds(t *testing.T) {
	var d Draft
	qi, _ := d.AddQuestion(domain.KindSingle)

	assert.ErrorIs(t, d.RemoveOption(qi, 0), ErrTooFewOptions)
	for len(d.Questions[qi].Options) < MaxOptions {
		require.NoError(t, d.AddOption(qi))
	}
	assert.ErrorIs(t, d.AddOption(qi), ErrTooManyOptions)
	assert.ErrorIs(t, d.RemoveOption(qi, 9), ErrOutOfRange)
	assert.ErrorIs(t, d.AddOption(3), ErrOutOfRange)
}

func TestRemoveOption_PromotesFirstWhenCorrectRemoved(t *testing.T) {
	var d Draft
	qi, _ := d.AddQuestion(domain.KindSingle)
	require.NoError(t, d.AddOption(qi))
	require.NoError(t, d.ToggleCorrect(qi, 1))

	require.NoError(t, d.RemoveOption(qi, 1))
	assert.Equal(t, []int{0}, correctSet(d.Questions[qi]))
	assert.Len(t, d.Questions[qi].Options, 2)
}

func TestSetKind_SingleKeepsFirstCorrect(t *testing.T) {
	var d Draft
	qi, _ := d.AddQuestion(domain.KindMultiple)
	require.NoError(t, d.AddOption(qi))
	require.NoError(t, d.ToggleCorrect(qi, 2))
	require.NoError(t, d.ToggleCorrect(qi, 0))
	assert.Equal(t, []int{2}, correctSet(d.Questions[qi]))
	require.NoError(t, d.ToggleCorrect(qi, 1))

	require.NoError(t, d.SetKind(qi, domain.KindSingle))
	assert.Equal(t, []int{1}, correctSet(d.Questions[qi]))
	assert.ErrorIs(t, d.SetKind(qi, "essay"), ErrUnknownKind)
}

func TestMoveAndRemoveQuestion(t *testing.T) {
	var d Draft
	for _, text := range []string{"a", "b", "c"} {
		qi, _ := d.AddQuestion(domain.KindSingle)
		require.NoError(t, d.SetQuestionText(qi, text))
	}

	require.NoError(t, d.MoveQuestion(0, 2))
	assert.Equal(t, []string{"b", "c", "a"}, texts(d))

	require.NoError(t, d.MoveQuestion(2, 0))
	assert.Equal(t, []string{"a", "b", "c"}, texts(d))

	require.NoError(t, d.RemoveQuestion(1))
	assert.Equal(t, []string{"a", "c"}, texts(d))
	assert.ErrorIs(t, d.MoveQuestion(0, 5), ErrOutOfRange)
}

func texts(d Draft) []string {
	out := make([]string, len(d.Questions))
	for i, q := range d.Questions {
		out[i] = q.Text
	}
	return out
}

func validDraft() Draft {
	lesson := uuid.New()
	d := Draft{Title: "Revisão", LessonID: &lesson}
	qi, _ := d.AddQuestion(domain.KindSingle)
	_ = d.SetQuestionText(qi, "2 + 2?")
	_ = d.SetOptionText(qi, 0, "4")
	_ = d.SetOptionText(qi, 1, "5")
	return d
}

func TestValidate(t *testing.T) {
	d := validDraft()
	require.NoError(t, d.Validate())

	tests := []struct {
		name   string
		mutate func(*Draft)
	}{
		{"blank title", func(d *Draft) { d.Title = "  " }},
		{"no target", func(d *Draft) { d.LessonID = nil }},
		{"both targets", func(d *Draft) { m := uuid.New(); d.ModuleID = &m }},
		{"no questions", func(d *Draft) { d.Questions = nil }},
		{"blank question", func(d *Draft) { d.Questions[0].Text = "" }},
		{"blank option", func(d *Draft) { d.Questions[0].Options[1].Text = " " }},
		{"one option", func(d *Draft) { d.Questions[0].Options = d.Questions[0].Options[:1] }},
		{"no correct", func(d *Draft) { d.Questions[0].Options[0].Correct = false }},
		{"single with two correct", func(d *Draft) { d.Questions[0].Options[1].Correct = true }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDraft()
			tt.mutate(&d)
			err := d.Validate()
			assert.ErrorIs(t, err, ErrInvalidQuiz)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.NotEmpty(t, verr.Problems)
		})
	}
}
