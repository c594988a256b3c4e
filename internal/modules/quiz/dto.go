package quiz

import (
	"kambafy/internal/domain"

	"github.com/google/uuid"
)

type OptionRequest struct {
	Text    string `json:"text"`
	Correct bool   `json:"correct"`
}

type QuestionRequest struct {
	Text    string          `json:"text"`
	Kind    string          `json:"kind" binding:"omitempty,oneof=single multiple"`
	Options []OptionRequest `json:"options"`
}

// SaveQuizRequest is validated by Draft.Validate so every problem is reported at once.
type SaveQuizRequest struct {
	Title     string            `json:"title"`
	LessonID  *string           `json:"lesson_id" binding:"omitempty,uuid"`
	ModuleID  *string           `json:"module_id" binding:"omitempty,uuid"`
	Questions []QuestionRequest `json:"questions" binding:"dive"`
}

func (r SaveQuizRequest) Draft() Draft {
	d := Draft{Title: r.Title, LessonID: parseOptionalID(r.LessonID), ModuleID: parseOptionalID(r.ModuleID)}
	for _, q := range r.Questions {
		kind := domain.QuestionKind(q.Kind)
		if kind == "" {
			kind = domain.KindSingle
		}
		opts := make([]domain.QuizOption, len(q.Options))
		for i, o := range q.Options {
			opts[i] = domain.QuizOption{Text: o.Text, Correct: o.Correct}
		}
		d.Questions = append(d.Questions, Question{Text: q.Text, Kind: kind, Options: opts})
	}
	return d
}

func parseOptionalID(raw *string) *uuid.UUID {
	if raw == nil || *raw == "" {
		return nil
	}
	id, err := uuid.Parse(*raw)
	if err != nil {
		return nil
	}
	return &id
}
