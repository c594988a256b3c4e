package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type QuestionKind string

const (
	KindSingle   QuestionKind = "single"
	KindMultiple QuestionKind = "multiple"
)

// Quiz is attached to exactly one of a lesson or a module.
type Quiz struct {
	ID        uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	SellerID  uuid.UUID  `json:"seller_id" gorm:"type:uuid;not null;index"`
	Title     string     `json:"title" gorm:"size:255;not null"`
	LessonID  *uuid.UUID `json:"lesson_id,omitempty" gorm:"type:uuid;index"`
	ModuleID  *uuid.UUID `json:"module_id,omitempty" gorm:"type:uuid;index"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`

	Questions []QuizQuestion `json:"questions,omitempty" gorm:"foreignKey:QuizID;constraint:OnDelete:CASCADE"`
}

func (Quiz) TableName() string { return "quizzes" }

func (q *Quiz) BeforeCreate(_ *gorm.DB) error {
	ensureID(&q.ID)
	return nil
}

type QuizOption struct {
	Text    string `json:"text"`
	Correct bool   `json:"correct"`
}

type QuizQuestion struct {
	ID       uuid.UUID                       `json:"id" gorm:"type:uuid;primaryKey"`
	QuizID   uuid.UUID                       `json:"quiz_id" gorm:"type:uuid;not null;index"`
	Position int                             `json:"position" gorm:"not null"`
	Text     string                          `json:"text" gorm:"type:text;not null"`
	Kind     QuestionKind                    `json:"kind" gorm:"type:varchar(16);not null;default:'single'"`
	Options  datatypes.JSONSlice[QuizOption] `json:"options" gorm:"type:json"`
}

func (QuizQuestion) TableName() string { return "quiz_questions" }

func (q *QuizQuestion) BeforeCreate(_ *gorm.DB) error {
	ensureID(&q.ID)
	return nil
}
