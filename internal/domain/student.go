package domain

import (
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MemberAreaStudent grants an email access to a member area. Created on purchase.
type MemberAreaStudent struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	MemberAreaID uuid.UUID `json:"member_area_id" gorm:"type:uuid;not null;uniqueIndex:idx_student_area_email"`
	StudentEmail string    `json:"student_email" gorm:"size:255;not null;uniqueIndex:idx_student_area_email;index"`
	StudentName  string    `json:"student_name" gorm:"size:255"`
	CreatedAt    time.Time `json:"created_at"`

	MemberArea *MemberArea `json:"member_area,omitempty" gorm:"foreignKey:MemberAreaID;references:ID;constraint:OnDelete:CASCADE"`
}

func (MemberAreaStudent) TableName() string { return "member_area_students" }

func (s *MemberAreaStudent) BeforeCreate(_ *gorm.DB) error {
	ensureID(&s.ID)
	return nil
}

// LessonProgress is unique per (student email, lesson) and is never deleted.
type LessonProgress struct {
	ID              uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	StudentEmail    string     `json:"student_email" gorm:"size:255;not null;uniqueIndex:idx_progress_email_lesson"`
	LessonID        uuid.UUID  `json:"lesson_id" gorm:"type:uuid;not null;uniqueIndex:idx_progress_email_lesson"`
	MemberAreaID    uuid.UUID  `json:"member_area_id" gorm:"type:uuid;not null;index"`
	Completed       bool       `json:"completed" gorm:"not null;default:false"`
	Rating          int        `json:"rating" gorm:"not null;default:0"`
	PositionSeconds float64    `json:"position_seconds" gorm:"not null;default:0"`
	FurthestSeconds float64    `json:"furthest_seconds" gorm:"not null;default:0"`
	DurationSeconds float64    `json:"duration_seconds" gorm:"not null;default:0"`
	LastWatchedAt   *time.Time `json:"last_watched_at,omitempty" gorm:"index"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func (LessonProgress) TableName() string { return "lesson_progress" }

func (p *LessonProgress) BeforeCreate(_ *gorm.DB) error {
	ensureID(&p.ID)
	return nil
}

type LessonComment struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	LessonID     uuid.UUID `json:"lesson_id" gorm:"type:uuid;not null;index"`
	StudentEmail string    `json:"student_email" gorm:"size:255;not null"`
	StudentName  string    `json:"student_name" gorm:"size:255"`
	Text         string    `json:"text" gorm:"type:text;not null"`
	CreatedAt    time.Time `json:"created_at" gorm:"index"`
}

func (LessonComment) TableName() string { return "lesson_comments" }

func (c *LessonComment) BeforeCreate(_ *gorm.DB) error {
	ensureID(&c.ID)
	return nil
}

// Percentage is round(completed/total*100), and 0 when total is 0.
func Percentage(completed, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}
