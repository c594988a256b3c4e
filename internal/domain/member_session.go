package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SessionScope string

const (
	ScopeArea SessionScope = "area"
	ScopeHub  SessionScope = "hub"
)

// MemberSession is the server-side record of a member token. Only the token hash is stored.
type MemberSession struct {
	ID           uuid.UUID    `json:"id" gorm:"type:uuid;primaryKey"`
	TokenHash    string       `json:"-" gorm:"size:64;uniqueIndex;not null"`
	Email        string       `json:"email" gorm:"size:255;not null;index"`
	Name         string       `json:"name" gorm:"size:255"`
	Scope        SessionScope `json:"scope" gorm:"type:varchar(8);not null"`
	MemberAreaID *uuid.UUID   `json:"member_area_id,omitempty" gorm:"type:uuid"`
	ExpiresAt    time.Time    `json:"expires_at" gorm:"not null;index"`
	RevokedAt    *time.Time   `json:"revoked_at,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
}

func (MemberSession) TableName() string { return "member_sessions" }

func (s *MemberSession) BeforeCreate(_ *gorm.DB) error {
	ensureID(&s.ID)
	return nil
}

func (s *MemberSession) IsActive(now time.Time) bool {
	return s.RevokedAt == nil && now.Before(s.ExpiresAt)
}
