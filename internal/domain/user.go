package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type UserRole string

const (
	RoleSeller UserRole = "seller"
	RoleAdmin  UserRole = "admin"
)

// User is a seller or an admin. Buyers are identified by email only and never get a row here.
type User struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Email        string    `json:"email" gorm:"size:255;uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"size:255"`
	Name         string    `json:"name" gorm:"size:255"`
	Role         UserRole  `json:"role" gorm:"type:varchar(16);not null;default:'seller';index"`

	IsBanned  bool       `json:"is_banned" gorm:"not null;default:false"`
	BanReason string     `json:"ban_reason,omitempty" gorm:"size:500"`
	BannedAt  *time.Time `json:"banned_at,omitempty"`

	// RetentionPercent of the balance is withheld from withdrawal.
	RetentionPercent decimal.Decimal `json:"retention_percent" gorm:"type:numeric(5,2);not null;default:0"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string { return "users" }

func (u *User) BeforeCreate(_ *gorm.DB) error {
	ensureID(&u.ID)
	return nil
}

func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }
