package auth

import (
	"time"

	"kambafy/internal/domain"
)

type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=255"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      domain.User `json:"user"`
}

// MeResponse also reports impersonation so the dashboard can show a banner.
type MeResponse struct {
	User           domain.User `json:"user"`
	ImpersonatorID string      `json:"impersonator_id,omitempty"`
	ReadOnly       bool        `json:"read_only"`
}

type GoogleURLResponse struct {
	URL string `json:"url"`
}
