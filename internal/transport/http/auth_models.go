package http

import (
	"time"

	"github.com/google/uuid"

	"github.com/affistack/affistack-api/internal/plan"
)

// SignupRequest carries account registration fields.
type SignupRequest struct {
	FullName        string `json:"fullName" validate:"required,max=100"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8,max=128"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
	Plan            string `json:"plan" validate:"required,oneof=basic pro enterprise"`
}

// LoginRequest carries login fields.
type LoginRequest struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required"`
	RememberMe bool   `json:"rememberMe"`
}

// UserResponse is the sanitized user representation returned by auth
// endpoints; it never includes credential material.
type UserResponse struct {
	ID           uuid.UUID      `json:"id"`
	Email        string         `json:"email"`
	FullName     string         `json:"fullName,omitempty"`
	Plan         string         `json:"plan"`
	WebsiteLimit int            `json:"websiteLimit"`
	Features     []plan.Feature `json:"features,omitempty"`
	CreatedAt    *time.Time     `json:"createdAt,omitempty"`
}
