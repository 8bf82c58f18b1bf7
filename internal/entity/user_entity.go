package entity

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	Id              uuid.UUID
	Email           string
	PasswordHash    *string // nil for OAuth-only accounts
	FullName        string
	EmailVerified   bool
	EmailVerifiedAt *time.Time
	AvatarURL       *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// UserProvider links a user to an external OAuth identity.
type UserProvider struct {
	Id             uuid.UUID
	UserId         uuid.UUID
	ProviderName   string
	ProviderUserId string
	AvatarURL      string
	CreatedAt      time.Time
}

// EmailVerification is a short-lived OTP challenge sent after registration.
type EmailVerification struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	Code      string
	ExpiresAt time.Time
	CreatedAt time.Time
}
