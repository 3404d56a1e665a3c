// Copyright (c) 2026 GymFusion. All rights reserved.
// Author: dev@gymfusion.app

package auth

import (
	"time"

	"github.com/gymfusion/gymfusion/internal/platform/sec"
)

// # Domain Entities

// User represents a registered member of the GymFusion platform.
//
// RefreshTokenHash holds the SHA-256 digest of the single currently valid
// refresh token. Each login or refresh overwrites it, so an account has at
// most one live session at any time.
type User struct {
	ID               string       `json:"id"`
	Name             string       `json:"name"`
	Email            string       `json:"email"`
	Phone            string       `json:"phone,omitempty"`
	PasswordHash     string       `json:"-"` // Explicitly omitted from JSON for security.
	Role             sec.UserRole `json:"role"`
	AvatarURL        string       `json:"avatar_url,omitempty"`
	IsEmailVerified  bool         `json:"is_email_verified"`
	RefreshTokenHash string       `json:"-"` // Digest of the active refresh token. Omitted for security.
	CreatedAt        time.Time    `json:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at"`
}

// # Field Identifiers

// Global field names for validation and identity mapping in the authentication domain.
const (
	FieldName            = "name"
	FieldEmail           = "email"
	FieldPhone           = "phone"
	FieldPassword        = "password"
	FieldToken           = "token"
	FieldOldPassword     = "old_password"
	FieldNewPassword     = "new_password"
	FieldRefreshToken    = "refresh_token"
	FieldAccessToken     = "access_token"
	FieldTokenType       = "token_type"
	FieldExpiresIn       = "expires_in"
	FieldUser            = "user"
	FieldMessage         = "message"
	FieldAvatar          = "avatar"
)
