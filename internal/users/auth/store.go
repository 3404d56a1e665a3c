// Copyright (c) 2026 GymFusion. All rights reserved.
// Author: dev@gymfusion.app

package auth

import (
	"context"
	"time"
)

// # User Data Access

// UserRepository defines the data access contract for member accounts.
type UserRepository interface {

	/*
		FindByID returns the account with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByID(context context.Context, id string) (*User, error)

	/*
		FindByEmail returns the account with the given email.

		Parameters:
		  - context: context.Context
		  - email: string

		Returns:
		  - *User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByEmail(context context.Context, email string) (*User, error)

	/*
		FindByPhone returns the account with the given phone number.

		Parameters:
		  - context: context.Context
		  - phone: string

		Returns:
		  - *User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByPhone(context context.Context, phone string) (*User, error)

	/*
		ExistsByID reports whether an account with the given ID exists.

		Used by the authentication middleware to re-resolve token subjects
		without hydrating the full row.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - bool: true when the account exists
		  - error: Database retrieval failures
	*/
	ExistsByID(context context.Context, id string) (bool, error)

	/*
		Create persists a brand-new member account to the storage.

		Parameters:
		  - context: context.Context
		  - user: *User

		Returns:
		  - error: Persistence failures
	*/
	Create(context context.Context, user *User) error

	/*
		UpdateRefreshTokenHash overwrites the stored refresh-token digest,
		implicitly revoking whatever session held the previous token.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - tokenHash: string

		Returns:
		  - error: Persistence failures
	*/
	UpdateRefreshTokenHash(context context.Context, userID, tokenHash string) error

	/*
		ClearRefreshToken removes the stored refresh-token digest, ending the
		account's session.

		Parameters:
		  - context: context.Context
		  - userID: string

		Returns:
		  - error: Persistence failures
	*/
	ClearRefreshToken(context context.Context, userID string) error

	/*
		UpdatePassword replaces only the user's password hash.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - newHash: string

		Returns:
		  - error: Persistence failures
	*/
	UpdatePassword(context context.Context, userID, newHash string) error

	/*
		MarkVerified flips the account's email-verified flag to true.

		Parameters:
		  - context: context.Context
		  - userID: string

		Returns:
		  - error: Persistence failures
	*/
	MarkVerified(context context.Context, userID string) error

	/*
		UpdateAvatarURL replaces the account's avatar URL.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - avatarURL: string

		Returns:
		  - error: Persistence failures
	*/
	UpdateAvatarURL(context context.Context, userID, avatarURL string) error
}

// # Volatile Data Access

// EphemeralTokenRepository defines the contract for short-lived, single-use
// tokens (email verification, password reset).
//
// Implementations key entries by the token's digest, never the raw value,
// and must guarantee that issuing a new token for a user invalidates any
// previous token of the same purpose.
type EphemeralTokenRepository interface {

	/*
		Set stores a token digest for a userID with a limited duration,
		replacing any earlier token issued to the same user.

		Parameters:
		  - context: context.Context
		  - tokenHash: string (digest of the raw token)
		  - userID: string
		  - ttl: time.Duration

		Returns:
		  - error: Persistence failures
	*/
	Set(context context.Context, tokenHash string, userID string, ttl time.Duration) error

	/*
		Consume atomically retrieves and deletes the entry for a token digest.
		A second call with the same digest always fails.

		Parameters:
		  - context: context.Context
		  - tokenHash: string

		Returns:
		  - string: UserID the token was issued to
		  - error: apperr.Unauthorized when absent or expired
	*/
	Consume(context context.Context, tokenHash string) (string, error)
}
