// Copyright (c) 2026 GymFusion. All rights reserved.
// Author: dev@gymfusion.app

// PostgreSQL implementation of the auth storage contracts.
//
// # Architecture
//
// Repositories in this file are strictly separated from domain logic. They
// implement domain-defined interfaces (e.g., [UserRepository]) using the
// [pgxpool.Pool] connection manager.
//
// # Error Mapping
//
// Storage-specific errors (like pgx.ErrNoRows) are mapped to domain-friendly
// [apperr.AppError] types to avoid leaking storage implementation details.

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gymfusion/gymfusion/internal/platform/apperr"
)

// userColumns is the canonical SELECT list for hydrating a [User].
const userColumns = `
	id, name, email, phone, passwordhash, role, avatarurl,
	isemailverified, refreshtokenhash, createdat, updatedat`

// # User Repository

// PostgresUserRepository implements the UserRepository interface using pgx.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

/*
Create persists a new member record into the users.account table.

Description: Deep-persists account metadata, ensuring timestamps are initialized
if not provided.

Parameters:
  - context: context.Context
  - user: *User (Entity to persist)

Returns:
  - error: Database constraint violations or connectivity errors
*/
func (repository *PostgresUserRepository) Create(context context.Context, user *User) error {
	const query = `
		INSERT INTO users.account (
			id, name, email, phone, passwordhash, role, avatarurl,
			isemailverified, refreshtokenhash, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		user.ID,
		user.Name,
		user.Email,
		nullable(user.Phone),
		user.PasswordHash,
		user.Role,
		nullable(user.AvatarURL),
		user.IsEmailVerified,
		nullable(user.RefreshTokenHash),
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("postgres_user_repo_create_failed: %w", err)
	}

	return nil
}

/*
FindByID retrieves a member record by its primary identifier.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) FindByID(context context.Context, id string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users.account WHERE id = $1`
	return repository.scanOne(context, query, id)
}

/*
FindByEmail retrieves a member record by their unique email address.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) FindByEmail(context context.Context, email string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users.account WHERE email = $1`
	return repository.scanOne(context, query, email)
}

/*
FindByPhone retrieves a member record by their unique phone number.

Parameters:
  - context: context.Context
  - phone: string

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) FindByPhone(context context.Context, phone string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users.account WHERE phone = $1`
	return repository.scanOne(context, query, phone)
}

/*
ExistsByID reports whether an account row exists for the given ID.

Description: Lightweight existence probe for the authentication middleware;
avoids hydrating the full row on every request.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - bool: true when a row exists
  - error: Connectivity errors
*/
func (repository *PostgresUserRepository) ExistsByID(context context.Context, id string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM users.account WHERE id = $1)`

	var exists bool
	if err := repository.pool.QueryRow(context, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("postgres_user_repo_exists_failed: %w", err)
	}

	return exists, nil
}

/*
UpdateRefreshTokenHash overwrites the stored refresh-token digest.

Description: Rotation-by-overwrite. The previous session's token is dead the
moment this commits, regardless of its JWT expiry.

Parameters:
  - context: context.Context
  - userID: string
  - tokenHash: string

Returns:
  - error: apperr.NotFound or persistence failures
*/
func (repository *PostgresUserRepository) UpdateRefreshTokenHash(context context.Context, userID, tokenHash string) error {
	const query = `
		UPDATE users.account
		SET refreshtokenhash = $2, updatedat = NOW()
		WHERE id = $1`

	return repository.execExpectingRow(context, query, "postgres_user_repo_update_refresh_failed", userID, tokenHash)
}

/*
ClearRefreshToken removes the stored refresh-token digest.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - error: apperr.NotFound or persistence failures
*/
func (repository *PostgresUserRepository) ClearRefreshToken(context context.Context, userID string) error {
	const query = `
		UPDATE users.account
		SET refreshtokenhash = NULL, updatedat = NOW()
		WHERE id = $1`

	return repository.execExpectingRow(context, query, "postgres_user_repo_clear_refresh_failed", userID)
}

/*
UpdatePassword replaces only the user's password hash.

Parameters:
  - context: context.Context
  - userID: string
  - newHash: string

Returns:
  - error: apperr.NotFound or persistence failures
*/
func (repository *PostgresUserRepository) UpdatePassword(context context.Context, userID, newHash string) error {
	const query = `
		UPDATE users.account
		SET passwordhash = $2, updatedat = NOW()
		WHERE id = $1`

	return repository.execExpectingRow(context, query, "postgres_user_repo_update_password_failed", userID, newHash)
}

/*
MarkVerified updates the user's status to isemailverified = true.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - error: apperr.NotFound or persistence failures
*/
func (repository *PostgresUserRepository) MarkVerified(context context.Context, userID string) error {
	const query = `
		UPDATE users.account
		SET isemailverified = TRUE, updatedat = NOW()
		WHERE id = $1`

	return repository.execExpectingRow(context, query, "postgres_user_repo_mark_verified_failed", userID)
}

/*
UpdateAvatarURL replaces the account's avatar URL.

Parameters:
  - context: context.Context
  - userID: string
  - avatarURL: string

Returns:
  - error: apperr.NotFound or persistence failures
*/
func (repository *PostgresUserRepository) UpdateAvatarURL(context context.Context, userID, avatarURL string) error {
	const query = `
		UPDATE users.account
		SET avatarurl = $2, updatedat = NOW()
		WHERE id = $1`

	return repository.execExpectingRow(context, query, "postgres_user_repo_update_avatar_failed", userID, avatarURL)
}

// # Internal Helpers

// scanOne runs a single-row query and hydrates a User entity.
func (repository *PostgresUserRepository) scanOne(context context.Context, query string, arg any) (*User, error) {
	user := &User{}
	var phone, avatarURL, refreshTokenHash *string

	err := repository.pool.QueryRow(context, query, arg).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&phone,
		&user.PasswordHash,
		&user.Role,
		&avatarURL,
		&user.IsEmailVerified,
		&refreshTokenHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User")
		}
		return nil, fmt.Errorf("postgres_user_repo_find_failed: %w", err)
	}

	user.Phone = deref(phone)
	user.AvatarURL = deref(avatarURL)
	user.RefreshTokenHash = deref(refreshTokenHash)

	return user, nil
}

// execExpectingRow runs an UPDATE and converts a zero-row result to NotFound.
func (repository *PostgresUserRepository) execExpectingRow(context context.Context, query, tag string, args ...any) error {
	result, err := repository.pool.Exec(context, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", tag, err)
	}

	if result.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}

	return nil
}

// nullable maps an empty string to a SQL NULL.
func nullable(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

// deref maps a SQL NULL back to an empty string.
func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
