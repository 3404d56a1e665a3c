// Copyright (c) 2026 GymFusion. All rights reserved.
// Author: dev@gymfusion.app

/*
Package auth implements the core identity and access management system.

It handles everything from member registration and secure password hashing to
the session lifecycle built on JWT access/refresh pairs with rotation by
overwrite, plus the ephemeral-token flows (email verification, password reset).

Architecture:

  - Service: Orchestrates business logic (Register, Login, Refresh, Recovery).
  - Repository: Abstracted interfaces for Postgres (Users) and Redis (Tokens).
  - Security: Leverages bcrypt hashing and HMAC-signed JWTs with distinct
    access/refresh secrets.

The package ensures that identity data remains consistent and secure throughout
the platform's lifecycle.
*/
package auth

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"time"

	"github.com/gymfusion/gymfusion/internal/platform/apperr"
	"github.com/gymfusion/gymfusion/internal/platform/mailer"
	"github.com/gymfusion/gymfusion/internal/platform/sec"
	"github.com/gymfusion/gymfusion/pkg/uuid"
)

// # Contracts & Types

// TokenProvider defines the contract for generating and checking JWTs.
type TokenProvider interface {
	// GenerateAccessToken creates a signed JWT string for the given user.
	//
	// # Parameters
	//   - userID: The ID of the account.
	//   - email: The email of the account.
	//   - role: The role of the account.
	//   - timeToLive: The duration before the token expires.
	//
	// # Returns
	//   - A signed JWT string, or an err if signing fails.
	GenerateAccessToken(userID, email, role string, timeToLive time.Duration) (string, error)

	// GenerateRefreshToken creates a signed, subject-only refresh JWT.
	GenerateRefreshToken(userID string, timeToLive time.Duration) (string, error)

	// VerifyRefreshToken checks signature and expiry and returns the subject.
	VerifyRefreshToken(tokenString string) (string, error)
}

// AvatarUploader stores an avatar blob and returns its public URL.
type AvatarUploader interface {
	Upload(context context.Context, key string, contentType string, body io.Reader) (string, error)
}

// Observer receives business-level events for metrics collection.
type Observer interface {
	RecordLogin(success bool)
	RecordMailSend(success bool)
}

// Options carries the tunable knobs the service needs from configuration.
type Options struct {
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	// PublicBaseURL is the front-end origin used to build the links embedded
	// in verification and reset emails.
	PublicBaseURL string
}

// Service implements member authentication use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, token
// rotation, or login logic must be reviewed by the security team.
type Service struct {
	userRepository   UserRepository
	verifyTokenRepo  EphemeralTokenRepository
	resetTokenRepo   EphemeralTokenRepository
	tokenProvider    TokenProvider
	mailSender       mailer.Sender
	avatarUploader   AvatarUploader
	observer         Observer
	options          Options
	logger           *slog.Logger
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(
	userRepo UserRepository,
	verifyRepo EphemeralTokenRepository,
	resetRepo EphemeralTokenRepository,
	tokenProv TokenProvider,
	mailSender mailer.Sender,
	avatarUploader AvatarUploader,
	observer Observer,
	options Options,
	logger *slog.Logger,
) *Service {
	return &Service{
		userRepository:  userRepo,
		verifyTokenRepo: verifyRepo,
		resetTokenRepo:  resetRepo,
		tokenProvider:   tokenProv,
		mailSender:      mailSender,
		avatarUploader:  avatarUploader,
		observer:        observer,
		options:         options,
		logger:          logger,
	}
}

// # Registration Flow

// RegisterInput holds the data required to enroll a new member.
type RegisterInput struct {
	Name     string
	Email    string
	Phone    string
	Password string
}

/*
Register validates, hashes, and persists a brand new member account.

Description: Deep-enrollment of a new member. The account starts unverified;
a verification token is issued and mailed as a best-effort side effect, so
registration succeeds even when the mail relay is down.

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - *User: Created entity
  - err: Conflict (if identity exists) or storage errors
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*User, error) {

	// Verify email uniqueness. Return a client-safe Conflict err.
	_, err := service.userRepository.FindByEmail(context, input.Email)
	if err == nil {
		return nil, apperr.Conflict("Email is already registered")
	}

	// Verify phone uniqueness when provided.
	if input.Phone != "" {
		_, err = service.userRepository.FindByPhone(context, input.Phone)
		if err == nil {
			return nil, apperr.Conflict("Phone number is already registered")
		}
	}

	// Prevent storing plain-text passwords. Default cost is used for balance
	// between security and CPU utilization during registration spikes.
	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	// Construct the new User entity. Time-sortable ID to prevent PG index fragmentation.
	user := &User{
		ID:              uuid.New(),
		Name:            input.Name,
		Email:           input.Email,
		Phone:           input.Phone,
		PasswordHash:    hashedPassword,
		Role:            sec.RoleUser,
		IsEmailVerified: false,
	}

	// Persist the user to the database
	if err := service.userRepository.Create(context, user); err != nil {
		return nil, fmt.Errorf("auth_service_register_failed: %w", err)
	}

	// Issue the verification token and mail the link, best-effort.
	service.issueVerificationEmail(context, user)

	return user, nil
}

/*
ResendVerificationEmail issues a fresh verification token for the account.

Description: The previously issued token (if any) is revoked by overwrite.
Already-verified accounts are rejected with a Conflict.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - err: Conflict, NotFound, or storage failures
*/
func (service *Service) ResendVerificationEmail(context context.Context, userID string) error {
	user, err := service.userRepository.FindByID(context, userID)
	if err != nil {
		return err
	}

	if user.IsEmailVerified {
		return apperr.Conflict("Email is already verified")
	}

	service.issueVerificationEmail(context, user)
	return nil
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt. Exactly one
// of Email or Phone identifies the account.
type LoginInput struct {
	Email    string
	Phone    string
	Password string
}

// Session represents a successfully established single-session login.
type Session struct {
	AccessToken  string
	RefreshToken string
	User         *User
}

/*
Login validates member credentials and issues a fresh token pair.

Description: Verifies identity via a field-qualified email or phone lookup,
performs constant-time password comparison, and overwrites the stored refresh
digest so any prior session for the account is revoked.

Parameters:
  - context: context.Context
  - input: LoginInput

Returns:
  - *Session: Transport-ready session credentials
  - err: Unauthorized or internal failures
*/
func (service *Service) Login(context context.Context, input LoginInput) (*Session, error) {
	var user *User
	var err error

	// Field-qualified lookup: email wins when both are supplied.
	if input.Email != "" {
		user, err = service.userRepository.FindByEmail(context, input.Email)
	} else {
		user, err = service.userRepository.FindByPhone(context, input.Phone)
	}

	// If (err != nil) the user does not exist. Generic message to prevent enumeration.
	if err != nil {
		service.observer.RecordLogin(false)
		return nil, apperr.Unauthorized("Invalid credentials")
	}

	// bcrypt performs the comparison in constant time to prevent timing attacks.
	if !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		service.observer.RecordLogin(false)
		return nil, apperr.Unauthorized("Invalid credentials")
	}

	session, err := service.issueSession(context, user)
	if err != nil {
		return nil, err
	}

	service.observer.RecordLogin(true)
	return session, nil
}

/*
Logout ends the member's active session.

Description: Clears the stored refresh digest so the outstanding refresh token
can never be used again. Idempotent: logging out twice is not an error.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - err: Persistence failures
*/
func (service *Service) Logout(context context.Context, userID string) error {
	err := service.userRepository.ClearRefreshToken(context, userID)

	// A missing row means the session is already gone; treat as success.
	if ae := apperr.As(err); ae != nil && ae.Code == "NOT_FOUND" {
		return nil
	}

	return err
}

// # Session Management

/*
RefreshSession rotates the member's token pair.

Description: Verifies the refresh JWT's signature and expiry, then compares
its digest against the single value stored on the account. Both checks fail
with the same client-visible message, so a stolen-but-rotated-out token leaks
nothing. On success a brand new pair is issued and the stored digest is
overwritten (rotation-by-overwrite).

Parameters:
  - context: context.Context
  - refreshToken: string

Returns:
  - *Session: New session credentials
  - err: Unauthorized or storage failures
*/
func (service *Service) RefreshSession(context context.Context, refreshToken string) (*Session, error) {

	// Signature and expiry check yields the subject.
	userID, err := service.tokenProvider.VerifyRefreshToken(refreshToken)
	if err != nil {
		return nil, apperr.Unauthorized("Refresh token is expired or used")
	}

	user, err := service.userRepository.FindByID(context, userID)
	if err != nil {
		return nil, apperr.Unauthorized("Refresh token is expired or used")
	}

	// The presented token must be the one most recently issued. Anything
	// else was rotated out by a later login or refresh.
	if user.RefreshTokenHash == "" || sec.HashToken(refreshToken) != user.RefreshTokenHash {
		return nil, apperr.Unauthorized("Refresh token is expired or used")
	}

	return service.issueSession(context, user)
}

// issueSession generates a fresh access/refresh pair and persists the new
// refresh digest, revoking whatever session held the previous token.
func (service *Service) issueSession(context context.Context, user *User) (*Session, error) {
	accessToken, err := service.tokenProvider.GenerateAccessToken(
		user.ID, user.Email, string(user.Role), service.options.AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("auth_service_access_token_failed: %w", err)
	}

	refreshToken, err := service.tokenProvider.GenerateRefreshToken(user.ID, service.options.RefreshTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("auth_service_refresh_token_failed: %w", err)
	}

	// Rotation-by-overwrite: persist only the digest, never the raw token.
	if err := service.userRepository.UpdateRefreshTokenHash(context, user.ID, sec.HashToken(refreshToken)); err != nil {
		return nil, fmt.Errorf("auth_service_session_persist_failed: %w", err)
	}

	return &Session{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
	}, nil
}

// # Email Verification

/*
VerifyEmail confirms a member's email address using a secure token.

Description: The raw token from the emailed link is hashed and atomically
consumed; replaying the same link fails with the same generic error as an
expired or fabricated token.

Parameters:
  - context: context.Context
  - rawToken: string

Returns:
  - err: Unauthorized (invalid/expired/used token) or storage errors
*/
func (service *Service) VerifyEmail(context context.Context, rawToken string) error {
	userID, err := service.verifyTokenRepo.Consume(context, sec.HashToken(rawToken))
	if err != nil {
		return err
	}

	if err := service.userRepository.MarkVerified(context, userID); err != nil {
		return fmt.Errorf("auth_service_verify_email_failed: %w", err)
	}

	return nil
}

// # Password Recovery

/*
RequestPasswordReset initiates the forgot-password flow.

Description: Generates a secure token, stores its digest with a short TTL,
and mails the reset link. Unknown emails succeed silently to prevent account
enumeration.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - err: Generation or storage errors
*/
func (service *Service) RequestPasswordReset(context context.Context, email string) error {
	user, err := service.userRepository.FindByEmail(context, email)
	if err != nil {
		// Intentionally silent for unknown emails.
		return nil
	}

	rawToken, err := sec.GenerateSecureToken(EphemeralTokenLength)
	if err != nil {
		return fmt.Errorf("auth_service_generate_reset_token_failed: %w", err)
	}

	if err := service.resetTokenRepo.Set(context, sec.HashToken(rawToken), user.ID, EphemeralTokenTTL); err != nil {
		return fmt.Errorf("auth_service_save_reset_token_failed: %w", err)
	}

	resetURL := service.options.PublicBaseURL + "/reset-password/" + rawToken
	service.sendMail(context, mailer.PasswordResetEmail(user.Email, user.Name, resetURL))

	return nil
}

/*
ResetPassword completes the forgot-password flow.

Description: Consumes the token (single use), hashes the new password, and
clears the stored refresh digest so any live session is revoked.

Parameters:
  - context: context.Context
  - rawToken: string
  - newPassword: string

Returns:
  - err: Unauthorized (bad token) or update failures
*/
func (service *Service) ResetPassword(context context.Context, rawToken, newPassword string) error {
	userID, err := service.resetTokenRepo.Consume(context, sec.HashToken(rawToken))
	if err != nil {
		return err
	}

	hashedPassword, err := sec.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("auth_service_reset_password_hash_failed: %w", err)
	}

	if err := service.userRepository.UpdatePassword(context, userID, hashedPassword); err != nil {
		return fmt.Errorf("auth_service_reset_password_update_failed: %w", err)
	}

	// Security cleanup: force re-login on whatever device held the session.
	_ = service.userRepository.ClearRefreshToken(context, userID)

	return nil
}

/*
ChangePassword allows an authenticated member to update their credentials.

Description: Verifies the current password before applying the new hash. The
active session is kept: the member proved possession of the password, there
is no reason to log them out.

Parameters:
  - context: context.Context
  - userID: string
  - oldPassword: string
  - newPassword: string

Returns:
  - err: Unauthorized or storage failures
*/
func (service *Service) ChangePassword(context context.Context, userID, oldPassword, newPassword string) error {
	user, err := service.userRepository.FindByID(context, userID)
	if err != nil {
		return err
	}

	if !sec.CheckPasswordHash(oldPassword, user.PasswordHash) {
		return apperr.Unauthorized("Invalid old password")
	}

	hashedPassword, err := sec.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("auth_service_change_password_hash_failed: %w", err)
	}

	if err := service.userRepository.UpdatePassword(context, userID, hashedPassword); err != nil {
		return fmt.Errorf("auth_service_change_password_update_failed: %w", err)
	}

	return nil
}

// # Profile

/*
CurrentUser returns the authenticated member's full profile.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *User: Hydrated profile
  - err: NotFound or storage failures
*/
func (service *Service) CurrentUser(context context.Context, userID string) (*User, error) {
	return service.userRepository.FindByID(context, userID)
}

/*
UpdateAvatar stores a new avatar image and records its public URL.

Parameters:
  - context: context.Context
  - userID: string
  - filename: string (original upload name, used only for its extension)
  - contentType: string
  - body: io.Reader

Returns:
  - *User: Profile with the refreshed avatar URL
  - err: Upload or storage failures
*/
func (service *Service) UpdateAvatar(context context.Context, userID, filename, contentType string, body io.Reader) (*User, error) {
	user, err := service.userRepository.FindByID(context, userID)
	if err != nil {
		return nil, err
	}

	// Content-addressed-ish key: a fresh UUID per upload sidesteps CDN
	// cache invalidation on replacement.
	key := "avatars/" + user.ID + "/" + uuid.New() + path.Ext(filename)

	avatarURL, err := service.avatarUploader.Upload(context, key, contentType, body)
	if err != nil {
		return nil, apperr.ServiceUnavailable("Avatar storage is temporarily unavailable")
	}

	if err := service.userRepository.UpdateAvatarURL(context, user.ID, avatarURL); err != nil {
		return nil, fmt.Errorf("auth_service_update_avatar_failed: %w", err)
	}

	user.AvatarURL = avatarURL
	return user, nil
}

// # Middleware Support

// SubjectExists reports whether a token subject still maps to a live account.
// Satisfies the authentication middleware's SubjectResolver contract.
func (service *Service) SubjectExists(context context.Context, userID string) (bool, error) {
	return service.userRepository.ExistsByID(context, userID)
}

// # Internal Helpers

// issueVerificationEmail mints a verification token and mails the link.
// Failures are logged and swallowed; account creation must not depend on
// the mail relay.
func (service *Service) issueVerificationEmail(context context.Context, user *User) {
	rawToken, err := sec.GenerateSecureToken(EphemeralTokenLength)
	if err != nil {
		service.logger.ErrorContext(context, "verification_token_generation_failed",
			slog.String("user_id", user.ID), slog.Any("error", err))
		return
	}

	if err := service.verifyTokenRepo.Set(context, sec.HashToken(rawToken), user.ID, EphemeralTokenTTL); err != nil {
		service.logger.ErrorContext(context, "verification_token_store_failed",
			slog.String("user_id", user.ID), slog.Any("error", err))
		return
	}

	verificationURL := service.options.PublicBaseURL + "/verify-email/" + rawToken
	service.sendMail(context, mailer.VerificationEmail(user.Email, user.Name, verificationURL))
}

// sendMail delivers a message best-effort, recording the outcome.
func (service *Service) sendMail(context context.Context, message mailer.Message) {
	if err := service.mailSender.Send(message); err != nil {
		service.observer.RecordMailSend(false)
		service.logger.ErrorContext(context, "mail_send_failed",
			slog.String("to", message.To),
			slog.String("subject", message.Subject),
			slog.Any("error", err))
		return
	}

	service.observer.RecordMailSend(true)
}
