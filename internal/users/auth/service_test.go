// Copyright (c) 2026 GymFusion. All rights reserved.
// Author: dev@gymfusion.app

package auth_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gymfusion/gymfusion/internal/platform/apperr"
	"github.com/gymfusion/gymfusion/internal/platform/mailer"
	"github.com/gymfusion/gymfusion/internal/platform/sec"
	"github.com/gymfusion/gymfusion/internal/users/auth"
)

// # In-Memory Fakes

// memoryUserRepository is a map-backed UserRepository for service tests.
type memoryUserRepository struct {
	users map[string]*auth.User
}

func newMemoryUserRepository() *memoryUserRepository {
	return &memoryUserRepository{users: make(map[string]*auth.User)}
}

func (repo *memoryUserRepository) FindByID(_ context.Context, id string) (*auth.User, error) {
	if user, ok := repo.users[id]; ok {
		copied := *user
		return &copied, nil
	}
	return nil, apperr.NotFound("User")
}

func (repo *memoryUserRepository) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	for _, user := range repo.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (repo *memoryUserRepository) FindByPhone(_ context.Context, phone string) (*auth.User, error) {
	for _, user := range repo.users {
		if user.Phone == phone && phone != "" {
			copied := *user
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (repo *memoryUserRepository) ExistsByID(_ context.Context, id string) (bool, error) {
	_, ok := repo.users[id]
	return ok, nil
}

func (repo *memoryUserRepository) Create(_ context.Context, user *auth.User) error {
	copied := *user
	repo.users[user.ID] = &copied
	return nil
}

func (repo *memoryUserRepository) UpdateRefreshTokenHash(_ context.Context, userID, tokenHash string) error {
	user, ok := repo.users[userID]
	if !ok {
		return apperr.NotFound("User")
	}
	user.RefreshTokenHash = tokenHash
	return nil
}

func (repo *memoryUserRepository) ClearRefreshToken(_ context.Context, userID string) error {
	user, ok := repo.users[userID]
	if !ok {
		return apperr.NotFound("User")
	}
	user.RefreshTokenHash = ""
	return nil
}

func (repo *memoryUserRepository) UpdatePassword(_ context.Context, userID, newHash string) error {
	user, ok := repo.users[userID]
	if !ok {
		return apperr.NotFound("User")
	}
	user.PasswordHash = newHash
	return nil
}

func (repo *memoryUserRepository) MarkVerified(_ context.Context, userID string) error {
	user, ok := repo.users[userID]
	if !ok {
		return apperr.NotFound("User")
	}
	user.IsEmailVerified = true
	return nil
}

func (repo *memoryUserRepository) UpdateAvatarURL(_ context.Context, userID, avatarURL string) error {
	user, ok := repo.users[userID]
	if !ok {
		return apperr.NotFound("User")
	}
	user.AvatarURL = avatarURL
	return nil
}

// memoryTokenRepository mimics the Redis-backed single-use token store:
// digest-keyed entries with a per-user index so a new token revokes the
// previous one, and get-and-delete consumption.
type memoryTokenRepository struct {
	byHash map[string]string // tokenHash -> userID
	byUser map[string]string // userID -> tokenHash
}

func newMemoryTokenRepository() *memoryTokenRepository {
	return &memoryTokenRepository{
		byHash: make(map[string]string),
		byUser: make(map[string]string),
	}
}

func (repo *memoryTokenRepository) Set(_ context.Context, tokenHash, userID string, _ time.Duration) error {
	if previous, ok := repo.byUser[userID]; ok {
		delete(repo.byHash, previous)
	}
	repo.byHash[tokenHash] = userID
	repo.byUser[userID] = tokenHash
	return nil
}

func (repo *memoryTokenRepository) Consume(_ context.Context, tokenHash string) (string, error) {
	userID, ok := repo.byHash[tokenHash]
	if !ok {
		return "", apperr.Unauthorized("Token is invalid or expired")
	}
	delete(repo.byHash, tokenHash)
	delete(repo.byUser, userID)
	return userID, nil
}

// recordingSender captures outbound messages; it can be told to fail.
type recordingSender struct {
	messages []mailer.Message
	fail     bool
}

func (sender *recordingSender) Send(message mailer.Message) error {
	if sender.fail {
		return errors.New("smtp relay down")
	}
	sender.messages = append(sender.messages, message)
	return nil
}

func (sender *recordingSender) last() mailer.Message {
	return sender.messages[len(sender.messages)-1]
}

// countingObserver tallies metric events.
type countingObserver struct {
	loginOK   int
	loginFail int
	mailOK    int
	mailFail  int
}

func (observer *countingObserver) RecordLogin(success bool) {
	if success {
		observer.loginOK++
	} else {
		observer.loginFail++
	}
}

func (observer *countingObserver) RecordMailSend(success bool) {
	if success {
		observer.mailOK++
	} else {
		observer.mailFail++
	}
}

// fakeUploader returns a canned URL or a canned failure.
type fakeUploader struct {
	fail    bool
	lastKey string
}

func (uploader *fakeUploader) Upload(_ context.Context, key, _ string, _ io.Reader) (string, error) {
	if uploader.fail {
		return "", errors.New("bucket unreachable")
	}
	uploader.lastKey = key
	return "https://cdn.gymfusion.app/" + key, nil
}

// # Fixture

type fixture struct {
	service    *auth.Service
	users      *memoryUserRepository
	verifyRepo *memoryTokenRepository
	resetRepo  *memoryTokenRepository
	sender     *recordingSender
	observer   *countingObserver
	uploader   *fakeUploader
	tokens     *sec.TokenService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	tokens, err := sec.NewTokenService("test-access-secret", "test-refresh-secret", "gymfusion.app")
	require.NoError(t, err)

	f := &fixture{
		users:      newMemoryUserRepository(),
		verifyRepo: newMemoryTokenRepository(),
		resetRepo:  newMemoryTokenRepository(),
		sender:     &recordingSender{},
		observer:   &countingObserver{},
		uploader:   &fakeUploader{},
		tokens:     tokens,
	}

	f.service = auth.NewService(
		f.users,
		f.verifyRepo,
		f.resetRepo,
		tokens,
		f.sender,
		f.uploader,
		f.observer,
		auth.Options{
			AccessTokenTTL:  time.Hour,
			RefreshTokenTTL: 240 * time.Hour,
			PublicBaseURL:   "https://gymfusion.app",
		},
		slog.Default(),
	)

	return f
}

func (f *fixture) register(t *testing.T, email string) *auth.User {
	t.Helper()
	user, err := f.service.Register(context.Background(), auth.RegisterInput{
		Name:     "Jordan Member",
		Email:    email,
		Password: "s3cret-pass",
	})
	require.NoError(t, err)
	return user
}

// extractLinkToken pulls the raw token out of an emailed link like
// https://gymfusion.app/verify-email/<token>.
func extractLinkToken(t *testing.T, body, pathPrefix string) string {
	t.Helper()
	idx := strings.Index(body, pathPrefix)
	require.GreaterOrEqual(t, idx, 0, "mail body should contain %q", pathPrefix)

	rest := body[idx+len(pathPrefix):]
	end := strings.IndexAny(rest, " \n\r")
	require.GreaterOrEqual(t, end, 0)
	return rest[:end]
}

// # Registration

/*
TestService_Register verifies enrollment: the account is persisted
unverified with a hashed password, and a verification email goes out.
*/
func TestService_Register(t *testing.T) {
	f := newFixture(t)

	user := f.register(t, "jordan@example.com")

	// 1. Account state
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, sec.RoleUser, user.Role)
	assert.False(t, user.IsEmailVerified)

	// 2. Password is hashed, never stored raw
	stored := f.users.users[user.ID]
	assert.NotEqual(t, "s3cret-pass", stored.PasswordHash)
	assert.True(t, sec.CheckPasswordHash("s3cret-pass", stored.PasswordHash))

	// 3. Verification email with an actionable link
	require.Len(t, f.sender.messages, 1)
	message := f.sender.last()
	assert.Equal(t, "jordan@example.com", message.To)
	assert.Contains(t, message.Body, "https://gymfusion.app/verify-email/")
	assert.Equal(t, 1, f.observer.mailOK)
}

/*
TestService_Register_Conflicts verifies duplicate email and phone rejection.
*/
func TestService_Register_Conflicts(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Register(context.Background(), auth.RegisterInput{
		Name: "First", Email: "dup@example.com", Phone: "+15551234567", Password: "pass-one",
	})
	require.NoError(t, err)

	// 1. Same email
	_, err = f.service.Register(context.Background(), auth.RegisterInput{
		Name: "Second", Email: "dup@example.com", Password: "pass-two",
	})
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "Email is already registered", ae.Message)

	// 2. Same phone, different email
	_, err = f.service.Register(context.Background(), auth.RegisterInput{
		Name: "Third", Email: "other@example.com", Phone: "+15551234567", Password: "pass-three",
	})
	ae = apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "Phone number is already registered", ae.Message)
}

/*
TestService_Register_MailFailureIsNotFatal verifies that a dead mail relay
does not block enrollment.
*/
func TestService_Register_MailFailureIsNotFatal(t *testing.T) {
	f := newFixture(t)
	f.sender.fail = true

	user, err := f.service.Register(context.Background(), auth.RegisterInput{
		Name: "Jordan", Email: "jordan@example.com", Password: "s3cret-pass",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, 1, f.observer.mailFail)
}

// # Login

/*
TestService_Login verifies credential checking and session issuance:
the stored refresh digest matches the token handed to the client.
*/
func TestService_Login(t *testing.T) {
	f := newFixture(t)
	user := f.register(t, "jordan@example.com")

	session, err := f.service.Login(context.Background(), auth.LoginInput{
		Email: "jordan@example.com", Password: "s3cret-pass",
	})
	require.NoError(t, err)

	// 1. Both tokens issued
	assert.NotEmpty(t, session.AccessToken)
	assert.NotEmpty(t, session.RefreshToken)
	assert.Equal(t, user.ID, session.User.ID)

	// 2. Only the digest of the refresh token is persisted
	stored := f.users.users[user.ID]
	assert.Equal(t, sec.HashToken(session.RefreshToken), stored.RefreshTokenHash)
	assert.NotContains(t, stored.RefreshTokenHash, session.RefreshToken)

	// 3. Metrics
	assert.Equal(t, 1, f.observer.loginOK)
}

/*
TestService_Login_ByPhone verifies the phone-number login path.
*/
func TestService_Login_ByPhone(t *testing.T) {
	f := newFixture(t)
	_, err := f.service.Register(context.Background(), auth.RegisterInput{
		Name: "Jordan", Email: "jordan@example.com", Phone: "+15551234567", Password: "s3cret-pass",
	})
	require.NoError(t, err)

	session, err := f.service.Login(context.Background(), auth.LoginInput{
		Phone: "+15551234567", Password: "s3cret-pass",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, session.AccessToken)
}

/*
TestService_Login_InvalidCredentials verifies that unknown accounts and
wrong passwords fail with the same generic message.
*/
func TestService_Login_InvalidCredentials(t *testing.T) {
	f := newFixture(t)
	f.register(t, "jordan@example.com")

	tests := []struct {
		name  string
		input auth.LoginInput
	}{
		{"unknown_email", auth.LoginInput{Email: "nobody@example.com", Password: "s3cret-pass"}},
		{"wrong_password", auth.LoginInput{Email: "jordan@example.com", Password: "wrong"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session, err := f.service.Login(context.Background(), tt.input)

			assert.Nil(t, session)
			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, "Invalid credentials", ae.Message)
		})
	}

	assert.Equal(t, 2, f.observer.loginFail)
}

// # Session Lifecycle

/*
TestService_RefreshSession verifies rotation-by-overwrite: a refresh yields
a new pair and the previous refresh token is dead afterwards.
*/
func TestService_RefreshSession(t *testing.T) {
	f := newFixture(t)
	f.register(t, "jordan@example.com")

	first, err := f.service.Login(context.Background(), auth.LoginInput{
		Email: "jordan@example.com", Password: "s3cret-pass",
	})
	require.NoError(t, err)

	// 1. Valid refresh issues a new pair
	second, err := f.service.RefreshSession(context.Background(), first.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	// 2. The rotated-out token no longer works
	_, err = f.service.RefreshSession(context.Background(), first.RefreshToken)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "Refresh token is expired or used", ae.Message)

	// 3. The fresh token still works
	_, err = f.service.RefreshSession(context.Background(), second.RefreshToken)
	assert.NoError(t, err)
}

/*
TestService_RefreshSession_Forged verifies that a structurally valid JWT
signed with the wrong key is rejected.
*/
func TestService_RefreshSession_Forged(t *testing.T) {
	f := newFixture(t)
	user := f.register(t, "jordan@example.com")

	attacker, err := sec.NewTokenService("attacker-access", "attacker-refresh", "gymfusion.app")
	require.NoError(t, err)
	forged, err := attacker.GenerateRefreshToken(user.ID, time.Hour)
	require.NoError(t, err)

	_, err = f.service.RefreshSession(context.Background(), forged)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "Refresh token is expired or used", ae.Message)
}

/*
TestService_Logout verifies that logout kills the outstanding refresh
token and that repeating it is harmless.
*/
func TestService_Logout(t *testing.T) {
	f := newFixture(t)
	user := f.register(t, "jordan@example.com")

	session, err := f.service.Login(context.Background(), auth.LoginInput{
		Email: "jordan@example.com", Password: "s3cret-pass",
	})
	require.NoError(t, err)

	// 1. Logout clears the stored digest
	require.NoError(t, f.service.Logout(context.Background(), user.ID))
	assert.Empty(t, f.users.users[user.ID].RefreshTokenHash)

	// 2. The issued refresh token is now dead
	_, err = f.service.RefreshSession(context.Background(), session.RefreshToken)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "Refresh token is expired or used", ae.Message)

	// 3. Idempotent
	assert.NoError(t, f.service.Logout(context.Background(), user.ID))
}

// # Email Verification

/*
TestService_VerifyEmail verifies the single-use verification flow,
including replay rejection.
*/
func TestService_VerifyEmail(t *testing.T) {
	f := newFixture(t)
	user := f.register(t, "jordan@example.com")

	rawToken := extractLinkToken(t, f.sender.last().Body, "/verify-email/")

	// 1. First use verifies the account
	require.NoError(t, f.service.VerifyEmail(context.Background(), rawToken))
	assert.True(t, f.users.users[user.ID].IsEmailVerified)

	// 2. Replaying the same link fails with the generic token error
	err := f.service.VerifyEmail(context.Background(), rawToken)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "Token is invalid or expired", ae.Message)
}

/*
TestService_ResendVerificationEmail verifies that a reissued token revokes
the previous one and that verified accounts are rejected.
*/
func TestService_ResendVerificationEmail(t *testing.T) {
	f := newFixture(t)
	user := f.register(t, "jordan@example.com")
	firstToken := extractLinkToken(t, f.sender.last().Body, "/verify-email/")

	// 1. Resend issues a second mail with a different token
	require.NoError(t, f.service.ResendVerificationEmail(context.Background(), user.ID))
	require.Len(t, f.sender.messages, 2)
	secondToken := extractLinkToken(t, f.sender.last().Body, "/verify-email/")
	assert.NotEqual(t, firstToken, secondToken)

	// 2. The first token was revoked by the overwrite
	err := f.service.VerifyEmail(context.Background(), firstToken)
	require.NotNil(t, apperr.As(err))

	// 3. The second token works
	require.NoError(t, f.service.VerifyEmail(context.Background(), secondToken))

	// 4. Resending for a verified account is a conflict
	err = f.service.ResendVerificationEmail(context.Background(), user.ID)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "Email is already verified", ae.Message)
}

// # Password Recovery

/*
TestService_PasswordReset verifies the full forgot-password flow: the
reset clears the live session and the token is single use.
*/
func TestService_PasswordReset(t *testing.T) {
	f := newFixture(t)
	user := f.register(t, "jordan@example.com")

	session, err := f.service.Login(context.Background(), auth.LoginInput{
		Email: "jordan@example.com", Password: "s3cret-pass",
	})
	require.NoError(t, err)

	// 1. Request mails a reset link
	require.NoError(t, f.service.RequestPasswordReset(context.Background(), "jordan@example.com"))
	message := f.sender.last()
	assert.Equal(t, mailer.SubjectPasswordReset, message.Subject)
	rawToken := extractLinkToken(t, message.Body, "/reset-password/")

	// 2. Reset applies the new password
	require.NoError(t, f.service.ResetPassword(context.Background(), rawToken, "new-pass-123"))
	assert.True(t, sec.CheckPasswordHash("new-pass-123", f.users.users[user.ID].PasswordHash))

	// 3. The live session was revoked
	assert.Empty(t, f.users.users[user.ID].RefreshTokenHash)
	_, err = f.service.RefreshSession(context.Background(), session.RefreshToken)
	require.NotNil(t, apperr.As(err))

	// 4. The token is single use
	err = f.service.ResetPassword(context.Background(), rawToken, "another-pass")
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "Token is invalid or expired", ae.Message)
}

/*
TestService_RequestPasswordReset_UnknownEmail verifies the silent success
for unregistered addresses (no enumeration oracle, no mail).
*/
func TestService_RequestPasswordReset_UnknownEmail(t *testing.T) {
	f := newFixture(t)

	assert.NoError(t, f.service.RequestPasswordReset(context.Background(), "ghost@example.com"))
	assert.Empty(t, f.sender.messages)
}

/*
TestService_ChangePassword verifies the authenticated password change:
the old password gates the operation and the session survives.
*/
func TestService_ChangePassword(t *testing.T) {
	f := newFixture(t)
	user := f.register(t, "jordan@example.com")

	session, err := f.service.Login(context.Background(), auth.LoginInput{
		Email: "jordan@example.com", Password: "s3cret-pass",
	})
	require.NoError(t, err)

	// 1. Wrong old password is rejected
	err = f.service.ChangePassword(context.Background(), user.ID, "wrong", "new-pass-123")
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "Invalid old password", ae.Message)

	// 2. Correct old password applies the change
	require.NoError(t, f.service.ChangePassword(context.Background(), user.ID, "s3cret-pass", "new-pass-123"))
	assert.True(t, sec.CheckPasswordHash("new-pass-123", f.users.users[user.ID].PasswordHash))

	// 3. Unlike a reset, the session is kept
	_, err = f.service.RefreshSession(context.Background(), session.RefreshToken)
	assert.NoError(t, err)
}

// # Profile

/*
TestService_UpdateAvatar verifies the upload path and the unavailable-storage
failure mode.
*/
func TestService_UpdateAvatar(t *testing.T) {
	f := newFixture(t)
	user := f.register(t, "jordan@example.com")

	// 1. Successful upload records the public URL
	updated, err := f.service.UpdateAvatar(context.Background(), user.ID, "selfie.png", "image/png", strings.NewReader("fake-bytes"))
	require.NoError(t, err)
	assert.Contains(t, updated.AvatarURL, "https://cdn.gymfusion.app/avatars/"+user.ID+"/")
	assert.True(t, strings.HasSuffix(f.uploader.lastKey, ".png"))
	assert.Equal(t, updated.AvatarURL, f.users.users[user.ID].AvatarURL)

	// 2. Storage failure surfaces as a 503-class error, profile untouched
	f.uploader.fail = true
	_, err = f.service.UpdateAvatar(context.Background(), user.ID, "selfie.png", "image/png", strings.NewReader("fake-bytes"))
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "Avatar storage is temporarily unavailable", ae.Message)
}

/*
TestService_SubjectExists verifies the middleware-facing subject check.
*/
func TestService_SubjectExists(t *testing.T) {
	f := newFixture(t)
	user := f.register(t, "jordan@example.com")

	exists, err := f.service.SubjectExists(context.Background(), user.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = f.service.SubjectExists(context.Background(), "missing-id")
	require.NoError(t, err)
	assert.False(t, exists)
}
