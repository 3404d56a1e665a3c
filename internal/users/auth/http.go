// Copyright (c) 2026 GymFusion. All rights reserved.
// Author: dev@gymfusion.app

/*
HTTP delivery layer for member identity management.

It implements the gateway for the authentication lifecycle, from account
creation to session rotation and recovery.

# Architecture

The handler acts as a thin mediation layer between the web and domain services:
  - Protocol: Standard RESTful JSON interface.
  - Security: Orchestrates the access/refresh cookie pair on every session
    transition (login, refresh, logout).
  - Verification: Enforces strict input validation before passing to [Service].

This layer is strictly responsible for transport concerns (status codes, headers, JSON).
*/

package auth

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/gymfusion/gymfusion/internal/platform/apperr"
	"github.com/gymfusion/gymfusion/internal/platform/constants"
	"github.com/gymfusion/gymfusion/internal/platform/middleware"
	requestutil "github.com/gymfusion/gymfusion/internal/platform/request"
	"github.com/gymfusion/gymfusion/internal/platform/respond"
	"github.com/gymfusion/gymfusion/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements authentication-related HTTP endpoints.
//
// # Scope
//
// This handler manages everything related to the member lifecycle entry
// points (registration, login, verification, recovery, profile).
type Handler struct {
	authService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{authService: service}
}

// Routes returns a [chi.Router] configured with authentication-specific routes.
//
// # Endpoints
//   - POST /register      : Creates a new account.
//   - POST /login         : Authenticates and sets the cookie pair.
//   - POST /refresh-token : Rotates the session token pair.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public endpoints
	router.Post("/register", handler.register)
	router.Post("/login", handler.login)
	router.Post("/refresh-token", handler.refreshToken)
	router.Get("/verify-email/{token}", handler.verifyEmail)
	router.Post("/verify-email/{token}", handler.verifyEmail)
	router.Post("/forgot-password", handler.forgotPassword)
	router.Post("/reset-password/{token}", handler.resetPassword)

	// Protected endpoints
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/logout", handler.logout)
		r.Post("/change-password", handler.changePassword)
		r.Post("/resend-email-verification", handler.resendEmailVerification)
		r.Get("/current-user", handler.currentUser)
		r.Post("/current-user", handler.currentUser)
		r.Post("/avatar", handler.updateAvatar)
	})

	return router
}

// # Request Payloads

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Password string `json:"password"`
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// # Cookie Orchestration

// setSessionCookies attaches both auth cookies to the response.
//
// SameSite=None because the SPA is served from a different origin than the
// API; Secure and HttpOnly are non-negotiable.
func setSessionCookies(writer http.ResponseWriter, session *Session) {
	maxAge := int(constants.AuthCookieMaxAge / time.Second)

	http.SetCookie(writer, &http.Cookie{
		Name:     constants.AccessTokenCookieName,
		Value:    session.AccessToken,
		Path:     constants.AuthCookiePath,
		MaxAge:   maxAge,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteNoneMode,
	})

	http.SetCookie(writer, &http.Cookie{
		Name:     constants.RefreshTokenCookieName,
		Value:    session.RefreshToken,
		Path:     constants.AuthCookiePath,
		MaxAge:   maxAge,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteNoneMode,
	})
}

// clearSessionCookies expires both auth cookies on the client.
func clearSessionCookies(writer http.ResponseWriter) {
	for _, name := range []string{constants.AccessTokenCookieName, constants.RefreshTokenCookieName} {
		http.SetCookie(writer, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     constants.AuthCookiePath,
			MaxAge:   -1,
			Secure:   true,
			HttpOnly: true,
			SameSite: http.SameSiteNoneMode,
		})
	}
}

// # Handlers

/*
Register handles the creation of a new member account.

POST /api/v1/auth/register

Description: Validates input, checks for identity conflicts, persists the new
profile, and triggers the verification email.

Request:
  - Body: registerRequest (Name, Email, Phone, Password)

Response:
  - 200: User: Created profile plus confirmation message
  - 400: ErrInvalidJSON: Bad input or validation failure
  - 409: ErrConflict: Email or phone already registered
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var input registerRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldName, input.Name).
		MinLen(FieldName, input.Name, 2).
		Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		Required(FieldPassword, input.Password).
		MinLen(FieldPassword, input.Password, 8)

	if input.Phone != "" {
		validator.Phone(FieldPhone, input.Phone)
	}

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.authService.Register(request.Context(), RegisterInput{
		Name:     input.Name,
		Email:    input.Email,
		Phone:    input.Phone,
		Password: input.Password,
	})

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{
		FieldUser:    user,
		FieldMessage: "User registered successfully and verification email has been sent on your email",
	})
}

/*
Login authenticates a member and establishes the single session.

POST /api/v1/auth/login

Description: Verifies credentials via email or phone, issues the JWT pair,
and injects both auth cookies into the response. Any prior session for the
account is revoked by the rotation.

Request:
  - Body: loginRequest (Email or Phone, Password)

Response:
  - 200: Session: Token pair and member profile
  - 401: ErrUnauthorized: Invalid credentials
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldPassword, input.Password).
		Custom(FieldEmail, input.Email == "" && input.Phone == "", "email or phone is required")

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.authService.Login(request.Context(), LoginInput{
		Email:    input.Email,
		Phone:    input.Phone,
		Password: input.Password,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	setSessionCookies(writer, session)

	respond.OK(writer, map[string]any{
		FieldUser:         session.User,
		FieldAccessToken:  session.AccessToken,
		FieldRefreshToken: session.RefreshToken,
		FieldMessage:      "User logged in successfully",
	})
}

/*
RefreshToken rotates the session token pair.

POST /api/v1/auth/refresh-token

Description: Accepts the refresh token from the cookie or the request body
(cookie wins), validates it against the stored digest, and issues a rotated
pair. The previous refresh token is dead after this call.

Request:
  - Cookie: refreshToken, or Body: refreshRequest (RefreshToken)

Response:
  - 200: Tokens: New access and refresh tokens
  - 401: ErrUnauthorized: Missing, expired, or already-used refresh token
*/
func (handler *Handler) refreshToken(writer http.ResponseWriter, request *http.Request) {
	refreshToken := ""

	if cookie, err := request.Cookie(constants.RefreshTokenCookieName); err == nil && cookie.Value != "" {
		refreshToken = cookie.Value
	} else {
		var input refreshRequest
		if err := requestutil.DecodeJSON(request, &input); err == nil {
			refreshToken = input.RefreshToken
		}
	}

	if refreshToken == "" {
		respond.Error(writer, request, apperr.Unauthorized("Unauthorized request"))
		return
	}

	session, err := handler.authService.RefreshSession(request.Context(), refreshToken)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	setSessionCookies(writer, session)

	respond.OK(writer, map[string]any{
		FieldAccessToken:  session.AccessToken,
		FieldRefreshToken: session.RefreshToken,
		FieldMessage:      "Access token refreshed",
	})
}

/*
Logout terminates the current member session.

POST /api/v1/auth/logout

Description: Clears the stored refresh digest and expires both auth cookies
on the client. Idempotent.

Response:
  - 200: Success: Session terminated
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.Logout(request.Context(), userID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	clearSessionCookies(writer)

	respond.OK(writer, map[string]string{
		FieldMessage: "User logged out",
	})
}

/*
VerifyEmail confirms a member's email ownership.

GET /api/v1/auth/verify-email/{token}

Description: Consumes the emailed verification token and marks the account
as verified. The link is single-use.

Response:
  - 200: Success: Email verified
  - 401: ErrUnauthorized: Token invalid, expired, or already used
*/
func (handler *Handler) verifyEmail(writer http.ResponseWriter, request *http.Request) {
	token := requestutil.Param(request, FieldToken)
	if token == "" {
		respond.Error(writer, request, validate.RequiredError(FieldToken, "is required"))
		return
	}

	if err := handler.authService.VerifyEmail(request.Context(), token); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{
		FieldMessage:        "Email is verified",
		"is_email_verified": true,
	})
}

/*
ResendEmailVerification issues a fresh verification link.

POST /api/v1/auth/resend-email-verification

Description: Revokes the previous token by overwrite and mails a new link.

Response:
  - 200: Success: Mail sent
  - 409: ErrConflict: Email already verified
*/
func (handler *Handler) resendEmailVerification(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.ResendVerificationEmail(request.Context(), userID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{
		FieldMessage: "Mail has been sent to your email ID",
	})
}

/*
ForgotPassword initiates the password recovery flow.

POST /api/v1/auth/forgot-password

Description: Sends a password reset link to the provided email if the account
exists. The response is identical either way to prevent enumeration.

Request:
  - Body: forgotPasswordRequest (Email)

Response:
  - 200: Success: Generic confirmation
  - 400: ErrInvalidJSON: Invalid email format
*/
func (handler *Handler) forgotPassword(writer http.ResponseWriter, request *http.Request) {
	var input forgotPasswordRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	v := &validate.Validator{}
	v.Required(FieldEmail, input.Email).Email(FieldEmail, input.Email)

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.RequestPasswordReset(request.Context(), input.Email); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{
		FieldMessage: "If this email is registered, a reset link has been sent.",
	})
}

/*
ResetPassword completes the password recovery flow.

POST /api/v1/auth/reset-password/{token}

Description: Consumes the reset token and updates the member's password. Any
live session is revoked.

Request:
  - Body: resetPasswordRequest (Password)

Response:
  - 200: Success: Password updated
  - 401: ErrUnauthorized: Token invalid, expired, or already used
  - 400: ErrInvalidJSON: Weak password or validation failure
*/
func (handler *Handler) resetPassword(writer http.ResponseWriter, request *http.Request) {
	token := requestutil.Param(request, FieldToken)
	if token == "" {
		respond.Error(writer, request, validate.RequiredError(FieldToken, "is required"))
		return
	}

	var input resetPasswordRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	v := &validate.Validator{}
	v.Required(FieldPassword, input.Password).
		MinLen(FieldPassword, input.Password, 8)

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.ResetPassword(request.Context(), token, input.Password); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{
		FieldMessage: "Password reset successfully",
	})
}

/*
ChangePassword updates the authenticated member's password.

POST /api/v1/auth/change-password

Description: Verifies the current password before applying the new one. The
active session survives the change.

Request:
  - Body: changePasswordRequest (OldPassword, NewPassword)

Response:
  - 200: Success: Password changed
  - 401: ErrUnauthorized: Invalid old password or authentication required
  - 400: ErrInvalidJSON: Weak password or validation failure
*/
func (handler *Handler) changePassword(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input changePasswordRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	v := &validate.Validator{}
	v.Required(FieldOldPassword, input.OldPassword).
		Required(FieldNewPassword, input.NewPassword).
		MinLen(FieldNewPassword, input.NewPassword, 8)

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.ChangePassword(request.Context(), userID, input.OldPassword, input.NewPassword); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{
		FieldMessage: "Password changed successfully",
	})
}

/*
CurrentUser returns the authenticated member's profile.

GET /api/v1/auth/current-user

Response:
  - 200: User: Full profile
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) currentUser(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.authService.CurrentUser(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
UpdateAvatar stores a new avatar image for the authenticated member.

POST /api/v1/auth/avatar

Description: Accepts a multipart upload under the "avatar" field, stores it
in object storage, and records the public URL on the profile.

Request:
  - Multipart: avatar (image file, max 5 MiB)

Response:
  - 200: User: Profile with the refreshed avatar URL
  - 400: ErrInvalidJSON: Missing or oversized file
  - 503: ErrServiceUnavailable: Object storage unreachable
*/
func (handler *Handler) updateAvatar(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := request.ParseMultipartForm(MaxAvatarSize); err != nil {
		respond.Error(writer, request, apperr.ValidationError("Avatar file is missing or too large"))
		return
	}

	file, header, err := request.FormFile(FieldAvatar)
	if err != nil {
		respond.Error(writer, request, apperr.ValidationError("Avatar file is required"))
		return
	}
	defer func() { _ = file.Close() }()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	user, err := handler.authService.UpdateAvatar(request.Context(), userID, header.Filename, contentType, file)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{
		FieldUser:    user,
		FieldMessage: "Avatar updated successfully",
	})
}
