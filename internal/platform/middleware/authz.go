// Copyright (c) 2026 GymFusion. All rights reserved.
// Author: dev@gymfusion.app

package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gymfusion/gymfusion/internal/platform/apperr"
	"github.com/gymfusion/gymfusion/internal/platform/constants"
	"github.com/gymfusion/gymfusion/internal/platform/ctxutil"
	"github.com/gymfusion/gymfusion/internal/platform/respond"
	"github.com/gymfusion/gymfusion/internal/platform/sec"
)

// TokenVerifier defines the interface needed to verify access tokens in middleware.
//
// # Why an interface?
//
// Defining TokenVerifier here decouples the middleware from the `sec` token
// service implementation, allowing us to easily inject mocks during unit testing.
type TokenVerifier interface {
	VerifyAccessToken(tokenStr string) (*sec.AccessClaims, error)
}

// SubjectResolver re-checks that the token's subject still maps to a live
// account. Tokens for deleted accounts fail exactly like forged ones: the
// client sees the same generic message, only the server log differs.
type SubjectResolver interface {
	SubjectExists(ctx context.Context, userID string) (bool, error)
}

// Authenticate extracts and verifies the access token from the request.
//
// # Flow
//  1. Look for the accessToken cookie; fall back to 'Authorization: Bearer'.
//     The cookie takes precedence when both are present.
//  2. If absent, request proceeds as anonymous.
//  3. If present, parse and verify the JWT via [TokenVerifier].
//  4. Re-resolve the subject via [SubjectResolver]; an unknown subject is
//     rejected with the same client-visible message as a bad signature.
//  5. Inject [*sec.AccessClaims] into the request context for downstream use.
func Authenticate(verifier TokenVerifier, resolver SubjectResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			// ── 1. Token Extraction (cookie first, then header) ───────────────
			tokenStr := extractAccessToken(request)

			// ── 2. Anonymous Access ───────────────────────────────────────────
			if tokenStr == "" {
				next.ServeHTTP(writer, request)
				return
			}

			// ── 3. Token Verification ─────────────────────────────────────────
			claims, err := verifier.VerifyAccessToken(tokenStr)
			if err != nil {
				respond.Error(writer, request, apperr.Unauthorized("Invalid or expired token"))
				return
			}

			// ── 4. Subject Resolution ─────────────────────────────────────────
			exists, err := resolver.SubjectExists(request.Context(), claims.UserID)
			if err != nil {
				respond.Error(writer, request, apperr.Internal(err))
				return
			}
			if !exists {
				// Same client-visible message as a signature failure to avoid
				// building an account-existence oracle.
				ctxutil.GetLogger(request.Context()).WarnContext(request.Context(),
					"token_subject_unknown", slog.String("user_id", claims.UserID))
				respond.Error(writer, request, apperr.Unauthorized("Invalid or expired token"))
				return
			}

			// ── 5. Context Injection ──────────────────────────────────────────
			ctx := ctxutil.WithAuthUser(request.Context(), claims)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireAuth blocks requests that are not authenticated.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate].
//
// # Flow
//  1. Check if [*sec.AccessClaims] exists in context.
//  2. If missing, abort with HTTP 401 Unauthorized.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		claims := ctxutil.GetAuthUser(request.Context())
		if claims == nil {
			respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// RequireRole blocks requests if the authenticated user doesn't have the required role.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate]. It automatically implies
// [RequireAuth] so you don't need to mount both.
//
// # Flow
//  1. Check if [*sec.AccessClaims] exists in context (implies AuthN).
//  2. Check if the user's role meets or exceeds the required target role using [sec.UserRole.AtLeast].
//  3. If insufficient, abort with HTTP 403 Forbidden.
func RequireRole(role sec.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			claims := ctxutil.GetAuthUser(request.Context())

			// ── 1. Authentication Check ───────────────────────────────────────
			if claims == nil {
				respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
				return
			}

			// ── 2. Authorization Check ────────────────────────────────────────
			userRole := sec.UserRole(claims.Role)
			if !userRole.AtLeast(role) {
				respond.Error(writer, request, apperr.Forbidden("Insufficient permissions"))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// GetUser retrieves the [*sec.AccessClaims] from the [context.Context].
//
// # Returns
//   - A pointer to [*sec.AccessClaims] if the user is authenticated.
//   - nil if the user is anonymous.
func GetUser(ctx context.Context) *sec.AccessClaims {
	return ctxutil.GetAuthUser(ctx)
}

// extractAccessToken pulls the raw token from the cookie or the
// Authorization header, cookie first.
func extractAccessToken(request *http.Request) string {
	if cookie, err := request.Cookie(constants.AccessTokenCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	authHeader := request.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(authHeader) > len(prefix) && authHeader[:len(prefix)] == prefix {
		return authHeader[len(prefix):]
	}

	return ""
}
