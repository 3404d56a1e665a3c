// Copyright (c) 2026 GymFusion. All rights reserved.
// Author: dev@gymfusion.app

package auth_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gymfusion/gymfusion/internal/platform/constants"
	"github.com/gymfusion/gymfusion/internal/platform/middleware"
	"github.com/gymfusion/gymfusion/internal/users/auth"
)

// newRouter mounts the auth routes behind the real authentication
// middleware, mirroring the production server layout.
func newRouter(f *fixture) chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.Authenticate(f.tokens, f.service))
	router.Mount("/auth", auth.NewHandler(f.service).Routes())
	return router
}

func postJSON(t *testing.T, router chi.Router, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	request := httptest.NewRequest("POST", path, bytes.NewReader(body))
	request.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	return recorder
}

func cookieByName(cookies []*http.Cookie, name string) *http.Cookie {
	for _, cookie := range cookies {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}

/*
TestHandler_Login verifies the transport contract of a successful login:
both session cookies are set HttpOnly/Secure and the body carries the pair.
*/
func TestHandler_Login(t *testing.T) {
	f := newFixture(t)
	f.register(t, "jordan@example.com")
	router := newRouter(f)

	recorder := postJSON(t, router, "/auth/login", map[string]string{
		"email":    "jordan@example.com",
		"password": "s3cret-pass",
	})

	// 1. Response status and body
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "User logged in successfully")
	assert.Contains(t, recorder.Body.String(), "access_token")

	// 2. Both cookies present with hardened attributes
	cookies := recorder.Result().Cookies()
	for _, name := range []string{constants.AccessTokenCookieName, constants.RefreshTokenCookieName} {
		cookie := cookieByName(cookies, name)
		require.NotNil(t, cookie, "missing cookie %s", name)
		assert.NotEmpty(t, cookie.Value)
		assert.True(t, cookie.HttpOnly)
		assert.True(t, cookie.Secure)
		assert.Equal(t, http.SameSiteNoneMode, cookie.SameSite)
	}
}

/*
TestHandler_Login_ValidationFailure verifies that a login without any
identifier is rejected before hitting the service.
*/
func TestHandler_Login_ValidationFailure(t *testing.T) {
	f := newFixture(t)
	router := newRouter(f)

	recorder := postJSON(t, router, "/auth/login", map[string]string{
		"password": "s3cret-pass",
	})

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Equal(t, 0, f.observer.loginFail)
}

/*
TestHandler_RefreshToken_Cookie verifies rotation via the refreshToken
cookie: a new pair is set and the old refresh token is dead.
*/
func TestHandler_RefreshToken_Cookie(t *testing.T) {
	f := newFixture(t)
	f.register(t, "jordan@example.com")
	router := newRouter(f)

	login := postJSON(t, router, "/auth/login", map[string]string{
		"email": "jordan@example.com", "password": "s3cret-pass",
	})
	require.Equal(t, http.StatusOK, login.Code)
	refreshCookie := cookieByName(login.Result().Cookies(), constants.RefreshTokenCookieName)
	require.NotNil(t, refreshCookie)

	// 1. Rotation via cookie succeeds
	request := httptest.NewRequest("POST", "/auth/refresh-token", nil)
	request.AddCookie(refreshCookie)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	require.Equal(t, http.StatusOK, recorder.Code)
	rotated := cookieByName(recorder.Result().Cookies(), constants.RefreshTokenCookieName)
	require.NotNil(t, rotated)
	assert.NotEqual(t, refreshCookie.Value, rotated.Value)

	// 2. The rotated-out cookie is rejected on replay
	replay := httptest.NewRequest("POST", "/auth/refresh-token", nil)
	replay.AddCookie(refreshCookie)
	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, replay)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "Refresh token is expired or used")
}

/*
TestHandler_RefreshToken_Missing verifies the error when neither cookie
nor body carries a refresh token.
*/
func TestHandler_RefreshToken_Missing(t *testing.T) {
	f := newFixture(t)
	router := newRouter(f)

	request := httptest.NewRequest("POST", "/auth/refresh-token", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "Unauthorized request")
}

/*
TestHandler_Logout verifies that logout requires authentication and
expires both cookies on the client.
*/
func TestHandler_Logout(t *testing.T) {
	f := newFixture(t)
	f.register(t, "jordan@example.com")
	router := newRouter(f)

	login := postJSON(t, router, "/auth/login", map[string]string{
		"email": "jordan@example.com", "password": "s3cret-pass",
	})
	require.Equal(t, http.StatusOK, login.Code)
	accessCookie := cookieByName(login.Result().Cookies(), constants.AccessTokenCookieName)
	require.NotNil(t, accessCookie)

	// 1. Anonymous logout is blocked
	request := httptest.NewRequest("POST", "/auth/logout", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	// 2. Authenticated logout expires both cookies
	request = httptest.NewRequest("POST", "/auth/logout", nil)
	request.AddCookie(accessCookie)
	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	require.Equal(t, http.StatusOK, recorder.Code)
	for _, name := range []string{constants.AccessTokenCookieName, constants.RefreshTokenCookieName} {
		cookie := cookieByName(recorder.Result().Cookies(), name)
		require.NotNil(t, cookie)
		assert.Empty(t, cookie.Value)
		assert.Negative(t, cookie.MaxAge)
	}
}

/*
TestHandler_VerifyEmail verifies the emailed-link endpoint end to end,
including the replay rejection.
*/
func TestHandler_VerifyEmail(t *testing.T) {
	f := newFixture(t)
	user := f.register(t, "jordan@example.com")
	router := newRouter(f)

	rawToken := extractLinkToken(t, f.sender.last().Body, "/verify-email/")

	// 1. First visit verifies
	request := httptest.NewRequest("GET", "/auth/verify-email/"+rawToken, nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "Email is verified")
	assert.True(t, f.users.users[user.ID].IsEmailVerified)

	// 2. Replay fails
	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest("GET", "/auth/verify-email/"+rawToken, nil))
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

/*
TestHandler_Register_Validation verifies field validation on registration.
*/
func TestHandler_Register_Validation(t *testing.T) {
	f := newFixture(t)
	router := newRouter(f)

	recorder := postJSON(t, router, "/auth/register", map[string]string{
		"name":     "J",
		"email":    "not-an-email",
		"password": "short",
	})

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Empty(t, f.users.users)
}
