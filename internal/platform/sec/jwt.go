// Copyright (c) 2026 GymFusion. All rights reserved.
// Author: dev@gymfusion.app

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (Hashing, JWT Signing) from
// the domain logic. It acts as an Infrastructure service injected into the
// Application layer via small interfaces defined at the point of use.
package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AccessClaims represents the payload embedded inside a JWT access token.
//
// # Why custom claims?
//
// By embedding the UserID, Email, and Role directly inside the JWT, the
// authentication middleware can reconstruct the caller's identity without a
// role lookup on every request. The subject is still re-resolved against the
// database before the request proceeds, so deleted accounts are rejected
// even while their tokens are unexpired.
type AccessClaims struct {
	jwt.RegisteredClaims

	// Custom application claims are abbreviated to keep the JWT payload small.
	UserID string `json:"uid"`
	Email  string `json:"eml"`
	Role   string `json:"rol"`
}

// RefreshClaims is the minimal payload of a refresh token.
//
// Only the subject ID is embedded. A leaked refresh token reveals nothing
// about the account beyond its opaque identifier.
type RefreshClaims struct {
	jwt.RegisteredClaims
}

// TokenService generates and verifies JWT tokens using HS256.
//
// Access and refresh tokens are signed with distinct secrets so that one
// kind can never be presented where the other is expected.
type TokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	issuer        string
}

// NewTokenService creates a new TokenService.
//
// A missing secret is a configuration error and must be treated as fatal at
// startup. It is never retried.
func NewTokenService(accessSecret, refreshSecret, issuer string) (*TokenService, error) {
	if accessSecret == "" {
		return nil, errors.New("sec: access token secret is not configured")
	}

	if refreshSecret == "" {
		return nil, errors.New("sec: refresh token secret is not configured")
	}

	return &TokenService{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		issuer:        issuer,
	}, nil
}

// GenerateAccessToken creates a new short-lived JWT access token for a user.
func (service *TokenService) GenerateAccessToken(userID, email, role string, timeToLive time.Duration) (string, error) {
	currentTime := time.Now()
	claims := AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(timeToLive)),
		},
		UserID: userID,
		Email:  email,
		Role:   role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(service.accessSecret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign access token: %w", err)
	}

	return signedToken, nil
}

// GenerateRefreshToken creates a new long-lived JWT refresh token.
//
// The payload carries only the subject ID to minimize the blast radius of
// a leaked token.
func (service *TokenService) GenerateRefreshToken(userID string, timeToLive time.Duration) (string, error) {
	currentTime := time.Now()
	claims := RefreshClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(timeToLive)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(service.refreshSecret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign refresh token: %w", err)
	}

	return signedToken, nil
}

// VerifyAccessToken checks the signature and validity of an access token string.
func (service *TokenService) VerifyAccessToken(tokenString string) (*AccessClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AccessClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
		}
		return service.accessSecret, nil
	})

	if err != nil {
		return nil, fmt.Errorf("sec: invalid access token: %w", err)
	}

	claims, ok := token.Claims.(*AccessClaims)
	if !ok || !token.Valid {
		return nil, errors.New("sec: invalid access token claims")
	}

	return claims, nil
}

// VerifyRefreshToken checks the signature and validity of a refresh token
// string and returns the subject user ID.
//
// Signature and expiry are only half the check: callers must additionally
// compare the token's hash against the single value stored on the user
// record (rotation-by-overwrite).
func (service *TokenService) VerifyRefreshToken(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &RefreshClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
		}
		return service.refreshSecret, nil
	})

	if err != nil {
		return "", fmt.Errorf("sec: invalid refresh token: %w", err)
	}

	claims, ok := token.Claims.(*RefreshClaims)
	if !ok || !token.Valid {
		return "", errors.New("sec: invalid refresh token claims")
	}

	return claims.Subject, nil
}
