// Copyright (c) 2026 GymFusion. All rights reserved.
// Author: dev@gymfusion.app

package sec

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
)

// GenerateSecureToken returns a URL-safe random token built from n bytes of
// OS entropy.
//
// # Usage
//
// The raw token is sent to the user out-of-band (email link) and never
// persisted. Only its [HashToken] digest is stored server-side.
func GenerateSecureToken(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("sec: failed to read random bytes: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// HashToken returns the SHA-256 hex digest of a token string.
//
// SHA-256 (not bcrypt) is appropriate here: the input is high-entropy
// random material, so brute-forcing the digest is infeasible and the hash
// must be deterministic to serve as a lookup key.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
