// Copyright (c) 2026 GymFusion. All rights reserved.
// Author: dev@gymfusion.app

package sec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gymfusion/gymfusion/internal/platform/sec"
)

/*
TestGenerateSecureToken verifies that generated tokens are URL-safe
and unique across calls.
*/
func TestGenerateSecureToken(t *testing.T) {
	// 1. Generation succeeds and is non-empty
	first, err := sec.GenerateSecureToken(32)
	require.NoError(t, err)
	assert.NotEmpty(t, first)

	// 2. URL-safe: no padding or reserved characters
	assert.NotContains(t, first, "=")
	assert.NotContains(t, first, "+")
	assert.NotContains(t, first, "/")

	// 3. Two calls never collide
	second, err := sec.GenerateSecureToken(32)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

/*
TestHashToken verifies that the digest is deterministic and hex-encoded,
so it can serve as a storage lookup key.
*/
func TestHashToken(t *testing.T) {
	// 1. Deterministic
	assert.Equal(t, sec.HashToken("some-token"), sec.HashToken("some-token"))

	// 2. Different inputs diverge
	assert.NotEqual(t, sec.HashToken("some-token"), sec.HashToken("other-token"))

	// 3. SHA-256 hex digest is 64 characters
	assert.Len(t, sec.HashToken("some-token"), 64)
}

/*
TestPasswordHashing verifies the bcrypt hash/check round trip.
*/
func TestPasswordHashing(t *testing.T) {
	hash, err := sec.HashPassword("s3cret-pass")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", hash)

	assert.True(t, sec.CheckPasswordHash("s3cret-pass", hash))
	assert.False(t, sec.CheckPasswordHash("wrong-pass", hash))
	assert.False(t, sec.CheckPasswordHash("s3cret-pass", "not-a-bcrypt-hash"))
}
