// Copyright (c) 2026 GymFusion. All rights reserved.
// Author: dev@gymfusion.app

package auth

import "time"

// # Authentication Constraints

const (
	// EphemeralTokenTTL is the validity window for both email verification
	// and password reset tokens. Short (20m) because the raw token travels
	// over email.
	EphemeralTokenTTL = 20 * time.Minute

	// EphemeralTokenLength is the byte length of the random secure token.
	EphemeralTokenLength = 32

	// MaxAvatarSize is the upload ceiling for avatar images (5 MiB).
	MaxAvatarSize = 5 << 20
)
