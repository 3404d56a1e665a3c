// Copyright (c) 2026 GymFusion. All rights reserved.
// Author: dev@gymfusion.app

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/gymfusion/gymfusion/internal/platform/apperr"
	"github.com/gymfusion/gymfusion/internal/platform/constants"
)

// # Ephemeral Token Repository

// RedisTokenRepository implements EphemeralTokenRepository using Redis.
//
// One instance serves one [TokenPurpose]; the verification and reset flows
// each get their own repository with a distinct key namespace, so a token
// minted for one purpose can never be consumed by the other.
//
// # Key Layout
//
//   - <prefix><tokenHash>   -> userID   (the consumable entry, TTL-bound)
//   - <prefix>user:<userID> -> tokenHash (index used to revoke a prior token)
//
// Expiry is enforced natively by Redis TTLs, and single-use consumption by
// the atomic GETDEL command.
type RedisTokenRepository struct {
	client *redis.Client
	prefix string
}

// NewVerificationTokenRepository creates the repository for email-verification tokens.
func NewVerificationTokenRepository(client *redis.Client) *RedisTokenRepository {
	return &RedisTokenRepository{client: client, prefix: constants.RedisPrefixVerifyToken}
}

// NewResetTokenRepository creates the repository for password-reset tokens.
func NewResetTokenRepository(client *redis.Client) *RedisTokenRepository {
	return &RedisTokenRepository{client: client, prefix: constants.RedisPrefixResetToken}
}

/*
Set stores a token digest for a userID with the given TTL.

Description: Issuing a new token revokes the user's previous one. The per-user
index key records which digest is currently live; it is deleted before the new
entry is written so at most one token per user per purpose is ever valid.

Parameters:
  - context: context.Context
  - tokenHash: string
  - userID: string
  - ttl: time.Duration

Returns:
  - error: Execution errors
*/
func (repository *RedisTokenRepository) Set(context context.Context, tokenHash string, userID string, ttl time.Duration) error {
	indexKey := repository.prefix + "user:" + userID

	// Revoke the previous token, if one is still live.
	previousHash, err := repository.client.Get(context, indexKey).Result()
	if err == nil && previousHash != "" {
		_ = repository.client.Del(context, repository.prefix+previousHash).Err()
	} else if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("redis_token_repo_index_read_failed: %w", err)
	}

	// Store the new entry and point the index at it, sharing one TTL.
	pipe := repository.client.TxPipeline()
	pipe.Set(context, repository.prefix+tokenHash, userID, ttl)
	pipe.Set(context, indexKey, tokenHash, ttl)

	if _, err := pipe.Exec(context); err != nil {
		return fmt.Errorf("redis_token_repo_set_failed: %w", err)
	}

	return nil
}

/*
Consume atomically retrieves and deletes the entry for a token digest.

Description: GETDEL guarantees single use even under concurrent submissions
of the same link. Absent and expired tokens are indistinguishable to the
caller: both yield the same generic Unauthorized error.

Parameters:
  - context: context.Context
  - tokenHash: string

Returns:
  - string: UserID the token was issued to
  - error: apperr.Unauthorized or connectivity errors
*/
func (repository *RedisTokenRepository) Consume(context context.Context, tokenHash string) (string, error) {
	userID, err := repository.client.GetDel(context, repository.prefix+tokenHash).Result()

	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", apperr.Unauthorized("Token is invalid or expired")
		}
		return "", fmt.Errorf("redis_token_repo_consume_failed: %w", err)
	}

	// Best-effort index cleanup; a stale index only costs one extra DEL later.
	_ = repository.client.Del(context, repository.prefix+"user:"+userID).Err()

	return userID, nil
}
