// Copyright (c) 2026 ABCScribe. All rights reserved.
// Author: dev@abcscribe.app

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/abcscribe/abcscribe/internal/platform/apperr"
	"github.com/abcscribe/abcscribe/internal/platform/constants"
)

// RedisSessionStore implements SessionStore using Redis.
//
// Session identifiers are opaque random values; Redis key expiry enforces the
// session lifetime without any sweeper process.
type RedisSessionStore struct {
	client *redis.Client
}

// NewSessionStore creates a new Redis-backed SessionStore.
func NewSessionStore(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{client: client}
}

/*
Set stores a session identifier mapped to a userID with a TTL.

Parameters:
  - context: context.Context
  - sessionID: string
  - userID: string
  - ttl: time.Duration

Returns:
  - error: Execution errors
*/
func (store *RedisSessionStore) Set(context context.Context, sessionID, userID string, ttl time.Duration) error {

	// Use constants for key prefix
	key := constants.RedisPrefixSession + sessionID

	// Set the session with TTL
	if err := store.client.Set(context, key, userID, ttl).Err(); err != nil {
		return fmt.Errorf("redis_session_set_failed: %w", err)
	}

	// Return nil on success
	return nil
}

/*
Get retrieves the userID for a given session identifier.

Description: Returns apperr.NotFound if the session is absent or expired.

Parameters:
  - context: context.Context
  - sessionID: string

Returns:
  - string: Owning userID
  - error: apperr.NotFound or connectivity errors
*/
func (store *RedisSessionStore) Get(context context.Context, sessionID string) (string, error) {

	// Use constants for key prefix
	key := constants.RedisPrefixSession + sessionID

	// Get the session from Redis
	userID, err := store.client.Get(context, key).Result()

	// Handle errors
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", apperr.NotFound("Session is invalid or expired")
		}
		return "", fmt.Errorf("redis_session_get_failed: %w", err)
	}

	// Return the userID
	return userID, nil
}

/*
Delete removes the session from Redis.

Parameters:
  - context: context.Context
  - sessionID: string

Returns:
  - error: Execution errors
*/
func (store *RedisSessionStore) Delete(context context.Context, sessionID string) error {

	// Use constants for key prefix
	key := constants.RedisPrefixSession + sessionID

	// Delete the session
	if err := store.client.Del(context, key).Err(); err != nil {
		return fmt.Errorf("redis_session_delete_failed: %w", err)
	}

	// Return nil on success
	return nil
}
