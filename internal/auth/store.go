// Copyright (c) 2026 ABCScribe. All rights reserved.
// Author: dev@abcscribe.app

package auth

import (
	"context"
	"time"
)

// # User Data Access

// UserRepository defines the data access contract for user accounts.
type UserRepository interface {

	/*
		FindByID returns the account with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByID(context context.Context, id string) (*User, error)

	/*
		FindByEmail returns the account with the given email.

		Description: The lookup is case-insensitive to match the normalization
		applied at registration time.

		Parameters:
		  - context: context.Context
		  - email: string

		Returns:
		  - *User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByEmail(context context.Context, email string) (*User, error)

	/*
		FindByRememberToken returns the account holding the given remember token.

		Parameters:
		  - context: context.Context
		  - token: string

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound or database errors
	*/
	FindByRememberToken(context context.Context, token string) (*User, error)

	/*
		FindByAPIToken returns the account holding the given live bearer token.

		Parameters:
		  - context: context.Context
		  - token: string

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound or database errors
	*/
	FindByAPIToken(context context.Context, token string) (*User, error)

	/*
		APITokenExists reports whether any account already holds the given bearer token.

		Parameters:
		  - context: context.Context
		  - token: string

		Returns:
		  - bool: Existence flag
		  - error: Database retrieval failures
	*/
	APITokenExists(context context.Context, token string) (bool, error)

	/*
		Create persists a brand-new user account to the storage.

		Parameters:
		  - context: context.Context
		  - user: *User

		Returns:
		  - error: Persistence failures
	*/
	Create(context context.Context, user *User) error

	/*
		SetRememberToken stores a remember token and its creation timestamp.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - token: string
		  - createdAt: time.Time

		Returns:
		  - error: Persistence failures
	*/
	SetRememberToken(context context.Context, userID, token string, createdAt time.Time) error

	/*
		ClearRememberToken removes any stored remember token for the account.

		Parameters:
		  - context: context.Context
		  - userID: string

		Returns:
		  - error: Persistence failures
	*/
	ClearRememberToken(context context.Context, userID string) error

	/*
		SetAPIToken stores the live bearer token for the account.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - token: string

		Returns:
		  - error: Persistence failures
	*/
	SetAPIToken(context context.Context, userID, token string) error

	/*
		ClearAPIToken removes the live bearer token for the account.

		Parameters:
		  - context: context.Context
		  - userID: string

		Returns:
		  - error: Persistence failures
	*/
	ClearAPIToken(context context.Context, userID string) error
}

// # Session Storage

// SessionStore defines volatile storage for browser session identifiers.
type SessionStore interface {

	/*
		Set stores a session identifier mapped to a userID with a TTL.

		Parameters:
		  - context: context.Context
		  - sessionID: string
		  - userID: string
		  - ttl: time.Duration

		Returns:
		  - error: Storage failures
	*/
	Set(context context.Context, sessionID, userID string, ttl time.Duration) error

	/*
		Get retrieves the userID for a session identifier.

		Parameters:
		  - context: context.Context
		  - sessionID: string

		Returns:
		  - string: Owning userID
		  - error: apperr.NotFound or storage failures
	*/
	Get(context context.Context, sessionID string) (string, error)

	/*
		Delete removes a session identifier.

		Parameters:
		  - context: context.Context
		  - sessionID: string

		Returns:
		  - error: Storage failures
	*/
	Delete(context context.Context, sessionID string) error
}

// # Magic Link Storage

// MagicLinkRepository defines the data access contract for magic-link tokens.
type MagicLinkRepository interface {

	/*
		Create persists a new magic-link token.

		Parameters:
		  - context: context.Context
		  - token: *MagicLinkToken

		Returns:
		  - error: Persistence failures
	*/
	Create(context context.Context, token *MagicLinkToken) error

	/*
		FindByToken returns the record holding the given raw token value.

		Parameters:
		  - context: context.Context
		  - token: string

		Returns:
		  - *MagicLinkToken: Hydrated entity
		  - error: apperr.NotFound or database errors
	*/
	FindByToken(context context.Context, token string) (*MagicLinkToken, error)

	/*
		Delete removes a single token record by ID.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - error: Persistence failures
	*/
	Delete(context context.Context, id string) error

	/*
		DeleteByUser removes all outstanding token records for an account.

		Parameters:
		  - context: context.Context
		  - userID: string

		Returns:
		  - error: Persistence failures
	*/
	DeleteByUser(context context.Context, userID string) error
}
