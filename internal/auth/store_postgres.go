// Copyright (c) 2026 ABCScribe. All rights reserved.
// Author: dev@abcscribe.app

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/abcscribe/abcscribe/internal/platform/apperr"
	"github.com/abcscribe/abcscribe/internal/platform/dberr"
)

// # User Repository

// userColumns is the canonical select list shared by every lookup.
const userColumns = `id, name, email, password_hash, remember_token, remember_created_at, api_token, created_at, updated_at`

// PostgresUserRepository implements the UserRepository interface using pgx.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

/*
Create persists a new user record into the users table.

Parameters:
  - context: context.Context
  - user: *User (Entity to persist)

Returns:
  - error: apperr.Conflict on duplicate email, or connectivity errors
*/
func (repository *PostgresUserRepository) Create(context context.Context, user *User) error {
	const query = `
		INSERT INTO users (
			id, name, email, password_hash, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6)`

	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		user.ID,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		return dberr.Wrap(err, "user", "Email is already registered")
	}

	return nil
}

/*
FindByID retrieves a user record by primary key.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) FindByID(context context.Context, id string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return repository.findOne(context, query, id)
}

/*
FindByEmail retrieves a user record by their unique email address.

Description: Performs a case-insensitive lookup, matching the lowercase
normalization applied when accounts are created.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) FindByEmail(context context.Context, email string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE lower(email) = lower($1)`
	return repository.findOne(context, query, email)
}

/*
FindByRememberToken retrieves the account holding the given remember token.

Parameters:
  - context: context.Context
  - token: string

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) FindByRememberToken(context context.Context, token string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE remember_token = $1`
	return repository.findOne(context, query, token)
}

/*
FindByAPIToken retrieves the account holding the given live bearer token.

Parameters:
  - context: context.Context
  - token: string

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) FindByAPIToken(context context.Context, token string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE api_token = $1`
	return repository.findOne(context, query, token)
}

/*
APITokenExists reports whether any account already holds the given bearer token.

Parameters:
  - context: context.Context
  - token: string

Returns:
  - bool: Existence flag
  - error: Database retrieval failures
*/
func (repository *PostgresUserRepository) APITokenExists(context context.Context, token string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM users WHERE api_token = $1)`

	var exists bool
	if err := repository.pool.QueryRow(context, query, token).Scan(&exists); err != nil {
		return false, fmt.Errorf("postgres_user_repo_token_exists_failed: %w", err)
	}

	return exists, nil
}

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
func (repository *PostgresUserRepository) SetRememberToken(context context.Context, userID, token string, createdAt time.Time) error {
	const query = `
		UPDATE users
		SET remember_token = $2, remember_created_at = $3, updated_at = now()
		WHERE id = $1`

	if _, err := repository.pool.Exec(context, query, userID, token, createdAt); err != nil {
		return fmt.Errorf("postgres_user_repo_set_remember_failed: %w", err)
	}

	return nil
}

/*
ClearRememberToken removes any stored remember token for the account.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - error: Persistence failures
*/
func (repository *PostgresUserRepository) ClearRememberToken(context context.Context, userID string) error {
	const query = `
		UPDATE users
		SET remember_token = NULL, remember_created_at = NULL, updated_at = now()
		WHERE id = $1`

	if _, err := repository.pool.Exec(context, query, userID); err != nil {
		return fmt.Errorf("postgres_user_repo_clear_remember_failed: %w", err)
	}

	return nil
}

/*
SetAPIToken stores the live bearer token for the account.

Parameters:
  - context: context.Context
  - userID: string
  - token: string

Returns:
  - error: apperr.Conflict if another account holds the token, or persistence failures
*/
func (repository *PostgresUserRepository) SetAPIToken(context context.Context, userID, token string) error {
	const query = `
		UPDATE users
		SET api_token = $2, updated_at = now()
		WHERE id = $1`

	if _, err := repository.pool.Exec(context, query, userID, token); err != nil {
		return dberr.Wrap(err, "user", "API token is already in use")
	}

	return nil
}

/*
ClearAPIToken removes the live bearer token for the account.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - error: Persistence failures
*/
func (repository *PostgresUserRepository) ClearAPIToken(context context.Context, userID string) error {
	const query = `
		UPDATE users
		SET api_token = NULL, updated_at = now()
		WHERE id = $1`

	if _, err := repository.pool.Exec(context, query, userID); err != nil {
		return fmt.Errorf("postgres_user_repo_clear_api_token_failed: %w", err)
	}

	return nil
}

// findOne runs a single-row user lookup and maps pgx.ErrNoRows to apperr.NotFound.
func (repository *PostgresUserRepository) findOne(context context.Context, query string, arg any) (*User, error) {
	user := &User{}
	err := repository.pool.QueryRow(context, query, arg).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.RememberToken,
		&user.RememberCreatedAt,
		&user.APIToken,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User not found")
		}
		return nil, fmt.Errorf("postgres_user_repo_find_failed: %w", err)
	}

	return user, nil
}

// # Magic Link Repository

// PostgresMagicLinkRepository implements the MagicLinkRepository interface using pgx.
type PostgresMagicLinkRepository struct {
	pool *pgxpool.Pool
}

// NewMagicLinkRepository creates a new PostgreSQL implementation of the MagicLinkRepository.
func NewMagicLinkRepository(pool *pgxpool.Pool) *PostgresMagicLinkRepository {
	return &PostgresMagicLinkRepository{pool: pool}
}

/*
Create persists a new magic-link token record.

Parameters:
  - context: context.Context
  - token: *MagicLinkToken

Returns:
  - error: apperr.Conflict on a token collision, or persistence failures
*/
func (repository *PostgresMagicLinkRepository) Create(context context.Context, token *MagicLinkToken) error {
	const query = `
		INSERT INTO magic_link_tokens (id, user_id, token, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	if token.CreatedAt.IsZero() {
		token.CreatedAt = time.Now()
	}

	_, err := repository.pool.Exec(context, query,
		token.ID,
		token.UserID,
		token.Token,
		token.ExpiresAt,
		token.CreatedAt,
	)

	if err != nil {
		return dberr.Wrap(err, "magic link", "Magic link token collision")
	}

	return nil
}

/*
FindByToken retrieves the record holding the given raw token value.

Parameters:
  - context: context.Context
  - token: string

Returns:
  - *MagicLinkToken: Hydrated entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresMagicLinkRepository) FindByToken(context context.Context, token string) (*MagicLinkToken, error) {
	const query = `
		SELECT id, user_id, token, expires_at, created_at
		FROM magic_link_tokens
		WHERE token = $1`

	record := &MagicLinkToken{}
	err := repository.pool.QueryRow(context, query, token).Scan(
		&record.ID,
		&record.UserID,
		&record.Token,
		&record.ExpiresAt,
		&record.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Magic link not found")
		}
		return nil, fmt.Errorf("postgres_magic_link_repo_find_failed: %w", err)
	}

	return record, nil
}

/*
Delete removes a single token record by ID.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - error: Persistence failures
*/
func (repository *PostgresMagicLinkRepository) Delete(context context.Context, id string) error {
	const query = `DELETE FROM magic_link_tokens WHERE id = $1`

	if _, err := repository.pool.Exec(context, query, id); err != nil {
		return fmt.Errorf("postgres_magic_link_repo_delete_failed: %w", err)
	}

	return nil
}

/*
DeleteByUser removes all outstanding token records for an account.

Description: Keeps the at-most-one-live-link invariant by clearing prior
tokens before a new request is issued.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - error: Persistence failures
*/
func (repository *PostgresMagicLinkRepository) DeleteByUser(context context.Context, userID string) error {
	const query = `DELETE FROM magic_link_tokens WHERE user_id = $1`

	if _, err := repository.pool.Exec(context, query, userID); err != nil {
		return fmt.Errorf("postgres_magic_link_repo_delete_by_user_failed: %w", err)
	}

	return nil
}
