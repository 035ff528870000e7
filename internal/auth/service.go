// Copyright (c) 2026 ABCScribe. All rights reserved.
// Author: dev@abcscribe.app

package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/abcscribe/abcscribe/internal/platform/apperr"
	"github.com/abcscribe/abcscribe/internal/platform/constants"
	"github.com/abcscribe/abcscribe/internal/platform/sec"
	"github.com/abcscribe/abcscribe/pkg/uuid"
)

// # Service Definition

// Service implements password-credential use cases: registration, login
// verification, and the long-lived remember-me token lifecycle.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, registration,
// or credential comparison must be reviewed carefully.
type Service struct {
	userRepository UserRepository
}

// NewService constructs a new [Service] with its repository dependency.
func NewService(userRepo UserRepository) *Service {
	return &Service{userRepository: userRepo}
}

// # Registration Flow

// RegisterInput holds the data required to enroll a new account.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

/*
Register validates, hashes, and persists a brand new user account.

Description: Normalizes the email to lowercase before persistence so that
case-variant duplicates are rejected and later lookups are deterministic.

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - *User: Created entity
  - error: apperr.Conflict (if the email exists) or storage errors
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*User, error) {

	// Normalize the identity key before any lookup or insert.
	email := strings.ToLower(strings.TrimSpace(input.Email))

	// Verify email uniqueness. Return a client-safe Conflict err.
	_, err := service.userRepository.FindByEmail(context, email)
	if err == nil {
		return nil, apperr.Conflict("Email is already registered")
	}

	// Prevent storing plain-text passwords. Default cost is used for balance
	// between security and CPU utilization during registration spikes.
	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	// Construct the new User entity. Time-sortable ID to prevent PG index fragmentation.
	user := &User{
		ID:           uuid.New(),
		Name:         strings.TrimSpace(input.Name),
		Email:        email,
		PasswordHash: hashedPassword,
	}

	// Persist the user to the database. The unique index backs up the
	// pre-check against concurrent registrations.
	if err := service.userRepository.Create(context, user); err != nil {
		return nil, fmt.Errorf("auth_service_register_failed: %w", err)
	}

	return user, nil
}

// # Login Verification

/*
Authenticate verifies an email and password pair.

Description: Both the missing-account and wrong-password paths collapse into a
single generic Unauthorized error so that responses never reveal whether an
email is registered.

Parameters:
  - context: context.Context
  - email: string
  - password: string

Returns:
  - *User: Verified account entity
  - error: apperr.Unauthorized or storage errors
*/
func (service *Service) Authenticate(context context.Context, email, password string) (*User, error) {

	// Look up the account by its normalized email.
	user, err := service.userRepository.FindByEmail(context, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if apperr.IsAppError(err) {
			return nil, apperr.Unauthorized("Invalid email or password")
		}
		return nil, fmt.Errorf("auth_service_authenticate_failed: %w", err)
	}

	// Constant-time hash comparison via bcrypt.
	if !sec.CheckPasswordHash(password, user.PasswordHash) {
		return nil, apperr.Unauthorized("Invalid email or password")
	}

	return user, nil
}

// # Remember-Me Lifecycle

/*
Remember issues a fresh remember-me token for the account.

Description: Generates a new URL-safe credential and stores it with the
current timestamp. Any previous token is replaced, so at most one remember
credential is live per account.

Parameters:
  - context: context.Context
  - user: *User

Returns:
  - string: The raw token for the browser cookie
  - error: Persistence failures
*/
func (service *Service) Remember(context context.Context, user *User) (string, error) {

	// Generate the raw browser credential.
	token, err := sec.GenerateToken(constants.CredentialTokenBytes)
	if err != nil {
		return "", fmt.Errorf("auth_service_remember_generate_failed: %w", err)
	}

	// Persist the token with its issue timestamp for window checks.
	now := time.Now()
	if err := service.userRepository.SetRememberToken(context, user.ID, token, now); err != nil {
		return "", fmt.Errorf("auth_service_remember_persist_failed: %w", err)
	}

	// Keep the in-memory entity coherent with storage.
	user.RememberToken = &token
	user.RememberCreatedAt = &now

	return token, nil
}

/*
Forget invalidates any remember-me token held by the account.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - error: Persistence failures
*/
func (service *Service) Forget(context context.Context, userID string) error {
	if err := service.userRepository.ClearRememberToken(context, userID); err != nil {
		return fmt.Errorf("auth_service_forget_failed: %w", err)
	}
	return nil
}

/*
LookupRemembered resolves a remember-me token to its account.

Description: The token must exist and its issue timestamp must fall inside the
validity window. A token outside the window is treated the same as an unknown
token.

Parameters:
  - context: context.Context
  - token: string

Returns:
  - *User: Remembered account entity
  - error: apperr.Unauthorized or storage errors
*/
func (service *Service) LookupRemembered(context context.Context, token string) (*User, error) {
	if token == "" {
		return nil, apperr.Unauthorized("Remember token is invalid or expired")
	}

	user, err := service.userRepository.FindByRememberToken(context, token)
	if err != nil {
		if apperr.IsAppError(err) {
			return nil, apperr.Unauthorized("Remember token is invalid or expired")
		}
		return nil, fmt.Errorf("auth_service_lookup_remembered_failed: %w", err)
	}

	// A stored token with no timestamp is corrupt state. Fail closed.
	if user.RememberCreatedAt == nil {
		return nil, apperr.Unauthorized("Remember token is invalid or expired")
	}

	// Enforce the validity window from the issue timestamp.
	if time.Since(*user.RememberCreatedAt) > constants.RememberTokenTTL {
		return nil, apperr.Unauthorized("Remember token is invalid or expired")
	}

	return user, nil
}
