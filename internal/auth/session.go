// Copyright (c) 2026 ABCScribe. All rights reserved.
// Author: dev@abcscribe.app

package auth

import (
	"context"
	"fmt"

	"github.com/abcscribe/abcscribe/internal/platform/apperr"
	"github.com/abcscribe/abcscribe/internal/platform/constants"
	"github.com/abcscribe/abcscribe/internal/platform/sec"
)

// # Session Manager

// SessionManager owns the browser session lifecycle.
//
// Sessions are opaque random identifiers stored server-side with a TTL; the
// browser only ever holds the identifier. The manager also implements the
// remember-me fallback used by the web authentication gate.
type SessionManager struct {
	userRepository UserRepository
	sessions       SessionStore
	authService    *Service
}

// NewSessionManager constructs a new [SessionManager].
func NewSessionManager(userRepo UserRepository, sessions SessionStore, authService *Service) *SessionManager {
	return &SessionManager{
		userRepository: userRepo,
		sessions:       sessions,
		authService:    authService,
	}
}

/*
Login binds a fresh session to the user.

Description: A brand-new session identifier is generated on every login, so an
identifier captured before authentication can never be promoted to an
authenticated session. The session the caller presented, if any, is destroyed
first so it cannot keep resolving alongside the new one.

Parameters:
  - context: context.Context
  - user: *User
  - priorSessionID: string (the presented session identifier, may be empty)

Returns:
  - string: The new session identifier for the cookie
  - error: Storage failures
*/
func (manager *SessionManager) Login(context context.Context, user *User, priorSessionID string) (string, error) {

	// Destroy the caller's previous entry before binding a new one. Without
	// this the old identifier would stay live server-side until its TTL.
	if priorSessionID != "" {
		if err := manager.sessions.Delete(context, priorSessionID); err != nil {
			return "", fmt.Errorf("session_manager_regenerate_failed: %w", err)
		}
	}

	// Generate a fresh identifier. Never reuse one presented by the client.
	sessionID, err := sec.GenerateToken(constants.CredentialTokenBytes)
	if err != nil {
		return "", fmt.Errorf("session_manager_generate_failed: %w", err)
	}

	// Bind the identifier to the account with the session TTL.
	if err := manager.sessions.Set(context, sessionID, user.ID, constants.SessionTTL); err != nil {
		return "", fmt.Errorf("session_manager_login_failed: %w", err)
	}

	return sessionID, nil
}

/*
Logout tears down the session and any remember-me credential.

Description: Both the server-side session entry and the stored remember token
are destroyed, so neither cookie can resurrect the login.

Parameters:
  - context: context.Context
  - sessionID: string
  - userID: string

Returns:
  - error: Storage failures
*/
func (manager *SessionManager) Logout(context context.Context, sessionID, userID string) error {

	// Destroy the server-side session entry.
	if sessionID != "" {
		if err := manager.sessions.Delete(context, sessionID); err != nil {
			return fmt.Errorf("session_manager_logout_failed: %w", err)
		}
	}

	// Invalidate the remember credential alongside the session.
	if userID != "" {
		if err := manager.authService.Forget(context, userID); err != nil {
			return err
		}
	}

	return nil
}

/*
ResolveSession maps cookies to an acting principal.

Description: The session identifier is tried first. On a miss, a valid
remember-me token re-establishes the login, and the freshly bound session
identifier is returned so the gate can re-issue the cookie.

Parameters:
  - ctx: context.Context
  - sessionID: string (may be empty)
  - rememberToken: string (may be empty)

Returns:
  - *sec.Principal: The acting principal
  - string: New session identifier when re-hydrated from the remember token
  - error: apperr.Unauthorized or storage failures
*/
func (manager *SessionManager) ResolveSession(ctx context.Context, sessionID, rememberToken string) (*sec.Principal, string, error) {

	// Fast path: live server-side session.
	if sessionID != "" {
		userID, err := manager.sessions.Get(ctx, sessionID)
		if err == nil {
			user, err := manager.userRepository.FindByID(ctx, userID)
			if err != nil {
				return nil, "", err
			}
			return principalFor(user, sec.SourceSession), "", nil
		}
		if !apperr.IsAppError(err) {
			return nil, "", err
		}
	}

	// Fallback: re-hydrate from the remember token.
	user, err := manager.authService.LookupRemembered(ctx, rememberToken)
	if err != nil {
		return nil, "", err
	}

	// Bind a brand-new session for the remembered user. The presented
	// identifier already failed to resolve; deleting it is a no-op that keeps
	// the replace-never-merge contract in one place.
	newSessionID, err := manager.Login(ctx, user, sessionID)
	if err != nil {
		return nil, "", err
	}

	return principalFor(user, sec.SourceSession), newSessionID, nil
}

// principalFor projects a user entity onto the request-scoped principal.
func principalFor(user *User, source sec.PrincipalSource) *sec.Principal {
	return &sec.Principal{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
		Source: source,
	}
}
