// Copyright (c) 2026 ABCScribe. All rights reserved.
// Author: dev@abcscribe.app

package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abcscribe/abcscribe/internal/auth"
	"github.com/abcscribe/abcscribe/internal/platform/sec"
)

func newSessionFixture(t *testing.T) (*auth.SessionManager, *auth.Service, *fakeSessionStore, *auth.User) {
	t.Helper()
	repo := newFakeUserRepo()
	service := auth.NewService(repo)
	sessions := newFakeSessionStore()
	manager := auth.NewSessionManager(repo, sessions, service)
	user := registeredUser(t, service)
	return manager, service, sessions, user
}

/*
TestSessionManager_LoginAndResolve verifies the primary session path.
*/
func TestSessionManager_LoginAndResolve(t *testing.T) {
	manager, _, _, user := newSessionFixture(t)

	// 1. Login binds a fresh identifier
	sessionID, err := manager.Login(context.Background(), user, "")
	require.NoError(t, err)
	require.NotEmpty(t, sessionID)

	// 2. The identifier resolves to a session-sourced principal
	principal, rehydrated, err := manager.ResolveSession(context.Background(), sessionID, "")
	require.NoError(t, err)
	assert.Empty(t, rehydrated)
	assert.Equal(t, user.ID, principal.UserID)
	assert.Equal(t, sec.SourceSession, principal.Source)

	// 3. Each login regenerates: two logins never share an identifier
	second, err := manager.Login(context.Background(), user, sessionID)
	require.NoError(t, err)
	assert.NotEqual(t, sessionID, second)
}

/*
TestSessionManager_LoginDestroysPriorSession verifies that re-authenticating
replaces the server-side session rather than accumulating a second live one.
*/
func TestSessionManager_LoginDestroysPriorSession(t *testing.T) {
	manager, _, _, user := newSessionFixture(t)

	// 1. First login
	first, err := manager.Login(context.Background(), user, "")
	require.NoError(t, err)

	// 2. Second login presenting the first identifier
	second, err := manager.Login(context.Background(), user, first)
	require.NoError(t, err)
	require.NotEqual(t, first, second)

	// 3. The first identifier is dead server-side, not just replaced in the cookie
	_, _, err = manager.ResolveSession(context.Background(), first, "")
	assert.Error(t, err)

	// 4. The second identifier resolves normally
	principal, _, err := manager.ResolveSession(context.Background(), second, "")
	require.NoError(t, err)
	assert.Equal(t, user.ID, principal.UserID)
}

/*
TestSessionManager_RememberRehydration verifies the remember-cookie fallback.
*/
func TestSessionManager_RememberRehydration(t *testing.T) {
	manager, service, _, user := newSessionFixture(t)

	rememberToken, err := service.Remember(context.Background(), user)
	require.NoError(t, err)

	// 1. A dead session plus a live remember token re-establishes the login
	principal, newSessionID, err := manager.ResolveSession(context.Background(), "gone", rememberToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, principal.UserID)
	require.NotEmpty(t, newSessionID)

	// 2. The re-hydrated session identifier is immediately usable on its own
	principal, rehydrated, err := manager.ResolveSession(context.Background(), newSessionID, "")
	require.NoError(t, err)
	assert.Empty(t, rehydrated)
	assert.Equal(t, user.ID, principal.UserID)
}

/*
TestSessionManager_Logout verifies teardown of both credentials.
*/
func TestSessionManager_Logout(t *testing.T) {
	manager, service, _, user := newSessionFixture(t)

	sessionID, err := manager.Login(context.Background(), user, "")
	require.NoError(t, err)
	rememberToken, err := service.Remember(context.Background(), user)
	require.NoError(t, err)

	require.NoError(t, manager.Logout(context.Background(), sessionID, user.ID))

	// 1. The session identifier no longer resolves
	_, _, err = manager.ResolveSession(context.Background(), sessionID, "")
	assert.Error(t, err)

	// 2. The remember token cannot resurrect the login either
	_, _, err = manager.ResolveSession(context.Background(), "", rememberToken)
	assert.Error(t, err)
}
