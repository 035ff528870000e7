// Copyright (c) 2026 ABCScribe. All rights reserved.
// Author: dev@abcscribe.app

package auth_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abcscribe/abcscribe/internal/auth"
	"github.com/abcscribe/abcscribe/internal/platform/apperr"
	"github.com/abcscribe/abcscribe/internal/platform/sec"
)

// # In-Memory Fakes

// fakeUserRepo is an in-memory UserRepository for service tests.
type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*auth.User // keyed by ID
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*auth.User)}
}

func (r *fakeUserRepo) FindByID(_ context.Context, id string) (*auth.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user, ok := r.users[id]; ok {
		clone := *user
		return &clone, nil
	}
	return nil, apperr.NotFound("User")
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (r *fakeUserRepo) FindByRememberToken(_ context.Context, token string) (*auth.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.RememberToken != nil && *user.RememberToken == token {
			clone := *user
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (r *fakeUserRepo) FindByAPIToken(_ context.Context, token string) (*auth.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.APIToken != nil && *user.APIToken == token {
			clone := *user
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (r *fakeUserRepo) APITokenExists(_ context.Context, token string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.APIToken != nil && *user.APIToken == token {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) Create(_ context.Context, user *auth.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return apperr.Conflict("Email is already registered")
		}
	}
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) SetRememberToken(_ context.Context, userID, token string, createdAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user, ok := r.users[userID]; ok {
		user.RememberToken = &token
		user.RememberCreatedAt = &createdAt
	}
	return nil
}

func (r *fakeUserRepo) ClearRememberToken(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user, ok := r.users[userID]; ok {
		user.RememberToken = nil
		user.RememberCreatedAt = nil
	}
	return nil
}

func (r *fakeUserRepo) SetAPIToken(_ context.Context, userID, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user, ok := r.users[userID]; ok {
		user.APIToken = &token
	}
	return nil
}

func (r *fakeUserRepo) ClearAPIToken(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user, ok := r.users[userID]; ok {
		user.APIToken = nil
	}
	return nil
}

// fakeSessionStore is an in-memory SessionStore for service tests.
type fakeSessionStore struct {
	mu       sync.Mutex
	sessions map[string]string
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: make(map[string]string)}
}

func (s *fakeSessionStore) Set(_ context.Context, sessionID, userID string, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionID] = userID
	return nil
}

func (s *fakeSessionStore) Get(_ context.Context, sessionID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if userID, ok := s.sessions[sessionID]; ok {
		return userID, nil
	}
	return "", apperr.NotFound("Session")
}

func (s *fakeSessionStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}

// fakeLinkRepo is an in-memory MagicLinkRepository for service tests.
type fakeLinkRepo struct {
	mu    sync.Mutex
	links map[string]*auth.MagicLinkToken // keyed by ID
}

func newFakeLinkRepo() *fakeLinkRepo {
	return &fakeLinkRepo{links: make(map[string]*auth.MagicLinkToken)}
}

func (r *fakeLinkRepo) Create(_ context.Context, token *auth.MagicLinkToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *token
	r.links[token.ID] = &clone
	return nil
}

func (r *fakeLinkRepo) FindByToken(_ context.Context, token string) (*auth.MagicLinkToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, link := range r.links {
		if link.Token == token {
			clone := *link
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("Magic link")
}

func (r *fakeLinkRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.links, id)
	return nil
}

func (r *fakeLinkRepo) DeleteByUser(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, link := range r.links {
		if link.UserID == userID {
			delete(r.links, id)
		}
	}
	return nil
}

func (r *fakeLinkRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.links)
}

// fakeMailer records delivered magic links.
type fakeMailer struct {
	mu   sync.Mutex
	sent []string
}

func (m *fakeMailer) SendMagicLink(_ context.Context, to, _, link string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, to+" "+link)
	return nil
}

// # Helpers

func registeredUser(t *testing.T, service *auth.Service) *auth.User {
	t.Helper()
	user, err := service.Register(context.Background(), auth.RegisterInput{
		Name:     "Dana Analyst",
		Email:    "Dana@Example.COM",
		Password: "correct horse",
	})
	require.NoError(t, err)
	return user
}

// # Registration

/*
TestService_Register verifies enrollment, email normalization, and hashing.
*/
func TestService_Register(t *testing.T) {
	repo := newFakeUserRepo()
	service := auth.NewService(repo)

	user := registeredUser(t, service)

	// 1. Email is normalized to lowercase before persistence
	assert.Equal(t, "dana@example.com", user.Email)

	// 2. Password is stored as a bcrypt hash, never plain text
	assert.NotEqual(t, "correct horse", user.PasswordHash)
	assert.True(t, sec.CheckPasswordHash("correct horse", user.PasswordHash))

	// 3. A duplicate email (any casing) is rejected with a conflict
	_, err := service.Register(context.Background(), auth.RegisterInput{
		Name:     "Other",
		Email:    "DANA@example.com",
		Password: "another pass",
	})
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", apperr.As(err).Code)
}

// # Login Verification

/*
TestService_Authenticate verifies the credential check and its generic failure.
*/
func TestService_Authenticate(t *testing.T) {
	repo := newFakeUserRepo()
	service := auth.NewService(repo)
	user := registeredUser(t, service)

	// 1. Correct credentials resolve the account (case-insensitive email)
	found, err := service.Authenticate(context.Background(), "DANA@example.com", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	// 2. Wrong password and unknown email fail with the SAME generic message
	_, wrongPass := service.Authenticate(context.Background(), "dana@example.com", "nope")
	_, unknown := service.Authenticate(context.Background(), "ghost@example.com", "nope")
	require.Error(t, wrongPass)
	require.Error(t, unknown)
	assert.Equal(t, wrongPass.Error(), unknown.Error())
	assert.Equal(t, "UNAUTHORIZED", apperr.As(wrongPass).Code)
}

// # Remember-Me

/*
TestService_Remember verifies token issue, replacement, and the validity window.
*/
func TestService_Remember(t *testing.T) {
	repo := newFakeUserRepo()
	service := auth.NewService(repo)
	user := registeredUser(t, service)

	// 1. Remember issues a token that resolves back to the account
	token, err := service.Remember(context.Background(), user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	remembered, err := service.LookupRemembered(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, remembered.ID)

	// 2. A second Remember replaces the first token
	second, err := service.Remember(context.Background(), user)
	require.NoError(t, err)
	assert.NotEqual(t, token, second)

	_, err = service.LookupRemembered(context.Background(), token)
	assert.Error(t, err)

	// 3. Forget invalidates the live token
	require.NoError(t, service.Forget(context.Background(), user.ID))
	_, err = service.LookupRemembered(context.Background(), second)
	assert.Error(t, err)
}

/*
TestService_LookupRemembered_Expired verifies the validity-window check.
*/
func TestService_LookupRemembered_Expired(t *testing.T) {
	repo := newFakeUserRepo()
	service := auth.NewService(repo)
	user := registeredUser(t, service)

	// Backdate the token outside the 14-day window
	stale := time.Now().Add(-15 * 24 * time.Hour)
	require.NoError(t, repo.SetRememberToken(context.Background(), user.ID, "stale-token", stale))

	_, err := service.LookupRemembered(context.Background(), "stale-token")
	require.Error(t, err)
	assert.Equal(t, "UNAUTHORIZED", apperr.As(err).Code)
}
