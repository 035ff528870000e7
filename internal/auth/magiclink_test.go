// Copyright (c) 2026 ABCScribe. All rights reserved.
// Author: dev@abcscribe.app

package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abcscribe/abcscribe/internal/auth"
	"github.com/abcscribe/abcscribe/internal/platform/apperr"
)

func newMagicLinkFixture(t *testing.T) (*auth.MagicLinkService, *fakeLinkRepo, *fakeMailer, *auth.User) {
	t.Helper()
	repo := newFakeUserRepo()
	service := auth.NewService(repo)
	user := registeredUser(t, service)
	links := newFakeLinkRepo()
	mailer := &fakeMailer{}
	magic := auth.NewMagicLinkService(repo, links, mailer, "https://abcscribe.test")
	return magic, links, mailer, user
}

// liveToken digs the single stored raw token out of the fake repository.
func liveToken(t *testing.T, links *fakeLinkRepo) string {
	t.Helper()
	links.mu.Lock()
	defer links.mu.Unlock()
	require.Len(t, links.links, 1)
	for _, link := range links.links {
		return link.Token
	}
	return ""
}

/*
TestMagicLinkService_Request verifies issue, replacement, and unknown emails.
*/
func TestMagicLinkService_Request(t *testing.T) {
	magic, links, _, _ := newMagicLinkFixture(t)

	// 1. A known email gets exactly one live link
	require.NoError(t, magic.Request(context.Background(), "dana@example.com"))
	first := liveToken(t, links)

	// 2. A second request destroys the prior link before issuing
	require.NoError(t, magic.Request(context.Background(), "DANA@example.com"))
	second := liveToken(t, links)
	assert.NotEqual(t, first, second)
	assert.Equal(t, 1, links.count())

	// 3. An unknown email is reported, and no link is created for it
	err := magic.Request(context.Background(), "ghost@example.com")
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
	assert.Equal(t, 1, links.count())
}

/*
TestMagicLinkService_Verify verifies single use and the uniform failure.
*/
func TestMagicLinkService_Verify(t *testing.T) {
	magic, links, _, user := newMagicLinkFixture(t)

	require.NoError(t, magic.Request(context.Background(), "dana@example.com"))
	token := liveToken(t, links)

	// 1. A live token resolves the account and is destroyed
	verified, err := magic.Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, verified.ID)
	assert.Equal(t, 0, links.count())

	// 2. Replaying the consumed token fails like an unknown one
	_, replay := magic.Verify(context.Background(), token)
	_, unknown := magic.Verify(context.Background(), "never-issued")
	require.Error(t, replay)
	require.Error(t, unknown)
	assert.Equal(t, replay.Error(), unknown.Error())
}

/*
TestMagicLinkService_Verify_Expired verifies expired tokens are destroyed too.
*/
func TestMagicLinkService_Verify_Expired(t *testing.T) {
	magic, links, _, user := newMagicLinkFixture(t)

	// Plant an already-expired token directly in storage
	expired := &auth.MagicLinkToken{
		ID:        "expired-id",
		UserID:    user.ID,
		Token:     "expired-token",
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	require.NoError(t, links.Create(context.Background(), expired))

	_, err := magic.Verify(context.Background(), "expired-token")
	require.Error(t, err)
	assert.Equal(t, "UNAUTHORIZED", apperr.As(err).Code)

	// The terminal path destroyed the record even though verification failed
	assert.Equal(t, 0, links.count())
}
