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
	"github.com/abcscribe/abcscribe/internal/platform/sec"
)

func newTokenFixture(t *testing.T) (*auth.BearerTokenService, *fakeUserRepo, *auth.User) {
	t.Helper()
	repo := newFakeUserRepo()
	service := auth.NewService(repo)
	user := registeredUser(t, service)
	codec := sec.NewTokenCodec("test-secret-please-rotate", "abcscribe-test")
	return auth.NewBearerTokenService(repo, codec), repo, user
}

/*
TestBearerTokenService_IssueFor verifies minting and idempotency.
*/
func TestBearerTokenService_IssueFor(t *testing.T) {
	tokens, repo, user := newTokenFixture(t)

	// 1. First issue mints and persists a credential
	token, err := tokens.IssueFor(context.Background(), user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	stored, err := repo.FindByID(context.Background(), user.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.APIToken)
	assert.Equal(t, token, *stored.APIToken)

	// 2. Issuing again returns the SAME live credential
	again, err := tokens.IssueFor(context.Background(), stored)
	require.NoError(t, err)
	assert.Equal(t, token, again)
}

/*
TestBearerTokenService_ResolveBearer verifies the decode-plus-match contract.
*/
func TestBearerTokenService_ResolveBearer(t *testing.T) {
	tokens, _, user := newTokenFixture(t)

	token, err := tokens.IssueFor(context.Background(), user)
	require.NoError(t, err)

	// 1. The live credential resolves to a bearer-sourced principal
	principal, err := tokens.ResolveBearer(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, principal.UserID)
	assert.Equal(t, sec.SourceBearer, principal.Source)

	// 2. Garbage input is rejected
	_, err = tokens.ResolveBearer(context.Background(), "not-a-jwt")
	assert.Error(t, err)

	// 3. A structurally valid token signed by ANOTHER server is rejected
	foreign := sec.NewTokenCodec("different-secret", "abcscribe-test")
	forged, err := foreign.Encode(user.ID, time.Hour)
	require.NoError(t, err)
	_, err = tokens.ResolveBearer(context.Background(), forged)
	assert.Error(t, err)
}

/*
TestBearerTokenService_ResolveBearer_ClaimsMustMatchOwner verifies that a
stored credential whose claims name a different account never resolves.
*/
func TestBearerTokenService_ResolveBearer_ClaimsMustMatchOwner(t *testing.T) {
	tokens, repo, user := newTokenFixture(t)

	// 1. Plant a credential on the account that encodes someone else's ID
	codec := sec.NewTokenCodec("test-secret-please-rotate", "abcscribe-test")
	mismatched, err := codec.Encode("someone-else", time.Hour)
	require.NoError(t, err)
	require.NoError(t, repo.SetAPIToken(context.Background(), user.ID, mismatched))

	// 2. The token decodes and matches a stored credential, yet is rejected
	_, err = tokens.ResolveBearer(context.Background(), mismatched)
	assert.Error(t, err)
}

/*
TestBearerTokenService_Invalidate verifies instant server-side revocation.
*/
func TestBearerTokenService_Invalidate(t *testing.T) {
	tokens, _, user := newTokenFixture(t)

	token, err := tokens.IssueFor(context.Background(), user)
	require.NoError(t, err)

	require.NoError(t, tokens.Invalidate(context.Background(), user.ID))

	// The JWT itself is unexpired, yet resolution fails: the stored
	// credential is gone, so the match check rejects it.
	_, err = tokens.ResolveBearer(context.Background(), token)
	assert.Error(t, err)
}
