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

// # Bearer Token Service

// BearerTokenService owns the JSON API credential lifecycle.
//
// A bearer token is a signed JWT that is ALSO persisted as the account's single
// live credential. Possession of a structurally valid token is not enough; the
// presented value must still match the stored one, which makes server-side
// revocation instant.
type BearerTokenService struct {
	userRepository UserRepository
	codec          *sec.TokenCodec
}

// NewBearerTokenService constructs a new [BearerTokenService].
func NewBearerTokenService(userRepo UserRepository, codec *sec.TokenCodec) *BearerTokenService {
	return &BearerTokenService{userRepository: userRepo, codec: codec}
}

/*
IssueFor returns the account's live bearer token, minting one if needed.

Description: The operation is idempotent: an account that already holds a live
token gets the same token back. Freshly minted tokens are checked for global
uniqueness before being stored.

Parameters:
  - context: context.Context
  - user: *User

Returns:
  - string: The live bearer token
  - error: Generation or persistence failures
*/
func (service *BearerTokenService) IssueFor(context context.Context, user *User) (string, error) {

	// Idempotency: reuse the live credential when one exists.
	if user.APIToken != nil && *user.APIToken != "" {
		return *user.APIToken, nil
	}

	// Mint until globally unique. Signed claims include issue time, so a
	// retry within the same second yields the same bytes; cap the loop to
	// keep a pathological storage state from spinning forever.
	var token string
	for attempt := 0; ; attempt++ {
		minted, err := service.codec.Encode(user.ID, constants.APITokenTTL)
		if err != nil {
			return "", fmt.Errorf("bearer_token_service_encode_failed: %w", err)
		}

		taken, err := service.userRepository.APITokenExists(context, minted)
		if err != nil {
			return "", err
		}
		if !taken {
			token = minted
			break
		}
		if attempt >= 3 {
			return "", apperr.Internal(fmt.Errorf("bearer_token_service_unique_exhausted after %d attempts", attempt+1))
		}
	}

	// Persist as the account's single live credential.
	if err := service.userRepository.SetAPIToken(context, user.ID, token); err != nil {
		return "", err
	}

	// Keep the in-memory entity coherent with storage.
	user.APIToken = &token

	return token, nil
}

/*
Invalidate revokes the account's live bearer token.

Description: Structurally valid copies of the old token keep failing
resolution afterwards, because resolution requires a match against the stored
credential.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - error: Persistence failures
*/
func (service *BearerTokenService) Invalidate(context context.Context, userID string) error {
	return service.userRepository.ClearAPIToken(context, userID)
}

/*
ResolveBearer maps a presented bearer token to an acting principal.

Description: The token must decode under the server secret AND equal the
account's stored live credential. Malformed, expired, tampered, and revoked
tokens are all rejected with the same Unauthorized error.

Parameters:
  - ctx: context.Context
  - token: string

Returns:
  - *sec.Principal: The acting principal
  - error: apperr.Unauthorized or storage failures
*/
func (service *BearerTokenService) ResolveBearer(ctx context.Context, token string) (*sec.Principal, error) {

	// Fail closed on anything the codec rejects.
	claims, err := service.codec.Decode(token)
	if err != nil {
		return nil, apperr.Unauthorized("Unauthorized")
	}

	// Revocation check: look the account up BY the presented token, so only
	// the live stored credential can resolve. A revoked-but-unexpired token
	// misses here regardless of what the codec accepted.
	user, err := service.userRepository.FindByAPIToken(ctx, token)
	if err != nil {
		if apperr.IsAppError(err) {
			return nil, apperr.Unauthorized("Unauthorized")
		}
		return nil, err
	}

	// The claims must name the account that owns the credential.
	if user.ID != claims.UserID {
		return nil, apperr.Unauthorized("Unauthorized")
	}

	return principalFor(user, sec.SourceBearer), nil
}
