// Copyright (c) 2026 ABCScribe. All rights reserved.
// Author: dev@abcscribe.app

package auth

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/abcscribe/abcscribe/internal/platform/apperr"
	"github.com/abcscribe/abcscribe/internal/platform/constants"
	"github.com/abcscribe/abcscribe/internal/platform/ctxutil"
	"github.com/abcscribe/abcscribe/internal/platform/sec"
	"github.com/abcscribe/abcscribe/pkg/uuid"
)

// Mailer delivers magic-link sign-in emails.
//
// Defined here (the consumer) so delivery backends stay swappable and tests
// can inject a recorder.
type Mailer interface {
	// SendMagicLink emails the sign-in link to the recipient.
	SendMagicLink(ctx context.Context, to, name, link string) error
}

// mailSendTimeout bounds the background delivery attempt.
const mailSendTimeout = 10 * time.Second

// # Magic Link Service

// MagicLinkService owns the passwordless sign-in flow.
//
// Tokens are single-use and short-lived: requesting a new link destroys any
// prior one, and EVERY verification attempt destroys the presented token, so
// a link can never be replayed regardless of outcome.
type MagicLinkService struct {
	userRepository UserRepository
	linkRepository MagicLinkRepository
	mailer         Mailer
	baseURL        string
}

// NewMagicLinkService constructs a new [MagicLinkService].
//
// baseURL is the public origin used to build sign-in links, e.g.
// "https://abcscribe.app".
func NewMagicLinkService(userRepo UserRepository, linkRepo MagicLinkRepository, mailer Mailer, baseURL string) *MagicLinkService {
	return &MagicLinkService{
		userRepository: userRepo,
		linkRepository: linkRepo,
		mailer:         mailer,
		baseURL:        strings.TrimRight(baseURL, "/"),
	}
}

/*
Request issues a fresh magic link for the given email.

Description: Prior unconsumed links for the account are destroyed first, so at
most one link is live per account. Delivery happens in the background; a slow
mail server never blocks the HTTP response.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - error: apperr.NotFound when no account matches, or storage failures
*/
func (service *MagicLinkService) Request(ctx context.Context, email string) error {

	// The web flow reports unknown emails explicitly rather than pretending
	// a mail was sent.
	user, err := service.userRepository.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if apperr.IsAppError(err) {
			return apperr.NotFound("No account found for that email")
		}
		return fmt.Errorf("magic_link_service_lookup_failed: %w", err)
	}

	// Enforce at most one live link per account.
	if err := service.linkRepository.DeleteByUser(ctx, user.ID); err != nil {
		return err
	}

	// Mint the single-use credential.
	raw, err := sec.GenerateToken(constants.CredentialTokenBytes)
	if err != nil {
		return fmt.Errorf("magic_link_service_generate_failed: %w", err)
	}

	record := &MagicLinkToken{
		ID:        uuid.New(),
		UserID:    user.ID,
		Token:     raw,
		ExpiresAt: time.Now().Add(constants.MagicLinkTTL),
	}

	if err := service.linkRepository.Create(ctx, record); err != nil {
		return err
	}

	// Deliver in the background with a detached context so the response is
	// not held hostage by SMTP latency.
	link := service.verifyURL(raw)
	logger := ctxutil.GetLogger(ctx)
	go func() {
		sendCtx, cancel := context.WithTimeout(context.Background(), mailSendTimeout)
		defer cancel()

		if err := service.mailer.SendMagicLink(sendCtx, user.Email, user.Name, link); err != nil {
			logger.Error("magic link delivery failed", "user_id", user.ID, "error", err)
		}
	}()

	return nil
}

/*
Verify consumes a magic-link token and returns its account.

Description: The presented token is destroyed on every terminal path. Unknown
and expired tokens are indistinguishable to the caller.

Parameters:
  - context: context.Context
  - token: string

Returns:
  - *User: The account the link was issued for
  - error: apperr.Unauthorized or storage failures
*/
func (service *MagicLinkService) Verify(context context.Context, token string) (*User, error) {
	if token == "" {
		return nil, apperr.Unauthorized("Magic link is invalid or has expired")
	}

	record, err := service.linkRepository.FindByToken(context, token)
	if err != nil {
		if apperr.IsAppError(err) {
			return nil, apperr.Unauthorized("Magic link is invalid or has expired")
		}
		return nil, fmt.Errorf("magic_link_service_verify_failed: %w", err)
	}

	// Single use: destroy before any outcome is decided.
	if err := service.linkRepository.Delete(context, record.ID); err != nil {
		return nil, err
	}

	if record.Expired(time.Now()) {
		return nil, apperr.Unauthorized("Magic link is invalid or has expired")
	}

	user, err := service.userRepository.FindByID(context, record.UserID)
	if err != nil {
		if apperr.IsAppError(err) {
			return nil, apperr.Unauthorized("Magic link is invalid or has expired")
		}
		return nil, err
	}

	return user, nil
}

// verifyURL builds the clickable sign-in URL for a raw token.
func (service *MagicLinkService) verifyURL(token string) string {
	return service.baseURL + "/magic_links/verify?token=" + url.QueryEscape(token)
}
