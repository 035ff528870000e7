// Copyright (c) 2026 ABCScribe. All rights reserved.
// Author: dev@abcscribe.app

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/abcscribe/abcscribe/internal/platform/apperr"
	"github.com/abcscribe/abcscribe/internal/platform/constants"
	"github.com/abcscribe/abcscribe/internal/platform/ctxutil"
	"github.com/abcscribe/abcscribe/internal/platform/respond"
	"github.com/abcscribe/abcscribe/internal/platform/sec"
)

// SessionResolver resolves a principal from web cookies.
//
// # Why an interface?
//
// Defining the resolver here decouples the gate from the auth service
// implementation, allowing us to inject fakes during handler tests.
type SessionResolver interface {
	// ResolveSession maps a session ID (and optional remember-me token) to a
	// principal. When the session was re-hydrated from the remember token it
	// returns the freshly bound session ID; otherwise newSessionID is empty.
	ResolveSession(ctx context.Context, sessionID, rememberToken string) (principal *sec.Principal, newSessionID string, err error)
}

// BearerResolver resolves a principal from an API bearer token.
type BearerResolver interface {
	// ResolveBearer decodes and checks the presented token against the live
	// stored credential. Any failure is an unauthorized error.
	ResolveBearer(ctx context.Context, token string) (*sec.Principal, error)
}

// # Web Gate

// WebAuthenticate resolves the acting principal from the session and
// remember-me cookies.
//
// # Flow
//  1. Read the session cookie; resolve the bound user if present.
//  2. On a session miss, fall back to the remember cookie; a valid remember
//     token re-establishes the session, and the fresh cookie is written here.
//  3. Inject the [*sec.Principal] into the request context (once per request).
//  4. Absent or invalid credentials leave the request anonymous — route-level
//     guards decide whether that is acceptable.
func WebAuthenticate(resolver SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			sessionID := cookieValue(request, constants.SessionCookieName)
			rememberToken := cookieValue(request, constants.RememberCookieName)

			if sessionID == "" && rememberToken == "" {
				next.ServeHTTP(writer, request)
				return
			}

			principal, newSessionID, err := resolver.ResolveSession(request.Context(), sessionID, rememberToken)
			if err != nil || principal == nil {
				// Stale cookies are not an error at the gate; the request
				// simply proceeds as anonymous.
				next.ServeHTTP(writer, request)
				return
			}

			// Remember-cookie re-hydration: the request arrived session-less
			// and leaves session-bound.
			if newSessionID != "" {
				http.SetCookie(writer, &http.Cookie{
					Name:     constants.SessionCookieName,
					Value:    newSessionID,
					Path:     "/",
					MaxAge:   int(constants.SessionTTL.Seconds()),
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx := ctxutil.WithPrincipal(request.Context(), principal)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireWebUser redirects anonymous requests to the login page.
//
// Must be registered AFTER [WebAuthenticate].
func RequireWebUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if ctxutil.GetPrincipal(request.Context()) == nil {
			http.Redirect(writer, request, "/login", http.StatusFound)
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// # API Gate

// APIAuthenticate extracts and verifies the bearer token from the
// Authorization header.
//
// # Flow
//  1. No Authorization header → request proceeds as anonymous.
//  2. The LAST whitespace-delimited segment of the header is the token
//     (tolerant of "Bearer", "Token Bearer", and similar prefixes).
//  3. The resolver must both decode the token AND confirm it is still the
//     user's live credential; a decoded-but-invalidated token is rejected.
//  4. Failures answer 401 immediately with the uniform error envelope —
//     malformed, expired, and revoked tokens are indistinguishable.
func APIAuthenticate(resolver BearerResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			authHeader := request.Header.Get(constants.HeaderAuthorization)

			if authHeader == "" {
				next.ServeHTTP(writer, request)
				return
			}

			segments := strings.Fields(authHeader)
			if len(segments) == 0 {
				next.ServeHTTP(writer, request)
				return
			}
			token := segments[len(segments)-1]

			principal, err := resolver.ResolveBearer(request.Context(), token)
			if err != nil {
				respond.Error(writer, request, apperr.Unauthorized("Unauthorized"))
				return
			}

			ctx := ctxutil.WithPrincipal(request.Context(), principal)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireAPIUser blocks unauthenticated API requests with a uniform 401.
//
// Must be registered AFTER [APIAuthenticate]. Handlers below this guard only
// ever execute with a fully resolved principal.
func RequireAPIUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if ctxutil.GetPrincipal(request.Context()) == nil {
			respond.Error(writer, request, apperr.Unauthorized("Unauthorized"))
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// cookieValue returns the named cookie's value or "".
func cookieValue(request *http.Request, name string) string {
	cookie, err := request.Cookie(name)
	if err != nil {
		return ""
	}
	return cookie.Value
}
