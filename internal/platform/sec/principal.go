// Copyright (c) 2026 ABCScribe. All rights reserved.
// Author: dev@abcscribe.app

package sec

// PrincipalSource identifies which credential scheme resolved the principal.
type PrincipalSource string

const (
	// SourceSession means the principal was resolved from a session cookie
	// (directly or via remember-cookie re-hydration).
	SourceSession PrincipalSource = "session"

	// SourceBearer means the principal was resolved from an API bearer token.
	SourceBearer PrincipalSource = "bearer"
)

// Principal is the authenticated identity resolved for a request.
//
// It is computed once by the request gate and threaded through the request
// context — downstream code always receives a fully resolved principal or
// never executes.
type Principal struct {
	UserID string
	Email  string
	Name   string
	Source PrincipalSource
}
