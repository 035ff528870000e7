// Copyright (c) 2026 ABCScribe. All rights reserved.
// Author: dev@abcscribe.app

package sec

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// GenerateToken returns a cryptographically random, URL-safe token string.
//
// # Usage
//
// This is the single source for every opaque credential in the system:
// session identifiers, remember-me tokens, and magic-link tokens.
// byteLength is the entropy in bytes; the encoded string is ~4/3 longer.
func GenerateToken(byteLength int) (string, error) {
	buffer := make([]byte, byteLength)
	if _, err := rand.Read(buffer); err != nil {
		return "", fmt.Errorf("sec: failed to read random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buffer), nil
}
