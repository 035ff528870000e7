// Copyright (c) 2026 ABCScribe. All rights reserved.
// Author: dev@abcscribe.app

/*
Package auth implements the user identity and credential layer of ABCScribe.

It defines the core domain entities (User, MagicLinkToken) and the services for
password authentication, browser session management, API bearer tokens, and
passwordless magic-link sign-in.

# Architecture

This layer is the "Truth" of the system. Entities defined here have no external
dependencies and encapsulate all business rules related to user identity.
*/
package auth

import "time"

// # Domain Entities

// User represents a registered account on the ABCScribe platform.
type User struct {
	ID                string     `json:"id"`
	Name              string     `json:"name"`
	Email             string     `json:"email"`
	PasswordHash      string     `json:"-"` // Explicitly omitted from JSON for security.
	RememberToken     *string    `json:"-"` // Long-lived browser credential. Omitted for security.
	RememberCreatedAt *time.Time `json:"-"`
	APIToken          *string    `json:"-"` // Live bearer credential. Omitted for security.
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// MagicLinkToken represents a single-use passwordless sign-in credential.
//
// A token is only usable while ExpiresAt is in the future and is destroyed on
// every verification attempt, successful or not.
type MagicLinkToken struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Token     string    `json:"-"` // Raw credential. Omitted for security.
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// Expired reports whether the token is past its validity window.
func (t *MagicLinkToken) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}

// # Field Identifiers

// Global field names for validation and identity mapping in the authentication domain.
const (
	FieldName       = "name"
	FieldEmail      = "email"
	FieldPassword   = "password"
	FieldRememberMe = "remember_me"
	FieldToken      = "token"
)
