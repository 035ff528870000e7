// Copyright (c) 2026 ABCScribe. All rights reserved.
// Author: dev@abcscribe.app

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (Hashing, JWT Signing) from
// the domain logic. It acts as an Infrastructure service injected into the
// Application layer behind small interfaces.
package sec

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// APIClaims is the payload embedded inside an API bearer token.
type APIClaims struct {
	jwt.RegisteredClaims

	// UserID is abbreviated to keep the JWT payload small.
	UserID string `json:"uid"`
}

// TokenCodec signs and verifies API bearer tokens using HS256 over a
// server-side secret.
//
// # Fail-Closed Contract
//
// Decode returns an error for ANY invalid input — malformed, tampered,
// expired, or signed with an unexpected algorithm. Callers cannot (and must
// not) distinguish the failure modes; the boundary surfaces them all as a
// single generic rejection.
type TokenCodec struct {
	secret []byte
	issuer string
}

// ErrInvalidToken is returned by [TokenCodec.Decode] for every rejection.
var ErrInvalidToken = errors.New("sec: invalid token")

// NewTokenCodec creates a TokenCodec from the configured server secret.
func NewTokenCodec(secret, issuer string) *TokenCodec {
	return &TokenCodec{secret: []byte(secret), issuer: issuer}
}

// Encode creates a signed bearer token carrying the user ID with the given
// time-to-live.
func (codec *TokenCodec) Encode(userID string, timeToLive time.Duration) (string, error) {
	currentTime := time.Now()
	claims := APIClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    codec.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(timeToLive)),
		},
		UserID: userID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(codec.secret)
	if err != nil {
		return "", ErrInvalidToken
	}

	return signedToken, nil
}

// Decode verifies the signature and expiry of a bearer token string.
func (codec *TokenCodec) Decode(tokenString string) (*APIClaims, error) {
	if tokenString == "" {
		return nil, ErrInvalidToken
	}

	token, err := jwt.ParseWithClaims(tokenString, &APIClaims{}, func(token *jwt.Token) (interface{}, error) {
		// Reject anything other than HMAC to prevent algorithm-confusion attacks.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return codec.secret, nil
	})

	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*APIClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
