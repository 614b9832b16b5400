// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec signs and checks the fake API's access tokens and hashes its
// account passwords.
//
// # Architecture
//
// The client never inspects tokens: to the gateway a bearer token is opaque.
// Only the development API signs and verifies them.
package sec

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// clockSkew tolerates small clock differences between processes sharing a
// secret.
const clockSkew = 5 * time.Second

// Identity is what a token asserts about its bearer.
type Identity struct {
	UserID   int64
	Username string
	Role     UserRole
}

// AuthClaims is the token payload. Custom claims use short keys.
type AuthClaims struct {
	jwt.RegisteredClaims

	UserID   int64  `json:"uid"`
	Username string `json:"unm"`
	Role     string `json:"rol"`
}

// TokenService issues and verifies HS256 tokens for one issuer.
type TokenService struct {
	secret []byte
	issuer string
	now    func() time.Time
}

// NewTokenService returns a service signing with secret. An empty secret is
// rejected.
func NewTokenService(secret, issuer string) (*TokenService, error) {
	if secret == "" {
		return nil, errors.New("sec: token secret must not be empty")
	}
	return &TokenService{secret: []byte(secret), issuer: issuer, now: time.Now}, nil
}

// Issue signs a token for identity valid for ttl.
func (service *TokenService) Issue(identity Identity, ttl time.Duration) (string, error) {
	issuedAt := service.now()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(identity.UserID, 10),
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(ttl)),
		},
		UserID:   identity.UserID,
		Username: identity.Username,
		Role:     string(identity.Role),
	})

	signed, err := token.SignedString(service.secret)
	if err != nil {
		return "", fmt.Errorf("sec: sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature, issuer and expiry of token.
func (service *TokenService) Verify(token string) (*AuthClaims, error) {
	claims := &AuthClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return service.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(service.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(clockSkew),
		jwt.WithTimeFunc(service.now),
	)
	if err != nil {
		return nil, fmt.Errorf("sec: invalid token: %w", err)
	}
	if !parsed.Valid || claims.UserID <= 0 {
		return nil, errors.New("sec: invalid token claims")
	}
	return claims, nil
}
