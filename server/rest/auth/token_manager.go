/*
 * Copyright 2026 The SyncSphere Authors. All rights reserved.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package auth provides the token based authentication of the REST API.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"

	"github.com/syncsphere/syncsphere/pkg/errors"
)

// issuer is the issuer of the tokens.
const issuer = "syncsphere"

var (
	// ErrInvalidToken is returned when the token is malformed, expired or
	// signed with another key.
	ErrInvalidToken = errors.Unauthenticated("invalid token").WithCode("ErrInvalidToken")

	// ErrUnexpectedSigningMethod is returned when the signing method is unexpected.
	ErrUnexpectedSigningMethod = fmt.Errorf("unexpected signing method")
)

// UserClaims is a JWT claims struct for a user.
type UserClaims struct {
	jwt.StandardClaims

	Username string `json:"username"`
}

// TokenManager issues and verifies the access tokens of users.
type TokenManager struct {
	secretKey     []byte
	tokenDuration time.Duration
}

// NewTokenManager creates a new TokenManager.
func NewTokenManager(secretKey string, tokenDuration time.Duration) *TokenManager {
	return &TokenManager{
		secretKey:     []byte(secretKey),
		tokenDuration: tokenDuration,
	}
}

// Duration returns how long an issued token is valid.
func (m *TokenManager) Duration() time.Duration {
	return m.tokenDuration
}

// Generate issues a new token for the user.
func (m *TokenManager) Generate(username string) (string, error) {
	now := time.Now()
	claims := UserClaims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    issuer,
			Subject:   username,
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(m.tokenDuration).Unix(),
		},
		Username: username,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secretKey)
	if err != nil {
		return "", fmt.Errorf("sign token of %s: %w", username, err)
	}

	return signed, nil
}

// Verify parses the token and returns its claims. Every failure is reported
// as ErrInvalidToken.
func (m *TokenManager) Verify(token string) (*UserClaims, error) {
	claims := &UserClaims{}
	if _, err := jwt.ParseWithClaims(token, claims, m.keyFunc); err != nil {
		return nil, fmt.Errorf("%v: %w", err, ErrInvalidToken)
	}

	if claims.Username == "" || claims.Issuer != issuer {
		return nil, fmt.Errorf("unknown subject: %w", ErrInvalidToken)
	}

	return claims, nil
}

func (m *TokenManager) keyFunc(token *jwt.Token) (interface{}, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("%s: %w", token.Method.Alg(), ErrUnexpectedSigningMethod)
	}
	return m.secretKey, nil
}
