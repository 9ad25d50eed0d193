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

package backend

import (
	"errors"
	"fmt"
	"os"
	"time"
)

var (
	// ErrEmptySecretKey is returned when the secret key is empty.
	ErrEmptySecretKey = errors.New("secret key is empty")

	// ErrInvalidHookConcurrency is returned when the hook concurrency is not positive.
	ErrInvalidHookConcurrency = errors.New("hook concurrency must be positive")

	// ErrInvalidFeedLimit is returned when the feed limit is not positive.
	ErrInvalidFeedLimit = errors.New("feed limit must be positive")

	// ErrInvalidCacheSize is returned when the cache size is not positive.
	ErrInvalidCacheSize = errors.New("cache size must be positive")
)

// Config is the configuration for creating a Backend instance.
type Config struct {
	// SecretKey is the secret key for signing authentication tokens.
	SecretKey string `yaml:"SecretKey"`

	// TokenDuration is the duration of the authentication token. Default is "24h".
	TokenDuration string `yaml:"TokenDuration"`

	// AsyncHooks is whether to run the post-commit hooks in the background.
	// When false, the hooks finish before the operation returns.
	AsyncHooks bool `yaml:"AsyncHooks"`

	// HookConcurrency is the max number of notifications created at once
	// by a fan-out.
	HookConcurrency int64 `yaml:"HookConcurrency"`

	// FeedLimit is the max number of activities returned by a feed.
	FeedLimit int `yaml:"FeedLimit"`

	// AuthCacheSize is the cache size of the authenticated users.
	AuthCacheSize int `yaml:"AuthCacheSize"`

	// AuthCacheTTL is the TTL value to set when caching an authenticated user.
	AuthCacheTTL string `yaml:"AuthCacheTTL"`
}

// Validate validates this config.
func (c *Config) Validate() error {
	if c.SecretKey == "" {
		return ErrEmptySecretKey
	}

	if _, err := time.ParseDuration(c.TokenDuration); err != nil {
		return fmt.Errorf(
			`invalid argument "%s" for "--token-duration" flag: %w`,
			c.TokenDuration,
			err,
		)
	}

	if _, err := time.ParseDuration(c.AuthCacheTTL); err != nil {
		return fmt.Errorf(
			`invalid argument "%s" for "--auth-cache-ttl" flag: %w`,
			c.AuthCacheTTL,
			err,
		)
	}

	if c.HookConcurrency <= 0 {
		return fmt.Errorf("%d: %w", c.HookConcurrency, ErrInvalidHookConcurrency)
	}

	if c.FeedLimit <= 0 {
		return fmt.Errorf("%d: %w", c.FeedLimit, ErrInvalidFeedLimit)
	}

	if c.AuthCacheSize <= 0 {
		return fmt.Errorf("%d: %w", c.AuthCacheSize, ErrInvalidCacheSize)
	}

	return nil
}

// ParseTokenDuration returns the duration of the authentication token.
func (c *Config) ParseTokenDuration() time.Duration {
	result, err := time.ParseDuration(c.TokenDuration)
	if err != nil {
		fmt.Fprintln(os.Stderr, "parse token duration:", err)
		os.Exit(1)
	}

	return result
}

// ParseAuthCacheTTL returns TTL for the authenticated user cache.
func (c *Config) ParseAuthCacheTTL() time.Duration {
	result, err := time.ParseDuration(c.AuthCacheTTL)
	if err != nil {
		fmt.Fprintln(os.Stderr, "parse auth cache ttl:", err)
		os.Exit(1)
	}

	return result
}
