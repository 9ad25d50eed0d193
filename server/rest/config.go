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

// Package rest provides the HTTP API server of SyncSphere.
package rest

import (
	"errors"
	"fmt"
	"os"
)

// Below are the default values of the REST server.
const (
	// DefaultMaxRequestBytes is the max size of a request body. It leaves
	// room for the files of a check-in.
	DefaultMaxRequestBytes = int64(64 << 20)

	// DefaultRateLimit is the number of requests per second a user can make.
	DefaultRateLimit = 20.0

	// DefaultRateBurst is the number of requests a user can make at once.
	DefaultRateBurst = 40
)

var (
	// ErrInvalidRESTPort occurs when the port in the config is invalid.
	ErrInvalidRESTPort = errors.New("invalid port number for REST server")

	// ErrInvalidCertFile occurs when the certificate file is invalid.
	ErrInvalidCertFile = errors.New("invalid cert file for REST server")

	// ErrInvalidKeyFile occurs when the key file is invalid.
	ErrInvalidKeyFile = errors.New("invalid key file for REST server")

	// ErrInvalidMaxRequestBytes occurs when the max request bytes is not positive.
	ErrInvalidMaxRequestBytes = errors.New("invalid max request bytes for REST server")

	// ErrInvalidRateLimit occurs when the rate limit or the burst is not positive.
	ErrInvalidRateLimit = errors.New("invalid rate limit for REST server")
)

// Config is the configuration for creating a Server instance.
type Config struct {
	// Port is the port number for the REST server.
	Port int `yaml:"Port"`

	// CertFile is the path to the certificate file.
	CertFile string `yaml:"CertFile"`

	// KeyFile is the path to the key file.
	KeyFile string `yaml:"KeyFile"`

	// MaxRequestBytes is the maximum request size in bytes the server will accept.
	MaxRequestBytes int64 `yaml:"MaxRequestBytes"`

	// RateLimit is the number of requests per second an authenticated user
	// can make.
	RateLimit float64 `yaml:"RateLimit"`

	// RateBurst is the number of requests an authenticated user can make at
	// once.
	RateBurst int `yaml:"RateBurst"`
}

// Validate validates the port number and the files for certification.
func (c *Config) Validate() error {
	if c.Port < 1 || 65535 < c.Port {
		return fmt.Errorf("must be between 1 and 65535, given %d: %w", c.Port, ErrInvalidRESTPort)
	}

	// when specific cert or key file are configured
	if c.CertFile != "" {
		if _, err := os.Stat(c.CertFile); err != nil {
			return fmt.Errorf("%s: %w", c.CertFile, ErrInvalidCertFile)
		}
	}

	if c.KeyFile != "" {
		if _, err := os.Stat(c.KeyFile); err != nil {
			return fmt.Errorf("%s: %w", c.KeyFile, ErrInvalidKeyFile)
		}
	}

	if c.MaxRequestBytes <= 0 {
		return fmt.Errorf("%d: %w", c.MaxRequestBytes, ErrInvalidMaxRequestBytes)
	}

	if c.RateLimit <= 0 || c.RateBurst <= 0 {
		return fmt.Errorf("%f/%d: %w", c.RateLimit, c.RateBurst, ErrInvalidRateLimit)
	}

	return nil
}
