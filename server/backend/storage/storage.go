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

// Package storage provides the blob storage of the files uploaded with
// check-ins.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/syncsphere/syncsphere/api/types"
	pkgerrors "github.com/syncsphere/syncsphere/pkg/errors"
)

var (
	// ErrFileTooLarge is returned when an upload exceeds the max file size.
	ErrFileTooLarge = pkgerrors.Validation("file too large").WithCode("ErrFileTooLarge")

	// ErrInvalidFileName is returned when the name has no usable base name.
	ErrInvalidFileName = pkgerrors.Validation("invalid file name").WithCode("ErrInvalidFileName")

	// ErrInvalidPath is returned when the path points outside of the storage.
	ErrInvalidPath = pkgerrors.Validation("invalid path").WithCode("ErrInvalidPath")

	// ErrObjectNotFound is returned when no object is stored at the path.
	ErrObjectNotFound = pkgerrors.NotFound("object not found").WithCode("ErrObjectNotFound")

	// ErrEmptyRoot is returned when the root directory is not given.
	ErrEmptyRoot = errors.New("storage root is empty")

	// ErrInvalidMaxFileBytes is returned when the max file size is not positive.
	ErrInvalidMaxFileBytes = errors.New("max file bytes must be positive")
)

// DefaultMaxFileBytes is the default max size of a single upload.
const DefaultMaxFileBytes int64 = 32 << 20

// Config is the configuration of the blob storage.
type Config struct {
	// Root is the directory that holds the objects.
	Root string `yaml:"Root"`

	// MaxFileBytes is the max size of a single upload.
	MaxFileBytes int64 `yaml:"MaxFileBytes"`
}

// Validate validates this config.
func (c *Config) Validate() error {
	if c.Root == "" {
		return ErrEmptyRoot
	}
	if c.MaxFileBytes <= 0 {
		return fmt.Errorf("%d: %w", c.MaxFileBytes, ErrInvalidMaxFileBytes)
	}

	return nil
}

// Object is the descriptor of a stored blob.
type Object struct {
	// Name is the base name given by the uploader.
	Name string

	// Path is the location of the object relative to the storage root.
	Path string

	// Size is the number of bytes stored.
	Size int64
}

// Storage stores the blobs of projects.
type Storage interface {
	// Put stores the content read from r under the project.
	Put(ctx context.Context, projectID types.ID, name string, r io.Reader) (*Object, error)

	// Open opens the object stored at the path.
	Open(path string) (io.ReadCloser, error)

	// Delete removes the object stored at the path.
	Delete(path string) error

	// DeleteProject removes every object of the project.
	DeleteProject(projectID types.ID) error
}
