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

// Package local implements the blob storage on the local filesystem.
package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/syncsphere/syncsphere/api/types"
	"github.com/syncsphere/syncsphere/server/backend/storage"
)

// Storage stores objects as files under `<Root>/<projectID>/<uuid>-<name>`.
type Storage struct {
	root         string
	maxFileBytes int64
}

// New creates a new storage rooted at the configured directory.
func New(conf *storage.Config) (*Storage, error) {
	if err := os.MkdirAll(conf.Root, 0o750); err != nil {
		return nil, fmt.Errorf("create storage root %s: %w", conf.Root, err)
	}

	return &Storage{
		root:         conf.Root,
		maxFileBytes: conf.MaxFileBytes,
	}, nil
}

// Put stores the content read from r. Only the base name of the given name
// is kept. The file is removed if the content exceeds the max file size.
func (s *Storage) Put(
	ctx context.Context,
	projectID types.ID,
	name string,
	r io.Reader,
) (*storage.Object, error) {
	if err := projectID.Validate(); err != nil {
		return nil, err
	}

	base := baseName(name)
	if base == "" {
		return nil, fmt.Errorf("%q: %w", name, storage.ErrInvalidFileName)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dir := filepath.Join(s.root, projectID.String())
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create project directory: %w", err)
	}

	rel := path.Join(projectID.String(), uuid.NewString()+"-"+base)
	file, err := os.Create(filepath.Join(s.root, filepath.FromSlash(rel)))
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", rel, err)
	}

	size, err := io.Copy(file, io.LimitReader(r, s.maxFileBytes+1))
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err == nil && size > s.maxFileBytes {
		err = fmt.Errorf("%s exceeds %d bytes: %w", base, s.maxFileBytes, storage.ErrFileTooLarge)
	}
	if err != nil {
		_ = os.Remove(filepath.Join(s.root, filepath.FromSlash(rel)))
		return nil, err
	}

	return &storage.Object{
		Name: base,
		Path: rel,
		Size: size,
	}, nil
}

// Open opens the object stored at the path.
func (s *Storage) Open(p string) (io.ReadCloser, error) {
	full, err := s.resolve(p)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(full)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", p, storage.ErrObjectNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", p, err)
	}

	return file, nil
}

// Delete removes the object stored at the path.
func (s *Storage) Delete(p string) error {
	full, err := s.resolve(p)
	if err != nil {
		return err
	}

	if err := os.Remove(full); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", p, err)
	}
	return nil
}

// DeleteProject removes the directory of the project.
func (s *Storage) DeleteProject(projectID types.ID) error {
	if err := projectID.Validate(); err != nil {
		return err
	}

	if err := os.RemoveAll(filepath.Join(s.root, projectID.String())); err != nil {
		return fmt.Errorf("remove objects of %s: %w", projectID, err)
	}
	return nil
}

// resolve converts the relative path of an object to a path on the
// filesystem. Paths leaving the root are rejected.
func (s *Storage) resolve(p string) (string, error) {
	if !filepath.IsLocal(filepath.FromSlash(p)) {
		return "", fmt.Errorf("%q: %w", p, storage.ErrInvalidPath)
	}
	return filepath.Join(s.root, filepath.FromSlash(p)), nil
}

// baseName returns the last element of the name given by an uploader,
// treating both separators alike.
func baseName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	base := path.Base(strings.TrimSpace(name))
	if base == "." || base == "/" || base == ".." {
		return ""
	}
	return base
}
