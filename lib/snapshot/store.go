// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package snapshot

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/bureau-foundation/svsviewer/lib/scene"
)

// Store writes snapshots for save commands.
type Store struct {
	// Directory receives every snapshot; save paths are relative to
	// it. It is created on first use.
	Directory string

	Compression Compression
	Logger      *slog.Logger
}

var _ scene.Saver = (*Store)(nil)

// ErrPathOutsideDirectory is returned for save paths that are absolute
// or climb out of the store directory with "..".
var ErrPathOutsideDirectory = errors.New("save path escapes the snapshot directory")

// Resolve returns the file path a save command for path writes to.
// Save paths come from remote clients, so only local paths are
// accepted (see [filepath.IsLocal]).
func (store *Store) Resolve(path string) (string, error) {
	if !filepath.IsLocal(path) {
		return "", fmt.Errorf("%q: %w", path, ErrPathOutsideDirectory)
	}
	if filepath.Ext(path) == "" {
		path += Extension
	}
	return filepath.Join(store.Directory, path), nil
}

// SaveSnapshot implements [scene.Saver].
func (store *Store) SaveSnapshot(path string, snapshot *scene.Snapshot) error {
	if path == "" {
		return fmt.Errorf("saving snapshot: empty path")
	}
	resolved, err := store.Resolve(path)
	if err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}
	header, err := WriteFile(resolved, snapshot, store.Compression)
	if err != nil {
		return fmt.Errorf("saving snapshot to %s: %w", resolved, err)
	}
	if store.Logger != nil {
		store.Logger.Info("snapshot saved",
			"path", resolved,
			"scenes", len(snapshot.Scenes),
			"geometries", snapshot.GeometryCount(),
			"compression", header.Compression.String(),
			"bytes", header.StoredSize,
			"digest", header.Digest.Short(),
		)
	}
	return nil
}
