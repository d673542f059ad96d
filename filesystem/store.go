// Package filesystem provides the local upload spool. Files are written
// atomically through a temp file inside an os.Root and carry a SHA256 etag.
package filesystem

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/grabbiel/grabbieldb"
)

const tmpPrefix = ".t"

// Store is a flat directory of spooled uploads.
type Store struct {
	root *os.Root
	dir  string
	log  *slog.Logger
}

// Open creates dir if needed and returns a Store rooted at it.
func Open(dir string, logger *slog.Logger) (*Store, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("open spool: %w", err)
	}

	if err := os.MkdirAll(abs, 0o750); err != nil {
		return nil, fmt.Errorf("open spool: %w", err)
	}

	root, err := os.OpenRoot(abs)
	if err != nil {
		return nil, fmt.Errorf("open spool: %w", err)
	}

	return NewStore(root, logger), nil
}

// NewStore wraps an already opened root. The root provides sandboxed file
// operations preventing path traversal.
func NewStore(root *os.Root, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}

	dir := root.Name()
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}

	return &Store{root: root, dir: dir, log: logger}
}

// Dir returns the absolute spool directory.
func (s *Store) Dir() string {
	return s.dir
}

// Close releases the root.
func (s *Store) Close() error {
	return s.root.Close()
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (r *ctxReader) Read(p []byte) (n int, err error) {
	if err := r.ctx.Err(); err != nil {
		return 0, err
	}
	return r.r.Read(p)
}

// Write stores content as "<uuid>-<name>". The result's Path is absolute so
// it can be handed to external tools.
func (s *Store) Write(ctx context.Context, name string, content io.Reader) (grabbieldb.SaveResult, error) {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return grabbieldb.SaveResult{}, ctxErr
	}

	if !grabbieldb.IsValidFilename(name) {
		return grabbieldb.SaveResult{}, fmt.Errorf("%w: invalid filename %q", grabbieldb.ErrInvalidInput, name)
	}

	tmpFile := tmpFileName()
	t, createErr := s.root.Create(tmpFile)
	if createErr != nil {
		return grabbieldb.SaveResult{}, fmt.Errorf("could not open temp file: %w", createErr)
	}

	success := false
	defer func() {
		if closeErr := t.Close(); closeErr != nil {
			s.log.Warn("failed to close tmp file", "err", closeErr)
		}
		if !success {
			if rmErr := s.root.Remove(tmpFile); rmErr != nil {
				s.log.Warn("failed to remove tmp file", "err", rmErr)
			}
		}
	}()

	h := sha256.New()
	w := io.MultiWriter(h, t)

	n, err := io.Copy(w, &ctxReader{ctx: ctx, r: content})
	if err != nil {
		return grabbieldb.SaveResult{}, fmt.Errorf("could not copy file contents: %w", err)
	}

	if err = t.Sync(); err != nil {
		return grabbieldb.SaveResult{}, fmt.Errorf("could not sync written file: %w", err)
	}

	spooled := uuid.New().String() + "-" + name
	if renameErr := s.root.Rename(tmpFile, spooled); renameErr != nil {
		return grabbieldb.SaveResult{}, fmt.Errorf("failed to rename file: %w", renameErr)
	}

	success = true

	return grabbieldb.SaveResult{
		Name:         spooled,
		Path:         filepath.Join(s.dir, spooled),
		BytesWritten: n,
		Etag:         hex.EncodeToString(h.Sum(nil)),
	}, nil
}

// Remove deletes a spooled file. Returns grabbieldb.ErrNotFound if it does
// not exist.
func (s *Store) Remove(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := s.root.Remove(name)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return grabbieldb.ErrNotFound
		}
		return fmt.Errorf("could not delete file: %w", err)
	}
	return nil
}

// Prune removes spooled and temp files last modified before cutoff and
// reports how many were removed. Leftovers come from crashed uploads.
func (s *Store) Prune(ctx context.Context, cutoff time.Time) (int, error) {
	entries, err := fs.ReadDir(s.root.FS(), ".")
	if err != nil {
		return 0, fmt.Errorf("prune spool: %w", err)
	}

	removed := 0
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return removed, err
		}

		if entry.IsDir() {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			return removed, fmt.Errorf("prune spool: %w", err)
		}

		if !info.ModTime().Before(cutoff) {
			continue
		}

		if err := s.root.Remove(entry.Name()); err != nil {
			s.log.Warn("failed to prune spool file", "name", entry.Name(), "err", err)
			continue
		}

		s.log.Debug("pruned spool file", "name", entry.Name(), "temp", strings.HasPrefix(entry.Name(), tmpPrefix))
		removed++
	}

	return removed, nil
}

func tmpFileName() string {
	return tmpPrefix + uuid.New().String()
}
