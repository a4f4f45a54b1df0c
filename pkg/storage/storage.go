// Package storage provides scratch file storage for documents passing
// through the batch, backed by a local directory.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// System manages scratch files addressed by key.
type System interface {
	// Save writes the contents of reader to key, replacing any existing file,
	// and returns the file's path and size.
	Save(ctx context.Context, key string, reader io.Reader) (string, int64, error)
	// Open returns the file at key. The caller must close it.
	// Returns ErrNotFound if the file does not exist.
	Open(ctx context.Context, key string) (*os.File, error)
	// Remove deletes the file at key. Returns ErrNotFound if the file does not exist.
	Remove(ctx context.Context, key string) error
	// Path returns the filesystem path for key.
	Path(key string) (string, error)
}

type local struct {
	dir    string
	logger *slog.Logger
}

// New creates a storage system rooted at cfg.Directory, creating the
// directory if needed.
func New(cfg *Config, logger *slog.Logger) (System, error) {
	if err := os.MkdirAll(cfg.Directory, 0o755); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}

	return &local{
		dir:    cfg.Directory,
		logger: logger.With("system", "storage"),
	}, nil
}

func (l *local) Save(ctx context.Context, key string, reader io.Reader) (string, int64, error) {
	path, err := l.Path(key)
	if err != nil {
		return "", 0, err
	}
	if err := ctx.Err(); err != nil {
		return "", 0, err
	}

	f, err := os.Create(path)
	if err != nil {
		return "", 0, fmt.Errorf("create file %s: %w", key, err)
	}

	n, err := io.Copy(f, reader)
	if err != nil {
		f.Close()
		return "", 0, fmt.Errorf("write file %s: %w", key, err)
	}
	if err := f.Close(); err != nil {
		return "", 0, fmt.Errorf("close file %s: %w", key, err)
	}

	l.logger.Debug("file saved", "key", key, "size", n)
	return path, n, nil
}

func (l *local) Open(ctx context.Context, key string) (*os.File, error) {
	path, err := l.Path(key)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("open file %s: %w", key, err)
	}
	return f, nil
}

func (l *local) Remove(ctx context.Context, key string) error {
	path, err := l.Path(key)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrNotFound
		}
		return fmt.Errorf("remove file %s: %w", key, err)
	}
	return nil
}

func (l *local) Path(key string) (string, error) {
	if err := validateKey(key); err != nil {
		return "", err
	}
	return filepath.Join(l.dir, key), nil
}

func validateKey(key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	if strings.Contains(key, "..") || strings.ContainsAny(key, `/\`) {
		return ErrInvalidKey
	}
	return nil
}
