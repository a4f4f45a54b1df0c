// Package infrastructure assembles the systems a batch run depends on:
// logging, scratch storage and the signing service client.
package infrastructure

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/JaimeStill/courier/internal/config"
	"github.com/JaimeStill/courier/internal/remote"
	"github.com/JaimeStill/courier/pkg/storage"
)

// Infrastructure holds the core systems required by the batch.
type Infrastructure struct {
	Logger  *slog.Logger
	Storage storage.System
	Remote  remote.System
}

// New creates an Infrastructure from the application configuration.
func New(cfg *config.Config) (*Infrastructure, error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	store, err := storage.New(&cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("storage init failed: %w", err)
	}

	svc, err := remote.New(&cfg.Service, logger)
	if err != nil {
		return nil, fmt.Errorf("remote init failed: %w", err)
	}

	return &Infrastructure{
		Logger:  logger,
		Storage: store,
		Remote:  svc,
	}, nil
}
