package store

import (
	"fmt"
	"os"
	"path/filepath"

	"pixcat/internal/blobstore"
	"pixcat/internal/catalog"
	"pixcat/internal/config"
)

// NewStoreFromConfig creates a catalog store based on the database config
// type, attaching the given blob backend for thumbnails.
func NewStoreFromConfig(cfg config.DatabaseConfig, blobs blobstore.Store) (catalog.Store, error) {
	switch cfg.Type {
	case "sqlite":
		if cfg.DataDir == "" {
			return nil, fmt.Errorf("data_dir required for sqlite database")
		}
		if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
			return nil, fmt.Errorf("creating data dir: %w", err)
		}
		return NewSQLiteStore(filepath.Join(cfg.DataDir, "catalog.db"), blobs)
	case "memory":
		return NewSQLiteStore(":memory:", blobs)
	default:
		return nil, fmt.Errorf("unknown database type: %s", cfg.Type)
	}
}
