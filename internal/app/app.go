// Package app is the application layer between the CLI and the catalog
// core. It constructs all dependencies from config and exposes
// high-level operations that accept raw string paths.
package app

import (
	"context"
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"strings"
	"time"

	"pixcat/internal/blobstore"
	"pixcat/internal/catalog"
	"pixcat/internal/config"
	"pixcat/internal/fs"
	"pixcat/internal/imaging"
	"pixcat/internal/store"
)

// CatalogApp wires the catalog core to its real collaborators. The
// caller must call Close when done.
type CatalogApp struct {
	cfg       *config.Config
	store     catalog.Store
	blobs     blobstore.Store
	files     *fs.OSFileGateway
	engine    *catalog.SyncEngine
	detector  *catalog.DuplicateDetector
	relocator *catalog.AssetRelocator
	renamer   *catalog.BatchRenamer
	logFile   *os.File
}

// FolderSummary is a cataloged folder with its asset count, for listing.
type FolderSummary struct {
	Path       string
	AssetCount int
}

// NewCatalogApp creates a fully wired CatalogApp from the given config.
// operation identifies the CLI command being run (e.g. "Sync", "Move").
func NewCatalogApp(cfg *config.Config, operation string) (*CatalogApp, error) {
	opID := time.Now().UTC().Format("20060102T150405Z")
	logger, logFile, err := newLogger(cfg.LogDir, opID)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	logger.Info("starting operation", "operation", operation)

	blobs, err := blobstore.NewStoreFromConfig(context.Background(), cfg.Thumbnails)
	if err != nil {
		logFile.Close()
		return nil, fmt.Errorf("creating blob store: %w", err)
	}

	st, err := store.NewStoreFromConfig(cfg.Database, blobs)
	if err != nil {
		logFile.Close()
		return nil, fmt.Errorf("creating catalog store: %w", err)
	}

	recentPaths, err := st.RecentTargetPaths()
	if err != nil {
		st.Close()
		logFile.Close()
		return nil, fmt.Errorf("loading recent targets: %w", err)
	}

	gateway := fs.NewOSFileGateway()
	images := imaging.NewProcessor()
	hasher := catalog.SHA256Calculator{}
	clock := catalog.RealClock{}
	log := &slogAdapter{l: logger}
	recent := catalog.NewRecentTargets(recentPaths)

	return &CatalogApp{
		cfg:       cfg,
		store:     st,
		blobs:     blobs,
		files:     gateway,
		engine:    catalog.NewSyncEngine(st, gateway, hasher, images, log, clock, cfg.Roots, cfg.BatchSize),
		detector:  catalog.NewDuplicateDetector(st, gateway, log),
		relocator: catalog.NewAssetRelocator(st, gateway, hasher, images, recent, log, clock),
		renamer:   catalog.NewBatchRenamer(gateway, log),
		logFile:   logFile,
	}, nil
}

// Sync runs an incremental catalog synchronization and streams its
// progress events.
func (a *CatalogApp) Sync(ctx context.Context) iter.Seq[catalog.Event] {
	return a.engine.Run(ctx)
}

// Duplicates returns every group of cataloged assets with identical
// content.
func (a *CatalogApp) Duplicates() ([]*catalog.DuplicatedAssetCollection, error) {
	return a.detector.Duplicates()
}

// Folders lists the cataloged folders with their asset counts.
func (a *CatalogApp) Folders() ([]FolderSummary, error) {
	folders, err := a.store.Folders()
	if err != nil {
		return nil, err
	}

	summaries := make([]FolderSummary, 0, len(folders))
	for _, folder := range folders {
		assets, err := a.store.CataloguedAssets(folder)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, FolderSummary{Path: folder.Path, AssetCount: len(assets)})
	}
	return summaries, nil
}

// Move relocates the cataloged asset at rawSrc into destDir. With
// preserveOriginal the source file and its catalog entry stay put.
// Returns false when source and destination are the same path.
func (a *CatalogApp) Move(rawSrc, destDir string, preserveOriginal bool) (bool, error) {
	srcPath, err := filepath.Abs(rawSrc)
	if err != nil {
		return false, fmt.Errorf("resolving %s: %w", rawSrc, err)
	}
	destPath, err := filepath.Abs(destDir)
	if err != nil {
		return false, fmt.Errorf("resolving %s: %w", destDir, err)
	}

	asset, err := a.findAsset(srcPath)
	if err != nil {
		return false, err
	}

	destination := &catalog.Folder{Path: catalog.NormalizePath(destPath)}
	return a.relocator.Relocate(asset, destination, preserveOriginal)
}

// Rename applies a path template across the cataloged assets of dir.
func (a *CatalogApp) Rename(dir, template string, overwriteExisting bool) (*catalog.RenameResult, error) {
	dirPath, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", dir, err)
	}

	folder, err := a.store.FolderByPath(dirPath)
	if err != nil {
		return nil, err
	}
	if folder == nil {
		return nil, fmt.Errorf("folder %s is not cataloged", dirPath)
	}

	assets, err := a.store.CataloguedAssets(folder)
	if err != nil {
		return nil, err
	}
	return a.renamer.Rename(assets, template, overwriteExisting)
}

// Recent returns the most recently used relocation targets, newest
// first.
func (a *CatalogApp) Recent() ([]string, error) {
	return a.store.RecentTargetPaths()
}

// CheckSetup verifies the configured backends: blob store reachability
// and, for sqlite catalogs, schema currency.
func (a *CatalogApp) CheckSetup() error {
	if err := a.blobs.ValidateSetup(); err != nil {
		return fmt.Errorf("blob store: %w", err)
	}
	if checker, ok := a.store.(interface{ CheckMigrations() error }); ok {
		if err := checker.CheckMigrations(); err != nil {
			return fmt.Errorf("catalog database: %w", err)
		}
	}
	return nil
}

// Close releases the store and the log file.
func (a *CatalogApp) Close() error {
	err := a.store.Close()
	if cerr := a.logFile.Close(); err == nil {
		err = cerr
	}
	return err
}

// findAsset locates the catalog record for the image at path.
func (a *CatalogApp) findAsset(path string) (*catalog.Asset, error) {
	folder, err := a.store.FolderByPath(filepath.Dir(path))
	if err != nil {
		return nil, err
	}
	if folder == nil {
		return nil, fmt.Errorf("folder %s is not cataloged", filepath.Dir(path))
	}

	assets, err := a.store.CataloguedAssets(folder)
	if err != nil {
		return nil, err
	}
	name := filepath.Base(path)
	for _, asset := range assets {
		if strings.EqualFold(asset.FileName, name) {
			return asset, nil
		}
	}
	return nil, fmt.Errorf("image %s is not cataloged", path)
}
