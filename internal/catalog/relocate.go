package catalog

import (
	"fmt"
	"path/filepath"
	"strings"
)

// AssetRelocator moves or copies cataloged assets between folders while
// keeping both folders' catalog entries and thumbnail sets consistent.
type AssetRelocator struct {
	store  Store
	files  FileGateway
	hasher HashCalculator
	images ImageProcessor
	recent *RecentTargets
	logger Logger
	clock  Clock
}

func NewAssetRelocator(store Store, files FileGateway, hasher HashCalculator, images ImageProcessor, recent *RecentTargets, logger Logger, clock Clock) *AssetRelocator {
	return &AssetRelocator{
		store:  store,
		files:  files,
		hasher: hasher,
		images: images,
		recent: recent,
		logger: logger,
		clock:  clock,
	}
}

// RecentTargets exposes the MRU target list for UI suggestions.
func (r *AssetRelocator) RecentTargets() *RecentTargets {
	return r.recent
}

// Relocate moves (or, with preserveOriginal, copies) an asset into
// destination. It returns false without touching anything when source and
// destination paths are identical. The new asset is rebuilt from the file
// at the destination: relocation never trusts the old asset's cached
// metadata.
func (r *AssetRelocator) Relocate(asset *Asset, destination *Folder, preserveOriginal bool) (bool, error) {
	switch {
	case asset == nil:
		return false, fmt.Errorf("asset is nil: %w", ErrInvalidArgument)
	case asset.Folder == nil:
		return false, fmt.Errorf("asset %s has no folder: %w", asset.FileName, ErrInvalidArgument)
	case destination == nil:
		return false, fmt.Errorf("destination folder is nil: %w", ErrInvalidArgument)
	}

	// Attach to the canonical folder record when the path is cataloged.
	cataloged, err := r.store.FolderByPath(destination.Path)
	if err != nil {
		return false, fmt.Errorf("looking up destination %s: %w", destination.Path, err)
	}
	if cataloged != nil {
		destination = cataloged
	}

	sourcePath := asset.FullPath()
	destinationPath := filepath.Join(destination.Path, asset.FileName)
	if strings.EqualFold(sourcePath, destinationPath) {
		return false, nil
	}

	if !r.files.FileExists(sourcePath) {
		return false, fmt.Errorf("source image %s: %w", sourcePath, ErrFileNotFound)
	}

	if !r.files.FileExists(destinationPath) {
		if err := r.files.CopyImage(sourcePath, destinationPath); err != nil {
			return false, fmt.Errorf("copying %s to %s: %w", sourcePath, destinationPath, err)
		}
	}

	if !preserveOriginal {
		// The delete path persists the source folder's catalog.
		if err := r.DeleteAsset(asset, true); err != nil {
			return false, fmt.Errorf("removing source asset: %w", err)
		}
	}

	if cataloged == nil {
		destination, err = r.store.AddFolder(destination.Path)
		if err != nil {
			return false, fmt.Errorf("cataloging destination %s: %w", destination.Path, err)
		}
	}

	moved, thumbnail, err := buildAsset(r.files, r.images, r.hasher, r.clock, destination, asset.FileName)
	if err != nil {
		return false, err
	}
	if err := r.store.AddAsset(moved, thumbnail); err != nil {
		return false, fmt.Errorf("storing asset %s: %w", moved.FullPath(), err)
	}

	r.recent.Add(destination.Path)
	if err := r.store.SaveRecentTargetPaths(r.recent.Paths()); err != nil {
		return false, fmt.Errorf("saving recent targets: %w", err)
	}
	if err := r.store.SaveCatalog(destination); err != nil {
		return false, fmt.Errorf("persisting catalog for %s: %w", destination.Path, err)
	}

	r.logger.Info("asset relocated",
		"from", sourcePath, "to", destinationPath, "copy", preserveOriginal)
	return true, nil
}

// DeleteAsset removes an asset from the catalog, optionally deleting the
// underlying file (which must then exist), and persists the owning
// folder's catalog. Used standalone and as the source-side half of a move.
func (r *AssetRelocator) DeleteAsset(asset *Asset, deleteFile bool) error {
	switch {
	case asset == nil:
		return fmt.Errorf("asset is nil: %w", ErrInvalidArgument)
	case asset.Folder == nil:
		return fmt.Errorf("asset %s has no folder: %w", asset.FileName, ErrInvalidArgument)
	}
	if deleteFile && !r.files.FileExists(asset.FullPath()) {
		return fmt.Errorf("image %s: %w", asset.FullPath(), ErrFileNotFound)
	}

	if err := r.store.DeleteAsset(asset.Folder, asset.FileName); err != nil {
		return fmt.Errorf("removing asset %s: %w", asset.FullPath(), err)
	}
	if deleteFile {
		if err := r.files.DeleteFile(asset.Folder.Path, asset.FileName); err != nil {
			return fmt.Errorf("deleting %s: %w", asset.FullPath(), err)
		}
	}
	if err := r.store.SaveCatalog(asset.Folder); err != nil {
		return fmt.Errorf("persisting catalog for %s: %w", asset.Folder.Path, err)
	}

	r.logger.Info("asset deleted", "path", asset.FullPath(), "file_removed", deleteFile)
	return nil
}
