package catalog

import (
	"bytes"
	"fmt"
)

// DuplicateDetector finds groups of cataloged assets with identical file
// content. Grouping is by content hash; groups are then validated against
// the live file system so stale catalog entries and hash collisions never
// surface as duplicates.
type DuplicateDetector struct {
	store  Store
	files  FileGateway
	logger Logger
}

func NewDuplicateDetector(store Store, files FileGateway, logger Logger) *DuplicateDetector {
	return &DuplicateDetector{store: store, files: files, logger: logger}
}

// Duplicates scans the whole catalog and returns every surviving group of
// two or more assets sharing identical content. Groups appear in
// first-seen hash order; members keep their catalog insertion order.
// Surviving members carry refreshed size and timestamps, since cataloged
// metadata may be stale.
func (d *DuplicateDetector) Duplicates() ([]*DuplicatedAssetCollection, error) {
	folders, err := d.store.Folders()
	if err != nil {
		return nil, fmt.Errorf("listing folders: %w", err)
	}

	byHash := make(map[string][]*Asset)
	var hashOrder []string
	for _, folder := range folders {
		assets, err := d.store.CataloguedAssets(folder)
		if err != nil {
			return nil, fmt.Errorf("loading catalog for %s: %w", folder.Path, err)
		}
		for _, asset := range assets {
			if asset.Hash == "" {
				continue
			}
			if _, seen := byHash[asset.Hash]; !seen {
				hashOrder = append(hashOrder, asset.Hash)
			}
			byHash[asset.Hash] = append(byHash[asset.Hash], asset)
		}
	}

	var groups []*DuplicatedAssetCollection
	for _, hash := range hashOrder {
		group := byHash[hash]
		if len(group) < 2 {
			continue
		}
		survivors, err := d.validateGroup(group)
		if err != nil {
			return nil, err
		}
		if len(survivors) < 2 {
			continue
		}
		groups = append(groups, &DuplicatedAssetCollection{Assets: survivors})
	}
	return groups, nil
}

// validateGroup drops members whose file is gone, then drops members
// whose bytes differ from the first survivor (a hash collision), then
// refreshes live metadata on what remains.
func (d *DuplicateDetector) validateGroup(group []*Asset) ([]*Asset, error) {
	var present []*Asset
	for _, asset := range group {
		if d.files.FileExists(asset.FullPath()) {
			present = append(present, asset)
		} else {
			d.logger.Debug("duplicate candidate no longer on disk", "path", asset.FullPath())
		}
	}
	if len(present) < 2 {
		return present, nil
	}

	reference := present[0]
	referenceBytes, err := d.files.FileBytes(reference.FullPath())
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", reference.FullPath(), err)
	}

	survivors := []*Asset{reference}
	for _, asset := range present[1:] {
		data, err := d.files.FileBytes(asset.FullPath())
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", asset.FullPath(), err)
		}
		if !bytes.Equal(referenceBytes, data) {
			d.logger.Warn("hash collision between distinct files",
				"reference", reference.FullPath(), "candidate", asset.FullPath())
			continue
		}
		survivors = append(survivors, asset)
	}

	for _, asset := range survivors {
		props, err := d.files.FileProperties(asset.FullPath())
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", asset.FullPath(), err)
		}
		asset.FileSize = props.Size
		asset.FileCreatedAt = props.CreatedAt
		asset.FileModifiedAt = props.ModifiedAt
	}
	return survivors, nil
}
