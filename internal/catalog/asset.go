// Package catalog implements the core of the pixcat asset catalog: the
// Folder/Asset data model, incremental folder synchronization, duplicate
// detection, asset relocation and templated batch rename. Storage, file
// access and image decoding are reached through the collaborator
// interfaces declared in this package.
package catalog

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// Folder is one cataloged directory. Two folders are the same folder iff
// their normalized paths are equal under ordinal case-insensitive
// comparison; the ID is storage identity only.
type Folder struct {
	ID   string // opaque id assigned by the store
	Path string // absolute, normalized, no trailing separator
}

// NormalizePath cleans a folder path and strips any trailing separator.
func NormalizePath(path string) string {
	cleaned := filepath.Clean(path)
	if len(cleaned) > 1 {
		cleaned = strings.TrimRight(cleaned, string(filepath.Separator))
	}
	return cleaned
}

// Name returns the last path segment.
func (f *Folder) Name() string {
	return filepath.Base(f.Path)
}

// ParentPath returns the path of the containing directory. This is a
// path-only projection, not a reference to a cataloged folder.
func (f *Folder) ParentPath() string {
	return filepath.Dir(f.Path)
}

// SamePath reports whether the folder sits at the given path, comparing
// case-insensitively.
func (f *Folder) SamePath(path string) bool {
	return strings.EqualFold(f.Path, NormalizePath(path))
}

// IsParentOf reports whether other is an immediate child of this folder.
func (f *Folder) IsParentOf(other *Folder) bool {
	if other == nil {
		return false
	}
	return strings.EqualFold(f.Path, other.ParentPath())
}

// Asset is one cataloged image file: metadata, content hash and thumbnail
// dimensions. Identity is the (FolderID, FileName) pair; content and all
// other attributes play no part in equality. An asset is never edited in
// place: a changed file is recorded by deleting and recreating its asset.
type Asset struct {
	FolderID string
	Folder   *Folder
	FileName string

	FileSize    int64
	PixelWidth  int
	PixelHeight int
	Rotation    int // degrees clockwise derived from EXIF orientation

	ThumbnailPixelWidth  int
	ThumbnailPixelHeight int
	ThumbnailCreatedAt   time.Time

	Hash string // hex content digest

	FileCreatedAt  time.Time
	FileModifiedAt time.Time
}

// Key identifies an asset within the catalog.
type Key struct {
	FolderID string
	FileName string
}

// Key returns the asset's catalog identity.
func (a *Asset) Key() Key {
	return Key{FolderID: a.FolderID, FileName: a.FileName}
}

// Equal reports whether two assets are the same catalog entry.
func (a *Asset) Equal(other *Asset) bool {
	if other == nil {
		return false
	}
	return a.FolderID == other.FolderID && a.FileName == other.FileName
}

// FullPath computes the asset's on-disk location from its folder. It is
// never stored.
func (a *Asset) FullPath() string {
	if a.Folder == nil {
		return a.FileName
	}
	return filepath.Join(a.Folder.Path, a.FileName)
}

// DuplicatedAssetCollection is an ephemeral group of assets believed to
// share identical file content. It is never persisted.
type DuplicatedAssetCollection struct {
	Assets []*Asset
}

// HasDuplicates reports whether the group still names more than one file.
func (c *DuplicatedAssetCollection) HasDuplicates() bool {
	return len(c.Assets) > 1
}

// Description summarizes the group for display.
func (c *DuplicatedAssetCollection) Description() string {
	if len(c.Assets) == 0 {
		return ""
	}
	return fmt.Sprintf("%s (%d duplicates)", c.Assets[0].FileName, len(c.Assets))
}

// FileProperties is live file-system metadata for a single file.
type FileProperties struct {
	Size       int64
	CreatedAt  time.Time
	ModifiedAt time.Time
}
