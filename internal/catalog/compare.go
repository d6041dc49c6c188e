package catalog

import (
	"path/filepath"
	"strings"
)

// supportedExtensions is the allow-list of image extensions the catalog
// tracks. Lookups are case-insensitive.
var supportedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".jfif": true,
	".png":  true,
	".gif":  true,
}

// IsSupportedImage reports whether the file name carries a cataloged
// image extension.
func IsSupportedImage(fileName string) bool {
	return supportedExtensions[strings.ToLower(filepath.Ext(fileName))]
}

// Diff is the result of comparing a directory listing against the
// catalog: three pairwise-disjoint name sets, each in the order of the
// input it was drawn from.
type Diff struct {
	New     []string
	Updated []string
	Deleted []string
}

// Empty reports whether the diff carries no work.
func (d Diff) Empty() bool {
	return len(d.New) == 0 && len(d.Updated) == 0 && len(d.Deleted) == 0
}

// CompareNames diffs two raw file-name listings. New names are filtered
// to supported image extensions; deleted names are not (a cataloged name
// that disappears is always a deletion candidate). Raw listings carry no
// change signal, so Updated is always empty here; change detection for
// cataloged assets lives in DirectoryComparer.Changes. Empty or nil
// inputs yield empty result sets.
func CompareNames(source, cataloged []string) Diff {
	var diff Diff

	inCataloged := nameSet(cataloged)
	inSource := nameSet(source)

	for _, name := range source {
		if !inCataloged[strings.ToLower(name)] && IsSupportedImage(name) {
			diff.New = append(diff.New, name)
		}
	}
	for _, name := range cataloged {
		if !inSource[strings.ToLower(name)] {
			diff.Deleted = append(diff.Deleted, name)
		}
	}
	return diff
}

// DirectoryComparer computes new/updated/deleted sets for a folder. Its
// only collaborator is the file gateway, used to stat files when deciding
// whether a cataloged asset is out of date.
type DirectoryComparer struct {
	files FileGateway
}

func NewDirectoryComparer(files FileGateway) *DirectoryComparer {
	return &DirectoryComparer{files: files}
}

// Changes diffs the on-disk names of folder against its cataloged assets.
// A name present on both sides counts as updated when the file has been
// modified after the asset's thumbnail was created.
func (c *DirectoryComparer) Changes(folder *Folder, diskNames []string, cataloged []*Asset) (Diff, error) {
	var diff Diff

	catalogedNames := make(map[string]*Asset, len(cataloged))
	for _, asset := range cataloged {
		catalogedNames[strings.ToLower(asset.FileName)] = asset
	}
	onDisk := nameSet(diskNames)

	for _, name := range diskNames {
		asset, known := catalogedNames[strings.ToLower(name)]
		if !known {
			if IsSupportedImage(name) {
				diff.New = append(diff.New, name)
			}
			continue
		}
		changed, err := c.assetChanged(folder, asset)
		if err != nil {
			return Diff{}, err
		}
		if changed {
			diff.Updated = append(diff.Updated, name)
		}
	}

	for _, asset := range cataloged {
		if !onDisk[strings.ToLower(asset.FileName)] {
			diff.Deleted = append(diff.Deleted, asset.FileName)
		}
	}

	return diff, nil
}

func (c *DirectoryComparer) assetChanged(folder *Folder, asset *Asset) (bool, error) {
	props, err := c.files.FileProperties(filepath.Join(folder.Path, asset.FileName))
	if err != nil {
		return false, err
	}
	return props.ModifiedAt.After(asset.ThumbnailCreatedAt), nil
}

func nameSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, name := range names {
		set[strings.ToLower(name)] = true
	}
	return set
}
