package catalog

// Store persists folders, assets and their thumbnail blobs. Record
// mutations take effect immediately; thumbnail blobs for a folder are
// staged until SaveCatalog flushes them, which is what makes a folder a
// crash-safe recovery point during a sync run.
type Store interface {
	// FolderExists reports whether a folder with the given path is cataloged.
	FolderExists(path string) (bool, error)

	// AddFolder catalogs a new folder at the given path.
	AddFolder(path string) (*Folder, error)

	// FolderByPath returns the cataloged folder at path, or nil.
	FolderByPath(path string) (*Folder, error)

	// Folders returns every cataloged folder.
	Folders() ([]*Folder, error)

	// DeleteFolder removes a folder, its assets and its thumbnail set.
	DeleteFolder(folder *Folder) error

	// CataloguedAssets returns the folder's assets in catalog insertion order.
	CataloguedAssets(folder *Folder) ([]*Asset, error)

	// AddAsset records an asset and stages its thumbnail bytes.
	AddAsset(asset *Asset, thumbnail []byte) error

	// DeleteAsset removes an asset and its thumbnail entry.
	DeleteAsset(folder *Folder, fileName string) error

	// ContainsThumbnail reports whether a thumbnail is present (staged or
	// persisted) for the given file.
	ContainsThumbnail(folder *Folder, fileName string) (bool, error)

	// LoadThumbnail returns the thumbnail bytes for the given file.
	LoadThumbnail(folder *Folder, fileName string) ([]byte, error)

	// RecentTargetPaths returns the persisted most-recently-used target
	// folder paths, newest first.
	RecentTargetPaths() ([]string, error)

	// SaveRecentTargetPaths replaces the persisted MRU list.
	SaveRecentTargetPaths(paths []string) error

	// SaveCatalog flushes the folder's staged thumbnail changes and clears
	// its dirty state.
	SaveCatalog(folder *Folder) error

	// HasChanges reports whether any folder has unflushed mutations.
	HasChanges() bool

	// Close releases the underlying storage.
	Close() error
}
