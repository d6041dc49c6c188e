// Package store provides the SQLite implementation of the catalog store.
// Asset and folder records hit the database immediately; thumbnail blobs
// are staged in memory per folder and flushed on SaveCatalog, so the
// blob backend sees one batch per folder and a crash between syncs never
// leaves the database referencing a half-written thumbnail set.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"pixcat/internal/blobstore"
	"pixcat/internal/catalog"
	"pixcat/internal/store/migrations"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// stagedBlob is a pending thumbnail write; data == nil marks a delete.
type stagedBlob struct {
	data []byte
}

// SQLiteStore implements catalog.Store on SQLite plus a blob backend for
// thumbnail binaries.
type SQLiteStore struct {
	db    *sql.DB
	blobs blobstore.Store
	path  string

	mu     sync.Mutex
	staged map[string]map[string]stagedBlob // folderID -> fileName -> blob
	wiped  map[string]bool                  // folderIDs whose whole blob set is pending removal
	dirty  map[string]bool                  // folderIDs with unflushed changes
}

// NewSQLiteStore opens (or creates) a catalog database at path, runs
// pending migrations and attaches the given blob backend.
// path can be a file path or ":memory:".
func NewSQLiteStore(path string, blobs blobstore.Store) (*SQLiteStore, error) {
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}

	if err := migrations.MigrateUp(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating catalog database: %w", err)
	}

	return NewSQLiteStoreFromDB(db, blobs, path), nil
}

// NewSQLiteStoreFromDB wraps an existing connection. The caller is
// responsible for the connection's PRAGMAs and schema.
func NewSQLiteStoreFromDB(db *sql.DB, blobs blobstore.Store, path string) *SQLiteStore {
	return &SQLiteStore{
		db:     db,
		blobs:  blobs,
		path:   path,
		staged: make(map[string]map[string]stagedBlob),
		wiped:  make(map[string]bool),
		dirty:  make(map[string]bool),
	}
}

// OpenConnection opens and configures a SQLite connection with the
// PRAGMAs the catalog relies on. Exported for tools and tests that need
// a properly configured connection.
func OpenConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite ships with foreign keys OFF for backward compatibility.
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

// Folder operations

func (s *SQLiteStore) FolderExists(path string) (bool, error) {
	folder, err := s.FolderByPath(path)
	if err != nil {
		return false, err
	}
	return folder != nil, nil
}

func (s *SQLiteStore) AddFolder(path string) (*catalog.Folder, error) {
	folder := &catalog.Folder{
		ID:   uuid.NewString(),
		Path: catalog.NormalizePath(path),
	}

	_, err := s.db.Exec("INSERT INTO folders (id, path) VALUES (?, ?)", folder.ID, folder.Path)
	if err != nil {
		return nil, fmt.Errorf("inserting folder %s: %w", folder.Path, err)
	}

	s.markDirty(folder.ID)
	return folder, nil
}

func (s *SQLiteStore) FolderByPath(path string) (*catalog.Folder, error) {
	row := s.db.QueryRow("SELECT id, path FROM folders WHERE path = ?", catalog.NormalizePath(path))

	var folder catalog.Folder
	if err := row.Scan(&folder.ID, &folder.Path); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Not cataloged
		}
		return nil, fmt.Errorf("finding folder by path: %w", err)
	}
	return &folder, nil
}

func (s *SQLiteStore) Folders() ([]*catalog.Folder, error) {
	rows, err := s.db.Query("SELECT id, path FROM folders ORDER BY path")
	if err != nil {
		return nil, fmt.Errorf("listing folders: %w", err)
	}
	defer rows.Close()

	var folders []*catalog.Folder
	for rows.Next() {
		var folder catalog.Folder
		if err := rows.Scan(&folder.ID, &folder.Path); err != nil {
			return nil, fmt.Errorf("scanning folder: %w", err)
		}
		folders = append(folders, &folder)
	}
	return folders, rows.Err()
}

// DeleteFolder removes the folder and, via cascade, its asset rows. The
// folder's thumbnail set is staged for removal and dropped from the blob
// backend on the next SaveCatalog.
func (s *SQLiteStore) DeleteFolder(folder *catalog.Folder) error {
	if _, err := s.db.Exec("DELETE FROM folders WHERE id = ?", folder.ID); err != nil {
		return fmt.Errorf("deleting folder %s: %w", folder.Path, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.staged, folder.ID)
	s.wiped[folder.ID] = true
	s.dirty[folder.ID] = true
	return nil
}

// Asset operations

const assetColumns = `file_name, file_size, pixel_width, pixel_height, rotation,
	thumbnail_pixel_width, thumbnail_pixel_height, thumbnail_created_at,
	hash, file_created_at, file_modified_at`

// CataloguedAssets returns the folder's assets in catalog insertion
// order.
func (s *SQLiteStore) CataloguedAssets(folder *catalog.Folder) ([]*catalog.Asset, error) {
	rows, err := s.db.Query(
		"SELECT "+assetColumns+" FROM assets WHERE folder_id = ? ORDER BY rowid", folder.ID)
	if err != nil {
		return nil, fmt.Errorf("loading assets for %s: %w", folder.Path, err)
	}
	defer rows.Close()

	var assets []*catalog.Asset
	for rows.Next() {
		asset := &catalog.Asset{FolderID: folder.ID, Folder: folder}
		err := rows.Scan(
			&asset.FileName, &asset.FileSize, &asset.PixelWidth, &asset.PixelHeight,
			&asset.Rotation, &asset.ThumbnailPixelWidth, &asset.ThumbnailPixelHeight,
			&asset.ThumbnailCreatedAt, &asset.Hash, &asset.FileCreatedAt, &asset.FileModifiedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning asset: %w", err)
		}
		assets = append(assets, asset)
	}
	return assets, rows.Err()
}

func (s *SQLiteStore) AddAsset(asset *catalog.Asset, thumbnail []byte) error {
	_, err := s.db.Exec(`INSERT OR REPLACE INTO assets
		(folder_id, `+assetColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		asset.FolderID,
		asset.FileName, asset.FileSize, asset.PixelWidth, asset.PixelHeight,
		asset.Rotation, asset.ThumbnailPixelWidth, asset.ThumbnailPixelHeight,
		asset.ThumbnailCreatedAt.UTC(), asset.Hash,
		asset.FileCreatedAt.UTC(), asset.FileModifiedAt.UTC())
	if err != nil {
		return fmt.Errorf("inserting asset %s: %w", asset.FileName, err)
	}

	s.stageBlob(asset.FolderID, asset.FileName, thumbnail)
	return nil
}

func (s *SQLiteStore) DeleteAsset(folder *catalog.Folder, fileName string) error {
	_, err := s.db.Exec(
		"DELETE FROM assets WHERE folder_id = ? AND file_name = ?", folder.ID, fileName)
	if err != nil {
		return fmt.Errorf("deleting asset %s: %w", fileName, err)
	}

	s.stageBlob(folder.ID, fileName, nil)
	return nil
}

// Thumbnail operations

func (s *SQLiteStore) ContainsThumbnail(folder *catalog.Folder, fileName string) (bool, error) {
	s.mu.Lock()
	if blob, ok := s.staged[folder.ID][fileName]; ok {
		s.mu.Unlock()
		return blob.data != nil, nil
	}
	wiped := s.wiped[folder.ID]
	s.mu.Unlock()

	if wiped {
		return false, nil
	}
	return s.blobs.Contains(folder.ID, fileName)
}

func (s *SQLiteStore) LoadThumbnail(folder *catalog.Folder, fileName string) ([]byte, error) {
	s.mu.Lock()
	if blob, ok := s.staged[folder.ID][fileName]; ok {
		s.mu.Unlock()
		if blob.data == nil {
			return nil, fmt.Errorf("thumbnail %s/%s: %w", folder.Path, fileName, blobstore.ErrNotFound)
		}
		out := make([]byte, len(blob.data))
		copy(out, blob.data)
		return out, nil
	}
	wiped := s.wiped[folder.ID]
	s.mu.Unlock()

	if wiped {
		return nil, fmt.Errorf("thumbnail %s/%s: %w", folder.Path, fileName, blobstore.ErrNotFound)
	}
	return s.blobs.Get(folder.ID, fileName)
}

// Recent targets

func (s *SQLiteStore) RecentTargetPaths() ([]string, error) {
	rows, err := s.db.Query("SELECT path FROM recent_targets ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("loading recent targets: %w", err)
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return nil, fmt.Errorf("scanning recent target: %w", err)
		}
		paths = append(paths, path)
	}
	return paths, rows.Err()
}

func (s *SQLiteStore) SaveRecentTargetPaths(paths []string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("saving recent targets: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM recent_targets"); err != nil {
		return fmt.Errorf("clearing recent targets: %w", err)
	}
	for i, path := range paths {
		if _, err := tx.Exec(
			"INSERT INTO recent_targets (position, path) VALUES (?, ?)", i, path); err != nil {
			return fmt.Errorf("inserting recent target %s: %w", path, err)
		}
	}
	return tx.Commit()
}

// Persistence

// SaveCatalog flushes the folder's staged thumbnail writes and deletes
// to the blob backend and clears the folder's dirty flag. Database rows
// were already written; this completes the folder's durable state.
func (s *SQLiteStore) SaveCatalog(folder *catalog.Folder) error {
	s.mu.Lock()
	staged := s.staged[folder.ID]
	wiped := s.wiped[folder.ID]
	delete(s.staged, folder.ID)
	delete(s.wiped, folder.ID)
	delete(s.dirty, folder.ID)
	s.mu.Unlock()

	if wiped {
		if err := s.blobs.DeleteAll(folder.ID); err != nil {
			return fmt.Errorf("removing thumbnails for %s: %w", folder.Path, err)
		}
	}

	for fileName, blob := range staged {
		if blob.data == nil {
			if err := s.blobs.Delete(folder.ID, fileName); err != nil {
				return fmt.Errorf("removing thumbnail %s/%s: %w", folder.Path, fileName, err)
			}
			continue
		}
		if err := s.blobs.Put(folder.ID, fileName, blob.data); err != nil {
			return fmt.Errorf("storing thumbnail %s/%s: %w", folder.Path, fileName, err)
		}
	}
	return nil
}

// HasChanges reports whether any folder has unflushed thumbnail state.
func (s *SQLiteStore) HasChanges() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.dirty) > 0
}

// CheckMigrations verifies the database schema matches the migrations
// compiled into the binary.
func (s *SQLiteStore) CheckMigrations() error {
	return migrations.CheckStatus(s.db)
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) stageBlob(folderID, fileName string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	blobs, ok := s.staged[folderID]
	if !ok {
		blobs = make(map[string]stagedBlob)
		s.staged[folderID] = blobs
	}
	if data == nil {
		blobs[fileName] = stagedBlob{}
	} else {
		stored := make([]byte, len(data))
		copy(stored, data)
		blobs[fileName] = stagedBlob{data: stored}
	}
	s.dirty[folderID] = true
}

func (s *SQLiteStore) markDirty(folderID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dirty[folderID] = true
}

// Compile-time check that SQLiteStore implements the catalog store.
var _ catalog.Store = (*SQLiteStore)(nil)
