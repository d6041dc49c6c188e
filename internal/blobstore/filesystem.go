package blobstore

import (
	"fmt"
	"os"
	"path/filepath"
)

// FileSystemStore keeps thumbnail blobs as plain files:
//
//	<root>/
//	  <folderID>/
//	    <fileName>
//
// Folder ids are opaque uuids, so a folder's blobs never collide with
// another folder's even when image names repeat.
type FileSystemStore struct {
	root string
}

// NewFileSystemStore creates a blob store rooted at the given path,
// creating the root directory if needed.
func NewFileSystemStore(root string) (*FileSystemStore, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("failed to create blob root: %w", err)
	}
	return &FileSystemStore{root: root}, nil
}

func (s *FileSystemStore) blobPath(folderID, fileName string) string {
	return filepath.Join(s.root, folderID, fileName)
}

// Put writes the blob atomically: data lands in a temp file in the target
// directory first and is renamed into place, so a crash never leaves a
// half-written thumbnail behind.
func (s *FileSystemStore) Put(folderID, fileName string, data []byte) error {
	dir := filepath.Join(s.root, folderID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create blob directory: %w", err)
	}

	tmpFile, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write blob: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, s.blobPath(folderID, fileName)); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	success = true
	return nil
}

func (s *FileSystemStore) Get(folderID, fileName string) ([]byte, error) {
	data, err := os.ReadFile(s.blobPath(folderID, fileName))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("reading blob: %w", err)
	}
	return data, nil
}

func (s *FileSystemStore) Contains(folderID, fileName string) (bool, error) {
	_, err := os.Stat(s.blobPath(folderID, fileName))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("stat blob: %w", err)
	}
	return true, nil
}

func (s *FileSystemStore) Delete(folderID, fileName string) error {
	if err := os.Remove(s.blobPath(folderID, fileName)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("deleting blob: %w", err)
	}
	return nil
}

func (s *FileSystemStore) DeleteAll(folderID string) error {
	if err := os.RemoveAll(filepath.Join(s.root, folderID)); err != nil {
		return fmt.Errorf("deleting folder blobs: %w", err)
	}
	return nil
}

// ValidateSetup verifies the root exists and is a directory.
func (s *FileSystemStore) ValidateSetup() error {
	info, err := os.Stat(s.root)
	if err != nil {
		return fmt.Errorf("blob root not accessible: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("blob root is not a directory: %s", s.root)
	}
	return nil
}

// Compile-time check
var _ Store = (*FileSystemStore)(nil)
