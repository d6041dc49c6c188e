// Package blobstore persists thumbnail binaries outside the catalog
// database. Blobs are keyed by the owning folder's id plus the image file
// name, so a folder's whole thumbnail set can be dropped in one call.
package blobstore

import "errors"

// ErrNotFound is returned by Get when no blob exists for the key.
var ErrNotFound = errors.New("thumbnail not found")

// Store is a thumbnail blob backend.
type Store interface {
	// Put stores data under (folderID, fileName), replacing any existing blob.
	Put(folderID, fileName string, data []byte) error
	// Get returns the blob, or ErrNotFound.
	Get(folderID, fileName string) ([]byte, error)
	// Contains reports whether a blob exists for the key.
	Contains(folderID, fileName string) (bool, error)
	// Delete removes the blob. Deleting a missing blob is not an error.
	Delete(folderID, fileName string) error
	// DeleteAll removes every blob belonging to folderID.
	DeleteAll(folderID string) error
	// ValidateSetup verifies the backend is reachable and writable.
	ValidateSetup() error
}
