package blobstore_test

import (
	"errors"
	"testing"

	"pixcat/internal/blobstore"
)

// backends under test share one behavioral contract.
func backends(t *testing.T) map[string]blobstore.Store {
	t.Helper()

	fsStore, err := blobstore.NewFileSystemStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileSystemStore() error = %v", err)
	}
	return map[string]blobstore.Store{
		"memory":     blobstore.NewMemoryStore(),
		"filesystem": fsStore,
	}
}

func TestStore_PutGet(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			if err := s.Put("folder-1", "a.jpg", []byte("bytes")); err != nil {
				t.Fatalf("Put() error = %v", err)
			}

			data, err := s.Get("folder-1", "a.jpg")
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if string(data) != "bytes" {
				t.Errorf("Get() = %q", data)
			}

			ok, err := s.Contains("folder-1", "a.jpg")
			if err != nil || !ok {
				t.Errorf("Contains() = %v, %v", ok, err)
			}
		})
	}
}

func TestStore_PutReplaces(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			s.Put("f", "a.jpg", []byte("old"))
			if err := s.Put("f", "a.jpg", []byte("new")); err != nil {
				t.Fatalf("Put() error = %v", err)
			}
			data, _ := s.Get("f", "a.jpg")
			if string(data) != "new" {
				t.Errorf("Get() = %q, want new", data)
			}
		})
	}
}

func TestStore_GetMissing(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Get("f", "missing.jpg")
			if !errors.Is(err, blobstore.ErrNotFound) {
				t.Errorf("Get() error = %v, want ErrNotFound", err)
			}
			ok, err := s.Contains("f", "missing.jpg")
			if err != nil || ok {
				t.Errorf("Contains() = %v, %v, want false", ok, err)
			}
		})
	}
}

func TestStore_Delete(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			s.Put("f", "a.jpg", []byte("x"))
			if err := s.Delete("f", "a.jpg"); err != nil {
				t.Fatalf("Delete() error = %v", err)
			}
			ok, _ := s.Contains("f", "a.jpg")
			if ok {
				t.Error("blob still present after delete")
			}

			// Deleting a missing blob is not an error.
			if err := s.Delete("f", "a.jpg"); err != nil {
				t.Errorf("second Delete() error = %v", err)
			}
		})
	}
}

func TestStore_DeleteAll(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			s.Put("f1", "a.jpg", []byte("x"))
			s.Put("f1", "b.jpg", []byte("y"))
			s.Put("f2", "c.jpg", []byte("z"))

			if err := s.DeleteAll("f1"); err != nil {
				t.Fatalf("DeleteAll() error = %v", err)
			}

			for _, name := range []string{"a.jpg", "b.jpg"} {
				if ok, _ := s.Contains("f1", name); ok {
					t.Errorf("blob %s survived DeleteAll", name)
				}
			}
			if ok, _ := s.Contains("f2", "c.jpg"); !ok {
				t.Error("unrelated folder's blob removed")
			}
		})
	}
}

func TestStore_ValidateSetup(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			if err := s.ValidateSetup(); err != nil {
				t.Errorf("ValidateSetup() error = %v", err)
			}
		})
	}
}

func TestFileSystemStore_IsolatesFolders(t *testing.T) {
	s, err := blobstore.NewFileSystemStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileSystemStore() error = %v", err)
	}

	s.Put("f1", "same.jpg", []byte("one"))
	s.Put("f2", "same.jpg", []byte("two"))

	data, _ := s.Get("f1", "same.jpg")
	if string(data) != "one" {
		t.Errorf("f1 blob = %q", data)
	}
	data, _ = s.Get("f2", "same.jpg")
	if string(data) != "two" {
		t.Errorf("f2 blob = %q", data)
	}
}
