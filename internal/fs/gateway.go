// Package fs provides the real filesystem implementation of the catalog
// file gateway.
package fs

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"pixcat/internal/catalog"
)

// OSFileGateway performs actual filesystem operations using the os
// package.
type OSFileGateway struct{}

// NewOSFileGateway creates a gateway operating on the real filesystem.
func NewOSFileGateway() *OSFileGateway {
	return &OSFileGateway{}
}

// FolderExists reports whether path exists and is a directory.
func (g *OSFileGateway) FolderExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// FileExists reports whether path exists and is a regular file.
func (g *OSFileGateway) FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// FileNames returns the names of the regular files directly inside dir,
// in directory order (lexical on all supported platforms).
func (g *OSFileGateway) FileNames(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", dir, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.Type().IsRegular() {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}

// SubDirectories returns the full paths of dir's immediate
// subdirectories.
func (g *OSFileGateway) SubDirectories(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", dir, err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	return paths, nil
}

// RecursiveSubDirectories returns the full paths of every directory
// below dir, not including dir itself.
func (g *OSFileGateway) RecursiveSubDirectories(dir string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() && path != dir {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", dir, err)
	}
	return paths, nil
}

// FileBytes reads the whole file into memory. Image files are bounded in
// practice, so no streaming interface is offered.
func (g *OSFileGateway) FileBytes(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}

// FileProperties returns the size and timestamps of the file at path.
func (g *OSFileGateway) FileProperties(path string) (catalog.FileProperties, error) {
	info, err := os.Stat(path)
	if err != nil {
		return catalog.FileProperties{}, fmt.Errorf("stat %s: %w", path, err)
	}

	return catalog.FileProperties{
		Size:       info.Size(),
		CreatedAt:  creationTime(info),
		ModifiedAt: info.ModTime(),
	}, nil
}

// CopyImage copies src to dst atomically: the data lands in a temp file
// next to dst and is renamed into place. Parent directories are created
// as needed.
func (g *OSFileGateway) CopyImage(src, dst string) error {
	dir := filepath.Dir(dst)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}

	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening %s: %w", src, err)
	}
	defer in.Close()

	tmpFile, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := io.Copy(tmpFile, in); err != nil {
		tmpFile.Close()
		return fmt.Errorf("copying %s: %w", src, err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tmpPath, dst); err != nil {
		return fmt.Errorf("renaming temp file: %w", err)
	}

	success = true
	return nil
}

// MoveImage renames src to dst, falling back to copy + remove when the
// rename crosses filesystems. Parent directories are created as needed.
func (g *OSFileGateway) MoveImage(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(dst), err)
	}

	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	if err := g.CopyImage(src, dst); err != nil {
		return fmt.Errorf("moving %s: %w", src, err)
	}
	if err := os.Remove(src); err != nil {
		return fmt.Errorf("removing %s after copy: %w", src, err)
	}
	return nil
}

// DeleteFile removes name from dir.
func (g *OSFileGateway) DeleteFile(dir, name string) error {
	path := filepath.Join(dir, name)
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("deleting %s: %w", path, err)
	}
	return nil
}

// Compile-time check that OSFileGateway implements the catalog gateway.
var _ catalog.FileGateway = (*OSFileGateway)(nil)
