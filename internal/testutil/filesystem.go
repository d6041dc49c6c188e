package testutil

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"pixcat/internal/catalog"
)

// MockFile represents a file in the mock filesystem.
type MockFile struct {
	Content    []byte
	CreatedAt  time.Time
	ModifiedAt time.Time
}

// MockFileGateway is an in-memory filesystem for testing. Directory
// listings preserve the order files and directories were added in.
type MockFileGateway struct {
	mu       sync.Mutex
	files    map[string]*MockFile
	dirs     map[string]bool
	order    []string // file paths, insertion order
	dirOrder []string // directory paths, insertion order
}

// NewMockFileGateway creates an empty mock filesystem.
func NewMockFileGateway() *MockFileGateway {
	return &MockFileGateway{
		files: make(map[string]*MockFile),
		dirs:  make(map[string]bool),
	}
}

// AddDirectory adds a directory to the mock filesystem.
func (m *MockFileGateway) AddDirectory(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.addDirLocked(filepath.Clean(path))
}

// AddFile adds a file, creating its parent directory implicitly. The
// timestamps default to a fixed instant; use SetFileTimes to vary them.
func (m *MockFileGateway) AddFile(path string, content []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()

	path = filepath.Clean(path)
	m.addDirLocked(filepath.Dir(path))

	if _, exists := m.files[path]; !exists {
		m.order = append(m.order, path)
	}
	now := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	m.files[path] = &MockFile{
		Content:    content,
		CreatedAt:  now,
		ModifiedAt: now,
	}
}

// SetFileTimes overrides the timestamps of an existing file.
func (m *MockFileGateway) SetFileTimes(path string, created, modified time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if file, ok := m.files[filepath.Clean(path)]; ok {
		file.CreatedAt = created
		file.ModifiedAt = modified
	}
}

// RemoveFile deletes a file without going through the gateway API.
func (m *MockFileGateway) RemoveFile(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.removeFileLocked(filepath.Clean(path))
}

// RemoveDirectory deletes a directory and everything below it.
func (m *MockFileGateway) RemoveDirectory(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	path = filepath.Clean(path)
	prefix := path + string(filepath.Separator)

	delete(m.dirs, path)
	for i, dir := range m.dirOrder {
		if dir == path {
			m.dirOrder = append(m.dirOrder[:i], m.dirOrder[i+1:]...)
			break
		}
	}
	for dir := range m.dirs {
		if strings.HasPrefix(dir, prefix) {
			delete(m.dirs, dir)
		}
	}
	for file := range m.files {
		if strings.HasPrefix(file, prefix) {
			m.removeFileLocked(file)
		}
	}
}

func (m *MockFileGateway) FolderExists(path string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dirs[filepath.Clean(path)]
}

func (m *MockFileGateway) FileExists(path string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.files[filepath.Clean(path)]
	return ok
}

func (m *MockFileGateway) FileNames(dir string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	dir = filepath.Clean(dir)
	if !m.dirs[dir] {
		return nil, fmt.Errorf("directory not found: %s", dir)
	}

	var names []string
	for _, path := range m.order {
		if filepath.Dir(path) == dir {
			names = append(names, filepath.Base(path))
		}
	}
	return names, nil
}

func (m *MockFileGateway) SubDirectories(dir string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	dir = filepath.Clean(dir)
	if !m.dirs[dir] {
		return nil, fmt.Errorf("directory not found: %s", dir)
	}

	var paths []string
	for _, sub := range m.dirOrder {
		if filepath.Dir(sub) == dir {
			paths = append(paths, sub)
		}
	}
	return paths, nil
}

func (m *MockFileGateway) RecursiveSubDirectories(dir string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	dir = filepath.Clean(dir)
	if !m.dirs[dir] {
		return nil, fmt.Errorf("directory not found: %s", dir)
	}

	prefix := dir + string(filepath.Separator)
	var paths []string
	for _, sub := range m.dirOrder {
		if strings.HasPrefix(sub, prefix) {
			paths = append(paths, sub)
		}
	}
	return paths, nil
}

func (m *MockFileGateway) FileBytes(path string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	file, ok := m.files[filepath.Clean(path)]
	if !ok {
		return nil, fmt.Errorf("file not found: %s", path)
	}
	out := make([]byte, len(file.Content))
	copy(out, file.Content)
	return out, nil
}

func (m *MockFileGateway) FileProperties(path string) (catalog.FileProperties, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	file, ok := m.files[filepath.Clean(path)]
	if !ok {
		return catalog.FileProperties{}, fmt.Errorf("file not found: %s", path)
	}
	return catalog.FileProperties{
		Size:       int64(len(file.Content)),
		CreatedAt:  file.CreatedAt,
		ModifiedAt: file.ModifiedAt,
	}, nil
}

func (m *MockFileGateway) CopyImage(src, dst string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	src, dst = filepath.Clean(src), filepath.Clean(dst)
	file, ok := m.files[src]
	if !ok {
		return fmt.Errorf("file not found: %s", src)
	}

	m.addDirLocked(filepath.Dir(dst))
	if _, exists := m.files[dst]; !exists {
		m.order = append(m.order, dst)
	}
	content := make([]byte, len(file.Content))
	copy(content, file.Content)
	m.files[dst] = &MockFile{
		Content:    content,
		CreatedAt:  file.CreatedAt,
		ModifiedAt: file.ModifiedAt,
	}
	return nil
}

func (m *MockFileGateway) MoveImage(src, dst string) error {
	if err := m.CopyImage(src, dst); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.removeFileLocked(filepath.Clean(src))
	return nil
}

func (m *MockFileGateway) DeleteFile(dir, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	path := filepath.Join(dir, name)
	if _, ok := m.files[path]; !ok {
		return fmt.Errorf("file not found: %s", path)
	}
	m.removeFileLocked(path)
	return nil
}

func (m *MockFileGateway) addDirLocked(path string) {
	if !m.dirs[path] {
		m.dirs[path] = true
		m.dirOrder = append(m.dirOrder, path)
	}
}

func (m *MockFileGateway) removeFileLocked(path string) {
	delete(m.files, path)
	for i, p := range m.order {
		if p == path {
			m.order = append(m.order[:i], m.order[i+1:]...)
			return
		}
	}
}

// Compile-time check
var _ catalog.FileGateway = (*MockFileGateway)(nil)
