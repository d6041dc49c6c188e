package blobstore

import "sync"

// MemoryStore is an in-memory blob store for tests and the memory
// database mode.
type MemoryStore struct {
	mu      sync.Mutex
	folders map[string]map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{folders: make(map[string]map[string][]byte)}
}

func (s *MemoryStore) Put(folderID, fileName string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	blobs, ok := s.folders[folderID]
	if !ok {
		blobs = make(map[string][]byte)
		s.folders[folderID] = blobs
	}
	stored := make([]byte, len(data))
	copy(stored, data)
	blobs[fileName] = stored
	return nil
}

func (s *MemoryStore) Get(folderID, fileName string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, ok := s.folders[folderID][fileName]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (s *MemoryStore) Contains(folderID, fileName string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.folders[folderID][fileName]
	return ok, nil
}

func (s *MemoryStore) Delete(folderID, fileName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.folders[folderID], fileName)
	return nil
}

func (s *MemoryStore) DeleteAll(folderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.folders, folderID)
	return nil
}

func (s *MemoryStore) ValidateSetup() error {
	return nil
}

// Compile-time check
var _ Store = (*MemoryStore)(nil)
