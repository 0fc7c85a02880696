// mock_store.go - Mock storage implementation for testing
package testutil

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/shiftcal/shiftcal/internal/models"
)

// MockStore implements storage.Store for testing. File bytes are written to
// a temp directory so code that needs a real path (the workbook parser)
// still works.
type MockStore struct {
	mu      sync.RWMutex
	dir     string
	files   map[string]*models.FileInfo
	nextID  int
	SaveErr error // when set, Save fails with this error
}

// NewMockStore creates a mock store rooted at dir (use t.TempDir()).
func NewMockStore(dir string) *MockStore {
	os.MkdirAll(dir, 0755)
	return &MockStore{
		dir:   dir,
		files: make(map[string]*models.FileInfo),
	}
}

func (m *MockStore) Save(name string, r io.Reader) (*models.FileInfo, error) {
	if m.SaveErr != nil {
		return nil, m.SaveErr
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	id := fmt.Sprintf("mock-file-%d", m.nextID)
	if err := os.WriteFile(filepath.Join(m.dir, id), data, 0644); err != nil {
		return nil, err
	}

	info := &models.FileInfo{
		ID:         id,
		Name:       name,
		Size:       int64(len(data)),
		UploadedAt: time.Now(),
		Status:     "uploaded",
	}
	m.files[id] = info
	return info, nil
}

func (m *MockStore) Get(id string) (*models.FileInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	info, ok := m.files[id]
	if !ok {
		return nil, fmt.Errorf("file not found: %s", id)
	}
	return info, nil
}

func (m *MockStore) List(limit int) ([]*models.FileInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var list []*models.FileInfo
	for _, info := range m.files {
		list = append(list, info)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].UploadedAt.After(list[j].UploadedAt)
	})
	if len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

func (m *MockStore) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.files[id]; !ok {
		return fmt.Errorf("file not found: %s", id)
	}
	os.Remove(filepath.Join(m.dir, id))
	delete(m.files, id)
	return nil
}

func (m *MockStore) Rename(id string, newName string) (*models.FileInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	info, ok := m.files[id]
	if !ok {
		return nil, fmt.Errorf("file not found: %s", id)
	}
	info.Name = newName
	return info, nil
}

func (m *MockStore) GetFilePath(id string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, ok := m.files[id]; !ok {
		return "", fmt.Errorf("file not found: %s", id)
	}
	return filepath.Join(m.dir, id), nil
}

func (m *MockStore) SetStatus(id string, status string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if info, ok := m.files[id]; ok {
		info.Status = status
	}
}

// Len returns the number of stored files.
func (m *MockStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.files)
}
