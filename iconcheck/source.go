package iconcheck

import (
	"context"
	"os"
	"sync"
)

// AssetSource provides the raw bytes of named assets. Assets are read
// fully into memory; the decoder has no streaming contract.
type AssetSource interface {
	ReadAsset(ctx context.Context, path string) ([]byte, error)
}

// FileSource reads assets from the local filesystem.
type FileSource struct{}

// NewFileSource constructs a FileSource.
func NewFileSource() *FileSource {
	return &FileSource{}
}

// ReadAsset returns the full content of the file at path.
func (s *FileSource) ReadAsset(ctx context.Context, path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ErrAssetMissing.WithDetail("path", path).WithCause(err)
	}
	return data, nil
}

// MockSource is a simple in-memory AssetSource implementation for tests.
type MockSource struct {
	mu     sync.RWMutex
	assets map[string][]byte
}

// NewMockSource constructs an empty MockSource.
func NewMockSource() *MockSource {
	return &MockSource{
		assets: make(map[string][]byte),
	}
}

// ReadAsset returns the stored content for path.
func (m *MockSource) ReadAsset(ctx context.Context, path string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.assets[path]
	if !ok {
		return nil, ErrAssetMissing.WithDetail("path", path)
	}
	return append([]byte(nil), data...), nil
}

// AddAsset stores asset content under path.
func (m *MockSource) AddAsset(path string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.assets[path] = append([]byte(nil), data...)
}
