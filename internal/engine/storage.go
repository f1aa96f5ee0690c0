package engine

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/tartampluch/go-calendar/internal/config"
)

// Storage is a key/value store of opaque serialized blobs.
// Get returns a nil blob and a nil error when the key has never been set.
type Storage interface {
	Get(key string) ([]byte, error)
	Set(key string, blob []byte) error
}

// MemoryStorage keeps blobs in a map. It is mostly useful in tests.
type MemoryStorage struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// NewMemoryStorage returns an empty MemoryStorage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{blobs: make(map[string][]byte)}
}

func (m *MemoryStorage) Get(key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	blob, ok := m.blobs[key]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), blob...), nil
}

func (m *MemoryStorage) Set(key string, blob []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blobs[key] = append([]byte(nil), blob...)
	return nil
}

// FileStorage writes each key to <Dir>/<key>.json.
type FileStorage struct {
	Dir string
}

// NewFileStorage returns a FileStorage rooted at dir.
func NewFileStorage(dir string) *FileStorage {
	return &FileStorage{Dir: dir}
}

func (f *FileStorage) path(key string) string {
	return filepath.Join(f.Dir, key+".json")
}

func (f *FileStorage) Get(key string) ([]byte, error) {
	if f.Dir == "" {
		return nil, errors.New(config.ErrStorePath)
	}
	data, err := os.ReadFile(f.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrStoreRead, err)
	}
	return data, nil
}

// Set replaces the blob atomically: temp file in the same directory, then rename.
func (f *FileStorage) Set(key string, blob []byte) error {
	if f.Dir == "" {
		return errors.New(config.ErrStorePath)
	}
	if err := os.MkdirAll(f.Dir, config.DirPermUserRWX); err != nil {
		return fmt.Errorf("%s: %w", config.ErrStoreWrite, err)
	}

	tmp, err := os.CreateTemp(f.Dir, config.TmpFilePattern)
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrStoreWrite, err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(blob); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%s: %w", config.ErrStoreWrite, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%s: %w", config.ErrStoreWrite, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%s: %w", config.ErrStoreWrite, err)
	}
	if err := os.Chmod(tmpName, config.FilePermUserRW); err != nil {
		return fmt.Errorf("%s: %w", config.ErrStoreWrite, err)
	}
	if err := os.Rename(tmpName, f.path(key)); err != nil {
		return fmt.Errorf("%s: %w", config.ErrStoreWrite, err)
	}
	return nil
}
