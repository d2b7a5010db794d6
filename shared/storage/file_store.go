package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	json "github.com/goccy/go-json"
)

// FileStore manages a persistent key-value document on disk. The whole
// document is rewritten on every mutation.
type FileStore struct {
	filePath string
	values   map[string]string
	mu       sync.RWMutex
}

// NewFileStore creates a file store under dataDir, loading any existing document.
func NewFileStore(dataDir string) (*FileStore, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	fs := &FileStore{
		filePath: filepath.Join(dataDir, "coach_store.json"),
		values:   make(map[string]string),
	}

	if err := fs.load(); err != nil {
		return nil, fmt.Errorf("failed to load store data: %w", err)
	}

	return fs, nil
}

func (fs *FileStore) Get(key string) (string, bool, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	v, ok := fs.values[key]
	return v, ok, nil
}

func (fs *FileStore) Set(key, value string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.values[key] = value
	return fs.save()
}

func (fs *FileStore) Delete(key string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	delete(fs.values, key)
	return fs.save()
}

// load reads the document from disk
func (fs *FileStore) load() error {
	file, err := os.Open(fs.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			// Nothing stored yet
			return nil
		}
		return fmt.Errorf("failed to open store file: %w", err)
	}
	defer file.Close()

	if err := json.NewDecoder(file).Decode(&fs.values); err != nil {
		return fmt.Errorf("failed to decode store data: %w", err)
	}
	return nil
}

// save writes to a temp file first so a crash never leaves a half-written document.
func (fs *FileStore) save() error {
	tmp := fs.filePath + ".tmp"
	file, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(fs.values); err != nil {
		file.Close()
		return fmt.Errorf("failed to encode store data: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close store file: %w", err)
	}
	return os.Rename(tmp, fs.filePath)
}
