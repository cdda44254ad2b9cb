package kv

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"syscall"
)

// Store is durable storage for string-keyed blobs.
type Store interface {
	// Get returns the value stored under key. The boolean reports whether
	// the key was present.
	Get(key string) ([]byte, bool, error)

	// Set stores value under key, replacing any previous value.
	Set(key string, value []byte) error

	// Remove deletes key. Removing a missing key is not an error.
	Remove(key string) error
}

// FileStore is a Store backed by a JSON file with locking.
type FileStore struct {
	dir string
}

// NewFileStore creates a file store rooted at dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// Dir returns the directory holding the store files.
func (s *FileStore) Dir() string {
	return s.dir
}

func (s *FileStore) dataPath() string {
	return filepath.Join(s.dir, "store.json")
}

func (s *FileStore) lockPath() string {
	return filepath.Join(s.dir, "store.lock")
}

// Get reads key from disk.
func (s *FileStore) Get(key string) ([]byte, bool, error) {
	entries, err := s.load()
	if err != nil {
		return nil, false, err
	}
	value, ok := entries[key]
	if !ok {
		return nil, false, nil
	}
	return []byte(value), true, nil
}

// Set writes key to disk.
func (s *FileStore) Set(key string, value []byte) error {
	return s.update(func(entries map[string]string) {
		entries[key] = string(value)
	})
}

// Remove deletes key from disk.
func (s *FileStore) Remove(key string) error {
	return s.update(func(entries map[string]string) {
		delete(entries, key)
	})
}

// load reads all entries. Returns an empty map if the file doesn't exist.
func (s *FileStore) load() (map[string]string, error) {
	data, err := os.ReadFile(s.dataPath())
	if os.IsNotExist(err) {
		return make(map[string]string), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read store file: %w", err)
	}

	entries := make(map[string]string)
	if len(bytes.TrimSpace(data)) == 0 {
		return entries, nil
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("unmarshal store: %w", err)
	}
	return entries, nil
}

// save writes all entries atomically via a temp file.
func (s *FileStore) save(entries map[string]string) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal store: %w", err)
	}

	if existing, err := os.ReadFile(s.dataPath()); err == nil {
		if bytes.Equal(existing, data) {
			return nil
		}
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("read store file: %w", err)
	}

	tmpFile, err := os.CreateTemp(s.dir, filepath.Base(s.dataPath())+".tmp")
	if err != nil {
		return fmt.Errorf("create temp store file: %w", err)
	}
	name := tmpFile.Name()
	_, err = tmpFile.Write(data)
	if err1 := tmpFile.Close(); err1 != nil && err == nil {
		err = err1
	}
	if err != nil {
		os.Remove(name)
		return fmt.Errorf("write temp store file: %w", err)
	}

	if err := os.Rename(name, s.dataPath()); err != nil {
		os.Remove(name)
		return fmt.Errorf("rename store file: %w", err)
	}

	return nil
}

// update reads, modifies, and writes the entries while holding the lock.
func (s *FileStore) update(fn func(entries map[string]string)) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("create store dir: %w", err)
	}

	lockFile, err := os.OpenFile(s.lockPath(), os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return fmt.Errorf("open lock file: %w", err)
	}
	defer lockFile.Close()

	if err := syscall.Flock(int(lockFile.Fd()), syscall.LOCK_EX); err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	defer syscall.Flock(int(lockFile.Fd()), syscall.LOCK_UN)

	entries, err := s.load()
	if err != nil {
		return err
	}

	fn(entries)

	return s.save(entries)
}
