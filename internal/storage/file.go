package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/felixgeelhaar/scribe/internal/errors"
)

// FileStore keeps values in a single JSON object on disk.
// Every write replaces the file through a temp file and rename.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore creates a store backed by path. The file is created on first write.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file
func (f *FileStore) Path() string {
	return f.path
}

func (f *FileStore) Get(key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := f.load()
	if err != nil {
		return "", false, err
	}
	v, ok := data[key]
	return v, ok, nil
}

func (f *FileStore) Put(values map[string]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := f.load()
	if err != nil {
		// a corrupt file is replaced rather than blocking a new login
		if !errors.HasCode(err, errors.ErrCodeStorageCorrupt) {
			return err
		}
		data = make(map[string]string)
	}
	for k, v := range values {
		data[k] = v
	}
	return f.save(data)
}

func (f *FileStore) Delete(keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := f.load()
	if err != nil {
		if errors.HasCode(err, errors.ErrCodeStorageCorrupt) {
			return f.save(map[string]string{})
		}
		return err
	}

	changed := false
	for _, k := range keys {
		if _, ok := data[k]; ok {
			delete(data, k)
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return f.save(data)
}

func (f *FileStore) Close() error { return nil }

func (f *FileStore) load() (map[string]string, error) {
	raw, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return make(map[string]string), nil
	}
	if err != nil {
		return nil, errors.NewStorageReadError(f.path, err)
	}
	if len(raw) == 0 {
		return make(map[string]string), nil
	}

	data := make(map[string]string)
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, errors.NewStorageCorruptError(f.path, err)
	}
	return data, nil
}

func (f *FileStore) save(data map[string]string) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return errors.NewStorageWriteError(f.path, err)
	}

	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return errors.NewStorageWriteError(f.path, err)
	}

	tmp, err := os.CreateTemp(dir, ".session-*.tmp")
	if err != nil {
		return errors.NewStorageWriteError(f.path, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return errors.NewStorageWriteError(f.path, err)
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return errors.NewStorageWriteError(f.path, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return errors.NewStorageWriteError(f.path, err)
	}
	if err := tmp.Close(); err != nil {
		return errors.NewStorageWriteError(f.path, err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		return errors.NewStorageWriteError(f.path, err)
	}
	return nil
}
