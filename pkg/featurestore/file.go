package featurestore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

type stateFile struct {
	Features []State `yaml:"features"`
}

// FileStore keeps states in a YAML file. Writes go to a temporary file that
// is renamed over the target, so readers never see a partial file.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore returns a store backed by the YAML file at path. The file is created on first save.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the file location.
func (f *FileStore) Path() string {
	return f.path
}

// Load returns no states if the file does not exist yet.
func (f *FileStore) Load(ctx context.Context) ([]State, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Join(ErrLoadFailed, err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Join(ErrLoadFailed, err)
	}

	var doc stateFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Join(ErrLoadFailed, ErrInvalidStateFile, err)
	}
	for i, s := range doc.Features {
		if s.Name == "" {
			return nil, errors.Join(ErrLoadFailed, ErrInvalidStateFile, fmt.Errorf("entry %d has no name", i))
		}
	}
	return doc.Features, nil
}

func (f *FileStore) Save(ctx context.Context, states []State) error {
	if err := ctx.Err(); err != nil {
		return errors.Join(ErrSaveFailed, err)
	}

	data, err := yaml.Marshal(stateFile{Features: states})
	if err != nil {
		return errors.Join(ErrSaveFailed, err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Join(ErrSaveFailed, err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return errors.Join(ErrSaveFailed, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return errors.Join(ErrSaveFailed, err)
	}
	if err := tmp.Close(); err != nil {
		return errors.Join(ErrSaveFailed, err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return errors.Join(ErrSaveFailed, err)
	}
	return nil
}

func (f *FileStore) Close() error { return nil }
