package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/bytedance/sonic"
)

// FileStateRepository keeps client state in a single JSON object on disk.
type FileStateRepository struct {
	path string
	mu   sync.Mutex
}

func NewFileStateRepository(path string) *FileStateRepository {
	return &FileStateRepository{path: path}
}

func (r *FileStateRepository) Get(ctx context.Context, key string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	state, err := r.load()
	if err != nil {
		return "", err
	}
	value, ok := state[key]
	if !ok {
		return "", ErrKeyNotFound
	}
	return value, nil
}

func (r *FileStateRepository) Set(ctx context.Context, key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	state, err := r.load()
	if err != nil {
		return err
	}
	state[key] = value
	return r.save(state)
}

func (r *FileStateRepository) Delete(ctx context.Context, keys ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	state, err := r.load()
	if err != nil {
		return err
	}
	for _, k := range keys {
		delete(state, k)
	}
	return r.save(state)
}

func (r *FileStateRepository) load() (map[string]string, error) {
	state := make(map[string]string)
	b, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return state, nil
		}
		return nil, fmt.Errorf("read client state: %w", err)
	}
	if len(b) == 0 {
		return state, nil
	}
	if err := sonic.Unmarshal(b, &state); err != nil {
		return nil, fmt.Errorf("decode client state: %w", err)
	}
	return state, nil
}

// save writes through a temp file so a crash never leaves half a credential.
func (r *FileStateRepository) save(state map[string]string) error {
	if dir := filepath.Dir(r.path); dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("create state dir: %w", err)
		}
	}
	b, err := sonic.ConfigDefault.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return fmt.Errorf("write client state: %w", err)
	}
	return os.Rename(tmp, r.path)
}
