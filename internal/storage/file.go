package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// File is a Store persisted as a single JSON document on disk, the durable
// per-device storage a browser would keep in localStorage. The whole map is
// rewritten on every Set; cart-sized payloads make that cheap.
type File struct {
	mu   sync.Mutex
	path string
}

// NewFile creates the parent directory if missing.
func NewFile(path string) (*File, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage file path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &File{path: path}, nil
}

// load reads the document. A missing or unparsable file yields an empty map.
func (f *File) load() map[string]string {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return map[string]string{}
	}
	var values map[string]string
	if err := json.Unmarshal(data, &values); err != nil || values == nil {
		return map[string]string{}
	}
	return values
}

func (f *File) flush(values map[string]string) error {
	data, err := json.Marshal(values)
	if err != nil {
		return err
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write storage file: %w", err)
	}
	return os.Rename(tmp, f.path)
}

func (f *File) Get(ctx context.Context, key string) ([]byte, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.load()[key]
	if !ok {
		return nil, false, nil
	}
	return []byte(v), true, nil
}

func (f *File) Set(ctx context.Context, key string, value []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	values := f.load()
	values[key] = string(value)
	return f.flush(values)
}

func (f *File) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	values := f.load()
	if _, ok := values[key]; !ok {
		return nil
	}
	delete(values, key)
	return f.flush(values)
}
