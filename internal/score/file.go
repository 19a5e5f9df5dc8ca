package score

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// fileKV keeps all keys in one JSON object on disk.
type fileKV struct {
	mu   sync.Mutex
	path string
}

// NewFileKV returns a KV persisted to a JSON file at path. The file and its
// directory are created on first write.
func NewFileKV(path string) KV { return &fileKV{path: path} }

func (f *fileKV) Get(ctx context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	vals, err := f.read()
	if err != nil {
		return "", false, err
	}
	v, ok := vals[key]
	return v, ok, nil
}

func (f *fileKV) Set(ctx context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	vals, err := f.read()
	if err != nil {
		// Corrupt files are overwritten.
		vals = map[string]string{}
	}
	vals[key] = value
	return f.write(vals)
}

// read best-effort reads the file; a missing file is an empty map.
func (f *fileKV) read() (map[string]string, error) {
	vals := map[string]string{}
	b, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return vals, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(b, &vals); err != nil {
		return nil, fmt.Errorf("decode %s: %w", f.path, err)
	}
	return vals, nil
}

// write writes JSON via a temp file then rename.
func (f *fileKV) write(vals map[string]string) error {
	if dir := filepath.Dir(f.path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}
	b, err := json.MarshalIndent(vals, "", "  ")
	if err != nil {
		return err
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, f.path)
}
