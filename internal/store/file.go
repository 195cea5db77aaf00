package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const fileDataVersion = 1

type fileEnvelope struct {
	Version int                        `json:"version"`
	Values  map[string]json.RawMessage `json:"values"`
}

// FileKV persists every key in one JSON file. Each Put rewrites the file
// through a temp file and rename.
type FileKV struct {
	mu       sync.RWMutex
	filePath string
	values   map[string]json.RawMessage
}

// NewFileKV opens path, creating it and its directory when missing.
func NewFileKV(path string) (*FileKV, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	f := &FileKV{filePath: path, values: map[string]json.RawMessage{}}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := f.persistLocked(); err != nil {
			return nil, fmt.Errorf("initialize data file: %w", err)
		}
		return f, nil
	}
	if err := f.load(); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *FileKV) load() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.filePath)
	if err != nil {
		return fmt.Errorf("read data file: %w", err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		f.values = map[string]json.RawMessage{}
		return nil
	}

	var envelope fileEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return fmt.Errorf("parse data file envelope: %w", err)
	}
	if envelope.Values == nil {
		envelope.Values = map[string]json.RawMessage{}
	}
	f.values = envelope.Values
	return nil
}

func (f *FileKV) Get(_ context.Context, key string) ([]byte, bool, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	v, ok := f.values[key]
	if !ok {
		return nil, false, nil
	}
	copied := make([]byte, len(v))
	copy(copied, v)
	return copied, true, nil
}

// Put stores value, which must be valid JSON.
func (f *FileKV) Put(_ context.Context, key string, value []byte) error {
	if !json.Valid(value) {
		return fmt.Errorf("put %s: value is not valid JSON", key)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	previous, had := f.values[key]
	copied := make([]byte, len(value))
	copy(copied, value)
	f.values[key] = copied
	if err := f.persistLocked(); err != nil {
		if had {
			f.values[key] = previous
		} else {
			delete(f.values, key)
		}
		return err
	}
	return nil
}

func (f *FileKV) persistLocked() error {
	data, err := json.MarshalIndent(fileEnvelope{Version: fileDataVersion, Values: f.values}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal data: %w", err)
	}
	tmpPath := f.filePath + ".tmp"
	if err := os.WriteFile(tmpPath, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write temp data file: %w", err)
	}
	if err := os.Rename(tmpPath, f.filePath); err != nil {
		return fmt.Errorf("replace data file: %w", err)
	}
	return nil
}

var _ KV = (*FileKV)(nil)
