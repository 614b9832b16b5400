// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// FileStorage implements [Storage] as one JSON document on disk.
//
// Every write replaces the whole document through a temp file and a rename,
// so a reader sees either the old pair of keys or the new pair, never a mix.
type FileStorage struct {
	mu   sync.Mutex
	path string
}

// NewFileStorage creates a file-backed [Storage] at path.
func NewFileStorage(path string) *FileStorage {
	return &FileStorage{path: path}
}

// Path returns the location of the session document.
func (storage *FileStorage) Path() string {
	return storage.path
}

// Get implements [Storage].
func (storage *FileStorage) Get(_ context.Context, key string) (string, bool, error) {
	storage.mu.Lock()
	defer storage.mu.Unlock()

	document, err := storage.read()
	if err != nil {
		return "", false, err
	}

	value, ok := document[key]
	return value, ok, nil
}

// SetAll implements [Storage].
func (storage *FileStorage) SetAll(_ context.Context, values map[string]string) error {
	storage.mu.Lock()
	defer storage.mu.Unlock()

	document, err := storage.read()
	if err != nil {
		return err
	}

	for key, value := range values {
		document[key] = value
	}

	return storage.write(document)
}

// DeleteAll implements [Storage]. The file is removed once it holds no key.
func (storage *FileStorage) DeleteAll(_ context.Context, keys ...string) error {
	storage.mu.Lock()
	defer storage.mu.Unlock()

	document, err := storage.read()
	if err != nil {
		return err
	}

	for _, key := range keys {
		delete(document, key)
	}

	if len(document) == 0 {
		if err := os.Remove(storage.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("file_session_remove_failed: %w", err)
		}
		return nil
	}

	return storage.write(document)
}

// read loads the document; a missing file is an empty document.
func (storage *FileStorage) read() (map[string]string, error) {
	document := make(map[string]string)

	raw, err := os.ReadFile(storage.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return document, nil
		}
		return nil, fmt.Errorf("file_session_read_failed: %w", err)
	}

	if len(raw) == 0 {
		return document, nil
	}

	if err := json.Unmarshal(raw, &document); err != nil {
		return nil, fmt.Errorf("file_session_decode_failed: %w", err)
	}

	return document, nil
}

// write replaces the document atomically.
func (storage *FileStorage) write(document map[string]string) error {
	dir := filepath.Dir(storage.path)
	if err := os.MkdirAll(dir, SessionDirMode); err != nil {
		return fmt.Errorf("file_session_mkdir_failed: %w", err)
	}

	raw, err := json.MarshalIndent(document, "", "  ")
	if err != nil {
		return fmt.Errorf("file_session_encode_failed: %w", err)
	}

	temp, err := os.CreateTemp(dir, ".session-*.json")
	if err != nil {
		return fmt.Errorf("file_session_temp_failed: %w", err)
	}
	tempName := temp.Name()
	defer os.Remove(tempName)

	if _, err := temp.Write(raw); err != nil {
		_ = temp.Close()
		return fmt.Errorf("file_session_write_failed: %w", err)
	}
	if err := temp.Chmod(SessionFileMode); err != nil {
		_ = temp.Close()
		return fmt.Errorf("file_session_chmod_failed: %w", err)
	}
	if err := temp.Close(); err != nil {
		return fmt.Errorf("file_session_close_failed: %w", err)
	}

	if err := os.Rename(tempName, storage.path); err != nil {
		return fmt.Errorf("file_session_rename_failed: %w", err)
	}

	return nil
}
