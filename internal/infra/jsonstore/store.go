// Package jsonstore keeps the tally store in a single JSON document:
//
//	{"config": {...}, "tasks": [...]}
//
// Every Set rewrites the whole file through a temp file and rename.
package jsonstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/tally-cli/tally/internal/domain"
)

// FileName is the document created inside the data directory.
const FileName = "store.json"

// Store is a file-backed domain.Store.
type Store struct {
	Path string
	data map[string]json.RawMessage
}

var (
	_ domain.Store       = (*Store)(nil)
	_ domain.Timestamped = (*Store)(nil)
)

// Open loads dir/store.json, starting empty when the file does not exist.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	s := &Store{
		Path: filepath.Join(dir, FileName),
		data: make(map[string]json.RawMessage),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load() error {
	b, err := os.ReadFile(s.Path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", s.Path, err)
	}
	if len(b) == 0 {
		return nil
	}
	if err := json.Unmarshal(b, &s.data); err != nil {
		return fmt.Errorf("decode %s: %w", s.Path, err)
	}
	return nil
}

// Get returns the value stored under key.
func (s *Store) Get(key string) (json.RawMessage, bool, error) {
	v, ok := s.data[key]
	return v, ok, nil
}

// Set replaces key and writes the document. On failure the in-memory
// document is left as it was.
func (s *Store) Set(key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}

	next := make(map[string]json.RawMessage, len(s.data)+1)
	for k, v := range s.data {
		next[k] = v
	}
	next[key] = raw

	if err := s.write(next); err != nil {
		return err
	}
	s.data = next
	return nil
}

// All returns a copy of the document.
func (s *Store) All() (map[string]json.RawMessage, error) {
	all := make(map[string]json.RawMessage, len(s.data))
	for k, v := range s.data {
		all[k] = v
	}
	return all, nil
}

// UpdatedAt returns the modification time of the document when key is set,
// zero otherwise. Keys share the file, so this is the time of the last Set of
// any key.
func (s *Store) UpdatedAt(key string) (time.Time, error) {
	if _, ok := s.data[key]; !ok {
		return time.Time{}, nil
	}
	info, err := os.Stat(s.Path)
	if err != nil {
		return time.Time{}, fmt.Errorf("stat %s: %w", s.Path, err)
	}
	return info.ModTime(), nil
}

// Close is a no-op; every Set is already on disk.
func (s *Store) Close() error { return nil }

func (s *Store) write(doc map[string]json.RawMessage) error {
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode store: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.Path), ".store-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(append(b, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("write store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write store: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0600); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), s.Path); err != nil {
		return fmt.Errorf("replace %s: %w", s.Path, err)
	}
	return nil
}
