// Package prefs persists sender preferences such as the last receiver address.
package prefs

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Prefs holds values remembered between runs.
type Prefs struct {
	Address string `yaml:"address"`
}

// Load reads preferences from disk. Missing files return empty preferences.
func Load(path string) (Prefs, error) {
	var p Prefs
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return p, nil
		}
		return p, err
	}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return p, err
	}
	p.Address = strings.TrimSpace(p.Address)
	return p, nil
}

// Save writes preferences to disk, creating parent directories as needed.
func Save(path string, p Prefs) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(p)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// Store is a file-backed Prefs value that remembers what it last read or wrote,
// so its own writes are not reported as external edits.
type Store struct {
	path string

	mu  sync.Mutex
	cur Prefs
}

// Open loads the store at path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("prefs path is required")
	}
	p, err := Load(path)
	if err != nil {
		return nil, err
	}
	return &Store{path: filepath.Clean(path), cur: p}, nil
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Get returns the current preferences.
func (s *Store) Get() Prefs {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cur
}

// SetAddress records the last address and writes it to disk.
func (s *Store) SetAddress(address string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.cur
	next.Address = strings.TrimSpace(address)
	if err := Save(s.path, next); err != nil {
		return err
	}
	s.cur = next
	return nil
}

// reload rereads the file and reports whether the address changed.
func (s *Store) reload() (Prefs, bool, error) {
	p, err := Load(s.path)
	if err != nil {
		return Prefs{}, false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	changed := p.Address != s.cur.Address
	s.cur = p
	return p, changed, nil
}
