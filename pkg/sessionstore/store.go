// Package sessionstore persists authenticated browser state per platform
// so a human does not have to re-authenticate on every run.
//
// Each platform owns at most one record, stored as <platform>.json under
// the state directory. Writes are last-write-wins and atomic (temp file
// plus rename), guarded by a per-platform lock so concurrent publish runs
// cannot interleave a record mid-serialization.
package sessionstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

var ErrNotFound = errors.New("sessionstore: session not found")

// Cookie is one browser cookie as captured from the authenticated context.
type Cookie struct {
	Name     string  `json:"name"`
	Value    string  `json:"value"`
	Domain   string  `json:"domain"`
	Path     string  `json:"path"`
	Expires  float64 `json:"expires"`
	HTTPOnly bool    `json:"http_only"`
	Secure   bool    `json:"secure"`
	SameSite string  `json:"same_site,omitempty"`
}

// State is the persisted session record for one platform.
type State struct {
	Platform  string            `json:"platform"`
	Cookies   []Cookie          `json:"cookies"`
	Storage   map[string]string `json:"storage,omitempty"`
	URL       string            `json:"url"`
	SavedAt   time.Time         `json:"saved_at"`
	ExpiresAt time.Time         `json:"expires_at"`
}

// Store is a file-backed key-value store keyed by platform name.
type Store struct {
	dir string

	mu    sync.Mutex
	locks map[string]*sync.Mutex

	// now is swappable for validity tests
	now func() time.Time
}

// New creates a store rooted at dir, creating it if needed.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("sessionstore: init directory %s: %w", dir, err)
	}
	return &Store{
		dir:   dir,
		locks: make(map[string]*sync.Mutex),
		now:   time.Now,
	}, nil
}

func (s *Store) platformLock(platform string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[platform]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[platform] = lock
	}
	return lock
}

func (s *Store) pathFor(platform string) (string, error) {
	if platform == "" {
		return "", fmt.Errorf("sessionstore: empty platform name")
	}
	if strings.ContainsAny(platform, "/\\") {
		return "", fmt.Errorf("sessionstore: invalid platform name %q", platform)
	}
	return filepath.Join(s.dir, platform+".json"), nil
}

// Save persists the state for a platform, overwriting any prior record.
// SavedAt is stamped here; ExpiresAt is derived from maxAge.
func (s *Store) Save(platform string, state *State, maxAge time.Duration) error {
	path, err := s.pathFor(platform)
	if err != nil {
		return err
	}

	lock := s.platformLock(platform)
	lock.Lock()
	defer lock.Unlock()

	state.Platform = platform
	state.SavedAt = s.now()
	state.ExpiresAt = state.SavedAt.Add(maxAge)

	b, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("sessionstore: marshal %s: %w", platform, err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return fmt.Errorf("sessionstore: write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp) // best-effort cleanup
		return fmt.Errorf("sessionstore: atomic rename %s: %w", path, err)
	}
	return nil
}

// Load retrieves the persisted state for a platform.
// It returns ErrNotFound when no record exists.
func (s *Store) Load(platform string) (*State, error) {
	path, err := s.pathFor(platform)
	if err != nil {
		return nil, err
	}

	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("sessionstore: read %s: %w", path, err)
	}

	var state State
	if err := json.Unmarshal(b, &state); err != nil {
		return nil, fmt.Errorf("sessionstore: parse %s: %w", path, err)
	}
	return &state, nil
}

// IsValid reports whether the platform's record exists and is younger
// than maxAge. A record aged exactly maxAge is still valid. Validity is
// a pure function of now minus SavedAt; ExpiresAt is informational.
func (s *Store) IsValid(platform string, maxAge time.Duration) bool {
	state, err := s.Load(platform)
	if err != nil {
		return false
	}
	return s.now().Sub(state.SavedAt) <= maxAge
}

// Clear removes the platform's record. Clearing an absent record is a no-op.
func (s *Store) Clear(platform string) error {
	path, err := s.pathFor(platform)
	if err != nil {
		return err
	}

	lock := s.platformLock(platform)
	lock.Lock()
	defer lock.Unlock()

	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("sessionstore: remove %s: %w", path, err)
	}
	return nil
}

// List returns the platform names that currently have a record.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("sessionstore: list %s: %w", s.dir, err)
	}
	var platforms []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		platforms = append(platforms, strings.TrimSuffix(name, ".json"))
	}
	return platforms, nil
}
