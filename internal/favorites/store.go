// Package favorites keeps the user's ordered list of favorite stations in a
// JSON file.
package favorites

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/adrg/xdg"

	"github.com/llehouerou/antenna/internal/station"
)

const fileName = "antenna/favorites.json"

// Store is an ordered set of stations keyed by UUID. Every mutation is saved
// immediately. Safe for concurrent use.
type Store struct {
	path   string
	logger *slog.Logger

	mu       sync.Mutex
	stations []station.Station
	onErr    func(error)
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger for load and save failures.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// OnSaveError registers fn to be called when saving fails. Save failures
// never fail the mutation itself.
func OnSaveError(fn func(error)) Option {
	return func(s *Store) { s.onErr = fn }
}

// DefaultPath returns the favorites file in the user's XDG data directory.
func DefaultPath() (string, error) {
	return xdg.DataFile(fileName)
}

// Open loads the store at path. A missing file is an empty store. An
// unreadable or corrupt file is logged and also treated as empty.
func Open(path string, opts ...Option) *Store {
	s := &Store{path: path, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.load(); err != nil {
		s.logger.Warn("favorites: load failed, starting empty", "path", path, "err", err)
	}
	return s
}

func (s *Store) load() error {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	var list []station.Station
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("decode %s: %w", s.path, err)
	}
	s.stations = list
	return nil
}

// Path returns the backing file.
func (s *Store) Path() string { return s.path }

// Add appends st unless a station with the same UUID is present.
func (s *Store) Add(st station.Station) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexLocked(st.ID()) >= 0 {
		return
	}
	s.stations = append(s.stations, st)
	s.saveLocked()
}

// Remove deletes the station with st's UUID, if present.
func (s *Store) Remove(st station.Station) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(st.ID())
	if i < 0 {
		return
	}
	s.stations = slices.Delete(s.stations, i, i+1)
	s.saveLocked()
}

// Toggle adds st when absent and removes it when present. Reports whether
// st is a favorite afterwards.
func (s *Store) Toggle(st station.Station) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexLocked(st.ID()); i >= 0 {
		s.stations = slices.Delete(s.stations, i, i+1)
		s.saveLocked()
		return false
	}
	s.stations = append(s.stations, st)
	s.saveLocked()
	return true
}

// Move moves the station at index from to index to. Out of range indexes
// leave the list unchanged and return false.
func (s *Store) Move(from, to int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.stations)
	if from < 0 || from >= n || to < 0 || to >= n {
		return false
	}
	if from == to {
		return true
	}
	st := s.stations[from]
	s.stations = slices.Delete(s.stations, from, from+1)
	s.stations = slices.Insert(s.stations, to, st)
	s.saveLocked()
	return true
}

// IsFavorite reports whether st is in the store.
func (s *Store) IsFavorite(st station.Station) bool {
	return s.Contains(st.ID())
}

// Contains reports whether a station with the given UUID is in the store.
func (s *Store) Contains(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.indexLocked(id) >= 0
}

// List returns a copy of the favorites in order.
func (s *Store) List() []station.Station {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.stations)
}

// Len returns the number of favorites.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.stations)
}

func (s *Store) indexLocked(id string) int {
	return slices.IndexFunc(s.stations, func(st station.Station) bool {
		return st.ID() == id
	})
}

func (s *Store) saveLocked() {
	if err := s.write(); err != nil {
		s.logger.Error("favorites: save failed", "path", s.path, "err", err)
		if s.onErr != nil {
			s.onErr(err)
		}
	}
}

// write replaces the file atomically.
func (s *Store) write() error {
	list := s.stations
	if list == nil {
		list = []station.Station{}
	}
	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return fmt.Errorf("encode favorites: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create favorites dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".favorites-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replace favorites: %w", err)
	}
	return nil
}
