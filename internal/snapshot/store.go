package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"peloton/internal/fileutil"
	"peloton/internal/logging"
)

// persistedEntry is the on-disk form of one rider.
type persistedEntry struct {
	Name  string   `json:"name"`
	Races []string `json:"races"`
}

// Store reads and writes the snapshot file.
type Store struct {
	path   string
	logger *slog.Logger
}

// NewStore creates a store for the given snapshot path.
func NewStore(path string, logger *slog.Logger) *Store {
	return &Store{
		path:   path,
		logger: logging.NewComponentLogger(logger, "snapshot"),
	}
}

// Load reads the persisted snapshot. A missing file yields an empty
// snapshot; a file that exists but cannot be parsed is an error, so
// corrupted state is never silently mistaken for a first run.
func (s *Store) Load() (*Snapshot, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.Debug("no prior snapshot, starting empty", logging.String("path", s.path))
			return New(), nil
		}
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	if len(data) == 0 {
		return nil, fmt.Errorf("parse snapshot %s: file is empty", s.path)
	}

	var persisted map[string]persistedEntry
	if err := json.Unmarshal(data, &persisted); err != nil {
		return nil, fmt.Errorf("parse snapshot %s: %w", s.path, err)
	}

	snap := New()
	for key, e := range persisted {
		if strings.TrimSpace(key) == "" {
			continue
		}
		for _, raceID := range e.Races {
			snap.Add(key, e.Name, raceID)
		}
	}

	s.logger.Debug("loaded snapshot",
		logging.Int("riders", snap.RiderCount()),
		logging.String("path", s.path))
	return snap, nil
}

// Save replaces the persisted snapshot wholesale. The write is atomic, so
// a failed save leaves the previous snapshot intact.
func (s *Store) Save(snap *Snapshot) error {
	persisted := make(map[string]persistedEntry, snap.RiderCount())
	for _, key := range snap.RiderKeys() {
		persisted[key] = persistedEntry{
			Name:  snap.Name(key),
			Races: snap.Races(key),
		}
	}

	data, err := json.MarshalIndent(persisted, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	data = append(data, '\n')

	if err := fileutil.WriteFileAtomic(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}

	s.logger.Debug("saved snapshot",
		logging.Int("riders", snap.RiderCount()),
		logging.String("path", s.path))
	return nil
}
