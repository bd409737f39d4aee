// Package registry loads the ordered list of tracked races.
//
// The races file is the single source of truth for which races are tracked
// and for their order: matrix columns and diff processing both follow it.
// The registry is loaded once per run and never mutated afterwards.
package registry

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Race describes one tracked race. Position in the races file defines its
// ordinal for column ordering.
type Race struct {
	ID   string `toml:"id"`
	Name string `toml:"name"`
	URL  string `toml:"url"`
}

type racesFile struct {
	Races []Race `toml:"races"`
}

// Registry holds the configured races in file order.
type Registry struct {
	races []Race
	byID  map[string]int
}

// Load reads and validates the races file.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read races file: %w", err)
	}

	var parsed racesFile
	if err := toml.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("parse races file: %w", err)
	}

	return New(parsed.Races)
}

// New builds a registry from an ordered race list.
func New(races []Race) (*Registry, error) {
	if len(races) == 0 {
		return nil, errors.New("races file defines no races")
	}

	reg := &Registry{
		races: make([]Race, 0, len(races)),
		byID:  make(map[string]int, len(races)),
	}
	for i, race := range races {
		race.ID = strings.TrimSpace(race.ID)
		race.Name = strings.TrimSpace(race.Name)
		race.URL = strings.TrimSpace(race.URL)
		if race.ID == "" {
			return nil, fmt.Errorf("race #%d: id must be set", i+1)
		}
		if race.Name == "" {
			return nil, fmt.Errorf("race %q: name must be set", race.ID)
		}
		if race.URL == "" {
			return nil, fmt.Errorf("race %q: url must be set", race.ID)
		}
		if _, dup := reg.byID[race.ID]; dup {
			return nil, fmt.Errorf("race %q: duplicate id", race.ID)
		}
		reg.byID[race.ID] = len(reg.races)
		reg.races = append(reg.races, race)
	}
	return reg, nil
}

// Races returns the races in registry order. Callers must not modify the
// returned slice.
func (r *Registry) Races() []Race {
	return r.races
}

// Len returns the number of tracked races.
func (r *Registry) Len() int {
	return len(r.races)
}

// Contains reports whether the given race identifier is tracked.
func (r *Registry) Contains(id string) bool {
	_, ok := r.byID[id]
	return ok
}

// ByID returns the race with the given identifier.
func (r *Registry) ByID(id string) (Race, bool) {
	idx, ok := r.byID[id]
	if !ok {
		return Race{}, false
	}
	return r.races[idx], true
}

// Names returns the race display names in registry order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.races))
	for i, race := range r.races {
		names[i] = race.Name
	}
	return names
}
