// Package snapshot holds the persisted rider→races membership state.
//
// A snapshot is the last known startlist state across all tracked races,
// keyed by rider key. It is loaded at the start of a run, replaced wholesale
// at the end, and never partially mutated on disk.
package snapshot

import (
	"sort"

	"peloton/internal/registry"
)

type entry struct {
	name  string
	races map[string]struct{}
}

// Snapshot maps rider keys to the set of race identifiers the rider is
// currently listed for, plus the rider display name. The first name seen
// for a key wins; renames are not reconciled.
type Snapshot struct {
	riders map[string]*entry
}

// New returns an empty snapshot.
func New() *Snapshot {
	return &Snapshot{riders: make(map[string]*entry)}
}

// RiderCount returns the number of riders present in at least one race.
func (s *Snapshot) RiderCount() int {
	return len(s.riders)
}

// Name returns the stored display name for a rider key.
func (s *Snapshot) Name(key string) string {
	if e, ok := s.riders[key]; ok {
		return e.name
	}
	return ""
}

// Contains reports whether the rider is listed for the given race.
func (s *Snapshot) Contains(key, raceID string) bool {
	e, ok := s.riders[key]
	if !ok {
		return false
	}
	_, in := e.races[raceID]
	return in
}

// Races returns the sorted race identifiers the rider is listed for.
func (s *Snapshot) Races(key string) []string {
	e, ok := s.riders[key]
	if !ok {
		return nil
	}
	races := make([]string, 0, len(e.races))
	for id := range e.races {
		races = append(races, id)
	}
	sort.Strings(races)
	return races
}

// RiderKeys returns all rider keys in ascending order.
func (s *Snapshot) RiderKeys() []string {
	keys := make([]string, 0, len(s.riders))
	for key := range s.riders {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// KeysInRace returns the rider keys listed for a race, in ascending order.
func (s *Snapshot) KeysInRace(raceID string) []string {
	var keys []string
	for key, e := range s.riders {
		if _, in := e.races[raceID]; in {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}

// Add records that the rider is listed for the race. The display name is
// only stored the first time a key is seen.
func (s *Snapshot) Add(key, name, raceID string) {
	e, ok := s.riders[key]
	if !ok {
		e = &entry{name: name, races: make(map[string]struct{})}
		s.riders[key] = e
	}
	e.races[raceID] = struct{}{}
}

// Remove clears the rider's membership for one race. A rider left in zero
// races is dropped from the snapshot entirely.
func (s *Snapshot) Remove(key, raceID string) {
	e, ok := s.riders[key]
	if !ok {
		return
	}
	delete(e.races, raceID)
	if len(e.races) == 0 {
		delete(s.riders, key)
	}
}

// Clone returns a deep copy of the snapshot.
func (s *Snapshot) Clone() *Snapshot {
	out := New()
	for key, e := range s.riders {
		races := make(map[string]struct{}, len(e.races))
		for id := range e.races {
			races[id] = struct{}{}
		}
		out.riders[key] = &entry{name: e.name, races: races}
	}
	return out
}

// PruneUnknownRaces drops memberships referencing races absent from the
// registry and returns the number of memberships removed. The registry is
// authoritative; stale races linger in old snapshots after config edits.
func (s *Snapshot) PruneUnknownRaces(reg *registry.Registry) int {
	dropped := 0
	for key, e := range s.riders {
		for id := range e.races {
			if !reg.Contains(id) {
				delete(e.races, id)
				dropped++
			}
		}
		if len(e.races) == 0 {
			delete(s.riders, key)
		}
	}
	return dropped
}
