// Package diff compares freshly fetched startlists against the prior
// snapshot and produces the ordered change events plus the next snapshot.
//
// This is the core of the tracker. Races are processed in registry order;
// within a race, ADDED events precede REMOVED events and each group is
// ordered by rider key ascending, so a run's output is fully deterministic.
package diff

import (
	"sort"
	"time"

	"peloton/internal/registry"
	"peloton/internal/roster"
	"peloton/internal/snapshot"
)

// Kind classifies a change event.
type Kind string

const (
	KindAdded   Kind = "ADDED"
	KindRemoved Kind = "REMOVED"
)

// ChangeEvent records one rider joining or leaving one race's startlist.
// Events are immutable once written to the change log.
type ChangeEvent struct {
	Timestamp time.Time
	RaceID    string
	Kind      Kind
	RiderName string
	RiderKey  string
}

// Compute diffs the fetched startlists against prev and returns the change
// events along with the next snapshot. prev is not modified.
//
// A race with an empty fetched roster is treated as transiently unavailable:
// its prior membership carries forward unchanged and it contributes no
// events. This deliberately cannot distinguish a source outage from a
// legitimately emptied startlist; see the tracker docs.
//
// When prev contains no riders at all this is the first run: the snapshot
// is populated normally but no events are emitted, otherwise the entire
// initial population would be logged as additions.
func Compute(prev *snapshot.Snapshot, fetched map[string][]roster.Rider, reg *registry.Registry, now time.Time) ([]ChangeEvent, *snapshot.Snapshot) {
	next := prev.Clone()
	firstRun := prev.RiderCount() == 0
	now = now.UTC()

	var events []ChangeEvent
	for _, race := range reg.Races() {
		riders := fetched[race.ID]
		if len(riders) == 0 {
			// No data this cycle; carry the prior membership forward.
			continue
		}

		fetchedNames := make(map[string]string, len(riders))
		for _, rider := range riders {
			if rider.Key == "" {
				continue
			}
			if _, seen := fetchedNames[rider.Key]; !seen {
				fetchedNames[rider.Key] = rider.Name
			}
		}

		priorKeys := prev.KeysInRace(race.ID)

		added := make([]string, 0, len(fetchedNames))
		for key := range fetchedNames {
			if !prev.Contains(key, race.ID) {
				added = append(added, key)
			}
		}
		sort.Strings(added)

		var removed []string
		for _, key := range priorKeys {
			if _, stillListed := fetchedNames[key]; !stillListed {
				removed = append(removed, key)
			}
		}

		for key, name := range fetchedNames {
			next.Add(key, name, race.ID)
		}
		for _, key := range removed {
			next.Remove(key, race.ID)
		}

		if firstRun {
			continue
		}

		for _, key := range added {
			events = append(events, ChangeEvent{
				Timestamp: now,
				RaceID:    race.ID,
				Kind:      KindAdded,
				RiderName: riderName(next, key, fetchedNames[key]),
				RiderKey:  key,
			})
		}
		for _, key := range removed {
			events = append(events, ChangeEvent{
				Timestamp: now,
				RaceID:    race.ID,
				Kind:      KindRemoved,
				RiderName: riderName(prev, key, ""),
				RiderKey:  key,
			})
		}
	}

	return events, next
}

func riderName(snap *snapshot.Snapshot, key, fallback string) string {
	if name := snap.Name(key); name != "" {
		return name
	}
	if fallback != "" {
		return fallback
	}
	return "Unknown"
}
