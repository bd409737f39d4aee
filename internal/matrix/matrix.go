// Package matrix derives the rider×race presence table from a snapshot.
//
// Row order never depends on map iteration: rows are sorted by display name
// using Unicode case folding, with the rider key as tie-breaker, so the same
// snapshot always yields byte-identical output.
package matrix

import (
	"fmt"
	"sort"

	"golang.org/x/text/cases"

	"peloton/internal/registry"
	"peloton/internal/snapshot"
)

// Row is one rider's line in the presence matrix. Presence follows registry
// column order.
type Row struct {
	RiderName string
	RiderKey  string
	Presence  []bool
	Count     int
}

// CountCell renders the trailing "n/total" column for the row.
func (r Row) CountCell(total int) string {
	return fmt.Sprintf("%d/%d", r.Count, total)
}

// Build converts the snapshot into ordered matrix rows.
func Build(snap *snapshot.Snapshot, reg *registry.Registry) []Row {
	races := reg.Races()
	fold := cases.Fold()

	type sortableRow struct {
		row      Row
		foldName string
	}

	keys := snap.RiderKeys()
	sortable := make([]sortableRow, 0, len(keys))
	for _, key := range keys {
		row := Row{
			RiderName: snap.Name(key),
			RiderKey:  key,
			Presence:  make([]bool, len(races)),
		}
		for i, race := range races {
			if snap.Contains(key, race.ID) {
				row.Presence[i] = true
				row.Count++
			}
		}
		sortable = append(sortable, sortableRow{row: row, foldName: fold.String(row.RiderName)})
	}

	sort.Slice(sortable, func(i, j int) bool {
		if sortable[i].foldName != sortable[j].foldName {
			return sortable[i].foldName < sortable[j].foldName
		}
		return sortable[i].row.RiderKey < sortable[j].row.RiderKey
	})

	rows := make([]Row, len(sortable))
	for i, s := range sortable {
		rows[i] = s.row
	}
	return rows
}
