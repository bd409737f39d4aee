package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"peloton/internal/diff"
)

var testTime = time.Date(2026, 2, 28, 6, 0, 0, 0, time.UTC)

func openStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestRecordRunAndQuery(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	run := Run{
		ID:           "run-1",
		StartedAt:    testTime,
		FinishedAt:   testTime.Add(30 * time.Second),
		RacesFetched: 2,
		Riders:       3,
		Events:       2,
	}
	events := []diff.ChangeEvent{
		{Timestamp: testTime, RaceID: "omloop", Kind: diff.KindAdded, RiderName: "Rider One", RiderKey: "rider/u1"},
		{Timestamp: testTime, RaceID: "kbk", Kind: diff.KindRemoved, RiderName: "Rider Two", RiderKey: "rider/u2"},
	}
	if err := store.RecordRun(ctx, run, events); err != nil {
		t.Fatal(err)
	}

	got, err := store.RecentEvents(ctx, Query{})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("events = %d", len(got))
	}
	// Newest first: the kbk event was inserted last.
	if got[0].RaceID != "kbk" || got[0].Kind != diff.KindRemoved {
		t.Fatalf("first event = %+v", got[0])
	}
	if !got[0].Timestamp.Equal(testTime) {
		t.Fatalf("timestamp = %v", got[0].Timestamp)
	}

	count, err := store.RunCount(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Fatalf("run count = %d", count)
	}
}

func TestRecentEventsFilters(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	run := Run{ID: "run-1", StartedAt: testTime, FinishedAt: testTime, RacesFetched: 1, Riders: 2, Events: 3}
	events := []diff.ChangeEvent{
		{Timestamp: testTime, RaceID: "omloop", Kind: diff.KindAdded, RiderName: "A", RiderKey: "rider/a"},
		{Timestamp: testTime, RaceID: "omloop", Kind: diff.KindAdded, RiderName: "B", RiderKey: "rider/b"},
		{Timestamp: testTime, RaceID: "kbk", Kind: diff.KindAdded, RiderName: "A", RiderKey: "rider/a"},
	}
	if err := store.RecordRun(ctx, run, events); err != nil {
		t.Fatal(err)
	}

	byRace, err := store.RecentEvents(ctx, Query{RaceID: "omloop"})
	if err != nil {
		t.Fatal(err)
	}
	if len(byRace) != 2 {
		t.Fatalf("race filter events = %d", len(byRace))
	}

	byRider, err := store.RecentEvents(ctx, Query{RiderKey: "rider/a"})
	if err != nil {
		t.Fatal(err)
	}
	if len(byRider) != 2 {
		t.Fatalf("rider filter events = %d", len(byRider))
	}

	both, err := store.RecentEvents(ctx, Query{RaceID: "kbk", RiderKey: "rider/a"})
	if err != nil {
		t.Fatal(err)
	}
	if len(both) != 1 {
		t.Fatalf("combined filter events = %d", len(both))
	}
}

func TestRecentEventsLimit(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	run := Run{ID: "run-1", StartedAt: testTime, FinishedAt: testTime, RacesFetched: 1, Riders: 5, Events: 5}
	var events []diff.ChangeEvent
	for _, key := range []string{"a", "b", "c", "d", "e"} {
		events = append(events, diff.ChangeEvent{
			Timestamp: testTime, RaceID: "omloop", Kind: diff.KindAdded,
			RiderName: key, RiderKey: "rider/" + key,
		})
	}
	if err := store.RecordRun(ctx, run, events); err != nil {
		t.Fatal(err)
	}

	got, err := store.RecentEvents(ctx, Query{Limit: 2})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("events = %d", len(got))
	}
	if got[0].RiderKey != "rider/e" {
		t.Fatalf("newest first expected, got %s", got[0].RiderKey)
	}
}

func TestReopenKeepsData(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "history.db")

	store, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	run := Run{ID: "run-1", StartedAt: testTime, FinishedAt: testTime, RacesFetched: 1, Riders: 1, Events: 0}
	if err := store.RecordRun(context.Background(), run, nil); err != nil {
		t.Fatal(err)
	}
	if err := store.Close(); err != nil {
		t.Fatal(err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()

	count, err := reopened.RunCount(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Fatalf("run count after reopen = %d", count)
	}
}
