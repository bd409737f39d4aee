package changelog

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"peloton/internal/diff"
)

var testTime = time.Date(2026, 2, 28, 6, 0, 0, 0, time.UTC)

func sampleEvents(keys ...string) []diff.ChangeEvent {
	events := make([]diff.ChangeEvent, 0, len(keys))
	for _, key := range keys {
		events = append(events, diff.ChangeEvent{
			Timestamp: testTime,
			RaceID:    "omloop",
			Kind:      diff.KindAdded,
			RiderName: "Rider " + key,
			RiderKey:  "rider/" + key,
		})
	}
	return events
}

func readLog(t *testing.T, path string) [][]string {
	t.Helper()
	file, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	return records
}

func TestAppendCreatesFileWithHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "startlist_changes.csv")
	writer := NewWriter(path, nil)

	if err := writer.Append(sampleEvents("u1")); err != nil {
		t.Fatal(err)
	}

	records := readLog(t, path)
	if len(records) != 2 {
		t.Fatalf("records = %d", len(records))
	}
	if strings.Join(records[0], ",") != "timestamp,race,change_type,rider_name,rider_url" {
		t.Fatalf("header = %v", records[0])
	}
	want := []string{"2026-02-28T06:00:00Z", "omloop", "ADDED", "Rider u1", "rider/u1"}
	for i, field := range want {
		if records[1][i] != field {
			t.Fatalf("record = %v, want %v", records[1], want)
		}
	}
}

func TestAppendPreservesPriorEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "startlist_changes.csv")
	writer := NewWriter(path, nil)

	if err := writer.Append(sampleEvents("u1", "u2")); err != nil {
		t.Fatal(err)
	}
	before, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if err := writer.Append(sampleEvents("u3")); err != nil {
		t.Fatal(err)
	}
	after, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if !strings.HasPrefix(string(after), string(before)) {
		t.Fatal("append modified prior log content")
	}

	records := readLog(t, path)
	if len(records) != 4 {
		t.Fatalf("records = %d, want header + 3", len(records))
	}
}

func TestAppendWritesHeaderOnlyOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "startlist_changes.csv")
	writer := NewWriter(path, nil)

	for i := 0; i < 3; i++ {
		if err := writer.Append(sampleEvents("u1")); err != nil {
			t.Fatal(err)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.Count(string(data), "timestamp,race"); got != 1 {
		t.Fatalf("header written %d times", got)
	}
}

func TestAppendNoEventsIsNoOp(t *testing.T) {
	path := filepath.Join(t.TempDir(), "startlist_changes.csv")
	writer := NewWriter(path, nil)

	if err := writer.Append(nil); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatal("empty append should not create the log file")
	}
}

func TestAppendQuotesCommaInName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "startlist_changes.csv")
	writer := NewWriter(path, nil)

	events := []diff.ChangeEvent{{
		Timestamp: testTime,
		RaceID:    "omloop",
		Kind:      diff.KindRemoved,
		RiderName: "Doe, John",
		RiderKey:  "rider/john-doe",
	}}
	if err := writer.Append(events); err != nil {
		t.Fatal(err)
	}

	records := readLog(t, path)
	if records[1][3] != "Doe, John" {
		t.Fatalf("name = %q", records[1][3])
	}
}
