// Package changelog appends change events to the durable CSV log.
//
// The log is append-only: existing entries are never rewritten, reordered,
// or truncated, and the header is written exactly once when the file is
// first created. Event order within an append is the order the diff engine
// produced.
package changelog

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"time"

	"peloton/internal/diff"
	"peloton/internal/logging"
)

var header = []string{"timestamp", "race", "change_type", "rider_name", "rider_url"}

// Writer appends change events to a CSV file.
type Writer struct {
	path   string
	logger *slog.Logger
}

// NewWriter creates a change log writer for the given path.
func NewWriter(path string, logger *slog.Logger) *Writer {
	return &Writer{
		path:   path,
		logger: logging.NewComponentLogger(logger, "changelog"),
	}
}

// Append writes the events to the end of the log, creating it with a header
// row if it does not exist yet. Appending zero events is a no-op.
func (w *Writer) Append(events []diff.ChangeEvent) error {
	if len(events) == 0 {
		return nil
	}

	file, err := os.OpenFile(w.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open change log: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return fmt.Errorf("stat change log: %w", err)
	}

	writer := csv.NewWriter(file)
	if info.Size() == 0 {
		if err := writer.Write(header); err != nil {
			return fmt.Errorf("write change log header: %w", err)
		}
	}

	for _, event := range events {
		record := []string{
			event.Timestamp.UTC().Format(time.RFC3339),
			event.RaceID,
			string(event.Kind),
			event.RiderName,
			event.RiderKey,
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write change log record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush change log: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close change log: %w", err)
	}

	w.logger.Info("appended change events",
		logging.Int("events", len(events)),
		logging.String("path", w.path))
	return nil
}
