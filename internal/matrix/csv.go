package matrix

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"

	"peloton/internal/fileutil"
	"peloton/internal/registry"
)

// WriteCSV writes the matrix with a header row naming each race by display
// name, one row per rider, and a trailing races_count column.
func WriteCSV(w io.Writer, rows []Row, reg *registry.Registry) error {
	writer := csv.NewWriter(w)

	header := make([]string, 0, reg.Len()+2)
	header = append(header, "rider_name")
	header = append(header, reg.Names()...)
	header = append(header, "races_count")
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("write matrix header: %w", err)
	}

	total := reg.Len()
	record := make([]string, len(header))
	for _, row := range rows {
		record[0] = row.RiderName
		for i, present := range row.Presence {
			if present {
				record[i+1] = "X"
			} else {
				record[i+1] = ""
			}
		}
		record[len(record)-1] = row.CountCell(total)
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write matrix row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteFile renders the matrix CSV and writes it atomically to path.
func WriteFile(path string, rows []Row, reg *registry.Registry) error {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, rows, reg); err != nil {
		return err
	}
	return fileutil.WriteFileAtomic(path, buf.Bytes(), 0o644)
}
