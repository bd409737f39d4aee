// Package viewer renders the presence matrix as a static, searchable HTML
// page. The page is self-contained: styling and the name filter are inlined
// so it can be served from any static host next to the CSV outputs.
package viewer

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"io"
	"time"

	"peloton/internal/fileutil"
	"peloton/internal/matrix"
	"peloton/internal/registry"
)

//go:embed viewer.tmpl
var viewerTemplate string

var page = template.Must(template.New("viewer").Parse(viewerTemplate))

type rowData struct {
	Name     string
	Presence []string
	Count    string
}

type pageData struct {
	RaceNames   []string
	Rows        []rowData
	RiderCount  int
	RaceCount   int
	GeneratedAt string
}

// Render writes the HTML viewer for the given matrix rows.
func Render(w io.Writer, rows []matrix.Row, reg *registry.Registry, generatedAt time.Time) error {
	data := pageData{
		RaceNames:   reg.Names(),
		RiderCount:  len(rows),
		RaceCount:   reg.Len(),
		GeneratedAt: generatedAt.UTC().Format(time.RFC3339),
	}
	for _, row := range rows {
		rd := rowData{
			Name:  row.RiderName,
			Count: row.CountCell(reg.Len()),
		}
		for _, present := range row.Presence {
			mark := ""
			if present {
				mark = "X"
			}
			rd.Presence = append(rd.Presence, mark)
		}
		data.Rows = append(data.Rows, rd)
	}

	if err := page.Execute(w, data); err != nil {
		return fmt.Errorf("render viewer: %w", err)
	}
	return nil
}

// WriteFile renders the viewer and writes it atomically to path.
func WriteFile(path string, rows []matrix.Row, reg *registry.Registry, generatedAt time.Time) error {
	var buf bytes.Buffer
	if err := Render(&buf, rows, reg, generatedAt); err != nil {
		return err
	}
	return fileutil.WriteFileAtomic(path, buf.Bytes(), 0o644)
}
