package registry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeRacesFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "races.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadPreservesOrder(t *testing.T) {
	path := writeRacesFile(t, `
[[races]]
id = "omloop"
name = "Omloop Het Nieuwsblad"
url = "race/omloop-het-nieuwsblad/2026"

[[races]]
id = "kbk"
name = "Kuurne-Brussel-Kuurne"
url = "race/kuurne-brussel-kuurne/2026"

[[races]]
id = "strade"
name = "Strade Bianche"
url = "race/strade-bianche/2026"
`)

	reg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if reg.Len() != 3 {
		t.Fatalf("len = %d", reg.Len())
	}

	ids := make([]string, 0, reg.Len())
	for _, race := range reg.Races() {
		ids = append(ids, race.ID)
	}
	if got := strings.Join(ids, ","); got != "omloop,kbk,strade" {
		t.Fatalf("order = %s", got)
	}
	if got := strings.Join(reg.Names(), "|"); got != "Omloop Het Nieuwsblad|Kuurne-Brussel-Kuurne|Strade Bianche" {
		t.Fatalf("names = %s", got)
	}
}

func TestLoadRejectsDuplicateIDs(t *testing.T) {
	path := writeRacesFile(t, `
[[races]]
id = "omloop"
name = "Omloop"
url = "race/omloop/2026"

[[races]]
id = "omloop"
name = "Omloop again"
url = "race/omloop/2026"
`)

	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "duplicate") {
		t.Fatalf("expected duplicate id error, got %v", err)
	}
}

func TestLoadRejectsEmptyFile(t *testing.T) {
	path := writeRacesFile(t, "")
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for empty races file")
	}
}

func TestLoadRejectsMissingFields(t *testing.T) {
	path := writeRacesFile(t, `
[[races]]
id = "omloop"
name = ""
url = "race/omloop/2026"
`)
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "name") {
		t.Fatalf("expected name error, got %v", err)
	}
}

func TestByIDAndContains(t *testing.T) {
	reg, err := New([]Race{{ID: "omloop", Name: "Omloop", URL: "race/omloop/2026"}})
	if err != nil {
		t.Fatal(err)
	}

	if !reg.Contains("omloop") {
		t.Fatal("expected omloop to be tracked")
	}
	if reg.Contains("ronde") {
		t.Fatal("unexpected race tracked")
	}
	race, ok := reg.ByID("omloop")
	if !ok || race.Name != "Omloop" {
		t.Fatalf("ByID = %+v ok=%v", race, ok)
	}
}
