package pcs

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"peloton/internal/registry"
)

const startlistHTML = `<!DOCTYPE html>
<html><body>
<div class="page-content">
  <ul class="startlist_v4">
    <li class="team">
      <a href="team/team-visma-lease-a-bike-2026">Team Visma | Lease a Bike</a>
      <ul>
        <li><a href="/rider/wout-van-aert">VAN AERT Wout</a></li>
        <li><a href="rider/tiesj-benoot">BENOOT  Tiesj</a></li>
      </ul>
    </li>
    <li class="team">
      <a href="team/alpecin-deceuninck-2026">Alpecin-Deceuninck</a>
      <ul>
        <li><a href="https://www.procyclingstats.com/rider/mathieu-van-der-poel">VAN DER POEL Mathieu</a></li>
        <li><a href="rider/wout-van-aert">VAN AERT Wout</a></li>
      </ul>
    </li>
  </ul>
  <a href="race/omloop-het-nieuwsblad/2026">Race page</a>
</div>
</body></html>`

func TestParseStartlist(t *testing.T) {
	riders, err := ParseStartlist(strings.NewReader(startlistHTML))
	if err != nil {
		t.Fatal(err)
	}

	if len(riders) != 3 {
		t.Fatalf("riders = %d: %v", len(riders), riders)
	}
	if riders[0].Key != "rider/wout-van-aert" || riders[0].Name != "VAN AERT Wout" {
		t.Fatalf("first rider = %+v", riders[0])
	}
	if riders[1].Name != "BENOOT Tiesj" {
		t.Fatalf("whitespace not collapsed: %q", riders[1].Name)
	}
	if riders[2].Key != "rider/mathieu-van-der-poel" {
		t.Fatalf("absolute href not normalized: %+v", riders[2])
	}
}

func TestParseStartlistEmptyPage(t *testing.T) {
	riders, err := ParseStartlist(strings.NewReader("<html><body><p>Startlist not yet available</p></body></html>"))
	if err != nil {
		t.Fatal(err)
	}
	if len(riders) != 0 {
		t.Fatalf("expected empty roster, got %v", riders)
	}
}

func TestRacePath(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"race/omloop-het-nieuwsblad/2026", "race/omloop-het-nieuwsblad/2026"},
		{"race/omloop-het-nieuwsblad/2026/startlist", "race/omloop-het-nieuwsblad/2026"},
		{"https://www.procyclingstats.com/race/omloop-het-nieuwsblad/2026/startlist", "race/omloop-het-nieuwsblad/2026"},
		{"/race/strade-bianche/2026/", "race/strade-bianche/2026"},
	}
	for _, tc := range cases {
		if got := RacePath(tc.in); got != tc.want {
			t.Errorf("RacePath(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFetchStartlist(t *testing.T) {
	var gotPath, gotAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAgent = r.Header.Get("User-Agent")
		w.Write([]byte(startlistHTML))
	}))
	defer server.Close()

	client, err := New(server.URL, "peloton/test", 5*time.Second)
	if err != nil {
		t.Fatal(err)
	}

	race := registry.Race{ID: "omloop", Name: "Omloop", URL: "race/omloop-het-nieuwsblad/2026"}
	riders, err := client.FetchStartlist(context.Background(), race)
	if err != nil {
		t.Fatal(err)
	}

	if gotPath != "/race/omloop-het-nieuwsblad/2026/startlist" {
		t.Fatalf("request path = %q", gotPath)
	}
	if gotAgent != "peloton/test" {
		t.Fatalf("user agent = %q", gotAgent)
	}
	if len(riders) != 3 {
		t.Fatalf("riders = %d", len(riders))
	}
}

func TestFetchStartlistErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down for maintenance", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client, err := New(server.URL, "peloton/test", 5*time.Second)
	if err != nil {
		t.Fatal(err)
	}

	race := registry.Race{ID: "omloop", Name: "Omloop", URL: "race/omloop/2026"}
	if _, err := client.FetchStartlist(context.Background(), race); err == nil {
		t.Fatal("expected error for non-200 status")
	}
}
