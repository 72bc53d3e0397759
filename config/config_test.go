package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultRoster(t *testing.T) {
	r := DefaultRoster()
	if len(r.Employees) != 9 {
		t.Fatalf("default roster has %d names, want 9", len(r.Employees))
	}
	if !r.Contains("Sakhaa' De Sela 'Aisy") {
		t.Error("roster should contain names with apostrophes verbatim")
	}
	if r.Contains("sakhaa' de sela 'aisy") {
		t.Error("roster lookup should be exact")
	}
}

func TestParseRoster(t *testing.T) {
	data := []byte(`
employees:
  - "  Alice  "
  - Bob
  - Alice
  - ""
`)
	r, err := ParseRoster(data)
	if err != nil {
		t.Fatalf("ParseRoster() error = %v", err)
	}
	if len(r.Employees) != 2 || r.Employees[0] != "Alice" || r.Employees[1] != "Bob" {
		t.Errorf("ParseRoster() = %v", r.Employees)
	}

	if _, err := ParseRoster([]byte("employees: []")); err == nil {
		t.Error("empty roster should be rejected")
	}
	if _, err := ParseRoster([]byte("employees: [")); err == nil {
		t.Error("malformed yaml should be rejected")
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	rosterFile := filepath.Join(dir, "roster.yaml")
	if err := os.WriteFile(rosterFile, []byte("employees:\n  - Alice\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("PUBLIC_BASE_URL", "")
	t.Setenv("TZ_LOCATION", "UTC")
	t.Setenv("ROSTER_FILE", rosterFile)
	t.Setenv("IMAGE_FETCH_TIMEOUT", "3s")
	t.Setenv("IMAGE_FETCH_CONCURRENCY", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.ServerPort != "9090" {
		t.Errorf("ServerPort = %q", cfg.ServerPort)
	}
	if cfg.PublicBaseURL != "http://localhost:9090" {
		t.Errorf("PublicBaseURL = %q", cfg.PublicBaseURL)
	}
	if cfg.Location.String() != "UTC" {
		t.Errorf("Location = %v", cfg.Location)
	}
	if cfg.ImageFetchTimeout != 3*time.Second {
		t.Errorf("ImageFetchTimeout = %v", cfg.ImageFetchTimeout)
	}
	if cfg.ImageFetchConcurrency != 4 {
		t.Errorf("ImageFetchConcurrency = %d", cfg.ImageFetchConcurrency)
	}
	if !cfg.Roster.Contains("Alice") || cfg.Roster.Contains("Bob") {
		t.Errorf("Roster = %v", cfg.Roster.Employees)
	}
}

func TestLoadRejectsBadDuration(t *testing.T) {
	t.Setenv("TZ_LOCATION", "UTC")
	t.Setenv("IMAGE_FETCH_TIMEOUT", "soon")

	if _, err := Load(); err == nil {
		t.Error("Load() should fail on an unparseable duration")
	}
}
