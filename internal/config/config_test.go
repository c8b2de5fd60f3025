package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	t.Setenv("FIELDOPS_BASE_URL", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.API.RequestTimeoutSec != 30 || cfg.API.ConnectTimeoutSec != 15 || cfg.API.ProbeTimeoutSec != 5 {
		t.Errorf("API defaults = %+v", cfg.API)
	}
	if cfg.Stream.GracePeriodSec != 4 || cfg.Stream.AlertExpirySec != 300 || cfg.Stream.Buffer != 32 {
		t.Errorf("Stream defaults = %+v", cfg.Stream)
	}
	if cfg.Locale != "fr" {
		t.Errorf("Locale = %q, want fr", cfg.Locale)
	}
	if cfg.API.BaseURL != "" {
		t.Errorf("BaseURL = %q, want empty without a file or env override", cfg.API.BaseURL)
	}
}

func TestLoadReadsFileAndKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "api:\n  base_url: https://backend.example.com\nstream:\n  grace_period_sec: 10\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.API.BaseURL != "https://backend.example.com" {
		t.Errorf("BaseURL = %q", cfg.API.BaseURL)
	}
	if cfg.Stream.GracePeriodSec != 10 {
		t.Errorf("GracePeriodSec = %d, want the file value", cfg.Stream.GracePeriodSec)
	}
	// Untouched keys keep their defaults.
	if cfg.API.RequestTimeoutSec != 30 {
		t.Errorf("RequestTimeoutSec = %d, want default 30", cfg.API.RequestTimeoutSec)
	}
}

func TestEnvOverridesBaseURL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("api:\n  base_url: https://from-file\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("FIELDOPS_BASE_URL", "https://from-env")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.API.BaseURL != "https://from-env" {
		t.Errorf("BaseURL = %q, want the env override to win", cfg.API.BaseURL)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	want, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	want.API.BaseURL = "https://backend.example.com"
	want.Locale = "en"

	if err := Save(path, want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load after Save: %v", err)
	}
	if got.API.BaseURL != want.API.BaseURL || got.Locale != want.Locale {
		t.Errorf("round trip = %+v, want %+v", got, want)
	}
}
