package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.IntervalSeconds != 3 || cfg.FeedFPS != 15 || cfg.OutputDir != "photos" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoad_FileThenEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "booth.json")
	if err := os.WriteFile(path, []byte(`{"interval_seconds": 10, "output_dir": "out", "filter": " Warm "}`), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PHOTOBOOTH_OUTPUT_DIR", "from-env")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.IntervalSeconds != 10 {
		t.Fatalf("expected interval 10 from file, got %d", cfg.IntervalSeconds)
	}
	if cfg.OutputDir != "from-env" {
		t.Fatalf("expected env override, got %q", cfg.OutputDir)
	}
	if cfg.Filter != "warm" {
		t.Fatalf("expected normalized filter, got %q", cfg.Filter)
	}
}

func TestValidate_ClampsInterval(t *testing.T) {
	cfg := DefaultConfig()
	cfg.IntervalSeconds = 7
	cfg.FeedFPS = 500
	cfg.JPEGQuality = 0
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if cfg.IntervalSeconds != 3 || cfg.FeedFPS != 60 || cfg.JPEGQuality != 90 {
		t.Fatalf("clamp failed: %+v", cfg)
	}
}

func TestSaveLoadRoundTripKeepsFeedRegion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "booth.json")
	cfg := DefaultConfig()
	cfg.FeedX, cfg.FeedY, cfg.FeedW, cfg.FeedH = 10, 20, 640, 360
	if err := cfg.Save(path); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.FeedX != 10 || got.FeedY != 20 || got.FeedW != 640 || got.FeedH != 360 {
		t.Fatalf("feed region not persisted: %+v", got)
	}
}
