package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Config holds runtime configuration for the booth and the app shell.
// Fields are loaded from a JSON file and may be overridden by PHOTOBOOTH_*
// environment variables.
type Config struct {
	Debug bool `json:"debug" env:"PHOTOBOOTH_DEBUG"`

	// Capture sequence defaults
	IntervalSeconds int    `json:"interval_seconds" env:"PHOTOBOOTH_INTERVAL"`
	Filter          string `json:"filter" env:"PHOTOBOOTH_FILTER"`
	Mirror          bool   `json:"mirror" env:"PHOTOBOOTH_MIRROR"`
	JPEGQuality     int    `json:"jpeg_quality"`

	// Live feed
	FeedFPS int `json:"feed_fps" env:"PHOTOBOOTH_FEED_FPS"`
	// Feed region persistence; zero width/height means the default 1280x720 region.
	FeedX int `json:"feed_x"`
	FeedY int `json:"feed_y"`
	FeedW int `json:"feed_w"`
	FeedH int `json:"feed_h"`

	// Storage and assets
	OutputDir   string `json:"output_dir" env:"PHOTOBOOTH_OUTPUT_DIR"`
	DBPath      string `json:"db_path" env:"PHOTOBOOTH_DB"`
	AssetsDir   string `json:"assets_dir" env:"PHOTOBOOTH_ASSETS_DIR"`
	LayoutsPath string `json:"layouts_path" env:"PHOTOBOOTH_LAYOUTS"`

	WindowWidth  int `json:"window_width"`
	WindowHeight int `json:"window_height"`
}

// DefaultConfig returns a Config populated with standard defaults.
func DefaultConfig() *Config {
	return &Config{
		Debug:           false,
		IntervalSeconds: 3,
		Filter:          "none",
		Mirror:          false,
		JPEGQuality:     90,
		FeedFPS:         15,
		OutputDir:       "photos",
		DBPath:          "photobooth.db",
		WindowWidth:     1100,
		WindowHeight:    760,
	}
}

// Validate clamps/normalizes values to safe ranges.
func (c *Config) Validate() error {
	if c.IntervalSeconds != 3 && c.IntervalSeconds != 10 {
		c.IntervalSeconds = 3
	}
	c.Filter = strings.ToLower(strings.TrimSpace(c.Filter))
	if c.Filter == "" {
		c.Filter = "none"
	}
	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		c.JPEGQuality = 90
	}
	if c.FeedFPS <= 0 {
		c.FeedFPS = 15
	}
	if c.FeedFPS > 60 {
		c.FeedFPS = 60
	}
	if c.FeedW < 0 || c.FeedH < 0 {
		c.FeedW, c.FeedH = 0, 0
	}
	if c.WindowWidth < 640 {
		c.WindowWidth = 640
	}
	if c.WindowHeight < 480 {
		c.WindowHeight = 480
	}
	if c.OutputDir == "" {
		return fmt.Errorf("config: output_dir is required")
	}
	if c.DBPath == "" {
		return fmt.Errorf("config: db_path is required")
	}
	return nil
}

// Load attempts to read configuration from the given JSON file path. If the file does not
// exist it starts from DefaultConfig(). Environment overrides are applied last.
// On error it returns the best config assembled so far with the error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	f, err := os.Open(path)
	switch {
	case err == nil:
		defer f.Close()
		if err := json.NewDecoder(f).Decode(cfg); err != nil {
			return cfg, fmt.Errorf("config: decode %s: %w", path, err)
		}
	case !os.IsNotExist(err):
		return cfg, err
	}
	if err := env.Parse(cfg); err != nil {
		return cfg, fmt.Errorf("config: parse env: %w", err)
	}
	return cfg, cfg.Validate()
}

// Save writes the configuration to the given path in JSON format.
func (c *Config) Save(path string) error {
	_ = c.Validate()
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(c)
}
