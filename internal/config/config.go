// Package config loads service configuration from defaults, an optional
// YAML file, and environment overrides, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/alnah/go-mediakit/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound = errors.New("config file not found")
	ErrConfigParse    = errors.New("failed to parse config")
)

// Config holds all configuration for the service.
type Config struct {
	Addr       string `yaml:"addr"`       // listen address, e.g. ":7860"
	BaseURL    string `yaml:"baseURL"`    // public base URL; empty = derive from request host
	ScratchDir string `yaml:"scratchDir"` // artifact scratch root
	Workers    int    `yaml:"workers"`    // session pool size; 0 = auto

	Timeouts TimeoutConfig  `yaml:"timeouts"`
	Janitor  JanitorConfig  `yaml:"janitor"`
	Capture  CaptureConfig  `yaml:"capture"`
	Carbon   CarbonConfig   `yaml:"carbon"`
	SaveTube SaveTubeConfig `yaml:"savetube"`
	Search   SearchConfig   `yaml:"search"`
	Tools    ToolsConfig    `yaml:"tools"`
}

// TimeoutConfig bounds every class of external call.
type TimeoutConfig struct {
	Capture time.Duration `yaml:"capture"` // per browser session
	Tool    time.Duration `yaml:"tool"`    // per external tool invocation
	Fetch   time.Duration `yaml:"fetch"`   // per remote HTTP fetch
}

// JanitorConfig controls scratch-directory eviction.
type JanitorConfig struct {
	Enabled  bool          `yaml:"enabled"`
	MaxAge   time.Duration `yaml:"maxAge"`
	Interval time.Duration `yaml:"interval"`
}

// CaptureConfig points the caption pipeline at a generator page.
type CaptureConfig struct {
	PageURL string `yaml:"pageURL"`
	Toggle  string `yaml:"toggle"`
	Input   string `yaml:"input"`
	Overlay string `yaml:"overlay"`
}

// CarbonConfig selects the code-render backend. An empty endpoint uses the
// local renderer; otherwise the remote carbonara-compatible service.
type CarbonConfig struct {
	Endpoint string `yaml:"endpoint"`
	Style    string `yaml:"style"` // chroma style for the local renderer
}

// SaveTubeConfig locates the video-resolution service.
type SaveTubeConfig struct {
	Host string `yaml:"host"`
}

// SearchConfig locates the Invidious-compatible video search instance.
type SearchConfig struct {
	Instance string `yaml:"instance"`
}

// ToolsConfig names the external conversion binaries.
type ToolsConfig struct {
	Convert string `yaml:"convert"`
	FFmpeg  string `yaml:"ffmpeg"`
}

// Default returns the configuration the service runs with out of the box.
func Default() *Config {
	return &Config{
		Addr:       ":7860",
		ScratchDir: filepath.Join(os.TempDir(), "mediakit"),
		Timeouts: TimeoutConfig{
			Capture: 30 * time.Second,
			Tool:    60 * time.Second,
			Fetch:   20 * time.Second,
		},
		Janitor: JanitorConfig{
			Enabled:  true,
			MaxAge:   30 * time.Minute,
			Interval: 5 * time.Minute,
		},
		Capture: CaptureConfig{
			PageURL: "https://www.bratgenerator.com/",
			Toggle:  "#toggleButtonWhite",
			Input:   "#textInput",
			Overlay: "#textOverlay",
		},
		SaveTube: SaveTubeConfig{Host: "cdn59.savetube.su"},
		Search:   SearchConfig{Instance: "https://yewtu.be"},
		Tools:    ToolsConfig{Convert: "convert", FFmpeg: "ffmpeg"},
	}
}

// Load builds the effective configuration: defaults, overlaid by the YAML
// file at path (if non-empty), then by environment variables.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path) // #nosec G304 -- config path is user-provided
		if err != nil {
			if os.IsNotExist(err) {
				return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
			}
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

// applyEnv overrides file values with the deployment environment.
func (c *Config) applyEnv() {
	if port := os.Getenv("PORT"); port != "" {
		c.Addr = ":" + port
	}
	if v := os.Getenv("ADDR"); v != "" {
		c.Addr = v
	}
	if v := os.Getenv("BASE_URL"); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv("SCRATCH_DIR"); v != "" {
		c.ScratchDir = v
	}
	if v := os.Getenv("WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Workers = n
		}
	}
	if v := os.Getenv("CARBON_ENDPOINT"); v != "" {
		c.Carbon.Endpoint = v
	}
	if v := os.Getenv("SAVETUBE_HOST"); v != "" {
		c.SaveTube.Host = v
	}
	if v := os.Getenv("SEARCH_INSTANCE"); v != "" {
		c.Search.Instance = v
	}
}
