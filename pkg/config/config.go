package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration.
type Config struct {
	Log         LogConfig         `yaml:"log"`
	DB          DBConfig          `yaml:"db"`
	Server      ServerConfig      `yaml:"server"`
	Camera      CameraConfig      `yaml:"camera"`
	Persistence PersistenceConfig `yaml:"persistence"`
	Actuator    ActuatorConfig    `yaml:"actuator"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Server   LogSettings `yaml:"server"`
	Requests LogSettings `yaml:"requests"`
	Events   LogSettings `yaml:"events"`
}

// LogSettings holds settings for a specific logger.
type LogSettings struct {
	Path  string `yaml:"path"`
	Level string `yaml:"level"`
}

// DBConfig holds database settings.
type DBConfig struct {
	Path string `yaml:"path"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Address string `yaml:"address"`
}

// CameraConfig holds the boot values of the camera settings, as table indices.
// Mode always boots in standby and Format is a momentary action, so neither
// is configurable.
type CameraConfig struct {
	Width   int     `yaml:"width"`
	Height  int     `yaml:"height"`
	FPS     int     `yaml:"fps"`
	Shutter int     `yaml:"shutter"`
	UserFPS float64 `yaml:"user_fps"` // Frame rate used when the USER fps entry is selected
	Restore bool    `yaml:"restore"`  // Prefer the last persisted values over the ones above
}

// PersistenceConfig holds settings for saving camera state.
type PersistenceConfig struct {
	Interval     Duration `yaml:"interval"`
	HistoryLimit int      `yaml:"history_limit"` // Default page size of /api/history
	Retention    Duration `yaml:"retention"`     // Commit history older than this is pruned
}

// ActuatorConfig holds settings for the serial link to the imaging hardware.
type ActuatorConfig struct {
	Enabled bool   `yaml:"enabled"`
	Port    string `yaml:"port"` // Empty means autodetect
	Baud    int    `yaml:"baud"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Log: LogConfig{
			Server: LogSettings{
				Path:  "./logs/server.log",
				Level: "INFO",
			},
			Requests: LogSettings{
				Path:  "./logs/requests.log",
				Level: "INFO",
			},
			Events: LogSettings{
				Path:  "./logs/events.log",
				Level: "INFO",
			},
		},
		DB: DBConfig{
			Path: "./data/wavecam.db",
		},
		Server: ServerConfig{
			Address: "localhost:1930",
		},
		Camera: CameraConfig{
			Width:   0,
			Height:  2,
			FPS:     1,
			Shutter: 2,
			UserFPS: 24,
			Restore: true,
		},
		Persistence: PersistenceConfig{
			Interval:     Duration(30 * time.Second),
			HistoryLimit: 50,
			Retention:    Duration(30 * 24 * time.Hour),
		},
		Actuator: ActuatorConfig{
			Enabled: false,
			Port:    "",
			Baud:    115200,
		},
	}
}

// Load loads the configuration from the given path.
// If the file does not exist, it creates it with default values.
// If the file exists, it merges defaults with existing values but does NOT save back to disk (to preserve user formatting and comments).
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(path); err == nil {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if err := Save(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to save config file: %w", err)
	}

	// Env overrides are applied in memory only, never saved back.
	if addr := os.Getenv("WAVECAM_SERVER_ADDRESS"); addr != "" {
		cfg.Server.Address = addr
	}
	if port := os.Getenv("WAVECAM_SERIAL_PORT"); port != "" {
		cfg.Actuator.Port = port
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

var addressRegex = regexp.MustCompile(`^[^:\s]*:\d+$`)

// Validate checks values that would otherwise fail later at startup.
func (c *Config) Validate() error {
	if !addressRegex.MatchString(c.Server.Address) {
		return fmt.Errorf("invalid server address '%s': must be 'host:port'", c.Server.Address)
	}
	for name, idx := range map[string]int{
		"width":   c.Camera.Width,
		"height":  c.Camera.Height,
		"fps":     c.Camera.FPS,
		"shutter": c.Camera.Shutter,
	} {
		if idx < 0 {
			return fmt.Errorf("invalid camera.%s index %d: must not be negative", name, idx)
		}
	}
	if c.Camera.UserFPS <= 0 {
		return fmt.Errorf("invalid camera.user_fps %v: must be positive", c.Camera.UserFPS)
	}
	if c.Persistence.Interval <= 0 {
		return fmt.Errorf("invalid persistence.interval: must be positive")
	}
	if c.Persistence.Retention < 0 {
		return fmt.Errorf("invalid persistence.retention: must not be negative")
	}
	if c.Actuator.Enabled && c.Actuator.Baud <= 0 {
		return fmt.Errorf("invalid actuator.baud %d: must be positive", c.Actuator.Baud)
	}
	return nil
}

// Save writes the configuration to the path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# WaveCam Configuration
# ---------------------
# Supported Units:
#   Duration: ns, us (or µs), ms, s, m, h, d (day), w (week)
# Camera values are table indices (see GET /api/settings).

`)
	data = append(header, data...)

	reWidth := regexp.MustCompile(`(?m)^(\s+)width:`)
	data = reWidth.ReplaceAll(data, []byte("${1}# Options: 0 (4096), 1 (2048)\n${1}width:"))

	reFPS := regexp.MustCompile(`(?m)^(\s+)fps:`)
	data = reFPS.ReplaceAll(data, []byte("${1}# 0 selects USER fps, which runs at user_fps\n${1}fps:"))

	rePort := regexp.MustCompile(`(?m)^(\s+)port:`)
	data = rePort.ReplaceAll(data, []byte("${1}# Leave empty to use the first USB serial port\n${1}port:"))

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// GenerateDefault creates a default config file at the given path.
// Returns nil if the file already exists.
func GenerateDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	return Save(path, DefaultConfig())
}
