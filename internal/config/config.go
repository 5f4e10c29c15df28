package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

type CameraKind string

const (
	CameraMJPEG CameraKind = "mjpeg"
	CameraFile  CameraKind = "file"
)

type CameraConfig struct {
	Kind CameraKind

	// StreamURL is the MJPEG endpoint for kind "mjpeg".
	StreamURL string

	// StillPath is the JPEG file read for kind "file".
	StillPath string
}

type Config struct {
	// BaseURL of the companion backend, e.g. http://localhost:8000.
	BaseURL string

	// RequestTimeout bounds every remote call.
	RequestTimeout time.Duration

	// StateDir holds the session id and admin token files.
	StateDir string

	Camera CameraConfig

	// CountdownSeconds before a frame is captured.
	CountdownSeconds int

	// DashboardPollSpec is the cron spec for the admin watch mode.
	DashboardPollSpec string
}

// fileConfig is the YAML shape; unset fields keep their defaults.
type fileConfig struct {
	BaseURL           string `yaml:"base_url"`
	RequestTimeout    string `yaml:"request_timeout"`
	StateDir          string `yaml:"state_dir"`
	CountdownSeconds  int    `yaml:"countdown_seconds"`
	DashboardPollSpec string `yaml:"dashboard_poll_spec"`
	Camera            struct {
		Kind      string `yaml:"kind"`
		StreamURL string `yaml:"stream_url"`
		StillPath string `yaml:"still_path"`
	} `yaml:"camera"`
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getIntEnv(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var n int
	if _, err := fmt.Sscanf(v, "%d", &n); err != nil || n <= 0 {
		return def
	}
	return n
}

func getDurationEnv(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func defaults() *Config {
	return &Config{
		BaseURL:           "http://localhost:8000",
		RequestTimeout:    30 * time.Second,
		StateDir:          defaultStateDir(),
		Camera:            CameraConfig{Kind: CameraMJPEG, StreamURL: "http://localhost:8081/stream"},
		CountdownSeconds:  3,
		DashboardPollSpec: "@every 30s",
	}
}

func defaultStateDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "temanrasa")
	}
	return ".temanrasa"
}

// Load builds the config from defaults, an optional YAML file
// (TEMANRASA_CONFIG, or config.yaml when present) and finally the
// environment, which wins over everything.
func Load() (*Config, error) {
	cfg := defaults()

	path := os.Getenv("TEMANRASA_CONFIG")
	optional := path == ""
	if optional {
		path = "config.yaml"
	}
	if err := applyFile(cfg, path, optional); err != nil {
		return nil, err
	}

	cfg.BaseURL = getEnv("TEMANRASA_BASE_URL", cfg.BaseURL)
	cfg.RequestTimeout = getDurationEnv("TEMANRASA_REQUEST_TIMEOUT", cfg.RequestTimeout)
	cfg.StateDir = getEnv("TEMANRASA_STATE_DIR", cfg.StateDir)
	cfg.CountdownSeconds = getIntEnv("TEMANRASA_COUNTDOWN_SECONDS", cfg.CountdownSeconds)
	cfg.DashboardPollSpec = getEnv("TEMANRASA_DASHBOARD_POLL", cfg.DashboardPollSpec)

	if kind := os.Getenv("TEMANRASA_CAMERA"); kind != "" {
		parsed, err := parseCameraKind(kind)
		if err != nil {
			return nil, err
		}
		cfg.Camera.Kind = parsed
	}
	cfg.Camera.StreamURL = getEnv("TEMANRASA_CAMERA_STREAM_URL", cfg.Camera.StreamURL)
	cfg.Camera.StillPath = getEnv("TEMANRASA_CAMERA_STILL_PATH", cfg.Camera.StillPath)

	if cfg.Camera.Kind == CameraFile && cfg.Camera.StillPath == "" {
		return nil, fmt.Errorf("camera kind %q needs TEMANRASA_CAMERA_STILL_PATH", CameraFile)
	}

	return cfg, nil
}

func applyFile(cfg *Config, path string, optional bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if optional && os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading config file %s: %w", path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}

	if fc.BaseURL != "" {
		cfg.BaseURL = fc.BaseURL
	}
	if fc.RequestTimeout != "" {
		d, err := time.ParseDuration(fc.RequestTimeout)
		if err != nil || d <= 0 {
			return fmt.Errorf("config file %s: bad request_timeout %q", path, fc.RequestTimeout)
		}
		cfg.RequestTimeout = d
	}
	if fc.StateDir != "" {
		cfg.StateDir = fc.StateDir
	}
	if fc.CountdownSeconds > 0 {
		cfg.CountdownSeconds = fc.CountdownSeconds
	}
	if fc.DashboardPollSpec != "" {
		cfg.DashboardPollSpec = fc.DashboardPollSpec
	}
	if fc.Camera.Kind != "" {
		parsed, err := parseCameraKind(fc.Camera.Kind)
		if err != nil {
			return err
		}
		cfg.Camera.Kind = parsed
	}
	if fc.Camera.StreamURL != "" {
		cfg.Camera.StreamURL = fc.Camera.StreamURL
	}
	if fc.Camera.StillPath != "" {
		cfg.Camera.StillPath = fc.Camera.StillPath
	}

	return nil
}

func parseCameraKind(s string) (CameraKind, error) {
	switch CameraKind(s) {
	case CameraMJPEG:
		return CameraMJPEG, nil
	case CameraFile:
		return CameraFile, nil
	default:
		return "", fmt.Errorf("unknown camera kind %q", s)
	}
}
