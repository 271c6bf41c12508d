// Package config resolves defaults from ~/.config/hf-grass/config.json and
// the environment.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	appDir     = "hf-grass"
	configFile = "config.json"
)

// Env is read from the process environment.
type Env struct {
	AppEnv     string        `envconfig:"APP_ENV" default:"prod"`
	Username   string        `envconfig:"HF_USERNAME"`
	APIBase    string        `envconfig:"HF_GRASS_API_BASE" default:"https://huggingface.co/api/recent-activity"`
	Timeout    time.Duration `envconfig:"HF_GRASS_TIMEOUT" default:"30s"`
	LogLevel   string        `envconfig:"HF_GRASS_LOG_LEVEL"`
	ConfigPath string        `envconfig:"HF_GRASS_CONFIG"`
}

func LoadEnv() (Env, error) {
	var env Env
	if err := envconfig.Process("", &env); err != nil {
		return Env{}, fmt.Errorf("config: load env: %w", err)
	}
	return env, nil
}

// File holds per-user defaults for the command-line flags. Zero values mean
// "not set".
type File struct {
	User         string `json:"user,omitempty"`
	Out          string `json:"out,omitempty"`
	Theme        string `json:"theme,omitempty"`
	ActivityType string `json:"activity_type,omitempty"`
	WeekStart    string `json:"week_start,omitempty"`
	TZOffset     *int   `json:"tz_offset,omitempty"`
	Days         int    `json:"days,omitempty"`
	ShowLegend   bool   `json:"show_legend,omitempty"`
	ShowMonths   bool   `json:"show_months,omitempty"`
	Title        string `json:"title,omitempty"`
}

func getConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appDir), nil
}

// DefaultPath is where the config file is looked up when HF_GRASS_CONFIG is
// not set.
func DefaultPath() (string, error) {
	configDir, err := getConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, configFile), nil
}

// LoadFile reads defaults from path. A missing file yields empty defaults;
// a file that exists but cannot be decoded is an error.
func LoadFile(path string) (File, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return File{}, nil
		}
		path = p
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return File{}, nil
		}
		return File{}, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer f.Close()

	var cfg File
	if err := json.NewDecoder(f).Decode(&cfg); err != nil {
		return File{}, fmt.Errorf("config: decode %s: %w", path, err)
	}
	return cfg, nil
}

// SaveFile writes cfg to path, creating the directory if needed.
func SaveFile(path string, cfg File) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("config: create dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("config: open %s: %w", path, err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(cfg)
}
