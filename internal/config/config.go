package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/andreipa/police-transcriber/internal/model"
)

// DefaultPath is the config file location relative to the working directory.
const DefaultPath = "config.json"

const envPrefix = "POLICE_TRANSCRIBER_"

// Config holds the persisted application settings. Invalid values are
// replaced with defaults on load rather than rejected.
type Config struct {
	SelectedModel   string `json:"selected_model"`
	LoggingLevel    string `json:"logging_level"`
	Verbose         bool   `json:"verbose"`
	OutputFolder    string `json:"output_folder"`
	CheckForUpdates bool   `json:"check_for_updates"`
}

func Default() Config {
	return Config{
		SelectedModel:   model.DefaultModel,
		LoggingLevel:    "ERROR",
		Verbose:         false,
		OutputFolder:    "output",
		CheckForUpdates: true,
	}
}

// Store persists settings in a single JSON file on disk.
type Store struct {
	path string
}

func NewStore(path string) *Store {
	if path == "" {
		path = DefaultPath
	}
	return &Store{path: path}
}

// Load reads settings from disk, filling defaults for a missing file,
// unknown model names, or unrecognized logging levels. Environment
// variables (optionally sourced from a .env file) override the result.
func (s *Store) Load() (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(s.path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// First launch: defaults apply.
	case err != nil:
		return Config{}, fmt.Errorf("read config %s: %w", s.path, err)
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", s.path, err)
		}
	}

	_ = godotenv.Load()
	applyEnvOverrides(&cfg)

	sanitize(&cfg)
	return cfg, nil
}

// Save writes settings as indented JSON, creating parent directories.
func (s *Store) Save(cfg Config) error {
	sanitize(&cfg)

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(cfg, "", "    ")
	if err != nil {
		return err
	}

	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write config %s: %w", s.path, err)
	}
	return nil
}

func sanitize(cfg *Config) {
	if _, ok := model.Lookup(cfg.SelectedModel); !ok {
		cfg.SelectedModel = model.DefaultModel
	}
	if cfg.LoggingLevel != "DEBUG" && cfg.LoggingLevel != "ERROR" {
		cfg.LoggingLevel = "ERROR"
	}
	if cfg.OutputFolder == "" {
		cfg.OutputFolder = "output"
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv(envPrefix + "MODEL"); v != "" {
		cfg.SelectedModel = v
	}
	if v := os.Getenv(envPrefix + "LOGGING_LEVEL"); v != "" {
		cfg.LoggingLevel = v
	}
	if v := os.Getenv(envPrefix + "OUTPUT_FOLDER"); v != "" {
		cfg.OutputFolder = v
	}
	if v := os.Getenv(envPrefix + "VERBOSE"); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			cfg.Verbose = parsed
		}
	}
	if v := os.Getenv(envPrefix + "CHECK_FOR_UPDATES"); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			cfg.CheckForUpdates = parsed
		}
	}
}
