package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"

	DefaultStorageKey = "study-scheduler-data"
	DefaultLogLevel   = "info"
	FileName          = "config.yaml"
)

type Config struct {
	DataDir    string `yaml:"data_dir"`
	Backend    string `yaml:"backend"`
	StorageKey string `yaml:"storage_key"`
	StateDir   string `yaml:"state_dir"`
	DBPath     string `yaml:"db_path"`
	LogLevel   string `yaml:"log_level"`
	LogPath    string `yaml:"log_path"`
}

func New(dataDir string) (Config, error) {
	if strings.TrimSpace(dataDir) == "" {
		return Config{}, fmt.Errorf("data dir is required")
	}
	cfg := Config{DataDir: dataDir}
	cfg.fillDefaults()
	return cfg, nil
}

// Load reads <dataDir>/config.yaml on top of the defaults. A missing file is
// not an error.
func Load(dataDir string) (Config, error) {
	cfg, err := New(dataDir)
	if err != nil {
		return Config{}, err
	}
	path := filepath.Join(dataDir, FileName)
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	loaded := Config{}
	if err := yaml.Unmarshal(raw, &loaded); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if loaded.DataDir == "" {
		loaded.DataDir = dataDir
	}
	loaded.fillDefaults()
	if err := loaded.Validate(); err != nil {
		return cfg, err
	}
	return loaded, nil
}

func (c Config) Validate() error {
	switch c.Backend {
	case BackendFile, BackendSQLite, BackendMemory:
	default:
		return fmt.Errorf("unsupported backend %q", c.Backend)
	}
	if strings.TrimSpace(c.StorageKey) == "" {
		return fmt.Errorf("storage key is required")
	}
	return nil
}

// WithBackend returns a copy using the given backend, or c unchanged when
// backend is empty.
func (c Config) WithBackend(backend string) (Config, error) {
	if strings.TrimSpace(backend) == "" {
		return c, nil
	}
	c.Backend = backend
	return c, c.Validate()
}

func (c *Config) fillDefaults() {
	if c.Backend == "" {
		c.Backend = BackendFile
	}
	if c.StorageKey == "" {
		c.StorageKey = DefaultStorageKey
	}
	if c.StateDir == "" {
		c.StateDir = filepath.Join(c.DataDir, "state")
	}
	if c.DBPath == "" {
		c.DBPath = filepath.Join(c.DataDir, "studyhub.db")
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.LogPath == "" {
		c.LogPath = filepath.Join(c.DataDir, "studyhub.log")
	}
}
