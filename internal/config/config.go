package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables read by Load.
const (
	EnvDB             = "BOOKMARKT_DB"
	EnvHost           = "BOOKMARKT_HOST"
	EnvPort           = "BOOKMARKT_PORT"
	EnvArchiveWorkers = "BOOKMARKT_ARCHIVE_WORKERS"
	EnvChromePath     = "BOOKMARKT_CHROME_PATH"
)

// Config holds the runtime settings shared by the commands.
type Config struct {
	DBPath         string        `yaml:"db"`
	Host           string        `yaml:"host"`
	Port           int           `yaml:"port"`
	ArchiveWorkers int           `yaml:"archive_workers"`
	ChromePath     string        `yaml:"chrome_path"`
	Headful        bool          `yaml:"headful"`
	IconTimeout    time.Duration `yaml:"icon_timeout"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		DBPath:         "bookmarkt.db",
		Host:           "localhost",
		Port:           8080,
		ArchiveWorkers: 0,
		IconTimeout:    10 * time.Second,
	}
}

// Load builds a Config from the defaults, the YAML file at path (skipped when
// path is empty) and then the environment. A .env file in the working
// directory is loaded first if present.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return Config{}, err
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load .env: %w", err)
	}
	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v, ok := os.LookupEnv(EnvDB); ok {
		c.DBPath = v
	}
	if v, ok := os.LookupEnv(EnvHost); ok {
		c.Host = v
	}
	if v, ok := os.LookupEnv(EnvChromePath); ok {
		c.ChromePath = v
	}
	if v, ok := os.LookupEnv(EnvPort); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvPort, v, err)
		}
		c.Port = port
	}
	if v, ok := os.LookupEnv(EnvArchiveWorkers); ok {
		workers, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvArchiveWorkers, v, err)
		}
		c.ArchiveWorkers = workers
	}
	return nil
}

// Addr is the listen address of the web server.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.DBPath, validation.Required),
		validation.Field(&c.Host, validation.Required),
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
		validation.Field(&c.ArchiveWorkers, validation.Min(0)),
		validation.Field(&c.IconTimeout, validation.Min(time.Duration(0))),
	)
}
