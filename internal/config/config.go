// Package config loads the optional trackit YAML configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/julianstephens/trackit/internal/constants"
)

type Config struct {
	Database struct {
		// Path is a SQLite file path or a postgres:// connection string.
		Path string `yaml:"path"`
		// UseKeyring reads the Postgres connection string from the OS keyring.
		UseKeyring bool `yaml:"use_keyring"`
	} `yaml:"database"`

	Timezone string `yaml:"timezone"`

	Log struct {
		Dir   string `yaml:"dir"`
		Debug bool   `yaml:"debug"`
		Level string `yaml:"level"`

		// Rotation limits for trackit.log.
		MaxSizeMB  int  `yaml:"max_size_mb"`
		MaxBackups int  `yaml:"max_backups"`
		MaxAgeDays int  `yaml:"max_age_days"`
		Compress   bool `yaml:"compress"`
	} `yaml:"log"`

	Backup struct {
		Enabled bool   `yaml:"enabled"`
		Dir     string `yaml:"dir"`
	} `yaml:"backup"`

	View struct {
		PinnedTitle string `yaml:"pinned_title"`
	} `yaml:"view"`
}

// Dir returns the configuration directory, honouring TRACKIT_CONFIG_DIR.
func Dir() (string, error) {
	if dir := os.Getenv(constants.EnvConfigDir); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(home, ".config", constants.AppName), nil
}

// Default returns the configuration used when no file exists.
func Default() (*Config, error) {
	dir, err := Dir()
	if err != nil {
		return nil, err
	}
	cfg := &Config{}
	cfg.Database.Path = filepath.Join(dir, constants.AppName+".db")
	cfg.Timezone = "Local"
	cfg.Log.Dir = filepath.Join(dir, "logs")
	cfg.Log.Level = "warn"
	cfg.Log.MaxSizeMB = 10
	cfg.Log.MaxBackups = 3
	cfg.Log.MaxAgeDays = 28
	cfg.Log.Compress = true
	cfg.Backup.Enabled = true
	cfg.View.PinnedTitle = constants.PinnedGroupTitle
	return cfg, nil
}

// DefaultPath returns the location of config.yaml inside Dir.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg, err := Default()
	if err != nil {
		return nil, err
	}
	if path == "" {
		if path, err = DefaultPath(); err != nil {
			return nil, err
		}
	}
	path = ExpandHome(path)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := yaml.Unmarshal([]byte(substituteEnv(string(data))), cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	cfg.Database.Path = ExpandHome(cfg.Database.Path)
	cfg.Log.Dir = ExpandHome(cfg.Log.Dir)
	cfg.Backup.Dir = ExpandHome(cfg.Backup.Dir)
	if cfg.View.PinnedTitle == "" {
		cfg.View.PinnedTitle = constants.PinnedGroupTitle
	}
	return cfg, nil
}

// substituteEnv replaces ${NAME} placeholders with environment values.
func substituteEnv(content string) string {
	for _, env := range os.Environ() {
		pair := strings.SplitN(env, "=", 2)
		if len(pair) != 2 {
			continue
		}
		content = strings.ReplaceAll(content, "${"+pair[0]+"}", pair[1])
	}
	return content
}

// ExpandHome expands a leading ~ to the user's home directory.
func ExpandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return path
}

// IsPostgres reports whether a database path is a Postgres connection string.
func IsPostgres(path string) bool {
	return strings.HasPrefix(path, "postgres://") || strings.HasPrefix(path, "postgresql://")
}
