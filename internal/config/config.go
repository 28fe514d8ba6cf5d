package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

type Config struct {
	Version     string     `json:"version" mapstructure:"version"`
	EntitiesDir string     `json:"entities_dir" mapstructure:"entities_dir"`
	StatePath   string     `json:"state_path" mapstructure:"state_path"`
	PreviewPath string     `json:"preview_path" mapstructure:"preview_path"`
	TargetPath  string     `json:"target_path" mapstructure:"target_path"`
	Database    Database   `json:"database" mapstructure:"database"`
	Validation  Validation `json:"validation" mapstructure:"validation"`
	Studio      Studio     `json:"studio" mapstructure:"studio"`
}

type Database struct {
	Provider string `json:"provider" mapstructure:"provider"`
	URLEnv   string `json:"url_env" mapstructure:"url_env"`
}

type Validation struct {
	// FKErrorThreshold is the unmatched-tuple fraction at which orphaned
	// foreign keys escalate from warning to error. 0 escalates every
	// orphan; unset defaults to 0.5.
	FKErrorThreshold float64 `json:"fk_error_threshold" mapstructure:"fk_error_threshold"`
	SampleLimit      int     `json:"sample_limit" mapstructure:"sample_limit"`
	RowLimit         uint64  `json:"row_limit" mapstructure:"row_limit"`
}

type Studio struct {
	Port int `json:"port" mapstructure:"port"`
}

func Load() (*Config, error) {
	var cfg Config

	viper.SetConfigName("lattice")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read lattice.yaml: %w", err)
	}

	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Set defaults
	if cfg.Version == "" {
		cfg.Version = "1"
	}
	if cfg.EntitiesDir == "" {
		cfg.EntitiesDir = "entities"
	}
	if cfg.StatePath == "" {
		cfg.StatePath = filepath.Join(".lattice", "state.yaml")
	}
	if cfg.PreviewPath == "" {
		cfg.PreviewPath = filepath.Join(".lattice", "previews")
	}
	if cfg.TargetPath == "" {
		cfg.TargetPath = "target.yaml"
	}
	if cfg.Database.Provider == "" {
		cfg.Database.Provider = "postgresql"
	}
	if cfg.Database.URLEnv == "" {
		cfg.Database.URLEnv = "DATABASE_URL"
	}
	// an explicit 0 means every orphaned tuple is an error, so only
	// default when the key is absent
	if cfg.Validation.FKErrorThreshold == 0 && !viper.IsSet("validation.fk_error_threshold") {
		cfg.Validation.FKErrorThreshold = 0.5
	}
	if cfg.Validation.SampleLimit == 0 {
		cfg.Validation.SampleLimit = 5
	}
	if cfg.Validation.RowLimit == 0 {
		cfg.Validation.RowLimit = 1000
	}
	if cfg.Studio.Port == 0 {
		cfg.Studio.Port = 7733
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Database.Provider {
	case "postgresql", "postgres", "mysql", "sqlite", "sqlite3":
	default:
		return fmt.Errorf("unsupported database provider: %s", c.Database.Provider)
	}
	if c.Validation.FKErrorThreshold < 0 || c.Validation.FKErrorThreshold > 1 {
		return fmt.Errorf("fk_error_threshold must be between 0 and 1")
	}
	return nil
}

func (c *Config) GetDatabaseURL() (string, error) {
	dbURL := os.Getenv(c.Database.URLEnv)
	if dbURL == "" {
		return "", fmt.Errorf("database URL not found in environment variable %s", c.Database.URLEnv)
	}
	return dbURL, nil
}

func (c *Config) EnsureDirectories() error {
	dirs := []string{
		c.EntitiesDir,
		c.PreviewPath,
		filepath.Dir(c.StatePath),
	}

	for _, dir := range dirs {
		if dir == "" || dir == "." {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}
