package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/byRen2002/decomment/internal/stripper"
	"github.com/spf13/viper"
)

const (
	// EnvPrefix prefixes environment overrides, e.g. DECOMMENT_STRIP_POLICY
	EnvPrefix = "DECOMMENT"

	// DefaultFileName is read from the working directory when no config
	// file is given
	DefaultFileName = "decomment.yaml"
)

// Config represents the main configuration structure
type Config struct {
	Rules       RulesConfig       `mapstructure:"rules" yaml:"rules"`
	Strip       StripConfig       `mapstructure:"strip" yaml:"strip"`
	Files       FilesConfig       `mapstructure:"files" yaml:"files"`
	Performance PerformanceConfig `mapstructure:"performance" yaml:"performance"`
	Log         LogConfig         `mapstructure:"log" yaml:"log"`
}

// RulesConfig points at the comment syntax rules
type RulesConfig struct {
	// File is a JSON or YAML rules file; empty means discover or use the
	// built-in rules.
	File string `mapstructure:"file" yaml:"file"`
}

// StripConfig contains comment removal settings
type StripConfig struct {
	Policy         string `mapstructure:"policy" yaml:"policy"`
	StandaloneOnly bool   `mapstructure:"standalone_only" yaml:"standalone_only"`
	Backup         bool   `mapstructure:"backup" yaml:"backup"`
	BackupSuffix   string `mapstructure:"backup_suffix" yaml:"backup_suffix"`
	DryRun         bool   `mapstructure:"dry_run" yaml:"dry_run"`
	Language       string `mapstructure:"language" yaml:"language"`
}

// FilesConfig selects files when walking directories
type FilesConfig struct {
	Include []string `mapstructure:"include" yaml:"include"`
	Exclude []string `mapstructure:"exclude" yaml:"exclude"`
}

// PerformanceConfig contains performance-related settings
type PerformanceConfig struct {
	MaxWorkers     int           `mapstructure:"max_workers" yaml:"max_workers"`
	CacheSize      int           `mapstructure:"cache_size" yaml:"cache_size"`
	ReportInterval time.Duration `mapstructure:"report_interval" yaml:"report_interval"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Debug bool   `mapstructure:"debug" yaml:"debug"`
	File  string `mapstructure:"file" yaml:"file"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Strip: StripConfig{
			Policy:       stripper.Remove.String(),
			Backup:       true,
			BackupSuffix: ".bak",
		},
		Files: FilesConfig{
			Exclude: []string{".git", "**/.git", "**/node_modules", "**/vendor"},
		},
		Performance: PerformanceConfig{
			MaxWorkers:     0, // 0 means use number of CPU cores
			CacheSize:      1024,
			ReportInterval: time.Minute,
		},
	}
}

// SetDefaults registers DefaultConfig values with v
func SetDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("rules.file", d.Rules.File)
	v.SetDefault("strip.policy", d.Strip.Policy)
	v.SetDefault("strip.standalone_only", d.Strip.StandaloneOnly)
	v.SetDefault("strip.backup", d.Strip.Backup)
	v.SetDefault("strip.backup_suffix", d.Strip.BackupSuffix)
	v.SetDefault("strip.dry_run", d.Strip.DryRun)
	v.SetDefault("strip.language", d.Strip.Language)
	v.SetDefault("files.include", d.Files.Include)
	v.SetDefault("files.exclude", d.Files.Exclude)
	v.SetDefault("performance.max_workers", d.Performance.MaxWorkers)
	v.SetDefault("performance.cache_size", d.Performance.CacheSize)
	v.SetDefault("performance.report_interval", d.Performance.ReportInterval)
	v.SetDefault("log.debug", d.Log.Debug)
	v.SetDefault("log.file", d.Log.File)
}

// Load reads configuration into v and unmarshals it. An explicit path must
// exist; otherwise decomment.yaml in the working directory is read when
// present. Environment variables override file values.
func Load(v *viper.Viper, path string) (*Config, error) {
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path == "" {
		if info, err := os.Stat(DefaultFileName); err == nil && info.Mode().IsRegular() {
			path = DefaultFileName
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that cannot be expressed by types alone
func (c *Config) Validate() error {
	if _, err := stripper.ParsePolicy(c.Strip.Policy); err != nil {
		return fmt.Errorf("strip.policy: %w", err)
	}
	if c.Performance.MaxWorkers < 0 {
		return fmt.Errorf("performance.max_workers must not be negative, got %d", c.Performance.MaxWorkers)
	}
	if c.Strip.Backup && c.Strip.BackupSuffix == "" {
		return errors.New("strip.backup_suffix must be set when backups are enabled")
	}
	return nil
}

// Policy returns the parsed strip policy
func (c *Config) Policy() stripper.Policy {
	p, _ := stripper.ParsePolicy(c.Strip.Policy)
	return p
}
