// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"phi-scan/internal/paths"
	"phi-scan/internal/redactors/strategies"
)

// Draft store backends
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// DefaultDraftTTL is how long an auto-saved draft stays recoverable
const DefaultDraftTTL = 24 * time.Hour

// Config represents the application configuration
type Config struct {
	// Default settings
	Defaults struct {
		Format           string `yaml:"format"`
		ConfidenceLevels string `yaml:"confidence_levels"`
		Checks           string `yaml:"checks"`
		Verbose          bool   `yaml:"verbose"`
		Debug            bool   `yaml:"debug"`
		NoColor          bool   `yaml:"no_color"`
		ShowMatch        bool   `yaml:"show_match"`
		FailOnPHI        bool   `yaml:"fail_on_phi"`
	} `yaml:"defaults"`

	Redaction struct {
		Strategy string `yaml:"strategy"`
	} `yaml:"redaction"`

	Suppressions struct {
		Enabled bool   `yaml:"enabled"`
		File    string `yaml:"file"`
	} `yaml:"suppressions"`

	Autosave AutosaveConfig `yaml:"autosave"`

	Server ServerConfig `yaml:"server"`

	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		File   string `yaml:"file"`
	} `yaml:"logging"`

	// Profiles for different scanning scenarios
	Profiles map[string]Profile `yaml:"profiles"`
}

// AutosaveConfig selects and tunes the draft store
type AutosaveConfig struct {
	Backend string        `yaml:"backend"`
	TTL     time.Duration `yaml:"ttl"`

	// File backend
	Dir string `yaml:"dir"`

	// Redis backend
	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`

	// Postgres backend
	PostgresDSN string `yaml:"postgres_dsn"`

	// Best-effort remote copy of every saved draft; empty disables it
	MirrorURL     string        `yaml:"mirror_url"`
	MirrorTimeout time.Duration `yaml:"mirror_timeout"`
}

// ServerConfig holds the HTTP service settings
type ServerConfig struct {
	Address        string        `yaml:"address"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout"`
	MaxBodyBytes   int64         `yaml:"max_body_bytes"`
	RateLimit      float64       `yaml:"rate_limit"` // requests per second per client
	RateBurst      int           `yaml:"rate_burst"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
}

// Profile represents a scanning profile with specific settings
type Profile struct {
	Format           string `yaml:"format"`
	ConfidenceLevels string `yaml:"confidence_levels"`
	Checks           string `yaml:"checks"`
	Verbose          bool   `yaml:"verbose"`
	NoColor          bool   `yaml:"no_color"`
	ShowMatch        bool   `yaml:"show_match"`
	Compact          bool   `yaml:"compact"`
	FailOnPHI        bool   `yaml:"fail_on_phi"`
	Description      string `yaml:"description"`
	Redaction        struct {
		Strategy string `yaml:"strategy"`
	} `yaml:"redaction"`
}

// PublishProfile is the built-in profile for pre-publication gates
const PublishProfile = "publish"

// Default returns the built-in configuration
func Default() *Config {
	config := &Config{
		Profiles: make(map[string]Profile),
	}

	config.Defaults.Format = "text"
	config.Defaults.ConfidenceLevels = "all"
	config.Defaults.Checks = "all"

	config.Redaction.Strategy = strategies.PlaceholderName

	config.Suppressions.Enabled = true

	config.Autosave.Backend = BackendFile
	config.Autosave.TTL = DefaultDraftTTL
	config.Autosave.RedisAddr = "localhost:6379"
	config.Autosave.MirrorTimeout = 5 * time.Second

	config.Server.Address = ":8080"
	config.Server.ReadTimeout = 15 * time.Second
	config.Server.WriteTimeout = 15 * time.Second
	config.Server.MaxBodyBytes = 1 << 20
	config.Server.RateLimit = 10
	config.Server.RateBurst = 20

	config.Logging.Level = "info"
	config.Logging.Format = "json"

	publish := Profile{
		Format:           "text",
		ConfidenceLevels: "high,medium",
		Checks:           "all",
		NoColor:          true,
		Compact:          true,
		FailOnPHI:        true,
		Description:      "Gate before publishing: concise output, non-zero exit when PHI remains",
	}
	publish.Redaction.Strategy = strategies.PlaceholderName
	config.Profiles[PublishProfile] = publish

	return config
}

// LoadConfig loads configuration from the specified file path. Values
// missing from the file keep their defaults.
func LoadConfig(configPath string) (*Config, error) {
	config := Default()

	if configPath == "" {
		applyEnv(config)
		return config, nil
	}

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// yaml.v3 leaves fields absent from the document untouched
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}
	if config.Profiles == nil {
		config.Profiles = make(map[string]Profile)
	}
	if _, ok := config.Profiles[PublishProfile]; !ok {
		config.Profiles[PublishProfile] = Default().Profiles[PublishProfile]
	}

	applyEnv(config)

	if err := ValidateConfig(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Environment overrides, mostly for credentials that should stay out of files
var envOverrides = map[string]func(*Config, string){
	"PHI_SCAN_LOG_LEVEL":        func(c *Config, v string) { c.Logging.Level = v },
	"PHI_SCAN_AUTOSAVE_BACKEND": func(c *Config, v string) { c.Autosave.Backend = v },
	"PHI_SCAN_REDIS_ADDR":       func(c *Config, v string) { c.Autosave.RedisAddr = v },
	"PHI_SCAN_REDIS_PASSWORD":   func(c *Config, v string) { c.Autosave.RedisPassword = v },
	"PHI_SCAN_POSTGRES_DSN":     func(c *Config, v string) { c.Autosave.PostgresDSN = v },
	"PHI_SCAN_MIRROR_URL":       func(c *Config, v string) { c.Autosave.MirrorURL = v },
	"PHI_SCAN_SERVER_ADDRESS":   func(c *Config, v string) { c.Server.Address = v },
}

func applyEnv(config *Config) {
	for key, apply := range envOverrides {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			apply(config, v)
		}
	}
}

// FindConfigFile looks for a configuration file in the working directory,
// then in the per-user config directory
func FindConfigFile() string {
	for _, name := range []string{"phi-scan.yaml", "phi-scan.yml", ".phi-scan.yaml", ".phi-scan.yml"} {
		if fileExists(name) {
			return name
		}
	}

	if userConfig := paths.GetConfigFile(); fileExists(userConfig) {
		return userConfig
	}

	return ""
}

// fileExists checks if a file exists and is not a directory
func fileExists(filename string) bool {
	info, err := os.Stat(filename)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// ListProfiles returns the sorted profile names
func (c *Config) ListProfiles() []string {
	profiles := make([]string, 0, len(c.Profiles))
	for name := range c.Profiles {
		profiles = append(profiles, name)
	}
	sort.Strings(profiles)
	return profiles
}

// GetProfile returns a profile by name, or nil if not found
func (c *Config) GetProfile(name string) *Profile {
	if profile, exists := c.Profiles[name]; exists {
		return &profile
	}
	return nil
}

var validLogLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// ValidateConfig checks values that would otherwise fail late
func ValidateConfig(config *Config) error {
	var problems []string

	if _, err := strategies.Parse(config.Redaction.Strategy); err != nil {
		problems = append(problems, err.Error())
	}
	for name, p := range config.Profiles {
		if _, err := strategies.Parse(p.Redaction.Strategy); err != nil {
			problems = append(problems, fmt.Sprintf("profile %s: %v", name, err))
		}
	}

	switch config.Autosave.Backend {
	case BackendMemory, BackendFile, BackendRedis:
	case BackendPostgres:
		if config.Autosave.PostgresDSN == "" {
			problems = append(problems, "autosave backend postgres requires postgres_dsn")
		}
	default:
		problems = append(problems, fmt.Sprintf("unknown autosave backend %q", config.Autosave.Backend))
	}
	if config.Autosave.TTL <= 0 {
		problems = append(problems, "autosave ttl must be positive")
	}

	if config.Server.RateLimit < 0 || config.Server.RateBurst < 0 {
		problems = append(problems, "server rate limit must not be negative")
	}

	if !validLogLevels[strings.ToLower(config.Logging.Level)] {
		problems = append(problems, fmt.Sprintf("invalid log level %q (must be debug, info, warn, or error)", config.Logging.Level))
	}

	if len(problems) > 0 {
		return fmt.Errorf("%s", strings.Join(problems, "; "))
	}
	return nil
}

// LoadConfigOrDefault loads configuration from configFile (or searches standard locations
// when configFile is empty). If loading fails, it returns a default configuration.
// This is the shared helper used by both the CLI and the web server.
func LoadConfigOrDefault(configFile string) *Config {
	if configFile == "" {
		configFile = FindConfigFile()
	}

	cfg, err := LoadConfig(configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v, using defaults\n", err)
		cfg = Default()
		applyEnv(cfg)
	}
	return cfg
}
