package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/dotcommander/listingscore/internal/logging"
	"github.com/dotcommander/listingscore/internal/scoring"
)

// Config represents the listingscore configuration
type Config struct {
	Root        string      `mapstructure:"root" json:"root"`
	Format      string      `mapstructure:"format" json:"format"`
	Output      string      `mapstructure:"output" json:"output,omitempty"`
	FailOn      string      `mapstructure:"failOn" json:"failOn"`
	Quiet       bool        `mapstructure:"quiet" json:"quiet"`
	Verbose     bool        `mapstructure:"verbose" json:"verbose"`
	Rubric      string      `mapstructure:"rubric" json:"rubric"`
	RubricFile  string      `mapstructure:"rubricFile" json:"rubricFile,omitempty"`
	Lexicon     string      `mapstructure:"lexicon" json:"lexicon,omitempty"`
	Concurrency int         `mapstructure:"concurrency" json:"concurrency"`
	CacheSize   int         `mapstructure:"cacheSize" json:"cacheSize"`
	LogLevel    string      `mapstructure:"logLevel" json:"logLevel"`
	LogFile     string      `mapstructure:"logFile" json:"logFile,omitempty"`
	PostgresDSN string      `mapstructure:"postgresDSN" json:"postgresDSN,omitempty"`
	Redis       RedisConfig `mapstructure:"redis" json:"redis"`
	MetricsOut  string      `mapstructure:"metricsOut" json:"metricsOut,omitempty"`
}

// RedisConfig holds draft store connection settings.
type RedisConfig struct {
	Addr     string `mapstructure:"addr" json:"addr,omitempty"`
	Password string `mapstructure:"password" json:"-"`
	DB       int    `mapstructure:"db" json:"db"`
	TTL      string `mapstructure:"ttl" json:"ttl"`
}

// TTLDuration parses TTL; empty means zero (store default).
func (r RedisConfig) TTLDuration() (time.Duration, error) {
	if r.TTL == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(r.TTL)
	if err != nil {
		return 0, fmt.Errorf("invalid redis ttl %q: %w", r.TTL, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid redis ttl %q: must not be negative", r.TTL)
	}
	return d, nil
}

// ConfigFiles are tried in order; the first readable one wins.
var ConfigFiles = []string{".listingscorerc.json", ".listingscorerc.yaml", ".listingscorerc.yml"}

// EnvPrefix is the prefix for environment overrides (LISTINGSCORE_FORMAT etc.).
const EnvPrefix = "LISTINGSCORE"

// Load reads configuration from defaults, the first config file found in the
// working directory, a .env file, LISTINGSCORE_* environment variables and any
// flags already bound to v.
func Load(v *viper.Viper, rootPath string) (*Config, error) {
	// .env is optional; a missing file is not an error
	_ = godotenv.Load()

	v.SetDefault("root", ".")
	v.SetDefault("format", "console")
	v.SetDefault("failOn", "none")
	v.SetDefault("quiet", false)
	v.SetDefault("verbose", false)
	v.SetDefault("rubric", scoring.DefaultRubricVersion)
	v.SetDefault("concurrency", 4)
	v.SetDefault("cacheSize", 256)
	v.SetDefault("logLevel", "warn")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", "24h")

	// Unmarshal only sees env values for known keys.
	for _, key := range []string{"output", "rubricFile", "lexicon", "logFile", "postgresDSN", "metricsOut", "redis.addr", "redis.password"} {
		v.SetDefault(key, "")
	}

	for _, path := range ConfigFiles {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err == nil {
			break
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if rootPath != "" {
		config.Root = rootPath
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func validateConfig(config *Config) error {
	switch config.Format {
	case "console", "json", "markdown":
	default:
		return fmt.Errorf("invalid format: %s. Must be 'console', 'json', or 'markdown'", config.Format)
	}

	if _, err := ParseFailOn(config.FailOn); err != nil {
		return err
	}

	if config.RubricFile == "" {
		if _, err := scoring.RubricByVersion(config.Rubric); err != nil {
			return err
		}
	}

	if config.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1")
	}

	if config.CacheSize < 0 {
		return fmt.Errorf("cacheSize must not be negative")
	}

	if _, err := logging.ParseLevel(config.LogLevel); err != nil {
		return err
	}

	if _, err := config.Redis.TTLDuration(); err != nil {
		return err
	}

	return nil
}

// FailOn is the severity threshold that turns a run into exit code 2.
type FailOn int

const (
	FailOnNone FailOn = iota
	FailOnWarning
	FailOnError
)

// ParseFailOn accepts error, warning or none.
func ParseFailOn(s string) (FailOn, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return FailOnNone, nil
	case "warning":
		return FailOnWarning, nil
	case "error":
		return FailOnError, nil
	default:
		return FailOnNone, fmt.Errorf("invalid fail-on level: %s. Must be 'error', 'warning', or 'none'", s)
	}
}

// SaveConfig writes the configuration as JSON, creating parent directories.
func SaveConfig(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}

	jsonData, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(path, jsonData, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}
