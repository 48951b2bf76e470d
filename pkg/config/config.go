// Package config loads and validates SDK configuration via Viper. Settings
// layer in the usual order: defaults, config file, environment variables.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvTokenNames are the environment variables checked for an API token, in
// resolution order.
var EnvTokenNames = []string{
	"BRIGHTDATA_API_TOKEN",
	"BRIGHTDATA_TOKEN",
	"BRIGHT_DATA_API_TOKEN",
	"BRIGHT_DATA_TOKEN",
}

// Config captures every SDK and CLI configuration knob.
type Config struct {
	Token   string        `mapstructure:"token"`
	BaseURL string        `mapstructure:"base_url"`
	HTTP    HTTPConfig    `mapstructure:"http"`
	Zones   ZoneConfig    `mapstructure:"zones"`
	Poll    PollConfig    `mapstructure:"poll"`
	Batch   BatchConfig   `mapstructure:"batch"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// HTTPConfig controls transport behavior.
type HTTPConfig struct {
	TimeoutSeconds int     `mapstructure:"timeout_seconds"`
	RateLimitRPS   float64 `mapstructure:"rate_limit_rps"`
}

// ZoneConfig names the upstream service buckets for the two request families.
type ZoneConfig struct {
	Unlocker string `mapstructure:"unlocker"`
	Serp     string `mapstructure:"serp"`
}

// PollConfig tunes the snapshot polling loop.
type PollConfig struct {
	InitialIntervalSeconds int `mapstructure:"initial_interval_seconds"`
	MaxIntervalSeconds     int `mapstructure:"max_interval_seconds"`
	MaxTransientRetries    int `mapstructure:"max_transient_retries"`
}

// BatchConfig bounds list-parameter fan-out.
type BatchConfig struct {
	Concurrency int `mapstructure:"concurrency"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// Load builds a Config from defaults, an optional config file, and the
// environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("BRIGHTDATA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.Token == "" {
		cfg.Token = TokenFromEnv()
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("base_url", "https://api.brightdata.com")
	v.SetDefault("http.timeout_seconds", 30)
	v.SetDefault("http.rate_limit_rps", 0)
	v.SetDefault("zones.unlocker", "sdk_unlocker")
	v.SetDefault("zones.serp", "sdk_serp")
	v.SetDefault("poll.initial_interval_seconds", 2)
	v.SetDefault("poll.max_interval_seconds", 30)
	v.SetDefault("poll.max_transient_retries", 3)
	v.SetDefault("batch.concurrency", 8)
	v.SetDefault("logging.development", false)
}

// Validate enforces required values and reasonable limits. The token is
// deliberately not required here; the client reports a clearer error when it
// resolves credentials.
func (c Config) Validate() error {
	if c.HTTP.TimeoutSeconds <= 0 {
		return fmt.Errorf("http.timeout_seconds must be > 0")
	}
	if c.HTTP.RateLimitRPS < 0 {
		return fmt.Errorf("http.rate_limit_rps must be >= 0")
	}
	if c.Poll.InitialIntervalSeconds <= 0 {
		return fmt.Errorf("poll.initial_interval_seconds must be > 0")
	}
	if c.Poll.MaxIntervalSeconds < c.Poll.InitialIntervalSeconds {
		return fmt.Errorf("poll.max_interval_seconds must be >= poll.initial_interval_seconds")
	}
	if c.Batch.Concurrency <= 0 {
		return fmt.Errorf("batch.concurrency must be > 0")
	}
	return nil
}

// Timeout returns the transport timeout as a duration.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.HTTP.TimeoutSeconds) * time.Second
}

// PollInitialInterval returns the first poll interval as a duration.
func (c Config) PollInitialInterval() time.Duration {
	return time.Duration(c.Poll.InitialIntervalSeconds) * time.Second
}

// PollMaxInterval returns the poll interval cap as a duration.
func (c Config) PollMaxInterval() time.Duration {
	return time.Duration(c.Poll.MaxIntervalSeconds) * time.Second
}

// TokenFromEnv resolves an API token from the environment, falling back to a
// .env file in the working directory.
func TokenFromEnv() string {
	for _, name := range EnvTokenNames {
		if token := strings.TrimSpace(os.Getenv(name)); token != "" {
			return token
		}
	}
	return tokenFromDotEnv(".env")
}

// tokenFromDotEnv reads a dotenv-format file without mutating the process
// environment.
func tokenFromDotEnv(path string) string {
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")
	if err := v.ReadInConfig(); err != nil {
		return ""
	}
	for _, name := range EnvTokenNames {
		if token := strings.TrimSpace(v.GetString(name)); token != "" {
			return token
		}
	}
	return ""
}
