package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Clouded-Sabre/chnroutes/internal/progress"
)

// DefaultURL is the delegation file published by APNIC.
const DefaultURL = "http://ftp.apnic.net/apnic/stats/apnic/delegated-apnic-latest"

// Config defines configuration for the chnroutes CLI.
type Config struct {
	URL       string        `yaml:"url"`
	Registry  string        `yaml:"registry"`
	Country   string        `yaml:"country"`
	Platform  string        `yaml:"platform"`
	Metric    int           `yaml:"metric"`
	Output    string        `yaml:"output"`
	Bucket    string        `yaml:"bucket"`
	Prefix    string        `yaml:"prefix"`
	ChunkSize int64         `yaml:"chunk_size"`
	Timeout   time.Duration `yaml:"timeout"`
	Progress  bool          `yaml:"progress"`
}

// Default returns a Config with sensible defaults: China's APNIC
// allocations rendered for openvpn into the current directory.
func Default() Config {
	return Config{
		URL:       DefaultURL,
		Registry:  "apnic",
		Country:   "cn",
		Platform:  "openvpn",
		Metric:    5,
		Output:    ".",
		ChunkSize: 8 * 1024,
		Progress:  true,
	}
}

// yamlConfig is used for YAML unmarshaling with string sizes and
// durations. Progress is a pointer so an absent key keeps the default.
type yamlConfig struct {
	URL       string `yaml:"url"`
	Registry  string `yaml:"registry"`
	Country   string `yaml:"country"`
	Platform  string `yaml:"platform"`
	Metric    int    `yaml:"metric"`
	Output    string `yaml:"output"`
	Bucket    string `yaml:"bucket"`
	Prefix    string `yaml:"prefix"`
	ChunkSize string `yaml:"chunk_size"`
	Timeout   string `yaml:"timeout"`
	Progress  *bool  `yaml:"progress"`
}

// LoadFromFile loads configuration from a YAML file. Values absent from
// the file keep their defaults.
func LoadFromFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	var yc yamlConfig
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return Config{}, fmt.Errorf("parse config file: %w", err)
	}

	cfg := Default()

	if yc.URL != "" {
		cfg.URL = yc.URL
	}
	if yc.Registry != "" {
		cfg.Registry = yc.Registry
	}
	if yc.Country != "" {
		cfg.Country = yc.Country
	}
	if yc.Platform != "" {
		cfg.Platform = yc.Platform
	}
	if yc.Metric != 0 {
		cfg.Metric = yc.Metric
	}
	if yc.Output != "" {
		cfg.Output = yc.Output
	}
	if yc.Bucket != "" {
		cfg.Bucket = yc.Bucket
	}
	if yc.Prefix != "" {
		cfg.Prefix = yc.Prefix
	}
	if yc.ChunkSize != "" {
		size, err := progress.ParseBytes(yc.ChunkSize)
		if err != nil {
			return Config{}, fmt.Errorf("parse chunk_size: %w", err)
		}
		cfg.ChunkSize = size
	}
	if yc.Timeout != "" {
		d, err := time.ParseDuration(yc.Timeout)
		if err != nil {
			return Config{}, fmt.Errorf("parse timeout: %w", err)
		}
		cfg.Timeout = d
	}
	if yc.Progress != nil {
		cfg.Progress = *yc.Progress
	}

	return cfg, nil
}

// LoadFromEnv loads configuration from environment variables.
// Environment variables use the CHNROUTES_ prefix.
func (c *Config) LoadFromEnv() error {
	if v := os.Getenv("CHNROUTES_URL"); v != "" {
		c.URL = v
	}
	if v := os.Getenv("CHNROUTES_REGISTRY"); v != "" {
		c.Registry = v
	}
	if v := os.Getenv("CHNROUTES_COUNTRY"); v != "" {
		c.Country = v
	}
	if v := os.Getenv("CHNROUTES_PLATFORM"); v != "" {
		c.Platform = v
	}
	if v := os.Getenv("CHNROUTES_METRIC"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse CHNROUTES_METRIC: %w", err)
		}
		c.Metric = n
	}
	if v := os.Getenv("CHNROUTES_OUTPUT"); v != "" {
		c.Output = v
	}
	if v := os.Getenv("CHNROUTES_BUCKET"); v != "" {
		c.Bucket = v
	}
	if v := os.Getenv("CHNROUTES_PREFIX"); v != "" {
		c.Prefix = v
	}
	if v := os.Getenv("CHNROUTES_CHUNK_SIZE"); v != "" {
		size, err := progress.ParseBytes(v)
		if err != nil {
			return fmt.Errorf("parse CHNROUTES_CHUNK_SIZE: %w", err)
		}
		c.ChunkSize = size
	}
	if v := os.Getenv("CHNROUTES_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse CHNROUTES_TIMEOUT: %w", err)
		}
		c.Timeout = d
	}
	if v := os.Getenv("CHNROUTES_PROGRESS"); v != "" {
		c.Progress = v == "true" || v == "1"
	}

	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.URL == "" {
		return errors.New("config: url is required")
	}
	if c.Registry == "" {
		return errors.New("config: registry is required")
	}
	if c.Country == "" {
		return errors.New("config: country is required")
	}
	if c.Platform == "" {
		return errors.New("config: platform is required")
	}
	if c.Metric < 0 {
		return errors.New("config: metric must not be negative")
	}
	if c.Output == "" {
		return errors.New("config: output directory is required")
	}
	if c.ChunkSize <= 0 {
		return errors.New("config: chunk_size must be positive")
	}
	if c.Timeout < 0 {
		return errors.New("config: timeout must not be negative")
	}
	return nil
}

// Merge merges override values into c, returning a new Config.
// Zero values in override are ignored.
func (c Config) Merge(override Config) Config {
	if override.URL != "" {
		c.URL = override.URL
	}
	if override.Registry != "" {
		c.Registry = override.Registry
	}
	if override.Country != "" {
		c.Country = override.Country
	}
	if override.Platform != "" {
		c.Platform = override.Platform
	}
	if override.Metric != 0 {
		c.Metric = override.Metric
	}
	if override.Output != "" {
		c.Output = override.Output
	}
	if override.Bucket != "" {
		c.Bucket = override.Bucket
	}
	if override.Prefix != "" {
		c.Prefix = override.Prefix
	}
	if override.ChunkSize != 0 {
		c.ChunkSize = override.ChunkSize
	}
	if override.Timeout != 0 {
		c.Timeout = override.Timeout
	}
	if override.Progress {
		c.Progress = override.Progress
	}
	return c
}
