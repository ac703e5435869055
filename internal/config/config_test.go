package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := Default()

	if cfg.URL != DefaultURL {
		t.Errorf("expected default URL %q, got %q", DefaultURL, cfg.URL)
	}
	if cfg.Registry != "apnic" {
		t.Errorf("expected default registry apnic, got %q", cfg.Registry)
	}
	if cfg.Country != "cn" {
		t.Errorf("expected default country cn, got %q", cfg.Country)
	}
	if cfg.Platform != "openvpn" {
		t.Errorf("expected default platform openvpn, got %q", cfg.Platform)
	}
	if cfg.Metric != 5 {
		t.Errorf("expected default metric 5, got %d", cfg.Metric)
	}
	if cfg.Output != "." {
		t.Errorf("expected default output ., got %q", cfg.Output)
	}
	if cfg.ChunkSize != 8*1024 {
		t.Errorf("expected default chunk size 8KB, got %d", cfg.ChunkSize)
	}
	if cfg.Timeout != 0 {
		t.Errorf("expected no default timeout, got %v", cfg.Timeout)
	}
	if !cfg.Progress {
		t.Error("expected progress enabled by default")
	}
}

func TestLoadFromYAML(t *testing.T) {
	yamlContent := `
country: tw
platform: linux
metric: 10
output: ./out
bucket: s3://routes-bucket
prefix: scripts
chunk_size: 16KB
timeout: 2m
progress: false
`
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	cfg, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}

	if cfg.Country != "tw" {
		t.Errorf("expected country tw, got %q", cfg.Country)
	}
	if cfg.Platform != "linux" {
		t.Errorf("expected platform linux, got %q", cfg.Platform)
	}
	if cfg.Metric != 10 {
		t.Errorf("expected metric 10, got %d", cfg.Metric)
	}
	if cfg.Output != "./out" {
		t.Errorf("expected output ./out, got %q", cfg.Output)
	}
	if cfg.Bucket != "s3://routes-bucket" {
		t.Errorf("expected bucket s3://routes-bucket, got %q", cfg.Bucket)
	}
	if cfg.Prefix != "scripts" {
		t.Errorf("expected prefix scripts, got %q", cfg.Prefix)
	}
	if cfg.ChunkSize != 16*1024 {
		t.Errorf("expected chunk size 16KB, got %d", cfg.ChunkSize)
	}
	if cfg.Timeout != 2*time.Minute {
		t.Errorf("expected timeout 2m, got %v", cfg.Timeout)
	}
	if cfg.Progress {
		t.Error("expected progress disabled")
	}

	// Unset values keep their defaults.
	if cfg.URL != DefaultURL {
		t.Errorf("expected default URL preserved, got %q", cfg.URL)
	}
	if cfg.Registry != "apnic" {
		t.Errorf("expected default registry preserved, got %q", cfg.Registry)
	}
}

func TestLoadFromYAMLKeepsProgressDefault(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("country: jp\n"), 0644); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	cfg, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}

	// No progress key in the file must not turn the display off.
	if !cfg.Progress {
		t.Error("expected progress to stay enabled")
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("CHNROUTES_URL", "http://mirror.example.com/delegated-apnic-latest")
	t.Setenv("CHNROUTES_REGISTRY", "ripencc")
	t.Setenv("CHNROUTES_COUNTRY", "de")
	t.Setenv("CHNROUTES_PLATFORM", "mac")
	t.Setenv("CHNROUTES_METRIC", "3")
	t.Setenv("CHNROUTES_CHUNK_SIZE", "32KB")
	t.Setenv("CHNROUTES_TIMEOUT", "90s")
	t.Setenv("CHNROUTES_PROGRESS", "false")

	cfg := Default()
	if err := cfg.LoadFromEnv(); err != nil {
		t.Fatalf("LoadFromEnv: %v", err)
	}

	if cfg.URL != "http://mirror.example.com/delegated-apnic-latest" {
		t.Errorf("expected URL from env, got %q", cfg.URL)
	}
	if cfg.Registry != "ripencc" {
		t.Errorf("expected registry ripencc, got %q", cfg.Registry)
	}
	if cfg.Country != "de" {
		t.Errorf("expected country de, got %q", cfg.Country)
	}
	if cfg.Platform != "mac" {
		t.Errorf("expected platform mac, got %q", cfg.Platform)
	}
	if cfg.Metric != 3 {
		t.Errorf("expected metric 3, got %d", cfg.Metric)
	}
	if cfg.ChunkSize != 32*1024 {
		t.Errorf("expected chunk size 32KB, got %d", cfg.ChunkSize)
	}
	if cfg.Timeout != 90*time.Second {
		t.Errorf("expected timeout 90s, got %v", cfg.Timeout)
	}
	if cfg.Progress {
		t.Error("expected progress disabled")
	}
}

func TestLoadFromEnvInvalidMetric(t *testing.T) {
	t.Setenv("CHNROUTES_METRIC", "high")

	cfg := Default()
	if err := cfg.LoadFromEnv(); err == nil {
		t.Error("expected error for non-numeric metric")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid config",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "missing URL",
			mutate:  func(c *Config) { c.URL = "" },
			wantErr: true,
		},
		{
			name:    "missing registry",
			mutate:  func(c *Config) { c.Registry = "" },
			wantErr: true,
		},
		{
			name:    "missing country",
			mutate:  func(c *Config) { c.Country = "" },
			wantErr: true,
		},
		{
			name:    "missing platform",
			mutate:  func(c *Config) { c.Platform = "" },
			wantErr: true,
		},
		{
			name:    "negative metric",
			mutate:  func(c *Config) { c.Metric = -1 },
			wantErr: true,
		},
		{
			name:    "zero metric",
			mutate:  func(c *Config) { c.Metric = 0 },
			wantErr: false,
		},
		{
			name:    "missing output",
			mutate:  func(c *Config) { c.Output = "" },
			wantErr: true,
		},
		{
			name:    "invalid chunk size",
			mutate:  func(c *Config) { c.ChunkSize = 0 },
			wantErr: true,
		},
		{
			name:    "negative timeout",
			mutate:  func(c *Config) { c.Timeout = -time.Second },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestMerge(t *testing.T) {
	base := Default()

	override := Config{
		Country:  "tw",
		Platform: "android",
		// Leave other fields at zero values
	}

	merged := base.Merge(override)

	// Should keep base values for non-overridden fields
	if merged.URL != DefaultURL {
		t.Errorf("expected URL preserved, got %q", merged.URL)
	}
	if merged.Registry != "apnic" {
		t.Errorf("expected registry preserved, got %q", merged.Registry)
	}
	if merged.Metric != 5 {
		t.Errorf("expected metric preserved, got %d", merged.Metric)
	}
	if !merged.Progress {
		t.Error("expected progress preserved")
	}

	// Should use override values
	if merged.Country != "tw" {
		t.Errorf("expected country overridden to tw, got %q", merged.Country)
	}
	if merged.Platform != "android" {
		t.Errorf("expected platform overridden to android, got %q", merged.Platform)
	}
}

func TestLoadYAMLFileNotFound(t *testing.T) {
	_, err := LoadFromFile("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("expected error for nonexistent file")
	}
}

func TestLoadYAMLInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("invalid: [yaml: content"), 0644); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	if _, err := LoadFromFile(configPath); err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestLoadYAMLBadChunkSize(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("chunk_size: enormous\n"), 0644); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	if _, err := LoadFromFile(configPath); err == nil {
		t.Error("expected error for unparseable chunk_size")
	}
}
