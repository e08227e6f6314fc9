package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults used when neither a flag nor the config file sets a value.
const (
	DefaultListen = "127.0.0.1:9753"
	DefaultData   = "data/assurance_data_1000.csv"
)

// Config holds assuranalytics configuration loaded from .assuranalytics.yaml.
type Config struct {
	Data         string `yaml:"data"`
	Listen       string `yaml:"listen"`
	Format       string `yaml:"format"`
	TableRows    int    `yaml:"table_rows"`
	Timeout      string `yaml:"timeout"`
	ReadTimeout  string `yaml:"read_timeout"`
	WriteTimeout string `yaml:"write_timeout"`
	LogJSON      bool   `yaml:"log_json"`
	AWS          AWS    `yaml:"aws"`
}

// AWS configures access to datasets stored in S3.
type AWS struct {
	Profile string `yaml:"profile"`
	Region  string `yaml:"region"`
}

// TimeoutDuration parses the dataset load timeout.
func (c Config) TimeoutDuration() time.Duration {
	return parseDuration(c.Timeout)
}

// ReadTimeoutDuration parses the HTTP read timeout, defaulting to 15s.
func (c Config) ReadTimeoutDuration() time.Duration {
	if d := parseDuration(c.ReadTimeout); d > 0 {
		return d
	}
	return 15 * time.Second
}

// WriteTimeoutDuration parses the HTTP write timeout, defaulting to 60s.
// Exports are rendered inside the write window.
func (c Config) WriteTimeoutDuration() time.Duration {
	if d := parseDuration(c.WriteTimeout); d > 0 {
		return d
	}
	return 60 * time.Second
}

// ListenAddr returns the configured listen address or DefaultListen.
func (c Config) ListenAddr() string {
	if c.Listen == "" {
		return DefaultListen
	}
	return c.Listen
}

// DataLocation returns the configured dataset location or DefaultData.
func (c Config) DataLocation() string {
	if c.Data == "" {
		return DefaultData
	}
	return c.Data
}

func parseDuration(s string) time.Duration {
	if s == "" {
		return 0
	}
	d, _ := time.ParseDuration(s)
	return d
}

// Load searches for .assuranalytics.yaml or .assuranalytics.yml in the given
// directory and returns the parsed config. Returns an empty Config if no file is found.
func Load(dir string) (Config, error) {
	candidates := []string{
		filepath.Join(dir, ".assuranalytics.yaml"),
		filepath.Join(dir, ".assuranalytics.yml"),
	}

	for _, path := range candidates {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}

		var cfg Config
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
		return cfg, nil
	}

	return Config{}, nil
}
