package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	content := `data: s3://portfolios/assures.csv
listen: 0.0.0.0:8050
format: json
table_rows: 50
timeout: 30s
read_timeout: 5s
write_timeout: 2m
log_json: true
aws:
  profile: analytics
  region: eu-west-3
`
	if err := os.WriteFile(filepath.Join(dir, ".assuranalytics.yaml"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.DataLocation() != "s3://portfolios/assures.csv" {
		t.Errorf("DataLocation() = %q", cfg.DataLocation())
	}
	if cfg.ListenAddr() != "0.0.0.0:8050" {
		t.Errorf("ListenAddr() = %q, want %q", cfg.ListenAddr(), "0.0.0.0:8050")
	}
	if cfg.Format != "json" {
		t.Errorf("Format = %q, want %q", cfg.Format, "json")
	}
	if cfg.TableRows != 50 {
		t.Errorf("TableRows = %d, want 50", cfg.TableRows)
	}
	if cfg.TimeoutDuration() != 30*time.Second {
		t.Errorf("TimeoutDuration() = %v", cfg.TimeoutDuration())
	}
	if cfg.ReadTimeoutDuration() != 5*time.Second {
		t.Errorf("ReadTimeoutDuration() = %v", cfg.ReadTimeoutDuration())
	}
	if cfg.WriteTimeoutDuration() != 2*time.Minute {
		t.Errorf("WriteTimeoutDuration() = %v", cfg.WriteTimeoutDuration())
	}
	if !cfg.LogJSON {
		t.Error("LogJSON = false, want true")
	}
	if cfg.AWS.Profile != "analytics" || cfg.AWS.Region != "eu-west-3" {
		t.Errorf("AWS = %+v", cfg.AWS)
	}
}

func TestLoadYML(t *testing.T) {
	dir := t.TempDir()
	content := `table_rows: 30
`
	if err := os.WriteFile(filepath.Join(dir, ".assuranalytics.yml"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.TableRows != 30 {
		t.Errorf("TableRows = %d, want 30", cfg.TableRows)
	}
}

func TestLoadNoFile(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Data != "" {
		t.Errorf("Data = %q, want empty", cfg.Data)
	}
	if cfg.ListenAddr() != DefaultListen {
		t.Errorf("ListenAddr() = %q, want %q", cfg.ListenAddr(), DefaultListen)
	}
	if cfg.DataLocation() != DefaultData {
		t.Errorf("DataLocation() = %q, want %q", cfg.DataLocation(), DefaultData)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".assuranalytics.yaml"), []byte(":::invalid"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(dir)
	if err == nil {
		t.Error("Load() should error on invalid YAML")
	}
}

func TestTimeoutDuration(t *testing.T) {
	tests := []struct {
		timeout string
		want    time.Duration
	}{
		{"5m", 5 * time.Minute},
		{"30s", 30 * time.Second},
		{"", 0},
		{"invalid", 0},
	}
	for _, tt := range tests {
		cfg := Config{Timeout: tt.timeout}
		got := cfg.TimeoutDuration()
		if got != tt.want {
			t.Errorf("TimeoutDuration(%q) = %v, want %v", tt.timeout, got, tt.want)
		}
	}
}

func TestServerTimeoutDefaults(t *testing.T) {
	tests := []struct {
		value     string
		wantRead  time.Duration
		wantWrite time.Duration
	}{
		{"", 15 * time.Second, 60 * time.Second},
		{"invalid", 15 * time.Second, 60 * time.Second},
		{"-1s", 15 * time.Second, 60 * time.Second},
		{"3s", 3 * time.Second, 3 * time.Second},
	}
	for _, tt := range tests {
		cfg := Config{ReadTimeout: tt.value, WriteTimeout: tt.value}
		if got := cfg.ReadTimeoutDuration(); got != tt.wantRead {
			t.Errorf("ReadTimeoutDuration(%q) = %v, want %v", tt.value, got, tt.wantRead)
		}
		if got := cfg.WriteTimeoutDuration(); got != tt.wantWrite {
			t.Errorf("WriteTimeoutDuration(%q) = %v, want %v", tt.value, got, tt.wantWrite)
		}
	}
}
