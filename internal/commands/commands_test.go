package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ppiankov/assuranalytics/internal/config"
	"github.com/ppiankov/assuranalytics/internal/portfolio"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	if args == nil {
		args = []string{}
	}
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.Execute()
	return buf.String(), err
}

func writeSample(t *testing.T, dir string, n int) string {
	t.Helper()
	path := filepath.Join(dir, "portfolio.csv")
	var buf bytes.Buffer
	if err := portfolio.WriteCSV(&buf, portfolio.Sample(n, 7)); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestExecuteVersion(t *testing.T) {
	version = "1.0.0"
	commit = "abc123"
	date = "2026-02-28"

	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	want := "assuranalytics 1.0.0 (commit: abc123, built: 2026-02-28)"
	if !strings.Contains(out, want) {
		t.Errorf("version output = %q, want %q", out, want)
	}
}

func TestExecuteNoArgs(t *testing.T) {
	if _, err := execute(t); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
}

func TestSubcommandsRegistered(t *testing.T) {
	for _, name := range []string{"serve", "export", "summary", "init", "version"} {
		cmd, _, err := rootCmd.Find([]string{name})
		if err != nil {
			t.Errorf("Find(%q) error: %v", name, err)
			continue
		}
		if cmd.Name() != name {
			t.Errorf("Find(%q) = %q", name, cmd.Name())
		}
	}
}

func TestEnhanceErrorWithHint(t *testing.T) {
	tests := []struct {
		err  error
		hint string
	}{
		{fmt.Errorf("open x.csv: %w", os.ErrNotExist), "init --sample-data"},
		{fmt.Errorf("%w: missing columns age", portfolio.ErrSchema), "semicolon-separated"},
		{fmt.Errorf("%w: line 3", portfolio.ErrMalformedRow), "Fix or remove"},
		{errors.New("NoCredentialProviders: no valid providers"), "Configure AWS credentials"},
		{errors.New("ExpiredToken: token expired"), "session token expired"},
		{errors.New("AccessDenied: not authorized"), "s3:GetObject"},
		{errors.New("NoSuchBucket: gone"), "bucket does not exist"},
		{errors.New("NoSuchKey: gone"), "object does not exist"},
	}

	for _, tt := range tests {
		err := enhanceError("test", tt.err)
		if !strings.Contains(err.Error(), tt.hint) {
			t.Errorf("enhanceError(%q) missing hint %q, got: %s", tt.err, tt.hint, err)
		}
		if !errors.Is(err, tt.err) {
			t.Errorf("enhanceError(%q) does not wrap the cause", tt.err)
		}
	}
}

func TestEnhanceErrorWithoutHint(t *testing.T) {
	err := enhanceError("load", errors.New("some random error"))
	if strings.Contains(err.Error(), "hint:") {
		t.Errorf("unexpected hint in: %s", err)
	}
	if !strings.Contains(err.Error(), "load:") {
		t.Errorf("missing action prefix in: %s", err)
	}
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	origDir, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(origDir); err != nil {
			t.Log("failed to restore dir:", err)
		}
	})
}

func TestRunInit(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	initFlags.force = false
	initFlags.sampleData = 0
	if err := runInit(nil, nil); err != nil {
		t.Fatalf("runInit() error: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, ".assuranalytics.yaml")); err != nil {
		t.Error("config file not created")
	}
	if _, err := os.Stat(filepath.Join(dir, config.DefaultData)); err == nil {
		t.Error("sample data should not be created without --sample-data")
	}

	cfg, err := config.Load(dir)
	if err != nil {
		t.Fatalf("generated config does not parse: %v", err)
	}
	if cfg.ListenAddr() != config.DefaultListen {
		t.Errorf("ListenAddr() = %q", cfg.ListenAddr())
	}
}

func TestRunInitSampleData(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	initFlags.force = false
	initFlags.sampleData = 25
	initFlags.seed = 3
	t.Cleanup(func() { initFlags.sampleData = 0 })
	if err := runInit(nil, nil); err != nil {
		t.Fatalf("runInit() error: %v", err)
	}

	ds, err := loadDataset(context.Background(), config.DefaultData, config.Config{})
	if err != nil {
		t.Fatalf("loadDataset() error: %v", err)
	}
	if ds.Len() != 25 {
		t.Errorf("Len() = %d, want 25", ds.Len())
	}
}

func TestRunInitNoOverwrite(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	if err := os.WriteFile(filepath.Join(dir, ".assuranalytics.yaml"), []byte("existing"), 0o644); err != nil {
		t.Fatal(err)
	}

	initFlags.force = false
	if err := runInit(nil, nil); err != nil {
		t.Fatalf("runInit() error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, ".assuranalytics.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "existing" {
		t.Error("config file should not be overwritten without --force")
	}
}

func TestRunInitForce(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	if err := os.WriteFile(filepath.Join(dir, ".assuranalytics.yaml"), []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}

	initFlags.force = true
	t.Cleanup(func() { initFlags.force = false })
	if err := runInit(nil, nil); err != nil {
		t.Fatalf("runInit() error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, ".assuranalytics.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) == "old" {
		t.Error("config file should be overwritten with --force")
	}
}

func TestLoadDataset(t *testing.T) {
	path := writeSample(t, t.TempDir(), 30)

	ds, err := loadDataset(context.Background(), path, config.Config{Timeout: "5s"})
	if err != nil {
		t.Fatalf("loadDataset() error: %v", err)
	}
	if ds.Len() != 30 {
		t.Errorf("Len() = %d, want 30", ds.Len())
	}
	if ds.Source() != path {
		t.Errorf("Source() = %q, want %q", ds.Source(), path)
	}
}

func TestLoadDatasetMissing(t *testing.T) {
	_, err := loadDataset(context.Background(), filepath.Join(t.TempDir(), "nope.csv"), config.Config{})
	if err == nil {
		t.Fatal("loadDataset() should fail on a missing file")
	}
	if !strings.Contains(err.Error(), "hint:") {
		t.Errorf("missing hint in: %s", err)
	}
}

func TestLoadDatasetSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.csv")
	if err := os.WriteFile(path, []byte("age;sexe\n30;masculin\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := loadDataset(context.Background(), path, config.Config{})
	if !errors.Is(err, portfolio.ErrSchema) {
		t.Errorf("loadDataset() error = %v, want ErrSchema", err)
	}
}

func TestLoadOrEmpty(t *testing.T) {
	location := filepath.Join(t.TempDir(), "nope.csv")
	ds := loadOrEmpty(context.Background(), location, config.Config{})
	if ds.Len() != 0 {
		t.Errorf("Len() = %d, want 0", ds.Len())
	}
	if ds.Source() != location {
		t.Errorf("Source() = %q, want %q", ds.Source(), location)
	}
}

func TestDataLocation(t *testing.T) {
	appConfig = config.Config{}
	if got := dataLocation(""); got != config.DefaultData {
		t.Errorf("dataLocation(\"\") = %q, want default", got)
	}
	appConfig = config.Config{Data: "s3://bucket/key.csv"}
	t.Cleanup(func() { appConfig = config.Config{} })
	if got := dataLocation(""); got != "s3://bucket/key.csv" {
		t.Errorf("dataLocation(\"\") = %q, want config value", got)
	}
	if got := dataLocation("local.csv"); got != "local.csv" {
		t.Errorf("dataLocation(flag) = %q, want flag value", got)
	}
}

func TestFilterFlagsCriteria(t *testing.T) {
	f := filterFlags{
		types:  []string{"Auto", "Vie"},
		claims: []string{"0", "4+"},
		ageMin: "30",
		bmMax:  "1.2",
	}
	c, err := f.criteria()
	if err != nil {
		t.Fatalf("criteria() error: %v", err)
	}
	if len(c.Types) != 2 || c.Types[0] != "Auto" {
		t.Errorf("Types = %v", c.Types)
	}
	if len(c.Claims) != 2 || c.Claims[1] != portfolio.ClaimsFourPlus {
		t.Errorf("Claims = %v", c.Claims)
	}
	if c.Age == nil || c.Age.Min != 30 || c.Age.Max != portfolio.DefaultAgeRange.Max {
		t.Errorf("Age = %+v", c.Age)
	}
	if c.BonusMalus == nil || c.BonusMalus.Max != 1.2 {
		t.Errorf("BonusMalus = %+v", c.BonusMalus)
	}
	if c.Sexes != nil || c.Regions != nil {
		t.Error("unset flags should not constrain the selection")
	}
}

func TestFilterFlagsEmpty(t *testing.T) {
	var f filterFlags
	c, err := f.criteria()
	if err != nil {
		t.Fatalf("criteria() error: %v", err)
	}
	if !c.IsZero() {
		t.Errorf("criteria() = %+v, want no constraint", c)
	}
}

func TestFilterFlagsInvalid(t *testing.T) {
	tests := []filterFlags{
		{ageMin: "old"},
		{ageMin: "60", ageMax: "20"},
		{bmMin: "x"},
		{claims: []string{"many"}},
	}
	for _, f := range tests {
		if _, err := f.criteria(); err == nil {
			t.Errorf("criteria(%+v) should error", f)
		}
	}
}

func TestExportCommand(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	data := writeSample(t, dir, 60)

	tests := []struct {
		format string
		prefix string
	}{
		{"xlsx", "PK"},
		{"html", "<!DOCTYPE html>"},
		{"pdf", "%PDF"},
	}
	for _, tt := range tests {
		out := filepath.Join(dir, "report."+tt.format)
		stdout, err := execute(t, "export", "--data", data, "--format", tt.format, "-o", out, "--type", "Auto")
		if err != nil {
			t.Fatalf("export %s error: %v", tt.format, err)
		}
		if !strings.Contains(stdout, "Wrote "+out) {
			t.Errorf("export %s output = %q", tt.format, stdout)
		}
		content, err := os.ReadFile(out)
		if err != nil {
			t.Fatalf("read %s: %v", out, err)
		}
		if !bytes.HasPrefix(content, []byte(tt.prefix)) {
			t.Errorf("%s report does not start with %q", tt.format, tt.prefix)
		}
	}
}

func TestExportUnsupportedFormat(t *testing.T) {
	_, err := execute(t, "export", "--format", "csv")
	if err == nil || !strings.Contains(err.Error(), "unsupported format") {
		t.Errorf("export --format csv error = %v", err)
	}
}

func TestExportMissingData(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	_, err := execute(t, "export", "--format", "pdf", "--data", filepath.Join(dir, "nope.csv"))
	if err == nil {
		t.Fatal("export should fail when the dataset is missing")
	}
}

func TestSummaryJSON(t *testing.T) {
	data := writeSample(t, t.TempDir(), 40)

	out, err := execute(t, "summary", "--data", data, "--format", "json")
	if err != nil {
		t.Fatalf("summary error: %v", err)
	}
	var payload map[string]json.RawMessage
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("summary output is not JSON: %v\n%s", err, out)
	}
	for _, key := range []string{"tool", "dashboard", "regions", "types"} {
		if _, ok := payload[key]; !ok {
			t.Errorf("summary JSON missing %q", key)
		}
	}
}

func TestSummaryText(t *testing.T) {
	data := writeSample(t, t.TempDir(), 40)

	out, err := execute(t, "summary", "--data", data, "--format", "text", "--region", "Dakar")
	if err != nil {
		t.Fatalf("summary error: %v", err)
	}
	if !strings.Contains(out, "AssurAnalytics") {
		t.Errorf("summary text missing header:\n%s", out)
	}
	if !strings.Contains(out, "Dakar") {
		t.Errorf("summary text missing active filter:\n%s", out)
	}
}

func TestSummaryUnsupportedFormat(t *testing.T) {
	_, err := execute(t, "summary", "--format", "pdf")
	if err == nil || !strings.Contains(err.Error(), "text or json") {
		t.Errorf("summary --format pdf error = %v", err)
	}
}
