package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/rupor-github/gencfg"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	return path
}

func TestLoadConfiguration_NoFile(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() with empty path error = %v", err)
	}
	if cfg.Version != 1 {
		t.Errorf("Default config version = %d, want 1", cfg.Version)
	}
	if cfg.Sheet.Dir != DirectionCol {
		t.Errorf("Default direction = %v, want col", cfg.Sheet.Dir)
	}
	if diff := cmp.Diff([]string{"g"}, cfg.Template.FragmentTags); diff != "" {
		t.Errorf("FragmentTags mismatch (-want +got):\n%s", diff)
	}
	if cfg.Template.ConfigMarker != "config" {
		t.Errorf("ConfigMarker = %q", cfg.Template.ConfigMarker)
	}
	if cfg.Watch.Interval != 250*time.Millisecond {
		t.Errorf("Watch.Interval = %v, want 250ms", cfg.Watch.Interval)
	}
	if cfg.Output.NameTemplate != "{{ .Base }}_{{ .Page }}{{ .Ext }}" {
		t.Errorf("NameTemplate was expanded: %q", cfg.Output.NameTemplate)
	}
	if diff := cmp.Diff([]string{"lp", "-d", "{{.Printer}}", "{{.Input}}"}, cfg.Print.Command); diff != "" {
		t.Errorf("Print.Command mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfiguration_WithFile(t *testing.T) {
	path := writeConfig(t, `version: 1
sheet:
  nrows: 10
  ncols: 3
  incx: 70mm
  incy: 29.7mm
  dir: row
render:
  command: [inkscape, "--export-filename={{.Output}}", "{{.Input}}"]
  extension: .pdf
watch:
  interval: 1s
logging:
  console:
    level: debug
  file:
    level: none
`)

	cfg, err := LoadConfiguration(path)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	want := SheetConfig{Rows: 10, Cols: 3, IncX: "70mm", IncY: "29.7mm", OffX: "0", OffY: "0", Dir: DirectionRow}
	if diff := cmp.Diff(want, cfg.Sheet); diff != "" {
		t.Errorf("Sheet mismatch (-want +got):\n%s", diff)
	}
	if len(cfg.Render.Command) != 3 || cfg.Render.Command[2] != "{{.Input}}" {
		t.Errorf("Render.Command = %v", cfg.Render.Command)
	}
	if cfg.Watch.Interval != time.Second {
		t.Errorf("Watch.Interval = %v", cfg.Watch.Interval)
	}
	if cfg.Logging.ConsoleLogger.Level != "debug" {
		t.Errorf("console level = %q", cfg.Logging.ConsoleLogger.Level)
	}
	// not mentioned in file, comes from defaults
	if !strings.HasSuffix(cfg.Reporting.Destination, "lbm-report.zip") {
		t.Errorf("Reporting.Destination = %q", cfg.Reporting.Destination)
	}
}

func TestLoadConfiguration_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"invalid yaml", "version: 1\nsheet:\n  nrows: 1\n  invalid indent\n"},
		{"unknown field", "version: 1\nunknown_field: value\n"},
		{"bad version", "version: 2\n"},
		{"bad direction", "version: 1\nsheet:\n  dir: diagonal\n"},
		{"negative rows", "version: 1\nsheet:\n  nrows: -1\n"},
		{"empty fragment tags", "version: 1\ntemplate:\n  fragment_tags: []\n"},
		{"zero interval", "version: 1\nwatch:\n  interval: 0s\n"},
		{"render without extension", "version: 1\nrender:\n  command: [convert]\n  extension: \"\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadConfiguration(writeConfig(t, tt.content)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoadConfiguration_NonExistentFile(t *testing.T) {
	_, err := LoadConfiguration(filepath.Join(t.TempDir(), "config.yaml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error = %v, want ErrNotExist", err)
	}
}

func TestLoadConfiguration_WithOptions(t *testing.T) {
	option := func(opts *gencfg.ProcessingOptions) {}
	if _, err := LoadConfiguration("", option); err != nil {
		t.Fatalf("LoadConfiguration() with options error = %v", err)
	}
}

func TestPrepare(t *testing.T) {
	data, err := Prepare()
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	if _, err = unmarshalConfig(data, &Config{}, true); err != nil {
		t.Errorf("Prepared config is not valid: %v", err)
	}
}

func TestDump(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Sheet.Dir = DirectionRow

	data, err := Dump(cfg)
	if err != nil {
		t.Fatalf("Dump() error = %v", err)
	}
	if !strings.Contains(string(data), "dir: row") {
		t.Errorf("Dump() does not contain direction name:\n%s", data)
	}
	if !strings.Contains(string(data), "interval: 250ms") {
		t.Errorf("Dump() does not contain duration string:\n%s", data)
	}

	cfg2, err := unmarshalConfig(data, &Config{}, false)
	if err != nil {
		t.Fatalf("Dumped config cannot be loaded: %v", err)
	}
	if diff := cmp.Diff(cfg, cfg2); diff != "" {
		t.Errorf("Dump/load mismatch (-want +got):\n%s", diff)
	}
}

func TestUnmarshalConfig_WrapsValidationError(t *testing.T) {
	_, err := unmarshalConfig([]byte("version: 99\n"), &Config{}, true)
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}
	if !strings.Contains(err.Error(), "validat") {
		t.Errorf("expected error to mention validation, got: %v", err)
	}
	if errors.Unwrap(err) == nil {
		t.Errorf("expected wrapped error, got bare error: %v", err)
	}
}

func TestDirection(t *testing.T) {
	tests := []struct {
		input   string
		want    Direction
		wantErr bool
	}{
		{"col", DirectionCol, false},
		{"ROW", DirectionRow, false},
		{"diagonal", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var d Direction
			err := d.UnmarshalText([]byte(tt.input))
			if (err != nil) != tt.wantErr {
				t.Fatalf("UnmarshalText(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err == nil && d != tt.want {
				t.Errorf("UnmarshalText(%q) = %v, want %v", tt.input, d, tt.want)
			}
		})
	}

	if _, err := Direction(5).MarshalText(); err == nil {
		t.Error("MarshalText() of invalid value should fail")
	}
	if Direction(5).String() != "Direction(5)" {
		t.Errorf("String() = %q", Direction(5).String())
	}
	if diff := cmp.Diff([]string{"col", "row"}, DirectionNames()); diff != "" {
		t.Errorf("DirectionNames() mismatch (-want +got):\n%s", diff)
	}
}
