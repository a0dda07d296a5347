package config

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ByLCY/folio/style"
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
	if cfg.Layout.Grace != 1 || cfg.Resources.Concurrency != 4 {
		t.Errorf("unexpected defaults: grace=%d concurrency=%d", cfg.Layout.Grace, cfg.Resources.Concurrency)
	}

	// 默认值应与样式仓库的内建默认值一致
	d, err := cfg.Layout.Defaults()
	if err != nil {
		t.Fatalf("Defaults() error = %v", err)
	}
	want := style.DefaultDefaults()
	if d.FontFamily != want.FontFamily || math.Abs(d.FontSize-want.FontSize) > 1e-9 ||
		math.Abs(d.TabInterval-want.TabInterval) > 1e-9 || math.Abs(d.CellMarginSide-want.CellMarginSide) > 1e-9 ||
		d.LineSpacing != want.LineSpacing || d.Color != want.Color {
		t.Errorf("Defaults() = %+v, want %+v", d, want)
	}

	sec, err := cfg.Layout.Page.Section()
	if err != nil {
		t.Fatalf("Section() error = %v", err)
	}
	if math.Abs(sec.Width-793.7) > 0.1 || math.Abs(sec.Height-1122.5) > 0.1 || sec.Margin.Left != 96 || sec.Margin.Top != 96 {
		t.Errorf("Section() = %+v, want A4 with 1in margins", sec)
	}
}

func TestLoadConfiguration_WithFile(t *testing.T) {
	path := writeConfig(t, `version: 1
layout:
  font: Courier New
  font_size: 10pt
  grace: 0
  page:
    width: 8.5in
    height: 11in
    margin: 0.5in 1in
resources:
  concurrency: 1
logging:
  console:
    level: debug
`)

	cfg, err := LoadConfiguration(path)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	if cfg.Layout.Font != "Courier New" || cfg.Layout.Grace != 0 || cfg.Resources.Concurrency != 1 {
		t.Errorf("file values not applied: %+v", cfg.Layout)
	}
	// 文件中未给出的值保留模板默认值
	if cfg.Layout.TabInterval != "0.5in" || cfg.Logging.FileLogger.Level != "none" {
		t.Errorf("template defaults lost: tab=%q file=%q", cfg.Layout.TabInterval, cfg.Logging.FileLogger.Level)
	}
	sec, err := cfg.Layout.Page.Section()
	if err != nil {
		t.Fatalf("Section() error = %v", err)
	}
	if sec.Width != 816 || sec.Height != 1056 || sec.Margin.Top != 48 || sec.Margin.Left != 96 || sec.Margin.Right != 96 {
		t.Errorf("Section() = %+v", sec)
	}
}

func TestLoadConfiguration_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"unknown field", "version: 1\nlayout:\n  typeface: Arial\n", "typeface"},
		{"bad version", "version: 2\n", "Version"},
		{"bad level", "version: 1\nlogging:\n  console:\n    level: loud\n", "Level"},
		{"bad length", "version: 1\nlayout:\n  font_size: huge\n", "font_size"},
		{"bad margin", "version: 1\nlayout:\n  page:\n    margin: 1in 1in 1in\n", "page.margin"},
		{"negative grace", "version: 1\nlayout:\n  grace: -1\n", "Grace"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadConfiguration(writeConfig(t, tc.content))
			if err == nil {
				t.Fatalf("LoadConfiguration() expected error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestLoadConfiguration_MissingFile(t *testing.T) {
	if _, err := LoadConfiguration(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

// TestDump 验证导出的配置可以重新加载。
func TestDump(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	data, err := Dump(cfg)
	if err != nil {
		t.Fatalf("Dump() error = %v", err)
	}
	if !strings.Contains(string(data), "tab_interval: 0.5in") {
		t.Errorf("dump is missing layout values:\n%s", data)
	}
	again, err := LoadConfiguration(writeConfig(t, string(data)))
	if err != nil {
		t.Fatalf("reloading dump: %v", err)
	}
	if again.Layout != cfg.Layout {
		t.Errorf("reloaded layout = %+v, want %+v", again.Layout, cfg.Layout)
	}
}

func TestPrepare(t *testing.T) {
	data, err := Prepare()
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	if !strings.Contains(string(data), "version: 1") || strings.Contains(string(data), "{{") {
		t.Errorf("unexpected template output:\n%s", data)
	}
}
