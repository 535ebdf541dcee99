package main

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestArgsReorder(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected []string
	}{
		{
			name:     "flags after query are moved first",
			args:     []string{"staff accountant", "-top-n", "5"},
			expected: []string{"-top-n", "5", "staff accountant"},
		},
		{
			name:     "flags first returns unchanged",
			args:     []string{"-top-n", "5", "staff accountant"},
			expected: []string{"-top-n", "5", "staff accountant"},
		},
		{
			name:     "query only returns unchanged",
			args:     []string{"staff accountant"},
			expected: []string{"staff accountant"},
		},
		{
			name:     "empty args returns unchanged",
			args:     []string{},
			expected: []string{},
		},
		{
			name:     "multiple positionals then flags",
			args:     []string{"one", "two", "-boost", "CPA"},
			expected: []string{"-boost", "CPA", "one", "two"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := argsReorder(tt.args)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("argsReorder() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestBuildQueryText(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected string
	}{
		{"single word", []string{"accountant"}, "accountant"},
		{"multiple words", []string{"senior", "accountant"}, "senior accountant"},
		{"quoted phrase", []string{"senior accountant"}, "senior accountant"},
		{"empty args", []string{}, ""},
		{"blank args", []string{"  ", "  "}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := buildQueryText(tt.args)
			if got != tt.expected {
				t.Errorf("buildQueryText(%v) = %q, want %q", tt.args, got, tt.expected)
			}
		})
	}
}

func TestSplitBoostTerms(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"CPA", []string{"CPA"}},
		{"CPA,audit", []string{"CPA", "audit"}},
		{" CPA , audit ,", []string{"CPA", "audit"}},
	}
	for _, tt := range tests {
		if got := splitBoostTerms(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("splitBoostTerms(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseOutputFormat(t *testing.T) {
	if _, err := parseOutputFormat("xml"); err == nil {
		t.Error("expected error for unknown format")
	}
	if f, err := parseOutputFormat("json"); err != nil || f != "json" {
		t.Errorf("parseOutputFormat(json) = %v, %v", f, err)
	}
}

func TestLoadConfigPrefersCwdConfigWhenDefaultPath(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	content := `
debug: true
server:
  host: "localhost"
  port: 8080
storage:
  database_path: "test.db"
`
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	origWd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = os.Chdir(origWd) }()
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, err := loadConfig(defaultConfigPath)
	if err != nil {
		t.Fatal(err)
	}
	// On macOS, cwd can be /private/var/... while configPath from t.TempDir()
	// is /var/...; compare canonical paths.
	resolvedCanon, _ := filepath.EvalSymlinks(resolved)
	configPathCanon, _ := filepath.EvalSymlinks(configPath)
	if resolvedCanon != configPathCanon {
		t.Errorf("resolved path = %s, want %s", resolved, configPath)
	}
	if !cfg.Debug {
		t.Error("debug should be true from cwd config.yaml")
	}
}

func TestLoadConfigUsesExplicitPath(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	content := `
server:
  host: "127.0.0.1"
  port: 9000
storage:
  database_path: "test.db"
`
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, err := loadConfig(configPath)
	if err != nil {
		t.Fatal(err)
	}
	if resolved != configPath {
		t.Errorf("resolved path = %s, want %s", resolved, configPath)
	}
	if cfg.Server.Host != "127.0.0.1" || cfg.Server.Port != 9000 {
		t.Errorf("unexpected server config: %+v", cfg.Server)
	}
}
