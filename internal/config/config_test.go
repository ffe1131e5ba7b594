package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadFromFile(t *testing.T) {
	t.Setenv("ETHNOS_API_URL", "")
	t.Setenv("ETHNOS_API_KEY", "")

	path := filepath.Join(t.TempDir(), "config.yml")
	content := "api_base_url: https://api.example.org/v2\nexport_dir: /tmp/exports\nlog_level: debug\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadFrom(path)
	if err != nil {
		t.Fatalf("loadFrom: %v", err)
	}
	if cfg.APIBaseURL != "https://api.example.org/v2" {
		t.Errorf("api_base_url = %q", cfg.APIBaseURL)
	}
	if cfg.ExportDir != "/tmp/exports" {
		t.Errorf("export_dir = %q", cfg.ExportDir)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("log_level = %q", cfg.LogLevel)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("ETHNOS_API_URL", "")
	t.Setenv("ETHNOS_API_KEY", "")
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	cfg, err := loadFrom(filepath.Join(t.TempDir(), "nope.yml"))
	if err != nil {
		t.Fatalf("loadFrom: %v", err)
	}
	if cfg.ExportDir != "." {
		t.Errorf("export_dir default = %q, want .", cfg.ExportDir)
	}
	if !strings.HasSuffix(cfg.DataDir, ConfigDirName) {
		t.Errorf("data_dir default = %q", cfg.DataDir)
	}
	if !strings.HasSuffix(cfg.DBPath(), DBFileName) {
		t.Errorf("db path = %q", cfg.DBPath())
	}
}

func TestLoadCorruptFileFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte("api_base_url: [unclosed"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := loadFrom(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestEnvOverridesFile(t *testing.T) {
	t.Setenv("ETHNOS_API_URL", "https://override.example.org")
	t.Setenv("ETHNOS_API_KEY", "from-env")

	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte("api_base_url: https://file.example.org\napi_key: from-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadFrom(path)
	if err != nil {
		t.Fatalf("loadFrom: %v", err)
	}
	if cfg.APIBaseURL != "https://override.example.org" {
		t.Errorf("api_base_url = %q, want env override", cfg.APIBaseURL)
	}
	if cfg.APIKey != "from-env" {
		t.Errorf("api_key = %q, want env override", cfg.APIKey)
	}
}

func TestPathRespectsXDGConfigHome(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	want := filepath.Join(dir, ConfigDirName, ConfigFileName)
	if got := Path(); got != want {
		t.Errorf("Path() = %q, want %q", got, want)
	}
}

func TestExpandTilde(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	if got := ExpandTilde("~/exports"); got != filepath.Join(home, "exports") {
		t.Errorf("ExpandTilde(~/exports) = %q", got)
	}
	if got := ExpandTilde("~"); got != home {
		t.Errorf("ExpandTilde(~) = %q", got)
	}
	if got := ExpandTilde("/abs/path"); got != "/abs/path" {
		t.Errorf("ExpandTilde(/abs/path) = %q", got)
	}
	if got := ExpandTilde("~user/x"); got != "~user/x" {
		t.Errorf("ExpandTilde(~user/x) = %q, want unchanged", got)
	}
}
