package config

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
)

// validConfig returns a minimal valid Config for testing.
func validConfig() *Config {
	return &Config{
		Global:     GlobalConfig{LogLevel: "info"},
		HostsPath:  "/etc/hosts",
		PkexecPath: "/usr/bin/pkexec",
	}
}

// --- Validate function tests ---

func TestValidate_ValidConfig(t *testing.T) {
	if err := Validate(validConfig()); err != nil {
		t.Fatalf("expected valid config to pass validation, got: %v", err)
	}
}

func TestValidate_HostsPathEmpty(t *testing.T) {
	cfg := validConfig()
	cfg.HostsPath = ""
	if err := Validate(cfg); err == nil {
		t.Fatal("expected error for empty hosts_path, got nil")
	}
}

func TestValidate_HostsPathRelative(t *testing.T) {
	cfg := validConfig()
	cfg.HostsPath = "etc/hosts"
	if err := Validate(cfg); err == nil {
		t.Fatal("expected error for relative hosts_path, got nil")
	}
}

func TestValidate_PkexecPathEmpty(t *testing.T) {
	cfg := validConfig()
	cfg.PkexecPath = ""
	if err := Validate(cfg); err == nil {
		t.Fatal("expected error for empty pkexec_path, got nil")
	}
}

func TestValidate_LogLevelInvalid(t *testing.T) {
	cfg := validConfig()
	cfg.Global.LogLevel = "verbose"
	if err := Validate(cfg); err == nil {
		t.Fatal("expected error for unsupported log level, got nil")
	}
}

// --- Manager tests ---

func TestNewManager_MissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lhm.yaml")

	manager, err := NewManager(path, zap.NewNop())
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	cfg := manager.GetConfig()
	if cfg.HostsPath != "/etc/hosts" {
		t.Errorf("expected default hosts_path, got %q", cfg.HostsPath)
	}
	if cfg.PkexecPath != "/usr/bin/pkexec" {
		t.Errorf("expected default pkexec_path, got %q", cfg.PkexecPath)
	}
	if cfg.Global.LogLevel != "info" {
		t.Errorf("expected default log level, got %q", cfg.Global.LogLevel)
	}
}

func TestNewManager_LoadsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lhm.yaml")
	yaml := "global:\n  log_level: debug\nhosts_path: /tmp/hosts\npkexec_path: /usr/local/bin/pkexec\n"
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	manager, err := NewManager(path, zap.NewNop())
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	cfg := manager.GetConfig()
	if cfg.HostsPath != "/tmp/hosts" {
		t.Errorf("expected configured hosts_path, got %q", cfg.HostsPath)
	}
	if cfg.PkexecPath != "/usr/local/bin/pkexec" {
		t.Errorf("expected configured pkexec_path, got %q", cfg.PkexecPath)
	}
	if cfg.Global.LogLevel != "debug" {
		t.Errorf("expected configured log level, got %q", cfg.Global.LogLevel)
	}
}

func TestNewManager_RejectsInvalidFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lhm.yaml")
	if err := os.WriteFile(path, []byte("hosts_path: relative/path\n"), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	if _, err := NewManager(path, zap.NewNop()); err == nil {
		t.Fatal("expected error for invalid config, got nil")
	}
}
