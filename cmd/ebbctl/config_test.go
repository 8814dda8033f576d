package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/danmuck/ebbctl/ebb"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadRuntimeConfigDefaults(t *testing.T) {
	path := writeConfig(t, `port = "/dev/ttyACM0"`)
	cfg, err := loadRuntimeConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "/dev/ttyACM0" {
		t.Fatalf("port: got %q", cfg.Port)
	}
	if cfg.Baud != ebb.DefaultBaud {
		t.Fatalf("baud default: got %d", cfg.Baud)
	}
	if cfg.Timing.Deadline != 3*time.Second {
		t.Fatalf("deadline default: got %v", cfg.Timing.Deadline)
	}
	if cfg.Timing.InactivityWindow != 100*time.Millisecond {
		t.Fatalf("inactivity default: got %v", cfg.Timing.InactivityWindow)
	}
	if cfg.OldBoard {
		t.Fatalf("old_board default should be false")
	}
}

func TestLoadRuntimeConfigOverrides(t *testing.T) {
	path := writeConfig(t, `
port = " /dev/cu.usbmodem14101 "
baud = 9600
timeout_ms = 5000
inactivity_ms = 250
old_board = true
`)
	cfg, err := loadRuntimeConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "/dev/cu.usbmodem14101" {
		t.Fatalf("port not trimmed: %q", cfg.Port)
	}
	if cfg.Baud != 9600 {
		t.Fatalf("baud: got %d", cfg.Baud)
	}
	if cfg.Timing.Deadline != 5*time.Second {
		t.Fatalf("deadline: got %v", cfg.Timing.Deadline)
	}
	if cfg.Timing.InactivityWindow != 250*time.Millisecond {
		t.Fatalf("inactivity: got %v", cfg.Timing.InactivityWindow)
	}
	if !cfg.OldBoard {
		t.Fatalf("old_board not applied")
	}
}

func TestLoadRuntimeConfigRejectsBadValues(t *testing.T) {
	for _, body := range []string{
		`baud = 0`,
		`timeout_ms = -1`,
		`inactivity_ms = 0`,
	} {
		path := writeConfig(t, body)
		if _, err := loadRuntimeConfig(path); err == nil {
			t.Fatalf("%s: expected an error", body)
		}
	}
}

func TestLoadRuntimeConfigMissingFile(t *testing.T) {
	if _, err := loadRuntimeConfig(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Fatalf("expected an error for a missing file")
	}
}
