package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/danmuck/ebbctl/ebb"
	"github.com/danmuck/ebbctl/protocol"
)

// ebbctl config.toml key mapping to runtime settings.
type fileConfig struct {
	Port         string `toml:"port"`
	Baud         int    `toml:"baud"`
	TimeoutMs    int    `toml:"timeout_ms"`
	InactivityMs int    `toml:"inactivity_ms"`
	OldBoard     bool   `toml:"old_board"`
}

type runtimeConfig struct {
	Port     string
	Baud     int
	Timing   protocol.Timing
	OldBoard bool
}

func defaultRuntimeConfig() runtimeConfig {
	return runtimeConfig{
		Baud:   ebb.DefaultBaud,
		Timing: protocol.DefaultTiming(),
	}
}

// ebbctl loader for TOML config with default overlay.
func loadRuntimeConfig(path string) (runtimeConfig, error) {
	cfg := defaultRuntimeConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return runtimeConfig{}, fmt.Errorf("load ebbctl config: %w", err)
	}

	if meta.IsDefined("port") {
		cfg.Port = strings.TrimSpace(raw.Port)
	}
	if meta.IsDefined("baud") {
		cfg.Baud = raw.Baud
	}
	if meta.IsDefined("timeout_ms") {
		cfg.Timing.Deadline = time.Duration(raw.TimeoutMs) * time.Millisecond
	}
	if meta.IsDefined("inactivity_ms") {
		cfg.Timing.InactivityWindow = time.Duration(raw.InactivityMs) * time.Millisecond
	}
	if meta.IsDefined("old_board") {
		cfg.OldBoard = raw.OldBoard
	}

	if cfg.Baud <= 0 {
		return runtimeConfig{}, fmt.Errorf("load ebbctl config: invalid baud %d", cfg.Baud)
	}
	if cfg.Timing.Deadline <= 0 {
		return runtimeConfig{}, fmt.Errorf("load ebbctl config: timeout_ms must be positive")
	}
	if cfg.Timing.InactivityWindow <= 0 {
		return runtimeConfig{}, fmt.Errorf("load ebbctl config: inactivity_ms must be positive")
	}
	return cfg, nil
}
