package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"sysyc/internal/driver"
	"sysyc/internal/trace"
)

const manifestName = "sysyc.toml"

type projectManifest struct {
	Path   string
	Root   string
	Config projectConfig
}

// sysyc.toml:
//
//	[build]
//	mode = "riscv"   # or "koopa"
//	fold = true
//	[trace]
//	level = "phase"
//	[cache]
//	enabled = true
type projectConfig struct {
	Build buildConfig `toml:"build"`
	Trace traceConfig `toml:"trace"`
	Cache cacheConfig `toml:"cache"`
}

type buildConfig struct {
	Mode string `toml:"mode"`
	Fold bool   `toml:"fold"`
}

type traceConfig struct {
	Level string `toml:"level"`
}

type cacheConfig struct {
	Enabled bool `toml:"enabled"`
}

func findManifest(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, manifestName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// loadProjectManifest walks up from startDir; a missing file is not an error.
func loadProjectManifest(startDir string) (*projectManifest, bool, error) {
	manifestPath, ok, err := findManifest(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err := loadProjectConfig(manifestPath)
	if err != nil {
		return nil, true, err
	}
	return &projectManifest{
		Path:   manifestPath,
		Root:   filepath.Dir(manifestPath),
		Config: cfg,
	}, true, nil
}

func loadProjectConfig(path string) (projectConfig, error) {
	var cfg projectConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return projectConfig{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return projectConfig{}, fmt.Errorf("%s: unknown key %q", path, undecoded[0].String())
	}
	if cfg.Build.Mode != "" {
		if _, err := driver.ParseEmitMode(cfg.Build.Mode); err != nil {
			return projectConfig{}, fmt.Errorf("%s: [build].mode: %w", path, err)
		}
	}
	if cfg.Trace.Level != "" {
		if _, err := trace.ParseLevel(cfg.Trace.Level); err != nil {
			return projectConfig{}, fmt.Errorf("%s: [trace].level: %w", path, err)
		}
	}
	return cfg, nil
}
