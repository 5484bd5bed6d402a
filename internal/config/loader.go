package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// whitelistSet is a precomputed lookup table for fast whitelist membership checks.
var whitelistSet map[string]bool

func init() {
	whitelistSet = make(map[string]bool, len(WhitelistedVars))
	for _, v := range WhitelistedVars {
		whitelistSet[v] = true
	}
}

// LoadFile parses a KEY=VALUE settings file at the given path.
//
// The file uses dotenv syntax: comments, blank lines, quoting and an optional
// "export" prefix are handled by godotenv. Keys not present in
// WhitelistedVars are silently ignored.
func LoadFile(path string) (map[string]string, error) {
	raw, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("read settings file: %w", err)
	}

	result := make(map[string]string, len(raw))
	for key, value := range raw {
		key = strings.TrimSpace(key)
		if !whitelistSet[key] {
			continue
		}
		result[key] = strings.TrimSpace(value)
	}
	return result, nil
}

// GlobalPath returns the location of the per-user settings file:
// $XDG_CONFIG_HOME/riptide-xdebug/config, falling back to ~/.config.
// Returns "" if no home directory can be determined.
func GlobalPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "riptide-xdebug", "config")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "riptide-xdebug", "config")
}

// LoadWithPrecedence assembles a Config by merging sources in order of
// increasing priority:
//
//  1. Built-in defaults
//  2. Global settings file (globalPath)
//  3. Explicit settings file (explicitPath)
//  4. CLI overrides (cliOverrides map)
//
// Any path that is empty is silently skipped. A missing global file is not an
// error; a missing explicit file is.
func LoadWithPrecedence(globalPath, explicitPath string, cliOverrides map[string]string) (*Config, error) {
	cfg := NewDefaultConfig()

	if globalPath != "" {
		m, err := LoadFile(globalPath)
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("global settings: %w", err)
			}
		} else {
			ApplyMapToConfig(cfg, m)
		}
	}

	if explicitPath != "" {
		m, err := LoadFile(explicitPath)
		if err != nil {
			return nil, fmt.Errorf("explicit settings: %w", err)
		}
		ApplyMapToConfig(cfg, m)
	}

	if len(cliOverrides) > 0 {
		ApplyMapToConfig(cfg, cliOverrides)
	}

	return cfg, nil
}

// ApplyMapToConfig sets fields on cfg from the key-value pairs in m.
// Unknown keys are silently ignored, and so are empty values for string
// settings that must never be blank.
func ApplyMapToConfig(cfg *Config, m map[string]string) {
	for key, value := range m {
		switch key {
		case "PROJECT_FILE":
			setNonEmpty(&cfg.ProjectFile, value)
		case "META_FOLDER":
			setNonEmpty(&cfg.MetaFolder, value)
		case "STATE_FILE":
			setNonEmpty(&cfg.StateFile, value)
		case "VERSION_ENV":
			setNonEmpty(&cfg.VersionEnv, value)
		case "VERSION_LABEL":
			setNonEmpty(&cfg.VersionLabel, value)
		case "DEFAULT_VERSION":
			setNonEmpty(&cfg.DefaultVersion, value)
		case "DOCS_URL":
			cfg.DocsURL = value
		case "DOCKER_BIN":
			setNonEmpty(&cfg.DockerBin, value)
		case "CONTAINER_PREFIX":
			setNonEmpty(&cfg.ContainerPrefix, value)
		case "VERBOSE":
			cfg.Verbose = parseBool(value)
		case "NON_INTERACTIVE":
			cfg.NonInteractive = parseBool(value)
		}
	}
}

func setNonEmpty(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}

// parseBool interprets common boolean representations.
// "true", "1", "yes" (case-insensitive) return true; everything else returns false.
func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes":
		return true
	default:
		return false
	}
}
