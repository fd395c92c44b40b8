// Package prefs handles huetail user preference persistence.
// Preferences are stored in ~/.config/huetail/prefs.toml and supply the
// defaults that command-line flags override.
package prefs

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Prefs holds user preferences for huetail.
type Prefs struct {
	// Lines is the default trailing line count.
	Lines int `toml:"lines"`
	// IntervalMS is the default follow-mode poll interval in milliseconds.
	IntervalMS int `toml:"interval_ms"`
	// Rules is the default rule file path.
	Rules string `toml:"rules"`
	// Color is the default color mode: auto, always, or never.
	Color string `toml:"color"`
}

const (
	defaultPrefsPath = "~/.config/huetail/prefs.toml"
	defaultRulesPath = "~/.config/huetail/rules.conf"
	defaultLines     = 10
	defaultInterval  = 1000
	defaultColor     = "auto"
)

// DefaultPath returns the default preferences file path.
func DefaultPath() string {
	return defaultPrefsPath
}

func defaults() Prefs {
	return Prefs{
		Lines:      defaultLines,
		IntervalMS: defaultInterval,
		Rules:      defaultRulesPath,
		Color:      defaultColor,
	}
}

// Load reads preferences from the given path, falling back to defaults if
// missing or unparseable.
func Load(path string) Prefs {
	prefs := defaults()

	resolved, err := resolvePath(path)
	if err != nil {
		return prefs
	}

	file, err := os.Open(resolved)
	if err != nil {
		return prefs
	}
	defer func() { _ = file.Close() }()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return prefs
	}

	if err := toml.Unmarshal(bytes, &prefs); err != nil {
		return defaults() // Graceful degradation
	}

	if prefs.Lines < 0 {
		prefs.Lines = defaultLines
	}
	if prefs.IntervalMS <= 0 {
		prefs.IntervalMS = defaultInterval
	}
	if strings.TrimSpace(prefs.Rules) == "" {
		prefs.Rules = defaultRulesPath
	}
	switch strings.TrimSpace(prefs.Color) {
	case "auto", "always", "never":
		prefs.Color = strings.TrimSpace(prefs.Color)
	default:
		prefs.Color = defaultColor
	}

	return prefs
}

// Save writes preferences to the given path, creating directories as needed.
func Save(path string, p Prefs) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	dir := filepath.Dir(resolved)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}

	bytes, err := toml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}

	if err := os.WriteFile(resolved, bytes, 0o644); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}

	return nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultPrefsPath)
	}
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", errors.New("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
