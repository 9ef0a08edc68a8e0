package weblog

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// settingsEnvPrefix is the prefix of environment variables consulted by
// LoadSettings. WEBLOG_DEBUG=true maps to the debug key, WEBLOG_STACK_DEPTH
// to stack_depth, and so on.
const settingsEnvPrefix = "WEBLOG_"

// Settings is the application-facing logging configuration, loadable from a
// YAML file and the environment.
type Settings struct {
	Debug      bool   `koanf:"debug"`
	Dir        string `koanf:"dir"`
	Level      string `koanf:"level"`
	Format     string `koanf:"format"`
	StackDepth int    `koanf:"stack_depth"`
	ModuleRoot string `koanf:"module_root"`
}

// DefaultSettings returns the built-in defaults.
func DefaultSettings() Settings {
	return Settings{
		Dir:        DefaultDir,
		Level:      "info",
		Format:     DefaultFormat,
		StackDepth: DefaultStackDepth,
	}
}

// LoadSettings loads Settings by merging, in ascending priority: built-in
// defaults, the YAML file at path when path is non-empty, and
// WEBLOG_-prefixed environment variables.
func LoadSettings(path string) (Settings, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(DefaultSettings(), "koanf"), nil); err != nil {
		return Settings{}, fmt.Errorf("load default settings: %w", err)
	}

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return Settings{}, fmt.Errorf("settings file %s not found: %w", path, err)
		}
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Settings{}, fmt.Errorf("load settings file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(settingsEnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, settingsEnvPrefix))
	}), nil); err != nil {
		return Settings{}, fmt.Errorf("load environment settings: %w", err)
	}

	var s Settings
	if err := k.Unmarshal("", &s); err != nil {
		return Settings{}, fmt.Errorf("unmarshal settings: %w", err)
	}

	if _, err := ParseLevel(s.Level); err != nil {
		return Settings{}, err
	}

	return s, nil
}

// FromSettings adapts loaded Settings into a registry Option.
func FromSettings(s Settings) Option {
	return func(c *config) error {
		level, err := ParseLevel(s.Level)
		if err != nil {
			return err
		}

		return applyOptions(c,
			WithDebug(s.Debug),
			WithDir(s.Dir),
			WithLevel(level),
			WithFormat(s.Format),
			WithStackDepth(s.StackDepth),
			WithModuleRoot(s.ModuleRoot),
		)
	}
}

// ParseLevel converts a settings level name to a slog.Level.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownLevel, name)
	}
}
