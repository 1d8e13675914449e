package voyager

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BrandonKowalski/voyager/pkg/voyager/constants"
	"github.com/BrandonKowalski/voyager/pkg/voyager/deeplink"
	"github.com/BurntSushi/toml"
)

// Config is the runtime configuration of a voyager application.
type Config struct {
	Options
	Language  string         // Preferred label language (BCP 47 or Accept-Language)
	Device    string         // evdev device path for hardware back buttons, empty disables
	Deeplinks deeplink.Table // Deep link routing table
}

// voyager config.toml key mapping to Config.
type fileConfig struct {
	LogPath          string         `toml:"log_path"`
	LogLevel         string         `toml:"log_level"`
	InternalLogLevel string         `toml:"internal_log_level"`
	Language         string         `toml:"language"`
	Device           string         `toml:"device"`
	Deeplinks        deeplink.Table `toml:"deeplinks"`
	DeeplinksFile    string         `toml:"deeplinks_file"`
}

var logLevels = []string{"debug", "info", "warn", "warning", "error"}

// DefaultConfig returns the configuration used when keys are absent.
func DefaultConfig() Config {
	return Config{
		Options: Options{
			LogLevel:         "info",
			InternalLogLevel: "error",
		},
		Language: "en",
	}
}

// ConfigPath returns path, or the VOYAGER_CONFIG environment variable when
// path is empty.
func ConfigPath(path string) (string, error) {
	if path = strings.TrimSpace(path); path != "" {
		return path, nil
	}
	if env := strings.TrimSpace(os.Getenv(constants.ConfigPathEnvVar)); env != "" {
		return env, nil
	}
	return "", NewConfigError("path", ErrNoConfig)
}

// LoadConfig reads a TOML config file and overlays it on DefaultConfig.
// A deeplinks_file key loads the deep link table from a separate file,
// replacing any inline [deeplinks] table. A relative deeplinks_file is
// resolved against the directory of the config file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, NewConfigError("load", err)
	}
	return decode("load", string(data), filepath.Dir(path))
}

// ParseConfig decodes TOML config data and overlays it on DefaultConfig.
// A relative deeplinks_file is resolved against the working directory.
func ParseConfig(data string) (Config, error) {
	return decode("parse", data, "")
}

func decode(op, data, dir string) (Config, error) {
	var raw fileConfig
	meta, err := toml.Decode(data, &raw)
	if err != nil {
		return Config{}, NewConfigError(op, err)
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, NewConfigError(op, fmt.Errorf("%w: unknown key %q", ErrInvalidValue, undecoded[0].String()))
	}

	return overlay(raw, meta, dir)
}

func overlay(raw fileConfig, meta toml.MetaData, dir string) (Config, error) {
	cfg := DefaultConfig()

	if meta.IsDefined("log_path") {
		cfg.LogPath = strings.TrimSpace(raw.LogPath)
	}
	if meta.IsDefined("log_level") {
		level, err := parseLevel("log_level", raw.LogLevel)
		if err != nil {
			return Config{}, err
		}
		cfg.LogLevel = level
	}
	if meta.IsDefined("internal_log_level") {
		level, err := parseLevel("internal_log_level", raw.InternalLogLevel)
		if err != nil {
			return Config{}, err
		}
		cfg.InternalLogLevel = level
	}
	if meta.IsDefined("language") {
		cfg.Language = strings.TrimSpace(raw.Language)
	}
	if meta.IsDefined("device") {
		cfg.Device = strings.TrimSpace(raw.Device)
	}
	if meta.IsDefined("deeplinks") {
		cfg.Deeplinks = raw.Deeplinks
	}

	if file := strings.TrimSpace(raw.DeeplinksFile); file != "" {
		if !filepath.IsAbs(file) && dir != "" {
			file = filepath.Join(dir, file)
		}
		table, err := deeplink.LoadTable(file)
		if err != nil {
			return Config{}, NewConfigError("deeplinks_file", err)
		}
		cfg.Deeplinks = table
	}

	return cfg, nil
}

func parseLevel(key, value string) (string, error) {
	level := strings.ToLower(strings.TrimSpace(value))
	for _, allowed := range logLevels {
		if level == allowed {
			return level, nil
		}
	}
	return "", NewConfigError(key, fmt.Errorf("%w: %q (expected one of %s)", ErrInvalidValue, value, strings.Join(logLevels, ", ")))
}
