// Package config loads the app's settings file. Every field has a working
// default, so a missing file runs the app with stock behavior.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

type Config struct {
	Database Database `toml:"database"`
	Poll     Poll     `toml:"poll"`
	Notify   Notify   `toml:"notify"`
	Log      Log      `toml:"log"`
}

type Database struct {
	// Path to the SQLite file. Empty means a file under the user config dir.
	Path string `toml:"path"`
}

type Poll struct {
	TickMs        int64 `toml:"tick_ms"`
	MaxCatchupMs  int64 `toml:"max_catchup_ms"`
	RefireGuardMs int64 `toml:"refire_guard_ms"`
}

type Notify struct {
	// RepeatSeconds is how often an undismissed alert re-shows.
	RepeatSeconds int `toml:"repeat_seconds"`
}

type Log struct {
	Level string `toml:"level"`
	// Path of the log file; empty logs to stderr.
	Path string `toml:"path"`
}

func defaults() Config {
	return Config{
		Database: Database{Path: ""},
		Poll: Poll{
			TickMs:        250,
			MaxCatchupMs:  5 * 60 * 1000,
			RefireGuardMs: 10_000,
		},
		Notify: Notify{RepeatSeconds: 20},
		Log:    Log{Level: "info"},
	}
}

// Load reads the TOML file at path, overlaying it on the defaults. A missing
// file is not an error; a malformed one is.
func Load(path string) (Config, error) {
	cfg := defaults()
	if path == "" {
		return cfg, nil
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return defaults(), errors.Wrapf(err, "parse config %s", path)
	}

	if cfg.Poll.TickMs <= 0 {
		cfg.Poll.TickMs = 250
	}
	if cfg.Poll.MaxCatchupMs <= 0 {
		cfg.Poll.MaxCatchupMs = 5 * 60 * 1000
	}
	if cfg.Poll.RefireGuardMs <= 0 {
		cfg.Poll.RefireGuardMs = 10_000
	}
	if cfg.Notify.RepeatSeconds <= 0 {
		cfg.Notify.RepeatSeconds = 20
	}
	return cfg, nil
}

// TickInterval converts the configured cadence for timer use.
func (c Config) TickInterval() time.Duration {
	return time.Duration(c.Poll.TickMs) * time.Millisecond
}

// RepeatInterval is the cadence at which undismissed alerts re-show.
func (c Config) RepeatInterval() time.Duration {
	return time.Duration(c.Notify.RepeatSeconds) * time.Second
}

// DatabasePath resolves the configured path, falling back to
// <user config dir>/vanaclock/vanaclock.db.
func (c Config) DatabasePath() (string, error) {
	if c.Database.Path != "" {
		return c.Database.Path, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", errors.Wrap(err, "resolve config dir")
	}
	dir := filepath.Join(base, "vanaclock")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrap(err, "create data dir")
	}
	return filepath.Join(dir, "vanaclock.db"), nil
}
