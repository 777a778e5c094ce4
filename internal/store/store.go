// Package store persists app state in a single-file SQLite database. State
// is a handful of JSON blobs keyed by name, which keeps the schema stable
// while the blob shapes evolve behind versioned keys.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/helvetius/vanaclock/internal/timer"
	"github.com/helvetius/vanaclock/internal/vanadiel"
)

// Blob keys. Bump the suffix when a shape changes incompatibly; old keys
// stay readable for migration.
const (
	KeyCalibration       = "cal_v1"
	KeyTimers            = "timers_v2"
	KeyPresetOffsetHours = "preset_offset_hours_v1"
	KeyShowPresets       = "show_presets_v1"
)

// DB wraps the gorm handle and its underlying connection.
type DB struct {
	gorm *gorm.DB
	sql  *sql.DB
}

// Open opens (creating if needed) the database at path. ":memory:" gives an
// ephemeral database for tests.
func Open(ctx context.Context, path string) (*DB, error) {
	if path == "" {
		return nil, errors.New("missing database path")
	}

	gdb, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite")
	}

	sdb, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	// SQLite wants a single writer.
	sdb.SetMaxOpenConns(1)
	sdb.SetConnMaxLifetime(time.Hour)

	if err := sdb.PingContext(ctx); err != nil {
		return nil, errors.Wrap(err, "ping sqlite")
	}
	return &DB{gorm: gdb, sql: sdb}, nil
}

func (d *DB) Close() error { return d.sql.Close() }

// Gorm exposes the handle for ad-hoc queries.
func (d *DB) Gorm() *gorm.DB { return d.gorm }

// KvEntry is one persisted blob.
type KvEntry struct {
	Key         string `gorm:"primaryKey;column:key"`
	Value       string `gorm:"column:value"`
	UpdatedAtMs int64  `gorm:"column:updated_at_ms"`
}

func (KvEntry) TableName() string { return "kv_entries" }

// LoadJSON reads the blob at key into out. The second return is false when
// the key has never been written.
func (d *DB) LoadJSON(ctx context.Context, key string, out any) (bool, error) {
	var entry KvEntry
	err := d.gorm.WithContext(ctx).First(&entry, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrapf(err, "load %q", key)
	}
	if err := json.Unmarshal([]byte(entry.Value), out); err != nil {
		return false, errors.Wrapf(err, "decode %q", key)
	}
	return true, nil
}

// SaveJSON upserts v at key.
func (d *DB) SaveJSON(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return errors.Wrapf(err, "encode %q", key)
	}
	entry := KvEntry{Key: key, Value: string(raw), UpdatedAtMs: time.Now().UnixMilli()}
	err = d.gorm.WithContext(ctx).
		Exec(`INSERT INTO kv_entries(key, value, updated_at_ms) VALUES (?,?,?)
		      ON CONFLICT(key) DO UPDATE SET value=excluded.value, updated_at_ms=excluded.updated_at_ms`,
			entry.Key, entry.Value, entry.UpdatedAtMs).Error
	return errors.Wrapf(err, "save %q", key)
}

// LoadTimers returns the saved timer list, or nil when none was saved yet.
func (d *DB) LoadTimers(ctx context.Context) ([]*timer.Timer, error) {
	var timers []*timer.Timer
	ok, err := d.LoadJSON(ctx, KeyTimers, &timers)
	if err != nil || !ok {
		return nil, err
	}
	return timers, nil
}

func (d *DB) SaveTimers(ctx context.Context, timers []*timer.Timer) error {
	return d.SaveJSON(ctx, KeyTimers, timers)
}

// LoadCalibration falls back to the default anchors when nothing is saved.
func (d *DB) LoadCalibration(ctx context.Context) (vanadiel.Calibration, error) {
	cal := vanadiel.DefaultCalibration()
	if _, err := d.LoadJSON(ctx, KeyCalibration, &cal); err != nil {
		return vanadiel.DefaultCalibration(), err
	}
	return cal, nil
}

func (d *DB) SaveCalibration(ctx context.Context, cal vanadiel.Calibration) error {
	return d.SaveJSON(ctx, KeyCalibration, cal)
}

// LoadPresetOffsetHours defaults to a two-hour alert lead.
func (d *DB) LoadPresetOffsetHours(ctx context.Context) (int, error) {
	hours := 2
	if _, err := d.LoadJSON(ctx, KeyPresetOffsetHours, &hours); err != nil {
		return 2, err
	}
	return hours, nil
}

func (d *DB) SavePresetOffsetHours(ctx context.Context, hours int) error {
	return d.SaveJSON(ctx, KeyPresetOffsetHours, hours)
}

// LoadShowPresets defaults to showing the guild preset panel.
func (d *DB) LoadShowPresets(ctx context.Context) (bool, error) {
	show := true
	if _, err := d.LoadJSON(ctx, KeyShowPresets, &show); err != nil {
		return true, err
	}
	return show, nil
}

func (d *DB) SaveShowPresets(ctx context.Context, show bool) error {
	return d.SaveJSON(ctx, KeyShowPresets, show)
}
