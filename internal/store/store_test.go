package store

import (
	"context"
	"testing"

	"github.com/helvetius/vanaclock/internal/timer"
	"github.com/helvetius/vanaclock/internal/vanadiel"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestMigrateIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	if err := db.Migrate(); err != nil {
		t.Fatalf("second migrate: %v", err)
	}
}

func TestLoadMissingKey(t *testing.T) {
	db := openTestDB(t)
	var v int
	ok, err := db.LoadJSON(context.Background(), "never_written", &v)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("missing key reported as present")
	}
}

func TestSaveLoadOverwrites(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	if err := db.SavePresetOffsetHours(ctx, 4); err != nil {
		t.Fatal(err)
	}
	if err := db.SavePresetOffsetHours(ctx, 7); err != nil {
		t.Fatal(err)
	}

	hours, err := db.LoadPresetOffsetHours(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if hours != 7 {
		t.Fatalf("hours = %d, want 7", hours)
	}
}

func TestDefaultsWhenEmpty(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	cal, err := db.LoadCalibration(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if cal != vanadiel.DefaultCalibration() {
		t.Fatalf("cal = %+v, want defaults", cal)
	}

	hours, err := db.LoadPresetOffsetHours(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if hours != 2 {
		t.Fatalf("hours = %d, want 2", hours)
	}

	show, err := db.LoadShowPresets(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !show {
		t.Fatal("presets should default to shown")
	}

	timers, err := db.LoadTimers(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if timers != nil {
		t.Fatalf("timers = %+v, want nil", timers)
	}
}

func TestTimersSurviveRoundTrip(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	ph := int64(400_000)
	in := []*timer.Timer{
		{
			ID:            "a",
			Label:         "Airship",
			Kind:          timer.KindVanaWeekdayTime,
			Enabled:       true,
			TargetWeekday: vanadiel.Darksday,
			TargetHour:    9,
		},
		{
			ID:                  "b",
			Label:               "Valkurm Emperor",
			Kind:                timer.KindNmLottery,
			Enabled:             true,
			WindowStartOffsetMs: 6_395_000,
			PhRespawnMs:         300_000,
			PhNextAtMs:          &ph,
		},
	}
	if err := db.SaveTimers(ctx, in); err != nil {
		t.Fatal(err)
	}

	out, err := db.LoadTimers(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 2 {
		t.Fatalf("loaded %d timers, want 2", len(out))
	}
	if out[0].Kind != timer.KindVanaWeekdayTime || out[0].TargetWeekday != vanadiel.Darksday {
		t.Fatalf("first timer mangled: %+v", out[0])
	}
	if out[1].PhNextAtMs == nil || *out[1].PhNextAtMs != 400_000 {
		t.Fatalf("placeholder lost: %+v", out[1])
	}
}
