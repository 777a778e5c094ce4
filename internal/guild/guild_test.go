package guild

import (
	"testing"

	"github.com/helvetius/vanaclock/internal/vanadiel"
)

func at(wd vanadiel.Weekday, hour, minute int) vanadiel.VanaNow {
	idx := vanadiel.WeekdayIndex(wd)
	return vanadiel.VanaNow{
		Weekday:           wd,
		Hour:              hour,
		Minute:            minute,
		WeekOffsetSeconds: int64(idx)*86400 + int64(hour)*3600 + int64(minute)*60,
	}
}

func absMinute(t Target) int {
	return vanadiel.WeekdayIndex(t.Weekday)*24*60 + t.Hour*60 + t.Minute
}

func TestNextAlertTargetBeforeOpen(t *testing.T) {
	// Firesday 02:00, Cooking opens 05:00, 2h lead -> today 03:00.
	got := NextAlertTarget(at(vanadiel.Firesday, 2, 0), CookingGuild.Schedule, 2)
	want := Target{Weekday: vanadiel.Firesday, Hour: 3}
	if got != want {
		t.Fatalf("got %+v want %+v", got, want)
	}
}

func TestNextAlertTargetLeadElapsedClampsToOpen(t *testing.T) {
	// Firesday 04:30: the 2h lead for an 05:00 open has partly elapsed, so the
	// alert clamps to the open itself rather than firing in the past.
	got := NextAlertTarget(at(vanadiel.Firesday, 4, 30), CookingGuild.Schedule, 2)
	want := Target{Weekday: vanadiel.Firesday, Hour: 5}
	if got != want {
		t.Fatalf("got %+v want %+v", got, want)
	}
}

func TestNextAlertTargetNeverClosedDay(t *testing.T) {
	offsets := []int{0, 1, 2, 5, 23}
	starts := []vanadiel.VanaNow{
		at(vanadiel.Darksday, 0, 0),
		at(vanadiel.Darksday, 23, 59),
		at(vanadiel.Lightsday, 23, 0),
		at(vanadiel.Firesday, 5, 0),
	}
	for _, off := range offsets {
		for _, now := range starts {
			got := NextAlertTarget(now, CookingGuild.Schedule, off)
			if got.Weekday == vanadiel.Darksday {
				t.Fatalf("resolver returned the closed weekday (now=%+v offset=%d)", now, off)
			}
		}
	}
}

func TestNextAlertTargetStrictlyFuture(t *testing.T) {
	now := at(vanadiel.Watersday, 5, 0)
	got := NextAlertTarget(now, CookingGuild.Schedule, 0)
	// Exactly at the open with zero offset: must roll forward, not fire now.
	if got.Weekday == vanadiel.Watersday && got.Hour == 5 && got.Minute == 0 {
		t.Fatal("resolver returned the current instant")
	}
}

func TestNextAlertTargetDayRollover(t *testing.T) {
	// NextDig targets 00:00 daily. From Windsday 11:30 the next open is
	// Iceday 00:00; a 12h lead lands back on Windsday 12:00, while a larger
	// lead that would fire in the past clamps to the open itself.
	now := at(vanadiel.Windsday, 11, 30)

	got := NextAlertTarget(now, NextDig.Schedule, 12)
	if want := (Target{Weekday: vanadiel.Windsday, Hour: 12}); got != want {
		t.Fatalf("12h lead: got %+v want %+v", got, want)
	}

	got = NextAlertTarget(now, NextDig.Schedule, 13)
	if want := (Target{Weekday: vanadiel.Iceday, Hour: 0}); got != want {
		t.Fatalf("13h lead clamps to open: got %+v want %+v", got, want)
	}
}

func TestNextAlertTargetResultIsLeadOrOpen(t *testing.T) {
	now := at(vanadiel.Windsday, 11, 30)
	for off := 0; off <= 23; off++ {
		got := absMinute(NextAlertTarget(now, NextDig.Schedule, off))
		nowAbs := absMinute(Target{Weekday: now.Weekday, Hour: now.Hour, Minute: now.Minute})
		if got == nowAbs {
			t.Fatalf("offset %d resolved to the current instant", off)
		}
		if m := got % 60; m != 0 {
			t.Fatalf("offset %d produced sub-hour minutes for an on-the-hour open: %d", off, m)
		}
	}
}

func TestMergeTargets(t *testing.T) {
	targets := []LabeledTarget{
		{Label: "Tenshodo — Lower Jeuno (closed Earthsday)", Target: Target{Weekday: vanadiel.Watersday, Hour: 23}},
		{Label: "Tenshodo — Port Bastok (closed Iceday)", Target: Target{Weekday: vanadiel.Watersday, Hour: 23}},
		{Label: "Tenshodo — Norg (closed Darksday)", Target: Target{Weekday: vanadiel.Firesday, Hour: 7}},
		{Label: "Tenshodo — Port Bastok (closed Iceday)", Target: Target{Weekday: vanadiel.Watersday, Hour: 23}},
	}
	merged := MergeTargets(targets)
	if len(merged) != 2 {
		t.Fatalf("want 2 merged targets, got %d", len(merged))
	}
	want := "Tenshodo — Lower Jeuno (closed Earthsday) / Tenshodo — Port Bastok (closed Iceday)"
	if merged[0].Label != want {
		t.Fatalf("merged label mismatch:\n got %q\nwant %q", merged[0].Label, want)
	}
	if merged[1].Target.Weekday != vanadiel.Firesday {
		t.Fatalf("unexpected second target: %+v", merged[1])
	}
}

func TestTenshodoPresets(t *testing.T) {
	presets := TenshodoPresets()
	if len(presets) != 3 {
		// Same open hour but different closures must not collapse.
		t.Fatalf("want 3 presets, got %d", len(presets))
	}
	if presets[2].Schedule.OpenHour != 9 {
		t.Fatalf("presets not ordered by open hour: %+v", presets)
	}
}

func TestOffsetClamped(t *testing.T) {
	now := at(vanadiel.Firesday, 2, 0)
	if NextAlertTarget(now, CookingGuild.Schedule, -5) != NextAlertTarget(now, CookingGuild.Schedule, 0) {
		t.Fatal("negative offset should clamp to 0")
	}
	if NextAlertTarget(now, CookingGuild.Schedule, 99) != NextAlertTarget(now, CookingGuild.Schedule, 23) {
		t.Fatal("oversized offset should clamp to 23")
	}
}
