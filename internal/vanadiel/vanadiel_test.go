package vanadiel

import "testing"

func TestWeekOffsetRange(t *testing.T) {
	cals := []*Calibration{
		nil,
		{TimeOffsetMs: 0, NewMoonStartEarthMs: 0},
		{TimeOffsetMs: -123456789, NewMoonStartEarthMs: 1_769_224_464_000},
		{TimeOffsetMs: 987654321, NewMoonStartEarthMs: 1_769_224_464_000},
	}
	instants := []int64{0, 1, 39, 40, 1_000_000_000_000, 1_769_224_464_000, 2_000_000_000_123}
	for _, cal := range cals {
		for _, ms := range instants {
			now := ToVanaNow(ms, cal)
			if now.WeekOffsetSeconds < 0 || now.WeekOffsetSeconds >= VanaSecondsPerWeek {
				t.Fatalf("weekOffsetSeconds out of range: %d (ms=%d)", now.WeekOffsetSeconds, ms)
			}
			if now.Hour < 0 || now.Hour > 23 || now.Minute < 0 || now.Minute > 59 {
				t.Fatalf("hour/minute out of range: %d:%d", now.Hour, now.Minute)
			}
		}
	}
}

func TestNextWeekdayTimeStrictlyFuture(t *testing.T) {
	cal := DefaultCalibration()
	nowMs := int64(1_760_000_000_000)
	for _, wd := range Weekdays {
		got := NextEarthMsForWeekdayTime(nowMs, &cal, wd, 12, 30)
		if got <= nowMs {
			t.Fatalf("next occurrence for %s not in the future: %d <= %d", wd, got, nowMs)
		}
		if got-nowMs > int64(VanaSecondsPerWeek)*EarthMsPerVanaSecond {
			t.Fatalf("next occurrence for %s more than a week out", wd)
		}
	}
}

func TestNextWeekdayTimeExactMatchRollsFullWeek(t *testing.T) {
	// Pick an instant landing exactly on a Vana minute boundary so the current
	// in-game instant equals a representable target.
	nowMs := int64(1_760_000_000_000)
	nowMs -= nowMs % (60 * EarthMsPerVanaSecond)

	now := ToVanaNow(nowMs, nil)
	got := NextEarthMsForWeekdayTime(nowMs, nil, now.Weekday, now.Hour, now.Minute)

	want := nowMs + int64(VanaSecondsPerWeek)*EarthMsPerVanaSecond
	if got != want {
		t.Fatalf("exact-match target should roll one full week: got %d want %d", got, want)
	}
}

func TestCalibrationRoundTrip(t *testing.T) {
	snapshots := []int64{1_700_000_000_123, 1_769_224_464_000, 42}
	for _, snap := range snapshots {
		for _, wd := range Weekdays {
			cal := CalibrationFromSnapshot(snap, wd, 17, 42, 1_769_224_464_000)
			now := ToVanaNow(snap, &cal)
			if now.Weekday != wd || now.Hour != 17 || now.Minute != 42 {
				t.Fatalf("round trip mismatch: want %s 17:42, got %s %02d:%02d",
					wd, now.Weekday, now.Hour, now.Minute)
			}
			if cal.NewMoonStartEarthMs != 1_769_224_464_000 {
				t.Fatalf("moon anchor must pass through unchanged, got %d", cal.NewMoonStartEarthMs)
			}
		}
	}
}

func TestCalibrationOffsetIsSmallest(t *testing.T) {
	halfWeekMs := int64(VanaSecondsPerWeek) / 2 * EarthMsPerVanaSecond
	cal := CalibrationFromSnapshot(1_700_000_000_123, Windsday, 3, 4, 0)
	if cal.TimeOffsetMs > halfWeekMs || cal.TimeOffsetMs < -halfWeekMs {
		t.Fatalf("offset not normalized: %d", cal.TimeOffsetMs)
	}
}
