package vanadiel

import "testing"

func TestMoonPercentSymmetry(t *testing.T) {
	for step := 1; step < 100; step++ {
		a := MoonPercentFromStep(step)
		b := MoonPercentFromStep(200 - step)
		if a != b {
			t.Fatalf("percent not symmetric at step %d: %d vs %d", step, a, b)
		}
		if MoonDirectionFromStep(step) != Waxing {
			t.Fatalf("step %d should be waxing", step)
		}
		if MoonDirectionFromStep(200-step) != Waning {
			t.Fatalf("step %d should be waning", 200-step)
		}
	}
	if MoonPercentFromStep(0) != 0 || MoonPercentFromStep(100) != 100 {
		t.Fatal("percent endpoints wrong")
	}
	for step := 0; step < MoonStepsPerCycle; step++ {
		pct := MoonPercentFromStep(step)
		if pct < 0 || pct > 100 {
			t.Fatalf("percent out of range at step %d: %d", step, pct)
		}
	}
}

func TestStepDirectionRoundTrip(t *testing.T) {
	for _, dir := range []MoonDirection{Waxing, Waning} {
		for pct := 0; pct <= 100; pct++ {
			step := StepFromDirectionAndPercent(dir, pct)
			if got := MoonPercentFromStep(step); got != pct {
				t.Fatalf("percent round trip failed: dir=%s pct=%d step=%d got=%d", dir, pct, step, got)
			}
			gotDir := MoonDirectionFromStep(step)
			if pct == 0 || pct == 100 {
				// Endpoint steps collapse to a single point; convention is waxing
				// at 0 and waning only past 100.
				continue
			}
			if gotDir != dir {
				t.Fatalf("direction round trip failed: dir=%s pct=%d step=%d got=%s", dir, pct, step, gotDir)
			}
		}
	}
}

func TestMoonPhaseBands(t *testing.T) {
	cases := []struct {
		step int
		want string
	}{
		{0, "New Moon"},
		{6, "New Moon"},
		{7, "Waxing Crescent"},
		{36, "Waxing Crescent"},
		{37, "First Quarter"},
		{56, "First Quarter"},
		{57, "Waxing Gibbous"},
		{86, "Waxing Gibbous"},
		{87, "Full Moon"},
		{100, "Full Moon"},
		{113, "Full Moon"},
		{114, "Waning Gibbous"},
		{143, "Waning Gibbous"},
		{144, "Last Quarter"},
		{163, "Last Quarter"},
		{164, "Waning Crescent"},
		{193, "Waning Crescent"},
		{194, "New Moon"},
		{199, "New Moon"},
	}
	for _, c := range cases {
		if got := MoonPhaseNameFromStep(c.step); got != c.want {
			t.Fatalf("phase at step %d: got %q want %q", c.step, got, c.want)
		}
	}
}

func TestNextMoonStepBoundary(t *testing.T) {
	// No anchor: boundaries are multiples of the step duration.
	onBoundary := int64(EarthMsPerMoonStep) * 1234
	if got := NextMoonStepBoundary(onBoundary, nil); got != onBoundary+EarthMsPerMoonStep {
		t.Fatalf("boundary from boundary: got %d", got)
	}
	if got := NextMoonStepBoundary(onBoundary+1, nil); got != onBoundary+EarthMsPerMoonStep {
		t.Fatalf("boundary from inside step: got %d", got)
	}

	// Anchored: on an anchor-derived boundary the distance collapses to
	// exactly one step duration.
	cal := &Calibration{NewMoonStartEarthMs: 1_769_224_464_000}
	at := cal.NewMoonStartEarthMs - 3*EarthMsPerMoonStep
	if got := NextMoonStepBoundary(at, cal); got != at+EarthMsPerMoonStep {
		t.Fatalf("anchored boundary: got %d want %d", got, at+EarthMsPerMoonStep)
	}
	if got := NextMoonStepBoundary(at+500, cal); got != at+EarthMsPerMoonStep {
		t.Fatalf("anchored mid-step boundary: got %d want %d", got, at+EarthMsPerMoonStep)
	}
}

func TestMoonStepScheduleDoesNotDrift(t *testing.T) {
	// Key regression: recomputing the schedule while time passes inside one
	// step must return the same absolute due instant.
	cal := DefaultCalibration()
	start := CurrentMoonStepStart(1_760_000_000_000, &cal)

	first := NextEarthMsForMoonStep(start, &cal, 150)
	for _, offset := range []int64{1, 250, 10_000, EarthMsPerMoonStep / 2, EarthMsPerMoonStep - 1} {
		got := NextEarthMsForMoonStep(start+offset, &cal, 150)
		if got != first {
			t.Fatalf("due instant drifted at +%dms: %d != %d", offset, got, first)
		}
	}

	// At the target step itself, delta 0 keeps the due instant at the step
	// start rather than pushing a full cycle out.
	nowStep := ToVanaNow(start, &cal).MoonStep
	if got := NextEarthMsForMoonStep(start+100, &cal, nowStep); got != start {
		t.Fatalf("active step should resolve to its own start: got %d want %d", got, start)
	}
}

func TestMoonPercentCandidates(t *testing.T) {
	cal := DefaultCalibration()
	base := CurrentMoonStepStart(1_760_000_000_000, &cal)
	nowStep := ToVanaNow(base, &cal).MoonStep

	// The percent resolver never does worse than the explicit step resolver
	// for either matching step.
	for _, pct := range []int{0, 19, 50, 100} {
		got := NextEarthMsForMoonPercent(base, &cal, pct)
		wantA := NextEarthMsForMoonStep(base, &cal, pct)
		want := wantA
		if pct != 0 && pct != 100 {
			if wantB := NextEarthMsForMoonStep(base, &cal, 200-pct); wantB < want {
				want = wantB
			}
		}
		if got != want {
			t.Fatalf("percent %d: got %d want %d (nowStep=%d)", pct, got, want, nowStep)
		}
	}
}
