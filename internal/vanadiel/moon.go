package vanadiel

// The moon cycles through 200 raw steps, each spanning a fixed Earth
// duration. The user-facing ("display") step is the raw step shifted back by
// a fixed offset. Percent climbs 0→100 waxing then falls back to 0 waning.

const (
	MoonStepsPerCycle   = 200
	EarthMsPerMoonStep  = 1_451_520
	EarthMsPerMoonCycle = EarthMsPerMoonStep * MoonStepsPerCycle

	moonDisplayStepOffset = 10
)

// MoonDirection is the waxing/waning half of the cycle.
type MoonDirection string

const (
	Waxing MoonDirection = "WAXING"
	Waning MoonDirection = "WANING"
)

func modInt(n, m int) int {
	r := n % m
	if r < 0 {
		r += m
	}
	return r
}

func moonStepToPercent(step int) int {
	if step <= 100 {
		return step
	}
	return 200 - step
}

func moonPhaseName(step int) string {
	pct := moonStepToPercent(step)
	waxing := step < 100

	switch {
	case pct >= 87:
		return "Full Moon"
	case pct >= 57:
		if waxing {
			return "Waxing Gibbous"
		}
		return "Waning Gibbous"
	case pct >= 37:
		if waxing {
			return "First Quarter"
		}
		return "Last Quarter"
	case pct >= 7:
		if waxing {
			return "Waxing Crescent"
		}
		return "Waning Crescent"
	default:
		return "New Moon"
	}
}

// moonStepRaw derives the raw step at an Earth instant. Without an anchor the
// cycle is pinned to the epoch; with an anchor it is pinned to the recorded
// new-moon start.
func moonStepRaw(nowEarthMs int64, cal *Calibration) int {
	if cal == nil || cal.NewMoonStartEarthMs <= 0 {
		return int(mod64(floorDiv(nowEarthMs, EarthMsPerMoonStep), MoonStepsPerCycle))
	}

	remainingMs := mod64(cal.NewMoonStartEarthMs-nowEarthMs, EarthMsPerMoonCycle)
	elapsedMs := mod64(EarthMsPerMoonCycle-remainingMs, EarthMsPerMoonCycle)

	return int(mod64(elapsedMs/EarthMsPerMoonStep, MoonStepsPerCycle))
}

func applyMoonDisplayOffset(rawStep int) int {
	return modInt(rawStep-moonDisplayStepOffset, MoonStepsPerCycle)
}

// NextMoonStepBoundary returns the next Earth instant at which the raw step
// increments. The display offset does not change boundary times.
func NextMoonStepBoundary(nowEarthMs int64, cal *Calibration) int64 {
	if cal == nil || cal.NewMoonStartEarthMs <= 0 {
		currentStart := floorDiv(nowEarthMs, EarthMsPerMoonStep) * EarthMsPerMoonStep
		return currentStart + EarthMsPerMoonStep
	}

	remainingMs := mod64(cal.NewMoonStartEarthMs-nowEarthMs, EarthMsPerMoonCycle)
	elapsedMs := mod64(EarthMsPerMoonCycle-remainingMs, EarthMsPerMoonCycle)

	intoStepMs := elapsedMs % EarthMsPerMoonStep
	untilNextMs := int64(EarthMsPerMoonStep)
	if intoStepMs != 0 {
		untilNextMs = EarthMsPerMoonStep - intoStepMs
	}
	return nowEarthMs + untilNextMs
}

// CurrentMoonStepStart returns the Earth instant the current step began.
// Schedules are computed from this instant rather than from "now": a due time
// derived from a constantly advancing now would creep forward every tick,
// while the step start is stable for the whole step.
func CurrentMoonStepStart(nowEarthMs int64, cal *Calibration) int64 {
	return NextMoonStepBoundary(nowEarthMs, cal) - EarthMsPerMoonStep
}

// NextEarthMsForMoonStep returns the Earth instant the given display step is
// next active, anchored to the current step start. A zero delta means the
// target step is active right now.
func NextEarthMsForMoonStep(nowEarthMs int64, cal *Calibration, targetStep int) int64 {
	base := CurrentMoonStepStart(nowEarthMs, cal)

	target := modInt(targetStep, MoonStepsPerCycle)
	nowStep := applyMoonDisplayOffset(moonStepRaw(base, cal))

	delta := target - nowStep
	if delta < 0 {
		delta += MoonStepsPerCycle
	}
	return base + int64(delta)*EarthMsPerMoonStep
}

// NextEarthMsForMoonPercent resolves the legacy percent timer. A percent
// other than 0 or 100 matches two steps (waxing and waning); the candidate
// with the smaller non-negative step delta wins.
func NextEarthMsForMoonPercent(nowEarthMs int64, cal *Calibration, targetPercent int) int64 {
	base := CurrentMoonStepStart(nowEarthMs, cal)
	nowStep := applyMoonDisplayOffset(moonStepRaw(base, cal))

	p := targetPercent
	if p < 0 {
		p = 0
	}
	if p > 100 {
		p = 100
	}

	candidates := []int{p}
	if p != 0 && p != 100 {
		candidates = append(candidates, 200-p)
	}

	best := MoonStepsPerCycle
	for _, c := range candidates {
		delta := c - nowStep
		if delta < 0 {
			delta += MoonStepsPerCycle
		}
		if delta < best {
			best = delta
		}
	}
	return base + int64(best)*EarthMsPerMoonStep
}

// MoonPercentFromStep maps a display step to its visible percent.
func MoonPercentFromStep(step int) int {
	return moonStepToPercent(modInt(step, MoonStepsPerCycle))
}

// MoonDirectionFromStep reports the cycle half; steps 0..99 are waxing.
func MoonDirectionFromStep(step int) MoonDirection {
	if modInt(step, MoonStepsPerCycle) < 100 {
		return Waxing
	}
	return Waning
}

// MoonPhaseNameFromStep maps a display step onto the eight phase names.
func MoonPhaseNameFromStep(step int) string {
	return moonPhaseName(modInt(step, MoonStepsPerCycle))
}

// StepFromDirectionAndPercent inverts direction+percent to the unique display
// step. Percent 0 and 100 are single points shared by both directions.
func StepFromDirectionAndPercent(dir MoonDirection, percent int) int {
	p := percent
	if p < 0 {
		p = 0
	}
	if p > 100 {
		p = 100
	}
	if p == 100 {
		return 100
	}
	if dir == Waxing || p == 0 {
		return p
	}
	return 200 - p
}
