package vanadiel

// Conversion between Earth time (epoch milliseconds) and the Vana'diel
// calendar. One Earth millisecond is 1/40 of a Vana'diel second; the week is
// a fixed cycle of eight named days. The constants are reverse-engineered
// game values and must not be re-derived.

const (
	// EarthMsPerVanaSecond is the real-time cost of one in-game second.
	EarthMsPerVanaSecond = 40

	VanaSecondsPerDay  = 86400
	VanaSecondsPerWeek = VanaSecondsPerDay * 8
)

// VanaNow is the in-game instant derived from an Earth instant and an
// optional calibration. It is a pure projection, never stored.
type VanaNow struct {
	Weekday Weekday
	Hour    int
	Minute  int

	// WeekOffsetSeconds is the in-game second within the 8-day week,
	// 0..8*86400-1.
	WeekOffsetSeconds int64

	MoonStep      int // 0..199 display step
	MoonPercent   int // 0..100
	MoonPhaseName string

	NextMoonStepAtEarthMs int64
}

func mod64(n, m int64) int64 {
	r := n % m
	if r < 0 {
		r += m
	}
	return r
}

func earthMsToVanaAbsSeconds(earthMs int64) int64 {
	return floorDiv(earthMs, EarthMsPerVanaSecond)
}

// floorDiv rounds toward negative infinity, matching the original's
// Math.floor semantics for pre-epoch instants.
func floorDiv(n, d int64) int64 {
	q := n / d
	if n%d != 0 && (n < 0) != (d < 0) {
		q--
	}
	return q
}

func applyCalibration(earthMs int64, cal *Calibration) int64 {
	if cal == nil {
		return earthMs
	}
	return earthMs + cal.TimeOffsetMs
}

// ToVanaNow converts an Earth instant to the full in-game instant. Day/time
// fields use the calibrated instant; moon fields intentionally use the raw
// instant, since day and moon calibration are independent anchors.
func ToVanaNow(earthMs int64, cal *Calibration) VanaNow {
	vanaAbs := earthMsToVanaAbsSeconds(applyCalibration(earthMs, cal))
	weekOffset := mod64(vanaAbs, VanaSecondsPerWeek)

	dayIndex := int(weekOffset / VanaSecondsPerDay)
	timeOfDay := weekOffset % VanaSecondsPerDay

	rawStep := moonStepRaw(earthMs, cal)
	step := applyMoonDisplayOffset(rawStep)

	return VanaNow{
		Weekday:           Weekdays[dayIndex],
		Hour:              int(timeOfDay / 3600),
		Minute:            int(timeOfDay % 3600 / 60),
		WeekOffsetSeconds: weekOffset,

		MoonStep:      step,
		MoonPercent:   moonStepToPercent(step),
		MoonPhaseName: moonPhaseName(step),

		NextMoonStepAtEarthMs: NextMoonStepBoundary(earthMs, cal),
	}
}

// NextEarthMsForWeekdayTime returns the Earth instant of the next occurrence
// of the given Vana weekday/hour/minute, strictly after nowEarthMs. When the
// target equals the current in-game instant exactly, the result is one full
// Vana week out.
func NextEarthMsForWeekdayTime(nowEarthMs int64, cal *Calibration, target Weekday, hour, minute int) int64 {
	now := ToVanaNow(nowEarthMs, cal)

	targetOffset := int64(WeekdayIndex(target))*VanaSecondsPerDay + int64(hour)*3600 + int64(minute)*60

	delta := targetOffset - now.WeekOffsetSeconds
	if delta <= 0 {
		delta += VanaSecondsPerWeek
	}
	return nowEarthMs + delta*EarthMsPerVanaSecond
}
