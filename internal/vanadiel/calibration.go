package vanadiel

// Calibration anchors the conversion to an in-game reference point. The day
// offset and the moon anchor are calibrated separately and never mix:
// TimeOffsetMs shifts the instant used for weekday/time, NewMoonStartEarthMs
// pins the moon cycle.
type Calibration struct {
	TimeOffsetMs        int64 `json:"timeOffsetMs"`
	NewMoonStartEarthMs int64 `json:"newMoonStartEarthMs"`
}

// DefaultCalibration is the baked-in anchor shipped with the app so most
// users never calibrate manually. The new-moon start is 2026-01-24 03:14:24 UTC.
func DefaultCalibration() Calibration {
	return Calibration{
		TimeOffsetMs:        0,
		NewMoonStartEarthMs: 1_769_224_464_000,
	}
}

// CalibrationFromSnapshot builds the day calibration that makes the given
// Earth instant read as the given Vana weekday/hour/minute. The delta is
// normalized into (-week/2, +week/2] so the stored offset is the smaller of
// the two shifts that produce the same alignment. The moon anchor passes
// through untouched.
func CalibrationFromSnapshot(snapshotEarthMs int64, weekday Weekday, hour, minute int, newMoonStartEarthMs int64) Calibration {
	desired := int64(WeekdayIndex(weekday))*VanaSecondsPerDay + int64(hour)*3600 + int64(minute)*60

	uncal := mod64(earthMsToVanaAbsSeconds(snapshotEarthMs), VanaSecondsPerWeek)

	delta := desired - uncal
	if delta > VanaSecondsPerWeek/2 {
		delta -= VanaSecondsPerWeek
	}
	if delta < -VanaSecondsPerWeek/2 {
		delta += VanaSecondsPerWeek
	}

	return Calibration{
		TimeOffsetMs:        delta * EarthMsPerVanaSecond,
		NewMoonStartEarthMs: newMoonStartEarthMs,
	}
}
