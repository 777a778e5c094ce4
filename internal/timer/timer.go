// Package timer holds the user-visible timer entities and computes, for each
// one, the single next actionable event.
package timer

import (
	"github.com/helvetius/vanaclock/internal/vanadiel"
)

// Kind discriminates the timer variants.
type Kind string

const (
	KindVanaWeekdayTime Kind = "VANA_WEEKDAY_TIME"
	KindMoonStep        Kind = "MOON_STEP"
	// KindMoonPercent is legacy-only: a percent can match two steps per cycle.
	// Kept for previously saved data; new timers use KindMoonStep.
	KindMoonPercent   Kind = "MOON_PERCENT"
	KindEarthTime     Kind = "EARTH_TIME"
	KindNmTimedWindow Kind = "NM_TIMED_WINDOW"
	KindNmLottery     Kind = "NM_LOTTERY"
)

// Timer is a persisted tagged union; only the fields for its Kind are
// meaningful. The JSON shape matches the original saved blob.
type Timer struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Kind        Kind   `json:"kind"`
	Enabled     bool   `json:"enabled"`
	CreatedAtMs int64  `json:"createdAtMs"`

	// VANA_WEEKDAY_TIME
	TargetWeekday vanadiel.Weekday `json:"targetWeekday,omitempty"`
	TargetHour    int              `json:"targetHour,omitempty"`
	TargetMinute  int              `json:"targetMinute,omitempty"`

	// MOON_STEP
	TargetMoonStep int `json:"targetMoonStep,omitempty"`

	// MOON_PERCENT (legacy)
	TargetPercent int `json:"targetPercent,omitempty"`

	// EARTH_TIME
	TargetEarthMs int64  `json:"targetEarthMs,omitempty"`
	RawInput      string `json:"rawInput,omitempty"`

	// NM_TIMED_WINDOW and NM_LOTTERY share the base instant ("time of death")
	// and window start offset.
	BaseEarthMs         int64 `json:"baseEarthMs,omitempty"`
	WindowStartOffsetMs int64 `json:"windowStartOffsetMs,omitempty"`
	WindowEndOffsetMs   int64 `json:"windowEndOffsetMs,omitempty"`
	IntervalMs          int64 `json:"intervalMs,omitempty"`
	WarnLeadMs          int64 `json:"warnLeadMs,omitempty"`

	// NM_LOTTERY placeholder respawn. PhNextAtMs is nil until a placeholder
	// kill is recorded.
	PhRespawnMs int64  `json:"phRespawnMs,omitempty"`
	PhNextAtMs  *int64 `json:"phNextAtMs,omitempty"`
}

// Action hints the caller to mutate timer state after an event fires.
type Action int

const (
	ActionNone Action = iota
	// ActionLotteryClearPh clears the armed placeholder after its pop fires.
	ActionLotteryClearPh
)

// Event is the next notification-worthy instant for a timer. FireKey is
// stable per timer+sub-event so repeated polling never re-fires the same one.
type Event struct {
	AtMs    int64
	Title   string
	Body    string
	FireKey string
	// Repeat asks the notifier to re-show until dismissed. NM warn/pop events
	// are single-shot; the generic "due now" kinds repeat.
	Repeat bool
	Action Action
}

func clampNonNeg(n int64) int64 {
	if n < 0 {
		return 0
	}
	return n
}
