// Package engine owns the mutable timer state and advances it one poll tick
// at a time. Everything takes an explicit "now" so the whole package stays
// deterministic under test; only the caller touches the wall clock.
package engine

import (
	"github.com/helvetius/vanaclock/internal/timer"
	"github.com/helvetius/vanaclock/internal/vanadiel"
)

const (
	// MaxCatchupMs bounds how far back a tick will look after the host slept.
	MaxCatchupMs = 5 * 60 * 1000
	// RefireGuardMs suppresses duplicate fires of the same timer sub-event.
	RefireGuardMs = 10_000
)

// State is the whole scheduling world: the timer list, the active
// calibration, and the bookkeeping that keeps polling idempotent.
type State struct {
	Timers []*timer.Timer
	Cal    vanadiel.Calibration

	// CatchupMs and GuardMs default to MaxCatchupMs and RefireGuardMs.
	CatchupMs int64
	GuardMs   int64

	// lastFired maps "timerID|fireKey" to the instant it last fired.
	lastFired  map[string]int64
	prevTickMs int64
}

// NewState builds an empty state under the default calibration.
func NewState() *State {
	return &State{
		Cal:       vanadiel.DefaultCalibration(),
		CatchupMs: MaxCatchupMs,
		GuardMs:   RefireGuardMs,
		lastFired: map[string]int64{},
	}
}

// Fire is a notification the caller should surface to the user.
type Fire struct {
	TimerID string
	Title   string
	Body    string
	// Repeat asks the notifier to keep re-showing until dismissed.
	Repeat bool
}

// Snapshot of what the clock face shows, derived from one instant.
func (s *State) Snapshot(nowMs int64) vanadiel.VanaNow {
	return vanadiel.ToVanaNow(nowMs, &s.Cal)
}

func (s *State) findTimer(id string) *timer.Timer {
	for _, t := range s.Timers {
		if t.ID == id {
			return t
		}
	}
	return nil
}
