package engine

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/helvetius/vanaclock/internal/timer"
	"github.com/helvetius/vanaclock/internal/vanadiel"
)

// AddTimer validates t, assigns an ID and creation instant when missing, and
// prepends it enabled; the list stays newest-first.
func (s *State) AddTimer(t *timer.Timer, nowMs int64) error {
	if err := validateTimer(t); err != nil {
		return err
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.CreatedAtMs == 0 {
		t.CreatedAtMs = nowMs
	}
	t.Enabled = true
	s.Timers = append([]*timer.Timer{t}, s.Timers...)
	return nil
}

func validateTimer(t *timer.Timer) error {
	if t.Label == "" {
		return errors.New("timer needs a label")
	}

	switch t.Kind {
	case timer.KindVanaWeekdayTime:
		known := false
		for _, d := range vanadiel.Weekdays {
			if d == t.TargetWeekday {
				known = true
				break
			}
		}
		if !known {
			return errors.Errorf("unknown weekday %q", t.TargetWeekday)
		}
		if t.TargetHour < 0 || t.TargetHour > 23 || t.TargetMinute < 0 || t.TargetMinute > 59 {
			return errors.Errorf("time %d:%d out of range", t.TargetHour, t.TargetMinute)
		}
	case timer.KindMoonStep:
		if t.TargetMoonStep < 0 || t.TargetMoonStep >= vanadiel.MoonStepsPerCycle {
			return errors.Errorf("moon step %d out of range", t.TargetMoonStep)
		}
	case timer.KindMoonPercent:
		if t.TargetPercent < 0 || t.TargetPercent > 100 {
			return errors.Errorf("moon percent %d out of range", t.TargetPercent)
		}
	case timer.KindEarthTime:
		if t.TargetEarthMs <= 0 {
			return errors.New("earth timer needs a target instant")
		}
	case timer.KindNmTimedWindow:
		if t.WindowEndOffsetMs < t.WindowStartOffsetMs {
			return errors.New("window end precedes window start")
		}
		if t.IntervalMs <= 0 {
			return errors.New("pop interval must be positive")
		}
	case timer.KindNmLottery:
		if t.PhRespawnMs <= 0 {
			return errors.New("placeholder respawn must be positive")
		}
	default:
		return errors.Errorf("unknown timer kind %q", t.Kind)
	}
	return nil
}

// SetEnabled flips a timer without touching its schedule fields.
func (s *State) SetEnabled(id string, enabled bool) error {
	t := s.findTimer(id)
	if t == nil {
		return errors.Errorf("no timer %q", id)
	}
	t.Enabled = enabled
	return nil
}

// DeleteTimer removes a timer and forgets its fire history.
func (s *State) DeleteTimer(id string) {
	for i, t := range s.Timers {
		if t.ID == id {
			s.Timers = append(s.Timers[:i], s.Timers[i+1:]...)
			break
		}
	}
	prefix := id + "|"
	for k := range s.lastFired {
		if len(k) > len(prefix) && k[:len(prefix)] == prefix {
			delete(s.lastFired, k)
		}
	}
}

// SetNmBaseManual re-anchors an NM timer on a hand-entered time of death.
func (s *State) SetNmBaseManual(id string, baseEarthMs int64) error {
	t := s.findTimer(id)
	if t == nil {
		return errors.Errorf("no timer %q", id)
	}
	if t.Kind != timer.KindNmTimedWindow && t.Kind != timer.KindNmLottery {
		return errors.Errorf("timer %q has no time of death", id)
	}
	t.BaseEarthMs = baseEarthMs
	t.Enabled = true
	if t.Kind == timer.KindNmLottery {
		t.PhNextAtMs = nil
	}
	return nil
}

// ResetNmBaseNow records "it just died" for an NM timer.
func (s *State) ResetNmBaseNow(id string, nowMs int64) error {
	return s.SetNmBaseManual(id, nowMs)
}

// LotteryPhKilledNow arms the placeholder respawn clock from this instant.
func (s *State) LotteryPhKilledNow(id string, nowMs int64) error {
	t := s.findTimer(id)
	if t == nil {
		return errors.Errorf("no timer %q", id)
	}
	if t.Kind != timer.KindNmLottery {
		return errors.Errorf("timer %q is not a lottery timer", id)
	}
	next := nowMs + t.PhRespawnMs
	t.PhNextAtMs = &next
	t.Enabled = true
	return nil
}

// LotteryClearPh disarms the placeholder clock.
func (s *State) LotteryClearPh(id string) error {
	t := s.findTimer(id)
	if t == nil {
		return errors.Errorf("no timer %q", id)
	}
	if t.Kind != timer.KindNmLottery {
		return errors.Errorf("timer %q is not a lottery timer", id)
	}
	t.PhNextAtMs = nil
	return nil
}

// SetCalibration swaps the active calibration. Day and moon anchors travel
// together; pass the current value for the half you aren't changing.
func (s *State) SetCalibration(cal vanadiel.Calibration) {
	s.Cal = cal
}

// HasEnabledTimers reports whether anything can still fire, which drives the
// keep-awake request.
func (s *State) HasEnabledTimers() bool {
	for _, t := range s.Timers {
		if t.Enabled {
			return true
		}
	}
	return false
}
