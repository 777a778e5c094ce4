package engine

import (
	"github.com/helvetius/vanaclock/internal/timeparse"
	"github.com/helvetius/vanaclock/internal/timer"
)

// ApplyTick advances the state to nowMs and returns the notifications that
// became due since the previous tick. Timers disabled or cleared as a side
// effect (expired windows, consumed placeholders) are mutated at the end of
// the pass, so one tick sees a consistent view of the list.
func (s *State) ApplyTick(nowMs int64) []Fire {
	prev := s.prevTickMs
	if prev == 0 {
		prev = nowMs
	}
	s.prevTickMs = nowMs

	// After a long host sleep, only look back a bounded distance so stale
	// events don't stampede.
	effectivePrev := prev
	if nowMs-effectivePrev > s.CatchupMs {
		effectivePrev = nowMs - s.CatchupMs
	}

	var fires []Fire
	var expiredIDs, clearPhIDs []string

	for _, t := range s.Timers {
		if !t.Enabled {
			continue
		}

		if t.Expired(nowMs) {
			expiredIDs = append(expiredIDs, t.ID)
			continue
		}
		if t.PhStale(nowMs) {
			clearPhIDs = append(clearPhIDs, t.ID)
		}

		ev := timer.NextEvent(t, effectivePrev, &s.Cal)
		if ev == nil || ev.AtMs > nowMs {
			continue
		}

		key := t.ID + "|" + ev.FireKey
		if nowMs-s.lastFired[key] > s.GuardMs {
			s.lastFired[key] = nowMs
			fires = append(fires, Fire{
				TimerID: t.ID,
				Title:   ev.Title,
				Body:    ev.Body,
				Repeat:  ev.Repeat,
			})
		}

		// A fired Earth timer rolls to the same local time tomorrow.
		if t.Kind == timer.KindEarthTime {
			t.TargetEarthMs = timeparse.NextOccurrenceLocal(t.TargetEarthMs, nowMs)
		}

		if ev.Action == timer.ActionLotteryClearPh {
			clearPhIDs = append(clearPhIDs, t.ID)
		}
	}

	for _, id := range expiredIDs {
		if t := s.findTimer(id); t != nil {
			t.Enabled = false
		}
	}
	for _, id := range clearPhIDs {
		if t := s.findTimer(id); t != nil && t.Kind == timer.KindNmLottery {
			t.PhNextAtMs = nil
		}
	}

	return fires
}

// NextEventAt returns the display-facing next instant for a timer, or false
// when it has none. Unlike ApplyTick this looks forward from nowMs itself.
func (s *State) NextEventAt(id string, nowMs int64) (int64, bool) {
	t := s.findTimer(id)
	if t == nil {
		return 0, false
	}
	ev := timer.NextEvent(t, nowMs, &s.Cal)
	if ev == nil {
		return 0, false
	}
	return ev.AtMs, true
}
