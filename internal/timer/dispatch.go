package timer

import (
	"fmt"

	"github.com/helvetius/vanaclock/internal/vanadiel"
)

// NotifyTitle heads every timer notification.
const NotifyTitle = "FFXI Timer"

// graceMs keeps a just-missed NM sub-event relevant for one minute.
const graceMs = 60_000

// WindowStartAt returns the instant a spawn window opens.
func (t *Timer) WindowStartAt() int64 {
	return clampNonNeg(t.BaseEarthMs) + clampNonNeg(t.WindowStartOffsetMs)
}

// WindowEndAt returns the instant a timed window closes.
func (t *Timer) WindowEndAt() int64 {
	return clampNonNeg(t.BaseEarthMs) + clampNonNeg(t.WindowEndOffsetMs)
}

// Expired reports whether a timed-window timer is past its last useful event
// and should be disabled. Other kinds never expire on their own.
func (t *Timer) Expired(nowMs int64) bool {
	return t.Kind == KindNmTimedWindow && nowMs > t.WindowEndAt()+graceMs
}

// PhStale reports whether an armed lottery placeholder is too old to fire.
func (t *Timer) PhStale(nowMs int64) bool {
	return t.Kind == KindNmLottery && t.PhNextAtMs != nil && nowMs > *t.PhNextAtMs+graceMs
}

// NextEvent computes the next notification-worthy event for the timer, or nil
// when nothing remains. nowMs is the caller's reference instant; the result is
// at or after it except for sub-events still inside the one-minute grace.
func NextEvent(t *Timer, nowMs int64, cal *vanadiel.Calibration) *Event {
	if !t.Enabled {
		return nil
	}

	switch t.Kind {
	case KindNmTimedWindow:
		return nextTimedWindowEvent(t, nowMs)
	case KindNmLottery:
		return nextLotteryEvent(t, nowMs)
	}

	var dueAt int64
	switch t.Kind {
	case KindVanaWeekdayTime:
		dueAt = vanadiel.NextEarthMsForWeekdayTime(nowMs, cal, t.TargetWeekday, t.TargetHour, t.TargetMinute)
	case KindMoonStep:
		dueAt = vanadiel.NextEarthMsForMoonStep(nowMs, cal, t.TargetMoonStep)
	case KindMoonPercent:
		dueAt = vanadiel.NextEarthMsForMoonPercent(nowMs, cal, t.TargetPercent)
	case KindEarthTime:
		dueAt = t.TargetEarthMs
	default:
		return nil
	}

	return &Event{
		AtMs:    dueAt,
		Title:   NotifyTitle,
		Body:    fmt.Sprintf("%s is due now! (click to stop)", t.Label),
		FireKey: "due",
		Repeat:  true,
	}
}

// nextTimedWindowPopAt finds the first pop check at or after nowMs, or -1 when
// the window has no checks left.
func nextTimedWindowPopAt(nowMs, baseMs, startOffsetMs, endOffsetMs, intervalMs int64) int64 {
	startAt := baseMs + startOffsetMs
	endAt := baseMs + endOffsetMs
	if intervalMs < 1 {
		intervalMs = 1
	}

	if nowMs <= startAt {
		return startAt
	}

	steps := (nowMs - startAt) / intervalMs
	t := startAt + steps*intervalMs
	if t < nowMs {
		t += intervalMs
	}
	if t < startAt {
		t = startAt
	}
	if t > endAt {
		return -1
	}
	return t
}

func nextTimedWindowEvent(t *Timer, nowMs int64) *Event {
	baseMs := clampNonNeg(t.BaseEarthMs)
	startOffsetMs := clampNonNeg(t.WindowStartOffsetMs)
	endOffsetMs := clampNonNeg(t.WindowEndOffsetMs)
	intervalMs := clampNonNeg(t.IntervalMs)
	warnLeadMs := clampNonNeg(t.WarnLeadMs)

	if endOffsetMs < startOffsetMs || intervalMs <= 0 {
		return nil
	}

	endAt := baseMs + endOffsetMs
	if nowMs > endAt+graceMs {
		return nil
	}

	popAt := nextTimedWindowPopAt(nowMs, baseMs, startOffsetMs, endOffsetMs, intervalMs)
	if popAt < 0 {
		return nil
	}

	warnAt := popAt - warnLeadMs
	if warnAt < baseMs {
		warnAt = baseMs
	}

	if warnLeadMs > 0 && warnAt > nowMs {
		return &Event{
			AtMs:    warnAt,
			Title:   NotifyTitle,
			Body:    fmt.Sprintf("%s — pop check in %ds. (click to stop)", t.Label, warnLeadMs/1000),
			FireKey: fmt.Sprintf("pop:warn:%d", popAt),
		}
	}

	return &Event{
		AtMs:    popAt,
		Title:   NotifyTitle,
		Body:    fmt.Sprintf("%s — pop check NOW. (click to stop)", t.Label),
		FireKey: fmt.Sprintf("pop:now:%d", popAt),
	}
}

func nextLotteryEvent(t *Timer, nowMs int64) *Event {
	baseMs := clampNonNeg(t.BaseEarthMs)
	windowStartOffsetMs := clampNonNeg(t.WindowStartOffsetMs)
	warnLeadMs := clampNonNeg(t.WarnLeadMs)

	windowOpenAt := baseMs + windowStartOffsetMs
	windowWarnAt := windowOpenAt - warnLeadMs
	if windowWarnAt < baseMs {
		windowWarnAt = baseMs
	}

	var candidates []*Event

	// Window-open events stay relevant for one minute past the open.
	if nowMs <= windowOpenAt+graceMs {
		if warnLeadMs > 0 && windowWarnAt > nowMs {
			candidates = append(candidates, &Event{
				AtMs:    windowWarnAt,
				Title:   NotifyTitle,
				Body:    fmt.Sprintf("%s — window opens in %ds. (click to stop)", t.Label, warnLeadMs/1000),
				FireKey: fmt.Sprintf("window:warn:%d", windowOpenAt),
			})
		}
		if windowOpenAt >= nowMs {
			candidates = append(candidates, &Event{
				AtMs:    windowOpenAt,
				Title:   NotifyTitle,
				Body:    fmt.Sprintf("%s — WINDOW OPEN. (click to stop)", t.Label),
				FireKey: fmt.Sprintf("window:open:%d", windowOpenAt),
			})
		}
	}

	if t.PhNextAtMs != nil {
		phPopAt := clampNonNeg(*t.PhNextAtMs)
		phWarnAt := phPopAt - warnLeadMs
		if phWarnAt < baseMs {
			phWarnAt = baseMs
		}

		if nowMs <= phPopAt+graceMs {
			if warnLeadMs > 0 && phWarnAt > nowMs {
				candidates = append(candidates, &Event{
					AtMs:    phWarnAt,
					Title:   NotifyTitle,
					Body:    fmt.Sprintf("%s — PH pops in %ds. (click to stop)", t.Label, warnLeadMs/1000),
					FireKey: fmt.Sprintf("ph:warn:%d", phPopAt),
				})
			}
			if phPopAt >= nowMs {
				candidates = append(candidates, &Event{
					AtMs:    phPopAt,
					Title:   NotifyTitle,
					Body:    fmt.Sprintf("%s — PH POP NOW. (click to stop)", t.Label),
					FireKey: fmt.Sprintf("ph:pop:%d", phPopAt),
					Action:  ActionLotteryClearPh,
				})
			}
		}
	}

	var best *Event
	for _, c := range candidates {
		if best == nil || c.AtMs < best.AtMs {
			best = c
		}
	}
	return best
}
