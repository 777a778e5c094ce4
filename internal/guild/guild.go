// Package guild resolves recurring Vana'diel opening-hour schedules into the
// next concrete weekday/time an alert should fire, a configurable number of
// in-game hours before the open.
package guild

import (
	"fmt"
	"strings"

	"github.com/helvetius/vanaclock/internal/vanadiel"
)

const minutesPerWeek = 8 * 24 * 60

// Schedule is a weekly opening rule: a daily open time, optionally skipping
// one closed weekday.
type Schedule struct {
	OpenHour   int
	OpenMinute int
	ClosedOn   vanadiel.Weekday // empty = never closed
}

// Target is a resolved alert instant in in-game coordinates.
type Target struct {
	Weekday vanadiel.Weekday
	Hour    int
	Minute  int
}

// LabeledTarget pairs a resolved target with its preset label, for merging.
type LabeledTarget struct {
	Label string
	Target
}

func clampOffset(hours int) int {
	if hours < 0 {
		return 0
	}
	if hours > 23 {
		return 23
	}
	return hours
}

// NextAlertTarget finds the earliest upcoming alert time for the schedule:
// offsetHours before the next open on each non-closed weekday, clamped back
// to the open itself when the lead has already elapsed. The result is always
// strictly in the in-game future and never on the closed weekday.
func NextAlertTarget(now vanadiel.VanaNow, s Schedule, offsetHours int) Target {
	offset := clampOffset(offsetHours)

	nowAbs := int(now.WeekOffsetSeconds / 60)

	best := -1
	for i, wd := range vanadiel.Weekdays {
		if s.ClosedOn != "" && wd == s.ClosedOn {
			continue
		}

		openAbs := i*24*60 + s.OpenHour*60 + s.OpenMinute
		if openAbs <= nowAbs {
			openAbs += minutesPerWeek
		}

		fireAbs := openAbs - offset*60
		if fireAbs <= nowAbs {
			fireAbs = openAbs
		}
		// Subtracting the lead can cross midnight back onto the closed day;
		// the alert then clamps to the open instead.
		if s.ClosedOn != "" && weekdayOfAbsMinute(fireAbs) == s.ClosedOn {
			fireAbs = openAbs
		}

		if best < 0 || fireAbs < best {
			best = fireAbs
		}
	}

	best %= minutesPerWeek
	return Target{
		Weekday: weekdayOfAbsMinute(best),
		Hour:    best / 60 % 24,
		Minute:  best % 60,
	}
}

func weekdayOfAbsMinute(abs int) vanadiel.Weekday {
	return vanadiel.Weekdays[abs/(24*60)%8]
}

// MergeTargets collapses targets resolving to the same weekday/hour/minute
// into one entry, joining distinct labels with " / ". Input order is kept for
// first occurrences.
func MergeTargets(targets []LabeledTarget) []LabeledTarget {
	type group struct {
		index  int
		labels []string
		target Target
	}

	groups := map[string]*group{}
	order := 0
	for _, t := range targets {
		key := fmt.Sprintf("%s|%d|%d", t.Weekday, t.Hour, t.Minute)
		g, ok := groups[key]
		if !ok {
			groups[key] = &group{index: order, labels: []string{t.Label}, target: t.Target}
			order++
			continue
		}
		dup := false
		for _, l := range g.labels {
			if l == t.Label {
				dup = true
				break
			}
		}
		if !dup {
			g.labels = append(g.labels, t.Label)
		}
	}

	merged := make([]LabeledTarget, order)
	for _, g := range groups {
		merged[g.index] = LabeledTarget{
			Label:  strings.Join(g.labels, " / "),
			Target: g.target,
		}
	}
	return merged
}
