// Package timeparse handles the loose human-entered date and duration
// formats the timer forms accept, always in the machine's local zone.
package timeparse

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Pad2 renders n as a zero-padded two-digit field.
func Pad2(n int) string {
	return fmt.Sprintf("%02d", n)
}

// FormatCountdown renders a remaining duration as HH:MM:SS, switching to a
// "123h 04m 05s" form once hours outgrow two digits. Negative input clamps
// to zero.
func FormatCountdown(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	totalSeconds := ms / 1000
	hours := totalSeconds / 3600
	minutes := totalSeconds % 3600 / 60
	seconds := totalSeconds % 60

	if hours > 99 {
		return fmt.Sprintf("%dh %02dm %02ds", hours, minutes, seconds)
	}
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
}

var (
	isoRe   = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})[ T]+(\d{1,2}):(\d{2})(?::(\d{2}))?$`)
	usRe    = regexp.MustCompile(`(?i)^(\d{1,2})[/-](\d{1,2})[/-](\d{4})[ ,T]+(\d{1,2}):(\d{2})(?::(\d{2}))?\s*(AM|PM)?$`)
	unitRe  = regexp.MustCompile(`(?i)^(-?\d+(?:\.\d+)?)\s*([hms])$`)
	partsRe = regexp.MustCompile(`(?i)(-?\d+(?:\.\d+)?)\s*([hms])`)
	colonRe = regexp.MustCompile(`^-?\d+(?:\.\d+)?$`)
)

// ParseLocalDateTime accepts what people actually paste into the Earth timer
// form: the datetime-local shape (YYYY-MM-DDTHH:MM[:SS], T or space), and
// MM/DD/YYYY H:MM[:SS] with an optional AM/PM. Dash separators work in the
// US form too. The result is epoch milliseconds in the local zone.
func ParseLocalDateTime(raw string) (int64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, errors.New("empty date/time")
	}

	if m := isoRe.FindStringSubmatch(s); m != nil {
		return localMs(m[3], m[2], m[1], m[4], m[5], m[6], "")
	}

	if m := usRe.FindStringSubmatch(s); m != nil {
		return localMs(m[2], m[1], m[3], m[4], m[5], m[6], strings.ToUpper(m[7]))
	}

	// Last resort: RFC3339 with an explicit zone.
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UnixMilli(), nil
	}

	return 0, errors.Errorf("unrecognized date/time %q", raw)
}

func localMs(day, month, year, hour, minute, second, ampm string) (int64, error) {
	y, _ := strconv.Atoi(year)
	mo, _ := strconv.Atoi(month)
	d, _ := strconv.Atoi(day)
	h, _ := strconv.Atoi(hour)
	mi, _ := strconv.Atoi(minute)
	sec := 0
	if second != "" {
		sec, _ = strconv.Atoi(second)
	}

	switch ampm {
	case "AM":
		if h == 12 {
			h = 0
		}
	case "PM":
		if h != 12 {
			h += 12
		}
	}

	if mo < 1 || mo > 12 || d < 1 || d > 31 || h > 23 || mi > 59 || sec > 59 {
		return 0, errors.Errorf("date/time out of range: %04d-%02d-%02d %02d:%02d:%02d", y, mo, d, h, mi, sec)
	}

	return time.Date(y, time.Month(mo), d, h, mi, sec, 0, time.Local).UnixMilli(), nil
}

// NextOccurrenceLocal advances a past target by whole 24h days until it is
// strictly in the future. Daily Earth timers ride this after each fire.
func NextOccurrenceLocal(targetMs, nowMs int64) int64 {
	const dayMs = 24 * 60 * 60 * 1000
	t := targetMs
	for t <= nowMs {
		t += dayMs
	}
	return t
}

// ParseDuration converts a human duration string into milliseconds.
//
// Supported: H:MM:SS, MM:SS, bare units (2h, 2.5h, 5m, 10s), and composites
// like 1h45m55s in any order.
func ParseDuration(raw string) (int64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, errors.New("empty duration")
	}

	if strings.Contains(s, ":") {
		parts := strings.Split(s, ":")
		nums := make([]float64, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if !colonRe.MatchString(p) {
				return 0, errors.Errorf("bad duration %q", raw)
			}
			n, err := strconv.ParseFloat(p, 64)
			if err != nil {
				return 0, errors.Wrapf(err, "bad duration %q", raw)
			}
			nums = append(nums, n)
		}

		var seconds float64
		switch len(nums) {
		case 3:
			seconds = nums[0]*3600 + nums[1]*60 + nums[2]
		case 2:
			seconds = nums[0]*60 + nums[1]
		default:
			return 0, errors.Errorf("bad duration %q", raw)
		}
		ms := seconds * 1000
		if ms < 0 {
			return 0, errors.Errorf("negative duration %q", raw)
		}
		return int64(math.Round(ms)), nil
	}

	if m := unitRe.FindStringSubmatch(s); m != nil {
		n, err := strconv.ParseFloat(m[1], 64)
		if err != nil || n < 0 {
			return 0, errors.Errorf("bad duration %q", raw)
		}
		return int64(math.Round(n * unitMs(m[2]))), nil
	}

	matches := partsRe.FindAllStringSubmatch(s, -1)
	if len(matches) > 0 {
		var total float64
		for _, m := range matches {
			n, err := strconv.ParseFloat(m[1], 64)
			if err != nil || n < 0 {
				return 0, errors.Errorf("bad duration %q", raw)
			}
			total += n * unitMs(m[2])
		}
		return int64(math.Round(total)), nil
	}

	return 0, errors.Errorf("bad duration %q", raw)
}

func unitMs(unit string) float64 {
	switch strings.ToLower(unit) {
	case "h":
		return 3_600_000
	case "m":
		return 60_000
	default:
		return 1000
	}
}
