package domain

import (
	"fmt"
	"time"
)

// TimeSpecKind tags which variant a TimeSpec holds.
type TimeSpecKind int

const (
	// ClockTime is a wall-clock time of day, "H:MM".
	ClockTime TimeSpecKind = iota + 1
	// Duration is an amount of time spent: "H:MM", "Nh" or "Nm".
	Duration
)

// TimeSpec is a parsed short time string. With the five-character cap the
// H:MM shape has at most two hour digits and a 00–59 minute; Nh and Nm carry
// up to three digits.
type TimeSpec struct {
	Kind    TimeSpecKind
	Hours   int
	Minutes int
}

// maxTimeSpecLen caps the input: "99:59", "999h" and "999m" are the longest
// accepted strings.
const maxTimeSpecLen = 5

// ParseClockTime reads "H:MM" or "HH:MM" with a 00–59 minute.
func ParseClockTime(s string) (TimeSpec, error) {
	if len(s) == 0 || len(s) > maxTimeSpecLen {
		return TimeSpec{}, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	h, m, ok := parseHourMinute(s)
	if !ok {
		return TimeSpec{}, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	return TimeSpec{Kind: ClockTime, Hours: h, Minutes: m}, nil
}

// ParseTimeSpent reads "H:MM", "Nh" or "Nm" (N with 1–3 digits). The whole
// input must match one shape.
func ParseTimeSpent(s string) (TimeSpec, error) {
	if len(s) == 0 || len(s) > maxTimeSpecLen {
		return TimeSpec{}, fmt.Errorf("%w: %q", ErrInvalidTimeSpent, s)
	}
	if h, m, ok := parseHourMinute(s); ok {
		return TimeSpec{Kind: Duration, Hours: h, Minutes: m}, nil
	}

	n, ok := parseDigits(s[:len(s)-1], 1, 3)
	if ok {
		switch s[len(s)-1] {
		case 'h':
			return TimeSpec{Kind: Duration, Hours: n}, nil
		case 'm':
			return TimeSpec{Kind: Duration, Minutes: n}, nil
		}
	}
	return TimeSpec{}, fmt.Errorf("%w: %q", ErrInvalidTimeSpent, s)
}

// Span returns the spec as a time.Duration.
func (ts TimeSpec) Span() time.Duration {
	return time.Duration(ts.Hours)*time.Hour + time.Duration(ts.Minutes)*time.Minute
}

// On places a clock time on the calendar day of ref, in ref's location.
func (ts TimeSpec) On(ref time.Time) time.Time {
	y, mo, d := ref.Date()
	return time.Date(y, mo, d, 0, 0, 0, 0, ref.Location()).
		Add(time.Duration(ts.Hours)*time.Hour + time.Duration(ts.Minutes)*time.Minute)
}

func parseHourMinute(s string) (hour, minute int, ok bool) {
	colon := -1
	for i := 0; i < len(s); i++ {
		if s[i] == ':' {
			colon = i
			break
		}
	}
	if colon == -1 {
		return 0, 0, false
	}
	hour, ok = parseDigits(s[:colon], 1, 3)
	if !ok {
		return 0, 0, false
	}
	minute, ok = parseDigits(s[colon+1:], 2, 2)
	if !ok || minute > 59 {
		return 0, 0, false
	}
	return hour, minute, true
}

// parseDigits accepts between lo and hi ASCII digits and nothing else.
func parseDigits(s string, lo, hi int) (int, bool) {
	if len(s) < lo || len(s) > hi {
		return 0, false
	}
	n := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	return n, true
}
