// Package daterange resolves named reporting windows into concrete bounds.
package daterange

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	All       = "all"
	Today     = "today"
	Week      = "week"
	Month     = "month"
	ThisYear  = "thisyear"
	LastYear  = "lastyear"
	ThisMonth = "thismonth"
	LastMonth = "lastmonth"
	Custom    = "custom"
)

var ErrUnknownPreset = errors.New("unknown date range")

// Range is a resolved inclusive window. Nil bounds are open.
type Range struct {
	Preset string
	Start  *time.Time
	End    *time.Time
}

// Resolve turns a preset, plus the raw custom bounds, into a Range evaluated
// at now in loc. Custom end dates cover the whole of their last day.
func Resolve(preset, start, end string, now time.Time, loc *time.Location) (Range, error) {
	if loc == nil {
		loc = time.UTC
	}
	now = now.In(loc)
	preset = strings.ToLower(strings.TrimSpace(preset))
	if preset == "" {
		preset = All
	}
	r := Range{Preset: preset}

	y, m, d := now.Date()
	switch preset {
	case All:
	case Today:
		r.Start, r.End = ptr(time.Date(y, m, d, 0, 0, 0, 0, loc)), ptr(endOfDay(y, m, d, loc))
	case Week:
		r.Start, r.End = ptr(now.Add(-7*24*time.Hour)), ptr(now)
	case Month:
		r.Start, r.End = ptr(time.Date(y, m, 1, 0, 0, 0, 0, loc)), ptr(now)
	case ThisYear:
		r.Start, r.End = ptr(time.Date(y, 1, 1, 0, 0, 0, 0, loc)), ptr(endOfDay(y, 12, 31, loc))
	case LastYear:
		r.Start, r.End = ptr(time.Date(y-1, 1, 1, 0, 0, 0, 0, loc)), ptr(endOfDay(y-1, 12, 31, loc))
	case ThisMonth:
		first := time.Date(y, m, 1, 0, 0, 0, 0, loc)
		last := first.AddDate(0, 1, -1)
		r.Start, r.End = ptr(first), ptr(endOfDay(last.Year(), last.Month(), last.Day(), loc))
	case LastMonth:
		first := time.Date(y, m-1, 1, 0, 0, 0, 0, loc)
		last := first.AddDate(0, 1, -1)
		r.Start, r.End = ptr(first), ptr(endOfDay(last.Year(), last.Month(), last.Day(), loc))
	case Custom:
		if start = strings.TrimSpace(start); start != "" {
			t, err := parseDay(start, loc)
			if err != nil {
				return Range{}, fmt.Errorf("startDate: %w", err)
			}
			r.Start = &t
		}
		if end = strings.TrimSpace(end); end != "" {
			t, err := parseDay(end, loc)
			if err != nil {
				return Range{}, fmt.Errorf("endDate: %w", err)
			}
			ey, em, ed := t.Date()
			r.End = ptr(endOfDay(ey, em, ed, loc))
		}
		if r.Start != nil && r.End != nil && r.Start.After(*r.End) {
			return Range{}, errors.New("startDate is after endDate")
		}
	default:
		return Range{}, fmt.Errorf("%w %q", ErrUnknownPreset, preset)
	}
	return r, nil
}

// Key renders the range for cache keys and file names.
func (r Range) Key() string {
	return r.Preset + ":" + formatBound(r.Start) + ":" + formatBound(r.End)
}

func formatBound(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

func parseDay(raw string, loc *time.Location) (time.Time, error) {
	if t, err := time.ParseInLocation("2006-01-02", raw, loc); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("expected YYYY-MM-DD, got %q", raw)
	}
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc), nil
}

func endOfDay(y int, m time.Month, d int, loc *time.Location) time.Time {
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), loc)
}

func ptr(t time.Time) *time.Time {
	return &t
}
