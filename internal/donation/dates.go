package donation

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"time"
)

const excelSerialThreshold = 40000

var (
	ErrUnparseableDate = errors.New("unrecognized date")

	excelEpoch = [3]int{1899, 12, 30}

	isoLayouts = []string{
		time.RFC3339Nano,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02T15:04",
		"2006-01-02",
	}
)

// ParseDate reads a donation date in any of the accepted shapes: an Excel
// serial day number above 40000, a slash separated date (day first unless
// a part rules that out), or an ISO-like dash date. Date-only values are
// placed at midnight in loc.
func ParseDate(raw string, loc *time.Location) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, ErrUnparseableDate
	}
	if loc == nil {
		loc = time.UTC
	}
	if serial, err := strconv.ParseFloat(raw, 64); err == nil && isPlainNumber(raw) {
		if serial > excelSerialThreshold {
			return fromExcelSerial(serial, loc)
		}
		return time.Time{}, ErrUnparseableDate
	}
	switch {
	case strings.Contains(raw, "/"):
		return parseSeparated(strings.Split(raw, "/"), loc)
	case strings.Contains(raw, "-"):
		for _, layout := range isoLayouts {
			if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
				return t, nil
			}
		}
		parts := strings.Split(raw, "-")
		if len(parts) == 3 && len(strings.TrimSpace(parts[2])) == 4 {
			return parseSeparated(parts, loc)
		}
	}
	return time.Time{}, ErrUnparseableDate
}

func isPlainNumber(raw string) bool {
	for _, r := range raw {
		if (r < '0' || r > '9') && r != '.' {
			return false
		}
	}
	return true
}

func fromExcelSerial(serial float64, loc *time.Location) (time.Time, error) {
	if math.IsInf(serial, 0) || math.IsNaN(serial) || serial > 2958465 {
		return time.Time{}, ErrUnparseableDate
	}
	days := math.Floor(serial)
	secs := math.Round((serial - days) * 86400)
	base := time.Date(excelEpoch[0], time.Month(excelEpoch[1]), excelEpoch[2], 0, 0, 0, 0, loc)
	return base.AddDate(0, 0, int(days)).Add(time.Duration(secs) * time.Second), nil
}

// parseSeparated resolves a three part date. A four digit first part is a
// year; otherwise whichever of the first two parts exceeds 12 is the day,
// and day-first wins when both could be.
func parseSeparated(parts []string, loc *time.Location) (time.Time, error) {
	if len(parts) != 3 {
		return time.Time{}, ErrUnparseableDate
	}
	nums := make([]int, 3)
	for i, p := range parts {
		p = strings.TrimSpace(p)
		if i == 2 {
			// tolerate a trailing time component: 14/03/2025 10:00
			if idx := strings.IndexByte(p, ' '); idx > 0 {
				p = p[:idx]
			}
		}
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return time.Time{}, ErrUnparseableDate
		}
		nums[i] = n
	}

	var day, month, year int
	switch {
	case len(strings.TrimSpace(parts[0])) == 4:
		year, month, day = nums[0], nums[1], nums[2]
	case nums[0] > 12:
		day, month, year = nums[0], nums[1], nums[2]
	case nums[1] > 12:
		month, day, year = nums[0], nums[1], nums[2]
	default:
		day, month, year = nums[0], nums[1], nums[2]
	}
	if year < 100 {
		if year < 50 {
			year += 2000
		} else {
			year += 1900
		}
	}

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc)
	if t.Day() != day || int(t.Month()) != month || t.Year() != year {
		return time.Time{}, ErrUnparseableDate
	}
	return t, nil
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
