package core

import (
	"strconv"
	"time"
)

// Month keys identify calendar month buckets as "YYYY-MM" strings. A window
// is an ordered slice of month keys used to align a time-series.

// FormatMonthKey returns the canonical "YYYY-MM" key for a year and month.
func FormatMonthKey(year int, month time.Month) string {
	m := strconv.Itoa(int(month))
	if month < 10 {
		m = "0" + m
	}
	return strconv.Itoa(year) + "-" + m
}

// ParseMonthKey parses a "YYYY-MM" key. Malformed keys are a programming
// error on the caller's side and yield ErrInvalidMonthKey.
func ParseMonthKey(key string) (int, time.Month, error) {
	if len(key) != 7 || key[4] != '-' {
		return 0, 0, ErrInvalidMonthKey
	}
	// Atoi alone would accept a signed component like "2024-+5".
	for i := 0; i < len(key); i++ {
		if i == 4 {
			continue
		}
		if key[i] < '0' || key[i] > '9' {
			return 0, 0, ErrInvalidMonthKey
		}
	}
	year, _ := strconv.Atoi(key[:4])
	month, _ := strconv.Atoi(key[5:])
	if year < 1 || month < 1 || month > 12 {
		return 0, 0, ErrInvalidMonthKey
	}
	return year, time.Month(month), nil
}

// MonthWindow returns the keys of the n calendar months ending at end's
// month, oldest first. The walk decrements the month component with year
// rollover, so the window is exact regardless of month lengths; subtracting
// fixed 30-day steps from the first of the month skips or repeats months
// around 28/29/31-day boundaries. n <= 0 yields an empty window.
func MonthWindow(end time.Time, n int) []string {
	if n <= 0 {
		return nil
	}
	keys := make([]string, n)
	year, month := end.Year(), end.Month()
	for i := n - 1; i >= 0; i-- {
		keys[i] = FormatMonthKey(year, month)
		month--
		if month < time.January {
			month = time.December
			year--
		}
	}
	return keys
}
