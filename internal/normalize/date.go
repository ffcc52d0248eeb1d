package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Passport date fields show up in three shapes: day-first with separators,
// year-first with separators, and the MRZ-adjacent alphabetic-month form.
var (
	reDayFirst  = regexp.MustCompile(`^(\d{1,2})[/\-.](\d{1,2})[/\-.](\d{2,4})$`)
	reYearFirst = regexp.MustCompile(`^(\d{4})[/\-.](\d{1,2})[/\-.](\d{1,2})$`)
	reAlphaMon  = regexp.MustCompile(`^(\d{1,2})([A-Za-z]{3})(\d{2,4})$`)
)

// monthCodes includes the nonstandard "APL" some issuing authorities print
// for April.
var monthCodes = map[string]time.Month{
	"JAN": time.January, "FEB": time.February, "MAR": time.March,
	"APR": time.April, "APL": time.April, "MAY": time.May,
	"JUN": time.June, "JUL": time.July, "AUG": time.August,
	"SEP": time.September, "OCT": time.October, "NOV": time.November,
	"DEC": time.December,
}

// StandardizeDate converts a date string into digits-only DDMMYYYY.
// Two-digit years resolve with pivot 50 (00-49 -> 2000s, 50-99 -> 1900s).
// Input that does not parse, including impossible calendar dates, is
// returned unchanged.
func StandardizeDate(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return raw
	}

	var day, month, year int
	switch {
	case reDayFirst.MatchString(s):
		m := reDayFirst.FindStringSubmatch(s)
		day, _ = strconv.Atoi(m[1])
		month, _ = strconv.Atoi(m[2])
		year = expandYear(mustAtoi(m[3]))
	case reYearFirst.MatchString(s):
		m := reYearFirst.FindStringSubmatch(s)
		year, _ = strconv.Atoi(m[1])
		month, _ = strconv.Atoi(m[2])
		day, _ = strconv.Atoi(m[3])
	case reAlphaMon.MatchString(s):
		m := reAlphaMon.FindStringSubmatch(s)
		mon, ok := monthCodes[strings.ToUpper(m[2])]
		if !ok {
			return raw
		}
		day = mustAtoi(m[1])
		month = int(mon)
		year = expandYear(mustAtoi(m[3]))
	default:
		return raw
	}

	if !validDate(year, month, day) {
		return raw
	}
	return fmt.Sprintf("%02d%02d%04d", day, month, year)
}

func expandYear(y int) int {
	if y >= 100 {
		return y
	}
	if y < 50 {
		return y + 2000
	}
	return y + 1900
}

// validDate rejects values time.Date would silently roll over (day 32,
// month 13, Feb 30).
func validDate(year, month, day int) bool {
	if month < 1 || month > 12 || day < 1 {
		return false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	return t.Year() == year && int(t.Month()) == month && t.Day() == day
}

func mustAtoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
