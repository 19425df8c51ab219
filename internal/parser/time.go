package parser

import (
	"fmt"
	"gpttransit/pkg"
	"strings"
	"time"
)

// Singapore is the fixed UTC+8 zone every LTA timestamp is expressed in.
var Singapore = time.FixedZone("SGT", 8*60*60)

const (
	DateLayout  = "02-01-2006"
	ClockLayout = "15:04"
)

// When is a parsed travel date and time.
type When struct {
	At      time.Time
	DayType pkg.DayType
	// Explicit is set when the caller supplied a clock time rather than
	// falling back to now.
	Explicit bool
}

// Minutes returns the clock time as minutes after midnight.
func (w When) Minutes() int {
	return w.At.Hour()*60 + w.At.Minute()
}

// SplitTimePrompt separates "stations;date,time" into its two halves.
// A missing or blank time half becomes ",", meaning "now".
func SplitTimePrompt(prompt string) (stations, dateTime string) {
	text, rest, found := strings.Cut(prompt, ";")
	stations = strings.TrimSpace(text)
	dateTime = ","
	if found {
		// Only the first ";" separated part after the stations counts.
		rest, _, _ = strings.Cut(rest, ";")
		if rest = strings.TrimSpace(rest); rest != "" {
			dateTime = rest
		}
	}
	return stations, dateTime
}

// ParseDateTime reads "DD-MM-YYYY,HH:MM" where either side may be blank, a
// bare clock time ("HH:MM" or "HHMM") or a bare date. Missing parts take
// their value from now.
func ParseDateTime(s string, now time.Time) (When, error) {
	var dateStr, clockStr string
	if strings.Contains(s, ",") {
		dateStr, clockStr, _ = strings.Cut(s, ",")
	} else if len(s) <= 5 {
		clockStr = s
	} else {
		dateStr = s
	}
	dateStr = strings.TrimSpace(dateStr)
	clockStr = strings.TrimSpace(clockStr)

	loc := now.Location()
	day := now
	if dateStr != "" {
		d, err := time.ParseInLocation(DateLayout, dateStr, loc)
		if err != nil {
			// Single digit day or month, e.g. 1-3-2024.
			if d, err = time.ParseInLocation("2-1-2006", dateStr, loc); err != nil {
				return When{}, fmt.Errorf("invalid date %q, expected DD-MM-YYYY", dateStr)
			}
		}
		day = d
	}

	hour, minute := now.Hour(), now.Minute()
	explicit := false
	if clockStr != "" {
		if len(clockStr) == 4 && isDigits(clockStr) {
			clockStr = clockStr[:2] + ":" + clockStr[2:]
		}
		c, err := time.Parse(ClockLayout, clockStr)
		if err != nil {
			return When{}, fmt.Errorf("invalid time %q, expected HH:MM", clockStr)
		}
		hour, minute = c.Hour(), c.Minute()
		explicit = true
	}

	at := time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, loc)
	return When{At: at, DayType: pkg.DayTypeOf(at), Explicit: explicit}, nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// WeekdayNote tells the reader which volume bucket applies to the date.
func WeekdayNote(w When) string {
	kind := "WEEKDAY"
	if w.DayType == pkg.WeekendHoliday {
		kind = "WEEKEND"
	}
	return fmt.Sprintf("%s is a %s.\n", w.At.Format(DateLayout), kind)
}

// FormatMinutes renders minutes after midnight as HH:MM.
func FormatMinutes(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}
