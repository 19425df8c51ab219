package parser

import (
	"fmt"
	"regexp"
	"strings"
)

var stationCodePattern = regexp.MustCompile(`\b[A-Z]{2}\d{1,2}\b`)

// ExtractStationCodes finds station codes such as NS1 or EW24 in text,
// in first-seen order without duplicates.
func ExtractStationCodes(text string) []string {
	matches := stationCodePattern.FindAllString(text, -1)
	seen := make(map[string]struct{}, len(matches))
	codes := make([]string, 0, len(matches))
	for _, m := range matches {
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		codes = append(codes, m)
	}
	return codes
}

// NormalizeStationCode drops the zero padding LTA alerts use: NS01 becomes NS1.
func NormalizeStationCode(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) > 3 && code[2] == '0' {
		return code[:2] + code[3:]
	}
	return code
}

// LineOf maps a station code to its LTA train line, e.g. EW24 to EWL.
func LineOf(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) < 2 {
		return ""
	}
	return code[:2] + "L"
}

// Lines returns the distinct train lines serving the given codes.
func Lines(codes []string) []string {
	seen := make(map[string]struct{})
	var lines []string
	for _, c := range codes {
		l := LineOf(c)
		if l == "" {
			continue
		}
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		lines = append(lines, l)
	}
	return lines
}

// SplitStations reads "station" or "start_station,end_station".
func SplitStations(s string) ([]string, error) {
	var names []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			names = append(names, part)
		}
	}
	if len(names) == 0 || len(names) > 2 {
		return nil, fmt.Errorf("expected 'station' or 'start_station,end_station', got %q", s)
	}
	return names, nil
}
