package alerts

import (
	"fmt"
	"gpttransit/internal/parser"
	"gpttransit/internal/services"
	"strings"
)

const (
	// AllClear is returned when LTA reports normal service on the network.
	AllClear = "There are no real-time train service issues at the selected stations."
	// NoIssues is returned when none of the selected stations is affected.
	NoIssues = "No train service issues at selected stations."

	statusNormal = 1
)

// Labeler renders a station code for display.
type Labeler interface {
	Label(code string) string
}

// Summarize groups the selected stations by the disruption affecting them.
func Summarize(alert *services.TrainAlert, codes []string, names Labeler) string {
	if alert == nil || alert.Status == statusNormal {
		return AllClear
	}

	var order []string
	grouped := make(map[string][]string)
	for _, code := range codes {
		status, affected := StationStatus(alert, code)
		if !affected {
			continue
		}
		if _, ok := grouped[status]; !ok {
			order = append(order, status)
		}
		grouped[status] = append(grouped[status], names.Label(code))
	}
	if len(order) == 0 {
		return NoIssues
	}

	lines := make([]string, 0, len(order))
	for _, status := range order {
		lines = append(lines, fmt.Sprintf("%s at these stations: %s.", status, strings.Join(grouped[status], ", ")))
	}
	return strings.Join(lines, "\n")
}

// StationStatus returns the alert update relevant to one station, preferring
// the update that names the station's line.
func StationStatus(alert *services.TrainAlert, code string) (string, bool) {
	code = parser.NormalizeStationCode(code)
	line := parser.LineOf(code)

	for i, seg := range alert.AffectedSegments {
		if !segmentHas(seg, code) {
			continue
		}
		chunks := parser.SplitAlertMessage(messageFor(alert, i))
		for _, chunk := range chunks {
			if strings.Contains(chunk, line) {
				return chunk, true
			}
		}
		if len(chunks) > 0 {
			return chunks[0], true
		}
		return fmt.Sprintf("Train service disruption on %s", seg.Line), true
	}
	return NoIssues, false
}

func segmentHas(seg services.AffectedSegment, code string) bool {
	for _, s := range strings.Split(seg.Stations, ",") {
		if parser.NormalizeStationCode(s) == code {
			return true
		}
	}
	return false
}

// messageFor pairs segment i with message i when LTA sends one message per
// segment, otherwise every message is considered.
func messageFor(alert *services.TrainAlert, i int) string {
	if len(alert.Message) == len(alert.AffectedSegments) {
		return alert.Message[i].Content
	}
	contents := make([]string, 0, len(alert.Message))
	for _, m := range alert.Message {
		contents = append(contents, m.Content)
	}
	return strings.Join(contents, " ")
}
