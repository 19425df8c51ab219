// Package crowd reshapes LTA crowd feeds and passenger volume datasets into
// short summaries the agent can quote.
package crowd

import (
	"fmt"
	"gpttransit/internal/parser"
	"gpttransit/internal/services"
	"gpttransit/pkg"
	"sort"
	"strings"
	"time"
)

const (
	NoStationData  = "No crowd data available for the selected stations."
	NoTimeData     = "No crowd data available for the selected time and stations."
	NoRangeData    = "No crowd data available for the selected time range and stations."
	NoForecastData = "No forecast data available for the selected time range and stations."
	NoVolumeData   = "No volume data available for the selected time and stations."
	NoTripData     = "No volume data available for the selected stations and time."

	serviceStart = 7 * 60  // 07:00
	serviceEnd   = 22 * 60 // 22:00
)

// Labeler renders a station code for display.
type Labeler interface {
	Label(code string) string
}

// Thresholds bucket a count: above Upper is HIGH, below Lower is LOW.
type Thresholds struct {
	Upper int
	Lower int
}

// Level buckets a count against t.
func (t Thresholds) Level(n int) pkg.CrowdLevel {
	switch {
	case n > t.Upper:
		return pkg.CrowdHigh
	case n < t.Lower:
		return pkg.CrowdLow
	}
	return pkg.CrowdModerate
}

// Reading is one live crowd observation.
type Reading struct {
	Station string
	Level   pkg.CrowdLevel
}

// Slot is one forecast interval; Minute is minutes after midnight.
type Slot struct {
	Date    string
	Station string
	Minute  int
	Level   pkg.CrowdLevel
}

// Readings flattens PCDRealTime payloads.
func Readings(responses ...*services.RealTimeCrowdResponse) []Reading {
	var out []Reading
	for _, resp := range responses {
		if resp == nil {
			continue
		}
		for _, v := range resp.Value {
			out = append(out, Reading{Station: v.Station, Level: levelOf(v.CrowdLevel)})
		}
	}
	return out
}

// Slots flattens PCDForecast payloads into per-station intervals in Singapore time.
func Slots(responses ...*services.ForecastCrowdResponse) ([]Slot, error) {
	var out []Slot
	for _, resp := range responses {
		if resp == nil {
			continue
		}
		for _, day := range resp.Value {
			for _, st := range day.Stations {
				for _, iv := range st.Interval {
					start, err := time.Parse(time.RFC3339, iv.Start)
					if err != nil {
						return nil, fmt.Errorf("forecast interval for %s: %w", st.Station, err)
					}
					start = start.In(parser.Singapore)
					out = append(out, Slot{
						Date:    day.Date,
						Station: st.Station,
						Minute:  start.Hour()*60 + start.Minute(),
						Level:   levelOf(iv.CrowdLevel),
					})
				}
			}
		}
	}
	return out, nil
}

func levelOf(s string) pkg.CrowdLevel {
	if l, ok := pkg.ParseCrowdLevel(s); ok {
		return l
	}
	return pkg.CrowdLevel(strings.ToLower(strings.TrimSpace(s)))
}

// RealTime groups the live crowd level of the selected stations.
func RealTime(readings []Reading, codes []string, names Labeler) string {
	selected := codeSet(codes)
	g := newGrouping()
	for _, r := range readings {
		if _, ok := selected[r.Station]; !ok {
			continue
		}
		g.add(r.Level.Label(), r.Level.Rank()*10+r.Level.Rank(), names.Label(r.Station))
	}
	if g.empty() {
		return NoStationData
	}
	return g.render()
}

// ForecastAt summarizes the levels forecast within 30 minutes of w. When a
// station crosses levels in that window the range is reported, e.g. LOW TO MODERATE.
func ForecastAt(slots []Slot, codes []string, w parser.When, names Labeler) string {
	selected := codeSet(codes)
	at := w.Minutes()

	var order []string
	levels := make(map[string]map[pkg.CrowdLevel]struct{})
	for _, s := range slots {
		if _, ok := selected[s.Station]; !ok {
			continue
		}
		if s.Minute < at-30 || s.Minute > at+30 {
			continue
		}
		if _, seen := levels[s.Station]; !seen {
			levels[s.Station] = make(map[pkg.CrowdLevel]struct{})
			order = append(order, s.Station)
		}
		levels[s.Station][s.Level] = struct{}{}
	}
	if len(order) == 0 {
		return NoTimeData
	}

	g := newGrouping()
	for _, station := range order {
		label, rank := combine(levels[station])
		g.add(label, rank, names.Label(station))
	}
	return g.render()
}

// ForecastTimings lists, per station and level, the forecast slots from 90
// minutes before to 30 minutes after w, clamped to 07:00-22:00. Without an
// explicit time the whole 07:00-22:00 range is used.
func ForecastTimings(slots []Slot, codes []string, w parser.When, names Labeler) string {
	from, to := serviceStart, serviceEnd
	if w.Explicit {
		from = max(w.Minutes()-90, serviceStart)
		to = min(w.Minutes()+30, serviceEnd)
	}

	selected := codeSet(codes)
	var order []string
	timings := make(map[string]map[pkg.CrowdLevel][]int)
	for _, s := range slots {
		if _, ok := selected[s.Station]; !ok {
			continue
		}
		if s.Minute < from || s.Minute > to {
			continue
		}
		if _, seen := timings[s.Station]; !seen {
			timings[s.Station] = make(map[pkg.CrowdLevel][]int)
			order = append(order, s.Station)
		}
		timings[s.Station][s.Level] = append(timings[s.Station][s.Level], s.Minute)
	}
	if len(order) == 0 {
		return NoRangeData
	}

	var lines []string
	for _, station := range order {
		for _, level := range sortedLevels(timings[station]) {
			lines = append(lines, fmt.Sprintf("CROWD LEVEL at %s is %s at these timings: %s.",
				names.Label(station), level.Label(), joinMinutes(timings[station][level])))
		}
	}
	return strings.Join(lines, "\n")
}

func combine(set map[pkg.CrowdLevel]struct{}) (string, int) {
	levels := make([]pkg.CrowdLevel, 0, len(set))
	for l := range set {
		levels = append(levels, l)
	}
	sort.Slice(levels, func(i, j int) bool { return levels[i].Rank() < levels[j].Rank() })

	lo, hi := levels[0], levels[len(levels)-1]
	rank := lo.Rank()*10 + hi.Rank()
	if lo == hi {
		return lo.Label(), rank
	}
	return lo.Label() + " TO " + hi.Label(), rank
}

func sortedLevels[V any](m map[pkg.CrowdLevel]V) []pkg.CrowdLevel {
	levels := make([]pkg.CrowdLevel, 0, len(m))
	for l := range m {
		levels = append(levels, l)
	}
	sort.Slice(levels, func(i, j int) bool {
		if levels[i].Rank() != levels[j].Rank() {
			return levels[i].Rank() < levels[j].Rank()
		}
		return levels[i] < levels[j]
	})
	return levels
}

func joinMinutes(minutes []int) string {
	sorted := append([]int(nil), minutes...)
	sort.Ints(sorted)
	out := make([]string, 0, len(sorted))
	for i, m := range sorted {
		if i > 0 && m == sorted[i-1] {
			continue
		}
		out = append(out, parser.FormatMinutes(m))
	}
	return strings.Join(out, ", ")
}

func codeSet(codes []string) map[string]struct{} {
	set := make(map[string]struct{}, len(codes))
	for _, c := range codes {
		set[c] = struct{}{}
	}
	return set
}

// grouping collects station labels under a crowd label, rendered low to high.
type grouping struct {
	order    []string
	rank     map[string]int
	stations map[string][]string
}

func newGrouping() *grouping {
	return &grouping{rank: make(map[string]int), stations: make(map[string][]string)}
}

func (g *grouping) add(label string, rank int, station string) {
	if _, ok := g.stations[label]; !ok {
		g.order = append(g.order, label)
		g.rank[label] = rank
	}
	for _, s := range g.stations[label] {
		if s == station {
			return
		}
	}
	g.stations[label] = append(g.stations[label], station)
}

func (g *grouping) empty() bool {
	return len(g.order) == 0
}

func (g *grouping) render() string {
	sort.SliceStable(g.order, func(i, j int) bool { return g.rank[g.order[i]] < g.rank[g.order[j]] })
	lines := make([]string, 0, len(g.order))
	for _, label := range g.order {
		lines = append(lines, fmt.Sprintf("CROWD LEVEL %s at these stations: %s.", label, strings.Join(g.stations[label], ", ")))
	}
	return strings.Join(lines, "\n")
}

// OnDate keeps the slots forecast for day. When the feed has nothing for that
// day every slot is returned, since LTA only publishes a short horizon.
func OnDate(slots []Slot, day time.Time) []Slot {
	prefix := day.Format("2006-01-02")
	var out []Slot
	for _, s := range slots {
		if strings.HasPrefix(s.Date, prefix) {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return slots
	}
	return out
}
