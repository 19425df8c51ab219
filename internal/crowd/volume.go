package crowd

import (
	"fmt"
	"gpttransit/internal/parser"
	"gpttransit/pkg"
	"sort"
	"strings"
)

// VolumeForecast buckets the hourly tap-in plus tap-out volume of the selected
// stations within two hours of w (07:00 to 22:00 when no time was given), per
// day type.
func VolumeForecast(records []pkg.VolumeRecord, codes []string, w parser.When, t Thresholds, names Labeler) string {
	from, to := serviceStart/60, serviceEnd/60
	if w.Explicit {
		from = max(w.At.Hour()-2, from)
		to = min(w.At.Hour()+2, to)
	}

	selected := codeSet(codes)
	type key struct {
		day     pkg.DayType
		station string
	}
	var days []pkg.DayType
	var stations []string
	seenDay := make(map[pkg.DayType]bool)
	seenStation := make(map[string]bool)
	hours := make(map[key]map[pkg.CrowdLevel][]int)

	for _, r := range records {
		if _, ok := selected[r.Code]; !ok || r.Hour < from || r.Hour > to {
			continue
		}
		if !seenDay[r.DayType] {
			seenDay[r.DayType] = true
			days = append(days, r.DayType)
		}
		if !seenStation[r.Code] {
			seenStation[r.Code] = true
			stations = append(stations, r.Code)
		}
		k := key{r.DayType, r.Code}
		if hours[k] == nil {
			hours[k] = make(map[pkg.CrowdLevel][]int)
		}
		level := t.Level(r.Total())
		hours[k][level] = append(hours[k][level], r.Hour*60)
	}
	if len(days) == 0 {
		return NoForecastData
	}
	sort.Slice(days, func(i, j int) bool { return days[i] < days[j] })

	var lines []string
	for _, day := range days {
		for _, station := range stations {
			byLevel := hours[key{day, station}]
			if len(byLevel) == 0 {
				continue
			}
			parts := make([]string, 0, len(byLevel))
			for _, level := range sortedLevels(byLevel) {
				parts = append(parts, fmt.Sprintf("%s at these timings: %s", level.Label(), joinMinutes(byLevel[level])))
			}
			lines = append(lines, fmt.Sprintf("On %s : CROWD VOLUME at %s is %s.", day, names.Label(station), strings.Join(parts, ", ")))
		}
	}
	return strings.Join(lines, "\n")
}

// VolumeAt buckets each selected station's volume for the day type and hour of w.
func VolumeAt(records []pkg.VolumeRecord, codes []string, w parser.When, t Thresholds, names Labeler) string {
	selected := codeSet(codes)
	g := newGrouping()
	for _, r := range records {
		if _, ok := selected[r.Code]; !ok {
			continue
		}
		if r.DayType != w.DayType || r.Hour != w.At.Hour() {
			continue
		}
		level := t.Level(r.Total())
		g.add(level.Label(), level.Rank()*10+level.Rank(), names.Label(r.Code))
	}
	if g.empty() {
		return NoVolumeData
	}
	return g.render()
}

// TripVolume buckets the number of trips between two stations for the day
// type and hour of w.
func TripVolume(records []pkg.ODRecord, origin, destination string, w parser.When, t Thresholds, names Labeler) string {
	for _, r := range records {
		if r.Origin != origin || r.Destination != destination {
			continue
		}
		if r.DayType != w.DayType || r.Hour != w.At.Hour() {
			continue
		}
		return fmt.Sprintf("CROWD LEVEL %s from %s to %s.", t.Level(r.Trips).Label(), names.Label(origin), names.Label(destination))
	}
	return NoTripData
}
