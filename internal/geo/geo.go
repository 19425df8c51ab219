package geo

import (
	"fmt"
	"gpttransit/pkg"
	"math"
	"sort"
	"strconv"
	"strings"
)

const earthRadiusKm = 6371.0

// Haversine returns the great-circle distance in metres.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	rad := math.Pi / 180
	dLat := (lat2 - lat1) * rad
	dLon := (lon2 - lon1) * rad
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*rad)*math.Cos(lat2*rad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c * 1000
}

// NearestTaxiStands returns the n stands closest to p with Distance filled in.
func NearestTaxiStands(p pkg.LatLng, stands []pkg.TaxiStand, n int) []pkg.TaxiStand {
	ranked := make([]pkg.TaxiStand, len(stands))
	for i, s := range stands {
		s.Distance = Haversine(p.Lat, p.Lng, s.Lat, s.Lng)
		ranked[i] = s
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Distance < ranked[j].Distance })
	if n < len(ranked) {
		ranked = ranked[:n]
	}
	return ranked
}

// SummarizeTaxiStands lists stands with their distance and a map link.
func SummarizeTaxiStands(stands []pkg.TaxiStand) string {
	parts := make([]string, 0, len(stands))
	for _, s := range stands {
		parts = append(parts, fmt.Sprintf("%s at %.1fm (Link: https://www.google.com/maps?q=%s,%s)",
			s.Name, s.Distance, formatDegrees(s.Lat), formatDegrees(s.Lng)))
	}
	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, " ; ") + " ."
}

// AttractionLinks points the user at food and sights around a location.
func AttractionLinks(p pkg.LatLng, address string) string {
	lat, lng := formatDegrees(p.Lat), formatDegrees(p.Lng)
	return fmt.Sprintf("If you are at %s, try some local delights at "+
		"http://www.google.com/maps/search/Restaurant/@%s,%s,16z/data=!3m1!4b1?entry=ttu "+
		"and visit attractions at "+
		"http://www.google.com/maps/search/Things+to+do/@%s,%s,16z/data=!3m1!4b1?entry=ttu .",
		address, lat, lng, lat, lng)
}

func formatDegrees(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
