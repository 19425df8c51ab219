package geo

import (
	"gpttransit/pkg"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHaversine(t *testing.T) {
	assert.Equal(t, 0.0, Haversine(1.3, 103.8, 1.3, 103.8))
	// One degree of latitude is about 111.2 km.
	assert.InDelta(t, 111195, Haversine(1, 103.8, 2, 103.8), 10)
}

func TestNearestTaxiStands(t *testing.T) {
	stands := []pkg.TaxiStand{
		{Name: "Far", Lat: 1.40, Lng: 103.80},
		{Name: "Near", Lat: 1.3001, Lng: 103.80},
		{Name: "Middle", Lat: 1.31, Lng: 103.80},
		{Name: "Farther", Lat: 1.45, Lng: 103.80},
	}
	got := NearestTaxiStands(pkg.LatLng{Lat: 1.30, Lng: 103.80}, stands, 3)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"Near", "Middle", "Far"}, []string{got[0].Name, got[1].Name, got[2].Name})
	assert.InDelta(t, 11.1, got[0].Distance, 0.1)
	// The input is left untouched.
	assert.Zero(t, stands[1].Distance)

	assert.Len(t, NearestTaxiStands(pkg.LatLng{}, stands[:2], 3), 2)
}

func TestSummarizeTaxiStands(t *testing.T) {
	got := SummarizeTaxiStands([]pkg.TaxiStand{
		{Name: "Jem", Lat: 1.3333, Lng: 103.7436, Distance: 123.456},
		{Name: "Westgate", Lat: 1.334, Lng: 103.7425, Distance: 200},
	})
	assert.Equal(t, "Jem at 123.5m (Link: https://www.google.com/maps?q=1.3333,103.7436) ; "+
		"Westgate at 200.0m (Link: https://www.google.com/maps?q=1.334,103.7425) .", got)
	assert.Empty(t, SummarizeTaxiStands(nil))
}

func TestAttractionLinks(t *testing.T) {
	got := AttractionLinks(pkg.LatLng{Lat: 1.2839, Lng: 103.8607}, "10 BAYFRONT AVENUE")
	assert.Equal(t, "If you are at 10 BAYFRONT AVENUE, try some local delights at "+
		"http://www.google.com/maps/search/Restaurant/@1.2839,103.8607,16z/data=!3m1!4b1?entry=ttu "+
		"and visit attractions at http://www.google.com/maps/search/Things+to+do/@1.2839,103.8607,16z/data=!3m1!4b1?entry=ttu .", got)
}
