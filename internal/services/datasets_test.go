package services

import (
	"gpttransit/pkg"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const stationsCSV = `station_name,type,lat,lng,station_code,full_name
JURONG EAST,MRT,1.333207,103.742308,NS1,Jurong East
JURONG EAST,MRT,1.333207,103.742308,EW24,Jurong East
CITY HALL,MRT,1.293119,103.852089,EW13,City Hall
`

func TestStationDirectory(t *testing.T) {
	dir, err := ParseStationDirectory(strings.NewReader(stationsCSV))
	require.NoError(t, err)
	assert.Equal(t, 3, dir.Len())

	s, ok := dir.Lookup("jurong  east")
	require.True(t, ok)
	assert.Equal(t, "NS1", s.Code)
	assert.Equal(t, "JURONGEAST", s.Name)

	assert.Equal(t, []string{"NS1", "EW24"}, dir.CodesFor("Jurong East"))
	assert.Equal(t, "EW13 City Hall", dir.Label("EW13"))
	assert.Equal(t, "XX9", dir.Label("XX9"))

	_, ok = dir.Lookup("Atlantis")
	assert.False(t, ok)
}

func TestStationDirectory_MissingColumn(t *testing.T) {
	_, err := ParseStationDirectory(strings.NewReader("station_name,lat\nA,1\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "station_code")
}

func TestParseTaxiStands(t *testing.T) {
	stands, err := ParseTaxiStands(strings.NewReader("Name,Latitude,Longitude\nJem,1.3333,103.7436\n"))
	require.NoError(t, err)
	assert.Equal(t, []pkg.TaxiStand{{Name: "Jem", Lat: 1.3333, Lng: 103.7436}}, stands)
}

func TestParseVolumeRecords_ExpandsSlashCodes(t *testing.T) {
	csv := "YEAR_MONTH,DAY_TYPE,TIME_PER_HOUR,PT_TYPE,PT_CODE,TOTAL_TAP_IN_VOLUME,TOTAL_TAP_OUT_VOLUME\n" +
		"2024-02,WEEKDAY,8,TRAIN,NS1/EW24,50000,60000\n" +
		"2024-02,WEEKENDS/HOLIDAY,8,TRAIN,EW13,1000,2000\n"
	records, err := ParseVolumeRecords(strings.NewReader(csv))
	require.NoError(t, err)

	want := []pkg.VolumeRecord{
		{DayType: pkg.Weekday, Hour: 8, Code: "NS1", TapIn: 50000, TapOut: 60000},
		{DayType: pkg.Weekday, Hour: 8, Code: "EW24", TapIn: 50000, TapOut: 60000},
		{DayType: pkg.WeekendHoliday, Hour: 8, Code: "EW13", TapIn: 1000, TapOut: 2000},
	}
	if diff := cmp.Diff(want, records); diff != "" {
		t.Errorf("volume records mismatch (-want +got):\n%s", diff)
	}
}

func TestParseODRecords(t *testing.T) {
	csv := "DAY_TYPE,TIME_PER_HOUR,ORIGIN_PT_CODE,DESTINATION_PT_CODE,TOTAL_TRIPS\n" +
		"WEEKDAY,8,NS1/EW24,EW13/NS25,80\n"
	records, err := ParseODRecords(strings.NewReader(csv))
	require.NoError(t, err)
	assert.Len(t, records, 4)
	assert.Equal(t, pkg.ODRecord{DayType: pkg.Weekday, Hour: 8, Origin: "EW24", Destination: "NS25", Trips: 80}, records[3])
}

func TestParseVolumeRecords_BadNumber(t *testing.T) {
	csv := "DAY_TYPE,TIME_PER_HOUR,PT_CODE,TOTAL_TAP_IN_VOLUME,TOTAL_TAP_OUT_VOLUME\nWEEKDAY,eight,NS1,1,2\n"
	_, err := ParseVolumeRecords(strings.NewReader(csv))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestLoadStationDirectory_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stations.csv")
	require.NoError(t, os.WriteFile(path, []byte("\ufeff"+stationsCSV), 0o644))

	dir, err := LoadStationDirectory(path)
	require.NoError(t, err)
	assert.Equal(t, 3, dir.Len())

	_, err = LoadStationDirectory(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}
