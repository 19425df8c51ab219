package parser

import (
	"gpttransit/pkg"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Friday 1 March 2024, 14:07 SGT.
var now = time.Date(2024, 3, 1, 14, 7, 0, 0, Singapore)

func TestSplitTimePrompt(t *testing.T) {
	tests := []struct {
		in, stations, dateTime string
	}{
		{"Jurong East,City Hall;02-03-2024,08:30", "Jurong East,City Hall", "02-03-2024,08:30"},
		{"Jurong East,City Hall", "Jurong East,City Hall", ","},
		{"Jurong East; ", "Jurong East", ","},
		{" Bishan ;0830", "Bishan", "0830"},
	}
	for _, tt := range tests {
		stations, dateTime := SplitTimePrompt(tt.in)
		assert.Equal(t, tt.stations, stations, tt.in)
		assert.Equal(t, tt.dateTime, dateTime, tt.in)
	}
}

func TestParseDateTime(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		want     time.Time
		dayType  pkg.DayType
		explicit bool
	}{
		{"both parts", "02-03-2024,08:30", time.Date(2024, 3, 2, 8, 30, 0, 0, Singapore), pkg.WeekendHoliday, true},
		{"blank both", ",", time.Date(2024, 3, 1, 14, 7, 0, 0, Singapore), pkg.Weekday, false},
		{"empty", "", time.Date(2024, 3, 1, 14, 7, 0, 0, Singapore), pkg.Weekday, false},
		{"bare HHMM", "0830", time.Date(2024, 3, 1, 8, 30, 0, 0, Singapore), pkg.Weekday, true},
		{"bare HH:MM", "18:45", time.Date(2024, 3, 1, 18, 45, 0, 0, Singapore), pkg.Weekday, true},
		{"bare date", "03-03-2024", time.Date(2024, 3, 3, 14, 7, 0, 0, Singapore), pkg.WeekendHoliday, false},
		{"date only with comma", "04-03-2024,", time.Date(2024, 3, 4, 14, 7, 0, 0, Singapore), pkg.Weekday, false},
		{"time only with comma", ",7:05", time.Date(2024, 3, 1, 7, 5, 0, 0, Singapore), pkg.Weekday, true},
		{"short date", "2-3-2024,0900", time.Date(2024, 3, 2, 9, 0, 0, 0, Singapore), pkg.WeekendHoliday, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDateTime(tt.in, now)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got.At), "got %s", got.At)
			assert.Equal(t, tt.dayType, got.DayType)
			assert.Equal(t, tt.explicit, got.Explicit)
		})
	}
}

func TestParseDateTime_Invalid(t *testing.T) {
	_, err := ParseDateTime("31-02-2024,08:00", now)
	assert.Error(t, err)

	_, err = ParseDateTime("25:99", now)
	assert.Error(t, err)

	_, err = ParseDateTime("tomorrow morning", now)
	assert.Error(t, err)
}

func TestWeekdayNote(t *testing.T) {
	w, err := ParseDateTime("02-03-2024,08:00", now)
	require.NoError(t, err)
	assert.Equal(t, "02-03-2024 is a WEEKEND.\n", WeekdayNote(w))

	w, err = ParseDateTime(",", now)
	require.NoError(t, err)
	assert.Equal(t, "01-03-2024 is a WEEKDAY.\n", WeekdayNote(w))
}

func TestFormatMinutes(t *testing.T) {
	assert.Equal(t, "07:00", FormatMinutes(420))
	assert.Equal(t, "22:30", FormatMinutes(1350))
}

func TestExtractStationCodes(t *testing.T) {
	text := "Route 1: Walk 50 metres or 67 steps to NS1 Jurong East then take train from NS1 Jurong East to NS24 Dhoby Ghaut then transit by crossing the platform (10 meters, 13 steps) to CC1 Dhoby Ghaut to CC2 Bras Basah"
	assert.Equal(t, []string{"NS1", "NS24", "CC1", "CC2"}, ExtractStationCodes(text))
	assert.Empty(t, ExtractStationCodes("no codes here, NSX1 or N1"))
}

func TestNormalizeStationCode(t *testing.T) {
	assert.Equal(t, "NS1", NormalizeStationCode("NS01"))
	assert.Equal(t, "NS10", NormalizeStationCode("NS10"))
	assert.Equal(t, "EW4", NormalizeStationCode(" ew4 "))
}

func TestLines(t *testing.T) {
	assert.Equal(t, "EWL", LineOf("EW24"))
	assert.Equal(t, "", LineOf("E"))
	assert.Equal(t, []string{"NSL", "EWL"}, Lines([]string{"NS1", "EW24", "NS2"}))
}

func TestSplitStations(t *testing.T) {
	names, err := SplitStations("Jurong East, City Hall")
	require.NoError(t, err)
	assert.Equal(t, []string{"Jurong East", "City Hall"}, names)

	names, err = SplitStations("Bishan")
	require.NoError(t, err)
	assert.Equal(t, []string{"Bishan"}, names)

	_, err = SplitStations("a,b,c")
	assert.Error(t, err)
	_, err = SplitStations(" , ")
	assert.Error(t, err)
}

func TestSplitAlertMessage(t *testing.T) {
	msg := "Update: 0805hrs : NSL - No train service between Jurong East and Bukit Gombak. 0830hrs : EWL - Trains are running slower."
	assert.Equal(t, []string{
		"Update:",
		"0805hrs : NSL - No train service between Jurong East and Bukit Gombak.",
		"0830hrs : EWL - Trains are running slower.",
	}, SplitAlertMessage(msg))

	assert.Equal(t, []string{"Plain message"}, SplitAlertMessage(" Plain message "))
	assert.Nil(t, SplitAlertMessage(""))
}
