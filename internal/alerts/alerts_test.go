package alerts

import (
	"gpttransit/internal/services"
	"testing"

	"github.com/stretchr/testify/assert"
)

type labels map[string]string

func (l labels) Label(code string) string {
	if name, ok := l[code]; ok {
		return code + " " + name
	}
	return code
}

var names = labels{"NS1": "Jurong East", "NS2": "Bukit Batok", "EW24": "Jurong East", "EW13": "City Hall"}

func disruption() *services.TrainAlert {
	return &services.TrainAlert{
		Status: 2,
		AffectedSegments: []services.AffectedSegment{
			{Line: "NSL", Direction: "Both", Stations: "NS01,NS02,NS03"},
			{Line: "EWL", Direction: "Pasir Ris", Stations: "EW21,EW22,EW23,EW24"},
		},
		Message: []services.AlertMessage{
			{Content: "0805hrs : NSL - No train service between Jurong East and Bukit Gombak. 0820hrs : EWL - Additional travel time of 15 minutes between Buona Vista and Jurong East."},
		},
	}
}

func TestSummarize_GroupsByStatus(t *testing.T) {
	got := Summarize(disruption(), []string{"NS1", "NS2", "EW24", "EW13"}, names)
	assert.Equal(t,
		"0805hrs : NSL - No train service between Jurong East and Bukit Gombak. at these stations: NS1 Jurong East, NS2 Bukit Batok.\n"+
			"0820hrs : EWL - Additional travel time of 15 minutes between Buona Vista and Jurong East. at these stations: EW24 Jurong East.", got)
}

func TestSummarize_NormalService(t *testing.T) {
	assert.Equal(t, AllClear, Summarize(&services.TrainAlert{Status: 1}, []string{"NS1"}, names))
	assert.Equal(t, AllClear, Summarize(nil, []string{"NS1"}, names))
}

func TestSummarize_UnaffectedStations(t *testing.T) {
	assert.Equal(t, NoIssues, Summarize(disruption(), []string{"EW13", "CC1"}, names))
}

func TestStationStatus_ExactCodeMatch(t *testing.T) {
	alert := &services.TrainAlert{
		Status:           2,
		AffectedSegments: []services.AffectedSegment{{Line: "NSL", Stations: "NS10,NS11"}},
		Message:          []services.AlertMessage{{Content: "0900hrs : NSL - Delays."}},
	}
	_, affected := StationStatus(alert, "NS1")
	assert.False(t, affected)

	status, affected := StationStatus(alert, "NS10")
	assert.True(t, affected)
	assert.Equal(t, "0900hrs : NSL - Delays.", status)
}

func TestStationStatus_PairsMessagesWithSegments(t *testing.T) {
	alert := &services.TrainAlert{
		Status: 2,
		AffectedSegments: []services.AffectedSegment{
			{Line: "NSL", Stations: "NS1"},
			{Line: "CCL", Stations: "CC1"},
		},
		Message: []services.AlertMessage{
			{Content: "0700hrs : NSL - Signal fault."},
			{Content: "Free bus rides are available."},
		},
	}
	status, _ := StationStatus(alert, "CC1")
	assert.Equal(t, "Free bus rides are available.", status)

	status, _ = StationStatus(alert, "NS1")
	assert.Equal(t, "0700hrs : NSL - Signal fault.", status)
}

func TestStationStatus_NoMessage(t *testing.T) {
	alert := &services.TrainAlert{Status: 2, AffectedSegments: []services.AffectedSegment{{Line: "DTL", Stations: "DT1"}}}
	status, affected := StationStatus(alert, "DT1")
	assert.True(t, affected)
	assert.Equal(t, "Train service disruption on DTL", status)
}
