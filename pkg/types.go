package pkg

import (
	"strings"
	"time"

	"github.com/bytedance/sonic"
)

// Transit domain types shared by the clients, reshapers and agent tools.

// Station is one row of the MRT/LRT station directory.
type Station struct {
	Code     string  `json:"code"`      // e.g. NS1, EW24
	Name     string  `json:"name"`      // upper-cased, space-stripped lookup key
	FullName string  `json:"full_name"` // display name
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
}

// Label renders the station the way every summary refers to it.
func (s Station) Label() string {
	return s.Code + " " + s.FullName
}

// LatLng is a WGS84 coordinate pair.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// CrowdLevel is the LTA platform crowd density code.
type CrowdLevel string

const (
	CrowdLow      CrowdLevel = "l"
	CrowdModerate CrowdLevel = "m"
	CrowdHigh     CrowdLevel = "h"
)

// ParseCrowdLevel accepts the short codes as well as the full labels.
func ParseCrowdLevel(s string) (CrowdLevel, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "l", "low":
		return CrowdLow, true
	case "m", "moderate":
		return CrowdModerate, true
	case "h", "high":
		return CrowdHigh, true
	}
	return "", false
}

// Label returns LOW, MODERATE or HIGH. Unknown codes are upper-cased as is.
func (c CrowdLevel) Label() string {
	switch c {
	case CrowdLow:
		return "LOW"
	case CrowdModerate:
		return "MODERATE"
	case CrowdHigh:
		return "HIGH"
	}
	return strings.ToUpper(string(c))
}

// Rank orders levels low to high; unknown levels sort last.
func (c CrowdLevel) Rank() int {
	switch c {
	case CrowdLow:
		return 0
	case CrowdModerate:
		return 1
	case CrowdHigh:
		return 2
	}
	return 3
}

// DayType is the LTA passenger volume bucket.
type DayType string

const (
	Weekday        DayType = "WEEKDAY"
	WeekendHoliday DayType = "WEEKENDS/HOLIDAY"
)

// DayTypeOf buckets a date into WEEKDAY or WEEKENDS/HOLIDAY.
func DayTypeOf(t time.Time) DayType {
	switch t.Weekday() {
	case time.Saturday, time.Sunday:
		return WeekendHoliday
	}
	return Weekday
}

// Fare is the itinerary fare as returned by the routing API, which sends
// either a quoted string or a bare number.
type Fare string

func (f *Fare) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(b))
	if raw == "null" || raw == "" {
		*f = ""
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := sonic.UnmarshalString(raw, &s); err != nil {
			return err
		}
		*f = Fare(s)
		return nil
	}
	*f = Fare(raw)
	return nil
}

// Place is a leg endpoint in a routing itinerary.
type Place struct {
	Name     string  `json:"name"`
	StopCode string  `json:"stopCode"`
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
}

// Leg is one walking or riding segment of an itinerary.
type Leg struct {
	Mode     string  `json:"mode"` // WALK, SUBWAY, BUS, ...
	Distance float64 `json:"distance"`
	Duration float64 `json:"duration"`
	From     Place   `json:"from"`
	To       Place   `json:"to"`
}

// Itinerary is one candidate route; Duration is in seconds.
type Itinerary struct {
	Duration float64 `json:"duration"`
	Fare     Fare    `json:"fare"`
	Legs     []Leg   `json:"legs"`
}

// TaxiStand is a taxi stand location; Distance is filled in metres by
// nearest-neighbour queries.
type TaxiStand struct {
	Name     string  `json:"name"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	Distance float64 `json:"distance,omitempty"`
}

// VolumeRecord is one hourly tap-in/tap-out count for a station.
type VolumeRecord struct {
	DayType DayType `json:"day_type"`
	Hour    int     `json:"hour"`
	Code    string  `json:"code"`
	TapIn   int     `json:"tap_in"`
	TapOut  int     `json:"tap_out"`
}

// Total is the combined tap-in and tap-out volume.
func (v VolumeRecord) Total() int {
	return v.TapIn + v.TapOut
}

// ODRecord is one hourly origin-destination trip count.
type ODRecord struct {
	DayType     DayType `json:"day_type"`
	Hour        int     `json:"hour"`
	Origin      string  `json:"origin"`
	Destination string  `json:"destination"`
	Trips       int     `json:"trips"`
}

// ConversationMessage represents a message in conversation history
type ConversationMessage struct {
	Role      string    `json:"role"` // user, assistant, system
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// Feedback is a like/dislike on one assistant reply.
type Feedback struct {
	SessionID string `json:"session_id" validate:"required"`
	Index     int    `json:"index" validate:"gte=0"`
	Liked     bool   `json:"liked"`
	Content   string `json:"content"`
}

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	SessionID string `json:"session_id,omitempty"`
	Message   string `json:"message" validate:"required"`
}

// ChatResponse is returned from POST /chat.
type ChatResponse struct {
	SessionID string `json:"session_id"`
	Reply     string `json:"reply"`
}
