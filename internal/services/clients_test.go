package services

import (
	"context"
	"errors"
	"gpttransit/pkg"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLTAClient_RealTimeCrowd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/PCDRealTime", r.URL.Path)
		assert.Equal(t, "EWL", r.URL.Query().Get("TrainLine"))
		assert.Equal(t, "secret", r.Header.Get("AccountKey"))
		w.Write([]byte(`{"value":[{"Station":"EW13","StartTime":"2024-03-01T08:00:00+08:00","EndTime":"2024-03-01T08:10:00+08:00","CrowdLevel":"h"}]}`))
	}))
	defer srv.Close()

	client := NewLTAClient(srv.URL, "secret", srv.Client())
	resp, err := client.RealTimeCrowd(context.Background(), "EWL")
	require.NoError(t, err)
	require.Len(t, resp.Value, 1)
	assert.Equal(t, "EW13", resp.Value[0].Station)
	assert.Equal(t, "h", resp.Value[0].CrowdLevel)
}

func TestLTAClient_Non200IsUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := NewLTAClient(srv.URL, "bad", srv.Client())
	_, err := client.TrainServiceAlerts(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUpstream))
	assert.Contains(t, err.Error(), "401")
}

func TestLTAClient_TrainServiceAlerts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"value":{"Status":2,"AffectedSegments":[{"Line":"NSL","Direction":"Both","Stations":"NS1,NS2,NS3","FreePublicBus":"NS1,NS2,NS3","FreeMRTShuttle":"","MRTShuttleDirection":""}],"Message":[{"Content":"0805hrs : NSL - No train service between Jurong East and Bukit Gombak.","CreatedDate":"2024-03-01 08:05:00"}]}}`))
	}))
	defer srv.Close()

	alert, err := NewLTAClient(srv.URL, "k", srv.Client()).TrainServiceAlerts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, alert.Status)
	require.Len(t, alert.AffectedSegments, 1)
	assert.Equal(t, "NS1,NS2,NS3", alert.AffectedSegments[0].Stations)
	require.Len(t, alert.Message, 1)
}

func TestOneMapClient_SearchCachesResults(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, "/common/elastic/search", r.URL.Path)
		assert.Equal(t, "Y", r.URL.Query().Get("returnGeom"))
		w.Write([]byte(`{"found":1,"results":[{"LATITUDE":"1.3331","LONGITUDE":"103.7420","ADDRESS":"JURONG EAST MRT STATION"}]}`))
	}))
	defer srv.Close()

	client := NewOneMapClient(OneMapOptions{BaseURL: srv.URL, HTTP: srv.Client(), CacheTTL: time.Minute})
	for i := 0; i < 2; i++ {
		loc, err := client.Search(context.Background(), "Jurong East")
		require.NoError(t, err)
		assert.InDelta(t, 1.3331, loc.Lat, 1e-9)
		assert.InDelta(t, 103.742, loc.Lng, 1e-9)
		assert.Equal(t, "JURONG EAST MRT STATION", loc.Address)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestOneMapClient_SearchNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"found":0,"totalNumPages":0,"pageNum":1,"results":[]}`))
	}))
	defer srv.Close()

	_, err := NewOneMapClient(OneMapOptions{BaseURL: srv.URL, HTTP: srv.Client()}).Search(context.Background(), "nowhere")
	assert.True(t, IsNotFound(err))
}

func TestOneMapClient_Route(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "/public/routingsvc/route", r.URL.Path)
		assert.Equal(t, "token", r.Header.Get("Authorization"))
		assert.Equal(t, "1.3331,103.742", q.Get("start"))
		assert.Equal(t, "pt", q.Get("routeType"))
		assert.Equal(t, "03-01-2024", q.Get("date"))
		assert.Equal(t, "08:15:00", q.Get("time"))
		assert.Equal(t, "RAIL", q.Get("mode"))
		assert.Equal(t, "100", q.Get("maxWalkDistance"))
		assert.Equal(t, "3", q.Get("numItineraries"))
		w.Write([]byte(`{"plan":{"itineraries":[
			{"duration":1800,"fare":"1.92","legs":[{"mode":"SUBWAY","distance":5000,"from":{"name":"JURONG EAST MRT STATION","stopCode":"EW24"},"to":{"name":"CLEMENTI MRT STATION","stopCode":"EW23"}}]},
			{"duration":2400,"fare":2.1,"legs":[]}
		]}}`))
	}))
	defer srv.Close()

	client := NewOneMapClient(OneMapOptions{
		BaseURL: srv.URL,
		Token:   "token",
		HTTP:    srv.Client(),
		Routing: RoutingOptions{Mode: "RAIL", MaxWalkDistance: 100, NumItineraries: 3},
	})
	at := time.Date(2024, 3, 1, 8, 15, 42, 0, time.UTC)
	resp, err := client.Route(context.Background(), pkg.LatLng{Lat: 1.3331, Lng: 103.742}, pkg.LatLng{Lat: 1.315, Lng: 103.765}, at)
	require.NoError(t, err)
	require.Len(t, resp.Plan.Itineraries, 2)
	assert.Equal(t, pkg.Fare("1.92"), resp.Plan.Itineraries[0].Fare)
	assert.Equal(t, pkg.Fare("2.1"), resp.Plan.Itineraries[1].Fare)
	assert.Equal(t, "EW24", resp.Plan.Itineraries[0].Legs[0].From.StopCode)
}

func TestWeatherClient(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/2-hour-weather-forecast", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"items":[{"forecasts":[{"area":"Ang Mo Kio","forecast":"Cloudy"},{"area":"Bedok","forecast":"Light Rain"}]}]}`))
	})
	mux.HandleFunc("/24-hour-weather-forecast", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"items":[{"general":{"forecast":"Thundery Showers"}}]}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := NewWeatherClient(srv.URL, srv.Client())
	two, err := client.TwoHour(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Cloudy", "Light Rain"}, two)

	day, err := client.TwentyFourHour(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Thundery Showers", day)
}

func TestWeatherClient_EmptyItems(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"items":[]}`))
	}))
	defer srv.Close()

	_, err := NewWeatherClient(srv.URL, srv.Client()).TwoHour(context.Background())
	assert.Error(t, err)
}
