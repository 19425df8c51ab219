package services

import (
	"context"
	"net/http"
	"net/url"
)

// RealTimeCrowdResponse is the PCDRealTime payload.
type RealTimeCrowdResponse struct {
	Value []RealTimeCrowd `json:"value"`
}

type RealTimeCrowd struct {
	Station    string `json:"Station"`
	StartTime  string `json:"StartTime"`
	EndTime    string `json:"EndTime"`
	CrowdLevel string `json:"CrowdLevel"`
}

// ForecastCrowdResponse is the PCDForecast payload.
type ForecastCrowdResponse struct {
	Value []ForecastDay `json:"value"`
}

type ForecastDay struct {
	Date     string            `json:"Date"`
	Stations []ForecastStation `json:"Stations"`
}

type ForecastStation struct {
	Station  string             `json:"Station"`
	Interval []ForecastInterval `json:"Interval"`
}

type ForecastInterval struct {
	Start      string `json:"Start"`
	CrowdLevel string `json:"CrowdLevel"`
}

// TrainAlertResponse is the TrainServiceAlerts payload.
type TrainAlertResponse struct {
	Value TrainAlert `json:"value"`
}

// TrainAlert status 1 means normal service, 2 means disrupted.
type TrainAlert struct {
	Status           int               `json:"Status"`
	AffectedSegments []AffectedSegment `json:"AffectedSegments"`
	Message          []AlertMessage    `json:"Message"`
}

type AffectedSegment struct {
	Line                string `json:"Line"`
	Direction           string `json:"Direction"`
	Stations            string `json:"Stations"` // comma separated codes
	FreePublicBus       string `json:"FreePublicBus"`
	FreeMRTShuttle      string `json:"FreeMRTShuttle"`
	MRTShuttleDirection string `json:"MRTShuttleDirection"`
}

type AlertMessage struct {
	Content     string `json:"Content"`
	CreatedDate string `json:"CreatedDate"`
}

// LTAClient talks to LTA DataMall.
type LTAClient struct {
	c *jsonClient
}

func NewLTAClient(baseURL, accountKey string, hc *http.Client) *LTAClient {
	return &LTAClient{c: newJSONClient("lta", baseURL, hc, map[string]string{"AccountKey": accountKey})}
}

// RealTimeCrowd returns live platform crowd levels for a train line such as "EWL".
func (l *LTAClient) RealTimeCrowd(ctx context.Context, line string) (*RealTimeCrowdResponse, error) {
	var out RealTimeCrowdResponse
	if err := l.c.get(ctx, "/PCDRealTime", url.Values{"TrainLine": {line}}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ForecastCrowd returns 30-minute crowd forecasts for a train line.
func (l *LTAClient) ForecastCrowd(ctx context.Context, line string) (*ForecastCrowdResponse, error) {
	var out ForecastCrowdResponse
	if err := l.c.get(ctx, "/PCDForecast", url.Values{"TrainLine": {line}}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (l *LTAClient) TrainServiceAlerts(ctx context.Context) (*TrainAlert, error) {
	var out TrainAlertResponse
	if err := l.c.get(ctx, "/TrainServiceAlerts", nil, &out); err != nil {
		return nil, err
	}
	return &out.Value, nil
}
