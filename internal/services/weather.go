package services

import (
	"context"
	"errors"
	"net/http"
)

type twoHourResponse struct {
	Items []struct {
		Forecasts []struct {
			Area     string `json:"area"`
			Forecast string `json:"forecast"`
		} `json:"forecasts"`
	} `json:"items"`
}

type twentyFourHourResponse struct {
	Items []struct {
		General struct {
			Forecast string `json:"forecast"`
		} `json:"general"`
	} `json:"items"`
}

// WeatherClient reads the data.gov.sg environment forecasts.
type WeatherClient struct {
	c *jsonClient
}

func NewWeatherClient(baseURL string, hc *http.Client) *WeatherClient {
	return &WeatherClient{c: newJSONClient("weather", baseURL, hc, nil)}
}

// TwoHour returns every area's 2-hour nowcast from the latest item.
func (w *WeatherClient) TwoHour(ctx context.Context) ([]string, error) {
	var out twoHourResponse
	if err := w.c.get(ctx, "/2-hour-weather-forecast", nil, &out); err != nil {
		return nil, err
	}
	if len(out.Items) == 0 || len(out.Items[0].Forecasts) == 0 {
		return nil, errors.New("2-hour forecast has no entries")
	}
	forecasts := make([]string, 0, len(out.Items[0].Forecasts))
	for _, f := range out.Items[0].Forecasts {
		forecasts = append(forecasts, f.Forecast)
	}
	return forecasts, nil
}

// TwentyFourHour returns the nationwide general forecast.
func (w *WeatherClient) TwentyFourHour(ctx context.Context) (string, error) {
	var out twentyFourHourResponse
	if err := w.c.get(ctx, "/24-hour-weather-forecast", nil, &out); err != nil {
		return "", err
	}
	if len(out.Items) == 0 || out.Items[0].General.Forecast == "" {
		return "", errors.New("24-hour forecast has no entries")
	}
	return out.Items[0].General.Forecast, nil
}
