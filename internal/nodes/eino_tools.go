package nodes

import (
	"context"
	"errors"
	"fmt"
	"gpttransit/internal/alerts"
	"gpttransit/internal/crowd"
	"gpttransit/internal/geo"
	"gpttransit/internal/journey"
	"gpttransit/internal/parser"
	"gpttransit/internal/services"
	"gpttransit/internal/weather"
	"gpttransit/pkg"
	"gpttransit/src/logger"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/components/tool/utils"
	"golang.org/x/sync/errgroup"
)

const (
	msgAPIFailed     = "The API request failed, please try again later."
	msgPlaceNotFound = "No results were found. Ensure that the input is a valid location, postal code, address or road name."
	nearestStands    = 3
)

// Geocoder resolves free-text places.
type Geocoder interface {
	Search(ctx context.Context, query string) (*services.Location, error)
}

// CrowdFeed is the LTA DataMall surface the tools read.
type CrowdFeed interface {
	RealTimeCrowd(ctx context.Context, line string) (*services.RealTimeCrowdResponse, error)
	ForecastCrowd(ctx context.Context, line string) (*services.ForecastCrowdResponse, error)
	TrainServiceAlerts(ctx context.Context) (*services.TrainAlert, error)
}

// StationIndex resolves station names and renders station codes.
type StationIndex interface {
	CodesFor(name string) []string
	Label(code string) string
}

// JourneyPlanner plans "start,end" journeys.
type JourneyPlanner interface {
	Plan(ctx context.Context, input string) (*journey.Result, error)
}

// Toolset holds the dependencies shared by the agent tools.
type Toolset struct {
	Planner    JourneyPlanner
	Stations   StationIndex
	Geocoder   Geocoder
	LTA        CrowdFeed
	Weather    weather.Source
	TaxiStands []pkg.TaxiStand
	Volumes    []pkg.VolumeRecord
	Trips      []pkg.ODRecord
	Passenger  crowd.Thresholds
	TripLevels crowd.Thresholds
	Now        func() time.Time
}

// Tool inputs. Descriptions avoid commas because the schema tag is comma separated.

type RouteInput struct {
	Stations string `json:"stations" jsonschema:"description=Start and end MRT station names separated by a comma character with the start station first,required"`
}

type LocationInput struct {
	Location string `json:"location" jsonschema:"description=Location or postal code or address or road name,required"`
}

type StationQueryInput struct {
	Query string `json:"query" jsonschema:"description=Either 'station_name' or 'start_station' comma 'end_station'; optionally followed by ';DD-MM-YYYY' comma 'HH:MM',required"`
}

type WeatherInput struct {
	Area string `json:"area,omitempty" jsonschema:"description=Optional area name; the forecast covers the whole island"`
}

type CalculatorInput struct {
	Expression string `json:"expression" jsonschema:"description=Arithmetic expression such as (12.5 + 3) * 2 / 4. The functions sqrt abs round floor ceil and pow are available,required"`
}

func (t *Toolset) now() time.Time {
	if t.Now != nil {
		return t.Now()
	}
	return time.Now().In(parser.Singapore)
}

// RouteTool plans MRT journeys between two stations.
func (t *Toolset) RouteTool() (tool.InvokableTool, error) {
	return utils.InferTool("get_public_transport_route",
		"Get the journey time, cost and list of train stations from one MRT train station to another MRT train station. Also find walking routes and number of steps between MRT train stations.",
		func(ctx context.Context, in *RouteInput) (string, error) {
			logger.Debug().Str("tool", "get_public_transport_route").Str("input", in.Stations).Msg("Tool invoked")
			res, err := t.Planner.Plan(ctx, in.Stations)
			if err != nil {
				return planFailure(err), nil
			}
			return res.Text, nil
		})
}

// GPSTool geocodes a place.
func (t *Toolset) GPSTool() (tool.InvokableTool, error) {
	return utils.InferTool("get_gps",
		"Get the latitude and longitude coordinates for a location.",
		func(ctx context.Context, in *LocationInput) (string, error) {
			loc, err := t.Geocoder.Search(ctx, in.Location)
			if err != nil {
				return geocodeFailure(err, ""), nil
			}
			return fmt.Sprintf("Latitude: %v\nLongitude: %v\nAddress: %s", loc.Lat, loc.Lng, loc.Address), nil
		})
}

// WeatherTool reports the 2-hour and 24-hour forecasts.
func (t *Toolset) WeatherTool() (tool.InvokableTool, error) {
	return utils.InferTool("get_weather_forecast",
		"Get the weather forecast for the next 2 and 24 hours.",
		func(ctx context.Context, _ *WeatherInput) (string, error) {
			return weather.Summary(ctx, t.Weather), nil
		})
}

// TrainAlertTool reports disruptions affecting the selected stations.
func (t *Toolset) TrainAlertTool() (tool.InvokableTool, error) {
	return utils.InferTool("check_train_alert",
		"Check for any disruptions or unavailability of train services.",
		func(ctx context.Context, in *StationQueryInput) (string, error) {
			text, _ := parser.SplitTimePrompt(in.Query)
			sel, msg := t.selectStations(ctx, text)
			if sel == nil {
				return msg, nil
			}
			alert, err := t.LTA.TrainServiceAlerts(ctx)
			if err != nil {
				logger.Warn().Err(err).Msg("Train service alerts unavailable")
				return "Error: Failed to fetch train service alerts. Please try again later.", nil
			}
			return alerts.Summarize(alert, sel.codes, t.Stations), nil
		})
}

// TaxiStandTool finds the nearest taxi stands to a place.
func (t *Toolset) TaxiStandTool() (tool.InvokableTool, error) {
	return utils.InferTool("check_nearest_taxi_stands",
		"Find the location of and distance to the nearest taxi stands.",
		func(ctx context.Context, in *LocationInput) (string, error) {
			loc, err := t.Geocoder.Search(ctx, in.Location)
			if err != nil {
				return geocodeFailure(err, "Error: "), nil
			}
			stands := geo.NearestTaxiStands(pkg.LatLng{Lat: loc.Lat, Lng: loc.Lng}, t.TaxiStands, nearestStands)
			if len(stands) == 0 {
				return "Error: No taxi stand data is loaded.", nil
			}
			return fmt.Sprintf("Nearest taxi stands at %s are : %s", in.Location, geo.SummarizeTaxiStands(stands)), nil
		})
}

// AttractionTool links to food and sights around a place.
func (t *Toolset) AttractionTool() (tool.InvokableTool, error) {
	return utils.InferTool("check_nearest_attractions",
		"Get recommendations for nearby restaurants or attractions.",
		func(ctx context.Context, in *LocationInput) (string, error) {
			loc, err := t.Geocoder.Search(ctx, in.Location)
			if err != nil {
				return geocodeFailure(err, ""), nil
			}
			return geo.AttractionLinks(pkg.LatLng{Lat: loc.Lat, Lng: loc.Lng}, loc.Address), nil
		})
}

// RealtimeCrowdTool reports live platform crowding.
func (t *Toolset) RealtimeCrowdTool() (tool.InvokableTool, error) {
	return utils.InferTool("check_realtime_crowd",
		"Find the real time and current MRT train platform crowdedness level.",
		func(ctx context.Context, in *StationQueryInput) (string, error) {
			text, _ := parser.SplitTimePrompt(in.Query)
			sel, msg := t.selectStations(ctx, text)
			if sel == nil {
				return msg, nil
			}
			readings, err := t.fetchRealTime(ctx, parser.Lines(sel.codes))
			if err != nil {
				logger.Warn().Err(err).Msg("Real-time crowd unavailable")
				return "Error: Failed to fetch real-time crowd data. Please try again later.", nil
			}
			return crowd.RealTime(readings, sel.codes, t.Stations), nil
		})
}

// ForecastCrowdTool reports forecast platform crowding around a time.
func (t *Toolset) ForecastCrowdTool() (tool.InvokableTool, error) {
	return utils.InferTool("check_forecast_crowd",
		"Find the forecasted or predicted future MRT train platform crowdedness level for today or the next few days.",
		func(ctx context.Context, in *StationQueryInput) (string, error) {
			text, dateTime := parser.SplitTimePrompt(in.Query)
			w, err := parser.ParseDateTime(dateTime, t.now())
			if err != nil {
				return "Error: " + err.Error(), nil
			}
			sel, msg := t.selectStations(ctx, text)
			if sel == nil {
				return msg, nil
			}
			slots, err := t.fetchForecast(ctx, parser.Lines(sel.codes))
			if err != nil {
				logger.Warn().Err(err).Msg("Crowd forecast unavailable")
				return "Error: Failed to fetch forecast crowd data. Please try again later.", nil
			}
			slots = crowd.OnDate(slots, w.At)
			timings := crowd.ForecastTimings(slots, sel.codes, w, t.Stations)
			if !w.Explicit {
				return timings, nil
			}
			return crowd.ForecastAt(slots, sel.codes, w, t.Stations) + "\n" + timings, nil
		})
}

// ForecastVolumeTool buckets historical passenger volumes around a time.
func (t *Toolset) ForecastVolumeTool() (tool.InvokableTool, error) {
	return utils.InferTool("check_forecast_volume",
		"Find the forecasted passenger volume at the origin and destination MRT stations from historical tap in and tap out counts.",
		func(ctx context.Context, in *StationQueryInput) (string, error) {
			text, dateTime := parser.SplitTimePrompt(in.Query)
			w, err := parser.ParseDateTime(dateTime, t.now())
			if err != nil {
				return "Error: " + err.Error(), nil
			}
			sel, msg := t.selectStations(ctx, text)
			if sel == nil {
				return msg, nil
			}
			codes := []string{sel.origin}
			if sel.destination != sel.origin {
				codes = append(codes, sel.destination)
			}
			return parser.WeekdayNote(w) + crowd.VolumeForecast(t.Volumes, codes, w, t.Passenger, t.Stations), nil
		})
}

// StationVolumeTool buckets the passenger volume for one hour.
func (t *Toolset) StationVolumeTool() (tool.InvokableTool, error) {
	return utils.InferTool("check_station_volume",
		"Find how busy MRT stations usually are at a specific date and hour from historical passenger volume.",
		func(ctx context.Context, in *StationQueryInput) (string, error) {
			text, dateTime := parser.SplitTimePrompt(in.Query)
			w, err := parser.ParseDateTime(dateTime, t.now())
			if err != nil {
				return "Error: " + err.Error(), nil
			}
			sel, msg := t.selectStations(ctx, text)
			if sel == nil {
				return msg, nil
			}
			return parser.WeekdayNote(w) + crowd.VolumeAt(t.Volumes, sel.codes, w, t.Passenger, t.Stations), nil
		})
}

// TripVolumeTool buckets the trips between two stations for one hour.
func (t *Toolset) TripVolumeTool() (tool.InvokableTool, error) {
	return utils.InferTool("check_trip_volume",
		"Find how many commuters usually travel from one MRT station to another at a specific date and hour.",
		func(ctx context.Context, in *StationQueryInput) (string, error) {
			text, dateTime := parser.SplitTimePrompt(in.Query)
			w, err := parser.ParseDateTime(dateTime, t.now())
			if err != nil {
				return "Error: " + err.Error(), nil
			}
			sel, msg := t.selectStations(ctx, text)
			if sel == nil {
				return msg, nil
			}
			if sel.origin == sel.destination {
				return "Error: Provide both a start station and an end station.", nil
			}
			return crowd.TripVolume(t.Trips, sel.origin, sel.destination, w, t.TripLevels, t.Stations), nil
		})
}

// CalculatorTool evaluates arithmetic for fares and durations.
func (t *Toolset) CalculatorTool() (tool.InvokableTool, error) {
	return utils.InferTool("calculator",
		"Useful for when you need to answer questions about math such as adding fares or travel times.",
		func(_ context.Context, in *CalculatorInput) (string, error) {
			v, err := Evaluate(in.Expression)
			if errors.Is(err, errDivideByZero) {
				return "Error: Division by zero is not allowed.", nil
			}
			if err != nil {
				return "Error: " + err.Error(), nil
			}
			return fmt.Sprintf("The result is %g.", v), nil
		})
}

// GetTools returns all available tools as BaseTool instances. The trip volume
// tool is only offered when origin-destination data is loaded.
func (t *Toolset) GetTools() ([]tool.BaseTool, error) {
	builders := []func() (tool.InvokableTool, error){
		t.RouteTool,
		t.GPSTool,
		t.WeatherTool,
		t.TrainAlertTool,
		t.TaxiStandTool,
		t.AttractionTool,
		t.RealtimeCrowdTool,
		t.ForecastCrowdTool,
		t.ForecastVolumeTool,
		t.StationVolumeTool,
	}
	if len(t.Trips) > 0 {
		builders = append(builders, t.TripVolumeTool)
	}
	builders = append(builders, t.CalculatorTool)

	tools := make([]tool.BaseTool, 0, len(builders))
	for _, build := range builders {
		tl, err := build()
		if err != nil {
			return nil, fmt.Errorf("build tool: %w", err)
		}
		tools = append(tools, tl)
	}
	return tools, nil
}

type selection struct {
	codes       []string
	origin      string
	destination string
}

// selectStations resolves "station" or "start,end". On failure it returns
// nil and the sentence to hand back to the agent.
func (t *Toolset) selectStations(ctx context.Context, text string) (*selection, string) {
	names, err := parser.SplitStations(text)
	if err != nil {
		return nil, "Error: " + err.Error()
	}

	if len(names) == 1 {
		codes := t.Stations.CodesFor(names[0])
		if len(codes) == 0 {
			return nil, fmt.Sprintf("Station '%s' not found, do ensure that the spelling is correct.", services.StationKey(names[0]))
		}
		return &selection{codes: codes, origin: codes[0], destination: codes[0]}, ""
	}

	res, err := t.Planner.Plan(ctx, strings.Join(names, ","))
	if err != nil {
		return nil, planFailure(err)
	}
	origin, destination := res.Endpoints()
	return &selection{codes: res.Codes(), origin: origin, destination: destination}, ""
}

func (t *Toolset) fetchRealTime(ctx context.Context, lines []string) ([]crowd.Reading, error) {
	g, gctx := errgroup.WithContext(ctx)
	resps := make([]*services.RealTimeCrowdResponse, len(lines))
	for i, line := range lines {
		g.Go(func() error {
			r, err := t.LTA.RealTimeCrowd(gctx, line)
			if err != nil {
				return fmt.Errorf("real-time crowd %s: %w", line, err)
			}
			resps[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return crowd.Readings(resps...), nil
}

func (t *Toolset) fetchForecast(ctx context.Context, lines []string) ([]crowd.Slot, error) {
	g, gctx := errgroup.WithContext(ctx)
	resps := make([]*services.ForecastCrowdResponse, len(lines))
	for i, line := range lines {
		g.Go(func() error {
			r, err := t.LTA.ForecastCrowd(gctx, line)
			if err != nil {
				return fmt.Errorf("crowd forecast %s: %w", line, err)
			}
			resps[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return crowd.Slots(resps...)
}

func planFailure(err error) string {
	if errors.Is(err, journey.ErrStationNotFound) {
		return err.Error()
	}
	logger.Warn().Err(err).Msg("Journey planning failed")
	if errors.Is(err, services.ErrUpstream) {
		return msgAPIFailed
	}
	return "Error: " + err.Error()
}

func geocodeFailure(err error, prefix string) string {
	if services.IsNotFound(err) {
		return prefix + msgPlaceNotFound
	}
	logger.Warn().Err(err).Msg("Geocoding failed")
	return msgAPIFailed
}
