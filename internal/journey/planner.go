package journey

import (
	"context"
	"errors"
	"fmt"
	"gpttransit/internal/parser"
	"gpttransit/internal/services"
	"gpttransit/pkg"
	"gpttransit/src/logger"
	"math"
	"strings"
	"time"
)

// ErrStationNotFound matches every StationNotFoundError.
var ErrStationNotFound = errors.New("station not found")

// StationNotFoundError carries the user-facing sentence for an unknown station.
type StationNotFoundError struct {
	Role string // Starting | Destination
	Name string
}

func (e *StationNotFoundError) Error() string {
	return fmt.Sprintf("%s station '%s' not found, do ensure that the spelling is correct.", e.Role, e.Name)
}

func (e *StationNotFoundError) Is(target error) bool {
	return target == ErrStationNotFound
}

// Router plans a public transport journey between two coordinates.
type Router interface {
	Route(ctx context.Context, from, to pkg.LatLng, at time.Time) (*services.RouteResponse, error)
}

// Directory resolves station names.
type Directory interface {
	Lookup(name string) (pkg.Station, bool)
}

// Result is a rendered journey plus the stations each route passes through.
type Result struct {
	Text        string
	Origin      pkg.Station
	Destination pkg.Station
	// Routes holds the station codes of each rendered route, in travel order.
	Routes [][]string
}

// Codes returns every station code mentioned in the rendered routes.
func (r *Result) Codes() []string {
	codes := parser.ExtractStationCodes(r.Text)
	if len(codes) == 0 {
		codes = appendUnique(codes, r.Origin.Code, r.Destination.Code)
	}
	return codes
}

// Endpoints returns the first and last station codes of the first route,
// falling back to the resolved stations when every itinerary is a walk.
func (r *Result) Endpoints() (origin, destination string) {
	origin, destination = r.Origin.Code, r.Destination.Code
	if len(r.Routes) > 0 && len(r.Routes[0]) > 0 {
		first := r.Routes[0]
		origin, destination = first[0], first[len(first)-1]
	}
	return origin, destination
}

// Planner turns "start,end" station names into route descriptions.
type Planner struct {
	router   Router
	stations Directory
	now      func() time.Time
}

func NewPlanner(router Router, stations Directory, now func() time.Time) *Planner {
	if now == nil {
		now = func() time.Time { return time.Now().In(parser.Singapore) }
	}
	return &Planner{router: router, stations: stations, now: now}
}

// Resolve looks up both ends of a "start_station,end_station" input.
func (p *Planner) Resolve(input string) (start, end pkg.Station, err error) {
	names := strings.Split(input, ",")
	if len(names) != 2 {
		return start, end, fmt.Errorf("expected 'start_station,end_station', got %q", input)
	}
	startKey := services.StationKey(names[0])
	endKey := services.StationKey(names[1])

	start, ok := p.stations.Lookup(startKey)
	if !ok {
		return start, end, &StationNotFoundError{Role: "Starting", Name: startKey}
	}
	end, ok = p.stations.Lookup(endKey)
	if !ok {
		return start, end, &StationNotFoundError{Role: "Destination", Name: endKey}
	}
	return start, end, nil
}

// Plan resolves both stations, asks the router for itineraries and renders them.
func (p *Planner) Plan(ctx context.Context, input string) (*Result, error) {
	start, end, err := p.Resolve(input)
	if err != nil {
		return nil, err
	}

	resp, err := p.router.Route(ctx,
		pkg.LatLng{Lat: start.Lat, Lng: start.Lng},
		pkg.LatLng{Lat: end.Lat, Lng: end.Lng},
		p.now(),
	)
	if err != nil {
		return nil, fmt.Errorf("route %s to %s: %w", start.Code, end.Code, err)
	}

	text, routes := Render(resp.Plan.Itineraries, start, end)
	logger.Debug().
		Str("origin", start.Code).
		Str("destination", end.Code).
		Int("itineraries", len(resp.Plan.Itineraries)).
		Msg("Journey planned")

	return &Result{Text: text, Origin: start, Destination: end, Routes: routes}, nil
}

const (
	metresPerStep = 0.75
	origin        = "Origin"
	destination   = "Destination"
	modeWalk      = "WALK"
	modeSubway    = "SUBWAY"
)

// Render describes each itinerary as one "Route k:" line. Itineraries that
// are a single walk from origin to destination are not counted as routes.
func Render(itineraries []pkg.Itinerary, start, end pkg.Station) (string, [][]string) {
	walkOnly := 0
	for _, it := range itineraries {
		for _, leg := range it.Legs {
			if leg.Mode == modeWalk && leg.From.Name == origin && leg.To.Name == destination {
				walkOnly++
			}
		}
	}

	var out strings.Builder
	fmt.Fprintf(&out, "There are %d possible travel route(s).\n", len(itineraries)-walkOnly)

	var routes [][]string
	for i, it := range itineraries {
		line, codes := renderItinerary(it, start, end)
		if line == "" {
			continue
		}
		fmt.Fprintf(&out, "Route %d: %s with an estimated duration of %.0f minutes and %s.\n",
			i+1, line, math.Round(it.Duration/60), fareText(it.Fare))
		routes = append(routes, codes)
	}
	return out.String(), routes
}

func fareText(f pkg.Fare) string {
	if f == "" {
		return "cost unknown"
	}
	return "cost $" + string(f)
}

func renderItinerary(it pkg.Itinerary, start, end pkg.Station) (string, []string) {
	legs := it.Legs
	if len(legs) == 0 {
		return "", nil
	}

	var b strings.Builder
	var codes []string

	first, last := legs[0], legs[len(legs)-1]
	walkedIn := false
	if first.Mode == modeWalk && first.From.Name == origin && first.To.Name != destination &&
		services.StationKey(stationName(first.To.Name)) != start.Name {
		fmt.Fprintf(&b, "Walk %s to %s %s", walkPhrase(first.Distance), first.To.StopCode, stationName(first.To.Name))
		walkedIn = true
	}

	prevStation := ""
	transfer := 0.0
	rides := 0
	for i, leg := range legs {
		inner := i > 0 && i < len(legs)-1
		switch {
		case inner && leg.Mode == modeWalk && leg.From.Name != leg.To.Name:
			fmt.Fprintf(&b, " then walk %s", walkPhrase(leg.Distance))
		case inner && leg.Mode == modeWalk:
			transfer = leg.Distance
		}
		if leg.Mode != modeSubway {
			continue
		}
		if inner && leg.From.Name == leg.To.Name {
			transfer = 0
		}

		from := stationName(leg.From.Name)
		switch {
		case rides == 0 && walkedIn:
			b.WriteString(" then take train from ")
		case rides == 0:
			b.WriteString("Take train from ")
		case from == prevStation && transfer != 0:
			fmt.Fprintf(&b, " then transit by walking %s to ", walkPhrase(transfer))
		case from == prevStation:
			b.WriteString(" then transit by crossing the platform (10 meters, 13 steps) to ")
		default:
			b.WriteString(" then take train from ")
		}
		prevStation = stationName(leg.To.Name)
		fmt.Fprintf(&b, "%s %s to %s %s", leg.From.StopCode, from, leg.To.StopCode, prevStation)
		codes = appendUnique(codes, leg.From.StopCode, leg.To.StopCode)
		transfer = 0
		rides++
	}

	if b.Len() == 0 {
		return "", nil
	}
	if last.Mode == modeWalk && last.To.Name == destination && last.From.Name != origin &&
		services.StationKey(stationName(last.From.Name)) != end.Name {
		fmt.Fprintf(&b, " then walk %s to %s %s", walkPhrase(last.Distance), end.Code, end.FullName)
		codes = appendUnique(codes, end.Code)
	}
	return b.String(), codes
}

func stationName(name string) string {
	return strings.ReplaceAll(name, " MRT STATION", "")
}

func walkPhrase(metres float64) string {
	return fmt.Sprintf("%.0f metres or %.0f steps", math.Round(metres), math.Round(metres/metresPerStep))
}

func appendUnique(codes []string, add ...string) []string {
	for _, c := range add {
		if c == "" {
			continue
		}
		dup := false
		for _, existing := range codes {
			if existing == c {
				dup = true
				break
			}
		}
		if !dup {
			codes = append(codes, c)
		}
	}
	return codes
}
