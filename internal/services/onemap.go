package services

import (
	"context"
	"errors"
	"fmt"
	"gpttransit/pkg"
	"gpttransit/src/logger"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/bluele/gcache"
)

// Location is a geocoded place.
type Location struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Address string  `json:"address"`
}

type searchResponse struct {
	Found   int            `json:"found"`
	Results []searchResult `json:"results"`
}

type searchResult struct {
	Latitude  string `json:"LATITUDE"`
	Longitude string `json:"LONGITUDE"`
	Address   string `json:"ADDRESS"`
}

// RouteResponse is the part of the routing payload the planner reads.
type RouteResponse struct {
	Plan struct {
		Itineraries []pkg.Itinerary `json:"itineraries"`
	} `json:"plan"`
}

// RoutingOptions are the fixed query parameters sent with every route request.
type RoutingOptions struct {
	Mode            string
	MaxWalkDistance int
	NumItineraries  int
}

// OneMapOptions configures NewOneMapClient.
type OneMapOptions struct {
	BaseURL   string
	Token     string
	Routing   RoutingOptions
	CacheSize int
	CacheTTL  time.Duration
	HTTP      *http.Client
}

// OneMapClient geocodes places and plans public transport routes.
type OneMapClient struct {
	c       *jsonClient
	routing RoutingOptions
	cache   gcache.Cache
}

func NewOneMapClient(opts OneMapOptions) *OneMapClient {
	size := opts.CacheSize
	if size <= 0 {
		size = 256
	}
	builder := gcache.New(size).LRU()
	if opts.CacheTTL > 0 {
		builder = builder.Expiration(opts.CacheTTL)
	}
	return &OneMapClient{
		c:       newJSONClient("onemap", opts.BaseURL, opts.HTTP, map[string]string{"Authorization": opts.Token}),
		routing: opts.Routing,
		cache:   builder.Build(),
	}
}

// Search geocodes a free-text location, postal code, address or road name.
// It returns ErrNotFound when the search matched nothing.
func (o *OneMapClient) Search(ctx context.Context, query string) (*Location, error) {
	key := strings.ToLower(strings.TrimSpace(query))
	if key == "" {
		return nil, ErrNotFound
	}
	if v, err := o.cache.Get(key); err == nil {
		loc := v.(Location)
		return &loc, nil
	}

	q := url.Values{
		"searchVal":      {query},
		"returnGeom":     {"Y"},
		"getAddrDetails": {"Y"},
		"pageNum":        {"1"},
	}
	var out searchResponse
	if err := o.c.get(ctx, "/common/elastic/search", q, &out); err != nil {
		return nil, err
	}
	if out.Found == 0 || len(out.Results) == 0 {
		return nil, ErrNotFound
	}

	first := out.Results[0]
	lat, err := strconv.ParseFloat(first.Latitude, 64)
	if err != nil {
		return nil, fmt.Errorf("parse latitude %q: %w", first.Latitude, err)
	}
	lng, err := strconv.ParseFloat(first.Longitude, 64)
	if err != nil {
		return nil, fmt.Errorf("parse longitude %q: %w", first.Longitude, err)
	}

	loc := Location{Lat: lat, Lng: lng, Address: first.Address}
	if err := o.cache.Set(key, loc); err != nil {
		logger.Warn().Err(err).Str("query", query).Msg("Failed to cache geocode result")
	}
	return &loc, nil
}

// Route plans a public transport journey departing at the given time.
func (o *OneMapClient) Route(ctx context.Context, from, to pkg.LatLng, at time.Time) (*RouteResponse, error) {
	q := url.Values{
		"start":           {formatCoord(from)},
		"end":             {formatCoord(to)},
		"routeType":       {"pt"},
		"date":            {at.Format("01-02-2006")},
		"time":            {at.Format("15:04") + ":00"},
		"mode":            {o.routing.Mode},
		"maxWalkDistance": {strconv.Itoa(o.routing.MaxWalkDistance)},
		"numItineraries":  {strconv.Itoa(o.routing.NumItineraries)},
	}
	var out RouteResponse
	if err := o.c.get(ctx, "/public/routingsvc/route", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func formatCoord(p pkg.LatLng) string {
	return strconv.FormatFloat(p.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(p.Lng, 'f', -1, 64)
}

// IsNotFound reports whether err means the geocoder found nothing.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
