package naver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/naver-ai-trip/backend-trip-sub000/internal/config"
	"github.com/naver-ai-trip/backend-trip-sub000/internal/models"
	"github.com/naver-ai-trip/backend-trip-sub000/internal/provider"
	"github.com/naver-ai-trip/backend-trip-sub000/internal/ratelimit"
)

// routeOptionCodes maps the internal route option enum to the vendor codes
// of the Directions 5 API. Unknown options never reach the wire.
var routeOptionCodes = map[models.RouteOption]string{
	models.RouteFast:    "trafast",
	models.RouteComfort: "tracomfort",
	models.RouteOptimal: "traoptimal",
}

// MapsClient calls the NAVER Cloud Maps Directions API.
type MapsClient struct {
	c *client
}

// NewMapsClient creates a directions client.
func NewMapsClient(cfg config.ProviderConfig, limiter *ratelimit.Limiter) *MapsClient {
	return &MapsClient{c: newClient(cfg, limiter, ncpHeaders)}
}

// DirectionsRequest describes one routing query.
type DirectionsRequest struct {
	Start  models.Coordinate
	Goal   models.Coordinate
	Option models.RouteOption
}

// Directions computes a driving route. An option outside the closed enum
// fails closed before any network I/O.
func (m *MapsClient) Directions(ctx context.Context, req DirectionsRequest) (*models.Route, error) {
	code, ok := routeOptionCodes[req.Option]
	if !ok {
		return nil, fmt.Errorf("%w: route option %q", provider.ErrNoMatch, req.Option)
	}

	params := url.Values{}
	params.Set("start", fmt.Sprintf("%v,%v", req.Start.Longitude, req.Start.Latitude))
	params.Set("goal", fmt.Sprintf("%v,%v", req.Goal.Longitude, req.Goal.Latitude))
	params.Set("option", code)

	resp, err := m.c.get(ctx, "/map-direction/v1/driving", params)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, fmt.Errorf("directions returned %d", resp.StatusCode)
	}

	return normalizeDirections(resp.Body, req.Option, code)
}

type directionsResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Route   map[string][]struct {
		Summary struct {
			Distance  int   `json:"distance"`
			Duration  int64 `json:"duration"`
			TollFare  int   `json:"tollFare"`
			FuelPrice int   `json:"fuelPrice"`
		} `json:"summary"`
		Path [][]float64 `json:"path"`
	} `json:"route"`
}

// normalizeDirections maps the raw directions payload to a Route. Vendor
// code 0 is the only success; anything else (no route, bad waypoint) is a
// miss, not an outage.
func normalizeDirections(raw []byte, option models.RouteOption, vendorCode string) (*models.Route, error) {
	var parsed directionsResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", provider.ErrNoMatch, err)
	}
	if parsed.Code != 0 {
		return nil, fmt.Errorf("%w: vendor code %d (%s)", provider.ErrNoMatch, parsed.Code, parsed.Message)
	}

	routes := parsed.Route[vendorCode]
	if len(routes) == 0 {
		return nil, provider.ErrNoMatch
	}

	best := routes[0]
	route := &models.Route{
		Option:         option,
		DistanceMeters: best.Summary.Distance,
		DurationMillis: best.Summary.Duration,
		TollFare:       best.Summary.TollFare,
		FuelPrice:      best.Summary.FuelPrice,
	}
	for _, point := range best.Path {
		if len(point) < 2 {
			continue
		}
		route.Path = append(route.Path, models.Coordinate{
			Longitude: point[0],
			Latitude:  point[1],
		})
	}

	return route, nil
}
