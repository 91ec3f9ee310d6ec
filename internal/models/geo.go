package models

// Place is a normalized geocoding result.
type Place struct {
	Title       string  `json:"title"`
	Category    string  `json:"category,omitempty"`
	Address     string  `json:"address,omitempty"`
	RoadAddress string  `json:"roadAddress,omitempty"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
}

// RouteOption is the closed set of supported routing preferences.
type RouteOption string

const (
	RouteFast    RouteOption = "fast"
	RouteComfort RouteOption = "comfort"
	RouteOptimal RouteOption = "optimal"
)

// ParseRouteOption maps a string to a RouteOption, failing closed on
// unknown values.
func ParseRouteOption(s string) (RouteOption, bool) {
	switch RouteOption(s) {
	case RouteFast, RouteComfort, RouteOptimal:
		return RouteOption(s), true
	}
	return "", false
}

// Coordinate is a WGS84 point in decimal degrees.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Route is a normalized driving route summary.
type Route struct {
	Option         RouteOption  `json:"option"`
	DistanceMeters int          `json:"distanceMeters"`
	DurationMillis int64        `json:"durationMillis"`
	TollFare       int          `json:"tollFare,omitempty"`
	FuelPrice      int          `json:"fuelPrice,omitempty"`
	Path           []Coordinate `json:"path,omitempty"`
}
