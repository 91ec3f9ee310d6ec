// Package serpapi wraps the SerpAPI google_flights engine.
package serpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/naver-ai-trip/backend-trip-sub000/internal/config"
	"github.com/naver-ai-trip/backend-trip-sub000/internal/models"
	"github.com/naver-ai-trip/backend-trip-sub000/internal/provider"
	"github.com/naver-ai-trip/backend-trip-sub000/internal/ratelimit"
)

// Client calls the SerpAPI search endpoint. Unlike the NAVER vendors the
// key travels as a query parameter rather than a header.
type Client struct {
	cfg  config.ProviderConfig
	http *provider.HTTPClient
}

// NewClient creates a SerpAPI client.
func NewClient(cfg config.ProviderConfig, limiter *ratelimit.Limiter) *Client {
	return &Client{
		cfg:  cfg,
		http: provider.NewHTTPClient(cfg.Timeout, limiter),
	}
}

// FlightQuery describes one flight search. Airports use IATA codes and
// dates the vendor's YYYY-MM-DD format. An empty ReturnDate requests a
// one-way search.
type FlightQuery struct {
	Origin      string
	Destination string
	DepartDate  string
	ReturnDate  string
	Adults      int
}

// SearchFlights returns normalized flight offers ordered best-first, as
// the vendor ranks them.
func (c *Client) SearchFlights(ctx context.Context, q FlightQuery) ([]models.FlightOffer, error) {
	params := url.Values{}
	params.Set("engine", "google_flights")
	params.Set("departure_id", strings.ToUpper(q.Origin))
	params.Set("arrival_id", strings.ToUpper(q.Destination))
	params.Set("outbound_date", q.DepartDate)
	if q.ReturnDate != "" {
		params.Set("return_date", q.ReturnDate)
	} else {
		// type=2 is the vendor's one-way marker.
		params.Set("type", "2")
	}
	if q.Adults > 1 {
		params.Set("adults", fmt.Sprintf("%d", q.Adults))
	}
	params.Set("currency", "USD")
	params.Set("api_key", c.cfg.Key)

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/search.json?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, fmt.Errorf("serpapi returned %d", resp.StatusCode)
	}

	return normalizeFlights(resp.Body)
}

type flightsResponse struct {
	BestFlights  []flightEntry `json:"best_flights"`
	OtherFlights []flightEntry `json:"other_flights"`
}

type flightEntry struct {
	Flights []struct {
		DepartureAirport struct {
			ID   string `json:"id"`
			Time string `json:"time"`
		} `json:"departure_airport"`
		ArrivalAirport struct {
			ID   string `json:"id"`
			Time string `json:"time"`
		} `json:"arrival_airport"`
		Airline      string `json:"airline"`
		FlightNumber string `json:"flight_number"`
	} `json:"flights"`
	TotalDuration int     `json:"total_duration"`
	Price         float64 `json:"price"`
}

// normalizeFlights merges best_flights and other_flights, keeping the
// vendor's ordering (best first). No usable entries is ErrNoMatch.
func normalizeFlights(raw []byte) ([]models.FlightOffer, error) {
	var parsed flightsResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", provider.ErrNoMatch, err)
	}

	var offers []models.FlightOffer
	for _, entry := range append(parsed.BestFlights, parsed.OtherFlights...) {
		if len(entry.Flights) == 0 {
			continue
		}

		legs := make([]models.FlightLeg, 0, len(entry.Flights))
		for _, leg := range entry.Flights {
			legs = append(legs, models.FlightLeg{
				Origin:       leg.DepartureAirport.ID,
				Destination:  leg.ArrivalAirport.ID,
				DepartAt:     leg.DepartureAirport.Time,
				ArriveAt:     leg.ArrivalAirport.Time,
				Airline:      leg.Airline,
				FlightNumber: leg.FlightNumber,
			})
		}

		offers = append(offers, models.FlightOffer{
			Legs:            legs,
			Price:           entry.Price,
			Currency:        "USD",
			DurationMinutes: entry.TotalDuration,
		})
	}

	if len(offers) == 0 {
		return nil, provider.ErrNoMatch
	}
	return offers, nil
}
