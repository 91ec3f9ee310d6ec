package naver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/unicode/norm"

	"github.com/naver-ai-trip/backend-trip-sub000/internal/config"
	"github.com/naver-ai-trip/backend-trip-sub000/internal/models"
	"github.com/naver-ai-trip/backend-trip-sub000/internal/provider"
	"github.com/naver-ai-trip/backend-trip-sub000/internal/ratelimit"
)

// coordScale is the fixed-point factor NAVER local search applies to WGS84
// coordinates: mapx/mapy are decimal degrees multiplied by 10^7 and encoded
// as integer strings.
const coordScale = 1e7

// SearchClient geocodes free-text queries through the NAVER OpenAPI local
// search endpoint.
type SearchClient struct {
	c *client
}

// NewSearchClient creates a local-search client.
func NewSearchClient(cfg config.ProviderConfig, limiter *ratelimit.Limiter) *SearchClient {
	return &SearchClient{c: newClient(cfg, limiter, openAPIHeaders)}
}

// Geocode resolves a place query to the best-matching place. Korean input
// is NFC-normalized before it goes on the wire.
func (s *SearchClient) Geocode(ctx context.Context, query string) (*models.Place, error) {
	params := url.Values{}
	params.Set("query", norm.NFC.String(strings.TrimSpace(query)))
	params.Set("display", "5")

	resp, err := s.c.get(ctx, "/v1/search/local.json", params)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, fmt.Errorf("local search returned %d", resp.StatusCode)
	}

	return normalizeLocalSearch(resp.Body)
}

type localSearchResponse struct {
	Total int `json:"total"`
	Items []struct {
		Title       string `json:"title"`
		Category    string `json:"category"`
		Address     string `json:"address"`
		RoadAddress string `json:"roadAddress"`
		MapX        string `json:"mapx"`
		MapY        string `json:"mapy"`
	} `json:"items"`
}

// normalizeLocalSearch maps the raw local-search payload to a Place. It is
// a pure function; malformed or empty payloads yield provider.ErrNoMatch.
func normalizeLocalSearch(raw []byte) (*models.Place, error) {
	var parsed localSearchResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", provider.ErrNoMatch, err)
	}
	if len(parsed.Items) == 0 {
		return nil, provider.ErrNoMatch
	}

	item := parsed.Items[0]
	lng, err := parseScaledCoord(item.MapX)
	if err != nil {
		return nil, fmt.Errorf("%w: mapx %q", provider.ErrNoMatch, item.MapX)
	}
	lat, err := parseScaledCoord(item.MapY)
	if err != nil {
		return nil, fmt.Errorf("%w: mapy %q", provider.ErrNoMatch, item.MapY)
	}

	return &models.Place{
		Title:       stripMarkup(item.Title),
		Category:    item.Category,
		Address:     item.Address,
		RoadAddress: item.RoadAddress,
		Latitude:    lat,
		Longitude:   lng,
	}, nil
}

// parseScaledCoord converts a ×10^7 fixed-point coordinate string to
// decimal degrees, e.g. "371234567" -> 37.1234567.
func parseScaledCoord(s string) (float64, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, err
	}
	return float64(n) / coordScale, nil
}

// stripMarkup removes the <b>...</b> highlighting NAVER embeds in search
// result titles.
func stripMarkup(s string) string {
	if !strings.Contains(s, "<") {
		return s
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return s
	}
	return strings.TrimSpace(doc.Text())
}
