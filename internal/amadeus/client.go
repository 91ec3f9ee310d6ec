// Package amadeus wraps the Amadeus Self-Service hotel search API.
package amadeus

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/naver-ai-trip/backend-trip-sub000/internal/config"
	"github.com/naver-ai-trip/backend-trip-sub000/internal/models"
	"github.com/naver-ai-trip/backend-trip-sub000/internal/provider"
	"github.com/naver-ai-trip/backend-trip-sub000/internal/ratelimit"
)

// tokenSlack is subtracted from the vendor-reported token lifetime so a
// token is never used right at its expiry edge.
const tokenSlack = 30 * time.Second

// Client authenticates against the Amadeus OAuth2 endpoint and caches the
// bearer token until shortly before expiry.
type Client struct {
	cfg  config.ProviderConfig
	http *provider.HTTPClient

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

// NewClient creates an Amadeus client. cfg.KeyID is the API key and
// cfg.Key the API secret.
func NewClient(cfg config.ProviderConfig, limiter *ratelimit.Limiter) *Client {
	return &Client{
		cfg:  cfg,
		http: provider.NewHTTPClient(cfg.Timeout, limiter),
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

func (c *Client) bearerToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && time.Now().Before(c.tokenExpiry) {
		return c.token, nil
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", c.cfg.KeyID)
	form.Set("client_secret", c.cfg.Key)

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/v1/security/oauth2/token"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	if !resp.OK() {
		return "", fmt.Errorf("token endpoint returned %d", resp.StatusCode)
	}

	var parsed tokenResponse
	if err := json.Unmarshal(resp.Body, &parsed); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}
	if parsed.AccessToken == "" {
		return "", fmt.Errorf("token endpoint returned empty token")
	}

	c.token = parsed.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(parsed.ExpiresIn)*time.Second - tokenSlack)

	return c.token, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values) (*provider.RawResponse, error) {
	token, err := c.bearerToken(ctx)
	if err != nil {
		return nil, err
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	return c.http.Do(req)
}

// HotelQuery describes one hotel availability search. Dates use the
// vendor's YYYY-MM-DD format.
type HotelQuery struct {
	CityCode string
	CheckIn  string
	CheckOut string
	Adults   int
}

// SearchHotels returns normalized hotel offers for a city and stay window.
func (c *Client) SearchHotels(ctx context.Context, q HotelQuery) ([]models.HotelOffer, error) {
	params := url.Values{}
	params.Set("cityCode", strings.ToUpper(q.CityCode))
	params.Set("checkInDate", q.CheckIn)
	params.Set("checkOutDate", q.CheckOut)
	adults := q.Adults
	if adults <= 0 {
		adults = 1
	}
	params.Set("adults", strconv.Itoa(adults))

	resp, err := c.get(ctx, "/v2/shopping/hotel-offers", params)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, fmt.Errorf("hotel search returned %d", resp.StatusCode)
	}

	return normalizeHotelOffers(resp.Body)
}
