package amadeus

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/naver-ai-trip/backend-trip-sub000/internal/config"
	"github.com/naver-ai-trip/backend-trip-sub000/internal/provider"
)

const hotelFixture = `{
  "data": [
    {
      "hotel": {
        "hotelId": "MCLONGHM",
        "name": "JW Marriott Grosvenor House",
        "cityCode": "LON",
        "latitude": 51.50988,
        "longitude": -0.15509
      },
      "offers": [
        {
          "id": "OFFER-1",
          "checkInDate": "2026-09-01",
          "checkOutDate": "2026-09-03",
          "price": {"currency": "GBP", "total": "712.00"}
        }
      ]
    }
  ]
}`

func TestNormalizeHotelOffers(t *testing.T) {
	offers, err := normalizeHotelOffers([]byte(hotelFixture))
	if err != nil {
		t.Fatalf("normalizeHotelOffers() error = %v", err)
	}
	if len(offers) != 1 {
		t.Fatalf("expected 1 offer, got %d", len(offers))
	}

	offer := offers[0]
	if offer.HotelID != "MCLONGHM" {
		t.Errorf("HotelID = %q, want MCLONGHM", offer.HotelID)
	}
	if offer.OfferID != "OFFER-1" {
		t.Errorf("OfferID = %q, want OFFER-1", offer.OfferID)
	}
	if offer.Currency != "GBP" || offer.Total != 712 {
		t.Errorf("price = %s %.2f, want GBP 712.00", offer.Currency, offer.Total)
	}
	if offer.CheckIn != "2026-09-01" || offer.CheckOut != "2026-09-03" {
		t.Errorf("stay = %s..%s, want 2026-09-01..2026-09-03", offer.CheckIn, offer.CheckOut)
	}
}

func TestNormalizeHotelOffersEmpty(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"empty data", `{"data": []}`},
		{"no priced offers", `{"data": [{"hotel": {"hotelId": "X"}, "offers": [{"id": "O", "price": {"total": "n/a"}}]}]}`},
		{"malformed", `<html>rate limited</html>`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := normalizeHotelOffers([]byte(tc.raw)); !errors.Is(err, provider.ErrNoMatch) {
				t.Errorf("error = %v, want ErrNoMatch", err)
			}
		})
	}
}

func TestSearchHotelsTokenReuse(t *testing.T) {
	var tokenCalls atomic.Int64

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/security/oauth2/token":
			tokenCalls.Add(1)
			if err := r.ParseForm(); err != nil {
				t.Fatalf("parse token form: %v", err)
			}
			if got := r.PostForm.Get("grant_type"); got != "client_credentials" {
				t.Errorf("grant_type = %q, want client_credentials", got)
			}
			if got := r.PostForm.Get("client_id"); got != "key-id" {
				t.Errorf("client_id = %q, want key-id", got)
			}
			json.NewEncoder(w).Encode(map[string]any{
				"access_token": "tok-123",
				"expires_in":   1799,
			})
		case "/v2/shopping/hotel-offers":
			if got := r.Header.Get("Authorization"); got != "Bearer tok-123" {
				t.Errorf("Authorization = %q, want Bearer tok-123", got)
			}
			if got := r.URL.Query().Get("cityCode"); got != "LON" {
				t.Errorf("cityCode = %q, want LON", got)
			}
			w.Write([]byte(hotelFixture))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := NewClient(config.ProviderConfig{
		BaseURL: server.URL,
		KeyID:   "key-id",
		Key:     "key-secret",
		Enabled: true,
		Timeout: 2 * time.Second,
	}, nil)

	query := HotelQuery{CityCode: "lon", CheckIn: "2026-09-01", CheckOut: "2026-09-03", Adults: 2}
	for i := 0; i < 3; i++ {
		if _, err := client.SearchHotels(context.Background(), query); err != nil {
			t.Fatalf("SearchHotels() call %d error = %v", i, err)
		}
	}

	if got := tokenCalls.Load(); got != 1 {
		t.Errorf("token endpoint called %d times, want 1 (token should be cached)", got)
	}
}
