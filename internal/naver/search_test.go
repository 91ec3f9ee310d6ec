package naver

import (
	"context"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/naver-ai-trip/backend-trip-sub000/internal/config"
	"github.com/naver-ai-trip/backend-trip-sub000/internal/provider"
)

func TestParseScaledCoord(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"371234567", 37.1234567, false},
		{"1270276190", 127.027619, false},
		{"0", 0, false},
		{"-1229876543", -122.9876543, false},
		{" 374980950 ", 37.498095, false},
		{"", 0, true},
		{"37.498095", 0, true},
		{"abc", 0, true},
	}

	for _, tt := range tests {
		got, err := parseScaledCoord(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseScaledCoord(%q) expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseScaledCoord(%q) error = %v", tt.in, err)
			continue
		}
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("parseScaledCoord(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestStripMarkup(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"<b>Gangnam</b> Station", "Gangnam Station"},
		{"plain title", "plain title"},
		{"<b>강남</b>역 2호선", "강남역 2호선"},
	}

	for _, tt := range tests {
		if got := stripMarkup(tt.in); got != tt.want {
			t.Errorf("stripMarkup(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeLocalSearch(t *testing.T) {
	raw := `{
	  "total": 2,
	  "items": [
	    {
	      "title": "<b>강남역</b> 2호선",
	      "category": "교통,수송>지하철,전철",
	      "address": "서울특별시 강남구 역삼동",
	      "roadAddress": "서울특별시 강남구 강남대로 지하 396",
	      "mapx": "1270276190",
	      "mapy": "374980950"
	    },
	    {
	      "title": "second result is ignored",
	      "mapx": "1",
	      "mapy": "1"
	    }
	  ]
	}`

	place, err := normalizeLocalSearch([]byte(raw))
	if err != nil {
		t.Fatalf("normalizeLocalSearch() error = %v", err)
	}
	if place.Title != "강남역 2호선" {
		t.Errorf("Title = %q, want markup stripped", place.Title)
	}
	if math.Abs(place.Latitude-37.498095) > 1e-9 {
		t.Errorf("Latitude = %v, want 37.498095", place.Latitude)
	}
	if math.Abs(place.Longitude-127.027619) > 1e-9 {
		t.Errorf("Longitude = %v, want 127.027619", place.Longitude)
	}
	if place.RoadAddress == "" {
		t.Error("RoadAddress should be kept")
	}
}

func TestNormalizeLocalSearchNoMatch(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"empty items", `{"total": 0, "items": []}`},
		{"malformed json", `<!DOCTYPE html>`},
		{"bad mapx", `{"items": [{"title": "x", "mapx": "not-a-number", "mapy": "374980950"}]}`},
		{"bad mapy", `{"items": [{"title": "x", "mapx": "1270276190", "mapy": ""}]}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := normalizeLocalSearch([]byte(tc.raw)); !errors.Is(err, provider.ErrNoMatch) {
				t.Errorf("error = %v, want ErrNoMatch", err)
			}
		})
	}
}

func TestGeocodeSendsOpenAPIHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-Naver-Client-Id"); got != "client-id" {
			t.Errorf("X-Naver-Client-Id = %q, want client-id", got)
		}
		if got := r.Header.Get("X-Naver-Client-Secret"); got != "client-secret" {
			t.Errorf("X-Naver-Client-Secret = %q, want client-secret", got)
		}
		if got := r.URL.Path; got != "/v1/search/local.json" {
			t.Errorf("path = %q", got)
		}
		if got := r.URL.Query().Get("query"); got != "강남역" {
			t.Errorf("query = %q, want 강남역", got)
		}
		w.Write([]byte(`{"items": [{"title": "강남역", "mapx": "1270276190", "mapy": "374980950"}]}`))
	}))
	defer server.Close()

	client := NewSearchClient(config.ProviderConfig{
		BaseURL: server.URL,
		KeyID:   "client-id",
		Key:     "client-secret",
		Enabled: true,
		Timeout: 2 * time.Second,
	}, nil)

	place, err := client.Geocode(context.Background(), "  강남역  ")
	if err != nil {
		t.Fatalf("Geocode() error = %v", err)
	}
	if math.Abs(place.Latitude-37.498095) > 1e-9 {
		t.Errorf("Latitude = %v, want 37.498095", place.Latitude)
	}
}
