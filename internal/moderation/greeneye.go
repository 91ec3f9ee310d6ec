package moderation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/naver-ai-trip/backend-trip-sub000/internal/config"
	"github.com/naver-ai-trip/backend-trip-sub000/internal/models"
	"github.com/naver-ai-trip/backend-trip-sub000/internal/provider"
	"github.com/naver-ai-trip/backend-trip-sub000/internal/ratelimit"
)

// GreenEyeDetector calls the NAVER Green-Eye image moderation API. The
// vendor fetches the image itself, so Source.URL must be reachable from
// the outside.
type GreenEyeDetector struct {
	cfg  config.ProviderConfig
	http *provider.HTTPClient
}

// NewGreenEyeDetector creates a Green-Eye detector.
func NewGreenEyeDetector(cfg config.ProviderConfig, limiter *ratelimit.Limiter) *GreenEyeDetector {
	return &GreenEyeDetector{
		cfg:  cfg,
		http: provider.NewHTTPClient(cfg.Timeout, limiter),
	}
}

type greenEyeImage struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

type greenEyeRequest struct {
	Version   string          `json:"version"`
	RequestID string          `json:"requestId"`
	Timestamp int64           `json:"timestamp"`
	Images    []greenEyeImage `json:"images"`
}

type greenEyeResponse struct {
	Images []struct {
		Name    string `json:"name"`
		Message string `json:"message"`
		Result  map[string]struct {
			Confidence float64 `json:"confidence"`
		} `json:"result"`
	} `json:"images"`
}

// Detect submits one image and normalizes the per-category confidences
// into a verdict. RequestID is unique per call as the vendor requires.
func (g *GreenEyeDetector) Detect(ctx context.Context, src Source) (*models.ModerationVerdict, error) {
	if src.URL == "" {
		return nil, fmt.Errorf("image url is required")
	}

	name := src.Name
	if name == "" {
		name = "image"
	}

	body, err := json.Marshal(greenEyeRequest{
		Version:   "V1",
		RequestID: uuid.NewString(),
		Timestamp: time.Now().UnixMilli(),
		Images:    []greenEyeImage{{Name: name, URL: src.URL}},
	})
	if err != nil {
		return nil, fmt.Errorf("encode green-eye request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.cfg.BaseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-GREEN-EYE-SECRET", g.cfg.Key)

	resp, err := g.http.Do(req)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, fmt.Errorf("green-eye returned %d", resp.StatusCode)
	}

	return normalizeGreenEye(resp.Body)
}

// normalizeGreenEye maps the raw Green-Eye payload to a verdict. Scores
// arrive already normalized to [0,1].
func normalizeGreenEye(raw []byte) (*models.ModerationVerdict, error) {
	var parsed greenEyeResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", provider.ErrNoMatch, err)
	}
	if len(parsed.Images) == 0 || len(parsed.Images[0].Result) == 0 {
		return nil, provider.ErrNoMatch
	}

	scores := make(map[string]float64, len(parsed.Images[0].Result))
	for category, entry := range parsed.Images[0].Result {
		scores[category] = entry.Confidence
	}

	verdict := models.NewModerationVerdict(scores, topCategoryReason(scores))
	return &verdict, nil
}

// topCategoryReason names the dominant category so operators can read
// verdicts without digging into the score map.
func topCategoryReason(scores map[string]float64) string {
	categories := make([]string, 0, len(scores))
	for category := range scores {
		categories = append(categories, category)
	}
	sort.Slice(categories, func(i, j int) bool {
		if scores[categories[i]] == scores[categories[j]] {
			return categories[i] < categories[j]
		}
		return scores[categories[i]] > scores[categories[j]]
	})
	top := categories[0]
	return fmt.Sprintf("%s confidence %.2f", top, scores[top])
}
