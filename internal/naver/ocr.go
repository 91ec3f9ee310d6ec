package naver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/naver-ai-trip/backend-trip-sub000/internal/config"
	"github.com/naver-ai-trip/backend-trip-sub000/internal/models"
	"github.com/naver-ai-trip/backend-trip-sub000/internal/provider"
	"github.com/naver-ai-trip/backend-trip-sub000/internal/ratelimit"
)

// OCRClient calls the Clova OCR general endpoint. The base URL is the
// per-tenant invoke URL issued by the Clova console; authentication is the
// X-OCR-SECRET header.
type OCRClient struct {
	cfg  config.ProviderConfig
	http *provider.HTTPClient
}

// NewOCRClient creates an OCR client.
func NewOCRClient(cfg config.ProviderConfig, limiter *ratelimit.Limiter) *OCRClient {
	return &OCRClient{
		cfg:  cfg,
		http: provider.NewHTTPClient(cfg.Timeout, limiter),
	}
}

type ocrImage struct {
	Format string `json:"format"`
	Name   string `json:"name"`
	URL    string `json:"url"`
}

type ocrRequest struct {
	Version   string     `json:"version"`
	RequestID string     `json:"requestId"`
	Timestamp int64      `json:"timestamp"`
	Images    []ocrImage `json:"images"`
}

// Recognize extracts text from an image reachable at imageURL.
func (o *OCRClient) Recognize(ctx context.Context, imageURL string) (*models.OCRText, error) {
	name := path.Base(imageURL)
	format := strings.TrimPrefix(path.Ext(name), ".")
	if format == "" {
		format = "jpg"
	}

	body, err := json.Marshal(ocrRequest{
		Version:   "V2",
		RequestID: uuid.NewString(),
		Timestamp: time.Now().UnixMilli(),
		Images:    []ocrImage{{Format: format, Name: name, URL: imageURL}},
	})
	if err != nil {
		return nil, fmt.Errorf("encode ocr request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.cfg.BaseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-OCR-SECRET", o.cfg.Key)

	resp, err := o.http.Do(req)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, fmt.Errorf("ocr returned %d", resp.StatusCode)
	}

	return normalizeOCR(resp.Body)
}

type ocrResponse struct {
	Images []struct {
		Fields []struct {
			InferText string `json:"inferText"`
		} `json:"fields"`
	} `json:"images"`
}

func normalizeOCR(raw []byte) (*models.OCRText, error) {
	var parsed ocrResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", provider.ErrNoMatch, err)
	}
	if len(parsed.Images) == 0 {
		return nil, provider.ErrNoMatch
	}

	var lines []string
	for _, field := range parsed.Images[0].Fields {
		if field.InferText != "" {
			lines = append(lines, field.InferText)
		}
	}
	if len(lines) == 0 {
		return nil, provider.ErrNoMatch
	}

	return &models.OCRText{
		Lines: lines,
		Text:  strings.Join(lines, " "),
	}, nil
}
