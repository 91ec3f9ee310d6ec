// Package naver wraps the NAVER OpenAPI and NAVER Cloud Platform APIs the
// trip planner depends on: local search (geocoding), Maps directions,
// Papago translation, Clova OCR and Clova speech recognition.
//
// Each operation client is a thin transport plus a pure normalizer that
// maps the vendor payload into the stable internal result types. Business
// interpretation stays out of this package.
package naver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/naver-ai-trip/backend-trip-sub000/internal/config"
	"github.com/naver-ai-trip/backend-trip-sub000/internal/provider"
	"github.com/naver-ai-trip/backend-trip-sub000/internal/ratelimit"
)

// headerStyle selects which credential headers a client sends. The legacy
// OpenAPI and the NCP API gateway use different header names for the same
// key pair.
type headerStyle int

const (
	openAPIHeaders headerStyle = iota // X-Naver-Client-Id / X-Naver-Client-Secret
	ncpHeaders                        // X-NCP-APIGW-API-KEY-ID / X-NCP-APIGW-API-KEY
)

type client struct {
	cfg   config.ProviderConfig
	http  *provider.HTTPClient
	style headerStyle
}

func newClient(cfg config.ProviderConfig, limiter *ratelimit.Limiter, style headerStyle) *client {
	return &client{
		cfg:   cfg,
		http:  provider.NewHTTPClient(cfg.Timeout, limiter),
		style: style,
	}
}

func (c *client) applyAuth(req *http.Request) {
	switch c.style {
	case ncpHeaders:
		req.Header.Set("X-NCP-APIGW-API-KEY-ID", c.cfg.KeyID)
		req.Header.Set("X-NCP-APIGW-API-KEY", c.cfg.Key)
	default:
		req.Header.Set("X-Naver-Client-Id", c.cfg.KeyID)
		req.Header.Set("X-Naver-Client-Secret", c.cfg.Key)
	}
}

func (c *client) get(ctx context.Context, path string, query url.Values) (*provider.RawResponse, error) {
	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	c.applyAuth(req)

	return c.http.Do(req)
}

func (c *client) postJSON(ctx context.Context, path string, payload interface{}) (*provider.RawResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode request body: %w", err)
	}

	return c.post(ctx, path, "application/json", body, nil)
}

func (c *client) postForm(ctx context.Context, path string, form url.Values) (*provider.RawResponse, error) {
	return c.post(ctx, path, "application/x-www-form-urlencoded", []byte(form.Encode()), nil)
}

func (c *client) post(ctx context.Context, path, contentType string, body []byte, query url.Values) (*provider.RawResponse, error) {
	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	c.applyAuth(req)

	return c.http.Do(req)
}
