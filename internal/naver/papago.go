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

// PapagoClient calls the Papago NMT translation and language detection
// endpoints behind the NCP API gateway.
type PapagoClient struct {
	c *client
}

// NewPapagoClient creates a translation client.
func NewPapagoClient(cfg config.ProviderConfig, limiter *ratelimit.Limiter) *PapagoClient {
	return &PapagoClient{c: newClient(cfg, limiter, ncpHeaders)}
}

// TranslateRequest describes one translation. Source may be empty, in
// which case the language is detected with a separate vendor call before
// translating.
type TranslateRequest struct {
	Text   string
	Source models.Language
	Target models.Language
}

// Translate translates text into the target language.
func (p *PapagoClient) Translate(ctx context.Context, req TranslateRequest) (*models.Translation, error) {
	source := req.Source
	if source == "" {
		detected, err := p.DetectLanguage(ctx, req.Text)
		if err != nil {
			return nil, err
		}
		source = detected
	}

	payload := map[string]string{
		"source": string(source),
		"target": string(req.Target),
		"text":   req.Text,
	}

	resp, err := p.c.postJSON(ctx, "/nmt/v1/translation", payload)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, fmt.Errorf("translation returned %d", resp.StatusCode)
	}

	translated, err := normalizeTranslation(resp.Body)
	if err != nil {
		return nil, err
	}

	return &models.Translation{
		Source:     source,
		Target:     req.Target,
		Text:       req.Text,
		Translated: translated,
	}, nil
}

// DetectLanguage identifies the language of a text snippet. Vendor codes
// outside the internal closed enum fail closed.
func (p *PapagoClient) DetectLanguage(ctx context.Context, text string) (models.Language, error) {
	form := url.Values{}
	form.Set("query", text)

	resp, err := p.c.postForm(ctx, "/langs/v1/dect", form)
	if err != nil {
		return "", err
	}
	if !resp.OK() {
		return "", fmt.Errorf("language detect returned %d", resp.StatusCode)
	}

	return normalizeDetectedLanguage(resp.Body)
}

type translationResponse struct {
	Message struct {
		Result struct {
			TranslatedText string `json:"translatedText"`
		} `json:"result"`
	} `json:"message"`
}

func normalizeTranslation(raw []byte) (string, error) {
	var parsed translationResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("%w: %v", provider.ErrNoMatch, err)
	}
	if parsed.Message.Result.TranslatedText == "" {
		return "", provider.ErrNoMatch
	}
	return parsed.Message.Result.TranslatedText, nil
}

type detectResponse struct {
	LangCode string `json:"langCode"`
}

func normalizeDetectedLanguage(raw []byte) (models.Language, error) {
	var parsed detectResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("%w: %v", provider.ErrNoMatch, err)
	}

	lang, ok := models.ParseLanguage(parsed.LangCode)
	if !ok {
		return "", fmt.Errorf("%w: language %q", provider.ErrNoMatch, parsed.LangCode)
	}
	return lang, nil
}
