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

// speechLangCodes maps internal languages to the CSR vendor codes. Only
// the languages the vendor supports are present; others fail closed.
var speechLangCodes = map[models.Language]string{
	models.LangKorean:            "Kor",
	models.LangEnglish:           "Eng",
	models.LangJapanese:          "Jpn",
	models.LangChineseSimplified: "Chn",
}

// SpeechClient calls the Clova Speech Recognition short-sentence endpoint.
type SpeechClient struct {
	c *client
}

// NewSpeechClient creates a speech-to-text client.
func NewSpeechClient(cfg config.ProviderConfig, limiter *ratelimit.Limiter) *SpeechClient {
	return &SpeechClient{c: newClient(cfg, limiter, ncpHeaders)}
}

// Transcribe recognizes speech in a short audio clip.
func (s *SpeechClient) Transcribe(ctx context.Context, audio []byte, lang models.Language) (*models.Transcript, error) {
	code, ok := speechLangCodes[lang]
	if !ok {
		return nil, fmt.Errorf("%w: speech language %q", provider.ErrNoMatch, lang)
	}

	params := url.Values{}
	params.Set("lang", code)

	resp, err := s.c.post(ctx, "/recog/v1/stt", "application/octet-stream", audio, params)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, fmt.Errorf("speech recognition returned %d", resp.StatusCode)
	}

	return normalizeTranscript(resp.Body)
}

type speechResponse struct {
	Text string `json:"text"`
}

func normalizeTranscript(raw []byte) (*models.Transcript, error) {
	var parsed speechResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", provider.ErrNoMatch, err)
	}
	if parsed.Text == "" {
		return nil, provider.ErrNoMatch
	}
	return &models.Transcript{Text: parsed.Text}, nil
}
