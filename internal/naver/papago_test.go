package naver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/naver-ai-trip/backend-trip-sub000/internal/config"
	"github.com/naver-ai-trip/backend-trip-sub000/internal/models"
	"github.com/naver-ai-trip/backend-trip-sub000/internal/provider"
)

func papagoServer(t *testing.T, calls *[]string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*calls = append(*calls, r.URL.Path)
		switch r.URL.Path {
		case "/langs/v1/dect":
			if err := r.ParseForm(); err != nil {
				t.Fatalf("parse detect form: %v", err)
			}
			if got := r.PostForm.Get("query"); got == "" {
				t.Error("detect call missing query")
			}
			json.NewEncoder(w).Encode(map[string]string{"langCode": "ko"})
		case "/nmt/v1/translation":
			var payload map[string]string
			if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
				t.Fatalf("decode translate payload: %v", err)
			}
			if payload["source"] != "ko" || payload["target"] != "en" {
				t.Errorf("payload source/target = %s/%s, want ko/en", payload["source"], payload["target"])
			}
			json.NewEncoder(w).Encode(map[string]any{
				"message": map[string]any{
					"result": map[string]string{"translatedText": "Gangnam Station"},
				},
			})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func newTestPapago(baseURL string) *PapagoClient {
	return NewPapagoClient(config.ProviderConfig{
		BaseURL: baseURL,
		KeyID:   "id",
		Key:     "key",
		Enabled: true,
		Timeout: 2 * time.Second,
	}, nil)
}

func TestTranslateWithExplicitSource(t *testing.T) {
	var calls []string
	server := papagoServer(t, &calls)
	defer server.Close()

	client := newTestPapago(server.URL)
	result, err := client.Translate(context.Background(), TranslateRequest{
		Text:   "강남역",
		Source: models.LangKorean,
		Target: models.LangEnglish,
	})
	if err != nil {
		t.Fatalf("Translate() error = %v", err)
	}
	if result.Translated != "Gangnam Station" {
		t.Errorf("Translated = %q", result.Translated)
	}
	if len(calls) != 1 || calls[0] != "/nmt/v1/translation" {
		t.Errorf("calls = %v, want translation only (no detect)", calls)
	}
}

func TestTranslateDetectsMissingSource(t *testing.T) {
	var calls []string
	server := papagoServer(t, &calls)
	defer server.Close()

	client := newTestPapago(server.URL)
	result, err := client.Translate(context.Background(), TranslateRequest{
		Text:   "강남역",
		Target: models.LangEnglish,
	})
	if err != nil {
		t.Fatalf("Translate() error = %v", err)
	}
	if result.Source != models.LangKorean {
		t.Errorf("Source = %q, want detected ko", result.Source)
	}

	want := []string{"/langs/v1/dect", "/nmt/v1/translation"}
	if len(calls) != 2 || calls[0] != want[0] || calls[1] != want[1] {
		t.Errorf("calls = %v, want detect before translate", calls)
	}
}

func TestNormalizeDetectedLanguageFailsClosed(t *testing.T) {
	if _, err := normalizeDetectedLanguage([]byte(`{"langCode": "unk"}`)); !errors.Is(err, provider.ErrNoMatch) {
		t.Errorf("error = %v, want ErrNoMatch for unsupported language", err)
	}
	lang, err := normalizeDetectedLanguage([]byte(`{"langCode": "ja"}`))
	if err != nil {
		t.Fatalf("normalizeDetectedLanguage() error = %v", err)
	}
	if lang != models.LangJapanese {
		t.Errorf("lang = %q, want ja", lang)
	}
}

func TestNormalizeTranslationEmpty(t *testing.T) {
	if _, err := normalizeTranslation([]byte(`{"message": {"result": {"translatedText": ""}}}`)); !errors.Is(err, provider.ErrNoMatch) {
		t.Errorf("error = %v, want ErrNoMatch for empty translation", err)
	}
}
