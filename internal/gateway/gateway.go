// Package gateway is the single entry point the rest of the backend uses
// to reach external vendors. Every operation returns a three-way result:
// vendors being down or unconfigured degrade to unavailable, well-formed
// vendor replies with nothing usable degrade to not-found, and only
// unexpected programming errors would ever panic. Callers never see raw
// vendor errors.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/naver-ai-trip/backend-trip-sub000/internal/amadeus"
	"github.com/naver-ai-trip/backend-trip-sub000/internal/cache"
	"github.com/naver-ai-trip/backend-trip-sub000/internal/config"
	"github.com/naver-ai-trip/backend-trip-sub000/internal/logging"
	"github.com/naver-ai-trip/backend-trip-sub000/internal/models"
	"github.com/naver-ai-trip/backend-trip-sub000/internal/moderation"
	"github.com/naver-ai-trip/backend-trip-sub000/internal/naver"
	"github.com/naver-ai-trip/backend-trip-sub000/internal/provider"
	"github.com/naver-ai-trip/backend-trip-sub000/internal/serpapi"
)

// Consumer-side interfaces over the vendor clients so tests can swap in
// fakes without standing up HTTP servers.
type (
	// Geocoder resolves free text to a place.
	Geocoder interface {
		Geocode(ctx context.Context, query string) (*models.Place, error)
	}

	// Router computes driving routes.
	Router interface {
		Directions(ctx context.Context, req naver.DirectionsRequest) (*models.Route, error)
	}

	// Translator translates text.
	Translator interface {
		Translate(ctx context.Context, req naver.TranslateRequest) (*models.Translation, error)
	}

	// TextRecognizer extracts text from images.
	TextRecognizer interface {
		Recognize(ctx context.Context, imageURL string) (*models.OCRText, error)
	}

	// Transcriber recognizes speech in audio clips.
	Transcriber interface {
		Transcribe(ctx context.Context, audio []byte, lang models.Language) (*models.Transcript, error)
	}

	// HotelSearcher finds hotel offers.
	HotelSearcher interface {
		SearchHotels(ctx context.Context, q amadeus.HotelQuery) ([]models.HotelOffer, error)
	}

	// FlightSearcher finds flight offers.
	FlightSearcher interface {
		SearchFlights(ctx context.Context, q serpapi.FlightQuery) ([]models.FlightOffer, error)
	}

	// NewsFetcher pulls travel headlines from a feed.
	NewsFetcher interface {
		Fetch(ctx context.Context, feedURL string) ([]models.NewsItem, error)
	}
)

// Deps collects the vendor clients the gateway fronts.
type Deps struct {
	Search    Geocoder
	Maps      Router
	Papago    Translator
	OCR       TextRecognizer
	Speech    Transcriber
	Moderator moderation.Detector
	Hotels    HotelSearcher
	Flights   FlightSearcher
	News      NewsFetcher
}

// Gateway fronts all vendor integrations behind the degradation contract.
type Gateway struct {
	deps     Deps
	cfg      config.ProvidersConfig
	cache    cache.Cache
	cacheTTL time.Duration
	logger   *logging.Logger
}

// New creates a gateway. cache may be nil to disable result caching.
func New(deps Deps, cfg config.ProvidersConfig, store cache.Cache, cacheTTL time.Duration, logger *logging.Logger) *Gateway {
	if cacheTTL <= 0 {
		cacheTTL = 10 * time.Minute
	}
	return &Gateway{
		deps:     deps,
		cfg:      cfg,
		cache:    store,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

// outcome maps a vendor call result to the three-way union and logs the
// operation. ErrNoMatch means the vendor answered but had nothing usable;
// every other error is treated as an outage.
func outcome[T any](g *Gateway, operation, digest string, value *T, err error) provider.Result[T] {
	switch {
	case err == nil:
		g.logger.Debug("gateway call", logging.WithFields(map[string]interface{}{
			"operation": operation,
			"params":    digest,
			"status":    string(provider.StatusOK),
		}))
		return provider.OK(*value)
	case errors.Is(err, provider.ErrNoMatch):
		g.logger.Info("gateway call had no match", logging.WithFields(map[string]interface{}{
			"operation": operation,
			"params":    digest,
			"status":    string(provider.StatusNotFound),
		}))
		return provider.NotFound[T]()
	default:
		g.logger.Warn("gateway call failed", logging.WithFields(map[string]interface{}{
			"operation": operation,
			"params":    digest,
			"status":    string(provider.StatusUnavailable),
			"error":     err.Error(),
		}))
		return provider.Unavailable[T]()
	}
}

// unavailable logs and returns the degraded result for a vendor that is
// disabled or missing credentials. No network I/O happens on this path.
func unavailable[T any](g *Gateway, operation string) provider.Result[T] {
	g.logger.Info("vendor disabled or unconfigured", logging.WithFields(map[string]interface{}{
		"operation": operation,
		"status":    string(provider.StatusUnavailable),
	}))
	return provider.Unavailable[T]()
}

// digest truncates potentially long parameter strings for log lines.
func digest(s string) string {
	const max = 64
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}

// Geocode resolves a free-text place query. Hits are cached.
func (g *Gateway) Geocode(ctx context.Context, query string) provider.Result[models.Place] {
	cfg := g.cfg.NaverSearch
	if !cfg.Enabled || !cfg.HasKeyPair() {
		return unavailable[models.Place](g, "geocode")
	}

	cacheKey := "geocode:" + query
	if g.cache != nil {
		if cached, ok := g.cache.Get(cacheKey); ok {
			if place, ok := cached.(models.Place); ok {
				return provider.OK(place)
			}
		}
	}

	place, err := g.deps.Search.Geocode(ctx, query)
	result := outcome(g, "geocode", digest(query), place, err)
	if result.IsOK() && g.cache != nil {
		g.cache.SetWithTTL(cacheKey, result.Value, g.cacheTTL)
	}
	return result
}

// Directions computes a driving route between two points.
func (g *Gateway) Directions(ctx context.Context, start, goal models.Coordinate, option models.RouteOption) provider.Result[models.Route] {
	cfg := g.cfg.NaverMaps
	if !cfg.Enabled || !cfg.HasKeyPair() {
		return unavailable[models.Route](g, "directions")
	}

	route, err := g.deps.Maps.Directions(ctx, naver.DirectionsRequest{
		Start:  start,
		Goal:   goal,
		Option: option,
	})
	params := fmt.Sprintf("%v,%v->%v,%v/%s", start.Latitude, start.Longitude, goal.Latitude, goal.Longitude, option)
	return outcome(g, "directions", digest(params), route, err)
}

// Translate translates text into the target language, detecting the
// source when it is empty. Hits are cached.
func (g *Gateway) Translate(ctx context.Context, text string, source, target models.Language) provider.Result[models.Translation] {
	cfg := g.cfg.Papago
	if !cfg.Enabled || !cfg.HasKeyPair() {
		return unavailable[models.Translation](g, "translate")
	}

	cacheKey := fmt.Sprintf("translate:%s:%s:%s", source, target, text)
	if g.cache != nil {
		if cached, ok := g.cache.Get(cacheKey); ok {
			if translation, ok := cached.(models.Translation); ok {
				return provider.OK(translation)
			}
		}
	}

	translation, err := g.deps.Papago.Translate(ctx, naver.TranslateRequest{
		Text:   text,
		Source: source,
		Target: target,
	})
	result := outcome(g, "translate", digest(text), translation, err)
	if result.IsOK() && g.cache != nil {
		g.cache.SetWithTTL(cacheKey, result.Value, g.cacheTTL)
	}
	return result
}

// RecognizeText extracts text from an image URL.
func (g *Gateway) RecognizeText(ctx context.Context, imageURL string) provider.Result[models.OCRText] {
	cfg := g.cfg.ClovaOCR
	if !cfg.Enabled || !cfg.HasKey() || cfg.BaseURL == "" {
		return unavailable[models.OCRText](g, "recognize_text")
	}

	text, err := g.deps.OCR.Recognize(ctx, imageURL)
	return outcome(g, "recognize_text", digest(imageURL), text, err)
}

// Transcribe recognizes speech in a short audio clip.
func (g *Gateway) Transcribe(ctx context.Context, audio []byte, lang models.Language) provider.Result[models.Transcript] {
	cfg := g.cfg.ClovaSpeech
	if !cfg.Enabled || !cfg.HasKeyPair() {
		return unavailable[models.Transcript](g, "transcribe")
	}

	transcript, err := g.deps.Speech.Transcribe(ctx, audio, lang)
	return outcome(g, "transcribe", fmt.Sprintf("%d bytes/%s", len(audio), lang), transcript, err)
}

// Moderate produces a moderation verdict for one image.
func (g *Gateway) Moderate(ctx context.Context, src moderation.Source) provider.Result[models.ModerationVerdict] {
	cfg := g.cfg.GreenEye
	if !cfg.Enabled || !cfg.HasKey() || cfg.BaseURL == "" {
		return unavailable[models.ModerationVerdict](g, "moderate")
	}

	verdict, err := g.deps.Moderator.Detect(ctx, src)
	return outcome(g, "moderate", digest(src.URL), verdict, err)
}

// SearchHotels finds hotel offers for a city and stay window.
func (g *Gateway) SearchHotels(ctx context.Context, q amadeus.HotelQuery) provider.Result[[]models.HotelOffer] {
	cfg := g.cfg.Amadeus
	if !cfg.Enabled || !cfg.HasKeyPair() {
		return unavailable[[]models.HotelOffer](g, "search_hotels")
	}

	offers, err := g.deps.Hotels.SearchHotels(ctx, q)
	params := fmt.Sprintf("%s/%s..%s", q.CityCode, q.CheckIn, q.CheckOut)
	return outcome(g, "search_hotels", params, &offers, err)
}

// SearchFlights finds flight offers between two airports.
func (g *Gateway) SearchFlights(ctx context.Context, q serpapi.FlightQuery) provider.Result[[]models.FlightOffer] {
	cfg := g.cfg.SerpAPI
	if !cfg.Enabled || !cfg.HasKey() {
		return unavailable[[]models.FlightOffer](g, "search_flights")
	}

	offers, err := g.deps.Flights.SearchFlights(ctx, q)
	params := fmt.Sprintf("%s-%s/%s", q.Origin, q.Destination, q.DepartDate)
	return outcome(g, "search_flights", params, &offers, err)
}

// TravelNews pulls headlines from a travel feed. An empty feedURL falls
// back to the configured default feed.
func (g *Gateway) TravelNews(ctx context.Context, feedURL string) provider.Result[[]models.NewsItem] {
	cfg := g.cfg.News
	if feedURL == "" {
		feedURL = cfg.BaseURL
	}
	if !cfg.Enabled || feedURL == "" {
		return unavailable[[]models.NewsItem](g, "travel_news")
	}

	items, err := g.deps.News.Fetch(ctx, feedURL)
	return outcome(g, "travel_news", digest(feedURL), &items, err)
}
