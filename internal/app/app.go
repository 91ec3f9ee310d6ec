// Package app wires configuration, vendor clients, the gateway and the
// moderation pipeline into a running worker process.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/naver-ai-trip/backend-trip-sub000/internal/amadeus"
	"github.com/naver-ai-trip/backend-trip-sub000/internal/cache"
	"github.com/naver-ai-trip/backend-trip-sub000/internal/config"
	"github.com/naver-ai-trip/backend-trip-sub000/internal/database"
	"github.com/naver-ai-trip/backend-trip-sub000/internal/gateway"
	"github.com/naver-ai-trip/backend-trip-sub000/internal/logging"
	"github.com/naver-ai-trip/backend-trip-sub000/internal/models"
	"github.com/naver-ai-trip/backend-trip-sub000/internal/moderation"
	"github.com/naver-ai-trip/backend-trip-sub000/internal/naver"
	"github.com/naver-ai-trip/backend-trip-sub000/internal/news"
	"github.com/naver-ai-trip/backend-trip-sub000/internal/pipeline"
	"github.com/naver-ai-trip/backend-trip-sub000/internal/ratelimit"
	"github.com/naver-ai-trip/backend-trip-sub000/internal/serpapi"
	"github.com/naver-ai-trip/backend-trip-sub000/internal/storage"
)

// perHostInterval spaces outbound calls to any single vendor host.
const perHostInterval = 200 * time.Millisecond

// App holds all application dependencies
type App struct {
	Config   *config.Config
	Logger   *logging.Logger
	Cache    cache.Cache
	Gateway  *gateway.Gateway
	Storage  storage.Storage
	Queue    pipeline.Queue
	Pipeline *pipeline.Pipeline
	Worker   *pipeline.Worker

	db         *database.DB
	stores     *database.Stores
	redisCache *cache.RedisCache
}

// New creates and initializes a new App instance
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	app := &App{Config: cfg}

	app.Logger = app.initLogger()
	app.Cache = app.initCache()

	limiter := ratelimit.New(perHostInterval)
	detector := app.initDetector(ctx, limiter)

	app.Gateway = gateway.New(gateway.Deps{
		Search:    naver.NewSearchClient(cfg.Providers.NaverSearch, limiter),
		Maps:      naver.NewMapsClient(cfg.Providers.NaverMaps, limiter),
		Papago:    naver.NewPapagoClient(cfg.Providers.Papago, limiter),
		OCR:       naver.NewOCRClient(cfg.Providers.ClovaOCR, limiter),
		Speech:    naver.NewSpeechClient(cfg.Providers.ClovaSpeech, limiter),
		Moderator: detector,
		Hotels:    amadeus.NewClient(cfg.Providers.Amadeus, limiter),
		Flights:   serpapi.NewClient(cfg.Providers.SerpAPI, limiter),
		News:      news.NewFetcher(limiter, cfg.Providers.News.Timeout),
	}, cfg.Providers, app.Cache, cfg.Cache.TTL, app.Logger)

	store, err := storage.NewLocal(cfg.Storage.Dir, cfg.Storage.PublicBaseURL)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}
	app.Storage = store

	if err := app.initDatabase(ctx); err != nil {
		return nil, err
	}

	policy := moderation.NewPolicy(cfg.Moderation.AdultThreshold, cfg.Moderation.ViolenceThreshold)
	resolver := func(kind models.OwnerKind) (pipeline.EntityStore, bool) {
		entityStore, ok := app.stores.ForKind(kind)
		if !ok {
			return nil, false
		}
		return entityStore, true
	}
	app.Pipeline = pipeline.New(resolver, app.Storage, detector, policy, cfg.Moderation.Timeout, app.Logger)

	app.Queue = app.initQueue()
	app.Worker = pipeline.NewWorker(app.Queue, app.Pipeline, cfg.Worker.Concurrency, app.Logger)

	return app, nil
}

// Run drains the moderation queue until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	a.Logger.Info("Starting moderation workers",
		logging.WithField("concurrency", a.Config.Worker.Concurrency),
		logging.WithField("queue", a.Config.Queue.Backend),
	)
	a.Worker.Run(ctx)
	return nil
}

// Shutdown gracefully shuts down the application
func (a *App) Shutdown(ctx context.Context) error {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.Logger.Error("Database close error", logging.WithField("error", err.Error()))
		}
	}
	if a.redisCache != nil {
		if err := a.redisCache.Close(); err != nil {
			a.Logger.Error("Redis close error", logging.WithField("error", err.Error()))
		}
	}
	return nil
}

func (a *App) initLogger() *logging.Logger {
	level := logging.LevelInfo
	switch a.Config.Logging.Level {
	case "debug":
		level = logging.LevelDebug
	case "warn":
		level = logging.LevelWarn
	case "error":
		level = logging.LevelError
	}
	return logging.New(level)
}

func (a *App) initCache() cache.Cache {
	switch a.Config.Cache.Backend {
	case "redis":
		a.Logger.Info("Using Redis cache backend", logging.WithField("addr", a.Config.Cache.RedisAddr))
		redisCache, err := cache.NewRedis(cache.RedisConfig{
			Addr: a.Config.Cache.RedisAddr,
		}, a.Config.Cache.TTL)
		if err != nil {
			a.Logger.Error("Failed to connect to Redis, falling back to memory cache", logging.WithField("error", err.Error()))
			return cache.NewMemory(a.Config.Cache.TTL)
		}
		a.redisCache = redisCache
		return redisCache
	default:
		a.Logger.Info("Using in-memory cache backend")
		return cache.NewMemory(a.Config.Cache.TTL)
	}
}

// initDetector picks the moderation backend. Green-Eye is the default;
// Rekognition serves deployments outside the NAVER cloud.
func (a *App) initDetector(ctx context.Context, limiter *ratelimit.Limiter) moderation.Detector {
	if a.Config.Moderation.Detector == "rekognition" {
		detector, err := moderation.NewRekognitionDetector(ctx, a.Config.Moderation.AWSRegion)
		if err == nil {
			a.Logger.Info("Using Rekognition moderation backend", logging.WithField("region", a.Config.Moderation.AWSRegion))
			return detector
		}
		a.Logger.Warn("Failed to initialize Rekognition, falling back to Green-Eye", logging.WithField("error", err.Error()))
	}
	return moderation.NewGreenEyeDetector(a.Config.Providers.GreenEye, limiter)
}

func (a *App) initDatabase(ctx context.Context) error {
	db, err := database.New(a.Config.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return fmt.Errorf("run migrations: %w", err)
	}

	a.Logger.Info("Connected to PostgreSQL")
	a.db = db
	a.stores = database.NewStores(db)
	return nil
}

func (a *App) initQueue() pipeline.Queue {
	if a.Config.Queue.Backend == "redis" {
		client := a.redisClient()
		a.Logger.Info("Using Redis job queue", logging.WithField("key", a.Config.Queue.Key))
		return pipeline.NewRedisQueue(client, a.Config.Queue.Key, a.Config.Queue.PollTimeout)
	}
	a.Logger.Info("Using in-memory job queue")
	return pipeline.NewMemoryQueue(256, a.Config.Queue.PollTimeout)
}

// redisClient reuses the cache connection pool when the cache already
// talks to Redis, otherwise dials a dedicated connection.
func (a *App) redisClient() *redis.Client {
	if a.redisCache != nil {
		return a.redisCache.Client()
	}
	return redis.NewClient(&redis.Options{Addr: a.Config.Queue.RedisAddr})
}
