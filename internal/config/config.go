package config

import (
	"flag"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all process configuration. It is built once at startup and
// passed down by constructor injection; nothing mutates it afterwards.
type Config struct {
	Worker     WorkerConfig
	Cache      CacheConfig
	Queue      QueueConfig
	Database   DatabaseConfig
	Storage    StorageConfig
	Logging    LoggingConfig
	Moderation ModerationConfig
	Providers  ProvidersConfig
}

// WorkerConfig holds moderation worker configuration.
type WorkerConfig struct {
	Concurrency int
	JobTimeout  time.Duration
}

// CacheConfig holds cache configuration.
type CacheConfig struct {
	Backend   string // "memory" or "redis"
	TTL       time.Duration
	RedisAddr string
}

// QueueConfig holds moderation job queue configuration.
type QueueConfig struct {
	Backend     string // "memory" or "redis"
	RedisAddr   string
	Key         string
	PollTimeout time.Duration
}

// DatabaseConfig holds PostgreSQL configuration.
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// StorageConfig holds uploaded-file storage configuration. PublicBaseURL
// must be reachable by vendors that fetch images by URL.
type StorageConfig struct {
	Dir           string
	PublicBaseURL string
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string
}

// ModerationConfig holds moderation pipeline settings. Thresholds are
// strict lower bounds on [0,1] confidences.
type ModerationConfig struct {
	Detector          string // "greeneye" or "rekognition"
	AWSRegion         string
	AdultThreshold    float64
	ViolenceThreshold float64
	Timeout           time.Duration
}

// ProviderConfig holds one vendor integration. Loaded once at startup,
// immutable thereafter.
type ProviderConfig struct {
	BaseURL string
	KeyID   string
	Key     string
	Enabled bool
	Timeout time.Duration
}

// HasKeyPair reports whether both credential halves are present.
func (p ProviderConfig) HasKeyPair() bool {
	return strings.TrimSpace(p.KeyID) != "" && strings.TrimSpace(p.Key) != ""
}

// HasKey reports whether the single-secret credential is present.
func (p ProviderConfig) HasKey() bool {
	return strings.TrimSpace(p.Key) != ""
}

// ProvidersConfig holds one ProviderConfig per vendor integration.
type ProvidersConfig struct {
	NaverSearch ProviderConfig // NAVER OpenAPI local search (geocoding)
	NaverMaps   ProviderConfig // NAVER Cloud Maps directions
	Papago      ProviderConfig // Papago translation + language detect
	ClovaOCR    ProviderConfig
	ClovaSpeech ProviderConfig
	GreenEye    ProviderConfig
	Amadeus     ProviderConfig
	SerpAPI     ProviderConfig
	News        ProviderConfig // travel-news RSS; BaseURL is the feed URL
}

// Load parses flags and environment variables to build configuration.
func Load() *Config {
	cfg := &Config{}

	cacheTTL := flag.Duration("cache-ttl", 10*time.Minute, "Cache TTL for gateway results")
	cacheBackend := flag.String("cache-backend", "memory", "Cache backend: memory or redis")
	queueBackend := flag.String("queue-backend", "memory", "Job queue backend: memory or redis")
	redisAddr := flag.String("redis-addr", "localhost:6379", "Redis server address")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	workers := flag.Int("workers", 2, "Moderation worker concurrency")
	storageDir := flag.String("storage-dir", "./data/uploads", "Local upload storage directory")
	dbHost := flag.String("db-host", "localhost", "PostgreSQL host")
	dbPort := flag.Int("db-port", 5432, "PostgreSQL port")
	dbUser := flag.String("db-user", "postgres", "PostgreSQL user")
	dbPassword := flag.String("db-password", "postgres", "PostgreSQL password")
	dbName := flag.String("db-name", "trip_planner", "PostgreSQL database name")
	dbSSLMode := flag.String("db-sslmode", "disable", "PostgreSQL SSL mode")

	flag.Parse()

	applyEnvOverrides(cacheTTL, cacheBackend, queueBackend, redisAddr, logLevel, workers, storageDir, dbHost, dbPort, dbUser, dbPassword, dbName, dbSSLMode)

	cfg.Worker = WorkerConfig{
		Concurrency: *workers,
		JobTimeout:  envDuration("WORKER_JOB_TIMEOUT", 30*time.Second),
	}

	cfg.Cache = CacheConfig{
		Backend:   *cacheBackend,
		TTL:       *cacheTTL,
		RedisAddr: *redisAddr,
	}

	cfg.Queue = QueueConfig{
		Backend:     *queueBackend,
		RedisAddr:   *redisAddr,
		Key:         envOrDefault("QUEUE_KEY", "moderation:jobs"),
		PollTimeout: envDuration("QUEUE_POLL_TIMEOUT", 5*time.Second),
	}

	cfg.Database = DatabaseConfig{
		Host:     *dbHost,
		Port:     *dbPort,
		User:     *dbUser,
		Password: *dbPassword,
		Database: *dbName,
		SSLMode:  *dbSSLMode,
	}

	cfg.Storage = StorageConfig{
		Dir:           *storageDir,
		PublicBaseURL: envOrDefault("STORAGE_PUBLIC_BASE_URL", "http://localhost:8080/uploads"),
	}

	cfg.Logging = LoggingConfig{
		Level: *logLevel,
	}

	cfg.Moderation = loadModerationConfig()
	cfg.Providers = loadProvidersConfig()

	return cfg
}

func loadModerationConfig() ModerationConfig {
	return ModerationConfig{
		Detector:          envOrDefault("MODERATION_DETECTOR", "greeneye"),
		AWSRegion:         os.Getenv("AWS_REGION"),
		AdultThreshold:    envFloat("MODERATION_ADULT_THRESHOLD", 0.7),
		ViolenceThreshold: envFloat("MODERATION_VIOLENCE_THRESHOLD", 0.7),
		Timeout:           envDuration("MODERATION_TIMEOUT", 10*time.Second),
	}
}

func loadProvidersConfig() ProvidersConfig {
	return ProvidersConfig{
		NaverSearch: loadProvider("NAVER_SEARCH", "https://openapi.naver.com"),
		NaverMaps:   loadProvider("NAVER_MAPS", "https://naveropenapi.apigw.ntruss.com"),
		Papago:      loadProvider("PAPAGO", "https://naveropenapi.apigw.ntruss.com"),
		ClovaOCR:    loadProvider("CLOVA_OCR", ""),
		ClovaSpeech: loadProvider("CLOVA_SPEECH", "https://naveropenapi.apigw.ntruss.com"),
		GreenEye:    loadProvider("GREENEYE", ""),
		Amadeus:     loadProvider("AMADEUS", "https://test.api.amadeus.com"),
		SerpAPI:     loadProvider("SERPAPI", "https://serpapi.com"),
		News:        loadProvider("NEWS", ""),
	}
}

// loadProvider reads {PREFIX}_BASE_URL, {PREFIX}_KEY_ID, {PREFIX}_KEY,
// {PREFIX}_ENABLED and {PREFIX}_TIMEOUT. Vendors default to enabled; the
// gateway degrades to unavailable when credentials are missing, so an
// unconfigured vendor is not a startup error.
func loadProvider(prefix, defaultBaseURL string) ProviderConfig {
	enabled := true
	if v := strings.ToLower(strings.TrimSpace(os.Getenv(prefix + "_ENABLED"))); v == "false" || v == "0" {
		enabled = false
	}

	return ProviderConfig{
		BaseURL: envOrDefault(prefix+"_BASE_URL", defaultBaseURL),
		KeyID:   os.Getenv(prefix + "_KEY_ID"),
		Key:     os.Getenv(prefix + "_KEY"),
		Enabled: enabled,
		Timeout: envDuration(prefix+"_TIMEOUT", 10*time.Second),
	}
}

func envOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func envDuration(key string, defaultValue time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return defaultValue
}

func envFloat(key string, defaultValue float64) float64 {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 {
			return parsed
		}
	}
	return defaultValue
}

func applyEnvOverrides(
	cacheTTL *time.Duration,
	cacheBackend *string,
	queueBackend *string,
	redisAddr *string,
	logLevel *string,
	workers *int,
	storageDir *string,
	dbHost *string,
	dbPort *int,
	dbUser *string,
	dbPassword *string,
	dbName *string,
	dbSSLMode *string,
) {
	if v := os.Getenv("CACHE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*cacheTTL = d
		}
	}
	if v := os.Getenv("CACHE_BACKEND"); v != "" {
		*cacheBackend = v
	}
	if v := os.Getenv("QUEUE_BACKEND"); v != "" {
		*queueBackend = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		*redisAddr = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		*logLevel = v
	}
	if v := os.Getenv("WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			*workers = n
		}
	}
	if v := os.Getenv("STORAGE_DIR"); v != "" {
		*storageDir = v
	}
	if v := os.Getenv("DB_HOST"); v != "" {
		*dbHost = v
	}
	if v := os.Getenv("DB_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			*dbPort = p
		}
	}
	if v := os.Getenv("DB_USER"); v != "" {
		*dbUser = v
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		*dbPassword = v
	}
	if v := os.Getenv("DB_NAME"); v != "" {
		*dbName = v
	}
	if v := os.Getenv("DB_SSLMODE"); v != "" {
		*dbSSLMode = v
	}
}
