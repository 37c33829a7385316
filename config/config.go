package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	MongoURI          string
	MongoDatabase     string
	SourceCollection  string
	CleanedCollection string

	ElasticURL   string
	ElasticIndex string

	GCSBucket  string
	BlobPrefix string

	BatchSize        int
	IndexConcurrency int

	UploadMaxRetries  int
	UploadRetryBaseMs int

	HTTPAddr         string
	RunOnStart       bool
	RunIntervalHours int

	LogLevel string
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	cfg := &Config{
		MongoURI:          getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:     getEnv("MONGO_DATABASE", "carsnosql"),
		SourceCollection:  getEnv("MONGO_SOURCE_COLLECTION", "crawled_cars"),
		CleanedCollection: getEnv("MONGO_CLEANED_COLLECTION", "cleaned_cars"),

		ElasticURL:   getEnv("ELASTIC_URL", "http://localhost:9200"),
		ElasticIndex: getEnv("ELASTIC_INDEX", "cars"),

		GCSBucket:  getEnv("GCS_BUCKET", "carline-training-data"),
		BlobPrefix: getEnv("BLOB_PREFIX", "cleaned"),

		BatchSize:        getEnvInt("BATCH_SIZE", 5000),
		IndexConcurrency: getEnvInt("INDEX_CONCURRENCY", 16),

		UploadMaxRetries:  getEnvInt("UPLOAD_MAX_RETRIES", 6),
		UploadRetryBaseMs: getEnvInt("UPLOAD_RETRY_BASE_MS", 100),

		HTTPAddr:         getEnv("HTTP_ADDR", ":8080"),
		RunOnStart:       getEnvBool("RUN_ON_START", true),
		RunIntervalHours: getEnvInt("RUN_INTERVAL_HOURS", 24),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	// The batch size is a modulo divisor and the concurrency a semaphore
	// capacity; neither survives a zero.
	if cfg.BatchSize < 1 {
		cfg.BatchSize = 1
	}
	if cfg.IndexConcurrency < 1 {
		cfg.IndexConcurrency = 1
	}
	return cfg
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return fallback
}
