package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Env  string
	Port string
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	MaxConns int
	MinConns int
}

// DSN renders the pgx connection string.
func (c DBConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s",
		c.User, c.Password, c.Host, c.Port, c.Name)
}

// EmbedderConfig holds settings for the embedding sidecar.
type EmbedderConfig struct {
	URL     string
	Model   string
	Timeout time.Duration
}

// RerankConfig holds settings for the cross-encoder sidecar.
type RerankConfig struct {
	Enabled  bool
	URL      string
	Model    string
	Timeout  time.Duration
	CacheTTL time.Duration
}

// CacheConfig holds score cache settings. An empty RedisURL selects the
// in-process cache.
type CacheConfig struct {
	RedisURL   string
	MemorySize int
}

// RetrievalConfig holds the pipeline's tunable parameters.
type RetrievalConfig struct {
	LexicalLimit int
	DenseLimit   int
	MMRPoolSize  int
	MMRLambda    float64
	FinalK       int
}

type Config struct {
	Server    ServerConfig
	DB        DBConfig
	Embedder  EmbedderConfig
	Rerank    RerankConfig
	Cache     CacheConfig
	Retrieval RetrievalConfig
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Env:  getEnv("ENV", "development"),
			Port: getEnv("PORT", "9020"),
		},
		DB: DBConfig{
			Host:     getEnv("DB_HOST", "news-db"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "news_user"),
			Password: getSecret("DB_PASSWORD", "DB_PASSWORD_FILE", "news_password"),
			Name:     getEnv("DB_NAME", "news_db"),
			MaxConns: getEnvInt("DB_MAX_CONNS", 10),
			MinConns: getEnvInt("DB_MIN_CONNS", 2),
		},
		Embedder: EmbedderConfig{
			URL:     getEnv("EMBEDDER_URL", "http://embedder:11434"),
			Model:   getEnv("EMBEDDING_MODEL", "embeddinggemma"),
			Timeout: getEnvDuration("EMBEDDER_TIMEOUT_SECONDS", 30*time.Second),
		},
		Rerank: RerankConfig{
			Enabled:  getEnvBool("RERANK_ENABLED", true),
			URL:      getEnv("RERANK_URL", "http://reranker:8001"),
			Model:    getEnv("RERANK_MODEL", "bge-reranker-v2-m3"),
			Timeout:  getEnvDuration("RERANK_TIMEOUT_SECONDS", 30*time.Second),
			CacheTTL: getEnvDuration("RERANK_CACHE_TTL_SECONDS", time.Hour),
		},
		Cache: CacheConfig{
			RedisURL:   getEnv("REDIS_URL", ""),
			MemorySize: getEnvInt("SCORE_CACHE_MEMORY_SIZE", 4096),
		},
		Retrieval: RetrievalConfig{
			LexicalLimit: getEnvInt("RETRIEVAL_K_LEXICAL", 50),
			DenseLimit:   getEnvInt("RETRIEVAL_K_DENSE", 50),
			MMRPoolSize:  getEnvInt("RETRIEVAL_MMR_K", 30),
			MMRLambda:    getEnvFloat("RETRIEVAL_MMR_LAMBDA", 0.7),
			FinalK:       getEnvInt("RETRIEVAL_FINAL_K", 8),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getSecret(envKey, fileEnvKey, fallback string) string {
	if value, ok := os.LookupEnv(envKey); ok {
		return value
	}
	if filePath, ok := os.LookupEnv(fileEnvKey); ok {
		content, err := os.ReadFile(filePath)
		if err == nil {
			return strings.TrimSpace(string(content))
		}
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return fallback
}

// getEnvDuration reads a whole number of seconds.
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			return time.Duration(parsed) * time.Second
		}
	}
	return fallback
}
