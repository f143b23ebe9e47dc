package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

func init() {
	// Load .env file if it exists (silent fail if not)
	_ = godotenv.Load()
}

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Server   ServerConfig
	App      AppConfig
	Store    StoreConfig
	Cache    CacheConfig
	Upstream UpstreamConfig
	TTL      TTLConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `envconfig:"SERVER_HOST" default:"0.0.0.0"`
	Port            int           `envconfig:"SERVER_PORT" default:"8080"`
	ReadTimeout     time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Name        string `envconfig:"APP_NAME" default:"pulsehub-api"`
	Environment string `envconfig:"APP_ENV" default:"development"`
	Debug       bool   `envconfig:"APP_DEBUG" default:"false"`
	Version     string `envconfig:"APP_VERSION" default:"1.0.0"`
}

// StoreConfig holds relational store settings. SQLite is the default;
// MySQL is available for shared deployments.
type StoreConfig struct {
	Driver string `envconfig:"STORE_DRIVER" default:"sqlite"` // sqlite or mysql
	Path   string `envconfig:"STORE_PATH" default:"./data/pulsehub.db"`

	// MySQL settings (used when STORE_DRIVER=mysql)
	Host     string `envconfig:"STORE_DB_HOST" default:"localhost"`
	Port     int    `envconfig:"STORE_DB_PORT" default:"3306"`
	Name     string `envconfig:"STORE_DB_NAME" default:"pulsehub"`
	User     string `envconfig:"STORE_DB_USER" default:"root"`
	Password string `envconfig:"STORE_DB_PASS" default:""`
}

// CacheConfig holds settings for the flat proxy cache.
type CacheConfig struct {
	// Backend selects the flat cache implementation: db (default), redis, or memory.
	Backend string `envconfig:"CACHE_BACKEND" default:"db"`

	// SweepProbability is the chance a Get/Set call triggers a background
	// sweep of expired rows (db backend only).
	SweepProbability float64 `envconfig:"CACHE_SWEEP_PROBABILITY" default:"0.5"`

	RedisHost     string `envconfig:"REDIS_HOST" default:"localhost"`
	RedisPort     int    `envconfig:"REDIS_PORT" default:"6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`
}

// ProviderConfig holds connection settings for one upstream API.
type ProviderConfig struct {
	BaseURL string
	Key     string
	// RatePerMin caps outgoing requests to respect upstream quotas.
	RatePerMin float64
}

// UpstreamConfig holds per-provider upstream API settings.
type UpstreamConfig struct {
	Timeout time.Duration `envconfig:"UPSTREAM_TIMEOUT" default:"10s"`
	Retries int           `envconfig:"UPSTREAM_RETRIES" default:"2"`

	TMDBBaseURL string  `envconfig:"TMDB_BASE_URL" default:"https://api.themoviedb.org/3"`
	TMDBToken   string  `envconfig:"TMDB_API_ACCESS_TOKEN" default:""`
	TMDBRate    float64 `envconfig:"TMDB_RATE_PER_MIN" default:"40"`

	AlphaVantageBaseURL string  `envconfig:"ALPHAVANTAGE_BASE_URL" default:"https://www.alphavantage.co"`
	AlphaVantageKey     string  `envconfig:"ALPHAVANTAGE_API_KEY" default:""`
	AlphaVantageRate    float64 `envconfig:"ALPHAVANTAGE_RATE_PER_MIN" default:"5"`

	NewsBaseURL string  `envconfig:"NEWS_API_BASE_URL" default:"https://gnews.io/api/v4"`
	NewsKey     string  `envconfig:"NEWS_API_ACCESSKEY" default:""`
	NewsRate    float64 `envconfig:"NEWS_RATE_PER_MIN" default:"10"`

	JamendoBaseURL  string  `envconfig:"JAMENDO_BASE_URL" default:"https://api.jamendo.com/v3.0"`
	JamendoClientID string  `envconfig:"JAMENDO_CLIENT_ID" default:""`
	JamendoRate     float64 `envconfig:"JAMENDO_RATE_PER_MIN" default:"30"`
}

// TTLConfig holds freshness windows for lists and entities.
type TTLConfig struct {
	StockList     time.Duration `envconfig:"TTL_STOCK_LIST" default:"1h"`
	StockOverview time.Duration `envconfig:"TTL_STOCK_OVERVIEW" default:"168h"`
	MovieList     time.Duration `envconfig:"TTL_MOVIE_LIST" default:"24h"`
	MovieEntity   time.Duration `envconfig:"TTL_MOVIE_ENTITY" default:"720h"`
	NewsList      time.Duration `envconfig:"TTL_NEWS_LIST" default:"12h"`
	NewsArticle   time.Duration `envconfig:"TTL_NEWS_ARTICLE" default:"168h"`
	MusicList     time.Duration `envconfig:"TTL_MUSIC_LIST" default:"24h"`
	ProxyCache    time.Duration `envconfig:"TTL_PROXY_CACHE" default:"24h"`
}

// TMDB returns the TMDB provider settings.
func (u *UpstreamConfig) TMDB() ProviderConfig {
	return ProviderConfig{BaseURL: u.TMDBBaseURL, Key: u.TMDBToken, RatePerMin: u.TMDBRate}
}

// AlphaVantage returns the AlphaVantage provider settings.
func (u *UpstreamConfig) AlphaVantage() ProviderConfig {
	return ProviderConfig{BaseURL: u.AlphaVantageBaseURL, Key: u.AlphaVantageKey, RatePerMin: u.AlphaVantageRate}
}

// News returns the news provider settings.
func (u *UpstreamConfig) News() ProviderConfig {
	return ProviderConfig{BaseURL: u.NewsBaseURL, Key: u.NewsKey, RatePerMin: u.NewsRate}
}

// Jamendo returns the Jamendo provider settings.
func (u *UpstreamConfig) Jamendo() ProviderConfig {
	return ProviderConfig{BaseURL: u.JamendoBaseURL, Key: u.JamendoClientID, RatePerMin: u.JamendoRate}
}

// MySQLDSN returns the MySQL data source name.
func (s *StoreConfig) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true",
		s.User, s.Password, s.Host, s.Port, s.Name)
}

// Address returns the server address in host:port format.
func (s *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// RedisAddress returns the Redis address in host:port format.
func (c *CacheConfig) RedisAddress() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}

// IsDevelopment returns true if running in development mode.
func (a *AppConfig) IsDevelopment() bool {
	return a.Environment == "development"
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return &cfg, nil
}

// MustLoad loads configuration or panics on error.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}
