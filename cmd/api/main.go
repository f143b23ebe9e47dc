package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"pulsehub-api/internal/cache"
	"pulsehub-api/internal/config"
	"pulsehub-api/internal/handler"
	"pulsehub-api/internal/repository"
	"pulsehub-api/internal/router"
	"pulsehub-api/internal/service"
	"pulsehub-api/internal/upstream"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("Starting PulseHub API...")

	// Load configuration
	cfg := config.MustLoad()
	log.Printf("Environment: %s", cfg.App.Environment)

	// Open the relational store
	dsn := cfg.Store.Path
	if cfg.Store.Driver == "mysql" {
		dsn = cfg.Store.MySQLDSN()
	}
	store, err := repository.Open(cfg.Store.Driver, dsn)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer store.Close()
	log.Printf("Store initialized (%s)", store.Driver())

	// Select the flat cache backend for the proxy routes
	var flatCache cache.Cache
	switch cfg.Cache.Backend {
	case "redis":
		redisCache, err := cache.NewRedisCache(cache.RedisConfig{
			Addr:     cfg.Cache.RedisAddress(),
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
		})
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisCache.Close()
		flatCache = redisCache
		log.Println("Redis proxy cache initialized")
	case "memory":
		memCache := cache.NewMemoryCache()
		defer memCache.Close()
		flatCache = memCache
		log.Println("In-memory proxy cache initialized")
	default:
		sqlCache, err := cache.NewSQLCache(store.DB(), store.Driver(), cfg.Cache.SweepProbability)
		if err != nil {
			log.Fatalf("Failed to initialize proxy cache: %v", err)
		}
		flatCache = sqlCache
		log.Println("Database proxy cache initialized")
	}

	// Upstream provider clients
	tmdb := upstream.NewTMDBClient(
		upstream.NewClient("tmdb", cfg.Upstream.Timeout, cfg.Upstream.TMDB().RatePerMin, cfg.Upstream.Retries),
		cfg.Upstream.TMDB().BaseURL, cfg.Upstream.TMDB().Key)
	alphaVantage := upstream.NewAlphaVantageClient(
		upstream.NewClient("alphavantage", cfg.Upstream.Timeout, cfg.Upstream.AlphaVantage().RatePerMin, cfg.Upstream.Retries),
		cfg.Upstream.AlphaVantage().BaseURL, cfg.Upstream.AlphaVantage().Key)
	news := upstream.NewNewsClient(
		upstream.NewClient("news", cfg.Upstream.Timeout, cfg.Upstream.News().RatePerMin, cfg.Upstream.Retries),
		cfg.Upstream.News().BaseURL, cfg.Upstream.News().Key)
	jamendo := upstream.NewMusicClient(
		upstream.NewClient("jamendo", cfg.Upstream.Timeout, cfg.Upstream.Jamendo().RatePerMin, cfg.Upstream.Retries),
		cfg.Upstream.Jamendo().BaseURL, cfg.Upstream.Jamendo().Key)

	// Services
	stockService := service.NewStockService(repository.NewStockRepo(store), alphaVantage,
		cfg.TTL.StockList, cfg.TTL.StockOverview)
	movieService := service.NewMovieService(repository.NewMovieRepo(store), tmdb,
		cfg.TTL.MovieList, cfg.TTL.MovieEntity)
	newsService := service.NewNewsService(repository.NewNewsRepo(store), news,
		cfg.TTL.NewsList, cfg.TTL.NewsArticle)
	musicService := service.NewMusicService(repository.NewMusicRepo(store), jamendo,
		cfg.TTL.MusicList)
	proxyService := service.NewProxyService(flatCache, cfg.TTL.ProxyCache,
		tmdb, alphaVantage, news, jamendo)

	// Router
	r := router.New(router.Config{
		HealthHandler: handler.NewHealthHandler(store),
		StockHandler:  handler.NewStockHandler(stockService),
		MovieHandler:  handler.NewMovieHandler(movieService),
		NewsHandler:   handler.NewNewsHandler(newsService),
		MusicHandler:  handler.NewMusicHandler(musicService),
		ProxyHandler:  handler.NewProxyHandler(proxyService),
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server listening on %s", cfg.Server.Address())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
}
