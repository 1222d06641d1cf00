package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vetgateway/frontend/geocoding"
	"vetgateway/infrastructure/audit"
	"vetgateway/infrastructure/cache"
	"vetgateway/infrastructure/config"
	httpserver "vetgateway/infrastructure/http"
	"vetgateway/infrastructure/sqlite"
	"vetgateway/infrastructure/upstream"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := sqlite.OpenDB(cfg.SQLitePath)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := sqlite.ApplyEmbeddedMigrations(ctx, db); err != nil {
		log.Fatalf("apply migrations: %v", err)
	}

	geocodeCache := cache.GeocodeCache(cache.NewMemoryGeocodeCache())
	if cfg.RedisAddr != "" {
		redisCache := cache.NewRedisGeocodeCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := redisCache.Ping(ctx); err != nil {
			log.Printf("redis unavailable (%v), using in-memory geocode cache", err)
		} else {
			geocodeCache = redisCache
			defer redisCache.Close()
			log.Println("geocode cache: redis")
		}
	} else {
		log.Println("geocode cache: in-memory")
	}

	client := upstream.New(cfg.APIBaseURL, cfg.UpstreamTimeout, cfg.MaxUpstreamPageLen)
	nominatim := geocoding.NewNominatim(cfg.NominatimURL, cfg.GeocoderUserAgent, cfg.UpstreamTimeout)
	geo := geocoding.NewService(nominatim, geocodeCache, cfg.GeocodeCacheTTL, cfg.SearchDebounce)
	auditSvc := audit.NewService(db)

	if cfg.JWTSecret == "" {
		log.Println("JWT_SECRET not set: token claims are read without signature verification, activity and export history are disabled")
	}

	server := httpserver.NewServer(cfg.Addr, db, client, geo, auditSvc, httpserver.AuthConfig{
		JWTSecret:    cfg.JWTSecret,
		SecureCookie: cfg.CookieSecure,
	})
	if err := server.Start(); err != nil {
		log.Fatalf("start server: %v", err)
	}
	log.Printf("vetgateway listening on %s (clinic api %s)", cfg.Addr, cfg.APIBaseURL)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	if err := server.Stop(); err != nil {
		log.Printf("graceful shutdown error: %v", err)
	}
}
