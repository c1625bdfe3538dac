package main

import (
	"context"
	"log"
	"manifest-route-service/internal/api"
	"manifest-route-service/internal/api/dto"
	"manifest-route-service/internal/app"
	"manifest-route-service/internal/config"
	"net/http"
	"os/signal"
	"syscall"
	"time"
)

// main is the application composition root.
// It loads configuration, wires the planning pipeline and starts the HTTP server.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.Build(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer a.Close()

	router := api.NewRouter(a.Planner, dto.PipelineInfo{
		CacheBackend: cfg.CacheBackend,
		Geocoder:     cfg.Geocoder,
		Router:       cfg.Router,
	})

	// Timeouts are tuned for cold-cache manifests: each distinct address costs
	// at least one geocoder interval.
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      10 * time.Minute,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("server shutdown: %v", err)
		}
	}()

	log.Printf("Server listening addr=:%s", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}
