package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/studiobook/studiobook-api/internal/config"
	"github.com/studiobook/studiobook-api/internal/domain/admin"
	"github.com/studiobook/studiobook-api/internal/domain/bookingform"
	"github.com/studiobook/studiobook-api/internal/domain/dashboard"
	"github.com/studiobook/studiobook-api/internal/domain/stream"
	"github.com/studiobook/studiobook-api/internal/middleware"
	"github.com/studiobook/studiobook-api/internal/pkg/backend"
	"github.com/studiobook/studiobook-api/internal/pkg/dispatch"
	"github.com/studiobook/studiobook-api/internal/pkg/jwt"
	"github.com/studiobook/studiobook-api/internal/pkg/logger"
	"github.com/studiobook/studiobook-api/internal/pkg/response"
)

const userAgent = "studiobook-api/1.0"

func main() {
	cfg := config.Load()
	logger.Init(logger.Config{Level: cfg.LogLevel, Environment: cfg.Env})

	log.Info().
		Str("env", cfg.Env).
		Str("port", cfg.Port).
		Str("backend", cfg.BackendBaseURL).
		Msg("Starting StudioBook API")

	client := backend.NewClient(cfg.BackendBaseURL, backend.AuthConfig{
		Scheme:       cfg.BackendAuthScheme,
		Token:        cfg.BackendToken,
		Username:     cfg.BackendUsername,
		Password:     cfg.BackendPassword,
		APIKeyHeader: cfg.BackendAPIKeyHeader,
		APIKey:       cfg.BackendAPIKey,
		CSRFCookie:   cfg.BackendCSRFCookie,
		CSRFHeader:   cfg.BackendCSRFHeader,
	}, time.Duration(cfg.BackendTimeoutSeconds)*time.Second, userAgent)

	jwtService := jwt.NewService(cfg.JWTSecret, cfg.JWTAccessTTL)

	// ---------- Dispatch loop ----------
	// All UI-facing state lives behind a single loop.
	loop := dispatch.NewLoop(256)
	go loop.Run()
	defer loop.Stop()

	// ---------- WebSocket hub ----------
	eventHub := stream.NewHub()
	go eventHub.Run()
	defer eventHub.Shutdown()

	// ---------- Services ----------
	store := dashboard.NewStore(loop, client, eventHub, cfg.BookingsPageSize)
	formService := bookingform.NewService(loop, client, store, cfg.FormSessionTTL)
	adminService := admin.NewService(cfg.AdminPasswordHash, jwtService, cfg.JWTAccessTTL)

	// Expired form sessions are swept in the background.
	sweepDone := make(chan struct{})
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-sweepDone:
				return
			case <-ticker.C:
				formService.Sweep()
			}
		}
	}()
	defer close(sweepDone)

	// ---------- Handlers ----------
	formHandler := bookingform.NewHandler(formService)
	dashboardHandler := dashboard.NewHandler(store)
	adminHandler := admin.NewHandler(adminService)
	streamHandler := stream.NewHandler(eventHub, cfg.AllowedOrigins)

	authMiddleware := middleware.Auth(jwtService)

	// ---------- Router ----------
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recover)
	r.Use(middleware.CORSHandler(cfg.AllowedOrigins))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		response.OK(w, map[string]string{
			"status":  "ok",
			"version": "1.0.0",
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Mount("/form", formHandler.Routes())
		r.Get("/providers", formHandler.Providers)
		r.Get("/providers/{id}/availability", formHandler.ProviderAvailability)

		r.Route("/admin", func(r chi.Router) {
			admin.Routes(r, adminHandler)

			r.Group(func(r chi.Router) {
				r.Use(authMiddleware)
				dashboard.Routes(r, dashboardHandler)
				r.Get("/events", streamHandler.Events)
			})
		})
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited properly")
}
