// Package main is the entry point for the Voyago API server.
// Its sole responsibility is wiring dependencies together and starting the
// server. No business logic belongs here.
package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx" driver for database/sql
	"github.com/pressly/goose/v3"
	"golang.org/x/time/rate"

	"github.com/nribeiro/voyago/internal/config"
	"github.com/nribeiro/voyago/internal/handler"
	"github.com/nribeiro/voyago/internal/middleware"
	"github.com/nribeiro/voyago/internal/provider"
	"github.com/nribeiro/voyago/internal/repo"
	"github.com/nribeiro/voyago/internal/service"
	"github.com/nribeiro/voyago/migrations"
)

const (
	// maxBodyBytes caps request bodies; the largest legitimate payload is a
	// full trip update with its itinerary.
	maxBodyBytes = 1 << 20

	// Per-IP rate limit for the whole API surface.
	rateLimitRPS   = 20
	rateLimitBurst = 40
)

func main() {
	// --- Config -----------------------------------------------------------
	cfg, err := config.Load()
	if err != nil {
		// Use plain stderr before the logger is configured.
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	// log/slog is the stdlib structured logger introduced in Go 1.21.
	// JSON handler writes machine-readable output suitable for log aggregators.
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// --- Database ---------------------------------------------------------
	// pgxpool manages a pool of Postgres connections.
	// New() does not open connections immediately — the first query does.
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to create database pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Verify the DB is reachable before accepting traffic.
	if err := pool.Ping(context.Background()); err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	slog.Info("database connection established")

	if err := migrate(cfg.DatabaseURL); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// --- Travel providers -------------------------------------------------
	// The embedded fixtures always load: they back the showcase endpoints,
	// and in mock mode they stand in for every travel API.
	providers, fixtures, err := buildProviders(cfg)
	if err != nil {
		slog.Error("failed to load embedded fixtures", "error", err)
		os.Exit(1)
	}
	if cfg.MockMode {
		slog.Info("mock mode enabled: serving embedded fixture data")
	}

	// --- Services ---------------------------------------------------------
	trips := service.NewTripService(repo.NewTripRepo(pool), repo.NewItineraryRepo(pool))
	auth := service.NewAuthService(service.AuthConfig{
		GoogleClientID:     cfg.GoogleClientID,
		GoogleClientSecret: cfg.GoogleClientSecret,
		RedirectURL:        cfg.GoogleRedirectURL,
		JWTSecret:          []byte(cfg.JWTSecret),
	}, repo.NewUserRepo(pool))
	showcase := service.NewShowcaseService(fixtures)

	// --- Router -----------------------------------------------------------
	// Middleware order: RequestID → RealIP → Logger → Recoverer → CORS →
	// rate limit → body cap → in-flight counter. RealIP must precede the
	// rate limiter so limits key on the client address, not the proxy's.
	inflight := middleware.NewInflightCounter()

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewRateLimitHandler(rate.Limit(rateLimitRPS), rateLimitBurst))
	r.Use(middleware.NewMaxBodySizeHandler(maxBodyBytes))
	r.Use(inflight.Handler)

	srvHandler := handler.NewServer(logger, trips, auth, showcase, providers, inflight, cfg.FrontendURL)
	r.Mount("/", srvHandler.Routes())

	// --- HTTP Server ------------------------------------------------------
	// Explicit timeouts prevent slowloris and resource exhaustion attacks.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown: wait for OS signal, then give in-flight requests
	// up to 15 seconds to complete before forcefully closing.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	slog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// migrate applies pending embedded migrations. goose needs database/sql,
// not the pgx pool, so it gets its own short-lived connection.
func migrate(databaseURL string) error {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	gooseProvider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		return err
	}

	results, err := gooseProvider.Up(context.Background())
	if err != nil {
		return err
	}
	for _, res := range results {
		slog.Info("applied migration", "source", res.Source.Path, "duration", res.Duration)
	}
	return nil
}

// buildProviders wires one client per travel category: real API clients
// normally, the shared fixture set in mock mode. The fixtures load either
// way because the showcase endpoints serve their curated content.
func buildProviders(cfg config.Config) (*provider.Providers, *provider.Fixtures, error) {
	if cfg.MockMode {
		return provider.FixtureProviders()
	}

	fixtures, err := provider.NewFixtures()
	if err != nil {
		return nil, nil, err
	}

	// Empty base URLs select each client's production endpoint.
	return &provider.Providers{
		Flights:     provider.NewAmadeus("", cfg.AmadeusAPIKey, cfg.AmadeusAPISecret),
		Hotels:      provider.NewBookingHotels("", cfg.HotelAPIKey),
		Cars:        provider.NewPricelineCars("", cfg.CarRentalAPIKey),
		Tours:       provider.NewViatorTours("", cfg.ToursAPIKey),
		Transport:   provider.NewAPITransport("", cfg.TransportAPIKey),
		Attractions: provider.NewOpenTripMap("", cfg.AttractionsAPIKey),
	}, fixtures, nil
}
