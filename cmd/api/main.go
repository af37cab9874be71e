package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/euroffersurv/rewards-api/internal/config"
	"github.com/euroffersurv/rewards-api/internal/domain/auth"
	"github.com/euroffersurv/rewards-api/internal/domain/dashboard"
	"github.com/euroffersurv/rewards-api/internal/domain/ledger"
	"github.com/euroffersurv/rewards-api/internal/domain/postback"
	"github.com/euroffersurv/rewards-api/internal/domain/user"
	"github.com/euroffersurv/rewards-api/internal/middleware"
	"github.com/euroffersurv/rewards-api/internal/pkg/database"
	"github.com/euroffersurv/rewards-api/internal/pkg/metrics"
)

func main() {
	cfg := config.Load()

	setupLogger(cfg)

	// Database
	db, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer database.ClosePostgres(db)

	// Redis
	redisClient, err := database.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer database.CloseRedis(redisClient)

	// Repositories
	userRepo := user.NewRepository(db)
	ledgerRepo := ledger.NewRepository(db)
	postbackLogs := postback.NewLogRepository(db)

	// Sessions
	sessionStore := auth.NewSessionStore(redisClient, cfg.SessionTTL)

	// Services
	authService := auth.NewService(userRepo, sessionStore)

	// Offerwall providers
	providers := buildProviders(cfg)

	// Handlers
	appMetrics := metrics.New()
	cookieCfg := auth.CookieConfig{
		Name:   cfg.SessionCookieName,
		TTL:    cfg.SessionTTL,
		Secure: cfg.SessionSecure,
	}
	authHandler := auth.NewHandler(authService, cookieCfg)
	dashboardHandler := dashboard.NewHandler(userRepo, ledgerRepo)
	postbackHandler := postback.NewHandler(ledgerRepo, postbackLogs, appMetrics, providers...)

	// Router
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recover)
	r.Use(middleware.CORSHandler(cfg.AllowedOrigins))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})
	r.Handle("/metrics", promhttp.Handler())

	// Provider webhooks, authenticated by signature or token, never by
	// session.
	r.Mount("/postbacks", postbackHandler.Routes())

	r.Route("/api/v1", func(r chi.Router) {
		r.Mount("/auth", authHandler.Routes())

		r.Group(func(r chi.Router) {
			r.Use(middleware.Session(cfg.SessionCookieName, sessionStore))
			r.Mount("/", dashboardHandler.Routes())
		})
	})

	// Server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}

func setupLogger(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.IsDevelopment() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}

// buildProviders constructs every configured offerwall integration. A
// provider with a bad policy or unit string is a deployment error, not
// something to limp past.
func buildProviders(cfg *config.Config) []postback.Provider {
	theoremReach, err := postback.NewTheoremReach(postback.Config{
		Secret:           cfg.TheoremReach.Secret,
		AmountUnit:       cfg.TheoremReach.AmountUnit,
		OnUnknownUser:    cfg.TheoremReach.OnUnknownUser,
		Canonicalization: cfg.TheoremReach.Canonicalization,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid TheoremReach configuration")
	}

	timeWall, err := postback.NewTimeWall(postback.Config{
		Secret:        cfg.TimeWall.Secret,
		AmountUnit:    cfg.TimeWall.AmountUnit,
		OnUnknownUser: cfg.TimeWall.OnUnknownUser,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid TimeWall configuration")
	}

	wannads, err := postback.NewWannads(postback.Config{
		Secret:        cfg.Wannads.Secret,
		AmountUnit:    cfg.Wannads.AmountUnit,
		OnUnknownUser: cfg.Wannads.OnUnknownUser,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid Wannads configuration")
	}

	return []postback.Provider{theoremReach, timeWall, wannads}
}
