package app

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"character-api/internal/auth"
	"character-api/internal/character"
	"character-api/internal/config"
	"character-api/internal/maintenance"
	"character-api/internal/observability"
	"character-api/internal/store"
	"character-api/internal/user"
)

type Options struct {
	LoadDotEnv bool
}

type Runtime struct {
	Handler http.Handler
	Config  config.Config
	Logger  *zap.Logger
	Close   func() error
}

// Build reads configuration from the environment and assembles the runtime.
func Build(options Options) (*Runtime, error) {
	cfg, err := config.Load(config.Options{LoadDotEnv: options.LoadDotEnv})
	if err != nil {
		return nil, err
	}

	logger, err := observability.NewLogger(cfg.Environment, cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	if err := observability.InitSentry(cfg.SentryDSN, cfg.Environment); err != nil {
		logger.Error("init_sentry_failed", zap.Error(err))
	}

	runtime, err := New(cfg, logger)
	if err != nil {
		_ = logger.Sync()
		return nil, err
	}
	return runtime, nil
}

func New(cfg config.Config, logger *zap.Logger) (*Runtime, error) {
	users := user.NewService(store.NewMemory[string, user.User](), cfg.BcryptCost)
	if err := users.BootstrapAdmin(context.Background(), cfg.AdminEmail, cfg.AdminPassword); err != nil {
		return nil, fmt.Errorf("bootstrap admin: %w", err)
	}
	userHandler := user.NewHandler(users)

	revocations := auth.NewMemoryRevocations()
	authenticator := auth.NewAuthenticator(auth.NewVerifier(cfg.JWTSecret), revocations, logger.Named("auth"))
	authHandler := auth.NewHandler(revocations, users, cfg.RevocationRetention)
	registerLimiter := auth.NewRateLimiter(cfg.RegisterRateLimitMax, cfg.RegisterRateLimitWindow)

	characterRepo := character.NewRepository(store.NewMemory[int64, character.Character](), logger.Named("character"))
	characterHandler := character.NewHandler(characterRepo)

	cleanupHandler := maintenance.NewCleanupHandler(revocations, logger.Named("maintenance"), cfg.CronSecret)

	protected := func(h http.HandlerFunc) http.Handler {
		return authenticator.Middleware(h)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", healthHandler)
	mux.Handle("POST /auth/register", registerLimiter.Middleware(http.HandlerFunc(userHandler.Register)))
	mux.Handle("POST /auth/logout", protected(authHandler.Logout))
	mux.HandleFunc("GET /internal/maintenance/cleanup", cleanupHandler.Handle)
	mux.HandleFunc("POST /internal/maintenance/cleanup", cleanupHandler.Handle)
	mux.HandleFunc("GET /characters", characterHandler.ListCharacters)
	mux.HandleFunc("GET /characters/{id}", characterHandler.GetCharacter)
	mux.Handle("POST /characters", protected(characterHandler.CreateCharacter))
	mux.Handle("PUT /characters/{id}", protected(characterHandler.UpdateCharacter))
	mux.Handle("DELETE /characters/{id}", protected(characterHandler.DeleteCharacter))

	handler := observability.RecoverMiddleware(logger, observability.RequestLoggingMiddleware(logger, mux))

	return &Runtime{
		Handler: handler,
		Config:  cfg,
		Logger:  logger,
		Close: func() error {
			observability.FlushSentry()
			_ = logger.Sync()
			return nil
		},
	}, nil
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]any{"status": "ok", "time": time.Now().UTC().Format(time.RFC3339)})
}
