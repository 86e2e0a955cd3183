package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/meetmax/meetmax-api/internal/app"
	"github.com/meetmax/meetmax-api/internal/auth"
	"github.com/meetmax/meetmax-api/internal/mailer"
	"github.com/meetmax/meetmax-api/internal/platform/cache"
	"github.com/meetmax/meetmax-api/internal/platform/db"
	"github.com/meetmax/meetmax-api/internal/token"
	"github.com/meetmax/meetmax-api/internal/users"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	// Login throttling degrades gracefully without redis; everything else
	// keeps working.
	var loginLimiter func(http.Handler) http.Handler
	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis unavailable, login throttling disabled", slog.Any("error", err))
	} else {
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Warn("redis close", slog.Any("error", err))
			}
		}()
		loginLimiter = auth.NewLoginLimiter(redisClient, logger, cfg.LoginMaxAttempts, cfg.LoginWindow).Middleware
	}

	codec := token.NewCodec(token.Config{
		AccessSecret:  []byte(cfg.AccessTokenSecret),
		RefreshSecret: []byte(cfg.RefreshTokenSecret),
		EmailSecret:   []byte(cfg.EmailTokenSecret),
		AccessTTL:     cfg.AccessTokenTTL,
		RefreshTTL:    cfg.RefreshTokenTTL,
		EmailTTL:      cfg.EmailTokenTTL,
	})

	sender, err := mailer.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPFrom)
	if err != nil {
		logger.Error("init mailer", slog.Any("error", err))
		os.Exit(1)
	}

	authStore := auth.NewStore(dbpool)
	authService := auth.NewService(authStore, sender, codec, cfg.AppBaseURL, cfg.BcryptCost)
	authHandler := auth.NewHandler(logger, authService)

	usersStore := users.NewStore(dbpool)
	usersService := users.NewService(usersStore, cfg.BcryptCost)
	usersHandler := users.NewHandler(logger, usersService)

	router := app.NewRouter(app.RouterParams{
		Logger:       logger,
		Config:       cfg,
		AuthHandler:  authHandler,
		UsersHandler: usersHandler,
		AuthGate:     auth.RequireAuth(codec),
		LoginLimiter: loginLimiter,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
