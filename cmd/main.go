package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Kosench/expiring-link-bot/internal/bot"
	"github.com/Kosench/expiring-link-bot/internal/config"
	"github.com/Kosench/expiring-link-bot/internal/database"
	"github.com/Kosench/expiring-link-bot/internal/handler"
	"github.com/Kosench/expiring-link-bot/internal/logger"
	"github.com/Kosench/expiring-link-bot/internal/redisdb"
	"github.com/Kosench/expiring-link-bot/internal/repository"
	"github.com/Kosench/expiring-link-bot/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to load config:", err)
		os.Exit(1)
	}

	log := logger.NewLogger(cfg.App.LogLevel, cfg.IsDevelopment())

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("bot stopped with error")
	}
	log.Info().Msg("✅ Bot gracefully stopped")
}

func run(cfg *config.Config, log *zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	linkRepo, closer, err := openStore(cfg, log)
	if err != nil {
		return err
	}
	defer closer.Close()

	linkService := service.NewLinkService(linkRepo, cfg.GetBaseURL(),
		service.WithIssuer(service.NewRandomIssuer(cfg.App.TokenLength)),
		service.WithMaxRetries(cfg.App.MaxRetries),
	)
	conversation := service.NewConversationService(linkService, cfg.LinkPolicy())

	tg, err := bot.NewTelegramBot(cfg.Bot.Token, log)
	if err != nil {
		return fmt.Errorf("failed to connect to telegram: %w", err)
	}
	dispatcher := bot.NewDispatcher(conversation, tg, log)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	routes := handler.RouterConfig{
		AllowedOrigins: cfg.GetAllowedOrigins(),
		Log:            log,
		Links:          handler.NewLinkHandler(linkService, log),
		Health:         handler.NewHealthHandler(linkRepo, cfg.Storage.Driver),
	}
	if cfg.Bot.Mode == config.BotModeWebhook {
		routes.Bot = handler.NewBotHandler(dispatcher, cfg.Bot.WebhookSecret, log)
	}

	srv := &http.Server{
		Addr:           cfg.GetServerAddress(),
		Handler:        handler.NewRouter(routes),
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	errCh := make(chan error, 2)

	go func() {
		log.Info().
			Str("addr", srv.Addr).
			Str("base_url", cfg.GetBaseURL()).
			Msg("🚀 HTTP server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	switch cfg.Bot.Mode {
	case config.BotModeWebhook:
		if err := tg.RegisterWebhook(cfg.WebhookURL()); err != nil {
			return fmt.Errorf("failed to register webhook: %w", err)
		}
		log.Info().Msg("🤖 Bot receiving updates via webhook")
	default:
		go func() {
			log.Info().Msg("🤖 Bot receiving updates via long polling")
			if err := tg.RunPolling(ctx, dispatcher, cfg.Bot.PollTimeout); err != nil {
				errCh <- fmt.Errorf("polling: %w", err)
			}
		}()
	}

	select {
	case <-ctx.Done():
		log.Info().Msg("Shutting down...")
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}

// openStore открывает хранилище ссылок по storage.driver
func openStore(cfg *config.Config, log *zerolog.Logger) (repository.LinkRepository, io.Closer, error) {
	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		db, err := database.ConnectPostgres(
			cfg.Database.Host,
			cfg.Database.Port,
			cfg.Database.User,
			cfg.Database.Password,
			cfg.Database.DBName)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect database: %w", err)
		}
		repo := repository.NewPostgresLinkRepository(db)
		logStoreVersion(log, cfg.Storage.Driver, repo.Version)
		return repo, db, nil

	case config.DriverRedis:
		client, err := redisdb.NewRedisClient(redisdb.RedisConfig{
			Host:         cfg.Redis.Host,
			Port:         cfg.Redis.Port,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
			MaxRetries:   cfg.Redis.MaxRetries,
			Namespace:    cfg.Redis.Namespace,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		logStoreVersion(log, cfg.Storage.Driver, func() (string, error) {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return client.Info(ctx)
		})
		return repository.NewRedisLinkRepository(client), client, nil

	case config.DriverMemory:
		log.Warn().Msg("⚠️  In-memory storage: links are lost on restart")
		return repository.NewMemoryLinkRepository(), io.NopCloser(nil), nil

	default:
		db, err := database.OpenSQLite(cfg.Storage.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open sqlite %s: %w", cfg.Storage.SQLitePath, err)
		}
		repo := repository.NewSQLiteLinkRepository(db)
		logStoreVersion(log, cfg.Storage.Driver, repo.Version)
		return repo, db, nil
	}
}

func logStoreVersion(log *zerolog.Logger, driver string, version func() (string, error)) {
	v, err := version()
	if err != nil {
		log.Warn().Err(err).Str("driver", driver).Msg("failed to read storage version")
		return
	}
	log.Info().Str("driver", driver).Str("version", v).Msg("✅ Successfully connected to storage")
}
