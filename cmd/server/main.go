package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	cli "github.com/spf13/pflag"

	"github.com/iliyamo/vaani/internal/config"
	"github.com/iliyamo/vaani/internal/database"
	"github.com/iliyamo/vaani/internal/handler"
	"github.com/iliyamo/vaani/internal/intent"
	"github.com/iliyamo/vaani/internal/logger"
	"github.com/iliyamo/vaani/internal/middleware"
	"github.com/iliyamo/vaani/internal/proxy"
	"github.com/iliyamo/vaani/internal/queue"
	"github.com/iliyamo/vaani/internal/render"
	"github.com/iliyamo/vaani/internal/repository"
	"github.com/iliyamo/vaani/internal/router"
	"github.com/iliyamo/vaani/internal/service"
)

func main() {
	envFile := cli.StringP("env", "e", ".env", "Env file path")
	logLevel := cli.StringP("log", "l", "", "Log level (overrides LOG_LEVEL)")
	cli.Parse()

	// A missing env file is fine; the environment may already be populated.
	envErr := godotenv.Load(*envFile)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "err", err)
		os.Exit(1)
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	level, lvlErr := logger.ParseLevel(cfg.LogLevel)
	log := logger.New(os.Stdout, cfg.Env, level)
	slog.SetDefault(log)
	if lvlErr != nil {
		log.Warn("falling back to info level", "err", lvlErr)
	}
	if envErr != nil {
		log.Debug("env file not loaded", "path", *envFile, "err", envErr)
	}
	log.Info("booting up", "config", cfg.String())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(ctx, cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		log.Error("open database", "driver", cfg.DBDriver, "err", err)
		os.Exit(1)
	}
	defer db.Close()

	users := repository.NewUserRepo(db)
	sites := repository.NewWebsiteRepo(db)

	upstream, err := proxy.NewHTTPClient(cfg.EgressProxy, cfg.UpstreamTimeout)
	if err != nil {
		log.Error("build upstream client", "proxy", cfg.EgressProxy, "err", err)
		os.Exit(1)
	}
	if cfg.HFToken == "" {
		log.Warn("HF_TOKEN not set; voice commands will fail")
	}
	if cfg.GeminiAPIKey == "" {
		log.Warn("GEMINI_API_KEY not set; commands will fail")
	}
	resolver := intent.NewResolver(
		intent.NewHFTranscriber(cfg.TranscribeURL, cfg.HFToken, upstream, cfg.UpstreamRetries),
		intent.NewChatInterpreter(intent.ChatOptions{
			APIKey:     cfg.GeminiAPIKey,
			BaseURL:    cfg.InterpretBaseURL,
			Model:      cfg.InterpretModel,
			HTTPClient: upstream,
			Timeout:    cfg.UpstreamTimeout,
			Retries:    cfg.UpstreamRetries,
		}),
	)

	var events handler.EventPublisher
	if cfg.EventsEnabled {
		events = service.NewQueuePublisher(cfg.AMQPURL)
		consumer := &queue.AuditConsumer{URL: cfg.AMQPURL, LogPath: cfg.AuditLogPath, Log: log}
		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("audit consumer stopped", "err", err)
			}
		}()
		log.Info("change events enabled", "audit_log", cfg.AuditLogPath)
	}

	rdb := config.NewRedisClient(ctx)
	if rdb != nil {
		defer rdb.Close()
	}
	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	renderer, err := render.New()
	if err != nil {
		log.Error("load templates", "err", err)
		os.Exit(1)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = renderer
	e.Use(middleware.RequestLogger(log))

	site := handler.NewWebsiteHandler(users, sites, events)
	router.RegisterRoutes(e, handler.NewHealthHandler(db), site)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users), cfg.SessionSecret)
	router.RegisterSite(e, site, cfg.SessionSecret)
	router.RegisterCommands(e, handler.NewCommandHandler(resolver, sites, events), cfg.SessionSecret, limiter)

	addr := ":" + cfg.Port
	go func() {
		log.Info("listening", "addr", addr, "env", cfg.Env)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "err", err)
	}
}
