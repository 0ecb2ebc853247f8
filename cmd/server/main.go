package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/taskdeck/taskdeck/internal/core/ports"
	"github.com/taskdeck/taskdeck/internal/infrastructure/config"
	redisconn "github.com/taskdeck/taskdeck/internal/infrastructure/db/redis"
	"github.com/taskdeck/taskdeck/internal/infrastructure/guard"
	"github.com/taskdeck/taskdeck/internal/infrastructure/session"
	"github.com/taskdeck/taskdeck/internal/upstream"
	"github.com/taskdeck/taskdeck/internal/web"
	"github.com/taskdeck/taskdeck/pkg/logger"

	goredis "github.com/redis/go-redis/v9"
)

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	api := upstream.NewClient(cfg.Upstream.BaseURL, time.Duration(cfg.Upstream.TimeoutSeconds)*time.Second, log)
	tokens := session.NewCookieStore(cfg.SessionSecret, cfg.Env != "development")

	// Redis is optional: without it the submit guard falls back to the
	// in-process implementation, which is fine for a single replica.
	var (
		submitGuard ports.SubmitGuard
		rdb         *goredis.Client
	)
	if cfg.Redis.Addr != "" {
		var err error
		rdb, err = redisconn.Connect(ctx, redisconn.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis connection failed")
		}
		defer rdb.Close()
		submitGuard = guard.NewRedisGuard(rdb)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("submit guard backed by redis")
	} else {
		submitGuard = guard.NewMemoryGuard()
		log.Info().Msg("submit guard running in-memory")
	}

	e, err := web.NewRouter(cfg, api, tokens, submitGuard, rdb, log)
	if err != nil {
		log.Fatal().Err(err).Msg("router setup failed")
	}

	go func() {
		log.Info().Str("port", cfg.Port).Str("upstream", cfg.Upstream.BaseURL).Msg("taskdeck frontend listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
