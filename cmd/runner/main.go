package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mtlminiapps/runner/core/config"
	"github.com/mtlminiapps/runner/core/logger"
	"github.com/mtlminiapps/runner/core/server"
	"github.com/mtlminiapps/runner/core/signer"
	"github.com/mtlminiapps/runner/httpserver"
	"github.com/mtlminiapps/runner/storage/pg"
)

type appConfig struct {
	Server server.Config
	PG     pg.Config
	HTTP   httpserver.Config

	AppName  string `env:"APP_NAME" envDefault:"runner"`
	Env      string `env:"APP_ENV" envDefault:"development"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// SecretKey signs link payloads. When absent a random key is generated;
	// links issued under a generated key stop resolving after a restart.
	SecretKey string `env:"SECRET_KEY"`
}

func main() {
	var cfg appConfig
	config.MustLoad(&cfg)

	logOpts := []logger.Option{
		logger.WithService(cfg.AppName),
		logger.WithLevelString(cfg.LogLevel),
	}
	if cfg.Env == "production" {
		logOpts = append(logOpts, logger.WithJSON())
	}
	log := logger.New(logOpts...)

	if err := run(cfg, log); err != nil {
		log.Error("service failed", logger.Error(err))
		os.Exit(1)
	}
}

func run(cfg appConfig, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The secret key is established exactly once, before the server accepts
	// requests, and treated as immutable afterwards.
	key, generated, err := signer.LoadKey(cfg.SecretKey)
	if err != nil {
		return err
	}
	if generated {
		log.Warn("no SECRET_KEY set, generated a random key; previously issued links will not resolve",
			logger.Event("key_generated"),
			slog.String("key", string(key)),
		)
	}

	pool, err := pg.Connect(ctx, cfg.PG)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := pg.Migrate(ctx, pool); err != nil {
		return err
	}

	store := pg.NewStore(pool)

	admin, err := store.EnsureAdmin(ctx, string(key))
	if err != nil {
		return err
	}
	log.Info("admin account ready", logger.Component("storage"), logger.UserID(admin.ID))

	svc, err := httpserver.New(cfg.HTTP, log, store, key, admin.ID)
	if err != nil {
		return err
	}

	srv, err := server.NewFromConfig(cfg.Server, server.WithLogger(log))
	if err != nil {
		return err
	}

	return srv.Run(ctx, svc.Handler())()
}
