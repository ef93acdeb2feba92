package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/example/automail-service/internal/catalog"
	"github.com/example/automail-service/internal/config"
	"github.com/example/automail-service/internal/data"
	"github.com/example/automail-service/internal/dispatch"
	"github.com/example/automail-service/internal/generator"
	"github.com/example/automail-service/internal/logger"
	"github.com/example/automail-service/internal/mailer"
	"github.com/example/automail-service/internal/web"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		fail("config load", err)
	}

	baseLogger, err := logger.New(cfg.App.Env, cfg.App.LogLevel)
	if err != nil {
		fail("logger init", err)
	}
	log := baseLogger.With().Str("service", "automail-api").Logger()

	cat, err := buildCatalog(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build catalog")
	}

	sources, err := data.Default(log.With().Str("component", "data").Logger())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build data sources")
	}

	gen, err := generator.New(cat, sources, cfg.Sender, log.With().Str("component", "generator").Logger())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build generator")
	}

	backend, err := mailer.New(cfg.Mail, log.With().Str("component", "mailer").Logger())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build mail backend")
	}

	dispatcher, err := dispatch.New(gen, backend, log.With().Str("component", "dispatch").Logger())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build dispatcher")
	}

	server, err := web.NewServer(dispatcher, cat, sources, cfg.Dispatch.MaxInFlight, log.With().Str("component", "web").Logger())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build http server")
	}

	if err := server.Serve(ctx, cfg.App.Port); err != nil {
		log.Fatal().Err(err).Msg("http server failed")
	}

	log.Info().Msg("automail-api stopped")
}

func buildCatalog(cfg *config.Config) (*catalog.Catalog, error) {
	if cfg.Catalog.Path != "" {
		return catalog.LoadFile(cfg.Catalog.Path)
	}
	return catalog.Default()
}

func fail(stage string, err error) {
	fmt.Fprintf(os.Stderr, "automail-api: %s: %v\n", stage, err)
	os.Exit(1)
}
