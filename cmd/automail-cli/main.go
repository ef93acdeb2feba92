// automail-cli is a local harness for exercising the pipeline end to end:
// it generates (and optionally sends) the mail for one code and date.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/example/automail-service/internal/catalog"
	"github.com/example/automail-service/internal/config"
	"github.com/example/automail-service/internal/data"
	"github.com/example/automail-service/internal/dispatch"
	"github.com/example/automail-service/internal/generator"
	"github.com/example/automail-service/internal/mailer"
	"github.com/example/automail-service/internal/models"
	"github.com/example/automail-service/internal/util"
)

func main() {
	var (
		code    = flag.String("code", "", "mail code, e.g. PE")
		dateStr = flag.String("date", "", "reference date (YYYY-MM-DD), default today")
		message = flag.String("message", "", "optional additional message appended to the body")
		send    = flag.Bool("send", false, "deliver the mail instead of only previewing it")
	)
	flag.Parse()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	if *code == "" {
		logger.Fatal().Msg("-code is required")
	}

	date := time.Now()
	if *dateStr != "" {
		parsed, err := util.ParseDate(*dateStr)
		if err != nil {
			logger.Fatal().Err(err).Msg("invalid -date")
		}
		date = parsed
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	cat, err := catalog.Default()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build catalog")
	}
	if cfg.Catalog.Path != "" {
		if cat, err = catalog.LoadFile(cfg.Catalog.Path); err != nil {
			logger.Fatal().Err(err).Msg("failed to load catalog file")
		}
	}

	sources, err := data.Default(logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build data sources")
	}

	gen, err := generator.New(cat, sources, cfg.Sender, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build generator")
	}

	backend, err := mailer.New(cfg.Mail, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build mail backend")
	}

	dispatcher, err := dispatch.New(gen, backend, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build dispatcher")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if !*send {
		content, err := dispatcher.Preview(ctx, *code, date)
		if err != nil {
			logger.Fatal().Err(err).Msg("preview failed")
		}
		fmt.Printf("To: %s <%s>\nFrom: %s <%s>\nSubject: %s\n\n%s\n",
			content.RecipientName, content.RecipientEmail,
			content.SenderName, content.SenderEmail,
			content.Subject, content.Body)
		return
	}

	result := dispatcher.Dispatch(ctx, models.DispatchRequest{
		Code:              *code,
		Date:              date,
		AdditionalMessage: *message,
	})
	if !result.Success {
		logger.Fatal().Str("message", result.Message).Msg("dispatch failed")
	}
	fmt.Printf("sent to %s at %s (message id %s)\n",
		result.RecipientEmail, result.SentAt.Format(time.RFC3339), result.MessageID)
}
