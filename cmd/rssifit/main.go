package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/RMahshie/rssifit/internal/config"
	"github.com/RMahshie/rssifit/internal/pathloss"
	"github.com/RMahshie/rssifit/internal/processing"
	"github.com/RMahshie/rssifit/internal/report"
	"github.com/RMahshie/rssifit/internal/repository/files"
)

func main() {
	// Configure zerolog for structured logging; stdout is reserved for the report
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	zerolog.SetGlobalLevel(cfg.Logging.Level)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repo, err := files.NewDirRepository(cfg.Data.Dir, cfg.Data.Pattern)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open measurement directory")
	}

	fitter := processing.NewLMFitter(pathloss.Options{
		Initial:        pathloss.Model{C: cfg.Fit.InitialC, N: cfg.Fit.InitialN},
		MaxEvaluations: cfg.Fit.MaxEvaluations,
	})
	svc := processing.NewFitService(repo, fitter)

	log.Debug().
		Str("dir", cfg.Data.Dir).
		Str("pattern", cfg.Data.Pattern).
		Str("env", cfg.Env).
		Msg("Starting fit")

	result, err := svc.Run(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Fit failed")
	}

	if err := report.Write(os.Stdout, result); err != nil {
		log.Fatal().Err(err).Msg("Failed to write report")
	}
}
