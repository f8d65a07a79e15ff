// Command veridash runs the verification dashboard controller service.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/veridash/veridash/internal/api"
	"github.com/veridash/veridash/internal/config"
	"github.com/veridash/veridash/internal/controller"
	"github.com/veridash/veridash/internal/history"
	"github.com/veridash/veridash/internal/notify"
	"github.com/veridash/veridash/internal/verify"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	generateConfig := flag.Bool("generate-config", false, "Generate a sample configuration file and exit")
	flag.Parse()

	if *generateConfig {
		if err := config.GenerateSample(*configPath); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to generate config: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Sample configuration written to %s\n", *configPath)
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	setupLogging(cfg.Logging)

	store, err := history.NewSQLiteStore(cfg.History.Path)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open report archive")
	}
	defer store.Close()

	service, err := verify.New(&cfg.Verifier)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create verification backend")
	}
	log.Info().Str("backend", service.Name()).Msg("Verification backend ready")

	notifier := notify.NewNotifier()
	ctrl := controller.New(service, notifier,
		controller.WithHistory(store),
		controller.WithTimeout(cfg.Verifier.Timeout()),
	)

	router := api.NewRouter(cfg, ctrl, notifier, store)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("Server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Shutdown failed")
	}
}

func setupLogging(cfg config.LoggingConfig) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Format == "text" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}
