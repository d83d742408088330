package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"wisbridge/internal/broker"
	"wisbridge/internal/config"
	"wisbridge/internal/logging"
	"wisbridge/internal/notification"
	"wisbridge/internal/ops"
	"wisbridge/internal/pipeline"
)

func main() {
	// Load .env first so local runs honour configuration tweaks.
	if err := godotenv.Overload(); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, ".env load warning: %v\n", err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load error: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(os.Stdout, logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Debug:  cfg.Logging.Debug,
	})
	slog.SetDefault(logger)
	slog.Info("setting up notification consumer",
		slog.String("broker", cfg.Broker.Kind),
		slog.String("outDir", cfg.Output.Dir),
	)

	if err := run(cfg, logger); err != nil {
		slog.Error("consumer stopped", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	validator, err := newValidator(cfg)
	if err != nil {
		return err
	}

	resolver := pipeline.NewResolver(cfg.Fetch.Timeout, cfg.Fetch.Retries, nil)
	writer := pipeline.NewWriter(cfg.Output.Dir)
	pipe := pipeline.New(validator, resolver, writer, pipeline.NewStats(), logger)
	pool := pipeline.NewPool(pipe, cfg.Pipeline.Workers, cfg.Pipeline.QueueSize, logger)

	var opsServer *ops.Server
	if cfg.Ops.Port != "" {
		opsServer = ops.NewServer(pipe.Stats())
		go func() {
			if err := opsServer.Start(cfg.Ops.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("ops server stopped", slog.Any("error", err))
			}
		}()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	source := newSource(cfg, logger)
	sourceErr := make(chan error, 1)
	go func() {
		sourceErr <- source.Run(ctx, pool.Submit)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		slog.Info("shutting down")
	case runErr = <-sourceErr:
	}

	pool.Shutdown()
	if opsServer != nil {
		opsServer.Close()
	}
	return runErr
}

func newValidator(cfg *config.Config) (*notification.Validator, error) {
	if cfg.SchemaPath != "" {
		return notification.NewValidatorFromFile(cfg.SchemaPath)
	}
	return notification.NewValidator()
}

func newSource(cfg *config.Config, logger *slog.Logger) broker.Source {
	if cfg.Broker.Kind == config.BrokerKafka {
		return broker.NewKafkaSource(cfg.Broker.URL, cfg.Broker.KafkaGroupID, cfg.Broker.KafkaTopics, logger)
	}
	return broker.NewAMQPSource(cfg.Broker.URL, cfg.Broker.Exchange, cfg.Broker.TopicFilter, logger)
}
