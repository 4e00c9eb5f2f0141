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

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/eaglebank/statement-service/internal/cli"
	"github.com/eaglebank/statement-service/internal/config"
	"github.com/eaglebank/statement-service/internal/events"
	"github.com/eaglebank/statement-service/internal/handler"
	"github.com/eaglebank/statement-service/internal/ingest"
	"github.com/eaglebank/statement-service/internal/logger"
	redisclient "github.com/eaglebank/statement-service/internal/redis"
	"github.com/eaglebank/statement-service/internal/repository"
	"github.com/eaglebank/statement-service/internal/service"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	command := "serve"
	if len(args) > 0 {
		command = args[0]
	}
	if command != "serve" && !cli.IsCommand(command) {
		return fmt.Errorf("%w: unknown command %s", cli.ErrUsage, command)
	}

	log := logger.NewWithOutput(cfg.Logging.Level, cfg.Logging.Format, logOutput(command))

	profiles, err := ingest.LoadProfiles(cfg.InstitutionsFile)
	if err != nil {
		return err
	}

	backend, err := repository.New(cfg.Storage.Repository())
	if err != nil {
		return err
	}
	svc := service.NewTransactionService(backend, log)
	defer func() {
		if err := svc.Close(context.Background()); err != nil {
			log.Error().Err(err).Msg("Failed to close storage")
		}
	}()
	importer := ingest.NewImporter(svc, log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = logger.WithContext(ctx, log)

	if command != "serve" {
		return cli.New(svc, importer, profiles, os.Stdout).Run(ctx, args)
	}

	emitter, closeEvents, err := newEmitter(ctx, cfg.Events, log)
	if err != nil {
		return err
	}
	defer closeEvents()

	return serve(ctx, cfg.HTTP, log, svc, importer, profiles, emitter)
}

// logOutput keeps logs off stdout for commands, which print their results
// there.
func logOutput(command string) io.Writer {
	if command == "serve" {
		return os.Stdout
	}
	return os.Stderr
}

func newEmitter(ctx context.Context, cfg config.EventsConfig, log zerolog.Logger) (*events.Emitter, func(), error) {
	if cfg.RedisAddr == "" {
		log.Info().Msg("Event publishing disabled")
		return events.NewEmitter(events.NopPublisher{}, log), func() {}, nil
	}

	client, err := redisclient.Connect(ctx, redisclient.Options{Addr: cfg.RedisAddr})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to events redis: %w", err)
	}
	return events.NewEmitter(events.NewStreamPublisher(client.Client, events.TransactionEventsStream), log), func() { client.Close() }, nil
}

func serve(ctx context.Context, cfg config.HTTPConfig, log zerolog.Logger, svc *service.TransactionService,
	importer *ingest.Importer, profiles ingest.Profiles, emitter *events.Emitter) error {
	gin.SetMode(gin.ReleaseMode)
	router := handler.NewRouter(log,
		handler.NewTransactionHandler(svc, svc, emitter),
		handler.NewUploadHandler(importer, profiles, emitter),
	)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Msg("Statement service starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
		log.Info().Msg("Shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}
