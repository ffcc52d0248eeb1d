package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/scanworks/passport-scanner/internal/batch"
	"github.com/scanworks/passport-scanner/internal/common"
	"github.com/scanworks/passport-scanner/internal/docai"
	"github.com/scanworks/passport-scanner/internal/enhance"
	"github.com/scanworks/passport-scanner/internal/export"
	"github.com/scanworks/passport-scanner/internal/history"
	"github.com/scanworks/passport-scanner/internal/normalize"
	"github.com/scanworks/passport-scanner/internal/server"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	if cfg.Session.Secret == "" {
		logger.Error("SESSION_SECRET is required")
		os.Exit(1)
	}
	if cfg.Session.Password == "" {
		logger.Error("AUTH_PASSWORD is required")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	creds := []byte(cfg.DocAI.CredentialsJSON)
	projectID, err := docai.ProjectIDFromCredentials(creds)
	if err != nil {
		logger.Error("invalid document processor credentials", "error", err)
		os.Exit(1)
	}
	tokenSource, err := docai.ServiceAccountTokenSource(ctx, creds)
	if err != nil {
		logger.Error("building token source", "error", err)
		os.Exit(1)
	}
	tokens := docai.NewTokenCache(tokenSource, cfg.DocAI.TokenTTL, cfg.DocAI.TokenEarly, nil)

	scanner, err := docai.NewClient(docai.Config{
		ProjectID:   projectID,
		Location:    cfg.DocAI.Location,
		ProcessorID: cfg.DocAI.ProcessorID,
		Timeout:     cfg.DocAI.Timeout,
	}, tokens, logger)
	if err != nil {
		logger.Error("building scan client", "error", err)
		os.Exit(1)
	}

	norm := normalize.New(normalize.WithAddressResolver(addressResolver(cfg.Batch.AddressMode)))

	newDetector := func() batch.Detector {
		if cfg.Batch.Dedupe {
			return batch.NewSeenSet()
		}
		return batch.NewNoneDetector()
	}
	batches := server.NewBatches(cfg.Session.TTL, newDetector)

	store, err := history.Open(cfg.History.DSN, logger)
	if err != nil {
		logger.Error("opening history store", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warn("closing history store", "error", err)
		}
	}()

	scheduler := batch.NewScheduler(scanner, norm, logger,
		batch.WithWorkers(cfg.Batch.Concurrency),
		batch.WithScanTimeout(cfg.Batch.ScanTimeout),
		batch.WithRecorder(store),
	)

	exportOpts := []export.ServiceOption{}
	if cfg.LLM.APIKey != "" {
		enhancer := enhance.NewClient(enhance.Config{
			APIKey:      cfg.LLM.APIKey,
			BaseURL:     cfg.LLM.BaseURL,
			Model:       cfg.LLM.Model,
			Temperature: cfg.LLM.Temperature,
			Timeout:     cfg.LLM.Timeout,
		}, logger)
		exportOpts = append(exportOpts, export.WithEnhancer(enhancer, cfg.Batch.Concurrency))
		logger.Info("AI enhancement enabled", "model", cfg.LLM.Model)
	} else {
		logger.Warn("OPENAI_API_KEY not configured, exports will not be AI-enhanced")
	}
	exporter := export.NewService(norm, logger, exportOpts...)

	router := server.NewRouter(server.Deps{
		Sessions:  server.NewSessions(cfg.Session),
		Batches:   batches,
		Scheduler: scheduler,
		Scanner:   scanner,
		Norm:      norm,
		Exporter:  exporter,
		History:   store,
		Logger:    logger,
		RunCtx:    ctx,
	})

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("http serving", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http serve", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", "error", err)
	}
	logger.Info("stopped")
}

func addressResolver(mode string) normalize.AddressResolver {
	switch mode {
	case "sample":
		return normalize.SampleResolver{}
	case "ai":
		return normalize.AIResolver{Fallback: normalize.SentinelResolver{}}
	default:
		return normalize.SentinelResolver{}
	}
}
