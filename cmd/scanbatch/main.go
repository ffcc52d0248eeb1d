package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/scanworks/passport-scanner/constants"
	"github.com/scanworks/passport-scanner/internal/batch"
	"github.com/scanworks/passport-scanner/internal/common"
	"github.com/scanworks/passport-scanner/internal/docai"
	"github.com/scanworks/passport-scanner/internal/enhance"
	"github.com/scanworks/passport-scanner/internal/export"
	"github.com/scanworks/passport-scanner/internal/normalize"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		dir     = flag.String("dir", "", "directory of passport files to process (required)")
		out     = flag.String("out", "", "output file path (optional, defaults to parent directory)")
		format  = flag.String("format", "csv", "export format: csv or xlsx")
		workers = flag.Int("workers", 0, "scan concurrency (overrides BATCH_CONCURRENCY)")
	)
	flag.Parse()

	if *dir == "" {
		printError("Error: --dir is required\n")
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	ctx := context.Background()

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	if *workers > 0 {
		cfg.Batch.Concurrency = *workers
	}

	exportFormat, err := export.ParseFormat(*format)
	if err != nil {
		printError("Error: unknown --format %q, use csv or xlsx\n", *format)
		os.Exit(1)
	}
	if *out == "" {
		*out = filepath.Join(filepath.Dir(*dir), "pasaportes_"+time.Now().Format("2006-01-02")+"."+string(exportFormat))
	}

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

	norm := normalize.New()
	session := batch.NewSession(batch.NewSeenSet())

	// Enqueue every supported file in the directory.
	entries, err := os.ReadDir(*dir)
	if err != nil {
		logger.Error("reading directory", "dir", *dir, "error", err)
		os.Exit(1)
	}
	skipped := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := constants.NormalizeExt(filepath.Ext(entry.Name()))
		if _, ok := constants.AllowedExtensions[ext]; !ok {
			skipped++
			continue
		}
		path := filepath.Join(*dir, entry.Name())
		content, err := os.ReadFile(path)
		if err != nil {
			logger.Error("reading file", "path", path, "error", err)
			skipped++
			continue
		}
		if len(content) > constants.MaxUploadBytes {
			logger.Warn("file exceeds size limit, skipping", "path", path, "bytes", len(content))
			skipped++
			continue
		}
		if _, err := session.Add(entry.Name(), constants.MIMEForExt(ext), content); err != nil {
			logger.Error("enqueueing file", "path", path, "error", err)
			os.Exit(1)
		}
	}
	counters := session.Counters()
	if counters.Total == 0 {
		printError("Error: no supported files found in %s\n", *dir)
		os.Exit(1)
	}
	logger.Info("files enqueued", "count", counters.Total, "skipped", skipped)

	scheduler := batch.NewScheduler(scanner, norm, logger,
		batch.WithWorkers(cfg.Batch.Concurrency),
		batch.WithScanTimeout(cfg.Batch.ScanTimeout),
	)
	if err := scheduler.Run(ctx, session); err != nil {
		logger.Error("batch run failed", "error", err)
		os.Exit(1)
	}

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
	}
	exporter := export.NewService(norm, logger, exportOpts...)

	res, err := exporter.Export(ctx, session.CompletedResults(), exportFormat)
	if err != nil {
		logger.Error("export failed", "error", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*out, res.Data, 0644); err != nil {
		logger.Error("writing output file", "path", *out, "error", err)
		os.Exit(1)
	}

	counters = session.Counters()
	fmt.Printf("Batch processing complete!\n")
	fmt.Printf("- Files scanned: %d\n", counters.Total)
	fmt.Printf("- Completed: %d\n", counters.Completed)
	fmt.Printf("- Duplicates: %d\n", counters.Duplicates)
	fmt.Printf("- Failures: %d\n", counters.Failed)
	fmt.Printf("- Output: %s\n", *out)

	// Non-zero exit when nothing succeeded helps shell pipelines notice.
	if counters.Completed == 0 {
		os.Exit(1)
	}
}
