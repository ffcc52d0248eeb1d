package enhance

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/scanworks/passport-scanner/internal/docai"
)

// EnhanceAll runs the enhancer over a slice of results with bounded
// concurrency. Output is position-aligned with the input; a failed
// enhancement keeps the original result in place, so the export path never
// loses a record to a flaky collaborator.
func EnhanceAll(ctx context.Context, enh Enhancer, results []docai.RawScanResult, limit int, logger *slog.Logger) []docai.RawScanResult {
	if logger == nil {
		logger = slog.Default()
	}
	if limit < 1 {
		limit = 1
	}

	out := make([]docai.RawScanResult, len(results))
	copy(out, results)
	if enh == nil {
		return out
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, raw := range results {
		g.Go(func() error {
			enhanced, err := enh.Enhance(gctx, raw)
			if err != nil {
				logger.Warn("enhance.fallback", "index", i, "error", err)
				return nil // degrade per-record, never abort the batch
			}
			out[i] = enhanced
			return nil
		})
	}
	_ = g.Wait()
	return out
}
