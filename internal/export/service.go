package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/scanworks/passport-scanner/internal/common"
	"github.com/scanworks/passport-scanner/internal/docai"
	"github.com/scanworks/passport-scanner/internal/enhance"
	"github.com/scanworks/passport-scanner/internal/normalize"
)

// Format selects the export encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat maps a request parameter onto a Format, defaulting to CSV.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "", string(FormatCSV):
		return FormatCSV, nil
	case string(FormatXLSX):
		return FormatXLSX, nil
	}
	return "", common.NewAppError(common.ErrInvalidInput, fmt.Sprintf("unknown export format %q", s), nil)
}

// Result is a rendered export ready to send.
type Result struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Service assembles export files from completed scan results. The enhancer
// is optional; when present it runs over every record with bounded
// concurrency before normalization, and any per-record failure falls back
// to the unenhanced result.
type Service struct {
	norm     *normalize.Normalizer
	enhancer enhance.Enhancer
	limit    int
	logger   *slog.Logger
	now      func() time.Time
}

type ServiceOption func(*Service)

// WithEnhancer enables AI enhancement before normalization.
func WithEnhancer(e enhance.Enhancer, limit int) ServiceOption {
	return func(s *Service) {
		s.enhancer = e
		if limit > 0 {
			s.limit = limit
		}
	}
}

// WithClock overrides the timestamp source for filenames.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// ExportOption adjusts a single Export call.
type ExportOption func(*exportSettings)

type exportSettings struct {
	enhance bool
}

// WithoutEnhancement skips the AI pass for this export even when an
// enhancer is configured.
func WithoutEnhancement() ExportOption {
	return func(o *exportSettings) { o.enhance = false }
}

func NewService(norm *normalize.Normalizer, logger *slog.Logger, opts ...ServiceOption) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		norm:   norm,
		limit:  5,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// HasEnhancer reports whether AI enhancement is configured.
func (s *Service) HasEnhancer() bool { return s.enhancer != nil }

// Export renders the given results in the requested format. Rejects an
// empty input: an export with no completed scans is a caller error, not an
// empty file.
func (s *Service) Export(ctx context.Context, results []docai.RawScanResult, format Format, opts ...ExportOption) (*Result, error) {
	start := time.Now()
	if len(results) == 0 {
		return nil, common.NewAppError(common.ErrInvalidInput, "no completed scans to export", nil)
	}

	settings := exportSettings{enhance: true}
	for _, opt := range opts {
		opt(&settings)
	}
	enhanced := s.enhancer != nil && settings.enhance
	if enhanced {
		results = enhance.EnhanceAll(ctx, s.enhancer, results, s.limit, s.logger)
	}

	records := make([]normalize.NormalizedRecord, len(results))
	for i, raw := range results {
		records[i] = s.norm.Record(raw)
	}

	var (
		data []byte
		err  error
		res  Result
	)
	stamp := s.now().Format("2006-01-02")
	switch format {
	case FormatXLSX:
		data, err = WriteXLSX(records)
		res = Result{
			Filename:    "pasaportes_" + stamp + ".xlsx",
			ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		}
	case FormatCSV:
		data, err = WriteCSV(records)
		res = Result{
			Filename:    "pasaportes_" + stamp + ".csv",
			ContentType: "text/csv; charset=utf-8",
		}
	default:
		return nil, common.NewAppError(common.ErrInvalidInput, fmt.Sprintf("unknown export format %q", format), nil)
	}
	if err != nil {
		return nil, common.WrapError(common.ErrInternal, "render export", err)
	}
	res.Data = data

	s.logger.Info("export."+string(format)+".ok",
		"rows", len(records),
		"bytes", len(data),
		"enhanced", enhanced,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return &res, nil
}
