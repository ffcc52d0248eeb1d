package batch

import (
	"context"
	"log/slog"
	"time"

	"github.com/scanworks/passport-scanner/internal/common"
	"github.com/scanworks/passport-scanner/internal/docai"
	"github.com/scanworks/passport-scanner/internal/normalize"
)

// Scanner is the upstream document scan dependency.
type Scanner interface {
	Scan(ctx context.Context, content []byte, mimeType string) (docai.RawScanResult, error)
}

// Recorder receives completed records for the scan history. Failures are
// logged and swallowed; history is best-effort and never fails a scan.
type Recorder interface {
	RecordScan(ctx context.Context, filename string, rec normalize.NormalizedRecord) error
}

const (
	// DefaultWorkers is the scan concurrency ceiling when none is configured.
	DefaultWorkers     = 5
	defaultScanTimeout = 90 * time.Second
)

// Scheduler drains a session's pending items through a fixed pool of
// workers. At most `workers` scans are in flight at any instant; each item
// is claimed exactly once (claiming is a channel receive) and driven to
// exactly one terminal status.
type Scheduler struct {
	scanner  Scanner
	norm     *normalize.Normalizer
	recorder Recorder
	logger   *slog.Logger
	workers  int
	timeout  time.Duration
}

// SchedulerOption configures a Scheduler.
type SchedulerOption func(*Scheduler)

// WithWorkers sets the concurrency ceiling.
func WithWorkers(n int) SchedulerOption {
	return func(s *Scheduler) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithScanTimeout sets the per-item scan deadline.
func WithScanTimeout(d time.Duration) SchedulerOption {
	return func(s *Scheduler) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithRecorder attaches a history recorder.
func WithRecorder(r Recorder) SchedulerOption {
	return func(s *Scheduler) { s.recorder = r }
}

func NewScheduler(scanner Scanner, norm *normalize.Normalizer, logger *slog.Logger, opts ...SchedulerOption) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Scheduler{
		scanner: scanner,
		norm:    norm,
		logger:  logger,
		workers: DefaultWorkers,
		timeout: defaultScanTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run processes every pending item in the session and blocks until the
// queue is drained and all workers have exited. Items that finish after
// ctx is cancelled are marked failed rather than left in flight. Returns
// a conflict error if the session is already processing.
func (s *Scheduler) Run(ctx context.Context, sess *Session) error {
	pending, ok := sess.beginRun()
	if !ok {
		return common.NewAppError(common.ErrConflict, "batch is already processing", nil)
	}
	defer sess.endRun()

	if len(pending) == 0 {
		s.logger.Info("batch.run.empty")
		return nil
	}

	workers := s.workers
	if workers > len(pending) {
		workers = len(pending)
	}

	start := time.Now()
	s.logger.Info("batch.run.start", "pending", len(pending), "workers", workers)

	queue := make(chan *ScanItem)
	done := make(chan struct{})
	for i := 0; i < workers; i++ {
		go func(id int) {
			defer func() { done <- struct{}{} }()
			for it := range queue {
				s.process(ctx, sess, it, id)
			}
		}(i + 1)
	}

	for _, it := range pending {
		queue <- it
	}
	close(queue)
	for i := 0; i < workers; i++ {
		<-done
	}

	c := sess.Counters()
	s.logger.Info("batch.run.done",
		"completed", c.Completed,
		"duplicates", c.Duplicates,
		"failed", c.Failed,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

func (s *Scheduler) process(ctx context.Context, sess *Session, it *ScanItem, worker int) {
	sess.markProcessing(it)
	s.logger.Info("batch.item.start", "worker", worker, "item_id", it.ID, "filename", it.Filename)

	if err := ctx.Err(); err != nil {
		sess.markFailed(it, "batch cancelled: "+err.Error())
		return
	}

	scanCtx, cancel := context.WithTimeout(ctx, s.timeout)
	raw, err := s.scanner.Scan(scanCtx, it.Content, it.MIMEType)
	cancel()
	if err != nil {
		sess.markFailed(it, err.Error())
		s.logger.Error("batch.item.failed", "worker", worker, "item_id", it.ID, "error", err)
		return
	}

	docID := raw.DocumentID()
	if sess.isDuplicate(docID) {
		sess.markDuplicate(it, raw, docID)
		s.logger.Info("batch.item.duplicate", "worker", worker, "item_id", it.ID, "document_id", docID)
		return
	}

	rec := s.norm.Record(raw)
	sess.markCompleted(it, raw, &rec, docID)
	s.logger.Info("batch.item.completed", "worker", worker, "item_id", it.ID, "document_id", docID)

	if s.recorder != nil {
		if err := s.recorder.RecordScan(ctx, it.Filename, rec); err != nil {
			s.logger.Warn("batch.history.record_error", "item_id", it.ID, "error", err)
		}
	}
}
