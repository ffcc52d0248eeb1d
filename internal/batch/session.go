package batch

import (
	"sync"

	"github.com/google/uuid"

	"github.com/scanworks/passport-scanner/constants"
	"github.com/scanworks/passport-scanner/internal/common"
	"github.com/scanworks/passport-scanner/internal/docai"
	"github.com/scanworks/passport-scanner/internal/normalize"
)

// Counters is the aggregate view of a session. The status buckets always
// sum to Total; Processing (the flag) is true only while a run is active.
type Counters struct {
	Total      int  `json:"total"`
	Pending    int  `json:"pending"`
	InFlight   int  `json:"in_flight"`
	Completed  int  `json:"completed"`
	Duplicates int  `json:"duplicates"`
	Failed     int  `json:"failed"`
	Processing bool `json:"processing"`
}

// Session holds the files of one batch and their statuses. All item
// mutation goes through its methods under a single mutex; workers never
// touch item fields directly.
type Session struct {
	mu         sync.Mutex
	items      []*ScanItem
	dedupe     Detector
	processing bool

	completed  int
	duplicates int
	failed     int
	inFlight   int
}

// NewSession builds an empty session with the given duplicate detector.
// A nil detector disables duplicate detection.
func NewSession(d Detector) *Session {
	if d == nil {
		d = NewNoneDetector()
	}
	return &Session{dedupe: d}
}

// Add enqueues one validated file and returns its view. Size and type
// checks belong to the caller; the session accepts what it is given.
func (s *Session) Add(filename, mimeType string, content []byte) (ItemView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.processing {
		return ItemView{}, common.NewAppError(common.ErrConflict, "batch is processing, cannot add files", nil)
	}
	it := &ScanItem{
		ID:       uuid.New(),
		Filename: filename,
		MIMEType: mimeType,
		Content:  content,
		Status:   constants.ScanStatusPending,
	}
	s.items = append(s.items, it)
	return snapshot(it), nil
}

// Remove drops a pending item by id. Items already claimed or finished
// stay; their outcome is part of the batch record.
func (s *Session) Remove(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.processing {
		return common.NewAppError(common.ErrConflict, "batch is processing, cannot remove files", nil)
	}
	for i, it := range s.items {
		if it.ID == id {
			if it.Status != constants.ScanStatusPending {
				return common.NewAppError(common.ErrInvalidInput, "only pending files can be removed", nil)
			}
			s.items = append(s.items[:i], s.items[i+1:]...)
			return nil
		}
	}
	return common.NewAppError(common.ErrNotFound, "file not in batch", nil)
}

// Reset clears the session for a fresh batch. Rejected while a run is
// active: the workers hold references to the items being cleared.
func (s *Session) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.processing {
		return common.NewAppError(common.ErrConflict, "batch is processing, cannot reset", nil)
	}
	s.items = nil
	s.completed, s.duplicates, s.failed, s.inFlight = 0, 0, 0, 0
	s.dedupe.Reset()
	return nil
}

// Items returns a snapshot of every item in insertion order.
func (s *Session) Items() []ItemView {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ItemView, len(s.items))
	for i, it := range s.items {
		out[i] = snapshot(it)
	}
	return out
}

// Counters returns the aggregate snapshot.
func (s *Session) Counters() Counters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Counters{
		Total:      len(s.items),
		Pending:    len(s.items) - s.completed - s.duplicates - s.failed - s.inFlight,
		InFlight:   s.inFlight,
		Completed:  s.completed,
		Duplicates: s.duplicates,
		Failed:     s.failed,
		Processing: s.processing,
	}
}

// CompletedRecords returns the normalized records of completed items in
// insertion order, for export and history.
func (s *Session) CompletedRecords() []normalize.NormalizedRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []normalize.NormalizedRecord
	for _, it := range s.items {
		if it.Status == constants.ScanStatusCompleted && it.Record != nil {
			out = append(out, *it.Record)
		}
	}
	return out
}

// CompletedResults returns the raw scan results of completed items in
// insertion order. The export path re-normalizes these after optional
// enhancement.
func (s *Session) CompletedResults() []docai.RawScanResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []docai.RawScanResult
	for _, it := range s.items {
		if it.Status == constants.ScanStatusCompleted && it.Raw != nil {
			out = append(out, it.Raw.Clone())
		}
	}
	return out
}

// beginRun flips the processing flag and hands back the pending items.
// Returns false if a run is already active.
func (s *Session) beginRun() ([]*ScanItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.processing {
		return nil, false
	}
	var pending []*ScanItem
	for _, it := range s.items {
		if it.Status == constants.ScanStatusPending {
			pending = append(pending, it)
		}
	}
	s.processing = true
	return pending, true
}

func (s *Session) endRun() {
	s.mu.Lock()
	s.processing = false
	s.mu.Unlock()
}

func (s *Session) markProcessing(it *ScanItem) {
	s.mu.Lock()
	it.Status = constants.ScanStatusProcessing
	s.inFlight++
	s.mu.Unlock()
}

func (s *Session) markCompleted(it *ScanItem, raw docai.RawScanResult, rec *normalize.NormalizedRecord, docID string) {
	s.mu.Lock()
	it.Status = constants.ScanStatusCompleted
	it.Raw = raw
	it.Record = rec
	it.DocumentID = docID
	s.inFlight--
	s.completed++
	s.mu.Unlock()
}

func (s *Session) markDuplicate(it *ScanItem, raw docai.RawScanResult, docID string) {
	s.mu.Lock()
	it.Status = constants.ScanStatusDuplicate
	it.Raw = raw
	it.DocumentID = docID
	it.Err = "document " + docID + " already scanned in this batch"
	s.inFlight--
	s.duplicates++
	s.mu.Unlock()
}

func (s *Session) markFailed(it *ScanItem, msg string) {
	s.mu.Lock()
	it.Status = constants.ScanStatusError
	it.Err = msg
	s.inFlight--
	s.failed++
	s.mu.Unlock()
}

// isDuplicate runs the atomic check-and-record against the detector.
func (s *Session) isDuplicate(docID string) bool {
	return s.dedupe.Seen(docID)
}

func snapshot(it *ScanItem) ItemView {
	v := ItemView{
		ID:         it.ID,
		Filename:   it.Filename,
		Status:     it.Status,
		DocumentID: it.DocumentID,
		Error:      it.Err,
	}
	if it.Raw != nil {
		v.Raw = it.Raw.Clone()
	}
	if it.Record != nil {
		rec := *it.Record
		v.Record = &rec
	}
	return v
}
