package batch

import "sync"

// Detector classifies completed scans as novel or duplicate by document
// identifier. Implementations must make the check-and-record step atomic:
// two concurrent completions with the same identifier must classify exactly
// one as duplicate, regardless of interleaving.
type Detector interface {
	// Seen records id and reports whether it was already recorded this
	// session. A blank id is never a duplicate; there is nothing to key on.
	Seen(id string) bool
	// Reset clears the recorded identifiers.
	Reset()
}

type seenSet struct {
	mu  sync.Mutex
	ids map[string]struct{}
}

// NewSeenSet returns the standard grow-only duplicate detector.
func NewSeenSet() Detector {
	return &seenSet{ids: make(map[string]struct{})}
}

func (s *seenSet) Seen(id string) bool {
	if id == "" {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.ids[id]; ok {
		return true
	}
	s.ids[id] = struct{}{}
	return false
}

func (s *seenSet) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids = make(map[string]struct{})
}

type noneDetector struct{}

// NewNoneDetector returns a detector that never flags duplicates, for
// deployments that normalize everything.
func NewNoneDetector() Detector { return noneDetector{} }

func (noneDetector) Seen(string) bool { return false }
func (noneDetector) Reset()           {}
