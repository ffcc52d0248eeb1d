package constants

// ScanStatus is the canonical status for items in a batch session.
type ScanStatus string

// Stable values (these exact strings appear in API responses).
const (
	ScanStatusPending    ScanStatus = "PENDING"    // accepted, not yet claimed
	ScanStatusProcessing ScanStatus = "PROCESSING" // scan request in flight
	ScanStatusCompleted  ScanStatus = "COMPLETED"  // terminal: normalized record available
	ScanStatusDuplicate  ScanStatus = "DUPLICATE"  // terminal: document ID already seen this session
	ScanStatusError      ScanStatus = "ERROR"      // terminal: scan or normalization failed
)

// Terminal reports whether a status is a terminal state.
func (s ScanStatus) Terminal() bool {
	switch s {
	case ScanStatusCompleted, ScanStatusDuplicate, ScanStatusError:
		return true
	}
	return false
}
