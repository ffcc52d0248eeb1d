package batch

import (
	"github.com/google/uuid"

	"github.com/scanworks/passport-scanner/constants"
	"github.com/scanworks/passport-scanner/internal/docai"
	"github.com/scanworks/passport-scanner/internal/normalize"
)

// ScanItem is one file submitted for processing. Identity is the generated
// ID, not the filename; filenames are not guaranteed unique within a batch.
// Status moves monotonically Pending -> Processing -> one terminal state,
// and only the scheduler (via the owning session) mutates it.
type ScanItem struct {
	ID       uuid.UUID
	Filename string
	MIMEType string
	Content  []byte

	Status     constants.ScanStatus
	Raw        docai.RawScanResult
	Record     *normalize.NormalizedRecord
	DocumentID string
	Err        string
}

// ItemView is the read-only snapshot handed to callers; live items stay
// behind the session lock.
type ItemView struct {
	ID         uuid.UUID                   `json:"id"`
	Filename   string                      `json:"filename"`
	Status     constants.ScanStatus        `json:"status"`
	DocumentID string                      `json:"document_id,omitempty"`
	Error      string                      `json:"error,omitempty"`
	Raw        docai.RawScanResult         `json:"raw,omitempty"`
	Record     *normalize.NormalizedRecord `json:"record,omitempty"`
}
