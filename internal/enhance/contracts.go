package enhance

import (
	"context"

	"github.com/scanworks/passport-scanner/internal/docai"
)

// Enhancer is the AI-enhancement collaborator boundary: given one raw scan
// result it returns a copy with gaps filled and address fields added. The
// collaborator is unreliable by contract; callers always keep the original
// as the fallback.
type Enhancer interface {
	Enhance(ctx context.Context, raw docai.RawScanResult) (docai.RawScanResult, error)
}
