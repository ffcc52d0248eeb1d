package docai

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Entity type names the passport processor emits. The set is provider-defined;
// unknown types are kept verbatim in the result map.
const (
	FieldDocumentID    = "document_id"
	FieldCountry       = "country"
	FieldNationality   = "nationality"
	FieldGivenName     = "given_name"
	FieldSurname       = "surname"
	FieldSex           = "sex"
	FieldDateOfBirth   = "date_of_birth"
	FieldDateOfExpiry  = "date_of_expiry"
	FieldDateOfIssue   = "date_of_issue"
	FieldPlaceOfBirth  = "place_of_birth"
	FieldStreetAddress = "street_address"
	FieldAddressNumber = "address_number"
	FieldLocality      = "locality"
)

// RawScanResult is the flat field map extracted from one document: provider
// entity type -> extracted text. No ordering guarantee among fields.
type RawScanResult map[string]string

// Get returns the trimmed value for a field, or "" when absent.
func (r RawScanResult) Get(key string) string {
	return strings.TrimSpace(r[key])
}

// DocumentID returns the extracted document identifier, or "" when the
// processor found none.
func (r RawScanResult) DocumentID() string {
	return r.Get(FieldDocumentID)
}

// Clone returns a shallow copy; enhancement mutates copies, never originals.
func (r RawScanResult) Clone() RawScanResult {
	out := make(RawScanResult, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// processResponse mirrors the subset of the provider payload we consume.
// Everything else in the response is deliberately ignored.
type processResponse struct {
	Document *struct {
		Entities []struct {
			Type        string `json:"type"`
			MentionText string `json:"mentionText"`
		} `json:"entities"`
	} `json:"document"`
}

// ParseProcessResponse validates the provider response shape at the boundary
// and flattens the entity list into a RawScanResult. A payload without a
// document object is a typed failure, not a partial result.
func ParseProcessResponse(raw []byte) (RawScanResult, error) {
	var resp processResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("decode process response: %w", err)
	}
	if resp.Document == nil {
		return nil, fmt.Errorf("process response missing document object")
	}

	out := make(RawScanResult, len(resp.Document.Entities))
	for _, e := range resp.Document.Entities {
		if e.Type == "" || e.MentionText == "" {
			continue
		}
		out[e.Type] = e.MentionText
	}
	return out, nil
}
