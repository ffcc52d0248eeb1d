package enhance

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/scanworks/passport-scanner/internal/docai"
)

func chatResponse(content string) string {
	b, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}},
		},
	})
	return string(b)
}

func TestClientEnhanceMergesOverOriginal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("authorization = %q", got)
		}
		_, _ = w.Write([]byte(chatResponse("```json\n" +
			`{"street_address": "Rosenstrasse", "address_number": 84, "locality": "ALEMANIA"}` +
			"\n```")))
	}))
	defer srv.Close()

	c := NewClient(Config{APIKey: "test-key", BaseURL: srv.URL}, nil)
	raw := docai.RawScanResult{
		docai.FieldDocumentID:  "X1",
		docai.FieldNationality: "Germany",
		docai.FieldSurname:     "DOE",
	}

	out, err := c.Enhance(context.Background(), raw)
	if err != nil {
		t.Fatalf("enhance: %v", err)
	}
	if out.Get(docai.FieldStreetAddress) != "Rosenstrasse" {
		t.Errorf("street = %q", out.Get(docai.FieldStreetAddress))
	}
	if out.Get(docai.FieldAddressNumber) != "84" {
		t.Errorf("number = %q, want coerced 84", out.Get(docai.FieldAddressNumber))
	}
	// Original fields survive the merge; the input map is untouched.
	if out.Get(docai.FieldSurname) != "DOE" {
		t.Errorf("surname lost in merge: %q", out.Get(docai.FieldSurname))
	}
	if _, ok := raw[docai.FieldStreetAddress]; ok {
		t.Error("enhance mutated its input")
	}
}

func TestClientEnhanceRejectsNonObjectResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(chatResponse(`["not", "an", "object"]`)))
	}))
	defer srv.Close()

	c := NewClient(Config{APIKey: "k", BaseURL: srv.URL}, nil)
	if _, err := c.Enhance(context.Background(), docai.RawScanResult{}); err == nil {
		t.Fatal("non-object response must fail")
	}
}

func TestClientEnhanceDropsOffSchemaValues(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(chatResponse(`{"street_address": {"nested": true}, "surname": "DOE"}`)))
	}))
	defer srv.Close()

	c := NewClient(Config{APIKey: "k", BaseURL: srv.URL}, nil)
	out, err := c.Enhance(context.Background(), docai.RawScanResult{})
	if err != nil {
		t.Fatalf("enhance: %v", err)
	}
	if out.Get(docai.FieldStreetAddress) != "" {
		t.Error("object-valued field should be dropped, not forwarded")
	}
	if out.Get(docai.FieldSurname) != "DOE" {
		t.Errorf("surname = %q", out.Get(docai.FieldSurname))
	}
}

func TestClientEnhanceHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(Config{APIKey: "k", BaseURL: srv.URL}, nil)
	if _, err := c.Enhance(context.Background(), docai.RawScanResult{}); err == nil {
		t.Fatal("provider failure must surface")
	}
}

func TestEnhanceAllFallsBackPerRecord(t *testing.T) {
	enh := enhancerFunc(func(_ context.Context, raw docai.RawScanResult) (docai.RawScanResult, error) {
		if raw.DocumentID() == "B" {
			return nil, errors.New("boom")
		}
		out := raw.Clone()
		out[docai.FieldStreetAddress] = "Main Street"
		return out, nil
	})

	in := []docai.RawScanResult{
		{docai.FieldDocumentID: "A"},
		{docai.FieldDocumentID: "B"},
		{docai.FieldDocumentID: "C"},
	}
	out := EnhanceAll(context.Background(), enh, in, 2, nil)

	if len(out) != 3 {
		t.Fatalf("output length = %d", len(out))
	}
	if out[0].Get(docai.FieldStreetAddress) != "Main Street" {
		t.Error("record A not enhanced")
	}
	if out[1].Get(docai.FieldStreetAddress) != "" || out[1].DocumentID() != "B" {
		t.Error("record B should fall back to the original")
	}
	if out[2].Get(docai.FieldStreetAddress) != "Main Street" {
		t.Error("record C not enhanced")
	}
}

func TestEnhanceAllBoundsConcurrency(t *testing.T) {
	var inFlight, high atomic.Int64
	enh := enhancerFunc(func(_ context.Context, raw docai.RawScanResult) (docai.RawScanResult, error) {
		cur := inFlight.Add(1)
		for {
			hw := high.Load()
			if cur <= hw || high.CompareAndSwap(hw, cur) {
				break
			}
		}
		defer inFlight.Add(-1)
		return raw, nil
	})

	in := make([]docai.RawScanResult, 10)
	for i := range in {
		in[i] = docai.RawScanResult{}
	}
	EnhanceAll(context.Background(), enh, in, 3, nil)

	if hw := high.Load(); hw > 3 {
		t.Fatalf("concurrency high-water mark = %d, ceiling is 3", hw)
	}
}

type enhancerFunc func(context.Context, docai.RawScanResult) (docai.RawScanResult, error)

func (f enhancerFunc) Enhance(ctx context.Context, raw docai.RawScanResult) (docai.RawScanResult, error) {
	return f(ctx, raw)
}
