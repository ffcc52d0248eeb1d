package docai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/scanworks/passport-scanner/internal/common"
)

// ScanError is a typed provider failure: HTTP status plus whatever error text
// the provider returned. It is what a batch item's error message is built from.
type ScanError struct {
	Status int
	Detail string
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("document processor status %d: %s", e.Status, e.Detail)
}

// Config for the document-OCR client.
type Config struct {
	ProjectID   string
	Location    string // e.g. "us"
	ProcessorID string
	Endpoint    string        // full URL override, used by tests
	Timeout     time.Duration // per-request; required, no hung-slot default
}

// Client issues the single network call per file that the batch scheduler
// bounds. One Scan call, one request.
type Client struct {
	cfg    Config
	http   *http.Client
	tokens *TokenCache
	logger *slog.Logger
}

func NewClient(cfg Config, tokens *TokenCache, logger *slog.Logger) (*Client, error) {
	if cfg.Timeout <= 0 {
		return nil, fmt.Errorf("docai: request timeout is required")
	}
	if cfg.Endpoint == "" && (cfg.ProjectID == "" || cfg.ProcessorID == "") {
		return nil, fmt.Errorf("docai: project and processor IDs are required")
	}
	if cfg.Location == "" {
		cfg.Location = "us"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		tokens: tokens,
		logger: logger,
	}, nil
}

type processRequest struct {
	RawDocument rawDocument `json:"rawDocument"`
}

type rawDocument struct {
	Content  string `json:"content"`
	MimeType string `json:"mimeType"`
}

// Scan sends one file to the document processor and returns the flat field
// map. Every failure path resolves to an error value; nothing panics, so the
// scheduler's worker loop can always continue.
func (c *Client) Scan(ctx context.Context, content []byte, mimeType string) (RawScanResult, error) {
	rid := common.RequestIDFromContext(ctx)
	if rid == "" {
		rid = uuid.New().String()
	}
	start := time.Now()

	token, err := c.tokens.Token(ctx)
	if err != nil {
		c.logger.Error("docai.scan.token_error", "req_id", rid, "error", err)
		return nil, fmt.Errorf("auth token: %w", err)
	}

	body, err := json.Marshal(processRequest{
		RawDocument: rawDocument{
			Content:  base64.StdEncoding.EncodeToString(content),
			MimeType: mimeType,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("encode process request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	c.logger.Info("docai.scan.request",
		"req_id", rid,
		"mime_type", mimeType,
		"content_bytes", len(content),
	)

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error("docai.scan.send_error",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, fmt.Errorf("document processor request: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Warn("docai.scan.body_close_error", "req_id", rid, "error", err)
		}
	}()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode/100 != 2 {
		c.logger.Error("docai.scan.provider_error",
			"req_id", rid, "status", resp.StatusCode,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, &ScanError{Status: resp.StatusCode, Detail: providerDetail(raw)}
	}

	result, err := ParseProcessResponse(raw)
	if err != nil {
		c.logger.Error("docai.scan.decode_error",
			"req_id", rid, "error", err, "raw_bytes", len(raw),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, err
	}

	c.logger.Info("docai.scan.ok",
		"req_id", rid,
		"fields", len(result),
		"has_document_id", result.DocumentID() != "",
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return result, nil
}

func (c *Client) endpoint() string {
	if c.cfg.Endpoint != "" {
		return c.cfg.Endpoint
	}
	return fmt.Sprintf(
		"https://%s-documentai.googleapis.com/v1/projects/%s/locations/%s/processors/%s:process",
		c.cfg.Location, c.cfg.ProjectID, c.cfg.Location, c.cfg.ProcessorID,
	)
}

// providerDetail digs the human-readable message out of an error payload,
// falling back to the raw body.
func providerDetail(raw []byte) string {
	var e struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(raw, &e); err == nil && e.Error.Message != "" {
		return e.Error.Message
	}
	if len(raw) > 512 {
		raw = raw[:512]
	}
	return string(raw)
}
