package enhance

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/scanworks/passport-scanner/internal/common"
	"github.com/scanworks/passport-scanner/internal/docai"
)

// Config for the OpenAI-style enhancement client.
type Config struct {
	APIKey      string        // if empty, falls back to env OPENAI_API_KEY
	BaseURL     string        // default https://api.openai.com/v1
	Model       string        // e.g. "gpt-4o"
	Temperature float32       // higher than extraction; address variety matters
	Timeout     time.Duration // http client timeout
}

type Client struct {
	cfg    Config
	http   *http.Client
	logger *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o"
	}
	if cfg.Temperature <= 0 {
		cfg.Temperature = 0.7
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 45 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

// Enhance sends one raw scan result to the model and returns the improved
// copy. Any failure — HTTP, parse, schema — is returned as an error; the
// caller falls back to the unenhanced result and the batch continues.
func (c *Client) Enhance(ctx context.Context, raw docai.RawScanResult) (docai.RawScanResult, error) {
	rid := common.RequestIDFromContext(ctx)
	if rid == "" {
		rid = uuid.New().String()
	}
	start := time.Now()

	country := raw.Get(docai.FieldNationality)
	if country == "" {
		country = raw.Get(docai.FieldCountry)
	}

	payload, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode passport data: %w", err)
	}

	c.logger.Info("enhance.start",
		"req_id", rid,
		"model", c.cfg.Model,
		"country", country,
		"fields", len(raw),
	)

	body := map[string]any{
		"model":       c.cfg.Model,
		"temperature": c.cfg.Temperature,
		"messages": []map[string]any{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": buildUserPrompt(country, string(payload))},
		},
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	rawResp, err := c.post(ctx, endpoint, body)
	if err != nil {
		c.logger.Error("enhance.http_error",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, err
	}

	var cc struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(rawResp, &cc); err != nil {
		return nil, fmt.Errorf("decode model response: %w", err)
	}
	if len(cc.Choices) == 0 {
		return nil, fmt.Errorf("no choices in model response")
	}

	content := []byte(StripMarkdownFences(cc.Choices[0].Message.Content))

	cleaned, _, err := SanitizeEnhanced(content, c.logger)
	if err != nil {
		c.logger.Error("enhance.sanitize_failed",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, err
	}
	if err := ValidateJSONAgainstSchema(BuildEnhancedJSONSchema(), cleaned); err != nil {
		c.logger.Error("enhance.schema_validation_failed",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, err
	}

	var enhanced docai.RawScanResult
	if err := json.Unmarshal(cleaned, &enhanced); err != nil {
		return nil, fmt.Errorf("unmarshal enhanced fields: %w", err)
	}

	// Merge over a copy: the model may omit fields it had nothing to add to.
	out := raw.Clone()
	for k, v := range enhanced {
		if v != "" {
			out[k] = v
		}
	}

	c.logger.Info("enhance.ok",
		"req_id", rid,
		"has_street", out.Get(docai.FieldStreetAddress) != "",
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return out, nil
}

func (c *Client) post(ctx context.Context, url string, body map[string]any) ([]byte, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("model http error: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Warn("enhance.body_close_error", "error", err)
		}
	}()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("model status %d: %s", resp.StatusCode, string(raw))
	}
	return raw, nil
}

const systemPrompt = "You are an assistant that processes passport data and generates " +
	"unique, realistic per-country street addresses. Every address must be plausible " +
	"and completely unique. Return ONLY a JSON object, no markdown, no explanations."

func buildUserPrompt(country, payload string) string {
	var b strings.Builder
	b.WriteString("Analyze this passport data and improve it:\n")
	b.WriteString("1. Fill missing fields with plausible values based on context.\n")
	b.WriteString("2. Standardize date formats to DD/MM/YYYY.\n")
	b.WriteString("3. Generate a UNIQUE, REALISTIC address for a person living in ")
	b.WriteString(country)
	b.WriteString(": a real street that exists there, formatted per local convention, ")
	b.WriteString("never a generic or famous address.\n")
	b.WriteString("4. 'locality' must be the country of residence in Spanish, uppercase, ")
	b.WriteString("no accents (e.g. United States -> ESTADOS UNIDOS).\n")
	b.WriteString("5. 'place_of_birth' must be ONLY the country of origin, also in Spanish ")
	b.WriteString("without accents, no cities or regions.\n\n")
	b.WriteString("Passport data: ")
	b.WriteString(payload)
	b.WriteString("\n\nReturn a JSON object with the original fields improved plus:\n")
	b.WriteString("- \"street_address\": street name only, NO number\n")
	b.WriteString("- \"address_number\": the street number\n")
	return b.String()
}
