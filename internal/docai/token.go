package docai

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const cloudPlatformScope = "https://www.googleapis.com/auth/cloud-platform"

// TokenCache caches the short-lived bearer token used against the document
// processor, refreshing it a configurable margin before expiry so requests
// never race a dying token. The clock is injectable for tests.
type TokenCache struct {
	source oauth2.TokenSource
	ttl    time.Duration
	early  time.Duration
	now    func() time.Time

	mu     sync.Mutex
	token  string
	expiry time.Time
}

// NewTokenCache wraps a token source with an explicit TTL and early-refresh
// policy. ttl is only used when the exchanged token carries no expiry of its
// own. A nil now falls back to time.Now.
func NewTokenCache(source oauth2.TokenSource, ttl, early time.Duration, now func() time.Time) *TokenCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	if early <= 0 {
		early = 5 * time.Minute
	}
	if now == nil {
		now = time.Now
	}
	return &TokenCache{source: source, ttl: ttl, early: early, now: now}
}

// Token returns a bearer token, exchanging a fresh one when the cached token
// is within the early-refresh window of its expiry.
func (c *TokenCache) Token(_ context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && c.now().Before(c.expiry.Add(-c.early)) {
		return c.token, nil
	}

	tok, err := c.source.Token()
	if err != nil {
		return "", fmt.Errorf("exchange credentials: %w", err)
	}

	c.token = tok.AccessToken
	if !tok.Expiry.IsZero() {
		c.expiry = tok.Expiry
	} else {
		c.expiry = c.now().Add(c.ttl)
	}
	return c.token, nil
}

// ServiceAccountTokenSource builds an oauth2 token source from service
// account credentials JSON, scoped for the document processor.
func ServiceAccountTokenSource(ctx context.Context, credentialsJSON []byte) (oauth2.TokenSource, error) {
	cfg, err := google.JWTConfigFromJSON(credentialsJSON, cloudPlatformScope)
	if err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}
	return cfg.TokenSource(ctx), nil
}

// ProjectIDFromCredentials pulls the project ID out of credentials JSON; the
// processor URL needs it.
func ProjectIDFromCredentials(credentialsJSON []byte) (string, error) {
	var creds struct {
		ProjectID string `json:"project_id"`
	}
	if err := json.Unmarshal(credentialsJSON, &creds); err != nil {
		return "", fmt.Errorf("parse credentials: %w", err)
	}
	if creds.ProjectID == "" {
		return "", fmt.Errorf("credentials missing project_id")
	}
	return creds.ProjectID, nil
}
