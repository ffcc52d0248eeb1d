package server

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/scanworks/passport-scanner/internal/common"
)

const sessionCookie = "scanner_session"

// SessionClaims is the signed payload of the session cookie.
type SessionClaims struct {
	Sub string `json:"sub"`
	Exp int64  `json:"exp"`
	Iat int64  `json:"iat"`
	// Jti makes every issued token distinct; batch state is keyed by the
	// cookie value, so two logins must never share a token.
	Jti string `json:"jti"`
}

var errInvalidSession = errors.New("invalid session token")

// Sessions signs and verifies HS256 session tokens. The clock is
// injectable for expiry tests.
type Sessions struct {
	cfg common.SessionConfig
	now func() time.Time
}

func NewSessions(cfg common.SessionConfig) *Sessions {
	return &Sessions{cfg: cfg, now: time.Now}
}

// Issue signs a session token for the given subject, valid for the
// configured TTL.
func (s *Sessions) Issue(sub string) (string, error) {
	if s.cfg.Secret == "" {
		return "", errors.New("session secret not configured")
	}
	now := s.now().UTC().Unix()
	claims := SessionClaims{
		Sub: sub,
		Iat: now,
		Exp: now + int64(s.cfg.TTL/time.Second),
		Jti: uuid.New().String(),
	}

	header := map[string]string{"alg": "HS256", "typ": "JWT"}
	headerJSON, err := json.Marshal(header)
	if err != nil {
		return "", err
	}
	payloadJSON, err := json.Marshal(claims)
	if err != nil {
		return "", err
	}

	segments := []string{
		base64.RawURLEncoding.EncodeToString(headerJSON),
		base64.RawURLEncoding.EncodeToString(payloadJSON),
	}
	signingInput := strings.Join(segments, ".")
	segments = append(segments, s.sign(signingInput))
	return strings.Join(segments, "."), nil
}

// Verify checks the signature and expiry and returns the claims.
func (s *Sessions) Verify(token string) (SessionClaims, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return SessionClaims{}, errInvalidSession
	}

	signingInput := strings.Join(parts[0:2], ".")
	expected := s.sign(signingInput)
	if !hmac.Equal([]byte(parts[2]), []byte(expected)) {
		return SessionClaims{}, errInvalidSession
	}

	payloadBytes, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return SessionClaims{}, errInvalidSession
	}
	var claims SessionClaims
	if err := json.Unmarshal(payloadBytes, &claims); err != nil {
		return SessionClaims{}, errInvalidSession
	}
	if claims.Sub == "" {
		return SessionClaims{}, errInvalidSession
	}
	if claims.Exp > 0 && s.now().UTC().Unix() > claims.Exp {
		return SessionClaims{}, errInvalidSession
	}
	return claims, nil
}

// CheckCredentials compares login input against the configured account in
// constant time.
func (s *Sessions) CheckCredentials(username, password string) bool {
	if s.cfg.Password == "" {
		return false
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.cfg.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.cfg.Password)) == 1
	return userOK && passOK
}

// TTLSeconds is the cookie max-age.
func (s *Sessions) TTLSeconds() int { return int(s.cfg.TTL / time.Second) }

// Secure reports whether the cookie should be HTTPS-only.
func (s *Sessions) Secure() bool { return s.cfg.Secure }

func (s *Sessions) sign(input string) string {
	mac := hmac.New(sha256.New, []byte(s.cfg.Secret))
	mac.Write([]byte(input))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
