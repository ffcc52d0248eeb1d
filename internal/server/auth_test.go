package server

import (
	"strings"
	"testing"
	"time"
)

func TestSessionsIssueAndVerify(t *testing.T) {
	s := NewSessions(testSessionConfig())
	token, err := s.Issue("admin")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if strings.Count(token, ".") != 2 {
		t.Fatalf("token shape: %q", token)
	}

	claims, err := s.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.Sub != "admin" {
		t.Fatalf("sub = %q", claims.Sub)
	}
	if claims.Exp-claims.Iat != int64(5*24*60*60) {
		t.Fatalf("ttl = %d seconds, want 5 days", claims.Exp-claims.Iat)
	}
}

func TestSessionsIssueUniqueTokens(t *testing.T) {
	s := NewSessions(testSessionConfig())
	first, err := s.Issue("admin")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	second, err := s.Issue("admin")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if first == second {
		t.Fatal("two logins issued the same token")
	}
}

func TestSessionsRejectsTampering(t *testing.T) {
	s := NewSessions(testSessionConfig())
	token, err := s.Issue("admin")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := s.Verify(token + "x"); err == nil {
		t.Fatal("tampered signature accepted")
	}
	if _, err := s.Verify("a.b"); err == nil {
		t.Fatal("malformed token accepted")
	}

	cfg := testSessionConfig()
	cfg.Secret = "different-secret"
	if _, err := NewSessions(cfg).Verify(token); err == nil {
		t.Fatal("token verified under the wrong secret")
	}
}

func TestSessionsExpiry(t *testing.T) {
	s := NewSessions(testSessionConfig())
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	token, err := s.Issue("admin")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	now = now.Add(4 * 24 * time.Hour)
	if _, err := s.Verify(token); err != nil {
		t.Fatalf("token expired early: %v", err)
	}

	now = now.Add(2 * 24 * time.Hour)
	if _, err := s.Verify(token); err == nil {
		t.Fatal("expired token accepted")
	}
}

func TestCheckCredentials(t *testing.T) {
	s := NewSessions(testSessionConfig())
	if !s.CheckCredentials("admin", "hunter2") {
		t.Fatal("valid credentials rejected")
	}
	if s.CheckCredentials("admin", "wrong") {
		t.Fatal("wrong password accepted")
	}
	if s.CheckCredentials("root", "hunter2") {
		t.Fatal("wrong username accepted")
	}

	cfg := testSessionConfig()
	cfg.Password = ""
	if NewSessions(cfg).CheckCredentials("admin", "") {
		t.Fatal("blank configured password must never authenticate")
	}
}
