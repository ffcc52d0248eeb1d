package common

import (
	"errors"
	"testing"
	"time"
)

func validConfig() *Config {
	cfg := LoadConfig()
	cfg.DocAI.CredentialsJSON = `{"project_id": "p"}`
	cfg.DocAI.ProcessorID = "proc-1"
	return cfg
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg := LoadConfig()
	if cfg.Server.Addr != ":8080" {
		t.Errorf("addr = %q", cfg.Server.Addr)
	}
	if cfg.Session.TTL != 5*24*time.Hour {
		t.Errorf("session ttl = %v", cfg.Session.TTL)
	}
	if cfg.Batch.Concurrency != 5 {
		t.Errorf("concurrency = %d", cfg.Batch.Concurrency)
	}
	if cfg.Batch.ScanTimeout != 90*time.Second {
		t.Errorf("scan timeout = %v", cfg.Batch.ScanTimeout)
	}
	if !cfg.Batch.Dedupe {
		t.Error("dedupe should default on")
	}
	if cfg.DocAI.TokenTTL != time.Hour || cfg.DocAI.TokenEarly != 5*time.Minute {
		t.Errorf("token cache defaults = %v / %v", cfg.DocAI.TokenTTL, cfg.DocAI.TokenEarly)
	}
}

func TestValidate(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	cfg := validConfig()
	cfg.DocAI.CredentialsJSON = ""
	if err := cfg.Validate(); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("missing credentials = %v", err)
	}

	cfg = validConfig()
	cfg.Batch.Concurrency = 0
	if err := cfg.Validate(); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("zero concurrency = %v", err)
	}

	cfg = validConfig()
	cfg.Batch.ScanTimeout = 0
	if err := cfg.Validate(); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("zero scan timeout = %v", err)
	}
}
