package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yml := `
paths:
  transcripts: in
  conversations: out
  cache: c
parser:
  ai_marker: "AI (chunk)"
  merge_gap: 2500ms
oracle:
  model: test-model
  timeout: 5s
workers: 2
`
	if err := os.WriteFile(path, []byte(yml), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("LLM_MODEL", "env-model")
	t.Setenv("USE_MOCK_LLM", "true")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Parser.AIMarker != "AI (chunk)" {
		t.Errorf("expected ai marker from file, got %q", cfg.Parser.AIMarker)
	}
	if cfg.Parser.MergeGap != 2500*time.Millisecond {
		t.Errorf("expected merge gap 2.5s, got %s", cfg.Parser.MergeGap)
	}
	if cfg.Parser.NoiseMarker != "<noise>" {
		t.Errorf("expected default noise marker, got %q", cfg.Parser.NoiseMarker)
	}
	if cfg.Oracle.Model != "env-model" {
		t.Errorf("env should override file model, got %q", cfg.Oracle.Model)
	}
	if !cfg.Oracle.UseMock {
		t.Error("expected mock oracle from env")
	}
	if cfg.Workers != 2 {
		t.Errorf("expected 2 workers, got %d", cfg.Workers)
	}
	if cfg.Cache.MaxAge != 7*24*time.Hour {
		t.Errorf("expected default max age, got %s", cfg.Cache.MaxAge)
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Parser.MergeGap != 2*time.Second {
		t.Errorf("expected default merge gap, got %s", cfg.Parser.MergeGap)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Root)
	}{
		{"empty marker", func(r *Root) { r.Parser.AIMarker = "" }},
		{"negative gap", func(r *Root) { r.Parser.MergeGap = -time.Second }},
		{"zero timeout", func(r *Root) { r.Oracle.Timeout = 0 }},
		{"zero max age", func(r *Root) { r.Cache.MaxAge = 0 }},
		{"no workers", func(r *Root) { r.Workers = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
	if err := Default().Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoad_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("parser: [unterminated"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected decode error")
	}
}
