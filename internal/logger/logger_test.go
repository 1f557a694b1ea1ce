package logger

import (
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestWithRun_GeneratesID(t *testing.T) {
	l := New()
	e := l.WithRun("")
	id, ok := e.Data["run_id"].(string)
	if !ok || id == "" {
		t.Fatalf("expected generated run_id, got %v", e.Data["run_id"])
	}
	if got := l.WithRun("batch-7").Data["run_id"]; got != "batch-7" {
		t.Errorf("expected run_id batch-7, got %v", got)
	}
}

func TestWithError(t *testing.T) {
	l := New()
	if e := l.WithError(nil); e != l.Entry {
		t.Error("nil error should return the base entry")
	}
	e := l.WithError(errors.New("boom"))
	if e.Data["error"] != "boom" {
		t.Errorf("expected error field boom, got %v", e.Data["error"])
	}
}

func TestLevelFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	if lvl := New().Logger.GetLevel().String(); lvl != "debug" {
		t.Errorf("expected debug level, got %s", lvl)
	}
}

func TestComponent(t *testing.T) {
	if got := New().Component("cache").Data["component"]; got != "cache" {
		t.Errorf("expected component cache, got %v", got)
	}
}

func TestLevelFor(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"", "info"},
		{"warn", "warning"},
		{" error ", "error"},
		{"loud", "info"},
	}
	for _, tt := range tests {
		if got := levelFor(tt.raw).String(); got != tt.want {
			t.Errorf("levelFor(%q) = %s, want %s", tt.raw, got, tt.want)
		}
	}
}

func TestFormatterFor(t *testing.T) {
	if _, ok := formatterFor("local").(*logrus.TextFormatter); !ok {
		t.Error("local should use the text formatter")
	}
	if _, ok := formatterFor("prod").(*logrus.JSONFormatter); !ok {
		t.Error("non-local should use the JSON formatter")
	}
}
