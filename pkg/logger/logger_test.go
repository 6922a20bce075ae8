package logger

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestNewJSONFormat(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("LOG_FORMAT", "")
	var buf bytes.Buffer
	lg := New(&buf, "info", "json")
	lg.Info("hello", "k", "v")
	if !strings.HasPrefix(buf.String(), "{") || !strings.Contains(buf.String(), `"k":"v"`) {
		t.Fatalf("expected json line, got %q", buf.String())
	}
}

func TestNewLevelFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("LOG_FORMAT", "")
	var buf bytes.Buffer
	lg := New(&buf, "debug", "text")
	lg.Warn("suppressed")
	if buf.Len() != 0 {
		t.Fatalf("expected warn to be filtered, got %q", buf.String())
	}
}

func TestNoticeIgnoresConfiguredLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("LOG_FORMAT", "")
	var buf bytes.Buffer
	lg := New(&buf, "info", "text")
	Notice(context.Background(), lg, "always", "k", "v")
	if !strings.Contains(buf.String(), "level=NOTICE") || !strings.Contains(buf.String(), "always") {
		t.Fatalf("expected notice line, got %q", buf.String())
	}
}

func TestNoticeSurvivesLevelAboveError(t *testing.T) {
	t.Setenv("LOG_LEVEL", "ERROR+8")
	t.Setenv("LOG_FORMAT", "")
	var buf bytes.Buffer
	Notice(context.Background(), New(&buf, "", ""), "always")
	if buf.Len() == 0 {
		t.Fatalf("notice must not be filtered")
	}
}

func TestFromContext(t *testing.T) {
	fallback := Discard()
	if FromContext(context.Background(), fallback) != fallback {
		t.Fatalf("expected fallback logger")
	}
	var buf bytes.Buffer
	scoped := New(&buf, "info", "text").With("request_id", "r1")
	ctx := WithContext(context.Background(), scoped)
	FromContext(ctx, fallback).Info("hello")
	if !strings.Contains(buf.String(), "request_id=r1") {
		t.Fatalf("expected scoped logger, got %q", buf.String())
	}
}
