package logging

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"go.trai.ch/zerr"
)

func TestNew_DefaultLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Writer: &buf})

	logger.Info("info suppressed")
	logger.Warn("warn shown")

	out := buf.String()
	if strings.Contains(out, "info suppressed") {
		t.Errorf("expected info to be suppressed, got %q", out)
	}
	if !strings.Contains(out, "warn shown") {
		t.Errorf("expected warn output, got %q", out)
	}
}

func TestNew_Verbose(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Verbose: true, Writer: &buf})

	logger.Debug("fetching", "title", "Cat")

	out := buf.String()
	if !strings.Contains(out, "fetching") || !strings.Contains(out, "title=Cat") {
		t.Errorf("expected debug output with attributes, got %q", out)
	}
}

func TestOrNop(t *testing.T) {
	if OrNop(nil) == nil {
		t.Fatal("OrNop(nil) returned nil")
	}
	logger := New(Options{})
	if OrNop(logger) != logger {
		t.Error("OrNop should return the given logger")
	}
}

func TestError_IncludesMetadata(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Writer: &buf})

	err := zerr.With(zerr.Wrap(errors.New("boom"), "analyze"), "category", "Physics")
	Error(context.Background(), logger, err)
	Error(context.Background(), logger, nil)

	out := buf.String()
	if !strings.Contains(out, "analyze: boom") {
		t.Errorf("expected error message, got %q", out)
	}
	if !strings.Contains(out, "category=Physics") {
		t.Errorf("expected metadata field, got %q", out)
	}
	if strings.Count(out, "level=ERROR") != 1 {
		t.Errorf("expected exactly one error line, got %q", out)
	}
}
