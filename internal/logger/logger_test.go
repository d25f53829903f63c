package logger

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name  string
		level string
	}{
		{"debug level", "debug"},
		{"info level", "info"},
		{"warn level", "warn"},
		{"error level", "error"},
		{"invalid level", "invalid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := New(tt.level)
			if log == nil {
				t.Error("New() returned nil")
			}
		})
	}
}

func TestLoggerLevels(t *testing.T) {
	ctx := context.Background()
	core, observed := observer.New(zap.InfoLevel)
	log := FromZap(zap.New(core))

	log.Debug(ctx, "debug message")
	log.Info(ctx, "info message")
	log.Warn(ctx, "warn message")
	log.Error(ctx, "error message")
	log.Info(ctx, "formatted message: %s %d", "test", 123)

	entries := observed.All()
	if len(entries) != 4 {
		t.Fatalf("expected 4 entries above debug, got %d", len(entries))
	}
	if entries[3].Message != "formatted message: test 123" {
		t.Errorf("message = %q", entries[3].Message)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"INFO", zapcore.InfoLevel},
		{"warning", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.in); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestRequestIDAttached(t *testing.T) {
	core, observed := observer.New(zap.DebugLevel)
	log := FromZap(zap.New(core))

	ctx := WithRequestID(context.Background(), "req-42")
	log.With("stage", "ocr").Info(ctx, "hello")

	entries := observed.FilterField(zap.String("request_id", "req-42")).All()
	if len(entries) != 1 {
		t.Fatalf("expected request_id field on entry, got %d entries", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["stage"] != "ocr" {
		t.Errorf("stage field = %v", fields["stage"])
	}
}
