package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"bogus":   zapcore.InfoLevel,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestZapLoggerWritesObjectField(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewZapLogger(zap.New(core))

	log.InfoObj("load completed", "load_result", map[string]any{"images": 2})
	log.WarnObj("publish skipped", "digest", "abc")

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Message != "load completed" {
		t.Fatalf("unexpected message %q", entries[0].Message)
	}
	if _, ok := entries[0].ContextMap()["load_result"]; !ok {
		t.Fatalf("expected load_result field, got %#v", entries[0].ContextMap())
	}
	if entries[1].Level != zapcore.WarnLevel {
		t.Fatalf("expected warn level, got %v", entries[1].Level)
	}
}

func TestEnsureFallsBackToNop(t *testing.T) {
	if _, ok := Ensure(nil).(NopLogger); !ok {
		t.Fatalf("expected NopLogger for nil input")
	}
}
