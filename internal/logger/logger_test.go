package logger

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestNewWithWriter(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewWithWriter(buf)

	log.Info().Str("backend", "file").Msg("test message")

	output := buf.String()
	if !strings.Contains(output, "test message") {
		t.Errorf("Expected output to contain 'test message', got: %s", output)
	}
	if !strings.Contains(output, `"backend":"file"`) {
		t.Errorf("Expected output to contain backend field, got: %s", output)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{" WARN ", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"", zerolog.InfoLevel},
		{"verbose", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseLevel(tt.in); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestNew_AppliesLevel(t *testing.T) {
	log := New("error", "json")
	if log.GetLevel() != zerolog.ErrorLevel {
		t.Errorf("Expected error level, got %v", log.GetLevel())
	}
}

func TestFromContext(t *testing.T) {
	buf := &bytes.Buffer{}
	ctx := WithContext(context.Background(), NewWithWriter(buf))

	log := FromContext(ctx)
	log.Info().Msg("test")

	if buf.Len() == 0 {
		t.Error("Expected log output from retrieved logger")
	}
}

func TestFromContext_Missing(t *testing.T) {
	log := FromContext(context.Background())
	if log.GetLevel() != zerolog.Disabled {
		t.Errorf("Expected disabled logger, got level %v", log.GetLevel())
	}
}

func TestNewWithOutput(t *testing.T) {
	tests := []struct {
		format string
		want   string
	}{
		{format: "json", want: `"message":"to buffer"`},
		{format: "console", want: "to buffer"},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			buf := &bytes.Buffer{}
			log := NewWithOutput("info", tt.format, buf)

			log.Info().Msg("to buffer")
			log.Debug().Msg("filtered")

			output := buf.String()
			if !strings.Contains(output, tt.want) {
				t.Errorf("Expected output to contain %s, got: %s", tt.want, output)
			}
			if strings.Contains(output, "filtered") {
				t.Errorf("Expected debug line to be filtered, got: %s", output)
			}
		})
	}
}
