package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"go.opentelemetry.io/otel/trace"
)

const (
	testTraceID = "4bf92f3577b34da6a3ce929d0e0e4736"
	testSpanID  = "00f067aa0ba902b7"
)

func withSpan(ctx context.Context) context.Context {
	traceID, _ := trace.TraceIDFromHex(testTraceID)
	spanID, _ := trace.SpanIDFromHex(testSpanID)
	return trace.ContextWithSpanContext(ctx, trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	}))
}

// logLine writes one record through WithContext and returns it decoded.
func logLine(t *testing.T, ctx context.Context) map[string]any {
	t.Helper()
	var buf bytes.Buffer
	WithContext(ctx, NewWithFormat("storefront", "info", FormatJSON, &buf)).Info("slide advanced")

	var out map[string]any
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal log line %q: %v", buf.String(), err)
	}
	return out
}

func TestWithContext(t *testing.T) {
	tests := []struct {
		name    string
		ctx     context.Context
		want    map[string]string
		missing []string
	}{
		{
			name:    "empty context",
			ctx:     context.Background(),
			want:    map[string]string{"service": "storefront"},
			missing: []string{"correlation_id", "visitor_id", "trace_id", "span_id"},
		},
		{
			name:    "correlation only",
			ctx:     WithCorrelationID(context.Background(), "req-123"),
			want:    map[string]string{"correlation_id": "req-123"},
			missing: []string{"visitor_id", "trace_id"},
		},
		{
			name:    "visitor only",
			ctx:     WithVisitorID(context.Background(), "visitor-789"),
			want:    map[string]string{"visitor_id": "visitor-789"},
			missing: []string{"correlation_id"},
		},
		{
			name: "all fields",
			ctx:  withSpan(WithVisitorID(WithCorrelationID(context.Background(), "corr-all"), "visitor-all")),
			want: map[string]string{
				"correlation_id": "corr-all",
				"visitor_id":     "visitor-all",
				"trace_id":       testTraceID,
				"span_id":        testSpanID,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := logLine(t, tt.ctx)
			for k, v := range tt.want {
				if got := out[k]; got != v {
					t.Errorf("%s = %v, want %q", k, got, v)
				}
			}
			for _, k := range tt.missing {
				if _, ok := out[k]; ok {
					t.Errorf("%s should be absent, got %v", k, out[k])
				}
			}
		})
	}
}

func TestFromContext(t *testing.T) {
	l := NewWithFormat("storefront", "info", FormatJSON, &bytes.Buffer{})
	if got := FromContext(NewContext(context.Background(), l)); got != l {
		t.Error("FromContext should return the logger stored via NewContext")
	}
	if got := FromContext(context.Background()); got != slog.Default() {
		t.Error("FromContext should fall back to slog.Default")
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"verbose": slog.LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewWithFormat(t *testing.T) {
	var text bytes.Buffer
	NewWithFormat("storefront", "info", FormatText, &text).Info("carousel mounted")
	if out := text.String(); !strings.Contains(out, "carousel mounted") || !strings.Contains(out, "storefront") {
		t.Errorf("text output %q missing message or service", out)
	}

	var filtered bytes.Buffer
	NewWithFormat("storefront", "warn", FormatJSON, &filtered).Info("dropped")
	if filtered.Len() != 0 {
		t.Errorf("info record should be filtered at warn level, got %q", filtered.String())
	}
}
