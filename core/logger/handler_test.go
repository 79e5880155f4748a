package logger

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"
	"testing"

	"log/slog"
)

func TestStructuredHandlerKVOrder(t *testing.T) {
	buf := &bytes.Buffer{}
	aw := newAsyncWriter([]io.Writer{buf}, 1024)
	handler := newStructuredHandler(handlerConfig{
		level:    slog.LevelInfo,
		writer:   aw,
		format:   formatKV,
		keyOrder: append([]string(nil), defaultKeyOrder...),
	})
	ctx := WithRID(Background(), "rid-123")
	ctx = WithUpdateMeta(ctx, 42, 7, 9)

	log := slog.New(handler).With("component", "wizard")
	LogEvent(ctx, log, slog.LevelInfo, "step.advanced",
		slog.String("status", "ok"),
		slog.String("state", "district"),
	)
	if err := aw.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if err := aw.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	line := strings.TrimSpace(buf.String())
	if line == "" {
		t.Fatal("expected log line")
	}
	tokens := strings.Split(line, " ")
	expected := []string{"ts=", "level=INFO", "component=wizard", "event=step.advanced", "status=ok", "rid=rid-123"}
	if len(tokens) < len(expected) {
		t.Fatalf("unexpected token count: %d (%s)", len(tokens), line)
	}
	for i, prefix := range expected {
		if !strings.HasPrefix(tokens[i], prefix) {
			t.Fatalf("token %d = %s, expected prefix %s", i, tokens[i], prefix)
		}
	}
	if !strings.Contains(line, "state=district") {
		t.Fatalf("expected state attribute in %s", line)
	}
}

func TestStructuredHandlerJSONFields(t *testing.T) {
	buf := &bytes.Buffer{}
	aw := newAsyncWriter([]io.Writer{buf}, 1024)
	handler := newStructuredHandler(handlerConfig{
		level:  slog.LevelDebug,
		writer: aw,
		format: formatJSON,
	})
	ctx := WithRID(Background(), "100:200:300")

	log := slog.New(handler)
	LogEvent(ctx, log, slog.LevelInfo, "publish.sent",
		slog.Int64("user_id", 300),
		slog.Int("photos", 3),
	)
	if err := aw.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if err := aw.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid json line %q: %v", buf.String(), err)
	}
	if decoded["event"] != "publish.sent" {
		t.Fatalf("event = %v", decoded["event"])
	}
	if decoded["component"] != "app" {
		t.Fatalf("component default = %v", decoded["component"])
	}
	// rid is compacted for readability, the full value is preserved separately
	if decoded["rid_full"] != "100:200:300" {
		t.Fatalf("rid_full = %v", decoded["rid_full"])
	}
	if decoded["rid"] == "100:200:300" {
		t.Fatal("expected compacted rid")
	}
}

func TestSanitizeLimit(t *testing.T) {
	in := "line\x00with\x1bcontrol"
	out := SanitizeLimit(in, 8)
	if strings.ContainsAny(out, "\x00\x1b") {
		t.Fatalf("control characters survived: %q", out)
	}
	if len([]rune(out)) > 8 {
		t.Fatalf("limit not applied: %q", out)
	}
}

func TestCompactRIDRoundTrip(t *testing.T) {
	if got := CompactRID("35:36:37"); got != "z.10.11" {
		t.Fatalf("CompactRID = %q", got)
	}
	if got := CompactRID("not-a-rid"); got != "not-a-rid" {
		t.Fatalf("malformed rid should pass through, got %q", got)
	}
}
