package logging

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestCompactHandlerFormat(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewCompactHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	log.With("component", "editor").Info("node added", "nodeID", "trigger:1", "x", 120.5, "label", "Send Email")

	line := buf.String()
	if !strings.HasPrefix(line, "[INFO]  ") {
		t.Errorf("expected INFO prefix, got %q", line)
	}
	for _, want := range []string{"node added |", "component=editor", "nodeID=trigger:1", "x=120.5", `label="Send Email"`} {
		if !strings.Contains(line, want) {
			t.Errorf("expected %q in %q", want, line)
		}
	}
}

func TestCompactHandlerShortensIDs(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewCompactHandler(&buf, nil))

	log.Info("connected", "edgeID", "edge:0123456789abcdef", "requestID", "fedcba9876543210")

	line := buf.String()
	if !strings.Contains(line, "edge=01234567") {
		t.Errorf("expected shortened edge id in %q", line)
	}
	if !strings.Contains(line, "req=fedcba98") {
		t.Errorf("expected shortened request id in %q", line)
	}
}

func TestCompactHandlerGroups(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewCompactHandler(&buf, nil))

	log.WithGroup("viewport").Info("set", "zoom", 2)

	if !strings.Contains(buf.String(), "viewport.zoom=2") {
		t.Errorf("expected grouped key in %q", buf.String())
	}
}

func TestCompactHandlerLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewCompactHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))

	log.Info("hidden")
	log.Warn("shown")

	if strings.Contains(buf.String(), "hidden") {
		t.Errorf("info record should be filtered: %q", buf.String())
	}
	if !strings.Contains(buf.String(), "[WARN]  ") {
		t.Errorf("expected warn record: %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"trace", LevelTrace, false},
		{"DEBUG", slog.LevelDebug, false},
		{"", slog.LevelInfo, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"loud", slog.LevelInfo, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	var buf bytes.Buffer
	Configure(&buf, slog.LevelInfo, false)
	defer Configure(&bytes.Buffer{}, slog.LevelInfo, false)

	var seen string
	h := RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/canvas", nil)
	req.Header.Set("X-Request-ID", "abc")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if seen != "abc" {
		t.Errorf("expected request id abc in context, got %q", seen)
	}
	if rec.Header().Get("X-Request-ID") != "abc" {
		t.Errorf("expected request id echoed in header")
	}
	if !strings.Contains(buf.String(), "request completed") {
		t.Errorf("expected completion log, got %q", buf.String())
	}
}
