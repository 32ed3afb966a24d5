package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" DEBUG ": slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for name, want := range tests {
		if got := ParseLevel(name); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestGetWeekKey(t *testing.T) {
	tests := []struct {
		date time.Time
		want string
	}{
		{time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC), "2026-W01"},
		{time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC), "2026-W42"},
		// ISO week 53 of the previous year
		{time.Date(2021, 1, 2, 0, 0, 0, 0, time.UTC), "2020-W53"},
	}
	for _, tt := range tests {
		if got := getWeekKey(tt.date); got != tt.want {
			t.Errorf("getWeekKey(%s) = %q, want %q", tt.date.Format(time.DateOnly), got, tt.want)
		}
	}
}

func TestRotatingLoggerRotatesWeekly(t *testing.T) {
	dir := t.TempDir()
	rl := NewRotatingLogger(dir, 4)
	defer rl.Close()

	clock := time.Date(2026, 10, 12, 9, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return clock }

	if _, err := rl.Write([]byte("first week\n")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	clock = clock.AddDate(0, 0, 7)
	if _, err := rl.Write([]byte("second week\n")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	for week, want := range map[string]string{"2026-W42": "first week\n", "2026-W43": "second week\n"} {
		content, err := os.ReadFile(filepath.Join(dir, "app-"+week+".log"))
		if err != nil {
			t.Fatalf("log file for %s: %v", week, err)
		}
		if string(content) != want {
			t.Errorf("%s content = %q, want %q", week, content, want)
		}
	}
}

func TestRotatingLoggerCleansOldFiles(t *testing.T) {
	dir := t.TempDir()

	old := filepath.Join(dir, "app-2020-W01.log")
	recent := filepath.Join(dir, "app-2026-W41.log")
	other := filepath.Join(dir, "notes.txt")
	for _, name := range []string{old, recent, other} {
		if err := os.WriteFile(name, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	longAgo := time.Now().AddDate(-1, 0, 0)
	if err := os.Chtimes(old, longAgo, longAgo); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(other, longAgo, longAgo); err != nil {
		t.Fatal(err)
	}

	rl := NewRotatingLogger(dir, 1)
	defer rl.Close()
	if _, err := rl.Write([]byte("hello\n")); err != nil {
		t.Fatal(err)
	}

	if _, err := os.Stat(old); !os.IsNotExist(err) {
		t.Error("log file past retention should be removed")
	}
	if _, err := os.Stat(recent); err != nil {
		t.Error("recent log file should be kept")
	}
	if _, err := os.Stat(other); err != nil {
		t.Error("non-log files should be kept")
	}
}

func TestSetupLoggerWritesJSONFile(t *testing.T) {
	dir := t.TempDir()
	logger, rotator := SetupLogger(dir, slog.LevelInfo, 1)
	if rotator == nil {
		t.Fatal("a log directory should produce a rotator")
	}

	logger.Debug("hidden")
	logger.Info("catalog loaded", "plans", 5)
	if err := rotator.Close(); err != nil {
		t.Fatal(err)
	}

	content, err := os.ReadFile(filepath.Join(dir, "app-"+getWeekKey(time.Now())+".log"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	if len(lines) != 1 {
		t.Fatalf("lines = %d, want 1: %q", len(lines), content)
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("file entry is not JSON: %v", err)
	}
	if entry["msg"] != "catalog loaded" || entry["plans"] != float64(5) {
		t.Errorf("entry = %v", entry)
	}
}

func TestSetupLoggerConsoleOnly(t *testing.T) {
	logger, rotator := SetupLogger("", slog.LevelInfo, 1)
	if logger == nil {
		t.Fatal("logger should not be nil")
	}
	if rotator != nil {
		t.Error("no rotator without a log directory")
	}
}

func TestInitLoggerWithLevel(t *testing.T) {
	defer InitLogger("")

	InitLoggerWithLevel(t.TempDir(), "warn", 1)
	if DefaultLoggingService.rotator == nil {
		t.Fatal("rotator should be set")
	}
	if Default().Enabled(context.Background(), slog.LevelInfo) {
		t.Error("info should be disabled at warn level")
	}

	// re-initializing closes the previous file
	previous := DefaultLoggingService.rotator
	InitLogger("")
	previous.mu.Lock()
	closed := previous.currentFile == nil
	previous.mu.Unlock()
	if !closed {
		t.Error("previous log file should be closed")
	}
}

func TestDefaultBeforeInit(t *testing.T) {
	saved := DefaultLoggingService
	DefaultLoggingService = nil
	defer func() { DefaultLoggingService = saved }()

	if Default() == nil {
		t.Fatal("Default() should fall back to a console logger")
	}
	Info("logged through the fallback")
}

func TestLoggingMiddleware(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	handler := middleware.RequestID(LoggingMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte("created"))
	})))

	req := httptest.NewRequest("POST", "/admin/plans?dry=1", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v (%q)", err, buf.String())
	}
	want := map[string]any{
		"msg":           "HTTP request",
		"method":        "POST",
		"path":          "/admin/plans",
		"query":         "dry=1",
		"status_code":   float64(http.StatusCreated),
		"bytes_written": float64(len("created")),
	}
	for k, v := range want {
		if entry[k] != v {
			t.Errorf("%s = %v, want %v", k, entry[k], v)
		}
	}
	if id, _ := entry["request_id"].(string); id == "" || id == "unknown" {
		t.Errorf("request_id = %v", entry["request_id"])
	}
}

func TestLoggingMiddlewareDefaults(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	handler := LoggingMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/plans", nil))

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatal(err)
	}
	if entry["status_code"] != float64(http.StatusOK) || entry["request_id"] != "unknown" {
		t.Errorf("entry = %v", entry)
	}
	if _, ok := entry["query"]; ok {
		t.Error("query should be omitted when empty")
	}
}

func TestLoggingMiddlewareSkipsProbes(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	handler := LoggingMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	for _, path := range []string{"/health", "/metrics"} {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", path, nil))
	}
	if buf.Len() != 0 {
		t.Errorf("probe requests should not be logged: %q", buf.String())
	}
}
