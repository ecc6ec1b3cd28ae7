package logging_test

import (
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/psacc/lumberjack/internal/logging"
)

func newFileLogger(t *testing.T, opts logging.Options) (*slog.Logger, string) {
	t.Helper()
	logPath := filepath.Join(t.TempDir(), "nested", "lumberjack.log")
	opts.OutputPaths = []string{logPath}

	logger, closer, err := logging.New(opts)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	t.Cleanup(func() { closer.Close() })
	return logger, logPath
}

func readLog(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	return string(content)
}

func TestJSONLoggerShape(t *testing.T) {
	logger, path := newFileLogger(t, logging.Options{Level: "info", Format: "json"})

	logger.Info("search started", logging.FieldGroup, "/aws/lambda/api")

	var rec map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(readLog(t, path))), &rec); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if rec["level"] != "info" {
		t.Errorf("level = %v, want info", rec["level"])
	}
	if rec["msg"] != "search started" {
		t.Errorf("msg = %v", rec["msg"])
	}
	if _, ok := rec["ts"]; !ok {
		t.Error("expected ts key")
	}
	if rec[logging.FieldGroup] != "/aws/lambda/api" {
		t.Errorf("group = %v", rec[logging.FieldGroup])
	}
}

func TestLevelFiltering(t *testing.T) {
	tests := []struct {
		level     string
		wantDebug bool
		wantInfo  bool
	}{
		{level: "debug", wantDebug: true, wantInfo: true},
		{level: "info", wantDebug: false, wantInfo: true},
		{level: "", wantDebug: false, wantInfo: true},
		{level: "warn", wantDebug: false, wantInfo: false},
		{level: "bogus", wantDebug: false, wantInfo: true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logger, path := newFileLogger(t, logging.Options{Level: tt.level, Format: "text"})
			logger.Debug("debug message")
			logger.Info("info message")

			got := readLog(t, path)
			if strings.Contains(got, "debug message") != tt.wantDebug {
				t.Errorf("debug present = %v, want %v", !tt.wantDebug, tt.wantDebug)
			}
			if strings.Contains(got, "info message") != tt.wantInfo {
				t.Errorf("info present = %v, want %v", !tt.wantInfo, tt.wantInfo)
			}
		})
	}
}

func TestUnsupportedFormat(t *testing.T) {
	_, _, err := logging.New(logging.Options{Format: "xml", OutputPaths: []string{filepath.Join(t.TempDir(), "x.log")}})
	if err == nil || !strings.Contains(err.Error(), "unsupported") {
		t.Fatalf("expected unsupported format error, got %v", err)
	}
}

func TestComponentLogger(t *testing.T) {
	logger, path := newFileLogger(t, logging.Options{Format: "json"})
	logging.NewComponentLogger(logger, "tail").Warn("poll failed", logging.Error(errors.New("throttled")))

	got := readLog(t, path)
	if !strings.Contains(got, `"component":"tail"`) {
		t.Errorf("missing component attribute: %s", got)
	}
	if !strings.Contains(got, `"error":"throttled"`) {
		t.Errorf("missing error attribute: %s", got)
	}
}

func TestNopAndNilComponent(t *testing.T) {
	logging.NewNop().Error("dropped")
	logger := logging.NewComponentLogger(nil, "x")
	if logger == nil {
		t.Fatal("expected logger")
	}
	if logging.Enabled(logger, slog.LevelError) {
		t.Error("nop logger should not be enabled")
	}
}

func TestValidLevel(t *testing.T) {
	for _, l := range []string{"", "debug", "INFO", "warn", "error"} {
		if !logging.ValidLevel(l) {
			t.Errorf("ValidLevel(%q) = false", l)
		}
	}
	if logging.ValidLevel("verbose") {
		t.Error("ValidLevel(verbose) = true")
	}
}
