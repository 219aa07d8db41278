package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"indicatorcli/internal/config"
)

func TestInitializeLogger(t *testing.T) {
	ResetLoggerForTesting()
	defer ResetLoggerForTesting()

	logFile := filepath.Join(t.TempDir(), "logs", "test.log")

	cfg := config.LoggingConfig{
		Level:    "info",
		Format:   "json",
		Output:   "file",
		FilePath: logFile,
	}

	logger, err := InitializeLogger(cfg, os.Stderr, os.Stdout)
	if err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}
	if logger == nil {
		t.Fatal("Logger is nil")
	}
	if GetLogger() != logger {
		t.Error("GetLogger did not return the initialized logger")
	}

	if _, err := os.Stat(logFile); os.IsNotExist(err) {
		t.Error("Log file was not created")
	}

	logger.Info("test message", "key", "value")

	// Close log file to allow reading on Windows
	CloseLogFile()

	content, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}

	var logEntry map[string]interface{}
	if err := json.Unmarshal(content, &logEntry); err != nil {
		t.Fatalf("Log output is not valid JSON: %v", err)
	}

	if logEntry["msg"] != "test message" {
		t.Errorf("Expected msg='test message', got %v", logEntry["msg"])
	}
	if logEntry["key"] != "value" {
		t.Errorf("Expected key='value', got %v", logEntry["key"])
	}
	if logEntry["level"] != "INFO" {
		t.Errorf("Expected level='INFO', got %v", logEntry["level"])
	}
}

func TestInitializeLogger_Reinitialize(t *testing.T) {
	ResetLoggerForTesting()
	defer ResetLoggerForTesting()
	previous := slog.Default()
	defer slog.SetDefault(previous)

	var first, second bytes.Buffer
	cfg := config.LoggingConfig{Level: "info", Format: "json", Output: "stderr"}

	if _, err := InitializeLogger(cfg, &first, &bytes.Buffer{}); err != nil {
		t.Fatalf("first InitializeLogger failed: %v", err)
	}
	logger, err := InitializeLogger(cfg, &second, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("second InitializeLogger failed: %v", err)
	}

	slog.Info("after reinit")

	if first.Len() != 0 {
		t.Errorf("first logger still receives output: %s", first.String())
	}
	if !strings.Contains(second.String(), "after reinit") {
		t.Errorf("default logger not replaced, got %q", second.String())
	}
	if GetLogger() != logger {
		t.Error("GetLogger did not return the latest logger")
	}
}

func TestNewLogger_Outputs(t *testing.T) {
	tests := []struct {
		output     string
		wantStderr bool
		wantStdout bool
	}{
		{output: "stderr", wantStderr: true},
		{output: "", wantStderr: true},
		{output: "stdout", wantStdout: true},
		{output: "console", wantStdout: true},
	}

	for _, tt := range tests {
		t.Run("output="+tt.output, func(t *testing.T) {
			var stderr, stdout bytes.Buffer
			logger, err := NewLogger(config.LoggingConfig{Level: "info", Output: tt.output}, &stderr, &stdout)
			if err != nil {
				t.Fatalf("NewLogger failed: %v", err)
			}

			logger.Info("routed")

			if got := stderr.Len() > 0; got != tt.wantStderr {
				t.Errorf("stderr written = %v, want %v", got, tt.wantStderr)
			}
			if got := stdout.Len() > 0; got != tt.wantStdout {
				t.Errorf("stdout written = %v, want %v", got, tt.wantStdout)
			}
		})
	}
}

func TestNewLogger_BothWritesStderrAndFile(t *testing.T) {
	defer CloseLogFile()

	var stderr bytes.Buffer
	logFile := filepath.Join(t.TempDir(), "both.log")

	logger, err := NewLogger(config.LoggingConfig{Level: "info", Output: "both", FilePath: logFile}, &stderr, nil)
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}
	logger.Info("twice")
	CloseLogFile()

	content, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	if !strings.Contains(string(content), `"msg":"twice"`) {
		t.Errorf("log file missing entry: %s", content)
	}
	if !strings.Contains(stderr.String(), `"msg":"twice"`) {
		t.Errorf("stderr missing entry: %s", stderr.String())
	}
}

func TestNewLogger_TextFormat(t *testing.T) {
	var stderr bytes.Buffer
	logger, err := NewLogger(config.LoggingConfig{Level: "info", Format: "text"}, &stderr, nil)
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}

	logger.Info("plain", "rows", 3)

	out := stderr.String()
	if !strings.Contains(out, "msg=plain") || !strings.Contains(out, "rows=3") {
		t.Errorf("unexpected text output: %s", out)
	}
}

func TestTraceIDInjection(t *testing.T) {
	var stderr bytes.Buffer
	logger, err := NewLogger(config.LoggingConfig{Level: "debug", Output: "stderr"}, &stderr, nil)
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}

	ctx := WithTraceID(context.Background(), "test-trace-123")
	logger.InfoContext(ctx, "test with trace")

	var logEntry map[string]interface{}
	if err := json.Unmarshal(stderr.Bytes(), &logEntry); err != nil {
		t.Fatalf("Failed to parse log JSON: %v", err)
	}

	if logEntry["trace_id"] != "test-trace-123" {
		t.Errorf("Expected trace_id='test-trace-123', got %v", logEntry["trace_id"])
	}
}

func TestLogLevels(t *testing.T) {
	tests := []struct {
		level    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"ERROR", slog.LevelError},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			if got := parseLogLevel(tt.level); got != tt.expected {
				t.Errorf("parseLogLevel(%q) = %v, want %v", tt.level, got, tt.expected)
			}
		})
	}
}

func TestLogLevelFiltering(t *testing.T) {
	var stderr bytes.Buffer
	logger, err := NewLogger(config.LoggingConfig{Level: "warn"}, &stderr, nil)
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}

	logger.Info("dropped")
	logger.Warn("kept")

	out := stderr.String()
	if strings.Contains(out, "dropped") {
		t.Error("info record passed a warn-level logger")
	}
	if !strings.Contains(out, "kept") {
		t.Error("warn record was filtered")
	}
}

func TestContextHelpers(t *testing.T) {
	ctx := EnsureTraceID(context.Background())
	traceID := GetTraceID(ctx)
	if traceID == "" {
		t.Fatal("Expected trace ID to be generated")
	}

	if GetTraceID(EnsureTraceID(ctx)) != traceID {
		t.Error("EnsureTraceID changed existing trace ID")
	}

	if GetTraceID(context.Background()) != "" {
		t.Error("Expected empty trace ID for bare context")
	}
}

func TestLoggerHelpers(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	WithComponent(logger, "dateshift").Info("test message")

	var logEntry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
		t.Fatalf("Failed to parse log JSON: %v", err)
	}
	if logEntry["component"] != "dateshift" {
		t.Errorf("Expected component='dateshift', got %v", logEntry["component"])
	}

	buf.Reset()
	WithError(logger, os.ErrNotExist).Info("error test")

	logEntry = nil
	if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
		t.Fatalf("Failed to parse log JSON: %v", err)
	}
	if !strings.Contains(logEntry["error"].(string), "file does not exist") {
		t.Errorf("Expected error to contain 'file does not exist', got %v", logEntry["error"])
	}

	if WithError(logger, nil) != logger {
		t.Error("WithError(nil) should return the same logger")
	}
}
