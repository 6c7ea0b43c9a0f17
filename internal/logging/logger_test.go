package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewLogger_Development(t *testing.T) {
	cfg := DefaultConfig()

	logger, err := NewLogger(cfg)
	if err != nil {
		t.Fatalf("Failed to create development logger: %v", err)
	}

	if !logger.Core().Enabled(zapcore.DebugLevel) {
		t.Error("Expected debug level to be enabled by default")
	}
}

func TestNewLogger_ProductionWritesJSONLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.log")

	logger, err := NewLogger(Config{
		Level:       "info",
		Environment: EnvironmentProduction,
		OutputPaths: []string{path},
	})
	if err != nil {
		t.Fatalf("Failed to create production logger: %v", err)
	}

	logger.Info("request completed", zap.String(FieldRequestID, "abc"), zap.Int(FieldStatusCode, 200))
	logger.Debug("filtered out")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read log output: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 1 {
		t.Fatalf("Expected exactly 1 line, got %d: %q", len(lines), data)
	}

	var entry map[string]interface{}
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("Expected JSON line, got %q: %v", lines[0], err)
	}
	if entry["msg"] != "request completed" {
		t.Errorf("Expected msg 'request completed', got %v", entry["msg"])
	}
	if entry[FieldRequestID] != "abc" {
		t.Errorf("Expected requestId 'abc', got %v", entry[FieldRequestID])
	}
	if entry[FieldStatusCode] != float64(200) {
		t.Errorf("Expected statusCode 200, got %v", entry[FieldStatusCode])
	}
}

func TestNewLogger_InvalidLevel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Level = "invalid"

	if _, err := NewLogger(cfg); err == nil {
		t.Fatal("Expected error for invalid log level")
	}
}

func TestNewLogger_AllLevels(t *testing.T) {
	levels := []string{"debug", "info", "warn", "error"}

	for _, level := range levels {
		t.Run(level, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Level = level
			cfg.Environment = EnvironmentProduction

			logger, err := NewLogger(cfg)
			if err != nil {
				t.Fatalf("Failed to create logger with level %s: %v", level, err)
			}

			want, _ := ParseLevel(level)
			if !logger.Core().Enabled(want) {
				t.Errorf("Expected level %s to be enabled", level)
			}
			if want > zapcore.DebugLevel && logger.Core().Enabled(want-1) {
				t.Errorf("Expected level below %s to be disabled", level)
			}
		})
	}
}

func TestNew(t *testing.T) {
	for _, env := range []string{"development", "production", "test"} {
		t.Run(env, func(t *testing.T) {
			logger, err := New(env, "info")
			if err != nil {
				t.Fatalf("New(%q) failed: %v", env, err)
			}
			logger.Info("test message")
		})
	}
}

func TestEncodingFromEnvironment(t *testing.T) {
	tests := []struct {
		env      Environment
		expected string
	}{
		{EnvironmentProduction, "json"},
		{EnvironmentDevelopment, "console"},
		{EnvironmentTest, "console"},
	}

	for _, tt := range tests {
		t.Run(string(tt.env), func(t *testing.T) {
			result := encodingFromEnvironment(tt.env)
			if result != tt.expected {
				t.Errorf("Expected encoding %s for %s, got %s", tt.expected, tt.env, result)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected zapcore.Level
		hasError bool
	}{
		{"debug", zapcore.DebugLevel, false},
		{"info", zapcore.InfoLevel, false},
		{"warn", zapcore.WarnLevel, false},
		{"error", zapcore.ErrorLevel, false},
		{"DEBUG", zapcore.DebugLevel, false},
		{"invalid", zapcore.DebugLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			level, err := ParseLevel(tt.input)

			if tt.hasError {
				if err == nil {
					t.Errorf("Expected error for input %s", tt.input)
				}
				return
			}
			if err != nil {
				t.Errorf("Unexpected error for input %s: %v", tt.input, err)
			}
			if level != tt.expected {
				t.Errorf("Expected level %v, got %v", tt.expected, level)
			}
		})
	}
}
