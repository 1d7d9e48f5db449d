package logging_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/JaimeStill/agent-instances/pkg/logging"
)

func TestNewWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewWithWriter(&logging.Config{Level: logging.LevelInfo, Format: logging.FormatJSON}, &buf)

	logger.Info("instance created", "id", "abc")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if entry["msg"] != "instance created" {
		t.Errorf("msg = %v, want %q", entry["msg"], "instance created")
	}
	if entry["id"] != "abc" {
		t.Errorf("id = %v, want %q", entry["id"], "abc")
	}
}

func TestNewWithWriter_Text(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewWithWriter(&logging.Config{Level: logging.LevelDebug, Format: logging.FormatText}, &buf)

	logger.Debug("resolving tools", "count", 2)

	out := buf.String()
	if !strings.Contains(out, "resolving tools") || !strings.Contains(out, "count=2") {
		t.Errorf("text output = %q", out)
	}
	if strings.Contains(out, "\x1b[") {
		t.Errorf("text output to a buffer contains color codes: %q", out)
	}
}

func TestNewWithWriter_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewWithWriter(&logging.Config{Level: logging.LevelWarn, Format: logging.FormatJSON}, &buf)

	logger.Info("dropped")
	if buf.Len() != 0 {
		t.Errorf("info logged at warn level: %q", buf.String())
	}
}

func TestLevel_ToSlogLevel(t *testing.T) {
	tests := []struct {
		level logging.Level
		want  slog.Level
	}{
		{logging.LevelDebug, slog.LevelDebug},
		{logging.LevelInfo, slog.LevelInfo},
		{logging.LevelWarn, slog.LevelWarn},
		{logging.LevelError, slog.LevelError},
		{logging.Level("verbose"), slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(string(tt.level), func(t *testing.T) {
			if got := tt.level.ToSlogLevel(); got != tt.want {
				t.Errorf("ToSlogLevel() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConfig_Finalize(t *testing.T) {
	env := &logging.Env{Level: "TEST_LOG_LEVEL", Format: "TEST_LOG_FORMAT"}

	t.Run("defaults", func(t *testing.T) {
		cfg := &logging.Config{}
		if err := cfg.Finalize(nil); err != nil {
			t.Fatalf("Finalize() error = %v", err)
		}
		if cfg.Level != logging.LevelInfo || cfg.Format != logging.FormatText {
			t.Errorf("Finalize() = %+v, want info/text", cfg)
		}
	})

	t.Run("env override", func(t *testing.T) {
		t.Setenv("TEST_LOG_LEVEL", "debug")
		t.Setenv("TEST_LOG_FORMAT", "json")

		cfg := &logging.Config{Level: logging.LevelError}
		if err := cfg.Finalize(env); err != nil {
			t.Fatalf("Finalize() error = %v", err)
		}
		if cfg.Level != logging.LevelDebug || cfg.Format != logging.FormatJSON {
			t.Errorf("Finalize() = %+v, want debug/json", cfg)
		}
	})

	t.Run("invalid", func(t *testing.T) {
		os.Unsetenv("TEST_LOG_LEVEL")
		cfg := &logging.Config{Level: "loud"}
		if err := cfg.Finalize(env); err == nil {
			t.Error("Finalize() error = nil, want invalid level")
		}
	})
}

func TestNewWithWriter_Source(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewWithWriter(&logging.Config{Level: logging.LevelInfo, Format: logging.FormatJSON, Source: true}, &buf)

	logger.Info("with source")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if _, ok := entry[slog.SourceKey]; !ok {
		t.Errorf("entry missing %q: %v", slog.SourceKey, entry)
	}
}

func TestConfig_Finalize_SourceEnv(t *testing.T) {
	t.Setenv("TEST_LOG_SOURCE", "true")

	cfg := &logging.Config{}
	if err := cfg.Finalize(&logging.Env{Source: "TEST_LOG_SOURCE"}); err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if !cfg.Source {
		t.Error("Source = false, want true from env")
	}
	if cfg.Level != logging.LevelInfo || cfg.Format != logging.FormatText {
		t.Errorf("defaults = %s/%s", cfg.Level, cfg.Format)
	}
}
