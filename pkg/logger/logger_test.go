package logger

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/wonny/edgelab/pkg/config"
)

func TestNew_LevelParsing(t *testing.T) {
	tests := []struct {
		level string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"fatal", zerolog.FatalLevel},
		{"nonsense", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		if got := parseLogLevel(tt.level); got != tt.want {
			t.Errorf("parseLogLevel(%q) = %v, want %v", tt.level, got, tt.want)
		}
	}
}

func TestWithFields(t *testing.T) {
	cfg := &config.Config{LogLevel: "debug", LogFormat: "json", Env: "development"}
	log := New(cfg)

	// 파생 로거가 원본과 독립적인지 확인
	derived := log.WithFields(map[string]interface{}{
		"ticker": "AAPL",
		"years":  5,
	})
	if derived == log {
		t.Error("WithFields should return a new logger")
	}

	derived.Info("fields logger works")
	log.WithError(nil).Debug("error logger works")
}

func TestNewNop(t *testing.T) {
	log := NewNop()
	log.Info("discarded")
	log.WithField("k", "v").Error("also discarded")
}
