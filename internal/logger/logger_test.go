package logger_test

import (
	"bytes"
	"testing"

	"github.com/sgaunet/auto-release/internal/logger"
	"github.com/sgaunet/bullets"
	"github.com/stretchr/testify/assert"
)

func TestNoLogger(t *testing.T) {
	log := logger.NoLogger()

	assert.NotNil(t, log, "NoLogger should not return nil")

	assert.NotPanics(t, func() {
		log.Debug("This is a debug message")
		log.Info("This is an info message")
		log.Warn("This is a warning message")
		log.Error("This is an error message")
	}, "NoLogger methods should not panic")
}

func TestNewLogger(t *testing.T) {
	tests := []struct {
		logLevel string
	}{
		{"debug"},
		{"info"},
		{"warn"},
		{"error"},
		{""}, // Default case
	}

	for _, tt := range tests {
		t.Run(tt.logLevel, func(t *testing.T) {
			var buf bytes.Buffer
			log := logger.NewLoggerTo(&buf, tt.logLevel)
			assert.NotNil(t, log, "NewLoggerTo should not return nil")

			assert.NotPanics(t, func() {
				log.Debug("This is a debug message")
				log.Info("This is an info message")
				log.Warn("This is a warning message")
				log.Error("This is an error message")
			}, "logger methods should not panic")
		})
	}
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, bullets.DebugLevel, logger.ParseLevel("debug"))
	assert.Equal(t, bullets.WarnLevel, logger.ParseLevel("warn"))
	assert.Equal(t, bullets.ErrorLevel, logger.ParseLevel("error"))
	assert.Equal(t, bullets.InfoLevel, logger.ParseLevel("info"))
	assert.Equal(t, bullets.InfoLevel, logger.ParseLevel("verbose"))
}

func TestNewLoggerTo_WritesInfo(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewLoggerTo(&buf, "info")
	log.Info("Current version: 1.2.3")
	log.Debug("hidden")

	assert.Contains(t, buf.String(), "Current version: 1.2.3")
	assert.NotContains(t, buf.String(), "hidden")
}
