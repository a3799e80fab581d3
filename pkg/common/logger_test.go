package common

import (
	"bytes"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	_ "liyu1981.xyz/safezone-service/pkg/testing"
)

func TestLoggingCapture(t *testing.T) {
	var buf bytes.Buffer
	SetTestCaptureLogger(&buf, zapcore.InfoLevel)

	logger := GetLogger()
	logger.Info("Test log message", zap.String("key", "value"))

	logOutput := buf.String()
	if !strings.Contains(logOutput, "Test log message") {
		t.Errorf("expected log output to contain message, got: %s", logOutput)
	}
}

func TestCategoryLogger(t *testing.T) {
	var buf bytes.Buffer
	SetTestCaptureLogger(&buf, zapcore.InfoLevel)

	GetCategoryLogger(LoggerNameAlertEngine, LoggerCategoryPolicy).Info("Alert throttled")
	GetCategoryLogger(LoggerNameAlertEngine, LoggerCategoryPolicy).Debug("below level")

	logOutput := buf.String()
	if !strings.Contains(logOutput, `"logger":"alert_engine"`) {
		t.Errorf("expected logger name in output, got: %s", logOutput)
	}
	if !strings.Contains(logOutput, `"category":"policy"`) {
		t.Errorf("expected category field in output, got: %s", logOutput)
	}
	if strings.Contains(logOutput, "below level") {
		t.Errorf("expected debug entry to be filtered, got: %s", logOutput)
	}
}

func TestToSet(t *testing.T) {
	set := ToSet([]string{"a", "b", "a"})
	if len(set) != 2 || !set["a"] || !set["b"] || set["c"] {
		t.Errorf("unexpected set: %v", set)
	}
}
