package logging

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

// setupTestDir points the package at a temporary log directory and
// resets the process-wide session state.
func setupTestDir(t *testing.T) (cleanup func()) {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "surf-logging-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}

	origLogDir := logDir
	origDirErr := dirErr
	origSessionID := sessionID

	logDir = tempDir
	dirErr = nil
	dirOnce = sync.Once{}
	dirOnce.Do(func() {})
	sessionID = ""
	sessionIDOnce = sync.Once{}

	return func() {
		logDir = origLogDir
		dirErr = origDirErr
		dirOnce = sync.Once{}
		sessionID = origSessionID
		sessionIDOnce = sync.Once{}

		os.RemoveAll(tempDir)
	}
}

func TestNewLogger(t *testing.T) {
	cleanup := setupTestDir(t)
	defer cleanup()

	logger, err := NewLogger("test-component")
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Close()

	if logger.component != "test-component" {
		t.Errorf("Expected component 'test-component', got %q", logger.component)
	}

	if logger.SessionID() == "" {
		t.Error("Expected non-empty session ID")
	}

	if logger.LogPath() == "" {
		t.Error("Expected non-empty log path")
	}

	if _, err := os.Stat(logger.LogPath()); os.IsNotExist(err) {
		t.Errorf("Log file does not exist at %s", logger.LogPath())
	}
}

func TestLoggerFormatting(t *testing.T) {
	cleanup := setupTestDir(t)
	defer cleanup()

	logger, err := NewLogger("test")
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Close()

	logger.Debugf("Debug message")
	logger.Infof("Info message %d", 123)
	logger.Warnf("Warning message")
	logger.Errorf("Error message")

	// Give file system time to flush
	time.Sleep(50 * time.Millisecond)

	content, err := os.ReadFile(logger.LogPath())
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}

	logContent := string(content)

	expectedPatterns := []string{
		"[test] [DEBUG] Debug message",
		"[test] [INFO] Info message 123",
		"[test] [WARN] Warning message",
		"[test] [ERROR] Error message",
	}

	for _, pattern := range expectedPatterns {
		if !strings.Contains(logContent, pattern) {
			t.Errorf("Log content missing expected pattern: %q\nContent:\n%s", pattern, logContent)
		}
	}
}

func TestMultipleComponents(t *testing.T) {
	cleanup := setupTestDir(t)
	defer cleanup()

	logger1, err := NewLogger("component1")
	if err != nil {
		t.Fatalf("Failed to create logger1: %v", err)
	}
	defer logger1.Close()

	logger2, err := NewLogger("component2")
	if err != nil {
		t.Fatalf("Failed to create logger2: %v", err)
	}
	defer logger2.Close()

	// They should share the same session ID and log file.
	if logger1.SessionID() != logger2.SessionID() {
		t.Errorf("Expected same session ID, got %q and %q", logger1.SessionID(), logger2.SessionID())
	}

	if logger1.LogPath() != logger2.LogPath() {
		t.Errorf("Expected same log path, got %q and %q", logger1.LogPath(), logger2.LogPath())
	}

	logger1.Infof("Message from component1")
	logger2.Infof("Message from component2")

	time.Sleep(50 * time.Millisecond)

	content, err := os.ReadFile(logger1.LogPath())
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}

	logContent := string(content)

	if !strings.Contains(logContent, "[component1]") {
		t.Error("Log missing component1 entries")
	}
	if !strings.Contains(logContent, "[component2]") {
		t.Error("Log missing component2 entries")
	}
}

func TestLoggerClose(t *testing.T) {
	cleanup := setupTestDir(t)
	defer cleanup()

	logger, err := NewLogger("test")
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}

	if err := logger.Close(); err != nil {
		t.Errorf("First close failed: %v", err)
	}

	// Close again should be safe.
	if err := logger.Close(); err != nil {
		t.Errorf("Second close failed: %v", err)
	}
}

func TestLogPathFormat(t *testing.T) {
	cleanup := setupTestDir(t)
	defer cleanup()

	logger, err := NewLogger("test")
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Close()

	// Log file name format: <session-id>-surf.log
	fileName := filepath.Base(logger.LogPath())
	if !strings.HasSuffix(fileName, "-surf.log") {
		t.Errorf("Expected log file to end with '-surf.log', got %q", fileName)
	}

	sessionPart := strings.TrimSuffix(fileName, "-surf.log")
	if !strings.Contains(sessionPart, "-") {
		t.Errorf("Expected session ID part to contain dashes (UUID format), got %q", sessionPart)
	}
}
