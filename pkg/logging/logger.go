// Package logging provides per-session file logging for surf components.
// All components of one process append to the same session log under
// ~/.surf/logs, keeping debug output away from the terminal the browser
// operator is watching.
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Logger writes structured log lines for one component. All methods
// write unconditionally; there is no level filtering.
type Logger struct {
	sessionID string
	component string
	file      *os.File
	logger    *log.Logger
	logPath   string
	mu        sync.Mutex
	closeOnce sync.Once
}

var (
	sessionID     string
	sessionIDOnce sync.Once

	logDir  string
	dirOnce sync.Once
	dirErr  error
)

func getSessionID() string {
	sessionIDOnce.Do(func() {
		sessionID = uuid.New().String()
	})
	return sessionID
}

func initLogDirectory() error {
	dirOnce.Do(func() {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			dirErr = fmt.Errorf("failed to get home directory: %w", err)
			return
		}
		logDir = filepath.Join(homeDir, ".surf", "logs")
		if err := os.MkdirAll(logDir, 0750); err != nil {
			dirErr = fmt.Errorf("failed to create log directory: %w", err)
		}
	})
	return dirErr
}

// NewLogger creates a logger for the given component, writing to
// ~/.surf/logs/<session-id>-surf.log. If the log file cannot be opened
// it returns a stderr-backed logger along with the error so callers can
// detect fallback mode.
func NewLogger(component string) (*Logger, error) {
	if err := initLogDirectory(); err != nil {
		return newFallbackLogger(component), err
	}

	sessID := getSessionID()
	logPath := filepath.Join(logDir, fmt.Sprintf("%s-surf.log", sessID))

	// Append mode: every component in the process shares the session file.
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return newFallbackLogger(component), fmt.Errorf("failed to open log file: %w", err)
	}

	return &Logger{
		sessionID: sessID,
		component: component,
		file:      file,
		logger:    log.New(file, "", 0),
		logPath:   logPath,
	}, nil
}

func newFallbackLogger(component string) *Logger {
	return &Logger{
		sessionID: getSessionID(),
		component: component,
		logger:    log.New(os.Stderr, fmt.Sprintf("[%s] ", component), log.LstdFlags),
	}
}

func (l *Logger) write(level, format string, v ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	timestamp := time.Now().Format("2006-01-02 15:04:05.000")
	message := fmt.Sprintf(format, v...)
	l.logger.Printf("[%s] [%s] [%s] %s", timestamp, l.component, level, message)
}

// Debugf logs a debug-level message.
func (l *Logger) Debugf(format string, v ...interface{}) { l.write("DEBUG", format, v...) }

// Infof logs an info-level message.
func (l *Logger) Infof(format string, v ...interface{}) { l.write("INFO", format, v...) }

// Warnf logs a warning-level message.
func (l *Logger) Warnf(format string, v ...interface{}) { l.write("WARN", format, v...) }

// Errorf logs an error-level message.
func (l *Logger) Errorf(format string, v ...interface{}) { l.write("ERROR", format, v...) }

// Writer returns the underlying destination, stderr in fallback mode.
func (l *Logger) Writer() io.Writer {
	if l.file != nil {
		return l.file
	}
	return os.Stderr
}

// SessionID returns the session identifier shared by all loggers in the
// process.
func (l *Logger) SessionID() string { return l.sessionID }

// LogPath returns the log file path, empty in fallback mode.
func (l *Logger) LogPath() string { return l.logPath }

// Close closes the log file. Safe to call more than once.
func (l *Logger) Close() error {
	var err error
	l.closeOnce.Do(func() {
		if l.file != nil {
			err = l.file.Close()
		}
	})
	return err
}
