package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogRotationConfig contains log rotation settings
type LogRotationConfig struct {
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// rotator holds the open rotating log file for cleanup
var (
	rotator   *lumberjack.Logger
	rotatorMu sync.Mutex
)

// NewLogger configures the global logrus logger to write to stdout and, when
// logFilePath is set, to a size-rotated log file.
func NewLogger(logLevel string, logFilePath string, rotationConfig LogRotationConfig) error {
	level, err := ParseLogLevel(logLevel)
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	logrus.SetLevel(level)

	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
		ForceColors:     false, // Disable colors for file output
	})

	if logFilePath == "" {
		if err := Close(); err != nil {
			logrus.WithError(err).Warn("Failed to close previous log file")
		}
		logrus.SetOutput(os.Stdout)
		logrus.WithField("level", logLevel).Info("Logger initialized with stdout output")
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(logFilePath), 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	rotatorMu.Lock()
	defer rotatorMu.Unlock()

	// Close previous log file if open
	if rotator != nil {
		rotator.Close()
	}

	rotator = &lumberjack.Logger{
		Filename:   logFilePath,
		MaxSize:    rotationConfig.MaxSizeMB,
		MaxBackups: rotationConfig.MaxBackups,
		MaxAge:     rotationConfig.MaxAgeDays,
		Compress:   rotationConfig.Compress,
	}

	logrus.SetOutput(io.MultiWriter(os.Stdout, rotator))

	logrus.WithFields(logrus.Fields{
		"level":       logLevel,
		"log_file":    logFilePath,
		"max_size":    fmt.Sprintf("%dMB", rotationConfig.MaxSizeMB),
		"max_backups": rotationConfig.MaxBackups,
		"max_age":     fmt.Sprintf("%d days", rotationConfig.MaxAgeDays),
		"compress":    rotationConfig.Compress,
	}).Info("Logger initialized with file output")

	return nil
}

// Close closes the log file and should be called during application shutdown.
// Output falls back to stdout afterwards.
func Close() error {
	rotatorMu.Lock()
	defer rotatorMu.Unlock()

	if rotator != nil {
		logrus.SetOutput(os.Stdout)
		err := rotator.Close()
		rotator = nil
		return err
	}
	return nil
}

// ParseLogLevel converts string log level to logrus.Level
func ParseLogLevel(level string) (logrus.Level, error) {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return logrus.DebugLevel, nil
	case "INFO":
		return logrus.InfoLevel, nil
	case "WARNING", "WARN":
		return logrus.WarnLevel, nil
	case "ERROR":
		return logrus.ErrorLevel, nil
	default:
		return logrus.InfoLevel, fmt.Errorf("unknown log level: %s", level)
	}
}
