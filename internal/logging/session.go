package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/auditfeed-io/feedctl/internal/constants"
)

// SessionLogger writes timestamped entries to a per-run log file and adapts
// logrus to the Logger interface the HTTP client expects.
type SessionLogger struct {
	entry *logrus.Logger
	file  io.Closer
	path  string
}

// Options configures a session logger.
type Options struct {
	// Path is the log file location. Empty generates a per-run file name
	// in the working directory.
	Path string

	// Debug lowers the level so raw request/response entries are recorded.
	Debug bool
}

// DefaultLogPath returns the per-run log file name, e.g.
// feedctl-20260827-153000.log.
func DefaultLogPath(now time.Time) string {
	return fmt.Sprintf("feedctl-%s.log", now.Format(constants.LogFileTimestampFormat))
}

// NewSession opens the log file in append mode and returns the logger.
// Callers must Close it when the run ends.
func NewSession(opts Options) (*SessionLogger, error) {
	path := opts.Path
	if path == "" {
		path = DefaultLogPath(time.Now())
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, constants.LogFilePerm)
	if err != nil {
		return nil, fmt.Errorf("opening log file %s: %w", path, err)
	}

	logger := logrus.New()
	logger.SetOutput(file)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: constants.TimestampFormat,
	})

	if opts.Debug {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.InfoLevel)
	}

	return &SessionLogger{entry: logger, file: file, path: path}, nil
}

// Path returns the log file location.
func (l *SessionLogger) Path() string {
	return l.path
}

// Close flushes and closes the log file.
func (l *SessionLogger) Close() error {
	if l.file == nil {
		return nil
	}

	err := l.file.Close()
	l.file = nil

	if err != nil {
		return fmt.Errorf("closing log file: %w", err)
	}

	return nil
}

// Debug implements the Logger interface.
func (l *SessionLogger) Debug(msg string, fields map[string]interface{}) {
	l.entry.WithFields(logrus.Fields(fields)).Debug(msg)
}

// Info implements the Logger interface.
func (l *SessionLogger) Info(msg string, fields map[string]interface{}) {
	l.entry.WithFields(logrus.Fields(fields)).Info(msg)
}

// Warn implements the Logger interface.
func (l *SessionLogger) Warn(msg string, fields map[string]interface{}) {
	l.entry.WithFields(logrus.Fields(fields)).Warn(msg)
}

// Error implements the Logger interface.
func (l *SessionLogger) Error(msg string, fields map[string]interface{}) {
	l.entry.WithFields(logrus.Fields(fields)).Error(msg)
}
