package logging

import (
	"os"

	"github.com/sirupsen/logrus"

	"github.com/auditfeed-io/feedctl/internal/constants"
)

// NewTerminal returns a logger that writes to stderr. Used for --debug runs
// where no session log file was requested.
func NewTerminal(debug bool) *SessionLogger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: constants.TimestampFormat,
	})

	if debug {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.InfoLevel)
	}

	return &SessionLogger{entry: logger}
}
