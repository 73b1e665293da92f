package logging

import (
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

// New builds the process logger from the configured level and format.
// An unknown level falls back to info.
func New(level, format string, out io.Writer) *logrus.Logger {
	logger := logrus.New()
	if out != nil {
		logger.SetOutput(out)
	}

	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	lvl, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logger.SetLevel(lvl)
	return logger
}
