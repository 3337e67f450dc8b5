package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// NewLogrusLogger builds the human readable logger used by command line tools.
func NewLogrusLogger(level string, jsonOutput bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	if jsonOutput {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	logLevel, err := logrus.ParseLevel(level)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)
	return logger
}
