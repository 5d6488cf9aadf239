package logging

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
)

// Init configures logrus with a timestamped formatter writing to stdout and
// to a log file under logDir. File logging is best effort: if the file
// cannot be opened the logger keeps writing to stdout only.
func Init(debug bool, logDir string) {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})

	if debug {
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		logrus.SetLevel(logrus.InfoLevel)
	}

	if err := os.MkdirAll(logDir, 0755); err != nil {
		logrus.Warnf("Failed to create log directory %s: %v", logDir, err)
		return
	}

	logPath := filepath.Join(logDir, "wa-relay.log")
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		logrus.Warnf("Failed to open log file %s: %v", logPath, err)
		return
	}

	logrus.SetOutput(io.MultiWriter(os.Stdout, file))
}
