package nv

import (
	"github.com/sirupsen/logrus"
)

// logger is the package-wide logger. Hosts replace it with SetLogger
var logger = logrus.StandardLogger()

// SetLogger replaces the logger used by the package
func SetLogger(l *logrus.Logger) {
	if l == nil {
		l = logrus.StandardLogger()
	}
	logger = l
}

// Logger returns the logger used by the package
func Logger() *logrus.Logger {
	return logger
}

// debugLog writes a debug line; hot paths use it so production logs stay quiet
func debugLog(format string, args ...interface{}) {
	logger.Debugf(format, args...)
}
