package utils

import (
	"os"

	"github.com/sirupsen/logrus"
)

var (
	InfoLogger  = logrus.New()
	ErrorLogger = logrus.New()
)

// InitLogger menyiapkan InfoLogger (stdout) dan ErrorLogger (stderr).
// Level yang tidak dikenal jatuh ke info.
func InitLogger(level ...string) {
	InfoLogger = logrus.New()
	ErrorLogger = logrus.New()

	InfoLogger.SetOutput(os.Stdout)
	InfoLogger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	ErrorLogger.SetOutput(os.Stderr)
	ErrorLogger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	infoLevel := logrus.InfoLevel
	if len(level) > 0 && level[0] != "" {
		if parsed, err := logrus.ParseLevel(level[0]); err == nil {
			infoLevel = parsed
		}
	}
	InfoLogger.SetLevel(infoLevel)
	ErrorLogger.SetLevel(logrus.ErrorLevel)
}

// Component returns an entry tagged with the component name, for background workers.
func Component(name string) *logrus.Entry {
	return InfoLogger.WithField("component", name)
}
