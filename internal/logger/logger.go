package logger

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log is the process-wide logger. It is usable before Init is called so
// library code and tests never see a nil logger.
var Log = logrus.New()

// Init configures the global logger.
// level is one of debug, info, warn, error (default info).
// format "json" selects the JSON formatter, anything else the text formatter.
func Init(level, format string) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	Log.SetLevel(lvl)

	if strings.ToLower(format) == "json" {
		Log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		Log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	// stdout belongs to the TUI and command output
	Log.SetOutput(os.Stderr)
}

// Component returns an entry tagged with the emitting component's name.
func Component(name string) *logrus.Entry {
	return Log.WithField("component", name)
}
