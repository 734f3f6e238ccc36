package daemon

import (
	"io"

	"github.com/sirupsen/logrus"
)

// NewLogger builds the process logger from cfg. Callers validate cfg first;
// an unknown level falls back to info.
func NewLogger(cfg LogConfig, out io.Writer) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(out)

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	if cfg.Format == "text" {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		log.SetFormatter(&logrus.JSONFormatter{})
	}
	return log
}
