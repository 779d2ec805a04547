// Package logger builds the structured logger shared by the server components.
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Formats accepted by Config.Format
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Config controls logger construction
type Config struct {
	Level  string    `yaml:"level"`
	Format string    `yaml:"format"`
	Output io.Writer `yaml:"-"`
}

// New builds a logrus logger. Empty fields fall back to the LOG_LEVEL and
// LOG_FORMAT environment variables, then to info/text on stdout.
func New(cfg Config) *logrus.Logger {
	log := logrus.New()

	levelName := cfg.Level
	if levelName == "" {
		levelName = os.Getenv("LOG_LEVEL")
	}
	level, err := logrus.ParseLevel(levelName)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	format := strings.ToLower(cfg.Format)
	if format == "" {
		format = strings.ToLower(os.Getenv("LOG_FORMAT"))
	}
	if format == FormatJSON {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}
	log.SetOutput(out)

	return log
}

// Discard returns a logger that drops everything, for tests
func Discard() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}
