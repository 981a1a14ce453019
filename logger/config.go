package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// LoggerConfig describes logging configuration.
type LoggerConfig struct {
	Level      string
	Formatter  string
	OutputFile string
}

// DefaultConfig returns a LoggerConfig instance with default values.
func DefaultConfig() LoggerConfig {
	return LoggerConfig{
		Level:     "info",
		Formatter: "text",
	}
}

// Configure configures the logging level, format and output path.
func Configure(conf LoggerConfig) {
	SetLevel(conf.Level)

	switch conf.Formatter {
	case "json":
		base.SetFormatter(&logrus.JSONFormatter{})

	// Default to text
	default:
		base.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	if conf.OutputFile != "" {
		logFile, err := os.OpenFile(
			conf.OutputFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666,
		)
		if err != nil {
			Error("Can't open log output", "output", conf.OutputFile)
		} else {
			SetOutput(logFile)
		}
	}
}
