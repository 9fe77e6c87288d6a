package config

import (
	"io"

	"github.com/sirupsen/logrus"
)

// NewLogger builds the process logger from LOG_LEVEL and LOG_FORMAT
func (c *Config) NewLogger(out io.Writer) (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}

	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetLevel(level)
	if c.LogFormat == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return logger, nil
}
