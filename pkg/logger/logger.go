package logger

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// InitLogger configures the standard logrus logger. Development gets
// colored text, everything else JSON.
func InitLogger(logLevel string, isDevelopment bool) *logrus.Logger {
	log := logrus.StandardLogger()

	if logLevel == "" {
		if isDevelopment {
			logLevel = "debug"
		} else {
			logLevel = "info"
		}
	}

	if level, err := logrus.ParseLevel(strings.ToLower(logLevel)); err == nil {
		log.SetLevel(level)
	} else {
		log.SetLevel(logrus.InfoLevel)
		log.WithField("invalid_level", logLevel).Warn("Invalid LOG_LEVEL, using INFO")
	}

	if !isDevelopment || strings.ToLower(os.Getenv("LOG_FORMAT")) == "json" {
		log.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
		})
	} else {
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}

	log.SetOutput(os.Stdout)
	return log
}

// WithComponent tags log lines with the subsystem that produced them.
func WithComponent(component string) *logrus.Entry {
	return logrus.WithField("component", component)
}

// WithRequestID tags log lines with the request id set by the API middleware.
func WithRequestID(requestID string) *logrus.Entry {
	return logrus.WithField("request_id", requestID)
}

// WithWeek creates a logger scoped to a season and week.
func WithWeek(component string, season, week int) *logrus.Entry {
	return logrus.WithFields(logrus.Fields{
		"component": component,
		"season":    season,
		"week":      week,
	})
}
