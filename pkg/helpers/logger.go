package helpers

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

const redacted = "[REDACTED]"

// sensitiveFields never reach the log output, whatever logs them.
var sensitiveFields = []string{"password", "token", "secret", "authorization", "cookie"}

// NewLogger creates a configured Logrus logger: text in development, JSON
// elsewhere. level is a logrus level name; empty or invalid keeps the
// environment default.
func NewLogger(appName, env, level string) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	if env == "development" {
		logger.SetLevel(logrus.DebugLevel)
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetLevel(logrus.InfoLevel)
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	if level != "" {
		if lvl, err := logrus.ParseLevel(level); err == nil {
			logger.SetLevel(lvl)
		} else {
			logger.WithError(err).Warn("ignoring LOG_LEVEL")
		}
	}
	logger.AddHook(RedactHook{})
	logger.WithFields(logrus.Fields{"app": appName, "env": env}).Info("logger initialized")
	return logger
}

// RedactHook masks fields whose key mentions a credential.
type RedactHook struct{}

func (RedactHook) Levels() []logrus.Level { return logrus.AllLevels }

func (RedactHook) Fire(e *logrus.Entry) error {
	for k := range e.Data {
		key := strings.ToLower(k)
		for _, s := range sensitiveFields {
			if strings.Contains(key, s) {
				e.Data[k] = redacted
				break
			}
		}
	}
	return nil
}

// LogError logs err with fields at error level.
func LogError(logger *logrus.Logger, msg string, err error, fields logrus.Fields) {
	if fields == nil {
		fields = logrus.Fields{}
	}
	if err != nil {
		fields["error"] = err.Error()
	}
	logger.WithFields(fields).Error(msg)
}
