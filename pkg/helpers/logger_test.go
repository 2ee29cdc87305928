package helpers

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_Level(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, NewLogger("app", "development", "").Level)
	assert.Equal(t, logrus.InfoLevel, NewLogger("app", "production", "").Level)
	assert.Equal(t, logrus.WarnLevel, NewLogger("app", "production", "warn").Level)
	assert.Equal(t, logrus.InfoLevel, NewLogger("app", "production", "loud").Level)
}

func TestRedactHook(t *testing.T) {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.AddHook(RedactHook{})

	LogError(logger, "boom", errors.New("db down"), logrus.Fields{
		"user_id":      "u1",
		"refreshToken": "abc.def.ghi",
		"Password":     "hunter22",
	})

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "boom", entry["msg"])
	assert.Equal(t, "db down", entry["error"])
	assert.Equal(t, "u1", entry["user_id"])
	assert.Equal(t, redacted, entry["refreshToken"])
	assert.Equal(t, redacted, entry["Password"])
}
