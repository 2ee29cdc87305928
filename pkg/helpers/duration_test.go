package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseDuration(t *testing.T) {
	fallback := 7 * 24 * time.Hour
	tests := []struct {
		in   string
		want time.Duration
	}{
		{"15m", 15 * time.Minute},
		{"7d", 7 * 24 * time.Hour},
		{"30s", 30 * time.Second},
		{"2h", 2 * time.Hour},
		{"250ms", 250 * time.Millisecond},
		{"1500", 1500 * time.Millisecond},
		{" 10M ", 10 * time.Minute},
		{"", fallback},
		{"abc", fallback},
		{"1.5h", fallback},
		{"-5m", fallback},
		{"5w", fallback},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, ParseDuration(tc.in, fallback))
		})
	}
}
