package helpers

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var durationRe = regexp.MustCompile(`(?i)^(\d+)(ms|s|m|h|d)?$`)

var durationUnits = map[string]time.Duration{
	"ms": time.Millisecond,
	"s":  time.Second,
	"m":  time.Minute,
	"h":  time.Hour,
	"d":  24 * time.Hour,
}

// ParseDuration parses "<number>(ms|s|m|h|d)" values such as "15m" or "7d".
// A bare number is milliseconds. Anything else yields fallback.
func ParseDuration(value string, fallback time.Duration) time.Duration {
	m := durationRe.FindStringSubmatch(strings.TrimSpace(value))
	if m == nil {
		return fallback
	}
	amount, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return fallback
	}
	unit := strings.ToLower(m[2])
	if unit == "" {
		unit = "ms"
	}
	return time.Duration(amount) * durationUnits[unit]
}
