// Package logging builds the process-wide structured logger. The logger is
// constructed once in main and passed down explicitly; nothing in this
// repository logs through a package-level global.
package logging

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a production JSON logger at the given level. env "development"
// switches to the human-readable console encoder.
func New(env, level string) (*zap.Logger, error) {
	var cfg zap.Config
	if env == "development" {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}

	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}

// secretKeyFragments marks field names whose values must never reach a log
// line verbatim.
var secretKeyFragments = []string{"password", "secret", "token", "authorization", "api_key", "dsn"}

// Redacted returns a field that masks the value when the key looks
// secret-bearing, and logs it as-is otherwise.
func Redacted(key, value string) zap.Field {
	lower := strings.ToLower(key)
	for _, frag := range secretKeyFragments {
		if strings.Contains(lower, frag) {
			return zap.String(key, Mask(value))
		}
	}
	return zap.String(key, value)
}

// Mask keeps the first two characters of a secret for correlation and hides
// the rest. Short values are fully masked.
func Mask(value string) string {
	if value == "" {
		return ""
	}
	if len(value) <= 4 {
		return "****"
	}
	return value[:2] + strings.Repeat("*", len(value)-2)
}
