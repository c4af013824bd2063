package logger

import (
	"io"
	"log/slog"
	"math/big"
	"os"

	"github.com/shopspring/decimal"
)

// TimeFormat is the timestamp layout used by every handler built here.
const TimeFormat = "2006-01-02 15:04:05.000"

// Config represents logger configuration from environment/config
// LogLevel is a string like "debug", "info", "error";
// LogHumanFriendly toggles between text (true) and JSON (false).
// Output defaults to os.Stderr.
type Config struct {
	LogLevel         string
	LogHumanFriendly bool
	Output           io.Writer
}

// ParseLevel converts a string to slog.Level, defaulting to Info on error.
func ParseLevel(level string) slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

// NewFromConfig creates a slog.Logger based on Config.
func NewFromConfig(cfg Config) *slog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	opts := &slog.HandlerOptions{
		Level: ParseLevel(cfg.LogLevel),
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.String(slog.TimeKey, a.Value.Time().UTC().Format(TimeFormat))
			}
			return a
		},
	}

	var handler slog.Handler
	if cfg.LogHumanFriendly {
		handler = slog.NewTextHandler(out, opts)
	} else {
		handler = slog.NewJSONHandler(out, opts)
	}
	return slog.New(handler)
}

// Tokens renders an amount of base units as whole tokens, e.g. with 18
// decimals 1500000000000000000 becomes "1.5".
func Tokens(key string, baseUnits *big.Int, decimals int32) slog.Attr {
	if baseUnits == nil {
		return slog.String(key, "0")
	}
	return slog.String(key, decimal.NewFromBigInt(baseUnits, -decimals).String())
}
