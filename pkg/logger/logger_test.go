package logger_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"math/big"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/screwyprof/stakegenesis/pkg/logger"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		input    string
		expected slog.Level
	}{
		{name: "debug", input: "debug", expected: slog.LevelDebug},
		{name: "info", input: "info", expected: slog.LevelInfo},
		{name: "warn", input: "warn", expected: slog.LevelWarn},
		{name: "error upper case", input: "ERROR", expected: slog.LevelError},
		{name: "unknown falls back to info", input: "chatty", expected: slog.LevelInfo},
		{name: "empty falls back to info", input: "", expected: slog.LevelInfo},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			// Act
			lvl := logger.ParseLevel(tc.input)

			// Assert
			assert.Equal(t, tc.expected, lvl)
		})
	}
}

func TestNewFromConfig(t *testing.T) {
	t.Parallel()

	t.Run("it writes JSON records when not human friendly", func(t *testing.T) {
		t.Parallel()

		// Arrange
		var buf bytes.Buffer
		log := logger.NewFromConfig(logger.Config{LogLevel: "info", Output: &buf})

		// Act
		log.Info("total supply", slog.String("amount", "42"))

		// Assert
		var record map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
		assert.Equal(t, "total supply", record["msg"])
		assert.Equal(t, "42", record["amount"])
		assert.NotEmpty(t, record["time"])
	})

	t.Run("it writes text records when human friendly", func(t *testing.T) {
		t.Parallel()

		// Arrange
		var buf bytes.Buffer
		log := logger.NewFromConfig(logger.Config{LogLevel: "info", LogHumanFriendly: true, Output: &buf})

		// Act
		log.Info("genesis written", slog.String("path", "genesis.json"))

		// Assert
		assert.True(t, strings.Contains(buf.String(), "msg=\"genesis written\""))
		assert.True(t, strings.Contains(buf.String(), "path=genesis.json"))
	})

	t.Run("it drops records below the configured level", func(t *testing.T) {
		t.Parallel()

		// Arrange
		var buf bytes.Buffer
		log := logger.NewFromConfig(logger.Config{LogLevel: "error", Output: &buf})

		// Act
		log.Info("ignored")

		// Assert
		assert.Empty(t, buf.String())
	})
}

func TestTokens(t *testing.T) {
	t.Parallel()

	oneAndHalf, ok := new(big.Int).SetString("1500000000000000000", 10)
	require.True(t, ok)
	large, ok := new(big.Int).SetString("1000000000000000000000012", 10)
	require.True(t, ok)

	testCases := []struct {
		name     string
		amount   *big.Int
		expected string
	}{
		{name: "fractional amount", amount: oneAndHalf, expected: "1.5"},
		{name: "amount with dust", amount: large, expected: "1000000.000000000000000012"},
		{name: "zero", amount: big.NewInt(0), expected: "0"},
		{name: "nil", amount: nil, expected: "0"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			// Act
			attr := logger.Tokens("supply", tc.amount, 18)

			// Assert
			assert.Equal(t, "supply", attr.Key)
			assert.Equal(t, tc.expected, attr.Value.String())
		})
	}
}
