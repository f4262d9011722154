package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCurrency(t *testing.T) {
	t.Run("formatted string", func(t *testing.T) {
		f := ParseCurrency("$1,234.50")
		require.NotNil(t, f)
		assert.InDelta(t, 1234.50, *f, 0.001)
	})

	t.Run("plain number string", func(t *testing.T) {
		f := ParseCurrency("500000")
		require.NotNil(t, f)
		assert.InDelta(t, 500000, *f, 0.001)
	})

	t.Run("numeric types", func(t *testing.T) {
		f := ParseCurrency(1234.5)
		require.NotNil(t, f)
		assert.InDelta(t, 1234.5, *f, 0.001)

		f = ParseCurrency(42)
		require.NotNil(t, f)
		assert.InDelta(t, 42, *f, 0.001)
	})

	t.Run("unparseable values are nil", func(t *testing.T) {
		assert.Nil(t, ParseCurrency(nil))
		assert.Nil(t, ParseCurrency(""))
		assert.Nil(t, ParseCurrency("  "))
		assert.Nil(t, ParseCurrency("not a number"))
		assert.Nil(t, ParseCurrency([]string{"1"}))
	})
}

func TestAmount(t *testing.T) {
	assert.InDelta(t, 1234.5, Amount("$1,234.50"), 0.001)
	assert.Zero(t, Amount(nil))
	assert.Zero(t, Amount("garbage"))
	// Negative amounts clamp to zero.
	assert.Zero(t, Amount(-500.0))
	assert.Zero(t, Amount("-500"))
}

func TestParseFormTime(t *testing.T) {
	t.Run("vendor timestamp", func(t *testing.T) {
		parsed, ok := ParseFormTime("2025-01-15 10:30:00")
		require.True(t, ok)
		assert.Equal(t, 2025, parsed.Year())
		assert.Equal(t, time.January, parsed.Month())
		assert.Equal(t, 15, parsed.Day())
	})

	t.Run("RFC3339", func(t *testing.T) {
		_, ok := ParseFormTime("2025-01-15T10:30:00Z")
		assert.True(t, ok)
	})

	t.Run("date only", func(t *testing.T) {
		_, ok := ParseFormTime("2025-01-15")
		assert.True(t, ok)
	})

	t.Run("time.Time passes through", func(t *testing.T) {
		now := time.Now()
		parsed, ok := ParseFormTime(now)
		require.True(t, ok)
		assert.Equal(t, now, parsed)

		_, ok = ParseFormTime(time.Time{})
		assert.False(t, ok)
	})

	t.Run("unparseable values report absent", func(t *testing.T) {
		_, ok := ParseFormTime("")
		assert.False(t, ok)
		_, ok = ParseFormTime("15/01/2025")
		assert.False(t, ok)
		_, ok = ParseFormTime(nil)
		assert.False(t, ok)
		_, ok = ParseFormTime(12345)
		assert.False(t, ok)
	})
}
