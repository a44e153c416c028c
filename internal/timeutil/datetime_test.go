package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToStorageDatetime(t *testing.T) {
	t.Run("truncates sub-second precision using UTC components", func(t *testing.T) {
		got, err := ToStorageDatetime("2025-11-29T19:43:01.586Z")
		require.NoError(t, err)
		assert.Equal(t, "2025-11-29 19:43:01", got)
	})

	t.Run("normalizes zone offsets to UTC", func(t *testing.T) {
		got, err := ToStorageDatetime("2025-11-29T21:43:01+02:00")
		require.NoError(t, err)
		assert.Equal(t, "2025-11-29 19:43:01", got)
	})

	t.Run("accepts timestamps without fractional seconds", func(t *testing.T) {
		got, err := ToStorageDatetime("2024-01-02T03:04:05Z")
		require.NoError(t, err)
		assert.Equal(t, "2024-01-02 03:04:05", got)
	})

	t.Run("rejects invalid input", func(t *testing.T) {
		_, err := ToStorageDatetime("not-a-timestamp")
		assert.Error(t, err)

		_, err = ToStorageDatetime("")
		assert.Error(t, err)
	})
}

func TestStorageRoundTrip(t *testing.T) {
	in := time.Date(2025, 11, 29, 19, 43, 1, 586_000_000, time.UTC)

	s := FormatStorage(in)
	assert.Equal(t, "2025-11-29 19:43:01", s)

	back, err := ParseStorage(s)
	require.NoError(t, err)
	assert.Equal(t, in.Truncate(time.Second), back)
}
