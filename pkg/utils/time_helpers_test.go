package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextMonday(t *testing.T) {
	testCases := []struct {
		name     string
		now      time.Time
		expected time.Time
	}{
		{
			name:     "from a Wednesday",
			now:      time.Date(2025, 6, 4, 15, 30, 0, 0, time.UTC), // Wed
			expected: time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "from a Sunday",
			now:      time.Date(2025, 6, 8, 23, 59, 0, 0, time.UTC), // Sun
			expected: time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "a Monday rolls a full week forward",
			now:      time.Date(2025, 6, 9, 8, 0, 0, 0, time.UTC), // Mon
			expected: time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "from a Saturday",
			now:      time.Date(2025, 6, 7, 12, 0, 0, 0, time.UTC), // Sat
			expected: time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := NextMonday(tc.now)
			assert.Equal(t, tc.expected, got)
			assert.Equal(t, time.Monday, got.Weekday())
		})
	}
}

func TestCombineDateTime(t *testing.T) {
	loc := time.UTC

	t.Run("both parts present", func(t *testing.T) {
		got, err := CombineDateTime("24.12.2025", "10:30", loc)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, time.Date(2025, 12, 24, 10, 30, 0, 0, loc), *got)
	})

	t.Run("both parts absent", func(t *testing.T) {
		got, err := CombineDateTime("", "", loc)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("date without time is rejected", func(t *testing.T) {
		_, err := CombineDateTime("24.12.2025", "", loc)
		assert.Error(t, err)
	})

	t.Run("time without date is rejected", func(t *testing.T) {
		_, err := CombineDateTime("", "10:30", loc)
		assert.Error(t, err)
	})

	t.Run("garbage date is rejected", func(t *testing.T) {
		_, err := CombineDateTime("2025-12-24", "10:30", loc)
		assert.Error(t, err)
	})
}

func TestDateOnly(t *testing.T) {
	got := DateOnly(time.Date(2025, 3, 15, 18, 45, 12, 999, time.UTC))
	assert.Equal(t, time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC), got)
}
