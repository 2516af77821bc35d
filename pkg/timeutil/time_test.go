package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNowIsUTC(t *testing.T) {
	assert.Equal(t, time.UTC, Now().Location())
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2006-01-02", "2024-03-15")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), got)

	_, err = ParseDate("2006-01-02", "15/03/2024")
	assert.Error(t, err)
}

func TestStartAndEndOfDay(t *testing.T) {
	kyiv, err := time.LoadLocation("Europe/Kyiv")
	require.NoError(t, err)

	// 01:30 Kyiv time on March 16 is still March 15 in UTC
	in := time.Date(2024, 3, 16, 1, 30, 0, 0, kyiv)

	start := StartOfDay(in)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), start)

	end := EndOfDay(in)
	assert.Equal(t, time.Date(2024, 3, 15, 23, 59, 59, 999999999, time.UTC), end)
	assert.True(t, end.After(start))
}
