package providers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRelativeDate(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		in   string
		want time.Time
	}{
		{"today", now},
		{"just posted", now},
		{"yesterday", now.AddDate(0, 0, -1)},
		{"2 hours ago", now.Add(-2 * time.Hour)},
		{"3 days ago", now.AddDate(0, 0, -3)},
		{"1 week ago", now.AddDate(0, 0, -7)},
		{"2 months ago", now.AddDate(0, 0, -60)},
		{"Posted 5 days ago", now.AddDate(0, 0, -5)},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := ParseRelativeDate(tt.in, now)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, *got)
		})
	}
}

func TestParseRelativeDate_Unparseable(t *testing.T) {
	now := time.Now()
	assert.Nil(t, ParseRelativeDate("", now))
	assert.Nil(t, ParseRelativeDate("soon", now))
	assert.Nil(t, ParseRelativeDate("a while back", now))
}

func TestParseISODate(t *testing.T) {
	got := ParseISODate("2026-08-28T10:00:00Z")
	require.NotNil(t, got)
	assert.Equal(t, 28, got.Day())

	got = ParseISODate("2026-08-28")
	require.NotNil(t, got)
	assert.Equal(t, time.August, got.Month())

	assert.Nil(t, ParseISODate(""))
	assert.Nil(t, ParseISODate("not a date"))
}
