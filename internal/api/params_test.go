package api

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"max.ks1230/earnings-tracker/internal/model/customerr"
)

func Test_parseDate(t *testing.T) {
	tests := []struct {
		raw  string
		want time.Time
	}{
		{"2025-01-15", time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)},
		{"2025-01-15T23:30:00+05:30", time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)},
		{"2025-01-15T01:00:00Z", time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := parseDate("startDate", tt.raw)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), got)
		})
	}

	_, err := parseDate("startDate", "15.01.2025")
	assert.True(t, customerr.IsValidation(err))
}

func Test_rateLimiter_ShouldLimitPerClient(t *testing.T) {
	l := newRateLimiter(0.001, 2)

	assert.True(t, l.get("a").Allow())
	assert.True(t, l.get("a").Allow())
	assert.False(t, l.get("a").Allow())
	assert.True(t, l.get("b").Allow())
}
