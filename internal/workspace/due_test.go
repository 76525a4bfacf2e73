package workspace

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsDue(t *testing.T) {
	now := time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		daysAhead int
		want      bool
	}{
		{-10, true},
		{-1, true},
		{0, false},
		{1, true},
		{2, false},
		{3, true},
		{4, false},
		{6, false},
		{7, true},
		{8, false},
	}

	for _, tt := range tests {
		dueDate := now.AddDate(0, 0, tt.daysAhead).Format("2006-01-02")
		got, err := IsDue(dueDate, now)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "due date %s (%+d days)", dueDate, tt.daysAhead)
	}
}

func TestIsDue_TimeOfDayIrrelevant(t *testing.T) {
	// The rule counts whole calendar days, so the clock must not matter.
	for _, hour := range []int{0, 12, 23} {
		now := time.Date(2025, 6, 15, hour, 59, 59, 0, time.UTC)
		got, err := IsDue("2025-06-18", now)
		require.NoError(t, err)
		assert.True(t, got, "3 days ahead at hour %d", hour)
	}
}

func TestIsDue_InvalidDate(t *testing.T) {
	for _, bad := range []string{"", "15/06/2025", "2025-13-01", "soon"} {
		_, err := IsDue(bad, time.Now())
		assert.Error(t, err, "input %q", bad)
	}
}
