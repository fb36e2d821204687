package model_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/library-portal/internal/model"
)

func Test_DaysBetween(t *testing.T) {
	mk := func(y int, m time.Month, d, hour int) time.Time {
		return time.Date(y, m, d, hour, 0, 0, 0, time.UTC)
	}

	tests := []struct {
		name string
		a, b time.Time
		want int
	}{
		{"same_day", mk(2026, 3, 10, 0), mk(2026, 3, 10, 0), 0},
		{"next_day", mk(2026, 3, 10, 0), mk(2026, 3, 11, 0), 1},
		{"time_of_day_is_ignored", mk(2026, 3, 10, 23), mk(2026, 3, 11, 1), 1},
		{"two_weeks", mk(2026, 3, 10, 0), mk(2026, 3, 24, 0), 14},
		{"negative_when_reversed", mk(2026, 3, 11, 0), mk(2026, 3, 10, 0), -1},
		{"across_month_boundary", mk(2026, 2, 27, 0), mk(2026, 3, 2, 0), 3},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, model.DaysBetween(tc.a, tc.b))
		})
	}
}

func Test_ExtensionDays(t *testing.T) {
	req := model.ExtensionRequest{
		OriginalExpiryDate:  time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC),
		RequestedExpiryDate: time.Date(2026, 3, 26, 0, 0, 0, 0, time.UTC),
	}
	assert.Equal(t, 14, req.ExtensionDays())
}
