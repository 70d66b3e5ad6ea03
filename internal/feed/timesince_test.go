package feed

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimeSince(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		createdAt time.Time
		want      string
	}{
		{"thirty seconds ago", now.Add(-30 * time.Second), "Just now"},
		{"just under a minute", now.Add(-59 * time.Second), "Just now"},
		{"exactly one minute", now.Add(-time.Minute), "1m ago"},
		{"five minutes ago", now.Add(-5 * time.Minute), "5m ago"},
		{"just under an hour", now.Add(-59 * time.Minute), "59m ago"},
		{"three hours ago", now.Add(-3 * time.Hour), "3h ago"},
		{"just under a day", now.Add(-23 * time.Hour), "23h ago"},
		{"two days ago", now.Add(-48 * time.Hour), "2d ago"},
		{"months collapse to days", now.Add(-90 * 24 * time.Hour), "90d ago"},
		{"future timestamp clamps", now.Add(5 * time.Minute), "Just now"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TimeSince(tt.createdAt, now))
		})
	}
}
