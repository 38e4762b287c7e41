package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func Test_Classify(t *testing.T) {
	now := time.Now().UTC()

	cases := []struct {
		name         string
		lastActivity time.Time
		expected     Status
	}{
		{"just now", now, StatusOnline},
		{"four minutes ago", now.Add(-4 * time.Minute), StatusOnline},
		{"exactly five minutes ago", now.Add(-OnlineWindow), StatusAway},
		{"ten minutes ago", now.Add(-10 * time.Minute), StatusAway},
		{"exactly fifteen minutes ago", now.Add(-AwayWindow), StatusOffline},
		{"an hour ago", now.Add(-time.Hour), StatusOffline},
		{"never active", time.Time{}, StatusOffline},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expected, Classify(tc.lastActivity, now))
		})
	}
}
