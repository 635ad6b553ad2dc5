package donation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)

	cases := []struct {
		name string
		raw  string
		want time.Time
	}{
		{"excel serial", "45366", time.Date(2024, 3, 15, 0, 0, 0, 0, loc)},
		{"day first by default", "03/04/2025", time.Date(2025, 4, 3, 0, 0, 0, 0, loc)},
		{"first part above twelve is the day", "25/12/2024", time.Date(2024, 12, 25, 0, 0, 0, 0, loc)},
		{"second part above twelve is the day", "12/25/2024", time.Date(2024, 12, 25, 0, 0, 0, 0, loc)},
		{"two digit year after pivot", "01/02/99", time.Date(1999, 2, 1, 0, 0, 0, 0, loc)},
		{"two digit year before pivot", "01/02/24", time.Date(2024, 2, 1, 0, 0, 0, 0, loc)},
		{"year first with slashes", "2025/03/14", time.Date(2025, 3, 14, 0, 0, 0, 0, loc)},
		{"iso date", "2025-03-14", time.Date(2025, 3, 14, 0, 0, 0, 0, loc)},
		{"iso timestamp", "2025-03-14T10:30:00Z", time.Date(2025, 3, 14, 10, 30, 0, 0, time.UTC)},
		{"day first with dashes", "14-03-2025", time.Date(2025, 3, 14, 0, 0, 0, 0, loc)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseDate(tc.raw, loc)
			require.NoError(t, err)
			assert.True(t, got.Equal(tc.want), "got %s want %s", got, tc.want)
		})
	}
}

func TestParseDateRejects(t *testing.T) {
	for _, raw := range []string{"", "yesterday", "31/02/2025", "123", "1/2", "2025-13-40"} {
		_, err := ParseDate(raw, time.UTC)
		assert.ErrorIs(t, err, ErrUnparseableDate, raw)
	}
}
