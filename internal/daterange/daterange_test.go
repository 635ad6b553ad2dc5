package daterange

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePresets(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)
	now := time.Date(2025, 3, 14, 10, 0, 0, 0, loc)
	eod := int(999 * time.Millisecond)

	cases := []struct {
		preset     string
		start, end time.Time
	}{
		{Today, time.Date(2025, 3, 14, 0, 0, 0, 0, loc), time.Date(2025, 3, 14, 23, 59, 59, eod, loc)},
		{Week, now.Add(-7 * 24 * time.Hour), now},
		{Month, time.Date(2025, 3, 1, 0, 0, 0, 0, loc), now},
		{ThisYear, time.Date(2025, 1, 1, 0, 0, 0, 0, loc), time.Date(2025, 12, 31, 23, 59, 59, eod, loc)},
		{LastYear, time.Date(2024, 1, 1, 0, 0, 0, 0, loc), time.Date(2024, 12, 31, 23, 59, 59, eod, loc)},
		{ThisMonth, time.Date(2025, 3, 1, 0, 0, 0, 0, loc), time.Date(2025, 3, 31, 23, 59, 59, eod, loc)},
		{LastMonth, time.Date(2025, 2, 1, 0, 0, 0, 0, loc), time.Date(2025, 2, 28, 23, 59, 59, eod, loc)},
	}
	for _, tc := range cases {
		t.Run(tc.preset, func(t *testing.T) {
			r, err := Resolve(tc.preset, "", "", now, loc)
			require.NoError(t, err)
			require.NotNil(t, r.Start)
			require.NotNil(t, r.End)
			assert.True(t, r.Start.Equal(tc.start), "start %s", r.Start)
			assert.True(t, r.End.Equal(tc.end), "end %s", r.End)
		})
	}
}

func TestResolveLastMonthAcrossYear(t *testing.T) {
	now := time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)
	r, err := Resolve(LastMonth, "", "", now, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, "2024-12-01", r.Start.Format("2006-01-02"))
	assert.Equal(t, "2024-12-31", r.End.Format("2006-01-02"))
}

func TestResolveAllAndCustom(t *testing.T) {
	now := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)

	all, err := Resolve("", "", "", now, time.UTC)
	require.NoError(t, err)
	assert.Nil(t, all.Start)
	assert.Nil(t, all.End)
	assert.Equal(t, "all::", all.Key())

	custom, err := Resolve("custom", "2025-01-01", "2025-01-31", now, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 1, 31, 23, 59, 59, int(999*time.Millisecond), time.UTC), *custom.End)
	assert.Equal(t, "custom:2025-01-01:2025-01-31", custom.Key())

	_, err = Resolve("custom", "2025-02-01", "2025-01-31", now, time.UTC)
	assert.Error(t, err)
	_, err = Resolve("custom", "01/02/2025", "", now, time.UTC)
	assert.Error(t, err)
	_, err = Resolve("fortnight", "", "", now, time.UTC)
	assert.ErrorIs(t, err, ErrUnknownPreset)
}
