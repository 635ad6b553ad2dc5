package receipt

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kovil/internal/adapter/memstore"
)

func TestNextStartsAtOne(t *testing.T) {
	a := NewAllocator(memstore.New().Receipts(), 0, time.UTC)
	ctx := context.Background()

	first, err := a.Next(ctx, 2025)
	require.NoError(t, err)
	second, err := a.Next(ctx, 2025)
	require.NoError(t, err)

	assert.Equal(t, "1", first)
	assert.Equal(t, "2", second)
}

func TestNextIsMonotonicUnderConcurrency(t *testing.T) {
	a := NewAllocator(memstore.New().Receipts(), 0, time.UTC)
	ctx := context.Background()

	const workers = 40
	results := make(chan string, workers*2)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n, err := a.Next(ctx, 2025)
			assert.NoError(t, err)
			results <- n
			_, err = a.Next(ctx, 2026)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	close(results)

	seen := make(map[int]bool)
	for r := range results {
		n, err := strconv.Atoi(r)
		require.NoError(t, err)
		assert.False(t, seen[n], "number %d issued twice", n)
		seen[n] = true
	}
	for i := 1; i <= workers; i++ {
		assert.True(t, seen[i], "number %d missing", i)
	}

	current, err := a.Current(ctx, 2026)
	require.NoError(t, err)
	assert.EqualValues(t, workers, current)
}

func TestPaddingAndCurrentYear(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)
	// 31 Dec 2024 20:00 UTC is already 2025 in Kolkata.
	now := time.Date(2024, 12, 31, 20, 0, 0, 0, time.UTC)
	a := NewAllocator(memstore.New().Receipts(), 4, loc).WithClock(func() time.Time { return now })

	n, year, err := a.NextForNow(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "0001", n)
	assert.Equal(t, 2025, year)
}
