package donor

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kovil/internal/adapter/memstore"
	"kovil/internal/domain"
)

func day(d int) *time.Time {
	t := time.Date(2025, 1, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func seed(t *testing.T) *Aggregator {
	t.Helper()
	repo := memstore.New().Donations()
	ctx := context.Background()
	rows := []domain.Donation{
		{ID: "1", ReceiptNo: "1", Name: "Lakshmi", Phone: "9000000001", Location: "Salem", Community: domain.CommunityAadai, Amount: 100, DonationDate: day(1)},
		{ID: "2", ReceiptNo: "2", Name: "Lakshmi R", Phone: "9000000001", Location: "Erode", Community: domain.CommunitySemban, Amount: 250, DonationDate: day(10)},
		{ID: "3", ReceiptNo: "3", Name: "Murugan", Phone: "9000000002", Location: "Trichy", Community: domain.CommunityAadai, Amount: 1000, DonationDate: day(5)},
	}
	for i := range rows {
		require.NoError(t, repo.Create(ctx, &rows[i]))
	}
	return NewAggregator(repo)
}

func TestGetByPhoneAggregates(t *testing.T) {
	a := seed(t)

	summary, err := a.GetByPhone(context.Background(), "9000000001")
	require.NoError(t, err)
	assert.EqualValues(t, 350, summary.TotalAmount)
	assert.Equal(t, 2, summary.DonationCount)
	assert.Equal(t, "Lakshmi R", summary.Name)
	assert.Equal(t, "Erode", summary.Location)
	assert.Equal(t, domain.CommunitySemban, summary.Community)
	assert.True(t, summary.LastDonation.Equal(*day(10)))
	require.Len(t, summary.Donations, 2)
	assert.Equal(t, "2", summary.Donations[0].ID)
}

func TestGetByPhoneNotFound(t *testing.T) {
	_, err := seed(t).GetByPhone(context.Background(), "9999999999")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSearch(t *testing.T) {
	a := seed(t)
	ctx := context.Background()

	byName, err := a.Search(ctx, "LAKSHMI", "all")
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.EqualValues(t, 350, byName[0].TotalAmount)

	byCommunity, err := a.Search(ctx, "", "aadai")
	require.NoError(t, err)
	require.Len(t, byCommunity, 2)
	// Murugan gave most recently among aadai records (day 5 vs day 1).
	assert.Equal(t, "9000000002", byCommunity[0].Phone)

	empty, err := a.Search(ctx, "  ", "")
	require.NoError(t, err)
	assert.Empty(t, empty)

	unknown, err := a.Search(ctx, "Lakshmi", "cheran")
	require.NoError(t, err)
	assert.Empty(t, unknown)
}

func TestGroupTotalsMatchSums(t *testing.T) {
	var items []domain.Donation
	want := map[string]int64{}
	counts := map[string]int{}
	for i := 0; i < 30; i++ {
		phone := []string{"9000000001", "9000000002", "9000000003"}[i%3]
		amount := int64(10 * (i + 1))
		items = append(items, domain.Donation{ID: string(rune('a' + i)), Phone: phone, Amount: amount, CreatedAt: time.Unix(int64(i), 0)})
		want[phone] += amount
		counts[phone]++
	}

	for _, s := range Group(items) {
		assert.Equal(t, want[s.Phone], s.TotalAmount, s.Phone)
		assert.Equal(t, counts[s.Phone], s.DonationCount, s.Phone)
	}
}
