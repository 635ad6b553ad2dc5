package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kovil/internal/adapter/memstore"
	"kovil/internal/domain"
)

func at(d, h int) *time.Time {
	t := time.Date(2025, 3, d, h, 0, 0, 0, time.UTC)
	return &t
}

func TestComputeStatsScenario(t *testing.T) {
	items := []domain.Donation{
		{Phone: "9000000001", Amount: 100, DonationDate: at(1, 0)},
		{Phone: "9000000001", Amount: 200, DonationDate: at(2, 0)},
		{Phone: "9000000002", Amount: 300, DonationDate: at(3, 0)},
		{Phone: "9000000003", Amount: 999, DonationDate: at(20, 0)},
	}
	window := domain.DateWindow{Start: at(1, 0), End: at(10, 0)}

	got := ComputeStats(items, window)
	want := domain.DashboardStats{TotalCollection: 600, TotalDonors: 2, TotalDonations: 3, AverageDonation: 200}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("stats mismatch (-want +got):\n%s", diff)
	}
}

func TestComputeStatsEmpty(t *testing.T) {
	got := ComputeStats(nil, domain.DateWindow{})
	assert.Equal(t, domain.DashboardStats{}, got)
}

func TestAverageTimesCountIsTotal(t *testing.T) {
	var items []domain.Donation
	for i := 1; i <= 7; i++ {
		items = append(items, domain.Donation{Phone: "9000000001", Amount: int64(i * 37), CreatedAt: time.Unix(int64(i), 0)})
	}
	stats := ComputeStats(items, domain.DateWindow{})
	assert.InDelta(t, float64(stats.TotalCollection), stats.AverageDonation*float64(stats.TotalDonations), 1e-9)
}

func TestPaymentModeDistribution(t *testing.T) {
	items := []domain.Donation{
		{PaymentMode: domain.PaymentCash, Amount: 100, CreatedAt: time.Unix(1, 0)},
		{PaymentMode: domain.PaymentCash, Amount: 50, CreatedAt: time.Unix(2, 0)},
		{PaymentMode: domain.PaymentUPI, Amount: 500, CreatedAt: time.Unix(3, 0)},
	}
	got := PaymentModeDistribution(items, domain.DateWindow{})
	want := []domain.ModeShare{
		{Mode: domain.PaymentCash, Count: 2, Amount: 150, Percentage: 200.0 / 3},
		{Mode: domain.PaymentUPI, Count: 1, Amount: 500, Percentage: 100.0 / 3},
	}
	if diff := cmp.Diff(want, got, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Fatalf("distribution mismatch (-want +got):\n%s", diff)
	}

	var sum float64
	for _, share := range got {
		sum += share.Percentage
	}
	assert.InDelta(t, 100, sum, 1e-9)

	assert.Empty(t, PaymentModeDistribution(nil, domain.DateWindow{}))
}

func TestRecentDonationsPutsDatedFirst(t *testing.T) {
	items := []domain.Donation{
		{ID: "undated-new", CreatedAt: time.Date(2025, 3, 30, 0, 0, 0, 0, time.UTC)},
		{ID: "dated-old", DonationDate: at(1, 0), CreatedAt: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)},
		{ID: "dated-new", DonationDate: at(5, 0), CreatedAt: time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC)},
		{ID: "undated-old", CreatedAt: time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)},
	}
	got := RecentDonations(items, 10, domain.DateWindow{})
	ids := make([]string, 0, len(got))
	for _, d := range got {
		ids = append(ids, d.ID)
	}
	assert.Equal(t, []string{"dated-new", "dated-old", "undated-new", "undated-old"}, ids)
	assert.Len(t, RecentDonations(items, 2, domain.DateWindow{}), 2)
}

func TestOverviewCachesUntilInvalidated(t *testing.T) {
	now := time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)
	repo := memstore.New().Donations()
	svc := NewService(repo, 2*time.Minute, time.UTC, zerolog.Nop()).WithClock(func() time.Time { return now })
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &domain.Donation{ID: "1", ReceiptNo: "1", Phone: "9000000001", Amount: 100, PaymentMode: domain.PaymentCash, DonationDate: at(14, 9)}))

	first, hit, err := svc.Overview(ctx, Query{Preset: "today"})
	require.NoError(t, err)
	assert.False(t, hit)
	assert.EqualValues(t, 100, first.Stats.TotalCollection)

	require.NoError(t, repo.Create(ctx, &domain.Donation{ID: "2", ReceiptNo: "2", Phone: "9000000002", Amount: 50, PaymentMode: domain.PaymentUPI, DonationDate: at(14, 10)}))

	cached, hit, err := svc.Overview(ctx, Query{Preset: "today"})
	require.NoError(t, err)
	assert.True(t, hit)
	assert.EqualValues(t, 100, cached.Stats.TotalCollection)

	svc.Invalidate()
	fresh, hit, err := svc.Overview(ctx, Query{Preset: "today"})
	require.NoError(t, err)
	assert.False(t, hit)
	assert.EqualValues(t, 150, fresh.Stats.TotalCollection)
	assert.Equal(t, 2, fresh.Stats.TotalDonors)
	require.Len(t, fresh.Recent, 2)
	assert.Equal(t, "2", fresh.Recent[0].ID)

	_, _, err = svc.Overview(ctx, Query{Preset: "decade"})
	var verr *domain.ValidationError
	assert.ErrorAs(t, err, &verr)
}

// pausingLister hands control back to the test in the middle of its first List.
type pausingLister struct {
	Lister
	reading chan struct{}
	resume  chan struct{}
	paused  bool
}

func (p *pausingLister) List(ctx context.Context, filter domain.DonationFilter) ([]domain.Donation, error) {
	items, err := p.Lister.List(ctx, filter)
	if !p.paused {
		p.paused = true
		close(p.reading)
		<-p.resume
	}
	return items, err
}

func TestOverviewIgnoresSnapshotReadBeforeInvalidation(t *testing.T) {
	now := time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)
	repo := memstore.New().Donations()
	lister := &pausingLister{Lister: repo, reading: make(chan struct{}), resume: make(chan struct{})}
	svc := NewService(lister, 2*time.Minute, time.UTC, zerolog.Nop()).WithClock(func() time.Time { return now })
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &domain.Donation{ID: "1", ReceiptNo: "1", Phone: "9000000001", Amount: 100, PaymentMode: domain.PaymentCash, DonationDate: at(14, 9)}))

	done := make(chan domain.DashboardOverview)
	go func() {
		stale, _, err := svc.Overview(ctx, Query{Preset: "today"})
		assert.NoError(t, err)
		done <- stale
	}()

	<-lister.reading
	require.NoError(t, repo.Create(ctx, &domain.Donation{ID: "2", ReceiptNo: "2", Phone: "9000000002", Amount: 900, PaymentMode: domain.PaymentUPI, DonationDate: at(14, 10)}))
	svc.Invalidate()
	close(lister.resume)

	stale := <-done
	assert.EqualValues(t, 100, stale.Stats.TotalCollection)

	fresh, hit, err := svc.Overview(ctx, Query{Preset: "today"})
	require.NoError(t, err)
	assert.False(t, hit)
	assert.EqualValues(t, 1000, fresh.Stats.TotalCollection)
	assert.Equal(t, 2, fresh.Stats.TotalDonations)
}

func TestExportFilename(t *testing.T) {
	assert.Equal(t, "temple-donations.csv", ExportFilename(Query{}, "csv"))
	assert.Equal(t, "temple-donations-thismonth.csv", ExportFilename(Query{Preset: "thismonth"}, ""))
	assert.Equal(t, "temple-donations-custom-2025-01-01-to-2025-01-31.xlsx",
		ExportFilename(Query{Preset: "custom", StartDate: "2025-01-01", EndDate: "2025-01-31"}, "xlsx"))
}
