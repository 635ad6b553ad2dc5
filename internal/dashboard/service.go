package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"kovil/internal/cache"
	"kovil/internal/daterange"
	"kovil/internal/domain"
)

const (
	CachePrefix       = "dashboard-stats"
	DefaultRecentSize = 5
)

// Lister is the read side of the donation store.
type Lister interface {
	List(ctx context.Context, filter domain.DonationFilter) ([]domain.Donation, error)
}

// Query selects the reporting window.
type Query struct {
	Preset    string
	StartDate string
	EndDate   string
}

type Service struct {
	store  Lister
	cache  *cache.TTL[domain.DashboardOverview]
	loc    *time.Location
	now    func() time.Time
	logger zerolog.Logger
}

func NewService(store Lister, ttl time.Duration, loc *time.Location, logger zerolog.Logger) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		store:  store,
		cache:  cache.New[domain.DashboardOverview](ttl),
		loc:    loc,
		now:    time.Now,
		logger: logger,
	}
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	s.cache.WithClock(now)
	return s
}

// Cache exposes the overview cache so its janitor can be run by the caller.
func (s *Service) Cache() *cache.TTL[domain.DashboardOverview] {
	return s.cache
}

// Resolve turns q into a concrete window.
func (s *Service) Resolve(q Query) (daterange.Range, error) {
	r, err := daterange.Resolve(q.Preset, q.StartDate, q.EndDate, s.now(), s.loc)
	if err != nil {
		return daterange.Range{}, &domain.ValidationError{Reasons: []string{err.Error()}}
	}
	return r, nil
}

// Overview returns stats, distribution and recent donations for q, serving
// from cache when possible. The bool reports a cache hit.
func (s *Service) Overview(ctx context.Context, q Query) (domain.DashboardOverview, bool, error) {
	r, err := s.Resolve(q)
	if err != nil {
		return domain.DashboardOverview{}, false, err
	}
	key := CachePrefix + ":" + r.Key()
	if cached, ok := s.cache.Get(key); ok {
		return cached, true, nil
	}

	gen := s.cache.Generation()
	window := domain.DateWindow{Start: r.Start, End: r.End}
	items, err := s.store.List(ctx, domain.DonationFilter{Window: window})
	if err != nil {
		return domain.DashboardOverview{}, false, fmt.Errorf("dashboard overview: %w", err)
	}
	overview := domain.DashboardOverview{
		Stats:        ComputeStats(items, window),
		Distribution: PaymentModeDistribution(items, window),
		Recent:       RecentDonations(items, DefaultRecentSize, window),
		GeneratedAt:  s.now(),
	}
	if !s.cache.SetIfGeneration(key, overview, gen) {
		s.logger.Debug().Str("key", key).Msg("dashboard overview not cached; invalidated while computing")
	}
	return overview, false, nil
}

// Donations lists the records in q's window for export.
func (s *Service) Donations(ctx context.Context, q Query) ([]domain.Donation, daterange.Range, error) {
	r, err := s.Resolve(q)
	if err != nil {
		return nil, daterange.Range{}, err
	}
	items, err := s.store.List(ctx, domain.DonationFilter{Window: domain.DateWindow{Start: r.Start, End: r.End}})
	if err != nil {
		return nil, r, fmt.Errorf("dashboard donations: %w", err)
	}
	return items, r, nil
}

// Invalidate drops every cached overview. It runs after each donation write.
func (s *Service) Invalidate() {
	if n := s.cache.InvalidatePrefix(CachePrefix); n > 0 {
		s.logger.Debug().Int("entries", n).Msg("dashboard cache invalidated")
	}
}

// ClearCache empties the whole cache.
func (s *Service) ClearCache() int {
	return s.cache.Clear()
}

// ExportFilename names a dashboard export after its window:
// temple-donations[-preset][-start-to-end].csv
func ExportFilename(q Query, ext string) string {
	name := "temple-donations"
	preset := q.Preset
	if preset == "" {
		preset = daterange.All
	}
	if preset != daterange.All {
		name += "-" + preset
		if preset == daterange.Custom && q.StartDate != "" && q.EndDate != "" {
			name += "-" + q.StartDate + "-to-" + q.EndDate
		}
	}
	if ext == "" {
		ext = "csv"
	}
	return name + "." + ext
}
