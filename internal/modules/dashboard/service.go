package dashboard

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"opsdeck/internal/cache"
	"opsdeck/internal/domain"
)

const snapshotCacheKey = "dashboard:snapshot"

// Source is the slice of the upstream client the dashboard needs.
type Source interface {
	ListEquipment(ctx context.Context) ([]domain.EquipmentItem, int, error)
	ListLowStock(ctx context.Context) ([]domain.LowStockAlert, int, error)
	ListOverstock(ctx context.Context) ([]domain.OverstockAlert, int, error)
	ListIssues(ctx context.Context) ([]domain.Issue, int, error)
}

// Snapshot is one whole refresh of the dashboard data. List snapshots are
// always replaced wholesale, never merged in place.
type Snapshot struct {
	Equipment    []domain.EquipmentItem  `json:"equipment"`
	LowStock     []domain.LowStockAlert  `json:"low_stock"`
	Overstock    []domain.OverstockAlert `json:"overstock"`
	Issues       []domain.Issue          `json:"issues"`
	ProblemItems []domain.ProblemItem    `json:"problem_items"`
	FetchedAt    time.Time               `json:"fetched_at"`
}

type Service struct {
	source Source
	cache  cache.Cache
	ttl    time.Duration
	logger *zap.Logger
}

func NewService(source Source, c cache.Cache, ttl time.Duration, logger *zap.Logger) *Service {
	return &Service{
		source: source,
		cache:  c,
		ttl:    ttl,
		logger: logger,
	}
}

// Snapshot returns the cached snapshot when fresh, otherwise fetches one.
func (s *Service) Snapshot(ctx context.Context) *Snapshot {
	if s.cache != nil {
		var snap Snapshot
		if err := cache.GetJSON(ctx, s.cache, snapshotCacheKey, &snap); err == nil {
			return &snap
		}
	}
	return s.Refresh(ctx)
}

// Refresh drops the cached snapshot and fetches a fresh one.
func (s *Service) Refresh(ctx context.Context) *Snapshot {
	if s.cache != nil {
		_ = s.cache.Delete(ctx, snapshotCacheKey)
	}

	snap := s.fetch(ctx)

	if s.cache != nil {
		_ = cache.SetJSON(ctx, s.cache, snapshotCacheKey, snap, s.ttl)
	}
	return snap
}

// fetch issues the four list requests in parallel. Each source settles
// independently: a failing source degrades to an empty list and never aborts
// the others.
func (s *Service) fetch(ctx context.Context) *Snapshot {
	snap := &Snapshot{
		Equipment: []domain.EquipmentItem{},
		LowStock:  []domain.LowStockAlert{},
		Overstock: []domain.OverstockAlert{},
		Issues:    []domain.Issue{},
		FetchedAt: time.Now().UTC(),
	}

	var wg sync.WaitGroup
	wg.Add(4)

	go func() {
		defer wg.Done()
		items, _, err := s.source.ListEquipment(ctx)
		if err != nil {
			s.logger.Warn("equipment fetch failed", zap.Error(err))
			return
		}
		snap.Equipment = operationalOnly(items)
	}()

	go func() {
		defer wg.Done()
		alerts, _, err := s.source.ListLowStock(ctx)
		if err != nil {
			s.logger.Warn("low-stock fetch failed", zap.Error(err))
			return
		}
		snap.LowStock = alerts
	}()

	go func() {
		defer wg.Done()
		alerts, _, err := s.source.ListOverstock(ctx)
		if err != nil {
			s.logger.Warn("overstock fetch failed", zap.Error(err))
			return
		}
		snap.Overstock = alerts
	}()

	go func() {
		defer wg.Done()
		issues, _, err := s.source.ListIssues(ctx)
		if err != nil {
			s.logger.Warn("issues fetch failed", zap.Error(err))
			return
		}
		snap.Issues = issues
	}()

	wg.Wait()

	snap.ProblemItems = BuildProblemItems(snap.Equipment, snap.LowStock, snap.Issues)
	return snap
}

// operationalOnly drops archived (soft-deleted) items.
func operationalOnly(items []domain.EquipmentItem) []domain.EquipmentItem {
	out := make([]domain.EquipmentItem, 0, len(items))
	for _, item := range items {
		if item.IsArchived() {
			continue
		}
		out = append(out, item)
	}
	return out
}
