package service

import (
	"context"
	"sync"

	"github.com/finbeam/guarantor-intake/internal/model"
	"github.com/finbeam/guarantor-intake/internal/query"
)

// recentLimit is the fixed size of the dashboard's recent list.
const recentLimit = 5

// DashboardStats is the aggregation snapshot shown on the dashboard.
// TotalSubmissions is its own unfiltered count: the three status counts
// may not sum to it when rows carry a status outside the known enum
// values. That accounting gap is deliberate and is never reconciled
// here.
type DashboardStats struct {
	TotalSubmissions    int64
	PendingVerification int64
	Verified            int64
	Rejected            int64
	Recent              []model.RecentSubmission
}

// DashboardService produces submission volume statistics. There is no
// caching: every call re-queries the store.
type DashboardService struct {
	store SubmissionStore
}

// NewDashboardService constructs the service with its store.
func NewDashboardService(store SubmissionStore) *DashboardService {
	if store == nil {
		panic("nil store passed to NewDashboardService")
	}
	return &DashboardService{store: store}
}

// Stats issues the five independent store queries concurrently — the
// unfiltered total, one count per known status and the most recent
// five submissions (newest first, owner display name joined) — and
// assembles the snapshot. Each goroutine writes its own field, so no
// result state is shared. The first error wins; partial results are
// never returned.
func (s *DashboardService) Stats(ctx context.Context) (DashboardStats, error) {
	var (
		wg    sync.WaitGroup
		stats DashboardStats
		errs  [5]error
	)

	run := func(i int, fn func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = fn()
		}()
	}

	run(0, func() (err error) {
		stats.TotalSubmissions, err = s.store.Count(ctx, query.Predicate{})
		return
	})
	run(1, func() (err error) {
		stats.PendingVerification, err = s.store.CountByStatus(ctx, model.StatusPendingVerification)
		return
	})
	run(2, func() (err error) {
		stats.Verified, err = s.store.CountByStatus(ctx, model.StatusVerified)
		return
	})
	run(3, func() (err error) {
		stats.Rejected, err = s.store.CountByStatus(ctx, model.StatusRejected)
		return
	})
	run(4, func() (err error) {
		stats.Recent, err = s.store.Recent(ctx, recentLimit)
		return
	})
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return DashboardStats{}, err
		}
	}
	return stats, nil
}
