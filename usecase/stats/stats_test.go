package stats

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrson-dev/crm-ju-ai/domain"
	"github.com/mrson-dev/crm-ju-ai/repository"
)

type fakeStatsRepo struct {
	calls int
	stats repository.DashboardStats
	err   error
}

func (f *fakeStatsRepo) Dashboard(_ context.Context, _ string, _ time.Time) (repository.DashboardStats, error) {
	f.calls++
	return f.stats, f.err
}

type fakeStatsCache struct {
	entries map[string]repository.DashboardStats
	getErr  error
}

func newFakeStatsCache() *fakeStatsCache {
	return &fakeStatsCache{entries: make(map[string]repository.DashboardStats)}
}

func (f *fakeStatsCache) Get(_ context.Context, userID string) (*repository.DashboardStats, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if stats, ok := f.entries[userID]; ok {
		return &stats, nil
	}
	return nil, nil
}

func (f *fakeStatsCache) Set(_ context.Context, userID string, stats repository.DashboardStats) error {
	f.entries[userID] = stats
	return nil
}

func (f *fakeStatsCache) Invalidate(_ context.Context, userID string) (int, error) {
	if _, ok := f.entries[userID]; !ok {
		return 0, nil
	}
	delete(f.entries, userID)
	return 1, nil
}

func TestDashboardCachesOnMiss(t *testing.T) {
	repo := &fakeStatsRepo{stats: repository.DashboardStats{TotalCases: 7, PendingTasks: 3}}
	cache := newFakeStatsCache()
	uc := New(repo, cache, nil)

	first, err := uc.Dashboard(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 7, first.TotalCases)
	assert.Equal(t, 1, repo.calls)

	second, err := uc.Dashboard(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, repo.calls)
}

func TestDashboardSurvivesCacheFailure(t *testing.T) {
	repo := &fakeStatsRepo{stats: repository.DashboardStats{TotalClients: 4}}
	cache := newFakeStatsCache()
	cache.getErr = domain.NewError(domain.ErrCodeInternal, "redis down")
	uc := New(repo, cache, nil)

	stats, err := uc.Dashboard(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 4, stats.TotalClients)
	assert.Equal(t, 1, repo.calls)
}

func TestInvalidateForcesRecompute(t *testing.T) {
	repo := &fakeStatsRepo{stats: repository.DashboardStats{TotalCases: 1}}
	cache := newFakeStatsCache()
	uc := New(repo, cache, nil)

	_, err := uc.Dashboard(context.Background(), "u1")
	require.NoError(t, err)
	require.Equal(t, 1, repo.calls)

	uc.Invalidate(context.Background(), "u1")

	_, err = uc.Dashboard(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, repo.calls)
}

func TestDashboardWithoutCache(t *testing.T) {
	repo := &fakeStatsRepo{stats: repository.DashboardStats{RecentDocuments: 2}}
	uc := New(repo, nil, nil)

	stats, err := uc.Dashboard(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, stats.RecentDocuments)
}
