package timesheet

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrson-dev/crm-ju-ai/domain"
	"github.com/mrson-dev/crm-ju-ai/repository"
)

type fakeEntryRepo struct {
	entries map[string]*domain.TimeEntry
	nextID  int
	failing bool
}

func newFakeEntryRepo() *fakeEntryRepo {
	return &fakeEntryRepo{entries: make(map[string]*domain.TimeEntry)}
}

func (f *fakeEntryRepo) GetByID(_ context.Context, id, userID string) (*domain.TimeEntry, error) {
	entry, ok := f.entries[id]
	if !ok || entry.UserID != userID {
		return nil, domain.ErrTimeEntryNotFound
	}
	copied := *entry
	return &copied, nil
}

func (f *fakeEntryRepo) List(_ context.Context, filter repository.TimeEntryFilter) ([]domain.TimeEntry, error) {
	var out []domain.TimeEntry
	for _, entry := range f.entries {
		if entry.UserID == filter.UserID {
			out = append(out, *entry)
		}
	}
	return out, nil
}

func (f *fakeEntryRepo) Create(_ context.Context, entry *domain.TimeEntry) (*domain.TimeEntry, error) {
	if f.failing {
		return nil, errors.New("storage unavailable")
	}
	if entry.ID == "" {
		f.nextID++
		entry.ID = string(rune('0' + f.nextID))
	}
	copied := *entry
	f.entries[entry.ID] = &copied
	return entry, nil
}

func (f *fakeEntryRepo) Update(_ context.Context, entry *domain.TimeEntry) error {
	stored, ok := f.entries[entry.ID]
	if !ok || stored.UserID != entry.UserID {
		return domain.ErrTimeEntryNotFound
	}
	copied := *entry
	f.entries[entry.ID] = &copied
	return nil
}

func (f *fakeEntryRepo) Delete(_ context.Context, id, userID string) error {
	stored, ok := f.entries[id]
	if !ok || stored.UserID != userID {
		return domain.ErrTimeEntryNotFound
	}
	delete(f.entries, id)
	return nil
}

func (f *fakeEntryRepo) Summary(_ context.Context, filter repository.TimeEntryFilter) (int64, int64, error) {
	var total, billable int64
	for _, entry := range f.entries {
		if entry.UserID != filter.UserID {
			continue
		}
		total += int64(entry.DurationMinutes)
		if entry.Billable {
			billable += int64(entry.DurationMinutes)
		}
	}
	return total, billable, nil
}

type recordingBuffer struct {
	entries []*domain.TimeEntry
}

func (r *recordingBuffer) BufferTask(context.Context, string, *domain.Task) error { return nil }

func (r *recordingBuffer) BufferTimeEntry(_ context.Context, _ string, entry *domain.TimeEntry) error {
	r.entries = append(r.entries, entry)
	return nil
}

func TestCreateEntryAppliesDefaultRate(t *testing.T) {
	repo := newFakeEntryRepo()
	uc := New(repo, nil, 30000, nil)

	created, err := uc.CreateEntry(context.Background(), &domain.TimeEntry{
		UserID:          "user-1",
		CaseID:          "case-1",
		Date:            time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
		DurationMinutes: 90,
		Billable:        true,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(30000), created.HourlyRateCents)
}

func TestCreateEntryKeepsExplicitRate(t *testing.T) {
	repo := newFakeEntryRepo()
	uc := New(repo, nil, 30000, nil)

	created, err := uc.CreateEntry(context.Background(), &domain.TimeEntry{
		UserID:          "user-1",
		CaseID:          "case-1",
		Date:            time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
		DurationMinutes: 60,
		HourlyRateCents: 45000,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(45000), created.HourlyRateCents)
}

func TestCreateEntryRejectsNonPositiveDuration(t *testing.T) {
	uc := New(newFakeEntryRepo(), nil, 30000, nil)

	_, err := uc.CreateEntry(context.Background(), &domain.TimeEntry{
		UserID:          "user-1",
		CaseID:          "case-1",
		Date:            time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
		DurationMinutes: 0,
	})
	require.Error(t, err)
}

func TestCreateEntryBuffersWhenStorageFails(t *testing.T) {
	repo := newFakeEntryRepo()
	repo.failing = true
	buf := &recordingBuffer{}
	uc := New(repo, buf, 30000, nil)

	entry := &domain.TimeEntry{
		UserID:          "user-1",
		CaseID:          "case-1",
		Date:            time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
		DurationMinutes: 30,
	}
	_, err := uc.CreateEntry(context.Background(), entry)
	require.NoError(t, err)
	require.Len(t, buf.entries, 1)
	assert.Equal(t, "case-1", buf.entries[0].CaseID)
}

func TestSummaryConvertsMinutesAndAmount(t *testing.T) {
	repo := newFakeEntryRepo()
	uc := New(repo, nil, 30000, nil)

	ctx := context.Background()
	date := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	for _, e := range []*domain.TimeEntry{
		{UserID: "user-1", CaseID: "case-1", Date: date, DurationMinutes: 90, Billable: true},
		{UserID: "user-1", CaseID: "case-1", Date: date, DurationMinutes: 30, Billable: false},
	} {
		_, err := uc.CreateEntry(ctx, e)
		require.NoError(t, err)
	}

	summary, err := uc.Summary(ctx, repository.TimeEntryFilter{UserID: "user-1"})
	require.NoError(t, err)
	assert.InDelta(t, 2.0, summary.TotalHours, 0.001)
	assert.InDelta(t, 1.5, summary.BillableHours, 0.001)
	assert.InDelta(t, 0.5, summary.NonBillableHours, 0.001)
	// 90 billable minutes at R$300.00/h
	assert.Equal(t, int64(45000), summary.TotalAmountCents)
}
