package task

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrson-dev/crm-ju-ai/domain"
	"github.com/mrson-dev/crm-ju-ai/repository"
)

type fakeTaskRepo struct {
	tasks  map[string]*domain.Task
	groups []domain.CompletionGroup
	fail   bool
	nextID int
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{tasks: make(map[string]*domain.Task)}
}

func (f *fakeTaskRepo) GetByID(_ context.Context, id, userID string) (*domain.Task, error) {
	task, ok := f.tasks[id]
	if !ok || task.UserID != userID {
		return nil, domain.ErrTaskNotFound
	}
	copied := *task
	return &copied, nil
}

func (f *fakeTaskRepo) List(_ context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	var out []domain.Task
	for _, task := range f.tasks {
		if task.UserID == filter.UserID {
			out = append(out, *task)
		}
	}
	return out, nil
}

func (f *fakeTaskRepo) ListOverdue(_ context.Context, userID string, now time.Time, _ int) ([]domain.Task, error) {
	var out []domain.Task
	for _, task := range f.tasks {
		if task.UserID == userID && task.IsOpen() && task.DueDate != nil && task.DueDate.Before(now) {
			out = append(out, *task)
		}
	}
	return out, nil
}

func (f *fakeTaskRepo) Create(_ context.Context, task *domain.Task) (*domain.Task, error) {
	if f.fail {
		return nil, assertErr
	}
	if task.ID == "" {
		f.nextID++
		task.ID = string(rune('a' + f.nextID))
	}
	copied := *task
	f.tasks[task.ID] = &copied
	return task, nil
}

func (f *fakeTaskRepo) Update(_ context.Context, task *domain.Task) error {
	if f.fail {
		return assertErr
	}
	stored, ok := f.tasks[task.ID]
	if !ok || stored.UserID != task.UserID {
		return domain.ErrTaskNotFound
	}
	score := stored.Score
	copied := *task
	copied.Score = score
	f.tasks[task.ID] = &copied
	return nil
}

func (f *fakeTaskRepo) Complete(_ context.Context, id, userID, completedBy string, at time.Time) (*domain.Task, error) {
	if f.fail {
		return nil, assertErr
	}
	task, ok := f.tasks[id]
	if !ok || task.UserID != userID {
		return nil, domain.ErrTaskNotFound
	}
	if task.CompletedAt == nil {
		task.CompletedAt = &at
		task.CompletedBy = completedBy
	}
	task.Status = domain.TaskDone
	copied := *task
	return &copied, nil
}

func (f *fakeTaskRepo) Delete(_ context.Context, id, userID string) error {
	task, ok := f.tasks[id]
	if !ok || task.UserID != userID {
		return domain.ErrTaskNotFound
	}
	delete(f.tasks, id)
	return nil
}

func (f *fakeTaskRepo) ProductivityStats(_ context.Context, userID string) (repository.ProductivityStats, error) {
	stats := repository.ProductivityStats{}
	for _, task := range f.tasks {
		if task.UserID == userID && task.IsCompleted() {
			stats.TasksCompleted++
			stats.TotalScore += task.Score
		}
	}
	if stats.TasksCompleted > 0 {
		stats.AvgScore = float64(stats.TotalScore) / float64(stats.TasksCompleted)
	}
	return stats, nil
}

func (f *fakeTaskRepo) CompletionGroups(_ context.Context, _ repository.RankingWindow) ([]domain.CompletionGroup, error) {
	return f.groups, nil
}

var assertErr = domain.NewError(domain.ErrCodeInternal, "storage unavailable")

type recordingBuffer struct {
	operations []string
	tasks      []*domain.Task
}

func (b *recordingBuffer) BufferTask(_ context.Context, operation string, task *domain.Task) error {
	b.operations = append(b.operations, operation)
	b.tasks = append(b.tasks, task)
	return nil
}

func (b *recordingBuffer) BufferTimeEntry(_ context.Context, _ string, _ *domain.TimeEntry) error {
	return nil
}

func fixedNow() time.Time {
	return time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
}

func newTestUseCase(repo *fakeTaskRepo) *UseCase {
	uc := New(repo, nil, nil)
	uc.now = fixedNow
	return uc
}

func TestCreateTaskComputesScoreAndAlert(t *testing.T) {
	repo := newFakeTaskRepo()
	uc := newTestUseCase(repo)

	due := fixedNow().Add(30 * time.Hour)
	created, err := uc.CreateTask(context.Background(), &domain.Task{
		UserID:   "u1",
		Title:    "Protocolar recurso",
		Category: domain.CategoryFiling,
		Priority: domain.PriorityUrgent,
		DueDate:  &due,
	})
	require.NoError(t, err)
	assert.Equal(t, 120, created.Score)
	assert.Equal(t, domain.AlertCritical, created.AlertLevel)
	assert.Equal(t, domain.TaskPending, created.Status)
}

func TestCreateTaskDefaults(t *testing.T) {
	repo := newFakeTaskRepo()
	uc := newTestUseCase(repo)

	created, err := uc.CreateTask(context.Background(), &domain.Task{
		UserID: "u1",
		Title:  "Revisar contrato",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.CategoryOther, created.Category)
	assert.Equal(t, domain.PriorityMedium, created.Priority)
	assert.Equal(t, 25, created.Score)
	assert.Equal(t, domain.AlertNormal, created.AlertLevel)
}

func TestCreateTaskRejectsEmptyTitle(t *testing.T) {
	uc := newTestUseCase(newFakeTaskRepo())

	_, err := uc.CreateTask(context.Background(), &domain.Task{UserID: "u1", Title: "   "})
	assert.ErrorIs(t, err, domain.ErrInvalidPayload)
}

func TestUpdateTaskKeepsScore(t *testing.T) {
	repo := newFakeTaskRepo()
	uc := newTestUseCase(repo)

	created, err := uc.CreateTask(context.Background(), &domain.Task{
		UserID:   "u1",
		Title:    "Audiencia trabalhista",
		Category: domain.CategoryHearing,
		Priority: domain.PriorityHigh,
	})
	require.NoError(t, err)
	require.Equal(t, 130, created.Score)

	low := domain.PriorityLow
	title := "Audiencia remarcada"
	_, err = uc.UpdateTask(context.Background(), created.ID, "u1", TaskPatch{
		Title:    &title,
		Priority: &low,
	})
	require.NoError(t, err)

	stored, err := uc.GetTask(context.Background(), created.ID, "u1")
	require.NoError(t, err)
	assert.Equal(t, 130, stored.Score)
	assert.Equal(t, "Audiencia remarcada", stored.Title)
}

func TestUpdateTaskPreservesUnsentFields(t *testing.T) {
	repo := newFakeTaskRepo()
	uc := newTestUseCase(repo)

	due := fixedNow().Add(30 * time.Hour)
	created, err := uc.CreateTask(context.Background(), &domain.Task{
		UserID:   "u1",
		Title:    "Contestacao",
		Category: domain.CategoryFatalDeadline,
		Priority: domain.PriorityUrgent,
		DueDate:  &due,
		Tags:     []string{"prazo"},
	})
	require.NoError(t, err)
	require.Equal(t, domain.AlertCritical, created.AlertLevel)

	title := "Contestacao revisada"
	updated, err := uc.UpdateTask(context.Background(), created.ID, "u1", TaskPatch{Title: &title})
	require.NoError(t, err)

	assert.Equal(t, "Contestacao revisada", updated.Title)
	assert.Equal(t, domain.PriorityUrgent, updated.Priority)
	assert.Equal(t, domain.CategoryFatalDeadline, updated.Category)
	require.NotNil(t, updated.DueDate)
	assert.True(t, updated.DueDate.Equal(due))
	assert.Equal(t, domain.AlertCritical, updated.AlertLevel)
	assert.Equal(t, []string{"prazo"}, updated.Tags)

	stored, err := uc.GetTask(context.Background(), created.ID, "u1")
	require.NoError(t, err)
	assert.Equal(t, domain.PriorityUrgent, stored.Priority)
	require.NotNil(t, stored.DueDate)
	assert.Equal(t, domain.AlertCritical, stored.AlertLevel)
}

func TestUpdateTaskClearsDueDate(t *testing.T) {
	repo := newFakeTaskRepo()
	uc := newTestUseCase(repo)

	due := fixedNow().Add(5 * time.Hour)
	created, err := uc.CreateTask(context.Background(), &domain.Task{
		UserID: "u1", Title: "Prazo", Category: domain.CategoryOrdinaryDeadline, DueDate: &due,
	})
	require.NoError(t, err)
	require.Equal(t, domain.AlertFatal, created.AlertLevel)

	updated, err := uc.UpdateTask(context.Background(), created.ID, "u1", TaskPatch{ClearDueDate: true})
	require.NoError(t, err)
	assert.Nil(t, updated.DueDate)
	assert.Equal(t, domain.AlertNormal, updated.AlertLevel)
}

func TestUpdateTaskRejectsBlankTitle(t *testing.T) {
	uc := newTestUseCase(newFakeTaskRepo())

	blank := "   "
	_, err := uc.UpdateTask(context.Background(), "t1", "u1", TaskPatch{Title: &blank})
	var derr *domain.Error
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, domain.ErrCodeInvalid, derr.Code)
}

func TestUpdateTaskReclassifiesAlertOnNewDueDate(t *testing.T) {
	repo := newFakeTaskRepo()
	uc := newTestUseCase(repo)

	created, err := uc.CreateTask(context.Background(), &domain.Task{
		UserID: "u1", Title: "Prazo", Category: domain.CategoryOrdinaryDeadline,
	})
	require.NoError(t, err)
	require.Equal(t, domain.AlertNormal, created.AlertLevel)

	due := fixedNow().Add(5 * time.Hour)
	updated, err := uc.UpdateTask(context.Background(), created.ID, "u1", TaskPatch{DueDate: &due})
	require.NoError(t, err)
	assert.Equal(t, domain.AlertFatal, updated.AlertLevel)
}

func TestCompleteTaskIsIdempotent(t *testing.T) {
	repo := newFakeTaskRepo()
	uc := newTestUseCase(repo)

	created, err := uc.CreateTask(context.Background(), &domain.Task{
		UserID: "u1", Title: "Despacho", Category: domain.CategoryFiling,
	})
	require.NoError(t, err)

	first, err := uc.CompleteTask(context.Background(), created.ID, "u1", "advogada")
	require.NoError(t, err)
	require.NotNil(t, first.CompletedAt)
	assert.Equal(t, "advogada", first.CompletedBy)

	second, err := uc.CompleteTask(context.Background(), created.ID, "u1", "estagiario")
	require.NoError(t, err)
	assert.Equal(t, first.CompletedAt, second.CompletedAt)
	assert.Equal(t, "advogada", second.CompletedBy)
}

func TestCompleteTaskDefaultsCompletedBy(t *testing.T) {
	repo := newFakeTaskRepo()
	uc := newTestUseCase(repo)

	created, err := uc.CreateTask(context.Background(), &domain.Task{
		UserID: "u1", Title: "Diligencia", Category: domain.CategoryDiligence,
	})
	require.NoError(t, err)

	completed, err := uc.CompleteTask(context.Background(), created.ID, "u1", "")
	require.NoError(t, err)
	assert.Equal(t, "u1", completed.CompletedBy)
}

func TestCompleteTaskNotFound(t *testing.T) {
	uc := newTestUseCase(newFakeTaskRepo())

	_, err := uc.CompleteTask(context.Background(), "missing", "u1", "")
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestBatchCompletePartialFailure(t *testing.T) {
	repo := newFakeTaskRepo()
	uc := newTestUseCase(repo)

	created, err := uc.CreateTask(context.Background(), &domain.Task{
		UserID: "u1", Title: "Peticao", Category: domain.CategoryFiling,
	})
	require.NoError(t, err)

	results := uc.BatchComplete(context.Background(), []string{created.ID, "missing"}, "u1", "u1")
	require.Len(t, results, 2)
	assert.Empty(t, results[0].Error)
	assert.NotNil(t, results[0].Task)
	assert.NotEmpty(t, results[1].Error)
	assert.Nil(t, results[1].Task)
}

func TestBatchStatusRejectsUnknownStatus(t *testing.T) {
	uc := newTestUseCase(newFakeTaskRepo())

	results := uc.BatchStatus(context.Background(), []string{"t1"}, "u1", "paused")
	require.Len(t, results, 1)
	assert.NotEmpty(t, results[0].Error)
}

func TestBatchStatusDoneDelegatesToComplete(t *testing.T) {
	repo := newFakeTaskRepo()
	uc := newTestUseCase(repo)

	created, err := uc.CreateTask(context.Background(), &domain.Task{
		UserID: "u1", Title: "Analise", Category: domain.CategoryAnalysis,
	})
	require.NoError(t, err)

	results := uc.BatchStatus(context.Background(), []string{created.ID}, "u1", domain.TaskDone)
	require.Len(t, results, 1)
	require.Empty(t, results[0].Error)
	assert.NotNil(t, results[0].Task.CompletedAt)
}

func TestRankingFromCompletionGroups(t *testing.T) {
	repo := newFakeTaskRepo()
	repo.groups = []domain.CompletionGroup{
		{UserID: "alice", Category: domain.CategoryHearing, Tasks: 1, TotalScore: 100},
		{UserID: "bob", Category: domain.CategoryFiling, Tasks: 2, TotalScore: 160},
		{UserID: "alice", Category: domain.CategoryMeeting, Tasks: 1, TotalScore: 40},
	}
	uc := newTestUseCase(repo)

	ranking, err := uc.Ranking(context.Background(), repository.RankingWindow{})
	require.NoError(t, err)
	require.Len(t, ranking, 2)
	assert.Equal(t, "bob", ranking[0].UserID)
	assert.Equal(t, 1, ranking[0].Rank)
	assert.Equal(t, "alice", ranking[1].UserID)
	assert.Equal(t, 140, ranking[1].TotalScore)
}

func TestMyScoreAbsentUser(t *testing.T) {
	repo := newFakeTaskRepo()
	repo.groups = []domain.CompletionGroup{
		{UserID: "alice", Category: domain.CategoryHearing, Tasks: 1, TotalScore: 100},
	}
	uc := newTestUseCase(repo)

	entry, err := uc.MyScore(context.Background(), "carol", repository.RankingWindow{})
	require.NoError(t, err)
	assert.Equal(t, "carol", entry.UserID)
	assert.Zero(t, entry.TotalScore)
	assert.Equal(t, 2, entry.Rank)
}

func TestCreateTaskBufferedOnStorageFailure(t *testing.T) {
	repo := newFakeTaskRepo()
	repo.fail = true
	buf := &recordingBuffer{}
	uc := New(repo, buf, nil)
	uc.now = fixedNow

	task := &domain.Task{UserID: "u1", Title: "Protocolo", Category: domain.CategoryFiling}
	created, err := uc.CreateTask(context.Background(), task)
	require.NoError(t, err)
	assert.Equal(t, 80, created.Score)
	require.Len(t, buf.operations, 1)
	assert.Equal(t, "create", buf.operations[0])
}
