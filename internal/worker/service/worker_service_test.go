package service

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"stock-sentiment-tracker/internal/entity"
	"stock-sentiment-tracker/internal/worker/strategy"
	"stock-sentiment-tracker/pkg/logger"
	"stock-sentiment-tracker/pkg/telegram"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTaskRepository is an in-memory queue honoring the priority and FIFO
// ordering of the SQL claim.
type fakeTaskRepository struct {
	tasks     []*entity.Task
	claimErr  error
	completed map[uint]interface{}
	failed    map[uint]string
}

func newFakeTaskRepository(tasks ...*entity.Task) *fakeTaskRepository {
	return &fakeTaskRepository{
		tasks:     tasks,
		completed: make(map[uint]interface{}),
		failed:    make(map[uint]string),
	}
}

func (r *fakeTaskRepository) Enqueue(_ context.Context, task *entity.Task) error {
	task.Status = entity.TaskStatusPending
	r.tasks = append(r.tasks, task)
	return nil
}

func (r *fakeTaskRepository) ClaimNext(_ context.Context) (*entity.Task, error) {
	if r.claimErr != nil {
		return nil, r.claimErr
	}
	pending := make([]*entity.Task, 0, len(r.tasks))
	for _, t := range r.tasks {
		if t.Status == entity.TaskStatusPending {
			pending = append(pending, t)
		}
	}
	if len(pending) == 0 {
		return nil, nil
	}
	sort.SliceStable(pending, func(i, j int) bool {
		return pending[i].Priority > pending[j].Priority
	})
	task := pending[0]
	task.Status = entity.TaskStatusRunning
	task.Attempts++
	return task, nil
}

func (r *fakeTaskRepository) Complete(_ context.Context, id uint, result interface{}) error {
	r.completed[id] = result
	for _, t := range r.tasks {
		if t.ID == id {
			t.Status = entity.TaskStatusDone
		}
	}
	return nil
}

func (r *fakeTaskRepository) Fail(_ context.Context, id uint, errMsg string) error {
	r.failed[id] = errMsg
	for _, t := range r.tasks {
		if t.ID == id {
			t.Status = entity.TaskStatusError
		}
	}
	return nil
}

func (r *fakeTaskRepository) RequeueStale(_ context.Context, _ time.Duration) (int64, error) {
	return 0, nil
}

// fakeStrategy executes tasks of one type with a canned outcome.
type fakeStrategy struct {
	taskType entity.TaskType
	result   interface{}
	err      error
	executed []uint
}

func (s *fakeStrategy) Execute(_ context.Context, task *entity.Task) (interface{}, error) {
	s.executed = append(s.executed, task.ID)
	return s.result, s.err
}

func (s *fakeStrategy) GetType() entity.TaskType {
	return s.taskType
}

// recordingNotifier captures failure notifications.
type recordingNotifier struct {
	messages []string
}

func (n *recordingNotifier) SendMessage(text string) error {
	n.messages = append(n.messages, text)
	return nil
}

func newTestWorker(t *testing.T, repo *fakeTaskRepository, strategies ...strategy.TaskExecutionStrategy) (WorkerService, *recordingNotifier) {
	t.Helper()
	log, err := logger.New("error", "console")
	require.NoError(t, err)
	notifier := &recordingNotifier{}
	return NewWorkerService(repo, strategies, notifier, log, 10*time.Millisecond), notifier
}

func TestRunOnceEmptyQueue(t *testing.T) {
	repo := newFakeTaskRepository()
	svc, _ := newTestWorker(t, repo)

	ran, err := svc.RunOnce(context.Background())
	require.NoError(t, err)
	assert.False(t, ran)
}

func TestRunOnceDispatchesByType(t *testing.T) {
	task := &entity.Task{ID: 1, TaskType: entity.TaskTypeRefreshStock, Ticker: "TSLA", Status: entity.TaskStatusPending}
	repo := newFakeTaskRepository(task)
	refresh := &fakeStrategy{taskType: entity.TaskTypeRefreshStock, result: map[string]bool{"success": true}}
	backfill := &fakeStrategy{taskType: entity.TaskTypeBackfillStock}
	svc, _ := newTestWorker(t, repo, refresh, backfill)

	ran, err := svc.RunOnce(context.Background())
	require.NoError(t, err)
	assert.True(t, ran)
	assert.Equal(t, []uint{1}, refresh.executed)
	assert.Empty(t, backfill.executed)
	assert.Equal(t, entity.TaskStatusDone, task.Status)
	assert.Contains(t, repo.completed, uint(1))
	assert.Equal(t, 1, task.Attempts)
}

func TestRunOncePriorityOrder(t *testing.T) {
	low := &entity.Task{ID: 1, TaskType: entity.TaskTypeBackfillStock, Ticker: "ZZZ", Priority: 10, Status: entity.TaskStatusPending}
	high := &entity.Task{ID: 2, TaskType: entity.TaskTypeRefreshStock, Ticker: "ZZZ", Priority: 50, Status: entity.TaskStatusPending}
	repo := newFakeTaskRepository(low, high)
	refresh := &fakeStrategy{taskType: entity.TaskTypeRefreshStock}
	backfill := &fakeStrategy{taskType: entity.TaskTypeBackfillStock}
	svc, _ := newTestWorker(t, repo, refresh, backfill)

	ran, err := svc.RunOnce(context.Background())
	require.NoError(t, err)
	assert.True(t, ran)
	assert.Equal(t, []uint{2}, refresh.executed)
	assert.Empty(t, backfill.executed)
}

func TestRunOnceUnknownTaskType(t *testing.T) {
	task := &entity.Task{ID: 7, TaskType: entity.TaskType("BOGUS"), Status: entity.TaskStatusPending}
	repo := newFakeTaskRepository(task)
	svc, _ := newTestWorker(t, repo)

	ran, err := svc.RunOnce(context.Background())
	require.NoError(t, err)
	assert.True(t, ran)
	assert.Equal(t, entity.TaskStatusError, task.Status)
	assert.Contains(t, repo.failed[7], "unknown task type")
}

func TestRunOnceHandlerFailure(t *testing.T) {
	task := &entity.Task{ID: 3, TaskType: entity.TaskTypeRefreshStock, Ticker: "TSLA", Status: entity.TaskStatusPending}
	repo := newFakeTaskRepository(task)
	failing := &fakeStrategy{taskType: entity.TaskTypeRefreshStock, err: errors.New("pipeline failed: boom")}
	svc, notifier := newTestWorker(t, repo, failing)

	ran, err := svc.RunOnce(context.Background())
	require.NoError(t, err)
	assert.True(t, ran)
	assert.Equal(t, entity.TaskStatusError, task.Status)
	assert.Contains(t, repo.failed[3], "attempt 1/3")
	assert.Contains(t, repo.failed[3], "pipeline failed: boom")
	require.Len(t, notifier.messages, 1)
	assert.Contains(t, notifier.messages[0], "TSLA")
}

func TestRunOnceMaxAttemptsMessage(t *testing.T) {
	task := &entity.Task{ID: 4, TaskType: entity.TaskTypeRefreshStock, Ticker: "TSLA", Attempts: 2, Status: entity.TaskStatusPending}
	repo := newFakeTaskRepository(task)
	failing := &fakeStrategy{taskType: entity.TaskTypeRefreshStock, err: errors.New("boom")}
	svc, _ := newTestWorker(t, repo, failing)

	ran, err := svc.RunOnce(context.Background())
	require.NoError(t, err)
	assert.True(t, ran)
	assert.Contains(t, repo.failed[4], "max attempts reached")
}

func TestRunOnceClaimError(t *testing.T) {
	repo := newFakeTaskRepository()
	repo.claimErr = errors.New("connection refused")
	svc, _ := newTestWorker(t, repo)

	ran, err := svc.RunOnce(context.Background())
	assert.False(t, ran)
	assert.Error(t, err)
}

func TestRunStopsOnContextCancel(t *testing.T) {
	repo := newFakeTaskRepository()
	svc, _ := newTestWorker(t, repo)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		svc.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker loop did not stop after context cancel")
	}
}

var _ telegram.Notifier = (*recordingNotifier)(nil)
