package job

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEnqueuer struct {
	tasks []*asynq.Task
	err   error
}

func (f *fakeEnqueuer) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.tasks = append(f.tasks, task)
	return &asynq.TaskInfo{ID: "task-1", Queue: "low", Type: task.Type()}, nil
}

func newTestService(buf *bytes.Buffer, enq Enqueuer) *JobService {
	logger := zerolog.New(buf)
	return &JobService{enqueuer: enq, logger: &logger}
}

func TestNewRecipeEventTask(t *testing.T) {
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	task, err := NewRecipeEventTask(RecipeEvent{Action: RecipeDeleted, UserID: 7, RecipeIDs: []int{1, 2}, At: at})
	require.NoError(t, err)

	assert.Equal(t, TaskRecipeEvent, task.Type())

	var got RecipeEvent
	require.NoError(t, json.Unmarshal(task.Payload(), &got))
	assert.Equal(t, RecipeDeleted, got.Action)
	assert.Equal(t, []int{1, 2}, got.RecipeIDs)
	assert.True(t, at.Equal(got.At))
}

func TestPublishRecipeEvent(t *testing.T) {
	var buf bytes.Buffer
	enq := &fakeEnqueuer{}
	j := newTestService(&buf, enq)

	err := j.PublishRecipeEvent(context.Background(), RecipeEvent{Action: RecipeCreated, UserID: 7, RecipeIDs: []int{42}})
	require.NoError(t, err)
	require.Len(t, enq.tasks, 1)
	assert.Equal(t, TaskRecipeEvent, enq.tasks[0].Type())
}

func TestPublishRecipeEventEnqueueFailure(t *testing.T) {
	var buf bytes.Buffer
	boom := errors.New("redis down")
	j := newTestService(&buf, &fakeEnqueuer{err: boom})

	err := j.PublishRecipeEvent(context.Background(), RecipeEvent{Action: RecipeCreated})
	assert.ErrorIs(t, err, boom)
}

func TestHandleRecipeEventTask(t *testing.T) {
	var buf bytes.Buffer
	j := newTestService(&buf, nil)

	task, err := NewRecipeEventTask(RecipeEvent{Action: RecipeUpdated, UserID: 7, RecipeIDs: []int{42}})
	require.NoError(t, err)

	require.NoError(t, j.handleRecipeEventTask(context.Background(), task))
	assert.Contains(t, buf.String(), `"action":"updated"`)
	assert.Contains(t, buf.String(), `"user_id":7`)
}

func TestHandleRecipeEventTaskBadPayloadSkipsRetry(t *testing.T) {
	var buf bytes.Buffer
	j := newTestService(&buf, nil)

	err := j.handleRecipeEventTask(context.Background(), asynq.NewTask(TaskRecipeEvent, []byte("{")))
	assert.ErrorIs(t, err, asynq.SkipRetry)
}
