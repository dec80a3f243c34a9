package taskstore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/theapemachine/a2a-go/pkg/a2a"
)

func newTask(id, contextID string, state a2a.TaskState, ts time.Time) *a2a.Task {
	return &a2a.Task{
		ID:        id,
		ContextID: contextID,
		Status:    a2a.TaskStatus{State: state, Timestamp: ts},
	}
}

func TestInMemoryCreateGetDeepCopies(t *testing.T) {
	s := NewInMemory()
	task := newTask("t1", "c1", a2a.TaskStateWorking, time.Now())
	require.NoError(t, s.Create(task))

	task.Status.State = a2a.TaskStateCompleted // mutate the caller's copy
	got, err := s.Get("t1")
	require.NoError(t, err)
	assert.Equal(t, a2a.TaskStateWorking, got.Status.State, "store must not alias the caller's task")

	got.Status.State = a2a.TaskStateFailed // mutate the returned copy
	got2, err := s.Get("t1")
	require.NoError(t, err)
	assert.Equal(t, a2a.TaskStateWorking, got2.Status.State, "Get must not return a live reference")
}

func TestInMemoryGetMissingReturnsNilNil(t *testing.T) {
	s := NewInMemory()
	got, err := s.Get("missing")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestInMemoryUpdateMutatesStoredRecord(t *testing.T) {
	s := NewInMemory()
	require.NoError(t, s.Create(newTask("t1", "c1", a2a.TaskStateWorking, time.Now())))

	require.NoError(t, s.Update("t1", func(task *a2a.Task) {
		task.Status.State = a2a.TaskStateCompleted
	}))

	got, err := s.Get("t1")
	require.NoError(t, err)
	assert.Equal(t, a2a.TaskStateCompleted, got.Status.State)
}

func TestInMemoryUpdateMissingIsNoop(t *testing.T) {
	s := NewInMemory()
	assert.NoError(t, s.Update("missing", func(task *a2a.Task) { t.Fatal("must not be called") }))
}

func TestInMemoryListFiltersSortsAndPaginates(t *testing.T) {
	s := NewInMemory()
	base := time.Now()
	require.NoError(t, s.Create(newTask("a", "ctx", a2a.TaskStateWorking, base)))
	require.NoError(t, s.Create(newTask("b", "ctx", a2a.TaskStateWorking, base.Add(time.Second))))
	require.NoError(t, s.Create(newTask("c", "other", a2a.TaskStateWorking, base.Add(2*time.Second))))

	tasks, hasMore, err := s.List(Filter{ContextID: "ctx"})
	require.NoError(t, err)
	assert.False(t, hasMore)
	require.Len(t, tasks, 2)
	assert.Equal(t, "b", tasks[0].ID, "newest status timestamp sorts first")
	assert.Equal(t, "a", tasks[1].ID)

	limit := 1
	page, hasMore, err := s.List(Filter{ContextID: "ctx", Limit: &limit})
	require.NoError(t, err)
	assert.True(t, hasMore)
	require.Len(t, page, 1)
	assert.Equal(t, "b", page[0].ID)
}

func TestInMemoryDeleteIsIdempotent(t *testing.T) {
	s := NewInMemory()
	require.NoError(t, s.Create(newTask("t1", "c1", a2a.TaskStateWorking, time.Now())))
	require.NoError(t, s.Delete("t1"))
	require.NoError(t, s.Delete("t1"))

	got, err := s.Get("t1")
	require.NoError(t, err)
	assert.Nil(t, got)
}
