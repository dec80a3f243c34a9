// Package taskmanager implements the task state machine: create/continue/
// execute/complete/fail/cancel, the per-task cancellation handle map, and
// the event bus backing the A2A Server's streaming generator and the push
// notification dispatcher.
package taskmanager

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/theapemachine/a2a-go/pkg/a2a"
	"github.com/theapemachine/a2a-go/pkg/jsonrpc"
	"github.com/theapemachine/a2a-go/pkg/runner"
	"github.com/theapemachine/a2a-go/pkg/taskstore"
)

// Manager owns the task state machine, the cancellation-handle map for
// in-flight runs, and the event bus. A task id has at most one live
// cancellation handle at a time — ExecuteTask installs it and removes it
// when the run returns; CancelTask removes it when it fires it.
type Manager struct {
	store taskstore.Store
	bus   *eventBus

	mu      sync.Mutex
	cancels map[string]chan struct{}
}

func New(store taskstore.Store) *Manager {
	return &Manager{
		store:   store,
		bus:     newEventBus(),
		cancels: make(map[string]chan struct{}),
	}
}

// Subscribe exposes the event bus to the server's streaming generator and
// the push notification dispatcher.
func (m *Manager) Subscribe(taskID string) (<-chan a2a.Event, func()) {
	return m.bus.Subscribe(taskID)
}

func notFound() *jsonrpc.Error { return jsonrpc.NewError(a2a.ErrorCodeTaskNotFound, nil) }

// CreateTask starts a new task in the working state, seeded with message
// as its sole history entry. A blank contextID gets a freshly generated one.
func (m *Manager) CreateTask(message a2a.Message, contextID string) (*a2a.Task, error) {
	if contextID == "" {
		contextID = a2a.NewContextID()
	}

	task := a2a.NewTask(contextID, message)
	if err := m.store.Create(task); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	m.bus.Publish(a2a.NewStatusEvent(task.ID, task.Status))
	log.Info("task created", "taskId", task.ID, "contextId", task.ContextID)
	return task, nil
}

// ContinueTask appends message to an existing task's history and
// transitions it back to working. Only permitted from input-required or
// completed; working, canceled and failed all reject continuation.
func (m *Manager) ContinueTask(taskID string, message a2a.Message) (*a2a.Task, error) {
	task, err := m.store.Get(taskID)
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	if task == nil {
		return nil, notFound()
	}

	switch task.Status.State {
	case a2a.TaskStateInputRequired, a2a.TaskStateCompleted:
	default:
		return nil, jsonrpc.NewError(a2a.ErrorCodeTaskNotContinuable, nil)
	}

	var status a2a.TaskStatus
	if err := m.store.Update(taskID, func(t *a2a.Task) {
		t.History = append(t.History, message)
		t.Status = a2a.TaskStatus{State: a2a.TaskStateWorking, Timestamp: time.Now()}
		status = t.Status
	}); err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}

	m.bus.Publish(a2a.NewStatusEvent(taskID, status))
	return m.store.Get(taskID)
}

// ExecuteTask registers a cancellation handle for task.ID, invokes runner
// with the triggering message's joined text parts as input, and resolves
// the run into a CompleteTask, FailTask or CancelTask call. The handle is
// always removed before ExecuteTask returns.
func (m *Manager) ExecuteTask(
	ctx context.Context,
	task *a2a.Task,
	rnr runner.Runner,
	agent *runner.Agent,
	triggeringMessage a2a.Message,
	onToken func(string),
) (*a2a.Task, error) {
	cancelSignal := make(chan struct{})

	m.mu.Lock()
	m.cancels[task.ID] = cancelSignal
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		delete(m.cancels, task.ID)
		m.mu.Unlock()
	}()

	opts := runner.Options{
		Input:        triggeringMessage.Text(),
		CancelSignal: cancelSignal,
		Stream:       onToken != nil,
		OnToken: func(token string) {
			if onToken != nil {
				onToken(token)
			}
			m.bus.Publish(a2a.NewTokenEvent(task.ID, token))
		},
	}

	result, err := rnr.Run(ctx, agent, opts)
	if err != nil {
		if err == runner.ErrCanceled {
			canceled, cancelErr := m.CancelTask(task.ID)
			if cancelErr != nil {
				// An explicit tasks/cancel call may have already raced this
				// run to the canceled state; that is the last-writer-wins
				// outcome §9 documents, not a failure of this run.
				return m.GetTask(task.ID)
			}
			return canceled, nil
		}
		return m.FailTask(task.ID, err.Error())
	}

	return m.CompleteTask(task.ID, result)
}

// CompleteTask builds artifacts from result (a text artifact when Output
// is non-empty, plus a JSON artifact when Structured is a non-nil
// map[string]any; a Structured value of any other type is ignored), appends the
// agent's response to history, and transitions the task to completed.
func (m *Manager) CompleteTask(taskID string, result *runner.Result) (*a2a.Task, error) {
	now := time.Now()
	var newArtifacts []a2a.Artifact

	responseParts := []a2a.Part{}
	if result.Output != "" {
		responseParts = append(responseParts, a2a.NewTextPart(result.Output))
		newArtifacts = append(newArtifacts, a2a.NewTextArtifact(a2a.NewArtifactID(), result.Output))
	}
	if structured, ok := result.Structured.(map[string]any); ok && structured != nil {
		responseParts = append(responseParts, a2a.NewDataPart("application/json", structured))
		newArtifacts = append(newArtifacts, a2a.NewJSONArtifact(a2a.NewArtifactID(), structured))
	}

	status := a2a.TaskStatus{State: a2a.TaskStateCompleted, Timestamp: now}

	if err := m.store.Update(taskID, func(t *a2a.Task) {
		if len(responseParts) > 0 {
			t.History = append(t.History, a2a.Message{Role: a2a.RoleAgent, Parts: responseParts, TaskID: taskID})
		}
		t.Artifacts = append(t.Artifacts, newArtifacts...)
		t.Status = status
	}); err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}

	m.bus.Publish(a2a.NewStatusEvent(taskID, status))
	for _, artifact := range newArtifacts {
		m.bus.Publish(a2a.NewArtifactEvent(taskID, artifact))
	}

	return m.store.Get(taskID)
}

// FailTask transitions taskID to failed, carrying errMessage as the
// status's human message.
func (m *Manager) FailTask(taskID string, errMessage string) (*a2a.Task, error) {
	status := a2a.TaskStatus{
		State:     a2a.TaskStateFailed,
		Timestamp: time.Now(),
		Message:   a2a.NewTextMessage(a2a.RoleAgent, errMessage),
		ErrorDetail: &a2a.ErrorDetail{
			Code:    "runner-failure",
			Message: errMessage,
		},
	}

	if err := m.store.Update(taskID, func(t *a2a.Task) { t.Status = status }); err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}

	m.bus.Publish(a2a.NewStatusEvent(taskID, status))
	log.Info("task failed", "taskId", taskID, "error", errMessage)
	return m.store.Get(taskID)
}

// CancelTask fires the task's cancellation handle (if a run is in flight)
// and transitions it to canceled. Fails with task-not-found or
// task-not-cancelable (already terminal).
func (m *Manager) CancelTask(taskID string) (*a2a.Task, error) {
	task, err := m.store.Get(taskID)
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	if task == nil {
		return nil, notFound()
	}
	if task.Status.State.Terminal() {
		return nil, jsonrpc.NewError(a2a.ErrorCodeTaskNotCancelable, nil)
	}

	m.mu.Lock()
	if sig, ok := m.cancels[taskID]; ok {
		close(sig)
		delete(m.cancels, taskID)
	}
	m.mu.Unlock()

	status := a2a.TaskStatus{State: a2a.TaskStateCanceled, Timestamp: time.Now()}
	if err := m.store.Update(taskID, func(t *a2a.Task) { t.Status = status }); err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}

	m.bus.Publish(a2a.NewStatusEvent(taskID, status))
	return m.store.Get(taskID)
}

// GetTask returns the task or task-not-found.
func (m *Manager) GetTask(taskID string) (*a2a.Task, error) {
	task, err := m.store.Get(taskID)
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	if task == nil {
		return nil, notFound()
	}
	return task, nil
}

// ListTasks delegates to the store's filtered/paginated listing.
func (m *Manager) ListTasks(filter taskstore.Filter) ([]*a2a.Task, bool, error) {
	return m.store.List(filter)
}
