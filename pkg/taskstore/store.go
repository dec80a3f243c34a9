// Package taskstore implements the Task Store contract: persistence,
// filtered/paginated listing, and deep-copy isolation between the stored
// record and whatever the caller does with a returned value.
package taskstore

import "github.com/theapemachine/a2a-go/pkg/a2a"

// Filter selects and paginates a List call. A nil/empty State or
// ContextID means "no filter on this field"; a nil Limit means "all
// remaining" after Offset.
type Filter struct {
	ContextID string
	State     a2a.TaskState
	Offset    int
	Limit     *int
}

// Store is the Task Store contract. Implementations must deep-copy on
// both Create and Get so callers never hold a live reference into the
// backing storage.
type Store interface {
	// Create inserts a new task. Behavior on id collision is undefined.
	Create(task *a2a.Task) error
	// Get returns a deep copy of the stored task, or (nil, nil) if absent.
	Get(taskID string) (*a2a.Task, error)
	// Update applies mutate to the stored record and persists the result.
	// Missing task is a silent no-op (mutate is not called).
	Update(taskID string, mutate func(*a2a.Task)) error
	// List applies Filter, sorts by status timestamp descending, then
	// slices [Offset, Offset+Limit). Returns the page and whether more
	// rows exist past the page (for a tasks/list nextOffset hint).
	List(filter Filter) (tasks []*a2a.Task, hasMore bool, err error)
	// Delete removes a task. Idempotent; missing task is a silent no-op.
	Delete(taskID string) error
}
