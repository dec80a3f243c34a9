package taskstore

import (
	"sort"
	"sync"

	"github.com/theapemachine/a2a-go/pkg/a2a"
)

// InMemory is the default Store: a mutex-guarded map from task id to
// task. Every Create/Get/List deep-copies across the store boundary.
type InMemory struct {
	mu    sync.RWMutex
	tasks map[string]*a2a.Task
}

func NewInMemory() *InMemory {
	return &InMemory{tasks: make(map[string]*a2a.Task)}
}

func (s *InMemory) Create(task *a2a.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks[task.ID] = task.DeepCopy()
	return nil
}

func (s *InMemory) Get(taskID string) (*a2a.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tasks[taskID]
	if !ok {
		return nil, nil
	}
	return t.DeepCopy(), nil
}

func (s *InMemory) Update(taskID string, mutate func(*a2a.Task)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[taskID]
	if !ok {
		return nil
	}
	mutate(t)
	return nil
}

func (s *InMemory) List(filter Filter) ([]*a2a.Task, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]*a2a.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if filter.ContextID != "" && t.ContextID != filter.ContextID {
			continue
		}
		if filter.State != "" && t.Status.State != filter.State {
			continue
		}
		matched = append(matched, t)
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].Status.Timestamp.After(matched[j].Status.Timestamp)
	})

	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	if offset >= len(matched) {
		return []*a2a.Task{}, false, nil
	}

	end := len(matched)
	if filter.Limit != nil && offset+*filter.Limit < end {
		end = offset + *filter.Limit
	}

	page := matched[offset:end]
	out := make([]*a2a.Task, len(page))
	for i, t := range page {
		out[i] = t.DeepCopy()
	}

	return out, end < len(matched), nil
}

func (s *InMemory) Delete(taskID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tasks, taskID)
	return nil
}
