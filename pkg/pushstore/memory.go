package pushstore

import (
	"sync"
	"time"

	"github.com/theapemachine/a2a-go/pkg/a2a"
)

// InMemory keys configs by taskID then configID.
type InMemory struct {
	mu      sync.RWMutex
	configs map[string]map[string]*a2a.PushNotificationConfig
}

func NewInMemory() *InMemory {
	return &InMemory{configs: make(map[string]map[string]*a2a.PushNotificationConfig)}
}

func (s *InMemory) Create(config *a2a.PushNotificationConfig) (*a2a.PushNotificationConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if config.ID == "" {
		config.ID = a2a.NewPushConfigID()
	}
	if config.CreatedAt.IsZero() {
		config.CreatedAt = time.Now()
	}

	byTask, ok := s.configs[config.TaskID]
	if !ok {
		byTask = make(map[string]*a2a.PushNotificationConfig)
		s.configs[config.TaskID] = byTask
	}
	cp := *config
	byTask[config.ID] = &cp
	return &cp, nil
}

func (s *InMemory) Get(taskID, configID string) (*a2a.PushNotificationConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	byTask, ok := s.configs[taskID]
	if !ok {
		return nil, nil
	}
	cfg, ok := byTask[configID]
	if !ok {
		return nil, nil
	}
	cp := *cfg
	return &cp, nil
}

func (s *InMemory) List(taskID string) ([]*a2a.PushNotificationConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	byTask, ok := s.configs[taskID]
	if !ok {
		return []*a2a.PushNotificationConfig{}, nil
	}
	out := make([]*a2a.PushNotificationConfig, 0, len(byTask))
	for _, cfg := range byTask {
		cp := *cfg
		out = append(out, &cp)
	}
	return out, nil
}

func (s *InMemory) Delete(taskID, configID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if byTask, ok := s.configs[taskID]; ok {
		delete(byTask, configID)
	}
	return nil
}
