// Package pushstore implements the Push Notification Store: webhook
// configurations keyed by task and config id.
package pushstore

import "github.com/theapemachine/a2a-go/pkg/a2a"

// Store is independently synchronized from the Task Store; the Push
// Notification Dispatcher only ever reads it.
type Store interface {
	// Create assigns a new id when config.ID is empty.
	Create(config *a2a.PushNotificationConfig) (*a2a.PushNotificationConfig, error)
	Get(taskID, configID string) (*a2a.PushNotificationConfig, error)
	// List returns every config owned by taskID, in no particular order.
	List(taskID string) ([]*a2a.PushNotificationConfig, error)
	// Delete is idempotent; missing config is a silent no-op.
	Delete(taskID, configID string) error
}
