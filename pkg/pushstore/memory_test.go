package pushstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/theapemachine/a2a-go/pkg/a2a"
)

func TestInMemoryCreateAssignsIDAndTimestamp(t *testing.T) {
	s := NewInMemory()

	cfg, err := s.Create(&a2a.PushNotificationConfig{TaskID: "t1", WebhookURL: "https://example.com/hook"})
	require.NoError(t, err)

	assert.NotEmpty(t, cfg.ID)
	assert.False(t, cfg.CreatedAt.IsZero())
}

func TestInMemoryCreateKeepsCallerSuppliedID(t *testing.T) {
	s := NewInMemory()

	cfg, err := s.Create(&a2a.PushNotificationConfig{ID: "explicit", TaskID: "t1", WebhookURL: "https://example.com/hook"})
	require.NoError(t, err)

	assert.Equal(t, "explicit", cfg.ID)
}

func TestInMemoryCreateGetDeepCopies(t *testing.T) {
	s := NewInMemory()
	in := &a2a.PushNotificationConfig{ID: "cfg1", TaskID: "t1", WebhookURL: "https://example.com/hook"}

	created, err := s.Create(in)
	require.NoError(t, err)

	in.WebhookURL = "https://attacker.example.com" // mutate the caller's copy
	got, err := s.Get("t1", "cfg1")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/hook", got.WebhookURL, "store must not alias the caller's config")

	got.WebhookURL = "https://also-mutated.example.com" // mutate the returned copy
	got2, err := s.Get("t1", "cfg1")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/hook", got2.WebhookURL, "Get must not return a live reference")

	assert.Equal(t, "cfg1", created.ID)
}

func TestInMemoryGetMissingTaskOrConfigReturnsNilNil(t *testing.T) {
	s := NewInMemory()

	got, err := s.Get("missing-task", "missing-cfg")
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = s.Create(&a2a.PushNotificationConfig{ID: "cfg1", TaskID: "t1", WebhookURL: "https://example.com/hook"})
	require.NoError(t, err)

	got, err = s.Get("t1", "missing-cfg")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestInMemoryListReturnsAllConfigsForTask(t *testing.T) {
	s := NewInMemory()
	_, err := s.Create(&a2a.PushNotificationConfig{ID: "cfg1", TaskID: "t1", WebhookURL: "https://example.com/a"})
	require.NoError(t, err)
	_, err = s.Create(&a2a.PushNotificationConfig{ID: "cfg2", TaskID: "t1", WebhookURL: "https://example.com/b"})
	require.NoError(t, err)
	_, err = s.Create(&a2a.PushNotificationConfig{ID: "cfg3", TaskID: "t2", WebhookURL: "https://example.com/c"})
	require.NoError(t, err)

	list, err := s.List("t1")
	require.NoError(t, err)
	assert.Len(t, list, 2)

	list, err = s.List("unknown")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestInMemoryDeleteIsIdempotent(t *testing.T) {
	s := NewInMemory()
	_, err := s.Create(&a2a.PushNotificationConfig{ID: "cfg1", TaskID: "t1", WebhookURL: "https://example.com/hook"})
	require.NoError(t, err)

	require.NoError(t, s.Delete("t1", "cfg1"))
	require.NoError(t, s.Delete("t1", "cfg1"))
	require.NoError(t, s.Delete("missing-task", "missing-cfg"))

	got, err := s.Get("t1", "cfg1")
	require.NoError(t, err)
	assert.Nil(t, got)
}
