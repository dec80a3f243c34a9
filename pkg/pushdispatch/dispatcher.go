// Package pushdispatch implements the Push Notification Dispatcher: an
// independent subscriber of the task manager's event bus that mirrors
// status/artifact events (never token events) to every webhook registered
// for the event's task, fire-and-forget.
package pushdispatch

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/theapemachine/a2a-go/pkg/a2a"
	"github.com/theapemachine/a2a-go/pkg/pushstore"
)

// deliveryTimeout is the fixed per-delivery deadline; §4.3 and §5 both
// specify 10 seconds.
const deliveryTimeout = 10 * time.Second

// Dispatcher fans events out to webhooks. It has no retry queue and no
// backoff: delivery failures are swallowed, matching the spec's "webhooks
// are best-effort" rationale.
type Dispatcher struct {
	store  pushstore.Store
	client *http.Client
}

func New(store pushstore.Store) *Dispatcher {
	return &Dispatcher{store: store, client: http.DefaultClient}
}

// Watch dispatches every status-update and artifact-update (never token)
// arriving on events to taskID's registered webhooks, until events closes
// or a terminal event is observed. events/unsubscribe must come from a
// subscription already established by the caller — before the run that
// will publish to it starts — so the dispatcher never races the run's
// first publish; call this as its own goroutine per executing task.
func (d *Dispatcher) Watch(events <-chan a2a.Event, unsubscribe func(), taskID string) {
	defer unsubscribe()

	for event := range events {
		if event.Type == a2a.EventToken {
			continue
		}
		d.deliver(taskID, event)
		if event.Terminal() {
			return
		}
	}
}

func (d *Dispatcher) deliver(taskID string, event a2a.Event) {
	configs, err := d.store.List(taskID)
	if err != nil || len(configs) == 0 {
		return
	}

	body, err := json.Marshal(event)
	if err != nil {
		log.Error("push dispatcher: marshal event failed", "taskId", taskID, "error", err)
		return
	}

	for _, cfg := range configs {
		go d.post(cfg, body)
	}
}

func (d *Dispatcher) post(cfg *a2a.PushNotificationConfig, body []byte) {
	ctx, cancel := context.WithTimeout(context.Background(), deliveryTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cfg.WebhookURL, bytes.NewReader(body))
	if err != nil {
		log.Error("push dispatcher: build request failed", "webhook", cfg.WebhookURL, "error", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")
	applyAuth(req, cfg.AuthenticationInfo)

	resp, err := d.client.Do(req)
	if err != nil {
		log.Debug("push dispatcher: delivery failed", "webhook", cfg.WebhookURL, "error", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Debug("push dispatcher: webhook returned non-2xx", "webhook", cfg.WebhookURL, "status", resp.StatusCode)
	}
}

func applyAuth(req *http.Request, auth *a2a.AuthenticationInfo) {
	if auth == nil {
		return
	}

	switch auth.Scheme {
	case a2a.AuthSchemeBearer:
		req.Header.Set("Authorization", "Bearer "+auth.Token)
	case a2a.AuthSchemeBasic:
		credentials := base64.StdEncoding.EncodeToString([]byte(auth.Username + ":" + auth.Password))
		req.Header.Set("Authorization", "Basic "+credentials)
	case a2a.AuthSchemeAPIKey:
		header := auth.HeaderName
		if header == "" {
			header = "X-API-Key"
		}
		req.Header.Set(header, auth.Key)
	}
}
