package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/theapemachine/a2a-go/pkg/a2a"
	"github.com/theapemachine/a2a-go/pkg/auth"
	"github.com/theapemachine/a2a-go/pkg/jsonrpc"
	"github.com/theapemachine/a2a-go/pkg/pushstore"
	"github.com/theapemachine/a2a-go/pkg/registry"
	"github.com/theapemachine/a2a-go/pkg/runner"
	"github.com/theapemachine/a2a-go/pkg/taskmanager"
	"github.com/theapemachine/a2a-go/pkg/taskstore"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	reg := registry.New()
	reg.Register(&registry.Entry{
		Card:   &a2a.AgentCard{Name: "echo", URL: "http://test", Skills: []a2a.AgentSkill{{ID: "echo", Name: "echo"}}},
		Runner: runner.NewEcho(),
		Agent:  &runner.Agent{Name: "echo"},
	})
	return New(taskmanager.New(taskstore.NewInMemory()), reg, pushstore.NewInMemory(), "")
}

func doRPC(t *testing.T, srv *Server, method string, params any) jsonrpc.Response {
	t.Helper()
	req := jsonrpc.Request{JSONRPC: "2.0", ID: json.RawMessage(`1`), Method: method}
	if params != nil {
		raw, err := json.Marshal(params)
		require.NoError(t, err)
		req.Params = raw
	}
	body, err := json.Marshal(req)
	require.NoError(t, err)

	httpReq, err := http.NewRequest(http.MethodPost, "/a2a", bytes.NewReader(body))
	require.NoError(t, err)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := srv.app.Test(httpReq)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var out jsonrpc.Response
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func TestMessageSendRunsEchoToCompletion(t *testing.T) {
	srv := newTestServer(t)

	resp := doRPC(t, srv, "message/send", messageParams{
		Message: *a2a.NewTextMessage(a2a.RoleUser, "hello"),
	})

	require.Nil(t, resp.Error)
	raw, err := json.Marshal(resp.Result)
	require.NoError(t, err)

	var task a2a.Task
	require.NoError(t, json.Unmarshal(raw, &task))
	assert.Equal(t, a2a.TaskStateCompleted, task.Status.State)
}

func TestTasksGetUnknownIDReturnsDomainError(t *testing.T) {
	srv := newTestServer(t)

	resp := doRPC(t, srv, "tasks/get", taskIDParams{ID: "does-not-exist"})

	require.NotNil(t, resp.Error)
	assert.Equal(t, a2a.ErrorCodeTaskNotFound, resp.Error.Code)
}

func TestUnknownMethodReturnsMethodNotFound(t *testing.T) {
	srv := newTestServer(t)

	resp := doRPC(t, srv, "bogus/method", nil)

	require.NotNil(t, resp.Error)
	assert.Equal(t, jsonrpc.ErrMethodNotFound.Code, resp.Error.Code)
}

func TestAuthenticationRejectsMissingCredential(t *testing.T) {
	srv := newTestServer(t)
	srv.Validator = auth.NewJWTValidator("secret")

	req := jsonrpc.Request{JSONRPC: "2.0", ID: json.RawMessage(`1`), Method: "tasks/get"}
	body, err := json.Marshal(req)
	require.NoError(t, err)

	httpReq, err := http.NewRequest(http.MethodPost, "/a2a", bytes.NewReader(body))
	require.NoError(t, err)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := srv.app.Test(httpReq)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestMessageStreamEmitsTokenEvents(t *testing.T) {
	srv := newTestServer(t)

	req := jsonrpc.Request{JSONRPC: "2.0", ID: json.RawMessage(`1`), Method: "message/stream"}
	params := messageParams{Message: *a2a.NewTextMessage(a2a.RoleUser, "hello")}
	raw, err := json.Marshal(params)
	require.NoError(t, err)
	req.Params = raw

	body, err := json.Marshal(req)
	require.NoError(t, err)

	httpReq, err := http.NewRequest(http.MethodPost, "/a2a", bytes.NewReader(body))
	require.NoError(t, err)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")

	resp, err := srv.app.Test(httpReq)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err = io.ReadAll(resp.Body)
	require.NoError(t, err)

	// The Echo runner streams its reply back as tokens; ExecuteTask only
	// sets runner.Options.Stream when streamMessage hands it a non-nil
	// onToken, which is what actually makes these appear on the wire.
	assert.Contains(t, string(raw), `"type":"token"`)
	assert.Contains(t, string(raw), "data: [DONE]")
}

func TestBatchOnStreamingEntrypointEmitsSyntheticFailedEvent(t *testing.T) {
	srv := newTestServer(t)

	httpReq, err := http.NewRequest(http.MethodPost, "/a2a", bytes.NewReader([]byte(`[{"jsonrpc":"2.0","method":"tasks/get"}]`)))
	require.NoError(t, err)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")

	resp, err := srv.app.Test(httpReq)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Contains(t, string(raw), `"state":"failed"`)
	assert.Contains(t, string(raw), "data: [DONE]")
}

func TestBatchOnUnaryEntrypointStillReturnsJSONError(t *testing.T) {
	srv := newTestServer(t)

	httpReq, err := http.NewRequest(http.MethodPost, "/a2a", bytes.NewReader([]byte(`[{"jsonrpc":"2.0","method":"tasks/get"}]`)))
	require.NoError(t, err)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := srv.app.Test(httpReq)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var out jsonrpc.Response
	require.NoError(t, json.Unmarshal(raw, &out))
	require.NotNil(t, out.Error)
	assert.Equal(t, a2a.ErrorCodeInvalidRequest, out.Error.Code)
}

func TestMessageSendDeliversPushNotificationsDespiteFastRunner(t *testing.T) {
	srv := newTestServer(t)

	received := make(chan struct{}, 4)
	hook := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		received <- struct{}{}
		w.WriteHeader(http.StatusOK)
	}))
	defer hook.Close()

	first := doRPC(t, srv, "message/send", messageParams{Message: *a2a.NewTextMessage(a2a.RoleUser, "hello")})
	require.Nil(t, first.Error)
	raw, err := json.Marshal(first.Result)
	require.NoError(t, err)
	var task a2a.Task
	require.NoError(t, json.Unmarshal(raw, &task))
	require.Equal(t, a2a.TaskStateCompleted, task.Status.State)

	createResp := doRPC(t, srv, "tasks/pushNotification/create", pushNotificationCreateParams{
		TaskID: task.ID,
		Config: a2a.PushNotificationConfig{WebhookURL: hook.URL},
	})
	require.Nil(t, createResp.Error)

	// Continuation is permitted from completed; the Echo runner resolves
	// fast enough that an async dispatcher subscribe could previously miss
	// this run's events entirely.
	continued := doRPC(t, srv, "message/send", messageParams{
		Message: a2a.Message{Role: a2a.RoleUser, TaskID: task.ID, Parts: []a2a.Part{a2a.NewTextPart("again")}},
	})
	require.Nil(t, continued.Error)

	select {
	case <-received:
	case <-time.After(2 * time.Second):
		t.Fatal("webhook never received a delivery for the continued run")
	}
}

func TestAgentCardEndpointServesRegisteredAgent(t *testing.T) {
	srv := newTestServer(t)

	httpReq, err := http.NewRequest(http.MethodGet, "/.well-known/agent.json", nil)
	require.NoError(t, err)

	resp, err := srv.app.Test(httpReq)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var card a2a.AgentCard
	require.NoError(t, json.Unmarshal(raw, &card))
	assert.Equal(t, "echo", card.Name)
}
