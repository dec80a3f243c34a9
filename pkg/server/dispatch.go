package server

import (
	"context"
	"encoding/json"

	"github.com/theapemachine/a2a-go/pkg/a2a"
	"github.com/theapemachine/a2a-go/pkg/jsonrpc"
	"github.com/theapemachine/a2a-go/pkg/registry"
	"github.com/theapemachine/a2a-go/pkg/taskstore"
)

// dispatch is the flat method-name switch §9 prefers over dynamic
// dispatch tables: params are validated per-method right here, at the
// dispatch boundary.
func (s *Server) dispatch(ctx context.Context, req *jsonrpc.Request) (any, *jsonrpc.Error) {
	switch req.Method {
	case "message/send":
		return s.handleMessageSend(ctx, req.Params)
	case "message/stream":
		return nil, jsonrpc.NewError(a2a.ErrorCodeUnsupportedOperation, nil)
	case "tasks/get":
		return s.handleTasksGet(req.Params)
	case "tasks/cancel":
		return s.handleTasksCancel(req.Params)
	case "tasks/list":
		return s.handleTasksList(req.Params)
	case "tasks/pushNotification/create":
		return s.handlePushCreate(req.Params)
	case "tasks/pushNotification/get":
		return s.handlePushGet(req.Params)
	case "tasks/pushNotification/list":
		return s.handlePushList(req.Params)
	case "tasks/pushNotification/delete":
		return s.handlePushDelete(req.Params)
	case "agent/extendedCard":
		return s.handleExtendedCard(req.Params)
	default:
		return nil, jsonrpc.ErrMethodNotFound
	}
}

// resolveEntry looks up the named agent, or the first registered one when
// name is blank, yielding agent-not-found otherwise.
func (s *Server) resolveEntry(name string) (*registry.Entry, *jsonrpc.Error) {
	entry, ok := s.Registry.Resolve(name)
	if !ok {
		return nil, jsonrpc.NewError(a2a.ErrorCodeAgentNotFound, nil)
	}
	return entry, nil
}

// beginTask implements message/send's continuation rule: a message
// carrying taskId is a continuation, otherwise a new task is created using
// the message's contextId (generated if blank).
func (s *Server) beginTask(message a2a.Message) (*a2a.Task, *jsonrpc.Error) {
	if message.TaskID != "" {
		task, err := s.Manager.ContinueTask(message.TaskID, message)
		if err != nil {
			return nil, asRPCError(err)
		}
		return task, nil
	}

	task, err := s.Manager.CreateTask(message, message.ContextID)
	if err != nil {
		return nil, asRPCError(err)
	}
	return task, nil
}

// handleMessageSend runs message/send to completion and returns the task
// in its terminal state.
func (s *Server) handleMessageSend(ctx context.Context, raw json.RawMessage) (any, *jsonrpc.Error) {
	var params messageParams
	if err := json.Unmarshal(raw, &params); err != nil || len(params.Message.Parts) == 0 {
		return nil, jsonrpc.ErrInvalidParams
	}

	entry, rpcErr := s.resolveEntry(params.AgentName)
	if rpcErr != nil {
		return nil, rpcErr
	}

	task, rpcErr := s.beginTask(params.Message)
	if rpcErr != nil {
		return nil, rpcErr
	}

	task, err := s.execute(ctx, task, entry, params.Message, nil)
	if err != nil {
		return nil, asRPCError(err)
	}
	return task, nil
}

// execute runs a task to completion, starting the push notification
// dispatcher's watch over the same task id alongside the run so webhook
// delivery happens regardless of whether the caller used message/send or
// message/stream. The dispatcher subscribes before ExecuteTask is kicked
// off so it can never lose the race against the run's first publish (the
// Echo runner in particular can complete fast enough for an async
// subscribe to miss the completed/artifact events entirely).
func (s *Server) execute(ctx context.Context, task *a2a.Task, entry *registry.Entry, triggering a2a.Message, onToken func(string)) (*a2a.Task, error) {
	events, unsubscribe := s.Manager.Subscribe(task.ID)
	go s.Dispatcher.Watch(events, unsubscribe, task.ID)
	return s.Manager.ExecuteTask(ctx, task, entry.Runner, entry.Agent, triggering, onToken)
}

func (s *Server) handleTasksGet(raw json.RawMessage) (any, *jsonrpc.Error) {
	var params taskIDParams
	if err := json.Unmarshal(raw, &params); err != nil || params.ID == "" {
		return nil, jsonrpc.ErrInvalidParams
	}
	task, err := s.Manager.GetTask(params.ID)
	if err != nil {
		return nil, asRPCError(err)
	}
	return task, nil
}

func (s *Server) handleTasksCancel(raw json.RawMessage) (any, *jsonrpc.Error) {
	var params taskIDParams
	if err := json.Unmarshal(raw, &params); err != nil || params.ID == "" {
		return nil, jsonrpc.ErrInvalidParams
	}
	task, err := s.Manager.CancelTask(params.ID)
	if err != nil {
		return nil, asRPCError(err)
	}
	return task, nil
}

func (s *Server) handleTasksList(raw json.RawMessage) (any, *jsonrpc.Error) {
	var params tasksListParams
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &params); err != nil {
			return nil, jsonrpc.ErrInvalidParams
		}
	}

	filter := taskstore.Filter{
		ContextID: params.ContextID,
		State:     a2a.TaskState(params.State),
		Offset:    params.Offset,
		Limit:     params.Limit,
	}

	tasks, hasMore, err := s.Manager.ListTasks(filter)
	if err != nil {
		return nil, jsonrpc.NewError(a2a.ErrorCodeInternalError, err.Error())
	}

	result := tasksListResult{Tasks: tasks}
	if hasMore {
		next := params.Offset + len(tasks)
		result.NextOffset = &next
	}
	return result, nil
}

func (s *Server) handlePushCreate(raw json.RawMessage) (any, *jsonrpc.Error) {
	var params pushNotificationCreateParams
	if err := json.Unmarshal(raw, &params); err != nil || params.TaskID == "" {
		return nil, jsonrpc.ErrInvalidParams
	}
	if _, err := s.Manager.GetTask(params.TaskID); err != nil {
		return nil, asRPCError(err)
	}

	params.Config.TaskID = params.TaskID
	stored, err := s.PushStore.Create(&params.Config)
	if err != nil {
		return nil, jsonrpc.NewError(a2a.ErrorCodeInternalError, err.Error())
	}
	return stored, nil
}

func (s *Server) handlePushGet(raw json.RawMessage) (any, *jsonrpc.Error) {
	var params pushNotificationGetParams
	if err := json.Unmarshal(raw, &params); err != nil || params.TaskID == "" || params.ConfigID == "" {
		return nil, jsonrpc.ErrInvalidParams
	}
	config, err := s.PushStore.Get(params.TaskID, params.ConfigID)
	if err != nil {
		return nil, jsonrpc.NewError(a2a.ErrorCodeInternalError, err.Error())
	}
	return config, nil
}

func (s *Server) handlePushList(raw json.RawMessage) (any, *jsonrpc.Error) {
	var params pushNotificationListParams
	if err := json.Unmarshal(raw, &params); err != nil || params.TaskID == "" {
		return nil, jsonrpc.ErrInvalidParams
	}
	configs, err := s.PushStore.List(params.TaskID)
	if err != nil {
		return nil, jsonrpc.NewError(a2a.ErrorCodeInternalError, err.Error())
	}
	return configs, nil
}

func (s *Server) handlePushDelete(raw json.RawMessage) (any, *jsonrpc.Error) {
	var params pushNotificationDeleteParams
	if err := json.Unmarshal(raw, &params); err != nil || params.TaskID == "" || params.ConfigID == "" {
		return nil, jsonrpc.ErrInvalidParams
	}
	if err := s.PushStore.Delete(params.TaskID, params.ConfigID); err != nil {
		return nil, jsonrpc.NewError(a2a.ErrorCodeInternalError, err.Error())
	}
	return map[string]bool{"success": true}, nil
}

func (s *Server) handleExtendedCard(raw json.RawMessage) (any, *jsonrpc.Error) {
	var params agentCardParams
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &params); err != nil {
			return nil, jsonrpc.ErrInvalidParams
		}
	}

	entry, rpcErr := s.resolveEntry(params.AgentName)
	if rpcErr != nil {
		return nil, rpcErr
	}

	card := entry.ExtendedCard
	if card == nil {
		card = entry.Card
	}
	return s.signCard(card), nil
}

// asRPCError unwraps a *jsonrpc.Error returned by the task manager as-is;
// any other error (store failure) becomes an internal error, matching
// §7's "store failures propagate as internal errors."
func asRPCError(err error) *jsonrpc.Error {
	if rpcErr, ok := err.(*jsonrpc.Error); ok {
		return rpcErr
	}
	return jsonrpc.NewError(a2a.ErrorCodeInternalError, err.Error())
}
