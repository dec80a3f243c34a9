package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gofiber/fiber/v3"
	fiberadaptor "github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/theapemachine/a2a-go/pkg/a2a"
	"github.com/theapemachine/a2a-go/pkg/jsonrpc"
	"github.com/theapemachine/a2a-go/pkg/metrics"
)

// handleStream adapts the net/http-shaped SSE writer into fiber, the way
// the teacher's broker.Subscribe is mounted via fiberadaptor.HTTPHandler.
func (s *Server) handleStream(c fiber.Ctx, req *jsonrpc.Request) error {
	handler := func(w http.ResponseWriter, r *http.Request) {
		s.streamMessage(r.Context(), w, req)
	}
	return fiberadaptor.HTTPHandler(http.HandlerFunc(handler))(c)
}

// streamMessage implements message/stream's generator: a synthetic initial
// status-update, then the task's bus events (including synthesized token
// events) in arrival order, terminating after the first terminal
// status-update. Protocol failures short-circuit into a single synthetic
// failed status-update per §7, never a JSON-RPC error envelope.
func (s *Server) streamMessage(ctx context.Context, w http.ResponseWriter, req *jsonrpc.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	closeStream := metrics.StreamOpened()
	defer closeStream()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	write := func(event a2a.Event) {
		body, err := json.Marshal(event)
		if err != nil {
			log.Error("stream: marshal event failed", "error", err)
			return
		}
		_, _ = w.Write([]byte("data: "))
		_, _ = w.Write(body)
		_, _ = w.Write([]byte("\n\n"))
		flusher.Flush()
		metrics.EventWritten()
	}
	terminate := func() {
		_, _ = w.Write([]byte("data: [DONE]\n\n"))
		flusher.Flush()
	}
	fail := func() {
		write(a2a.NewStatusEvent("", a2a.TaskStatus{State: a2a.TaskStateFailed, Timestamp: time.Now()}))
		terminate()
	}

	if req.Method != "message/stream" {
		fail()
		return
	}

	var params messageParams
	if err := json.Unmarshal(req.Params, &params); err != nil || len(params.Message.Parts) == 0 {
		fail()
		return
	}

	entry, rpcErr := s.resolveEntry(params.AgentName)
	if rpcErr != nil {
		fail()
		return
	}

	task, rpcErr := s.beginTask(params.Message)
	if rpcErr != nil {
		fail()
		return
	}

	events, unsubscribe := s.Manager.Subscribe(task.ID)
	defer unsubscribe()

	write(a2a.NewStatusEvent(task.ID, task.Status))

	go func() {
		// A non-nil callback is required even though this handler reads
		// tokens off the bus rather than through it directly: ExecuteTask
		// only sets runner.Options.Stream when onToken != nil, and the
		// runners themselves gate token emission on opts.Stream.
		if _, err := s.execute(ctx, task, entry, params.Message, func(string) {}); err != nil {
			log.Error("stream: execute task failed", "taskId", task.ID, "error", err)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				terminate()
				return
			}
			write(event)
			if event.Terminal() {
				terminate()
				return
			}
		}
	}
}
