package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/theapemachine/a2a-go/pkg/a2a"
	"github.com/theapemachine/a2a-go/pkg/jsonrpc"
)

// handleAgentCard serves GET /.well-known/agent.json: the single card when
// exactly one agent is registered, or an array when more than one is.
func (s *Server) handleAgentCard(c fiber.Ctx) error {
	entries := s.Registry.List()
	if len(entries) == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "no agents registered"})
	}
	if len(entries) == 1 {
		return c.JSON(s.signCard(entries[0].Card))
	}

	cards := make([]*a2a.AgentCard, 0, len(entries))
	for _, entry := range entries {
		cards = append(cards, s.signCard(entry.Card))
	}
	return c.JSON(cards)
}

// handleA2A serves POST /a2a: the single JSON-RPC entrypoint for both the
// unary and streaming methods. Content-Type must be application/json
// (otherwise -32005); batch envelopes are rejected with -32600 on the
// unary entrypoint, or a single synthetic failed event on the streaming
// one (detected by Accept, since a batch body has no single method).
func (s *Server) handleA2A(c fiber.Ctx) error {
	if err := s.Validator.Authenticate(authRequest(c)); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	if !strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON) {
		return c.Status(fiber.StatusOK).JSON(jsonrpc.NewErrorResponse(nil, jsonrpc.NewError(a2a.ErrorCodeContentTypeNotSupported, nil)))
	}

	// The streaming-vs-unary decision is made from the Accept header alone,
	// ahead of batch/parse/shape validation: a protocol failure reaching the
	// streaming entrypoint must emit one synthetic failed event over SSE
	// rather than a JSON error body, per §7.
	streamingAccept := strings.Contains(c.Get(fiber.HeaderAccept), "text/event-stream")

	body := bytes.TrimSpace(c.Body())
	if jsonrpc.IsBatch(body) {
		if streamingAccept {
			return s.handleStream(c, &jsonrpc.Request{})
		}
		return c.Status(fiber.StatusOK).JSON(jsonrpc.NewErrorResponse(nil, jsonrpc.ErrInvalidRequest))
	}

	var req jsonrpc.Request
	if err := json.Unmarshal(body, &req); err != nil {
		if streamingAccept {
			return s.handleStream(c, &req)
		}
		return c.Status(fiber.StatusOK).JSON(jsonrpc.NewErrorResponse(nil, jsonrpc.ErrParseError))
	}
	if req.JSONRPC != "2.0" || req.Method == "" {
		if streamingAccept || req.Method == "message/stream" {
			return s.handleStream(c, &req)
		}
		return c.Status(fiber.StatusOK).JSON(jsonrpc.NewErrorResponse(req.ID, jsonrpc.ErrInvalidRequest))
	}

	if req.Method == "message/stream" || streamingAccept {
		return s.handleStream(c, &req)
	}

	result, rpcErr := s.dispatch(c.Context(), &req)
	if rpcErr != nil {
		return c.Status(fiber.StatusOK).JSON(jsonrpc.NewErrorResponse(req.ID, rpcErr))
	}
	return c.Status(fiber.StatusOK).JSON(jsonrpc.NewResult(req.ID, result))
}

// authRequest builds the minimal *http.Request an auth.Validator needs: its
// headers and URL. fiber's Ctx never exposes a net/http.Request directly, so
// the header set is copied across rather than pulling in the full adaptor
// conversion for a single field.
func authRequest(c fiber.Ctx) *http.Request {
	req := &http.Request{
		Method: c.Method(),
		URL:    &url.URL{Path: c.Path()},
		Header: make(http.Header),
	}
	c.Request().Header.VisitAll(func(key, value []byte) {
		req.Header.Add(string(key), string(value))
	})
	return req
}
