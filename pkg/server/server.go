// Package server implements the A2A Server: JSON-RPC dispatch over HTTP,
// SSE streaming, the agent card endpoint, and the domain-error-to-JSON-RPC
// translation boundary. It depends only on the taskmanager.Manager,
// registry.AgentRegistry, pushstore.Store and pushdispatch.Dispatcher
// contracts, never reaching into storage or runner internals directly.
package server

import (
	"github.com/charmbracelet/log"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/theapemachine/a2a-go/pkg/a2a"
	"github.com/theapemachine/a2a-go/pkg/auth"
	"github.com/theapemachine/a2a-go/pkg/cardsign"
	"github.com/theapemachine/a2a-go/pkg/pushdispatch"
	"github.com/theapemachine/a2a-go/pkg/pushstore"
	"github.com/theapemachine/a2a-go/pkg/registry"
	"github.com/theapemachine/a2a-go/pkg/taskmanager"
)

// Server bundles the task manager, agent registry, push notification store
// and dispatcher behind a fiber app exposing the A2A HTTP surface.
type Server struct {
	Manager    *taskmanager.Manager
	Registry   *registry.AgentRegistry
	PushStore  pushstore.Store
	Dispatcher *pushdispatch.Dispatcher

	// Validator authenticates every request reaching /a2a, ahead of
	// JSON-RPC parsing. Defaults to auth.Noop{} when unset.
	Validator auth.Validator

	// SigningSecret, when non-empty, is used to sign every AgentCard
	// served by GET /.well-known/agent.json and agent/extendedCard.
	SigningSecret string

	app *fiber.App
}

// New constructs a Server and mounts its routes on a fresh fiber app. The
// caller-auth validator defaults to auth.Noop{} and can be overridden via
// the Validator field before Listen is called.
func New(manager *taskmanager.Manager, reg *registry.AgentRegistry, pushStore pushstore.Store, signingSecret string) *Server {
	srv := &Server{
		Manager:       manager,
		Registry:      reg,
		PushStore:     pushStore,
		Dispatcher:    pushdispatch.New(pushStore),
		Validator:     auth.Noop{},
		SigningSecret: signingSecret,
		app: fiber.New(fiber.Config{
			AppName:           "a2a-go",
			ServerHeader:      "a2a-go",
			StreamRequestBody: true,
		}),
	}

	srv.app.Use(logger.New(logger.Config{
		Next: func(c fiber.Ctx) bool {
			return c.Path() == "/a2a" && c.Get(fiber.HeaderAccept) == "text/event-stream"
		},
	}))

	srv.app.Get("/.well-known/agent.json", srv.handleAgentCard)
	srv.app.Post("/a2a", srv.handleA2A)

	return srv
}

// Listen starts serving on addr, blocking until the app is shut down.
func (s *Server) Listen(addr string) error {
	log.Info("a2a server listening", "addr", addr)
	return s.app.Listen(addr, fiber.ListenConfig{DisableStartupMessage: true})
}

// Shutdown gracefully stops the underlying fiber app.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// signCard signs a copy of card in place when a signing secret is
// configured, leaving the registry's stored card untouched (it is
// immutable after construction per §3).
func (s *Server) signCard(card *a2a.AgentCard) *a2a.AgentCard {
	if s.SigningSecret == "" || card == nil {
		return card
	}
	cp := *card
	sig, err := cardsign.Sign(&cp, s.SigningSecret)
	if err != nil {
		log.Error("sign agent card failed", "error", err)
		return card
	}
	cp.Signature = &sig
	return &cp
}
