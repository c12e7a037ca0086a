// Package boardsync keeps a client's local view of a shared kanban
// board consistent with its own optimistic edits, the authoritative
// backend, and edits other participants push over the realtime channel.
// It has no process surface of its own: the host UI drives it through
// gesture callbacks and re-renders on its change signal.
package boardsync

import (
	"context"
	"fmt"

	"github.com/spec-kit/board-sync/internal/api"
	"github.com/spec-kit/board-sync/internal/config"
	"github.com/spec-kit/board-sync/internal/events"
	"github.com/spec-kit/board-sync/internal/gesture"
	"github.com/spec-kit/board-sync/internal/observability"
	"github.com/spec-kit/board-sync/internal/realtime"
	"github.com/spec-kit/board-sync/internal/reconcile"
	"github.com/spec-kit/board-sync/internal/session"
)

// Client bundles the engine and its collaborators for one login.
type Client struct {
	Session     *session.Session
	API         *api.Client
	Engine      *reconcile.Engine
	Interpreter *gesture.Interpreter
	Dispatcher  events.Dispatcher
	Channel     realtime.Channel
	Metrics     *observability.Metrics
}

// New wires a board client from env configuration and a bearer token.
// Teardown is bound to the session: closing it stops the engine and the
// realtime channel.
func New(ctx context.Context, token string) (*Client, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	sess, err := session.New(token)
	if err != nil {
		return nil, fmt.Errorf("init session: %w", err)
	}

	apiClient := api.NewClient(cfg.API, sess)
	channel := realtime.NewRedisChannel(cfg.Redis, logger)
	dispatcher := events.NewInMemoryDispatcher()
	metrics := observability.NewMetrics()

	engine := reconcile.NewEngine(reconcile.Dependencies{
		Backend:    apiClient,
		Channel:    channel,
		Dispatcher: dispatcher,
		Logger:     logger,
		Metrics:    metrics,
	})
	engine.Start(ctx)

	sess.OnClose(func() { _ = channel.Close() })
	sess.OnClose(engine.Stop)

	return &Client{
		Session:     sess,
		API:         apiClient,
		Engine:      engine,
		Interpreter: gesture.NewInterpreter(logger),
		Dispatcher:  dispatcher,
		Channel:     channel,
		Metrics:     metrics,
	}, nil
}

// HandleDrag interprets a completed drag gesture and applies the
// resulting intent, if any.
func (c *Client) HandleDrag(g gesture.Gesture) {
	if intent, ok := c.Interpreter.Interpret(g); ok {
		c.Engine.Apply(intent)
	}
}
