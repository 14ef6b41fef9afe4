package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mcoot/wagerpong/internal/dependencies/clock"
	"github.com/mcoot/wagerpong/internal/dependencies/random"
	"github.com/mcoot/wagerpong/internal/model"
	"github.com/mcoot/wagerpong/internal/services/matchmaking"
	"github.com/mcoot/wagerpong/internal/services/simulation"
	"github.com/mcoot/wagerpong/internal/session"
)

const (
	commandBuffer = 256
	resultBuffer  = 64
)

// Notifier delivers notifications to client connections. Delivery must not block.
type Notifier interface {
	Notify(n model.Notification)
}

// Engine owns the session store and serializes every client command and
// simulation tick through a single worker goroutine
type Engine struct {
	store    *session.Store
	handler  *matchmaking.Handler
	cfg      model.GameConfig
	random   random.Random
	notifier Notifier
	logger   *slog.Logger

	commands chan Command
	results  chan model.MatchResult
}

// New creates a new Engine with an empty session store
func New(cfg model.GameConfig, notifier Notifier, clock clock.Clock, random random.Random, logger *slog.Logger) *Engine {
	store := session.New(cfg, clock)
	return &Engine{
		store:    store,
		handler:  matchmaking.NewHandler(store, cfg, clock, logger),
		cfg:      cfg,
		random:   random,
		notifier: notifier,
		logger:   logger.With(slog.String("component", "engine")),
		commands: make(chan Command, commandBuffer),
		results:  make(chan model.MatchResult, resultBuffer),
	}
}

// Results returns the channel on which finished and abandoned matches are published
func (e *Engine) Results() <-chan model.MatchResult {
	return e.results
}

// Run processes commands and ticks until ctx is cancelled. Commands still
// queued at that point are applied before it returns.
func (e *Engine) Run(ctx context.Context) error {
	ticker := time.NewTicker(e.cfg.TickInterval)
	defer ticker.Stop()

	e.logger.Info("engine started", slog.Duration("tick_interval", e.cfg.TickInterval))

	for {
		select {
		case <-ctx.Done():
			e.flush()
			e.logger.Info("engine stopped")
			return nil
		case cmd := <-e.commands:
			e.Apply(cmd)
		case <-ticker.C:
			e.Tick()
		}
	}
}

// flush applies the commands already queued when the engine is stopped
func (e *Engine) flush() {
	for {
		select {
		case cmd := <-e.commands:
			e.Apply(cmd)
		default:
			return
		}
	}
}

// Submit queues a command for the worker
func (e *Engine) Submit(ctx context.Context, cmd Command) error {
	select {
	case e.commands <- cmd:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Roster returns the registered players as seen by the worker
func (e *Engine) Roster(ctx context.Context) ([]model.PlayerSummary, error) {
	reply := make(chan []model.PlayerSummary, 1)
	if err := e.Submit(ctx, rosterQuery{reply: reply}); err != nil {
		return nil, err
	}
	select {
	case roster := <-reply:
		return roster, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Stats returns session store counts as seen by the worker
func (e *Engine) Stats(ctx context.Context) (model.Stats, error) {
	reply := make(chan model.Stats, 1)
	if err := e.Submit(ctx, statsQuery{reply: reply}); err != nil {
		return model.Stats{}, err
	}
	select {
	case stats := <-reply:
		return stats, nil
	case <-ctx.Done():
		return model.Stats{}, ctx.Err()
	}
}

// Apply runs a single command to completion.
// Only the worker, or a test driving the engine without Run, may call it.
func (e *Engine) Apply(cmd Command) {
	var (
		conn    model.ConnID
		effects matchmaking.Effects
		err     error
	)

	switch c := cmd.(type) {
	case Register:
		conn = c.Conn
		effects, err = e.handler.Register(c.Conn, c.ID, c.Balance, c.Guest)
	case Unregister:
		conn = c.Conn
		effects = e.handler.Unregister(c.Conn)
	case Invite:
		conn = c.Conn
		effects, err = e.handler.Invite(c.Conn, c.Target, c.Bet, c.Rounds)
	case Accept:
		conn = c.Conn
		effects, err = e.handler.Accept(c.Conn, c.Host)
	case Move:
		conn = c.Conn
		err = e.handler.Move(c.Conn, c.Delta)
	case Leave:
		conn = c.Conn
		effects, err = e.handler.Leave(c.Conn)
	case Disconnect:
		conn = c.Conn
		effects = e.handler.Disconnect(c.Conn)
	case rosterQuery:
		c.reply <- e.handler.Roster()
		return
	case statsQuery:
		c.reply <- e.store.Stats()
		return
	default:
		e.logger.Error("unknown command", slog.String("type", fmt.Sprintf("%T", cmd)))
		return
	}

	if err != nil {
		e.logger.Debug("command rejected",
			slog.String("conn_id", string(conn)),
			slog.String("command", fmt.Sprintf("%T", cmd)),
			slog.String("error", err.Error()),
		)
		e.notifier.Notify(model.Notification{
			To:      conn,
			Event:   model.EventError,
			Payload: model.ErrorPayload{Message: err.Error()},
		})
		return
	}
	e.deliver(effects)
}

// Tick advances every active game by one step and sends each participant its
// projection. Only the worker, or a test driving the engine without Run, may
// call it.
func (e *Engine) Tick() {
	for _, game := range e.store.ActiveGames() {
		host, joiner := e.store.Participants(game)
		if simulation.Step(game, host.State, joiner.State, e.cfg, e.random) {
			e.logger.Info("game finished",
				slog.String("game_id", string(game.ID)),
				slog.Int("host_score", host.State.Score),
				slog.Int("joiner_score", joiner.State.Score),
			)
			e.publish(e.handler.CompletedResult(game))
		}
		for _, n := range simulation.Broadcast(game, host, joiner, e.cfg) {
			e.notifier.Notify(n)
		}
	}
}

func (e *Engine) deliver(effects matchmaking.Effects) {
	for _, n := range effects.Notifications {
		e.notifier.Notify(n)
	}
	for _, r := range effects.Results {
		e.publish(r)
	}
}

func (e *Engine) publish(result model.MatchResult) {
	select {
	case e.results <- result:
	default:
		e.logger.Warn("result channel full, dropping match result",
			slog.String("result_id", string(result.ID)),
			slog.String("game_id", string(result.GameID)),
		)
	}
}
