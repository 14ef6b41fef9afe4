package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/mcoot/wagerpong/internal/model"
	"github.com/mcoot/wagerpong/internal/services/balance"
	"github.com/mcoot/wagerpong/internal/services/engine"
)

const (
	submitTimeout  = 5 * time.Second
	balanceTimeout = 5 * time.Second
)

// Submitter queues commands for the engine
type Submitter interface {
	Submit(ctx context.Context, cmd engine.Command) error
}

// Handler upgrades HTTP requests to websocket connections and turns inbound
// events into engine commands
type Handler struct {
	hub      *Hub
	engine   Submitter
	resolver *balance.Resolver
	upgrader websocket.Upgrader
	logger   *slog.Logger

	// serving counts connections whose disconnect is not yet submitted
	serving sync.WaitGroup
}

// NewHandler creates a new websocket Handler
func NewHandler(hub *Hub, engine Submitter, resolver *balance.Resolver, logger *slog.Logger) *Handler {
	return &Handler{
		hub:      hub,
		engine:   engine,
		resolver: resolver,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The game client may be served from another origin
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger: logger.With(slog.String("component", "ws")),
	}
}

// ServeHTTP upgrades the connection and starts its read and write loops
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}

	client := newClient(model.ConnID(uuid.NewString()), conn)
	h.hub.register(client)

	h.serving.Add(1)
	go client.writeLoop()
	go h.serve(client)
}

// Wait blocks until every connection has ended and submitted its disconnect,
// or until ctx is done. Call it after the hub is closed.
func (h *Handler) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		h.serving.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (h *Handler) serve(client *Client) {
	defer h.serving.Done()

	err := client.readLoop(func(msg []byte) {
		h.dispatch(client, msg)
	})
	if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
		h.logger.Warn("unexpected websocket close",
			slog.String("conn_id", string(client.id)),
			slog.String("error", err.Error()))
	}

	h.hub.unregister(client)
	h.submit(engine.Disconnect{Conn: client.id})
}

// dispatch turns one frame into an engine command. A frame that cannot be
// decoded is answered with an error event and the connection stays open.
func (h *Handler) dispatch(client *Client, msg []byte) {
	cmd, err := h.decodeFrame(client, msg)
	if err != nil {
		h.hub.Notify(model.Notification{
			To:      client.id,
			Event:   model.EventError,
			Payload: model.ErrorPayload{Message: err.Error()},
		})
		return
	}
	h.submit(cmd)
}

func (h *Handler) decodeFrame(client *Client, msg []byte) (engine.Command, error) {
	var env Envelope
	if err := json.Unmarshal(msg, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrInvalidPayload, err)
	}
	return h.decode(client, env)
}

func (h *Handler) decode(client *Client, env Envelope) (engine.Command, error) {
	switch env.Event {
	case model.EventRegister:
		var req RegisterRequest
		if err := decodeData(env.Data, &req); err != nil {
			return nil, err
		}
		return h.register(client, req), nil

	case model.EventUnregister:
		return engine.Unregister{Conn: client.id}, nil

	case model.EventInvite:
		var req InviteRequest
		if err := decodeData(env.Data, &req); err != nil {
			return nil, err
		}
		return engine.Invite{
			Conn:   client.id,
			Target: model.PlayerID(req.ID),
			Bet:    req.Bet,
			Rounds: req.Rounds,
		}, nil

	case model.EventAccept:
		var req AcceptRequest
		if err := decodeData(env.Data, &req); err != nil {
			return nil, err
		}
		return engine.Accept{Conn: client.id, Host: model.PlayerID(req.ID)}, nil

	case model.EventMove:
		var req MoveRequest
		if err := decodeData(env.Data, &req); err != nil {
			return nil, err
		}
		return engine.Move{Conn: client.id, Delta: req.Position}, nil

	case model.EventLeave:
		return engine.Leave{Conn: client.id}, nil

	default:
		return nil, fmt.Errorf("%w: %q", model.ErrUnknownEvent, env.Event)
	}
}

// register resolves the registrant's balance before the command is queued so
// the engine never waits on the balance provider
func (h *Handler) register(client *Client, req RegisterRequest) engine.Command {
	id := model.PlayerID(req.ID)
	guest := req.Guest
	if id == "" {
		id = model.PlayerID("guest-" + uuid.NewString())
		guest = true
	}

	ctx, cancel := context.WithTimeout(context.Background(), balanceTimeout)
	defer cancel()
	bal, guest := h.resolver.Resolve(ctx, id, req.Balance, guest)

	return engine.Register{
		Conn:    client.id,
		ID:      id,
		Balance: bal,
		Guest:   guest,
	}
}

func (h *Handler) submit(cmd engine.Command) {
	ctx, cancel := context.WithTimeout(context.Background(), submitTimeout)
	defer cancel()
	if err := h.engine.Submit(ctx, cmd); err != nil {
		h.logger.Error("failed to submit command",
			slog.String("command", fmt.Sprintf("%T", cmd)),
			slog.String("error", err.Error()))
	}
}

// decodeData unmarshals an event payload. A missing payload leaves v zeroed.
func decodeData(data json.RawMessage, v any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %v", model.ErrInvalidPayload, err)
	}
	return nil
}
