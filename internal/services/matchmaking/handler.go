package matchmaking

import (
	"cmp"
	"log/slog"
	"slices"

	"github.com/google/uuid"

	"github.com/mcoot/wagerpong/internal/dependencies/clock"
	"github.com/mcoot/wagerpong/internal/model"
	"github.com/mcoot/wagerpong/internal/services/simulation"
	"github.com/mcoot/wagerpong/internal/session"
)

// Effects are the outbound consequences of a single command, delivered once
// the command's mutation has been committed
type Effects struct {
	Notifications []model.Notification
	Results       []model.MatchResult
}

func (e *Effects) notify(to model.ConnID, event model.EventName, payload any) {
	e.Notifications = append(e.Notifications, model.Notification{
		To:      to,
		Event:   event,
		Payload: payload,
	})
}

func (e *Effects) merge(other Effects) {
	e.Notifications = append(e.Notifications, other.Notifications...)
	e.Results = append(e.Results, other.Results...)
}

// Handler validates and applies client commands against the session store.
// Callers must serialize every call with each other and with simulation ticks.
type Handler struct {
	store  *session.Store
	cfg    model.GameConfig
	clock  clock.Clock
	logger *slog.Logger
}

// NewHandler creates a new matchmaking Handler
func NewHandler(store *session.Store, cfg model.GameConfig, clock clock.Clock, logger *slog.Logger) *Handler {
	return &Handler{
		store:  store,
		cfg:    cfg,
		clock:  clock,
		logger: logger.With(slog.String("component", "matchmaking")),
	}
}

// Register binds an identity to the connection and sends the new roster to everyone
func (h *Handler) Register(conn model.ConnID, id model.PlayerID, balance float64, guest bool) (Effects, error) {
	if h.store.PlayerByConn(conn) != nil {
		return Effects{}, model.ErrDuplicateRegistration
	}
	if _, err := h.store.RegisterPlayer(id, balance, guest, conn); err != nil {
		return Effects{}, err
	}

	h.logger.Info("player registered",
		slog.String("player_id", string(id)),
		slog.Bool("guest", guest),
	)
	return h.rosterEffects(), nil
}

// Invite records an invite from the sender in the target's pending list and
// sends the target its updated list
func (h *Handler) Invite(conn model.ConnID, target model.PlayerID, bet float64, rounds int) (Effects, error) {
	sender := h.store.PlayerByConn(conn)
	if sender == nil {
		return Effects{}, model.ErrInvalidSender
	}
	recipient := h.store.PlayerByID(target)
	if recipient == nil {
		return Effects{}, model.ErrInvalidTarget
	}
	if recipient.ID == sender.ID {
		return Effects{}, model.ErrSelfInvite
	}

	invite := model.Invite{From: sender.ID, Bet: bet, Rounds: rounds}
	if err := h.store.AddInvite(recipient.ID, invite); err != nil {
		return Effects{}, err
	}

	var effects Effects
	effects.notify(recipient.Conn, model.EventInvites, inviteSummaries(recipient))
	return effects, nil
}

// Accept consumes the invite from host and starts an active game between the
// host and the sender. Nothing is consumed if the game cannot be started.
func (h *Handler) Accept(conn model.ConnID, hostID model.PlayerID) (Effects, error) {
	sender := h.store.PlayerByConn(conn)
	if sender == nil {
		return Effects{}, model.ErrInvalidSender
	}
	host := h.store.PlayerByID(hostID)
	if host == nil {
		return Effects{}, model.ErrInvalidHost
	}
	if _, ok := sender.Invites[host.ID]; !ok {
		return Effects{}, model.ErrNoSuchInvite
	}
	if host.InGame() || sender.InGame() {
		return Effects{}, model.ErrAlreadyInGame
	}

	invite, err := h.store.TakeInvite(sender.ID, host.ID)
	if err != nil {
		return Effects{}, err
	}
	game, err := h.store.CreateGame(host.ID, invite.Bet, invite.Rounds)
	if err != nil {
		return Effects{}, err
	}
	if err := h.store.JoinGame(game.ID, sender.ID); err != nil {
		return Effects{}, err
	}

	h.logger.Info("game started",
		slog.String("game_id", string(game.ID)),
		slog.String("host", string(host.ID)),
		slog.String("joiner", string(sender.ID)),
		slog.Float64("bet", game.Bet),
		slog.Int("rounds", game.Rounds),
	)

	var effects Effects
	effects.notify(sender.Conn, model.EventInvites, inviteSummaries(sender))
	return effects, nil
}

// Move shifts the sender's paddle by delta scaled by the paddle speed,
// clamped to the board.
// A registered player who is not in a game is ignored.
func (h *Handler) Move(conn model.ConnID, delta float64) error {
	player := h.store.PlayerByConn(conn)
	if player == nil {
		return model.ErrInvalidSender
	}
	if !player.InGame() || player.State == nil {
		return nil
	}
	player.State.Position = simulation.ClampPaddle(player.State.Position+delta*h.cfg.PaddleSpeed, h.cfg)
	return nil
}

// Leave removes the sender from its game, closing it for the opponent
func (h *Handler) Leave(conn model.ConnID) (Effects, error) {
	player := h.store.PlayerByConn(conn)
	if player == nil {
		return Effects{}, model.ErrInvalidSender
	}
	if !player.InGame() {
		return Effects{}, model.ErrPlayerNotInGame
	}
	return h.leave(player)
}

// Unregister releases the connection's identity. Invites it sent are withdrawn
// and everyone left receives the new roster. Unknown connections are ignored.
func (h *Handler) Unregister(conn model.ConnID) Effects {
	player := h.store.PlayerByConn(conn)
	if player == nil {
		return Effects{}
	}

	var effects Effects
	if player.InGame() {
		left, err := h.leave(player)
		if err != nil {
			h.logger.Error("failed to leave game on unregister",
				slog.String("player_id", string(player.ID)),
				slog.String("error", err.Error()),
			)
		}
		effects.merge(left)
	}

	_, affected := h.store.UnregisterPlayer(conn)
	for _, id := range affected {
		if recipient := h.store.PlayerByID(id); recipient != nil {
			effects.notify(recipient.Conn, model.EventInvites, inviteSummaries(recipient))
		}
	}

	h.logger.Info("player unregistered", slog.String("player_id", string(player.ID)))
	effects.merge(h.rosterEffects())
	return effects
}

// Disconnect tears down a connection closed by the transport: it leaves any
// game and unregisters
func (h *Handler) Disconnect(conn model.ConnID) Effects {
	return h.Unregister(conn)
}

// CompletedResult records a game whose score reached its round target
func (h *Handler) CompletedResult(game *model.Game) model.MatchResult {
	host, joiner := h.store.Participants(game)
	result := h.newResult(game, host, joiner, model.ResultCompleted)
	switch {
	case host.State.Score > joiner.State.Score:
		result.Winner = host.ID
	case joiner.State.Score > host.State.Score:
		result.Winner = joiner.ID
	}
	return result
}

// Roster returns the registered players in registration order
func (h *Handler) Roster() []model.PlayerSummary {
	players := h.store.Players()
	roster := make([]model.PlayerSummary, 0, len(players))
	for _, p := range players {
		roster = append(roster, model.PlayerSummary{
			ID:      p.ID,
			Balance: p.Balance,
			Guest:   p.Guest,
		})
	}
	return roster
}

func (h *Handler) leave(player *model.Player) (Effects, error) {
	game := h.store.Game(player.Game)
	if game == nil {
		return Effects{}, model.ErrGameNotFound
	}

	var effects Effects
	if game.IsActive() && !game.Finished {
		host, joiner := h.store.Participants(game)
		result := h.newResult(game, host, joiner, model.ResultAbandoned)
		result.LeftBy = player.ID
		if opponent, ok := game.Opponent(player.ID); ok {
			result.Winner = opponent
		}
		effects.Results = append(effects.Results, result)
	}
	for _, id := range game.Players {
		if id == player.ID {
			continue
		}
		if other := h.store.PlayerByID(id); other != nil {
			effects.notify(other.Conn, model.EventClose, nil)
		}
	}

	if _, err := h.store.LeaveGame(game.ID, player.ID); err != nil {
		return Effects{}, err
	}

	h.logger.Info("player left game",
		slog.String("game_id", string(game.ID)),
		slog.String("player_id", string(player.ID)),
	)
	return effects, nil
}

func (h *Handler) newResult(game *model.Game, host, joiner *model.Player, status model.ResultStatus) model.MatchResult {
	return model.MatchResult{
		ID:          model.ResultID(uuid.NewString()),
		GameID:      game.ID,
		Status:      status,
		Host:        host.ID,
		Joiner:      joiner.ID,
		HostScore:   host.State.Score,
		JoinerScore: joiner.State.Score,
		Bet:         game.Bet,
		Rounds:      game.Rounds,
		FinishedAt:  h.clock.Now(),
	}
}

func (h *Handler) rosterEffects() Effects {
	roster := h.Roster()
	var effects Effects
	for _, p := range h.store.Players() {
		effects.notify(p.Conn, model.EventPlayers, roster)
	}
	return effects
}

// inviteSummaries lists a player's pending invites ordered by inviter
func inviteSummaries(p *model.Player) []model.InviteSummary {
	invites := make([]model.InviteSummary, 0, len(p.Invites))
	for _, inv := range p.Invites {
		invites = append(invites, model.InviteSummary{
			ID:     inv.From,
			Bet:    inv.Bet,
			Rounds: inv.Rounds,
		})
	}
	slices.SortFunc(invites, func(a, b model.InviteSummary) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return invites
}
