package session

import (
	"github.com/google/uuid"

	"github.com/mcoot/wagerpong/internal/dependencies/clock"
	"github.com/mcoot/wagerpong/internal/model"
)

// Store is the authoritative in-memory mapping of identities, connections,
// games and pending invites.
//
// Store is not safe for concurrent use. It is owned by the engine worker,
// which serializes every command and tick over it.
type Store struct {
	cfg   model.GameConfig
	clock clock.Clock

	players     map[model.PlayerID]*model.Player
	playerOrder []model.PlayerID
	byConn      map[model.ConnID]model.PlayerID

	games     map[model.GameID]*model.Game
	gameOrder []model.GameID
}

// New creates an empty session store
func New(cfg model.GameConfig, clock clock.Clock) *Store {
	return &Store{
		cfg:     cfg,
		clock:   clock,
		players: make(map[model.PlayerID]*model.Player),
		byConn:  make(map[model.ConnID]model.PlayerID),
		games:   make(map[model.GameID]*model.Game),
	}
}

// Player operations

// RegisterPlayer binds an identity to a connection
func (s *Store) RegisterPlayer(id model.PlayerID, balance float64, guest bool, conn model.ConnID) (*model.Player, error) {
	if _, ok := s.byConn[conn]; ok {
		return nil, model.ErrDuplicateRegistration
	}
	if _, ok := s.players[id]; ok {
		return nil, model.ErrDuplicateRegistration
	}

	player := &model.Player{
		ID:       id,
		Conn:     conn,
		Balance:  balance,
		Guest:    guest,
		Invites:  make(map[model.PlayerID]model.Invite),
		JoinedAt: s.clock.Now(),
	}
	s.players[id] = player
	s.playerOrder = append(s.playerOrder, id)
	s.byConn[conn] = id
	return player, nil
}

// UnregisterPlayer removes the player bound to conn and every invite it sent.
// A player still in a game leaves it first.
// It returns the removed player and the identities whose pending invites
// changed, or nil if the connection was not registered.
func (s *Store) UnregisterPlayer(conn model.ConnID) (*model.Player, []model.PlayerID) {
	id, ok := s.byConn[conn]
	if !ok {
		return nil, nil
	}
	player := s.players[id]
	if player.InGame() {
		_, _ = s.LeaveGame(player.Game, id)
	}

	var affected []model.PlayerID
	for _, otherID := range s.playerOrder {
		other := s.players[otherID]
		if _, ok := other.Invites[id]; ok {
			delete(other.Invites, id)
			affected = append(affected, otherID)
		}
	}

	delete(s.players, id)
	delete(s.byConn, conn)
	s.playerOrder = remove(s.playerOrder, id)
	return player, affected
}

// PlayerByID returns the player with the given identity, or nil if not registered
func (s *Store) PlayerByID(id model.PlayerID) *model.Player {
	return s.players[id]
}

// PlayerByConn returns the player bound to the connection, or nil if not registered
func (s *Store) PlayerByConn(conn model.ConnID) *model.Player {
	id, ok := s.byConn[conn]
	if !ok {
		return nil
	}
	return s.players[id]
}

// Players returns all registered players in registration order
func (s *Store) Players() []*model.Player {
	players := make([]*model.Player, 0, len(s.playerOrder))
	for _, id := range s.playerOrder {
		players = append(players, s.players[id])
	}
	return players
}

// Invite operations

// AddInvite records an invite in the recipient's pending list, replacing any
// earlier invite from the same inviter
func (s *Store) AddInvite(to model.PlayerID, invite model.Invite) error {
	recipient, ok := s.players[to]
	if !ok {
		return model.ErrInvalidTarget
	}
	if _, ok := s.players[invite.From]; !ok {
		return model.ErrInvalidSender
	}
	if invite.From == to {
		return model.ErrSelfInvite
	}
	recipient.Invites[invite.From] = invite
	return nil
}

// TakeInvite removes and returns the invite from `from` held by `to`
func (s *Store) TakeInvite(to, from model.PlayerID) (model.Invite, error) {
	recipient, ok := s.players[to]
	if !ok {
		return model.Invite{}, model.ErrInvalidSender
	}
	invite, ok := recipient.Invites[from]
	if !ok {
		return model.Invite{}, model.ErrNoSuchInvite
	}
	delete(recipient.Invites, from)
	return invite, nil
}

// Game operations

// CreateGame creates a pending game with the host in slot 0
func (s *Store) CreateGame(hostID model.PlayerID, bet float64, rounds int) (*model.Game, error) {
	host, ok := s.players[hostID]
	if !ok {
		return nil, model.ErrInvalidHost
	}
	if host.InGame() {
		return nil, model.ErrAlreadyInGame
	}

	x, y := s.cfg.Center()
	game := &model.Game{
		ID:     model.GameID(uuid.NewString()),
		Bet:    bet,
		Rounds: rounds,
		Ball: model.Ball{
			X:  x,
			Y:  y,
			DX: 1,
			DY: 1,
		},
		Players:   []model.PlayerID{hostID},
		CreatedAt: s.clock.Now(),
	}
	s.games[game.ID] = game
	s.gameOrder = append(s.gameOrder, game.ID)

	s.enterGame(host, game.ID)
	return game, nil
}

// JoinGame adds the player to a pending game, making it active
func (s *Store) JoinGame(gameID model.GameID, playerID model.PlayerID) error {
	game, ok := s.games[gameID]
	if !ok {
		return model.ErrGameNotFound
	}
	player, ok := s.players[playerID]
	if !ok {
		return model.ErrInvalidSender
	}
	if len(game.Players) >= 2 {
		return model.ErrGameFull
	}
	if player.InGame() {
		return model.ErrAlreadyInGame
	}

	game.Players = append(game.Players, playerID)
	s.enterGame(player, gameID)
	return nil
}

// LeaveGame removes the player from the game. Any game left with fewer than
// two players is destroyed and its remaining players released.
// It returns true if the game was destroyed.
func (s *Store) LeaveGame(gameID model.GameID, playerID model.PlayerID) (bool, error) {
	game, ok := s.games[gameID]
	if !ok {
		return false, model.ErrGameNotFound
	}
	player, ok := s.players[playerID]
	if !ok || player.Game != gameID {
		return false, model.ErrPlayerNotInGame
	}
	slot, ok := game.SlotOf(playerID)
	if !ok {
		return false, model.ErrPlayerNotInGame
	}

	game.Players = append(game.Players[:slot], game.Players[slot+1:]...)
	exitGame(player)

	if len(game.Players) < 2 {
		s.deleteGame(game)
		return true, nil
	}
	return false, nil
}

// Game returns the game with the given ID, or nil if it does not exist
func (s *Store) Game(id model.GameID) *model.Game {
	return s.games[id]
}

// Games returns every game, pending or active, in creation order
func (s *Store) Games() []*model.Game {
	games := make([]*model.Game, 0, len(s.gameOrder))
	for _, id := range s.gameOrder {
		games = append(games, s.games[id])
	}
	return games
}

// ActiveGames returns the games with both slots filled, in creation order
func (s *Store) ActiveGames() []*model.Game {
	var games []*model.Game
	for _, id := range s.gameOrder {
		if g := s.games[id]; g.IsActive() {
			games = append(games, g)
		}
	}
	return games
}

// Participants returns the host and joiner of an active game.
// Calling it on a game without two players is a programming error.
func (s *Store) Participants(game *model.Game) (*model.Player, *model.Player) {
	if !game.IsActive() {
		panic("session: participants of game " + string(game.ID) + " requested before it is active")
	}
	host := s.players[game.Players[model.SlotHost]]
	joiner := s.players[game.Players[model.SlotJoiner]]
	if host == nil || joiner == nil {
		panic("session: game " + string(game.ID) + " references an unregistered player")
	}
	return host, joiner
}

// Stats returns counts of players and games
func (s *Store) Stats() model.Stats {
	games := s.Games()
	stats := model.Stats{
		Players: len(s.players),
		Games:   len(games),
	}
	for _, g := range games {
		if g.IsActive() {
			stats.ActiveGames++
		} else {
			stats.PendingGames++
		}
	}
	return stats
}

func (s *Store) enterGame(player *model.Player, gameID model.GameID) {
	player.Game = gameID
	player.State = &model.RuntimeState{
		Score:    0,
		Position: s.cfg.PaddleStart(),
	}
}

func exitGame(player *model.Player) {
	player.Game = ""
	player.State = nil
}

func (s *Store) deleteGame(game *model.Game) {
	for _, id := range game.Players {
		if p, ok := s.players[id]; ok && p.Game == game.ID {
			exitGame(p)
		}
	}
	game.Players = nil
	delete(s.games, game.ID)
	s.gameOrder = remove(s.gameOrder, game.ID)
}

func remove[T comparable](ids []T, id T) []T {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
