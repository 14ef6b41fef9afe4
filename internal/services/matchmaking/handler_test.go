package matchmaking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/wagerpong/internal/dependencies/mocks"
	"github.com/mcoot/wagerpong/internal/model"
	"github.com/mcoot/wagerpong/internal/session"
	"github.com/mcoot/wagerpong/internal/testutil"
)

type HandlerSuite struct {
	suite.Suite
	store   *session.Store
	clock   *mocks.MockClock
	handler *Handler
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	cfg := model.DefaultGameConfig()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.store = session.New(cfg, s.clock)
	s.handler = NewHandler(s.store, cfg, s.clock, testutil.NopLogger())
}

func conn(id string) model.ConnID {
	return model.ConnID("conn-" + id)
}

func (s *HandlerSuite) register(id string) *model.Player {
	_, err := s.handler.Register(conn(id), model.PlayerID(id), 10, false)
	s.Require().NoError(err)
	return s.store.PlayerByID(model.PlayerID(id))
}

func (s *HandlerSuite) startGame(host, joiner string) *model.Game {
	_, err := s.handler.Invite(conn(host), model.PlayerID(joiner), 5, 3)
	s.Require().NoError(err)
	_, err = s.handler.Accept(conn(joiner), model.PlayerID(host))
	s.Require().NoError(err)
	game := s.store.Game(s.store.PlayerByID(model.PlayerID(host)).Game)
	s.Require().NotNil(game)
	return game
}

func eventsFor(effects Effects, to model.ConnID) []model.Notification {
	var out []model.Notification
	for _, n := range effects.Notifications {
		if n.To == to {
			out = append(out, n)
		}
	}
	return out
}

// Register tests

func (s *HandlerSuite) TestRegisterBroadcastsRosterToEveryone() {
	s.register("alice")

	effects, err := s.handler.Register(conn("bob"), "bob", 0, true)
	s.Require().NoError(err)

	s.Len(effects.Notifications, 2)
	expected := []model.PlayerSummary{
		{ID: "alice", Balance: 10},
		{ID: "bob", Balance: 0, Guest: true},
	}
	for _, n := range effects.Notifications {
		s.Equal(model.EventPlayers, n.Event)
		s.Equal(expected, n.Payload)
	}
	s.Len(eventsFor(effects, conn("alice")), 1)
	s.Len(eventsFor(effects, conn("bob")), 1)
}

func (s *HandlerSuite) TestRegisterTwiceOnConnectionFails() {
	s.register("alice")

	_, err := s.handler.Register(conn("alice"), "alice-2", 0, true)
	s.ErrorIs(err, model.ErrDuplicateRegistration)
	s.Nil(s.store.PlayerByID("alice-2"))
}

// Invite tests

func (s *HandlerSuite) TestInviteNotifiesTarget() {
	s.register("alice")
	s.register("bob")

	effects, err := s.handler.Invite(conn("alice"), "bob", 2.5, 7)
	s.Require().NoError(err)

	s.Require().Len(effects.Notifications, 1)
	n := effects.Notifications[0]
	s.Equal(conn("bob"), n.To)
	s.Equal(model.EventInvites, n.Event)
	s.Equal([]model.InviteSummary{{ID: "alice", Bet: 2.5, Rounds: 7}}, n.Payload)
}

func (s *HandlerSuite) TestInviteListIsOrderedByInviter() {
	s.register("carol")
	s.register("alice")
	s.register("bob")

	_, err := s.handler.Invite(conn("carol"), "bob", 1, 1)
	s.Require().NoError(err)
	effects, err := s.handler.Invite(conn("alice"), "bob", 2, 2)
	s.Require().NoError(err)

	s.Equal([]model.InviteSummary{
		{ID: "alice", Bet: 2, Rounds: 2},
		{ID: "carol", Bet: 1, Rounds: 1},
	}, effects.Notifications[0].Payload)
}

func (s *HandlerSuite) TestInviteSelfFails() {
	alice := s.register("alice")

	_, err := s.handler.Invite(conn("alice"), "alice", 1, 1)
	s.ErrorIs(err, model.ErrSelfInvite)
	s.Empty(alice.Invites)
}

func (s *HandlerSuite) TestInviteFromUnregisteredFails() {
	s.register("bob")

	_, err := s.handler.Invite("stranger", "bob", 1, 1)
	s.ErrorIs(err, model.ErrInvalidSender)
}

func (s *HandlerSuite) TestInviteUnknownTargetFails() {
	s.register("alice")

	_, err := s.handler.Invite(conn("alice"), "ghost", 1, 1)
	s.ErrorIs(err, model.ErrInvalidTarget)
}

// Accept tests

func (s *HandlerSuite) TestAcceptStartsOneGame() {
	alice := s.register("alice")
	bob := s.register("bob")
	_, err := s.handler.Invite(conn("alice"), "bob", 5, 3)
	s.Require().NoError(err)

	effects, err := s.handler.Accept(conn("bob"), "alice")
	s.Require().NoError(err)

	s.Empty(bob.Invites)
	games := s.store.Games()
	s.Require().Len(games, 1)
	game := games[0]
	s.True(game.IsActive())
	s.Equal([]model.PlayerID{"alice", "bob"}, game.Players)
	s.Equal(game.ID, alice.Game)
	s.Equal(game.ID, bob.Game)
	s.Equal(5.0, game.Bet)
	s.Equal(3, game.Rounds)

	s.Require().Len(effects.Notifications, 1)
	s.Equal(conn("bob"), effects.Notifications[0].To)
	s.Equal(model.EventInvites, effects.Notifications[0].Event)
	s.Equal([]model.InviteSummary{}, effects.Notifications[0].Payload)
}

func (s *HandlerSuite) TestAcceptTwiceFails() {
	s.register("alice")
	s.register("bob")
	s.startGame("alice", "bob")

	_, err := s.handler.Accept(conn("bob"), "alice")
	s.ErrorIs(err, model.ErrNoSuchInvite)
	s.Len(s.store.Games(), 1)
}

func (s *HandlerSuite) TestAcceptMissingInviteLeavesListUnchanged() {
	s.register("alice")
	bob := s.register("bob")
	s.register("carol")
	_, err := s.handler.Invite(conn("carol"), "bob", 1, 1)
	s.Require().NoError(err)

	_, err = s.handler.Accept(conn("bob"), "alice")
	s.ErrorIs(err, model.ErrNoSuchInvite)
	s.Equal(map[model.PlayerID]model.Invite{"carol": {From: "carol", Bet: 1, Rounds: 1}}, bob.Invites)
	s.Empty(s.store.Games())
}

func (s *HandlerSuite) TestAcceptUnknownHostFails() {
	s.register("bob")

	_, err := s.handler.Accept(conn("bob"), "ghost")
	s.ErrorIs(err, model.ErrInvalidHost)
}

func (s *HandlerSuite) TestAcceptFromUnregisteredFails() {
	s.register("alice")

	_, err := s.handler.Accept("stranger", "alice")
	s.ErrorIs(err, model.ErrInvalidSender)
}

func (s *HandlerSuite) TestAcceptWhileHostBusyKeepsInvite() {
	s.register("alice")
	s.register("bob")
	carol := s.register("carol")
	_, err := s.handler.Invite(conn("alice"), "carol", 1, 1)
	s.Require().NoError(err)
	s.startGame("alice", "bob")

	_, err = s.handler.Accept(conn("carol"), "alice")
	s.ErrorIs(err, model.ErrAlreadyInGame)
	s.Contains(carol.Invites, model.PlayerID("alice"))
	s.Len(s.store.Games(), 1)
}

// Move tests

func (s *HandlerSuite) TestMoveClampsToBoard() {
	alice := s.register("alice")
	s.register("bob")
	s.startGame("alice", "bob")

	s.Require().NoError(s.handler.Move(conn("alice"), -1000))
	s.Equal(0.0, alice.State.Position)

	s.Require().NoError(s.handler.Move(conn("alice"), 30))
	s.Equal(30.0, alice.State.Position)

	s.Require().NoError(s.handler.Move(conn("alice"), 1000))
	s.Equal(416.0, alice.State.Position)
}

func (s *HandlerSuite) TestMoveScalesWithPaddleSpeed() {
	cfg := model.DefaultGameConfig()
	cfg.PaddleSpeed = 2
	s.store = session.New(cfg, s.clock)
	s.handler = NewHandler(s.store, cfg, s.clock, testutil.NopLogger())

	alice := s.register("alice")
	s.register("bob")
	s.startGame("alice", "bob")

	s.Require().NoError(s.handler.Move(conn("alice"), -1000))
	s.Require().NoError(s.handler.Move(conn("alice"), 10))
	s.Equal(20.0, alice.State.Position)

	s.Require().NoError(s.handler.Move(conn("alice"), 300))
	s.Equal(416.0, alice.State.Position)
}

func (s *HandlerSuite) TestMoveOutsideGameIsIgnored() {
	alice := s.register("alice")

	s.NoError(s.handler.Move(conn("alice"), 10))
	s.Nil(alice.State)
}

func (s *HandlerSuite) TestMoveFromUnregisteredFails() {
	s.ErrorIs(s.handler.Move("stranger", 10), model.ErrInvalidSender)
}

// Leave tests

func (s *HandlerSuite) TestLeaveClosesGameForOpponent() {
	alice := s.register("alice")
	bob := s.register("bob")
	game := s.startGame("alice", "bob")
	alice.State.Score = 1

	effects, err := s.handler.Leave(conn("bob"))
	s.Require().NoError(err)

	s.Nil(s.store.Game(game.ID))
	s.False(alice.InGame())
	s.Nil(alice.State)
	s.False(bob.InGame())

	s.Require().Len(effects.Notifications, 1)
	s.Equal(model.Notification{To: conn("alice"), Event: model.EventClose}, effects.Notifications[0])

	s.Require().Len(effects.Results, 1)
	result := effects.Results[0]
	s.Equal(model.ResultAbandoned, result.Status)
	s.Equal(game.ID, result.GameID)
	s.Equal(model.PlayerID("bob"), result.LeftBy)
	s.Equal(model.PlayerID("alice"), result.Winner)
	s.Equal(1, result.HostScore)
	s.Equal(s.clock.Now(), result.FinishedAt)
}

func (s *HandlerSuite) TestLeaveFinishedGameRecordsNoAbandon() {
	s.register("alice")
	s.register("bob")
	game := s.startGame("alice", "bob")
	game.Finished = true

	effects, err := s.handler.Leave(conn("alice"))
	s.Require().NoError(err)

	s.Empty(effects.Results)
	s.Len(eventsFor(effects, conn("bob")), 1)
}

func (s *HandlerSuite) TestLeaveWhenIdleFails() {
	s.register("alice")

	_, err := s.handler.Leave(conn("alice"))
	s.ErrorIs(err, model.ErrPlayerNotInGame)
}

func (s *HandlerSuite) TestLeaveFromUnregisteredFails() {
	_, err := s.handler.Leave("stranger")
	s.ErrorIs(err, model.ErrInvalidSender)
}

// Unregister and disconnect tests

func (s *HandlerSuite) TestDisconnectMidGame() {
	alice := s.register("alice")
	s.register("bob")
	game := s.startGame("alice", "bob")

	effects := s.handler.Disconnect(conn("bob"))

	s.Nil(s.store.Game(game.ID))
	s.False(alice.InGame())
	s.Nil(s.store.PlayerByID("bob"))
	s.Nil(s.store.PlayerByConn(conn("bob")))

	toAlice := eventsFor(effects, conn("alice"))
	s.Require().Len(toAlice, 2)
	s.Equal(model.EventClose, toAlice[0].Event)
	s.Equal(model.EventPlayers, toAlice[1].Event)
	s.Equal([]model.PlayerSummary{{ID: "alice", Balance: 10}}, toAlice[1].Payload)
	s.Empty(eventsFor(effects, conn("bob")))
	s.Len(effects.Results, 1)
}

func (s *HandlerSuite) TestUnregisterWithdrawsSentInvites() {
	s.register("alice")
	bob := s.register("bob")
	s.register("carol")
	_, err := s.handler.Invite(conn("alice"), "bob", 1, 1)
	s.Require().NoError(err)
	_, err = s.handler.Invite(conn("carol"), "bob", 2, 2)
	s.Require().NoError(err)

	effects := s.handler.Unregister(conn("alice"))

	s.NotContains(bob.Invites, model.PlayerID("alice"))
	toBob := eventsFor(effects, conn("bob"))
	s.Require().Len(toBob, 2)
	s.Equal(model.EventInvites, toBob[0].Event)
	s.Equal([]model.InviteSummary{{ID: "carol", Bet: 2, Rounds: 2}}, toBob[0].Payload)
	s.Equal(model.EventPlayers, toBob[1].Event)
}

func (s *HandlerSuite) TestUnregisterUnknownConnectionIsNoop() {
	s.register("alice")

	effects := s.handler.Unregister("stranger")

	s.Empty(effects.Notifications)
	s.Len(s.store.Players(), 1)
}

func (s *HandlerSuite) TestDepartedIdentityVanishesFromOtherPlayers() {
	s.register("alice")
	s.register("bob")
	carol := s.register("carol")
	s.startGame("alice", "bob")
	_, err := s.handler.Invite(conn("bob"), "carol", 1, 1)
	s.Require().NoError(err)

	s.handler.Disconnect(conn("bob"))

	for _, p := range s.store.Players() {
		s.NotContains(p.Invites, model.PlayerID("bob"))
		s.NotEqual(model.PlayerID("bob"), p.ID)
	}
	s.Empty(carol.Invites)
	s.Empty(s.store.Games())
}

// Result tests

func (s *HandlerSuite) TestCompletedResultPicksWinner() {
	alice := s.register("alice")
	bob := s.register("bob")
	game := s.startGame("alice", "bob")
	alice.State.Score = 1
	bob.State.Score = 2

	result := s.handler.CompletedResult(game)

	s.Equal(model.ResultCompleted, result.Status)
	s.Equal(model.PlayerID("bob"), result.Winner)
	s.Equal(model.PlayerID("alice"), result.Host)
	s.Equal(model.PlayerID("bob"), result.Joiner)
	s.Empty(result.LeftBy)
	s.NotEmpty(result.ID)
}

func (s *HandlerSuite) TestCompletedResultTie() {
	alice := s.register("alice")
	bob := s.register("bob")
	game := s.startGame("alice", "bob")
	alice.State.Score = 2
	bob.State.Score = 2

	s.Empty(s.handler.CompletedResult(game).Winner)
}
