package simulation

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/wagerpong/internal/dependencies/mocks"
	"github.com/mcoot/wagerpong/internal/model"
)

type PhysicsSuite struct {
	suite.Suite
	cfg    model.GameConfig
	rnd    *mocks.MockRandom
	game   *model.Game
	host   *model.RuntimeState
	joiner *model.RuntimeState
}

func TestPhysicsSuite(t *testing.T) {
	suite.Run(t, new(PhysicsSuite))
}

func (s *PhysicsSuite) SetupTest() {
	s.cfg = model.DefaultGameConfig()
	s.rnd = mocks.NewMockRandom()
	s.game = &model.Game{
		ID:      "game-1",
		Bet:     5,
		Rounds:  3,
		Ball:    model.Ball{X: 375, Y: 240, DX: 1, DY: 1},
		Players: []model.PlayerID{"alice", "bob"},
	}
	s.host = &model.RuntimeState{Position: s.cfg.PaddleStart()}
	s.joiner = &model.RuntimeState{Position: s.cfg.PaddleStart()}
}

func (s *PhysicsSuite) step() bool {
	return Step(s.game, s.host, s.joiner, s.cfg, s.rnd)
}

func (s *PhysicsSuite) TestStepMovesBallOneUnit() {
	finished := s.step()

	s.False(finished)
	s.Equal(model.Ball{X: 376, Y: 241, DX: 1, DY: 1}, s.game.Ball)
	s.Zero(s.rnd.Calls())
}

func (s *PhysicsSuite) TestStepScalesByBallSpeed() {
	s.cfg.BallSpeed = 3
	s.game.Ball = model.Ball{X: 100, Y: 100, DX: -1, DY: 1}

	s.step()

	s.Equal(97.0, s.game.Ball.X)
	s.Equal(103.0, s.game.Ball.Y)
}

func (s *PhysicsSuite) TestExitRightScoresForHost() {
	s.game.Ball = model.Ball{X: 750, Y: 100, DX: 1, DY: 1}
	s.rnd.QueueIntn(1, 0)

	s.step()

	s.Equal(1, s.host.Score)
	s.Equal(0, s.joiner.Score)
	s.Equal(model.Ball{X: 375, Y: 240, DX: -1, DY: 1}, s.game.Ball)
	s.Equal(2, s.rnd.Calls())
}

func (s *PhysicsSuite) TestExitLeftScoresForJoiner() {
	// Host paddle far away so the ball is not caught
	s.host.Position = 0
	s.game.Ball = model.Ball{X: 0, Y: 300, DX: -1, DY: -1}
	s.rnd.QueueIntn(0, 1)

	s.step()

	s.Equal(0, s.host.Score)
	s.Equal(1, s.joiner.Score)
	s.Equal(model.Ball{X: 375, Y: 240, DX: 1, DY: -1}, s.game.Ball)
}

func (s *PhysicsSuite) TestResetDirectionsAreUnitSteps() {
	for i := 0; i < 4; i++ {
		s.rnd.QueueIntn(i%2, (i/2)%2)
		s.game.Ball = model.Ball{X: 750, Y: 100, DX: 1, DY: 1}
		s.host.Score, s.joiner.Score = 0, 0

		s.step()

		s.Contains([]int{-1, 1}, s.game.Ball.DX)
		s.Contains([]int{-1, 1}, s.game.Ball.DY)
	}
}

func (s *PhysicsSuite) TestBounceOffTop() {
	s.game.Ball = model.Ball{X: 300, Y: 0, DX: 1, DY: -1}

	s.step()

	s.Equal(-1.0, s.game.Ball.Y)
	s.Equal(1, s.game.Ball.DY)
}

func (s *PhysicsSuite) TestBounceOffBottom() {
	s.game.Ball = model.Ball{X: 300, Y: 480, DX: 1, DY: 1}

	s.step()

	s.Equal(481.0, s.game.Ball.Y)
	s.Equal(-1, s.game.Ball.DY)
}

func (s *PhysicsSuite) TestHostPaddleReturnsBall() {
	s.host.Position = 200
	s.game.Ball = model.Ball{X: 8, Y: 220, DX: -1, DY: 1}

	s.step()

	s.Equal(7.0, s.game.Ball.X)
	s.Equal(1, s.game.Ball.DX)
	s.Zero(s.joiner.Score)
}

func (s *PhysicsSuite) TestJoinerPaddleReturnsBall() {
	s.joiner.Position = 200
	s.game.Ball = model.Ball{X: 742, Y: 220, DX: 1, DY: 1}

	s.step()

	s.Equal(743.0, s.game.Ball.X)
	s.Equal(-1, s.game.Ball.DX)
}

func (s *PhysicsSuite) TestPaddleMissesBallOutsideSpan() {
	s.host.Position = 0
	s.game.Ball = model.Ball{X: 8, Y: 300, DX: -1, DY: 1}

	s.step()

	s.Equal(-1, s.game.Ball.DX)
}

func (s *PhysicsSuite) TestPaddleSpanEdges() {
	s.host.Position = 200

	// Ball bottom edge exactly on the paddle top does not overlap
	s.game.Ball = model.Ball{X: 8, Y: 183, DX: -1, DY: 1}
	s.step()
	s.Equal(-1, s.game.Ball.DX)

	// Ball top exactly on the paddle bottom does not overlap
	s.game.Ball = model.Ball{X: 8, Y: 263, DX: -1, DY: 1}
	s.step()
	s.Equal(-1, s.game.Ball.DX)

	// One unit inside the paddle
	s.game.Ball = model.Ball{X: 8, Y: 262, DX: -1, DY: 1}
	s.step()
	s.Equal(1, s.game.Ball.DX)
}

func (s *PhysicsSuite) TestFinishedGameIsNotAdvanced() {
	s.host.Score = 2
	s.joiner.Score = 1
	s.game.Finished = true
	before := s.game.Ball

	finished := s.step()

	s.False(finished)
	s.Equal(before, s.game.Ball)
}

func (s *PhysicsSuite) TestStepReportsFinishOnce() {
	s.host.Score = 2
	s.game.Ball = model.Ball{X: 750, Y: 100, DX: 1, DY: 1}

	s.True(s.step())
	s.True(s.game.Finished)
	s.Equal(3, s.host.Score)

	s.False(s.step())
	s.False(s.step())
}

func (s *PhysicsSuite) TestZeroRoundGameFinishesWithoutMoving() {
	s.game.Rounds = 0

	s.True(s.step())
	s.Equal(375.0, s.game.Ball.X)
}

func (s *PhysicsSuite) TestStepPanicsWithoutRuntimeState() {
	s.Panics(func() { Step(s.game, s.host, nil, s.cfg, s.rnd) })
}

func (s *PhysicsSuite) TestClampPaddle() {
	s.Equal(0.0, ClampPaddle(-20, s.cfg))
	s.Equal(416.0, ClampPaddle(500, s.cfg))
	s.Equal(100.0, ClampPaddle(100, s.cfg))
	s.Equal(416.0, ClampPaddle(416, s.cfg))
}
