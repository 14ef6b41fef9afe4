package factory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/wagerpong/internal/model"
	"github.com/mcoot/wagerpong/internal/services/engine"
	redisstorage "github.com/mcoot/wagerpong/internal/storage/redis"
)

type IntegrationSuite struct {
	suite.Suite
	app    *TestApp
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationSuite))
}

func (s *IntegrationSuite) SetupTest() {
	s.app = NewTestApp()
	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.done = make(chan struct{})
	go func() {
		defer close(s.done)
		s.app.ResultsWorker.Start(s.ctx)
	}()
}

func (s *IntegrationSuite) TearDownTest() {
	s.cancel()
	<-s.done
}

func (s *IntegrationSuite) startMatch(rounds int) {
	s.app.Engine.Apply(engine.Register{Conn: "c1", ID: "alice", Balance: 10})
	s.app.Engine.Apply(engine.Register{Conn: "c2", ID: "bob", Balance: 10})
	s.app.Engine.Apply(engine.Invite{Conn: "c1", Target: "bob", Bet: 2, Rounds: rounds})
	s.app.Engine.Apply(engine.Accept{Conn: "c2", Host: "alice"})
}

func (s *IntegrationSuite) waitForResults(n int) []*model.MatchResult {
	var results []*model.MatchResult
	s.Require().Eventually(func() bool {
		var err error
		results, err = s.app.Storage.ListMatchResults(s.ctx, 0)
		return err == nil && len(results) == n
	}, 2*time.Second, 10*time.Millisecond)
	return results
}

// Test: a match played to its round target is persisted as completed
func (s *IntegrationSuite) TestCompletedMatchIsPersisted() {
	s.startMatch(1)

	// Pull the joiner's paddle to the top so the opening serve gets past it
	s.app.Engine.Apply(engine.Move{Conn: "c2", Delta: -1000})

	for i := 0; i < 500; i++ {
		s.app.Engine.Tick()
	}

	results := s.waitForResults(1)
	result := results[0]
	s.Equal(model.ResultCompleted, result.Status)
	s.Equal(model.PlayerID("alice"), result.Host)
	s.Equal(model.PlayerID("bob"), result.Joiner)
	s.Equal(1, result.HostScore)
	s.Equal(0, result.JoinerScore)
	s.Equal(model.PlayerID("alice"), result.Winner)
	s.Equal(2.0, result.Bet)
	s.Equal(s.app.MockClock.Now(), result.FinishedAt)

	stored, err := s.app.Storage.GetMatchResult(s.ctx, result.ID)
	s.Require().NoError(err)
	s.Equal(result.GameID, stored.GameID)
}

// Test: leaving mid-match records an abandoned result for both players
func (s *IntegrationSuite) TestAbandonedMatchIsPersisted() {
	s.startMatch(5)
	s.app.Engine.Tick()

	s.app.Engine.Apply(engine.Leave{Conn: "c1"})

	results := s.waitForResults(1)
	s.Equal(model.ResultAbandoned, results[0].Status)
	s.Equal(model.PlayerID("alice"), results[0].LeftBy)
	s.Equal(model.PlayerID("bob"), results[0].Winner)

	for _, id := range []model.PlayerID{"alice", "bob"} {
		history, err := s.app.Storage.ListPlayerResults(s.ctx, id, 10)
		s.Require().NoError(err)
		s.Len(history, 1)
	}
}

// Test: a disconnect during a match behaves like leaving
func (s *IntegrationSuite) TestDisconnectAbandonsMatch() {
	s.startMatch(5)

	s.app.Engine.Apply(engine.Disconnect{Conn: "c2"})

	results := s.waitForResults(1)
	s.Equal(model.PlayerID("bob"), results[0].LeftBy)
	s.Equal(model.PlayerID("alice"), results[0].Winner)
}

// Test: the running engine answers roster and stats queries
func (s *IntegrationSuite) TestRunningEngineAnswersQueries() {
	runDone := make(chan error, 1)
	go func() { runDone <- s.app.Engine.Run(s.ctx) }()

	s.Require().NoError(s.app.Engine.Submit(s.ctx, engine.Register{Conn: "c1", ID: "alice", Balance: 3}))

	roster, err := s.app.Engine.Roster(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(roster, 1)
	s.Equal(model.PlayerID("alice"), roster[0].ID)
	s.Equal(3.0, roster[0].Balance)

	stats, err := s.app.Engine.Stats(s.ctx)
	s.Require().NoError(err)
	s.Equal(1, stats.Players)
	s.Equal(0, stats.Games)

	s.cancel()
	s.NoError(<-runDone)
}

type failingProvider struct{}

func (failingProvider) Balance(context.Context, model.PlayerID) (float64, error) {
	return 0, errors.New("node unreachable")
}

// Test: the resolver is wired to the configured provider
func (s *IntegrationSuite) TestResolverUsesProvider() {
	app := NewTestAppWithProvider(failingProvider{})

	got, guest := app.Resolver.Resolve(s.ctx, "0x00000000000000000000000000000000000000aa", 50, false)
	s.Equal(0.0, got)
	s.True(guest)

	got, guest = s.app.Resolver.Resolve(s.ctx, "alice", 50, false)
	s.Equal(50.0, got)
	s.False(guest)
}

func TestNewRejectsUnknownStorageType(t *testing.T) {
	_, err := New(Config{StorageType: "sqlite"})
	if err == nil {
		t.Fatal("expected error for unknown storage type")
	}
}

func TestNewRejectsInvalidTokenAddress(t *testing.T) {
	_, err := New(Config{EthRPCURL: "http://127.0.0.1:8545", EthTokenAddress: "not-an-address"})
	if err == nil {
		t.Fatal("expected error for invalid token address")
	}
}

func TestNewReleasesRedisWhenBalanceProviderFails(t *testing.T) {
	mini := miniredis.RunT(t)
	redisCfg := redisstorage.DefaultConfig()
	redisCfg.URL = "redis://" + mini.Addr()

	_, err := New(Config{
		StorageType:     StorageTypeRedis,
		RedisConfig:     &redisCfg,
		EthRPCURL:       "http://127.0.0.1:8545",
		EthTokenAddress: "not-an-address",
	})
	require.ErrorIs(t, err, model.ErrInvalidAddress)

	require.Eventually(t, func() bool {
		return mini.CurrentConnectionCount() == 0
	}, 2*time.Second, 10*time.Millisecond)
}
