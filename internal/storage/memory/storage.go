package memory

import (
	"context"
	"sync"
	"time"

	"github.com/mcoot/wagerpong/internal/dependencies/clock"
	"github.com/mcoot/wagerpong/internal/model"
	"github.com/mcoot/wagerpong/internal/storage"
)

// DefaultBalanceTTL is how long a cached balance stays valid
const DefaultBalanceTTL = 5 * time.Minute

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	clock      clock.Clock
	balanceTTL time.Duration

	results     map[model.ResultID]*model.MatchResult
	resultOrder []model.ResultID // oldest first
	balances    map[model.PlayerID]cachedBalance
}

type cachedBalance struct {
	value     float64
	expiresAt time.Time
}

// New creates a new in-memory storage instance
func New() *Storage {
	return NewWithClock(clock.New(), DefaultBalanceTTL)
}

// NewWithClock creates an in-memory storage whose balance cache expires
// against the given clock
func NewWithClock(clock clock.Clock, balanceTTL time.Duration) *Storage {
	return &Storage{
		clock:      clock,
		balanceTTL: balanceTTL,
		results:    make(map[model.ResultID]*model.MatchResult),
		balances:   make(map[model.PlayerID]cachedBalance),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Match result operations

func (s *Storage) SaveMatchResult(ctx context.Context, result *model.MatchResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.results[result.ID]; !ok {
		s.resultOrder = append(s.resultOrder, result.ID)
	}
	s.results[result.ID] = result
	return nil
}

func (s *Storage) GetMatchResult(ctx context.Context, id model.ResultID) (*model.MatchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result, ok := s.results[id]
	if !ok {
		return nil, model.ErrResultNotFound
	}
	return result, nil
}

func (s *Storage) ListMatchResults(ctx context.Context, limit int) ([]*model.MatchResult, error) {
	return s.listResults(limit, func(*model.MatchResult) bool { return true }), nil
}

func (s *Storage) ListPlayerResults(ctx context.Context, playerID model.PlayerID, limit int) ([]*model.MatchResult, error) {
	return s.listResults(limit, func(r *model.MatchResult) bool {
		return r.Host == playerID || r.Joiner == playerID
	}), nil
}

func (s *Storage) listResults(limit int, match func(*model.MatchResult) bool) []*model.MatchResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	results := []*model.MatchResult{}
	for i := len(s.resultOrder) - 1; i >= 0; i-- {
		r := s.results[s.resultOrder[i]]
		if !match(r) {
			continue
		}
		results = append(results, r)
		if limit > 0 && len(results) == limit {
			break
		}
	}
	return results
}

// Balance cache operations

func (s *Storage) SaveBalance(ctx context.Context, playerID model.PlayerID, balance float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.balances[playerID] = cachedBalance{
		value:     balance,
		expiresAt: s.clock.Now().Add(s.balanceTTL),
	}
	return nil
}

func (s *Storage) GetBalance(ctx context.Context, playerID model.PlayerID) (float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cached, ok := s.balances[playerID]
	if !ok || !s.clock.Now().Before(cached.expiresAt) {
		return 0, model.ErrBalanceNotCached
	}
	return cached.value, nil
}
