package storage

import (
	"context"

	"github.com/mcoot/wagerpong/internal/model"
)

// Storage defines the interface for data that outlives a single match.
// Live sessions are never persisted.
type Storage interface {
	// Match result operations
	SaveMatchResult(ctx context.Context, result *model.MatchResult) error
	GetMatchResult(ctx context.Context, id model.ResultID) (*model.MatchResult, error)
	// ListMatchResults returns the newest results first. A limit <= 0 returns all.
	ListMatchResults(ctx context.Context, limit int) ([]*model.MatchResult, error)
	ListPlayerResults(ctx context.Context, playerID model.PlayerID, limit int) ([]*model.MatchResult, error)

	// Balance cache operations
	SaveBalance(ctx context.Context, playerID model.PlayerID, balance float64) error
	GetBalance(ctx context.Context, playerID model.PlayerID) (float64, error)
}
