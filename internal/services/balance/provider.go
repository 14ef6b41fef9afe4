package balance

import (
	"context"
	"errors"
	"log/slog"

	"github.com/mcoot/wagerpong/internal/model"
	"github.com/mcoot/wagerpong/internal/storage"
)

// Provider looks up the token balance held by an identity
type Provider interface {
	Balance(ctx context.Context, id model.PlayerID) (float64, error)
}

// Resolver decides the balance a registrant starts with.
// With no provider configured the client-reported balance is trusted.
type Resolver struct {
	provider Provider
	logger   *slog.Logger
}

// NewResolver creates a new Resolver. provider may be nil.
func NewResolver(provider Provider, logger *slog.Logger) *Resolver {
	return &Resolver{
		provider: provider,
		logger:   logger.With(slog.String("component", "balance")),
	}
}

// Resolve returns the balance and guest flag to register with.
// Guests always start at zero. A failed lookup degrades the registrant to
// a guest instead of failing registration.
func (r *Resolver) Resolve(ctx context.Context, id model.PlayerID, reported float64, guest bool) (float64, bool) {
	if guest {
		return 0, true
	}
	if r.provider == nil {
		return reported, false
	}

	balance, err := r.provider.Balance(ctx, id)
	if err != nil {
		r.logger.Warn("balance lookup failed, registering as guest",
			slog.String("player_id", string(id)),
			slog.String("error", err.Error()),
		)
		return 0, true
	}
	return balance, false
}

// Cached fronts a Provider with the storage balance cache
type Cached struct {
	next    Provider
	storage storage.Storage
	logger  *slog.Logger
}

// NewCached creates a Provider that serves balances from storage when cached
func NewCached(next Provider, storage storage.Storage, logger *slog.Logger) *Cached {
	return &Cached{
		next:    next,
		storage: storage,
		logger:  logger.With(slog.String("component", "balance_cache")),
	}
}

// Balance returns the cached balance, falling through to the wrapped provider on a miss
func (c *Cached) Balance(ctx context.Context, id model.PlayerID) (float64, error) {
	cached, err := c.storage.GetBalance(ctx, id)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, model.ErrBalanceNotCached) {
		c.logger.Warn("balance cache read failed",
			slog.String("player_id", string(id)),
			slog.String("error", err.Error()),
		)
	}

	balance, err := c.next.Balance(ctx, id)
	if err != nil {
		return 0, err
	}

	if err := c.storage.SaveBalance(ctx, id, balance); err != nil {
		c.logger.Warn("balance cache write failed",
			slog.String("player_id", string(id)),
			slog.String("error", err.Error()),
		)
	}
	return balance, nil
}
