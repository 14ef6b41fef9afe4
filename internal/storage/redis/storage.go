package redis

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/wagerpong/internal/model"
	"github.com/mcoot/wagerpong/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Match result operations

func (s *Storage) SaveMatchResult(ctx context.Context, result *model.MatchResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}

	member := redis.Z{
		Score:  float64(result.FinishedAt.UnixNano()),
		Member: string(result.ID),
	}

	// Use pipeline for atomic save + index updates
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, resultKey(result.ID), data, s.cfg.ResultTTL)
	pipe.ZAdd(ctx, resultsIndexKey(), member)
	pipe.ZAdd(ctx, playerResultsIndexKey(result.Host), member)
	pipe.ZAdd(ctx, playerResultsIndexKey(result.Joiner), member)
	if s.cfg.ResultTTL > 0 {
		// Index members older than the result TTL point at expired keys.
		cutoff := strconv.FormatInt(result.FinishedAt.Add(-s.cfg.ResultTTL).UnixNano(), 10)
		for _, key := range []string{
			resultsIndexKey(),
			playerResultsIndexKey(result.Host),
			playerResultsIndexKey(result.Joiner),
		} {
			pipe.ZRemRangeByScore(ctx, key, "-inf", "("+cutoff)
			pipe.Expire(ctx, key, s.cfg.ResultTTL)
		}
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetMatchResult(ctx context.Context, id model.ResultID) (*model.MatchResult, error) {
	data, err := s.client.Get(ctx, resultKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrResultNotFound
		}
		return nil, err
	}

	var result model.MatchResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *Storage) ListMatchResults(ctx context.Context, limit int) ([]*model.MatchResult, error) {
	return s.listFromIndex(ctx, resultsIndexKey(), limit)
}

func (s *Storage) ListPlayerResults(ctx context.Context, playerID model.PlayerID, limit int) ([]*model.MatchResult, error) {
	return s.listFromIndex(ctx, playerResultsIndexKey(playerID), limit)
}

func (s *Storage) listFromIndex(ctx context.Context, indexKey string, limit int) ([]*model.MatchResult, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit - 1)
	}

	ids, err := s.client.ZRevRange(ctx, indexKey, 0, stop).Result()
	if err != nil {
		return nil, err
	}

	if len(ids) == 0 {
		return []*model.MatchResult{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = resultKey(model.ResultID(id))
	}

	// Fetch all results in one round trip using MGET
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	results := make([]*model.MatchResult, 0, len(values))
	for _, val := range values {
		if val == nil {
			continue // Result may have expired
		}
		var result model.MatchResult
		if err := json.Unmarshal([]byte(val.(string)), &result); err != nil {
			continue // Skip invalid data
		}
		results = append(results, &result)
	}
	return results, nil
}

// Balance cache operations

func (s *Storage) SaveBalance(ctx context.Context, playerID model.PlayerID, balance float64) error {
	return s.client.Set(ctx, balanceKey(playerID), balance, s.cfg.BalanceTTL).Err()
}

func (s *Storage) GetBalance(ctx context.Context, playerID model.PlayerID) (float64, error) {
	balance, err := s.client.Get(ctx, balanceKey(playerID)).Float64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, model.ErrBalanceNotCached
		}
		return 0, err
	}
	return balance, nil
}
