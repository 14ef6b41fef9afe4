package redis

import (
	"fmt"

	"github.com/mcoot/wagerpong/internal/model"
)

// Key prefix for all wagerpong data
const keyPrefix = "wagerpong"

// resultKey returns the Redis key for a MatchResult
func resultKey(id model.ResultID) string {
	return fmt.Sprintf("%s:result:%s", keyPrefix, id)
}

// resultsIndexKey returns the Redis key for the ZSET of all results scored by finish time
func resultsIndexKey() string {
	return fmt.Sprintf("%s:idx:results", keyPrefix)
}

// playerResultsIndexKey returns the Redis key for the ZSET of a player's results
func playerResultsIndexKey(playerID model.PlayerID) string {
	return fmt.Sprintf("%s:idx:player_results:%s", keyPrefix, playerID)
}

// balanceKey returns the Redis key for a cached balance
func balanceKey(playerID model.PlayerID) string {
	return fmt.Sprintf("%s:balance:%s", keyPrefix, playerID)
}
