package model

import "time"

// ResultID uniquely identifies a recorded match result
type ResultID string

// ResultStatus describes how a match ended
type ResultStatus string

const (
	ResultCompleted ResultStatus = "completed" // score reached the round target
	ResultAbandoned ResultStatus = "abandoned" // a player left before the end
)

// MatchResult is the record of a finished or abandoned match
type MatchResult struct {
	ID          ResultID     `json:"id"`
	GameID      GameID       `json:"game_id"`
	Status      ResultStatus `json:"status"`
	Host        PlayerID     `json:"host"`
	Joiner      PlayerID     `json:"joiner"`
	HostScore   int          `json:"host_score"`
	JoinerScore int          `json:"joiner_score"`
	Bet         float64      `json:"bet"`
	Rounds      int          `json:"rounds"`
	Winner      PlayerID     `json:"winner,omitempty"`  // empty on a tie
	LeftBy      PlayerID     `json:"left_by,omitempty"` // set when abandoned
	FinishedAt  time.Time    `json:"finished_at"`
}
