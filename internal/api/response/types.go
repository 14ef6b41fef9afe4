package response

import (
	"time"

	"github.com/mcoot/wagerpong/internal/model"
)

// HealthResponse is the response for the health endpoint
type HealthResponse struct {
	Status string `json:"status"`
}

// Player represents a roster entry in API responses
type Player struct {
	ID      string  `json:"id"`
	Balance float64 `json:"balance"`
	Guest   bool    `json:"guest"`
}

// PlayersResponse is the response for listing the roster
type PlayersResponse struct {
	Players []Player `json:"players"`
}

// PlayersFromRoster converts roster summaries
func PlayersFromRoster(roster []model.PlayerSummary) PlayersResponse {
	players := make([]Player, 0, len(roster))
	for _, p := range roster {
		players = append(players, Player{
			ID:      string(p.ID),
			Balance: p.Balance,
			Guest:   p.Guest,
		})
	}
	return PlayersResponse{Players: players}
}

// StatsResponse is the response for the stats endpoint
type StatsResponse struct {
	Players      int `json:"players"`
	Games        int `json:"games"`
	ActiveGames  int `json:"active_games"`
	PendingGames int `json:"pending_games"`
	Connections  int `json:"connections"`
}

// StatsFromModel converts store counts plus the live connection count
func StatsFromModel(s model.Stats, connections int) StatsResponse {
	return StatsResponse{
		Players:      s.Players,
		Games:        s.Games,
		ActiveGames:  s.ActiveGames,
		PendingGames: s.PendingGames,
		Connections:  connections,
	}
}

// Result represents a match result in API responses
type Result struct {
	ID          string    `json:"id"`
	GameID      string    `json:"game_id"`
	Status      string    `json:"status"`
	Host        string    `json:"host"`
	Joiner      string    `json:"joiner"`
	HostScore   int       `json:"host_score"`
	JoinerScore int       `json:"joiner_score"`
	Bet         float64   `json:"bet"`
	Rounds      int       `json:"rounds"`
	Winner      string    `json:"winner,omitempty"`
	LeftBy      string    `json:"left_by,omitempty"`
	FinishedAt  time.Time `json:"finished_at"`
}

// ResultFromModel converts a model.MatchResult
func ResultFromModel(r *model.MatchResult) Result {
	return Result{
		ID:          string(r.ID),
		GameID:      string(r.GameID),
		Status:      string(r.Status),
		Host:        string(r.Host),
		Joiner:      string(r.Joiner),
		HostScore:   r.HostScore,
		JoinerScore: r.JoinerScore,
		Bet:         r.Bet,
		Rounds:      r.Rounds,
		Winner:      string(r.Winner),
		LeftBy:      string(r.LeftBy),
		FinishedAt:  r.FinishedAt,
	}
}

// ResultsResponse is the response for listing match results
type ResultsResponse struct {
	Results []Result `json:"results"`
}

// ResultsFromModel converts a list of results
func ResultsFromModel(results []*model.MatchResult) ResultsResponse {
	out := make([]Result, 0, len(results))
	for _, r := range results {
		out = append(out, ResultFromModel(r))
	}
	return ResultsResponse{Results: out}
}
