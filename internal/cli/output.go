package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case PlayersResult:
		o.printPlayers(v)
	case StatsResult:
		o.printStats(v)
	case Result:
		o.printResult(v)
	case ResultsResult:
		o.printResults(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Player response type (matches API)
type Player struct {
	ID      string  `json:"id"`
	Balance float64 `json:"balance"`
	Guest   bool    `json:"guest"`
}

// PlayersResult response type
type PlayersResult struct {
	Players []Player `json:"players"`
}

// StatsResult response type
type StatsResult struct {
	Players      int `json:"players"`
	Games        int `json:"games"`
	ActiveGames  int `json:"active_games"`
	PendingGames int `json:"pending_games"`
	Connections  int `json:"connections"`
}

// Result response type
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

// ResultsResult response type
type ResultsResult struct {
	Results []Result `json:"results"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printPlayers(p PlayersResult) {
	fmt.Printf("Players (%d):\n", len(p.Players))
	for _, player := range p.Players {
		if player.Guest {
			fmt.Printf("  - %s [guest]\n", player.ID)
		} else {
			fmt.Printf("  - %s (balance %g)\n", player.ID, player.Balance)
		}
	}
}

func (o *Output) printStats(s StatsResult) {
	fmt.Printf("Players: %d\n", s.Players)
	fmt.Printf("Connections: %d\n", s.Connections)
	fmt.Printf("Games: %d (%d active, %d pending)\n", s.Games, s.ActiveGames, s.PendingGames)
}

func (o *Output) printResult(r Result) {
	fmt.Printf("Result: %s\n", r.ID)
	fmt.Printf("Game: %s\n", r.GameID)
	fmt.Printf("Status: %s\n", r.Status)
	fmt.Printf("Score: %s %d - %d %s\n", r.Host, r.HostScore, r.JoinerScore, r.Joiner)
	fmt.Printf("Bet: %g over %d rounds\n", r.Bet, r.Rounds)
	if r.Winner != "" {
		fmt.Printf("Winner: %s\n", r.Winner)
	} else {
		fmt.Println("Winner: tie")
	}
	if r.LeftBy != "" {
		fmt.Printf("Left by: %s\n", r.LeftBy)
	}
	fmt.Printf("Finished: %s\n", r.FinishedAt.Format(time.RFC3339))
}

func (o *Output) printResults(r ResultsResult) {
	if len(r.Results) == 0 {
		fmt.Println("No results")
		return
	}
	for _, res := range r.Results {
		winner := res.Winner
		if winner == "" {
			winner = "tie"
		}
		fmt.Printf("%s  %s  %s %d - %d %s  winner=%s\n",
			res.FinishedAt.Format("2006-01-02 15:04:05"), res.Status,
			res.Host, res.HostScore, res.JoinerScore, res.Joiner, winner)
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}
