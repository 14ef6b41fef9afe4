package model

import "time"

// GameID uniquely identifies a game
type GameID string

// Slot indices within Game.Players
const (
	SlotHost   = 0 // left side, creator of the game
	SlotJoiner = 1 // right side, the player who accepted
)

// Ball holds the ball position and its unit direction on each axis
type Ball struct {
	X  float64
	Y  float64
	DX int // -1 or +1
	DY int // -1 or +1
}

// Game is a single match between a host and a joiner
type Game struct {
	ID     GameID
	Bet    float64
	Rounds int // target total score across both players
	Ball   Ball

	// Players in slot order, 1 while pending and 2 once active
	Players []PlayerID

	// Finished is set on the tick the score first reaches Rounds
	Finished bool

	CreatedAt time.Time
}

// IsActive returns true once both slots are occupied
func (g *Game) IsActive() bool {
	return len(g.Players) == 2
}

// SlotOf returns the slot the player occupies
func (g *Game) SlotOf(id PlayerID) (int, bool) {
	for i, p := range g.Players {
		if p == id {
			return i, true
		}
	}
	return -1, false
}

// Opponent returns the identity in the other slot, if any
func (g *Game) Opponent(id PlayerID) (PlayerID, bool) {
	for _, p := range g.Players {
		if p != id {
			return p, true
		}
	}
	return "", false
}
