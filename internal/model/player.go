package model

import "time"

// PlayerID is the identity a player registered with. Guests get a random
// identity, wallet users register with their address.
type PlayerID string

// ConnID identifies a single client connection
type ConnID string

// Invite is a pending invitation held by the invitee
type Invite struct {
	From   PlayerID
	Bet    float64
	Rounds int
}

// RuntimeState is a player's per-match state, present only while in a game
type RuntimeState struct {
	Score    int
	Position float64 // top edge of the paddle
}

// Player represents a registered participant, keyed by identity and connection
type Player struct {
	ID      PlayerID
	Conn    ConnID
	Balance float64
	Guest   bool

	// Invites received, keyed by inviter
	Invites map[PlayerID]Invite

	// Game is a lookup handle into the session store; empty when idle
	Game  GameID
	State *RuntimeState

	JoinedAt time.Time
}

// InGame returns true if the player currently occupies a game slot
func (p *Player) InGame() bool {
	return p.Game != ""
}
