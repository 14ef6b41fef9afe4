package engine

import "github.com/mcoot/wagerpong/internal/model"

// Command is a unit of work for the engine worker. Client events carry the
// connection they arrived on; queries carry a reply channel.
type Command interface {
	isCommand()
}

// Register binds an identity to a connection
type Register struct {
	Conn    model.ConnID
	ID      model.PlayerID
	Balance float64
	Guest   bool
}

// Unregister releases the connection's identity on request
type Unregister struct {
	Conn model.ConnID
}

// Invite offers a match to another player
type Invite struct {
	Conn   model.ConnID
	Target model.PlayerID
	Bet    float64
	Rounds int
}

// Accept takes up an invite from the given host
type Accept struct {
	Conn model.ConnID
	Host model.PlayerID
}

// Move shifts the sender's paddle by Delta
type Move struct {
	Conn  model.ConnID
	Delta float64
}

// Leave abandons the sender's current game
type Leave struct {
	Conn model.ConnID
}

// Disconnect is issued by the transport once a connection is gone
type Disconnect struct {
	Conn model.ConnID
}

// rosterQuery reads the current roster
type rosterQuery struct {
	reply chan []model.PlayerSummary
}

// statsQuery reads session store counts
type statsQuery struct {
	reply chan model.Stats
}

func (Register) isCommand()    {}
func (Unregister) isCommand()  {}
func (Invite) isCommand()      {}
func (Accept) isCommand()      {}
func (Move) isCommand()        {}
func (Leave) isCommand()       {}
func (Disconnect) isCommand()  {}
func (rosterQuery) isCommand() {}
func (statsQuery) isCommand()  {}
