package ws

import (
	"encoding/json"

	"github.com/mcoot/wagerpong/internal/model"
)

// Envelope is a named event travelling in either direction.
// Data is omitted for events that carry none.
type Envelope struct {
	Event model.EventName `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// RegisterRequest is the payload of a register event
type RegisterRequest struct {
	ID      string  `json:"id"`
	Balance float64 `json:"balance"`
	Guest   bool    `json:"guest"`
}

// InviteRequest is the payload of an invite event
type InviteRequest struct {
	ID     string  `json:"id"`
	Bet    float64 `json:"bet"`
	Rounds int     `json:"rounds"`
}

// AcceptRequest is the payload of an accept event
type AcceptRequest struct {
	ID string `json:"id"`
}

// MoveRequest is the payload of a move event. Position is a relative delta.
type MoveRequest struct {
	Position float64 `json:"position"`
}

type outbound struct {
	Event model.EventName `json:"event"`
	Data  any             `json:"data,omitempty"`
}

// Encode serializes an outbound event
func Encode(event model.EventName, payload any) ([]byte, error) {
	return json.Marshal(outbound{Event: event, Data: payload})
}
