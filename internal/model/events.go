package model

// EventName identifies a named event on a client connection
type EventName string

const (
	// Client to server
	EventRegister   EventName = "register"
	EventUnregister EventName = "unregister"
	EventInvite     EventName = "invite"
	EventAccept     EventName = "accept"
	EventMove       EventName = "move"
	EventLeave      EventName = "leave"

	// Server to client
	EventPlayers EventName = "players"
	EventInvites EventName = "invites"
	EventGame    EventName = "game"
	EventClose   EventName = "close"
	EventError   EventName = "error"
)

// Notification is a single outbound event addressed to one connection
type Notification struct {
	To      ConnID
	Event   EventName
	Payload any // nil for events without data
}

// PlayerSummary is a roster entry
type PlayerSummary struct {
	ID      PlayerID `json:"id"`
	Balance float64  `json:"balance"`
	Guest   bool     `json:"guest"`
}

// InviteSummary is a pending invite as seen by its recipient
type InviteSummary struct {
	ID     PlayerID `json:"id"`
	Bet    float64  `json:"bet"`
	Rounds int      `json:"rounds"`
}

// BallPosition is the viewer-relative ball position
type BallPosition struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// GameSnapshot is the per-viewer projection of a game sent every tick
type GameSnapshot struct {
	ID            GameID       `json:"id"`
	Rounds        int          `json:"rounds"`
	Bet           float64      `json:"bet"`
	OpponentID    PlayerID     `json:"opponentId"`
	Ball          BallPosition `json:"ball"`
	You           float64      `json:"you"`
	Opponent      float64      `json:"opponent"`
	YourScore     int          `json:"yourScore"`
	OpponentScore int          `json:"oppenentScore"` // wire name kept for client compatibility
}

// ErrorPayload carries a handler failure back to the originating connection
type ErrorPayload struct {
	Message string `json:"message"`
}

// Stats is a point-in-time count of the session store
type Stats struct {
	Players      int `json:"players"`
	Games        int `json:"games"`
	ActiveGames  int `json:"active_games"`
	PendingGames int `json:"pending_games"`
}
