package model

import "errors"

// Common errors used across the application
var (
	// Registration errors
	ErrDuplicateRegistration = errors.New("player already registered")
	ErrInvalidSender         = errors.New("invalid player")

	// Invite errors
	ErrInvalidTarget = errors.New("invalid player invited")
	ErrInvalidHost   = errors.New("invalid host player")
	ErrSelfInvite    = errors.New("cannot invite yourself")
	ErrNoSuchInvite  = errors.New("no invite found for the player")

	// Game errors
	ErrGameNotFound    = errors.New("game not found")
	ErrAlreadyInGame   = errors.New("player is already in a game")
	ErrGameFull        = errors.New("game is full")
	ErrPlayerNotInGame = errors.New("player is not in the game")

	// Storage errors
	ErrResultNotFound   = errors.New("match result not found")
	ErrBalanceNotCached = errors.New("balance not cached")

	// Protocol errors
	ErrUnknownEvent   = errors.New("unknown event")
	ErrInvalidPayload = errors.New("invalid payload")

	// Balance errors
	ErrInvalidAddress = errors.New("identity is not a wallet address")
)
