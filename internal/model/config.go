package model

import "time"

// GameConfig holds the static parameters shared by the simulation and the projection
type GameConfig struct {
	BoardWidth   float64
	BoardHeight  float64
	BallSize     float64
	PaddleHeight float64
	PaddleDepth  float64 // distance of each paddle plane from its edge
	BallSpeed    float64
	PaddleSpeed  float64
	TickInterval time.Duration
}

// DefaultGameConfig returns the default game configuration
func DefaultGameConfig() GameConfig {
	return GameConfig{
		BoardWidth:   750,
		BoardHeight:  480,
		BallSize:     16,
		PaddleHeight: 64,
		PaddleDepth:  8,
		BallSpeed:    1,
		PaddleSpeed:  1,
		TickInterval: 5 * time.Millisecond,
	}
}

// PaddleStart is the vertical mid-board paddle position given to players entering a game
func (c GameConfig) PaddleStart() float64 {
	return (c.BoardHeight - c.PaddleHeight) / 2
}

// PaddleMax is the largest position a paddle may take
func (c GameConfig) PaddleMax() float64 {
	return c.BoardHeight - c.PaddleHeight
}

// Center returns the ball's reset position
func (c GameConfig) Center() (float64, float64) {
	return c.BoardWidth / 2, c.BoardHeight / 2
}
