package simulation

import (
	"github.com/mcoot/wagerpong/internal/dependencies/random"
	"github.com/mcoot/wagerpong/internal/model"
)

// Step advances an active game by one tick.
//
// A game whose cumulative score has reached its round target is not
// advanced. Step returns true exactly once per game, on the first tick that
// observes the target reached.
func Step(game *model.Game, host, joiner *model.RuntimeState, cfg model.GameConfig, rnd random.Random) bool {
	if host == nil || joiner == nil {
		panic("simulation: step on game " + string(game.ID) + " without two runtime states")
	}

	if reachedTarget(game, host, joiner) {
		return markFinished(game)
	}

	ball := &game.Ball
	ball.X += float64(ball.DX) * cfg.BallSpeed
	ball.Y += float64(ball.DY) * cfg.BallSpeed

	// Horizontal exit scores for the side the ball did not leave through
	if ball.X < 0 || ball.X > cfg.BoardWidth {
		if ball.X < 0 {
			joiner.Score++
		} else {
			host.Score++
		}
		ball.X, ball.Y = cfg.Center()
		ball.DX = direction(rnd)
		ball.DY = direction(rnd)
	}

	if ball.Y < 0 || ball.Y > cfg.BoardHeight {
		ball.DY = -ball.DY
	}

	if ball.X < cfg.PaddleDepth && overlapsPaddle(ball.Y, host.Position, cfg) {
		ball.DX = -ball.DX
	}
	if ball.X > cfg.BoardWidth-cfg.PaddleDepth && overlapsPaddle(ball.Y, joiner.Position, cfg) {
		ball.DX = -ball.DX
	}

	if reachedTarget(game, host, joiner) {
		return markFinished(game)
	}
	return false
}

// ClampPaddle pins a paddle position to the board
func ClampPaddle(position float64, cfg model.GameConfig) float64 {
	if position < 0 {
		return 0
	}
	if position > cfg.PaddleMax() {
		return cfg.PaddleMax()
	}
	return position
}

func reachedTarget(game *model.Game, host, joiner *model.RuntimeState) bool {
	return host.Score+joiner.Score >= game.Rounds
}

func markFinished(game *model.Game) bool {
	if game.Finished {
		return false
	}
	game.Finished = true
	return true
}

// overlapsPaddle checks the ball's vertical span against [position, position+PaddleHeight)
func overlapsPaddle(ballY, position float64, cfg model.GameConfig) bool {
	return ballY+cfg.BallSize > position && ballY < position+cfg.PaddleHeight
}

func direction(rnd random.Random) int {
	if rnd.Intn(2) == 0 {
		return 1
	}
	return -1
}
