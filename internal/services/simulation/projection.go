package simulation

import "github.com/mcoot/wagerpong/internal/model"

// Project builds the snapshot of an active game as seen by the player in the
// given slot. Every viewer sees itself on the left: the ball's x is mirrored
// for the joiner and you/opponent fields are picked by slot.
func Project(game *model.Game, host, joiner *model.Player, viewer int, cfg model.GameConfig) model.GameSnapshot {
	self, other := host, joiner
	x := game.Ball.X
	if viewer == model.SlotJoiner {
		self, other = joiner, host
		x = cfg.BoardWidth - game.Ball.X
	}

	return model.GameSnapshot{
		ID:            game.ID,
		Rounds:        game.Rounds,
		Bet:           game.Bet,
		OpponentID:    other.ID,
		Ball:          model.BallPosition{X: x, Y: game.Ball.Y},
		You:           self.State.Position,
		Opponent:      other.State.Position,
		YourScore:     self.State.Score,
		OpponentScore: other.State.Score,
	}
}

// Broadcast projects an active game for both participants, one notification each
func Broadcast(game *model.Game, host, joiner *model.Player, cfg model.GameConfig) []model.Notification {
	return []model.Notification{
		{
			To:      host.Conn,
			Event:   model.EventGame,
			Payload: Project(game, host, joiner, model.SlotHost, cfg),
		},
		{
			To:      joiner.Conn,
			Event:   model.EventGame,
			Payload: Project(game, host, joiner, model.SlotJoiner, cfg),
		},
	}
}
