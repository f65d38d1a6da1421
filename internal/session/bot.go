package session

import "math/rand/v2"

// playerActions are the inputs a Bot interleaves between ticks.
var playerActions = []Action{ActionLeft, ActionRight, ActionDown, ActionDrop, ActionRotate}

// Bot generates a pseudo-random action stream. Each tick is preceded by up
// to MaxInputs player inputs. Two bots with the same seed generate the same
// stream.
type Bot struct {
	MaxInputs int

	rng *rand.Rand
}

// NewBot creates a bot seeded with seed. MaxInputs defaults to 3.
func NewBot(seed uint64) *Bot {
	return &Bot{
		MaxInputs: 3,
		rng:       rand.New(rand.NewPCG(seed, ^seed)),
	}
}

// Actions generates the actions for the given number of ticks. The result
// always ends with ActionNext and holds exactly ticks of them.
func (b *Bot) Actions(ticks int) []Action {
	var actions []Action
	for range ticks {
		if b.MaxInputs > 0 {
			for range b.rng.IntN(b.MaxInputs + 1) {
				actions = append(actions, playerActions[b.rng.IntN(len(playerActions))])
			}
		}
		actions = append(actions, ActionNext)
	}
	return actions
}
