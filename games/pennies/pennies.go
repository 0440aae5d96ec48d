// Package pennies implements sequential matching pennies. P1 places a
// coin face down, then P2 places theirs without seeing it. P1 wins if
// the coins match.
package pennies

import (
	"fmt"
	"iter"

	"github.com/timpalpant/obscuro"
	"github.com/timpalpant/obscuro/trace"
)

type Side uint8

const (
	Heads Side = iota + 1
	Tails
)

func (s Side) String() string {
	switch s {
	case Heads:
		return "Heads"
	case Tails:
		return "Tails"
	default:
		return "?"
	}
}

var actions = []obscuro.Action{Heads, Tails}

// Game is an immutable state of matching pennies.
type Game struct {
	history trace.Sequence
	coins   [2]Side
}

var _ obscuro.Game = Game{}

func New() obscuro.Game {
	return Game{}
}

func (g Game) Trace(player obscuro.Player) obscuro.Trace {
	return g.history.ViewedBy(player)
}

func (g Game) ActivePlayer() obscuro.Player {
	if g.coins[obscuro.P1] == 0 {
		return obscuro.P1
	}

	return obscuro.P2
}

func (g Game) AvailableActions() []obscuro.Action {
	if g.IsOver() {
		return nil
	}

	return actions
}

func (g Game) Play(action obscuro.Action) obscuro.Game {
	if g.IsOver() {
		panic(fmt.Errorf("cannot play %v: game is over", action))
	}

	side, ok := action.(Side)
	if !ok || (side != Heads && side != Tails) {
		panic(fmt.Errorf("illegal action: %v", action))
	}

	player := g.ActivePlayer()
	g.coins[player] = side
	g.history.Append(trace.Observation{
		Player:  player,
		Public:  1,
		Private: uint32(side),
	})
	return g
}

func (g Game) IsOver() bool {
	return g.coins[obscuro.P2] != 0
}

func (g Game) Evaluate() obscuro.Reward {
	if !g.IsOver() {
		return 0.0
	}

	if g.coins[obscuro.P1] == g.coins[obscuro.P2] {
		return 1.0
	}

	return -1.0
}

func (g Game) SamplePosition(t obscuro.Trace) iter.Seq[obscuro.Game] {
	return trace.Consistent(New(), t)
}

func (g Game) String() string {
	return fmt.Sprintf("pennies%v", g.coins)
}
