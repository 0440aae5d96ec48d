// Package rps implements sequential rock-paper-scissors in which P2
// throws without seeing P1's throw. A win with Rock pays 5, any other
// win pays 1.
package rps

import (
	"fmt"
	"iter"

	"github.com/timpalpant/obscuro"
	"github.com/timpalpant/obscuro/trace"
)

type Throw uint8

const (
	Rock Throw = iota + 1
	Paper
	Scissors
)

var throwStr = [...]string{
	"?",
	"Rock",
	"Paper",
	"Scissors",
}

func (t Throw) String() string {
	return throwStr[t]
}

// Beats returns whether t wins against other.
func (t Throw) Beats(other Throw) bool {
	switch t {
	case Rock:
		return other == Scissors
	case Paper:
		return other == Rock
	case Scissors:
		return other == Paper
	default:
		return false
	}
}

const rockBonus = 5.0

var actions = []obscuro.Action{Rock, Paper, Scissors}

// Payoffs is the payoff matrix for P1, indexed by the throws of P1 and
// P2 in the order Rock, Paper, Scissors.
func Payoffs() [][]float64 {
	result := make([][]float64, len(actions))
	for i, a := range actions {
		result[i] = make([]float64, len(actions))
		for j, b := range actions {
			result[i][j] = payoff(a.(Throw), b.(Throw))
		}
	}
	return result
}

func payoff(p1, p2 Throw) obscuro.Reward {
	switch {
	case p1.Beats(p2):
		if p1 == Rock {
			return rockBonus
		}
		return 1.0
	case p2.Beats(p1):
		if p2 == Rock {
			return -rockBonus
		}
		return -1.0
	default:
		return 0.0
	}
}

// Game is an immutable state of rock-paper-scissors.
type Game struct {
	history trace.Sequence
	throws  [2]Throw
}

var _ obscuro.Game = Game{}

func New() obscuro.Game {
	return Game{}
}

func (g Game) Trace(player obscuro.Player) obscuro.Trace {
	return g.history.ViewedBy(player)
}

func (g Game) ActivePlayer() obscuro.Player {
	if g.throws[obscuro.P1] == 0 {
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

	throw, ok := action.(Throw)
	if !ok || throw < Rock || throw > Scissors {
		panic(fmt.Errorf("illegal action: %v", action))
	}

	player := g.ActivePlayer()
	g.throws[player] = throw
	g.history.Append(trace.Observation{
		Player:  player,
		Public:  1,
		Private: uint32(throw),
	})
	return g
}

func (g Game) IsOver() bool {
	return g.throws[obscuro.P2] != 0
}

func (g Game) Evaluate() obscuro.Reward {
	if !g.IsOver() {
		return 0.0
	}

	return payoff(g.throws[obscuro.P1], g.throws[obscuro.P2])
}

func (g Game) SamplePosition(t obscuro.Trace) iter.Seq[obscuro.Game] {
	return trace.Consistent(New(), t)
}

func (g Game) String() string {
	return fmt.Sprintf("rps%v", g.throws)
}
