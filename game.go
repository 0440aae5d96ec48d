package obscuro

import (
	"fmt"
	"iter"

	"golang.org/x/exp/rand"
)

// Reward is a payoff expressed from P1's point of view.
// P2 always receives the negation.
type Reward = float64

// Probability is a reach or action probability in [0, 1].
type Probability = float64

// Player represents the identity of a player in the game.
type Player uint8

const (
	P1 Player = iota
	P2
	Chance
)

const numPlayers = 3

var playerStr = [...]string{
	"P1",
	"P2",
	"Chance",
}

func (p Player) String() string {
	return playerStr[p]
}

// Other returns the opponent of p. Chance is its own opponent.
func (p Player) Other() Player {
	switch p {
	case P1:
		return P2
	case P2:
		return P1
	default:
		return p
	}
}

// Multiplier converts a P1 reward into p's own utility.
func (p Player) Multiplier() Reward {
	if p == P2 {
		return -1.0
	}

	return 1.0
}

// BestValue is the most favorable bounded reward for p.
func (p Player) BestValue() Reward {
	switch p {
	case P1:
		return 1.0
	case P2:
		return -1.0
	default:
		return 0.0
	}
}

// Ordering is the result of comparing two Traces in the
// knowledge partial order.
type Ordering int8

const (
	Incomparable Ordering = iota
	Less
	Equal
	Greater
)

var orderingStr = [...]string{
	"Incomparable",
	"Less",
	"Equal",
	"Greater",
}

func (o Ordering) String() string {
	return orderingStr[o]
}

// Reverse flips Less and Greater.
func (o Ordering) Reverse() Ordering {
	switch o {
	case Less:
		return Greater
	case Greater:
		return Less
	default:
		return o
	}
}

// Trace is everything a single player has observed: their own actions
// and the public observations distinguishable to them.
//
// Two Traces with equal Keys denote the same information set. Compare
// must implement the partial order: a.Compare(b) == Less iff a is a strict
// ancestor of b, and Incomparable for mutually exclusive branches.
type Trace interface {
	Key() string
	Compare(other Trace) Ordering
}

// Action is a move available to the active player. Implementations must
// be comparable with ==.
type Action interface {
	fmt.Stringer
}

// Game is the contract an imperfect-information, two-player, zero-sum
// game must satisfy to be searched. Implementations must be immutable:
// Play returns a new state and never modifies the receiver.
type Game interface {
	// Trace returns what the given player knows in this state.
	Trace(player Player) Trace
	// ActivePlayer is the player to act, which may be Chance.
	ActivePlayer() Player
	// AvailableActions is empty iff the game is over.
	AvailableActions() []Action
	Play(action Action) Game
	IsOver() bool
	// Evaluate is exact at terminal states and a heuristic elsewhere.
	Evaluate() Reward
	// SamplePosition lazily yields states consistent with the given
	// trace, as seen by its owner. It need not be exhaustive.
	SamplePosition(t Trace) iter.Seq[Game]
}

// ChanceSampler is implemented by games that can draw a chance outcome
// directly instead of choosing among every available action.
type ChanceSampler interface {
	SampleChance(rng *rand.Rand) Action
}

// SampleChance draws the chance action at g. Outcomes are uniform over
// AvailableActions unless g is a ChanceSampler.
func SampleChance(g Game, rng *rand.Rand) Action {
	if g.ActivePlayer() != Chance {
		panic(fmt.Errorf("%v is to act, not chance", g.ActivePlayer()))
	}
	if cs, ok := g.(ChanceSampler); ok {
		return cs.SampleChance(rng)
	}

	actions := g.AvailableActions()
	return actions[rng.Intn(len(actions))]
}

// identifier fully identifies a state by what both players know.
func identifier(g Game) string {
	hero := g.ActivePlayer()
	if hero == Chance {
		hero = P1
	}

	return g.Trace(hero).Key() + "|" + g.Trace(hero.Other()).Key()
}
