// Package liarsdie implements two-player liar's dice. Each player
// secretly rolls the same number of dice, then players alternate raising
// a bid on how many dice across both hands show a face, with ones wild.
// Instead of raising, a player may call the previous bid a bluff.
package liarsdie

import (
	"fmt"
	"iter"

	"github.com/timpalpant/obscuro"
	"github.com/timpalpant/obscuro/trace"
)

const DefaultDicePerPlayer = 1

// MaxDicePerPlayer is bounded by the bits per face in a Hand.
const MaxDicePerPlayer = maxCountPerFace

// Roll is the chance action that rolls one die.
type Roll Face

func (r Roll) String() string {
	return fmt.Sprintf("Roll(%d)", r)
}

// Bid claims that at least Count dice across both hands show Face.
type Bid struct {
	Count int
	Face  Face
}

func (b Bid) String() string {
	return fmt.Sprintf("%dx%d", b.Count, b.Face)
}

// Less orders bids by count, then by face.
func (b Bid) Less(other Bid) bool {
	if b.Count != other.Count {
		return b.Count < other.Count
	}
	return b.Face < other.Face
}

// Bluff calls the previous bid.
type Bluff struct{}

func (Bluff) String() string {
	return "Bluff"
}

const bluffCode = 1

func (b Bid) code() uint16 {
	return uint16(2 + (b.Count-1)*(NumFaces-1) + int(b.Face-2))
}

var rollActions = []obscuro.Action{Roll(1), Roll(2), Roll(3), Roll(4), Roll(5), Roll(6)}

// Game is an immutable state of liar's dice.
type Game struct {
	history       trace.Sequence
	dicePerPlayer int
	hands         [2]Hand
	lastBid       Bid
	numBids       int
	called        bool
}

var _ obscuro.Game = Game{}

// New starts a game with the default number of dice.
func New() obscuro.Game {
	return NewWithDice(DefaultDicePerPlayer)
}

func NewWithDice(dicePerPlayer int) obscuro.Game {
	if dicePerPlayer < 1 || dicePerPlayer > MaxDicePerPlayer {
		panic(fmt.Errorf("dice per player must be in [1, %d], got %d",
			MaxDicePerPlayer, dicePerPlayer))
	}

	return Game{dicePerPlayer: dicePerPlayer}
}

func (g Game) Hand(player obscuro.Player) Hand {
	return g.hands[player]
}

func (g Game) LastBid() Bid {
	return g.lastBid
}

func (g Game) totalDice() int {
	return 2 * g.dicePerPlayer
}

func (g Game) maxBid() Bid {
	return Bid{Count: g.totalDice(), Face: NumFaces}
}

// rolling is the player whose next die is to be rolled, if any.
func (g Game) rolling() (obscuro.Player, bool) {
	for _, p := range []obscuro.Player{obscuro.P1, obscuro.P2} {
		if g.hands[p].Len() < g.dicePerPlayer {
			return p, true
		}
	}

	return obscuro.Chance, false
}

func (g Game) Trace(player obscuro.Player) obscuro.Trace {
	return g.history.ViewedBy(player)
}

func (g Game) ActivePlayer() obscuro.Player {
	if _, ok := g.rolling(); ok {
		return obscuro.Chance
	} else if g.numBids%2 == 0 {
		return obscuro.P1
	}

	return obscuro.P2
}

func (g Game) AvailableActions() []obscuro.Action {
	if g.IsOver() {
		return nil
	} else if _, ok := g.rolling(); ok {
		return rollActions
	}

	var result []obscuro.Action
	if g.numBids > 0 {
		result = append(result, Bluff{})
	}

	for count := 1; count <= g.totalDice(); count++ {
		for face := Face(2); face <= NumFaces; face++ {
			bid := Bid{Count: count, Face: face}
			if g.numBids == 0 || g.lastBid.Less(bid) {
				result = append(result, bid)
			}
		}
	}

	return result
}

func (g Game) Play(action obscuro.Action) obscuro.Game {
	if g.IsOver() {
		panic(fmt.Errorf("cannot play %v: game is over", action))
	}

	if player, ok := g.rolling(); ok {
		roll, ok := action.(Roll)
		if !ok {
			panic(fmt.Errorf("non-roll action attempted before bidding: %v", action))
		}

		g.hands[player].Add(Face(roll))
		g.history.Append(trace.Observation{Player: player, Private: uint32(roll)})
		return g
	}

	player := g.ActivePlayer()
	switch a := action.(type) {
	case Bluff:
		if g.numBids == 0 {
			panic(fmt.Errorf("cannot call bluff before any bid"))
		}
		g.called = true
		g.history.Append(trace.Observation{Player: player, Public: bluffCode})
	case Bid:
		if a.Face < 2 || a.Face > NumFaces || a.Count < 1 || a.Count > g.totalDice() {
			panic(fmt.Errorf("invalid bid: %v", a))
		} else if g.numBids > 0 && !g.lastBid.Less(a) {
			panic(fmt.Errorf("bid %v does not raise %v", a, g.lastBid))
		}
		g.lastBid = a
		g.numBids++
		g.history.Append(trace.Observation{Player: player, Public: a.code()})
	default:
		panic(fmt.Errorf("illegal action: %v", action))
	}

	return g
}

func (g Game) IsOver() bool {
	return g.called || (g.numBids > 0 && g.lastBid == g.maxBid())
}

// Evaluate pays 1 to the last bidder if the bid holds, and 1 to their
// opponent otherwise.
func (g Game) Evaluate() obscuro.Reward {
	if !g.IsOver() {
		return 0.0
	}

	bidder := obscuro.P1
	if g.numBids%2 == 0 {
		bidder = obscuro.P2
	}

	matching := g.hands[obscuro.P1].Matching(g.lastBid.Face) + g.hands[obscuro.P2].Matching(g.lastBid.Face)
	if matching >= g.lastBid.Count {
		return bidder.Multiplier()
	}

	return bidder.Other().Multiplier()
}

func (g Game) SamplePosition(t obscuro.Trace) iter.Seq[obscuro.Game] {
	return trace.Consistent(NewWithDice(g.dicePerPlayer), t)
}

func (g Game) String() string {
	return fmt.Sprintf("liarsdie{%v %v bid=%v n=%d called=%v}",
		g.hands[obscuro.P1], g.hands[obscuro.P2], g.lastBid, g.numBids, g.called)
}
