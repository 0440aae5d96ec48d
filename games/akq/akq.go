// Package akq implements AKQ poker: each player antes 1 and is dealt
// one card from a three card deck, then there is a single round of
// betting with a bet size of 1.
package akq

import (
	"fmt"
	"iter"

	"golang.org/x/exp/rand"

	"github.com/timpalpant/obscuro"
	"github.com/timpalpant/obscuro/cards"
	"github.com/timpalpant/obscuro/trace"
)

// Move is a betting action.
type Move uint8

const (
	Check Move = iota + 1
	Bet
	Call
	Fold
)

var moveStr = [...]string{
	"",
	"Check",
	"Bet",
	"Call",
	"Fold",
}

func (m Move) String() string {
	return moveStr[m]
}

// Deal is the chance action that deals one card to each player.
// The card for P1 is on top of the Stack.
type Deal cards.Stack

func (d Deal) String() string {
	return "Deal" + cards.Stack(d).String()
}

// Betting is the public betting sequence so far, named by its moves:
// C is a check, B a bet, and a trailing C or F a call or a fold.
type Betting uint8

const (
	Predeal Betting = iota
	Open
	C
	B
	CC
	BC
	BF
	CB
	CBC
	CBF
)

var bettingStr = [...]string{
	"predeal",
	"",
	"c",
	"b",
	"cc",
	"bc",
	"bf",
	"cb",
	"cbc",
	"cbf",
}

func (b Betting) String() string {
	return bettingStr[b]
}

func (b Betting) IsTerminal() bool {
	switch b {
	case CC, BC, BF, CBC, CBF:
		return true
	default:
		return false
	}
}

func (b Betting) next(m Move) Betting {
	switch {
	case b == Open && m == Check:
		return C
	case b == Open && m == Bet:
		return B
	case b == C && m == Check:
		return CC
	case b == C && m == Bet:
		return CB
	case b == B && m == Call:
		return BC
	case b == B && m == Fold:
		return BF
	case b == CB && m == Call:
		return CBC
	case b == CB && m == Fold:
		return CBF
	default:
		panic(fmt.Errorf("illegal betting action %v at %v", m, b))
	}
}

var (
	openActions   = []obscuro.Action{Check, Bet}
	facingActions = []obscuro.Action{Call, Fold}
	dealActions   = enumerateDeals()
)

func enumerateDeals() []obscuro.Action {
	result := make([]obscuro.Action, 0, cards.CountDeals(cards.AKQDeck, 2))
	cards.EnumerateDeals(cards.AKQDeck, 2, func(deal cards.Stack) {
		result = append(result, Deal(deal))
	})
	return result
}

// Game is an immutable state of AKQ poker.
type Game struct {
	history trace.Sequence
	hands   cards.Stack
	betting Betting
}

var _ obscuro.Game = Game{}

func New() obscuro.Game {
	return Game{}
}

// NewDealt starts a game from the given deal, skipping the chance node.
func NewDealt(p1, p2 cards.Card) obscuro.Game {
	return New().Play(Deal(cards.NewStack([]cards.Card{p1, p2})))
}

func (g Game) Hand(player obscuro.Player) cards.Card {
	return g.hands.NthCard(int(player))
}

func (g Game) Betting() Betting {
	return g.betting
}

func (g Game) Trace(player obscuro.Player) obscuro.Trace {
	return g.history.ViewedBy(player)
}

func (g Game) ActivePlayer() obscuro.Player {
	switch g.betting {
	case Predeal:
		return obscuro.Chance
	case Open, CB:
		return obscuro.P1
	case C, B:
		return obscuro.P2
	default:
		return obscuro.Chance
	}
}

func (g Game) AvailableActions() []obscuro.Action {
	switch g.betting {
	case Predeal:
		return dealActions
	case Open, C:
		return openActions
	case B, CB:
		return facingActions
	default:
		return nil
	}
}

func (g Game) Play(action obscuro.Action) obscuro.Game {
	if g.betting == Predeal {
		deal, ok := action.(Deal)
		if !ok {
			panic(fmt.Errorf("non-deal action attempted before deal: %v", action))
		}

		g.hands = cards.Stack(deal)
		if g.hands.Len() != 2 {
			panic(fmt.Errorf("invalid deal: %v", deal))
		}
		remaining := cards.AKQDeck
		for _, p := range []obscuro.Player{obscuro.P1, obscuro.P2} {
			if !remaining.Contains(g.Hand(p)) {
				panic(fmt.Errorf("invalid deal: %v", deal))
			}
			remaining.Remove(g.Hand(p))
		}

		p1, p2 := g.Hand(obscuro.P1), g.Hand(obscuro.P2)
		g.history.Append(trace.Observation{Player: obscuro.P1, Private: uint32(p1)})
		g.history.Append(trace.Observation{Player: obscuro.P2, Private: uint32(p2)})
		g.betting = Open
		return g
	}

	move, ok := action.(Move)
	if !ok {
		panic(fmt.Errorf("illegal action %v at %v", action, g.betting))
	}

	player := g.ActivePlayer()
	g.betting = g.betting.next(move)
	g.history.Append(trace.Observation{Player: player, Public: uint16(move)})
	return g
}

// SampleChance deals two cards at random from the deck.
func (g Game) SampleChance(rng *rand.Rand) obscuro.Action {
	return Deal(cards.RandomDeal(cards.AKQDeck, 2, rng))
}

func (g Game) IsOver() bool {
	return g.betting.IsTerminal()
}

func (g Game) Evaluate() obscuro.Reward {
	if !g.IsOver() {
		return 0.0
	}

	score := -1.0
	if g.Hand(obscuro.P1).Beats(g.Hand(obscuro.P2)) {
		score = 1.0
	}

	switch g.betting {
	case CC:
		return score
	case BC, CBC:
		return 2 * score
	case BF:
		return 1.0
	case CBF:
		return -1.0
	default:
		panic(fmt.Errorf("unexpected terminal betting: %v", g.betting))
	}
}

func (g Game) SamplePosition(t obscuro.Trace) iter.Seq[obscuro.Game] {
	return trace.Consistent(New(), t)
}

func (g Game) String() string {
	return fmt.Sprintf("akq%v/%v", g.hands, g.betting)
}
