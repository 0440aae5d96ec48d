package obscuro

import (
	"iter"
	"strings"
)

// coinGame is a tiny poker: Chance flips a coin that only P1 sees, P1
// bets or passes, and P2 calls or folds a bet.
type coinGame struct {
	history string
}

type coinAction byte

func (a coinAction) String() string {
	return string(a)
}

const (
	heads coinAction = 'h'
	tails coinAction = 't'
	bet   coinAction = 'b'
	pass  coinAction = 'p'
	call  coinAction = 'c'
	fold  coinAction = 'f'
)

func newCoinGame() Game {
	return coinGame{}
}

func (g coinGame) Trace(player Player) Trace {
	obs := []byte(g.history)
	if len(obs) > 0 && player != P1 {
		obs[0] = '?'
	}

	return coinTrace{owner: player, obs: string(obs)}
}

func (g coinGame) ActivePlayer() Player {
	switch len(g.history) {
	case 0:
		return Chance
	case 1:
		return P1
	default:
		return P2
	}
}

func (g coinGame) AvailableActions() []Action {
	if g.IsOver() {
		return nil
	}

	switch len(g.history) {
	case 0:
		return []Action{heads, tails}
	case 1:
		return []Action{bet, pass}
	default:
		return []Action{call, fold}
	}
}

func (g coinGame) Play(a Action) Game {
	return coinGame{history: g.history + a.String()}
}

func (g coinGame) IsOver() bool {
	return strings.HasSuffix(g.history, "p") || len(g.history) == 3
}

func (g coinGame) Evaluate() Reward {
	if !g.IsOver() {
		return 0.0
	}

	sign := 1.0
	if g.history[0] == byte(tails) {
		sign = -1.0
	}

	switch g.history[1:] {
	case "p":
		return sign
	case "bf":
		return 1.0
	default:
		return 2 * sign
	}
}

func (g coinGame) SamplePosition(t Trace) iter.Seq[Game] {
	target := t.(coinTrace)
	return func(yield func(Game) bool) {
		stack := []Game{newCoinGame()}
		for len(stack) > 0 {
			g := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			switch g.Trace(target.owner).Compare(target) {
			case Equal:
				if !yield(g) {
					return
				}
			case Less:
				for _, a := range g.AvailableActions() {
					stack = append(stack, g.Play(a))
				}
			}
		}
	}
}

type coinTrace struct {
	owner Player
	obs   string
}

func (t coinTrace) Key() string {
	return t.owner.String() + "/" + t.obs
}

func (t coinTrace) Compare(other Trace) Ordering {
	o := other.(coinTrace)
	switch {
	case t.owner != o.owner:
		return Incomparable
	case t.obs == o.obs:
		return Equal
	case strings.HasPrefix(o.obs, t.obs):
		return Less
	case strings.HasPrefix(t.obs, o.obs):
		return Greater
	default:
		return Incomparable
	}
}

// play returns the state reached from the root by the given actions.
func play(actions ...coinAction) Game {
	g := newCoinGame()
	for _, a := range actions {
		g = g.Play(a)
	}
	return g
}

// fullTree returns the fully expanded tree of the coin game.
func fullTree(infoSets InfoSets) *History {
	root := NewHistory(newCoinGame())
	root.FullExpand(infoSets)
	return root
}

// findHistory descends from root along the given actions.
func findHistory(root *History, actions ...coinAction) *History {
	h := root
	for _, a := range actions {
		h = h.child(a)
	}
	return h
}
