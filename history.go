package obscuro

import (
	"fmt"
	"strings"
)

// historyKind is the resolution at which a History is represented.
type historyKind uint8

const (
	_ historyKind = iota
	// Terminal histories have a fixed payoff forever.
	Terminal
	// Visited histories have been reached and statically evaluated,
	// but their children are not yet materialized.
	Visited
	// Expanded histories enumerate their legal actions and share an
	// Info with every other History of the same Trace.
	Expanded
)

var historyKindStr = [...]string{
	"Invalid",
	"Terminal",
	"Visited",
	"Expanded",
}

func (k historyKind) String() string {
	return historyKindStr[k]
}

// evalFunc statically evaluates a non-expanded state.
type evalFunc func(Game) Reward

func staticEval(g Game) Reward {
	return g.Evaluate()
}

// History is a node of the lazily grown game tree.
// It is a tagged union over Terminal, Visited and Expanded; the only
// allowed transition is Visited -> Expanded.
type History struct {
	kind historyKind
	// Static payoff for Terminal and Visited histories.
	payoff Reward
	// Known state for Visited and Expanded histories.
	state Game
	// Reach probability of each player under the current strategies.
	reach [numPlayers]Probability
	// Most recent Info of each player strictly above this History.
	last [numPlayers]*Info

	// Expanded only. len(actions) must always equal len(children).
	info         *Info
	player       Player
	villainTrace Trace
	actions      []Action
	children     []*History
}

// NewHistory creates a Terminal or Visited History for the given state.
func NewHistory(g Game) *History {
	return newHistory(g, staticEval)
}

func newHistory(g Game, eval evalFunc) *History {
	h := &History{
		reach: [numPlayers]Probability{1.0, 1.0, 1.0},
	}
	if g.IsOver() {
		h.kind = Terminal
		h.payoff = g.Evaluate()
		return h
	}

	h.kind = Visited
	h.state = g
	h.payoff = eval(g)
	return h
}

func (h *History) Kind() historyKind {
	return h.kind
}

func (h *History) State() Game {
	return h.state
}

// Info returns the shared information set of an Expanded History.
func (h *History) Info() *Info {
	return h.info
}

// Children returns the actions and child histories of an Expanded History.
func (h *History) Children() ([]Action, []*History) {
	return h.actions, h.children
}

// Expand converts a Visited History into an Expanded one, creating a
// child for every available action. The History's Info is looked up in
// (or registered into) infoSets and returned.
func (h *History) Expand(infoSets InfoSets) *Info {
	return h.expand(infoSets, staticEval)
}

func (h *History) expand(infoSets InfoSets, eval evalFunc) *Info {
	if h.kind != Visited {
		panic(fmt.Errorf("cannot expand %v history", h.kind))
	}

	g := h.state
	hero := g.ActivePlayer()
	actions := g.AvailableActions()
	if len(actions) == 0 {
		panic(fmt.Errorf("non-terminal state has no available actions: %v", g.Trace(hero)))
	}

	rewards := make([]Reward, len(actions))
	children := make([]*History, len(actions))
	for i, a := range actions {
		children[i] = newHistory(g.Play(a), eval)
		rewards[i] = children[i].payoff
	}

	heroTrace := g.Trace(hero)
	info := infoSets.getOrCreate(heroTrace, hero, actions, rewards)
	if info.Policy.NumActions() != len(actions) {
		panic(fmt.Errorf("info set %v has %d actions but state has %d",
			heroTrace.Key(), info.Policy.NumActions(), len(actions)))
	}

	if parent := h.last[hero]; parent != nil {
		parent.addSuccessor(info)
	}
	for _, child := range children {
		child.reach = h.reach
		child.reach[hero] *= 1.0 / float64(len(actions))
		child.last = h.last
		child.last[hero] = info
	}

	villain := hero.Other()
	if hero == Chance {
		villain = P1
	}

	h.kind = Expanded
	h.info = info
	h.player = hero
	h.villainTrace = g.Trace(villain)
	h.actions = actions
	h.children = children
	nodesExpanded.Add(1)
	return info
}

// Payoff is the value of this History from P1's point of view: the
// fixed payoff, the static evaluation, or the expectation of the policy.
func (h *History) Payoff() Reward {
	switch h.kind {
	case Terminal, Visited:
		return h.payoff
	case Expanded:
		return h.info.Policy.Expectation()
	default:
		panic(fmt.Errorf("invalid history kind: %v", h.kind))
	}
}

// Player is the player to act.
func (h *History) Player() Player {
	switch h.kind {
	case Visited:
		return h.state.ActivePlayer()
	case Expanded:
		return h.player
	default:
		panic(fmt.Errorf("%v history has no player", h.kind))
	}
}

// Trace is what the acting player knows.
func (h *History) Trace() Trace {
	switch h.kind {
	case Visited:
		return h.state.Trace(h.state.ActivePlayer())
	case Expanded:
		return h.info.trace
	default:
		panic(fmt.Errorf("%v history has no trace", h.kind))
	}
}

// TraceFor is what the given player knows.
func (h *History) TraceFor(player Player) Trace {
	switch h.kind {
	case Visited, Expanded:
		if h.kind == Expanded && player == h.player {
			return h.info.trace
		}
		return h.state.Trace(player)
	default:
		panic(fmt.Errorf("%v history has no trace", h.kind))
	}
}

// Identifier is what both players know, which fully identifies a state.
func (h *History) Identifier() string {
	switch h.kind {
	case Visited, Expanded:
		return identifier(h.state)
	default:
		panic(fmt.Errorf("%v history has no identifier", h.kind))
	}
}

// LastInfo is the most recent information set at which player acted on
// the path to h, or nil if player has not acted within the known tree.
func (h *History) LastInfo(player Player) *Info {
	return h.last[player]
}

// ReachProb is how likely the given player is to steer play here.
func (h *History) ReachProb(player Player) Probability {
	return h.reach[player]
}

// NetReachProb is the product of every player's reach probability.
func (h *History) NetReachProb() Probability {
	return h.reach[P1] * h.reach[P2] * h.reach[Chance]
}

// Size is the number of nodes in the subtree rooted at h.
func (h *History) Size() int {
	n := 0
	stack := []*History{h}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n++
		stack = append(stack, node.children...)
	}

	return n
}

// FullExpand expands every Visited History in the subtree rooted at h.
// It is only intended for very small games.
func (h *History) FullExpand(infoSets InfoSets) {
	stack := []*History{h}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if node.kind == Visited {
			node.Expand(infoSets)
		}
		stack = append(stack, node.children...)
	}
}

// String implements fmt.Stringer.
func (h *History) String() string {
	switch h.kind {
	case Terminal:
		return fmt.Sprintf("Terminal(%.3f)", h.payoff)
	case Visited:
		return fmt.Sprintf("Visited(%v, %.3f)", h.Trace().Key(), h.payoff)
	case Expanded:
		actions := make([]string, len(h.actions))
		for i, a := range h.actions {
			actions[i] = a.String()
		}
		return fmt.Sprintf("Expanded(%v, %v, [%s])",
			h.info.trace.Key(), h.player, strings.Join(actions, " "))
	default:
		return "Invalid"
	}
}
