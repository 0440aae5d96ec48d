package obscuro

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// ResolveAction is the opponent's meta-decision in a ResolverGadget.
type ResolveAction uint8

const (
	// Skip takes the externally supplied alternative value.
	Skip ResolveAction = iota
	// Enter plays into the subgame.
	Enter
)

var resolveActionStr = [...]string{
	"Skip",
	"Enter",
}

func (a ResolveAction) String() string {
	return resolveActionStr[a]
}

// ResolverGadget lets the opponent choose, for one of their information
// sets, between a guaranteed alternative value and entering the subgame.
type ResolverGadget struct {
	trace Trace
	// Distribution over children, proportional to their reach.
	weights  []Probability
	resolver *Policy[ResolveAction]
	alt      Reward
	// Prior probability of this opponent information set.
	prior Probability
	// Opponent reach of the children in the next sweep.
	reach      Probability
	enterValue Reward
	children   []*History
	sampled    int
}

func newResolverGadget(bucket *preResolver, prior Probability, villain Player) *ResolverGadget {
	weights := make([]Probability, len(bucket.histories))
	for i, h := range bucket.histories {
		weights[i] = h.NetReachProb()
	}
	weights = normalizeOrUniform(weights)

	enter := 0.0
	for i, h := range bucket.histories {
		enter += weights[i] * h.Payoff()
	}

	return &ResolverGadget{
		trace:      bucket.trace,
		weights:    weights,
		resolver:   NewPolicy(villain, []ResolveAction{Skip, Enter}, []Reward{bucket.alt, enter}),
		alt:        bucket.alt,
		prior:      prior,
		reach:      prior,
		enterValue: enter,
		children:   bucket.histories,
		sampled:    bucket.sampled,
	}
}

func (g *ResolverGadget) Trace() Trace {
	return g.trace
}

func (g *ResolverGadget) Alt() Reward {
	return g.alt
}

func (g *ResolverGadget) Prior() Probability {
	return g.prior
}

func (g *ResolverGadget) Children() []*History {
	return g.children
}

// PEnter is the probability the opponent currently enters the subgame.
func (g *ResolverGadget) PEnter() Probability {
	return g.resolver.Prob(Enter)
}

// Value is the gadget's value mixing the alternative and the subgame.
func (g *ResolverGadget) Value() Reward {
	pEnter := g.PEnter()
	return (1-pEnter)*g.alt + pEnter*g.enterValue
}

// SubgameRoot aggregates one ResolverGadget per opponent information set
// in the constructed subgame.
type SubgameRoot struct {
	player    Player
	maxmargin *Policy[int]
	children  []*ResolverGadget
}

// newSubgameRoot builds the safe-resolving root for player from buckets
// grouped by opponent trace. The prior of each bucket blends a uniform
// prior with the belief-weighted prior.
func newSubgameRoot(player Player, bs []*preResolver) *SubgameRoot {
	villain := player.Other()
	m := float64(len(bs))
	ys := make([]float64, len(bs))
	for i, b := range bs {
		ys[i] = b.prior
	}
	ys = normalizeOrUniform(ys)

	children := make([]*ResolverGadget, len(bs))
	indices := make([]int, len(bs))
	margins := make([]Reward, len(bs))
	for i, b := range bs {
		alpha := 0.5 * (1/m + ys[i])
		children[i] = newResolverGadget(b, alpha, villain)
		indices[i] = i
		margins[i] = children[i].enterValue - children[i].alt
	}

	return &SubgameRoot{
		player:    player,
		maxmargin: NewPolicy(villain, indices, margins),
		children:  children,
	}
}

func (r *SubgameRoot) Player() Player {
	return r.player
}

func (r *SubgameRoot) Gadgets() []*ResolverGadget {
	return r.children
}

// PMax is the largest probability that the opponent enters any gadget.
func (r *SubgameRoot) PMax() Probability {
	pMax := 0.0
	for _, g := range r.children {
		pMax = math.Max(pMax, g.PEnter())
	}

	return pMax
}

// updateReach mixes the observed opponent entry behavior with the
// max-margin solution to set each gadget's reach for the next sweep.
func (r *SubgameRoot) updateReach() {
	pMax := r.PMax()
	pMaxmargin := r.maxmargin.InstPolicy()
	for i, g := range r.children {
		g.reach = pMax*g.prior*g.PEnter() + (1-pMax)*pMaxmargin[i]
	}
}

// histories returns every root history in the subgame.
func (r *SubgameRoot) histories() []*History {
	var result []*History
	for _, g := range r.children {
		result = append(result, g.children...)
	}

	return result
}

// sampleHistory selects a root history with probability proportional to
// the reach of its gadget and its weight within the gadget.
func (r *SubgameRoot) sampleHistory(sample func([]float64) int) *History {
	candidates := allocHistorySlice()
	defer func() {
		freeHistorySlice(candidates)
	}()
	n := 0
	for _, g := range r.children {
		n += len(g.children)
	}
	if n == 0 {
		return nil
	}

	weights := allocFloatSlice(n)
	defer freeFloatSlice(weights)
	for _, g := range r.children {
		for j, h := range g.children {
			weights[len(candidates)] = g.reach * g.weights[j]
			candidates = append(candidates, h)
		}
	}

	return candidates[sample(weights)]
}

// Expectation is the reach-weighted value of entering the subgame.
func (r *SubgameRoot) Expectation() Reward {
	if len(r.children) == 0 {
		return 0.0
	}

	reach := make([]float64, len(r.children))
	values := make([]float64, len(r.children))
	for i, g := range r.children {
		reach[i] = g.reach
		values[i] = g.enterValue
	}

	return floats.Dot(normalizeOrUniform(reach), values)
}
