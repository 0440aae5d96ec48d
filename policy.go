package obscuro

import (
	"fmt"
	"math"
	"strings"

	"github.com/timpalpant/go-cfr"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
)

const (
	// MaxSupport is the number of top actions Purified chooses among.
	MaxSupport = 3

	exploreBonus = 1.25
	exploreMix   = 0.5
)

// CFR+ with alpha = 1: positive regrets decay by t/(t+1) and negative
// regrets are dropped.
var regretDiscount = cfr.DiscountParams{
	UseRegretMatchingPlus: true,
	DiscountAlpha:         1.0,
}

// Policy implements CFR+ regret matching over a fixed list of actions.
//
// Counterfactual values are accumulated with AddCounterfactual during a
// sweep and committed by Update, which is idempotent for a given sweep id.
type Policy[A comparable] struct {
	player  Player
	actions []A

	// Pending counterfactual values (value * reach) and the reach weight
	// they were accumulated with. Reset on every Update.
	pending       []float64
	pendingWeight []float64
	// Last committed (reach-normalized) value of each action.
	values []Reward

	regrets     []float64
	avgStrategy []float64
	expansions  []int
	lastUpdate  int
}

// NewPolicy creates a Policy for player over the given actions. The
// initial value estimates of each action are given by rewards, which may
// be nil.
func NewPolicy[A comparable](player Player, actions []A, rewards []Reward) *Policy[A] {
	n := len(actions)
	values := make([]Reward, n)
	if rewards != nil {
		if len(rewards) != n {
			panic(fmt.Errorf("got %d rewards for %d actions", len(rewards), n))
		}
		copy(values, rewards)
	}

	return &Policy[A]{
		player:        player,
		actions:       actions,
		pending:       make([]float64, n),
		pendingWeight: make([]float64, n),
		values:        values,
		regrets:       make([]float64, n),
		avgStrategy:   make([]float64, n),
		expansions:    make([]int, n),
		lastUpdate:    -1,
	}
}

func (p *Policy[A]) Player() Player {
	return p.player
}

func (p *Policy[A]) Actions() []A {
	return p.actions
}

func (p *Policy[A]) NumActions() int {
	return len(p.actions)
}

func (p *Policy[A]) indexOf(a A) int {
	for i, x := range p.actions {
		if x == a {
			return i
		}
	}

	panic(fmt.Errorf("action %v not in policy %v", a, p.actions))
}

// AddCounterfactual accumulates value*reach into the pending total of
// action a. Repeated calls within one sweep sum over reach paths.
func (p *Policy[A]) AddCounterfactual(a A, value Reward, reach Probability) {
	i := p.indexOf(a)
	p.pending[i] += value * reach
	p.pendingWeight[i] += reach
}

// AddExpansion records that the tree was grown through action a.
func (p *Policy[A]) AddExpansion(a A) {
	p.expansions[p.indexOf(a)]++
}

// InstPolicy returns the current regret-matching strategy. It is uniform
// when no action has positive accumulated regret.
func (p *Policy[A]) InstPolicy() []Probability {
	return normalizeOrUniform(p.regrets)
}

// AvgPolicy returns the average strategy over all updates so far.
func (p *Policy[A]) AvgPolicy() []Probability {
	return normalizeOrUniform(p.avgStrategy)
}

// Prob is the instantaneous probability of choosing action a.
func (p *Policy[A]) Prob(a A) Probability {
	return p.InstPolicy()[p.indexOf(a)]
}

// Value is the last committed value of action a.
func (p *Policy[A]) Value(a A) Reward {
	return p.values[p.indexOf(a)]
}

// Expectation is the value of the instantaneous strategy.
func (p *Policy[A]) Expectation() Reward {
	if len(p.actions) == 0 {
		return 0.0
	}

	return floats.Dot(p.InstPolicy(), p.values)
}

// Update commits the counterfactual values accumulated during the given
// sweep. Calling Update more than once with the same sweep is a no-op.
func (p *Policy[A]) Update(sweep int) {
	if sweep == p.lastUpdate {
		return
	}
	p.lastUpdate = sweep
	if len(p.actions) == 0 {
		return
	}

	baseline := floats.Dot(p.InstPolicy(), p.pending)
	discountPos, discountNeg, _ := regretDiscount.GetDiscountFactors(sweep)
	mult := p.player.Multiplier()
	for i, cfv := range p.pending {
		r := p.regrets[i]
		if r > 0 {
			r *= float64(discountPos)
		} else {
			r *= float64(discountNeg)
		}
		p.regrets[i] = math.Max(0, r+mult*(cfv-baseline))
		if p.pendingWeight[i] > 0 {
			p.values[i] = cfv / p.pendingWeight[i]
		}
	}

	floats.Add(p.avgStrategy, p.InstPolicy())
	for i := range p.pending {
		p.pending[i] = 0
		p.pendingWeight[i] = 0
	}
}

// Explore samples an action from an even blend of the instantaneous
// strategy and a single best arm chosen by a visit-count bonus.
func (p *Policy[A]) Explore(rng *rand.Rand) A {
	return p.sample(rng, p.explorationPolicy())
}

// Exploit samples an action from the instantaneous strategy.
func (p *Policy[A]) Exploit(rng *rand.Rand) A {
	return p.sample(rng, p.InstPolicy())
}

// Purified chooses uniformly among the MaxSupport most likely actions,
// with random tie-breaking.
func (p *Policy[A]) Purified(rng *rand.Rand) A {
	if len(p.actions) == 0 {
		panic(fmt.Errorf("purified called on empty policy"))
	}

	probs := p.InstPolicy()
	// Jitter breaks ties randomly without changing the ranking of
	// distinct probabilities.
	keys := make([]float64, len(probs))
	for i, x := range probs {
		keys[i] = -(x + 1e-12*rng.Float64())
	}
	inds := make([]int, len(keys))
	floats.Argsort(keys, inds)

	k := MaxSupport
	if k > len(inds) {
		k = len(inds)
	}

	return p.actions[inds[rng.Intn(k)]]
}

func (p *Policy[A]) quality(i int, total float64) float64 {
	n := math.Max(1, float64(p.expansions[i]))
	return p.player.Multiplier()*p.values[i] + exploreBonus*math.Sqrt(math.Log(total)/n)
}

func (p *Policy[A]) explorationPolicy() []Probability {
	result := p.InstPolicy()
	if len(result) == 0 {
		return result
	}

	total := 0
	for _, n := range p.expansions {
		total += n
	}
	totalF := math.Max(1, float64(total))

	best := 0
	bestQ := p.quality(0, totalF)
	for i := 1; i < len(p.actions); i++ {
		if q := p.quality(i, totalF); q > bestQ {
			best, bestQ = i, q
		}
	}

	floats.Scale(1-exploreMix, result)
	result[best] += exploreMix
	return result
}

func (p *Policy[A]) sample(rng *rand.Rand, probs []Probability) A {
	if len(p.actions) == 0 {
		panic(fmt.Errorf("cannot sample from empty policy"))
	}

	return p.actions[sampleOne(rng, probs)]
}

func (p *Policy[A]) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Policy(%v, %.3f", p.player, p.Expectation())
	avg := p.AvgPolicy()
	for i, a := range p.actions {
		fmt.Fprintf(&sb, ", [%v: p=%.3f, v=%.2f, r=%.3f]", a, avg[i], p.values[i], p.regrets[i])
	}
	sb.WriteString(")")
	return sb.String()
}

// normalizeOrUniform returns xs scaled to sum to 1, or the uniform
// distribution if the sum is not positive and finite.
func normalizeOrUniform(xs []float64) []Probability {
	result := make([]Probability, len(xs))
	if len(xs) == 0 {
		return result
	}

	total := floats.Sum(xs)
	if total <= 0 || math.IsInf(total, 0) || math.IsNaN(total) {
		for i := range result {
			result[i] = 1.0 / float64(len(result))
		}
		return result
	}

	floats.ScaleTo(result, 1/total, xs)
	return result
}

// sampleOne selects an index with probability proportional to its weight.
// Non-positive weights are never selected unless all are non-positive.
func sampleOne(rng *rand.Rand, weights []float64) int {
	total := 0.0
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}

	if total <= 0 || math.IsInf(total, 0) || math.IsNaN(total) {
		return rng.Intn(len(weights))
	}

	x := rng.Float64() * total
	cumulative := 0.0
	last := 0
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		cumulative += w
		last = i
		if x < cumulative {
			return i
		}
	}

	return last
}
