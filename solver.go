package obscuro

import (
	"fmt"
	"time"

	"github.com/golang/glog"
	"golang.org/x/exp/rand"
)

// PolicySnapshot is a read-only copy of the policy at one information set.
type PolicySnapshot struct {
	Player      Player
	Actions     []Action
	Inst        []Probability
	Avg         []Probability
	Expectation Reward
}

// Solver is an anytime search engine for two-player zero-sum games of
// imperfect information. It grows a game tree lazily around the acting
// player's current trace and solves it with CFR+ inside a safe-resolving
// gadget.
//
// A Solver is not safe for concurrent use. Independent Solvers share no
// state and may run in parallel.
type Solver struct {
	root     Game
	params   SearchParams
	rng      *rand.Rand
	eval     *evalCache
	infoSets InfoSets
	subgame  *SubgameRoot

	sweep       int
	expectation Reward
	treeSize    int
	stats       SearchStats
}

// NewSolver creates a Solver for the game starting at root.
func NewSolver(root Game, params SearchParams) *Solver {
	if err := params.Validate(); err != nil {
		panic(err)
	}

	seed := params.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	return &Solver{
		root:     root,
		params:   params,
		rng:      rand.New(rand.NewSource(seed)),
		eval:     newEvalCache(params.EvalCacheSize),
		infoSets: make(InfoSets),
		subgame:  newSubgameRoot(root.ActivePlayer(), nil),
	}
}

// Reset discards the search tree but keeps every information set, so
// that what was learned carries over into the next game.
func (s *Solver) Reset() {
	s.subgame = newSubgameRoot(s.root.ActivePlayer(), nil)
	s.expectation = 0
	s.treeSize = 0
}

func (s *Solver) InfoSets() InfoSets {
	return s.infoSets
}

func (s *Solver) Subgame() *SubgameRoot {
	return s.subgame
}

// Expectation is the value of the most recently studied position,
// from P1's point of view.
func (s *Solver) Expectation() Reward {
	return s.expectation
}

func (s *Solver) Stats() SearchStats {
	return s.stats
}

// Policy returns a snapshot of the policy at the given trace, if the
// corresponding information set has been discovered.
func (s *Solver) Policy(t Trace) (PolicySnapshot, bool) {
	info, ok := s.infoSets.Get(t)
	if !ok {
		return PolicySnapshot{}, false
	}

	return PolicySnapshot{
		Player:      info.player,
		Actions:     append([]Action(nil), info.Policy.Actions()...),
		Inst:        info.Policy.InstPolicy(),
		Avg:         info.Policy.AvgPolicy(),
		Expectation: info.Policy.Expectation(),
	}, true
}

// MakeMove searches the position described by t and returns the action
// player should take. It always returns a legal action, even if the
// budget is too small to grow the tree.
func (s *Solver) MakeMove(t Trace, player Player) Action {
	s.StudyPosition(t, player)
	return s.ChooseMove(t, player)
}

// ChooseMove returns the purified action for player at t from the result
// of the most recent search, without searching further.
func (s *Solver) ChooseMove(t Trace, player Player) Action {
	if info, ok := s.infoSets.Get(t); ok && info.player == player && info.Policy.NumActions() > 0 {
		return info.Policy.Purified(s.rng)
	}

	glog.Warningf("No information set for %v at %v, falling back", player, t.Key())
	for _, info := range s.infoSets {
		if info.player == player && info.Policy.NumActions() > 0 {
			return info.Policy.Purified(s.rng)
		}
	}

	panic(fmt.Errorf("no information set available for %v", player))
}

// StudyPosition searches the position described by t without choosing
// an action. It returns once the time budget of the SearchParams is spent.
func (s *Solver) StudyPosition(t Trace, player Player) {
	start := time.Now()
	s.stats = SearchStats{}
	s.constructSubgame(t, player)
	s.seed(t, player)

	iter := 0
	for ; ; iter++ {
		if time.Since(start) >= s.params.TimePerMove {
			break
		}
		if s.params.MaxIterations > 0 && iter >= s.params.MaxIterations {
			break
		}

		if s.treeSize < s.params.MaxTreeSize {
			s.expansionStep()
		}
		s.solveStep()
	}

	s.expectation = s.subgame.Expectation()
	s.stats.TreeSize = s.treeSize
	s.stats.NumInfoSets = len(s.infoSets)
	s.stats.Sweeps = iter
	s.stats.Expectation = s.expectation
	s.stats.Elapsed = time.Since(start)
	glog.V(1).Infof("Studied %v for %v: %v", player, t.Key(), s.stats)
	if glog.V(4) {
		for key, info := range s.infoSets {
			glog.Infof("%x -> %v", key, info)
		}
	}
}

// constructSubgame replaces the subgame root with one built from the
// k-cover of the previous tree around t, padded with sampled positions.
func (s *Solver) constructSubgame(t Trace, player Player) {
	roots := s.subgame.histories()
	layers := kCover(roots, t, player, s.params.KDepth, func(h *History) {
		h.expand(s.infoSets, s.eval.evaluate)
	})

	var covered []*History
	for _, layer := range layers {
		covered = append(covered, layer...)
	}

	bs := groupByVillain(covered, player, s.infoSets, s.sweep)
	sampled := padPositions(bs, s.root, t, player,
		s.params.MinInfoSize, s.expectation, s.eval.evaluate)
	bs.normalize()

	s.subgame = newSubgameRoot(player, bs.sorted())
	s.treeSize = 0
	for _, h := range s.subgame.histories() {
		s.treeSize += h.Size()
	}

	s.stats.Positions = bs.numHistories()
	s.stats.Buckets = len(bs)
	s.stats.SampledPosition = sampled
	glog.V(2).Infof("Constructed subgame with %d positions in %d buckets (%d reused, %d sampled)",
		s.stats.Positions, s.stats.Buckets, len(covered), sampled)
}

// seed expands every root history where player is to act at t, so the
// information set for t exists before any search iterations run.
func (s *Solver) seed(t Trace, player Player) {
	key := t.Key()
	for _, h := range s.subgame.histories() {
		if h.kind != Visited || h.Player() != player {
			continue
		}
		if h.Trace().Key() != key {
			continue
		}

		h.expand(s.infoSets, s.eval.evaluate)
		s.treeSize += len(h.children)
	}
}

// expansionStep grows the tree by one leaf for each player. The exploring
// player follows Explore and every other player follows Exploit.
func (s *Solver) expansionStep() {
	for _, explorer := range []Player{P1, P2} {
		h := s.subgame.sampleHistory(s.sample)
		if h == nil {
			return
		}

		for h.kind == Expanded {
			policy := h.info.Policy
			var a Action
			if h.player == explorer {
				a = policy.Explore(s.rng)
			} else {
				a = policy.Exploit(s.rng)
			}

			policy.AddExpansion(a)
			h = h.child(a)
		}

		if h.kind != Visited {
			continue
		}

		h.expand(s.infoSets, s.eval.evaluate)
		s.treeSize += len(h.children)
		s.stats.Expansions++
	}
}

func (h *History) child(a Action) *History {
	for i, x := range h.actions {
		if x == a {
			return h.children[i]
		}
	}

	panic(fmt.Errorf("action %v not available at %v", a, h))
}

// solveStep runs one CFR+ sweep over the subgame for each player and
// commits the results.
func (s *Solver) solveStep() {
	s.sweep++
	sweepsRun.Add(1)
	player := s.subgame.player
	villain := player.Other()
	for _, optimizing := range []Player{P1, P2} {
		for i, g := range s.subgame.children {
			enter := 0.0
			for j, h := range g.children {
				var reach [numPlayers]Probability
				reach[player] = 1.0
				reach[villain] = g.reach
				reach[Chance] = g.weights[j]
				enter += g.weights[j] * s.makeUtilities(h, optimizing, reach, 0)
			}

			g.enterValue = enter
			if optimizing == villain {
				g.resolver.AddCounterfactual(Enter, enter, 1.0)
				g.resolver.AddCounterfactual(Skip, g.alt, 1.0)
				s.subgame.maxmargin.AddCounterfactual(i, enter-g.alt, 1.0)
			}
		}
	}

	s.applyUpdates()
	s.subgame.updateReach()
}

// makeUtilities computes the value of h under the current strategies and
// records counterfactual values at the optimizing player's nodes.
func (s *Solver) makeUtilities(h *History, optimizing Player, reach [numPlayers]Probability, depth int) Reward {
	switch h.kind {
	case Terminal:
		return h.payoff
	case Visited:
		h.reach = reach
		return h.payoff
	case Expanded:
	default:
		panic(fmt.Errorf("invalid history kind: %v", h.kind))
	}

	h.reach = reach
	if depth >= s.params.MaxDepth {
		return h.Payoff()
	}

	info := h.info
	if optimizing == P1 {
		info.addReach(s.sweep, reach)
	}
	probs := info.Policy.InstPolicy()
	cfReach := 1.0
	for p, r := range reach {
		if Player(p) != h.player {
			cfReach *= r
		}
	}

	value := 0.0
	for i, child := range h.children {
		childReach := reach
		childReach[h.player] *= probs[i]
		v := s.makeUtilities(child, optimizing, childReach, depth+1)
		value += probs[i] * v
		if h.player == optimizing {
			info.Policy.AddCounterfactual(h.actions[i], v, cfReach)
		}
	}

	return value
}

// applyUpdates commits every policy in the subgame bottom-up.
func (s *Solver) applyUpdates() {
	order := allocHistorySlice()
	stack := append(allocHistorySlice(), s.subgame.histories()...)
	for len(stack) > 0 {
		h := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if h.kind != Expanded {
			continue
		}

		order = append(order, h)
		stack = append(stack, h.children...)
	}

	for i := len(order) - 1; i >= 0; i-- {
		order[i].info.Policy.Update(s.sweep)
	}

	for _, g := range s.subgame.children {
		g.resolver.Update(s.sweep)
	}
	s.subgame.maxmargin.Update(s.sweep)

	freeHistorySlice(stack)
	freeHistorySlice(order)
}

func (s *Solver) sample(weights []float64) int {
	return sampleOne(s.rng, weights)
}
