package obscuro

import (
	"math"
	"sort"

	"github.com/golang/glog"
)

// KCover finds the histories below roots that are believed possible up
// to order k, starting from what player knows (target):
//
//	k=1: histories where player's trace equals target,
//	k=2: histories the opponent cannot distinguish from those,
//	k=3: histories where player cannot distinguish the k=2 set, etc.
//
// The result is grouped by round. Every history in round i compares Equal
// to one of that round's search traces from that round's perspective,
// and in particular every history of round 0 has player's trace Equal to
// target. Visited histories that are strict ancestors of a search trace
// are expanded into infoSets so the search can descend into them.
func KCover(roots []*History, target Trace, player Player, k int, infoSets InfoSets) [][]*History {
	return kCover(roots, target, player, k, func(h *History) {
		h.Expand(infoSets)
	})
}

func kCover(roots []*History, target Trace, player Player, k int, expand func(*History)) [][]*History {
	found := make(map[*History]struct{})
	search := map[string]Trace{target.Key(): target}
	perspective := player
	layers := make([][]*History, 0, k)
	for round := 0; round < k && len(search) > 0; round++ {
		var layer []*History
		next := make(map[string]Trace)
		stack := append(allocHistorySlice(), roots...)
		for len(stack) > 0 {
			h := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if h.kind == Terminal {
				continue
			}

			t := h.TraceFor(perspective)
			switch compareToAny(t, search) {
			case Equal:
				if _, ok := found[h]; !ok {
					found[h] = struct{}{}
					layer = append(layer, h)
				}
				villainTrace := h.TraceFor(perspective.Other())
				next[villainTrace.Key()] = villainTrace
			case Less:
				if h.kind == Visited {
					expand(h)
				}
				stack = append(stack, h.children...)
			}
		}

		freeHistorySlice(stack)
		glog.V(3).Infof("k-cover round %d (%v): %d histories matched %d traces",
			round, perspective, len(layer), len(search))
		layers = append(layers, layer)
		search = next
		perspective = perspective.Other()
	}

	return layers
}

// compareToAny returns Equal if t equals any search trace, Less if it is
// an ancestor of one, and Incomparable otherwise.
func compareToAny(t Trace, search map[string]Trace) Ordering {
	if _, ok := search[t.Key()]; ok {
		return Equal
	}

	for _, s := range search {
		switch t.Compare(s) {
		case Equal:
			return Equal
		case Less:
			return Less
		}
	}

	return Incomparable
}

// preResolver groups the histories of one opponent information set
// before a SubgameRoot is built.
type preResolver struct {
	trace     Trace
	prior     Probability
	alt       Reward
	histories []*History
	sampled   int
}

// buckets is a set of preResolvers keyed by opponent trace.
type buckets map[string]*preResolver

func (b buckets) numHistories() int {
	n := 0
	for _, bucket := range b {
		n += len(bucket.histories)
	}

	return n
}

func (b buckets) totalPrior() Probability {
	total := 0.0
	for _, bucket := range b {
		total += bucket.prior
	}

	return total
}

// normalize rescales bucket priors to sum to one, falling back to
// uniform when they carry no mass.
func (b buckets) normalize() {
	total := b.totalPrior()
	if total <= 0 || math.IsInf(total, 0) || math.IsNaN(total) {
		for _, bucket := range b {
			bucket.prior = 1.0 / float64(len(b))
		}
		return
	}

	for _, bucket := range b {
		bucket.prior /= total
	}
}

// sorted returns the buckets in a stable order.
func (b buckets) sorted() []*preResolver {
	result := make([]*preResolver, 0, len(b))
	for _, bucket := range b {
		result = append(result, bucket)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].trace.Key() < result[j].trace.Key()
	})
	return result
}

// groupByVillain groups covered histories into buckets by the opponent's
// trace. The alternative value of each bucket is the opponent's current
// expectation less the gift they have conceded at their most recent
// decision, or the bucket's mean payoff if the opponent has not yet acted
// within the known tree.
func groupByVillain(covered []*History, player Player, infoSets InfoSets, sweep int) buckets {
	villain := player.Other()
	result := make(buckets)
	for _, h := range covered {
		t := h.TraceFor(villain)
		bucket, ok := result[t.Key()]
		if !ok {
			bucket = &preResolver{trace: t}
			result[t.Key()] = bucket
		}

		bucket.prior += h.NetReachProb()
		bucket.histories = append(bucket.histories, h)
	}

	for _, bucket := range result {
		if info := villainInfo(bucket, villain, infoSets); info != nil {
			mult := villain.Multiplier()
			expectation := mult * info.Policy.Expectation()
			bucket.alt = mult * (expectation - info.Gift(sweep))
		} else {
			total := 0.0
			for _, h := range bucket.histories {
				total += h.Payoff()
			}
			bucket.alt = total / float64(len(bucket.histories))
		}
	}

	return result
}

// villainInfo finds the opponent information set that decided the bucket:
// the one at the bucket's own trace if the opponent acts there, otherwise
// the last one the opponent passed through on the way to its histories.
func villainInfo(bucket *preResolver, villain Player, infoSets InfoSets) *Info {
	if info, ok := infoSets.Get(bucket.trace); ok && info.player == villain {
		return info
	}

	for _, h := range bucket.histories {
		if info := h.LastInfo(villain); info != nil {
			return info
		}
	}

	return nil
}

// padPositions adds positions consistent with target until the buckets
// hold at least minSize histories or the sampler is exhausted. Each new
// bucket receiving a sampled position has its alternative value clamped
// to at most prevExpectation.
func padPositions(b buckets, root Game, target Trace, player Player,
	minSize int, prevExpectation Reward, eval evalFunc) int {
	n := b.numHistories()
	if n >= minSize {
		return 0
	}

	seen := make(map[string]struct{}, n)
	for _, bucket := range b {
		for _, h := range bucket.histories {
			if h.kind != Terminal {
				seen[h.Identifier()] = struct{}{}
			}
		}
	}

	villain := player.Other()
	added := 0
	for g := range root.SamplePosition(target) {
		if n >= minSize {
			break
		}

		if g.IsOver() {
			continue
		}

		id := identifier(g)
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}

		h := newHistory(g, eval)
		alt := math.Min(h.payoff, prevExpectation)
		t := g.Trace(villain)
		bucket, ok := b[t.Key()]
		if !ok {
			bucket = &preResolver{trace: t, alt: alt}
			b[t.Key()] = bucket
		}

		bucket.alt = math.Min(bucket.alt, alt)
		bucket.prior += 1.0 / float64(minSize)
		bucket.histories = append(bucket.histories, h)
		bucket.sampled++
		added++
		n++
	}

	if n < minSize {
		glog.V(2).Infof("Sampler exhausted with %d of %d positions", n, minSize)
	}

	positionsPadded.Add(int64(added))
	return added
}
