package obscuro

import (
	"math"
)

// Info is an information set: the aggregate of every History whose
// active player has observed the same Trace. All such Histories share
// a single Info, so statistics accumulate across repeated occurrences.
type Info struct {
	Policy *Policy[Action]
	trace  Trace
	player Player

	// Reach accumulated by Histories of this Info during the current sweep.
	reach      [numPlayers]Probability
	reachSweep int

	// Later infos of the same player, reached by expanding below this one.
	successors []*Info

	gift      Reward
	giftSweep int
}

func newInfo(t Trace, player Player, actions []Action, rewards []Reward) *Info {
	return &Info{
		Policy:     NewPolicy(player, actions, rewards),
		trace:      t,
		player:     player,
		reachSweep: -1,
		giftSweep:  -1,
	}
}

func (info *Info) Trace() Trace {
	return info.trace
}

func (info *Info) Player() Player {
	return info.player
}

// Reach is the total reach probability of this Info for each player,
// as of the most recent sweep that visited it.
func (info *Info) Reach(player Player) Probability {
	return info.reach[player]
}

func (info *Info) addReach(sweep int, reach [numPlayers]Probability) {
	if sweep != info.reachSweep {
		info.reach = [numPlayers]Probability{}
		info.reachSweep = sweep
	}

	for p, r := range reach {
		info.reach[p] += r
	}
}

func (info *Info) addSuccessor(next *Info) {
	if next == info {
		return
	}
	for _, s := range info.successors {
		if s == next {
			return
		}
	}

	info.successors = append(info.successors, next)
}

// Gift estimates the value this Info's owner has already conceded by
// playing actions worse than their best available ones, here and at their
// later decisions. It is memoized per sweep and always non-negative.
func (info *Info) Gift(sweep int) Reward {
	if info.giftSweep == sweep {
		return info.gift
	}

	seen := make(map[*Info]struct{})
	info.gift = info.giftInner(seen)
	info.giftSweep = sweep
	return info.gift
}

// giftInner walks successors with an explicit stack.
func (info *Info) giftInner(seen map[*Info]struct{}) Reward {
	total := 0.0
	stack := []*Info{info}
	for len(stack) > 0 {
		next := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, ok := seen[next]; ok {
			continue
		}
		seen[next] = struct{}{}

		total += next.localGift()
		stack = append(stack, next.successors...)
	}

	return total
}

func (info *Info) localGift() Reward {
	if info.player == Chance || info.Policy.NumActions() == 0 {
		return 0.0
	}

	mult := info.player.Multiplier()
	expectation := info.Policy.Expectation()
	gift := 0.0
	for _, v := range info.Policy.values {
		gift += math.Max(0, mult*(v-expectation))
	}

	return gift
}

func (info *Info) String() string {
	return info.player.String() + ":" + info.Policy.String()
}

// InfoSets is the table of every information set discovered so far,
// keyed by Trace.Key().
type InfoSets map[string]*Info

// Get returns the Info for the given trace, if it has been created.
func (t InfoSets) Get(trace Trace) (*Info, bool) {
	info, ok := t[trace.Key()]
	return info, ok
}

// getOrCreate returns the existing Info for trace, or registers a new one
// initialized with the given actions and action values.
func (t InfoSets) getOrCreate(trace Trace, player Player, actions []Action, rewards []Reward) *Info {
	key := trace.Key()
	if info, ok := t[key]; ok {
		return info
	}

	info := newInfo(trace, player, actions, rewards)
	t[key] = info
	infoSetsCreated.Add(1)
	return info
}
