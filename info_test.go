package obscuro

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInfo_Gift(t *testing.T) {
	actions := []Action{bet, pass}
	for _, player := range []Player{P1, P2} {
		t.Run(player.String(), func(t *testing.T) {
			first := newInfo(coinTrace{owner: player, obs: "a"}, player, actions, []Reward{1, 3})
			assert.Equal(t, 1.0, first.Gift(1))

			second := newInfo(coinTrace{owner: player, obs: "ab"}, player, actions, []Reward{0, 4})
			first.addSuccessor(second)
			first.addSuccessor(second)
			require.Len(t, first.successors, 1)

			// Memoized for the current sweep.
			assert.Equal(t, 1.0, first.Gift(1))
			assert.Equal(t, 3.0, first.Gift(2))

			second.Policy.values[1] = 10
			assert.Equal(t, 3.0, first.Gift(2))
			assert.Equal(t, 6.0, first.Gift(3))

			// Cycles are visited once.
			second.addSuccessor(first)
			assert.Equal(t, 6.0, first.Gift(4))
		})
	}
}

func TestInfo_GiftNonNegative(t *testing.T) {
	info := newInfo(coinTrace{owner: P2, obs: "x"}, P2, []Action{call, fold}, []Reward{-3, 7})
	for sweep := 1; sweep < 20; sweep++ {
		info.Policy.AddCounterfactual(call, float64(sweep%3)-1, 1)
		info.Policy.AddCounterfactual(fold, float64(sweep%5)-2, 1)
		info.Policy.Update(sweep)
		assert.GreaterOrEqual(t, info.Gift(sweep), 0.0)
	}

	chance := newInfo(coinTrace{owner: Chance}, Chance, []Action{heads, tails}, []Reward{-1, 1})
	assert.Equal(t, 0.0, chance.Gift(1))
}

func TestInfo_AddReach(t *testing.T) {
	info := newInfo(coinTrace{owner: P1}, P1, []Action{bet, pass}, nil)
	info.addReach(1, [numPlayers]Probability{0.5, 1, 0.25})
	info.addReach(1, [numPlayers]Probability{0.5, 1, 0.25})
	assert.Equal(t, 1.0, info.Reach(P1))
	assert.Equal(t, 0.5, info.Reach(Chance))

	info.addReach(2, [numPlayers]Probability{0.1, 0.2, 0.3})
	assert.Equal(t, 0.1, info.Reach(P1))
}

func TestInfoSets(t *testing.T) {
	infoSets := make(InfoSets)
	trace := coinTrace{owner: P1, obs: "h"}
	_, ok := infoSets.Get(trace)
	assert.False(t, ok)

	info := infoSets.getOrCreate(trace, P1, []Action{bet, pass}, nil)
	again := infoSets.getOrCreate(coinTrace{owner: P1, obs: "h"}, P1, []Action{bet, pass}, nil)
	assert.Same(t, info, again)

	got, ok := infoSets.Get(trace)
	require.True(t, ok)
	assert.Same(t, info, got)
	assert.Equal(t, trace, info.Trace())
	assert.Equal(t, P1, info.Player())
}
