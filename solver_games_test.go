package obscuro_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"

	"github.com/timpalpant/obscuro"
	"github.com/timpalpant/obscuro/cards"
	"github.com/timpalpant/obscuro/games/akq"
	"github.com/timpalpant/obscuro/games/liarsdie"
	"github.com/timpalpant/obscuro/games/pennies"
)

func searchParams(iterations int) obscuro.SearchParams {
	params := obscuro.DefaultSearchParams()
	params.TimePerMove = 5 * time.Minute
	params.MaxIterations = iterations
	params.MinInfoSize = 16
	params.Seed = 1234
	return params
}

func TestMatchingPennies_Converges(t *testing.T) {
	root := pennies.New()
	s := obscuro.NewSolver(root, searchParams(10000))
	s.StudyPosition(root.Trace(obscuro.P1), obscuro.P1)

	p1, ok := s.Policy(root.Trace(obscuro.P1))
	require.True(t, ok)
	assert.Equal(t, obscuro.P1, p1.Player)
	assert.InDelta(t, 0.5, p1.Avg[0], 0.1)

	p2, ok := s.Policy(root.Play(pennies.Heads).Trace(obscuro.P2))
	require.True(t, ok)
	assert.Equal(t, obscuro.P2, p2.Player)
	assert.InDelta(t, 0.5, p2.Avg[0], 0.1)

	assert.InDelta(t, 0.0, s.Expectation(), 0.2)

	// The moves actually played are evenly split as well.
	for _, tc := range []struct {
		g      obscuro.Game
		player obscuro.Player
	}{
		{root, obscuro.P1},
		{root.Play(pennies.Heads), obscuro.P2},
	} {
		counts := make(map[obscuro.Action]int)
		const n = 2000
		for i := 0; i < n; i++ {
			counts[s.ChooseMove(tc.g.Trace(tc.player), tc.player)]++
		}
		assert.InDelta(t, 0.5, float64(counts[pennies.Heads])/n, 0.1)
		assert.InDelta(t, 0.5, float64(counts[pennies.Tails])/n, 0.1)
	}
}

func TestZeroBudget_LegalAction(t *testing.T) {
	params := searchParams(0)
	params.TimePerMove = 0

	testCases := []struct {
		name   string
		state  obscuro.Game
		player obscuro.Player
	}{
		{"pennies", pennies.New(), obscuro.P1},
		{"akq", akq.NewDealt(cards.Ace, cards.Queen), obscuro.P1},
		{"liarsdie", liarsdie.New().Play(liarsdie.Roll(3)).Play(liarsdie.Roll(5)), obscuro.P1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := obscuro.NewSolver(tc.state, params)
			a := s.MakeMove(tc.state.Trace(tc.player), tc.player)
			assert.Contains(t, tc.state.AvailableActions(), a)
		})
	}
}

func TestAKQ_PlayFullGames(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	s := obscuro.NewSolver(akq.New(), searchParams(100))
	for i := 0; i < 5; i++ {
		s.Reset()
		g := akq.New()
		for !g.IsOver() {
			actions := g.AvailableActions()
			player := g.ActivePlayer()
			var a obscuro.Action
			if player == obscuro.Chance {
				a = actions[rng.Intn(len(actions))]
			} else {
				a = s.MakeMove(g.Trace(player), player)
				require.Contains(t, actions, a)
			}
			g = g.Play(a)
		}

		assert.Contains(t, []obscuro.Reward{-2, -1, 1, 2}, g.Evaluate())
	}
}

func TestAKQ_AceNeverFolds(t *testing.T) {
	// P2 holds the best card and faces a bet.
	g := akq.NewDealt(cards.King, cards.Ace).Play(akq.Bet)
	s := obscuro.NewSolver(akq.New(), searchParams(2000))
	s.StudyPosition(g.Trace(obscuro.P2), obscuro.P2)

	snapshot, ok := s.Policy(g.Trace(obscuro.P2))
	require.True(t, ok)
	require.Equal(t, []obscuro.Action{akq.Call, akq.Fold}, snapshot.Actions)
	assert.Greater(t, snapshot.Avg[0], 0.9)
	assert.Greater(t, snapshot.Inst[0], 0.9)
	for i := 0; i < 20; i++ {
		assert.Contains(t, snapshot.Actions, s.ChooseMove(g.Trace(obscuro.P2), obscuro.P2))
	}
}

func TestLiarsDie_MakeMove(t *testing.T) {
	g := liarsdie.New().Play(liarsdie.Roll(6)).Play(liarsdie.Roll(2))
	s := obscuro.NewSolver(liarsdie.New(), searchParams(50))
	a := s.MakeMove(g.Trace(obscuro.P1), obscuro.P1)
	assert.Contains(t, g.AvailableActions(), a)

	g = g.Play(a)
	if !g.IsOver() {
		b := s.MakeMove(g.Trace(obscuro.P2), obscuro.P2)
		assert.Contains(t, g.AvailableActions(), b)
	}
}
