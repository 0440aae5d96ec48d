// Package selfplay plays the search engine against itself to collect
// experience for later training.
package selfplay

import (
	"context"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"

	"github.com/timpalpant/obscuro"
)

type Params struct {
	Workers        int
	GamesPerWorker int
	// Moves before this depth are sampled from the average policy,
	// later moves are chosen greedily.
	GreedyDepth int
	Search      obscuro.SearchParams
}

func (p Params) Validate() error {
	if p.Workers < 1 {
		return errors.Errorf("workers must be positive, got %d", p.Workers)
	}
	if p.GamesPerWorker < 0 {
		return errors.Errorf("games per worker must be non-negative, got %d", p.GamesPerWorker)
	}
	if p.GreedyDepth < 0 {
		return errors.Errorf("greedy depth must be non-negative, got %d", p.GreedyDepth)
	}

	return errors.Wrap(p.Search.Validate(), "invalid search params")
}

// Run plays Workers*GamesPerWorker games in parallel. Each worker owns
// its own Solver, and the buffers of all workers are merged once every
// worker has finished.
func Run(ctx context.Context, newGame func() obscuro.Game, params Params) (*Buffer, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	buffers := make([]*Buffer, params.Workers)
	g, ctx := errgroup.WithContext(ctx)
	for worker := 0; worker < params.Workers; worker++ {
		worker := worker
		g.Go(func() error {
			search := params.Search
			if search.Seed != 0 {
				search.Seed += uint64(worker)
			}

			buf, err := runWorker(ctx, newGame, params.GamesPerWorker, params.GreedyDepth, search)
			if err != nil {
				return errors.Wrapf(err, "worker %d", worker)
			}

			buffers[worker] = buf
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := NewBuffer()
	for _, buf := range buffers {
		result.Merge(buf)
	}

	glog.Infof("Collected %d experiences from %d games", result.Len(), result.NumGames)
	return result, nil
}

func runWorker(ctx context.Context, newGame func() obscuro.Game, nGames, greedyDepth int, search obscuro.SearchParams) (*Buffer, error) {
	solver := obscuro.NewSolver(newGame(), search)
	seed := search.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	rng := rand.New(rand.NewSource(seed))

	buf := NewBuffer()
	for i := 0; i < nGames; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		solver.Reset()
		experiences, payoff := PlayGame(solver, newGame(), greedyDepth, rng)
		buf.Add(experiences)
		glog.V(1).Infof("Game %d finished with payoff %v after %d decisions",
			i, payoff, len(experiences))
	}

	return buf, nil
}

// PlayGame plays one game from g to the end with solver choosing the
// moves of both players. It returns the experience of every decision
// and the final payoff from P1's point of view.
func PlayGame(solver *obscuro.Solver, g obscuro.Game, greedyDepth int, rng *rand.Rand) ([]Experience, obscuro.Reward) {
	var result []Experience
	for depth := 0; !g.IsOver(); depth++ {
		player := g.ActivePlayer()
		if player == obscuro.Chance {
			g = g.Play(obscuro.SampleChance(g, rng))
			continue
		}

		t := g.Trace(player)
		solver.StudyPosition(t, player)
		var action obscuro.Action
		if depth < greedyDepth {
			action = sampleAction(solver, t, rng)
		}
		if action == nil {
			action = solver.ChooseMove(t, player)
		}

		if snapshot, ok := solver.Policy(t); ok {
			result = append(result, newExperience(player, t, snapshot, solver.Expectation()))
		}

		glog.V(2).Infof("%v chose %v", player, action)
		g = g.Play(action)
	}

	payoff := g.Evaluate()
	for i := range result {
		result[i].Outcome = payoff * result[i].Player.Multiplier()
	}

	return result, payoff
}

// sampleAction draws from the average policy at t, or returns nil if
// the search did not reach t.
func sampleAction(solver *obscuro.Solver, t obscuro.Trace, rng *rand.Rand) obscuro.Action {
	snapshot, ok := solver.Policy(t)
	if !ok || len(snapshot.Actions) == 0 {
		return nil
	}

	x := rng.Float64()
	for i, p := range snapshot.Avg {
		x -= p
		if x < 0 {
			return snapshot.Actions[i]
		}
	}

	return snapshot.Actions[len(snapshot.Actions)-1]
}

func newExperience(player obscuro.Player, t obscuro.Trace, snapshot obscuro.PolicySnapshot, expectation obscuro.Reward) Experience {
	actions := make([]string, len(snapshot.Actions))
	for i, a := range snapshot.Actions {
		actions[i] = a.String()
	}

	return Experience{
		Player:   player,
		TraceKey: t.Key(),
		Actions:  actions,
		Policy:   snapshot.Avg,
		Value:    expectation * player.Multiplier(),
	}
}
