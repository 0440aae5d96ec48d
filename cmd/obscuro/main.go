// Play a bundled game against the search engine on stdin.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/golang/glog"
	"golang.org/x/exp/rand"

	"github.com/timpalpant/obscuro"
	"github.com/timpalpant/obscuro/games"
)

var stdin = bufio.NewReader(os.Stdin)

type RunParams struct {
	Game        string
	Human       int
	NumGames    int
	Seed        uint64
	ParamsFile  string
	TimePerMove time.Duration
}

func main() {
	var params RunParams
	flag.StringVar(&params.Game, "game", "akq",
		fmt.Sprintf("Game to play, one of %v", games.Names()))
	flag.IntVar(&params.Human, "human", 1, "Seat of the human player (1 or 2)")
	flag.IntVar(&params.NumGames, "num_games", 1, "Number of games to play")
	flag.Uint64Var(&params.Seed, "seed", 0, "Random seed (0 seeds from the clock)")
	flag.StringVar(&params.ParamsFile, "params", "", "YAML file with search parameters")
	flag.DurationVar(&params.TimePerMove, "time", 0,
		"Search time per move, overriding the parameter file")
	flag.Parse()

	go http.ListenAndServe("localhost:4123", nil)

	newGame, err := games.Lookup(params.Game)
	if err != nil {
		glog.Fatal(err)
	}

	search, err := loadSearchParams(params)
	if err != nil {
		glog.Fatal(err)
	}

	human := obscuro.P1
	if params.Human == 2 {
		human = obscuro.P2
	} else if params.Human != 1 {
		glog.Fatalf("Invalid seat for human player: %d", params.Human)
	}

	seed := params.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	rng := rand.New(rand.NewSource(seed))

	solver := obscuro.NewSolver(newGame(), search)
	var total obscuro.Reward
	for i := 0; i < params.NumGames; i++ {
		solver.Reset()
		payoff := playGame(solver, newGame(), human, rng)
		total += payoff * human.Multiplier()
		glog.Infof("After %d games your total winnings are %v", i+1, total)
	}
}

func loadSearchParams(params RunParams) (obscuro.SearchParams, error) {
	search := obscuro.DefaultSearchParams()
	if params.ParamsFile != "" {
		var err error
		search, err = obscuro.LoadSearchParams(params.ParamsFile)
		if err != nil {
			return search, err
		}
	}

	if params.TimePerMove > 0 {
		search.TimePerMove = params.TimePerMove
	}
	search.Seed = params.Seed
	return search, search.Validate()
}

func playGame(solver *obscuro.Solver, game obscuro.Game, human obscuro.Player, rng *rand.Rand) obscuro.Reward {
	for !game.IsOver() {
		actions := game.AvailableActions()
		var action obscuro.Action
		switch player := game.ActivePlayer(); player {
		case obscuro.Chance:
			action = obscuro.SampleChance(game, rng)
			glog.V(1).Infof("[chance] %v", action)
		case human:
			glog.Infof("[player] Your turn. You have observed: %v", game.Trace(human))
			for i, a := range actions {
				glog.Infof("%d: %v", i, a)
			}

			selected := prompt("Which action? ", len(actions))
			action = actions[selected]
			glog.Infof("[player] Chose to %v", action)
		default:
			action = solver.MakeMove(game.Trace(player), player)
			if snapshot, ok := solver.Policy(game.Trace(player)); ok {
				glog.V(1).Infof("[strategy] Average policy: %v", snapshot.Avg)
			}
			glog.Infof("[strategy] Chose to %v (expectation %.3f, %v)",
				action, solver.Expectation()*player.Multiplier(), solver.Stats())
		}

		game = game.Play(action)
	}

	payoff := game.Evaluate()
	glog.Info("GAME OVER")
	glog.Infof("Final state: %v", game)
	switch winnings := payoff * human.Multiplier(); {
	case winnings > 0:
		glog.Infof("You win %v!", winnings)
	case winnings < 0:
		glog.Infof("Computer wins %v!", -winnings)
	default:
		glog.Info("Draw")
	}

	return payoff
}

func prompt(msg string, n int) int {
	for {
		fmt.Print(msg)
		result, err := stdin.ReadString('\n')
		if err != nil {
			glog.Fatal(err)
		}

		result = strings.TrimSpace(result)
		i, err := strconv.Atoi(result)
		if err != nil || i < 0 || i >= n {
			glog.Errorf("Invalid selection: %v", result)
			continue
		}

		return i
	}
}
