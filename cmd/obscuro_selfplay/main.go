// Run parallel self-play and save the collected experience.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"runtime"

	"github.com/golang/glog"

	"github.com/timpalpant/obscuro"
	"github.com/timpalpant/obscuro/games"
	"github.com/timpalpant/obscuro/selfplay"
)

type RunParams struct {
	Game       string
	ParamsFile string
	Output     string
	Seed       uint64
	SelfPlay   selfplay.Params
}

func main() {
	var params RunParams
	flag.StringVar(&params.Game, "game", "akq",
		fmt.Sprintf("Game to play, one of %v", games.Names()))
	flag.StringVar(&params.ParamsFile, "params", "", "YAML file with search parameters")
	flag.StringVar(&params.Output, "output", "experience.gob.gz",
		"File to save the collected experience to")
	flag.Uint64Var(&params.Seed, "seed", 0, "Random seed (0 seeds from the clock)")
	flag.IntVar(&params.SelfPlay.Workers, "workers", runtime.NumCPU(),
		"Number of games to play in parallel")
	flag.IntVar(&params.SelfPlay.GamesPerWorker, "games", 10,
		"Number of games each worker plays")
	flag.IntVar(&params.SelfPlay.GreedyDepth, "greedy_depth", 2,
		"Number of moves sampled from the average policy before playing greedily")
	flag.Parse()

	go http.ListenAndServe("localhost:4123", nil)

	newGame, err := games.Lookup(params.Game)
	if err != nil {
		glog.Fatal(err)
	}

	params.SelfPlay.Search = obscuro.DefaultSearchParams()
	if params.ParamsFile != "" {
		params.SelfPlay.Search, err = obscuro.LoadSearchParams(params.ParamsFile)
		if err != nil {
			glog.Fatal(err)
		}
	}
	params.SelfPlay.Search.Seed = params.Seed

	glog.Infof("Playing %d games of %v in %d workers",
		params.SelfPlay.Workers*params.SelfPlay.GamesPerWorker,
		params.Game, params.SelfPlay.Workers)
	buf, err := selfplay.Run(context.Background(), newGame, params.SelfPlay)
	if err != nil {
		glog.Fatal(err)
	}

	if err := selfplay.SaveBuffer(buf, params.Output); err != nil {
		glog.Fatal(err)
	}
}
