package obscuro

import (
	"expvar"
	"fmt"
	"time"
)

var (
	nodesExpanded   = expvar.NewInt("obscuro/nodes_expanded")
	infoSetsCreated = expvar.NewInt("obscuro/infosets_created")
	sweepsRun       = expvar.NewInt("obscuro/sweeps")
	positionsPadded = expvar.NewInt("obscuro/positions_sampled")
	evalCacheHits   = expvar.NewInt("obscuro/eval_cache/hits")
	evalCacheMisses = expvar.NewInt("obscuro/eval_cache/misses")
)

// SearchStats summarizes the most recent call to StudyPosition.
type SearchStats struct {
	TreeSize        int
	NumInfoSets     int
	Sweeps          int
	Expansions      int
	Positions       int
	Buckets         int
	SampledPosition int
	Expectation     Reward
	Elapsed         time.Duration
}

func (s SearchStats) String() string {
	return fmt.Sprintf("%d nodes, %d infosets, %d sweeps, %d expansions, "+
		"%d positions in %d buckets (%d sampled), expectation %.3f in %v",
		s.TreeSize, s.NumInfoSets, s.Sweeps, s.Expansions,
		s.Positions, s.Buckets, s.SampledPosition, s.Expectation, s.Elapsed)
}
