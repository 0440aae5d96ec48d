package obscuro

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// SearchParams controls the budget and shape of a search.
type SearchParams struct {
	// Wall-clock budget of each StudyPosition call.
	TimePerMove time.Duration `yaml:"time_per_move"`
	// Stop after this many iterations even if time remains. 0 is unbounded.
	MaxIterations int `yaml:"max_iterations"`
	// Minimum number of positions in a constructed subgame.
	MinInfoSize int `yaml:"min_info_size"`
	// Number of k-cover rounds.
	KDepth int `yaml:"k_depth"`
	// Stop growing the tree once it has this many nodes.
	MaxTreeSize int `yaml:"max_tree_size"`
	// Histories deeper than this below the subgame root are treated
	// as leaves when propagating utilities.
	MaxDepth int `yaml:"max_depth"`
	// Number of static evaluations to memoize.
	EvalCacheSize int `yaml:"eval_cache_size"`
	// Random seed. 0 seeds from the clock.
	Seed uint64 `yaml:"seed"`
}

func DefaultSearchParams() SearchParams {
	return SearchParams{
		TimePerMove:   5 * time.Second,
		MinInfoSize:   64,
		KDepth:        3,
		MaxTreeSize:   1000000,
		MaxDepth:      1000,
		EvalCacheSize: 1 << 16,
	}
}

// Validate checks that the parameters describe a runnable search.
func (p SearchParams) Validate() error {
	if p.TimePerMove < 0 {
		return errors.Errorf("time per move must be non-negative, got %v", p.TimePerMove)
	}
	if p.MaxIterations < 0 {
		return errors.Errorf("max iterations must be non-negative, got %d", p.MaxIterations)
	}
	if p.MinInfoSize < 1 {
		return errors.Errorf("min info size must be positive, got %d", p.MinInfoSize)
	}
	if p.KDepth < 1 {
		return errors.Errorf("k depth must be positive, got %d", p.KDepth)
	}
	if p.MaxTreeSize < 1 {
		return errors.Errorf("max tree size must be positive, got %d", p.MaxTreeSize)
	}
	if p.MaxDepth < 1 {
		return errors.Errorf("max depth must be positive, got %d", p.MaxDepth)
	}
	if p.EvalCacheSize < 1 {
		return errors.Errorf("eval cache size must be positive, got %d", p.EvalCacheSize)
	}

	return nil
}

// LoadSearchParams reads YAML parameters from filename. Fields missing
// from the file keep their default values.
func LoadSearchParams(filename string) (SearchParams, error) {
	params := DefaultSearchParams()
	buf, err := os.ReadFile(filename)
	if err != nil {
		return params, errors.Wrapf(err, "reading search params %v", filename)
	}

	if err := yaml.Unmarshal(buf, &params); err != nil {
		return params, errors.Wrapf(err, "parsing search params %v", filename)
	}

	if err := params.Validate(); err != nil {
		return params, errors.Wrapf(err, "invalid search params in %v", filename)
	}

	return params, nil
}
