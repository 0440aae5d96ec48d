package obscuro

import (
	lru "github.com/hashicorp/golang-lru"
)

// evalCache memoizes static evaluations by state identifier.
type evalCache struct {
	cache *lru.Cache
}

func newEvalCache(size int) *evalCache {
	cache, err := lru.New(size)
	if err != nil {
		panic(err)
	}

	return &evalCache{cache: cache}
}

func (c *evalCache) evaluate(g Game) Reward {
	key := identifier(g)
	if v, ok := c.cache.Get(key); ok {
		evalCacheHits.Add(1)
		return v.(Reward)
	}

	evalCacheMisses.Add(1)
	v := g.Evaluate()
	c.cache.Add(key, v)
	return v
}

func (c *evalCache) Len() int {
	return c.cache.Len()
}
