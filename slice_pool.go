package obscuro

import (
	"sync"
)

var (
	floatSlicePool = sync.Pool{
		New: func() interface{} {
			return make([]float64, 0)
		},
	}

	historySlicePool = sync.Pool{
		New: func() interface{} {
			return make([]*History, 0)
		},
	}
)

func allocFloatSlice(n int) []float64 {
	s := floatSlicePool.Get().([]float64)
	if cap(s) < n {
		return make([]float64, n)
	}

	s = s[:n]
	for i := range s {
		s[i] = 0
	}
	return s
}

func freeFloatSlice(s []float64) {
	if cap(s) > 0 {
		floatSlicePool.Put(s[:0])
	}
}

func allocHistorySlice() []*History {
	return historySlicePool.Get().([]*History)
}

func freeHistorySlice(s []*History) {
	if cap(s) > 0 {
		clear(s[:cap(s)])
		historySlicePool.Put(s[:0])
	}
}
