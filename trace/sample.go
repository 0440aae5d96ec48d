package trace

import (
	"fmt"
	"iter"

	"github.com/timpalpant/obscuro"
)

// Consistent enumerates every state reachable from root whose trace for
// target's owner is equal to target. Subtrees whose trace has already
// diverged from target are pruned.
//
// Every move must append at least one observation to the Sequence, so
// that no descendant of a matching state can match.
func Consistent(root obscuro.Game, target obscuro.Trace) iter.Seq[obscuro.Game] {
	t, ok := target.(Trace)
	if !ok {
		panic(fmt.Errorf("unsupported trace type: %T", target))
	}

	return func(yield func(obscuro.Game) bool) {
		stack := []obscuro.Game{root}
		for len(stack) > 0 {
			g := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			switch g.Trace(t.owner).Compare(t) {
			case obscuro.Equal:
				if !yield(g) {
					return
				}
			case obscuro.Less:
				actions := g.AvailableActions()
				// Push in reverse so that states are yielded in action order.
				for i := len(actions) - 1; i >= 0; i-- {
					stack = append(stack, g.Play(actions[i]))
				}
			}
		}
	}
}
