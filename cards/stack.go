package cards

import (
	"fmt"
	"math/bits"
	"strings"
)

// Minimum number of bits required to store the identity of a card.
var (
	bitsPerCard = uint(bits.Len(uint(Ace)))
	topCardMask = Stack(1<<bitsPerCard) - 1
	maxCapacity = int(64 / bitsPerCard)
)

// Stack represents an ordered pile of cards, such as a dealt deck.
// The top card in the pile is always in the lowest order bits.
// Cards that are Unknown are set to zero.
type Stack uint64

func assertWithinRange(n int) {
	if n < 0 || n >= maxCapacity {
		panic(fmt.Errorf("card position %d is out of range for Stack", n))
	}
}

// NewStack creates a new Stack from the given slice of Cards.
func NewStack(cards []Card) Stack {
	result := Stack(0)
	for i, card := range cards {
		result.SetNthCard(i, card)
	}
	return result
}

// SetNthCard sets the identity of the Nth card in the stack.
func (s *Stack) SetNthCard(n int, card Card) {
	assertWithinRange(n)
	*s -= Stack(s.NthCard(n)) << (uint(n) * bitsPerCard)
	*s += Stack(card) << (uint(n) * bitsPerCard)
}

// NthCard returns the identity of the card in the Nth position of the stack.
// The Card may be Unknown.
func (s Stack) NthCard(n int) Card {
	assertWithinRange(n)
	shift := uint(n) * bitsPerCard
	return Card((s >> shift) & topCardMask)
}

// Len is the number of positions up to the last known card.
func (s Stack) Len() int {
	return (bits.Len64(uint64(s)) + int(bitsPerCard) - 1) / int(bitsPerCard)
}

// String implements Stringer.
func (s Stack) String() string {
	cards := make([]string, 0)
	for s > 0 {
		c := Card(s & topCardMask)
		cards = append(cards, c.String())
		s >>= bitsPerCard
	}

	return "[" + strings.Join(cards, " ") + "]"
}
