package cards

import (
	"golang.org/x/exp/rand"
)

// CountDeals is the number of distinct ordered deals of n cards
// from deck.
func CountDeals(deck Set, n int) int {
	count := 0
	EnumerateDeals(deck, n, func(Stack) {
		count++
	})
	return count
}

// EnumerateDeals calls cb with every distinct ordered deal of n cards
// from deck. The first card dealt is at the top of the Stack.
func EnumerateDeals(deck Set, n int, cb func(deal Stack)) {
	enumerateDealsHelper(deck, NewStack(nil), 0, n, cb)
}

func enumerateDealsHelper(deck Set, result Stack, i, n int, cb func(deal Stack)) {
	if i == n { // All cards have been dealt.
		cb(result)
		return
	}

	deck.Iter(func(card Card, count uint8) {
		// Take one of card from deck and append to result.
		remaining := deck
		remaining.Remove(card)
		newResult := result
		newResult.SetNthCard(i, card)
		enumerateDealsHelper(remaining, newResult, i+1, n, cb)
	})
}

// RandomDeal deals n cards uniformly at random from deck.
func RandomDeal(deck Set, n int, rng *rand.Rand) Stack {
	if n > deck.Len() {
		n = deck.Len()
	}

	cards := deck.AsSlice()
	rng.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})
	return NewStack(cards[:n])
}
