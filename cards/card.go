package cards

// Card represents the rank of one card from a small poker deck.
// Higher ranks beat lower ranks at showdown.
type Card uint8

const (
	Unknown Card = iota
	Jack
	Queen
	King
	Ace
)

var cardStr = [...]string{
	"?",
	"J",
	"Q",
	"K",
	"A",
}

// String implements Stringer.
func (c Card) String() string {
	return cardStr[c]
}

// Beats returns whether c wins a showdown against other.
func (c Card) Beats(other Card) bool {
	return c > other
}

// The number of distinct types of Cards.
const NumTypes = len(cardStr)
