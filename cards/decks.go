package cards

// AKQDeck is the three-card deck of AKQ poker.
var AKQDeck = NewSetFromCards([]Card{Queen, King, Ace})
