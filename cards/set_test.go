package cards

import (
	"testing"
)

var testHand = []Card{Queen, Queen, King, Ace, Ace, Ace}

func TestNewSetFromCards(t *testing.T) {
	set := NewSetFromCards(testHand)
	expected := map[Card]uint8{
		Jack:  0,
		Queen: 2,
		King:  1,
		Ace:   3,
	}

	for card, count := range expected {
		if set.CountOf(card) != count {
			t.Errorf("card set has %d of %v, expected %d", set.CountOf(card), card, count)
		}
	}
}

func TestLenAndAsSlice(t *testing.T) {
	set := NewSetFromCards(testHand)
	if set.Len() != len(testHand) {
		t.Errorf("card set has len %d, expected %d", set.Len(), len(testHand))
	}

	if !setEqual(set.AsSlice(), testHand) {
		t.Errorf("got unexpected slice of cards: %v", set)
	}
}

func TestAddRemove(t *testing.T) {
	set := NewSet()
	if set.Len() != 0 {
		t.Error("new set should be empty")
	}

	set.AddN(King, 3)
	set.Add(Jack)
	if !setEqual(set.AsSlice(), []Card{Jack, King, King, King}) {
		t.Errorf("got unexpected slice of cards: %v", set)
	}

	set.RemoveN(King, 2)
	set.Remove(Jack)
	if !setEqual(set.AsSlice(), []Card{King}) {
		t.Errorf("got unexpected slice of cards: %v", set)
	}
	if set.Contains(Jack) || !set.Contains(King) {
		t.Errorf("unexpected contents: %v", set)
	}
}

func TestAdd_Panic(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("expected panic when overflowing card count")
		}
	}()

	set := NewSet()
	set.AddN(Ace, maxCountPerType)
	set.Add(Ace)
}

func TestRemove_Panic(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("expected panic when removing non-existent card")
		}
	}()

	set := NewSetFromCards([]Card{King})
	set.Remove(Queen)
}

func TestRemoveN_Panic(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("expected panic when removing non-existent card")
		}
	}()

	set := NewSetFromCards([]Card{King})
	set.RemoveN(King, 2)
}

func TestBeats(t *testing.T) {
	if !Ace.Beats(King) || !King.Beats(Queen) || Queen.Beats(King) {
		t.Error("higher ranks should beat lower ranks")
	}
	if Ace.Beats(Ace) {
		t.Error("a card should not beat itself")
	}
}

func setEqual(s1, s2 []Card) bool {
	if len(s1) != len(s2) {
		return false
	}

	m1 := make(map[Card]int, len(s1))
	for _, card := range s1 {
		m1[card]++
	}

	for _, card := range s2 {
		m1[card]--
	}

	for _, count := range m1 {
		if count != 0 {
			return false
		}
	}

	return true
}
