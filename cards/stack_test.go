package cards

import (
	"testing"
)

func TestNewStack(t *testing.T) {
	s := NewStack([]Card{Ace, Queen, King})
	if s.Len() != 3 {
		t.Errorf("expected len 3, got %d", s.Len())
	}

	for i, expected := range []Card{Ace, Queen, King} {
		if s.NthCard(i) != expected {
			t.Errorf("position %d: expected %v, got %v", i, expected, s.NthCard(i))
		}
	}

	if s.String() != "[A Q K]" {
		t.Errorf("unexpected string: %v", s)
	}
}

func TestSetNthCard(t *testing.T) {
	s := NewStack([]Card{Ace, Queen})
	s.SetNthCard(0, Jack)
	s.SetNthCard(3, King)
	expected := []Card{Jack, Queen, Unknown, King}
	for i, card := range expected {
		if s.NthCard(i) != card {
			t.Errorf("position %d: expected %v, got %v", i, card, s.NthCard(i))
		}
	}
}

func TestNthCard_Panic(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("expected panic for out of range position")
		}
	}()

	s := NewStack(nil)
	s.NthCard(maxCapacity)
}
