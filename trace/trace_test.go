package trace

import (
	"reflect"
	"testing"

	"github.com/timpalpant/obscuro"
)

func TestEncodeDecode(t *testing.T) {
	for _, player := range []obscuro.Player{obscuro.P1, obscuro.P2, obscuro.Chance} {
		for _, public := range []uint16{0, 1, 17, MaxPublic} {
			for _, private := range []uint32{0, 5, 1234, MaxPrivate} {
				o := Observation{Player: player, Public: public, Private: private}
				decoded := decode(encode(o))
				if !reflect.DeepEqual(o, decoded) {
					t.Errorf("input: %+v, output: %+v", o, decoded)
				}
			}
		}
	}
}

func TestPackSequences(t *testing.T) {
	testCases := [][]Observation{
		{
			{Player: obscuro.P1, Public: 1, Private: 3},
			{Player: obscuro.P2, Public: 1, Private: 2},
			{Player: obscuro.P1, Public: 4},
		},
		{
			{Player: obscuro.Chance, Public: 7, Private: 9},
		},
	}

	for _, testCase := range testCases {
		s := newSequenceFromSlice(testCase)
		result := s.AsSlice()
		if !reflect.DeepEqual(result, testCase) {
			t.Errorf("input: %+v, output: %+v", testCase, result)
		}
	}
}

func TestViewedBy(t *testing.T) {
	s := newSequenceFromSlice([]Observation{
		{Player: obscuro.P1, Public: 1, Private: 3},
		{Player: obscuro.P2, Public: 1, Private: 2},
		{Player: obscuro.Chance, Public: 2, Private: 4},
	})

	p1 := s.ViewedBy(obscuro.P1).Observations()
	expected := []Observation{
		{Player: obscuro.P1, Public: 1, Private: 3},
		{Player: obscuro.P2, Public: 1},
		{Player: obscuro.Chance, Public: 2},
	}
	if !reflect.DeepEqual(p1, expected) {
		t.Errorf("expected %v, got %v", expected, p1)
	}

	chance := s.ViewedBy(obscuro.Chance).Observations()
	expected = []Observation{
		{Player: obscuro.P1, Public: 1},
		{Player: obscuro.P2, Public: 1},
		{Player: obscuro.Chance, Public: 2, Private: 4},
	}
	if !reflect.DeepEqual(chance, expected) {
		t.Errorf("expected %v, got %v", expected, chance)
	}
}

func TestKey(t *testing.T) {
	a := newSequenceFromSlice([]Observation{{Player: obscuro.P1, Public: 1, Private: 1}})
	b := newSequenceFromSlice([]Observation{{Player: obscuro.P1, Public: 1, Private: 2}})

	if a.ViewedBy(obscuro.P2).Key() != b.ViewedBy(obscuro.P2).Key() {
		t.Error("P2 should not distinguish P1's private observations")
	}
	if a.ViewedBy(obscuro.P1).Key() == b.ViewedBy(obscuro.P1).Key() {
		t.Error("P1 should distinguish its own private observations")
	}
	if a.ViewedBy(obscuro.P1).Key() == a.ViewedBy(obscuro.P2).Key() {
		t.Error("traces of different players should have different keys")
	}
}

func TestCompare(t *testing.T) {
	var root Sequence
	left := root
	left.Append(Observation{Player: obscuro.P1, Public: 1, Private: 1})
	right := root
	right.Append(Observation{Player: obscuro.P1, Public: 1, Private: 2})
	deeper := left
	deeper.Append(Observation{Player: obscuro.P2, Public: 3})

	p1 := obscuro.P1
	testCases := []struct {
		a, b     Trace
		expected obscuro.Ordering
	}{
		{root.ViewedBy(p1), root.ViewedBy(p1), obscuro.Equal},
		{root.ViewedBy(p1), left.ViewedBy(p1), obscuro.Less},
		{deeper.ViewedBy(p1), left.ViewedBy(p1), obscuro.Greater},
		{left.ViewedBy(p1), right.ViewedBy(p1), obscuro.Incomparable},
		{deeper.ViewedBy(p1), right.ViewedBy(p1), obscuro.Incomparable},
		{left.ViewedBy(obscuro.P2), right.ViewedBy(obscuro.P2), obscuro.Equal},
		{left.ViewedBy(p1), left.ViewedBy(obscuro.P2), obscuro.Incomparable},
	}

	for _, tc := range testCases {
		if result := tc.a.Compare(tc.b); result != tc.expected {
			t.Errorf("%v vs %v: expected %v, got %v", tc.a, tc.b, tc.expected, result)
		}
		if result := tc.b.Compare(tc.a); result != tc.expected.Reverse() {
			t.Errorf("%v vs %v: expected %v, got %v", tc.b, tc.a, tc.expected.Reverse(), result)
		}
	}
}

func newSequenceFromSlice(observations []Observation) Sequence {
	s := Sequence{}
	for _, o := range observations {
		s.Append(o)
	}
	return s
}
