package matrixgame

import (
	"math"
	"testing"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
)

func TestFictitiousPlay_RockPaperScissors(t *testing.T) {
	payoffs := mat.NewDense(3, 3, []float64{
		0, -1, 1, // Row plays rock.
		1, 0, -1, // Row plays paper.
		-1, 1, 0, // Row plays scissors.
	})

	rng := rand.New(rand.NewSource(1))
	solution := FictitiousPlay(payoffs, 20000, 0, rng)
	t.Logf("Equilibrium: %+v", solution)
	for i := range solution.Row {
		if math.Abs(solution.Row[i]-1.0/3) > 0.05 {
			t.Errorf("row strategy too far from uniform: %v", solution.Row)
		}
		if math.Abs(solution.Col[i]-1.0/3) > 0.05 {
			t.Errorf("col strategy too far from uniform: %v", solution.Col)
		}
	}
	if math.Abs(solution.Value) > 0.05 {
		t.Errorf("expected value near 0, got %v", solution.Value)
	}
}

func TestFictitiousPlay_MatchingPennies(t *testing.T) {
	payoffs := mat.NewDense(2, 2, []float64{
		1, -1,
		-1, 1,
	})

	rng := rand.New(rand.NewSource(2))
	solution := FictitiousPlay(payoffs, 20000, 0.01, rng)
	if math.Abs(solution.Row[0]-0.5) > 0.05 || math.Abs(solution.Col[0]-0.5) > 0.05 {
		t.Errorf("expected 0.5/0.5, got %+v", solution)
	}
}

func TestValue(t *testing.T) {
	payoffs := mat.NewDense(2, 2, []float64{
		3, 0,
		0, 1,
	})

	if v := Value(payoffs, []float64{1, 0}, []float64{0.5, 0.5}); v != 1.5 {
		t.Errorf("expected 1.5, got %v", v)
	}
}

func TestArgMax_Ties(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	counts := make([]int, 3)
	for i := 0; i < 300; i++ {
		counts[argMax([]float64{1, 0, 1}, rng)]++
	}

	if counts[1] != 0 {
		t.Errorf("selected a non-maximal index: %v", counts)
	}
	if counts[0] == 0 || counts[2] == 0 {
		t.Errorf("ties should be broken randomly: %v", counts)
	}
}
