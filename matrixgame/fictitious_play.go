// Package matrixgame approximates equilibria of two-player zero-sum
// matrix games. The bundled one-shot games use it as a reference
// solution for the search.
package matrixgame

import (
	"github.com/golang/glog"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Solution is an approximate equilibrium of a matrix game.
type Solution struct {
	Row   []float64
	Col   []float64
	Value float64
}

// FictitiousPlay approximates the equilibrium of the zero-sum game with
// the given payoffs, expressed for the row player. With probability
// mixingLambda a player plays uniformly at random instead of best
// responding to the opponent's empirical mixture.
func FictitiousPlay(payoffs *mat.Dense, nIter int, mixingLambda float64, rng *rand.Rand) Solution {
	nRows, nCols := payoffs.Dims()
	rowCounts := make([]float64, nRows)
	colCounts := make([]float64, nCols)
	for i := 1; i <= nIter; i++ {
		var rowSelected int
		if rng.Float64() < mixingLambda {
			rowSelected = rng.Intn(nRows)
		} else {
			rowSelected = rowBestResponse(payoffs, colCounts, rng)
		}

		var colSelected int
		if rng.Float64() < mixingLambda {
			colSelected = rng.Intn(nCols)
		} else {
			colSelected = colBestResponse(payoffs, rowCounts, rng)
		}

		rowCounts[rowSelected]++
		colCounts[colSelected]++

		if nIter >= 10 && i%(nIter/10) == 0 {
			glog.V(1).Infof("After %d iterations, row weights: %v, col weights: %v",
				i, normalize(rowCounts), normalize(colCounts))
		}
	}

	row, col := normalize(rowCounts), normalize(colCounts)
	return Solution{
		Row:   row,
		Col:   col,
		Value: Value(payoffs, row, col),
	}
}

// Value is the row player's expected payoff when both players mix.
func Value(payoffs *mat.Dense, row, col []float64) float64 {
	return mat.Inner(mat.NewVecDense(len(row), row), payoffs, mat.NewVecDense(len(col), col))
}

func rowBestResponse(payoffs *mat.Dense, colCounts []float64, rng *rand.Rand) int {
	nRows, _ := payoffs.Dims()
	utilities := mat.NewVecDense(nRows, nil)
	utilities.MulVec(payoffs, mat.NewVecDense(len(colCounts), colCounts))
	return argMax(utilities.RawVector().Data, rng)
}

func colBestResponse(payoffs *mat.Dense, rowCounts []float64, rng *rand.Rand) int {
	_, nCols := payoffs.Dims()
	utilities := mat.NewVecDense(nCols, nil)
	utilities.MulVec(payoffs.T(), mat.NewVecDense(len(rowCounts), rowCounts))
	// Column player minimizes.
	utilities.ScaleVec(-1, utilities)
	return argMax(utilities.RawVector().Data, rng)
}

func normalize(counts []float64) []float64 {
	result := make([]float64, len(counts))
	total := floats.Sum(counts)
	if total == 0 {
		for i := range result {
			result[i] = 1.0 / float64(len(result))
		}
		return result
	}

	floats.ScaleTo(result, 1/total, counts)
	return result
}

// argMax breaks ties uniformly at random.
func argMax(vs []float64, rng *rand.Rand) int {
	best := floats.Max(vs)
	bestIdx, nTied := 0, 0
	for i, v := range vs {
		if v == best {
			nTied++
			if rng.Intn(nTied) == 0 {
				bestIdx = i
			}
		}
	}

	return bestIdx
}
