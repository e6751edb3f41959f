// Package linalg wraps the dense factorization used by the Newton iteration.
package linalg

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// DefaultRankTol is the relative singular value cutoff used to decide the
// numerical rank of a system.
const DefaultRankTol = 1e-12

var (
	// ErrFactorization is returned when the SVD fails to converge.
	ErrFactorization = errors.New("linalg: factorization failed")

	// ErrShape is returned for non-square systems or mismatched right-hand sides.
	ErrShape = errors.New("linalg: shape mismatch")
)

// LeastSquares solves square systems J·x = b in the minimum-norm
// least-squares sense. Singular values below RankTol·σmax are discarded, so
// nearly dependent rows (redundant active constraints) do not blow up the
// solution.
type LeastSquares struct {
	RankTol float64

	svd mat.SVD
}

// NewLeastSquares returns a solver with the given relative rank tolerance.
func NewLeastSquares(rankTol float64) *LeastSquares {
	if rankTol <= 0 {
		rankTol = DefaultRankTol
	}

	return &LeastSquares{RankTol: rankTol}
}

// Solve writes the solution of j·x = b into dst and returns the numerical
// rank that was used. dst must have the length of b.
func (ls *LeastSquares) Solve(j *mat.Dense, b, dst []float64) (int, error) {
	r, c := j.Dims()
	if r != c || len(b) != r || len(dst) != c {
		return 0, fmt.Errorf("%w: system %dx%d, rhs %d, dst %d", ErrShape, r, c, len(b), len(dst))
	}

	if !ls.svd.Factorize(j, mat.SVDThin) {
		return 0, ErrFactorization
	}

	rank := ls.svd.Rank(ls.RankTol)
	if rank == 0 {
		for i := range dst {
			dst[i] = 0
		}
		return 0, nil
	}

	x := mat.NewVecDense(c, dst)
	ls.svd.SolveVecTo(x, mat.NewVecDense(r, b), rank)

	return rank, nil
}
