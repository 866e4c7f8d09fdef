package reconcile

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/alexiusacademia/gorecon/internal/bench"
)

// UnmatchedCost is the cost of pairing a bench with a padding row or
// column. It exceeds any elevation difference found in a pit, so padding is
// only used when no real partner is left.
const UnmatchedCost = 1e6

var (
	// ErrAssignmentInfeasible reports a solver failure. The padded problem is
	// always feasible, so this is an internal invariant violation.
	ErrAssignmentInfeasible = errors.New("reconcile: assignment infeasible")

	// ErrDimensionMismatch reports inconsistent inputs to the matcher.
	ErrDimensionMismatch = errors.New("reconcile: dimension mismatch")
)

// CostMatrix returns the m×n matrix of absolute crest elevation differences
// between design (rows) and as-built (columns) benches. It returns nil when
// either side is empty.
func CostMatrix(design, asBuilt []bench.BenchParams) *mat.Dense {
	if len(design) == 0 || len(asBuilt) == 0 {
		return nil
	}
	cost := mat.NewDense(len(design), len(asBuilt), nil)
	for i, d := range design {
		for j, t := range asBuilt {
			cost.Set(i, j, math.Abs(d.CrestElevation-t.CrestElevation))
		}
	}
	return cost
}

// Assign solves the minimum-cost assignment of a rectangular cost matrix.
// The matrix is padded to a square with UnmatchedCost and solved with the
// Hungarian method (shortest augmenting paths with potentials, O(n³)).
// The returned slice maps each row to its column, or -1 when the row was
// given a padding column.
func Assign(cost mat.Matrix) ([]int, error) {
	rows, cols := cost.Dims()
	n := max(rows, cols)

	// 1-indexed square matrix, row 0 and column 0 unused
	a := make([][]float64, n+1)
	for i := range a {
		a[i] = make([]float64, n+1)
	}
	for i := 1; i <= n; i++ {
		for j := 1; j <= n; j++ {
			if i > rows || j > cols {
				a[i][j] = UnmatchedCost
				continue
			}
			v := cost.At(i-1, j-1)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("%w: cost[%d][%d] = %v", ErrAssignmentInfeasible, i-1, j-1, v)
			}
			a[i][j] = v
		}
	}

	u := make([]float64, n+1)
	v := make([]float64, n+1)
	p := make([]int, n+1) // p[j]: row assigned to column j
	way := make([]int, n+1)

	for i := 1; i <= n; i++ {
		p[0] = i
		j0 := 0
		minv := make([]float64, n+1)
		for j := range minv {
			minv[j] = math.Inf(1)
		}
		used := make([]bool, n+1)

		for {
			used[j0] = true
			i0 := p[j0]
			delta := math.Inf(1)
			j1 := -1
			for j := 1; j <= n; j++ {
				if used[j] {
					continue
				}
				cur := a[i0][j] - u[i0] - v[j]
				if cur < minv[j] {
					minv[j] = cur
					way[j] = j0
				}
				if minv[j] < delta {
					delta = minv[j]
					j1 = j
				}
			}
			if j1 < 0 {
				return nil, fmt.Errorf("%w: no augmenting path for row %d", ErrAssignmentInfeasible, i-1)
			}
			for j := 0; j <= n; j++ {
				if used[j] {
					u[p[j]] += delta
					v[j] -= delta
				} else {
					minv[j] -= delta
				}
			}
			j0 = j1
			if p[j0] == 0 {
				break
			}
		}

		for j0 != 0 {
			j1 := way[j0]
			p[j0] = p[j1]
			j0 = j1
		}
	}

	rowToCol := make([]int, rows)
	for i := range rowToCol {
		rowToCol[i] = -1
	}
	seen := make([]bool, rows)
	for j := 1; j <= n; j++ {
		i := p[j]
		if i < 1 || i > n {
			return nil, fmt.Errorf("%w: column %d left unassigned", ErrAssignmentInfeasible, j-1)
		}
		if i > rows {
			continue
		}
		if seen[i-1] {
			return nil, fmt.Errorf("%w: row %d assigned twice", ErrAssignmentInfeasible, i-1)
		}
		seen[i-1] = true
		if j <= cols {
			rowToCol[i-1] = j - 1
		}
	}
	return rowToCol, nil
}
