package plan

import (
	"errors"
	"time"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

// ErrBackendUnavailable indicates the optimization backend is absent,
// misconfigured or out of time budget. It is always recoverable by
// falling back to the heuristic result.
var ErrBackendUnavailable = errors.New("optimization backend unavailable")

// ErrInfeasible indicates the LP had no solution meeting the target.
var ErrInfeasible = errors.New("lp infeasible")

// Model describes one allocation problem in slot-variable form: variable
// i is the number of hours committed inside slot i.
type Model struct {
	// Caps holds the per-slot capacity in hours.
	Caps []float64
	// Day maps each slot to its day index for the cap rows.
	Day     []int
	NumDays int
	// DayCap is the uniform daily cap in hours.
	DayCap float64
	// Weights is the minimization objective; later slots carry larger
	// weights so the solution front-loads the horizon.
	Weights []float64
	// Target is the total hours the assignment must reach.
	Target float64
}

// Solver is the abstract optimization boundary. Implementations must
// honor the time limit and never block past it.
type Solver interface {
	Solve(m Model, timeLimit time.Duration) ([]float64, error)
}

// SimplexSolver solves the model with gonum's simplex implementation.
type SimplexSolver struct {
	// Tol is the simplex tolerance; zero selects the default.
	Tol float64
}

// simplexSolve points to the function running the simplex. Tests override
// it to simulate solver failures and stalls.
var simplexSolve = runSimplex

// Solve runs the simplex under the given time budget. The computation is
// abandoned when the budget is exceeded and ErrBackendUnavailable is
// returned.
func (s SimplexSolver) Solve(m Model, timeLimit time.Duration) ([]float64, error) {
	tol := s.Tol
	if tol == 0 {
		tol = 1e-7
	}
	type outcome struct {
		x   []float64
		err error
	}
	ch := make(chan outcome, 1)
	go func() {
		x, err := simplexSolve(m, tol)
		ch <- outcome{x: x, err: err}
	}()
	if timeLimit <= 0 {
		o := <-ch
		return o.x, o.err
	}
	timer := time.NewTimer(timeLimit)
	defer timer.Stop()
	select {
	case o := <-ch:
		return o.x, o.err
	case <-timer.C:
		return nil, ErrBackendUnavailable
	}
}

// runSimplex builds the standard-form program and solves it: minimize
// w·x subject to x_i <= cap_i, per-day sums <= DayCap, sum(x) == Target
// and x >= 0.
func runSimplex(m Model, tol float64) ([]float64, error) {
	n := len(m.Caps)
	if n == 0 {
		return nil, ErrInfeasible
	}
	c := make([]float64, n)
	copy(c, m.Weights)

	rows := n + m.NumDays
	g := mat.NewDense(rows, n, nil)
	h := make([]float64, rows)
	for i, cap := range m.Caps {
		g.Set(i, i, 1)
		h[i] = cap
	}
	for i, d := range m.Day {
		g.Set(n+d, i, 1)
	}
	for d := 0; d < m.NumDays; d++ {
		h[n+d] = m.DayCap
	}

	a := mat.NewDense(1, n, nil)
	for i := 0; i < n; i++ {
		a.Set(0, i, 1)
	}
	b := []float64{m.Target}

	cStd, aStd, bStd := lp.Convert(c, g, h, a, b)
	_, sol, err := lp.Simplex(cStd, aStd, bStd, tol, nil)
	if err != nil {
		return nil, err
	}
	return sol[:n], nil
}
