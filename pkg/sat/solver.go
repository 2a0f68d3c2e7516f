package sat

import "fmt"

const (
	SolverGophersat = "gophersat"
	SolverKissat    = "kissat"
)

type SATSolver interface {
	Solve(SAT) (SATSolution, error) // Returns a solution of the SAT instance if satisfiable, else returns nil (these are valid outputs where error shall be nil)
}

// NewSolver returns the solver registered under name. kissatPath is only used by the kissat solver
func NewSolver(name, kissatPath string) (SATSolver, error) {
	switch name {
	case SolverGophersat:
		return NewGophersatSolver(), nil
	case SolverKissat:
		return NewKissatSolver(kissatPath), nil
	default:
		return nil, fmt.Errorf("unknown sat solver \"%v\"", name)
	}
}
