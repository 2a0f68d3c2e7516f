package sat

import (
	"fmt"
	"strings"

	gophersat "github.com/crillab/gophersat/solver"
)

type gophersatSolver struct{}

// NewGophersatSolver returns an in-process CDCL solver
func NewGophersatSolver() SATSolver {
	return &gophersatSolver{}
}

func (solver *gophersatSolver) Solve(sat SAT) (SATSolution, error) {
	problem, err := gophersat.ParseCNF(strings.NewReader(sat.ToDIMACS()))
	if err != nil {
		return nil, fmt.Errorf("cannot parse DIMACS for gophersat: %v", err)
	}

	instance := gophersat.New(problem)
	switch status := instance.Solve(); status {
	case gophersat.Sat:
		model := instance.Model()
		solution := make(SATSolution, len(model))
		for i, value := range model {
			solution[i] = int64(i + 1)
			if !value {
				solution[i] = -solution[i]
			}
		}
		return solution, nil
	case gophersat.Unsat:
		return nil, nil
	default:
		return nil, fmt.Errorf("gophersat could not decide the instance: %v", status)
	}
}
