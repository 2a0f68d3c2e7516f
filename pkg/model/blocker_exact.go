package model

import (
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"

	appErrors "github.com/limaJavier/blocker/pkg/errors"
	"github.com/limaJavier/blocker/pkg/sat"
)

type exactBlocker struct {
	solver  sat.SATSolver
	options Options
}

// NewExactBlocker builds timetables by encoding the blocking problem left after the prefilter as a SAT instance.
// options.Speed is ignored: every blocking is considered
func NewExactBlocker(solver sat.SATSolver, options Options) Blocker {
	return &exactBlocker{
		solver:  solver,
		options: options.normalized(),
	}
}

func (blocker *exactBlocker) Build(modelInput ModelInput) (Timetable, error) {
	start := time.Now()
	defer func() {
		blocker.options.Metrics.SearchDuration.WithLabelValues(StrategyExact).Observe(time.Since(start).Seconds())
	}()

	state := newSearchState(modelInput, blocker.options)
	state.logDiagnostics()

	//** Pin single-section subjects
	if err := state.prefilter(); err != nil {
		return Timetable{}, err
	}

	candidates := lo.Map(state.choices, func(choices *Choices, _ int) []BlockSet { return choices.Values() })
	if subject, ok := lo.Find(modelInput.Subjects, func(subject Subject) bool { return len(candidates[subject.Id]) == 0 }); ok {
		return Timetable{}, appErrors.Errorf(appErrors.ErrSearchExhausted, "subject \"%v\" has no block-set left", subject.Name)
	}

	//** Build SAT instance
	indexer := newIndexer(modelInput, candidates)

	// Constraints functions
	constraints := []func(state constraintState) [][]int64{
		choiceConstraints,
		seatConstraints,
		collisionConstraints,
		linkConstraints,
	}

	satInstance := buildSat(indexer.Variables(), constraints, constraintState{
		modelInput: modelInput,
		indexer:    indexer,
		candidates: candidates,
	})
	state.logger.Debug("sat instance built",
		zap.Uint64("variables", satInstance.Variables),
		zap.Int("clauses", len(satInstance.Clauses)),
	)

	fallback, hasFallback := Timetable{}, false
	for {
		//** Solve SAT instance
		solution, err := blocker.solver.Solve(satInstance)
		if err != nil {
			return Timetable{}, appErrors.Wrap(err, appErrors.ErrSolver, "sat solver failed")
		} else if solution == nil { // The SAT instance is not satisfiable
			if hasFallback {
				return fallback, nil
			}
			return Timetable{}, appErrors.Errorf(appErrors.ErrSearchExhausted, "no feasible blocking exists")
		}

		//** Decode blocking
		chosen := make([]int64, 0, len(modelInput.Subjects))
		for _, variable := range solution {
			if subject, candidate, ok := indexer.ChoiceAttributes(variable); variable > 0 && ok {
				state.blocking[subject] = candidates[subject][candidate]
				chosen = append(chosen, variable)
			}
		}
		state.metrics.Combinations.WithLabelValues(stageMultiSection, outcomeAccepted).Inc()

		//** Allocate and refine
		timetable, err := state.refine()
		if err != nil {
			return Timetable{}, err
		}
		if timetable.Perfect || !blocker.options.StrictBalance {
			state.logStats(timetable)
			return timetable, nil
		}

		// Exclude the blocking and look for another one
		if !hasFallback || timetable.WorstSpread() < fallback.WorstSpread() {
			fallback, hasFallback = timetable, true
		}
		satInstance.Clauses = append(satInstance.Clauses, lo.Map(chosen, func(variable int64, _ int) int64 { return -variable }))
	}
}

func (blocker *exactBlocker) Verify(timetable Timetable, modelInput ModelInput) bool {
	return verify(timetable, modelInput)
}
