package model

import (
	"math/rand/v2"
	"slices"

	"github.com/samber/lo"
	"go.uber.org/zap"
)

// searchState holds everything a blocking run mutates. Catalog values in input are never modified.
//
//   - choices and pinned are written by the prefilter and read by the search
//   - blocking is written by the search (or the SAT decoder) and read by the allocator
//   - permutations, assignment and counters are written by the allocator and the refiner
type searchState struct {
	input     ModelInput
	options   Options
	evaluator predicateEvaluator
	logger    *zap.Logger
	metrics   *Metrics
	random    *rand.Rand

	choices  []*Choices // Remaining candidate block-sets per subject id
	pinned   []bool     // Subjects assigned by the prefilter
	blocking []BlockSet // Current block-set per subject id

	permutations [][][]Block // Valid block permutations per student id
	assignment   [][]Block   // Current block per student id and chosen subject
	counters     [][]int     // Population per subject id and block
}

func newSearchState(input ModelInput, options Options) *searchState {
	options = options.normalized()

	state := &searchState{
		input:        input,
		options:      options,
		evaluator:    newPredicateEvaluator(input),
		logger:       options.Logger,
		metrics:      options.Metrics,
		random:       options.random(),
		choices:      make([]*Choices, len(input.Subjects)),
		pinned:       make([]bool, len(input.Subjects)),
		blocking:     make([]BlockSet, len(input.Subjects)),
		permutations: make([][][]Block, len(input.Students)),
		assignment:   make([][]Block, len(input.Students)),
		counters:     make([][]int, len(input.Subjects)),
	}

	for _, subject := range input.Subjects {
		state.choices[subject.Id] = newChoices(subject.Candidates)
		state.counters[subject.Id] = make([]int, len(input.Blocks))
	}

	return state
}

// snapshot copies the current blocking and allocation into a Timetable
func (state *searchState) snapshot() Timetable {
	return Timetable{
		Blocks:   slices.Clone(state.input.Blocks),
		Blocking: slices.Clone(state.blocking),
		Assignments: lo.Map(state.assignment, func(blocks []Block, _ int) []Block {
			return slices.Clone(blocks)
		}),
		ClassSizes: lo.Map(state.counters, func(sizes []int, _ int) []int {
			return slices.Clone(sizes)
		}),
	}
}

func (state *searchState) subjectNames(subjects []int) []string {
	return lo.Map(subjects, func(subject int, _ int) string { return state.input.Subjects[subject].Name })
}

// logStats logs the class sizes of every subject in rank order
func (state *searchState) logStats(timetable Timetable) {
	for _, subject := range state.input.Ranking {
		state.logger.Info("class sizes",
			zap.String("subject", state.input.Subjects[subject].Name),
			zap.String("classes", timetable.Stats(subject)),
			zap.Int("spread", timetable.Spread(subject)),
		)
	}
}

func (state *searchState) logDiagnostics() {
	for _, diagnostic := range state.input.Diagnostics {
		state.logger.Warn(diagnostic.Message,
			zap.String("kind", string(diagnostic.Kind)),
			zap.String("student", state.input.Students[diagnostic.Student].Name()),
		)
	}
}
