package model

import (
	"iter"
	"slices"

	"github.com/samber/lo"
	"go.uber.org/zap"

	appErrors "github.com/limaJavier/blocker/pkg/errors"
)

// search walks the block-set combinations of the unpinned single-section subjects and, for every one of them that
// keeps single-section classes apart, the combinations of the multi-section subjects. Only every Speed-th combination
// of each stage is evaluated. The first blocking every student fits in is allocated and refined
func (state *searchState) search() (Timetable, error) {
	singles := lo.Filter(state.input.SingleSectionSubjects(), func(subject int, _ int) bool { return !state.pinned[subject] })
	multis := state.input.MultiSectionSubjects()
	slices.Reverse(singles)
	slices.Reverse(multis)

	speed := state.options.Speed
	singleProgress := 0

	// Best unbalanced timetable found so far, returned when no balanced one exists under StrictBalance
	fallback, hasFallback := Timetable{}, false

	//** Stage A: single-section subjects
	for singleCombination := range product(state.candidateLists(singles, state.choices)) {
		for i, subject := range singles {
			state.blocking[subject] = singleCombination[i]
		}

		singleProgress++
		if singleProgress%speed != 0 {
			state.metrics.Combinations.WithLabelValues(stageSingleSection, outcomeSkipped).Inc()
			continue
		} else if !state.satisfiesSingleSectionStudents() {
			state.metrics.Combinations.WithLabelValues(stageSingleSection, outcomeConflict).Inc()
			continue
		}
		state.metrics.Combinations.WithLabelValues(stageSingleSection, outcomeAccepted).Inc()
		state.logger.Debug("single-section blocking accepted", zap.Int("combination", singleProgress))

		// Two-section subjects cannot take both blocks of two co-enrolled single-section subjects
		choices := lo.Map(state.choices, func(choices *Choices, _ int) *Choices { return choices.Clone() })
		state.limitTwoSectionSubjects(state.input.SingleSectionSubjects(), choices)

		//** Stage B: multi-section subjects
		multiProgress := 0
		for multiCombination := range product(state.candidateLists(multis, choices)) {
			for i, subject := range multis {
				state.blocking[subject] = multiCombination[i]
			}

			multiProgress++
			if multiProgress%speed != 0 {
				state.metrics.Combinations.WithLabelValues(stageMultiSection, outcomeSkipped).Inc()
				continue
			} else if !state.isBalanced() {
				state.metrics.Combinations.WithLabelValues(stageMultiSection, outcomeUnbalanced).Inc()
				continue
			} else if !state.satisfiesAllStudents() {
				state.metrics.Combinations.WithLabelValues(stageMultiSection, outcomeConflict).Inc()
				continue
			}
			state.metrics.Combinations.WithLabelValues(stageMultiSection, outcomeAccepted).Inc()
			state.logger.Debug("blocking accepted",
				zap.Int("singleCombination", singleProgress),
				zap.Int("multiCombination", multiProgress),
			)

			timetable, err := state.refine()
			if err != nil {
				return Timetable{}, err
			} else if !timetable.Perfect && state.options.StrictBalance {
				state.logger.Debug("blocking kept as fallback, classes cannot be balanced", zap.Int("worstSpread", timetable.WorstSpread()))
				if !hasFallback || timetable.WorstSpread() < fallback.WorstSpread() {
					fallback, hasFallback = timetable, true
				}
				continue
			}
			return timetable, nil
		}
	}

	if hasFallback {
		return fallback, nil
	}
	return Timetable{}, appErrors.Errorf(appErrors.ErrSearchExhausted, "no feasible blocking was found at speed %v after %v single-section combinations", speed, singleProgress)
}

func (state *searchState) candidateLists(subjects []int, choices []*Choices) [][]BlockSet {
	return lo.Map(subjects, func(subject int, _ int) []BlockSet { return choices[subject].Values() })
}

// satisfiesSingleSectionStudents checks that no student has two single-section subjects in the same block
func (state *searchState) satisfiesSingleSectionStudents() bool {
	for _, student := range state.input.Students {
		var taken BlockSet
		for _, subject := range student.Subjects {
			if state.input.Subjects[subject].Sections != 1 {
				continue
			}
			if taken.Overlaps(state.blocking[subject]) {
				return false
			}
			taken = taken.Union(state.blocking[subject])
		}
	}
	return true
}

// isBalanced checks that the ideal class populations of each block never add up to more than the whole student body
func (state *searchState) isBalanced() bool {
	perBlock := make([]int, len(state.input.Blocks))
	for _, subject := range state.input.Subjects {
		perClass := len(subject.Students) / subject.Sections
		for _, block := range state.blocking[subject.Id].Blocks() {
			perBlock[block] += perClass
			if perBlock[block] > len(state.input.Students) {
				return false
			}
		}
	}
	return true
}

// satisfiesAllStudents checks that every student can attend each chosen subject in a different block
func (state *searchState) satisfiesAllStudents() bool {
	for _, student := range state.input.Students {
		if _, ok := matchStudent(student, state.blocking, state.input.Blocks); !ok {
			return false
		}
	}
	return true
}

// product yields the cartesian product of the lists, the last list varying fastest. The yielded slice is reused between iterations
func product(lists [][]BlockSet) iter.Seq[[]BlockSet] {
	return func(yield func([]BlockSet) bool) {
		for _, list := range lists {
			if len(list) == 0 {
				return
			}
		}

		indexes := make([]int, len(lists))
		combination := make([]BlockSet, len(lists))
		for i, list := range lists {
			combination[i] = list[0]
		}

		for {
			if !yield(combination) {
				return
			}

			// Advance the odometer
			position := len(lists) - 1
			for ; position >= 0; position-- {
				indexes[position]++
				if indexes[position] < len(lists[position]) {
					combination[position] = lists[position][indexes[position]]
					break
				}
				indexes[position] = 0
				combination[position] = lists[position][0]
			}
			if position < 0 {
				return
			}
		}
	}
}
