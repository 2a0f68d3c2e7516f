package model

import (
	"github.com/samber/lo"
	"go.uber.org/zap"

	appErrors "github.com/limaJavier/blocker/pkg/errors"
)

// prefilter pins the largest, most populated group of pairwise co-enrolled single-section subjects to blocks A, B, C...
// and drops from the other single-section subjects every block that would collide with a pinned one
func (state *searchState) prefilter() error {
	singles := state.input.SingleSectionSubjects()

	pinned, err := state.largestConflictGroup(singles)
	if err != nil {
		return err
	}

	for i, subject := range pinned {
		set := NewBlockSet(state.input.Blocks[i])
		state.choices[subject] = newChoices([]BlockSet{set})
		state.blocking[subject] = set
		state.pinned[subject] = true
	}
	state.metrics.PinnedSubjects.Set(float64(len(pinned)))
	state.logger.Debug("pinned single-section subjects", zap.Strings("subjects", state.subjectNames(pinned)))

	state.limitSingleSectionSubjects(singles)
	state.limitTwoSectionSubjects(pinned, state.choices)

	return nil
}

// largestConflictGroup returns the largest group of single-section subjects where every pair shares a student.
// Ties are broken by total enrollment, then by enumeration order. Only a group larger than the amount of blocks is an
// error: without single-section subjects (or students in them) the group is empty and nothing gets pinned
func (state *searchState) largestConflictGroup(singles []int) ([]int, error) {
	blocks := len(state.input.Blocks)

	for size := min(blocks+1, len(singles)); size > 0; size-- {
		generator := newPermutationGenerator(size, len(singles))

		best, bestScore := []int(nil), 0
		for combination := range generator.Permutations([]func(permutation []int, position int) bool{
			increasingValues,
			// Co-enrolled(subject_i, subject_j) = 1 for every i < j
			func(permutation []int, position int) bool {
				subject := singles[permutation[position]]
				for _, previous := range permutation[:position] {
					if !state.evaluator.CoEnrolled(singles[previous], subject) {
						return false
					}
				}
				return true
			},
		}) {
			subjects := lo.Map(combination, func(index int, _ int) int { return singles[index] })
			score := lo.SumBy(subjects, func(subject int) int { return len(state.input.Subjects[subject].Students) })
			if score > bestScore {
				best, bestScore = subjects, score
			}
		}

		if best == nil {
			continue
		} else if size > blocks {
			return nil, appErrors.Errorf(appErrors.ErrImpossible, "%v single-section subjects share students pairwise but there are only %v blocks: %v",
				size, blocks, state.subjectNames(best))
		}
		return best, nil
	}

	return []int{}, nil
}

// limitSingleSectionSubjects removes the block of each pinned subject from every unpinned co-enrolled single-section subject
func (state *searchState) limitSingleSectionSubjects(singles []int) {
	for _, subject := range singles {
		if state.pinned[subject] {
			continue
		}
		for _, other := range singles {
			if state.pinned[other] && state.evaluator.CoEnrolled(subject, other) {
				state.choices[subject].Remove(state.blocking[other])
			}
		}
	}
}

// limitTwoSectionSubjects removes from every two-section subject the pair of blocks taken by two of the sources
// whenever some student studies the three of them
func (state *searchState) limitTwoSectionSubjects(sources []int, choices []*Choices) {
	for _, subject := range state.input.TwoSectionSubjects() {
		for i, source1 := range sources {
			for _, source2 := range sources[i+1:] {
				if state.evaluator.CoEnrolledAll(subject, source1, source2) {
					choices[subject].Remove(state.blocking[source1].Union(state.blocking[source2]))
				}
			}
		}
	}
}
