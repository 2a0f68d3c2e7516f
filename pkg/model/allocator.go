package model

import (
	"slices"

	"github.com/samber/lo"

	appErrors "github.com/limaJavier/blocker/pkg/errors"
)

// allocate computes, for every student, each ordering of a freshly shuffled block list that fits the current blocking,
// and commits the first one
func (state *searchState) allocate() error {
	for _, student := range state.input.Students {
		shuffled := slices.Clone(state.input.Blocks)
		state.random.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

		generator := newPermutationGenerator(len(student.Subjects), len(shuffled))
		permutations := generator.ConstrainedPermutations([]func(permutation []int, position int) bool{
			distinctValues,
			// Allowed(subject, block) = 1
			func(permutation []int, position int) bool {
				return state.evaluator.Allowed(state.blocking, student.Subjects[position], shuffled[permutation[position]])
			},
		})

		if len(permutations) == 0 {
			return appErrors.Errorf(appErrors.ErrInternal, "%v cannot attend every chosen subject under the accepted blocking", student.Name())
		}

		state.permutations[student.Id] = lo.Map(permutations, func(permutation []int, _ int) []Block {
			return lo.Map(permutation, func(index int, _ int) Block { return shuffled[index] })
		})
		state.assignment[student.Id] = slices.Clone(state.permutations[student.Id][0])
	}

	state.enumerateClasses()
	return nil
}

// enumerateClasses recounts the population of every class from the current assignment
func (state *searchState) enumerateClasses() {
	for subject := range state.counters {
		clear(state.counters[subject])
	}
	for _, student := range state.input.Students {
		for slot, block := range state.assignment[student.Id] {
			state.counters[student.Subjects[slot]][block]++
		}
	}
}
