package model

import "iter"

// unassigned marks a position of a partial permutation that has not been filled yet
const unassigned = -1

type permutationGenerator interface {
	// Every position of a permutation takes a value in [0, domain). Constraints are evaluated each time a position is filled,
	// receiving the partial permutation and the filled position; positions after it hold unassigned.
	//
	// Example:
	//
	//	generator := newPermutationGenerator(3, len(blocks))
	//
	//	permutations := generator.ConstrainedPermutations([]func(permutation []int, position int) bool{
	//				distinctValues,
	//				func(permutation []int, position int) bool {
	//					// The first position only accepts the value 1
	//					return position != 0 || permutation[0] == 1
	//				},
	//			})
	ConstrainedPermutations(constraints []func(permutation []int, position int) bool) [][]int

	// Lazily yields the permutations in the same order as ConstrainedPermutations. The yielded slice is reused between iterations
	Permutations(constraints []func(permutation []int, position int) bool) iter.Seq[[]int]
}

func newPermutationGenerator(positions, domain int) permutationGenerator {
	return &permutationGeneratorImplementation{positions: positions, domain: domain}
}

// Accepts a permutation only if the value at position was not used before
func distinctValues(permutation []int, position int) bool {
	for i := range position {
		if permutation[i] == permutation[position] {
			return false
		}
	}
	return true
}

// Accepts a permutation only if its values are strictly increasing, i.e. it's a combination
func increasingValues(permutation []int, position int) bool {
	return position == 0 || permutation[position-1] < permutation[position]
}
