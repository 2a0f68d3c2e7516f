package model

import (
	"iter"
	"slices"
)

type permutationGeneratorImplementation struct {
	positions, domain int
}

func (generator *permutationGeneratorImplementation) ConstrainedPermutations(constraints []func(permutation []int, position int) bool) [][]int {
	permutations := make([][]int, 0)
	for permutation := range generator.Permutations(constraints) {
		permutations = append(permutations, slices.Clone(permutation))
	}
	return permutations
}

func (generator *permutationGeneratorImplementation) Permutations(constraints []func(permutation []int, position int) bool) iter.Seq[[]int] {
	return func(yield func([]int) bool) {
		permutation := make([]int, generator.positions)
		for i := range permutation {
			permutation[i] = unassigned
		}
		generator.constrainedPermutations(constraints, 0, permutation, yield)
	}
}

// Returns false once the consumer stops the iteration
func (generator *permutationGeneratorImplementation) constrainedPermutations(
	constraints []func(permutation []int, position int) bool,
	position int,
	permutation []int,
	yield func([]int) bool) bool {

	if position >= generator.positions {
		return yield(permutation)
	}

	for value := range generator.domain {
		permutation[position] = value
		constraintViolated := false
		for _, constraint := range constraints {
			if !constraint(permutation, position) {
				constraintViolated = true
				break
			}
		}

		if constraintViolated {
			continue
		}

		if !generator.constrainedPermutations(constraints, position+1, permutation, yield) {
			permutation[position] = unassigned
			return false
		}
	}

	permutation[position] = unassigned
	return true
}
