package model

type constraintState struct {
	modelInput ModelInput
	indexer    indexer
	candidates [][]BlockSet // Remaining candidate block-sets per subject id
}

// pairs returns every pair i < j of [0, amount)
func pairs(amount int) [][]int {
	return newPermutationGenerator(2, amount).ConstrainedPermutations([]func(permutation []int, position int) bool{
		increasingValues,
	})
}

// exactlyOne returns the clauses forcing exactly one of the literals to be true
func exactlyOne(literals []int64) [][]int64 {
	clauses := [][]int64{literals}
	return append(clauses, atMostOne(literals)...)
}

func atMostOne(literals []int64) [][]int64 {
	clauses := make([][]int64, 0)
	for _, pair := range pairs(len(literals)) {
		clauses = append(clauses, []int64{-literals[pair[0]], -literals[pair[1]]})
	}
	return clauses
}

// Every subject takes exactly one of its remaining candidates
func choiceConstraints(state constraintState) [][]int64 {
	clauses := make([][]int64, 0)
	for _, subject := range state.modelInput.Subjects {
		literals := make([]int64, len(state.candidates[subject.Id]))
		for candidate := range state.candidates[subject.Id] {
			literals[candidate] = state.indexer.Choice(subject.Id, candidate)
		}
		clauses = append(clauses, exactlyOne(literals)...)
	}
	return clauses
}

// Every chosen subject of a student is attended in exactly one block
func seatConstraints(state constraintState) [][]int64 {
	clauses := make([][]int64, 0)
	for _, student := range state.modelInput.Students {
		for slot := range student.Subjects {
			literals := make([]int64, len(state.modelInput.Blocks))
			for _, block := range state.modelInput.Blocks {
				literals[block] = state.indexer.Seat(student.Id, slot, block)
			}
			clauses = append(clauses, exactlyOne(literals)...)
		}
	}
	return clauses
}

// A student attends at most one class per block
func collisionConstraints(state constraintState) [][]int64 {
	clauses := make([][]int64, 0)
	for _, student := range state.modelInput.Students {
		for _, block := range state.modelInput.Blocks {
			literals := make([]int64, len(student.Subjects))
			for slot := range student.Subjects {
				literals[slot] = state.indexer.Seat(student.Id, slot, block)
			}
			clauses = append(clauses, atMostOne(literals)...)
		}
	}
	return clauses
}

// A student attends a subject in a block only if the subject's chosen candidate contains the block:
// Seat(student, slot, block) => OR Choice(subject, candidate) for every candidate containing block
func linkConstraints(state constraintState) [][]int64 {
	clauses := make([][]int64, 0)
	for _, student := range state.modelInput.Students {
		for slot, subject := range student.Subjects {
			for _, block := range state.modelInput.Blocks {
				clause := []int64{-state.indexer.Seat(student.Id, slot, block)}
				for candidate, set := range state.candidates[subject] {
					if set.Contains(block) {
						clause = append(clause, state.indexer.Choice(subject, candidate))
					}
				}
				clauses = append(clauses, clause)
			}
		}
	}
	return clauses
}
