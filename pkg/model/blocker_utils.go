package model

import (
	"github.com/onsi/gomega/matchers/support/goraph/bipartitegraph"
	"github.com/samber/lo"

	"github.com/limaJavier/blocker/pkg/sat"
)

func verify(timetable Timetable, modelInput ModelInput) bool {
	blocks := len(modelInput.Blocks)
	if len(timetable.Blocking) != len(modelInput.Subjects) ||
		len(timetable.Assignments) != len(modelInput.Students) ||
		len(timetable.ClassSizes) != len(modelInput.Subjects) {
		return false
	}

	//** Check blockings' cardinality
	for _, subject := range modelInput.Subjects {
		blocking := timetable.Blocking[subject.Id]
		if blocking.Len() != subject.Sections || blocking>>blocks != 0 {
			return false
		}
	}

	//** Check every student attends each chosen subject once, within the subject's blocking and without collisions
	classSizes := make([][]int, len(modelInput.Subjects))
	for i := range classSizes {
		classSizes[i] = make([]int, blocks)
	}
	for _, student := range modelInput.Students {
		assignment := timetable.Assignments[student.Id]
		if len(assignment) != len(student.Subjects) {
			return false
		}

		var taken BlockSet
		for slot, block := range assignment {
			subject := student.Subjects[slot]
			if int(block) >= blocks || taken.Contains(block) || !timetable.Blocking[subject].Contains(block) {
				return false
			}
			taken = taken.Union(NewBlockSet(block))
			classSizes[subject][block]++
		}
	}

	//** Check class counters match the assignments
	for subject, sizes := range classSizes {
		if len(timetable.ClassSizes[subject]) != blocks {
			return false
		}
		for block, size := range sizes {
			if timetable.ClassSizes[subject][block] != size {
				return false
			}
		}
	}

	return true
}

// matchStudent finds a block for each of the student's subjects, no two of them equal, within the subjects' blockings
func matchStudent(student Student, blocking []BlockSet, blocks []Block) ([]Block, bool) {
	if len(student.Subjects) == 0 {
		return []Block{}, true
	} else if len(student.Subjects) > len(blocks) {
		return nil, false
	}

	// Build neighbors predicate based on the blocking
	neighbors := func(subjectAny any, blockAny any) (bool, error) {
		subject := subjectAny.(int)
		block := blockAny.(Block)

		return blocking[subject].Contains(block), nil
	}

	// Transform subjects and blocks to slices of any
	subjectsAny, blocksAny := lo.Map(student.Subjects, func(subject int, _ int) any { return subject }), lo.Map(blocks, func(block Block, _ int) any { return block })

	graph, err := bipartitegraph.NewBipartiteGraph(subjectsAny, blocksAny, neighbors)
	if err != nil {
		return nil, false
	}

	matching := graph.LargestMatching()

	// Check the matching is a maximum one
	if len(matching) < len(student.Subjects) {
		return nil, false
	}

	assignment := make([]Block, len(student.Subjects))
	for _, edge := range matching {
		slot, blockIndex := edge.Node1, edge.Node2-len(student.Subjects)
		assignment[slot] = blocks[blockIndex]
	}

	return assignment, true
}

func buildSat(variables uint64, constraints []func(state constraintState) [][]int64, state constraintState) sat.SAT {
	satInstance := sat.SAT{
		Variables: variables,
		Clauses:   [][]int64{},
	}

	type result struct {
		index   int
		clauses [][]int64
	}
	results := make([][][]int64, len(constraints))
	constraintsChannel := make(chan result) // Channel to collect constraints

	// Execute constraints functions on different goroutines to improve performance
	for index, constraint := range constraints {
		go func(index int, constraint func(state constraintState) [][]int64) {
			constraintsChannel <- result{index: index, clauses: constraint(state)}
		}(index, constraint)
	}

	// Collect generated constraints, keeping them in declaration order
	for range constraints {
		collected := <-constraintsChannel
		results[collected.index] = collected.clauses
	}
	close(constraintsChannel)

	for _, clauses := range results {
		satInstance.Clauses = append(satInstance.Clauses, clauses...)
	}

	return satInstance
}
