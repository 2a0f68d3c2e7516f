package model

import (
	"slices"

	"github.com/samber/lo"
)

type predicateEvaluatorStandard struct {
	modelInput ModelInput
	studies    [][]bool // Studies matrix' coordinate (i, j) = true if and only if student_i has chosen subject_j
	coEnrolled [][]bool // CoEnrolled matrix' coordinate (i, j) = true if and only if some student studies both subject_i and subject_j
}

func newPredicateEvaluator(modelInput ModelInput) predicateEvaluator {
	subjects := len(modelInput.Subjects)

	evaluator := predicateEvaluatorStandard{
		modelInput: modelInput,
		studies:    make([][]bool, len(modelInput.Students)),
		coEnrolled: make([][]bool, subjects),
	}

	for i := range subjects {
		evaluator.coEnrolled[i] = make([]bool, subjects)
	}

	for _, student := range modelInput.Students {
		evaluator.studies[student.Id] = make([]bool, subjects)
		for _, subject := range student.Subjects {
			evaluator.studies[student.Id][subject] = true
		}
		for i, subject1 := range student.Subjects {
			for _, subject2 := range student.Subjects[i+1:] {
				evaluator.coEnrolled[subject1][subject2] = true
				evaluator.coEnrolled[subject2][subject1] = true
			}
		}
	}

	return &evaluator
}

func (evaluator *predicateEvaluatorStandard) Studies(student, subject int) bool {
	return evaluator.studies[student][subject]
}

func (evaluator *predicateEvaluatorStandard) CoEnrolled(subject1, subject2 int) bool {
	return evaluator.coEnrolled[subject1][subject2]
}

func (evaluator *predicateEvaluatorStandard) CoEnrolledAll(subjects ...int) bool {
	if len(subjects) == 0 {
		return false
	}

	// Every pair must be co-enrolled for a common student to exist
	for i, subject1 := range subjects {
		for _, subject2 := range subjects[i+1:] {
			if subject1 != subject2 && !evaluator.coEnrolled[subject1][subject2] {
				return false
			}
		}
	}

	// Scan the students of the least popular subject
	smallest := slices.MinFunc(subjects, func(a, b int) int {
		return len(evaluator.modelInput.Subjects[a].Students) - len(evaluator.modelInput.Subjects[b].Students)
	})
	return lo.SomeBy(evaluator.modelInput.Subjects[smallest].Students, func(student int) bool {
		return lo.EveryBy(subjects, func(subject int) bool { return evaluator.studies[student][subject] })
	})
}

func (evaluator *predicateEvaluatorStandard) Allowed(blocking []BlockSet, subject int, block Block) bool {
	return blocking[subject].Contains(block)
}
