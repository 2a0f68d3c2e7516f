package model

type predicateEvaluator interface {
	// Checks whether the student has chosen the subject
	Studies(student, subject int) bool

	// Checks whether at least one student studies both subjects
	CoEnrolled(subject1, subject2 int) bool

	// Checks whether at least one student studies every one of the given subjects
	CoEnrolledAll(subjects ...int) bool

	// Checks whether the block is allowed for the subject under the given blocking
	Allowed(blocking []BlockSet, subject int, block Block) bool
}
