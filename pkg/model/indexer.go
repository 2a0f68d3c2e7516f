package model

// indexer gives a unique SAT variable to each subject's candidate block-set and to each student's seat
// (chosen subject slot, block), and vice versa
type indexer interface {
	// Returns the variable standing for "subject takes its candidate-th block-set"
	Choice(subject, candidate int) int64
	// Returns the variable standing for "student attends its slot-th subject in block"
	Seat(student, slot int, block Block) int64
	// Returns the subject and candidate of a choice variable; ok is false for seat variables
	ChoiceAttributes(variable int64) (subject, candidate int, ok bool)
	// Returns the total amount of variables
	Variables() uint64
}

func newIndexer(modelInput ModelInput, candidates [][]BlockSet) indexer {
	indexer := &indexerImplementation{
		blocks:         int64(len(modelInput.Blocks)),
		choiceOffsets:  make([]int64, len(candidates)+1),
		studentOffsets: make([]int64, len(modelInput.Students)+1),
	}

	for subject, subjectCandidates := range candidates {
		indexer.choiceOffsets[subject+1] = indexer.choiceOffsets[subject] + int64(len(subjectCandidates))
	}
	for _, student := range modelInput.Students {
		indexer.studentOffsets[student.Id+1] = indexer.studentOffsets[student.Id] + int64(len(student.Subjects))*indexer.blocks
	}

	return indexer
}
