package model

import "sort"

type indexerImplementation struct {
	blocks         int64
	choiceOffsets  []int64 // First choice variable (0-based) of each subject; the last entry is the amount of choice variables
	studentOffsets []int64 // First seat variable (0-based, after the choice variables) of each student
}

func (indexer *indexerImplementation) Choice(subject, candidate int) int64 {
	return indexer.choiceOffsets[subject] + int64(candidate) + 1
}

func (indexer *indexerImplementation) Seat(student, slot int, block Block) int64 {
	return indexer.choices() + indexer.studentOffsets[student] + int64(slot)*indexer.blocks + int64(block) + 1
}

func (indexer *indexerImplementation) ChoiceAttributes(variable int64) (subject, candidate int, ok bool) {
	index := variable - 1
	if index < 0 || index >= indexer.choices() {
		return 0, 0, false
	}

	// Last subject whose offset is not greater than index
	subject = sort.Search(len(indexer.choiceOffsets), func(i int) bool { return indexer.choiceOffsets[i] > index }) - 1
	candidate = int(index - indexer.choiceOffsets[subject])

	return subject, candidate, true
}

func (indexer *indexerImplementation) Variables() uint64 {
	return uint64(indexer.choices() + indexer.studentOffsets[len(indexer.studentOffsets)-1])
}

func (indexer *indexerImplementation) choices() int64 {
	return indexer.choiceOffsets[len(indexer.choiceOffsets)-1]
}
