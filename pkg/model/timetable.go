package model

import (
	"fmt"
	"slices"
	"strings"

	"github.com/samber/lo"
)

// Timetable is the outcome of a blocker: the block-set of every subject and the block of every student's class
type Timetable struct {
	Blocks      []Block
	Blocking    []BlockSet // Block-set per subject id
	Assignments [][]Block  // Block per student id and chosen subject, parallel to Student.Subjects
	ClassSizes  [][]int    // Population per subject id and block
	Perfect     bool       // Whether every subject is balanced within the configured spread
	Attempts    int        // Refinement attempts spent on the accepted blocking
}

// BlockOf returns the block where the student attends the subject (its first section when chosen twice)
func (timetable Timetable) BlockOf(student Student, subject int) (Block, bool) {
	slot := slices.Index(student.Subjects, subject)
	if slot < 0 || student.Id >= len(timetable.Assignments) || len(timetable.Assignments[student.Id]) <= slot {
		return 0, false
	}
	return timetable.Assignments[student.Id][slot], true
}

// BlocksOf returns the blocks where the student attends the subject, one per choice of it
func (timetable Timetable) BlocksOf(student Student, subject int) []Block {
	if student.Id >= len(timetable.Assignments) {
		return []Block{}
	}
	return lo.FilterMap(timetable.Assignments[student.Id], func(block Block, slot int) (Block, bool) {
		return block, slot < len(student.Subjects) && student.Subjects[slot] == subject
	})
}

// StudentBlocks returns the subject (id) the student attends at each block
func (timetable Timetable) StudentBlocks(student Student) map[Block]int {
	blocks := make(map[Block]int, len(student.Subjects))
	for slot, block := range timetable.Assignments[student.Id] {
		blocks[block] = student.Subjects[slot]
	}
	return blocks
}

// Spread is the difference between the most and least populated nonzero classes of the subject
func (timetable Timetable) Spread(subject int) int {
	return spread(timetable.ClassSizes[subject])
}

func (timetable Timetable) WorstSpread() int {
	worst := 0
	for subject := range timetable.ClassSizes {
		worst = max(worst, timetable.Spread(subject))
	}
	return worst
}

// Stats renders the class sizes of a subject as "A:10; B:9"
func (timetable Timetable) Stats(subject int) string {
	return strings.Join(lo.Map(timetable.Blocks, func(block Block, _ int) string {
		return fmt.Sprintf("%v:%v", block, timetable.ClassSizes[subject][block])
	}), "; ")
}

func spread(sizes []int) int {
	nonzero := lo.Filter(sizes, func(size int, _ int) bool { return size != 0 })
	if len(nonzero) == 0 {
		return 0
	}
	return slices.Max(nonzero) - slices.Min(nonzero)
}
