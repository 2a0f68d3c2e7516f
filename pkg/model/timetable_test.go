package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTimetableStatistics(t *testing.T) {
	//** Arrange
	timetable := Timetable{
		Blocks:     newBlocks(3),
		ClassSizes: [][]int{{4, 0, 1}, {3, 3, 3}, {0, 0, 0}},
	}

	//** Assert
	assert.Equal(t, 3, timetable.Spread(0)) // Empty classes are ignored
	assert.Equal(t, 0, timetable.Spread(1))
	assert.Equal(t, 0, timetable.Spread(2))
	assert.Equal(t, 3, timetable.WorstSpread())
	assert.Equal(t, "A:4; B:0; C:1", timetable.Stats(0))
}

func TestTimetableBlockOf(t *testing.T) {
	//** Arrange
	student := Student{Id: 1, Subjects: []int{2, 0}}
	timetable := Timetable{Assignments: [][]Block{{0}, {1, 2}}}

	//** Act
	first, okFirst := timetable.BlockOf(student, 2)
	second, okSecond := timetable.BlockOf(student, 0)
	_, okMissing := timetable.BlockOf(student, 1)

	//** Assert
	assert.True(t, okFirst)
	assert.Equal(t, Block(1), first)
	assert.True(t, okSecond)
	assert.Equal(t, Block(2), second)
	assert.False(t, okMissing)
	assert.Equal(t, map[Block]int{1: 2, 2: 0}, timetable.StudentBlocks(student))
}

func TestTimetableBlocksOf(t *testing.T) {
	//** Arrange
	student := Student{Id: 0, Subjects: []int{3, 1, 3}}
	timetable := Timetable{Assignments: [][]Block{{2, 0, 1}}}

	//** Assert
	assert.Equal(t, []Block{2, 1}, timetable.BlocksOf(student, 3))
	assert.Equal(t, []Block{0}, timetable.BlocksOf(student, 1))
	assert.Empty(t, timetable.BlocksOf(student, 2))

	first, ok := timetable.BlockOf(student, 3)
	assert.True(t, ok)
	assert.Equal(t, Block(2), first)
}
