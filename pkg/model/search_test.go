package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/limaJavier/blocker/pkg/errors"
)

func TestProduct(t *testing.T) {
	a, b, c := NewBlockSet(0), NewBlockSet(1), NewBlockSet(2)

	t.Run("Last list varies fastest", func(t *testing.T) {
		combinations := make([][]BlockSet, 0)
		for combination := range product([][]BlockSet{{a, b}, {a, b, c}}) {
			combinations = append(combinations, append([]BlockSet(nil), combination...))
		}
		assert.Equal(t, [][]BlockSet{{a, a}, {a, b}, {a, c}, {b, a}, {b, b}, {b, c}}, combinations)
	})

	t.Run("No lists", func(t *testing.T) {
		visited := 0
		for combination := range product(nil) {
			assert.Empty(t, combination)
			visited++
		}
		assert.Equal(t, 1, visited)
	})

	t.Run("Empty list", func(t *testing.T) {
		visited := 0
		for range product([][]BlockSet{{a, b}, {}}) {
			visited++
		}
		assert.Equal(t, 0, visited)
	})

	t.Run("Early stop", func(t *testing.T) {
		visited := 0
		for range product([][]BlockSet{{a, b}, {a, b}}) {
			visited++
			if visited == 3 {
				break
			}
		}
		assert.Equal(t, 3, visited)
	})
}

func TestSearchChecks(t *testing.T) {
	//** Arrange
	input := csvInput(t, "One,Student,X,Y\nTwo,Student,X,T\nThree,Student,X,Y,T\n", "X,1\nY,1\nT,2\n", false)
	state := newSearchState(input, DefaultOptions())
	x, y, tt := subjectId(t, input, "X"), subjectId(t, input, "Y"), subjectId(t, input, "T")

	t.Run("Single-section collision", func(t *testing.T) {
		state.blocking[x], state.blocking[y], state.blocking[tt] = NewBlockSet(0), NewBlockSet(0), NewBlockSet(1, 2)
		assert.False(t, state.satisfiesSingleSectionStudents())
		assert.False(t, state.isBalanced()) // 3 + 2 students in block A
		assert.False(t, state.satisfiesAllStudents())
	})

	t.Run("Feasible blocking", func(t *testing.T) {
		state.blocking[x], state.blocking[y], state.blocking[tt] = NewBlockSet(0), NewBlockSet(1), NewBlockSet(1, 2)
		assert.True(t, state.satisfiesSingleSectionStudents())
		assert.True(t, state.isBalanced())
		assert.True(t, state.satisfiesAllStudents())
	})

	t.Run("Multi-section collision", func(t *testing.T) {
		// The third student cannot attend T while X and Y take both of its blocks
		state.blocking[x], state.blocking[y], state.blocking[tt] = NewBlockSet(0), NewBlockSet(1), NewBlockSet(0, 1)
		assert.True(t, state.satisfiesSingleSectionStudents())
		assert.False(t, state.satisfiesAllStudents())
	})
}

func TestSearchSamplingStride(t *testing.T) {
	//** Arrange
	input := csvInput(t, sharedStudentStudents, sharedStudentSubjects, false)
	options := DefaultOptions()
	options.Speed = 2
	state := newSearchState(input, options)
	require.Nil(t, state.prefilter())

	//** Act
	_, err := state.search()

	//** Assert
	// The only combination is skipped by the stride
	assert.ErrorIs(t, err, appErrors.ErrSearchExhausted)
}

func TestSearchWithoutCandidates(t *testing.T) {
	//** Arrange
	// Every pair of blocks of T is taken by two co-enrolled single-section subjects
	input := csvInput(t,
		"One,Student,X,Y,Z\nTwo,Student,X,Y,T\nThree,Student,X,Z,T\nFour,Student,Y,Z,T\n",
		"X,1\nY,1\nZ,1\nT,2\n",
		false,
	)
	state := newSearchState(input, DefaultOptions())
	require.Nil(t, state.prefilter())

	//** Act
	_, err := state.search()

	//** Assert
	assert.Empty(t, state.choices[subjectId(t, input, "T")].Values())
	assert.ErrorIs(t, err, appErrors.ErrSearchExhausted)
}
