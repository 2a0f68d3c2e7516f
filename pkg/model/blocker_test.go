package model

import (
	"math/rand/v2"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/limaJavier/blocker/pkg/errors"
	"github.com/limaJavier/blocker/pkg/sat"
)

const (
	satisfiableTestDirectory   = "../../test/instances/satisfiable/"
	unsatisfiableTestDirectory = "../../test/instances/unsatisfiable/"
)

func testOptions() Options {
	options := DefaultOptions()
	options.Seed = 42
	return options
}

func TestSampledBlocker(t *testing.T) {
	blocker := NewSampledBlocker(testOptions())

	t.Run("Satisfiable instances", func(t *testing.T) {
		satisfiableExecution(t, blocker)
	})
	t.Run("Unsatisfiable instances", func(t *testing.T) {
		unsatisfiableExecution(t, blocker)
	})
}

func TestGophersatBasedExactBlocker(t *testing.T) {
	blocker := NewExactBlocker(sat.NewGophersatSolver(), testOptions())

	t.Run("Satisfiable instances", func(t *testing.T) {
		satisfiableExecution(t, blocker)
	})
	t.Run("Unsatisfiable instances", func(t *testing.T) {
		unsatisfiableExecution(t, blocker)
	})
}

func TestSharedStudentScenario(t *testing.T) {
	//** Arrange
	input := csvInput(t, sharedStudentStudents, sharedStudentSubjects, false)
	blocker := NewSampledBlocker(testOptions())

	//** Act
	timetable, err := blocker.Build(input)

	//** Assert
	require.Nil(t, err)
	assert.True(t, blocker.Verify(timetable, input))
	assert.Equal(t, "A", timetable.Blocking[subjectId(t, input, "X")].String())
	assert.Equal(t, "B", timetable.Blocking[subjectId(t, input, "Y")].String())
	assert.Equal(t, map[Block]int{0: subjectId(t, input, "X"), 1: subjectId(t, input, "Y")}, timetable.StudentBlocks(input.Students[0]))
}

func TestStudentTakingBothSections(t *testing.T) {
	for _, blocker := range []Blocker{
		NewSampledBlocker(testOptions()),
		NewExactBlocker(sat.NewGophersatSolver(), testOptions()),
	} {
		//** Arrange
		input := csvInput(t, "Doe,Jane,Maths,Maths,Art\nRoe,Rick,Maths,Art\n", "Maths,2\nArt,1\n", false)
		maths, art := subjectId(t, input, "Maths"), subjectId(t, input, "Art")
		jane := input.Students[0]

		//** Act
		timetable, err := blocker.Build(input)

		//** Assert
		require.Nil(t, err)
		assert.True(t, blocker.Verify(timetable, input))
		assert.Equal(t, "A", timetable.Blocking[art].String())
		// Block A is taken by Art, so Jane's two Maths classes need both remaining blocks
		assert.Equal(t, "BC", timetable.Blocking[maths].String())
		assert.ElementsMatch(t, []Block{1, 2}, timetable.BlocksOf(jane, maths))
		assert.Equal(t, 0, timetable.ClassSizes[maths][0])
		assert.Equal(t, 3, timetable.ClassSizes[maths][1]+timetable.ClassSizes[maths][2])

		// Both choices of Maths in the same class are rejected
		assignments := slices.Clone(timetable.Assignments)
		assignments[jane.Id] = []Block{1, 1, 0}
		collapsed := timetable
		collapsed.Assignments = assignments
		assert.False(t, blocker.Verify(collapsed, input))
	}
}

func TestSharedSubjectScenario(t *testing.T) {
	for _, blocker := range []Blocker{
		NewSampledBlocker(testOptions()),
		NewExactBlocker(sat.NewGophersatSolver(), testOptions()),
	} {
		//** Arrange
		input := csvInput(t, sharedSubjectStudents, sharedSubjectSubjects, true)

		//** Act
		timetable, err := blocker.Build(input)

		//** Assert
		require.Nil(t, err)
		assert.True(t, blocker.Verify(timetable, input))
		assert.True(t, timetable.Perfect)

		maths := subjectId(t, input, "Maths")
		sizes := slices.Clone(timetable.ClassSizes[maths])
		slices.Sort(sizes)
		assert.Equal(t, []int{1, 2}, sizes)
		assert.Equal(t, 1, timetable.Spread(maths))
		assert.Equal(t, 2, timetable.Blocking[maths].Len()) // Both sections are used
	}
}

func TestSmallInstanceScenario(t *testing.T) {
	//** Arrange
	input := csvInput(t, smallStudents, smallSubjects, false)
	registry := prometheus.NewRegistry()
	options := testOptions()
	options.Metrics = NewMetrics(registry)
	blocker := NewSampledBlocker(options)

	//** Act
	timetable, err := blocker.Build(input)

	//** Assert
	require.Nil(t, err)
	assert.True(t, blocker.Verify(timetable, input))
	assert.True(t, timetable.Perfect)
	assert.Equal(t, "A", timetable.Blocking[subjectId(t, input, "Art")].String())
	assert.Equal(t, "B", timetable.Blocking[subjectId(t, input, "Bio")].String())
	assert.Equal(t, "AC", timetable.Blocking[subjectId(t, input, "Chem")].String())
	assert.Equal(t, []int{2, 0, 2}, timetable.ClassSizes[subjectId(t, input, "Chem")])
	assert.Equal(t, "A:2; B:0; C:2", timetable.Stats(subjectId(t, input, "Chem")))

	assert.Equal(t, 1.0, testutil.ToFloat64(options.Metrics.Combinations.WithLabelValues(stageSingleSection, outcomeAccepted)))
	assert.Equal(t, 1.0, testutil.ToFloat64(options.Metrics.Combinations.WithLabelValues(stageMultiSection, outcomeAccepted)))
	assert.Equal(t, 2.0, testutil.ToFloat64(options.Metrics.PinnedSubjects))
	assert.Equal(t, 1, testutil.CollectAndCount(options.Metrics.SearchDuration))
}

func TestStrictBalance(t *testing.T) {
	for _, strict := range []bool{false, true} {
		for _, blocker := range []func(options Options) Blocker{
			NewSampledBlocker,
			func(options Options) Blocker { return NewExactBlocker(sat.NewGophersatSolver(), options) },
		} {
			//** Arrange
			input := csvInput(t, sharedSubjectStudents, sharedSubjectSubjects, true)
			options := testOptions()
			options.Attempts = 3
			options.MaxSpread = 0
			options.StrictBalance = strict

			//** Act
			timetable, err := blocker(options).Build(input)

			//** Assert
			// The only feasible blocking cannot be balanced, so it's returned as best effort
			require.Nil(t, err)
			assert.False(t, timetable.Perfect)
			assert.Equal(t, 3, timetable.Attempts)
			assert.True(t, verify(timetable, input))
		}
	}
}

func TestReproducibleBuilds(t *testing.T) {
	//** Arrange
	input, err := InputFromJson(filepath.Join(satisfiableTestDirectory, "sixth_form.json"), true)
	require.Nil(t, err)

	build := func(options Options) Timetable {
		timetable, err := NewSampledBlocker(options).Build(input)
		require.Nil(t, err)
		return timetable
	}

	seeded := testOptions()
	withSource := DefaultOptions()

	//** Act
	first, second := build(seeded), build(seeded)
	withSource.Source = rand.NewPCG(3, 4)
	third := build(withSource)
	withSource.Source = rand.NewPCG(3, 4)
	fourth := build(withSource)

	//** Assert
	assert.Equal(t, first, second)
	assert.Equal(t, third, fourth)
}

func TestVerifyRejections(t *testing.T) {
	//** Arrange
	input := csvInput(t, smallStudents, smallSubjects, false)
	timetable, err := NewSampledBlocker(testOptions()).Build(input)
	require.Nil(t, err)
	require.True(t, verify(timetable, input))

	clone := func() Timetable {
		copied := timetable
		copied.Blocking = slices.Clone(timetable.Blocking)
		copied.Assignments = make([][]Block, len(timetable.Assignments))
		for i := range timetable.Assignments {
			copied.Assignments[i] = slices.Clone(timetable.Assignments[i])
		}
		copied.ClassSizes = make([][]int, len(timetable.ClassSizes))
		for i := range timetable.ClassSizes {
			copied.ClassSizes[i] = slices.Clone(timetable.ClassSizes[i])
		}
		return copied
	}
	art, chem := subjectId(t, input, "Art"), subjectId(t, input, "Chem")

	scenarios := map[string]func(timetable *Timetable){
		"Wrong cardinality": func(timetable *Timetable) {
			timetable.Blocking[chem] = NewBlockSet(0)
		},
		"Block beyond the last one": func(timetable *Timetable) {
			timetable.Blocking[art] = NewBlockSet(5)
		},
		"Collision": func(timetable *Timetable) {
			// Student two attends Art in A and Chem in C
			timetable.Assignments[1][1] = 0
		},
		"Outside the blocking": func(timetable *Timetable) {
			timetable.Assignments[4][0] = 1
		},
		"Missing subject": func(timetable *Timetable) {
			timetable.Assignments[3] = []Block{}
		},
		"Wrong class size": func(timetable *Timetable) {
			timetable.ClassSizes[art][0]++
		},
	}

	for name, mutate := range scenarios {
		t.Run(name, func(t *testing.T) {
			//** Act
			mutated := clone()
			mutate(&mutated)

			//** Assert
			assert.False(t, verify(mutated, input))
		})
	}
}

func satisfiableExecution(t *testing.T, blocker Blocker) {
	for _, filename := range instanceFiles(t, satisfiableTestDirectory) {
		//** Arrange
		input, err := inputFromFile(filename)
		require.Nil(t, err, filename)

		//** Act
		timetable, err := blocker.Build(input)

		//** Assert
		assert.Nil(t, err, filename)
		assert.True(t, blocker.Verify(timetable, input), filename)
	}
}

func unsatisfiableExecution(t *testing.T, blocker Blocker) {
	for _, filename := range instanceFiles(t, unsatisfiableTestDirectory) {
		//** Arrange
		input, err := inputFromFile(filename)
		require.Nil(t, err, filename)

		//** Act
		_, err = blocker.Build(input)

		//** Assert
		assert.ErrorIs(t, err, appErrors.ErrImpossible, filename)
	}
}

func instanceFiles(t *testing.T, directory string) []string {
	entries, err := os.ReadDir(directory)
	require.Nil(t, err)

	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		files = append(files, filepath.Join(directory, entry.Name()))
	}
	return files
}

func inputFromFile(filename string) (ModelInput, error) {
	switch filepath.Ext(filename) {
	case ".yaml", ".yml":
		return InputFromYaml(filename, true)
	default:
		return InputFromJson(filename, true)
	}
}
