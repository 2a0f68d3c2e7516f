package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/limaJavier/blocker/pkg/config"
	appErrors "github.com/limaJavier/blocker/pkg/errors"
	"github.com/limaJavier/blocker/pkg/model"
)

const sixthFormInstance = "../../test/instances/satisfiable/sixth_form.json"

func TestExitCode(t *testing.T) {
	assert.Equal(t, exitNoSolution, exitCode(appErrors.Errorf(appErrors.ErrImpossible, "clique")))
	assert.Equal(t, exitNoSolution, exitCode(appErrors.ErrSearchExhausted))
	assert.Equal(t, exitVerificationFailed, exitCode(errVerificationFailed))
	assert.Equal(t, exitFailure, exitCode(appErrors.ErrInvalidInput))
	assert.Equal(t, exitFailure, exitCode(os.ErrNotExist))
}

func TestNewBlocker(t *testing.T) {
	options := model.DefaultOptions()

	blocker, err := newBlocker(config.SolveConfig{Strategy: model.StrategySampled}, options)
	assert.Nil(t, err)
	assert.NotNil(t, blocker)

	blocker, err = newBlocker(config.SolveConfig{Strategy: model.StrategyExact, Solver: "gophersat"}, options)
	assert.Nil(t, err)
	assert.NotNil(t, blocker)

	_, err = newBlocker(config.SolveConfig{Strategy: model.StrategyExact, Solver: "minisat"}, options)
	assert.ErrorIs(t, err, appErrors.ErrInvalidInput)

	_, err = newBlocker(config.SolveConfig{Strategy: "greedy"}, options)
	assert.ErrorIs(t, err, appErrors.ErrInvalidInput)
}

func TestSolveOptionsSeed(t *testing.T) {
	options := solveOptions(config.SolveConfig{Speed: 3, Attempts: 5, MaxSpread: 1, Seed: 42}, nil, nil)
	assert.Equal(t, uint64(42), options.Seed)
	assert.Equal(t, 3, options.Speed)

	// A zero seed draws a fresh one
	options = solveOptions(config.SolveConfig{}, nil, nil)
	assert.NotZero(t, options.Seed)
}

type slowBlocker struct {
	model.Blocker
}

func (blocker slowBlocker) Build(model.ModelInput) (model.Timetable, error) {
	time.Sleep(time.Second)
	return model.Timetable{}, nil
}

func TestBuildTimeout(t *testing.T) {
	//** Act
	_, err := build(slowBlocker{}, model.ModelInput{}, 10*time.Millisecond)

	//** Assert
	assert.ErrorIs(t, err, appErrors.ErrSearchExhausted)
}

func TestSolveCommand(t *testing.T) {
	//** Arrange
	directory := t.TempDir()
	metrics := filepath.Join(directory, "blocker.prom")
	classLists := filepath.Join(directory, "classes.csv")
	t.Cleanup(func() { instanceFile, metricsFile, classListsFile, outputFile = "", "", "", "" })

	var stdout bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetArgs([]string{"solve",
		"--instance", sixthFormInstance,
		"--speed", "1",
		"--seed", "7",
		"--log-level", "error",
		"--metrics-file", metrics,
		"--class-lists", classLists,
	})

	//** Act
	err := rootCmd.Execute()

	//** Assert
	require.Nil(t, err)
	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	assert.Len(t, lines, 13) // Header and 12 students
	assert.True(t, strings.HasPrefix(lines[0], "Surname,Forename,"))

	content, err := os.ReadFile(metrics)
	require.Nil(t, err)
	assert.Contains(t, string(content), "blocker_search_combinations_total")

	content, err = os.ReadFile(classLists)
	require.Nil(t, err)
	assert.True(t, strings.HasPrefix(string(content), "Subject,Block,Size,Students"))
}

func TestStatsCommand(t *testing.T) {
	//** Arrange
	t.Cleanup(func() { instanceFile = "" })

	var stdout bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetArgs([]string{"stats", "--instance", sixthFormInstance, "--log-level", "error"})

	//** Act
	err := rootCmd.Execute()

	//** Assert
	require.Nil(t, err)
	assert.Contains(t, stdout.String(), "Students: 12\nBlocks: 3")
	assert.Contains(t, stdout.String(), "Maths")
}

func TestLoadInputRejectsUnknownExtension(t *testing.T) {
	instanceFile = "instance.toml"
	t.Cleanup(func() { instanceFile = "" })

	_, err := loadInput(nil, true)
	assert.ErrorIs(t, err, appErrors.ErrInvalidInput)
}
