package main

import (
	"io"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/limaJavier/blocker/pkg/config"
	appErrors "github.com/limaJavier/blocker/pkg/errors"
	"github.com/limaJavier/blocker/pkg/export"
	"github.com/limaJavier/blocker/pkg/logger"
	"github.com/limaJavier/blocker/pkg/model"
	"github.com/limaJavier/blocker/pkg/sat"
)

func runSolve(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup(cmd)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	input, err := loadInput(args, cfg.Solve.FreePeriods)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	options := solveOptions(cfg.Solve, log, model.NewMetrics(registry))
	log.Info("building timetable",
		zap.String("strategy", cfg.Solve.Strategy),
		zap.Int("students", len(input.Students)),
		zap.Int("subjects", len(input.Subjects)),
		zap.Int("blocks", len(input.Blocks)),
		zap.Uint64("seed", options.Seed),
	)

	blocker, err := newBlocker(cfg.Solve, options)
	if err != nil {
		return err
	}

	timetable, err := build(blocker, input, cfg.Solve.Timeout)
	if metricsFile != "" {
		if metricsErr := prometheus.WriteToTextfile(metricsFile, registry); metricsErr != nil {
			log.Error("cannot write metrics file", zap.String("file", metricsFile), zap.Error(metricsErr))
		}
	}
	if err != nil {
		return err
	}

	if !blocker.Verify(timetable, input) {
		return errVerificationFailed
	}
	log.Info("timetable built",
		zap.Bool("perfect", timetable.Perfect),
		zap.Int("attempts", timetable.Attempts),
		zap.Int("worstSpread", timetable.WorstSpread()),
	)

	//** Write outputs
	content, err := export.NewCSVExporter().RenderTimetable(input, timetable)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal, "cannot render timetable")
	}
	if err := writeOutput(cmd.OutOrStdout(), outputFile, content); err != nil {
		return err
	}

	if classListsFile != "" {
		content, err := renderClassLists(input, timetable, classListsFile)
		if err != nil {
			return err
		}
		if err := os.WriteFile(classListsFile, content, 0666); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal, "cannot write class lists")
		}
	}

	return nil
}

// setup loads the configuration and builds the run logger
func setup(cmd *cobra.Command) (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return nil, nil, err
	}

	log, err := logger.New(cfg)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal, "cannot build logger")
	}

	return cfg, logger.ForRun(log, uuid.NewString()), nil
}

func loadInput(args []string, allowFreePeriods bool) (model.ModelInput, error) {
	if instanceFile == "" {
		return model.InputFromCsv(args[0], args[1], allowFreePeriods)
	}

	switch strings.ToLower(filepath.Ext(instanceFile)) {
	case ".json":
		return model.InputFromJson(instanceFile, allowFreePeriods)
	case ".yaml", ".yml":
		return model.InputFromYaml(instanceFile, allowFreePeriods)
	default:
		return model.ModelInput{}, appErrors.Errorf(appErrors.ErrInvalidInput, "unsupported instance file \"%v\", expected .json, .yaml or .yml", instanceFile)
	}
}

func solveOptions(solveConfig config.SolveConfig, log *zap.Logger, metrics *model.Metrics) model.Options {
	seed := solveConfig.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}

	return model.Options{
		Speed:         solveConfig.Speed,
		Attempts:      solveConfig.Attempts,
		MaxSpread:     solveConfig.MaxSpread,
		StrictBalance: solveConfig.StrictBalance,
		Seed:          seed,
		Logger:        log,
		Metrics:       metrics,
	}
}

func newBlocker(solveConfig config.SolveConfig, options model.Options) (model.Blocker, error) {
	switch solveConfig.Strategy {
	case model.StrategySampled:
		return model.NewSampledBlocker(options), nil
	case model.StrategyExact:
		solver, err := sat.NewSolver(solveConfig.Solver, solveConfig.KissatPath)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInvalidInput, "invalid solver")
		}
		return model.NewExactBlocker(solver, options), nil
	default:
		return nil, appErrors.Errorf(appErrors.ErrInvalidInput, "unknown strategy \"%v\"", solveConfig.Strategy)
	}
}

// build runs the blocker, abandoning it once the timeout elapses
func build(blocker model.Blocker, input model.ModelInput, timeout time.Duration) (model.Timetable, error) {
	if timeout <= 0 {
		return blocker.Build(input)
	}

	type result struct {
		timetable model.Timetable
		err       error
	}
	done := make(chan result, 1)
	go func() {
		timetable, err := blocker.Build(input)
		done <- result{timetable: timetable, err: err}
	}()

	select {
	case outcome := <-done:
		return outcome.timetable, outcome.err
	case <-time.After(timeout):
		return model.Timetable{}, appErrors.Errorf(appErrors.ErrSearchExhausted, "no blocking was found within %v", timeout)
	}
}

func renderClassLists(input model.ModelInput, timetable model.Timetable, file string) ([]byte, error) {
	var (
		content []byte
		err     error
	)
	switch strings.ToLower(filepath.Ext(file)) {
	case ".pdf":
		content, err = export.NewPDFExporter().RenderClassLists(input, timetable)
	case ".csv":
		content, err = export.NewCSVExporter().Render(export.ClassListDataset(input, timetable))
	default:
		return nil, appErrors.Errorf(appErrors.ErrInvalidInput, "unsupported class lists file \"%v\", expected .csv or .pdf", file)
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal, "cannot render class lists")
	}
	return content, nil
}

// writeOutput writes content into file, or into stdout when file is empty
func writeOutput(stdout io.Writer, file string, content []byte) error {
	var err error
	if file == "" {
		_, err = stdout.Write(content)
	} else {
		err = os.WriteFile(file, content, 0666)
	}
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal, "cannot write timetable")
	}
	return nil
}
