package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	appErrors "github.com/limaJavier/blocker/pkg/errors"
	"github.com/limaJavier/blocker/pkg/export"
	blockerLogger "github.com/limaJavier/blocker/pkg/logger"
	"github.com/limaJavier/blocker/pkg/model"
)

const (
	satisfiableTestDirectory   = "../../test/instances/satisfiable/"
	unsatisfiableTestDirectory = "../../test/instances/unsatisfiable/"
	resultsFile                = "benchmark_results.csv"
)

type ResultType int

const (
	solved ResultType = iota
	noSolution
	failed
)

var resultTypes = map[ResultType]string{
	solved:     "solved",
	noSolution: "no-solution",
	failed:     "failed",
}

type TestMetadata struct {
	Name        string
	Satisfiable bool
	Input       model.ModelInput
}

type BenchmarkResult struct {
	Test        TestMetadata
	Speed       int
	Seed        uint64
	Duration    int64
	Result      ResultType
	Perfect     bool
	Attempts    int
	WorstSpread int
}

func main() {
	speedsPtr := pflag.String("speeds", "1,5,23", "Comma separated sampling speeds")
	seedsPtr := pflag.String("seeds", "1,2,3", "Comma separated random seeds")
	parallelismPtr := pflag.Int("parallelism", runtime.NumCPU(), "Amount of instances solved concurrently")
	pflag.Parse()

	speeds, err := parseList(*speedsPtr, strconv.Atoi)
	if err != nil {
		log.Fatalf("invalid speeds: %v", err)
	}
	seeds, err := parseList(*seedsPtr, func(value string) (uint64, error) { return strconv.ParseUint(value, 10, 64) })
	if err != nil {
		log.Fatalf("invalid seeds: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("cannot build logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck
	logger = blockerLogger.ForRun(logger, uuid.NewString())

	tests := getTests()
	results, err := benchmark(context.Background(), tests, speeds, seeds, *parallelismPtr, logger)
	if err != nil {
		log.Fatalf("benchmark failed: %v", err)
	}

	toCsv(results)
}

func getTests() []TestMetadata {
	tests := make([]TestMetadata, 0)
	for _, tuple := range lo.Zip2([]string{satisfiableTestDirectory, unsatisfiableTestDirectory}, []bool{true, false}) {
		directory, satisfiable := tuple.A, tuple.B
		testFiles, err := os.ReadDir(directory)
		if err != nil {
			log.Fatalf("cannot read directory: %v", err)
		}

		for _, file := range testFiles {
			filename := directory + file.Name()
			input, err := inputFromFile(filename)
			if err != nil {
				log.Fatalf("cannot parse input file: %v", err)
			}

			tests = append(tests, TestMetadata{
				Name:        filename,
				Satisfiable: satisfiable,
				Input:       input,
			})
		}
	}

	return tests
}

func inputFromFile(filename string) (model.ModelInput, error) {
	if strings.HasSuffix(filename, ".json") {
		return model.InputFromJson(filename, true)
	}
	return model.InputFromYaml(filename, true)
}

// benchmark solves every test at every speed and seed, running up to parallelism engines at once
func benchmark(ctx context.Context, tests []TestMetadata, speeds []int, seeds []uint64, parallelism int, logger *zap.Logger) ([]BenchmarkResult, error) {
	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(max(parallelism, 1))

	var mutex sync.Mutex
	results := make([]BenchmarkResult, 0, len(tests)*len(speeds)*len(seeds))

	for _, test := range tests {
		for _, speed := range speeds {
			for _, seed := range seeds {
				group.Go(func() error {
					if err := ctx.Err(); err != nil {
						return err
					}
					logger.Info("benchmarking", zap.String("test", test.Name), zap.Int("speed", speed), zap.Uint64("seed", seed))

					result, err := measure(test, speed, seed)
					if err != nil {
						return err
					}

					mutex.Lock()
					defer mutex.Unlock()
					results = append(results, result)
					return nil
				})
			}
		}
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func measure(test TestMetadata, speed int, seed uint64) (BenchmarkResult, error) {
	options := model.DefaultOptions()
	options.Speed = speed
	options.Seed = seed
	blocker := model.NewSampledBlocker(options)

	start := time.Now()
	timetable, err := blocker.Build(test.Input)
	result := BenchmarkResult{
		Test:     test,
		Speed:    speed,
		Seed:     seed,
		Duration: time.Since(start).Milliseconds(),
		Result:   solved,
	}

	switch {
	case errors.Is(err, appErrors.ErrImpossible), errors.Is(err, appErrors.ErrSearchExhausted):
		result.Result = noSolution
	case err != nil:
		return BenchmarkResult{}, fmt.Errorf("test \"%v\" at speed %v and seed %v: %w", test.Name, speed, seed, err)
	case !blocker.Verify(timetable, test.Input):
		result.Result = failed
	default:
		result.Perfect = timetable.Perfect
		result.Attempts = timetable.Attempts
		result.WorstSpread = timetable.WorstSpread()
	}

	return result, nil
}

var csvHeaders = []string{"Test", "Satisfiable", "Students", "Subjects", "Blocks", "Speed", "Seed", "Duration(ms)", "Result", "Perfect", "Attempts", "Worst Spread"}

func toDataset(results []BenchmarkResult) export.Dataset {
	rows := lo.Map(results, func(result BenchmarkResult, _ int) map[string]string {
		return map[string]string{
			"Test":         result.Test.Name,
			"Satisfiable":  fmt.Sprintf("%v", result.Test.Satisfiable),
			"Students":     fmt.Sprintf("%d", len(result.Test.Input.Students)),
			"Subjects":     fmt.Sprintf("%d", len(result.Test.Input.Subjects)),
			"Blocks":       fmt.Sprintf("%d", len(result.Test.Input.Blocks)),
			"Speed":        fmt.Sprintf("%d", result.Speed),
			"Seed":         fmt.Sprintf("%d", result.Seed),
			"Duration(ms)": fmt.Sprintf("%d", result.Duration),
			"Result":       resultTypes[result.Result],
			"Perfect":      fmt.Sprintf("%v", result.Perfect),
			"Attempts":     fmt.Sprintf("%d", result.Attempts),
			"Worst Spread": fmt.Sprintf("%d", result.WorstSpread),
		}
	})
	return export.Dataset{Headers: csvHeaders, Rows: rows}
}

func toCsv(results []BenchmarkResult) {
	content, err := export.NewCSVExporter().Render(toDataset(results))
	if err != nil {
		log.Panicf("cannot render CSV: %v", err)
	}
	if err := os.WriteFile(filepath.Clean(resultsFile), content, 0666); err != nil {
		log.Panicf("cannot write CSV file: %v", err)
	}
}

func parseList[T any](list string, parse func(string) (T, error)) ([]T, error) {
	values := make([]T, 0)
	for _, field := range strings.Split(list, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		value, err := parse(field)
		if err != nil {
			return nil, err
		}
		values = append(values, value)
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("empty list \"%v\"", list)
	}
	return values, nil
}
