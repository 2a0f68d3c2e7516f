package main

import (
	"errors"
	"fmt"
	"os"

	appErrors "github.com/limaJavier/blocker/pkg/errors"
)

const (
	exitFailure            = 1
	exitVerificationFailed = 15
	exitNoSolution         = 20
)

var errVerificationFailed = appErrors.New("VERIFICATION_FAILED", "the built timetable does not satisfy the students' choices")

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "blocker: %v\n", err)
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	switch {
	case errors.Is(err, appErrors.ErrImpossible), errors.Is(err, appErrors.ErrSearchExhausted):
		return exitNoSolution
	case errors.Is(err, errVerificationFailed):
		return exitVerificationFailed
	default:
		return exitFailure
	}
}
