package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func runStats(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup(cmd)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	input, err := loadInput(args, cfg.Solve.FreePeriods)
	if err != nil {
		return err
	}
	log.Debug("instance loaded", zap.Int("students", len(input.Students)), zap.Int("subjects", len(input.Subjects)))

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Students: %v\nBlocks: %v\n\n", len(input.Students), len(input.Blocks))

	writer := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "Rank\tSubject\tSections\tStudents\tPer class\tCandidates")
	for _, subjectId := range input.Ranking {
		subject := input.Subjects[subjectId]
		fmt.Fprintf(writer, "%v\t%v\t%v\t%v\t%.1f\t%v\n",
			subject.Rank, subject.Name, subject.Sections, len(subject.Students), subject.PerClass(), len(subject.Candidates))
	}
	if err := writer.Flush(); err != nil {
		return err
	}

	if len(input.Diagnostics) > 0 {
		fmt.Fprintf(out, "\nDiagnostics:\n")
		for _, diagnostic := range input.Diagnostics {
			fmt.Fprintf(out, "  %v (%v): %v\n", input.Students[diagnostic.Student].Name(), diagnostic.Kind, diagnostic.Message)
		}
	}

	return nil
}
