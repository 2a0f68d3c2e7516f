package main

import (
	"github.com/spf13/cobra"

	"github.com/limaJavier/blocker/pkg/model"
	"github.com/limaJavier/blocker/pkg/sat"
)

var (
	configFile     string // Optional YAML/ENV configuration file
	instanceFile   string // JSON or YAML instance used instead of the CSV tables
	outputFile     string // Timetable CSV destination, stdout when empty
	classListsFile string // Class lists destination (.csv or .pdf)
	metricsFile    string // Prometheus textfile destination
)

var rootCmd = &cobra.Command{
	Use:   "blocker",
	Short: "Group subjects into option blocks and allocate students to their classes",
	Long: `Blocker groups the sections of every subject into blocks (A, B, C...) so that every
student can attend each chosen subject in a different block, then allocates the students
to classes evening out the class sizes.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var solveCmd = &cobra.Command{
	Use:   "solve [STUDENTS.csv SUBJECTS.csv]",
	Short: "Build the blocks and class allocation of an instance",
	Example: `  blocker solve students.csv subjects.csv -s 5 -o timetable.csv
  blocker solve --instance sixth_form.yaml --strategy exact --class-lists classes.pdf`,
	Args: inputArgs,
	RunE: runSolve,
}

var statsCmd = &cobra.Command{
	Use:   "stats [STUDENTS.csv SUBJECTS.csv]",
	Short: "Summarise the subjects catalog of an instance",
	Args:  inputArgs,
	RunE:  runStats,
}

func init() {
	persistent := rootCmd.PersistentFlags()
	persistent.StringVar(&configFile, "config", "", "Configuration file (YAML or ENV)")
	persistent.StringVar(&instanceFile, "instance", "", "JSON or YAML instance file, replaces the CSV tables")
	persistent.Bool("free-periods", true, "Treat empty choices as free periods")
	persistent.String("log-level", "info", "Log level: debug, info, warn or error")
	persistent.String("log-format", "console", "Log format: console or json")

	flags := solveCmd.Flags()
	flags.StringVarP(&outputFile, "output", "o", "", "Timetable CSV file; if empty, it'll be written into the Standard Output")
	flags.IntP("speed", "s", 23, "Evaluate one in every speed block-set combinations")
	flags.Uint64("seed", 0, "Random seed, 0 draws a fresh one")
	flags.Int("attempts", model.DefaultAttempts, "Refinement attempts per accepted blocking")
	flags.Int("max-spread", model.DefaultMaxSpread, "Largest accepted difference between the class sizes of a subject")
	flags.String("strategy", model.StrategySampled, "Blocking strategy: sampled or exact")
	flags.String("solver", sat.SolverGophersat, "SAT solver used by the exact strategy: gophersat or kissat")
	flags.String("kissat-path", "kissat", "Path to the kissat executable")
	flags.Bool("strict", false, "Keep searching when the classes of a feasible blocking cannot be balanced")
	flags.Duration("timeout", 0, "Give up after this long, 0 disables the timeout")
	flags.StringVar(&classListsFile, "class-lists", "", "Write the class lists to a .csv or .pdf file")
	flags.StringVar(&metricsFile, "metrics-file", "", "Write the run metrics in Prometheus text format to this file")

	rootCmd.AddCommand(solveCmd, statsCmd)
}

// inputArgs accepts the two CSV tables, or none when an instance file is given
func inputArgs(cmd *cobra.Command, args []string) error {
	if instanceFile != "" {
		return cobra.NoArgs(cmd, args)
	}
	return cobra.ExactArgs(2)(cmd, args)
}
