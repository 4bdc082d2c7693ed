package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/rtsim/sim"
	"github.com/inference-sim/rtsim/sim/trace"
)

var (
	// CLI flags for `run`
	tasksPath  string // Path to the task-set file (YAML or JSON)
	algorithm  string // Scheduling algorithm override (RM, DM, EDF, LLF)
	duration   int64  // Simulation horizon override in ms (0 = use the file value)
	outputPath string // Write the JSON response here instead of stdout
	traceLevel string // Decision trace level: none, decisions
	logLevel   string // Log verbosity level
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "rtsim",
	Short: "Preemptive uniprocessor real-time scheduling simulator",
}

// runCmd executes one simulation using a task-set file and CLI overrides
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Simulate a task set and print the timeline and metrics",
	Run: func(cmd *cobra.Command, args []string) {
		setLogLevel(logLevel)

		if !trace.IsValidTraceLevel(traceLevel) {
			logrus.Fatalf("Invalid --trace-level %q; valid: none, decisions", traceLevel)
		}

		req, err := sim.LoadSimulationRequest(tasksPath)
		if err != nil {
			logrus.Fatalf("Failed to load task set: %v", err)
		}
		applyRunOverrides(cmd, req)

		logrus.Infof("Starting %s simulation of %d tasks from %s", req.Algorithm, len(req.Tasks), tasksPath)
		startTime := time.Now()

		plan, err := simulateAndWrite(os.Stdout, req, trace.TraceLevel(traceLevel), outputPath)
		if err != nil {
			logrus.Fatalf("Simulation failed: %v", err)
		}

		logrus.Infof("Simulation of %s ticks complete in %s.",
			humanize.Comma(plan.Horizon), time.Since(startTime).Round(time.Microsecond))
	},
}

// simulateAndWrite validates req once, runs the resulting plan with tracing at
// level and writes the result through writeResult.
func simulateAndWrite(w io.Writer, req *sim.SimulationRequest, level trace.TraceLevel, outputPath string) (*sim.SimulationPlan, error) {
	plan, err := req.Validate()
	if err != nil {
		return nil, err
	}
	st := trace.NewSimulationTrace(trace.TraceConfig{Level: level})
	resp, err := plan.Run(st)
	if err != nil {
		return nil, err
	}
	var summary *trace.TraceSummary
	if st != nil {
		summary = trace.Summarize(st)
	}
	if err := writeResult(w, resp, summary, plan.Algorithm, plan.Horizon, outputPath); err != nil {
		return nil, err
	}
	return plan, nil
}

// applyRunOverrides replaces file values with flags the user set explicitly.
func applyRunOverrides(cmd *cobra.Command, req *sim.SimulationRequest) {
	if cmd.Flags().Changed("algorithm") {
		req.Algorithm = algorithm
	}
	if cmd.Flags().Changed("duration") {
		req.Duration = sim.DurationOf(duration)
	}
	if req.Algorithm == "" {
		req.Algorithm = string(sim.AlgorithmEDF)
	}
}

// writeResult prints the metrics block (and the trace summary, if any) to w,
// then the JSON response either to w or to outputPath when one is given.
func writeResult(w io.Writer, resp *sim.SimulationResponse, summary *trace.TraceSummary, algo sim.Algorithm, horizon int64, outputPath string) error {
	resp.Metrics.Print(w, algo, horizon)
	if summary != nil {
		printTraceSummary(w, summary)
	}

	data, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding response: %w", err)
	}
	if outputPath != "" {
		if err := os.WriteFile(outputPath, append(data, '\n'), 0644); err != nil {
			return fmt.Errorf("writing %s: %w", outputPath, err)
		}
		logrus.Infof("Wrote timeline and metrics to %s", outputPath)
		return nil
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}

func printTraceSummary(w io.Writer, summary *trace.TraceSummary) {
	fmt.Fprintln(w, "=== Decision Trace ===")
	fmt.Fprintf(w, "Dispatches      : %d\n", summary.TotalDispatches)
	fmt.Fprintf(w, "Preemptions     : %d\n", summary.Preemptions)
	fmt.Fprintf(w, "Idle transitions: %d\n", summary.IdleTransitions)
	fmt.Fprintf(w, "Deadline misses : %d\n", summary.TotalMisses)
}

func setLogLevel(name string) {
	level, err := logrus.ParseLevel(name)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", name)
	}
	logrus.SetLevel(level)
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	runCmd.Flags().StringVar(&tasksPath, "tasks", "", "Path to a task-set file (YAML or JSON)")
	runCmd.Flags().StringVar(&algorithm, "algorithm", string(sim.AlgorithmEDF), "Scheduling algorithm (RM, DM, EDF, LLF); overrides the file")
	runCmd.Flags().Int64Var(&duration, "duration", sim.DefaultDuration, "Simulation horizon in ms; overrides the file")
	runCmd.Flags().StringVar(&outputPath, "output", "", "Write the JSON response to this file instead of stdout")
	runCmd.Flags().StringVar(&traceLevel, "trace-level", "none", "Decision trace level (none, decisions)")
	runCmd.Flags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")
	_ = runCmd.MarkFlagRequired("tasks")

	// Attach `run` as a subcommand to `root`
	rootCmd.AddCommand(runCmd)
}
