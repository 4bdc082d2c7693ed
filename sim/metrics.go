// Computes the schedulability metrics reported for a simulation run:
// utilization of the task set, deadline misses, and the hyperperiod.

package sim

import (
	"fmt"
	"io"
	"sort"

	"github.com/dustin/go-humanize"
)

// MaxSafeHyperperiod is the largest hyperperiod that is reported. It is the
// largest integer a JSON consumer can hold exactly in a float64 (2^53 - 1).
const MaxSafeHyperperiod int64 = 1<<53 - 1

// Metrics is a stateless snapshot derived from a task set and a finished run.
type Metrics struct {
	CPUUtilization        float64        `json:"cpu_utilization"`          // 100 * sum(C/T)
	TotalDeadlineMisses   int            `json:"total_deadline_misses"`    // jobs with Missed set
	PerTaskDeadlineMisses map[string]int `json:"per_task_deadline_misses"` // every task name, 0 included
	HyperperiodApprox     *int64         `json:"hyperperiod_approx"`       // nil when above MaxSafeHyperperiod
}

// ComputeMetrics derives the metrics for ts from the jobs of a run.
func ComputeMetrics(ts *TaskSet, jobs []*Job) *Metrics {
	m := &Metrics{
		CPUUtilization:        Utilization(ts),
		PerTaskDeadlineMisses: make(map[string]int, ts.Len()),
	}
	for _, name := range ts.Names() {
		m.PerTaskDeadlineMisses[name] = 0
	}
	for _, job := range jobs {
		if job.Missed {
			m.PerTaskDeadlineMisses[job.Task.Name]++
			m.TotalDeadlineMisses++
		}
	}
	if h, ok := Hyperperiod(ts); ok {
		m.HyperperiodApprox = &h
	}
	return m
}

// Utilization returns 100 * sum(C_i / T_i) over the task set. It depends on the
// task set only, never on the algorithm or the simulated window.
func Utilization(ts *TaskSet) float64 {
	total := 0.0
	for _, t := range ts.tasks {
		total += t.Utilization()
	}
	return total * 100.0
}

// Hyperperiod returns the least common multiple of all task periods.
// ok is false when the LCM would exceed MaxSafeHyperperiod.
func Hyperperiod(ts *TaskSet) (int64, bool) {
	h := int64(1)
	for _, t := range ts.tasks {
		var ok bool
		if h, ok = lcm(h, t.Period); !ok {
			return 0, false
		}
	}
	return h, true
}

func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// lcm returns lcm(a, b) for positive a and b, or ok=false past MaxSafeHyperperiod.
func lcm(a, b int64) (int64, bool) {
	q := a / gcd(a, b)
	if q > MaxSafeHyperperiod/b {
		return 0, false
	}
	return q * b, true
}

// Print writes a human-readable summary of the metrics.
func (m *Metrics) Print(w io.Writer, algo Algorithm, horizon int64) {
	fmt.Fprintln(w, "=== Simulation Metrics ===")
	fmt.Fprintf(w, "Algorithm            : %s\n", algo)
	fmt.Fprintf(w, "Duration             : %s ms\n", humanize.Comma(horizon))
	fmt.Fprintf(w, "CPU Utilization      : %.1f%%\n", m.CPUUtilization)
	if m.HyperperiodApprox != nil {
		fmt.Fprintf(w, "Hyperperiod          : %s ms\n", humanize.Comma(*m.HyperperiodApprox))
	} else {
		fmt.Fprintln(w, "Hyperperiod          : unavailable")
	}
	fmt.Fprintf(w, "Total Deadline Misses: %d\n", m.TotalDeadlineMisses)

	names := make([]string, 0, len(m.PerTaskDeadlineMisses))
	for name := range m.PerTaskDeadlineMisses {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %-19s: %d\n", name, m.PerTaskDeadlineMisses[name])
	}
}
