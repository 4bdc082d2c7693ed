package trace

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	TotalDispatches  int
	Preemptions      int
	IdleTransitions  int
	TotalMisses      int
	UniqueTasks      int
	TaskDistribution map[string]int // task name → number of dispatches
	MissDistribution map[string]int // task name → number of misses
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{
		TaskDistribution: make(map[string]int),
		MissDistribution: make(map[string]int),
	}
	if st == nil {
		return summary
	}

	for _, d := range st.Dispatches {
		switch d.Reason {
		case ReasonIdle:
			summary.IdleTransitions++
			continue
		case ReasonPreempt:
			summary.Preemptions++
		}
		summary.TotalDispatches++
		summary.TaskDistribution[d.TaskName]++
	}

	summary.TotalMisses = len(st.Misses)
	for _, m := range st.Misses {
		summary.MissDistribution[m.TaskName]++
	}

	summary.UniqueTasks = len(summary.TaskDistribution)

	return summary
}
