// Package trace provides decision-trace recording for scheduling analysis.
// This package has no dependencies on sim/; it stores pure data types.
package trace

// DispatchReason classifies why the processor assignment changed at a tick.
type DispatchReason string

const (
	// ReasonStart: a job was dispatched onto a processor that was idle or whose
	// previous job had just completed.
	ReasonStart DispatchReason = "start"
	// ReasonPreempt: a job displaced a previous job that still had work left.
	ReasonPreempt DispatchReason = "preempt"
	// ReasonIdle: no active job had work left.
	ReasonIdle DispatchReason = "idle"
)

// DispatchRecord captures a single change of processor assignment.
// It is recorded only at ticks where the running job differs from the previous tick.
type DispatchRecord struct {
	Clock      int64
	JobID      string // empty for ReasonIdle
	TaskName   string // empty for ReasonIdle
	Priority   int64  // policy key of the dispatched job at Clock
	ReadyCount int    // jobs with remaining work competing at Clock
	Preempted  string // job ID displaced by ReasonPreempt, empty otherwise
	Reason     DispatchReason
}

// MissRecord captures a job whose deadline instant elapsed with work remaining.
type MissRecord struct {
	Clock            int64 // deadline instant (end of the tick the miss was detected in)
	JobID            string
	TaskName         string
	AbsoluteDeadline int64
	RemainingTime    int64
}
