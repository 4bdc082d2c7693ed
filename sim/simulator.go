// sim/simulator.go
package sim

import (
	"slices"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/rtsim/sim/trace"
)

// maxTickPrealloc bounds the up-front capacity of Simulator.Ticks; longer runs grow it.
const maxTickPrealloc = 1 << 16

// TickAssignment is the processor assignment for one millisecond tick.
type TickAssignment struct {
	Job *Job // nil when the processor is idle
	// Overrun is true when Job executed after its deadline had already elapsed.
	Overrun bool
}

// Idle reports whether the processor was idle for the tick.
func (a TickAssignment) Idle() bool {
	return a.Job == nil
}

// Simulator holds the state of one simulation run: the clock, the generated jobs,
// the active set and the raw per-tick trace. Nothing in it is shared across runs.
type Simulator struct {
	Clock   int64
	Horizon int64 // exclusive end of the simulated window, in ticks (ms)
	Tasks   *TaskSet
	Policy  SchedulingPolicy
	// Jobs holds every job released in [0, Horizon), ordered by release time.
	Jobs []*Job
	// Ticks is the raw trace, one entry per executed tick.
	Ticks []TickAssignment

	active      []*Job // released, not yet completed
	nextRelease int    // index into Jobs of the next job to activate
	trace       *trace.SimulationTrace
}

// NewSimulator generates the jobs for ts over [0, horizon) and returns a simulator
// ready to Run. It fails with *InvalidDurationError when horizon is not positive.
func NewSimulator(ts *TaskSet, policy SchedulingPolicy, horizon int64) (*Simulator, error) {
	if horizon <= 0 {
		return nil, &InvalidDurationError{Value: strconv.FormatInt(horizon, 10)}
	}
	return &Simulator{
		Clock:   0,
		Horizon: horizon,
		Tasks:   ts,
		Policy:  policy,
		Jobs:    GenerateJobs(ts, horizon),
		Ticks:   make([]TickAssignment, 0, min(horizon, maxTickPrealloc)),
		active:  make([]*Job, 0, ts.Len()),
	}, nil
}

// SetTrace attaches a decision trace. A nil trace disables recording.
func (sim *Simulator) SetTrace(st *trace.SimulationTrace) {
	sim.trace = st
}

// Run steps the simulator until the horizon is reached.
func (sim *Simulator) Run() {
	logrus.Debugf("Starting %s simulation of %d tasks (%d jobs) over %d ticks",
		sim.Policy.Name(), sim.Tasks.Len(), len(sim.Jobs), sim.Horizon)
	for sim.Clock < sim.Horizon {
		sim.Step()
	}
	logrus.Debugf("[tick %07d] Simulation ended", sim.Clock)
}

// Step advances the simulation by one tick. Within a tick the order is fixed:
// activate releases, select, execute, complete, then check deadlines.
func (sim *Simulator) Step() {
	now := sim.Clock

	// Activate: a job released at now is eligible at now.
	for sim.nextRelease < len(sim.Jobs) && sim.Jobs[sim.nextRelease].ReleaseTime <= now {
		sim.active = append(sim.active, sim.Jobs[sim.nextRelease])
		sim.nextRelease++
	}

	// Select the highest-priority pending job.
	var selected *Job
	var selectedKey int64
	ready := 0
	for _, job := range sim.active {
		if !job.Pending() {
			continue
		}
		ready++
		key := sim.Policy.Priority(job, now)
		if selected == nil || higherPriority(job, key, selected, selectedKey) {
			selected, selectedKey = job, key
		}
	}

	if sim.trace != nil {
		sim.recordDispatch(now, selected, selectedKey, ready)
	}

	// Execute and complete.
	assignment := TickAssignment{Job: selected}
	if selected != nil {
		assignment.Overrun = selected.Missed
		selected.RemainingTime--
		if selected.RemainingTime == 0 {
			selected.Completed = true
			selected.CompletedTime = now + 1
			logrus.Debugf("[tick %07d] %s completed", now, selected.ID())
		}
	}
	sim.Ticks = append(sim.Ticks, assignment)

	// Deadline check: the deadline instant now+1 has just elapsed.
	for _, job := range sim.active {
		if job.Pending() && !job.Missed && job.AbsoluteDeadline == now+1 {
			job.Missed = true
			logrus.Debugf("[tick %07d] %s missed deadline %d with %d ticks remaining",
				now, job.ID(), job.AbsoluteDeadline, job.RemainingTime)
			if sim.trace != nil {
				sim.trace.RecordMiss(trace.MissRecord{
					Clock:            now + 1,
					JobID:            job.ID(),
					TaskName:         job.Task.Name,
					AbsoluteDeadline: job.AbsoluteDeadline,
					RemainingTime:    job.RemainingTime,
				})
			}
		}
	}

	sim.active = slices.DeleteFunc(sim.active, func(j *Job) bool { return j.Completed })
	sim.Clock++
}

// recordDispatch records a trace entry when the assignment at now differs from
// the previous tick. Called before the selected job executes.
func (sim *Simulator) recordDispatch(now int64, selected *Job, key int64, ready int) {
	var prev *Job
	if n := len(sim.Ticks); n > 0 {
		prev = sim.Ticks[n-1].Job
		if prev == selected {
			return
		}
	}
	if selected == nil {
		sim.trace.RecordDispatch(trace.DispatchRecord{Clock: now, Reason: trace.ReasonIdle})
		return
	}
	record := trace.DispatchRecord{
		Clock:      now,
		JobID:      selected.ID(),
		TaskName:   selected.Task.Name,
		Priority:   key,
		ReadyCount: ready,
		Reason:     trace.ReasonStart,
	}
	if prev != nil && prev.Pending() {
		record.Reason = trace.ReasonPreempt
		record.Preempted = prev.ID()
		logrus.Debugf("[tick %07d] %s preempts %s", now, selected.ID(), prev.ID())
	}
	sim.trace.RecordDispatch(record)
}

// Timeline compacts the raw trace into segments.
func (sim *Simulator) Timeline() []Segment {
	return CompactTimeline(sim.Ticks)
}

// Metrics computes the metrics snapshot for the run so far.
func (sim *Simulator) Metrics() *Metrics {
	return ComputeMetrics(sim.Tasks, sim.Jobs)
}
