package sim

import (
	"fmt"
	"math"
	"sort"
)

// Job is one released instance of a Task.
// Jobs are created only by GenerateJobs and belong to a single simulation run.
type Job struct {
	Task             *Task // back-reference into the run's task copy; not owned
	Index            int   // k in release_time = k*T
	ReleaseTime      int64
	AbsoluteDeadline int64 // ReleaseTime + Task.Deadline
	RemainingTime    int64 // starts at Task.ExecutionTime, decremented once per executed tick

	Completed     bool
	CompletedTime int64 // tick end at which RemainingTime reached 0; meaningful only if Completed

	// Missed is set once, at the tick whose end equals AbsoluteDeadline, if work remains.
	// A missed job keeps competing for the processor until it completes.
	Missed bool
}

// ID returns a stable identifier of the form "<task>#<index>".
func (j *Job) ID() string {
	return fmt.Sprintf("%s#%d", j.Task.Name, j.Index)
}

// Pending reports whether the job still has work to do.
func (j *Job) Pending() bool {
	return !j.Completed && j.RemainingTime > 0
}

// Laxity returns the slack of the job at clock: time left until the deadline
// minus remaining work. It may be zero or negative, and saturates at math.MinInt64.
func (j *Job) Laxity(clock int64) int64 {
	return subSaturating(j.AbsoluteDeadline-clock, j.RemainingTime)
}

func (j *Job) String() string {
	return fmt.Sprintf("Job: (ID: %s#%d, Release: %d, Deadline: %d, Remaining: %d, Missed: %t)",
		j.Task.Name, j.Index, j.ReleaseTime, j.AbsoluteDeadline, j.RemainingTime, j.Missed)
}

// GenerateJobs expands every task of ts into its jobs over [0, duration):
// releases at 0, T, 2T, ... strictly before duration. The result is ordered by
// release time, then by task input order, so activation at each tick is a
// contiguous run of the slice. Tasks are copied so the jobs never alias caller data.
func GenerateJobs(ts *TaskSet, duration int64) []*Job {
	if duration <= 0 {
		return nil
	}
	tasks := ts.Tasks()
	var jobs []*Job
	for i := range tasks {
		task := &tasks[i]
		for k, release := 0, int64(0); ; k, release = k+1, release+task.Period {
			jobs = append(jobs, &Job{
				Task:             task,
				Index:            k,
				ReleaseTime:      release,
				AbsoluteDeadline: addSaturating(release, task.Deadline),
				RemainingTime:    task.ExecutionTime,
			})
			// release+Period < duration, written so it cannot overflow
			if release >= duration-task.Period {
				break
			}
		}
	}
	sort.SliceStable(jobs, func(i, j int) bool {
		return jobs[i].ReleaseTime < jobs[j].ReleaseTime
	})
	return jobs
}

// addSaturating returns a+b for non-negative a and b, clamped to math.MaxInt64.
func addSaturating(a, b int64) int64 {
	if a > math.MaxInt64-b {
		return math.MaxInt64
	}
	return a + b
}

// subSaturating returns a-b for non-negative b, clamped to math.MinInt64.
func subSaturating(a, b int64) int64 {
	if a < math.MinInt64+b {
		return math.MinInt64
	}
	return a - b
}
