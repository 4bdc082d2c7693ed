// Defines the periodic Task description and the validated TaskSet the engine runs on.

package sim

import (
	"fmt"
	"strings"
)

// Task is an immutable periodic task description supplied by the caller.
// All times are integer milliseconds. Deadline may be shorter than, equal to,
// or longer than Period, and ExecutionTime is not required to fit in Period:
// an over-subscribed task is a valid input whose misses are simply reported.
type Task struct {
	Name          string `json:"name" yaml:"name"`                     // unique within a set; also the tie-break key
	ExecutionTime int64  `json:"execution_time" yaml:"execution_time"` // WCET (C)
	Period        int64  `json:"period" yaml:"period"`                 // release interval (T)
	Deadline      int64  `json:"deadline" yaml:"deadline"`             // relative deadline (D)
}

// Utilization returns C/T for the task.
func (t Task) Utilization() float64 {
	return float64(t.ExecutionTime) / float64(t.Period)
}

func (t Task) String() string {
	return fmt.Sprintf("Task: (Name: %s, C: %d, T: %d, D: %d)", t.Name, t.ExecutionTime, t.Period, t.Deadline)
}

// TaskSet is an ordered, validated collection of tasks.
// Order is the caller's input order; it is used for display only.
type TaskSet struct {
	tasks []Task
}

// NewTaskSet validates tasks and returns them as a TaskSet.
// The input slice is copied; later changes to it do not affect the set.
func NewTaskSet(tasks []Task) (*TaskSet, error) {
	if len(tasks) == 0 {
		return nil, &InvalidTaskError{Index: -1, Reason: "at least one task is required"}
	}
	seen := make(map[string]int, len(tasks))
	for i, t := range tasks {
		if strings.TrimSpace(t.Name) == "" {
			return nil, &InvalidTaskError{Index: i, Reason: "name must not be blank"}
		}
		if prev, dup := seen[t.Name]; dup {
			return nil, &InvalidTaskError{Index: i, Name: t.Name, Reason: fmt.Sprintf("name duplicates task[%d]", prev)}
		}
		seen[t.Name] = i
		if t.ExecutionTime <= 0 {
			return nil, &InvalidTaskError{Index: i, Name: t.Name, Reason: fmt.Sprintf("execution_time must be positive, got %d", t.ExecutionTime)}
		}
		if t.Period <= 0 {
			return nil, &InvalidTaskError{Index: i, Name: t.Name, Reason: fmt.Sprintf("period must be positive, got %d", t.Period)}
		}
		if t.Deadline <= 0 {
			return nil, &InvalidTaskError{Index: i, Name: t.Name, Reason: fmt.Sprintf("deadline must be positive, got %d", t.Deadline)}
		}
	}
	return &TaskSet{tasks: append([]Task(nil), tasks...)}, nil
}

// Tasks returns a copy of the tasks in input order.
func (ts *TaskSet) Tasks() []Task {
	return append([]Task(nil), ts.tasks...)
}

// Len returns the number of tasks in the set.
func (ts *TaskSet) Len() int {
	return len(ts.tasks)
}

// Names returns the task names in input order.
func (ts *TaskSet) Names() []string {
	names := make([]string, len(ts.tasks))
	for i, t := range ts.tasks {
		names[i] = t.Name
	}
	return names
}
