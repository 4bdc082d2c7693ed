package sim

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// task builds a Task literal: name, C, T, D.
func task(name string, c, period, deadline int64) Task {
	return Task{Name: name, ExecutionTime: c, Period: period, Deadline: deadline}
}

// runSimulation validates tasks, runs algo over horizon and returns the finished simulator.
func runSimulation(t *testing.T, algo Algorithm, horizon int64, tasks ...Task) *Simulator {
	t.Helper()
	ts, err := NewTaskSet(tasks)
	require.NoError(t, err)
	s, err := NewSimulator(ts, NewPolicy(algo), horizon)
	require.NoError(t, err)
	s.Run()
	return s
}

// runningTask returns the task name assigned at tick, or "" when idle.
func runningTask(s *Simulator, tick int64) string {
	a := s.Ticks[tick]
	if a.Idle() {
		return ""
	}
	return a.Job.Task.Name
}

// segmentNames flattens a timeline into task names ("" for idle) for compact assertions.
func segmentNames(segments []Segment) []string {
	names := make([]string, len(segments))
	for i, seg := range segments {
		names[i] = seg.TaskName()
	}
	return names
}

var allAlgorithms = []Algorithm{AlgorithmRM, AlgorithmDM, AlgorithmEDF, AlgorithmLLF}
