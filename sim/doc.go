// Package sim provides the scheduling simulation engine for rtsim: preemptive,
// tick-stepped scheduling of periodic real-time tasks on a single processor.
//
// # Reading Guide
//
// Start with these files to understand the engine:
//   - task.go: Task descriptions and TaskSet validation
//   - job.go: Job instances and GenerateJobs
//   - policy.go: the RM, DM, EDF and LLF priority functions and the tie-break
//   - simulator.go: the per-tick loop (activate, select, execute, complete, deadline check)
//   - timeline.go, metrics.go: turning the raw trace into segments and metrics
//   - request.go: the request/response contract, Validate and Simulate
//   - taskset_file.go: loading a request from a YAML or JSON task-set file
//
// # Architecture
//
// Each Simulate call builds its own TaskSet, jobs and trace; there is no
// package-level mutable state, so concurrent calls need no locking.
// Decision tracing lives in sim/trace and is opt-in.
//
// # Key Interfaces
//
//   - SchedulingPolicy: priority key of a job at a clock tick (lower runs first)
package sim
