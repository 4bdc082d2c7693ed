package sim

import (
	"fmt"
	"strings"
)

// Algorithm is a scheduling policy code as it appears on the wire.
type Algorithm string

const (
	AlgorithmRM  Algorithm = "RM"
	AlgorithmDM  Algorithm = "DM"
	AlgorithmEDF Algorithm = "EDF"
	AlgorithmLLF Algorithm = "LLF"
)

// validAlgorithms is the set of recognized algorithm codes.
// Shared by ParseAlgorithm and NewPolicy to avoid duplication.
var validAlgorithms = map[Algorithm]bool{
	AlgorithmRM:  true,
	AlgorithmDM:  true,
	AlgorithmEDF: true,
	AlgorithmLLF: true,
}

// ValidAlgorithmNames returns the recognized codes in a fixed order.
func ValidAlgorithmNames() []string {
	return []string{string(AlgorithmRM), string(AlgorithmDM), string(AlgorithmEDF), string(AlgorithmLLF)}
}

// IsValidAlgorithm reports whether name is a recognized code (exact, canonical form).
func IsValidAlgorithm(name string) bool {
	return validAlgorithms[Algorithm(name)]
}

// ParseAlgorithm normalizes name (trimmed, upper-cased) and returns the matching
// Algorithm, or an *UnknownAlgorithmError.
func ParseAlgorithm(name string) (Algorithm, error) {
	algo := Algorithm(strings.ToUpper(strings.TrimSpace(name)))
	if !validAlgorithms[algo] {
		return "", &UnknownAlgorithmError{Name: name}
	}
	return algo, nil
}

// SchedulingPolicy computes the priority key of an active job at clock.
// Lower keys run first; equal keys are broken by task name and then release time
// (see higherPriority). Implementations MUST NOT modify the job.
type SchedulingPolicy interface {
	Priority(job *Job, clock int64) int64
	Name() Algorithm
}

// RateMonotonic prioritizes shorter periods. Static per task.
type RateMonotonic struct{}

func (RateMonotonic) Priority(job *Job, _ int64) int64 { return job.Task.Period }
func (RateMonotonic) Name() Algorithm                  { return AlgorithmRM }

// DeadlineMonotonic prioritizes shorter relative deadlines. Static per task.
type DeadlineMonotonic struct{}

func (DeadlineMonotonic) Priority(job *Job, _ int64) int64 { return job.Task.Deadline }
func (DeadlineMonotonic) Name() Algorithm                  { return AlgorithmDM }

// EarliestDeadlineFirst prioritizes the earliest absolute deadline.
// Dynamic per job, but independent of the clock.
type EarliestDeadlineFirst struct{}

func (EarliestDeadlineFirst) Priority(job *Job, _ int64) int64 { return job.AbsoluteDeadline }
func (EarliestDeadlineFirst) Name() Algorithm                  { return AlgorithmEDF }

// LeastLaxityFirst prioritizes the smallest laxity,
// (AbsoluteDeadline - clock) - RemainingTime, recomputed every tick.
// Zero or negative laxity just sorts to the front.
type LeastLaxityFirst struct{}

func (LeastLaxityFirst) Priority(job *Job, clock int64) int64 { return job.Laxity(clock) }
func (LeastLaxityFirst) Name() Algorithm                      { return AlgorithmLLF }

// NewPolicy creates a SchedulingPolicy for a canonical algorithm code.
// Panics on unrecognized codes; callers validate with ParseAlgorithm first.
func NewPolicy(algo Algorithm) SchedulingPolicy {
	if !validAlgorithms[algo] {
		panic(fmt.Sprintf("unknown scheduling algorithm %q", algo))
	}
	switch algo {
	case AlgorithmRM:
		return RateMonotonic{}
	case AlgorithmDM:
		return DeadlineMonotonic{}
	case AlgorithmEDF:
		return EarliestDeadlineFirst{}
	case AlgorithmLLF:
		return LeastLaxityFirst{}
	default:
		panic(fmt.Sprintf("unhandled scheduling algorithm %q", algo))
	}
}

// higherPriority reports whether job a (with key ka) should run before job b (key kb).
// Ties go to the lexicographically smaller task name; two jobs of the same task
// go in release order.
func higherPriority(a *Job, ka int64, b *Job, kb int64) bool {
	if ka != kb {
		return ka < kb
	}
	if a.Task.Name != b.Task.Name {
		return a.Task.Name < b.Task.Name
	}
	return a.ReleaseTime < b.ReleaseTime
}
