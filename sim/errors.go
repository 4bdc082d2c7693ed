package sim

import "fmt"

// InvalidTaskError reports a task set that cannot be simulated: an empty set,
// a blank or duplicated name, or a non-positive execution time, period or deadline.
// Index is -1 when the error concerns the set as a whole.
type InvalidTaskError struct {
	Index  int
	Name   string
	Reason string
}

func (e *InvalidTaskError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("invalid task set: %s", e.Reason)
	}
	if e.Name == "" {
		return fmt.Sprintf("invalid task[%d]: %s", e.Index, e.Reason)
	}
	return fmt.Sprintf("invalid task[%d] %q: %s", e.Index, e.Name, e.Reason)
}

// InvalidDurationError reports a simulation horizon that is non-positive or
// not numeric after coercion. Value holds the offending input as given.
type InvalidDurationError struct {
	Value string
}

func (e *InvalidDurationError) Error() string {
	return fmt.Sprintf("invalid duration %s: must be a positive number of milliseconds", e.Value)
}

// UnknownAlgorithmError reports an algorithm code outside RM, DM, EDF and LLF.
type UnknownAlgorithmError struct {
	Name string
}

func (e *UnknownAlgorithmError) Error() string {
	return fmt.Sprintf("unknown algorithm %q; valid: RM, DM, EDF, LLF", e.Name)
}
