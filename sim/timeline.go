package sim

// Segment is a maximal run of consecutive ticks with the same assignment:
// the same task, or idle. End is exclusive.
type Segment struct {
	Task  *string `json:"task"` // nil for an idle segment
	Start int64   `json:"start"`
	End   int64   `json:"end"`
	// DeadlineMiss is true when at least one tick of the segment executed a job
	// whose deadline had already elapsed. It never splits a segment.
	DeadlineMiss bool `json:"deadline_miss"`
}

// TaskName returns the segment's task name, or "" for idle.
func (s Segment) TaskName() string {
	if s.Task == nil {
		return ""
	}
	return *s.Task
}

// Duration returns End - Start.
func (s Segment) Duration() int64 {
	return s.End - s.Start
}

// CompactTimeline merges consecutive identical assignments of the raw trace.
// Tick i of ticks covers [i, i+1). Consecutive jobs of the same task merge;
// a task resuming after a different assignment starts a new segment.
func CompactTimeline(ticks []TickAssignment) []Segment {
	segments := make([]Segment, 0)
	for i, tick := range ticks {
		name, idle := "", tick.Idle()
		if !idle {
			name = tick.Job.Task.Name
		}
		if n := len(segments); n > 0 && sameAssignment(segments[n-1], name, idle) {
			segments[n-1].End = int64(i) + 1
			segments[n-1].DeadlineMiss = segments[n-1].DeadlineMiss || tick.Overrun
			continue
		}
		seg := Segment{Start: int64(i), End: int64(i) + 1, DeadlineMiss: tick.Overrun}
		if !idle {
			seg.Task = &name
		}
		segments = append(segments, seg)
	}
	return segments
}

func sameAssignment(seg Segment, name string, idle bool) bool {
	if idle {
		return seg.Task == nil
	}
	return seg.Task != nil && *seg.Task == name
}
