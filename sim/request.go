// Defines the request/response contract of the engine and the single Simulate
// operation that ties validation, job generation, the loop and metrics together.

package sim

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/inference-sim/rtsim/sim/trace"
)

// DefaultDuration is the horizon, in ms, used when a request omits duration.
const DefaultDuration int64 = 200

// DurationInput holds a caller-supplied horizon before coercion. It accepts a
// number, a numeric string, or null/absent (meaning DefaultDuration). Other
// values decode without error and are rejected by Resolve, so a bad duration
// surfaces as *InvalidDurationError rather than a decoding failure.
type DurationInput struct {
	set     bool
	numeric bool
	value   float64
	raw     string
}

// DurationOf returns a DurationInput holding ms.
func DurationOf(ms int64) DurationInput {
	return DurationInput{set: true, numeric: true, value: float64(ms), raw: strconv.FormatInt(ms, 10)}
}

// IsSet reports whether a non-null duration was supplied.
func (d DurationInput) IsSet() bool {
	return d.set
}

// Resolve coerces the input to whole milliseconds, truncating toward zero.
func (d DurationInput) Resolve() (int64, error) {
	if !d.set {
		return DefaultDuration, nil
	}
	if !d.numeric || d.value >= math.MaxInt64 {
		return 0, &InvalidDurationError{Value: d.raw}
	}
	ms := int64(math.Trunc(d.value))
	if ms <= 0 {
		return 0, &InvalidDurationError{Value: d.raw}
	}
	return ms, nil
}

func (d *DurationInput) UnmarshalJSON(data []byte) error {
	// Numbers stay textual so out-of-range literals such as 1e400 reach
	// Resolve as a duration error instead of failing the whole decode.
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	var v any
	if err := decoder.Decode(&v); err != nil {
		return err
	}
	*d = DurationInput{set: v != nil, raw: strings.TrimSpace(string(data))}
	switch x := v.(type) {
	case json.Number:
		d.value, d.numeric = parseNumeric(x.String())
	case string:
		d.value, d.numeric = parseNumeric(x)
	}
	return nil
}

func (d DurationInput) MarshalJSON() ([]byte, error) {
	switch {
	case !d.set:
		return []byte("null"), nil
	case d.numeric:
		return json.Marshal(d.value)
	default:
		return json.Marshal(d.raw)
	}
}

func (d *DurationInput) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode && node.Tag == "!!null" {
		*d = DurationInput{}
		return nil
	}
	*d = DurationInput{set: true, raw: node.Value}
	if node.Kind == yaml.ScalarNode && node.Tag != "!!bool" {
		d.value, d.numeric = parseNumeric(node.Value)
	}
	return nil
}

func parseNumeric(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// SimulationRequest is what a caller submits: a task set, an algorithm code and
// a horizon in milliseconds.
type SimulationRequest struct {
	Tasks     []Task        `json:"tasks" yaml:"tasks"`
	Algorithm string        `json:"algorithm" yaml:"algorithm"`
	Duration  DurationInput `json:"duration" yaml:"duration"`
}

// SimulationResponse is the complete result of one simulation.
type SimulationResponse struct {
	Timeline []Segment `json:"timeline"`
	Metrics  *Metrics  `json:"metrics"`
}

// Simulate validates req, runs the simulation and returns the timeline and
// metrics. It fails with exactly one of *UnknownAlgorithmError,
// *InvalidTaskError or *InvalidDurationError, checked in that order, and
// returns nothing partial.
func Simulate(req *SimulationRequest) (*SimulationResponse, error) {
	return SimulateWithTrace(req, nil)
}

// SimulationPlan is a request that passed validation: a canonical algorithm,
// a validated task set and a resolved horizon.
type SimulationPlan struct {
	Algorithm Algorithm
	Tasks     *TaskSet
	Horizon   int64
}

// Validate checks req in the order Simulate does and returns the resulting
// plan. Callers use it to apply their own limits before running the plan.
func (req *SimulationRequest) Validate() (*SimulationPlan, error) {
	algo, err := ParseAlgorithm(req.Algorithm)
	if err != nil {
		return nil, err
	}
	ts, err := NewTaskSet(req.Tasks)
	if err != nil {
		return nil, err
	}
	horizon, err := req.Duration.Resolve()
	if err != nil {
		return nil, err
	}
	return &SimulationPlan{Algorithm: algo, Tasks: ts, Horizon: horizon}, nil
}

// Run simulates the plan, recording decisions into st when it is non-nil.
func (p *SimulationPlan) Run(st *trace.SimulationTrace) (*SimulationResponse, error) {
	s, err := NewSimulator(p.Tasks, NewPolicy(p.Algorithm), p.Horizon)
	if err != nil {
		return nil, err
	}
	s.SetTrace(st)
	s.Run()

	return &SimulationResponse{
		Timeline: s.Timeline(),
		Metrics:  s.Metrics(),
	}, nil
}

// SimulateWithTrace is Simulate with decision tracing into st (nil disables it).
// Tracing never changes the result.
func SimulateWithTrace(req *SimulationRequest, st *trace.SimulationTrace) (*SimulationResponse, error) {
	p, err := req.Validate()
	if err != nil {
		return nil, err
	}
	return p.Run(st)
}
