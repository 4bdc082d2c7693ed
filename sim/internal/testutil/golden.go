// Package testutil provides shared test infrastructure for the rtsim engine.
// It holds the golden scenario types and assertion helpers used by sim/ tests.
package testutil

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// GoldenDataset represents the structure of testdata/goldendataset.json.
type GoldenDataset struct {
	Tests []GoldenTestCase `json:"tests"`
}

// GoldenTestCase is one simulation request with its expected response.
type GoldenTestCase struct {
	Name      string         `json:"name"`
	Algorithm string         `json:"algorithm"`
	Duration  int64          `json:"duration"`
	Tasks     []GoldenTask   `json:"tasks"`
	Expected  GoldenResponse `json:"expected"`
}

// GoldenTask mirrors the wire form of a task.
type GoldenTask struct {
	Name          string `json:"name"`
	ExecutionTime int64  `json:"execution_time"`
	Period        int64  `json:"period"`
	Deadline      int64  `json:"deadline"`
}

// GoldenResponse is the expected timeline and metrics of a test case.
type GoldenResponse struct {
	Timeline []GoldenSegment `json:"timeline"`
	Metrics  GoldenMetrics   `json:"metrics"`
}

// GoldenSegment mirrors the wire form of a timeline segment.
type GoldenSegment struct {
	Task         *string `json:"task"`
	Start        int64   `json:"start"`
	End          int64   `json:"end"`
	DeadlineMiss bool    `json:"deadline_miss"`
}

// GoldenMetrics represents the expected metrics from a golden test case.
type GoldenMetrics struct {
	// Exact match metrics (integers)
	TotalDeadlineMisses   int            `json:"total_deadline_misses"`
	PerTaskDeadlineMisses map[string]int `json:"per_task_deadline_misses"`
	HyperperiodApprox     *int64         `json:"hyperperiod_approx"`

	// Compared with relative tolerance
	CPUUtilization float64 `json:"cpu_utilization"`
}

// LoadGoldenDataset loads the golden dataset from the testdata directory.
// The path is resolved relative to this source file: sim/internal/testutil/ → testdata/.
func LoadGoldenDataset(t *testing.T) *GoldenDataset {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get current file path")
	}
	// Navigate from sim/internal/testutil/ to repo root testdata/
	path := filepath.Join(filepath.Dir(thisFile), "..", "..", "..", "testdata", "goldendataset.json")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read golden dataset: %v", err)
	}

	var dataset GoldenDataset
	if err := json.Unmarshal(data, &dataset); err != nil {
		t.Fatalf("Failed to parse golden dataset: %v", err)
	}

	return &dataset
}

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}
