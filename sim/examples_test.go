package sim

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadExample(t *testing.T, name string) *SimulationRequest {
	t.Helper()
	req, err := LoadSimulationRequest(filepath.Join("..", "examples", name))
	require.NoError(t, err, "failed to load %s", name)
	return req
}

// TestExampleTaskSets_RMHarmonic verifies the harmonic RM example meets every deadline.
func TestExampleTaskSets_RMHarmonic(t *testing.T) {
	// GIVEN the rm-harmonic.yaml example
	req := loadExample(t, "rm-harmonic.yaml")

	// WHEN simulated
	resp, err := Simulate(req)
	require.NoError(t, err)

	// THEN no deadline is missed and the hyperperiod is the longest period
	assert.Equal(t, 0, resp.Metrics.TotalDeadlineMisses)
	require.NotNil(t, resp.Metrics.HyperperiodApprox)
	assert.Equal(t, int64(16), *resp.Metrics.HyperperiodApprox)
	assert.InDelta(t, 62.5, resp.Metrics.CPUUtilization, 1e-9)
}

// TestExampleTaskSets_DMConstrainedDeadline verifies DM meets the short deadline that RM misses.
func TestExampleTaskSets_DMConstrainedDeadline(t *testing.T) {
	// GIVEN the dm-constrained-deadline.yaml example
	req := loadExample(t, "dm-constrained-deadline.yaml")

	// THEN DM meets every deadline
	resp, err := Simulate(req)
	require.NoError(t, err)
	assert.Equal(t, 0, resp.Metrics.TotalDeadlineMisses)

	// THEN RM on the same tasks misses A's deadline
	req.Algorithm = string(AlgorithmRM)
	resp, err = Simulate(req)
	require.NoError(t, err)
	assert.Positive(t, resp.Metrics.PerTaskDeadlineMisses["A"])
	assert.Zero(t, resp.Metrics.PerTaskDeadlineMisses["B"])
}

// TestExampleTaskSets_EDFOverload verifies the overloaded example misses under every policy.
func TestExampleTaskSets_EDFOverload(t *testing.T) {
	// GIVEN the edf-overload.yaml example (utilization above 100%)
	req := loadExample(t, "edf-overload.yaml")

	for _, algo := range allAlgorithms {
		t.Run(string(algo), func(t *testing.T) {
			req.Algorithm = string(algo)
			resp, err := Simulate(req)
			require.NoError(t, err)

			// THEN at least one deadline is missed and the timeline never goes idle
			assert.InDelta(t, 110.0, resp.Metrics.CPUUtilization, 1e-9)
			assert.Positive(t, resp.Metrics.TotalDeadlineMisses)
			for _, seg := range resp.Timeline {
				assert.NotNil(t, seg.Task, "overloaded processor should never idle")
			}
		})
	}
}
