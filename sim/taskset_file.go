package sim

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadSimulationRequest reads and parses a YAML task-set file into a request.
// JSON request bodies load too, since YAML is a superset of JSON.
// Uses strict parsing: unrecognized keys (typos) are rejected. Values are not
// validated here; Simulate does that.
func LoadSimulationRequest(path string) (*SimulationRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading task set file: %w", err)
	}
	return ParseSimulationRequest(data)
}

// ParseSimulationRequest parses YAML (or JSON) bytes into a request with strict
// field checking.
func ParseSimulationRequest(data []byte) (*SimulationRequest, error) {
	var req SimulationRequest
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&req); err != nil {
		return nil, fmt.Errorf("parsing task set file: %w", err)
	}
	return &req, nil
}
