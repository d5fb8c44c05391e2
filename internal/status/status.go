// file: internal/status/status.go

// Scenario implementation status, as supplied by the external status
// scanner. The enforcement evaluator treats these records as already
// deduplicated and consistent; nothing here scans specs or test trees.

package status

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario statuses.
const (
	Implemented = "implemented"
	Skipped     = "skipped"
)

// Record is one scenario's implementation status.
type Record struct {
	FeatureID  string `json:"feature_id" yaml:"feature_id"`
	ScenarioID string `json:"scenario_id" yaml:"scenario_id"`
	Priority   string `json:"priority" yaml:"priority"`
	Status     string `json:"status" yaml:"status"`
}

// Provider lists scenario status records for the current spec/test tree.
type Provider interface {
	Records() ([]Record, error)
}

// FileProvider reads a pre-computed status export from a YAML file. This is
// the offline stand-in for the live scanner: CI pipelines export status once
// and feed it to every enforcement run.
type FileProvider struct {
	Path string
}

type statusFile struct {
	Scenarios []Record `yaml:"scenarios"`
}

// Records implements Provider.
func (p *FileProvider) Records() ([]Record, error) {
	data, err := os.ReadFile(p.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read status file: %w", err)
	}

	var f statusFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("invalid YAML in status file %s: %w", p.Path, err)
	}

	for i := range f.Scenarios {
		r := &f.Scenarios[i]
		if r.FeatureID == "" || r.ScenarioID == "" {
			return nil, fmt.Errorf("status record %d in %s is missing feature_id or scenario_id", i, p.Path)
		}
		if r.Status != Implemented && r.Status != Skipped {
			return nil, fmt.Errorf("status record %s/%s has unknown status %q",
				r.FeatureID, r.ScenarioID, r.Status)
		}
	}
	return f.Scenarios, nil
}

// StaticProvider returns a fixed record list. Used in tests.
type StaticProvider []Record

// Records implements Provider.
func (p StaticProvider) Records() ([]Record, error) {
	return p, nil
}
