// file: internal/enforce/evaluator.go

// Enforcement rule evaluation. Pure: no I/O, no mutation of the policy or
// the status records, and no failure mode other than reporting violations.
// Callers are responsible for verifying the policy first and for rejecting
// ignore lists on the core tier.

package enforce

import (
	"math"
	"sort"

	"specgate/internal/policy"
	"specgate/internal/status"
)

// PriorityViolation records one scenario that a priority rule requires to be
// implemented but is not.
type PriorityViolation struct {
	FeatureID  string `json:"feature_id"`
	ScenarioID string `json:"scenario_id"`
	Priority   string `json:"priority"`
}

// CoverageViolation records an overall implementation percentage below the
// licensed threshold.
type CoverageViolation struct {
	Threshold int     `json:"threshold"`
	Actual    float64 `json:"actual"`
}

// Result is the structured violation report.
type Result struct {
	Failed             bool                `json:"failed"`
	IgnoredFeatures    []string            `json:"ignored_features"`
	PriorityViolations []PriorityViolation `json:"priority_violations"`
	CoverageViolations []CoverageViolation `json:"coverage_violations"`
}

// Evaluate combines a verified policy's rules with scenario status records
// and produces the violation report. Feature ids in ignored contribute no
// violations and are excluded from the coverage denominator.
func Evaluate(doc *policy.Document, ignored []string, records []status.Record) Result {
	ignoredSet := make(map[string]struct{}, len(ignored))
	for _, id := range ignored {
		ignoredSet[id] = struct{}{}
	}

	result := Result{
		IgnoredFeatures:    sortedKeys(ignoredSet),
		PriorityViolations: []PriorityViolation{},
		CoverageViolations: []CoverageViolation{},
	}

	var total, implemented int
	for _, record := range records {
		if _, skip := ignoredSet[record.FeatureID]; skip {
			continue
		}
		total++
		if record.Status == status.Implemented {
			implemented++
			continue
		}
		rule, ok := doc.Rules.Priorities[record.Priority]
		if ok && rule.MustBeImplemented {
			result.PriorityViolations = append(result.PriorityViolations, PriorityViolation{
				FeatureID:  record.FeatureID,
				ScenarioID: record.ScenarioID,
				Priority:   record.Priority,
			})
		}
	}

	if doc.PolicyType == policy.TypeEnforce && doc.Rules.Coverage != nil {
		actual := 100.0
		if total > 0 {
			actual = roundToTenth(float64(implemented) / float64(total) * 100)
		}
		if doc.Rules.Coverage.FailBelow && actual < float64(doc.Rules.Coverage.ThresholdPercent) {
			result.CoverageViolations = append(result.CoverageViolations, CoverageViolation{
				Threshold: doc.Rules.Coverage.ThresholdPercent,
				Actual:    actual,
			})
		}
	}

	result.Failed = len(result.PriorityViolations) > 0 || len(result.CoverageViolations) > 0
	return result
}

func roundToTenth(v float64) float64 {
	return math.Round(v*10) / 10
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
