// Package health turns a metrics snapshot into a plain-language
// report about how a cache is behaving: whether objects live long
// enough to be read, and whether the configured policies are doing
// useful work. It is advisory only; nothing here feeds back into the
// cache.
package health

import "github.com/snac/object-cache/metrics"

// Status grades a report.
type Status string

const (
	StatusOK       Status = "OK"
	StatusDegraded Status = "DEGRADED"
)

// Report is the outcome of one analysis pass.
type Report struct {
	Status          Status   `json:"status"`
	Summary         string   `json:"summary"`
	Signals         []string `json:"signals"`
	Recommendations []string `json:"recommendations"`
}

// RuleResult is the outcome of a single rule.
type RuleResult struct {
	Triggered      bool
	Signal         string
	Recommendation string
}

// Rule evaluates one aspect of a metrics snapshot.
type Rule func(metrics.Snapshot) RuleResult

// minEvents is how many adds a snapshot needs before ratios mean
// anything. Below it every rule stays quiet.
const minEvents = 100

// ExpireChurnRule fires when most added objects expire, which usually
// means the temporal limit or index cap is tighter than the workload.
func ExpireChurnRule(s metrics.Snapshot) RuleResult {
	if s.Adds < minEvents {
		return RuleResult{}
	}
	if s.Expirations*2 >= s.Adds {
		return RuleResult{
			Triggered:      true,
			Signal:         "most added objects expire",
			Recommendation: "raise the expiration duration or index limit, or add less speculatively",
		}
	}
	return RuleResult{}
}

// ColdReadRule fires when the cache is written far more than it is
// read, i.e. caching work nobody fetches back.
func ColdReadRule(s metrics.Snapshot) RuleResult {
	if s.Adds < minEvents {
		return RuleResult{}
	}
	if s.Uses*10 < s.Adds {
		return RuleResult{
			Triggered:      true,
			Signal:         "objects are added but rarely fetched",
			Recommendation: "check whether callers peek instead of get, or whether the cache is needed at all",
		}
	}
	return RuleResult{}
}

// UnusedExpiryRule fires when expiration outpaces usage on a cache that
// is actually being read, a hint that the last-used basis would fit
// the workload better than the insertion basis.
func UnusedExpiryRule(s metrics.Snapshot) RuleResult {
	if s.Adds < minEvents || s.Uses == 0 {
		return RuleResult{}
	}
	if s.Expirations > s.Uses {
		return RuleResult{
			Triggered:      true,
			Signal:         "objects expire faster than they are fetched",
			Recommendation: "consider expiring on last use instead of insertion time",
		}
	}
	return RuleResult{}
}

// Analyzer runs a fixed rule set over snapshots.
type Analyzer struct {
	rules []Rule
}

// NewAnalyzer returns an analyzer with the default rules. Extra rules
// may be appended.
func NewAnalyzer(extra ...Rule) *Analyzer {
	rules := []Rule{
		ExpireChurnRule,
		ColdReadRule,
		UnusedExpiryRule,
	}
	return &Analyzer{rules: append(rules, extra...)}
}

// Analyze evaluates every rule against the snapshot and folds the
// results into one report.
func (a *Analyzer) Analyze(s metrics.Snapshot) Report {
	var (
		signals         = []string{}
		recommendations = []string{}
		status          = StatusOK
	)

	for _, rule := range a.rules {
		result := rule(s)
		if !result.Triggered {
			continue
		}
		signals = append(signals, result.Signal)
		recommendations = append(recommendations, result.Recommendation)
		status = StatusDegraded
	}

	summary := "cache is behaving well"
	if status != StatusOK {
		summary = "cache configuration does not match the workload"
	}

	return Report{
		Status:          status,
		Summary:         summary,
		Signals:         signals,
		Recommendations: recommendations,
	}
}
