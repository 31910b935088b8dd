package scenegraph

import "fmt"

// Severity classifies a finding. Findings are data, not control flow:
// a validation run always completes and returns everything it saw.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Finding is one validator observation, with an optional suggested-fix tag
// that editor tooling can map to a quick action.
type Finding struct {
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	Fix      string   `json:"fix,omitempty"`
}

func (f Finding) String() string {
	if f.Fix != "" {
		return fmt.Sprintf("[%s] %s (fix: %s)", f.Severity, f.Message, f.Fix)
	}
	return fmt.Sprintf("[%s] %s", f.Severity, f.Message)
}

// CountBySeverity tallies findings per severity.
func CountBySeverity(findings []Finding) map[Severity]int {
	counts := make(map[Severity]int)
	for _, f := range findings {
		counts[f.Severity]++
	}
	return counts
}
