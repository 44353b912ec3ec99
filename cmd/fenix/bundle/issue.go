package bundle

import (
	"fmt"

	"github.com/SanteonNL/queryfilter/cmd/fenix/queryfilter"
	"github.com/SanteonNL/queryfilter/cmd/fenix/types"
)

const (
	SeverityError       = "error"
	SeverityWarning     = "warning"
	SeverityInformation = "information"
)

// Issue is a problem found while filtering that did not fail the request
type Issue struct {
	Severity string `json:"severity"`
	Code     string `json:"code"`
	Filter   string `json:"filter,omitempty"`
	Details  string `json:"details"`
}

// Unknown column
func NewNotFoundIssue(filter, details string) Issue {
	return Issue{Severity: SeverityWarning, Code: "not-found", Filter: filter, Details: details}
}

// Invalid parameter
func NewInvalidParameterIssue(filter, details string) Issue {
	return Issue{Severity: SeverityWarning, Code: "invalid", Filter: filter, Details: details}
}

// Informational note
func NewInformationalIssue(filter, details string) Issue {
	return Issue{Severity: SeverityInformation, Code: "informational", Filter: filter, Details: details}
}

// Processing failure
func NewProcessingError(details string) Issue {
	return Issue{Severity: SeverityError, Code: "processing", Details: details}
}

// IssueCollector observes a filter application and turns every ignored
// filter into an Issue. Use one collector per request.
type IssueCollector struct {
	issues []Issue
}

var _ queryfilter.Observer = (*IssueCollector)(nil)

func NewIssueCollector() *IssueCollector {
	return &IssueCollector{}
}

func (c *IssueCollector) FilterApplied(string, types.Operator, interface{}, string) {}

func (c *IssueCollector) FilterIgnored(field, reason string) {
	switch reason {
	case queryfilter.ReasonUnknownColumn:
		c.issues = append(c.issues, NewNotFoundIssue(field, fmt.Sprintf("unknown column %q", field)))
	case queryfilter.ReasonInvalidValue:
		c.issues = append(c.issues, NewInvalidParameterIssue(field, fmt.Sprintf("invalid value for %q", field)))
	case queryfilter.ReasonNoValue:
		c.issues = append(c.issues, NewInvalidParameterIssue(field, fmt.Sprintf("missing value for %q", field)))
	default:
		c.issues = append(c.issues, NewInformationalIssue(field, fmt.Sprintf("filter %q not applied: %s", field, reason)))
	}
}

// Issues returns the collected issues in notification order.
func (c *IssueCollector) Issues() []Issue {
	return c.issues
}
