package harness

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/roach88/vcomp/internal/ir"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string // Assertion type for categorization
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
	SQL      string // Compensated SQL for context, if any
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s", e.Actual)
	if e.SQL != "" {
		fmt.Fprintf(&buf, "\n  SQL: %s", e.SQL)
	}

	return buf.String()
}

// evaluateAssertions runs every assertion against cr and returns the
// failure messages.
func evaluateAssertions(cr *CaseResult, assertions []Assertion) []string {
	var errs []string
	for i, a := range assertions {
		if err := evaluateAssertion(cr, a); err != nil {
			errs = append(errs, fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}
	return errs
}

func evaluateAssertion(cr *CaseResult, a Assertion) error {
	switch a.Type {
	case AssertRewritten:
		if cr.Rewritten != a.Count {
			return &AssertionError{
				Type:     a.Type,
				Expected: fmt.Sprintf("%d leaves rewritten", a.Count),
				Actual:   fmt.Sprintf("%d leaves rewritten", cr.Rewritten),
				SQL:      cr.CompensatedSQL,
			}
		}

	case AssertSQLContains:
		if !strings.Contains(cr.CompensatedSQL, a.Text) {
			return &AssertionError{
				Type:     a.Type,
				Expected: fmt.Sprintf("compensated SQL containing %q", a.Text),
				Actual:   "not found",
				SQL:      cr.CompensatedSQL,
			}
		}

	case AssertRowCount:
		if len(cr.Rows) != a.Count {
			return &AssertionError{
				Type:     a.Type,
				Expected: fmt.Sprintf("%d rows", a.Count),
				Actual:   fmt.Sprintf("%d rows", len(cr.Rows)),
				SQL:      cr.CompensatedSQL,
			}
		}

	case AssertOriginalDiffers:
		if equalRows(cr.OriginalRows, cr.Rows) {
			return &AssertionError{
				Type:     a.Type,
				Expected: "original and compensated queries to return different rows",
				Actual:   fmt.Sprintf("both returned %d identical rows", len(cr.Rows)),
				SQL:      cr.OriginalSQL,
			}
		}

	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
	return nil
}

func equalRows(a, b []ir.IRObject) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !reflect.DeepEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

func equalValues(a, b ir.IRArray) bool {
	return reflect.DeepEqual(a, b)
}

// formatValue renders v as canonical JSON, falling back to %v.
func formatValue(v ir.IRValue) string {
	data, err := ir.MarshalCanonical(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}
