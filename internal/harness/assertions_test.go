package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/vcomp/internal/ir"
)

func TestAssertionError_Format(t *testing.T) {
	err := &AssertionError{Type: "row_count", Expected: "2 rows", Actual: "0 rows", SQL: "SELECT 1"}
	assert.Equal(t, "Assertion failed: row_count\n  Expected: 2 rows\n  Actual: 0 rows\n  SQL: SELECT 1", err.Error())

	err.SQL = ""
	assert.Equal(t, "Assertion failed: row_count\n  Expected: 2 rows\n  Actual: 0 rows", err.Error())
}

func TestEvaluateAssertions(t *testing.T) {
	one := []ir.IRObject{{"id": ir.IRInt(1)}}
	cr := &CaseResult{
		CompensatedSQL: `WHERE "t0"."is_active" = ?`,
		Rewritten:      1,
		OriginalRows:   []ir.IRObject{},
		Rows:           one,
	}

	tests := []struct {
		name string
		a    Assertion
		fail bool
	}{
		{"rewritten ok", Assertion{Type: AssertRewritten, Count: 1}, false},
		{"rewritten wrong", Assertion{Type: AssertRewritten, Count: 0}, true},
		{"sql contains", Assertion{Type: AssertSQLContains, Text: `"is_active" = ?`}, false},
		{"sql missing", Assertion{Type: AssertSQLContains, Text: "NOT"}, true},
		{"row count ok", Assertion{Type: AssertRowCount, Count: 1}, false},
		{"row count wrong", Assertion{Type: AssertRowCount, Count: 3}, true},
		{"original differs", Assertion{Type: AssertOriginalDiffers}, false},
		{"unknown", Assertion{Type: "trace_contains"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := evaluateAssertions(cr, []Assertion{tt.a})
			if !tt.fail {
				assert.Empty(t, errs)
				return
			}
			require.Len(t, errs, 1)
			assert.Contains(t, errs[0], "assertions[0]: ")
		})
	}

	same := &CaseResult{OriginalRows: one, Rows: []ir.IRObject{{"id": ir.IRInt(1)}}}
	errs := evaluateAssertions(same, []Assertion{{Type: AssertOriginalDiffers}})
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "both returned 1 identical rows")
}
