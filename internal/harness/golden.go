package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/vcomp/internal/ir"
)

// snapshot converts a result to a map[string]any for canonical JSON
// serialization. Fingerprints and visit counts are left out.
func snapshot(name string, r *Result) map[string]any {
	cases := make([]any, len(r.Cases))
	for i, c := range r.Cases {
		m := map[string]any{
			"name":            c.Name,
			"query":           c.Query,
			"dialect":         c.Dialect,
			"original_sql":    c.OriginalSQL,
			"compensated_sql": c.CompensatedSQL,
			"params":          c.Params,
			"rewritten":       c.Rewritten,
		}
		if c.Rows != nil {
			rows := make(ir.IRArray, len(c.Rows))
			for j, row := range c.Rows {
				rows[j] = row
			}
			m["rows"] = rows
		}
		cases[i] = m
	}
	return map[string]any{
		"scenario_name": name,
		"cases":         cases,
	}
}

// Snapshot renders the golden form of a result: canonical JSON of the
// emitted SQL, parameters and rows of every case.
func Snapshot(name string, r *Result) ([]byte, error) {
	return ir.MarshalCanonical(snapshot(name, r))
}

// RunWithGolden executes a scenario and compares a snapshot of its cases
// against testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if the snapshot doesn't match.
func RunWithGolden(t *testing.T, scenario *Scenario, opts ...Option) (*Result, error) {
	t.Helper()

	result, err := Run(scenario, opts...)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an existing result against a golden file without
// re-running the scenario.
func AssertGolden(t *testing.T, name string, result *Result) error {
	t.Helper()

	data, err := Snapshot(name, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)

	return nil
}
