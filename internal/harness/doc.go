// Package harness runs compensation scenarios end to end.
//
// A scenario names a CUE spec directory, seeds entity rows, and lists
// cases. Each case compiles one query, compensates it, and, for the
// relational dialect, runs both the original and the compensated SQL
// against a fresh in-memory SQLite store.
//
// # Scenario Format
//
//	name: yn_customers
//	description: "Y/N booleans filter correctly once compensated"
//	specs: ../compiler/testdata/specs
//	rows:
//	  Customer:
//	    - {id: 1, name: ann, active: true}
//	    - {id: 2, name: bob, active: false}
//	cases:
//	  - name: bare truth
//	    query: active_customers
//	    dialect: relational
//	    bound: {flag: true}
//	    expect_keys: [1]
//	    assertions:
//	      - type: rewritten
//	        count: 1
//	      - type: sql_contains
//	        text: '"is_active" = ?'
//	      - type: original_differs
//
// Unknown fields are rejected, so a misspelt key fails loading instead of
// silently skipping a check.
//
// # Golden Files
//
// RunWithGolden stores a canonical JSON snapshot of every case, original
// and compensated SQL included, in testdata/golden/<name>.golden.
// Regenerate with:
//
//	go test ./internal/harness -update
package harness
