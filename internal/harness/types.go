package harness

import "github.com/roach88/vcomp/internal/ir"

// CaseResult is the outcome of one case.
type CaseResult struct {
	Name           string `json:"name"`
	Query          string `json:"query"`
	Dialect        string `json:"dialect"`
	OriginalSQL    string `json:"original_sql"`
	CompensatedSQL string `json:"compensated_sql"`
	Params         string `json:"params"` // canonical JSON
	Fingerprint    string `json:"fingerprint"`
	Visited        int    `json:"visited"`
	Rewritten      int    `json:"rewritten"`

	// OriginalRows and Rows are the results of the original and the
	// compensated SQL. Nil for document cases.
	OriginalRows []ir.IRObject `json:"original_rows,omitempty"`
	Rows         []ir.IRObject `json:"rows,omitempty"`

	Pass   bool     `json:"pass"`
	Errors []string `json:"errors,omitempty"`
}

// addError records a failed check on the case.
func (c *CaseResult) addError(msg string) {
	c.Errors = append(c.Errors, msg)
	c.Pass = false
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall success: every case passed.
	Pass bool `json:"pass"`

	// RunID is the audit run the cases were recorded under.
	RunID string `json:"run_id"`

	Cases []CaseResult `json:"cases"`

	// Errors collects every case error, prefixed with the case name.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult(runID string) *Result {
	return &Result{
		Pass:   true,
		RunID:  runID,
		Cases:  []CaseResult{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// addCase appends c and folds its errors into the scenario result.
func (r *Result) addCase(c CaseResult) {
	r.Cases = append(r.Cases, c)
	for _, e := range c.Errors {
		r.AddError(c.Name + ": " + e)
	}
}
