package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/vcomp/internal/pipeline"
)

// Scenario defines a compensation scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Specs is the CUE spec directory holding the model and queries.
	// A relative path is resolved against the scenario file's directory.
	Specs string `yaml:"specs"`

	// Model selects the model when the spec directory defines several.
	Model string `yaml:"model,omitempty"`

	// Rows seeds entity tables: entity name to logical rows keyed by
	// property name. Values are converted on insert.
	Rows map[string][]map[string]any `yaml:"rows,omitempty"`

	// Cases are compiled and checked in order.
	Cases []Case `yaml:"cases"`

	// RunID is the audit run id. Defaults to testutil.DefaultRunID.
	RunID string `yaml:"run_id,omitempty"`
}

// Case is one query to compile, compensate and check.
type Case struct {
	// Name labels the case in results. Defaults to the query name.
	Name string `yaml:"name,omitempty"`

	// Query names a query in the spec directory.
	Query string `yaml:"query"`

	// Dialect is "relational" (default) or "document".
	Dialect string `yaml:"dialect,omitempty"`

	// Bound supplies values for the query's bound variables.
	Bound map[string]any `yaml:"bound,omitempty"`

	// ExpectKeys lists, in order, the entity keys of the rows the
	// compensated query must return. Relational only.
	ExpectKeys []any `yaml:"expect_keys,omitempty"`

	// Assertions are further checks on the case outcome.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Assertion checks one property of a case outcome.
type Assertion struct {
	// Type selects the check:
	// - "rewritten": compensation replaced exactly Count leaves
	// - "sql_contains": the compensated SQL contains Text
	// - "row_count": the compensated query returned Count rows
	// - "original_differs": the original query returned different rows
	Type string `yaml:"type"`

	// Count is used by rewritten and row_count.
	Count int `yaml:"count,omitempty"`

	// Text is used by sql_contains.
	Text string `yaml:"text,omitempty"`
}

// Assertion type constants.
const (
	AssertRewritten       = "rewritten"
	AssertSQLContains     = "sql_contains"
	AssertRowCount        = "row_count"
	AssertOriginalDiffers = "original_differs"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	scenario, err := ParseScenario(data)
	if err != nil {
		return nil, err
	}

	// Resolve the spec path relative to the scenario BEFORE validation
	if scenario.Specs != "" && !filepath.IsAbs(scenario.Specs) {
		scenario.Specs = filepath.Join(filepath.Dir(path), scenario.Specs)
	}

	if err := validateScenario(scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	if _, err := os.Stat(scenario.Specs); os.IsNotExist(err) {
		return nil, fmt.Errorf("invalid scenario: specs directory not found: %s", scenario.Specs)
	}
	return scenario, nil
}

// ParseScenario decodes scenario YAML without resolving or checking the
// spec path.
func ParseScenario(data []byte) (*Scenario, error) {
	// Strict field validation catches typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Specs == "" {
		return fmt.Errorf("specs is required")
	}

	if len(s.Cases) == 0 {
		return fmt.Errorf("cases list is required and must be non-empty")
	}

	for entity, rows := range s.Rows {
		for i, row := range rows {
			if len(row) == 0 {
				return fmt.Errorf("rows.%s[%d]: row must set at least one property", entity, i)
			}
		}
	}

	for i := range s.Cases {
		if err := validateCase(i, &s.Cases[i]); err != nil {
			return err
		}
	}

	return nil
}

func validateCase(index int, c *Case) error {
	if c.Query == "" {
		return fmt.Errorf("cases[%d]: query is required", index)
	}

	dialect, err := pipeline.ParseDialect(c.Dialect)
	if err != nil {
		return fmt.Errorf("cases[%d]: %w", index, err)
	}

	for i, a := range c.Assertions {
		if err := validateAssertion(index, i, &a); err != nil {
			return err
		}
		if a.Type == AssertRowCount || a.Type == AssertOriginalDiffers {
			if dialect == pipeline.Document {
				return fmt.Errorf("cases[%d].assertions[%d]: %s needs rows, document queries are not executed", index, i, a.Type)
			}
		}
	}

	if len(c.ExpectKeys) > 0 && dialect == pipeline.Document {
		return fmt.Errorf("cases[%d]: expect_keys needs rows, document queries are not executed", index)
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(caseIndex, index int, a *Assertion) error {
	prefix := fmt.Sprintf("cases[%d].assertions[%d]", caseIndex, index)
	if a.Type == "" {
		return fmt.Errorf("%s: type is required", prefix)
	}

	switch a.Type {
	case AssertRewritten, AssertRowCount:
		if a.Count < 0 {
			return fmt.Errorf("%s: count must be non-negative for %s", prefix, a.Type)
		}
	case AssertSQLContains:
		if a.Text == "" {
			return fmt.Errorf("%s: text is required for sql_contains", prefix)
		}
	case AssertOriginalDiffers:
	default:
		return fmt.Errorf("%s: unknown assertion type %q", prefix, a.Type)
	}

	return nil
}
