package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileValidSpecs(t *testing.T) {
	output, err := execute(t, NewCompileCommand(&RootOptions{Format: "text"}), shopSpecs)
	require.NoError(t, err)

	assert.Contains(t, output, "✓ Compiled 1 model(s), 5 query(ies)")
	assert.Contains(t, output, "Customer (customers): 4 propert(ies), 2 converted")
	assert.Contains(t, output, "Order (orders): 3 propert(ies), 1 converted")
	assert.Contains(t, output, "active_customers: select Customer (shop)")
	assert.Contains(t, output, "customers_with_open_orders: select Customer (shop)")
}

func TestCompileValidSpecsJSON(t *testing.T) {
	output, err := execute(t, NewCompileCommand(&RootOptions{Format: "json"}), shopSpecs)
	require.NoError(t, err)

	var resp struct {
		Status string            `json:"status"`
		Data   CompilationResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	assert.Equal(t, "ok", resp.Status)
	require.Len(t, resp.Data.Models, 1)
	assert.Equal(t, "shop", resp.Data.Models[0].Name)
	require.Len(t, resp.Data.Queries, 5)
	assert.Equal(t, "active_customers", resp.Data.Queries[0].Name, "queries are sorted by name")
}

func TestCompileOutputFile(t *testing.T) {
	outFile := filepath.Join(t.TempDir(), "compiled.json")

	output, err := execute(t, NewCompileCommand(&RootOptions{Format: "text"}), shopSpecs, "-o", outFile)
	require.NoError(t, err)
	assert.Contains(t, output, "Wrote compiled models to "+outFile)

	data, err := os.ReadFile(outFile)
	require.NoError(t, err)
	var result CompilationResult
	require.NoError(t, json.Unmarshal(data, &result))
	assert.Len(t, result.Queries, 5)
}

func TestCompileMissingDirectory(t *testing.T) {
	output, err := execute(t, NewCompileCommand(&RootOptions{Format: "text"}), "/nonexistent/specs")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, output, "Error [E005]")
	assert.Contains(t, output, "specs directory not found")
}

func TestCompileErrorsAreCollected(t *testing.T) {
	dir := writeSpecs(t, `package test

model: shop: entity: Customer: property: {
	id: {type: "int"}
	active: {type: "boolean"}
}

query: broken: {select: {id: "id"}}
`)

	output, err := execute(t, NewCompileCommand(&RootOptions{Format: "text"}), dir)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, output, "✗ Compilation failed")
	assert.Contains(t, err.Error(), "compilation failed with")
}

func TestCompileErrorsJSON(t *testing.T) {
	dir := writeSpecs(t, "package test\n\nquery: lonely: {from: \"Customer\"}")

	output, err := execute(t, NewCompileCommand(&RootOptions{Format: "json"}), dir)
	require.Error(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.NotEmpty(t, resp.Error.Code)
}
