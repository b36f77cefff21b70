package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/vcomp/internal/compiler"
	"github.com/roach88/vcomp/internal/ir"
	"github.com/roach88/vcomp/internal/queryir"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Output string // output file path
}

// QuerySummary describes one compiled query.
type QuerySummary struct {
	Name   string `json:"name"`
	Model  string `json:"model"`
	Kind   string `json:"kind"` // "select" | "join"
	Entity string `json:"entity"`
}

// CompilationResult holds the compiled models and queries.
type CompilationResult struct {
	Models  []ir.Model     `json:"models"`
	Queries []QuerySummary `json:"queries"`
}

// CompilationStats holds summary statistics.
type CompilationStats struct {
	ModelCount          int
	QueryCount          int
	TotalEntities       int
	ConvertedProperties int
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <specs-dir>",
		Short: "Compile CUE models and queries",
		Long: `Compile CUE entity models and query definitions.

The compiler parses CUE files, builds each model and query, and reports
every property stored through a value converter.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path")

	return cmd
}

func runCompile(opts *CompileOptions, specsDir string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	bundle, loadErrors := compiler.Load(specsDir, compiler.LoadModeCollectAll)

	// Handle load errors (directory not found, no files, etc.)
	if bundle == nil && len(loadErrors) > 0 {
		var loadErr *compiler.LoadError
		if errors.As(loadErrors[0], &loadErr) {
			return outputCompileError(formatter, loadErr.Code, loadErr.Message, nil)
		}
		return outputCompileError(formatter, compiler.ErrCodeGeneric, loadErrors[0].Error(), nil)
	}

	formatter.VerboseLog("Found %d CUE file(s) in %s", bundle.FileCount, specsDir)

	for _, m := range bundle.Models {
		formatter.VerboseLog("Compiled model: %s", m.Name)
	}
	for _, q := range bundle.Queries {
		formatter.VerboseLog("Compiled query: %s", q.Name)
	}

	// Handle compilation errors
	if len(loadErrors) > 0 {
		return outputCompileErrors(formatter, loadErrors)
	}

	result := buildCompilationResult(bundle)
	stats := calculateStats(result)

	// Write to file if --output specified
	if opts.Output != "" {
		if err := writeResultToFile(result, opts.Output); err != nil {
			return outputCompileError(formatter, ErrCodeWriteFailed, fmt.Sprintf("writing output file: %v", err), nil)
		}
	}

	return outputCompileSuccess(formatter, result, stats, opts.Output)
}

func buildCompilationResult(b *compiler.Bundle) *CompilationResult {
	result := &CompilationResult{
		Models:  b.Models,
		Queries: make([]QuerySummary, 0, len(b.Queries)),
	}
	for _, name := range b.QueryNames() {
		nq, _, _ := b.Query(name)
		result.Queries = append(result.Queries, summarizeQuery(nq))
	}
	return result
}

func summarizeQuery(nq *compiler.NamedQuery) QuerySummary {
	s := QuerySummary{Name: nq.Name, Model: nq.Model}
	switch q := queryir.Deref(nq.Query).(type) {
	case queryir.Select:
		s.Kind = "select"
		s.Entity = q.From
	case queryir.Join:
		s.Kind = "join"
		if left, ok := queryir.Deref(q.Left).(queryir.Select); ok {
			s.Entity = left.From
		}
	}
	return s
}

// calculateStats computes summary statistics from compilation result.
func calculateStats(result *CompilationResult) CompilationStats {
	stats := CompilationStats{
		ModelCount: len(result.Models),
		QueryCount: len(result.Queries),
	}

	for _, m := range result.Models {
		stats.TotalEntities += len(m.Entities)
		for _, e := range m.Entities {
			stats.ConvertedProperties += convertedCount(e)
		}
	}

	return stats
}

func convertedCount(e ir.EntitySpec) int {
	n := 0
	for _, p := range e.Properties {
		if p.Converter != "" {
			n++
		}
	}
	return n
}

// outputCompileSuccess outputs successful compilation results.
func outputCompileSuccess(formatter *OutputFormatter, result *CompilationResult, stats CompilationStats, outputFile string) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	// Human-readable text output
	fmt.Fprintf(formatter.Writer, "✓ Compiled %d model(s), %d query(ies)\n\n",
		stats.ModelCount, stats.QueryCount)

	if len(result.Models) > 0 {
		fmt.Fprintln(formatter.Writer, "Models:")
		for _, m := range result.Models {
			fmt.Fprintf(formatter.Writer, "  %s:\n", m.Name)
			for _, e := range m.Entities {
				fmt.Fprintf(formatter.Writer, "    %s (%s): %d propert(ies), %d converted\n",
					e.Name, e.Table, len(e.Properties), convertedCount(e))
			}
		}
		fmt.Fprintln(formatter.Writer)
	}

	if len(result.Queries) > 0 {
		fmt.Fprintln(formatter.Writer, "Queries:")
		for _, q := range result.Queries {
			fmt.Fprintf(formatter.Writer, "  %s: %s %s (%s)\n", q.Name, q.Kind, q.Entity, q.Model)
		}
		fmt.Fprintln(formatter.Writer)
	}

	if outputFile != "" {
		fmt.Fprintf(formatter.Writer, "Wrote compiled models to %s\n", outputFile)
	}

	return nil
}

// outputCompileError outputs a single compilation error.
func outputCompileError(formatter *OutputFormatter, code, message string, details any) error {
	_ = formatter.Error(code, message, details)
	// Compilation errors are command-level errors (exit code 2)
	return WrapExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message), nil)
}

// outputCompileErrors outputs multiple compilation errors.
func outputCompileErrors(formatter *OutputFormatter, errs []error) error {
	if formatter.Format == "json" {
		cliErrors := make([]CLIError, len(errs))
		for i, err := range errs {
			code, message := parseCompileError(err)
			cliErrors[i] = CLIError{
				Code:    code,
				Message: message,
			}
		}

		response := CLIResponse{
			Status: "error",
			Error:  &cliErrors[0],
			Data:   cliErrors, // Include all errors in data
		}

		encoder := json.NewEncoder(formatter.Writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(response); err != nil {
			return err
		}

		return NewExitError(ExitCommandError, fmt.Sprintf("compilation failed with %d error(s)", len(errs)))
	}

	// Text format
	fmt.Fprintln(formatter.Writer, "✗ Compilation failed")
	fmt.Fprintln(formatter.Writer)

	for _, err := range errs {
		code, message := parseCompileError(err)
		var loadErr *compiler.LoadError
		if errors.As(err, &loadErr) && loadErr.Pos.IsValid() {
			fmt.Fprintf(formatter.Writer, "%s:%d:%d\n",
				loadErr.Pos.Filename(),
				loadErr.Pos.Line(),
				loadErr.Pos.Column())
		}
		fmt.Fprintf(formatter.Writer, "  %s: %s\n\n", code, message)
	}

	return NewExitError(ExitCommandError, fmt.Sprintf("compilation failed with %d error(s)", len(errs)))
}

// parseCompileError extracts error code and message from an error.
func parseCompileError(err error) (string, string) {
	var loadErr *compiler.LoadError
	if errors.As(err, &loadErr) {
		return loadErr.Code, loadErr.Message
	}
	var compileErr *compiler.CompileError
	if errors.As(err, &compileErr) {
		return compiler.MapFieldToErrorCode(compileErr.Field), compileErr.Message
	}
	return compiler.ErrCodeGeneric, err.Error()
}

// writeResultToFile writes the compilation result as indented JSON.
func writeResultToFile(result *CompilationResult, filename string) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling result: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("writing file: %w", err)
	}

	return nil
}
