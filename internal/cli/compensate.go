package cli

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/roach88/vcomp/internal/compiler"
	"github.com/roach88/vcomp/internal/ir"
	"github.com/roach88/vcomp/internal/pipeline"
	"github.com/roach88/vcomp/internal/store"
	"github.com/roach88/vcomp/internal/valueconv"
)

// CompensateOptions holds flags for the compensate command.
type CompensateOptions struct {
	*RootOptions
	Dialect  string
	Database string   // optional audit database
	RunID    string   // audit run id, generated when empty
	Bind     []string // name=value pairs for bound variables
}

// CompensateResult is one query before and after compensation.
type CompensateResult struct {
	Query          string `json:"query"`
	Model          string `json:"model"`
	Dialect        string `json:"dialect"`
	OriginalSQL    string `json:"original_sql"`
	CompensatedSQL string `json:"compensated_sql"`
	Params         string `json:"params"` // canonical JSON
	Fingerprint    string `json:"fingerprint"`
	Visited        int    `json:"visited"`
	Rewritten      int    `json:"rewritten"`
	RunID          string `json:"run_id,omitempty"`
	RecordID       string `json:"record_id,omitempty"`
	Recorded       bool   `json:"recorded,omitempty"` // false when the run already held this fingerprint
}

// NewCompensateCommand creates the compensate command.
func NewCompensateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompensateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compensate <specs-dir> <query>",
		Short: "Show a query before and after compensation",
		Long: `Translate a named query, compensate it and render both versions.

Every converted boolean used bare in a predicate position is rewritten to
an explicit comparison with true. Parameters are shown in their stored
form, e.g. "Y" for a bool_to_yn property.

Examples:
  vcomp compensate ./specs active_customers
  vcomp compensate ./specs active_customers --dialect document
  vcomp compensate ./specs by_flag --bind flag=false
  vcomp compensate ./specs active_customers --db ./audit.db --run nightly`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompensate(opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Dialect, "dialect", "relational", "target dialect (relational|document)")
	cmd.Flags().StringVar(&opts.Database, "db", "", "record the compensation in this SQLite audit database")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "audit run id (default: a new UUIDv7)")
	cmd.Flags().StringArrayVar(&opts.Bind, "bind", nil, "bound variable as name=value (repeatable)")

	return cmd
}

func runCompensate(opts *CompensateOptions, specsDir, queryName string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())
	logger := newLogger(opts.RootOptions, cmd.ErrOrStderr())

	dialect, err := pipeline.ParseDialect(opts.Dialect)
	if err != nil {
		return outputCompensateError(formatter, ExitCommandError, compiler.ErrCodeGeneric, err.Error())
	}
	bound, err := parseBindings(opts.Bind)
	if err != nil {
		return outputCompensateError(formatter, ExitCommandError, ErrCodeBadBinding, err.Error())
	}
	if len(bound) > 0 {
		formatter.VerboseLog("Bound variables: %s", strings.Join(sortedNames(bound), ", "))
	}

	bundle, loadErrors := compiler.Load(specsDir, compiler.LoadModeFailFast)
	if len(loadErrors) > 0 {
		code, message := parseCompileError(loadErrors[0])
		return outputCompensateError(formatter, ExitCommandError, code, message)
	}

	nq, model, ok := bundle.Query(queryName)
	if !ok {
		return outputCompensateError(formatter, ExitCommandError, ErrCodeUnknownQuery,
			fmt.Sprintf("unknown query %q (defined: %s)", queryName, strings.Join(bundle.QueryNames(), ", ")))
	}

	resolver := valueconv.Default()
	if verrs := compiler.ValidateModel(model, resolver); len(verrs) > 0 {
		return outputCompensateError(formatter, ExitFailure, verrs[0].Code, verrs[0].Error())
	}

	res, err := pipeline.New(model, resolver, logger).Compile(nq.Query, dialect, bound)
	if err != nil {
		return outputCompensateError(formatter, ExitFailure, ErrCodeCompensate, err.Error())
	}

	var params any = res.Params
	if dialect == pipeline.Document {
		params = res.NamedParams
	}
	encoded, err := store.MarshalParams(params)
	if err != nil {
		return outputCompensateError(formatter, ExitFailure, ErrCodeCompensate, err.Error())
	}

	result := CompensateResult{
		Query:          nq.Name,
		Model:          model.Name,
		Dialect:        string(dialect),
		OriginalSQL:    res.OriginalSQL,
		CompensatedSQL: res.CompensatedSQL,
		Params:         encoded,
		Fingerprint:    res.Fingerprint,
		Visited:        res.Stats.Visited,
		Rewritten:      res.Stats.Rewritten,
	}

	if opts.Database != "" {
		if err := recordResult(cmd.Context(), opts, &result); err != nil {
			return outputCompensateError(formatter, ExitCommandError, ErrCodeStore, err.Error())
		}
		formatter.VerboseLog("Recorded %s in run %s", result.RecordID, result.RunID)
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}
	return outputCompensateText(formatter, result)
}

// parseBindings turns name=value pairs into bound values. Values are read
// as YAML scalars: true, 3 and ann become a bool, an int and a string.
func parseBindings(pairs []string) (map[string]ir.IRValue, error) {
	bound := make(map[string]ir.IRValue, len(pairs))
	for _, pair := range pairs {
		name, raw, ok := strings.Cut(pair, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --bind %q: want name=value", pair)
		}
		var native any
		if err := yaml.Unmarshal([]byte(raw), &native); err != nil {
			return nil, fmt.Errorf("invalid --bind %q: %w", pair, err)
		}
		v, err := ir.FromNative(native)
		if err != nil {
			return nil, fmt.Errorf("invalid --bind %q: %w", pair, err)
		}
		bound[name] = v
	}
	return bound, nil
}

func recordResult(ctx context.Context, opts *CompensateOptions, result *CompensateResult) error {
	if ctx == nil {
		ctx = context.Background()
	}
	st, err := store.Open(opts.Database)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer st.Close()

	runID := opts.RunID
	if runID == "" {
		runID = st.NewRunID()
	}

	rec := &store.Record{
		RunID:          runID,
		Query:          result.Query,
		Dialect:        result.Dialect,
		OriginalSQL:    result.OriginalSQL,
		CompensatedSQL: result.CompensatedSQL,
		Params:         result.Params,
		Fingerprint:    result.Fingerprint,
		Visited:        result.Visited,
		Rewritten:      result.Rewritten,
	}
	inserted, err := st.RecordCompensation(ctx, rec)
	if err != nil {
		return err
	}
	result.RunID = runID
	result.RecordID = rec.ID
	result.Recorded = inserted
	return nil
}

func outputCompensateText(formatter *OutputFormatter, r CompensateResult) error {
	w := formatter.Writer

	fmt.Fprintf(w, "Query: %s (%s, %s)\n\n", r.Query, r.Model, r.Dialect)
	fmt.Fprintln(w, "Original:")
	fmt.Fprintf(w, "  %s\n\n", r.OriginalSQL)
	fmt.Fprintln(w, "Compensated:")
	fmt.Fprintf(w, "  %s\n\n", r.CompensatedSQL)
	fmt.Fprintf(w, "Params: %s\n", r.Params)

	if r.Rewritten == 0 {
		fmt.Fprintf(w, "Nothing to compensate (%d nodes visited)\n", r.Visited)
	} else {
		fmt.Fprintf(w, "✓ Rewrote %d leaf(s), %d nodes visited\n", r.Rewritten, r.Visited)
	}

	if r.RunID != "" {
		if r.Recorded {
			fmt.Fprintf(w, "Recorded %s in run %s\n", r.RecordID, r.RunID)
		} else {
			fmt.Fprintf(w, "Already recorded as %s in run %s\n", r.RecordID, r.RunID)
		}
	}
	return nil
}

func outputCompensateError(formatter *OutputFormatter, exitCode int, code, message string) error {
	_ = formatter.Error(code, message, nil)
	return NewExitError(exitCode, fmt.Sprintf("%s: %s", code, message))
}

// sortedNames returns the keys of m in order.
func sortedNames[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
