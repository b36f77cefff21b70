package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/vcomp/internal/store"
)

// LogOptions holds flags for the log command.
type LogOptions struct {
	*RootOptions
	Database string
	RunID    string // optional - only this run
}

// RunLog is the audit trail of one run.
type RunLog struct {
	RunID   string         `json:"run_id"`
	Records []store.Record `json:"records"`
	Stats   RunStats       `json:"stats"`
}

// RunStats holds summary statistics for a run.
type RunStats struct {
	Queries   int `json:"queries"`
	Changed   int `json:"changed"` // records whose SQL was rewritten
	Rewritten int `json:"rewritten"`
}

// LogResult holds the complete log output.
type LogResult struct {
	Runs []RunLog `json:"runs"`
}

// NewLogCommand creates the log command.
func NewLogCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LogOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show recorded compensations",
		Long: `Show the compensation audit log.

Each record holds a query as rendered before and after compensation,
its parameters and fingerprint. Records are listed per run in the order
they were recorded.

Examples:
  vcomp log --db ./audit.db
  vcomp log --db ./audit.db --run nightly
  vcomp log --db ./audit.db --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLog(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite audit database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "only show this run")

	return cmd
}

func runLog(opts *LogOptions, cmd *cobra.Command) error {
	ctx := context.Background()

	// Opening a missing path would create an empty database
	if _, err := os.Stat(opts.Database); os.IsNotExist(err) {
		return NewExitError(ExitCommandError, fmt.Sprintf("database not found: %s", opts.Database))
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	runs := []string{opts.RunID}
	if opts.RunID == "" {
		if runs, err = st.ListRuns(ctx); err != nil {
			return WrapExitError(ExitCommandError, "failed to list runs", err)
		}
	}

	result := LogResult{Runs: make([]RunLog, 0, len(runs))}
	for _, runID := range runs {
		records, err := st.ReadCompensations(ctx, runID)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to read compensations", err)
		}
		if len(records) == 0 {
			continue
		}
		result.Runs = append(result.Runs, RunLog{
			RunID:   runID,
			Records: records,
			Stats:   calculateRunStats(records),
		})
	}

	if opts.Format == "json" {
		return outputLogJSON(cmd, result)
	}
	return outputLogText(cmd.OutOrStdout(), result, opts)
}

func calculateRunStats(records []store.Record) RunStats {
	stats := RunStats{Queries: len(records)}
	for _, r := range records {
		if r.Rewritten > 0 {
			stats.Changed++
		}
		stats.Rewritten += r.Rewritten
	}
	return stats
}

func outputLogJSON(cmd *cobra.Command, result LogResult) error {
	response := CLIResponse{
		Status: "ok",
		Data:   result,
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(response)
}

func outputLogText(w io.Writer, result LogResult, opts *LogOptions) error {
	if len(result.Runs) == 0 {
		if opts.RunID != "" {
			fmt.Fprintf(w, "No compensations found for run: %s\n", opts.RunID)
		} else {
			fmt.Fprintln(w, "No compensations recorded.")
		}
		return nil
	}

	for i, run := range result.Runs {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "Run %s: %d query(ies), %d changed, %d leaf(s) rewritten\n",
			run.RunID, run.Stats.Queries, run.Stats.Changed, run.Stats.Rewritten)
		for _, rec := range run.Records {
			fmt.Fprintf(w, "  [%d] %s (%s) rewritten=%d fp=%s\n",
				rec.Seq, rec.Query, rec.Dialect, rec.Rewritten, truncateID(rec.Fingerprint))
			if opts.Verbose {
				fmt.Fprintf(w, "      original:    %s\n", rec.OriginalSQL)
				fmt.Fprintf(w, "      compensated: %s\n", rec.CompensatedSQL)
				fmt.Fprintf(w, "      params:      %s\n", rec.Params)
			}
		}
	}
	return nil
}

// truncateID shortens a fingerprint or id for display.
func truncateID(id string) string {
	if len(id) <= 12 {
		return id
	}
	return id[:12]
}
