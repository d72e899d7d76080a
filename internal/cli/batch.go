package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/sqlmongo/internal/batch"
)

// BatchOptions holds flags for the batch command.
type BatchOptions struct {
	*RootOptions
	Workers int    // concurrent translations
	Filter  string // query name filter (glob pattern)
}

// BatchEntryResult is the outcome of one batch entry.
type BatchEntryResult struct {
	Name   string `json:"name"`
	Pass   bool   `json:"pass"`
	Output any    `json:"output,omitempty"`
	Shell  string `json:"shell,omitempty"`
	Expect string `json:"expect,omitempty"`
	Error  string `json:"error,omitempty"`
}

// BatchResult holds the overall batch result.
type BatchResult struct {
	Queries []BatchEntryResult `json:"queries"`
	Passed  int                `json:"passed"`
	Failed  int                `json:"failed"`
	Total   int                `json:"total"`
}

// NewBatchCommand creates the batch command.
func NewBatchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &BatchOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "batch <file>",
		Short: "Translate every statement in a batch file",
		Long: `Translate every statement listed in a YAML or CUE batch file.

Each entry has a name, a sql statement and an optional expected shell
rendering. Entries are translated concurrently and reported in file order.

Exit codes:
  0 - All entries translated and matched their expectations
  1 - One or more entries failed
  2 - Command error (missing file, invalid file, etc.)

Examples:
  sqlmongo batch queries.yaml
  sqlmongo batch queries.cue --filter "users.*"
  sqlmongo batch queries.yaml --workers 8 --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(opts, args[0], cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Workers, "workers", batch.DefaultWorkers, "number of concurrent translations")
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "filter queries by name glob pattern")

	return cmd
}

func runBatch(opts *BatchOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}

	file, err := batch.Load(path)
	if err != nil {
		_ = formatter.Error(ErrCodeLoadFailed, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to load batch file", err)
	}

	entries, err := batch.Filter(file.Queries, opts.Filter)
	if err != nil {
		_ = formatter.Error(ErrCodeLoadFailed, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to filter queries", err)
	}

	logger := opts.newLogger(cmd.ErrOrStderr()).With("file", path)
	runner := &batch.Runner{
		Parser:  opts.newParser(logger),
		Workers: opts.Workers,
		Logger:  logger,
	}
	report, err := runner.Run(cmd.Context(), entries)
	if err != nil {
		_ = formatter.Error(ErrCodeBatchFailed, err.Error(), nil)
		return WrapExitError(ExitCommandError, "batch run failed", err)
	}
	formatter.TraceID = report.RunID

	result := BatchResult{
		Queries: make([]BatchEntryResult, 0, len(report.Results)),
		Total:   len(report.Results),
	}
	for _, res := range report.Results {
		entry := BatchEntryResult{
			Name:   res.Entry.Name,
			Pass:   res.Pass(),
			Expect: res.Entry.Expect,
		}
		if res.Err != nil {
			entry.Error = res.Err.Error()
		} else if out, err := formatModel(opts.Format, res.Model); err != nil {
			entry.Pass = false
			entry.Error = err.Error()
		} else {
			entry.Output = out
			entry.Shell = res.Shell
		}
		if entry.Pass {
			result.Passed++
		} else {
			result.Failed++
		}
		result.Queries = append(result.Queries, entry)
	}

	if opts.Format == "json" {
		return outputBatchJSON(formatter, result)
	}
	return outputBatchText(cmd, result)
}

// outputBatchJSON outputs the batch result as JSON.
func outputBatchJSON(formatter *OutputFormatter, result BatchResult) error {
	response := CLIResponse{
		Status:  "ok",
		Data:    result,
		TraceID: formatter.TraceID,
	}
	if result.Failed > 0 {
		response.Status = "error"
		response.Error = &CLIError{
			Code:    ErrCodeBatchFailed,
			Message: fmt.Sprintf("%d query(s) failed", result.Failed),
		}
	}

	encoder := json.NewEncoder(formatter.Writer)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(response); err != nil {
		return err
	}

	if result.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d query(s) failed", result.Failed))
	}
	return nil
}

// outputBatchText outputs the batch result as text.
func outputBatchText(cmd *cobra.Command, result BatchResult) error {
	w := cmd.OutOrStdout()

	if result.Total == 0 {
		fmt.Fprintln(w, "No queries matched.")
		return nil
	}

	for _, q := range result.Queries {
		mark := "✓"
		if !q.Pass {
			mark = "✗"
		}
		fmt.Fprintf(w, "%s %s\n", mark, q.Name)
		switch {
		case q.Error != "":
			fmt.Fprintf(w, "  error: %s\n", q.Error)
		case !q.Pass:
			fmt.Fprintf(w, "  expected: %s\n", q.Expect)
			fmt.Fprintf(w, "  got:      %s\n", q.Shell)
		default:
			fmt.Fprintf(w, "  %s\n", payloadString(q.Output))
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Batch Summary: %d passed, %d failed, %d total\n", result.Passed, result.Failed, result.Total)

	if result.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d query(s) failed", result.Failed))
	}

	fmt.Fprintln(w, "✓ All queries passed")
	return nil
}
