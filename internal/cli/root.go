package cli

import (
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/sqlmongo/internal/parser"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "text" | "json" | "command"
	Strict  bool
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json", "command"}

// NewRootCommand creates the root command for the sqlmongo CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "sqlmongo",
		Short: "Translate SQL SELECT statements into MongoDB queries",
		Long: `Translate a constrained dialect of SQL SELECT statements into MongoDB
find queries or aggregation pipelines.

Supported: field lists, COUNT(*), DISTINCT, WHERE with AND/OR/parentheses,
comparison operators, BETWEEN, IN, NOT IN, LIKE, IS [NOT] NULL, GROUP BY,
ORDER BY, LIMIT and OFFSET.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (text|json|command)")
	cmd.PersistentFlags().BoolVar(&opts.Strict, "strict", false, "reject clauses an aggregate translation would ignore")

	cmd.AddCommand(NewTranslateCommand(opts))
	cmd.AddCommand(NewBatchCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}

// newLogger returns a text logger on w. Warnings are always shown;
// verbose mode adds info and debug records.
func (o *RootOptions) newLogger(w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if o.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// newParser builds a parser configured from the global flags.
func (o *RootOptions) newParser(logger *slog.Logger) *parser.Parser {
	return parser.New(parser.WithStrict(o.Strict), parser.WithLogger(logger))
}
