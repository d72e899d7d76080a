package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/roach88/sqlmongo/internal/mongo"
	"github.com/roach88/sqlmongo/internal/query"
	"github.com/roach88/sqlmongo/internal/render"
)

// NewTranslateCommand creates the translate command.
func NewTranslateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "translate [sql...]",
		Short: "Translate one SELECT statement",
		Long: `Translate one SQL SELECT statement.

The statement is read from the arguments, joined with spaces, or from
stdin when no arguments are given or the only argument is "-".

Output formats:
  text    - shell-style call, e.g. db.users.find({"age": {"$gte": 18}})
  json    - the query model in a response envelope
  command - the runCommand document as relaxed Extended JSON

Examples:
  sqlmongo translate "SELECT * FROM users WHERE age >= 18"
  echo "SELECT COUNT(*) FROM orders" | sqlmongo translate
  sqlmongo translate --format command "SELECT name FROM users LIMIT 5"`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTranslate(rootOpts, args, cmd)
		},
	}

	return cmd
}

func runTranslate(opts *RootOptions, args []string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:  opts.Format,
		Writer:  cmd.OutOrStdout(),
		TraceID: uuid.Must(uuid.NewV7()).String(),
	}

	sql, err := readStatement(args, cmd.InOrStdin())
	if err != nil {
		_ = formatter.Error(ErrCodeReadFailed, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to read statement", err)
	}
	if sql == "" {
		_ = formatter.Error(ErrCodeNoInput, "no statement given", nil)
		return NewExitError(ExitCommandError, "no statement given")
	}

	logger := opts.newLogger(cmd.ErrOrStderr()).With("trace_id", formatter.TraceID)
	m, err := opts.newParser(logger).Parse(sql)
	if err != nil {
		_ = formatter.TranslationError(err)
		return WrapExitError(ExitCommandError, "translation failed", err)
	}

	out, err := formatModel(opts.Format, m)
	if err != nil {
		_ = formatter.Error(ErrCodeEncodeFailed, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to encode result", err)
	}
	return formatter.Success(out)
}

// readStatement joins args, or reads stdin when args is empty or "-".
func readStatement(args []string, stdin io.Reader) (string, error) {
	if len(args) == 0 || (len(args) == 1 && args[0] == "-") {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(data)), nil
	}
	return strings.TrimSpace(strings.Join(args, " ")), nil
}

// formatModel returns the payload for m in the given format: the shell
// string, the model itself (JSON) or the raw command document.
func formatModel(format string, m *query.Model) (any, error) {
	switch format {
	case "json":
		return m, nil
	case "command":
		data, err := mongo.MarshalCommand(m)
		if err != nil {
			return nil, err
		}
		return json.RawMessage(data), nil
	default:
		return render.Shell(m), nil
	}
}

// payloadString renders a formatModel payload on one line for text output.
func payloadString(v any) string {
	if raw, ok := v.(json.RawMessage); ok {
		return string(raw)
	}
	return fmt.Sprint(v)
}
