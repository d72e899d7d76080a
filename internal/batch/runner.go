package batch

import (
	"context"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/roach88/sqlmongo/internal/parser"
	"github.com/roach88/sqlmongo/internal/query"
	"github.com/roach88/sqlmongo/internal/render"
)

// DefaultWorkers is used when Runner.Workers is not positive.
const DefaultWorkers = 4

// Result is the outcome of translating one entry.
type Result struct {
	Entry Entry

	// Model and Shell are set when translation succeeded.
	Model *query.Model
	Shell string

	// Err is the translation error, if any.
	Err error
}

// Pass reports whether the entry translated and, if it has an expectation,
// rendered exactly as expected.
func (r Result) Pass() bool {
	if r.Err != nil {
		return false
	}
	return r.Entry.Expect == "" || r.Entry.Expect == r.Shell
}

// Report collects the results of one run in entry order.
type Report struct {
	RunID   string
	Results []Result
}

// Failed returns the number of results that did not pass.
func (r *Report) Failed() int {
	n := 0
	for _, res := range r.Results {
		if !res.Pass() {
			n++
		}
	}
	return n
}

// Runner translates entries concurrently.
type Runner struct {
	// Parser translates each entry. Defaults to a lenient parser.
	Parser *parser.Parser

	// Workers bounds concurrent translations. Defaults to DefaultWorkers.
	Workers int

	// Logger receives per-entry diagnostics. Defaults to discarding.
	Logger *slog.Logger
}

// Run translates every entry. Translation failures are recorded in the
// matching Result and do not stop the run; Run only fails when ctx is
// cancelled.
func (r *Runner) Run(ctx context.Context, entries []Entry) (*Report, error) {
	p := r.Parser
	if p == nil {
		p = parser.New()
	}
	workers := r.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}
	logger := r.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	report := &Report{
		RunID:   uuid.Must(uuid.NewV7()).String(),
		Results: make([]Result, len(entries)),
	}
	logger = logger.With("run_id", report.RunID)

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)

	for i, e := range entries {
		i, e := i, e
		eg.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			report.Results[i] = translate(p, e)
			res := &report.Results[i]
			if res.Err != nil {
				logger.Debug("translation failed", "name", e.Name, "error", res.Err)
			} else if !res.Pass() {
				logger.Debug("rendering differs from expectation", "name", e.Name)
			}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	logger.Info("batch complete", "entries", len(entries), "failed", report.Failed())
	return report, nil
}

func translate(p *parser.Parser, e Entry) Result {
	m, err := p.Parse(e.SQL)
	if err != nil {
		return Result{Entry: e, Err: err}
	}
	return Result{Entry: e, Model: m, Shell: render.Shell(m)}
}
