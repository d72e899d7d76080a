// Package parser translates SQL SELECT statements into query models.
//
// A statement is matched against
//
//	SELECT <fields> FROM <collection> [WHERE ..] [GROUP BY ..] [ORDER BY ..] [LIMIT n] [OFFSET n]
//
// and dispatched, in priority order, to one of four strategies:
//
//  1. count:    SELECT COUNT(*)         -> [$match], $count
//  2. distinct: SELECT DISTINCT f       -> [$match], $group, $project
//  3. group-by: ... GROUP BY f1, f2     -> [$match], $group
//  4. select:   everything else         -> find with projection/sort/skip/limit
//
// Aggregate strategies do not apply the clauses they have no stage for
// (GROUP BY, ORDER BY, LIMIT, OFFSET as applicable). By default those
// clauses are ignored with a warning; a strict Parser rejects them.
//
// Parsing is a pure function of the input; a Parser holds only configuration
// and is safe for concurrent use.
package parser

import (
	"io"
	"log/slog"
	"strings"

	"github.com/roach88/sqlmongo/internal/condition"
	"github.com/roach88/sqlmongo/internal/doc"
	"github.com/roach88/sqlmongo/internal/lexer"
	"github.com/roach88/sqlmongo/internal/query"
	"github.com/roach88/sqlmongo/internal/sqlerr"
)

// Strategy names the translation chosen for a statement.
type Strategy string

const (
	StrategyCount    Strategy = "count"
	StrategyDistinct Strategy = "distinct"
	StrategyGroupBy  Strategy = "group-by"
	StrategySelect   Strategy = "select"
)

// unappliedClauses lists, per aggregate strategy, the clauses it does not translate.
var unappliedClauses = map[Strategy][]clauseKind{
	StrategyCount:    {clauseGroup, clauseOrder, clauseLimit, clauseOffset},
	StrategyDistinct: {clauseGroup, clauseOrder, clauseLimit, clauseOffset},
	StrategyGroupBy:  {clauseOrder, clauseLimit, clauseOffset},
}

// Parser translates statements. Construct with New.
type Parser struct {
	strict bool
	logger *slog.Logger
}

// Option configures a Parser.
type Option func(*Parser)

// WithStrict makes the parser reject clauses that the chosen aggregate
// strategy would otherwise ignore, and DISTINCT over more than one field.
func WithStrict(strict bool) Option {
	return func(p *Parser) {
		p.strict = strict
	}
}

// WithLogger sets the logger for strategy and ignored-clause diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Parser) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// New creates a Parser. Without options it is lenient and does not log.
func New(opts ...Option) *Parser {
	p := &Parser{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

var defaultParser = New()

// Parse translates sql with a default lenient Parser.
func Parse(sql string) (*query.Model, error) {
	return defaultParser.Parse(sql)
}

// Parse translates one SELECT statement.
//
// Fails with MALFORMED_STATEMENT when the statement shape does not match and
// with MALFORMED_CONDITION when the WHERE clause cannot be translated.
func (p *Parser) Parse(sql string) (*query.Model, error) {
	st, err := splitStatement(sql)
	if err != nil {
		return nil, err
	}

	filter := doc.NewDocument()
	if where := st.clauses[clauseWhere]; where != nil {
		filter, err = condition.ParseTokens(sql, where.body)
		if err != nil {
			return nil, err
		}
	}

	strategy, distinctField := chooseStrategy(st)
	if err := p.checkUnapplied(st, strategy); err != nil {
		return nil, err
	}
	p.logger.Debug("translating statement",
		"strategy", string(strategy),
		"collection", st.collection)

	b := query.NewBuilder().Collection(st.collection)
	switch strategy {
	case StrategyCount:
		b.AsAggregate()
		addMatch(b, filter)
		b.AddStage(stage("$count", doc.String("count")))

	case StrategyDistinct:
		if p.strict && strings.Contains(distinctField, ",") {
			return nil, sqlerr.MalformedStatement(sql, st.fields[1].Pos, "DISTINCT supports a single field, got %q", distinctField)
		}
		b.AsAggregate()
		addMatch(b, filter)
		b.AddStage(stage("$group", doc.NewDocument(doc.F("_id", doc.String("$"+distinctField)))))
		b.AddStage(stage("$project", doc.NewDocument(
			doc.F(distinctField, doc.String("$_id")),
			doc.F("_id", doc.Int(0)),
		)))

	case StrategyGroupBy:
		group := st.clauses[clauseGroup]
		fields, err := splitList(sql, group)
		if err != nil {
			return nil, err
		}
		id := doc.NewDocument()
		for _, f := range fields {
			id.Set(f, doc.String("$"+f))
		}
		b.AsAggregate()
		addMatch(b, filter)
		b.AddStage(stage("$group", doc.NewDocument(doc.F("_id", id))))

	default:
		if err := p.buildFind(b, st, filter); err != nil {
			return nil, err
		}
	}
	return b.Build()
}

// buildFind fills a find query: projection, sort, skip and limit.
func (p *Parser) buildFind(b *query.Builder, st *statement, filter *doc.Document) error {
	projection := doc.NewDocument()
	if st.fieldsText != "*" {
		fields, err := splitList(st.src, &clause{pos: st.fields[0].Pos, text: st.fieldsText})
		if err != nil {
			return err
		}
		for _, f := range fields {
			projection.Set(f, doc.Int(1))
		}
	}

	sort := doc.NewDocument()
	if order := st.clauses[clauseOrder]; order != nil {
		items, err := splitList(st.src, order)
		if err != nil {
			return err
		}
		for _, item := range items {
			parts := strings.Fields(item)
			direction := doc.Int(1)
			if len(parts) > 1 && strings.EqualFold(parts[1], "DESC") {
				direction = doc.Int(-1)
			}
			sort.Set(parts[0], direction)
		}
	}

	b.AsFind().Filter(filter).Projection(projection).Sort(sort)
	if c := st.clauses[clauseLimit]; c != nil {
		n, err := parseCount(st.src, clauseLimit, c)
		if err != nil {
			return err
		}
		b.Limit(n)
	}
	if c := st.clauses[clauseOffset]; c != nil {
		n, err := parseCount(st.src, clauseOffset, c)
		if err != nil {
			return err
		}
		b.Skip(n)
	}
	return nil
}

// checkUnapplied rejects (strict) or logs (lenient) clauses the aggregate
// strategy does not translate.
func (p *Parser) checkUnapplied(st *statement, strategy Strategy) error {
	var ignored []string
	for _, kind := range unappliedClauses[strategy] {
		c := st.clauses[kind]
		if c == nil {
			continue
		}
		if p.strict {
			return sqlerr.MalformedStatement(st.src, c.pos, "%s is not supported with the %s translation", kind, strategy)
		}
		ignored = append(ignored, kind.String())
	}
	if len(ignored) > 0 {
		p.logger.Warn("clauses ignored by aggregate translation",
			"strategy", string(strategy),
			"clauses", ignored)
	}
	return nil
}

// chooseStrategy applies the dispatch priority: count, distinct, group-by, select.
// DISTINCT must be separated from its field by whitespace; for distinct the
// field text after the keyword is also returned.
func chooseStrategy(st *statement) (Strategy, string) {
	f := st.fields
	if len(f) == 4 &&
		f[0].Kind == lexer.Ident && strings.EqualFold(f[0].Text, "COUNT") &&
		f[1].Kind == lexer.LParen && f[2].Kind == lexer.Star && f[3].Kind == lexer.RParen {
		return StrategyCount, ""
	}
	if len(f) >= 2 && f[0].Kind == lexer.Ident && f[1].Pos > f[0].End &&
		(strings.EqualFold(f[0].Text, "DISTINCT") || strings.EqualFold(f[0].Text, "UNIQUE")) {
		return StrategyDistinct, span(st.src, f[1:])
	}
	if st.has(clauseGroup) {
		return StrategyGroupBy, ""
	}
	return StrategySelect, ""
}

// splitList splits a clause on commas and trims each item. Empty items are rejected.
func splitList(src string, c *clause) ([]string, error) {
	items := strings.Split(c.text, ",")
	for i, item := range items {
		items[i] = strings.TrimSpace(item)
		if items[i] == "" {
			return nil, sqlerr.MalformedStatement(src, c.pos, "empty item in list %q", c.text)
		}
	}
	return items, nil
}

func addMatch(b *query.Builder, filter *doc.Document) {
	if !filter.IsEmpty() {
		b.AddStage(stage("$match", filter))
	}
}

func stage(name string, v doc.Value) *doc.Document {
	return doc.NewDocument(doc.F(name, v))
}
