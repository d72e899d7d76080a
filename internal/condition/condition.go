// Package condition translates a SQL WHERE clause into a filter document.
//
// Grammar (keywords case-insensitive):
//
//	expr    := orExpr { AND orExpr }
//	orExpr  := primary { OR primary }
//	primary := '(' expr ')' | leaf
//	leaf    := field BETWEEN value AND value
//	         | field op [value]            op: = != <> > < >= <=
//	         | field [NOT] IN list
//	         | field LIKE pattern
//	         | field IS [NOT] NULL
//
// A comparison without a value compares against null. A field may be a
// keyword other than AND or OR when an operator follows it.
//
// AND is split first and therefore binds looser than OR:
// a = 1 OR b = 2 AND c = 3 reads as (a = 1 OR b = 2) AND c = 3.
//
// The filter is built directly as documents:
//
//	leaf         {field: value} or {field: {operator: value}}
//	conjunction  {"$and": [...]}
//	disjunction  {"$or": [...]}
package condition

import (
	"strings"

	"github.com/roach88/sqlmongo/internal/doc"
	"github.com/roach88/sqlmongo/internal/lexer"
	"github.com/roach88/sqlmongo/internal/literal"
	"github.com/roach88/sqlmongo/internal/sqlerr"
)

// comparisonOps maps comparison tokens to their filter operator.
// "=" is absent because equality is written as {field: value}.
var comparisonOps = map[string]string{
	"!=": "$ne",
	"<>": "$ne",
	">":  "$gt",
	"<":  "$lt",
	">=": "$gte",
	"<=": "$lte",
}

// Parse translates a WHERE clause (without the WHERE keyword).
func Parse(clause string) (*doc.Document, error) {
	return ParseTokens(clause, lexer.Tokenize(clause))
}

// ParseTokens translates a WHERE clause already tokenized from src.
// toks may be a sub-slice of a larger statement; a trailing EOF is optional.
// Error positions are byte offsets into src.
func ParseTokens(src string, toks []lexer.Token) (*doc.Document, error) {
	if n := len(toks); n > 0 && toks[n-1].Kind == lexer.EOF {
		toks = toks[:n-1]
	}
	p := &parser{src: src, toks: toks}
	if len(toks) == 0 {
		return nil, p.errorf(p.end(), "empty condition")
	}

	filter, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if tok := p.cur(); tok.Kind != lexer.EOF {
		return nil, p.errorf(tok.Pos, "unexpected %q", tok.Text)
	}
	return filter, nil
}

// LikeToRegex converts a LIKE pattern to an anchored regular expression.
// One pair of surrounding quotes is stripped, % becomes .* and _ becomes '.'.
// Other characters are copied unchanged; case-insensitivity is carried by
// the sibling $options key, not by the pattern.
func LikeToRegex(raw string) string {
	pattern := strings.TrimSpace(raw)
	if len(pattern) >= 2 && pattern[0] == '\'' && pattern[len(pattern)-1] == '\'' {
		pattern = pattern[1 : len(pattern)-1]
	}
	pattern = strings.ReplaceAll(pattern, "%", ".*")
	pattern = strings.ReplaceAll(pattern, "_", ".")
	return "^" + pattern + "$"
}

type parser struct {
	src  string
	toks []lexer.Token
	pos  int
}

// cur returns the current token, or a synthetic EOF past the end.
func (p *parser) cur() lexer.Token {
	if p.pos < len(p.toks) {
		return p.toks[p.pos]
	}
	return lexer.Token{Kind: lexer.EOF, Pos: p.end(), End: p.end()}
}

func (p *parser) end() int {
	if len(p.toks) == 0 {
		return len(p.src)
	}
	return p.toks[len(p.toks)-1].End
}

func (p *parser) errorf(pos int, format string, args ...any) error {
	return sqlerr.MalformedCondition(p.src, pos, format, args...)
}

func (p *parser) parseExpr() (*doc.Document, error) {
	return p.parseList("AND", "$and", p.parseOr)
}

func (p *parser) parseOr() (*doc.Document, error) {
	return p.parseList("OR", "$or", p.parsePrimary)
}

// parseList parses operand { keyword operand } and wraps two or more
// operands as {op: [...]}. A single operand is returned unwrapped.
func (p *parser) parseList(keyword, op string, operand func() (*doc.Document, error)) (*doc.Document, error) {
	first, err := operand()
	if err != nil {
		return nil, err
	}
	if !p.cur().Is(keyword) {
		return first, nil
	}

	parts := doc.Array{first}
	for p.cur().Is(keyword) {
		p.pos++
		next, err := operand()
		if err != nil {
			return nil, err
		}
		parts = append(parts, next)
	}
	return doc.NewDocument(doc.F(op, parts)), nil
}

func (p *parser) parsePrimary() (*doc.Document, error) {
	open := p.cur()
	if open.Kind != lexer.LParen {
		return p.parseLeaf()
	}
	p.pos++

	inner, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if tok := p.cur(); tok.Kind != lexer.RParen {
		return nil, p.errorf(tok.Pos, "missing ) for ( at offset %d", open.Pos)
	}
	p.pos++
	return inner, nil
}

func (p *parser) parseLeaf() (*doc.Document, error) {
	field := p.cur()
	if !p.isField() {
		if field.Kind == lexer.EOF {
			return nil, p.errorf(field.Pos, "missing condition")
		}
		return nil, p.errorf(field.Pos, "expected field name, found %q", field.Text)
	}
	p.pos++

	op := p.cur()
	switch {
	case op.Kind == lexer.Op:
		p.pos++
		raw, err := p.span()
		if err != nil {
			return nil, err
		}
		var v doc.Value = doc.Null{}
		if raw != "" {
			v = literal.ParseValue(raw)
		}
		if op.Text == "=" {
			return leaf(field.Text, v), nil
		}
		return leaf(field.Text, doc.NewDocument(doc.F(comparisonOps[op.Text], v))), nil

	case op.Is("BETWEEN"):
		p.pos++
		lo, err := p.valueSpan(op)
		if err != nil {
			return nil, err
		}
		and := p.cur()
		if !and.Is("AND") {
			return nil, p.errorf(and.Pos, "BETWEEN requires AND")
		}
		p.pos++
		hi, err := p.valueSpan(and)
		if err != nil {
			return nil, err
		}
		return leaf(field.Text, doc.NewDocument(
			doc.F("$gte", literal.ParseValue(lo)),
			doc.F("$lte", literal.ParseValue(hi)),
		)), nil

	case op.Is("IN"):
		p.pos++
		raw, err := p.valueSpan(op)
		if err != nil {
			return nil, err
		}
		return leaf(field.Text, doc.NewDocument(doc.F("$in", literal.ParseArray(raw)))), nil

	case op.Is("NOT"):
		p.pos++
		in := p.cur()
		if !in.Is("IN") {
			return nil, p.errorf(in.Pos, "unsupported operator NOT %s", in.Text)
		}
		p.pos++
		raw, err := p.valueSpan(in)
		if err != nil {
			return nil, err
		}
		return leaf(field.Text, doc.NewDocument(doc.F("$nin", literal.ParseArray(raw)))), nil

	case op.Is("LIKE"):
		p.pos++
		raw, err := p.valueSpan(op)
		if err != nil {
			return nil, err
		}
		return leaf(field.Text, doc.NewDocument(
			doc.F("$regex", doc.String(LikeToRegex(raw))),
			doc.F("$options", doc.String("i")),
		)), nil

	case op.Is("IS"):
		p.pos++
		negate := false
		if p.cur().Is("NOT") {
			negate = true
			p.pos++
		}
		if tok := p.cur(); !tok.Is("NULL") {
			return nil, p.errorf(tok.Pos, "expected NULL after IS")
		}
		p.pos++
		if negate {
			return leaf(field.Text, doc.NewDocument(doc.F("$ne", doc.Null{}))), nil
		}
		return leaf(field.Text, doc.Null{}), nil

	case op.Kind == lexer.EOF:
		return nil, p.errorf(op.Pos, "missing operator after %q", field.Text)

	default:
		return nil, p.errorf(op.Pos, "unsupported operator %q", p.illegalRun())
	}
}

// isField reports whether the current token names a field. Keywords other
// than AND and OR are field names when an operator follows them, so
// "limit = 5" and "in IN (1, 2)" compare fields called limit and in.
func (p *parser) isField() bool {
	tok := p.cur()
	switch {
	case tok.Kind == lexer.Ident:
		return true
	case tok.Kind != lexer.Keyword || tok.Is("AND") || tok.Is("OR"):
		return false
	}
	return p.pos+1 < len(p.toks) && p.toks[p.pos+1].StartsOperator()
}

// valueSpan consumes the raw value text following after and fails when
// there is none.
func (p *parser) valueSpan(after lexer.Token) (string, error) {
	raw, err := p.span()
	if err != nil {
		return "", err
	}
	if raw == "" {
		return "", p.errorf(after.End, "missing value after %q", after.Text)
	}
	return raw, nil
}

// span consumes the raw value text at the current position: every token up
// to a depth-0 AND, OR or unmatched ')'. Parentheses inside the value (IN
// lists) are kept. The returned text is the exact source span, empty when
// there are no value tokens. An unterminated quoted string is an error.
func (p *parser) span() (string, error) {
	start := p.pos
	depth := 0
scan:
	for ; p.pos < len(p.toks); p.pos++ {
		tok := p.toks[p.pos]
		switch {
		case tok.Kind == lexer.Illegal && strings.HasPrefix(tok.Text, "'"):
			return "", p.errorf(tok.Pos, "unterminated quoted string")
		case tok.Kind == lexer.LParen:
			depth++
		case tok.Kind == lexer.RParen:
			if depth == 0 {
				break scan
			}
			depth--
		case depth == 0 && (tok.Is("AND") || tok.Is("OR")):
			break scan
		}
	}
	if p.pos == start {
		return "", nil
	}
	return p.src[p.toks[start].Pos:p.toks[p.pos-1].End], nil
}

// illegalRun returns the text of the current token joined with any directly
// adjacent tokens, so "???" is reported whole rather than as "?".
func (p *parser) illegalRun() string {
	first := p.cur()
	end := first.End
	for i := p.pos + 1; i < len(p.toks) && p.toks[i].Pos == end && p.toks[i].Kind == lexer.Illegal; i++ {
		end = p.toks[i].End
	}
	return p.src[first.Pos:end]
}

func leaf(field string, v doc.Value) *doc.Document {
	return doc.NewDocument(doc.F(field, v))
}
