package parser

import (
	"strconv"
	"strings"

	"github.com/roach88/sqlmongo/internal/lexer"
	"github.com/roach88/sqlmongo/internal/sqlerr"
)

// clauseKind identifies an optional clause. Clauses must appear in this order.
type clauseKind int

const (
	clauseWhere clauseKind = iota
	clauseGroup
	clauseOrder
	clauseLimit
	clauseOffset
	numClauses
)

var clauseNames = [numClauses]string{"WHERE", "GROUP BY", "ORDER BY", "LIMIT", "OFFSET"}

func (k clauseKind) String() string { return clauseNames[k] }

// clause is the span of one optional clause.
type clause struct {
	pos  int           // offset of the clause keyword
	body []lexer.Token // tokens after the keyword(s)
	text string        // source text of body
}

// statement is a SELECT split into its top-level parts. Clause bodies are
// kept as raw spans for the sub-parsers.
type statement struct {
	src        string
	fields     []lexer.Token
	fieldsText string
	collection string
	clauses    [numClauses]*clause
}

func (s *statement) has(k clauseKind) bool { return s.clauses[k] != nil }

// splitStatement matches
//
//	SELECT <fields> FROM <collection> [WHERE ..] [GROUP BY ..] [ORDER BY ..] [LIMIT n] [OFFSET n] [;]
//
// Clause keywords are only recognized outside parentheses and quotes.
func splitStatement(src string) (*statement, error) {
	toks := lexer.Tokenize(src)
	eof := toks[len(toks)-1]
	toks = toks[:len(toks)-1]
	if n := len(toks); n > 0 && toks[n-1].Kind == lexer.Semicolon {
		eof = toks[n-1]
		toks = toks[:n-1]
	}

	if len(toks) == 0 || !toks[0].Is("SELECT") {
		return nil, sqlerr.MalformedStatement(src, firstPos(toks, eof), "statement must start with SELECT")
	}

	from := -1
	depth := 0
	for i := 1; i < len(toks) && from < 0; i++ {
		switch tok := toks[i]; {
		case tok.Kind == lexer.LParen:
			depth++
		case tok.Kind == lexer.RParen:
			depth--
		case depth == 0 && tok.Is("FROM"):
			from = i
		}
	}
	if from < 0 {
		return nil, sqlerr.MalformedStatement(src, eof.Pos, "missing FROM")
	}
	if from == 1 {
		return nil, sqlerr.MalformedStatement(src, toks[1].Pos, "missing field list")
	}

	st := &statement{
		src:    src,
		fields: toks[1:from],
	}
	st.fieldsText = span(src, st.fields)

	i := from + 1
	if i >= len(toks) {
		return nil, sqlerr.MalformedStatement(src, eof.Pos, "missing collection name")
	}
	if coll := toks[i]; !isCollectionName(coll) {
		return nil, sqlerr.MalformedStatement(src, coll.Pos, "invalid collection name %q", coll.Text)
	}
	st.collection = toks[i].Text
	i++

	next := clauseWhere
	for i < len(toks) {
		kind, width, ok := clauseAt(toks, i)
		if !ok {
			return nil, sqlerr.MalformedStatement(src, toks[i].Pos, "unexpected %q", toks[i].Text)
		}
		if kind < next {
			return nil, sqlerr.MalformedStatement(src, toks[i].Pos, "%s clause out of order or repeated", kind)
		}

		start := i + width
		end := clauseEnd(toks, start)
		if end == start {
			return nil, sqlerr.MalformedStatement(src, toks[start-1].End, "empty %s clause", kind)
		}
		st.clauses[kind] = &clause{
			pos:  toks[i].Pos,
			body: toks[start:end],
			text: span(src, toks[start:end]),
		}
		next = kind + 1
		i = end
	}
	return st, nil
}

// clauseAt reports whether toks[i] starts a clause and how many keyword
// tokens the clause keyword spans. A keyword in field position followed by
// an operator is a field name in a condition, as in WHERE limit = 5.
func clauseAt(toks []lexer.Token, i int) (clauseKind, int, bool) {
	if i > 0 && opensCondition(toks[i-1]) && i+1 < len(toks) && toks[i+1].StartsOperator() {
		return 0, 0, false
	}
	followedByBy := i+1 < len(toks) && toks[i+1].Is("BY")
	switch tok := toks[i]; {
	case tok.Is("WHERE"):
		return clauseWhere, 1, true
	case tok.Is("GROUP") && followedByBy:
		return clauseGroup, 2, true
	case tok.Is("ORDER") && followedByBy:
		return clauseOrder, 2, true
	case tok.Is("LIMIT"):
		return clauseLimit, 1, true
	case tok.Is("OFFSET"):
		return clauseOffset, 1, true
	}
	return 0, 0, false
}

// opensCondition reports whether a field name may follow tok.
func opensCondition(tok lexer.Token) bool {
	return tok.Kind == lexer.LParen || tok.Is("WHERE") || tok.Is("AND") || tok.Is("OR")
}

// clauseEnd returns the index of the next depth-0 clause keyword at or after
// start, or len(toks).
func clauseEnd(toks []lexer.Token, start int) int {
	depth := 0
	for j := start; j < len(toks); j++ {
		switch toks[j].Kind {
		case lexer.LParen:
			depth++
		case lexer.RParen:
			depth--
		}
		if depth == 0 {
			if _, _, ok := clauseAt(toks, j); ok {
				return j
			}
		}
	}
	return len(toks)
}

// isCollectionName accepts identifiers or bare digits, mirroring [A-Za-z0-9_.]+.
func isCollectionName(tok lexer.Token) bool {
	switch tok.Kind {
	case lexer.Ident:
		return true
	case lexer.Number:
		return !strings.ContainsAny(tok.Text, "-.")
	default:
		return false
	}
}

// parseCount parses the body of a LIMIT or OFFSET clause.
func parseCount(src string, kind clauseKind, c *clause) (int64, error) {
	if len(c.body) != 1 || c.body[0].Kind != lexer.Number || strings.ContainsAny(c.text, "-.") {
		return 0, sqlerr.MalformedStatement(src, c.body[0].Pos, "%s expects a non-negative integer, got %q", kind, c.text)
	}
	n, err := strconv.ParseInt(c.text, 10, 64)
	if err != nil {
		return 0, sqlerr.MalformedStatement(src, c.body[0].Pos, "%s value %q out of range", kind, c.text)
	}
	return n, nil
}

// span returns the source text covered by toks.
func span(src string, toks []lexer.Token) string {
	if len(toks) == 0 {
		return ""
	}
	return src[toks[0].Pos:toks[len(toks)-1].End]
}

func firstPos(toks []lexer.Token, eof lexer.Token) int {
	if len(toks) > 0 {
		return toks[0].Pos
	}
	return eof.Pos
}
