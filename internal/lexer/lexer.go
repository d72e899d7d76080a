// Package lexer splits SQL text into tokens for the statement and condition
// parsers.
//
// Tokenize never fails. Characters outside the grammar become Illegal tokens
// so the parser that meets them can report the error in its own terms
// (a bad operator in WHERE is a malformed condition, not a malformed statement).
package lexer

import (
	"regexp"
	"strings"
)

// Kind represents the type of a token.
type Kind int

const (
	EOF Kind = iota
	Illegal
	Ident   // field, collection or bare word; may contain dots
	Keyword // reserved word, see keywords
	String  // single-quoted literal, Text includes the quotes
	Number  // -?digits or -?digits.digits
	Op      // = != <> >= <= > <
	LParen
	RParen
	Comma
	Star
	Semicolon
)

var kindNames = map[Kind]string{
	EOF:       "EOF",
	Illegal:   "ILLEGAL",
	Ident:     "IDENT",
	Keyword:   "KEYWORD",
	String:    "STRING",
	Number:    "NUMBER",
	Op:        "OP",
	LParen:    "(",
	RParen:    ")",
	Comma:     ",",
	Star:      "*",
	Semicolon: ";",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "UNKNOWN"
}

// keywords are matched case-insensitively and stored upper-case in Token.Word.
var keywords = map[string]bool{
	"SELECT":  true,
	"FROM":    true,
	"WHERE":   true,
	"GROUP":   true,
	"ORDER":   true,
	"BY":      true,
	"LIMIT":   true,
	"OFFSET":  true,
	"AND":     true,
	"OR":      true,
	"NOT":     true,
	"IN":      true,
	"LIKE":    true,
	"IS":      true,
	"NULL":    true,
	"BETWEEN": true,
}

var numberPattern = regexp.MustCompile(`^-?[0-9]+(\.[0-9]+)?$`)

// Token is a lexical unit with its byte span in the source.
type Token struct {
	Kind Kind
	Text string // source text of the token
	Word string // upper-cased Text for keywords, empty otherwise
	Pos  int    // byte offset of the first character
	End  int    // byte offset just past the last character
}

// Is reports whether t is the keyword kw (given upper-case).
func (t Token) Is(kw string) bool {
	return t.Kind == Keyword && t.Word == kw
}

// StartsOperator reports whether t can begin a condition operator: a
// comparison, BETWEEN, IN, NOT, LIKE or IS.
func (t Token) StartsOperator() bool {
	if t.Kind == Op {
		return true
	}
	return t.Kind == Keyword && operatorWords[t.Word]
}

var operatorWords = map[string]bool{
	"BETWEEN": true,
	"IN":      true,
	"NOT":     true,
	"LIKE":    true,
	"IS":      true,
}

// Tokenize splits src into tokens. The result always ends with an EOF token.
func Tokenize(src string) []Token {
	l := &lexer{src: src}
	for {
		tok := l.next()
		l.toks = append(l.toks, tok)
		if tok.Kind == EOF {
			return l.toks
		}
	}
}

type lexer struct {
	src  string
	pos  int
	toks []Token
}

func (l *lexer) next() Token {
	for l.pos < len(l.src) && isSpace(l.src[l.pos]) {
		l.pos++
	}
	start := l.pos
	if start >= len(l.src) {
		return Token{Kind: EOF, Pos: start, End: start}
	}

	c := l.src[start]
	switch {
	case c == '\'':
		return l.quoted(start)
	case c == '(':
		return l.emit(LParen, start, start+1)
	case c == ')':
		return l.emit(RParen, start, start+1)
	case c == ',':
		return l.emit(Comma, start, start+1)
	case c == '*':
		return l.emit(Star, start, start+1)
	case c == ';':
		return l.emit(Semicolon, start, start+1)
	case c == '=':
		return l.emit(Op, start, start+1)
	case c == '!':
		if l.peekByte(start+1) == '=' {
			return l.emit(Op, start, start+2)
		}
		return l.emit(Illegal, start, start+1)
	case c == '<':
		if n := l.peekByte(start + 1); n == '=' || n == '>' {
			return l.emit(Op, start, start+2)
		}
		return l.emit(Op, start, start+1)
	case c == '>':
		if l.peekByte(start+1) == '=' {
			return l.emit(Op, start, start+2)
		}
		return l.emit(Op, start, start+1)
	case c == '-' && isDigit(l.peekByte(start+1)):
		return l.word(start, start+1)
	case isWordByte(c):
		return l.word(start, start)
	default:
		return l.emit(Illegal, start, start+runeLen(l.src[start:]))
	}
}

func (l *lexer) emit(kind Kind, start, end int) Token {
	l.pos = end
	return Token{Kind: kind, Text: l.src[start:end], Pos: start, End: end}
}

// quoted scans a single-quoted literal. There is no escape processing: the
// literal ends at the next quote. An unterminated literal is Illegal.
func (l *lexer) quoted(start int) Token {
	closing := strings.IndexByte(l.src[start+1:], '\'')
	if closing < 0 {
		return l.emit(Illegal, start, len(l.src))
	}
	return l.emit(String, start, start+1+closing+1)
}

// word scans identifiers, keywords and numbers, which share one character class.
func (l *lexer) word(start, from int) Token {
	end := from
	for end < len(l.src) && isWordByte(l.src[end]) {
		end++
	}
	tok := l.emit(Ident, start, end)
	switch {
	case numberPattern.MatchString(tok.Text):
		tok.Kind = Number
	case tok.Text[0] == '-':
		tok.Kind = Illegal
	default:
		if upper := strings.ToUpper(tok.Text); keywords[upper] {
			tok.Kind = Keyword
			tok.Word = upper
		}
	}
	return tok
}

func (l *lexer) peekByte(i int) byte {
	if i < len(l.src) {
		return l.src[i]
	}
	return 0
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isWordByte(c byte) bool {
	return c == '_' || c == '.' || isDigit(c) || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// runeLen returns the byte length of the first UTF-8 sequence in s.
func runeLen(s string) int {
	for i := range s {
		if i > 0 {
			return i
		}
	}
	return len(s)
}
