package condition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sqlmongo/internal/lexer"
	"github.com/roach88/sqlmongo/internal/sqlerr"
)

func TestParseOperators(t *testing.T) {
	tests := []struct {
		name   string
		clause string
		want   string
	}{
		{"equals int", "a = 1", `{"a": 1}`},
		{"equals string", "name = 'bob'", `{"name": "bob"}`},
		{"equals bool", "active = TRUE", `{"active": true}`},
		{"equals bare word", "status = active", `{"status": "active"}`},
		{"not equals", "a != 1", `{"a": {"$ne": 1}}`},
		{"angle not equals", "a <> 'x'", `{"a": {"$ne": "x"}}`},
		{"greater", "age > 18", `{"age": {"$gt": 18}}`},
		{"less", "age < 18", `{"age": {"$lt": 18}}`},
		{"greater equal", "score >= 2.5", `{"score": {"$gte": 2.5}}`},
		{"less equal", "score <= -1", `{"score": {"$lte": -1}}`},
		{"no spaces", "age>=18", `{"age": {"$gte": 18}}`},
		{"in", "id IN (1, 2, 3)", `{"id": {"$in": [1, 2, 3]}}`},
		{"in strings", "tag in ('a', 'b')", `{"tag": {"$in": ["a", "b"]}}`},
		{"not in", "id NOT IN (4, 5)", `{"id": {"$nin": [4, 5]}}`},
		{"like", "name LIKE 'Jo%'", `{"name": {"$regex": "^Jo.*$", "$options": "i"}}`},
		{"like underscore", "code like 'A_1'", `{"code": {"$regex": "^A.1$", "$options": "i"}}`},
		{"is null", "deleted IS NULL", `{"deleted": null}`},
		{"is not null", "email is not null", `{"email": {"$ne": null}}`},
		{"dotted field", "address.city = 'Paris'", `{"address.city": "Paris"}`},
		{"between", "x BETWEEN 1 AND 10", `{"x": {"$gte": 1, "$lte": 10}}`},
		{"between lower case", "x between 'a' and 'm'", `{"x": {"$gte": "a", "$lte": "m"}}`},
		{"value with spaces", "note = hello world", `{"note": "hello world"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter, err := Parse(tt.clause)
			require.NoError(t, err)
			assert.Equal(t, tt.want, filter.String())
		})
	}
}

func TestParseBooleanStructure(t *testing.T) {
	tests := []struct {
		name   string
		clause string
		want   string
	}{
		{
			"conjunction",
			"a = 1 AND b = 2 AND c = 3",
			`{"$and": [{"a": 1}, {"b": 2}, {"c": 3}]}`,
		},
		{
			"disjunction",
			"a = 1 OR b = 2",
			`{"$or": [{"a": 1}, {"b": 2}]}`,
		},
		{
			"grouped or inside and",
			"(a = 1 OR b = 2) AND c = 3",
			`{"$and": [{"$or": [{"a": 1}, {"b": 2}]}, {"c": 3}]}`,
		},
		{
			"outer parentheses stripped",
			"((a = 1))",
			`{"a": 1}`,
		},
		{
			"parenthesized operands",
			"(a = 1) OR (b = 2)",
			`{"$or": [{"a": 1}, {"b": 2}]}`,
		},
		{
			"nested groups are not flattened",
			"(a = 1 AND b = 2) AND c = 3",
			`{"$and": [{"$and": [{"a": 1}, {"b": 2}]}, {"c": 3}]}`,
		},
		{
			"between inside conjunction",
			"a = 1 AND b BETWEEN 1 AND 5",
			`{"$and": [{"a": 1}, {"b": {"$gte": 1, "$lte": 5}}]}`,
		},
		{
			"between followed by conjunction",
			"x BETWEEN 1 AND 10 AND y = 2",
			`{"$and": [{"x": {"$gte": 1, "$lte": 10}}, {"y": 2}]}`,
		},
		{
			"keywords inside quotes",
			"name = 'Tom AND Jerry' OR name = 'x OR y'",
			`{"$or": [{"name": "Tom AND Jerry"}, {"name": "x OR y"}]}`,
		},
		{
			"in list inside group",
			"(id IN (1, 2) OR id IS NULL) AND ok = true",
			`{"$and": [{"$or": [{"id": {"$in": [1, 2]}}, {"id": null}]}, {"ok": true}]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter, err := Parse(tt.clause)
			require.NoError(t, err)
			assert.Equal(t, tt.want, filter.String())
		})
	}
}

// AND is split before OR, so it binds looser than OR. This is the
// established behavior and is pinned here deliberately.
func TestParseAndBindsLooserThanOr(t *testing.T) {
	filter, err := Parse("a = 1 OR b = 2 AND c = 3")
	require.NoError(t, err)
	assert.Equal(t, `{"$and": [{"$or": [{"a": 1}, {"b": 2}]}, {"c": 3}]}`, filter.String())

	filter, err = Parse("a = 1 AND b = 2 OR c = 3")
	require.NoError(t, err)
	assert.Equal(t, `{"$and": [{"a": 1}, {"$or": [{"b": 2}, {"c": 3}]}]}`, filter.String())
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name   string
		clause string
		msg    string
		pos    int
	}{
		{"unknown operator", "a ??? 1", `unsupported operator "???"`, 2},
		{"missing operator", "a", `missing operator after "a"`, 1},
		{"missing in list", "a IN", `missing value after "IN"`, 4},
		{"missing like pattern", "a LIKE", `missing value after "LIKE"`, 6},
		{"missing between bound", "a BETWEEN AND 2", `missing value after "BETWEEN"`, 9},
		{"unterminated string", "a = 'abc LIMIT 5", "unterminated quoted string", 4},
		{"connective as field", "OR = 1", `expected field name, found "OR"`, 0},
		{"keyword without operator", "limit 5", `expected field name, found "limit"`, 0},
		{"empty", "   ", "empty condition", 3},
		{"no field", "= 1", `expected field name, found "="`, 0},
		{"dangling and", "a = 1 AND", "missing condition", 9},
		{"unclosed group", "(a = 1", "missing ) for ( at offset 0", 6},
		{"extra close", "a = 1)", `unexpected ")"`, 5},
		{"between without and", "x BETWEEN 1", "BETWEEN requires AND", 11},
		{"is without null", "x IS 5", "expected NULL after IS", 5},
		{"trailing after null", "x IS NULL y", `unexpected "y"`, 10},
		{"not like", "x NOT LIKE 'a'", "unsupported operator NOT LIKE", 6},
		{"keyword as field", "AND = 1", `expected field name, found "AND"`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.clause)
			require.Error(t, err)
			assert.True(t, sqlerr.IsMalformedCondition(err), "got %v", err)

			var e *sqlerr.Error
			require.ErrorAs(t, err, &e)
			assert.Equal(t, tt.msg, e.Message)
			assert.Equal(t, tt.pos, e.Pos)
			assert.Equal(t, tt.clause, e.Input)
		})
	}
}

func TestParseTokensUsesAbsolutePositions(t *testing.T) {
	src := "SELECT * FROM t WHERE a ! 1"
	toks := lexer.Tokenize(src)

	_, err := ParseTokens(src, toks[5:])
	require.Error(t, err)

	var e *sqlerr.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, 24, e.Pos)
	assert.Equal(t, src, e.Input)
}

func TestParseTokensSubSlice(t *testing.T) {
	src := "SELECT * FROM t WHERE a = 1 OR b = 'x' LIMIT 3"
	toks := lexer.Tokenize(src)

	// tokens of "a = 1 OR b = 'x'"
	filter, err := ParseTokens(src, toks[5:12])
	require.NoError(t, err)
	assert.Equal(t, `{"$or": [{"a": 1}, {"b": "x"}]}`, filter.String())
}

func TestLikeToRegex(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"'Jo%'", "^Jo.*$"},
		{"'%son'", "^.*son$"},
		{"'a_c'", "^a.c$"},
		{"plain", "^plain$"},
		{"'a.b%'", "^a.b.*$"},
		{"  '%'  ", "^.*$"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, LikeToRegex(tt.in))
		})
	}
}

func TestParseKeywordFieldNames(t *testing.T) {
	tests := []struct {
		clause string
		want   string
	}{
		{"limit = 5", `{"limit": 5}`},
		{"in = 5", `{"in": 5}`},
		{"group = 'x'", `{"group": "x"}`},
		{"order >= 2 AND is != 1", `{"$and": [{"order": {"$gte": 2}}, {"is": {"$ne": 1}}]}`},
		{"like LIKE 'a%'", `{"like": {"$regex": "^a.*$", "$options": "i"}}`},
		{"in IN (1, 2)", `{"in": {"$in": [1, 2]}}`},
		{"null IS NULL", `{"null": null}`},
	}

	for _, tt := range tests {
		t.Run(tt.clause, func(t *testing.T) {
			filter, err := Parse(tt.clause)
			require.NoError(t, err)
			assert.Equal(t, tt.want, filter.String())
		})
	}
}

func TestParseMissingComparisonValueIsNull(t *testing.T) {
	tests := []struct {
		clause string
		want   string
	}{
		{"a =", `{"a": null}`},
		{"a >", `{"a": {"$gt": null}}`},
		{"a != AND b = 1", `{"$and": [{"a": {"$ne": null}}, {"b": 1}]}`},
		{"(a =) OR b = 2", `{"$or": [{"a": null}, {"b": 2}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.clause, func(t *testing.T) {
			filter, err := Parse(tt.clause)
			require.NoError(t, err)
			assert.Equal(t, tt.want, filter.String())
		})
	}
}
