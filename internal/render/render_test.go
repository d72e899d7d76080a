package render_test

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sqlmongo/internal/doc"
	"github.com/roach88/sqlmongo/internal/parser"
	"github.com/roach88/sqlmongo/internal/query"
	"github.com/roach88/sqlmongo/internal/render"
)

// To regenerate golden files:
//
//	go test ./internal/render -update
func TestShellGolden(t *testing.T) {
	tests := []struct {
		name string
		sql  string
	}{
		{"select_star", "SELECT * FROM users"},
		{"find_full", "SELECT name, age FROM users WHERE age >= 18 ORDER BY age DESC, name LIMIT 10 OFFSET 5"},
		{"find_grouped_condition", "SELECT * FROM t WHERE (a = 1 OR b = 2) AND c = 3"},
		{"find_like_in_null", "SELECT * FROM users WHERE name LIKE 'J_n%' AND tag IN ('a', 'b') AND deleted IS NULL"},
		{"count", "SELECT COUNT(*) FROM orders WHERE status = 'paid'"},
		{"distinct", "SELECT DISTINCT city FROM users"},
		{"group_by", "SELECT city FROM users WHERE age > 30 GROUP BY city, state"},
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := parser.Parse(tt.sql)
			require.NoError(t, err)
			g.Assert(t, tt.name, []byte(render.Shell(m)))
		})
	}
}

func TestShellChainOrderIsFixed(t *testing.T) {
	m, err := query.NewBuilder().
		Collection("t").
		Limit(2).
		Skip(1).
		Sort(doc.NewDocument(doc.F("a", doc.Int(1)))).
		Build()
	require.NoError(t, err)

	assert.Equal(t, `db.t.find({}).sort({"a": 1}).skip(1).limit(2)`, render.Shell(m))
}

func TestShellOmitsEmptyParts(t *testing.T) {
	m, err := query.NewBuilder().Collection("t").Skip(0).Build()
	require.NoError(t, err)

	assert.Equal(t, `db.t.find({}).skip(0)`, render.Shell(m))
}

func TestShellEmptyPipeline(t *testing.T) {
	m, err := query.NewBuilder().Collection("t").AsAggregate().Build()
	require.NoError(t, err)

	assert.Equal(t, `db.t.aggregate([])`, render.Shell(m))
}

func TestShellDeterministic(t *testing.T) {
	sql := "SELECT a, b FROM t WHERE a IN (1, 2.5, 'x') OR b != true ORDER BY b DESC"
	first, err := parser.Parse(sql)
	require.NoError(t, err)
	second, err := parser.Parse(sql)
	require.NoError(t, err)

	assert.Equal(t, render.Shell(first), render.Shell(second))
	assert.Equal(t,
		`db.t.find({"$or": [{"a": {"$in": [1, 2.5, "x"]}}, {"b": {"$ne": true}}]}, {"a": 1, "b": 1}).sort({"b": -1})`,
		render.Shell(first))
}
