// Package render formats query models as shell-style invocation strings.
//
// The output is for logs and debugging. It is not guaranteed to be accepted
// by a real console.
package render

import (
	"strconv"
	"strings"

	"github.com/roach88/sqlmongo/internal/doc"
	"github.com/roach88/sqlmongo/internal/query"
)

// Shell renders q as
//
//	db.<collection>.aggregate([<stage>, ...])
//
// or
//
//	db.<collection>.find(<filter>[, <projection>])[.sort(..)][.skip(n)][.limit(n)]
//
// Chained calls always appear in that order. Documents are written as relaxed
// JSON in insertion order.
func Shell(q *query.Model) string {
	var sb strings.Builder
	sb.WriteString("db.")
	sb.WriteString(q.Collection())

	if q.Kind() == query.KindAggregate {
		stages := q.Pipeline()
		pipeline := make(doc.Array, len(stages))
		for i, stage := range stages {
			pipeline[i] = stage
		}
		sb.WriteString(".aggregate(")
		sb.Write(doc.MarshalRelaxed(pipeline))
		sb.WriteString(")")
		return sb.String()
	}

	sb.WriteString(".find(")
	sb.Write(doc.MarshalRelaxed(q.Filter()))
	if projection := q.Projection(); !projection.IsEmpty() {
		sb.WriteString(", ")
		sb.Write(doc.MarshalRelaxed(projection))
	}
	sb.WriteString(")")

	if sort := q.Sort(); !sort.IsEmpty() {
		sb.WriteString(".sort(")
		sb.Write(doc.MarshalRelaxed(sort))
		sb.WriteString(")")
	}
	if n, ok := q.Skip(); ok {
		call(&sb, "skip", n)
	}
	if n, ok := q.Limit(); ok {
		call(&sb, "limit", n)
	}
	return sb.String()
}

func call(sb *strings.Builder, name string, n int64) {
	sb.WriteString(".")
	sb.WriteString(name)
	sb.WriteString("(")
	sb.WriteString(strconv.FormatInt(n, 10))
	sb.WriteString(")")
}
