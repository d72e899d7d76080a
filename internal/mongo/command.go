// Package mongo builds database commands from query models.
//
// Command returns the document a driver passes to runCommand:
//
//	{find: <collection>, filter: {..}, projection: {..}, sort: {..}, skip: n, limit: n}
//	{aggregate: <collection>, pipeline: [..], cursor: {}}
//
// Optional find members are present only when set on the model.
package mongo

import (
	"fmt"
	"math"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/roach88/sqlmongo/internal/doc"
	"github.com/roach88/sqlmongo/internal/query"
)

// Command converts q into a runCommand document.
func Command(q *query.Model) bson.D {
	if q.Kind() == query.KindAggregate {
		stages := q.Pipeline()
		pipeline := make(bson.A, len(stages))
		for i, stage := range stages {
			pipeline[i] = ToBSON(stage)
		}
		return bson.D{
			{Key: "aggregate", Value: q.Collection()},
			{Key: "pipeline", Value: pipeline},
			{Key: "cursor", Value: bson.D{}},
		}
	}

	cmd := bson.D{
		{Key: "find", Value: q.Collection()},
		{Key: "filter", Value: ToBSON(q.Filter())},
	}
	if projection := q.Projection(); !projection.IsEmpty() {
		cmd = append(cmd, bson.E{Key: "projection", Value: ToBSON(projection)})
	}
	if sort := q.Sort(); !sort.IsEmpty() {
		cmd = append(cmd, bson.E{Key: "sort", Value: ToBSON(sort)})
	}
	if n, ok := q.Skip(); ok {
		cmd = append(cmd, bson.E{Key: "skip", Value: n})
	}
	if n, ok := q.Limit(); ok {
		cmd = append(cmd, bson.E{Key: "limit", Value: n})
	}
	return cmd
}

// MarshalCommand encodes the command for q as relaxed Extended JSON.
func MarshalCommand(q *query.Model) ([]byte, error) {
	data, err := bson.MarshalExtJSON(Command(q), false, false)
	if err != nil {
		return nil, fmt.Errorf("encoding %s command for %q: %w", q.Kind(), q.Collection(), err)
	}
	return data, nil
}

// ToBSON converts a document value to its driver form. Documents become
// bson.D (order kept), arrays bson.A, and integers int32 when they fit,
// int64 otherwise.
func ToBSON(v doc.Value) any {
	switch val := v.(type) {
	case nil, doc.Null:
		return nil
	case doc.String:
		return string(val)
	case doc.Int:
		if val >= math.MinInt32 && val <= math.MaxInt32 {
			return int32(val)
		}
		return int64(val)
	case doc.Float:
		return float64(val)
	case doc.Bool:
		return bool(val)
	case doc.Array:
		out := make(bson.A, len(val))
		for i, elem := range val {
			out[i] = ToBSON(elem)
		}
		return out
	case *doc.Document:
		out := make(bson.D, 0, val.Len())
		for _, f := range val.Fields() {
			out = append(out, bson.E{Key: f.Key, Value: ToBSON(f.Value)})
		}
		return out
	default:
		panic(fmt.Sprintf("mongo: unknown value type %T", v))
	}
}
