// Package query defines the translated query description: either a find
// (filter, projection, sort, skip, limit) or an aggregation pipeline.
//
// A Model is immutable. It is constructed once through a Builder, which
// validates at Build, and every accessor returns a copy.
package query

import (
	"encoding/json"

	"github.com/roach88/sqlmongo/internal/doc"
)

// Kind discriminates find queries from aggregations.
type Kind int

const (
	KindFind Kind = iota
	KindAggregate
)

func (k Kind) String() string {
	switch k {
	case KindFind:
		return "find"
	case KindAggregate:
		return "aggregate"
	default:
		return "unknown"
	}
}

// Model is a translated query.
//
// Find-only fields (filter, projection, sort, limit, skip) are not read for
// aggregations, and the pipeline is not read for finds.
type Model struct {
	collection string
	kind       Kind
	filter     *doc.Document
	projection *doc.Document
	sort       *doc.Document
	limit      *int64
	skip       *int64
	pipeline   []*doc.Document
}

// Collection returns the target collection name.
func (m *Model) Collection() string { return m.collection }

// Kind returns whether the model is a find or an aggregation.
func (m *Model) Kind() Kind { return m.kind }

// Filter returns the find filter; empty when none applies.
func (m *Model) Filter() *doc.Document { return m.filter.Clone() }

// Projection returns the find projection; empty means all fields.
func (m *Model) Projection() *doc.Document { return m.projection.Clone() }

// Sort returns the sort spec (field -> 1 or -1) in tie-break order.
func (m *Model) Sort() *doc.Document { return m.sort.Clone() }

// Limit returns the limit and whether one is set.
func (m *Model) Limit() (int64, bool) { return optional(m.limit) }

// Skip returns the skip and whether one is set.
func (m *Model) Skip() (int64, bool) { return optional(m.skip) }

// Pipeline returns the aggregation stages in order.
func (m *Model) Pipeline() []*doc.Document {
	stages := make([]*doc.Document, len(m.pipeline))
	for i, stage := range m.pipeline {
		stages[i] = stage.Clone()
	}
	return stages
}

// Document describes the model as a single ordered document. Find models
// carry filter/projection/sort/skip/limit (projection, sort, skip and limit
// only when present); aggregations carry the pipeline.
func (m *Model) Document() *doc.Document {
	d := doc.NewDocument(
		doc.F("collection", doc.String(m.collection)),
		doc.F("kind", doc.String(m.kind.String())),
	)
	if m.kind == KindAggregate {
		stages := make(doc.Array, len(m.pipeline))
		for i, stage := range m.pipeline {
			stages[i] = stage.Clone()
		}
		return d.Set("pipeline", stages)
	}

	d.Set("filter", m.filter.Clone())
	if !m.projection.IsEmpty() {
		d.Set("projection", m.projection.Clone())
	}
	if !m.sort.IsEmpty() {
		d.Set("sort", m.sort.Clone())
	}
	if n, ok := m.Skip(); ok {
		d.Set("skip", doc.Int(n))
	}
	if n, ok := m.Limit(); ok {
		d.Set("limit", doc.Int(n))
	}
	return d
}

// MarshalJSON implements json.Marshaler using the ordered Document form.
func (m *Model) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.Document())
}

// Fingerprint returns a stable content hash of the model.
// Equal models have equal fingerprints; key order is significant.
func (m *Model) Fingerprint() string {
	return doc.Fingerprint(doc.DomainQuery, m.Document())
}

func optional(p *int64) (int64, bool) {
	if p == nil {
		return 0, false
	}
	return *p, true
}
