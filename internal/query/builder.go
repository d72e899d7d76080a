package query

import (
	"strings"

	"github.com/roach88/sqlmongo/internal/doc"
	"github.com/roach88/sqlmongo/internal/sqlerr"
)

// Builder accumulates the parts of a Model. The zero value builds a find.
//
// Builder methods chain; Build validates and copies, so a Builder may be
// reused or modified after Build without affecting the built Model.
type Builder struct {
	collection string
	kind       Kind
	filter     *doc.Document
	projection *doc.Document
	sort       *doc.Document
	limit      *int64
	skip       *int64
	pipeline   []*doc.Document
}

// NewBuilder creates a Builder for a find query.
func NewBuilder() *Builder {
	return &Builder{}
}

// Collection sets the target collection. Required.
func (b *Builder) Collection(name string) *Builder {
	b.collection = name
	return b
}

// AsFind selects a find query.
func (b *Builder) AsFind() *Builder {
	b.kind = KindFind
	return b
}

// AsAggregate selects an aggregation.
func (b *Builder) AsAggregate() *Builder {
	b.kind = KindAggregate
	return b
}

// Filter sets the find filter.
func (b *Builder) Filter(filter *doc.Document) *Builder {
	b.filter = filter
	return b
}

// Projection sets the find projection.
func (b *Builder) Projection(projection *doc.Document) *Builder {
	b.projection = projection
	return b
}

// Sort sets the sort spec.
func (b *Builder) Sort(sort *doc.Document) *Builder {
	b.sort = sort
	return b
}

// Limit sets the maximum number of documents returned.
func (b *Builder) Limit(n int64) *Builder {
	b.limit = &n
	return b
}

// Skip sets the number of documents skipped.
func (b *Builder) Skip(n int64) *Builder {
	b.skip = &n
	return b
}

// Pipeline replaces the aggregation stages.
func (b *Builder) Pipeline(stages ...*doc.Document) *Builder {
	b.pipeline = append([]*doc.Document(nil), stages...)
	return b
}

// AddStage appends one aggregation stage.
func (b *Builder) AddStage(stage *doc.Document) *Builder {
	b.pipeline = append(b.pipeline, stage)
	return b
}

// Build validates the builder and returns an immutable Model.
// Fails with INVALID_COLLECTION if the collection is blank.
func (b *Builder) Build() (*Model, error) {
	if strings.TrimSpace(b.collection) == "" {
		return nil, sqlerr.InvalidCollection(b.collection)
	}

	m := &Model{
		collection: b.collection,
		kind:       b.kind,
		filter:     b.filter.Clone(),
		projection: b.projection.Clone(),
		sort:       b.sort.Clone(),
		limit:      copyInt(b.limit),
		skip:       copyInt(b.skip),
		pipeline:   make([]*doc.Document, len(b.pipeline)),
	}
	for i, stage := range b.pipeline {
		m.pipeline[i] = stage.Clone()
	}
	return m, nil
}

func copyInt(p *int64) *int64 {
	if p == nil {
		return nil
	}
	n := *p
	return &n
}
