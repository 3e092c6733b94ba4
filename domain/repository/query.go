// Package repository provides the generic store contract and the query
// options every domain store accepts.
package repository

import "fmt"

// Option applies a modification to a Query.
type Option func(Query) Query

// Query is the set of equality filters, sort keys and row limit of a store
// lookup. Stores translate it; domain code only builds it through Options.
type Query struct {
	filters []Filter
	sorts   []Sort
	limit   int
}

// Build creates a Query from a set of options.
func Build(options ...Option) Query {
	var q Query
	for _, opt := range options {
		q = opt(q)
	}
	return q
}

// Filters returns a copy of the equality filters in the order they were added.
func (q Query) Filters() []Filter {
	return append([]Filter(nil), q.filters...)
}

// Sorts returns a copy of the sort keys in the order they were added.
func (q Query) Sorts() []Sort {
	return append([]Sort(nil), q.sorts...)
}

// Limit returns the row limit; 0 means unlimited.
func (q Query) Limit() int { return q.limit }

// Filtered reports whether the query narrows the result at all.
func (q Query) Filtered() bool { return len(q.filters) > 0 }

// Filter is a column = value restriction.
type Filter struct {
	column string
	value  any
}

// Column returns the filtered column.
func (f Filter) Column() string { return f.column }

// Value returns the required value.
func (f Filter) Value() any { return f.value }

func (f Filter) String() string {
	return fmt.Sprintf("%s = %v", f.column, f.value)
}

// Sort orders results by a column.
type Sort struct {
	column     string
	descending bool
}

// Column returns the sort column.
func (s Sort) Column() string { return s.column }

// Descending reports whether the sort is DESC.
func (s Sort) Descending() bool { return s.descending }

// WithCondition restricts column to value. Domain packages build their
// typed options on top of it.
func WithCondition(column string, value any) Option {
	return func(q Query) Query {
		q.filters = append(q.filters, Filter{column: column, value: value})
		return q
	}
}

// WithID filters by the "id" column.
func WithID(id int64) Option {
	return WithCondition("id", id)
}

// WithLimit caps the number of results.
func WithLimit(n int) Option {
	return func(q Query) Query {
		q.limit = n
		return q
	}
}

// WithOrderAsc sorts ascending on column.
func WithOrderAsc(column string) Option {
	return func(q Query) Query {
		q.sorts = append(q.sorts, Sort{column: column})
		return q
	}
}

// WithOrderDesc sorts descending on column.
func WithOrderDesc(column string) Option {
	return func(q Query) Query {
		q.sorts = append(q.sorts, Sort{column: column, descending: true})
		return q
	}
}
