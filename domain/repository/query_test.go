package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild(t *testing.T) {
	q := Build(
		WithCondition("email", "a@x.com"),
		WithID(3),
		WithOrderDesc("created_at"),
		WithOrderAsc("id"),
		WithLimit(5),
	)

	filters := q.Filters()
	require.Len(t, filters, 2)
	assert.Equal(t, "email = a@x.com", filters[0].String())
	assert.Equal(t, "id", filters[1].Column())
	assert.Equal(t, int64(3), filters[1].Value())
	assert.True(t, q.Filtered())

	sorts := q.Sorts()
	require.Len(t, sorts, 2)
	assert.Equal(t, "created_at", sorts[0].Column())
	assert.True(t, sorts[0].Descending())
	assert.False(t, sorts[1].Descending())

	assert.Equal(t, 5, q.Limit())
}

func TestBuild_Empty(t *testing.T) {
	q := Build()

	assert.False(t, q.Filtered())
	assert.Empty(t, q.Sorts())
	assert.Zero(t, q.Limit())
}

func TestQuery_FiltersReturnsCopy(t *testing.T) {
	q := Build(WithID(7))
	filters := q.Filters()
	filters[0] = Filter{column: "other"}

	assert.Equal(t, "id", q.Filters()[0].Column())
}
