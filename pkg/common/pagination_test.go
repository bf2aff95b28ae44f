package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "ideaforge-backend/pkg/errors"
)

func TestPaginationParamsValidate(t *testing.T) {
	assert.NoError(t, PaginationParams{Page: 1, Limit: 20}.Validate())
	assert.True(t, pkgerrors.IsInvalidValue(PaginationParams{Page: 0, Limit: 20}.Validate()))
	assert.True(t, pkgerrors.IsInvalidValue(PaginationParams{Page: 1, Limit: 0}.Validate()))
	assert.True(t, pkgerrors.IsInvalidValue(PaginationParams{Page: 1, Limit: -5}.Validate()))
}

func TestSlicePage(t *testing.T) {
	all := []int{1, 2, 3, 4, 5, 6, 7}

	page := SlicePage(all, PaginationParams{Page: 2, Limit: 3})
	assert.Equal(t, []int{4, 5, 6}, page.Items)
	assert.Equal(t, 7, page.Total)
	assert.Equal(t, 3, page.TotalPages)
	assert.True(t, page.HasNext)
	assert.True(t, page.HasPrevious)

	last := SlicePage(all, PaginationParams{Page: 3, Limit: 3})
	assert.Equal(t, []int{7}, last.Items)
	assert.False(t, last.HasNext)

	beyond := SlicePage(all, PaginationParams{Page: 9, Limit: 3})
	assert.Empty(t, beyond.Items)
	assert.Equal(t, 7, beyond.Total)
}

func TestNewPageBounds(t *testing.T) {
	page := NewPage([]string{"a", "b"}, 2, PaginationParams{Page: 1, Limit: 10})
	require.Equal(t, 1, page.TotalPages)
	assert.False(t, page.HasNext)
	assert.False(t, page.HasPrevious)
}
