package pagination

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromRequest(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantPage   int
		wantPer    int
		wantOffset int
	}{
		{"defaults", "", 1, 20, 0},
		{"custom", "?page=3&per_page=50", 3, 50, 100},
		{"negative page", "?page=-1", 1, 20, 0},
		{"zero page", "?page=0", 1, 20, 0},
		{"non numeric page", "?page=abc", 1, 20, 0},
		{"per_page over cap", "?per_page=200", 1, 20, 0},
		{"per_page at cap", "?per_page=100", 1, 100, 0},
		{"per_page zero", "?per_page=0", 1, 20, 0},
		{"offset", "?page=5&per_page=20", 5, 20, 80},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/products"+tt.query, nil)
			p := FromRequest(req)
			assert.Equal(t, tt.wantPage, p.Page)
			assert.Equal(t, tt.wantPer, p.PerPage)
			assert.Equal(t, tt.wantOffset, p.Offset)
		})
	}
}

func TestNewResult_PageFlags(t *testing.T) {
	result := NewResult([]string{"c", "d"}, 6, Params{Page: 2, PerPage: 2, Offset: 2})
	assert.Equal(t, 3, result.TotalPages)
	assert.True(t, result.HasNext)
	assert.True(t, result.HasPrev)

	last := NewResult([]string{"e"}, 11, Params{Page: 3, PerPage: 5, Offset: 10})
	assert.Equal(t, 3, last.TotalPages)
	assert.False(t, last.HasNext)
}

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	first := Paginate(items, Params{Page: 1, PerPage: 2, Offset: 0})
	assert.Equal(t, []int{1, 2}, first.Data)
	assert.Equal(t, 5, first.TotalCount)
	assert.Equal(t, 3, first.TotalPages)

	last := Paginate(items, Params{Page: 3, PerPage: 2, Offset: 4})
	assert.Equal(t, []int{5}, last.Data)
	assert.False(t, last.HasNext)

	beyond := Paginate(items, Params{Page: 9, PerPage: 2, Offset: 16})
	require.NotNil(t, beyond.Data)
	assert.Empty(t, beyond.Data)
}

func TestPaginate_CopiesPage(t *testing.T) {
	items := []int{1, 2, 3}
	result := Paginate(items, DefaultParams())
	result.Data[0] = 99
	assert.Equal(t, 1, items[0])
}
