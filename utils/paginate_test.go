package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	ID      string   `json:"id"`
	Role    string   `json:"roleId"`
	Skills  []string `json:"technologyIds"`
	YearExp int      `json:"yearExp"`
}

var rows = []row{
	{ID: "1", Role: "admin", Skills: []string{"go"}, YearExp: 5},
	{ID: "2", Role: "employee", Skills: []string{"go", "sql"}, YearExp: 2},
	{ID: "3", Role: "employee", Skills: nil, YearExp: 2},
	{ID: "4", Role: "manager", Skills: []string{"sql"}, YearExp: 9},
	{ID: "5", Role: "employee", Skills: []string{"rust"}, YearExp: 1},
}

func pageIDs(p Page[row]) []string {
	ids := make([]string, 0, len(p.Result))
	for _, r := range p.Result {
		ids = append(ids, r.ID)
	}
	return ids
}

func TestPaginate_Defaults(t *testing.T) {
	p, err := Paginate(rows, 0, 0, "")
	require.NoError(t, err)
	assert.Equal(t, PageMeta{Current: 1, PageSize: 10, Pages: 1, Total: 5}, p.Meta)
	assert.Len(t, p.Result, 5)
}

func TestPaginate_Pages(t *testing.T) {
	p, err := Paginate(rows, 2, 2, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"3", "4"}, pageIDs(p))
	assert.Equal(t, 3, p.Meta.Pages)

	last, err := Paginate(rows, 3, 2, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"5"}, pageIDs(last))

	beyond, err := Paginate(rows, 9, 2, "")
	require.NoError(t, err)
	assert.Empty(t, beyond.Result)
	assert.NotNil(t, beyond.Result)
	assert.Equal(t, 5, beyond.Meta.Total)
}

func TestPaginate_HugeValues(t *testing.T) {
	var p Page[row]
	require.NotPanics(t, func() {
		var err error
		p, err = Paginate(rows, math.MaxInt64/100, 200, "")
		require.NoError(t, err)
	})
	assert.Empty(t, p.Result)
	assert.Equal(t, 5, p.Meta.Total)

	all, err := Paginate(rows, 1, math.MaxInt, "")
	require.NoError(t, err)
	assert.Len(t, all.Result, 5)
	assert.Equal(t, 1, all.Meta.Pages)

	_, err = Paginate(rows, math.MaxInt, math.MaxInt, "")
	assert.NoError(t, err)
}

func TestPaginate_Filters(t *testing.T) {
	p, err := Paginate(rows, 1, 10, "roleId=employee&yearExp=2")
	require.NoError(t, err)
	assert.Equal(t, []string{"2", "3"}, pageIDs(p))
	assert.Equal(t, 2, p.Meta.Total)

	p, err = Paginate(rows, 1, 10, "?technologyIds=sql")
	require.NoError(t, err)
	assert.Equal(t, []string{"2", "4"}, pageIDs(p))

	// paging keys inside qs are not filters
	p, err = Paginate(rows, 1, 10, "page=3&limit=1&roleId=manager")
	require.NoError(t, err)
	assert.Equal(t, []string{"4"}, pageIDs(p))

	p, err = Paginate(rows, 1, 10, "unknown=x")
	require.NoError(t, err)
	assert.Empty(t, p.Result)
}

func TestPaginate_BadQuery(t *testing.T) {
	_, err := Paginate(rows, 1, 10, "roleId=%zz")
	assert.Error(t, err)
}
