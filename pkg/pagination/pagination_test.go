package pagination

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	ID   int64
	Name string
	Tags []string
}

// fakeQuery filters an in-memory table by a name fragment and records calls.
type fakeQuery struct {
	table        []row
	name         string
	deleteBefore map[int64]bool // rows removed between step 1 and step 2
	hydrateCalls int
	hydrateErr   error
}

func (q *fakeQuery) Name() string { return "fake" }

func (q *fakeQuery) matching() []row {
	var out []row
	for _, r := range q.table {
		if q.name == "" || strings.Contains(strings.ToLower(r.Name), strings.ToLower(q.name)) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (q *fakeQuery) PageIDs(_ context.Context, req PageRequest) ([]int64, error) {
	m := q.matching()
	var ids []int64
	for i := req.Offset(); i < len(m) && i < req.Offset()+req.Size; i++ {
		ids = append(ids, m[i].ID)
	}
	return ids, nil
}

func (q *fakeQuery) Count(context.Context) (int64, error) {
	return int64(len(q.matching())), nil
}

func (q *fakeQuery) Hydrate(_ context.Context, ids []int64) ([]row, error) {
	q.hydrateCalls++
	if q.hydrateErr != nil {
		return nil, q.hydrateErr
	}
	want := map[int64]bool{}
	for _, id := range ids {
		want[id] = true
	}
	var out []row
	// reverse order on purpose: Search must restore step-1 order
	for i := len(q.table) - 1; i >= 0; i-- {
		r := q.table[i]
		if want[r.ID] && !q.deleteBefore[r.ID] {
			r.Tags = []string{"tag-a", "tag-b"}
			out = append(out, r)
		}
	}
	return out, nil
}

func (q *fakeQuery) IDOf(r row) int64 { return r.ID }

func seed(n int) []row {
	rows := make([]row, n)
	for i := range rows {
		rows[i] = row{ID: int64(i + 1), Name: fmt.Sprintf("Product %02d", i+1)}
	}
	if n > 2 {
		rows[2].Name = "Macbook Pro"
	}
	if n > 10 {
		rows[10].Name = "Macbook Air"
	}
	return rows
}

func names(p *Page[row]) []string {
	var out []string
	for _, r := range p.Content {
		out = append(out, r.Name)
	}
	return out
}

func identity(r row) row { return r }

func TestSearchFirstPage(t *testing.T) {
	q := &fakeQuery{table: seed(25)}

	page, err := Search(context.Background(), q, Of(0, 10, ""), identity)
	require.NoError(t, err)

	assert.Len(t, page.Content, 10)
	assert.Equal(t, int64(25), page.TotalElements)
	assert.Equal(t, 3, page.TotalPages)
	assert.True(t, page.First)
	assert.False(t, page.Last)
	for _, r := range page.Content {
		assert.Equal(t, []string{"tag-a", "tag-b"}, r.Tags, "every row is hydrated")
	}
}

func TestSearchNameFilter(t *testing.T) {
	q := &fakeQuery{table: seed(25), name: "macbook"}

	page, err := Search(context.Background(), q, Of(0, 10, ""), identity)
	require.NoError(t, err)

	assert.Equal(t, []string{"Macbook Air", "Macbook Pro"}, names(page))
	assert.Equal(t, int64(2), page.TotalElements)
}

func TestSearchPageBeyondRange(t *testing.T) {
	q := &fakeQuery{table: seed(25)}

	page, err := Search(context.Background(), q, Of(50, 10, ""), identity)
	require.NoError(t, err)

	assert.Empty(t, page.Content)
	assert.NotNil(t, page.Content)
	assert.True(t, page.Empty)
	assert.Equal(t, int64(25), page.TotalElements)
	assert.Equal(t, 0, q.hydrateCalls, "hydration is skipped without ids")
}

func TestSearchPagesConcatenateToFullOrder(t *testing.T) {
	q := &fakeQuery{table: seed(25)}
	full, err := Search(context.Background(), q, Of(0, 25, ""), identity)
	require.NoError(t, err)

	var joined []string
	for i := 0; i < 3; i++ {
		p, err := Search(context.Background(), q, Of(i, 10, ""), identity)
		require.NoError(t, err)
		assert.Len(t, p.Content, min(10, 25-i*10))
		joined = append(joined, names(p)...)
	}
	assert.Equal(t, names(full), joined)

	again, err := Search(context.Background(), q, Of(0, 25, ""), identity)
	require.NoError(t, err)
	assert.Equal(t, names(full), names(again), "idempotent without writes")
}

func TestSearchRowDeletedBetweenSteps(t *testing.T) {
	q := &fakeQuery{table: seed(25), deleteBefore: map[int64]bool{3: true}}

	page, err := Search(context.Background(), q, Of(0, 25, ""), identity)
	require.NoError(t, err)

	assert.Len(t, page.Content, 24)
	assert.Equal(t, int64(25), page.TotalElements)
	assert.NotContains(t, names(page), "Macbook Pro")
}

func TestSearchHydrateError(t *testing.T) {
	boom := errors.New("connection reset")
	q := &fakeQuery{table: seed(5), hydrateErr: boom}

	_, err := Search(context.Background(), q, Of(0, 10, ""), identity)
	assert.ErrorIs(t, err, boom)
}

func TestSearchMapsContent(t *testing.T) {
	q := &fakeQuery{table: seed(3)}

	page, err := Search(context.Background(), q, Of(0, 2, ""), func(r row) string { return r.Name })
	require.NoError(t, err)
	assert.Equal(t, []string{"Macbook Pro", "Product 01"}, page.Content)
}

func TestNormalize(t *testing.T) {
	r := PageRequest{Page: -3, Size: 0}.Normalize()
	assert.Equal(t, 0, r.Page)
	assert.Equal(t, DefaultLimits().DefaultSize, r.Size)

	r = Limits{DefaultSize: 5, MaxSize: 50}.Normalize(PageRequest{Page: 2, Size: 500})
	assert.Equal(t, 50, r.Size)
	assert.Equal(t, 100, r.Offset())
}

func TestConfigure(t *testing.T) {
	t.Cleanup(func() { active.Store(nil) })

	assert.Error(t, Configure(Limits{DefaultSize: 0, MaxSize: 10}))
	assert.Error(t, Configure(Limits{DefaultSize: 20, MaxSize: 10}))
	assert.Equal(t, DefaultLimits(), ActiveLimits())

	require.NoError(t, Configure(Limits{DefaultSize: 5, MaxSize: 20}))
	r := PageRequest{Size: 0}.Normalize()
	assert.Equal(t, 5, r.Size)
	r = PageRequest{Size: 50}.Normalize()
	assert.Equal(t, 20, r.Size)
}

func TestOffsetSaturates(t *testing.T) {
	assert.Equal(t, 0, Of(0, 10, "").Offset())
	assert.Equal(t, 30, Of(3, 10, "").Offset())
	assert.Equal(t, math.MaxInt, Of(math.MaxInt/100+1, 100, "").Offset())
	assert.Equal(t, math.MaxInt, Of(92233720368547759, 100, "").Offset())
}

func TestBeyond(t *testing.T) {
	cases := []struct {
		req   PageRequest
		total int64
		want  bool
	}{
		{Of(0, 10, ""), 25, false},
		{Of(2, 10, ""), 25, false},
		{Of(3, 10, ""), 25, true},
		{Of(0, 10, ""), 0, true},
		{Of(2, 10, ""), 20, true},
		{Of(92233720368547759, 100, ""), 25, true},
		{Of(math.MaxInt, math.MaxInt, ""), math.MaxInt64, true},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.req.Beyond(tc.total), "page=%d size=%d total=%d", tc.req.Page, tc.req.Size, tc.total)
	}
}

func TestSearchHugePageIndexIsEmpty(t *testing.T) {
	q := &fakeQuery{table: seed(25)}

	page, err := Search(context.Background(), q, Of(92233720368547759, 100, ""), identity)
	require.NoError(t, err)

	assert.Empty(t, page.Content)
	assert.True(t, page.Empty)
	assert.EqualValues(t, 25, page.TotalElements)
	assert.Equal(t, 92233720368547759, page.PageNumber)
	assert.Zero(t, q.hydrateCalls)
}

func TestParseSort(t *testing.T) {
	field, desc := ParseSort("price,desc")
	assert.Equal(t, "price", field)
	assert.True(t, desc)

	field, desc = ParseSort(" name ")
	assert.Equal(t, "name", field)
	assert.False(t, desc)

	assert.Equal(t, "name", PageRequest{}.SortOr("name"))
}

func TestMapKeepsMetadata(t *testing.T) {
	p := NewPage([]int{1, 2}, Of(1, 2, ""), 5)
	m := Map(p, func(i int) string { return fmt.Sprint(i) })

	assert.Equal(t, []string{"1", "2"}, m.Content)
	assert.Equal(t, 3, m.TotalPages)
	assert.False(t, m.First)
	assert.False(t, m.Last)
}
