package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aleph-Alpha/scholar-index/v1/articles"
	"github.com/Aleph-Alpha/scholar-index/v1/logger"
	"github.com/Aleph-Alpha/scholar-index/v1/vectordb"
)

func newMemoryCatalog(t *testing.T, collection string, size int) *Catalog {
	t.Helper()
	c := New(Params{Index: vectordb.NewMemoryIndex(), Logger: logger.NewNop()})
	require.NoError(t, c.CreateCollection(context.Background(), collection, size))
	return c
}

func count(t *testing.T, c *Catalog, collection string) uint64 {
	t.Helper()
	n, err := c.CountItems(context.Background(), collection)
	require.NoError(t, err)
	return n
}

func TestProperty_DatesRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := newMemoryCatalog(t, "papers", 4)

	payload := validPayload()
	payload.Created, payload.Modified = "1999-12-31", "2000-02-29"

	id, err := c.AddItem(ctx, "papers", []float32{0.1, 0.2, 0.3, 0.4}, payload)
	require.NoError(t, err)

	hits, err := c.Search(ctx, Query{Collection: "papers", Vector: []float32{0.1, 0.2, 0.3, 0.4}, TopK: 1})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, id, hits[0].Payload.DocumentID)
	assert.Equal(t, payload, hits[0].Payload.Payload)

	doc, err := c.GetItem(ctx, "papers", id)
	require.NoError(t, err)
	assert.Equal(t, "1999-12-31", doc.Created)
	assert.Equal(t, "2000-02-29", doc.Modified)
}

func TestProperty_RejectedItemsLeaveCountUnchanged(t *testing.T) {
	ctx := context.Background()
	c := newMemoryCatalog(t, "papers", 2)

	mismatched := validPayload()
	mismatched.Authors = []string{"A", "B"}
	_, err := c.AddItem(ctx, "papers", []float32{1, 0}, mismatched)
	assert.ErrorIs(t, err, ErrInputData)

	reversed := validPayload()
	reversed.Created, reversed.Modified = "2025-01-02", "2025-01-01"
	_, err = c.AddItem(ctx, "papers", []float32{1, 0}, reversed)
	assert.ErrorIs(t, err, ErrInputData)

	assert.Equal(t, uint64(0), count(t, c, "papers"))
}

func TestProperty_DeleteItem(t *testing.T) {
	ctx := context.Background()
	c := newMemoryCatalog(t, "papers", 2)

	id, err := c.AddItem(ctx, "papers", []float32{1, 0}, validPayload())
	require.NoError(t, err)
	_, err = c.AddItem(ctx, "papers", []float32{0, 1}, validPayload())
	require.NoError(t, err)

	assert.ErrorIs(t, c.DeleteItem(ctx, "papers", "never-inserted"), ErrDocumentDoesNotExist)
	assert.Equal(t, uint64(2), count(t, c, "papers"))

	require.NoError(t, c.DeleteItem(ctx, "papers", id))
	assert.Equal(t, uint64(1), count(t, c, "papers"))

	_, err = c.GetItem(ctx, "papers", id)
	assert.ErrorIs(t, err, ErrDocumentDoesNotExist)
	assert.ErrorIs(t, c.DeleteItem(ctx, "papers", id), ErrDocumentDoesNotExist)
}

func TestProperty_DuplicateCollectionKeepsConfiguration(t *testing.T) {
	ctx := context.Background()
	c := newMemoryCatalog(t, "papers", 4)

	assert.ErrorIs(t, c.CreateCollection(ctx, "papers", 8), ErrCollectionAlreadyExists)

	info, err := c.CollectionInfo(ctx, "papers")
	require.NoError(t, err)
	assert.Equal(t, 4, info.VectorSize)
}

func TestProperty_ListFilterIsConjunctive(t *testing.T) {
	ctx := context.Background()
	c := newMemoryCatalog(t, "papers", 2)

	both := validPayload()
	both.Authors, both.AuthorAffiliations = []string{"X", "Y"}, []string{"U1", "U2"}
	onlyX := validPayload()
	onlyX.Authors, onlyX.AuthorAffiliations = []string{"X"}, []string{"U1"}

	id, err := c.AddItem(ctx, "papers", []float32{1, 0}, both)
	require.NoError(t, err)
	_, err = c.AddItem(ctx, "papers", []float32{1, 0.1}, onlyX)
	require.NoError(t, err)

	hits, err := c.Search(ctx, Query{Collection: "papers", Vector: []float32{1, 0}, TopK: 10, Filter: Filter{"authors": []any{"X", "Y"}}})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, id, hits[0].Payload.DocumentID)
}

func TestProperty_UnfilteredSearchReturnsNearestFirst(t *testing.T) {
	ctx := context.Background()
	c := newMemoryCatalog(t, "papers", 4)

	vectors := [][]float32{
		{0.1, 0.2, 0.3, 0.4},
		{0.5, 0.6, 0.7, 0.8},
		{0.9, 0.6, 0.1, 0.8},
	}
	ids := make([]string, len(vectors))
	for i, v := range vectors {
		id, err := c.AddItem(ctx, "papers", v, validPayload())
		require.NoError(t, err)
		ids[i] = id
	}

	for _, filter := range []Filter{nil, {}} {
		hits, err := c.Search(ctx, Query{Collection: "papers", Vector: vectors[0], TopK: 2, Filter: filter})
		require.NoError(t, err)
		require.Len(t, hits, 2)
		assert.Equal(t, ids[0], hits[0].Payload.DocumentID)
		assert.Equal(t, ids[1], hits[1].Payload.DocumentID)
		assert.GreaterOrEqual(t, hits[0].Score, hits[1].Score)
	}

	hits, err := c.Search(ctx, Query{Collection: "papers", Vector: vectors[0], TopK: 50})
	require.NoError(t, err)
	assert.Len(t, hits, 3)
}

func TestProperty_DateRangeIsInclusive(t *testing.T) {
	ctx := context.Background()
	c := newMemoryCatalog(t, "papers", 2)

	payload := validPayload()
	payload.Created, payload.Modified = "2025-01-15", "2025-01-15"
	_, err := c.AddItem(ctx, "papers", []float32{1, 0}, payload)
	require.NoError(t, err)

	for _, bounds := range [][2]string{
		{"2025-01-10", "2025-01-20"},
		{"2025-01-15", "2025-01-15"},
	} {
		hits, err := c.Search(ctx, Query{
			Collection: "papers",
			Vector:     []float32{1, 0},
			TopK:       5,
			Filter:     Filter{"starting_created_date": bounds[0], "ending_created_date": bounds[1]},
		})
		require.NoError(t, err)
		assert.Len(t, hits, 1, "bounds %v", bounds)
	}

	hits, err := c.Search(ctx, Query{Collection: "papers", Vector: []float32{1, 0}, TopK: 5, Filter: Filter{"starting_created_date": "2025-01-16"}})
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestProperty_MalformedDatesAlwaysRejected(t *testing.T) {
	ctx := context.Background()
	c := newMemoryCatalog(t, "papers", 2)

	payload := validPayload()
	payload.Modified = "01-01-2025"
	_, err := c.AddItem(ctx, "papers", []float32{1, 0}, payload)
	assert.ErrorIs(t, err, articles.ErrInvalidDateFormat)

	_, err = c.Search(ctx, Query{Collection: "papers", Vector: []float32{1, 0}, TopK: 1, Filter: Filter{"starting_modified_date": "01-01-2025"}})
	assert.ErrorIs(t, err, articles.ErrInvalidDateFormat)
}
