package qdrant

import (
	"testing"

	qdrant "github.com/qdrant/go-client/qdrant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aleph-Alpha/scholar-index/v1/vectordb"
)

func TestConvertFilterSet_NilAndEmpty(t *testing.T) {
	assert.Nil(t, convertFilterSet(nil))
	assert.Nil(t, convertFilterSet(&vectordb.FilterSet{}))
	assert.Nil(t, convertFilterSet(vectordb.NewFilterSet(vectordb.Must())))
}

func TestConvertFilterSet_DropsUnsupportedConditions(t *testing.T) {
	fs := vectordb.NewFilterSet(vectordb.Must(
		vectordb.NewMatch("title", []string{"not", "scalar"}),
		vectordb.NewNumericRange("created", vectordb.NumericRange{}),
	))
	assert.Nil(t, convertFilterSet(fs))
}

func TestConvertFilterSet_MatchConditions(t *testing.T) {
	fs := vectordb.NewFilterSet(
		vectordb.Must(
			vectordb.NewMatch("language", "en"),
			vectordb.NewMatch("authors", "Ada Lovelace"),
			vectordb.NewMatch("created", int64(20240101)),
		),
		vectordb.MustNot(vectordb.NewMatch("keywords", "retracted")),
	)

	filter := convertFilterSet(fs)
	require.NotNil(t, filter)
	require.Len(t, filter.Must, 3)
	require.Len(t, filter.MustNot, 1)
	assert.Empty(t, filter.Should)

	field := filter.Must[0].GetField()
	require.NotNil(t, field)
	assert.Equal(t, "language", field.GetKey())
	assert.Equal(t, "en", field.GetMatch().GetKeyword())

	assert.Equal(t, "authors", filter.Must[1].GetField().GetKey())
	assert.Equal(t, int64(20240101), filter.Must[2].GetField().GetMatch().GetInteger())
	assert.Equal(t, "retracted", filter.MustNot[0].GetField().GetMatch().GetKeyword())
}

func TestConvertFilterSet_NumericRange(t *testing.T) {
	fs := vectordb.NewFilterSet(vectordb.Must(
		vectordb.NewNumericRange("created", vectordb.NumericRange{
			Gte: vectordb.Float(20200101),
			Lte: vectordb.Float(20201231),
		}),
	))

	filter := convertFilterSet(fs)
	require.NotNil(t, filter)
	require.Len(t, filter.Must, 1)

	r := filter.Must[0].GetField().GetRange()
	require.NotNil(t, r)
	assert.Equal(t, 20200101.0, r.GetGte())
	assert.Equal(t, 20201231.0, r.GetLte())
	assert.Nil(t, r.Gt)
	assert.Nil(t, r.Lt)
}

func TestToPointStructs(t *testing.T) {
	points := []vectordb.Point{{
		ID:     "5f0c6b8e-8a3c-4f3e-9d59-6c0f3c1d2e4a",
		Vector: []float32{0.1, 0.2, 0.3},
		Payload: map[string]any{
			"title":   "On Computable Numbers",
			"created": int64(19360528),
			"authors": []string{"Alan Turing"},
		},
	}}

	structs, err := toPointStructs(points)
	require.NoError(t, err)
	require.Len(t, structs, 1)

	p := structs[0]
	assert.Equal(t, points[0].ID, p.GetId().GetUuid())
	assert.Equal(t, "On Computable Numbers", p.Payload["title"].GetStringValue())
	assert.Equal(t, int64(19360528), p.Payload["created"].GetIntegerValue())
	authors := p.Payload["authors"].GetListValue().GetValues()
	require.Len(t, authors, 1)
	assert.Equal(t, "Alan Turing", authors[0].GetStringValue())
}

func TestToPointStructs_RejectsNonUUID(t *testing.T) {
	_, err := toPointStructs([]vectordb.Point{{ID: "doc-1", Vector: []float32{1}}})
	assert.Error(t, err)
}

func TestConvertPayload_RoundTrip(t *testing.T) {
	in := map[string]any{
		"title":    "A",
		"created":  int64(20240102),
		"keywords": []any{"x", "y"},
		"nested":   map[string]any{"ok": true},
		"score":    0.5,
	}
	values, err := qdrant.TryValueMap(in)
	require.NoError(t, err)

	out := convertPayload(values)
	assert.Equal(t, in, out)
	assert.Nil(t, convertPayload(nil))
}

func TestParseSearchResults(t *testing.T) {
	resp := []*qdrant.ScoredPoint{
		{Id: qdrant.NewID("5f0c6b8e-8a3c-4f3e-9d59-6c0f3c1d2e4a"), Score: 0.9, Payload: qdrant.NewValueMap(map[string]any{"title": "t"})},
		{Id: qdrant.NewIDNum(7), Score: 0.4},
	}

	results, err := parseSearchResults(resp)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "5f0c6b8e-8a3c-4f3e-9d59-6c0f3c1d2e4a", results[0].ID)
	assert.Equal(t, float32(0.9), results[0].Score)
	assert.Equal(t, "t", results[0].Payload["title"])
	assert.Equal(t, "7", results[1].ID)

	_, err = parseSearchResults([]*qdrant.ScoredPoint{{}})
	assert.Error(t, err)
}

func TestExtractVectorDetails(t *testing.T) {
	info := &qdrant.CollectionInfo{
		Config: &qdrant.CollectionConfig{
			Params: &qdrant.CollectionParams{
				VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
					Size:     384,
					Distance: qdrant.Distance_Cosine,
				}),
			},
		},
		PointsCount: qdrant.PtrOf(uint64(12)),
	}

	size, distance := extractVectorDetails(info)
	assert.Equal(t, 384, size)
	assert.Equal(t, vectordb.DistanceCosine, distance)

	c := collectionFromInfo("papers", info)
	assert.Equal(t, uint64(12), c.PointCount)
	assert.Equal(t, uint64(0), c.VectorCount)

	size, distance = extractVectorDetails(nil)
	assert.Zero(t, size)
	assert.Empty(t, distance)
}

func TestValidateSearchInput(t *testing.T) {
	assert.Error(t, validateSearchInput("", []float32{1}, 1))
	assert.Error(t, validateSearchInput("c", nil, 1))
	assert.Error(t, validateSearchInput("c", []float32{1}, 0))
	assert.NoError(t, validateSearchInput("c", []float32{1}, 1))
}
