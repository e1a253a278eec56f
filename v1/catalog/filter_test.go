package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aleph-Alpha/scholar-index/v1/vectordb"
)

func mustConditions(t *testing.T, fs *vectordb.FilterSet) []vectordb.FilterCondition {
	t.Helper()
	require.NotNil(t, fs)
	require.NotNil(t, fs.Must)
	assert.Nil(t, fs.Should)
	assert.Nil(t, fs.MustNot)
	return fs.Must.Conditions
}

func TestCompileFilter_EmptyMeansNoFilter(t *testing.T) {
	for name, f := range map[string]Filter{
		"nil":          nil,
		"empty":        {},
		"unknown keys": {"colour": "blue", "page": 3},
		"blank values": {"title": "  ", "authors": []any{}, "starting_created_date": ""},
	} {
		t.Run(name, func(t *testing.T) {
			fs, err := CompileFilter(f)
			require.NoError(t, err)
			assert.Nil(t, fs)
		})
	}
}

func TestCompileFilter_ExactFields(t *testing.T) {
	fs, err := CompileFilter(Filter{"language": "en", "doi": "https://doi.org/10.1/x"})
	require.NoError(t, err)

	conds := mustConditions(t, fs)
	assert.Equal(t, []vectordb.FilterCondition{
		vectordb.NewMatch("language", "en"),
		vectordb.NewMatch("doi", "https://doi.org/10.1/x"),
	}, conds)
}

func TestCompileFilter_ListFieldsAreConjunctive(t *testing.T) {
	fs, err := CompileFilter(Filter{
		"authors":  []any{"X", "Y", "X"},
		"keywords": "physics",
	})
	require.NoError(t, err)

	assert.Equal(t, []vectordb.FilterCondition{
		vectordb.NewMatch("authors", "X"),
		vectordb.NewMatch("authors", "Y"),
		vectordb.NewMatch("keywords", "physics"),
	}, mustConditions(t, fs))
}

func TestCompileFilter_LegacyAuthorKey(t *testing.T) {
	fs, err := CompileFilter(Filter{"author": "Ada", "authors": []string{"Grace"}})
	require.NoError(t, err)

	assert.Equal(t, []vectordb.FilterCondition{
		vectordb.NewMatch("authors", "Grace"),
		vectordb.NewMatch("authors", "Ada"),
	}, mustConditions(t, fs))
}

func TestCompileFilter_DateRanges(t *testing.T) {
	fs, err := CompileFilter(Filter{
		"starting_created_date": "2025-01-10",
		"ending_created_date":   "2025-01-20",
		"ending_modified_date":  "2025-02-01",
	})
	require.NoError(t, err)

	assert.Equal(t, []vectordb.FilterCondition{
		vectordb.NewNumericRange("created", vectordb.NumericRange{Gte: vectordb.Float(20250110), Lte: vectordb.Float(20250120)}),
		vectordb.NewNumericRange("modified", vectordb.NumericRange{Lte: vectordb.Float(20250201)}),
	}, mustConditions(t, fs))
}

func TestCompileFilter_Errors(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
		want   error
	}{
		{"malformed start date", Filter{"starting_created_date": "01-01-2025"}, ErrInvalidDateFormat},
		{"impossible end date", Filter{"ending_modified_date": "2025-02-30"}, ErrInvalidDateFormat},
		{"numeric title", Filter{"title": 12.0}, ErrInvalidRequest},
		{"non string list element", Filter{"keywords": []any{"a", 1.0}}, ErrInvalidRequest},
		{"object as list", Filter{"authors": map[string]any{"a": "b"}}, ErrInvalidRequest},
		{"numeric date", Filter{"starting_created_date": 20250101.0}, ErrInvalidRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs, err := CompileFilter(tt.filter)
			assert.Nil(t, fs)
			assert.ErrorIs(t, err, tt.want)
			assert.NotEmpty(t, Message(err))
		})
	}
}

func TestCompileFilter_LegacyDateKeys(t *testing.T) {
	fs, err := CompileFilter(Filter{"starting_date": "2024-01-01", "ending_date": "2024-12-31"})
	require.NoError(t, err)
	assert.Equal(t, []vectordb.FilterCondition{
		vectordb.NewNumericRange("created", vectordb.NumericRange{Gte: vectordb.Float(20240101), Lte: vectordb.Float(20241231)}),
	}, mustConditions(t, fs))

	fs, err = CompileFilter(Filter{"starting_date": "2024-01-01", "starting_created_date": "2023-06-01"})
	require.NoError(t, err)
	assert.Equal(t, []vectordb.FilterCondition{
		vectordb.NewNumericRange("created", vectordb.NumericRange{Gte: vectordb.Float(20230601)}),
	}, mustConditions(t, fs))
}
