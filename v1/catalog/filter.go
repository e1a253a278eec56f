package catalog

import (
	"strings"

	"github.com/samber/lo"

	"github.com/Aleph-Alpha/scholar-index/v1/articles"
	"github.com/Aleph-Alpha/scholar-index/v1/vectordb"
)

// Filter is the sparse search filter sent by clients. Keys outside the
// recognised set are ignored.
type Filter map[string]any

// Recognised filter keys.
const (
	FilterStartingCreatedDate  = "starting_created_date"
	FilterEndingCreatedDate    = "ending_created_date"
	FilterStartingModifiedDate = "starting_modified_date"
	FilterEndingModifiedDate   = "ending_modified_date"

	// Keys sent by older clients: a single author and a publication
	// date range, which maps onto created.
	filterLegacyAuthor       = "author"
	filterLegacyStartingDate = "starting_date"
	filterLegacyEndingDate   = "ending_date"
)

var exactFields = []string{
	articles.FieldTitle,
	articles.FieldLanguage,
	articles.FieldDOI,
	articles.FieldURL,
	articles.FieldDocumentID,
}

var listFields = []string{
	articles.FieldAuthors,
	articles.FieldAuthorAffiliations,
	articles.FieldKeywords,
}

var dateRanges = []struct {
	field, from, to      string
	legacyFrom, legacyTo string
}{
	{articles.FieldCreated, FilterStartingCreatedDate, FilterEndingCreatedDate, filterLegacyStartingDate, filterLegacyEndingDate},
	{articles.FieldModified, FilterStartingModifiedDate, FilterEndingModifiedDate, "", ""},
}

// CompileFilter translates a client filter into a FilterSet whose
// conditions all sit in one Must clause:
//
//   - exact fields match their value;
//   - list fields emit one match per element, so every element must be present;
//   - date bounds become an inclusive integer range on the YYYYMMDD form.
//
// Empty strings and lists impose no constraint. It returns nil when nothing
// constrains the search. A malformed date fails with ErrInvalidDateFormat,
// a value of the wrong type with ErrInvalidRequest.
func CompileFilter(f Filter) (*vectordb.FilterSet, error) {
	var conditions []vectordb.FilterCondition

	for _, field := range exactFields {
		v, err := f.str(field)
		if err != nil {
			return nil, err
		}
		if v != "" {
			conditions = append(conditions, vectordb.NewMatch(field, v))
		}
	}

	for _, field := range listFields {
		values, err := f.list(field)
		if err != nil {
			return nil, err
		}
		if field == articles.FieldAuthors {
			legacy, err := f.list(filterLegacyAuthor)
			if err != nil {
				return nil, err
			}
			values = append(values, legacy...)
		}
		for _, v := range lo.Uniq(values) {
			conditions = append(conditions, vectordb.NewMatch(field, v))
		}
	}

	for _, dr := range dateRanges {
		r, err := f.dateRange(dr.from, dr.to, dr.legacyFrom, dr.legacyTo)
		if err != nil {
			return nil, err
		}
		if !r.IsOpen() {
			conditions = append(conditions, vectordb.NewNumericRange(dr.field, r))
		}
	}

	if len(conditions) == 0 {
		return nil, nil
	}
	return vectordb.NewFilterSet(vectordb.Must(conditions...)), nil
}

func (f Filter) str(key string) (string, error) {
	switch v := f[key].(type) {
	case nil:
		return "", nil
	case string:
		return strings.TrimSpace(v), nil
	default:
		return "", newError(ErrInvalidRequest, "Filter field '%s' must be a string.", key)
	}
}

func (f Filter) list(key string) ([]string, error) {
	switch v := f[key].(type) {
	case nil:
		return nil, nil
	case string:
		if s := strings.TrimSpace(v); s != "" {
			return []string{s}, nil
		}
		return nil, nil
	case []string:
		return nonBlank(v), nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, newError(ErrInvalidRequest, "Filter field '%s' must be a list of strings.", key)
			}
			out = append(out, s)
		}
		return nonBlank(out), nil
	default:
		return nil, newError(ErrInvalidRequest, "Filter field '%s' must be a list of strings.", key)
	}
}

func (f Filter) dateRange(fromKey, toKey, legacyFrom, legacyTo string) (vectordb.NumericRange, error) {
	var r vectordb.NumericRange

	from, err := f.firstDate(fromKey, legacyFrom)
	if err != nil {
		return r, err
	}
	to, err := f.firstDate(toKey, legacyTo)
	if err != nil {
		return r, err
	}
	r.Gte, r.Lte = from, to
	return r, nil
}

// firstDate reads key, falling back to legacy when key is unset.
func (f Filter) firstDate(key, legacy string) (*float64, error) {
	v, err := f.date(key)
	if err != nil || v != nil || legacy == "" {
		return v, err
	}
	return f.date(legacy)
}

func (f Filter) date(key string) (*float64, error) {
	s, err := f.str(key)
	if err != nil || s == "" {
		return nil, err
	}
	v, err := articles.EncodeDate(s)
	if err != nil {
		return nil, err
	}
	return vectordb.Float(float64(v)), nil
}

func nonBlank(in []string) []string {
	return lo.FilterMap(in, func(s string, _ int) (string, bool) {
		s = strings.TrimSpace(s)
		return s, s != ""
	})
}
