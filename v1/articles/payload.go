package articles

import (
	"fmt"
	"strings"
)

// Payload field names as stored in the index.
const (
	FieldDocumentID         = "document_id"
	FieldTitle              = "title"
	FieldCreated            = "created"
	FieldModified           = "modified"
	FieldLanguage           = "language"
	FieldDOI                = "doi"
	FieldURL                = "url"
	FieldAuthors            = "authors"
	FieldAuthorAffiliations = "author_affiliations"
	FieldAbstract           = "abstract"
	FieldKeywords           = "keywords"
)

// Payload is the metadata of an item as exchanged with clients.
// Dates are YYYY-MM-DD strings.
type Payload struct {
	Title              string   `json:"title"`
	Created            string   `json:"created"`
	Modified           string   `json:"modified"`
	Language           string   `json:"language"`
	DOI                string   `json:"doi"`
	URL                string   `json:"url"`
	Authors            []string `json:"authors"`
	AuthorAffiliations []string `json:"author_affiliations"`
	Abstract           string   `json:"abstract"`
	Keywords           []string `json:"keywords"`
}

// Normalized is a Payload that passed Validate. Dates are YYYYMMDD integers.
type Normalized struct {
	Payload
	CreatedInt  int64
	ModifiedInt int64
}

// Fields renders the normalized payload, with the document id injected,
// into the flat map stored next to the vector.
func (n Normalized) Fields(documentID string) map[string]any {
	return map[string]any{
		FieldDocumentID:         documentID,
		FieldTitle:              n.Title,
		FieldCreated:            n.CreatedInt,
		FieldModified:           n.ModifiedInt,
		FieldLanguage:           n.Language,
		FieldDOI:                n.DOI,
		FieldURL:                n.URL,
		FieldAuthors:            n.Authors,
		FieldAuthorAffiliations: n.AuthorAffiliations,
		FieldAbstract:           n.Abstract,
		FieldKeywords:           n.Keywords,
	}
}

// Document is a stored item as returned to clients.
type Document struct {
	DocumentID string `json:"document_id"`
	Payload
}

// DocumentFromFields rebuilds a Document from stored payload fields,
// turning integer dates back into YYYY-MM-DD strings.
func DocumentFromFields(fields map[string]any) (Document, error) {
	var doc Document
	doc.DocumentID = stringField(fields, FieldDocumentID)
	doc.Title = stringField(fields, FieldTitle)
	doc.Language = stringField(fields, FieldLanguage)
	doc.DOI = stringField(fields, FieldDOI)
	doc.URL = stringField(fields, FieldURL)
	doc.Abstract = stringField(fields, FieldAbstract)
	doc.Authors = listField(fields, FieldAuthors)
	doc.AuthorAffiliations = listField(fields, FieldAuthorAffiliations)
	doc.Keywords = listField(fields, FieldKeywords)

	var err error
	if doc.Created, err = dateField(fields, FieldCreated); err != nil {
		return Document{}, err
	}
	if doc.Modified, err = dateField(fields, FieldModified); err != nil {
		return Document{}, err
	}
	return doc, nil
}

func stringField(fields map[string]any, key string) string {
	s, _ := fields[key].(string)
	return s
}

func listField(fields map[string]any, key string) []string {
	switch v := fields[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case string:
		return []string{v}
	default:
		return nil
	}
}

func dateField(fields map[string]any, key string) (string, error) {
	switch v := fields[key].(type) {
	case nil:
		return "", nil
	case int64:
		return DecodeDate(v)
	case int:
		return DecodeDate(int64(v))
	case float64:
		return DecodeDate(int64(v))
	case string:
		// Points written by older tooling kept the textual form.
		if _, err := EncodeDate(v); err == nil {
			return v, nil
		}
		return "", fmt.Errorf("articles: field %q holds unparsable date %q", key, v)
	default:
		return "", fmt.Errorf("articles: field %q has unexpected type %T", key, v)
	}
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
