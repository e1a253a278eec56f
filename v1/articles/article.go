package articles

import (
	"encoding/json"
	"strings"
	"time"
)

// Author is a single contributor of an upstream article.
type Author struct {
	FullName    string `json:"full_name"`
	Affiliation string `json:"affiliation"`
}

// Article is a bibliographic record produced by the repository export step.
type Article struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Language   string   `json:"language"`
	Created    string   `json:"created"`
	Modified   string   `json:"modified"`
	DOI        string   `json:"doi"`
	URL        string   `json:"url"`
	Authors    []Author `json:"authors"`
	Abstract   string   `json:"abstract"`
	AbstractEN string   `json:"abstract_en"`
	AbstractPL string   `json:"abstract_pl"`
	Keywords   Keywords `json:"keywords"`
}

// Keywords accepts either a JSON list or a single comma/semicolon separated
// string, which is how the export writes them.
type Keywords []string

func (k *Keywords) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*k = compact(list)
		return nil
	}
	var s *string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == nil {
		*k = nil
		return nil
	}
	*k = compact(strings.FieldsFunc(*s, func(r rune) bool { return r == ',' || r == ';' }))
	return nil
}

func compact(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Text renders the article as the text that gets embedded.
func (a Article) Text() string {
	names := make([]string, 0, len(a.Authors))
	affiliations := make([]string, 0, len(a.Authors))
	for _, au := range a.Authors {
		names = append(names, au.FullName)
		affiliations = append(affiliations, au.Affiliation)
	}

	lines := []string{
		"Title: " + a.Title,
		"Authors: " + strings.Join(names, ", "),
		"Affiliations: " + strings.Join(affiliations, ", "),
		"Language: " + a.Language,
		"DOI: " + a.DOI,
	}
	if en := a.abstractEN(); en != "" {
		lines = append(lines, "Abstract (EN): "+en)
	}
	if a.AbstractPL != "" {
		lines = append(lines, "Abstract (PL): "+a.AbstractPL)
	}
	return strings.Join(lines, "\n")
}

func (a Article) abstractEN() string {
	if a.AbstractEN != "" {
		return a.AbstractEN
	}
	if a.AbstractPL == "" {
		return a.Abstract
	}
	return ""
}

// Payload maps the article onto the item payload. The abstract prefers the
// English text, timestamps are cut down to their date, and a missing URL
// falls back to the DOI link.
func (a Article) Payload() Payload {
	p := Payload{
		Title:    strings.TrimSpace(a.Title),
		Created:  datePart(a.Created),
		Modified: datePart(a.Modified),
		Language: a.Language,
		DOI:      a.DOI,
		URL:      a.URL,
		Keywords: []string(a.Keywords),
	}
	for _, au := range a.Authors {
		p.Authors = append(p.Authors, au.FullName)
		p.AuthorAffiliations = append(p.AuthorAffiliations, au.Affiliation)
	}

	switch {
	case a.AbstractEN != "":
		p.Abstract = a.AbstractEN
	case a.Abstract != "":
		p.Abstract = a.Abstract
	default:
		p.Abstract = a.AbstractPL
	}

	if p.URL == "" {
		p.URL = NormalizeDOI(a.DOI)
	}
	return p
}

// datePart reduces RFC 3339 or "YYYY-MM-DD hh:mm:ss" timestamps to YYYY-MM-DD.
// Anything else is returned unchanged so validation can report it.
func datePart(s string) string {
	s = strings.TrimSpace(s)
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(DateLayout)
		}
	}
	return s
}

// NormalizeDOI turns a bare DOI into its https://doi.org/ link.
// Values that are already URLs, and empty values, are returned trimmed.
func NormalizeDOI(doi string) string {
	doi = strings.TrimSpace(doi)
	if doi == "" || strings.HasPrefix(doi, "http") {
		return doi
	}
	return "https://doi.org/" + doi
}
