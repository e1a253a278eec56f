package articles

// Validate enforces the mandatory-field and cross-field rules of a payload
// and returns it with dates converted to their integer form.
//
// Checks run in a fixed order so the reported error is deterministic:
// empty fields, author/affiliation counts, date format, date order.
func Validate(p Payload) (Normalized, error) {
	for _, s := range []string{p.Title, p.Created, p.Modified, p.Language, p.DOI, p.URL, p.Abstract} {
		if blank(s) {
			return Normalized{}, inputError(msgEmptyField)
		}
	}
	if len(p.Authors) == 0 || len(p.AuthorAffiliations) == 0 || len(p.Keywords) == 0 {
		return Normalized{}, inputError(msgEmptyField)
	}
	if len(p.Authors) != len(p.AuthorAffiliations) {
		return Normalized{}, inputError(msgAuthorsMismatch)
	}

	created, err := EncodeDate(p.Created)
	if err != nil {
		return Normalized{}, err
	}
	modified, err := EncodeDate(p.Modified)
	if err != nil {
		return Normalized{}, err
	}
	if created > modified {
		return Normalized{}, inputError(msgCreatedAfterModify)
	}

	return Normalized{Payload: p, CreatedInt: created, ModifiedInt: modified}, nil
}
