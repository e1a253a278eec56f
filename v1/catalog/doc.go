// Package catalog implements collection and item management and
// filtered similarity search for scholarly articles.
//
// A Catalog sits between the HTTP boundary (or the ingest pipeline) and a
// vectordb.Index. It enforces the payload rules from package articles,
// generates point and document identifiers, compiles client filters into
// vectordb.FilterSet values and formats search hits back into documents
// with YYYY-MM-DD dates.
//
// Failures a client can correct are returned as *Error values wrapping one
// of the sentinel errors (ErrCollectionAlreadyExists,
// ErrCollectionDoesNotExist, ErrDocumentDoesNotExist, ErrInputData,
// ErrInvalidDateFormat, ErrInvalidRequest). Kind and Message extract the
// category and client-facing text. Any other error is a backend failure.
//
//	cat := catalog.New(catalog.Params{Index: index, Logger: log})
//	if err := cat.CreateCollection(ctx, "papers", 384); err != nil {
//	    return err
//	}
//	id, err := cat.AddItem(ctx, "papers", vec, payload)
//	hits, err := cat.Search(ctx, catalog.Query{
//	    Collection: "papers",
//	    Vector:     vec,
//	    TopK:       5,
//	    Filter:     catalog.Filter{"authors": []any{"Ada Lovelace"}},
//	})
package catalog
