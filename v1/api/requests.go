package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/Aleph-Alpha/scholar-index/v1/articles"
	"github.com/Aleph-Alpha/scholar-index/v1/catalog"
)

// defaultTopK is used when a search request carries no top_k.
const defaultTopK = 1

type createCollectionRequest struct {
	Name       *string `json:"name"`
	VectorSize *int    `json:"vector_size"`
}

type addItemRequest struct {
	Vector  []float32       `json:"vector"`
	Payload json.RawMessage `json:"payload"`
}

type searchRequest struct {
	Vector []float32 `json:"vector"`

	// Query is embedded server side when no vector is given.
	Query  string         `json:"query"`
	TopK   *int           `json:"top_k"`
	Filter catalog.Filter `json:"filter"`
}

type response struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

type addItemResponse struct {
	response
	DocumentID string `json:"document_id"`
}

type collectionsResponse struct {
	response
	Collections []string `json:"collections"`
}

type collectionInfoResponse struct {
	response
	Name       string `json:"name"`
	VectorSize int    `json:"vector_size"`
	Distance   string `json:"distance"`
	Points     uint64 `json:"points"`
}

type searchResponse struct {
	response
	Results []catalog.ScoredDocument `json:"results"`
}

type itemResponse struct {
	response
	Item articles.Document `json:"item"`
}

// invalid builds a structural error, answered with 422.
func invalid(format string, args ...any) error {
	return &catalog.Error{Kind: catalog.ErrInvalidRequest, Message: fmt.Sprintf(format, args...)}
}

// decodeBody reads a single JSON value from the request into dst.
func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		var typeErr *json.UnmarshalTypeError
		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return invalid("Request body is empty.")
		case errors.As(err, &typeErr):
			return invalid("Field '%s' has the wrong type.", typeErr.Field)
		case errors.As(err, &maxErr):
			return invalid("Request body is larger than %d bytes.", maxErr.Limit)
		default:
			return invalid("Request body is not valid JSON.")
		}
	}
	if dec.More() {
		return invalid("Request body must contain a single JSON object.")
	}
	return nil
}

func (req createCollectionRequest) validate() (string, int, error) {
	if req.Name == nil {
		return "", 0, invalid("Field 'name' is required.")
	}
	size := catalog.MaxVectorSize
	if req.VectorSize != nil {
		size = *req.VectorSize
	}
	if err := catalog.ValidateCollectionName(*req.Name); err != nil {
		return "", 0, err
	}
	if err := catalog.ValidateVectorSize(size); err != nil {
		return "", 0, err
	}
	return *req.Name, size, nil
}

// payload decodes the item payload. It must be a non-empty JSON object
// whose known fields have the right types; empty values are left to the
// payload validator.
func (req addItemRequest) payload() (articles.Payload, error) {
	var p articles.Payload

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(req.Payload, &fields); err != nil || len(req.Payload) == 0 {
		return p, invalid("Field 'payload' must be a JSON object.")
	}
	if len(fields) == 0 {
		return p, invalid("Payload cannot be empty.")
	}

	if err := json.Unmarshal(req.Payload, &p); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return p, invalid("Payload field '%s' has the wrong type.", typeErr.Field)
		}
		return p, invalid("Field 'payload' must be a JSON object.")
	}
	return p, nil
}

func (req searchRequest) topK() (int, error) {
	if req.TopK == nil {
		return defaultTopK, nil
	}
	if *req.TopK < 1 {
		return 0, invalid("top_k must be greater than 0.")
	}
	return *req.TopK, nil
}
