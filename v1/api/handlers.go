package api

import (
	"net/http"

	"github.com/Aleph-Alpha/scholar-index/v1/catalog"
)

// fail writes err and logs it when it is not a domain error.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	if statusFor(err) == http.StatusInternalServerError {
		s.logger.ErrorWithContext(r.Context(), "request failed", err, map[string]interface{}{
			"method": r.Method,
			"path":   r.URL.Path,
		})
	}
	writeError(w, err)
}

func (s *Server) handleListCollections(w http.ResponseWriter, r *http.Request) {
	names, err := s.catalog.ListCollections(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, collectionsResponse{
		response:    response{Status: statusOK},
		Collections: names,
	})
}

func (s *Server) handleCreateCollection(w http.ResponseWriter, r *http.Request) {
	var req createCollectionRequest
	if err := decodeBody(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	name, size, err := req.validate()
	if err != nil {
		s.fail(w, r, err)
		return
	}

	if err := s.catalog.CreateCollection(r.Context(), name, size); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, response{Status: statusOK, Message: catalog.CollectionCreatedMessage(name)})
}

func (s *Server) handleCollectionInfo(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	info, err := s.catalog.CollectionInfo(r.Context(), name)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, collectionInfoResponse{
		response:   response{Status: statusOK},
		Name:       info.Name,
		VectorSize: info.VectorSize,
		Distance:   info.Distance,
		Points:     info.PointCount,
	})
}

func (s *Server) handleDeleteCollection(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	if err := s.catalog.DeleteCollection(r.Context(), name); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, response{Status: statusOK, Message: catalog.CollectionDeletedMessage(name)})
}

func (s *Server) handleAddItem(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	var req addItemRequest
	if err := decodeBody(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := catalog.ValidateVector(req.Vector); err != nil {
		s.fail(w, r, err)
		return
	}
	payload, err := req.payload()
	if err != nil {
		s.fail(w, r, err)
		return
	}

	documentID, err := s.catalog.AddItem(r.Context(), name, req.Vector, payload)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, addItemResponse{
		response:   response{Status: statusOK, Message: catalog.ItemAddedMessage(name)},
		DocumentID: documentID,
	})
}

func (s *Server) handleGetItem(w http.ResponseWriter, r *http.Request) {
	name, documentID := r.PathValue("name"), r.PathValue("document_id")

	doc, err := s.catalog.GetItem(r.Context(), name, documentID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, itemResponse{response: response{Status: statusOK}, Item: *doc})
}

func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	name, documentID := r.PathValue("name"), r.PathValue("document_id")

	if err := s.catalog.DeleteItem(r.Context(), name, documentID); err != nil {
		s.fail(w, r, err)
		return
	}
	if s.ledger != nil {
		if err := s.ledger.Forget(r.Context(), name, documentID); err != nil {
			s.logger.WarnWithContext(r.Context(), "failed to forget deleted item", err, map[string]interface{}{
				"collection":  name,
				"document_id": documentID,
			})
		}
	}
	writeJSON(w, http.StatusOK, response{Status: statusOK, Message: catalog.ItemDeletedMessage(name, documentID)})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	var req searchRequest
	if err := decodeBody(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	topK, err := req.topK()
	if err != nil {
		s.fail(w, r, err)
		return
	}

	vector := req.Vector
	if len(vector) == 0 && req.Query != "" {
		if s.embedder == nil {
			s.fail(w, r, invalid("Text queries are not enabled, send a vector."))
			return
		}
		vectors, err := s.embedder.Embed(r.Context(), []string{req.Query})
		if err != nil {
			s.fail(w, r, err)
			return
		}
		vector = vectors[0]
		if isZero(vector) {
			s.fail(w, r, invalid("Query has no searchable terms."))
			return
		}
	}
	if err := catalog.ValidateVector(vector); err != nil {
		s.fail(w, r, err)
		return
	}

	results, err := s.catalog.Search(r.Context(), catalog.Query{
		Collection: name,
		Vector:     vector,
		TopK:       topK,
		Filter:     req.Filter,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, searchResponse{response: response{Status: statusOK}, Results: results})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.catalog.Ping(r.Context()); err != nil {
		s.logger.WarnWithContext(r.Context(), "backend health check failed", err, nil)
		writeJSON(w, http.StatusServiceUnavailable, response{Status: "unavailable", Message: "vector index unreachable"})
		return
	}
	writeJSON(w, http.StatusOK, response{Status: statusOK})
}

// isZero reports whether every component of v is zero. Such a vector has
// no direction and cannot be compared by cosine similarity.
func isZero(v []float32) bool {
	for _, x := range v {
		if x != 0 {
			return false
		}
	}
	return true
}
