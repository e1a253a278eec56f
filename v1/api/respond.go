package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/Aleph-Alpha/scholar-index/v1/catalog"
)

const statusOK = "ok"

// statusFor maps a catalog error onto the HTTP status code. Each error
// kind has exactly one status.
func statusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, catalog.ErrCollectionAlreadyExists),
		errors.Is(err, catalog.ErrInputData):
		return http.StatusBadRequest
	case errors.Is(err, catalog.ErrCollectionDoesNotExist),
		errors.Is(err, catalog.ErrDocumentDoesNotExist):
		return http.StatusNotFound
	case errors.Is(err, catalog.ErrInvalidDateFormat),
		errors.Is(err, catalog.ErrInvalidRequest):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// statusText is the "status" value of an error body, e.g. "not found".
func statusText(code int) string {
	return strings.ToLower(http.StatusText(code))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError answers with the status and message of err. Internal errors
// are logged by the caller and reduced to a generic message.
func writeError(w http.ResponseWriter, err error) {
	code := statusFor(err)
	msg := catalog.Message(err)
	if code == http.StatusInternalServerError || msg == "" {
		msg = statusText(code)
	}
	writeJSON(w, code, response{Status: statusText(code), Message: msg})
}
