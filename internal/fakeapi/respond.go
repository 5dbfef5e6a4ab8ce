package fakeapi

import (
	"encoding/json"
	"net/http"

	"github.com/felixgeelhaar/scribe/internal/domain"
	"github.com/felixgeelhaar/scribe/internal/errors"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeData[T any](w http.ResponseWriter, status int, message string, data T) {
	writeJSON(w, status, domain.Envelope[T]{Success: true, Message: message, Data: data})
}

func writeError(w http.ResponseWriter, status int, message string, fields errors.FieldErrors) {
	writeJSON(w, status, errors.ErrorEnvelope{Success: false, Message: message, Errors: fields})
}

func writeInvalid(w http.ResponseWriter, fields errors.FieldErrors) {
	writeError(w, http.StatusUnprocessableEntity, "The given data was invalid.", fields)
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "Malformed JSON body.", nil)
		return false
	}
	return true
}
