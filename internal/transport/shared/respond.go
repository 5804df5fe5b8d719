// Package shared centralizes JSON response writing so every handler
// produces the same envelopes.
package shared

import (
	"encoding/json"
	"net/http"

	pkgerrors "campreg/pkg/errors"
)

// WriteJSON writes v as a JSON body with the given status.
func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError translates a classified error into the public
// {success:false, message} envelope. Backend internals never leak: only
// the DomainError message is shown, and unclassified errors collapse to
// a generic one.
func WriteError(w http.ResponseWriter, err error) {
	code := pkgerrors.CodeOf(err)
	message := pkgerrors.MessageFor(err)
	if code == pkgerrors.CodeInternal || code == pkgerrors.CodeUnavailable {
		message = "Erro ao processar requisição. Por favor, tente novamente."
	}
	WriteJSON(w, pkgerrors.ToHTTPStatus(code), map[string]interface{}{
		"success": false,
		"message": message,
	})
}

// WriteNotFound writes the opaque 404 used by the whole admin surface,
// identical for a failed gate check and a missing resource.
func WriteNotFound(w http.ResponseWriter) {
	WriteJSON(w, http.StatusNotFound, map[string]string{"error": "Not found"})
}
