package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/marcelsud/webhook-dispatch/webhook"
)

type errorResponse struct {
	Error    string   `json:"error"`
	Problems []string `json:"problems,omitempty"`
}

// writeError maps domain errors to status codes
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	resp := errorResponse{Error: err.Error()}

	var verr *webhook.ValidationError
	switch {
	case errors.As(err, &verr):
		status = http.StatusBadRequest
		resp.Problems = verr.Problems
	case errors.Is(err, webhook.ErrNotFound):
		status = http.StatusNotFound
	}

	writeJSON(w, status, resp)
}

// persistenceWarning returns the message for a change that was applied but not saved
func persistenceWarning(err error) (string, bool) {
	if err != nil && errors.Is(err, webhook.ErrPersistence) {
		return err.Error(), true
	}
	return "", false
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
