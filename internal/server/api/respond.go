package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/studybuddy-app/studybuddy/internal/common"
	"github.com/studybuddy-app/studybuddy/internal/logging"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

type errorBody struct {
	Detail string `json:"detail"`
}

// writeError maps sentinel errors onto HTTP statuses. The error text becomes
// the response detail except for internal failures, which are logged and
// masked.
func writeError(ctx context.Context, w http.ResponseWriter, log logging.Logger, err error) {
	switch {
	case errors.Is(err, common.ErrValidation):
		writeJSON(w, http.StatusBadRequest, errorBody{Detail: err.Error()})
	case errors.Is(err, common.ErrUnauthorized):
		writeJSON(w, http.StatusUnauthorized, errorBody{Detail: "incorrect email/username or password"})
	case errors.Is(err, common.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{Detail: "not found"})
	default:
		log.Error(ctx, "request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Detail: "internal server error"})
	}
}
