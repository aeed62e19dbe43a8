package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"fintrack/internal/core"
	applog "fintrack/internal/log"
	"fintrack/internal/store"
	"fintrack/internal/user"
)

type errorBody struct {
	Error string `json:"error"`
	Hint  string `json:"hint,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

// validationErrs are the domain sentinels a client can fix by changing its
// request.
var validationErrs = []error{
	core.ErrInvalidKind,
	core.ErrInvalidAmount,
	core.ErrNegativeAmount,
	core.ErrEmptyCategory,
	core.ErrEmptyUserID,
	core.ErrEmptyUsername,
	core.ErrEmptyPassword,
	core.ErrDescriptionSize,
	core.ErrInvalidDate,
	core.ErrInvalidDay,
	core.ErrInvalidMonth,
}

// respondError is the single place service errors become status codes.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	logger := applog.FromContext(r.Context())

	var indexErr *store.IndexError
	switch {
	case errors.As(err, &indexErr):
		logger.WarnContext(r.Context(), "Query needs a composite index",
			applog.FieldError, err, applog.FieldIndexHint, indexErr.Hint)
		respondJSON(w, http.StatusConflict, errorBody{Error: "query requires a composite index", Hint: indexErr.Hint})
	case errors.Is(err, store.ErrUnavailable):
		logger.WarnContext(r.Context(), "Store unavailable", applog.FieldError, err)
		respondJSON(w, http.StatusServiceUnavailable, errorBody{Error: "store unavailable, try again later"})
	case errors.Is(err, store.ErrNotInitialized):
		logger.ErrorContext(r.Context(), "Store not initialized", applog.FieldError, err)
		respondJSON(w, http.StatusInternalServerError, errorBody{Error: "store not initialized"})
	case errors.Is(err, user.ErrUsernameTaken):
		respondJSON(w, http.StatusConflict, errorBody{Error: user.ErrUsernameTaken.Error()})
	case errors.Is(err, user.ErrInvalidCredentials):
		respondJSON(w, http.StatusUnauthorized, errorBody{Error: user.ErrInvalidCredentials.Error()})
	case isValidationErr(err):
		respondJSON(w, http.StatusUnprocessableEntity, errorBody{Error: err.Error()})
	default:
		logger.ErrorContext(r.Context(), "Request failed", applog.FieldError, err,
			applog.FieldMethod, r.Method, applog.FieldPath, r.URL.Path)
		respondJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
	}
}

func isValidationErr(err error) bool {
	for _, sentinel := range validationErrs {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

func decodeBody(r *http.Request, dst any) error {
	return json.NewDecoder(r.Body).Decode(dst)
}
