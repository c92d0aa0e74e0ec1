package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/readlist/internal/common"
)

const (
	msgCouldNotValidate = "could not validate credentials"
	msgInternal         = "internal error"
)

type errorResponse struct {
	Error string `json:"error"`
}

// httpError maps a service error to a status code and the message shown to
// the client. challenge is set for 401 responses.
func httpError(err error) (status int, msg string, challenge bool) {
	switch {
	case errors.Is(err, common.ErrInvalidCredentials):
		return http.StatusUnauthorized, common.ErrInvalidCredentials.Error(), true
	case common.IsAuthError(err):
		return http.StatusUnauthorized, msgCouldNotValidate, true
	case errors.Is(err, common.ErrWrongPassword):
		return http.StatusUnauthorized, common.ErrWrongPassword.Error(), false
	case errors.Is(err, common.ErrCorruptCredential):
		return http.StatusInternalServerError, msgInternal, false
	case errors.Is(err, common.ErrWeakPassword):
		return http.StatusBadRequest, common.ErrWeakPassword.Error(), false
	case errors.Is(err, common.ErrValidation):
		return http.StatusBadRequest, err.Error(), false
	case errors.Is(err, common.ErrEmailTaken):
		return http.StatusConflict, common.ErrEmailTaken.Error(), false
	case errors.Is(err, common.ErrEmailConflict):
		return http.StatusConflict, common.ErrEmailConflict.Error(), false
	case errors.Is(err, common.ErrBookAlreadyListed):
		return http.StatusConflict, common.ErrBookAlreadyListed.Error(), false
	case errors.Is(err, common.ErrForbidden):
		return http.StatusForbidden, common.ErrForbidden.Error(), false
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound, common.ErrorNotFound.Error(), false
	case errors.Is(err, common.ErrUnsupported):
		return http.StatusNotImplemented, common.ErrUnsupported.Error(), false
	}
	return http.StatusInternalServerError, msgInternal, false
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, msg, challenge := httpError(err)

	switch {
	case status >= http.StatusInternalServerError:
		s.logger.Error(r.Context(), "request failed", "error", err.Error(), "request_id", requestIDFrom(r.Context()))
	case status == http.StatusUnauthorized:
		s.logger.Debug(r.Context(), "request rejected", "reason", err.Error(), "request_id", requestIDFrom(r.Context()))
	}

	if challenge {
		w.Header().Set("WWW-Authenticate", common.BearerScheme)
	}
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
