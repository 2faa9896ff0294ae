package http

import (
	"errors"
	"net/http"

	"github.com/tastcoffee/contentops/internal/api/respond"
	"github.com/tastcoffee/contentops/internal/model"
)

// writeDomainError maps the model sentinels to HTTP status codes.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, model.ErrValidation):
		respond.WriteBadRequest(w, err.Error())
	case errors.Is(err, model.ErrUnauthorized):
		respond.WriteUnauthorized(w, err.Error())
	case errors.Is(err, model.ErrNotFound):
		respond.WriteNotFound(w, err.Error())
	default:
		respond.WriteInternalError(w, err.Error())
	}
}
