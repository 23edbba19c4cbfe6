package api

import (
	"encoding/json"
	"errors"
	"net/http"

	apperrors "comparaparqueaderos/internal/errors"
	"comparaparqueaderos/internal/service"
)

const (
	msgUnavailable   = "parqueadero no disponible"
	msgBookingFailed = "No pudimos iniciar la reserva, intenta de nuevo"
	msgSearchFailed  = "No pudimos cargar los parqueaderos, intenta de nuevo"
	msgBadBody       = "solicitud inválida"
)

// toHTTPError maps a service error to a status and a public message.
// fallback is shown for store and unexpected failures.
func toHTTPError(err error, fallback string) *apperrors.HTTPError {
	var vErr *service.ValidationError
	switch {
	case errors.As(err, &vErr):
		return apperrors.ErrBadRequest(vErr.Message)
	case errors.Is(err, service.ErrInvalidRequest):
		return apperrors.ErrBadRequest(msgBadBody)
	case errors.Is(err, service.ErrOfferUnavailable), errors.Is(err, service.ErrOperatorUnavailable):
		return apperrors.ErrNotFound(msgUnavailable)
	case errors.Is(err, service.ErrPersistence):
		return apperrors.ErrUnavailable(fallback)
	default:
		return apperrors.ErrInternal(fallback)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
