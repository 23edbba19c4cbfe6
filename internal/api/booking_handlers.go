package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"mime"
	"net/http"

	"comparaparqueaderos/internal/entities"
	apperrors "comparaparqueaderos/internal/errors"
	"comparaparqueaderos/internal/service"
)

const maxBookingBody = 64 << 10

type BookingCreator interface {
	CreateBooking(ctx context.Context, req entities.BookingRequest) (entities.BookingConfirmation, error)
}

type BookingHandler struct {
	Service BookingCreator
	logger  *slog.Logger
}

func NewBookingHandler(svc BookingCreator, logger *slog.Logger) *BookingHandler {
	return &BookingHandler{Service: svc, logger: logger}
}

// CreateBooking accepts the booking form as JSON or as a form post.
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBookingBody)

	req, err := decodeBookingRequest(r)
	if err != nil {
		apperrors.Write(w, apperrors.ErrBadRequest(msgBadBody))
		return
	}

	confirmation, err := h.Service.CreateBooking(r.Context(), req)
	if err != nil {
		httpErr := toHTTPError(err, msgBookingFailed)
		level := slog.LevelWarn
		if httpErr.Code >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		h.logger.Log(r.Context(), level, "create booking failed",
			"parking_id", req.OfferID,
			"status", httpErr.Code,
			"error", err,
			"request_id", requestIDFromContext(r.Context()),
		)
		apperrors.Write(w, httpErr)
		return
	}

	h.logger.Info("booking initiated",
		"booking_id", confirmation.Booking.ID,
		"reference", confirmation.Reference,
		"parking_id", confirmation.Booking.OfferID,
		"operator_id", confirmation.Booking.OperatorID,
		"total_days", confirmation.Booking.TotalDays,
	)
	writeJSON(w, http.StatusCreated, BookingResponse{
		BookingID:   confirmation.Booking.ID,
		Reference:   confirmation.Reference,
		Status:      confirmation.Booking.Status,
		WhatsappURL: confirmation.DeepLink,
		TotalDays:   confirmation.Booking.TotalDays,
		TotalPrice:  confirmation.Booking.TotalPrice,
	})
}

func decodeBookingRequest(r *http.Request) (entities.BookingRequest, error) {
	var req entities.BookingRequest
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/x-www-form-urlencoded", "multipart/form-data":
		if mediaType == "multipart/form-data" {
			if err := r.ParseMultipartForm(maxBookingBody); err != nil {
				return req, err
			}
		} else if err := r.ParseForm(); err != nil {
			return req, err
		}
		req = entities.BookingRequest{
			OfferID:         r.PostFormValue("parking_id"),
			Vehicle:         r.PostFormValue("vehiculo"),
			CustomerName:    r.PostFormValue("customer_name"),
			CustomerSurname: r.PostFormValue("customer_surname"),
			CustomerPhone:   r.PostFormValue("customer_phone"),
			VehiclePlate:    r.PostFormValue("vehicle_plate"),
			EntryDate:       r.PostFormValue("fechaEntrada"),
			EntryTime:       r.PostFormValue("horaEntrada"),
			ExitDate:        r.PostFormValue("fechaSalida"),
			ExitTime:        r.PostFormValue("horaSalida"),
		}
		return req, nil
	case "", "application/json":
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return req, err
		}
		return req, nil
	default:
		return req, errors.New("unsupported content type " + mediaType)
	}
}

var _ BookingCreator = (*service.BookingService)(nil)
