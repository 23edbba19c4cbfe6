package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"comparaparqueaderos/internal/db"
	"comparaparqueaderos/internal/entities"
	apperrors "comparaparqueaderos/internal/errors"
	"comparaparqueaderos/internal/service"
)

type OfferSearcher interface {
	ListCities(ctx context.Context) ([]db.City, error)
	ListAirports(ctx context.Context, cityID string) ([]db.Airport, error)
	SearchOffers(ctx context.Context, p service.SearchParams) ([]entities.OfferResult, error)
	QuoteOffer(ctx context.Context, offerID string, stay service.Stay) (entities.OfferResult, error)
}

type SearchHandler struct {
	Service OfferSearcher
	logger  *slog.Logger
}

func NewSearchHandler(svc OfferSearcher, logger *slog.Logger) *SearchHandler {
	return &SearchHandler{Service: svc, logger: logger}
}

func (h *SearchHandler) ListCities(w http.ResponseWriter, r *http.Request) {
	cities, err := h.Service.ListCities(r.Context())
	if err != nil {
		h.fail(w, r, "list cities", err)
		return
	}
	writeJSON(w, http.StatusOK, CitiesResponse{Cities: cities})
}

func (h *SearchHandler) ListAirports(w http.ResponseWriter, r *http.Request) {
	airports, err := h.Service.ListAirports(r.Context(), r.URL.Query().Get("city_id"))
	if err != nil {
		h.fail(w, r, "list airports", err)
		return
	}
	writeJSON(w, http.StatusOK, AirportsResponse{Airports: airports})
}

// SearchOffers serves the results page listing.
func (h *SearchHandler) SearchOffers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params := service.SearchParams{
		CityID:    q.Get("city_id"),
		AirportID: q.Get("airport_id"),
		Vehicle:   q.Get("vehiculo"),
		Sort:      q.Get("sort"),
		Stay:      stayFromQuery(r),
	}
	offers, err := h.Service.SearchOffers(r.Context(), params)
	if err != nil {
		h.fail(w, r, "search offers", err)
		return
	}
	sortBy := params.Sort
	if sortBy == "" {
		sortBy = service.SortCheapest
	}
	writeJSON(w, http.StatusOK, OffersResponse{Count: len(offers), Sort: sortBy, Offers: offers})
}

func (h *SearchHandler) QuoteOffer(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	result, err := h.Service.QuoteOffer(r.Context(), id, stayFromQuery(r))
	if err != nil {
		h.fail(w, r, "quote offer", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *SearchHandler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	httpErr := toHTTPError(err, msgSearchFailed)
	if httpErr.Code >= http.StatusInternalServerError {
		h.logger.Error(op+" failed", "error", err, "request_id", requestIDFromContext(r.Context()))
	}
	apperrors.Write(w, httpErr)
}

func stayFromQuery(r *http.Request) service.Stay {
	q := r.URL.Query()
	return service.Stay{
		EntryDate: q.Get("fechaEntrada"),
		EntryTime: q.Get("horaEntrada"),
		ExitDate:  q.Get("fechaSalida"),
		ExitTime:  q.Get("horaSalida"),
	}
}

var _ OfferSearcher = (*service.SearchService)(nil)
