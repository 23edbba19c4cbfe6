package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Pinger interface {
	PingContext(ctx context.Context) error
}

type RouterDeps struct {
	Bookings BookingCreator
	Search   OfferSearcher
	DB       Pinger
	Logger   *slog.Logger
}

func NewRouter(d RouterDeps) *mux.Router {
	bookingHandler := NewBookingHandler(d.Bookings, d.Logger)
	searchHandler := NewSearchHandler(d.Search, d.Logger)

	r := mux.NewRouter()
	r.Use(recoverMiddleware(d.Logger))
	r.Use(requestIDMiddleware)
	r.Use(observabilityMiddleware(d.Logger))

	r.HandleFunc("/healthz", healthHandler(d.DB)).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/cities", searchHandler.ListCities).Methods("GET")
	api.HandleFunc("/airports", searchHandler.ListAirports).Methods("GET")
	api.HandleFunc("/offers", searchHandler.SearchOffers).Methods("GET")
	api.HandleFunc("/offers/{id}/quote", searchHandler.QuoteOffer).Methods("GET")
	api.HandleFunc("/bookings", bookingHandler.CreateBooking).Methods("POST")

	return r
}

func healthHandler(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db == nil {
			writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Database: "skipped"})
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: "degraded", Database: "unreachable"})
			return
		}
		writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Database: "ok"})
	}
}
