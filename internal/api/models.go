package api

import (
	"comparaparqueaderos/internal/db"
	"comparaparqueaderos/internal/entities"
)

// BookingResponse is returned by POST /api/bookings. The browser opens
// WhatsappURL to hand the booking off to the operator.
type BookingResponse struct {
	BookingID   string `json:"booking_id"`
	Reference   string `json:"reference"`
	Status      string `json:"status"`
	WhatsappURL string `json:"whatsapp_url"`
	TotalDays   int    `json:"total_days"`
	TotalPrice  int64  `json:"total_price"`
}

type OffersResponse struct {
	Count  int                    `json:"count"`
	Sort   string                 `json:"sort"`
	Offers []entities.OfferResult `json:"offers"`
}

type CitiesResponse struct {
	Cities []db.City `json:"cities"`
}

type AirportsResponse struct {
	Airports []db.Airport `json:"airports"`
}

type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}
