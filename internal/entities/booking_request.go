package entities

import "comparaparqueaderos/internal/db"

// BookingRequest is what the booking form submits. Dates are YYYY-MM-DD and
// times HH:MM, both read as civil time.
type BookingRequest struct {
	OfferID         string `json:"parking_id"`
	Vehicle         string `json:"vehiculo"`
	CustomerName    string `json:"customer_name"`
	CustomerSurname string `json:"customer_surname"`
	CustomerPhone   string `json:"customer_phone"`
	VehiclePlate    string `json:"vehicle_plate"`
	EntryDate       string `json:"fechaEntrada"`
	EntryTime       string `json:"horaEntrada"`
	ExitDate        string `json:"fechaSalida"`
	ExitTime        string `json:"horaSalida"`
}

type BookingConfirmation struct {
	Booking   db.Booking `json:"booking"`
	Reference string     `json:"reference"`
	Message   string     `json:"message"`
	DeepLink  string     `json:"whatsapp_url"`
}

type Quote struct {
	PricePerDay   int64  `json:"price_per_day"`
	BillableDays  int    `json:"total_days"`
	TotalPrice    int64  `json:"total_price"`
	CoverageLabel string `json:"coverage_label"`
	VehicleLabel  string `json:"vehicle_label"`
}

// OfferResult is one line of the search listing.
type OfferResult struct {
	Offer db.ParkingOffer `json:"offer"`
	Quote Quote           `json:"quote"`
}
