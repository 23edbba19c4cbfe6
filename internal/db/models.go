package db

import "time"

const BookingStatusInitiated = "initiated"

type City struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type Airport struct {
	ID     string `json:"id"`
	CityID string `json:"city_id"`
	Name   string `json:"name"`
	Code   string `json:"code"`
	Slug   string `json:"slug"`
}

type Operator struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	WhatsappNumber string `json:"whatsapp_number"`
	IsActive       bool   `json:"is_active"`
}

// ParkingOffer is a row of parkings joined with its operator.
type ParkingOffer struct {
	ID          string   `json:"id"`
	OperatorID  string   `json:"operator_id"`
	AirportID   string   `json:"airport_id"`
	CityID      string   `json:"city_id"`
	Name        string   `json:"name"`
	Slug        string   `json:"slug"`
	PricePerDay int64    `json:"price_per_day"`
	Currency    string   `json:"currency"`
	Vehicle     string   `json:"vehicle"`
	IsCovered   bool     `json:"is_covered"`
	HasShuttle  bool     `json:"has_shuttle"`
	DistanceKm  float64  `json:"distance_km"`
	LogoURL     string   `json:"logo_url,omitempty"`
	Services    string   `json:"services,omitempty"`
	IsActive    bool     `json:"is_active"`
	Operator    Operator `json:"operator"`
}

// Bookable reports whether the offer and its operator can take a booking.
func (o ParkingOffer) Bookable() bool {
	return o.IsActive && o.Operator.IsActive && o.Operator.WhatsappNumber != ""
}

type Booking struct {
	ID              string    `json:"id"`
	OfferID         string    `json:"parking_id"`
	OperatorID      string    `json:"operator_id"`
	CustomerName    string    `json:"customer_name"`
	CustomerSurname string    `json:"customer_surname"`
	CustomerPhone   string    `json:"customer_phone"`
	VehiclePlate    string    `json:"vehicle_plate"`
	Vehicle         string    `json:"vehicle"`
	EntryDate       string    `json:"start_date"`
	EntryTime       string    `json:"entry_time"`
	ExitDate        string    `json:"end_date"`
	ExitTime        string    `json:"exit_time"`
	PricePerDay     int64     `json:"price_per_day"`
	TotalDays       int       `json:"total_days"`
	TotalPrice      int64     `json:"total_price"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
}

// OperatorBookingCount is one line of the daily digest.
type OperatorBookingCount struct {
	OperatorID   string
	OperatorName string
	Bookings     int
	TotalPrice   int64
}
