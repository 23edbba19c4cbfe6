package service

import (
	"fmt"

	"comparaparqueaderos/internal/db"
	"comparaparqueaderos/internal/entities"
	"comparaparqueaderos/internal/utils"
)

const (
	coverageCovered = "Bajo Techo"
	coverageOpenAir = "Aire Libre"
)

// CoverageLabel maps the offer's coverage flag to its display label.
func CoverageLabel(isCovered bool) string {
	if isCovered {
		return coverageCovered
	}
	return coverageOpenAir
}

// BuildQuote prices billableDays of parking at the offer's daily rate.
// Pesos are whole numbers, so the total is an exact product.
func BuildQuote(offer db.ParkingOffer, billableDays int) (entities.Quote, error) {
	vehicleLabel, err := utils.VehicleLabel(offer.Vehicle)
	if err != nil {
		return entities.Quote{}, fmt.Errorf("%w: offer %s: %v", ErrInvalidRequest, offer.ID, err)
	}
	return entities.Quote{
		PricePerDay:   offer.PricePerDay,
		BillableDays:  billableDays,
		TotalPrice:    offer.PricePerDay * int64(billableDays),
		CoverageLabel: CoverageLabel(offer.IsCovered),
		VehicleLabel:  vehicleLabel,
	}, nil
}
