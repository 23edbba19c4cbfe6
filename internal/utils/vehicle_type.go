package utils

import (
	"fmt"
	"strings"
)

// Vehicle codes stored in parkings.vehicle and sent by the search form.
const (
	VehicleCar        = "carro"
	VehicleMotorcycle = "moto"
)

// vehicleAliases maps every accepted spelling to its canonical code.
var vehicleAliases = map[string]string{
	"carro":       VehicleCar,
	"car":         VehicleCar,
	"moto":        VehicleMotorcycle,
	"motorcycle":  VehicleMotorcycle,
	"motocicleta": VehicleMotorcycle,
}

var vehicleLabels = map[string]string{
	VehicleCar:        "Carro",
	VehicleMotorcycle: "Moto",
}

// NormalizeVehicleType returns the canonical vehicle code for name.
// Unknown codes are an error; they are never treated as a motorcycle.
func NormalizeVehicleType(name string) (string, error) {
	code, ok := vehicleAliases[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return "", fmt.Errorf("unknown vehicle type %q", name)
	}
	return code, nil
}

// VehicleLabel maps a vehicle code (or alias) to the label shown to customers
// and operators.
func VehicleLabel(name string) (string, error) {
	code, err := NormalizeVehicleType(name)
	if err != nil {
		return "", err
	}
	return vehicleLabels[code], nil
}

// SameVehicleType reports whether two codes or aliases name the same vehicle.
func SameVehicleType(a, b string) bool {
	ca, errA := NormalizeVehicleType(a)
	cb, errB := NormalizeVehicleType(b)
	return errA == nil && errB == nil && ca == cb
}
