package utils

import (
	"fmt"
	"math"
)

// Fare estimation constants. The estimate mirrors what a commuter would
// reason about: fuel burned for the distance plus a wear-and-tear share.
const (
	fuelPriceINRPerLiter = 105.0
	vehicleKmPerLiter    = 15.0
	wearSharePercent     = 30.0
)

// EstimateCost returns a fair per-seat cost in whole INR for a ride of the
// given distance, with a human-readable breakdown of the calculation.
// It is a pure function; callers decide whether to apply the estimate.
func EstimateCost(distanceKm float64) (int64, string, error) {
	if distanceKm <= 0 {
		return 0, "", fmt.Errorf("distance must be positive, got %.2f", distanceKm)
	}

	liters := distanceKm / vehicleKmPerLiter
	fuelCost := liters * fuelPriceINRPerLiter
	wearCost := fuelCost * wearSharePercent / 100.0
	total := int64(math.Round(fuelCost + wearCost))

	breakdown := fmt.Sprintf(
		"%.1f km at %.0f km/l uses %.2f l fuel = %s; +%.0f%% wear and tear %s; estimated fair cost %s",
		distanceKm, vehicleKmPerLiter, liters,
		FormatINR(int64(math.Round(fuelCost))),
		wearSharePercent,
		FormatINR(int64(math.Round(wearCost))),
		FormatINR(total),
	)
	return total, breakdown, nil
}
