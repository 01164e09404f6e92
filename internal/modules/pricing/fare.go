package pricing

import (
	"fmt"

	"carona/internal/types"
)

// EstimatedMinutes is the travel time in minutes at a constant speed.
// speedKmh must be positive; every SpeedBand satisfies that.
func EstimatedMinutes(distanceKm, speedKmh float64) float64 {
	if speedKmh <= 0 {
		panic(fmt.Sprintf("pricing: non-positive speed %v km/h", speedKmh))
	}
	return distanceKm / speedKmh * 60
}

// Fare prices a trip with the StandardTariff.
func Fare(distanceKm, minutes float64) types.Money {
	return StandardTariff.Fare(distanceKm, minutes)
}

// Fare returns base + km*perKm + minutes*perMinute + insurance, rounded half-up
// to cents.
func (t Tariff) Fare(distanceKm, minutes float64) types.Money {
	total := t.BaseFare + distanceKm*t.PerKm + minutes*t.PerMinute + t.Insurance
	return types.NewMoney(total, t.Currency)
}
