// README: Tariff and speed-band definitions for trip pricing.
package pricing

import "carona/internal/types"

// Tariff is a linear fare: fixed fees plus per-km and per-minute charges.
type Tariff struct {
	BaseFare  float64
	PerKm     float64
	PerMinute float64
	Insurance float64
	Currency  string
}

// StandardTariff is the tariff every trip is quoted with.
var StandardTariff = Tariff{
	BaseFare:  5.00,
	PerKm:     1.50,
	PerMinute: 0.50,
	Insurance: 2.00,
	Currency:  types.CurrencyBRL,
}

// SpeedBand names the traffic condition a departure falls into.
type SpeedBand string

const (
	BandNormal      SpeedBand = "normal"
	BandWeekend     SpeedBand = "weekend"
	BandMorningPeak SpeedBand = "morning_peak"
	BandEveningPeak SpeedBand = "evening_peak"
)

// Average speeds in km/h for each band.
const (
	SpeedNormal      = 50.0
	SpeedWeekend     = 60.0
	SpeedMorningPeak = 30.0
	SpeedEveningPeak = 35.0
)
