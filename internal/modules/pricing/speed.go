package pricing

import "time"

// Rush-hour windows as offsets from midnight. Bounds are exclusive.
var (
	morningPeakStart = clock(6, 0)
	morningPeakEnd   = clock(9, 0)
	eveningPeakStart = clock(16, 0)
	eveningPeakEnd   = clock(19, 0)
)

func clock(h, m int) time.Duration {
	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute
}

// Classify picks the speed band for a departure, read as local civil time in
// the value's own location. The first matching rule wins:
// no departure, weekend, morning peak, evening peak, otherwise normal.
func Classify(departure *time.Time) SpeedBand {
	if departure == nil {
		return BandNormal
	}
	switch departure.Weekday() {
	case time.Saturday, time.Sunday:
		return BandWeekend
	}

	h, m, s := departure.Clock()
	tod := clock(h, m) + time.Duration(s)*time.Second + time.Duration(departure.Nanosecond())

	switch {
	case tod > morningPeakStart && tod < morningPeakEnd:
		return BandMorningPeak
	case tod > eveningPeakStart && tod < eveningPeakEnd:
		return BandEveningPeak
	default:
		return BandNormal
	}
}

// Speed returns the average speed in km/h for the band.
func (b SpeedBand) Speed() float64 {
	switch b {
	case BandWeekend:
		return SpeedWeekend
	case BandMorningPeak:
		return SpeedMorningPeak
	case BandEveningPeak:
		return SpeedEveningPeak
	default:
		return SpeedNormal
	}
}

// AverageSpeed returns the expected average speed in km/h for a departure.
// A missing departure is quoted at normal speed.
func AverageSpeed(departure *time.Time) float64 {
	return Classify(departure).Speed()
}
