package evaluation

import (
	"errors"
	"math"
)

// ErrZeroAverage is returned when a deviation is requested against an average of 0.
var ErrZeroAverage = errors.New("moving average is zero")

// Round2 rounds half-up to two decimals: floor(x*100 + 0.5) / 100.
// Ties go toward +Inf for negative values too, so -0.125 becomes -0.12.
func Round2(x float64) float64 {
	return math.Floor(x*100+0.5) / 100
}

// MovingAverage is the mean of the last window closes, rounded with Round2.
// ok is false when window is not positive or there are fewer closes than window.
func MovingAverage(closes []float64, window int) (float64, bool) {
	if window <= 0 || len(closes) < window {
		return 0, false
	}

	var sum float64
	for _, c := range closes[len(closes)-window:] {
		sum += c
	}
	return Round2(sum / float64(window)), true
}

// Deviation is the rounded percentage distance of price from ma.
func Deviation(price, ma float64) (float64, error) {
	if ma == 0 {
		return 0, ErrZeroAverage
	}
	d := (price - ma) / ma * 100
	if math.IsNaN(d) || math.IsInf(d, 0) {
		return 0, errors.New("deviation is not finite")
	}
	return Round2(d), nil
}

// DetermineTrend compares today's window average with the same window shifted
// back one sample. With fewer than window+1 closes the trend is UP_OR_FLAT.
func DetermineTrend(closes []float64, window int) Trend {
	n := len(closes)
	if window <= 0 || n < window+1 {
		return TrendUpOrFlat
	}

	today, _ := MovingAverage(closes, window)
	yesterday, _ := MovingAverage(closes[:n-1], window)
	if today >= yesterday {
		return TrendUpOrFlat
	}
	return TrendDown
}

// DetermineSignal classifies a deviation and trend, first match wins:
// within ±2 is YELLOW, below -2 is RED, above +2 is GREEN when trending up or flat, else RED.
func DetermineSignal(deviation float64, trend Trend) (Signal, string) {
	switch {
	case deviation >= -2 && deviation <= 2:
		return SignalYellow, TextApproaching
	case deviation < -2:
		return SignalRed, TextBrokenBelow
	case trend == TrendUpOrFlat:
		return SignalGreen, TextTrending
	default:
		return SignalRed, TextBrokenBelow
	}
}
