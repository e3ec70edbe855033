package analysis

import (
	"math"
)

func nanSlice(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

// SMA returns the simple moving average for every index; indices before the
// first full window are NaN.
func SMA(values []float64, period int) []float64 {
	out := nanSlice(len(values))
	if period <= 0 || len(values) < period {
		return out
	}
	sum := 0.0
	for i, v := range values {
		sum += v
		if i >= period {
			sum -= values[i-period]
		}
		if i >= period-1 {
			out[i] = sum / float64(period)
		}
	}
	return out
}

// BollingerBands returns upper and lower bands at k standard deviations
// around SMA(period).
func BollingerBands(values []float64, period int, k float64) (upper, lower []float64) {
	upper = nanSlice(len(values))
	lower = nanSlice(len(values))
	middle := SMA(values, period)
	for i := range values {
		if math.IsNaN(middle[i]) {
			continue
		}
		variance := 0.0
		for j := i - period + 1; j <= i; j++ {
			d := values[j] - middle[i]
			variance += d * d
		}
		sd := math.Sqrt(variance / float64(period))
		upper[i] = middle[i] + k*sd
		lower[i] = middle[i] - k*sd
	}
	return upper, lower
}

// RSI is the Wilder-smoothed relative strength index. The first value is at
// index period.
func RSI(values []float64, period int) []float64 {
	out := nanSlice(len(values))
	if period <= 0 || len(values) < period+1 {
		return out
	}
	p := float64(period)

	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		g, l := gainLoss(values[i] - values[i-1])
		avgGain += g
		avgLoss += l
	}
	avgGain /= p
	avgLoss /= p
	out[period] = rsiValue(avgGain, avgLoss)

	for i := period + 1; i < len(values); i++ {
		g, l := gainLoss(values[i] - values[i-1])
		avgGain = (avgGain*(p-1) + g) / p
		avgLoss = (avgLoss*(p-1) + l) / p
		out[i] = rsiValue(avgGain, avgLoss)
	}
	return out
}

func gainLoss(change float64) (float64, float64) {
	if change > 0 {
		return change, 0
	}
	return 0, -change
}

func rsiValue(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		if avgGain == 0 {
			return 50
		}
		return 100
	}
	return 100 - 100/(1+avgGain/avgLoss)
}

// ATR is the Wilder-smoothed average true range. High may sit below low in
// synthetic data, so the bar range is taken as an absolute value.
func ATR(highs, lows, closes []float64, period int) []float64 {
	n := len(closes)
	out := nanSlice(n)
	if period <= 0 || n < period+1 || len(highs) != n || len(lows) != n {
		return out
	}
	tr := make([]float64, n)
	for i := 1; i < n; i++ {
		tr[i] = math.Max(math.Abs(highs[i]-lows[i]),
			math.Max(math.Abs(highs[i]-closes[i-1]), math.Abs(lows[i]-closes[i-1])))
	}
	p := float64(period)
	sum := 0.0
	for i := 1; i <= period; i++ {
		sum += tr[i]
	}
	out[period] = sum / p
	for i := period + 1; i < n; i++ {
		out[i] = (out[i-1]*(p-1) + tr[i]) / p
	}
	return out
}
