// Package dashboard turns fetched price series into what the dashboard renders.
package dashboard

import (
	"errors"

	"trading-dashboard/internal/models"
)

const (
	// ChartWindowSize is the number of trailing days drawn as bars.
	ChartWindowSize = 20
	// BarScale is the height of a bar whose close equals the current price.
	BarScale = 80.0
)

// ErrEmptySeries is returned when there is nothing to derive from.
var ErrEmptySeries = errors.New("empty series")

// DeriveState computes current price, window price change and the chart window.
//
// Each bar's up flag compares its close with the predecessor in the full series,
// not the window. The very first record of the series has no predecessor and
// compares against zero. Bar height is relative to the latest close and may
// exceed BarScale.
func DeriveState(series models.PriceSeries) (models.DerivedState, error) {
	if len(series) == 0 {
		return models.DerivedState{}, ErrEmptySeries
	}

	current := series.Last().Close
	start := len(series) - ChartWindowSize
	if start < 0 {
		start = 0
	}

	window := make([]models.ChartBar, 0, len(series)-start)
	for k := start; k < len(series); k++ {
		prev := 0.0
		if k > 0 {
			prev = series[k-1].Close
		}
		rec := series[k]
		window = append(window, models.ChartBar{
			Date:   rec.Date,
			Close:  rec.Close,
			Height: barHeight(rec.Close, current),
			Up:     rec.Close >= prev,
		})
	}

	return models.DerivedState{
		CurrentPrice: current,
		PriceChange:  current - series.First().Close,
		ChartWindow:  window,
	}, nil
}

func barHeight(close, current float64) float64 {
	if current == 0 {
		return 0
	}
	return close / current * BarScale
}
