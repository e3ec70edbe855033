// Package analysis computes the per-method reports behind the analysis-method list.
package analysis

import (
	"errors"
	"fmt"
	"math"

	"trading-dashboard/internal/dashboard"
	"trading-dashboard/internal/models"
)

// ErrUnknownMethod is returned for a method id not in models.AnalysisMethods.
var ErrUnknownMethod = errors.New("unknown analysis method")

const (
	shortWindow = 5
	longWindow  = 20
	rsiPeriod   = 14
	atrPeriod   = 14
	bandWidth   = 2.0
)

// Point is one day of an analysis report.
type Point struct {
	Date    string   `json:"date"`
	Value   float64  `json:"value"`
	SMA5    *float64 `json:"sma5,omitempty"`
	SMA20   *float64 `json:"sma20,omitempty"`
	BBUpper *float64 `json:"bb_upper,omitempty"`
	BBLower *float64 `json:"bb_lower,omitempty"`
}

// Summary aggregates the analysed values over the whole series.
type Summary struct {
	Last          float64  `json:"last"`
	Min           float64  `json:"min"`
	Max           float64  `json:"max"`
	Average       float64  `json:"average"`
	ChangePercent float64  `json:"change_percent"`
	RSI14         *float64 `json:"rsi14,omitempty"`
	ATR14         *float64 `json:"atr14,omitempty"`
}

// Report is the result of one analysis method.
type Report struct {
	Method  string  `json:"method"`
	Name    string  `json:"name"`
	Points  []Point `json:"points,omitempty"`
	Summary Summary `json:"summary"`
}

// Analyze runs method over series.
func Analyze(method string, series models.PriceSeries) (Report, error) {
	name, ok := methodName(method)
	if !ok {
		return Report{}, fmt.Errorf("%w: %q", ErrUnknownMethod, method)
	}
	if len(series) == 0 {
		return Report{}, dashboard.ErrEmptySeries
	}

	rep := Report{Method: method, Name: name}
	switch method {
	case "price":
		closes := series.Closes()
		sma5 := SMA(closes, shortWindow)
		sma20 := SMA(closes, longWindow)
		upper, lower := BollingerBands(closes, longWindow, bandWidth)
		rep.Points = make([]Point, len(series))
		for i, r := range series {
			rep.Points[i] = Point{
				Date:    r.Date,
				Value:   r.Close,
				SMA5:    opt(sma5[i]),
				SMA20:   opt(sma20[i]),
				BBUpper: opt(upper[i]),
				BBLower: opt(lower[i]),
			}
		}
		rep.Summary = summarize(closes)
	case "volume":
		vols := series.Volumes()
		sma5 := SMA(vols, shortWindow)
		rep.Points = make([]Point, len(series))
		for i, r := range series {
			rep.Points[i] = Point{Date: r.Date, Value: vols[i], SMA5: opt(sma5[i])}
		}
		rep.Summary = summarize(vols)
	case "basic":
		closes := series.Closes()
		highs := make([]float64, len(series))
		lows := make([]float64, len(series))
		for i, r := range series {
			highs[i] = r.High
			lows[i] = r.Low
		}
		rep.Summary = summarize(closes)
		rep.Summary.RSI14 = opt(RSI(closes, rsiPeriod)[len(closes)-1])
		rep.Summary.ATR14 = opt(ATR(highs, lows, closes, atrPeriod)[len(closes)-1])
	}
	return rep, nil
}

func methodName(id string) (string, bool) {
	for _, m := range models.AnalysisMethods {
		if m.ID == id {
			return m.Name, true
		}
	}
	return "", false
}

func summarize(values []float64) Summary {
	s := Summary{
		Last: values[len(values)-1],
		Min:  math.Inf(1),
		Max:  math.Inf(-1),
	}
	sum := 0.0
	for _, v := range values {
		s.Min = math.Min(s.Min, v)
		s.Max = math.Max(s.Max, v)
		sum += v
	}
	s.Average = sum / float64(len(values))
	if first := values[0]; first != 0 {
		s.ChangePercent = (s.Last - first) / first * 100
	}
	return s
}

func opt(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
