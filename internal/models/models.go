package models

import (
	"time"
)

// DateLayout is the wire format of PriceRecord.Date.
const DateLayout = "2006-01-02"

// Ticker represents a tradable instrument shown in the dashboard
type Ticker struct {
	ID          uint      `json:"-" gorm:"primaryKey" yaml:"-"`
	Symbol      string    `json:"symbol" gorm:"uniqueIndex;size:16;not null" yaml:"symbol"`
	CompanyName string    `json:"company_name" gorm:"not null" yaml:"company_name"`
	Sector      string    `json:"sector" yaml:"sector"`
	CreatedAt   time.Time `json:"-" yaml:"-"`
	UpdatedAt   time.Time `json:"-" yaml:"-"`
}

// PriceRecord is one trading day of OHLCV data.
// No ordering between Open, High, Low and Close is enforced.
type PriceRecord struct {
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume"`
}

// PriceSeries is ordered oldest to newest.
type PriceSeries []PriceRecord

// First returns the oldest record. The series must not be empty.
func (s PriceSeries) First() PriceRecord { return s[0] }

// Last returns the newest record. The series must not be empty.
func (s PriceSeries) Last() PriceRecord { return s[len(s)-1] }

// Closes extracts the close prices in series order.
func (s PriceSeries) Closes() []float64 {
	closes := make([]float64, len(s))
	for i, r := range s {
		closes[i] = r.Close
	}
	return closes
}

// Volumes extracts the traded volumes in series order.
func (s PriceSeries) Volumes() []float64 {
	vols := make([]float64, len(s))
	for i, r := range s {
		vols[i] = float64(r.Volume)
	}
	return vols
}

// AnalysisMethod is a chart mode offered to the dashboard
type AnalysisMethod struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// AnalysisMethods lists the chart modes in display order.
var AnalysisMethods = []AnalysisMethod{
	{ID: "price", Name: "Kursverlauf"},
	{ID: "volume", Name: "Volumen"},
	{ID: "basic", Name: "Basis-Analyse"},
}

// ChartBar is one bar of the dashboard chart window
type ChartBar struct {
	Date   string  `json:"date"`
	Close  float64 `json:"close"`
	Height float64 `json:"height"`
	Up     bool    `json:"up"`
}

// DerivedState is what the dashboard shows for one fetched series
type DerivedState struct {
	CurrentPrice float64    `json:"current_price"`
	PriceChange  float64    `json:"price_change"`
	ChartWindow  []ChartBar `json:"chart_window"`
}
