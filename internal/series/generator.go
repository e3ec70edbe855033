// Package series produces synthetic daily OHLCV price series.
package series

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"trading-dashboard/internal/models"
)

const (
	// DefaultPeriod is used when a request does not name a period.
	DefaultPeriod = 30
	// MaxPeriod bounds periods accepted from untrusted input (about a century).
	MaxPeriod = 36500

	basePriceMin   = 100.0
	basePriceRange = 50.0
	changeRange    = 10.0
	openSpread     = 2.0
	wickSpread     = 3.0
	volumeMin      = 500000
	volumeRange    = 1000000
)

// ErrInvalidArgument reports a malformed or negative period.
var ErrInvalidArgument = errors.New("invalid argument")

// Clock supplies the generation date.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// Source supplies uniform values in [0, 1). *rand.Rand satisfies it.
type Source interface {
	Float64() float64
}

type globalSource struct{}

// math/rand top-level functions are safe for concurrent use.
func (globalSource) Float64() float64 { return rand.Float64() }

// DataSource is anything able to return a daily series for a symbol.
// The synthetic Generator is one; a real market-data provider would be another.
type DataSource interface {
	Series(ctx context.Context, symbol string, period int) (models.PriceSeries, error)
}

// Generator builds synthetic series around a random base price.
// It holds no mutable state and may be shared between goroutines as long as
// its Source is safe for concurrent use.
type Generator struct {
	clock  Clock
	source Source
}

// Option customises a Generator.
type Option func(*Generator)

// WithClock replaces the wall clock.
func WithClock(c Clock) Option {
	return func(g *Generator) { g.clock = c }
}

// WithSource replaces the random source.
func WithSource(s Source) Option {
	return func(g *Generator) { g.source = s }
}

// NewGenerator returns a Generator using time.Now and the global math/rand source
// unless overridden.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{
		clock:  ClockFunc(time.Now),
		source: globalSource{},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate returns period+1 daily records ending today, oldest first.
//
// Each close deviates from the base price by a fresh U[-5,5) draw scaled by the
// day's distance from today, so older days spread wider. Open, high, low and
// volume are drawn independently of each other.
func (g *Generator) Generate(symbol string, period int) (models.PriceSeries, error) {
	if period < 0 {
		return nil, fmt.Errorf("%w: period must be non-negative, got %d", ErrInvalidArgument, period)
	}

	now := g.clock.Now()
	y, m, d := now.Date()
	// noon keeps AddDate away from DST edges
	today := time.Date(y, m, d, 12, 0, 0, 0, now.Location())

	basePrice := basePriceMin + g.source.Float64()*basePriceRange

	out := make(models.PriceSeries, 0, period+1)
	for i := period; i >= 0; i-- {
		date := today.AddDate(0, 0, -i)

		priceChange := (g.source.Float64() - 0.5) * changeRange
		closePrice := basePrice + priceChange*float64(i)

		out = append(out, models.PriceRecord{
			Date:   date.Format(models.DateLayout),
			Open:   closePrice - g.source.Float64()*openSpread,
			High:   closePrice + g.source.Float64()*wickSpread,
			Low:    closePrice - g.source.Float64()*wickSpread,
			Close:  closePrice,
			Volume: int64(math.Floor(g.source.Float64()*volumeRange)) + volumeMin,
		})
	}
	return out, nil
}

// Series implements DataSource.
func (g *Generator) Series(_ context.Context, symbol string, period int) (models.PriceSeries, error) {
	return g.Generate(symbol, period)
}

// ParsePeriod parses a period taken from a request. An empty value yields
// DefaultPeriod; anything that is not a non-negative integer up to MaxPeriod
// is rejected with ErrInvalidArgument.
func ParsePeriod(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultPeriod, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: period %q is not an integer", ErrInvalidArgument, raw)
	}
	if n < 0 {
		return 0, fmt.Errorf("%w: period must be non-negative, got %d", ErrInvalidArgument, n)
	}
	if n > MaxPeriod {
		return 0, fmt.Errorf("%w: period %d exceeds %d", ErrInvalidArgument, n, MaxPeriod)
	}
	return n, nil
}
