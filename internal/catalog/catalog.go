// Package catalog serves ticker reference data.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"trading-dashboard/internal/models"

	"gopkg.in/yaml.v3"
)

// ErrNotFound is returned when a symbol is not in the catalog.
var ErrNotFound = errors.New("ticker not found")

var symbolRe = regexp.MustCompile(`^[A-Z0-9]{1,16}$`)

// Store lists reference tickers.
type Store interface {
	List(ctx context.Context) ([]models.Ticker, error)
	Get(ctx context.Context, symbol string) (models.Ticker, error)
}

// DefaultTickers is the built-in catalog.
func DefaultTickers() []models.Ticker {
	return []models.Ticker{
		{Symbol: "AAPL", CompanyName: "Apple Inc.", Sector: "Technology"},
		{Symbol: "MSFT", CompanyName: "Microsoft", Sector: "Technology"},
		{Symbol: "TSLA", CompanyName: "Tesla Inc.", Sector: "Automotive"},
		{Symbol: "GOOGL", CompanyName: "Alphabet Inc.", Sector: "Technology"},
		{Symbol: "AMZN", CompanyName: "Amazon.com", Sector: "Consumer Cyclical"},
	}
}

// NormalizeSymbol trims and upper-cases a symbol.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// Validate checks the ticker list: well-formed, unique symbols and a company name.
func Validate(tickers []models.Ticker) error {
	seen := make(map[string]struct{}, len(tickers))
	for i, t := range tickers {
		if !symbolRe.MatchString(t.Symbol) {
			return fmt.Errorf("ticker %d: invalid symbol %q", i, t.Symbol)
		}
		if strings.TrimSpace(t.CompanyName) == "" {
			return fmt.Errorf("ticker %s: empty company_name", t.Symbol)
		}
		if _, dup := seen[t.Symbol]; dup {
			return fmt.Errorf("ticker %s: duplicate symbol", t.Symbol)
		}
		seen[t.Symbol] = struct{}{}
	}
	return nil
}

// Static is an immutable in-memory catalog.
type Static struct {
	tickers []models.Ticker
}

// NewStatic copies tickers into a new Static store, normalising symbols.
func NewStatic(tickers []models.Ticker) (*Static, error) {
	cp := make([]models.Ticker, len(tickers))
	for i, t := range tickers {
		t.Symbol = NormalizeSymbol(t.Symbol)
		cp[i] = t
	}
	if err := Validate(cp); err != nil {
		return nil, err
	}
	return &Static{tickers: cp}, nil
}

type catalogFile struct {
	Tickers []models.Ticker `yaml:"tickers"`
}

// LoadFile reads a YAML catalog of the form
//
//	tickers:
//	  - symbol: AAPL
//	    company_name: Apple Inc.
//	    sector: Technology
func LoadFile(path string) (*Static, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if len(f.Tickers) == 0 {
		return nil, fmt.Errorf("catalog %s has no tickers", path)
	}
	return NewStatic(f.Tickers)
}

func (s *Static) List(_ context.Context) ([]models.Ticker, error) {
	out := make([]models.Ticker, len(s.tickers))
	copy(out, s.tickers)
	return out, nil
}

func (s *Static) Get(_ context.Context, symbol string) (models.Ticker, error) {
	symbol = NormalizeSymbol(symbol)
	for _, t := range s.tickers {
		if t.Symbol == symbol {
			return t, nil
		}
	}
	return models.Ticker{}, fmt.Errorf("%w: %s", ErrNotFound, symbol)
}
