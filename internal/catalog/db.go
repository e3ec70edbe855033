package catalog

import (
	"context"
	"errors"
	"fmt"

	"trading-dashboard/internal/models"

	"gorm.io/gorm"
)

// DB is a catalog backed by the tickers table.
type DB struct {
	db *gorm.DB
}

// NewDB wraps an open connection. The tickers table must already be migrated.
func NewDB(db *gorm.DB) *DB {
	return &DB{db: db}
}

// SeedIfEmpty inserts tickers when the table has no rows yet.
func (s *DB) SeedIfEmpty(ctx context.Context, tickers []models.Ticker) (int, error) {
	if err := Validate(tickers); err != nil {
		return 0, err
	}
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Ticker{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count tickers: %w", err)
	}
	if count > 0 {
		return 0, nil
	}
	rows := make([]models.Ticker, len(tickers))
	copy(rows, tickers)
	if err := s.db.WithContext(ctx).Create(&rows).Error; err != nil {
		return 0, fmt.Errorf("seed tickers: %w", err)
	}
	return len(rows), nil
}

func (s *DB) List(ctx context.Context) ([]models.Ticker, error) {
	var out []models.Ticker
	if err := s.db.WithContext(ctx).Order("id asc").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list tickers: %w", err)
	}
	return out, nil
}

func (s *DB) Get(ctx context.Context, symbol string) (models.Ticker, error) {
	symbol = NormalizeSymbol(symbol)
	var t models.Ticker
	err := s.db.WithContext(ctx).Where("symbol = ?", symbol).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Ticker{}, fmt.Errorf("%w: %s", ErrNotFound, symbol)
	}
	if err != nil {
		return models.Ticker{}, fmt.Errorf("get ticker %s: %w", symbol, err)
	}
	return t, nil
}
