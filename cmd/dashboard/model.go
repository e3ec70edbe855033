package main

import (
	"context"
	"time"

	"trading-dashboard/internal/catalog"
	"trading-dashboard/internal/dashboard"
	"trading-dashboard/internal/models"
	"trading-dashboard/internal/series"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"
)

const fetchTimeout = 10 * time.Second

// remote is the part of the API client the dashboard needs.
type remote interface {
	Stocks(ctx context.Context) ([]models.Ticker, error)
	StockPrices(ctx context.Context, symbol string, period int) (models.PriceSeries, error)
}

// Messages.
type stocksMsg struct {
	stocks []models.Ticker
	err    error
}

type seriesMsg struct {
	symbol string
	series models.PriceSeries
	err    error
}

// refreshMsg is sent by the cron scheduler.
type refreshMsg struct{}

type model struct {
	app    *dashboard.App
	api    remote
	mock   series.DataSource
	period int
	width  int
}

func newModel(api remote, mock series.DataSource, period int) model {
	return model{
		app:    dashboard.NewApp(),
		api:    api,
		mock:   mock,
		period: period,
	}
}

func (m model) Init() tea.Cmd {
	return m.fetchStocks()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "up", "k":
			if m.app.MoveSelection(-1) {
				return m, m.fetchSeries()
			}
		case "down", "j":
			if m.app.MoveSelection(1) {
				return m, m.fetchSeries()
			}
		case "m":
			m.app.CycleMethod()
		case "o":
			m.app.ToggleOnline()
			return m, m.refresh()
		case "r":
			return m, m.refresh()
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case refreshMsg:
		return m, m.refresh()

	case stocksMsg:
		if msg.err != nil {
			log.Warn().Err(msg.err).Msg("loading stocks failed, switching to mock data")
			if len(m.app.Stocks) == 0 {
				m.app.StocksLoaded(catalog.DefaultTickers())
			}
			m.app.StocksFailed(msg.err)
		} else {
			m.app.StocksLoaded(msg.stocks)
		}
		return m, m.fetchSeries()

	case seriesMsg:
		if msg.err != nil {
			log.Error().Err(msg.err).Str("symbol", msg.symbol).Msg("loading series failed")
			m.app.SeriesFailed(msg.symbol, msg.err)
			return m, nil
		}
		m.app.SeriesLoaded(msg.symbol, msg.series)
		return m, nil
	}
	return m, nil
}

// refresh reloads the stock list when online and nothing is listed yet,
// otherwise only the selected series.
func (m model) refresh() tea.Cmd {
	if m.app.Online && len(m.app.Stocks) == 0 {
		return m.fetchStocks()
	}
	return m.fetchSeries()
}

func (m model) fetchStocks() tea.Cmd {
	if !m.app.Online {
		return func() tea.Msg { return stocksMsg{stocks: catalog.DefaultTickers()} }
	}
	api := m.api
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		stocks, err := api.Stocks(ctx)
		return stocksMsg{stocks: stocks, err: err}
	}
}

// fetchSeries loads the selected symbol from the API when online and from
// the local generator when offline.
func (m model) fetchSeries() tea.Cmd {
	symbol := m.app.Selected
	if symbol == "" {
		return nil
	}
	period := m.period
	if !m.app.Online {
		mock := m.mock
		return func() tea.Msg {
			s, err := mock.Series(context.Background(), symbol, period)
			return seriesMsg{symbol: symbol, series: s, err: err}
		}
	}
	api := m.api
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		s, err := api.StockPrices(ctx, symbol, period)
		return seriesMsg{symbol: symbol, series: s, err: err}
	}
}
