package dashboard

import (
	"errors"
	"fmt"

	"trading-dashboard/internal/models"
)

// App is the single owner of dashboard state. Every change goes through one
// of its action methods; views only read it.
type App struct {
	Stocks   []models.Ticker
	Selected string
	Method   string
	Online   bool

	Series models.PriceSeries
	State  models.DerivedState
	// LastErr is the most recent fetch failure, cleared by a successful load.
	LastErr error
}

// NewApp returns the initial state: online, price method, nothing loaded.
func NewApp() *App {
	return &App{
		Method: models.AnalysisMethods[0].ID,
		Online: true,
	}
}

// StocksLoaded stores the ticker list and selects the first one when nothing
// is selected yet.
func (a *App) StocksLoaded(stocks []models.Ticker) {
	a.Stocks = stocks
	a.LastErr = nil
	if a.Selected == "" && len(stocks) > 0 {
		a.Selected = stocks[0].Symbol
	}
}

// StocksFailed switches to offline mode.
func (a *App) StocksFailed(err error) {
	a.Online = false
	a.LastErr = err
}

// SelectStock changes the selected symbol and drops data of the previous one.
// It reports whether a new fetch is needed.
func (a *App) SelectStock(symbol string) bool {
	if symbol == "" || symbol == a.Selected {
		return false
	}
	a.Selected = symbol
	a.Series = nil
	a.State = models.DerivedState{}
	return true
}

// MoveSelection selects the neighbour delta positions away in the stock list.
func (a *App) MoveSelection(delta int) bool {
	if len(a.Stocks) == 0 {
		return false
	}
	idx := 0
	for i, s := range a.Stocks {
		if s.Symbol == a.Selected {
			idx = i
			break
		}
	}
	idx = (idx + delta) % len(a.Stocks)
	if idx < 0 {
		idx += len(a.Stocks)
	}
	return a.SelectStock(a.Stocks[idx].Symbol)
}

// SelectMethod sets the analysis method if it is known.
func (a *App) SelectMethod(id string) error {
	for _, m := range models.AnalysisMethods {
		if m.ID == id {
			a.Method = id
			return nil
		}
	}
	return fmt.Errorf("unknown analysis method %q", id)
}

// CycleMethod advances to the next analysis method.
func (a *App) CycleMethod() {
	for i, m := range models.AnalysisMethods {
		if m.ID == a.Method {
			a.Method = models.AnalysisMethods[(i+1)%len(models.AnalysisMethods)].ID
			return
		}
	}
	a.Method = models.AnalysisMethods[0].ID
}

// ToggleOnline flips the connection flag.
func (a *App) ToggleOnline() {
	a.Online = !a.Online
}

// SeriesLoaded stores a freshly fetched series for symbol and derives the view
// state from it. Responses for a symbol that is no longer selected are ignored.
// An empty series leaves the app in the no-data state.
func (a *App) SeriesLoaded(symbol string, series models.PriceSeries) {
	if symbol != a.Selected {
		return
	}
	a.LastErr = nil
	a.Series = series
	state, err := DeriveState(series)
	if errors.Is(err, ErrEmptySeries) {
		a.State = models.DerivedState{}
		return
	}
	a.State = state
}

// SeriesFailed records a failed series fetch. Previously shown data stays.
func (a *App) SeriesFailed(symbol string, err error) {
	if symbol != a.Selected {
		return
	}
	a.LastErr = err
}

// SelectedTicker returns the ticker matching the selected symbol.
func (a *App) SelectedTicker() (models.Ticker, bool) {
	for _, s := range a.Stocks {
		if s.Symbol == a.Selected {
			return s, true
		}
	}
	return models.Ticker{}, false
}

// HasData reports whether a non-empty series is loaded.
func (a *App) HasData() bool {
	return len(a.Series) > 0
}

// MethodName returns the display name of the selected method.
func (a *App) MethodName() string {
	for _, m := range models.AnalysisMethods {
		if m.ID == a.Method {
			return m.Name
		}
	}
	return a.Method
}

// StatusLine is the footer text: connection state, stock count and data origin.
func (a *App) StatusLine() string {
	conn, origin := "Inaktiv", "Mock-Daten"
	if a.Online {
		conn, origin = "Aktiv", "API-Daten"
	}
	return fmt.Sprintf("Verbindung: %s | Aktien: %d | Verwendet %s", conn, len(a.Stocks), origin)
}
