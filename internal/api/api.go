package api

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"trading-dashboard/internal/catalog"
	"trading-dashboard/internal/dashboard"
	"trading-dashboard/internal/models"
	"trading-dashboard/internal/series"
	"trading-dashboard/internal/services/analysis"
	"trading-dashboard/internal/services/export"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type APIHandler struct {
	catalog catalog.Store
	source  series.DataSource
	now     func() time.Time

	streamMinInterval time.Duration
	upgrader          websocket.Upgrader
}

// Option customises an APIHandler.
type Option func(*APIHandler)

// WithClock replaces the clock used for health timestamps.
func WithClock(now func() time.Time) Option {
	return func(h *APIHandler) { h.now = now }
}

// WithStreamMinInterval sets the shortest refresh interval a stream client may ask for.
func WithStreamMinInterval(d time.Duration) Option {
	return func(h *APIHandler) { h.streamMinInterval = d }
}

func NewAPIHandler(store catalog.Store, source series.DataSource, opts ...Option) *APIHandler {
	h := &APIHandler{
		catalog:           store,
		source:            source,
		now:               time.Now,
		streamMinInterval: time.Second,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// the dashboard API is open to every origin, same as the CORS policy
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func SetupRoutes(r *gin.RouterGroup, h *APIHandler) {
	r.GET("/health", h.Health)
	r.HEAD("/health", h.Health)

	r.GET("/stocks", h.ListStocks)
	r.GET("/analysis-methods", h.ListAnalysisMethods)

	prices := r.Group("/stock-prices")
	{
		prices.GET("/:symbol", h.GetStockPrices)
		prices.GET("/:symbol/summary", h.GetStockSummary)
		prices.GET("/:symbol/analysis", h.GetStockAnalysis)
		prices.GET("/:symbol/export", h.ExportStockPrices)
	}
	// query-string form of the same series contract
	r.GET("/prices", h.GetPrices)

	r.GET("/ws", h.StreamPrices)
}

func (h *APIHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "OK",
		"message":   "Trading Dashboard API",
		"timestamp": h.now().UTC().Format("2006-01-02T15:04:05.000Z07:00"),
	})
}

func (h *APIHandler) ListStocks(c *gin.Context) {
	stocks, err := h.catalog.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	if stocks == nil {
		stocks = []models.Ticker{}
	}
	c.JSON(http.StatusOK, stocks)
}

func (h *APIHandler) ListAnalysisMethods(c *gin.Context) {
	c.JSON(http.StatusOK, models.AnalysisMethods)
}

// GetStockPrices: GET /api/stock-prices/:symbol?period=30
func (h *APIHandler) GetStockPrices(c *gin.Context) {
	symbol, s, ok := h.loadSeries(c, c.Param("symbol"))
	if !ok {
		return
	}
	log.Debug().Str("symbol", symbol).Int("records", len(s)).Msg("series generated")
	c.JSON(http.StatusOK, s)
}

// GetPrices: GET /api/prices?symbol=AAPL&period=30
func (h *APIHandler) GetPrices(c *gin.Context) {
	if strings.TrimSpace(c.Query("symbol")) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing symbol"})
		return
	}
	_, s, ok := h.loadSeries(c, c.Query("symbol"))
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s)
}

// GetStockSummary returns the series together with the derived dashboard state.
func (h *APIHandler) GetStockSummary(c *gin.Context) {
	symbol, s, ok := h.loadSeries(c, c.Param("symbol"))
	if !ok {
		return
	}
	state, err := dashboard.DeriveState(s)
	if err != nil {
		writeError(c, err)
		return
	}
	resp := gin.H{
		"symbol": symbol,
		"period": len(s) - 1,
		"series": s,
		"state":  state,
	}
	// symbols outside the catalog are still served, just without company data
	if t, err := h.catalog.Get(c.Request.Context(), symbol); err == nil {
		resp["ticker"] = t
	}
	c.JSON(http.StatusOK, resp)
}

// GetStockAnalysis: GET /api/stock-prices/:symbol/analysis?method=basic&period=30
func (h *APIHandler) GetStockAnalysis(c *gin.Context) {
	method := c.DefaultQuery("method", models.AnalysisMethods[0].ID)
	symbol, s, ok := h.loadSeries(c, c.Param("symbol"))
	if !ok {
		return
	}
	rep, err := analysis.Analyze(method, s)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"symbol": symbol, "report": rep})
}

// ExportStockPrices streams the series as an xlsx workbook.
func (h *APIHandler) ExportStockPrices(c *gin.Context) {
	symbol, s, ok := h.loadSeries(c, c.Param("symbol"))
	if !ok {
		return
	}
	state, err := dashboard.DeriveState(s)
	if err != nil {
		writeError(c, err)
		return
	}
	var buf bytes.Buffer
	if err := export.WriteSeriesXLSX(&buf, symbol, s, state); err != nil {
		writeError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s_prices.xlsx"`, symbol))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// loadSeries parses the period query parameter and generates the series.
// On failure it writes the error response and returns ok=false.
func (h *APIHandler) loadSeries(c *gin.Context, rawSymbol string) (string, models.PriceSeries, bool) {
	symbol := catalog.NormalizeSymbol(rawSymbol)
	period, err := series.ParsePeriod(c.Query("period"))
	if err != nil {
		writeError(c, err)
		return "", nil, false
	}
	s, err := h.source.Series(c.Request.Context(), symbol, period)
	if err != nil {
		writeError(c, err)
		return "", nil, false
	}
	return symbol, s, true
}

func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, series.ErrInvalidArgument), errors.Is(err, analysis.ErrUnknownMethod):
		status = http.StatusBadRequest
	case errors.Is(err, dashboard.ErrEmptySeries):
		c.JSON(http.StatusNotFound, gin.H{"error": "no data available"})
		return
	case errors.Is(err, catalog.ErrNotFound):
		status = http.StatusNotFound
	}
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
