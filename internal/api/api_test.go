package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"trading-dashboard/internal/catalog"
	"trading-dashboard/internal/models"
	"trading-dashboard/internal/series"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

var testNow = time.Date(2024, time.May, 10, 14, 5, 6, 789000000, time.UTC)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(t *testing.T, opts ...Option) *gin.Engine {
	t.Helper()
	store, err := catalog.NewStatic(catalog.DefaultTickers())
	if err != nil {
		t.Fatal(err)
	}
	gen := series.NewGenerator(series.WithClock(series.ClockFunc(func() time.Time { return testNow })))
	opts = append([]Option{WithClock(func() time.Time { return testNow })}, opts...)
	return NewRouter(NewAPIHandler(store, gen, opts...))
}

func doGet(r http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("invalid JSON %q: %v", w.Body.String(), err)
	}
}

func TestHealth(t *testing.T) {
	w := doGet(newTestRouter(t), "/api/health")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var body map[string]string
	decode(t, w, &body)
	if body["status"] != "OK" || body["message"] != "Trading Dashboard API" {
		t.Errorf("unexpected body %v", body)
	}
	if body["timestamp"] != "2024-05-10T14:05:06.789Z" {
		t.Errorf("unexpected timestamp %s", body["timestamp"])
	}
}

func TestListStocks(t *testing.T) {
	w := doGet(newTestRouter(t), "/api/stocks")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var stocks []models.Ticker
	decode(t, w, &stocks)
	if len(stocks) != 5 || stocks[0].Symbol != "AAPL" || stocks[4].CompanyName != "Amazon.com" {
		t.Errorf("unexpected stocks %+v", stocks)
	}
	if !strings.Contains(w.Body.String(), `"company_name":"Apple Inc."`) {
		t.Errorf("expected snake_case company_name, got %s", w.Body.String())
	}
}

func TestListAnalysisMethods(t *testing.T) {
	w := doGet(newTestRouter(t), "/api/analysis-methods")
	var methods []models.AnalysisMethod
	decode(t, w, &methods)
	if len(methods) != 3 || methods[0].ID != "price" || methods[2].Name != "Basis-Analyse" {
		t.Errorf("unexpected methods %+v", methods)
	}
}

func TestGetStockPrices(t *testing.T) {
	r := newTestRouter(t)
	tests := []struct {
		path       string
		wantStatus int
		wantLen    int
	}{
		{"/api/stock-prices/AAPL", http.StatusOK, 31},
		{"/api/stock-prices/aapl?period=5", http.StatusOK, 6},
		{"/api/stock-prices/UNLISTED?period=0", http.StatusOK, 1},
		{"/api/prices?symbol=MSFT&period=10", http.StatusOK, 11},
		{"/api/prices?symbol=MSFT", http.StatusOK, 31},
		{"/api/stock-prices/AAPL?period=-1", http.StatusBadRequest, 0},
		{"/api/stock-prices/AAPL?period=abc", http.StatusBadRequest, 0},
		{"/api/stock-prices/AAPL?period=99999999", http.StatusBadRequest, 0},
		{"/api/prices?period=10", http.StatusBadRequest, 0},
	}
	for _, tt := range tests {
		w := doGet(r, tt.path)
		if w.Code != tt.wantStatus {
			t.Errorf("%s: expected %d, got %d (%s)", tt.path, tt.wantStatus, w.Code, w.Body.String())
			continue
		}
		if tt.wantStatus != http.StatusOK {
			var body map[string]string
			decode(t, w, &body)
			if body["error"] == "" {
				t.Errorf("%s: expected error message", tt.path)
			}
			continue
		}
		var s models.PriceSeries
		decode(t, w, &s)
		if len(s) != tt.wantLen {
			t.Errorf("%s: expected %d records, got %d", tt.path, tt.wantLen, len(s))
		}
		if s[len(s)-1].Date != "2024-05-10" {
			t.Errorf("%s: last date %s is not today", tt.path, s[len(s)-1].Date)
		}
	}
}

func TestGetStockSummary(t *testing.T) {
	w := doGet(newTestRouter(t), "/api/stock-prices/AAPL/summary?period=5")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var body struct {
		Symbol string              `json:"symbol"`
		Period int                 `json:"period"`
		Series models.PriceSeries  `json:"series"`
		State  models.DerivedState `json:"state"`
		Ticker *models.Ticker      `json:"ticker"`
	}
	decode(t, w, &body)
	if body.Symbol != "AAPL" || body.Period != 5 || len(body.Series) != 6 {
		t.Fatalf("unexpected summary header %s/%d/%d", body.Symbol, body.Period, len(body.Series))
	}
	if len(body.State.ChartWindow) != 6 {
		t.Errorf("expected 6 bars, got %d", len(body.State.ChartWindow))
	}
	if body.State.CurrentPrice != body.Series[5].Close {
		t.Errorf("current price %v != last close %v", body.State.CurrentPrice, body.Series[5].Close)
	}
	if body.Ticker == nil || body.Ticker.CompanyName != "Apple Inc." {
		t.Errorf("expected ticker details, got %+v", body.Ticker)
	}

	w = doGet(newTestRouter(t), "/api/stock-prices/ZZZ/summary?period=1")
	if w.Code != http.StatusOK || strings.Contains(w.Body.String(), `"ticker"`) {
		t.Errorf("unknown symbols are served without ticker data, got %d %s", w.Code, w.Body.String())
	}
}

func TestGetStockAnalysis(t *testing.T) {
	r := newTestRouter(t)
	w := doGet(r, "/api/stock-prices/TSLA/analysis?method=basic&period=30")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var body struct {
		Symbol string `json:"symbol"`
		Report struct {
			Method  string `json:"method"`
			Summary struct {
				RSI14 *float64 `json:"rsi14"`
			} `json:"summary"`
		} `json:"report"`
	}
	decode(t, w, &body)
	if body.Symbol != "TSLA" || body.Report.Method != "basic" || body.Report.Summary.RSI14 == nil {
		t.Errorf("unexpected analysis %+v", body)
	}

	if w := doGet(r, "/api/stock-prices/TSLA/analysis"); w.Code != http.StatusOK {
		t.Errorf("default method should succeed, got %d", w.Code)
	}
	if w := doGet(r, "/api/stock-prices/TSLA/analysis?method=fourier"); w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown method, got %d", w.Code)
	}
}

func TestExportStockPrices(t *testing.T) {
	w := doGet(newTestRouter(t), "/api/stock-prices/MSFT/export?period=3")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != xlsxContentType {
		t.Errorf("unexpected content type %s", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "MSFT_prices.xlsx") {
		t.Errorf("unexpected disposition %s", cd)
	}
	f, err := excelize.OpenReader(w.Body)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	rows, err := f.GetRows("MSFT")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 5 {
		t.Errorf("expected header + 4 rows, got %d", len(rows))
	}
}

func TestCORSPreflight(t *testing.T) {
	r := newTestRouter(t)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/api/stocks", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("missing CORS header")
	}

	get := doGet(r, "/api/health")
	if get.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("missing CORS header on GET")
	}
}

func TestNoRoute(t *testing.T) {
	w := doGet(newTestRouter(t), "/api/unknown")
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

type failingStore struct{}

func (failingStore) List(context.Context) ([]models.Ticker, error) {
	return nil, errors.New("db down")
}

func (failingStore) Get(context.Context, string) (models.Ticker, error) {
	return models.Ticker{}, errors.New("db down")
}

func TestListStocks_StoreError(t *testing.T) {
	r := NewRouter(NewAPIHandler(failingStore{}, series.NewGenerator()))
	w := doGet(r, "/api/stocks")
	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", w.Code)
	}
}
