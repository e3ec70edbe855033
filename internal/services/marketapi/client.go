package marketapi

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"trading-dashboard/internal/models"

	"github.com/go-resty/resty/v2"
)

// Client talks to the dashboard HTTP API.
type Client struct {
	baseURL string
	client  *resty.Client
}

// HealthStatus is the body of GET /health.
type HealthStatus struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("market api: status %d", e.StatusCode)
	}
	return fmt.Sprintf("market api: status %d: %s", e.StatusCode, e.Message)
}

type errorBody struct {
	Error string `json:"error"`
}

// NewClient creates a client for the API rooted at baseURL, e.g. http://localhost:5000/api.
func NewClient(baseURL string) *Client {
	client := resty.New()
	client.SetTimeout(15 * time.Second)
	client.SetHeader("Accept", "application/json")

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	var out HealthStatus
	if err := c.get(ctx, "/health", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Stocks(ctx context.Context) ([]models.Ticker, error) {
	var out []models.Ticker
	if err := c.get(ctx, "/stocks", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// StockPrices fetches period+1 daily records for symbol.
func (c *Client) StockPrices(ctx context.Context, symbol string, period int) (models.PriceSeries, error) {
	query := map[string]string{"period": strconv.Itoa(period)}
	var out models.PriceSeries
	if err := c.get(ctx, "/stock-prices/"+symbol, query, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) AnalysisMethods(ctx context.Context) ([]models.AnalysisMethod, error) {
	var out []models.AnalysisMethod
	if err := c.get(ctx, "/analysis-methods", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, path string, query map[string]string, out interface{}) error {
	req := c.client.R().SetContext(ctx)
	if query != nil {
		req.SetQueryParams(query)
	}
	resp, err := req.Get(c.baseURL + path)
	if err != nil {
		return fmt.Errorf("market api: GET %s: %w", path, err)
	}
	if resp.IsError() {
		var body errorBody
		_ = json.Unmarshal(resp.Body(), &body)
		return &StatusError{StatusCode: resp.StatusCode(), Message: body.Error}
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("market api: decode %s: %w", path, err)
	}
	return nil
}
