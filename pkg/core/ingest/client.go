// Package ingest fetches market data from the vendor API and adapts it into
// the pipeline's domain types. It implements the pipeline provider
// interfaces; everything downstream is vendor-agnostic.
package ingest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/haotianwudev/ai-hedge-fund-enhanced/pkg/models"
)

const defaultBaseURL = "https://api.financialdatasets.ai"

// Client talks to the financial datasets API. The key comes from
// FINANCIAL_DATASETS_API_KEY unless set explicitly.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient builds a vendor client. An empty baseURL uses the hosted API.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL:    baseURL,
		apiKey:     os.Getenv("FINANCIAL_DATASETS_API_KEY"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// fetch performs one authenticated GET and returns the body along with its
// content type.
func (c *Client) fetch(ctx context.Context, path string, query url.Values) ([]byte, string, error) {
	u := fmt.Sprintf("%s%s?%s", c.baseURL, path, query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, "", fmt.Errorf("create request %s: %w", path, err)
	}
	if c.apiKey != "" {
		req.Header.Set("X-API-KEY", c.apiKey)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("fetch %s: %w", path, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return nil, "", fmt.Errorf("fetch %s: status %d: %s", path, res.StatusCode, string(raw))
	}
	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, "", fmt.Errorf("read %s: %w", path, err)
	}
	return raw, res.Header.Get("Content-Type"), nil
}

// get fetches path and decodes the JSON body into out.
func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	raw, _, err := c.fetch(ctx, path, query)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// Financials returns annual reporting periods, most recent first.
func (c *Client) Financials(ctx context.Context, ticker, bizDate string) ([]models.FinancialPeriod, error) {
	q := url.Values{}
	q.Set("ticker", ticker)
	q.Set("period", "annual")
	q.Set("report_date_lte", bizDate)

	var body struct {
		Periods []models.FinancialPeriod `json:"financials"`
	}
	if err := c.get(ctx, "/financials", q, &body); err != nil {
		return nil, err
	}
	if len(body.Periods) == 0 {
		return nil, fmt.Errorf("financials for %s: %w: vendor returned no periods", ticker, models.ErrInsufficientData)
	}
	return body.Periods, nil
}

// MarketCap returns the market capitalization on the business date, nil when
// the vendor has none.
func (c *Client) MarketCap(ctx context.Context, ticker, bizDate string) (*float64, error) {
	q := url.Values{}
	q.Set("ticker", ticker)
	q.Set("report_date", bizDate)

	var body struct {
		MarketCap *float64 `json:"market_cap"`
	}
	if err := c.get(ctx, "/company/facts", q, &body); err != nil {
		return nil, err
	}
	return body.MarketCap, nil
}

// TrailingEVEBITDA returns the company's own historical EV/EBITDA multiples.
func (c *Client) TrailingEVEBITDA(ctx context.Context, ticker, bizDate string) ([]float64, error) {
	q := url.Values{}
	q.Set("ticker", ticker)
	q.Set("report_date_lte", bizDate)

	var body struct {
		Multiples []struct {
			EVToEBITDA *float64 `json:"ev_to_ebitda"`
		} `json:"metrics"`
	}
	if err := c.get(ctx, "/financial-metrics", q, &body); err != nil {
		return nil, err
	}
	var out []float64
	for _, m := range body.Multiples {
		if m.EVToEBITDA != nil && *m.EVToEBITDA > 0 {
			out = append(out, *m.EVToEBITDA)
		}
	}
	return out, nil
}

// Prices returns the daily bar history ending on the business date.
func (c *Client) Prices(ctx context.Context, ticker, bizDate string) (models.PriceSeries, error) {
	q := url.Values{}
	q.Set("ticker", ticker)
	q.Set("interval", "day")
	q.Set("end_date", bizDate)

	var body struct {
		Prices []models.Price `json:"prices"`
	}
	if err := c.get(ctx, "/prices", q, &body); err != nil {
		return models.PriceSeries{}, err
	}
	series := models.PriceSeries{Ticker: ticker, Bars: body.Prices}
	if !series.Sorted() {
		sort.Slice(series.Bars, func(i, j int) bool {
			return series.Bars[i].Date.Before(series.Bars[j].Date)
		})
	}
	return series, nil
}

// InsiderTrades returns insider transactions filed before the business date.
func (c *Client) InsiderTrades(ctx context.Context, ticker, bizDate string) ([]models.InsiderTrade, error) {
	q := url.Values{}
	q.Set("ticker", ticker)
	q.Set("filing_date_lte", bizDate)

	var body struct {
		Trades []models.InsiderTrade `json:"insider_trades"`
	}
	if err := c.get(ctx, "/insider-trades", q, &body); err != nil {
		return nil, err
	}
	return body.Trades, nil
}

// News returns labelled news items up to the business date. Some vendor
// deployments serve the news feed as a rendered page rather than JSON; those
// responses are routed through the HTML parser instead.
func (c *Client) News(ctx context.Context, ticker, bizDate string) ([]models.NewsItem, error) {
	q := url.Values{}
	q.Set("ticker", ticker)
	q.Set("end_date", bizDate)

	raw, contentType, err := c.fetch(ctx, "/news", q)
	if err != nil {
		return nil, err
	}
	if strings.Contains(contentType, "text/html") {
		return ParseNewsHTML(ticker, bytes.NewReader(raw))
	}

	var body struct {
		News []models.NewsItem `json:"news"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		// Mislabelled pages come back without a JSON body.
		return ParseNewsHTML(ticker, bytes.NewReader(raw))
	}
	return body.News, nil
}
