package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"MarketAnalyst/internal/model"
)

const defaultYahooBaseURL = "https://query1.finance.yahoo.com"

// YahooSource implements Source using the Yahoo Finance public chart API.
// Each daily bar becomes one raw observation; null quote values are kept
// as null so normalization drops those days.
type YahooSource struct {
	BaseURL   string
	Range     string
	Client    *http.Client
	Limiter   *rate.Limiter
	SymbolMap map[string]string // maps company name to Yahoo ticker
}

// NewYahooSource creates a Yahoo source allowing requestsPerSecond outbound
// calls (burst 1). A non-positive rate disables throttling.
func NewYahooSource(proxyURL string, requestsPerSecond float64) *YahooSource {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	limit := rate.Inf
	if requestsPerSecond > 0 {
		limit = rate.Limit(requestsPerSecond)
	}
	return &YahooSource{
		BaseURL: defaultYahooBaseURL,
		Range:   "2y",
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
		Limiter: rate.NewLimiter(limit, 1),
		SymbolMap: map[string]string{
			"SPX500": "^GSPC",
			"SPX":    "^GSPC",
			"SP500":  "^GSPC",
		},
	}
}

func (s *YahooSource) Name() string { return "yahoo" }

func (s *YahooSource) yahooSymbol(company string) string {
	if mapped, ok := s.SymbolMap[company]; ok {
		return mapped
	}
	return company
}

// yahooChart is the response structure from Yahoo Finance chart API.
// Quote values stay raw: Yahoo reports missing bars as null.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []json.RawMessage `json:"open"`
					High   []json.RawMessage `json:"high"`
					Low    []json.RawMessage `json:"low"`
					Close  []json.RawMessage `json:"close"`
					Volume []json.RawMessage `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func rawAt(values []json.RawMessage, i int) json.RawMessage {
	if i >= len(values) {
		return nil
	}
	return values[i]
}

func (s *YahooSource) FetchDocument(ctx context.Context, company string) (*model.CompanyDocument, error) {
	if s.Limiter != nil {
		if err := s.Limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("yahoo rate limit: %w", err)
		}
	}

	u := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=%s",
		s.BaseURL, url.PathEscape(s.yahooSymbol(company)), s.Range)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("yahoo read body: %w", err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCompany, company)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo: status %d, body: %s", resp.StatusCode, string(body))
	}

	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("yahoo decode: %w", err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s", chart.Chart.Error.Description)
	}

	now := time.Now().UTC()
	doc := &model.CompanyDocument{Company: company, CreatedAt: &now}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Indicators.Quote) == 0 {
		return doc, nil
	}

	result := chart.Chart.Result[0]
	quote := result.Indicators.Quote[0]
	doc.HistoricalData = make([]model.RawObservation, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		doc.HistoricalData = append(doc.HistoricalData, model.RawObservation{
			Date: time.Unix(ts, 0).UTC().Format(time.RFC3339),
			Raw: model.RawFields{
				LastClose: rawAt(quote.Close, i),
				LastOpen:  rawAt(quote.Open, i),
				LastMax:   rawAt(quote.High, i),
				LastMin:   rawAt(quote.Low, i),
				Volume:    rawAt(quote.Volume, i),
			},
		})
	}
	return doc, nil
}
