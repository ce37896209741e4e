package collector

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"MarketAnalyst/internal/model"
	"MarketAnalyst/internal/report"
)

// MockSource returns a deterministic synthetic history for development and testing.
type MockSource struct {
	Price float64
	Days  int
	// End is the date of the last generated bar; zero means today.
	End time.Time
}

func (m *MockSource) Name() string { return "mock" }

func (m *MockSource) FetchDocument(ctx context.Context, company string) (*model.CompanyDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	end := m.End
	if end.IsZero() {
		end = time.Now().UTC()
	}
	return &model.CompanyDocument{
		Company:        company,
		HistoricalData: generateMockObservations(m.Price, m.Days, end),
	}, nil
}

func generateMockObservations(basePrice float64, count int, end time.Time) []model.RawObservation {
	obs := make([]model.RawObservation, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		obs[i] = model.RawObservation{
			Date: end.AddDate(0, 0, -(count - 1 - i)).Format(model.DateLayout),
			Raw: model.RawFields{
				LastOpen:  model.RawNumber(p * 0.999),
				LastMax:   model.RawNumber(p * 1.005),
				LastMin:   model.RawNumber(p * 0.995),
				LastClose: model.RawNumber(p),
				Volume:    model.RawNumber(1000000),
			},
		}
	}
	return obs
}

// Collector orchestrates document fetching and report generation.
type Collector struct {
	Source  Source
	Options report.Options
}

// NewCollector creates a new Collector.
func NewCollector(source Source, opts report.Options) *Collector {
	return &Collector{Source: source, Options: opts}
}

// Collect fetches the company's document and generates its report.
func (c *Collector) Collect(ctx context.Context, company string) (*model.Report, error) {
	doc, err := c.Source.FetchDocument(ctx, company)
	if err != nil {
		return nil, fmt.Errorf("fetch %s from %s: %w", company, c.Source.Name(), err)
	}

	r := report.Generate(doc, c.Options)
	if r.Metrics == nil {
		log.Warn().Str("company", company).Str("source", c.Source.Name()).
			Int("raw_points", len(doc.HistoricalData)).Msg("no usable historical data")
	} else {
		log.Debug().Str("company", company).Str("source", c.Source.Name()).
			Str("last_date", r.Metrics.Latest.Date.String()).Msg("report generated")
	}
	return r, nil
}

// Result is the outcome of one company in CollectAll.
type Result struct {
	Company  string
	Report   *model.Report
	Err      error
	Duration time.Duration
}

// CollectAll generates one report per company with at most workers running
// at once. Results keep the order of companies; failures are reported per company.
func (c *Collector) CollectAll(ctx context.Context, companies []string, workers int) []Result {
	if workers <= 0 {
		workers = 1
	}
	results := make([]Result, len(companies))
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup

	for i, company := range companies {
		results[i].Company = company
		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			results[i].Err = ctx.Err()
			continue
		}
		wg.Add(1)
		go func(i int, company string) {
			defer wg.Done()
			defer func() { <-sem }()
			start := time.Now()
			results[i].Report, results[i].Err = c.Collect(ctx, company)
			results[i].Duration = time.Since(start)
		}(i, company)
	}
	wg.Wait()
	return results
}
