package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MarketAnalyst/internal/collector"
	"MarketAnalyst/internal/metrics"
	"MarketAnalyst/internal/model"
	"MarketAnalyst/internal/recorder"
	"MarketAnalyst/internal/report"
)

type fakeRunner struct {
	rec recorder.Recorder
	col *collector.Collector
}

func (f *fakeRunner) RunReport(ctx context.Context, company string) (*recorder.StoredReport, error) {
	if company != "ACME" {
		return nil, fmt.Errorf("fetch: %w", collector.ErrUnknownCompany)
	}
	r, err := f.col.Collect(ctx, company)
	if err != nil {
		return nil, err
	}
	id, err := f.rec.RecordReport(ctx, r)
	if err != nil {
		return nil, err
	}
	return &recorder.StoredReport{ID: id, Report: r}, nil
}

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	rec, err := recorder.NewSQLiteRecorder(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { rec.Close() })

	mock := &collector.MockSource{Price: 50, Days: 60, End: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)}
	srv := NewServer(":0", Deps{
		Runner:   &fakeRunner{rec: rec, col: collector.NewCollector(mock, report.DefaultOptions())},
		Recorder: rec,
		Metrics:  metrics.NewRegistry(),
		Options:  report.DefaultOptions(),
	})
	return srv.Handler()
}

func do(t *testing.T, h http.Handler, method, path string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	h := newTestServer(t)
	rec := do(t, h, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestGenerateReport(t *testing.T) {
	h := newTestServer(t)
	doc := model.CompanyDocument{Company: "POSTED"}
	for i, c := range []float64{10, 11, 12} {
		doc.HistoricalData = append(doc.HistoricalData, model.RawObservation{
			Date: fmt.Sprintf("2024-01-0%d", i+1),
			Raw: model.RawFields{
				LastClose: model.RawNumber(c),
				LastOpen:  model.RawNumber(c),
				LastMax:   model.RawNumber(c),
				LastMin:   model.RawNumber(c),
				Volume:    json.RawMessage(`"1000"`),
			},
		})
	}
	body, err := json.Marshal(doc)
	require.NoError(t, err)

	rec := do(t, h, http.MethodPost, "/reports", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var out struct {
		Company string         `json:"company"`
		Summary string         `json:"summaryText"`
		Metrics map[string]any `json:"metrics"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "POSTED", out.Company)
	assert.Contains(t, out.Summary, "**POSTED**")
	assert.Contains(t, out.Metrics, "drawdowns")
	assert.Contains(t, out.Metrics, "timeseries")
}

func TestGenerateReport_EmptyAndInvalid(t *testing.T) {
	h := newTestServer(t)

	rec := do(t, h, http.MethodPost, "/reports", []byte(`{"company":"NONE","historicalData":[]}`))
	require.Equal(t, http.StatusOK, rec.Code)
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, map[string]any{}, out["metrics"])
	assert.Equal(t, "No historical data found for **NONE**.", out["summaryText"])

	rec = do(t, h, http.MethodPost, "/reports", []byte(`{"company":`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var errResp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
	assert.Equal(t, "invalid_document", errResp.Code)
	assert.NotEqual(t, "unknown", errResp.RequestID)

	rec = do(t, h, http.MethodPost, "/reports", []byte(`{"historicalData":[]}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRunAndFetchReports(t *testing.T) {
	h := newTestServer(t)

	rec := do(t, h, http.MethodGet, "/reports/ACME/latest", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodPost, "/reports/ACME", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var first recorder.StoredReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &first))
	assert.NotEmpty(t, first.ID)

	rec = do(t, h, http.MethodPost, "/reports/ACME", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodGet, "/reports/ACME/latest", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var latest struct {
		ID     string `json:"id"`
		Report struct {
			Company string `json:"company"`
		} `json:"report"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &latest))
	assert.Equal(t, "ACME", latest.Report.Company)

	rec = do(t, h, http.MethodGet, "/reports/ACME?limit=1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var history struct {
		Company string            `json:"company"`
		Reports []json.RawMessage `json:"reports"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &history))
	assert.Len(t, history.Reports, 1)

	rec = do(t, h, http.MethodGet, "/reports/ACME", nil)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &history))
	assert.Len(t, history.Reports, 2)

	rec = do(t, h, http.MethodGet, "/reports/NOBODY", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"company":"NOBODY","reports":[]}`, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/reports/ACME?limit=zero", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRunReport_UnknownCompany(t *testing.T) {
	h := newTestServer(t)
	rec := do(t, h, http.MethodPost, "/reports/GHOST", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	var errResp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
	assert.Equal(t, "unknown_company", errResp.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	h := newTestServer(t)
	do(t, h, http.MethodGet, "/health", nil)
	do(t, h, http.MethodPost, "/reports", []byte(`{"company":"X","historicalData":[]}`))

	rec := do(t, h, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `analyst_http_requests_total{code="200",route="/health"} 1`)
	assert.Contains(t, rec.Body.String(), `analyst_reports_generated_total{outcome="empty"} 1`)
}

func TestNotFound(t *testing.T) {
	h := newTestServer(t)
	rec := do(t, h, http.MethodGet, "/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "endpoint_not_found")
}
