package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"MarketAnalyst/internal/collector"
	"MarketAnalyst/internal/model"
	"MarketAnalyst/internal/recorder"
	"MarketAnalyst/internal/report"
)

const (
	maxDocumentBytes = 32 << 20
	defaultListLimit = 20
	maxListLimit     = 500
)

// ErrorResponse is the body of every non-2xx API response.
type ErrorResponse struct {
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	Code      string    `json:"code"`
	RequestID string    `json:"request_id"`
	Timestamp time.Time `json:"timestamp"`
}

// HistoryResponse lists stored reports of one company, newest first.
type HistoryResponse struct {
	Company string                  `json:"company"`
	Reports []recorder.StoredReport `json:"reports"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	body, err := json.Marshal(data)
	if err != nil {
		log.Error().Err(err).Msg("encode response")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"json_encoding_failed"}`))
		return
	}
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, status, ErrorResponse{
		Error:     http.StatusText(status),
		Message:   message,
		Code:      code,
		RequestID: requestID(r),
		Timestamp: time.Now().UTC(),
	})
}

// writeLookupError maps domain errors onto status codes.
func writeLookupError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, collector.ErrUnknownCompany):
		writeError(w, r, http.StatusNotFound, "unknown_company", err.Error())
	case errors.Is(err, recorder.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "report_not_found", err.Error())
	default:
		log.Error().Err(err).Str("request_id", requestID(r)).Msg("request failed")
		writeError(w, r, http.StatusInternalServerError, "internal_error", "internal error")
	}
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// generateReport builds a report from the posted document without storing it.
func (s *Server) generateReport(w http.ResponseWriter, r *http.Request) {
	var doc model.CompanyDocument
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxDocumentBytes))
	if err := dec.Decode(&doc); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid_document", err.Error())
		return
	}
	if doc.Company == "" {
		writeError(w, r, http.StatusBadRequest, "invalid_document", "company is required")
		return
	}

	start := time.Now()
	rep := report.Generate(&doc, s.deps.Options)
	s.deps.Metrics.ObserveReport(rep, nil, time.Since(start))
	writeJSON(w, http.StatusOK, rep)
}

func (s *Server) runReport(w http.ResponseWriter, r *http.Request) {
	stored, err := s.deps.Runner.RunReport(r.Context(), mux.Vars(r)["company"])
	if err != nil {
		writeLookupError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stored)
}

func (s *Server) latestReport(w http.ResponseWriter, r *http.Request) {
	stored, err := s.deps.Recorder.LatestReport(r.Context(), mux.Vars(r)["company"])
	if err != nil {
		writeLookupError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stored)
}

func (s *Server) listReports(w http.ResponseWriter, r *http.Request) {
	limit := defaultListLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 || parsed > maxListLimit {
			writeError(w, r, http.StatusBadRequest, "invalid_limit", "limit must be between 1 and 500")
			return
		}
		limit = parsed
	}

	company := mux.Vars(r)["company"]
	reports, err := s.deps.Recorder.ListReports(r.Context(), company, limit)
	if err != nil {
		writeLookupError(w, r, err)
		return
	}
	if reports == nil {
		reports = []recorder.StoredReport{}
	}
	writeJSON(w, http.StatusOK, HistoryResponse{Company: company, Reports: reports})
}
