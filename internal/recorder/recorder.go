package recorder

import (
	"context"
	"errors"

	"MarketAnalyst/internal/model"
)

// ErrNotFound is returned when no stored report matches a lookup.
var ErrNotFound = errors.New("report not found")

// StoredReport is a report together with its history identifier.
type StoredReport struct {
	ID     string        `json:"id"`
	Report *model.Report `json:"report"`
}

// Recorder persists generated reports for later retrieval.
type Recorder interface {
	RecordReport(ctx context.Context, r *model.Report) (string, error)
	LatestReport(ctx context.Context, company string) (*StoredReport, error)
	// ListReports returns up to limit reports, newest first.
	ListReports(ctx context.Context, company string, limit int) ([]StoredReport, error)
	Close() error
}
