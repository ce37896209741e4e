package recorder

import (
	"context"

	"github.com/google/uuid"

	"MarketAnalyst/internal/model"
)

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordReport(_ context.Context, _ *model.Report) (string, error) {
	return uuid.NewString(), nil
}

func (n *NoopRecorder) LatestReport(_ context.Context, _ string) (*StoredReport, error) {
	return nil, ErrNotFound
}

func (n *NoopRecorder) ListReports(_ context.Context, _ string, _ int) ([]StoredReport, error) {
	return nil, nil
}

func (n *NoopRecorder) Close() error { return nil }
