package collector

import (
	"context"
	"errors"

	"MarketAnalyst/internal/model"
)

// ErrUnknownCompany is returned when a source holds no document for a company.
var ErrUnknownCompany = errors.New("unknown company")

// Source defines the interface for fetching a company's scraped document.
type Source interface {
	FetchDocument(ctx context.Context, company string) (*model.CompanyDocument, error)
	Name() string
}

// Lister is implemented by sources that can enumerate their companies.
type Lister interface {
	Companies() ([]string, error)
}
