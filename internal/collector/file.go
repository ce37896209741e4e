package collector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"MarketAnalyst/internal/model"
)

const documentExt = ".json"

// FileSource reads documents stored as <Dir>/<company>.json.
type FileSource struct {
	Dir string
}

// NewFileSource creates a source rooted at dir.
func NewFileSource(dir string) *FileSource {
	return &FileSource{Dir: dir}
}

func (s *FileSource) Name() string { return "file" }

func (s *FileSource) FetchDocument(ctx context.Context, company string) (*model.CompanyDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !validCompanyName(company) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCompany, company)
	}

	path := filepath.Join(s.Dir, company+documentExt)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCompany, company)
	}
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}

	var doc model.CompanyDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	if doc.Company == "" {
		doc.Company = company
	}
	return &doc, nil
}

// Companies lists the documents present in Dir, sorted by name.
func (s *FileSource) Companies() ([]string, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	var companies []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || filepath.Ext(name) != documentExt {
			continue
		}
		companies = append(companies, strings.TrimSuffix(name, documentExt))
	}
	sort.Strings(companies)
	return companies, nil
}

// validCompanyName rejects names that would escape Dir.
func validCompanyName(company string) bool {
	if company == "" || company == "." || company == ".." {
		return false
	}
	return !strings.ContainsAny(company, `/\`) && !strings.Contains(company, "..")
}
