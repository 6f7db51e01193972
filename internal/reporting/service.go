// Package reporting computes dashboard aggregates and the court report.
package reporting

import (
	"context"
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"

	"lawfirm-cms/internal/cases"
)

// CaseLister supplies the report rows.
type CaseLister interface {
	ListAll(ctx context.Context) ([]cases.Case, error)
}

type Service struct {
	repo  Repository
	cases CaseLister
}

func NewService(repo Repository, cl CaseLister) *Service {
	return &Service{repo: repo, cases: cl}
}

func (s *Service) Dashboard(ctx context.Context) (DashboardCounts, error) {
	if s.repo == nil {
		return DashboardCounts{}, errors.New("reporting: repository not configured")
	}
	return s.repo.Counts(ctx)
}

// CaseStats groups cases by type for the chart. Names are normalised to an
// upper-case first letter and lower-case rest, so types differing only in
// case share a bucket. Blank types are reported as "Unknown".
func (s *Service) CaseStats(ctx context.Context) ([]TypeCount, error) {
	if s.repo == nil {
		return nil, errors.New("reporting: repository not configured")
	}
	raw, err := s.repo.CaseTypes(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]TypeCount, 0, len(raw))
	index := make(map[string]int, len(raw))
	for _, r := range raw {
		name := displayName(r.Name)
		if i, ok := index[name]; ok {
			out[i].Value += r.Value
			continue
		}
		index[name] = len(out)
		out = append(out, TypeCount{Name: name, Value: r.Value})
	}
	return out, nil
}

// ReportData is every case ordered by next court date.
func (s *Service) ReportData(ctx context.Context) ([]cases.Case, error) {
	return s.cases.ListAll(ctx)
}

func displayName(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "Unknown"
	}
	r, size := utf8.DecodeRuneInString(raw)
	return string(unicode.ToUpper(r)) + strings.ToLower(raw[size:])
}
