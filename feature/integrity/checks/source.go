package checks

import (
	"context"
	"errors"
	"time"

	"unilist/feature/universities/fetcher"
)

// SourceReport describes the first page served by the page source.
type SourceReport struct {
	Reachable    bool   `json:"reachable"`
	TotalPages   int    `json:"total_pages"`
	Provinces    int    `json:"provinces"`
	Universities int    `json:"universities"`
	LatencyMs    int64  `json:"latency_ms"`
	Error        string `json:"error,omitempty"`
	ErrorKind    string `json:"error_kind,omitempty"`
}

// CheckSource fetches page 1. A failed fetch is reported, not returned.
func CheckSource(ctx context.Context, f fetcher.Fetcher) *SourceReport {
	start := time.Now()
	page, err := f.Fetch(ctx, 1)
	report := &SourceReport{LatencyMs: time.Since(start).Milliseconds()}
	if err != nil {
		report.Error = err.Error()
		report.ErrorKind = string(fetcher.KindUnknown)
		var fe *fetcher.Error
		if errors.As(err, &fe) {
			report.ErrorKind = string(fe.Kind)
		}
		return report
	}

	report.Reachable = true
	report.TotalPages = page.TotalPages
	report.Provinces = len(page.Provinces)
	for _, p := range page.Provinces {
		report.Universities += len(p.Universities)
	}
	return report
}
