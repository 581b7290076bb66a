// Package coverage reports which pages of a document were claimed by at
// least one category.
package coverage

import (
	"fmt"
	"math"
	"sort"

	"github.com/esClymax/Appli-Extraction/internal/pdf/pagerange"
)

// Report summarises page coverage for one document
type Report struct {
	TotalPages       int     `json:"total_pages"`
	Processed        []int   `json:"pages_traitees"`
	Unprocessed      []int   `json:"pages_non_traitees"`
	ProcessedCount   int     `json:"nb_pages_traitees"`
	UnprocessedCount int     `json:"nb_pages_non_traitees"`
	Percentage       float64 `json:"pourcentage_couverture"`
}

// Compute unions every category's pages into the processed set. Pages
// outside [1, total] are ignored. A malformed token yields a
// *pagerange.FormatError.
func Compute(total int, pageMap map[string][]string) (Report, error) {
	if total < 0 {
		total = 0
	}

	claimed := make(map[int]struct{})
	for _, tokens := range pageMap {
		pages, err := pagerange.ParseTokens(tokens)
		if err != nil {
			return Report{}, err
		}
		for _, p := range pages {
			if p >= 1 && p <= total {
				claimed[p] = struct{}{}
			}
		}
	}

	report := Report{
		TotalPages:  total,
		Processed:   make([]int, 0, len(claimed)),
		Unprocessed: make([]int, 0, total-len(claimed)),
	}
	for p := range claimed {
		report.Processed = append(report.Processed, p)
	}
	sort.Ints(report.Processed)

	for p := 1; p <= total; p++ {
		if _, ok := claimed[p]; !ok {
			report.Unprocessed = append(report.Unprocessed, p)
		}
	}

	report.ProcessedCount = len(report.Processed)
	report.UnprocessedCount = len(report.Unprocessed)
	if total > 0 {
		report.Percentage = math.Round(float64(report.ProcessedCount)/float64(total)*1000) / 10
	}
	return report, nil
}

// Summary renders the report on one line, in French
func (r Report) Summary() string {
	return fmt.Sprintf("Couverture %.1f%% (%d/%d pages) - traitées : %s - non traitées : %s",
		r.Percentage, r.ProcessedCount, r.TotalPages,
		pagerange.FormatPages(r.Processed), pagerange.FormatPages(r.Unprocessed))
}
