// Package pagerange converts between sets of 1-based page numbers and the
// compact "start-end" tokens used to report where a category was found.
package pagerange

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// PageRange represents a run of consecutive pages, both ends inclusive
type PageRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// String renders the range as a "start-end" token. Singletons keep the
// "N-N" form so that every token has the same shape.
func (r PageRange) String() string {
	return fmt.Sprintf("%d-%d", r.Start, r.End)
}

// Len returns the number of pages in the range
func (r PageRange) Len() int {
	if r.End < r.Start {
		return 0
	}
	return r.End - r.Start + 1
}

// Contains reports whether page lies inside the range
func (r PageRange) Contains(page int) bool {
	return page >= r.Start && page <= r.End
}

// Pages expands the range into its page numbers
func (r PageRange) Pages() []int {
	pages := make([]int, 0, r.Len())
	for p := r.Start; p <= r.End; p++ {
		pages = append(pages, p)
	}
	return pages
}

// FormatError reports a page-range token that cannot be parsed
type FormatError struct {
	Token  string
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid page range %q: %s", e.Token, e.Reason)
}

// ParseToken parses "N" or "N-M" (M >= N) into the sorted pages it covers.
func ParseToken(token string) ([]int, error) {
	r, err := parseRange(token)
	if err != nil {
		return nil, err
	}
	return r.Pages(), nil
}

func parseRange(token string) (PageRange, error) {
	trimmed := strings.TrimSpace(token)
	if trimmed == "" {
		return PageRange{}, &FormatError{Token: token, Reason: "empty token"}
	}

	startText, endText, isRange := strings.Cut(trimmed, "-")
	if !isRange {
		endText = startText
	}

	start, err := parsePage(token, startText)
	if err != nil {
		return PageRange{}, err
	}
	end, err := parsePage(token, endText)
	if err != nil {
		return PageRange{}, err
	}
	if end < start {
		return PageRange{}, &FormatError{Token: token, Reason: "end page precedes start page"}
	}

	return PageRange{Start: start, End: end}, nil
}

func parsePage(token, text string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, &FormatError{Token: token, Reason: "not a number"}
	}
	if n < 1 {
		return 0, &FormatError{Token: token, Reason: "page numbers start at 1"}
	}
	return n, nil
}

// ParseTokens returns the sorted, de-duplicated union of every token's pages.
// The first malformed token aborts the parse.
func ParseTokens(tokens []string) ([]int, error) {
	seen := make(map[int]struct{})
	for _, token := range tokens {
		r, err := parseRange(token)
		if err != nil {
			return nil, err
		}
		for p := r.Start; p <= r.End; p++ {
			seen[p] = struct{}{}
		}
	}

	pages := make([]int, 0, len(seen))
	for p := range seen {
		pages = append(pages, p)
	}
	sort.Ints(pages)
	return pages, nil
}

// Group folds pages into maximal runs of consecutive numbers. The input may
// be unsorted and contain duplicates.
func Group(pages []int) []PageRange {
	if len(pages) == 0 {
		return nil
	}

	sorted := append([]int(nil), pages...)
	sort.Ints(sorted)

	var ranges []PageRange
	current := PageRange{Start: sorted[0], End: sorted[0]}
	for _, p := range sorted[1:] {
		switch {
		case p == current.End:
			// duplicate
		case p == current.End+1:
			current.End = p
		default:
			ranges = append(ranges, current)
			current = PageRange{Start: p, End: p}
		}
	}
	return append(ranges, current)
}

// GroupConsecutive is Group rendered as tokens, e.g. [1 2 3 7 8 10] becomes
// ["1-3" "7-8" "10-10"].
func GroupConsecutive(pages []int) []string {
	ranges := Group(pages)
	tokens := make([]string, len(ranges))
	for i, r := range ranges {
		tokens[i] = r.String()
	}
	return tokens
}

// FormatPages renders pages as a human readable list of runs.
func FormatPages(pages []int) string {
	if len(pages) == 0 {
		return "Aucune"
	}
	return strings.Join(GroupConsecutive(pages), ", ")
}
