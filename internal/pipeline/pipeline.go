// Package pipeline runs the locate, assemble and consolidate passes over
// documents, one document at a time.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/esClymax/Appli-Extraction/internal/assembler"
	"github.com/esClymax/Appli-Extraction/internal/category"
	"github.com/esClymax/Appli-Extraction/internal/coverage"
	"github.com/esClymax/Appli-Extraction/internal/dataset"
	"github.com/esClymax/Appli-Extraction/internal/extractor"
	"github.com/esClymax/Appli-Extraction/internal/locator"
	"github.com/esClymax/Appli-Extraction/internal/pdf"
	"github.com/esClymax/Appli-Extraction/internal/pdf/pagerange"
	"github.com/esClymax/Appli-Extraction/internal/table"
)

// Validator checks a file before it is processed
type Validator interface {
	ValidateFile(req pdf.ValidateRequest) (*pdf.ValidateResult, error)
}

// Options configures a Service
type Options struct {
	Opener    pdf.Opener
	Registry  *category.Registry
	Rules     *table.Rules
	Filters   []table.Filter
	Validator Validator
	Logger    *slog.Logger
}

// Service processes documents
type Service struct {
	opener       pdf.Opener
	registry     *category.Registry
	locator      *locator.Locator
	assembler    *assembler.Assembler
	consolidator *dataset.Consolidator
	filters      []table.Filter
	validator    Validator
	logger       *slog.Logger
}

// New creates a Service. Opener is required. A nil Registry uses the
// built-in categories and nil Rules the default cleaning.
func New(opts Options) (*Service, error) {
	if opts.Opener == nil {
		return nil, errors.New("pipeline: opener is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	registry := opts.Registry
	if registry == nil {
		registry = category.Default()
	}

	rules := table.DefaultRules()
	if opts.Rules != nil {
		rules = *opts.Rules
	}
	cleaner, err := table.NewCleaner(rules)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}

	return &Service{
		opener:       opts.Opener,
		registry:     registry,
		locator:      locator.New(registry, logger),
		assembler:    assembler.New(extractor.New(logger), cleaner, logger),
		consolidator: dataset.New(logger),
		filters:      opts.Filters,
		validator:    opts.Validator,
		logger:       logger,
	}, nil
}

// Registry returns the categories the service extracts
func (s *Service) Registry() *category.Registry {
	return s.registry
}

// DocumentResult is everything produced for one document
type DocumentResult struct {
	Path         string                      `json:"path"`
	Document     string                      `json:"document"`
	TotalPages   int                         `json:"total_pages"`
	PageRanges   locator.PageMap             `json:"page_ranges"`
	Categories   map[string]assembler.Result `json:"categories"`
	SuccessCount int                         `json:"success_count"`
	Coverage     coverage.Report             `json:"coverage"`
	Dataset      dataset.Dataset             `json:"dataset"`
	Warnings     []string                    `json:"warnings,omitempty"`
	Error        string                      `json:"error,omitempty"`

	order []string
}

// Results returns the category results in registry order
func (r *DocumentResult) Results() []assembler.Result {
	out := make([]assembler.Result, 0, len(r.order))
	for _, keyword := range r.order {
		out = append(out, r.Categories[keyword])
	}
	return out
}

// HasData reports whether the document produced at least one row
func (r *DocumentResult) HasData() bool {
	return r != nil && r.Dataset.Table.Len() > 0
}

// Summary renders the document outcome on one line
func (r *DocumentResult) Summary(categories int) string {
	if r.Error != "" {
		return fmt.Sprintf("%s: ERROR %s", r.Document, r.Error)
	}
	return fmt.Sprintf("%s: %d/%d categories, %d rows, coverage %.1f%% (unprocessed pages: %s)",
		r.Document, r.SuccessCount, categories, r.Dataset.Rows,
		r.Coverage.Percentage, pagerange.FormatPages(r.Coverage.Unprocessed))
}

func (r *DocumentResult) warn(err error) {
	r.Warnings = append(r.Warnings, err.Error())
}

// Locate runs only the locate pass and computes coverage.
func (s *Service) Locate(ctx context.Context, path string) (*DocumentResult, error) {
	result := &DocumentResult{Path: path, Document: pdf.BaseName(path)}
	if err := s.locate(ctx, result); err != nil {
		result.Error = err.Error()
		return result, err
	}
	return result, nil
}

func (s *Service) locate(ctx context.Context, result *DocumentResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if s.validator != nil {
		res, err := s.validator.ValidateFile(pdf.ValidateRequest{Path: result.Path})
		if err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
		if !res.Valid {
			return fmt.Errorf("invalid document: %s", res.Message)
		}
	}

	src, err := s.opener.Open(result.Path)
	if err != nil {
		return fmt.Errorf("failed to open document: %w", err)
	}
	defer src.Close()

	pageMap, err := s.locator.Locate(src)
	if err != nil {
		result.warn(err)
	}
	result.TotalPages = src.PageCount()
	result.PageRanges = pageMap

	report, err := coverage.Compute(result.TotalPages, pageMap)
	if err != nil {
		return fmt.Errorf("coverage: %w", err)
	}
	result.Coverage = report
	return nil
}

// ProcessDocument locates categories, assembles each one and consolidates
// the document dataset. The returned result is never nil; on error it
// carries what was computed before the failure.
func (s *Service) ProcessDocument(ctx context.Context, path string) (*DocumentResult, error) {
	result := &DocumentResult{Path: path, Document: pdf.BaseName(path)}
	log := s.logger.With("document", result.Document)

	if err := s.process(ctx, result, log); err != nil {
		result.Error = err.Error()
		log.Error("document failed", "error", err)
		return result, err
	}

	log.Info("document processed",
		"categories", fmt.Sprintf("%d/%d", result.SuccessCount, s.registry.Len()),
		"rows", result.Dataset.Rows,
		"coverage", result.Coverage.Percentage)
	return result, nil
}

func (s *Service) process(ctx context.Context, result *DocumentResult, log *slog.Logger) error {
	if err := s.locate(ctx, result); err != nil {
		return err
	}

	src, err := s.opener.Open(result.Path)
	if err != nil {
		return fmt.Errorf("failed to reopen document: %w", err)
	}
	defer src.Close()

	name := filepath.Base(result.Path)
	result.Categories = make(map[string]assembler.Result, s.registry.Len())
	var tables []*table.Table
	for _, cat := range s.registry.All() {
		res, err := s.assembler.Assemble(src, name, cat, result.PageRanges[cat.Keyword])
		if err != nil {
			return fmt.Errorf("category %q: %w", cat.Keyword, err)
		}
		result.Categories[cat.Keyword] = res
		result.order = append(result.order, cat.Keyword)
		if !res.Success {
			log.Debug("category skipped", "category", cat.Keyword, "reason", res.Error)
			continue
		}
		result.SuccessCount++
		tables = append(tables, res.Table)
	}

	ds, err := s.consolidator.Consolidate(tables)
	if err != nil {
		return fmt.Errorf("consolidation failed: %w", err)
	}

	if len(s.filters) > 0 {
		filtered, skipped := table.ApplyFilters(ds.Table, s.filters)
		for _, err := range skipped {
			log.Warn("filter skipped", "error", err)
			result.warn(err)
		}
		ds.Table = filtered
		ds.Rows = filtered.Len()
	}
	result.Dataset = ds
	return nil
}

// BatchResult collects the documents of one run and their consolidation
type BatchResult struct {
	RunID     string            `json:"run_id"`
	Documents []*DocumentResult `json:"documents"`
	Global    dataset.Dataset   `json:"global"`
	Succeeded int               `json:"succeeded"`
	Failed    int               `json:"failed"`
}

// HasData reports whether any document produced rows
func (b *BatchResult) HasData() bool {
	for _, d := range b.Documents {
		if d.HasData() {
			return true
		}
	}
	return false
}

// ProcessBatch processes documents in order. A failing document is recorded
// and the batch continues. Cancelling ctx stops before the next document and
// returns the partial result with ctx's error.
func (s *Service) ProcessBatch(ctx context.Context, paths []string) (*BatchResult, error) {
	batch := &BatchResult{RunID: uuid.NewString()}
	log := s.logger.With("run", batch.RunID)
	log.Info("batch started", "documents", len(paths))

	var datasets []*table.Table
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			log.Warn("batch cancelled", "processed", len(batch.Documents), "error", err)
			return batch, err
		}

		doc, err := s.ProcessDocument(ctx, path)
		batch.Documents = append(batch.Documents, doc)
		if err != nil {
			batch.Failed++
			continue
		}
		batch.Succeeded++
		if doc.HasData() {
			datasets = append(datasets, doc.Dataset.Table)
		}
	}

	global, err := s.consolidator.Consolidate(datasets)
	if err != nil {
		return batch, fmt.Errorf("global consolidation failed: %w", err)
	}
	batch.Global = global

	log.Info("batch finished", "succeeded", batch.Succeeded, "failed", batch.Failed, "rows", global.Rows)
	return batch, nil
}
