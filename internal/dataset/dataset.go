// Package dataset consolidates category tables into one dataset per
// document, and document datasets into the global dataset.
package dataset

import (
	"errors"
	"log/slog"

	"github.com/esClymax/Appli-Extraction/internal/table"
)

// Strategy is one way of combining tables. Strategies are tried in order
// until one succeeds.
type Strategy struct {
	Name    string
	Combine func(tables []*table.Table) (*table.Table, error)
}

// Strategy names
const (
	StrategyConcat    = "concat"
	StrategyHarmonize = "harmonize"
	StrategyLargest   = "largest"
)

// DefaultStrategies aligns by column name, then stacks row by row, then
// keeps the largest table.
func DefaultStrategies() []Strategy {
	return []Strategy{
		{Name: StrategyConcat, Combine: table.Concat},
		{Name: StrategyHarmonize, Combine: func(tables []*table.Table) (*table.Table, error) {
			return table.Harmonize(tables), nil
		}},
		{Name: StrategyLargest, Combine: func(tables []*table.Table) (*table.Table, error) {
			return table.Largest(tables), nil
		}},
	}
}

// ErrNoStrategy is returned when every strategy failed
var ErrNoStrategy = errors.New("no combination strategy succeeded")

// Dataset is a consolidated table and how it was produced
type Dataset struct {
	Table    *table.Table `json:"-"`
	Strategy string       `json:"strategy,omitempty"`
	Sources  int          `json:"sources"`
	Rows     int          `json:"rows"`
	Cols     int          `json:"cols"`
}

// Consolidator merges tables with a chain of strategies
type Consolidator struct {
	strategies []Strategy
	logger     *slog.Logger
}

// New creates a Consolidator. Without strategies DefaultStrategies is used.
func New(logger *slog.Logger, strategies ...Strategy) *Consolidator {
	if logger == nil {
		logger = slog.Default()
	}
	if len(strategies) == 0 {
		strategies = DefaultStrategies()
	}
	return &Consolidator{strategies: strategies, logger: logger}
}

// Consolidate merges the non-empty tables into one whose first columns are
// Document, Catégorie and Nom & Prénom when present. With nothing to merge
// the result has no rows and exactly those three columns.
func (c *Consolidator) Consolidate(tables []*table.Table) (Dataset, error) {
	inputs := make([]*table.Table, 0, len(tables))
	for _, t := range tables {
		if t.IsEmpty() {
			continue
		}
		u := t.Clone()
		u.Columns = table.MakeUnique(u.Columns)
		inputs = append(inputs, u)
	}

	if len(inputs) == 0 {
		return Dataset{
			Table: table.New(append([]string(nil), table.PriorityColumns...), nil),
			Cols:  len(table.PriorityColumns),
		}, nil
	}

	var errs []error
	for _, s := range c.strategies {
		merged, err := s.Combine(inputs)
		if err != nil {
			c.logger.Warn("combination strategy failed", "strategy", s.Name, "tables", len(inputs), "error", err)
			errs = append(errs, err)
			continue
		}
		if merged == nil {
			continue
		}

		merged = merged.Reorder(table.PriorityColumns)
		c.logger.Debug("tables consolidated", "strategy", s.Name, "tables", len(inputs),
			"rows", merged.Len(), "cols", merged.Width())
		return Dataset{
			Table:    merged,
			Strategy: s.Name,
			Sources:  len(inputs),
			Rows:     merged.Len(),
			Cols:     merged.Width(),
		}, nil
	}

	return Dataset{}, errors.Join(append([]error{ErrNoStrategy}, errs...)...)
}
