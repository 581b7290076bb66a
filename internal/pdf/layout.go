package pdf

import (
	"math"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

// LayoutConfig tunes how positioned text is turned into table grids
type LayoutConfig struct {
	// RowTolerance is the Y distance, in points, under which two glyphs
	// share a text row.
	RowTolerance float64
	// SpaceGap is the horizontal gap, as a fraction of the font size, above
	// which a space is inserted between glyphs.
	SpaceGap float64
	// CellGap is the horizontal gap, as a fraction of the font size, above
	// which a new cell starts.
	CellGap float64
	// MinColumns is the number of cells a row needs to belong to a table.
	MinColumns int
}

// DefaultLayoutConfig returns settings suited to typed administrative forms
func DefaultLayoutConfig() LayoutConfig {
	return LayoutConfig{
		RowTolerance: 3.0,
		SpaceGap:     0.15,
		CellGap:      1.2,
		MinColumns:   2,
	}
}

// block is a run of glyphs forming one cell candidate
type block struct {
	x0, x1 float64
	text   string
}

func (b block) center() float64 {
	return (b.x0 + b.x1) / 2
}

// BuildTables groups glyphs into rows, rows into cells, and consecutive
// multi-cell rows into tables. Column positions come from the first row of
// each table, so that row is the header.
func BuildTables(texts []pdf.Text, cfg LayoutConfig) [][][]string {
	rows := groupIntoRows(texts, cfg.RowTolerance)

	var tables [][][]string
	var header []block
	var grid [][]string

	flush := func() {
		if len(grid) > 1 {
			tables = append(tables, grid)
		}
		header, grid = nil, nil
	}

	for _, row := range rows {
		blocks := textsToBlocks(row, cfg)
		if len(blocks) == 0 {
			continue
		}
		if len(blocks) < cfg.MinColumns {
			flush()
			continue
		}
		if header == nil {
			header = blocks
			grid = append(grid, blockTexts(blocks))
			continue
		}
		grid = append(grid, alignToColumns(blocks, header))
	}
	flush()

	return tables
}

// groupIntoRows buckets glyphs by Y coordinate, top of the page first, and
// sorts each row left to right. Space glyphs are kept: fonts without /Widths
// report every glyph with W=0 and no X advance, and the explicit space is
// then the only word separator.
func groupIntoRows(texts []pdf.Text, tolerance float64) [][]pdf.Text {
	type rowBucket struct {
		yMin, yMax float64
		texts      []pdf.Text
	}

	var buckets []rowBucket
	for _, t := range texts {
		if t.S == "" {
			continue
		}
		found := false
		for i := range buckets {
			if t.Y >= buckets[i].yMin-tolerance && t.Y <= buckets[i].yMax+tolerance {
				buckets[i].texts = append(buckets[i].texts, t)
				buckets[i].yMin = math.Min(buckets[i].yMin, t.Y)
				buckets[i].yMax = math.Max(buckets[i].yMax, t.Y)
				found = true
				break
			}
		}
		if !found {
			buckets = append(buckets, rowBucket{yMin: t.Y, yMax: t.Y, texts: []pdf.Text{t}})
		}
	}

	sort.SliceStable(buckets, func(i, j int) bool {
		return buckets[i].yMax > buckets[j].yMax
	})

	rows := make([][]pdf.Text, len(buckets))
	for i, b := range buckets {
		sort.SliceStable(b.texts, func(x, y int) bool {
			return b.texts[x].X < b.texts[y].X
		})
		rows[i] = b.texts
	}
	return rows
}

// textsToBlocks merges a sorted row of glyphs into cells separated by wide
// horizontal gaps. Spaces, explicit or inferred from a gap, are collapsed to
// one and trimmed at the cell ends.
func textsToBlocks(row []pdf.Text, cfg LayoutConfig) []block {
	var blocks []block
	var b strings.Builder
	var current block
	open := false
	spaced := false

	space := func() {
		if !spaced {
			b.WriteByte(' ')
			spaced = true
		}
	}

	closeBlock := func() {
		if open {
			current.text = strings.TrimSpace(b.String())
			if current.text != "" {
				blocks = append(blocks, current)
			}
		}
		b.Reset()
		open = false
		spaced = false
	}

	for _, t := range row {
		size := t.FontSize
		if size <= 0 {
			size = 10
		}
		if open {
			gap := t.X - current.x1
			switch {
			case gap > cfg.CellGap*size:
				closeBlock()
			case gap > cfg.SpaceGap*size:
				space()
			}
		}
		if strings.TrimSpace(t.S) == "" {
			if open {
				space()
				current.x1 = math.Max(current.x1, t.X+t.W)
			}
			continue
		}
		if !open {
			current = block{x0: t.X, x1: t.X}
			open = true
		}
		b.WriteString(t.S)
		spaced = false
		current.x1 = math.Max(current.x1, t.X+t.W)
	}
	closeBlock()

	return blocks
}

func blockTexts(blocks []block) []string {
	out := make([]string, len(blocks))
	for i, b := range blocks {
		out[i] = b.text
	}
	return out
}

// alignToColumns places each block under the header column it overlaps, or
// the nearest one by center. Blocks landing in the same column are joined.
func alignToColumns(blocks, header []block) []string {
	cells := make([]string, len(header))
	for _, b := range blocks {
		col := nearestColumn(b, header)
		if cells[col] == "" {
			cells[col] = b.text
		} else {
			cells[col] += " " + b.text
		}
	}
	return cells
}

func nearestColumn(b block, header []block) int {
	best, bestDist := 0, math.Inf(1)
	for i, h := range header {
		if b.x0 <= h.x1 && b.x1 >= h.x0 {
			overlap := math.Min(b.x1, h.x1) - math.Max(b.x0, h.x0)
			if dist := -overlap; dist < bestDist {
				best, bestDist = i, dist
			}
			continue
		}
		if bestDist <= 0 {
			continue
		}
		if dist := math.Abs(b.center() - h.center()); dist < bestDist {
			best, bestDist = i, dist
		}
	}
	return best
}
