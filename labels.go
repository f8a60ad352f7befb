package gridscope

import "sort"

// LabelKind says where an inferred label came from.
type LabelKind string

const (
	LabelSectionHeader LabelKind = "section-header"
	LabelRow           LabelKind = "row"
	LabelColumn        LabelKind = "column"
	LabelDateHeader    LabelKind = "date-header"
)

// Label is inferred descriptive text attached to a frame.
type Label struct {
	Text string
	// Score is the proximity score the label won with. Section and date
	// headers are attached structurally and carry score 1.
	Score  float64
	Kind   LabelKind
	Source string // key of the originating cell
}

// Scoring bonuses on top of the base 1/(1+gap) proximity score.
const (
	labelBoldBonus  = 0.25
	labelMergeBonus = 0.15
	labelEdgeBonus  = 0.10
)

// sectionHeader is a contiguous vertical span of label cells in the leading
// columns, anchored at a styled label.
type sectionHeader struct {
	sheet    string
	col      int
	startRow int
	endRow   int
	text     string
	source   string
}

// dateHeaderRow is the first top row holding enough date cells to act as
// the sheet's global date header.
type dateHeaderRow struct {
	sheet    string
	row      int
	startCol int
	endCol   int
	source   string
}

// textIndex is the immutable label-cell index one analysis pass derives
// from the grid and hands to the frame-labeling step.
type textIndex struct {
	grid        *Grid
	dateCells   map[string]bool
	sections    []sectionHeader
	dateHeaders map[string]dateHeaderRow
}

// buildTextIndex scans the grid once for label cells and derives section
// headers and per-sheet global date headers.
func buildTextIndex(grid *Grid, dateCells map[string]bool, opts Options) *textIndex {
	idx := &textIndex{
		grid:        grid,
		dateCells:   dateCells,
		dateHeaders: make(map[string]dateHeaderRow),
	}

	sheets := make([]string, 0, len(grid.Sheets))
	for sheet := range grid.Sheets {
		sheets = append(sheets, sheet)
	}
	sort.Strings(sheets)

	for _, sheet := range sheets {
		idx.scanSections(sheet, opts)
		idx.scanDateHeader(sheet, opts)
	}
	return idx
}

// isLabelCell reports whether the grid position holds qualifying label
// text: non-empty, not a formula, not numeric, currency-looking or a date.
func (idx *textIndex) isLabelCell(sheet string, row, col int) bool {
	cell := idx.grid.cell(sheet, row, col)
	if cell == nil || cell.isFormula() {
		return false
	}
	if idx.dateCells[nodeKey(sheet, col, row)] {
		return false
	}
	return isLabelText(cell.content())
}

// scanSections walks the leading columns for vertical label spans starting
// at a bold, filled or merged label cell.
func (idx *textIndex) scanSections(sheet string, opts Options) {
	rows := idx.grid.Sheets[sheet]
	for col := 1; col <= opts.SectionHeaderCols; col++ {
		row := 1
		for row <= len(rows) {
			cell := idx.grid.cell(sheet, row, col)
			styled := cell.bold() || cell.filled() || cell.merged()
			if !styled || !idx.isLabelCell(sheet, row, col) {
				row++
				continue
			}
			end := row
			for end+1 <= len(rows) && idx.isLabelCell(sheet, end+1, col) {
				end++
			}
			idx.sections = append(idx.sections, sectionHeader{
				sheet:    sheet,
				col:      col,
				startRow: row,
				endRow:   end,
				text:     cell.content(),
				source:   nodeKey(sheet, col, row),
			})
			row = end + 1
		}
	}
}

// scanDateHeader picks the first of the top rows containing enough
// date-formatted cells and records its column span.
func (idx *textIndex) scanDateHeader(sheet string, opts Options) {
	rows := idx.grid.Sheets[sheet]
	for row := 1; row <= opts.DateHeaderRows && row <= len(rows); row++ {
		count, first, last := 0, 0, 0
		for ci := range rows[row-1] {
			col := ci + 1
			if idx.dateCells[nodeKey(sheet, col, row)] {
				count++
				if first == 0 {
					first = col
				}
				last = col
			}
		}
		if count >= opts.DateHeaderMinCells {
			idx.dateHeaders[sheet] = dateHeaderRow{
				sheet:    sheet,
				row:      row,
				startCol: first,
				endCol:   last,
				source:   nodeKey(sheet, first, row),
			}
			return
		}
	}
}

// labelFrame attaches the top-scoring row and column labels found by
// bounded proximity scans, plus any intersecting section header and the
// sheet's global date header.
func (idx *textIndex) labelFrame(frame *Frame, rects []rect, opts Options) {
	var rowBest, colBest *Label

	for _, r := range rects {
		// Left scan on each row of horizontal spans (and single cells).
		if r.height() == 1 || r.width() > 1 {
			for row := r.r1; row <= r.r2; row++ {
				if cand := idx.scanLeft(r.sheet, row, r.c1, opts); cand != nil {
					if rowBest == nil || cand.Score > rowBest.Score {
						rowBest = cand
					}
				}
			}
		}
		// Up scan on each column of vertical spans (and single cells).
		if r.width() == 1 || r.height() > 1 {
			for col := r.c1; col <= r.c2; col++ {
				if cand := idx.scanUp(r.sheet, r.r1, col, opts); cand != nil {
					if colBest == nil || cand.Score > colBest.Score {
						colBest = cand
					}
				}
			}
		}
	}

	if rowBest != nil {
		frame.Labels = append(frame.Labels, *rowBest)
	}
	if colBest != nil {
		frame.Labels = append(frame.Labels, *colBest)
	}
	idx.attachSections(frame, rects)
	idx.attachDateHeader(frame, rects)
}

// scanLeft walks left from a span's first column, skipping formulas,
// blanks, numbers and currency, and scores the nearest qualifying label.
func (idx *textIndex) scanLeft(sheet string, row, startCol int, opts Options) *Label {
	for col := startCol - 1; col >= 1 && startCol-col <= opts.MaxLeftScanGap; col-- {
		if !idx.isLabelCell(sheet, row, col) {
			continue
		}
		gap := startCol - col - 1
		return idx.score(sheet, row, col, gap, LabelRow, col == 1)
	}
	return nil
}

// scanUp walks up from a span's first row, with the same skipping rules.
func (idx *textIndex) scanUp(sheet string, startRow, col int, opts Options) *Label {
	for row := startRow - 1; row >= 1 && startRow-row <= opts.MaxUpScanGap; row-- {
		if !idx.isLabelCell(sheet, row, col) {
			continue
		}
		gap := startRow - row - 1
		return idx.score(sheet, row, col, gap, LabelColumn, row == 1)
	}
	return nil
}

// score builds a label candidate: 1/(1+gap) base plus styling and edge
// bonuses.
func (idx *textIndex) score(sheet string, row, col, gap int, kind LabelKind, atEdge bool) *Label {
	cell := idx.grid.cell(sheet, row, col)
	s := 1 / float64(1+gap)
	if cell.bold() {
		s += labelBoldBonus
	}
	if cell.merged() {
		s += labelMergeBonus
	}
	if atEdge {
		s += labelEdgeBonus
	}
	return &Label{
		Text:   cell.content(),
		Score:  s,
		Kind:   kind,
		Source: nodeKey(sheet, col, row),
	}
}

// attachSections adds every section header whose row span intersects one of
// the frame's rectangles on the same sheet, left of or containing its
// columns.
func (idx *textIndex) attachSections(frame *Frame, rects []rect) {
	seen := make(map[string]bool)
	for _, s := range idx.sections {
		for _, r := range rects {
			if r.sheet != s.sheet || s.col > r.c2 {
				continue
			}
			if s.startRow > r.r2 || s.endRow < r.r1 {
				continue
			}
			if !seen[s.source] {
				seen[s.source] = true
				frame.Labels = append(frame.Labels, Label{
					Text:   s.text,
					Score:  1,
					Kind:   LabelSectionHeader,
					Source: s.source,
				})
			}
			break
		}
	}
}

// attachDateHeader adds the sheet's global date header when its column span
// intersects the frame's columns.
func (idx *textIndex) attachDateHeader(frame *Frame, rects []rect) {
	seen := make(map[string]bool)
	for _, r := range rects {
		h, ok := idx.dateHeaders[r.sheet]
		if !ok || seen[r.sheet] {
			continue
		}
		if h.endCol < r.c1 || h.startCol > r.c2 {
			continue
		}
		seen[r.sheet] = true
		cell := idx.grid.cell(r.sheet, h.row, h.startCol)
		frame.Labels = append(frame.Labels, Label{
			Text:   cell.content(),
			Score:  1,
			Kind:   LabelDateHeader,
			Source: h.source,
		})
	}
}
