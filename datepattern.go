package gridscope

import "sort"

// DatePattern is a contiguous run of date-formatted cells. Patterns are
// rendered at layer 0, disjoint from the formula layering.
type DatePattern struct {
	Sheet string
	// Row and Col are the 1-based position of the first cell of the run.
	Row int
	Col int
	// Span is the run length including tolerated gaps; Count is the number
	// of date-formatted cells inside it.
	Span       int
	Count      int
	Horizontal bool
}

// Range returns the run as a range string, e.g. "Sheet1!B2:F2".
func (p DatePattern) Range() string {
	if p.Span <= 1 {
		return nodeKey(p.Sheet, p.Col, p.Row)
	}
	endCol, endRow := p.Col, p.Row
	if p.Horizontal {
		endCol += p.Span - 1
	} else {
		endRow += p.Span - 1
	}
	end, _ := CoordinatesToCellName(endCol, endRow)
	return nodeKey(p.Sheet, p.Col, p.Row) + ":" + end
}

// detectDatePatterns grows maximal horizontal and vertical runs from each
// not-yet-claimed date cell. A run extends over non-date gaps only while
// the date density of the tentative span stays at or above the configured
// minimum, and is accepted when it holds enough date cells. When both
// orientations qualify the denser run wins, horizontal on ties.
func detectDatePatterns(grid *Grid, dateCells map[string]bool, opts Options) []DatePattern {
	claimed := make(map[string]bool, len(dateCells))

	sheets := make([]string, 0, len(grid.Sheets))
	for sheet := range grid.Sheets {
		sheets = append(sheets, sheet)
	}
	sort.Strings(sheets)

	var patterns []DatePattern
	for _, sheet := range sheets {
		for ri, cells := range grid.Sheets[sheet] {
			for ci := range cells {
				row, col := ri+1, ci+1
				key := nodeKey(sheet, col, row)
				if !dateCells[key] || claimed[key] {
					continue
				}
				h := growRun(dateCells, sheet, row, col, 0, 1, opts)
				v := growRun(dateCells, sheet, row, col, 1, 0, opts)
				best := h
				best.Horizontal = true
				if v.Count > h.Count {
					best = v
				}
				if best.Count < opts.DateRunMinCells {
					continue
				}
				claimRun(claimed, dateCells, best)
				patterns = append(patterns, best)
			}
		}
	}
	return patterns
}

// growRun extends a run from an anchor date cell along one axis. The scan
// stops as soon as even an immediately following date cell could no longer
// keep the span at minimum density, so isolated date cells never chain
// across wide gaps. The span always ends on a date cell.
func growRun(dateCells map[string]bool, sheet string, row, col, dr, dc int, opts Options) DatePattern {
	run := DatePattern{Sheet: sheet, Row: row, Col: col, Span: 1, Count: 1}
	for k := 1; ; k++ {
		if float64(run.Count+1)/float64(k+1) < opts.DateRunMinDensity {
			break
		}
		if dateCells[nodeKey(sheet, col+k*dc, row+k*dr)] {
			run.Count++
			run.Span = k + 1
		}
	}
	return run
}

// claimRun marks the run's date cells so they anchor no further pattern.
func claimRun(claimed, dateCells map[string]bool, run DatePattern) {
	for k := 0; k < run.Span; k++ {
		r, c := run.Row, run.Col
		if run.Horizontal {
			c += k
		} else {
			r += k
		}
		key := nodeKey(run.Sheet, c, r)
		if dateCells[key] {
			claimed[key] = true
		}
	}
}
