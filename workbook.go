package gridscope

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// builtinDateNumFmts are the builtin xlsx number format ids that render
// date or time values. Builtin formats carry no format code, so they are
// flagged by id.
var builtinDateNumFmts = map[int]bool{
	14: true, 15: true, 16: true, 17: true, 18: true, 19: true, 20: true,
	21: true, 22: true, 27: true, 28: true, 29: true, 30: true, 31: true,
	32: true, 33: true, 34: true, 35: true, 36: true, 45: true, 46: true,
	47: true, 50: true, 51: true, 52: true, 53: true, 54: true, 55: true,
	56: true, 57: true, 58: true,
}

// GridFromFile builds a grid snapshot from an open workbook: display
// values, formula text and the style bits the analysis heuristics consume.
// An empty primary selects the workbook's first sheet.
func GridFromFile(f *excelize.File, primary string) (*Grid, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNilGrid
	}
	if primary == "" {
		primary = sheets[0]
	}
	grid := &Grid{Primary: primary, Sheets: make(map[string][][]Cell, len(sheets))}

	for _, sheet := range sheets {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
		}
		gridRows := make([][]Cell, len(rows))
		for ri, row := range rows {
			cells := make([]Cell, len(row))
			for ci, display := range row {
				name, _ := CoordinatesToCellName(ci+1, ri+1)
				cell := Cell{Display: display, Value: display}
				if formula, err := f.GetCellFormula(sheet, name); err == nil && formula != "" {
					cell.Value = "=" + formula
				}
				if style := cellStyle(f, sheet, name); style != nil {
					cell.Style = style
				}
				cells[ci] = cell
			}
			gridRows[ri] = cells
		}
		if err := markMerged(f, sheet, gridRows); err != nil {
			return nil, err
		}
		grid.Sheets[sheet] = gridRows
	}
	if _, ok := grid.Sheets[primary]; !ok {
		return nil, ErrPrimarySheet
	}
	return grid, nil
}

// cellStyle extracts the style subset the heuristics look at, or nil when
// the cell carries nothing of interest.
func cellStyle(f *excelize.File, sheet, cell string) *CellStyle {
	styleID, err := f.GetCellStyle(sheet, cell)
	if err != nil || styleID == 0 {
		return nil
	}
	style, err := f.GetStyle(styleID)
	if err != nil || style == nil {
		return nil
	}
	cs := &CellStyle{}
	if style.Font != nil && style.Font.Bold {
		cs.Bold = true
	}
	if style.Fill.Type == "pattern" && style.Fill.Pattern > 0 && len(style.Fill.Color) > 0 {
		cs.Filled = true
	}
	if style.CustomNumFmt != nil {
		cs.NumFmt = *style.CustomNumFmt
	} else if builtinDateNumFmts[style.NumFmt] {
		cs.Date = true
	}
	if *cs == (CellStyle{}) {
		return nil
	}
	return cs
}

// markMerged flags the top-left cell of every merged region.
func markMerged(f *excelize.File, sheet string, rows [][]Cell) error {
	merges, err := f.GetMergeCells(sheet)
	if err != nil {
		return fmt.Errorf("read merges of %q: %w", sheet, err)
	}
	for _, m := range merges {
		col, row, err := excelize.CellNameToCoordinates(m.GetStartAxis())
		if err != nil {
			continue
		}
		if row > len(rows) || col > len(rows[row-1]) {
			continue
		}
		cell := &rows[row-1][col-1]
		if cell.Style == nil {
			cell.Style = &CellStyle{}
		}
		cell.Style.Merged = true
	}
	return nil
}
