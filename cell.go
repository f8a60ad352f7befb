package gridscope

import "strings"

// Cell holds the content of one grid position as supplied by the caller.
// Value carries the raw content: a literal, or formula text starting with
// "=". Display carries the rendered value when the caller has one, and
// Style the subset of styling the analysis heuristics look at.
type Cell struct {
	Value   string
	Display string
	Style   *CellStyle
}

// CellStyle is the styling subset relevant to labeling and date detection.
type CellStyle struct {
	Bold   bool
	Filled bool
	Merged bool
	// NumFmt is the cell's number format code, e.g. "yyyy-mm-dd".
	NumFmt string
	// Date marks the cell as date-formatted regardless of NumFmt. Loaders
	// set it for builtin date format ids that have no format code.
	Date bool
}

// Grid is one immutable snapshot of a multi-sheet cell grid. Sheets maps a
// sheet name to its rows; rows and columns are 0-indexed in the slices and
// 1-based everywhere else in the API. Rows may be jagged.
type Grid struct {
	// Primary is the sheet unqualified references resolve against. When
	// empty and exactly one sheet is present, that sheet is used.
	Primary string
	Sheets  map[string][][]Cell
}

// NewGrid returns an empty grid with the given primary sheet. An empty
// primary creates no sheet, leaving resolution to the single-sheet default.
func NewGrid(primary string) *Grid {
	g := &Grid{Primary: primary, Sheets: map[string][][]Cell{}}
	if primary != "" {
		g.Sheets[primary] = [][]Cell{}
	}
	return g
}

// Set places a cell at a 1-based row and column, growing the sheet as
// needed. It is primarily a convenience for building snapshots by hand.
func (g *Grid) Set(sheet string, row, col int, cell Cell) {
	if row < 1 || col < 1 {
		return
	}
	if g.Sheets == nil {
		g.Sheets = map[string][][]Cell{}
	}
	rows := g.Sheets[sheet]
	for len(rows) < row {
		rows = append(rows, nil)
	}
	r := rows[row-1]
	for len(r) < col {
		r = append(r, Cell{})
	}
	r[col-1] = cell
	rows[row-1] = r
	g.Sheets[sheet] = rows
}

// cell returns the cell at a 1-based position, or nil when out of range.
func (g *Grid) cell(sheet string, row, col int) *Cell {
	rows, ok := g.Sheets[sheet]
	if !ok || row < 1 || col < 1 || row > len(rows) {
		return nil
	}
	r := rows[row-1]
	if col > len(r) {
		return nil
	}
	return &r[col-1]
}

// content returns the text a human would read in the cell: the display
// value when present, otherwise the raw value.
func (c *Cell) content() string {
	if c == nil {
		return ""
	}
	if s := strings.TrimSpace(c.Display); s != "" {
		return s
	}
	return strings.TrimSpace(c.Value)
}

// isFormula reports whether the cell's raw content is formula text.
func (c *Cell) isFormula() bool {
	if c == nil {
		return false
	}
	v := strings.TrimSpace(c.Value)
	return len(v) > 1 && v[0] == '='
}

// formulaBody returns the formula text without the leading "=".
func (c *Cell) formulaBody() string {
	return strings.TrimPrefix(strings.TrimSpace(c.Value), "=")
}

// isEmpty reports whether the cell has no meaningful content.
func (c *Cell) isEmpty() bool {
	return c == nil || (strings.TrimSpace(c.Value) == "" && strings.TrimSpace(c.Display) == "")
}

func (c *Cell) bold() bool   { return c != nil && c.Style != nil && c.Style.Bold }
func (c *Cell) merged() bool { return c != nil && c.Style != nil && c.Style.Merged }
func (c *Cell) filled() bool { return c != nil && c.Style != nil && c.Style.Filled }
