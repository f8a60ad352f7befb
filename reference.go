package gridscope

import (
	"errors"
	"fmt"
	"iter"
	"strconv"
	"strings"

	"github.com/xuri/efp"
)

// ErrColumnNumber is returned when a column number is out of range.
var ErrColumnNumber = errors.New("gridscope: column number out of range")

// maxRangeCells bounds single range expansion so a mistyped reference like
// A1:A1048576 cannot blow up the node set. Cells beyond the cap are dropped
// the same way malformed tokens are.
const maxRangeCells = 65536

// CellReference is one parsed cell reference: an optional sheet qualifier
// (empty means the primary sheet), a 1-based position, and an absolute flag
// per axis.
type CellReference struct {
	Sheet  string
	Row    int
	Col    int
	RowAbs bool
	ColAbs bool
}

// Address returns the A1-style address without the sheet qualifier.
func (r CellReference) Address() string {
	name, _ := ColumnNumberToName(r.Col)
	return name + strconv.Itoa(r.Row)
}

// Key returns the node key "Sheet!A1", resolving an empty sheet against the
// given default.
func (r CellReference) Key(defaultSheet string) string {
	sheet := r.Sheet
	if sheet == "" {
		sheet = defaultSheet
	}
	return sheet + "!" + r.Address()
}

// ColumnNameToNumber converts an alphabet column name to a 1-based number,
// so A is 1, Z is 26 and AA is 27.
func ColumnNameToNumber(name string) (int, error) {
	if name == "" {
		return -1, fmt.Errorf("invalid column name %q", name)
	}
	col := 0
	for _, ch := range name {
		switch {
		case ch >= 'A' && ch <= 'Z':
			col = col*26 + int(ch-'A') + 1
		case ch >= 'a' && ch <= 'z':
			col = col*26 + int(ch-'a') + 1
		default:
			return -1, fmt.Errorf("invalid column name %q", name)
		}
	}
	return col, nil
}

// ColumnNumberToName converts a 1-based column number to its alphabet name,
// the inverse of ColumnNameToNumber.
func ColumnNumberToName(num int) (string, error) {
	if num < 1 {
		return "", ErrColumnNumber
	}
	var name string
	for num > 0 {
		name = string(rune((num-1)%26+'A')) + name
		num = (num - 1) / 26
	}
	return name, nil
}

// CellNameToCoordinates converts an A1-style address to 1-based column and
// row numbers. Absolute markers are accepted and ignored.
func CellNameToCoordinates(cell string) (int, int, error) {
	ref, ok := parseAddress(cell)
	if !ok {
		return -1, -1, fmt.Errorf("invalid cell name %q", cell)
	}
	return ref.Col, ref.Row, nil
}

// CoordinatesToCellName converts 1-based column and row numbers to an
// A1-style address.
func CoordinatesToCellName(col, row int) (string, error) {
	if col < 1 || row < 1 {
		return "", fmt.Errorf("invalid coordinates [%d, %d]", col, row)
	}
	name, err := ColumnNumberToName(col)
	if err != nil {
		return "", err
	}
	return name + strconv.Itoa(row), nil
}

// References returns a lazy, restartable sequence of the cell references in
// a formula, in scan order. Ranges are expanded into their constituent
// cells row by row. Malformed tokens are skipped; the sequence is never an
// error. The formula may carry a leading "=".
func References(formula string) iter.Seq[CellReference] {
	return func(yield func(CellReference) bool) {
		ps := efp.ExcelParser()
		tokens := ps.Parse(strings.TrimPrefix(strings.TrimSpace(formula), "="))
		if tokens == nil {
			return
		}
		for _, token := range tokens {
			if token.TType != efp.TokenTypeOperand || token.TSubType != efp.TokenSubTypeRange {
				continue
			}
			for _, ref := range expandRangeToken(token.TValue) {
				if !yield(ref) {
					return
				}
			}
		}
	}
}

// expandRangeToken parses one efp range operand, which may be a single
// reference like 'P&L'!$B$2 or a range like A1:C3, into its constituent
// cell references. Column-only and row-only ranges and anything else that
// does not parse are skipped.
func expandRangeToken(value string) []CellReference {
	parts := strings.Split(value, ":")
	if len(parts) == 1 {
		if ref, ok := parseQualifiedRef(value); ok {
			return []CellReference{ref}
		}
		return nil
	}
	if len(parts) != 2 {
		return nil
	}
	start, ok := parseQualifiedRef(parts[0])
	if !ok {
		return nil
	}
	end, ok := parseQualifiedRef(parts[1])
	if !ok {
		return nil
	}
	// Cross-sheet ranges like Sheet2!A1:A3 qualify only the first endpoint.
	if end.Sheet == "" {
		end.Sheet = start.Sheet
	}
	if start.Sheet != end.Sheet {
		return nil
	}
	if start.Row > end.Row {
		start.Row, end.Row = end.Row, start.Row
	}
	if start.Col > end.Col {
		start.Col, end.Col = end.Col, start.Col
	}
	if (end.Row-start.Row+1)*(end.Col-start.Col+1) > maxRangeCells {
		return nil
	}
	refs := make([]CellReference, 0, (end.Row-start.Row+1)*(end.Col-start.Col+1))
	for row := start.Row; row <= end.Row; row++ {
		for col := start.Col; col <= end.Col; col++ {
			refs = append(refs, CellReference{
				Sheet:  start.Sheet,
				Row:    row,
				Col:    col,
				RowAbs: start.RowAbs,
				ColAbs: start.ColAbs,
			})
		}
	}
	return refs
}

// parseQualifiedRef parses a single reference with an optional sheet
// qualifier, e.g. $A$1, Sheet2!B3 or 'My Sheet'!C4.
func parseQualifiedRef(value string) (CellReference, bool) {
	value = strings.TrimSpace(value)
	sheet := ""
	if i := strings.LastIndex(value, "!"); i >= 0 {
		sheet = strings.TrimSpace(value[:i])
		value = value[i+1:]
		if strings.HasPrefix(sheet, "'") && strings.HasSuffix(sheet, "'") && len(sheet) > 1 {
			sheet = strings.ReplaceAll(sheet[1:len(sheet)-1], "''", "'")
		}
		if sheet == "" {
			return CellReference{}, false
		}
	}
	ref, ok := parseAddress(value)
	if !ok {
		return CellReference{}, false
	}
	ref.Sheet = sheet
	return ref, true
}

// parseAddress parses an A1-style address with optional absolute markers on
// either axis.
func parseAddress(addr string) (CellReference, bool) {
	var ref CellReference
	i := 0
	if i < len(addr) && addr[i] == '$' {
		ref.ColAbs = true
		i++
	}
	colStart := i
	for i < len(addr) && ((addr[i] >= 'A' && addr[i] <= 'Z') || (addr[i] >= 'a' && addr[i] <= 'z')) {
		i++
	}
	if i == colStart {
		return CellReference{}, false
	}
	col, err := ColumnNameToNumber(addr[colStart:i])
	if err != nil {
		return CellReference{}, false
	}
	if i < len(addr) && addr[i] == '$' {
		ref.RowAbs = true
		i++
	}
	rowStart := i
	for i < len(addr) && addr[i] >= '0' && addr[i] <= '9' {
		i++
	}
	if i != len(addr) || rowStart == len(addr) {
		return CellReference{}, false
	}
	row, err := strconv.Atoi(addr[rowStart:])
	if err != nil || row < 1 {
		return CellReference{}, false
	}
	ref.Col, ref.Row = col, row
	return ref, true
}

// nodeKey builds the canonical "Sheet!A1" key for a grid position.
func nodeKey(sheet string, col, row int) string {
	name, _ := CoordinatesToCellName(col, row)
	return sheet + "!" + name
}

// splitKey is the inverse of nodeKey. The second result is false for keys
// that do not carry a valid address.
func splitKey(key string) (sheet string, col, row int, ok bool) {
	i := strings.LastIndex(key, "!")
	if i < 0 {
		return "", 0, 0, false
	}
	col, row, err := CellNameToCoordinates(key[i+1:])
	if err != nil {
		return "", 0, 0, false
	}
	return key[:i], col, row, true
}
